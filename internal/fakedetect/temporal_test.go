package fakedetect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-trust-engine/internal/models"
)

func steadyTrends(count int, score float64) []models.TrustTrendPoint {
	trends := make([]models.TrustTrendPoint, 0, count)
	for i := 0; i < count; i++ {
		trends = append(trends, models.TrustTrendPoint{
			Timestamp:  fmt.Sprintf("2026-07-%02dT12:00:00Z", i%28+1),
			TrustScore: score,
		})
	}
	return trends
}

func TestDetector_DetectTemporalAnomaliesTooFewEntries(t *testing.T) {
	detector := createTestDetector()

	for count := 0; count < 10; count++ {
		anomalies := detector.DetectTemporalAnomalies(steadyTrends(count, 0.7))
		assert.NotNil(t, anomalies)
		assert.Empty(t, anomalies)
	}
}

func TestDetector_DetectTemporalAnomaliesUniformScores(t *testing.T) {
	detector := createTestDetector()

	// Identical scores, one point per day: nothing to flag
	anomalies := detector.DetectTemporalAnomalies(steadyTrends(20, 0.7))

	assert.Empty(t, anomalies)
}

func TestDetector_DetectTemporalAnomaliesScoreOutlier(t *testing.T) {
	detector := createTestDetector()

	trends := make([]models.TrustTrendPoint, 0, 11)
	for i := 0; i < 10; i++ {
		trends = append(trends, models.TrustTrendPoint{
			Timestamp:  fmt.Sprintf("2026-07-%02dT12:00:00Z", i+1),
			TrustScore: 0.8,
		})
	}
	trends = append(trends, models.TrustTrendPoint{
		Timestamp:  "2026-07-11T12:00:00Z",
		TrustScore: 0.1,
	})

	anomalies := detector.DetectTemporalAnomalies(trends)

	require.Len(t, anomalies, 1)
	assert.Equal(t, models.AnomalyScoreOutlier, anomalies[0].AnomalyType)
	assert.Equal(t, "2026-07-11T12:00:00Z", anomalies[0].Timestamp)
	assert.Equal(t, 0.1, anomalies[0].TrustScore)
	assert.Greater(t, anomalies[0].Severity, 0.0)
	assert.LessOrEqual(t, anomalies[0].Severity, 1.0)
}

func TestDetector_DetectTemporalAnomaliesReviewBombing(t *testing.T) {
	detector := createTestDetector()

	// Thirty quiet days, then fifteen reviews land on one day
	trends := make([]models.TrustTrendPoint, 0, 45)
	for day := 1; day <= 30; day++ {
		trends = append(trends, models.TrustTrendPoint{
			Timestamp:  fmt.Sprintf("2026-06-%02dT09:00:00Z", day),
			TrustScore: 0.5,
		})
	}
	for i := 0; i < 15; i++ {
		trends = append(trends, models.TrustTrendPoint{
			Timestamp:  fmt.Sprintf("2026-07-01T%02d:00:00Z", i),
			TrustScore: 0.5,
		})
	}

	anomalies := detector.DetectTemporalAnomalies(trends)

	require.Len(t, anomalies, 1)
	bombing := anomalies[0]
	assert.Equal(t, models.AnomalyReviewBombing, bombing.AnomalyType)
	assert.Equal(t, "2026-07-01", bombing.Timestamp)
	assert.Equal(t, 15, bombing.ReviewCount)
	assert.InDelta(t, 0.5, bombing.TrustScore, 0.001)
	assert.Equal(t, 1.0, bombing.Severity)
}

func TestDetector_DetectTemporalAnomaliesBothKinds(t *testing.T) {
	detector := createTestDetector()

	trends := make([]models.TrustTrendPoint, 0, 40)
	for day := 1; day <= 30; day++ {
		trends = append(trends, models.TrustTrendPoint{
			Timestamp:  fmt.Sprintf("2026-06-%02dT09:00:00Z", day),
			TrustScore: 0.7,
		})
	}
	// Burst day of uniformly dreadful scores
	for i := 0; i < 5; i++ {
		trends = append(trends, models.TrustTrendPoint{
			Timestamp:  fmt.Sprintf("2026-07-01T%02d:00:00Z", i),
			TrustScore: 0.05,
		})
	}

	anomalies := detector.DetectTemporalAnomalies(trends)

	outliers := 0
	bombings := 0
	for _, anomaly := range anomalies {
		switch anomaly.AnomalyType {
		case models.AnomalyScoreOutlier:
			outliers++
		case models.AnomalyReviewBombing:
			bombings++
		}
	}

	assert.Greater(t, outliers, 0)
	assert.Equal(t, 1, bombings)
}

func TestDetector_DetectTemporalAnomaliesDeterministic(t *testing.T) {
	detector := createTestDetector()

	trends := make([]models.TrustTrendPoint, 0, 40)
	for day := 1; day <= 20; day++ {
		trends = append(trends, models.TrustTrendPoint{
			Timestamp:  fmt.Sprintf("2026-06-%02d 09:00:00", day),
			TrustScore: float64(day%10) / 10.0,
		})
	}
	for i := 0; i < 20; i++ {
		trends = append(trends, models.TrustTrendPoint{
			Timestamp:  "2026-06-05 12:00:00",
			TrustScore: 0.4,
		})
	}

	first := detector.DetectTemporalAnomalies(trends)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, detector.DetectTemporalAnomalies(trends))
	}
}
