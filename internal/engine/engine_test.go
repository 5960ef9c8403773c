package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-trust-engine/internal/models"
)

func createTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng := NewEngine(DefaultConfig())
	t.Cleanup(eng.Close)
	return eng
}

func createTrustedProfile() *models.ReviewerProfile {
	profile := models.DefaultReviewerProfile()
	profile.AccountAgeDays = 500
	profile.ReviewCount = 40
	profile.ProfilePhoto = true
	profile.VerifiedEmail = true
	profile.LocationDiversity = 0.8
	return &profile
}

func createSuspiciousProfile() *models.ReviewerProfile {
	profile := models.DefaultReviewerProfile()
	profile.AccountAgeDays = 5
	profile.ReviewCount = 1
	profile.LocationDiversity = 0.1
	return &profile
}

func TestEngine_AnalyzeReview(t *testing.T) {
	eng := createTestEngine(t)

	assessment, err := eng.AnalyzeReview(context.Background(),
		"We stopped by for lunch and the soup of the day was genuinely comforting on a rainy afternoon.",
		createTrustedProfile(), nil)
	require.NoError(t, err)
	require.NotNil(t, assessment)

	assert.NotEmpty(t, assessment.ID)
	assert.GreaterOrEqual(t, assessment.TrustScore, 0.0)
	assert.LessOrEqual(t, assessment.TrustScore, 1.0)
	assert.GreaterOrEqual(t, assessment.FakeProbability, 0.0)
	assert.LessOrEqual(t, assessment.FakeProbability, 1.0)
	assert.GreaterOrEqual(t, assessment.AuthenticityScore, 0.0)
	assert.LessOrEqual(t, assessment.AuthenticityScore, 1.0)
	assert.NotEmpty(t, assessment.TrustCategory)
	assert.NotEmpty(t, assessment.Explanation)
	assert.False(t, assessment.CreatedAt.IsZero())
}

func TestEngine_AnalyzeReviewOrdering(t *testing.T) {
	eng := createTestEngine(t)
	ctx := context.Background()
	text := "The schnitzel was properly crispy and the side salad came with a homemade dressing."

	trusted, err := eng.AnalyzeReview(ctx, text, createTrustedProfile(), nil)
	require.NoError(t, err)

	suspicious, err := eng.AnalyzeReview(ctx, text, createSuspiciousProfile(), nil)
	require.NoError(t, err)

	assert.Greater(t, trusted.TrustScore, suspicious.TrustScore)
	assert.Less(t, trusted.FakeProbability, suspicious.FakeProbability)
}

func TestEngine_AnalyzeReviewDeterministic(t *testing.T) {
	eng := createTestEngine(t)
	ctx := context.Background()
	text := "Quiet on weekdays, packed on weekends. Book ahead for the terrace."
	profile := createTrustedProfile()

	first, err := eng.AnalyzeReview(ctx, text, profile, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := eng.AnalyzeReview(ctx, text, profile, nil)
		require.NoError(t, err)
		assert.Equal(t, first.TrustScore, next.TrustScore)
		assert.Equal(t, first.FakeProbability, next.FakeProbability)
		assert.Equal(t, first.AuthenticityScore, next.AuthenticityScore)
	}
}

func TestEngine_AnalyzeReviewUsesCache(t *testing.T) {
	eng := createTestEngine(t)
	ctx := context.Background()
	text := "The ramen broth had real depth and the noodles held their bite."

	first, err := eng.AnalyzeReview(ctx, text, nil, nil)
	require.NoError(t, err)

	second, err := eng.AnalyzeReview(ctx, text, nil, nil)
	require.NoError(t, err)

	// Cache hit returns the identical assessment
	assert.Same(t, first, second)
	assert.GreaterOrEqual(t, eng.GetStats().Cache.Hits, int64(1))
}

func TestEngine_AnalyzeReviewEmptyText(t *testing.T) {
	eng := createTestEngine(t)

	assessment, err := eng.AnalyzeReview(context.Background(), "", nil, nil)
	require.NoError(t, err)

	// Empty text is itself suspicious, not an error
	assert.InDelta(t, 0.64, assessment.FakeProbability, 0.001)
}

func TestEngine_AnalyzeBulkReviews(t *testing.T) {
	eng := createTestEngine(t)

	reviews := []models.Review{
		{Text: "The brunch menu changes with the seasons and the staff can tell you where the produce comes from.", Reviewer: createTrustedProfile()},
		{Text: "AMAZING AMAZING AMAZING! Best place ever!", Reviewer: createSuspiciousProfile()},
		{Text: "Solid burgers, fries could be crispier, but the milkshakes make up for it.", Reviewer: createTrustedProfile()},
	}

	result, err := eng.AnalyzeBulkReviews(context.Background(), reviews, nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.IndividualResults, 3)
	for i, outcome := range result.IndividualResults {
		assert.True(t, outcome.Success, "review %d should succeed", i)
		require.NotNil(t, outcome.Assessment)
	}

	assert.Equal(t, 3, result.Summary.TotalReviews)
	assert.GreaterOrEqual(t, result.LocationTrustScore, 0.0)
	assert.LessOrEqual(t, result.LocationTrustScore, 1.0)
	assert.NotNil(t, result.Anomalies)
	assert.Greater(t, result.ProcessingTime, time.Duration(0))

	// Results stay in input order
	assert.Greater(t, result.IndividualResults[0].Assessment.TrustScore,
		result.IndividualResults[1].Assessment.TrustScore)
}

func TestEngine_AnalyzeBulkReviewsEmpty(t *testing.T) {
	eng := createTestEngine(t)

	_, err := eng.AnalyzeBulkReviews(context.Background(), nil, nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestEngine_AnalyzeBulkReviewsLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxBulkReviews = 3
	eng := NewEngine(config)
	t.Cleanup(eng.Close)

	reviews := make([]models.Review, 4)
	for i := range reviews {
		reviews[i] = models.Review{Text: fmt.Sprintf("Review number %d about the lunch special.", i)}
	}

	_, err := eng.AnalyzeBulkReviews(context.Background(), reviews, nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestEngine_AnalyzeBulkReviewsFailedReviewReportedInPlace(t *testing.T) {
	eng := createTestEngine(t)

	reviews := []models.Review{
		{Text: "A fine meal with attentive service and sensible prices all around."},
		{Text: "Another fine meal, the seasonal vegetables were the highlight."},
	}

	result, err := eng.AnalyzeBulkReviews(context.Background(), reviews, nil)
	require.NoError(t, err)

	for _, outcome := range result.IndividualResults {
		assert.True(t, outcome.Success)
	}
	assert.Len(t, result.TrustTrends, 2)
}

func TestEngine_GetRiskFactorsDegenerateText(t *testing.T) {
	eng := createTestEngine(t)

	_, err := eng.GetRiskFactors("   ", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestEngine_GetAuthenticityFactorsEmptyText(t *testing.T) {
	eng := createTestEngine(t)

	_, err := eng.GetAuthenticityFactors(context.Background(), "")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestEngine_GetSentimentBreakdown(t *testing.T) {
	eng := createTestEngine(t)

	breakdown := eng.GetSentimentBreakdown(context.Background(), "Wonderful evening, excellent food.")

	assert.Equal(t, "positive", breakdown.Category)
}

func TestEngine_GetStats(t *testing.T) {
	eng := createTestEngine(t)
	ctx := context.Background()

	_, err := eng.AnalyzeReview(ctx, "The daily specials board is worth checking before ordering.", nil, nil)
	require.NoError(t, err)

	stats := eng.GetStats()

	assert.Equal(t, int64(1), stats.TotalAnalyses)
	assert.GreaterOrEqual(t, stats.AvgTrustScore, 0.0)
	assert.LessOrEqual(t, stats.AvgTrustScore, 1.0)
	assert.False(t, stats.LastAnalysis.IsZero())
}

func TestCalculateStatistics(t *testing.T) {
	assessments := make([]*models.TrustAssessment, 0, 3)
	for _, score := range []float64{0.9, 0.5, 0.2} {
		a := models.NewTrustAssessment()
		a.TrustScore = score
		a.AuthenticityScore = score
		a.FakeProbability = 1 - score
		assessments = append(assessments, a)
	}

	stats := CalculateStatistics(assessments)

	assert.Equal(t, 3, stats.TotalReviews)
	assert.InDelta(t, 0.533, stats.AvgTrustScore, 0.001)
	assert.Equal(t, 1, stats.TrustDistribution.High)
	assert.Equal(t, 1, stats.TrustDistribution.Medium)
	assert.Equal(t, 1, stats.TrustDistribution.Low)
}

func TestCalculateStatisticsEmpty(t *testing.T) {
	stats := CalculateStatistics(nil)

	assert.Equal(t, 0, stats.TotalReviews)
	assert.Equal(t, 0.0, stats.AvgTrustScore)
}

func TestExportResults(t *testing.T) {
	a := models.NewTrustAssessment()
	a.TrustScore = 0.75

	data, err := ExportResults([]*models.TrustAssessment{a})
	require.NoError(t, err)

	assert.Contains(t, string(data), "\"count\": 1")
	assert.Contains(t, string(data), a.ID)
}

func BenchmarkEngine_AnalyzeReview(b *testing.B) {
	eng := NewEngine(DefaultConfig())
	defer eng.Close()
	ctx := context.Background()
	profile := models.DefaultReviewerProfile()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Vary the text to defeat the cache
		text := fmt.Sprintf("Great food and excellent service, visit number %d was as good as the first.", i)
		eng.AnalyzeReview(ctx, text, &profile, nil)
	}
}
