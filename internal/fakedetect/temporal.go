package fakedetect

import (
	"math"
	"strings"

	"review-trust-engine/internal/models"
)

// minTrendEntries is the minimum number of trend points needed before
// anomaly detection is statistically meaningful
const minTrendEntries = 10

// DetectTemporalAnomalies flags statistical outliers and review-bombing
// volume spikes in an ordered trust-score stream. Fewer than ten entries
// returns an empty result: insufficient data is not an error. Both anomaly
// kinds may fire for the same data; results are concatenated.
func (d *Detector) DetectTemporalAnomalies(trends []models.TrustTrendPoint) []models.Anomaly {
	anomalies := make([]models.Anomaly, 0)
	if len(trends) < minTrendEntries {
		return anomalies
	}

	scores := make([]float64, len(trends))
	for i, trend := range trends {
		scores[i] = trend.TrustScore
	}

	mean, stdDev := meanStdDev(scores)

	if stdDev > 0 {
		for _, trend := range trends {
			z := math.Abs(trend.TrustScore-mean) / stdDev
			if z > 2 {
				anomalies = append(anomalies, models.Anomaly{
					Timestamp:   trend.Timestamp,
					TrustScore:  trend.TrustScore,
					AnomalyType: models.AnomalyScoreOutlier,
					Severity:    math.Min(1, z/3),
				})
			}
		}
	}

	anomalies = append(anomalies, d.detectReviewBombing(trends)...)
	return anomalies
}

// detectReviewBombing groups the stream by calendar day and flags days
// whose volume exceeds three times the mean daily volume
func (d *Detector) detectReviewBombing(trends []models.TrustTrendPoint) []models.Anomaly {
	anomalies := make([]models.Anomaly, 0)

	// Group by day, preserving first-seen day order for determinism
	days := make([]string, 0)
	byDay := make(map[string][]models.TrustTrendPoint)
	for _, trend := range trends {
		day := dayOf(trend.Timestamp)
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], trend)
	}

	total := 0
	for _, day := range days {
		total += len(byDay[day])
	}
	if len(days) == 0 {
		return anomalies
	}
	meanDaily := float64(total) / float64(len(days))

	for _, day := range days {
		entries := byDay[day]
		count := float64(len(entries))
		if count <= meanDaily*3 {
			continue
		}

		scoreSum := 0.0
		for _, entry := range entries {
			scoreSum += entry.TrustScore
		}

		anomalies = append(anomalies, models.Anomaly{
			Timestamp:   day,
			TrustScore:  scoreSum / count,
			AnomalyType: models.AnomalyReviewBombing,
			Severity:    math.Min(1, count/(meanDaily*5)),
			ReviewCount: len(entries),
		})
	}

	return anomalies
}

// dayOf extracts the calendar-day portion of an ISO-8601 timestamp,
// splitting on "T" or space
func dayOf(timestamp string) string {
	if i := strings.IndexByte(timestamp, 'T'); i >= 0 {
		return timestamp[:i]
	}
	if i := strings.IndexByte(timestamp, ' '); i >= 0 {
		return timestamp[:i]
	}
	return timestamp
}

func meanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}
