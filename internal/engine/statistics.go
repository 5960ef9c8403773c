package engine

import (
	"encoding/json"
	"time"

	"review-trust-engine/internal/models"
)

// TrustDistribution buckets assessments by trust score
type TrustDistribution struct {
	High   int `json:"high"`   // >= 0.7
	Medium int `json:"medium"` // 0.4 to 0.7
	Low    int `json:"low"`    // < 0.4
}

// ReviewStatistics aggregates a batch of assessments
type ReviewStatistics struct {
	TotalReviews       int               `json:"total_reviews"`
	AvgTrustScore      float64           `json:"avg_trust_score"`
	AvgSentiment       float64           `json:"avg_sentiment"`
	AvgAuthenticity    float64           `json:"avg_authenticity"`
	AvgFakeProbability float64           `json:"avg_fake_probability"`
	TrustDistribution  TrustDistribution `json:"trust_distribution"`
}

// CalculateStatistics computes aggregate statistics over assessments.
// Nil entries are skipped.
func CalculateStatistics(assessments []*models.TrustAssessment) ReviewStatistics {
	stats := ReviewStatistics{}

	var trustSum, sentimentSum, authSum, fakeSum float64
	for _, a := range assessments {
		if a == nil {
			continue
		}
		stats.TotalReviews++
		trustSum += a.TrustScore
		sentimentSum += a.SentimentScore.OverallScore
		authSum += a.AuthenticityScore
		fakeSum += a.FakeProbability

		switch {
		case a.TrustScore >= 0.7:
			stats.TrustDistribution.High++
		case a.TrustScore >= 0.4:
			stats.TrustDistribution.Medium++
		default:
			stats.TrustDistribution.Low++
		}
	}

	if stats.TotalReviews > 0 {
		n := float64(stats.TotalReviews)
		stats.AvgTrustScore = trustSum / n
		stats.AvgSentiment = sentimentSum / n
		stats.AvgAuthenticity = authSum / n
		stats.AvgFakeProbability = fakeSum / n
	}

	return stats
}

// ExportEnvelope wraps assessments for export
type ExportEnvelope struct {
	ExportedAt time.Time                 `json:"exported_at"`
	Count      int                       `json:"count"`
	Statistics ReviewStatistics          `json:"statistics"`
	Results    []*models.TrustAssessment `json:"results"`
}

// ExportResults serializes assessments with their aggregate statistics
func ExportResults(assessments []*models.TrustAssessment) ([]byte, error) {
	envelope := ExportEnvelope{
		ExportedAt: time.Now(),
		Count:      len(assessments),
		Statistics: CalculateStatistics(assessments),
		Results:    assessments,
	}
	return json.MarshalIndent(envelope, "", "  ")
}
