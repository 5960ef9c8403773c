package trust

import (
	"math"
	"sort"
	"strings"

	"review-trust-engine/internal/models"
)

// Weights holds the fixed fusion weights for the final trust score.
// Injected at construction; never mutated.
type Weights struct {
	Authenticity        float64 `yaml:"authenticity" json:"authenticity"`
	SentimentQuality    float64 `yaml:"sentiment_quality" json:"sentiment_quality"`
	ReviewerCredibility float64 `yaml:"reviewer_credibility" json:"reviewer_credibility"`
	ContentQuality      float64 `yaml:"content_quality" json:"content_quality"`
	TemporalConsistency float64 `yaml:"temporal_consistency" json:"temporal_consistency"`
}

// DefaultWeights returns the tuned production weights
func DefaultWeights() Weights {
	return Weights{
		Authenticity:        0.25,
		SentimentQuality:    0.20,
		ReviewerCredibility: 0.25,
		ContentQuality:      0.15,
		TemporalConsistency: 0.15,
	}
}

// specificityTerms is the fixed domain vocabulary used to distinguish
// specific reviews from generic ones
var specificityTerms = []string{
	"time", "date", "price", "name", "location", "menu",
	"staff", "atmosphere", "service", "quality", "experience", "recommend",
}

// Scorer fuses the independent signal scores into the final trust score
// for one review, and aggregates many reviews into a location score.
type Scorer struct {
	weights Weights
}

// NewScorer creates a trust scorer with the given fusion weights
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// CalculateTrustScore fuses all signals into the final [0,1] trust score
// for a single review
func (s *Scorer) CalculateTrustScore(
	text string,
	sentimentScore models.SentimentResult,
	authenticityScore, fakeProbability float64,
	profile *models.ReviewerProfile,
	location *models.LocationProfile,
) float64 {
	sentimentQuality := s.SentimentQuality(sentimentScore)
	contentQuality := s.ContentQuality(text)

	reviewerCredibility := 1.0
	if profile != nil {
		reviewerCredibility = s.ReviewerCredibility(profile)
	}

	temporalConsistency := s.TemporalConsistency(profile, location)

	fakeAdjusted := math.Max(0, 1.0-fakeProbability)
	combinedAuthenticity := (authenticityScore + fakeAdjusted) / 2

	score := combinedAuthenticity*s.weights.Authenticity +
		sentimentQuality*s.weights.SentimentQuality +
		reviewerCredibility*s.weights.ReviewerCredibility +
		contentQuality*s.weights.ContentQuality +
		temporalConsistency*s.weights.TemporalConsistency

	// Extremely suspicious reviews take a hard penalty
	if fakeProbability > 0.8 {
		score *= 0.5
	}

	return clamp01(score)
}

// SentimentQuality scores how usable the sentiment signal is: confident
// analysis of moderately subjective text ranks highest
func (s *Scorer) SentimentQuality(sentimentScore models.SentimentResult) float64 {
	quality := sentimentScore.Confidence*0.7 +
		(1-math.Abs(sentimentScore.Subjectivity-0.5))*0.3
	return clamp01(quality)
}

// ContentQuality scores length appropriateness, specificity against the
// domain vocabulary, and readability
func (s *Scorer) ContentQuality(text string) float64 {
	if len(strings.TrimSpace(text)) < 5 {
		return 0.2
	}

	wordCount := len(strings.Fields(text))
	var lengthScore float64
	switch {
	case wordCount >= 10 && wordCount <= 150:
		lengthScore = 1.0
	case wordCount >= 5 && wordCount <= 200:
		lengthScore = 0.8
	default:
		lengthScore = 0.4
	}

	lower := strings.ToLower(text)
	specificity := 0
	for _, term := range specificityTerms {
		if strings.Contains(lower, term) {
			specificity++
		}
	}
	specificityScore := math.Min(1, float64(specificity)/5)

	readabilityScore := 0.5
	if mean, ok := meanSentenceLength(text); ok {
		if mean >= 5 && mean <= 25 {
			readabilityScore = 1.0
		} else {
			readabilityScore = 0.7
		}
	}

	return clamp01(lengthScore*0.4 + specificityScore*0.4 + readabilityScore*0.2)
}

// ReviewerCredibility scores account maturity, review history,
// profile completeness, and location diversity
func (s *Scorer) ReviewerCredibility(profile *models.ReviewerProfile) float64 {
	var ageScore float64
	switch age := profile.AccountAgeDays; {
	case age > 365:
		ageScore = 1.0
	case age > 180:
		ageScore = 0.8
	case age > 90:
		ageScore = 0.6
	case age > 30:
		ageScore = 0.4
	default:
		ageScore = 0.2
	}

	var historyScore float64
	switch count := profile.ReviewCount; {
	case count > 50:
		historyScore = 1.0
	case count > 20:
		historyScore = 0.8
	case count > 10:
		historyScore = 0.6
	case count > 5:
		historyScore = 0.4
	default:
		historyScore = 0.2
	}

	profileScore := 0.0
	if profile.ProfilePhoto {
		profileScore += 0.25
	}
	if profile.VerifiedEmail {
		profileScore += 0.25
	}
	if profile.VerifiedPhone {
		profileScore += 0.25
	}
	if profile.Bio != "" {
		profileScore += 0.25
	}

	diversityScore := math.Min(1, profile.LocationDiversity)

	credibility := ageScore*0.3 + historyScore*0.3 + profileScore*0.2 + diversityScore*0.2
	return clamp01(credibility)
}

// TemporalConsistency penalizes unnaturally frequent or clustered
// posting. The location profile is reserved for future use.
func (s *Scorer) TemporalConsistency(profile *models.ReviewerProfile, _ *models.LocationProfile) float64 {
	consistency := 1.0

	if profile != nil {
		perDay := profile.ReviewsPerDay()
		if perDay > 3 {
			consistency -= 0.4
		} else if perDay > 1 {
			consistency -= 0.2
		}

		if len(profile.RecentReviews) > 5 {
			recent := profile.RecentReviews
			if len(recent) > 10 {
				recent = recent[len(recent)-10:]
			}

			days := make(map[string]struct{})
			for _, review := range recent {
				if review.Date == "" {
					continue
				}
				days[strings.SplitN(review.Date, " ", 2)[0]] = struct{}{}
			}

			// Many reviews crammed into few distinct days
			if float64(len(days)) < float64(len(recent))/2 {
				consistency -= 0.3
			}
		}
	}

	return clamp01(consistency)
}

// CalculateLocationTrust aggregates per-review outcomes into one location
// score, trimming outliers and discounting toward the neutral prior 0.5
// when the sample is small. No usable results returns exactly 0.5.
func (s *Scorer) CalculateLocationTrust(outcomes []models.AnalysisOutcome) float64 {
	if len(outcomes) == 0 {
		return 0.5
	}

	scores := make([]float64, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Success && outcome.Assessment != nil {
			scores = append(scores, outcome.Assessment.TrustScore)
		}
	}
	if len(scores) == 0 {
		return 0.5
	}

	successCount := len(scores)

	// Trim extreme outliers from large samples
	if len(scores) > 20 {
		sorted := append([]float64(nil), scores...)
		sort.Float64s(sorted)
		trim := len(sorted) / 20
		if trim < 1 {
			trim = 1
		}
		scores = sorted[trim : len(sorted)-trim]
	}

	sum := 0.0
	for _, score := range scores {
		sum += score
	}
	mean := sum / float64(len(scores))

	// Confidence discount: small samples pull toward the neutral prior
	confidence := math.Min(1, float64(successCount)/50)
	adjusted := mean*confidence + 0.5*(1-confidence)

	return clamp01(adjusted)
}

// Category maps a trust score to its display label
func (s *Scorer) Category(trustScore float64) string {
	switch {
	case trustScore >= 0.8:
		return "highly_trusted"
	case trustScore >= 0.6:
		return "trusted"
	case trustScore >= 0.4:
		return "moderate"
	case trustScore >= 0.2:
		return "low_trust"
	default:
		return "untrusted"
	}
}

var categoryExplanations = map[string]string{
	"highly_trusted": "This review shows strong indicators of authenticity and reliability.",
	"trusted":        "This review appears genuine with good credibility indicators.",
	"moderate":       "This review has mixed trust signals and should be considered with caution.",
	"low_trust":      "This review shows several suspicious patterns and may not be reliable.",
	"untrusted":      "This review exhibits many characteristics of fake or manipulated content.",
}

// Explanation renders the human-readable assessment summary, appending
// concern clauses for notably weak components
func (s *Scorer) Explanation(trustScore, authenticityScore, fakeProbability, reviewerCredibility float64) string {
	explanation, ok := categoryExplanations[s.Category(trustScore)]
	if !ok {
		explanation = "Trust assessment completed."
	}

	var concerns []string
	if authenticityScore < 0.3 {
		concerns = append(concerns, "low authenticity score")
	}
	if fakeProbability > 0.7 {
		concerns = append(concerns, "high fake probability")
	}
	if reviewerCredibility < 0.3 {
		concerns = append(concerns, "low reviewer credibility")
	}

	if len(concerns) > 0 {
		explanation += " Key concerns: " + strings.Join(concerns, ", ") + "."
	}

	return explanation
}

func meanSentenceLength(text string) (float64, bool) {
	parts := strings.Split(text, ".")
	sentences := 0
	words := 0
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		sentences++
		words += len(strings.Fields(trimmed))
	}
	if sentences == 0 {
		return 0, false
	}
	return float64(words) / float64(sentences), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
