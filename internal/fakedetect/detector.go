package fakedetect

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"review-trust-engine/internal/models"
)

// CombinerWeights fuses the three suspicion signals into a fake
// probability. Fixed configuration, injected at construction.
type CombinerWeights struct {
	Text     float64 `yaml:"text" json:"text"`
	Behavior float64 `yaml:"behavior" json:"behavior"`
	Network  float64 `yaml:"network" json:"network"`

	// Used when no reviewer profile is supplied
	TextOnly    float64 `yaml:"text_only" json:"text_only"`
	NetworkOnly float64 `yaml:"network_only" json:"network_only"`
}

// DefaultCombinerWeights returns the tuned production weights
func DefaultCombinerWeights() CombinerWeights {
	return CombinerWeights{
		Text:        0.45,
		Behavior:    0.35,
		Network:     0.20,
		TextOnly:    0.80,
		NetworkOnly: 0.20,
	}
}

// Detector scores reviews for fake-review probability by fusing text
// pattern analysis, reviewer behavior, and network clustering signals.
// All methods are pure: identical inputs yield identical output.
type Detector struct {
	weights CombinerWeights

	suspiciousPatterns []*regexp.Regexp
	genericPhrases     []string
	emotionalWords     []string
}

// NewDetector creates a fake-review detector with the given weights
func NewDetector(weights CombinerWeights) *Detector {
	return &Detector{
		weights: weights,
		suspiciousPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(buy|purchase|order)\b.*\b(recommend|suggest)\b`), // commercial language
			regexp.MustCompile(`(?i)\b(friends?|family)\b.*\b(love|recommend)\b`),       // fake social proof
			regexp.MustCompile(`(?i)\b(five|5)\s*star`),                                 // explicit rating mentions
			regexp.MustCompile(`(?i)\b(must try|must visit|must have)\b`),               // pressure language
		},
		genericPhrases: []string{
			"good service", "nice place", "friendly staff", "great food",
			"bad experience", "poor service", "would not recommend",
		},
		emotionalWords: []string{
			"amazing", "terrible", "perfect", "worst", "best", "horrible",
		},
	}
}

// DetectFakeReview calculates the probability that a review is fake.
// Internal analysis failures degrade to the uncertain default 0.5.
func (d *Detector) DetectFakeReview(text string, profile *models.ReviewerProfile) float64 {
	textSuspicion, err := d.TextSuspicion(text)
	if err != nil {
		log.Printf("text suspicion analysis failed, using uncertain default: %v", err)
		return 0.5
	}

	var combined float64
	if profile != nil {
		behaviorSuspicion := d.BehaviorSuspicion(profile)
		networkSuspicion := d.NetworkSuspicion(profile)
		combined = textSuspicion*d.weights.Text +
			behaviorSuspicion*d.weights.Behavior +
			networkSuspicion*d.weights.Network
	} else {
		// No reviewer context: lean on text evidence, score the network
		// signal from the neutral default profile
		neutral := models.DefaultReviewerProfile()
		combined = textSuspicion*d.weights.TextOnly +
			d.NetworkSuspicion(&neutral)*d.weights.NetworkOnly
	}

	return clamp01(combined)
}

// TextSuspicion scores review text against fake-review text indicators.
// Empty text short-circuits to 0.8: an empty review is itself suspicious.
func (d *Detector) TextSuspicion(text string) (float64, error) {
	if text == "" {
		return 0.8, nil
	}

	wordCount := len(strings.Fields(text))
	if wordCount == 0 {
		return 0, fmt.Errorf("review text contains no words")
	}

	score := 0.0

	for _, pattern := range d.suspiciousPatterns {
		if pattern.MatchString(text) {
			score += 0.2
		}
	}

	// Bot-like indicators
	if isVeryShort(text) {
		score += 0.25
	}
	if hasRepeatedCharacters(text, 4) {
		score += 0.25
	}
	tokens := wordPattern.FindAllString(text, -1)
	if maxConsecutiveRun(tokens) >= 2 {
		score += 0.25
	}

	if wordCount < 3 {
		score += 0.35
	} else if wordCount > 500 {
		score += 0.1
	}

	lower := strings.ToLower(text)
	generic := 0
	for _, phrase := range d.genericPhrases {
		if strings.Contains(lower, phrase) {
			generic++
		}
	}
	if generic >= 3 {
		score += 0.25
	}

	emotional := 0
	for _, word := range d.emotionalWords {
		if strings.Contains(lower, word) {
			emotional++
		}
	}
	if float64(emotional)/float64(wordCount) > 0.15 {
		score += 0.25
	}

	// "amazing amazing amazing" style repetition
	if maxConsecutiveRun(tokens) >= 3 {
		score += 0.2
	}

	return clamp01(score), nil
}

// BehaviorSuspicion scores a reviewer profile for suspicious
// account and activity patterns
func (d *Detector) BehaviorSuspicion(profile *models.ReviewerProfile) float64 {
	score := 0.0

	age := profile.AccountAgeDays
	count := profile.ReviewCount

	if age < 30 {
		score += 0.1
	}
	if age < 30 && count > 20 {
		score += 0.4
	} else if age < 90 && count > 50 {
		score += 0.3
	}

	if profile.ReviewsPerDay() > 2 {
		score += 0.3
	}

	switch profile.ProfileCompleteness() {
	case 0:
		score += 0.3
	case 1:
		score += 0.1
	}

	if len(profile.RecentReviews) >= 5 {
		if maxSameDayReviews(profile.RecentReviews) > 3 {
			score += 0.2
		}
	}

	return clamp01(score)
}

// NetworkSuspicion scores coordinated-behavior indicators supplied
// on the profile. This is a placeholder proportional to cluster sizes,
// not real account-graph analysis.
func (d *Detector) NetworkSuspicion(profile *models.ReviewerProfile) float64 {
	score := 0.0

	if len(profile.SimilarReviewers) > 10 {
		score += 0.3
	}
	if profile.IPClusterSize > 5 {
		score += 0.4
	}

	return clamp01(score)
}

// RiskFactors returns the detailed risk breakdown for a review.
// Unlike DetectFakeReview, degenerate text propagates as an error
// so the caller can report it instead of shipping a fabricated score.
func (d *Detector) RiskFactors(text string, profile *models.ReviewerProfile) (models.RiskFactors, error) {
	textScore, err := d.TextSuspicion(text)
	if err != nil {
		return models.RiskFactors{}, err
	}

	var behaviorScore, networkScore float64
	var ageRisk, frequencyRisk, completeness float64
	if profile != nil {
		behaviorScore = d.BehaviorSuspicion(profile)
		networkScore = d.NetworkSuspicion(profile)
		ageRisk = accountAgeRisk(profile)
		frequencyRisk = reviewFrequencyRisk(profile)
		completeness = profileIncompletenessRisk(profile)
	}

	overall := clamp01(textScore*d.weights.Text +
		behaviorScore*d.weights.Behavior +
		networkScore*d.weights.Network)

	return models.RiskFactors{
		TextSuspicion:       textScore,
		BehaviorSuspicion:   behaviorScore,
		NetworkSuspicion:    networkScore,
		OverallRisk:         overall,
		AccountAgeRisk:      ageRisk,
		ReviewFrequencyRisk: frequencyRisk,
		ProfileCompleteness: completeness,
	}, nil
}

func accountAgeRisk(profile *models.ReviewerProfile) float64 {
	switch age := profile.AccountAgeDays; {
	case age < 7:
		return 0.9
	case age < 30:
		return 0.6
	case age < 90:
		return 0.3
	default:
		return 0.1
	}
}

func reviewFrequencyRisk(profile *models.ReviewerProfile) float64 {
	perDay := profile.ReviewsPerDay()
	if perDay == 0 {
		return 0.5
	}
	switch {
	case perDay > 5:
		return 0.9
	case perDay > 2:
		return 0.6
	case perDay > 1:
		return 0.3
	default:
		return 0.1
	}
}

// profileIncompletenessRisk scales the share of missing profile fields
// down to a mild risk contribution
func profileIncompletenessRisk(profile *models.ReviewerProfile) float64 {
	complete := profile.ProfileCompleteness()
	if profile.Bio != "" {
		complete++
	}
	incompleteness := 1.0 - float64(complete)/4.0
	return incompleteness * 0.5
}

// maxSameDayReviews returns the largest number of recent reviews
// sharing one calendar day
func maxSameDayReviews(reviews []models.RecentReview) int {
	counts := make(map[string]int)
	best := 0
	for _, review := range reviews {
		if review.Date == "" {
			continue
		}
		day := strings.SplitN(review.Date, " ", 2)[0]
		counts[day]++
		if counts[day] > best {
			best = counts[day]
		}
	}
	return best
}

var wordPattern = regexp.MustCompile(`\w+`)

// isVeryShort reports whether the whole text is a single short line
func isVeryShort(text string) bool {
	if strings.Contains(text, "\n") {
		return false
	}
	n := len([]rune(text))
	return n >= 1 && n <= 20
}

// hasRepeatedCharacters reports a run of the same rune of at least minRun
func hasRepeatedCharacters(text string, minRun int) bool {
	run := 0
	var prev rune = -1
	for _, r := range text {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		if run >= minRun {
			return true
		}
	}
	return false
}

// maxConsecutiveRun returns the longest run of identical consecutive
// tokens, compared case-insensitively
func maxConsecutiveRun(tokens []string) int {
	longest := 0
	run := 0
	prev := ""
	for _, token := range tokens {
		lower := strings.ToLower(token)
		if lower == prev {
			run++
		} else {
			run = 1
			prev = lower
		}
		if run > longest {
			longest = run
		}
	}
	return longest
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
