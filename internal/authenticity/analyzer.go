package authenticity

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"review-trust-engine/internal/models"
	"review-trust-engine/internal/sentiment"
)

// Weights combines the three authenticity signals. Independently tuned
// from the fake-probability combiner; fixed configuration.
type Weights struct {
	Linguistic           float64 `yaml:"linguistic" json:"linguistic"`
	SentimentConsistency float64 `yaml:"sentiment_consistency" json:"sentiment_consistency"`
	ReviewerQuality      float64 `yaml:"reviewer_quality" json:"reviewer_quality"`
}

// DefaultWeights returns the tuned production weights
func DefaultWeights() Weights {
	return Weights{
		Linguistic:           0.4,
		SentimentConsistency: 0.3,
		ReviewerQuality:      0.3,
	}
}

// Analyzer estimates review authenticity from raw linguistic features,
// per-sentence sentiment consistency, and reviewer behavior quality.
// Computed independently of the fake-probability text analysis.
type Analyzer struct {
	provider sentiment.Provider
	weights  Weights

	fakePatterns []*regexp.Regexp
}

// NewAnalyzer creates an authenticity analyzer backed by the given
// sentiment provider
func NewAnalyzer(provider sentiment.Provider, weights Weights) *Analyzer {
	return &Analyzer{
		provider: provider,
		weights:  weights,
		fakePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(amazing|perfect|excellent|outstanding)\b.*\b(amazing|perfect|excellent|outstanding)\b`),
			regexp.MustCompile(`(?i)\b(worst|terrible|awful|horrible)\b.*\b(worst|terrible|awful|horrible)\b`),
			regexp.MustCompile(`!{2,}`),
		},
	}
}

// Calculate returns the overall authenticity score for a review.
// A missing profile contributes the neutral reviewer quality of 1.0.
func (a *Analyzer) Calculate(ctx context.Context, text string, profile *models.ReviewerProfile) float64 {
	linguistic := a.LinguisticScore(text)
	consistency := a.SentimentConsistency(ctx, text)

	reviewerQuality := 1.0
	if profile != nil {
		reviewerQuality = a.ReviewerQuality(profile)
	}

	score := linguistic*a.weights.Linguistic +
		consistency*a.weights.SentimentConsistency +
		reviewerQuality*a.weights.ReviewerQuality

	return clamp01(score)
}

// LinguisticScore analyzes writing patterns that indicate authenticity.
// Very short text short-circuits to a low baseline.
func (a *Analyzer) LinguisticScore(text string) float64 {
	if len([]rune(strings.TrimSpace(text))) < 10 {
		return 0.3
	}

	score := 1.0

	fakeCount := 0
	for _, pattern := range a.fakePatterns {
		if pattern.MatchString(text) {
			fakeCount++
		}
	}
	if maxConsecutiveRun(wordPattern.FindAllString(text, -1)) >= 3 {
		fakeCount++
	}
	score -= float64(fakeCount) * 0.2

	wordCount := len(strings.Fields(text))
	if wordCount < 5 {
		score -= 0.3
	} else if wordCount > 500 {
		score -= 0.2
	}

	// Spelling quality: disagreement with the correction pass
	if corrected := a.provider.Correct(text); spellingDisagreement(text, corrected) > 0.1 {
		score -= 0.2
	}

	if mean, ok := meanSentenceLength(text); ok && (mean < 3 || mean > 40) {
		score -= 0.1
	}

	return clamp01(score)
}

// SentimentConsistency checks whether sentiment holds steady across
// sentences. Single-sentence reviews are trivially consistent.
func (a *Analyzer) SentimentConsistency(ctx context.Context, text string) float64 {
	sentences := splitSentences(text)
	if len(sentences) < 2 {
		return 1.0
	}

	polarities := make([]float64, 0, len(sentences))
	for _, sentence := range sentences {
		score, err := a.provider.AnalyzeText(ctx, sentence)
		if err != nil {
			log.Printf("sentence sentiment failed, using moderate consistency: %v", err)
			return 0.7
		}
		polarities = append(polarities, score.Polarity)
	}

	consistency := 1.0 - populationVariance(polarities)
	if consistency < 0 {
		return 0
	}
	return consistency
}

// ReviewerQuality scores profile credibility signals down from 1.0
func (a *Analyzer) ReviewerQuality(profile *models.ReviewerProfile) float64 {
	score := 1.0

	if profile.AccountAgeDays < 30 {
		score -= 0.3
	} else if profile.AccountAgeDays < 90 {
		score -= 0.1
	}

	switch count := profile.ReviewCount; {
	case count == 0:
		score -= 0.4
	case count < 5:
		score -= 0.2
	case count > 1000:
		score -= 0.1 // suspiciously prolific
	}

	if !profile.ProfilePhoto {
		score -= 0.1
	}
	if !profile.VerifiedEmail {
		score -= 0.1
	}

	return clamp01(score)
}

// Factors returns the detailed authenticity breakdown. Empty text is a
// degenerate input for the spam-indicator ratios and propagates as an error.
func (a *Analyzer) Factors(ctx context.Context, text string) (models.AuthenticityFactors, error) {
	if text == "" {
		return models.AuthenticityFactors{}, fmt.Errorf("cannot derive authenticity factors from empty text")
	}

	return models.AuthenticityFactors{
		LinguisticScore:      a.LinguisticScore(text),
		SentimentConsistency: a.SentimentConsistency(ctx, text),
		LengthScore:          lengthScore(text),
		SpamScore:            a.spamScore(text),
	}, nil
}

func lengthScore(text string) float64 {
	wordCount := len(strings.Fields(text))
	switch {
	case wordCount >= 10 && wordCount <= 200:
		return 1.0
	case wordCount >= 5 && wordCount <= 300:
		return 0.8
	default:
		return 0.3
	}
}

// spamScore returns 1.0 for clean text, reduced by shouting,
// punctuation abuse, and promotional vocabulary
func (a *Analyzer) spamScore(text string) float64 {
	spam := 0.0
	runes := []rune(text)

	upper := 0
	punct := 0
	for _, r := range runes {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
		if r == '!' || r == '?' {
			punct++
		}
	}
	if float64(upper)/float64(len(runes)) > 0.3 {
		spam += 0.3
	}
	if float64(punct)/float64(len(runes)) > 0.1 {
		spam += 0.2
	}

	lower := strings.ToLower(text)
	promo := 0
	for _, keyword := range []string{"discount", "coupon", "deal", "offer", "sale", "cheap", "free"} {
		if strings.Contains(lower, keyword) {
			promo++
		}
	}
	if contribution := float64(promo) * 0.1; contribution > 0.3 {
		spam += 0.3
	} else {
		spam += contribution
	}

	return clamp01(1.0 - spam)
}

// spellingDisagreement measures the share of characters changed by the
// correction pass, compared position-wise
func spellingDisagreement(original, corrected string) float64 {
	origRunes := []rune(original)
	corrRunes := []rune(corrected)
	if len(origRunes) == 0 {
		return 0
	}

	changed := 0
	for i, r := range origRunes {
		if i < len(corrRunes) && r != corrRunes[i] {
			changed++
		}
	}
	return float64(changed) / float64(len(origRunes))
}

func splitSentences(text string) []string {
	parts := strings.Split(text, ".")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

func meanSentenceLength(text string) (float64, bool) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0, false
	}
	total := 0
	for _, sentence := range sentences {
		total += len(strings.Fields(sentence))
	}
	return float64(total) / float64(len(sentences)), true
}

var wordPattern = regexp.MustCompile(`\w+`)

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

func populationVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return variance / float64(len(values))
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
