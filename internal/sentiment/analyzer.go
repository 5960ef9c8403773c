package sentiment

import (
	"context"
	"log"
	"regexp"
	"strings"
	"unicode"

	"review-trust-engine/internal/models"
)

// Analyzer derives sentiment, emotional intensity, and manipulation
// signals from review text. All methods are pure given a deterministic
// provider: identical input yields identical output.
type Analyzer struct {
	provider Provider

	positiveKeywords []string
	negativeKeywords []string
	neutralKeywords  []string
	intenseWords     []string

	templatePatterns []*regexp.Regexp
}

// templatePatterns flag duplicated promotional phrasing within one review
var templateExpressions = []string{
	`(?i)(would recommend|highly recommend).*(would recommend|highly recommend)`,
	`(?i)(best \w+).*(best \w+)`,
	`(?i)(never go back|never return).*(never go back|never return)`,
}

// NewAnalyzer creates a sentiment analyzer backed by the given provider
func NewAnalyzer(provider Provider) *Analyzer {
	patterns := make([]*regexp.Regexp, len(templateExpressions))
	for i, expr := range templateExpressions {
		patterns[i] = regexp.MustCompile(expr)
	}

	return &Analyzer{
		provider: provider,
		positiveKeywords: []string{
			"excellent", "amazing", "wonderful", "fantastic",
			"great", "love", "perfect", "outstanding",
		},
		negativeKeywords: []string{
			"terrible", "awful", "horrible", "worst",
			"hate", "disgusting", "disappointed",
		},
		neutralKeywords: []string{
			"okay", "average", "decent", "fine", "normal", "typical",
		},
		intenseWords: []string{
			"absolutely", "completely", "totally",
			"extremely", "incredibly", "unbelievably",
		},
		templatePatterns: patterns,
	}
}

// Analyze performs the full sentiment analysis for a review. A provider
// failure degrades to the documented neutral fallback rather than erroring:
// a best-effort trust signal is preferred over a hard failure.
func (a *Analyzer) Analyze(ctx context.Context, text string) models.SentimentResult {
	score, err := a.provider.AnalyzeText(ctx, text)
	if err != nil {
		log.Printf("sentiment provider failed, using neutral fallback: %v", err)
		return NeutralFallback()
	}

	keywordSentiment := a.keywordSentiment(text)

	return models.SentimentResult{
		Polarity:          score.Polarity,
		Subjectivity:      score.Subjectivity,
		KeywordSentiment:  keywordSentiment,
		OverallScore:      (score.Polarity + keywordSentiment) / 2,
		Confidence:        clamp(1.0-abs(score.Polarity-keywordSentiment), 0, 1),
		Intensity:         a.EmotionalIntensity(text),
		ManipulationScore: a.ManipulationScore(text),
	}
}

// NeutralFallback is the documented result returned when analysis
// cannot be performed
func NeutralFallback() models.SentimentResult {
	return models.SentimentResult{
		Polarity:          0,
		Subjectivity:      0.5,
		KeywordSentiment:  0,
		OverallScore:      0,
		Confidence:        0.5,
		Intensity:         0,
		ManipulationScore: 0,
	}
}

// Breakdown categorizes the analysis for display
func (a *Analyzer) Breakdown(ctx context.Context, text string) models.SentimentBreakdown {
	analysis := a.Analyze(ctx, text)

	category := "neutral"
	if analysis.Polarity > 0.1 {
		category = "positive"
	} else if analysis.Polarity < -0.1 {
		category = "negative"
	}

	return models.SentimentBreakdown{
		Category:               category,
		Intensity:              analysis.Intensity,
		ManipulationIndicators: analysis.ManipulationScore,
		AuthenticityScore:      clamp(1.0-analysis.ManipulationScore, 0, 1),
		RawAnalysis:            analysis,
	}
}

// keywordSentiment scores text against the fixed keyword lists:
// (positive hits - negative hits) / total hits, 0 when no hits
func (a *Analyzer) keywordSentiment(text string) float64 {
	lower := strings.ToLower(text)

	positive := countContained(lower, a.positiveKeywords)
	negative := countContained(lower, a.negativeKeywords)
	neutral := countContained(lower, a.neutralKeywords)

	total := positive + negative + neutral
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total)
}

// EmotionalIntensity measures shouting and intensifier density
func (a *Analyzer) EmotionalIntensity(text string) float64 {
	exclamations := strings.Count(text, "!")
	capsRatio := uppercaseRatio(text)

	lower := strings.ToLower(text)
	intense := countContained(lower, a.intenseWords)

	intensity := float64(exclamations)*0.1 + capsRatio + float64(intense)*0.1
	return clamp(intensity, 0, 1)
}

// ManipulationScore accumulates indicators of engineered sentiment,
// capped at 1.0
func (a *Analyzer) ManipulationScore(text string) float64 {
	score := 0.0

	tokens := wordPattern.FindAllString(text, -1)
	if len(tokens) > 0 {
		var strong []float64
		for _, token := range tokens {
			polarity := a.provider.WordPolarity(token)
			if abs(polarity) > 0.3 {
				strong = append(strong, polarity)
			}
		}

		if len(strong) > 0 {
			density := float64(len(strong)) / float64(len(tokens))
			if density > 0.3 {
				score += 0.35
			}

			// Unnaturally uniform sentiment across many strong words
			if populationVariance(strong) < 0.01 && len(strong) > 3 {
				score += 0.25
			}
		}
	}

	for _, pattern := range a.templatePatterns {
		if pattern.MatchString(text) {
			score += 0.2
		}
	}

	// "amazing amazing amazing" style repetition
	if maxConsecutiveRun(tokens) >= 3 {
		score += 0.2
	}

	if strings.Count(text, "!") >= 3 {
		score += 0.1
	}

	return clamp(score, 0, 1)
}

func countContained(haystack string, needles []string) int {
	count := 0
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			count++
		}
	}
	return count
}

func uppercaseRatio(text string) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}
	upper := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(len(runes))
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

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
