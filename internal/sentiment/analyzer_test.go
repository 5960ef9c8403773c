package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAnalyzer() *Analyzer {
	return NewAnalyzer(NewLexiconProvider())
}

func TestAnalyzer_Analyze(t *testing.T) {
	analyzer := createTestAnalyzer()
	ctx := context.Background()

	result := analyzer.Analyze(ctx, "The food was amazing and the service was excellent.")

	assert.Greater(t, result.Polarity, 0.0)
	assert.GreaterOrEqual(t, result.Subjectivity, 0.0)
	assert.LessOrEqual(t, result.Subjectivity, 1.0)
	assert.Greater(t, result.KeywordSentiment, 0.0)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
}

func TestAnalyzer_AnalyzeNegative(t *testing.T) {
	analyzer := createTestAnalyzer()

	result := analyzer.Analyze(context.Background(), "Terrible food and awful service, worst experience.")

	assert.Less(t, result.Polarity, 0.0)
	assert.Less(t, result.KeywordSentiment, 0.0)
	assert.Less(t, result.OverallScore, 0.0)
}

func TestAnalyzer_AnalyzeNeutralText(t *testing.T) {
	analyzer := createTestAnalyzer()

	result := analyzer.Analyze(context.Background(), "The location opened at nine and closed at five.")

	assert.Equal(t, 0.0, result.Polarity)
	assert.Equal(t, 0.0, result.KeywordSentiment)
}

func TestAnalyzer_AnalyzeDeterministic(t *testing.T) {
	analyzer := createTestAnalyzer()
	text := "Great place, highly recommend the pasta!"

	first := analyzer.Analyze(context.Background(), text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, analyzer.Analyze(context.Background(), text))
	}
}

type failingProvider struct{}

func (failingProvider) AnalyzeText(_ context.Context, _ string) (Score, error) {
	return Score{}, errors.New("provider unavailable")
}
func (failingProvider) WordPolarity(_ string) float64 { return 0 }
func (failingProvider) Correct(text string) string    { return text }

func TestAnalyzer_ProviderFailureFallsBackToNeutral(t *testing.T) {
	analyzer := NewAnalyzer(failingProvider{})

	result := analyzer.Analyze(context.Background(), "Great food!")

	assert.Equal(t, NeutralFallback(), result)
	assert.Equal(t, 0.5, result.Subjectivity)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestAnalyzer_ManipulationScore(t *testing.T) {
	analyzer := createTestAnalyzer()

	manipulative := analyzer.ManipulationScore("AMAZING AMAZING AMAZING! Best place ever! Perfect perfect perfect!")
	ordinary := analyzer.ManipulationScore("The food was good but the wait was a bit long for a Tuesday.")

	assert.Greater(t, manipulative, 0.5)
	assert.Less(t, ordinary, manipulative)
	assert.GreaterOrEqual(t, ordinary, 0.0)
	assert.LessOrEqual(t, manipulative, 1.0)
}

func TestAnalyzer_ManipulationScoreTemplates(t *testing.T) {
	analyzer := createTestAnalyzer()

	templated := analyzer.ManipulationScore("Would recommend to everyone, would recommend without hesitation.")

	assert.Greater(t, templated, 0.0)
}

func TestAnalyzer_EmotionalIntensity(t *testing.T) {
	analyzer := createTestAnalyzer()

	intense := analyzer.EmotionalIntensity("ABSOLUTELY INCREDIBLE!!! TOTALLY AMAZING!!!")
	calm := analyzer.EmotionalIntensity("It was a pleasant meal.")

	assert.Greater(t, intense, calm)
	assert.LessOrEqual(t, intense, 1.0)
	assert.GreaterOrEqual(t, calm, 0.0)
}

func TestAnalyzer_Breakdown(t *testing.T) {
	analyzer := createTestAnalyzer()

	breakdown := analyzer.Breakdown(context.Background(), "Wonderful dinner, excellent wine selection.")

	assert.Equal(t, "positive", breakdown.Category)
	assert.GreaterOrEqual(t, breakdown.AuthenticityScore, 0.0)
	assert.LessOrEqual(t, breakdown.AuthenticityScore, 1.0)

	negative := analyzer.Breakdown(context.Background(), "Horrible experience, disgusting food.")
	assert.Equal(t, "negative", negative.Category)

	neutral := analyzer.Breakdown(context.Background(), "The menu lists twelve dishes.")
	assert.Equal(t, "neutral", neutral.Category)
}

func TestLexiconProvider_AnalyzeText(t *testing.T) {
	provider := NewLexiconProvider()

	score, err := provider.AnalyzeText(context.Background(), "amazing terrible")
	require.NoError(t, err)

	// Opposite valences average out near zero
	assert.InDelta(t, 0.0, score.Polarity, 0.25)
	assert.Greater(t, score.Subjectivity, 0.5)
}

func TestLexiconProvider_UnknownWords(t *testing.T) {
	provider := NewLexiconProvider()

	score, err := provider.AnalyzeText(context.Background(), "zxqv wlrb nnnp")
	require.NoError(t, err)
	assert.Equal(t, Score{}, score)
}

func TestPopulationVariance(t *testing.T) {
	assert.Equal(t, 0.0, populationVariance(nil))
	assert.Equal(t, 0.0, populationVariance([]float64{0.5}))
	assert.InDelta(t, 0.0, populationVariance([]float64{0.5, 0.5, 0.5}), 1e-9)
	assert.Greater(t, populationVariance([]float64{-1, 1}), 0.9)
}

func BenchmarkAnalyzer_Analyze(b *testing.B) {
	analyzer := createTestAnalyzer()
	text := "Great food and excellent service. Would definitely recommend this wonderful place!"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzer.Analyze(context.Background(), text)
	}
}
