package sentiment

import (
	"context"
	"regexp"
	"strings"
)

// Score is the raw output of a sentiment provider for a piece of text
type Score struct {
	Polarity     float64 `json:"polarity"`     // -1 to 1
	Subjectivity float64 `json:"subjectivity"` // 0 to 1
}

// Provider supplies polarity/subjectivity estimates for text. The engine
// treats it as an external collaborator; a provider failure degrades to the
// documented neutral fallback rather than failing the assessment.
type Provider interface {
	// AnalyzeText scores a whole text. The context bounds the call when the
	// provider is remote; the bundled lexicon provider ignores it.
	AnalyzeText(ctx context.Context, text string) (Score, error)

	// WordPolarity scores a single lowercased token, 0 for unknown words.
	WordPolarity(word string) float64

	// Correct returns a spelling-corrected variant of the text. Providers
	// without a correction pass return the input unchanged.
	Correct(text string) string
}

var wordPattern = regexp.MustCompile(`\w+`)

type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// LexiconProvider is the built-in deterministic sentiment provider backed
// by a fixed word-valence table. Identical input always yields identical
// output, which keeps every downstream score cacheable.
type LexiconProvider struct {
	lexicon map[string]lexiconEntry
}

// NewLexiconProvider creates a provider over the built-in valence table
func NewLexiconProvider() *LexiconProvider {
	return &LexiconProvider{lexicon: defaultLexicon}
}

// AnalyzeText averages the valence of known words in the text.
// Texts with no known sentiment words score (0, 0).
func (p *LexiconProvider) AnalyzeText(_ context.Context, text string) (Score, error) {
	var polaritySum, subjectivitySum float64
	hits := 0

	for _, token := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if entry, ok := p.lexicon[token]; ok {
			polaritySum += entry.polarity
			subjectivitySum += entry.subjectivity
			hits++
		}
	}

	if hits == 0 {
		return Score{}, nil
	}

	return Score{
		Polarity:     clamp(polaritySum/float64(hits), -1, 1),
		Subjectivity: clamp(subjectivitySum/float64(hits), 0, 1),
	}, nil
}

// WordPolarity looks up a single token in the valence table
func (p *LexiconProvider) WordPolarity(word string) float64 {
	if entry, ok := p.lexicon[strings.ToLower(word)]; ok {
		return entry.polarity
	}
	return 0
}

// Correct is a no-op for the lexicon provider
func (p *LexiconProvider) Correct(text string) string {
	return text
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// defaultLexicon is the built-in word valence table. Values follow common
// valence norms: strong superlatives near +/-1, hedged words near zero.
var defaultLexicon = map[string]lexiconEntry{
	// positive
	"excellent":   {1.0, 1.0},
	"amazing":     {0.6, 0.9},
	"wonderful":   {1.0, 1.0},
	"fantastic":   {0.9, 0.9},
	"great":       {0.8, 0.75},
	"love":        {0.5, 0.6},
	"loved":       {0.7, 0.8},
	"perfect":     {1.0, 1.0},
	"perfectly":   {1.0, 1.0},
	"outstanding": {0.9, 0.9},
	"incredible":  {0.9, 0.9},
	"good":        {0.7, 0.6},
	"nice":        {0.6, 1.0},
	"best":        {1.0, 0.3},
	"friendly":    {0.4, 0.6},
	"delicious":   {1.0, 1.0},
	"beautiful":   {0.85, 1.0},
	"fresh":       {0.3, 0.5},
	"enjoyed":     {0.4, 0.5},
	"awesome":     {1.0, 1.0},
	"recommend":   {0.35, 0.45},
	"recommended": {0.35, 0.45},
	"happy":       {0.8, 1.0},
	"grateful":    {0.6, 0.8},
	"attentive":   {0.4, 0.7},
	"generous":    {0.5, 0.6},
	"prompt":      {0.3, 0.5},

	// negative
	"terrible":      {-1.0, 1.0},
	"awful":         {-1.0, 1.0},
	"horrible":      {-1.0, 1.0},
	"worst":         {-1.0, 1.0},
	"hate":          {-0.8, 0.9},
	"hated":         {-0.9, 0.95},
	"disgusting":    {-1.0, 1.0},
	"disappointed":  {-0.75, 0.75},
	"disappointing": {-0.6, 0.7},
	"bad":           {-0.7, 0.65},
	"poor":          {-0.4, 0.6},
	"cold":          {-0.35, 0.65},
	"rude":          {-0.6, 0.9},
	"dirty":         {-0.6, 0.8},
	"slow":          {-0.3, 0.4},
	"never":         {-0.15, 0.3},

	// hedged / neutral
	"okay":    {0.2, 0.5},
	"average": {-0.15, 0.4},
	"decent":  {0.25, 0.6},
	"fine":    {0.2, 0.4},
	"normal":  {0.1, 0.5},
	"typical": {0.0, 0.5},
	"fair":    {0.35, 0.55},

	// intensifiers carry mild valence of their own
	"absolutely":   {0.2, 0.9},
	"completely":   {0.1, 0.35},
	"totally":      {0.2, 0.5},
	"extremely":    {0.25, 0.9},
	"incredibly":   {0.9, 0.9},
	"unbelievably": {0.45, 1.0},
}
