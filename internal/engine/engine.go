package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"review-trust-engine/internal/authenticity"
	"review-trust-engine/internal/cache"
	"review-trust-engine/internal/fakedetect"
	"review-trust-engine/internal/models"
	"review-trust-engine/internal/sentiment"
	"review-trust-engine/internal/trust"
	"review-trust-engine/internal/worker"
)

// ValidationError marks a caller mistake, as opposed to an internal
// failure. The API layer maps it to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Config holds engine tuning parameters
type Config struct {
	TrustWeights        trust.Weights              `yaml:"trust_weights" json:"trust_weights"`
	CombinerWeights     fakedetect.CombinerWeights `yaml:"combiner_weights" json:"combiner_weights"`
	AuthenticityWeights authenticity.Weights       `yaml:"authenticity_weights" json:"authenticity_weights"`

	TrustedThreshold    float64 `yaml:"trusted_threshold" json:"trusted_threshold"`       // trust score above is trusted
	SuspiciousThreshold float64 `yaml:"suspicious_threshold" json:"suspicious_threshold"` // trust score below is suspicious
	MaxBulkReviews      int     `yaml:"max_bulk_reviews" json:"max_bulk_reviews"`

	Workers    int           `yaml:"workers" json:"workers"`
	QueueSize  int           `yaml:"queue_size" json:"queue_size"`
	JobTimeout time.Duration `yaml:"job_timeout" json:"job_timeout"`

	CacheSize int           `yaml:"cache_size" json:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() Config {
	return Config{
		TrustWeights:        trust.DefaultWeights(),
		CombinerWeights:     fakedetect.DefaultCombinerWeights(),
		AuthenticityWeights: authenticity.DefaultWeights(),
		TrustedThreshold:    0.7,
		SuspiciousThreshold: 0.3,
		MaxBulkReviews:      100,
		Workers:             4,
		QueueSize:           64,
		JobTimeout:          10 * time.Second,
		CacheSize:           1000,
		CacheTTL:            15 * time.Minute,
	}
}

// Stats reports engine activity since startup
type Stats struct {
	TotalAnalyses     int64            `json:"total_analyses"`
	BulkAnalyses      int64            `json:"bulk_analyses"`
	TrustedReviews    int64            `json:"trusted_reviews"`
	SuspiciousReviews int64            `json:"suspicious_reviews"`
	AvgTrustScore     float64          `json:"avg_trust_score"`
	Cache             cache.Stats      `json:"cache"`
	Pool              worker.PoolStats `json:"pool"`
	Uptime            time.Duration    `json:"uptime"`
	LastAnalysis      time.Time        `json:"last_analysis,omitempty"`
}

// Engine fuses the sentiment, fake-detection, authenticity, and trust
// signals into assessments. All scoring is deterministic; the cache
// exists only to skip recomputation of identical inputs.
type Engine struct {
	config Config

	sentiment    *sentiment.Analyzer
	detector     *fakedetect.Detector
	authenticity *authenticity.Analyzer
	scorer       *trust.Scorer
	cache        *cache.AssessmentCache
	pool         *worker.Pool

	totalAnalyses     int64
	bulkAnalyses      int64
	trustedReviews    int64
	suspiciousReviews int64

	trustScoreSum float64
	lastAnalysis  time.Time
	startedAt     time.Time
	mutex         sync.RWMutex
}

// NewEngine creates an engine with the given configuration and starts
// its worker pool
func NewEngine(config Config) *Engine {
	provider := sentiment.NewLexiconProvider()

	e := &Engine{
		config:       config,
		sentiment:    sentiment.NewAnalyzer(provider),
		detector:     fakedetect.NewDetector(config.CombinerWeights),
		authenticity: authenticity.NewAnalyzer(provider, config.AuthenticityWeights),
		scorer:       trust.NewScorer(config.TrustWeights),
		cache:        cache.NewAssessmentCache(config.CacheSize, config.CacheTTL),
		pool:         worker.NewPool(config.Workers, config.QueueSize, config.JobTimeout),
		startedAt:    time.Now(),
	}
	e.pool.Start()

	return e
}

// Close stops the worker pool
func (e *Engine) Close() {
	e.pool.Stop()
}

// AnalyzeReview scores a single review. A nil profile means no reviewer
// context was supplied; a nil location likewise. Internal scoring
// failures degrade to neutral defaults inside the signal packages, so
// the only errors returned here are validation errors.
func (e *Engine) AnalyzeReview(ctx context.Context, text string, profile *models.ReviewerProfile, location *models.LocationProfile) (*models.TrustAssessment, error) {
	key := assessmentKey(text, profile, location)
	if cached, ok := e.cache.Get(key); ok {
		e.recordAnalysis(cached.TrustScore)
		return cached, nil
	}

	sentimentScore := e.sentiment.Analyze(ctx, text)
	fakeProbability := e.detector.DetectFakeReview(text, profile)
	authenticityScore := e.authenticity.Calculate(ctx, text, profile)
	trustScore := e.scorer.CalculateTrustScore(text, sentimentScore, authenticityScore, fakeProbability, profile, location)

	reviewerCredibility := 1.0
	if profile != nil {
		reviewerCredibility = e.scorer.ReviewerCredibility(profile)
	}

	assessment := models.NewTrustAssessment()
	assessment.TrustScore = trustScore
	assessment.TrustCategory = e.scorer.Category(trustScore)
	assessment.Explanation = e.scorer.Explanation(trustScore, authenticityScore, fakeProbability, reviewerCredibility)
	assessment.SentimentScore = sentimentScore
	assessment.AuthenticityScore = authenticityScore
	assessment.FakeProbability = fakeProbability
	assessment.Analysis = e.buildAnalysis(ctx, text, profile)

	e.cache.Set(key, assessment)
	e.recordAnalysis(trustScore)

	return assessment, nil
}

// AnalyzeBulkReviews scores a batch of reviews concurrently. Individual
// results come back in input order; a review that fails to score is
// reported in place and excluded from the aggregates.
func (e *Engine) AnalyzeBulkReviews(ctx context.Context, reviews []models.Review, location *models.LocationProfile) (*models.BulkResult, error) {
	if len(reviews) == 0 {
		return nil, NewValidationError("no reviews provided")
	}
	if e.config.MaxBulkReviews > 0 && len(reviews) > e.config.MaxBulkReviews {
		return nil, NewValidationError("too many reviews: %d exceeds limit of %d", len(reviews), e.config.MaxBulkReviews)
	}

	start := time.Now()
	outcomes := make([]models.AnalysisOutcome, len(reviews))

	var wg sync.WaitGroup
	for i := range reviews {
		i := i
		review := reviews[i]

		wg.Add(1)
		job := worker.JobFunc{
			JobID: fmt.Sprintf("review-%d-%s", i, uuid.New().String()),
			Fn: func(jobCtx context.Context) error {
				defer wg.Done()

				loc := location
				if review.Location != nil {
					loc = review.Location
				}

				assessment, err := e.AnalyzeReview(jobCtx, review.Text, review.Reviewer, loc)
				if err != nil {
					outcomes[i] = models.AnalysisOutcome{Success: false, Error: err.Error()}
					return err
				}
				if review.Timestamp != "" {
					// Copy before stamping; cached assessments are shared
					stamped := *assessment
					stamped.Timestamp = review.Timestamp
					assessment = &stamped
				}
				outcomes[i] = models.AnalysisOutcome{Success: true, Assessment: assessment}
				return nil
			},
		}

		if err := e.pool.Submit(job); err != nil {
			// Pool unavailable, score inline instead
			job.Fn(ctx)
		}
	}
	wg.Wait()

	atomic.AddInt64(&e.bulkAnalyses, 1)

	result := models.NewBulkResult()
	result.IndividualResults = outcomes
	result.LocationTrustScore = e.scorer.CalculateLocationTrust(outcomes)
	result.TrustTrends = trendPoints(reviews, outcomes)
	result.Anomalies = e.detector.DetectTemporalAnomalies(result.TrustTrends)
	result.Summary = summarize(outcomes, e.config.TrustedThreshold, e.config.SuspiciousThreshold)
	result.ProcessingTime = time.Since(start)

	log.Printf("bulk analysis complete: %d reviews, location trust %.3f, %d anomalies, took %v",
		len(reviews), result.LocationTrustScore, len(result.Anomalies), result.ProcessingTime)

	return result, nil
}

// GetRiskFactors returns the detailed fake-probability breakdown for a review
func (e *Engine) GetRiskFactors(text string, profile *models.ReviewerProfile) (models.RiskFactors, error) {
	factors, err := e.detector.RiskFactors(text, profile)
	if err != nil {
		return models.RiskFactors{}, NewValidationError("cannot assess risk: %v", err)
	}
	return factors, nil
}

// GetAuthenticityFactors returns the detailed authenticity breakdown for a review
func (e *Engine) GetAuthenticityFactors(ctx context.Context, text string) (models.AuthenticityFactors, error) {
	factors, err := e.authenticity.Factors(ctx, text)
	if err != nil {
		return models.AuthenticityFactors{}, NewValidationError("cannot assess authenticity: %v", err)
	}
	return factors, nil
}

// GetSentimentBreakdown returns the categorized sentiment analysis for a review
func (e *Engine) GetSentimentBreakdown(ctx context.Context, text string) models.SentimentBreakdown {
	return e.sentiment.Breakdown(ctx, text)
}

// DetectAnomalies runs the temporal anomaly detector over an externally
// supplied trust-score sequence
func (e *Engine) DetectAnomalies(trends []models.TrustTrendPoint) []models.Anomaly {
	return e.detector.DetectTemporalAnomalies(trends)
}

// GetConfig returns a copy of the engine configuration
func (e *Engine) GetConfig() Config {
	return e.config
}

// GetStats returns engine activity statistics
func (e *Engine) GetStats() Stats {
	e.mutex.RLock()
	scoreSum := e.trustScoreSum
	last := e.lastAnalysis
	e.mutex.RUnlock()

	total := atomic.LoadInt64(&e.totalAnalyses)

	var avg float64
	if total > 0 {
		avg = scoreSum / float64(total)
	}

	return Stats{
		TotalAnalyses:     total,
		BulkAnalyses:      atomic.LoadInt64(&e.bulkAnalyses),
		TrustedReviews:    atomic.LoadInt64(&e.trustedReviews),
		SuspiciousReviews: atomic.LoadInt64(&e.suspiciousReviews),
		AvgTrustScore:     avg,
		Cache:             e.cache.GetStats(),
		Pool:              e.pool.GetStats(),
		Uptime:            time.Since(e.startedAt),
		LastAnalysis:      last,
	}
}

func (e *Engine) buildAnalysis(ctx context.Context, text string, profile *models.ReviewerProfile) models.Analysis {
	analysis := models.Analysis{
		Sentiment: e.sentiment.Breakdown(ctx, text),
	}

	if riskFactors, err := e.detector.RiskFactors(text, profile); err == nil {
		analysis.RiskFactors = riskFactors
	} else {
		log.Printf("risk factor breakdown unavailable: %v", err)
	}

	if authFactors, err := e.authenticity.Factors(ctx, text); err == nil {
		analysis.AuthenticityFactors = authFactors
	} else {
		log.Printf("authenticity factor breakdown unavailable: %v", err)
	}

	return analysis
}

func (e *Engine) recordAnalysis(trustScore float64) {
	atomic.AddInt64(&e.totalAnalyses, 1)
	if trustScore > e.config.TrustedThreshold {
		atomic.AddInt64(&e.trustedReviews, 1)
	} else if trustScore < e.config.SuspiciousThreshold {
		atomic.AddInt64(&e.suspiciousReviews, 1)
	}

	e.mutex.Lock()
	e.trustScoreSum += trustScore
	e.lastAnalysis = time.Now()
	e.mutex.Unlock()
}

// assessmentKey builds a cache key covering every input that can change
// the score
func assessmentKey(text string, profile *models.ReviewerProfile, location *models.LocationProfile) string {
	h := sha256.New()
	fmt.Fprintf(h, "text:%s;", text)

	if profile != nil {
		fmt.Fprintf(h, "profile:%d:%d:%t:%t:%t:%q:%.4f:%d;",
			profile.AccountAgeDays, profile.ReviewCount,
			profile.ProfilePhoto, profile.VerifiedEmail, profile.VerifiedPhone,
			profile.Bio, profile.LocationDiversity, profile.IPClusterSize)
		for _, r := range profile.RecentReviews {
			fmt.Fprintf(h, "recent:%s;", r.Date)
		}
		for _, s := range profile.SimilarReviewers {
			fmt.Fprintf(h, "similar:%s;", s)
		}
	}
	if location != nil {
		fmt.Fprintf(h, "location:%s:%s:%s;", location.ID, location.Name, location.Category)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// trendPoints extracts the trust-score sequence from successful
// outcomes, in input order
func trendPoints(reviews []models.Review, outcomes []models.AnalysisOutcome) []models.TrustTrendPoint {
	points := make([]models.TrustTrendPoint, 0, len(outcomes))
	for i, outcome := range outcomes {
		if !outcome.Success || outcome.Assessment == nil {
			continue
		}

		timestamp := reviews[i].Timestamp
		if timestamp == "" {
			timestamp = outcome.Assessment.CreatedAt.Format(time.RFC3339)
		}

		points = append(points, models.TrustTrendPoint{
			Timestamp:  timestamp,
			TrustScore: outcome.Assessment.TrustScore,
		})
	}
	return points
}

func summarize(outcomes []models.AnalysisOutcome, trustedThreshold, suspiciousThreshold float64) models.BulkSummary {
	summary := models.BulkSummary{TotalReviews: len(outcomes)}
	for _, outcome := range outcomes {
		if !outcome.Success || outcome.Assessment == nil {
			continue
		}
		if outcome.Assessment.TrustScore > trustedThreshold {
			summary.TrustedReviews++
		} else if outcome.Assessment.TrustScore < suspiciousThreshold {
			summary.SuspiciousReviews++
		}
	}
	return summary
}
