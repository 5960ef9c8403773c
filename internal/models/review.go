package models

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a user-submitted review to be scored
type Review struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp string    `json:"timestamp,omitempty"` // ISO-8601
	Rating    int       `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Optional context
	Reviewer *ReviewerProfile `json:"reviewer_data,omitempty"`
	Location *LocationProfile `json:"location_data,omitempty"`
}

// ReviewerProfile describes the account behind a review.
// Use DefaultReviewerProfile for the neutral defaults applied
// when fields are absent from caller input.
type ReviewerProfile struct {
	AccountAgeDays    int            `json:"account_age_days"`
	ReviewCount       int            `json:"review_count"`
	ProfilePhoto      bool           `json:"profile_photo"`
	VerifiedEmail     bool           `json:"verified_email"`
	VerifiedPhone     bool           `json:"verified_phone"`
	Bio               string         `json:"bio"`
	LocationDiversity float64        `json:"location_diversity"`
	RecentReviews     []RecentReview `json:"recent_reviews,omitempty"`
	SimilarReviewers  []string       `json:"similar_reviewers,omitempty"`
	IPClusterSize     int            `json:"ip_cluster_size"`
}

// RecentReview is a dated entry in a reviewer's recent history
type RecentReview struct {
	Date string `json:"date"` // "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS"
}

// LocationProfile identifies the reviewed location. The engine consumes
// it but does not inspect it deeply; reserved for temporal-consistency use.
type LocationProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// SentimentResult holds the full sentiment analysis for one review
type SentimentResult struct {
	Polarity          float64 `json:"polarity"`          // -1 to 1
	Subjectivity      float64 `json:"subjectivity"`      // 0 to 1
	KeywordSentiment  float64 `json:"keyword_sentiment"` // -1 to 1
	OverallScore      float64 `json:"overall_score"`
	Confidence        float64 `json:"confidence"`         // agreement between methods
	Intensity         float64 `json:"intensity"`          // 0 to 1
	ManipulationScore float64 `json:"manipulation_score"` // 0 to 1
}

// SentimentBreakdown categorizes a SentimentResult for display
type SentimentBreakdown struct {
	Category               string          `json:"category"` // positive, negative, neutral
	Intensity              float64         `json:"intensity"`
	ManipulationIndicators float64         `json:"manipulation_indicators"`
	AuthenticityScore      float64         `json:"authenticity_score"`
	RawAnalysis            SentimentResult `json:"raw_analysis"`
}

// RiskFactors is the detailed fake-probability breakdown
type RiskFactors struct {
	TextSuspicion       float64 `json:"text_suspicion"`
	BehaviorSuspicion   float64 `json:"behavior_suspicion"`
	NetworkSuspicion    float64 `json:"network_suspicion"`
	OverallRisk         float64 `json:"overall_risk"`
	AccountAgeRisk      float64 `json:"account_age_risk"`
	ReviewFrequencyRisk float64 `json:"review_frequency_risk"`
	ProfileCompleteness float64 `json:"profile_completeness"`
}

// AuthenticityFactors is the detailed authenticity breakdown
type AuthenticityFactors struct {
	LinguisticScore      float64 `json:"linguistic_score"`
	SentimentConsistency float64 `json:"sentiment_consistency"`
	LengthScore          float64 `json:"length_score"`
	SpamScore            float64 `json:"spam_score"`
}

// Analysis bundles the detailed per-signal breakdowns of an assessment
type Analysis struct {
	Sentiment           SentimentBreakdown  `json:"sentiment"`
	AuthenticityFactors AuthenticityFactors `json:"authenticity_factors"`
	RiskFactors         RiskFactors         `json:"risk_factors"`
}

// TrustAssessment is the scored result for a single review.
// Never mutated after construction.
type TrustAssessment struct {
	ID                string          `json:"id"`
	TrustScore        float64         `json:"trust_score"`
	TrustCategory     string          `json:"trust_category"`
	Explanation       string          `json:"explanation"`
	SentimentScore    SentimentResult `json:"sentiment_score"`
	AuthenticityScore float64         `json:"authenticity_score"`
	FakeProbability   float64         `json:"fake_probability"`
	Analysis          Analysis        `json:"analysis"`
	Timestamp         string          `json:"timestamp,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TrustTrendPoint is the unit consumed by the temporal anomaly detector.
// Sequences are ordered by convention; the detector does not sort.
type TrustTrendPoint struct {
	Timestamp  string  `json:"timestamp"` // ISO-8601
	TrustScore float64 `json:"trust_score"`
}

// Anomaly types emitted by the temporal anomaly detector
const (
	AnomalyScoreOutlier  = "score_outlier"
	AnomalyReviewBombing = "review_bombing"
)

// Anomaly flags a statistical irregularity in a trust-score stream
type Anomaly struct {
	Timestamp   string  `json:"timestamp"`
	TrustScore  float64 `json:"trust_score"`
	AnomalyType string  `json:"anomaly_type"`
	Severity    float64 `json:"severity"`
	ReviewCount int     `json:"review_count,omitempty"`
}

// BulkSummary summarizes a bulk analysis run
type BulkSummary struct {
	TotalReviews      int `json:"total_reviews"`
	TrustedReviews    int `json:"trusted_reviews"`    // trust score > 0.7
	SuspiciousReviews int `json:"suspicious_reviews"` // trust score < 0.3
}

// AnalysisOutcome wraps a single review's assessment, or the error
// that prevented it. A failed review never blocks bulk analysis of
// the remaining reviews.
type AnalysisOutcome struct {
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
	Assessment *TrustAssessment `json:"assessment,omitempty"`
}

// BulkResult is the aggregate output of analyzing many reviews
type BulkResult struct {
	ID                 string            `json:"id"`
	IndividualResults  []AnalysisOutcome `json:"individual_results"`
	LocationTrustScore float64           `json:"location_trust_score"`
	TrustTrends        []TrustTrendPoint `json:"trust_trends"`
	Anomalies          []Anomaly         `json:"anomalies"`
	Summary            BulkSummary       `json:"summary"`
	ProcessingTime     time.Duration     `json:"processing_time"`
}

// DefaultReviewerProfile returns the neutral profile applied when
// optional fields are missing: an old, single-IP account with no history.
func DefaultReviewerProfile() ReviewerProfile {
	return ReviewerProfile{
		AccountAgeDays:    365,
		ReviewCount:       0,
		LocationDiversity: 0.5,
		IPClusterSize:     1,
	}
}

// NewTrustAssessment creates an assessment shell with generated ID
func NewTrustAssessment() *TrustAssessment {
	return &TrustAssessment{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
}

// NewBulkResult creates a bulk result shell with generated ID
func NewBulkResult() *BulkResult {
	return &BulkResult{
		ID:                uuid.New().String(),
		IndividualResults: make([]AnalysisOutcome, 0),
		TrustTrends:       make([]TrustTrendPoint, 0),
		Anomalies:         make([]Anomaly, 0),
	}
}

// ProfileCompleteness counts how many of the three verification
// signals (photo, email, phone) are set
func (p *ReviewerProfile) ProfileCompleteness() int {
	count := 0
	if p.ProfilePhoto {
		count++
	}
	if p.VerifiedEmail {
		count++
	}
	if p.VerifiedPhone {
		count++
	}
	return count
}

// ReviewsPerDay returns the average posting rate, guarding division by zero
func (p *ReviewerProfile) ReviewsPerDay() float64 {
	if p.AccountAgeDays <= 0 || p.ReviewCount <= 0 {
		return 0
	}
	return float64(p.ReviewCount) / float64(p.AccountAgeDays)
}
