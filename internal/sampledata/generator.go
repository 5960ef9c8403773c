package sampledata

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"review-trust-engine/internal/models"
)

// Generator produces demo reviews and trend data. It takes its
// randomness from the caller so the scoring engine itself stays
// deterministic; seed the source for reproducible demos.
type Generator struct {
	rng *rand.Rand

	locations       []string
	reviewTexts     []string
	trustedTexts    []string
	suspiciousTexts []string
}

// TrendDay is one day of aggregated location trust
type TrendDay struct {
	Date          string  `json:"date"`
	TrustScore    float64 `json:"trust_score"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// Activity is one entry in a reviewer's history
type Activity struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Location    string `json:"location"`
	TrustImpact string `json:"trust_impact"`
	Details     string `json:"details"`
}

// NewGenerator creates a sample data generator backed by the given
// random source
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		rng: rng,
		locations: []string{
			"The Great Restaurant",
			"Amazing Cafe",
			"Perfect Bistro",
			"Lovely Diner",
			"Awesome Eatery",
			"Fantastic Food Court",
			"Incredible Kitchen",
		},
		reviewTexts: []string{
			"Great food and excellent service. Would definitely recommend!",
			"Average experience, nothing special but not bad either.",
			"Terrible service and food was cold. Will not be returning.",
			"Outstanding meal! Best restaurant in town, highly recommended.",
			"Decent place for a quick bite. Fair prices and good portions.",
		},
		trustedTexts: []string{
			"Excellent food quality and attentive service. The atmosphere was perfect for our date night. Highly recommend the seafood pasta!",
			"Great value for money. Fresh ingredients and generous portions. Staff was friendly and accommodating.",
			"Outstanding experience from start to finish. The chef clearly knows what they're doing. Will definitely return.",
			"Perfect spot for lunch meetings. Quiet environment, professional service, and delicious food.",
			"Family-friendly restaurant with something for everyone. Kids loved the pizza, adults enjoyed the wine selection.",
		},
		suspiciousTexts: []string{
			"Amazing amazing amazing! Best place ever! Perfect perfect perfect!",
			"Terrible worst experience ever never going back horrible horrible",
			"Good food nice place recommend",
			"This place is absolutely amazing perfect excellent outstanding wonderful fantastic great",
			"Worst service terrible food awful experience disgusting never again",
		},
	}
}

// TrendData generates a daily trust-score series for the given number
// of days, ending today. Weekends trend slightly higher.
func (g *Generator) TrendData(days int) []TrendDay {
	baseDate := time.Now().AddDate(0, 0, -days)
	trend := make([]TrendDay, 0, days)

	baseTrust := 0.7
	for i := 0; i < days; i++ {
		trustScore := baseTrust + g.uniform(-0.1, 0.1)

		currentDate := baseDate.AddDate(0, 0, i)
		if wd := currentDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
			trustScore += 0.05
		}

		if trustScore < 0 {
			trustScore = 0
		} else if trustScore > 1 {
			trustScore = 1
		}

		trend = append(trend, TrendDay{
			Date:          currentDate.Format("2006-01-02"),
			TrustScore:    trustScore,
			ReviewCount:   5 + g.rng.Intn(21),
			AverageRating: g.uniform(3.5, 4.8),
		})

		baseTrust = trustScore + g.uniform(-0.02, 0.02)
	}

	return trend
}

// SampleReviews generates a mixed batch of reviews for bulk demo runs
func (g *Generator) SampleReviews(count int) []models.Review {
	reviews := make([]models.Review, 0, count)
	for i := 0; i < count; i++ {
		var text string
		var profile models.ReviewerProfile

		// Roughly one in four reviews looks planted
		if g.rng.Intn(4) == 0 {
			text = g.suspiciousTexts[g.rng.Intn(len(g.suspiciousTexts))]
			profile = g.suspiciousProfile()
		} else {
			text = g.trustedTexts[g.rng.Intn(len(g.trustedTexts))]
			profile = g.trustedProfile()
		}

		reviews = append(reviews, models.Review{
			ID:        fmt.Sprintf("review_%d", i+1),
			Text:      text,
			Timestamp: g.recentTimestamp(30),
			Reviewer:  &profile,
		})
	}
	return reviews
}

// TrustedReviews generates reviews from established, verified accounts
func (g *Generator) TrustedReviews(count int) []models.Review {
	reviews := make([]models.Review, 0, count)
	for i := 0; i < count; i++ {
		profile := g.trustedProfile()
		reviews = append(reviews, models.Review{
			ID:        fmt.Sprintf("trusted_%d", i+1),
			Text:      g.trustedTexts[g.rng.Intn(len(g.trustedTexts))],
			Rating:    4 + g.rng.Intn(2),
			Timestamp: g.recentTimestamp(30),
			Reviewer:  &profile,
		})
	}
	return reviews
}

// FlaggedReviews generates reviews with the markers the detector flags
func (g *Generator) FlaggedReviews(count int) []models.Review {
	reviews := make([]models.Review, 0, count)
	for i := 0; i < count; i++ {
		profile := g.suspiciousProfile()

		rating := 1
		if g.rng.Intn(2) == 0 {
			rating = 5
		}

		reviews = append(reviews, models.Review{
			ID:        fmt.Sprintf("flagged_%d", i+1),
			Text:      g.suspiciousTexts[g.rng.Intn(len(g.suspiciousTexts))],
			Rating:    rating,
			Timestamp: g.recentTimestamp(7),
			Reviewer:  &profile,
		})
	}
	return reviews
}

// ReviewerActivity generates a reviewer history, newest first
func (g *Generator) ReviewerActivity(count int) []Activity {
	activityTypes := []string{
		"Posted review",
		"Updated profile",
		"Verified email",
		"Added photo",
		"Liked review",
		"Reported review",
	}
	impacts := []string{"positive", "neutral", "negative"}

	activities := make([]Activity, 0, count)
	for i := 0; i < count; i++ {
		activities = append(activities, Activity{
			Date:        g.recentDate(90),
			Type:        activityTypes[g.rng.Intn(len(activityTypes))],
			Location:    g.locations[g.rng.Intn(len(g.locations))],
			TrustImpact: impacts[g.rng.Intn(len(impacts))],
			Details:     fmt.Sprintf("Activity %d performed successfully", i+1),
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Date > activities[j].Date
	})
	return activities
}

// Location picks a sample location profile
func (g *Generator) Location() models.LocationProfile {
	name := g.locations[g.rng.Intn(len(g.locations))]
	return models.LocationProfile{
		ID:       fmt.Sprintf("loc_%d", g.rng.Intn(1000)),
		Name:     name,
		Category: "restaurant",
	}
}

func (g *Generator) trustedProfile() models.ReviewerProfile {
	profile := models.DefaultReviewerProfile()
	profile.AccountAgeDays = 200 + g.rng.Intn(801)
	profile.ReviewCount = 15 + g.rng.Intn(86)
	profile.ProfilePhoto = true
	profile.VerifiedEmail = true
	profile.LocationDiversity = g.uniform(0.5, 1.0)
	return profile
}

func (g *Generator) suspiciousProfile() models.ReviewerProfile {
	profile := models.DefaultReviewerProfile()
	profile.AccountAgeDays = 1 + g.rng.Intn(30)
	profile.ReviewCount = g.rng.Intn(6)
	profile.LocationDiversity = g.uniform(0.0, 0.3)
	return profile
}

func (g *Generator) recentTimestamp(withinDays int) string {
	return time.Now().AddDate(0, 0, -(1 + g.rng.Intn(withinDays))).Format(time.RFC3339)
}

func (g *Generator) recentDate(withinDays int) string {
	return time.Now().AddDate(0, 0, -(1 + g.rng.Intn(withinDays))).Format("2006-01-02")
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
