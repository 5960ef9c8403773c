package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-trust-engine/internal/models"
)

func createAssessment(trustScore float64) *models.TrustAssessment {
	assessment := models.NewTrustAssessment()
	assessment.TrustScore = trustScore
	return assessment
}

func TestAssessmentCache_SetAndGet(t *testing.T) {
	cache := NewAssessmentCache(10, 0)

	stored := createAssessment(0.8)
	cache.Set("key1", stored)

	got, ok := cache.Get("key1")
	require.True(t, ok)
	assert.Same(t, stored, got)
}

func TestAssessmentCache_Miss(t *testing.T) {
	cache := NewAssessmentCache(10, 0)

	_, ok := cache.Get("absent")

	assert.False(t, ok)
	assert.Equal(t, int64(1), cache.GetStats().Misses)
}

func TestAssessmentCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewAssessmentCache(2, 0)

	cache.Set("a", createAssessment(0.1))
	cache.Set("b", createAssessment(0.2))

	// Touch "a" so "b" becomes the eviction candidate
	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Set("c", createAssessment(0.3))

	_, ok = cache.Get("b")
	assert.False(t, ok)

	_, ok = cache.Get("a")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, cache.Len())
}

func TestAssessmentCache_UpdateExistingKey(t *testing.T) {
	cache := NewAssessmentCache(2, 0)

	cache.Set("key", createAssessment(0.1))
	replacement := createAssessment(0.9)
	cache.Set("key", replacement)

	got, ok := cache.Get("key")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, cache.Len())
}

func TestAssessmentCache_TTLExpiry(t *testing.T) {
	cache := NewAssessmentCache(10, 10*time.Millisecond)

	cache.Set("key", createAssessment(0.5))

	_, ok := cache.Get("key")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = cache.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestAssessmentCache_Clear(t *testing.T) {
	cache := NewAssessmentCache(10, 0)

	for i := 0; i < 5; i++ {
		cache.Set(fmt.Sprintf("key%d", i), createAssessment(0.5))
	}
	require.Equal(t, 5, cache.Len())

	cache.Clear()

	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("key0")
	assert.False(t, ok)
}

func TestAssessmentCache_Stats(t *testing.T) {
	cache := NewAssessmentCache(10, 0)

	cache.Set("key", createAssessment(0.5))
	cache.Get("key")
	cache.Get("key")
	cache.Get("missing")

	stats := cache.GetStats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.667, stats.HitRate, 0.001)
}
