package cache

import (
	"container/list"
	"sync"
	"time"

	"review-trust-engine/internal/models"
)

// entry is a cached assessment with its expiry
type entry struct {
	key        string
	assessment *models.TrustAssessment
	expiry     time.Time
}

func (e *entry) expired() bool {
	return !e.expiry.IsZero() && time.Now().After(e.expiry)
}

// AssessmentCache is a thread-safe LRU cache of trust assessments.
// Scoring is deterministic, so a cached assessment is always valid until
// it expires.
type AssessmentCache struct {
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List
	mutex    sync.Mutex

	hits   int64
	misses int64
}

// Stats reports cache effectiveness
type Stats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// NewAssessmentCache creates an LRU cache with the given capacity and
// entry TTL. A zero TTL disables expiry.
func NewAssessmentCache(capacity int, ttl time.Duration) *AssessmentCache {
	return &AssessmentCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves a cached assessment by key
func (c *AssessmentCache) Get(key string) (*models.TrustAssessment, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	cached := elem.Value.(*entry)
	if cached.expired() {
		c.removeElement(elem)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return cached.assessment, true
}

// Set stores an assessment, evicting the least recently used entry
// when the cache is full
func (c *AssessmentCache) Set(key string, assessment *models.TrustAssessment) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var expiry time.Time
	if c.ttl > 0 {
		expiry = time.Now().Add(c.ttl)
	}

	if elem, ok := c.items[key]; ok {
		cached := elem.Value.(*entry)
		cached.assessment = assessment
		cached.expiry = expiry
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}

	c.items[key] = c.order.PushFront(&entry{
		key:        key,
		assessment: assessment,
		expiry:     expiry,
	})
}

// Len returns the number of cached entries
func (c *AssessmentCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.order.Len()
}

// Clear drops all entries, keeping hit/miss counters
func (c *AssessmentCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// GetStats returns current cache statistics
func (c *AssessmentCache) GetStats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:    c.order.Len(),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}

func (c *AssessmentCache) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry).key)
}
