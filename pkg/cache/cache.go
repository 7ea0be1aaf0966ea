package cache

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stocksage-ai/stocksage/pkg/models"
)

// DefaultTTL is the cache window applied when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// entry pairs a cached blob with its expiry. Entries are replaced whole on
// Set, so readers never observe a mix of old value and new expiry.
type entry struct {
	value     json.RawMessage
	expiresAt time.Time
}

// Store is an in-memory TTL cache keyed by fingerprint strings.
// Expiration is lazy: an expired entry is dropped by the Get that observes
// it. There is no capacity bound; growth is limited to the distinct
// (facet, symbol) pairs seen in a single run.
type Store struct {
	ttl    time.Duration
	mu     sync.RWMutex
	data   map[string]entry
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Store with the given default TTL. A zero or negative ttl
// falls back to DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:  ttl,
		data: make(map[string]entry),
	}
}

// Get returns the cached blob for key, or false on a miss. A miss is a
// normal outcome, never an error.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry since the read above.
		if cur, ok := s.data[key]; ok && time.Now().After(cur.expiresAt) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return e.value, true
}

// Set stores value under key with the default TTL, replacing any prior entry.
func (s *Store) Set(key string, value json.RawMessage) {
	s.SetTTL(key, value, s.ttl)
}

// SetTTL stores value under key with an explicit TTL.
func (s *Store) SetTTL(key string, value json.RawMessage, ttl time.Duration) {
	s.mu.Lock()
	s.data[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// Stats returns cache performance metrics.
func (s *Store) Stats() models.CacheStats {
	s.mu.RLock()
	entries := int64(len(s.data))
	s.mu.RUnlock()
	return models.CacheStats{
		Entries: entries,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
}
