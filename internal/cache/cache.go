// Package cache provides the injected key/value stores shared by the engine
// pipelines: the dependency graph cache, the semantic match cache, and the
// complexity/strategy caches.
//
// The stores are deliberately simple: sync.Map with atomic counters, lazy TTL
// expiry and oldest-entry eviction. There is no invalidation policy - every
// producer is idempotent and cheap enough that a rebuild on miss is acceptable.
// Tests inject fresh stores to get deterministic, eviction-free behavior.
package cache

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store configuration constants
const (
	DefaultMaxEntries = 400
	DefaultTTL        = 2 * time.Hour
)

// Entry wraps a cached value with bookkeeping for TTL and eviction.
type Entry struct {
	Data        interface{}
	CachedAt    int64 // Unix nano for atomic compare
	AccessCount int64 // Atomic counter
}

// Store is a bounded key/value cache safe for concurrent use.
type Store struct {
	entries sync.Map // map[string]*Entry

	// Configuration (read-only after creation)
	maxEntries int
	ttlNanos   int64

	// Atomic counters
	hits      int64
	misses    int64
	evictions int64
	count     int64

	createdAt time.Time
}

// Config defines store configuration options
type Config struct {
	MaxEntries int
	TTL        time.Duration
}

// DefaultConfig returns default store configuration
func DefaultConfig() Config {
	return Config{
		MaxEntries: DefaultMaxEntries,
		TTL:        DefaultTTL,
	}
}

// NewStore creates a new cache store
func NewStore(config Config) *Store {
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultMaxEntries
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	return &Store{
		maxEntries: config.MaxEntries,
		ttlNanos:   config.TTL.Nanoseconds(),
		createdAt:  time.Now(),
	}
}

// Get retrieves a cached value, or nil if absent or expired.
func (s *Store) Get(key string) interface{} {
	now := time.Now().UnixNano()

	if val, ok := s.entries.Load(key); ok {
		entry := val.(*Entry)
		if now-atomic.LoadInt64(&entry.CachedAt) <= atomic.LoadInt64(&s.ttlNanos) {
			atomic.AddInt64(&entry.AccessCount, 1)
			atomic.AddInt64(&s.hits, 1)
			return entry.Data
		}
		// Expired - delete lazily
		s.entries.Delete(key)
		atomic.AddInt64(&s.count, -1)
	}

	atomic.AddInt64(&s.misses, 1)
	return nil
}

// Put stores a value, evicting the oldest entry when over capacity.
func (s *Store) Put(key string, value interface{}) {
	entry := &Entry{
		Data:        value,
		CachedAt:    time.Now().UnixNano(),
		AccessCount: 1,
	}

	if _, loaded := s.entries.LoadOrStore(key, entry); loaded {
		// Update in place keeps the count stable
		s.entries.Store(key, entry)
		return
	}

	if atomic.AddInt64(&s.count, 1) > int64(s.maxEntries) {
		s.evictOldest()
	}
}

// evictOldest removes the entry with the earliest CachedAt timestamp
func (s *Store) evictOldest() {
	var oldestKey interface{}
	oldestTime := time.Now().UnixNano()

	s.entries.Range(func(key, value interface{}) bool {
		entry := value.(*Entry)
		cachedAt := atomic.LoadInt64(&entry.CachedAt)
		if cachedAt < oldestTime {
			oldestTime = cachedAt
			oldestKey = key
		}
		return true
	})

	if oldestKey != nil {
		s.entries.Delete(oldestKey)
		atomic.AddInt64(&s.count, -1)
		atomic.AddInt64(&s.evictions, 1)
	}
}

// CleanExpired removes expired entries and returns how many were removed.
func (s *Store) CleanExpired() int {
	now := time.Now().UnixNano()
	cleaned := int64(0)
	remaining := int64(0)

	ttl := atomic.LoadInt64(&s.ttlNanos)
	s.entries.Range(func(key, value interface{}) bool {
		entry := value.(*Entry)
		if now-atomic.LoadInt64(&entry.CachedAt) > ttl {
			s.entries.Delete(key)
			cleaned++
		} else {
			remaining++
		}
		return true
	})

	atomic.StoreInt64(&s.count, remaining)
	atomic.AddInt64(&s.evictions, cleaned)
	return int(cleaned)
}

// Clear removes all entries and resets statistics
func (s *Store) Clear() {
	s.entries.Range(func(key, _ interface{}) bool {
		s.entries.Delete(key)
		return true
	})
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.evictions, 0)
	atomic.StoreInt64(&s.count, 0)
}

// Stats holds cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	HitRate   float64
	Uptime    time.Duration
}

// Stats returns a snapshot of the store's counters
func (s *Store) Stats() Stats {
	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)

	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: atomic.LoadInt64(&s.evictions),
		Entries:   int(atomic.LoadInt64(&s.count)),
		HitRate:   hitRate,
		Uptime:    time.Since(s.createdAt),
	}
}

// GraphKey builds the cache key for a dependency graph: the project path.
func GraphKey(rootPath string) string {
	return "graph:" + rootPath
}

// MatchKey builds the cache key for a semantic match run: prompt plus the
// candidate file set. The file set is sorted before hashing so callers get
// the same key regardless of enumeration order.
func MatchKey(prompt string, files []string) string {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	h := xxhash.New()
	_, _ = h.WriteString(prompt)
	for _, f := range sorted {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(f)
	}
	return "match:" + strconv.FormatUint(h.Sum64(), 16)
}

// AnalysisKey builds the cache key for a complexity estimate.
func AnalysisKey(prompt, filePath string, contentLength int) string {
	h := xxhash.New()
	_, _ = h.WriteString(prompt)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(filePath)

	var b strings.Builder
	b.WriteString("analysis:")
	b.WriteString(strconv.FormatUint(h.Sum64(), 16))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(contentLength))
	return b.String()
}

// StrategyKey builds the cache key for a strategy decision.
func StrategyKey(complexity, preference, extension string) string {
	var b strings.Builder
	b.Grow(len("strategy:") + len(complexity) + len(preference) + len(extension) + 2)
	b.WriteString("strategy:")
	b.WriteString(complexity)
	b.WriteByte(':')
	b.WriteString(preference)
	b.WriteByte(':')
	b.WriteString(extension)
	return b.String()
}
