package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGet(t *testing.T) {
	s := NewStore(DefaultConfig())

	s.Put("a", 42)
	assert.Equal(t, 42, s.Get("a"))
	assert.Nil(t, s.Get("missing"))

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestStoreTTLExpiry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTL = 10 * time.Millisecond
	s := NewStore(cfg)

	s.Put("short", "lived")
	require.Equal(t, "lived", s.Get("short"))

	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, s.Get("short"), "expired entry should read as a miss")
}

func TestStoreEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEntries = 4
	s := NewStore(cfg)

	for i := 0; i < 10; i++ {
		s.Put(fmt.Sprintf("k%d", i), i)
	}

	stats := s.Stats()
	assert.LessOrEqual(t, stats.Entries, cfg.MaxEntries)
	assert.Greater(t, stats.Evictions, int64(0))
}

func TestStoreClear(t *testing.T) {
	s := NewStore(DefaultConfig())
	s.Put("a", 1)
	s.Put("b", 2)

	s.Clear()
	assert.Nil(t, s.Get("a"))
	assert.Equal(t, 0, s.Stats().Entries)
}

func TestCleanExpired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTL = 5 * time.Millisecond
	s := NewStore(cfg)

	s.Put("a", 1)
	s.Put("b", 2)
	time.Sleep(10 * time.Millisecond)
	s.Put("c", 3)

	removed := s.CleanExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 3, s.Get("c"))
}

func TestMatchKeyOrderIndependent(t *testing.T) {
	k1 := MatchKey("fix typo", []string{"a.ts", "b.ts"})
	k2 := MatchKey("fix typo", []string{"b.ts", "a.ts"})
	assert.Equal(t, k1, k2, "file order must not change the key")

	k3 := MatchKey("fix typo", []string{"a.ts", "c.ts"})
	assert.NotEqual(t, k1, k3)

	k4 := MatchKey("other prompt", []string{"a.ts", "b.ts"})
	assert.NotEqual(t, k1, k4)
}

func TestAnalysisKeyDistinguishesContentLength(t *testing.T) {
	k1 := AnalysisKey("refactor", "src/app.ts", 100)
	k2 := AnalysisKey("refactor", "src/app.ts", 200)
	assert.NotEqual(t, k1, k2)
}

func TestGraphAndStrategyKeys(t *testing.T) {
	assert.Equal(t, "graph:/proj", GraphKey("/proj"))
	assert.Equal(t, StrategyKey("SIMPLE", "fast", ".ts"), StrategyKey("SIMPLE", "fast", ".ts"))
	assert.NotEqual(t, StrategyKey("SIMPLE", "fast", ".ts"), StrategyKey("MODERATE", "fast", ".ts"))
}
