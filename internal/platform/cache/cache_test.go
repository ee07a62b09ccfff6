package cache_test

import (
	"testing"
	"time"

	memclock "github.com/travlr-labs/travel-catalog-api/internal/adapters/memory/clock"
	"github.com/travlr-labs/travel-catalog-api/internal/platform/cache"
)

func TestCache_SetThenGetReturnsValue(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	c := cache.New[string](cache.DefaultTTL, clk)

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("got=%q ok=%v", got, ok)
	}
}

func TestCache_EntryExpiresAfterTTLAndStaysGone(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	c := cache.New[int](time.Minute, clk)

	c.Set("k", 7)

	// Exactly at TTL the entry is still live (now - storedAt <= TTL).
	clk.Advance(time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("entry expired at exactly TTL; want live")
	}

	clk.Advance(time.Nanosecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("entry still live past TTL")
	}
	// A subsequent Get must not resurrect the value.
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expired entry resurrected")
	}
	if st := c.Stats(); st.Size != 0 {
		t.Fatalf("expired entry not swept: %+v", st)
	}
}

func TestCache_SetOverwritesAndRefreshesTimestamp(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	c := cache.New[int](time.Minute, clk)

	c.Set("k", 1)
	clk.Advance(50 * time.Second)
	c.Set("k", 2)
	clk.Advance(50 * time.Second)

	// 100s after the first Set, but only 50s after the overwrite.
	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Fatalf("got=%d ok=%v, want 2 true", got, ok)
	}
}

func TestCache_ClearAndClearAll(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	c := cache.New[int](time.Minute, clk)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("a survived Clear")
	}
	// Clearing an absent key is a no-op.
	c.Clear("missing")
	if _, ok := c.Get("b"); !ok {
		t.Fatalf("b lost")
	}

	c.ClearAll()
	if st := c.Stats(); st.Size != 0 || len(st.Keys) != 0 {
		t.Fatalf("stats after ClearAll: %+v", st)
	}
}

func TestCache_ConcurrentAccessDoesNotCorrupt(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	c := cache.New[int](time.Minute, clk)

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 500; i++ {
				c.Set("k", g)
				c.Get("k")
				c.Clear("k")
				c.Stats()
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}
}
