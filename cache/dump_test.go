package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Dump emits non-stale entries MRU-first with absolute expiry stamps.
func TestDump_OrderAndExpiry(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: int64(time.Hour)}
	c := mustNew(t, Options[string, int]{MaxWeight: 8, Clock: clk})

	c.Set("never", 1)
	c.SetWithTTL("soon", 2, 100*time.Millisecond)
	c.SetWithTTL("stale", 3, 10*time.Millisecond)
	clk.add(50 * time.Millisecond)

	dump := c.Dump()
	require.Len(t, dump, 2, "stale entries must be skipped")

	// MRU-first: stale was the most recent write but is skipped, so the
	// sequence is soon, never.
	assert.Equal(t, "soon", dump[0].Key)
	assert.Equal(t, "never", dump[1].Key)

	assert.EqualValues(t, 0, dump[1].ExpiresAt, "no-TTL entries carry the never-expires sentinel")
	wantExpiry := (int64(time.Hour) + int64(100*time.Millisecond)) / int64(time.Millisecond)
	assert.Equal(t, wantExpiry, dump[0].ExpiresAt)

	assert.Equal(t, 3, c.Len(), "Dump must not evict the stale entry")
}

// Round-trip: Load into an equally configured cache reproduces the key
// set, the recency order, and the remaining TTLs; expired records drop.
func TestDumpLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: int64(time.Hour)}
	src := mustNew(t, Options[string, int]{MaxWeight: 8, Clock: clk})

	src.Set("a", 1)
	src.SetWithTTL("b", 2, time.Minute)
	src.Set("c", 3)
	src.Get("a") // promote: order is a, c, b

	dump := src.Dump()

	dst := mustNew(t, Options[string, int]{MaxWeight: 8, Clock: clk})
	dst.Load(dump)

	assert.Equal(t, src.Keys(), dst.Keys(), "recency order must survive the round-trip")

	for _, k := range []string{"a", "b", "c"} {
		v, ok := dst.Peek(k)
		require.True(t, ok, "key %q must be present", k)
		sv, _ := src.Peek(k)
		assert.Equal(t, sv, v)
	}

	// b keeps its remaining TTL: still fresh before the minute is up,
	// stale after.
	clk.add(59 * time.Second)
	assert.True(t, dst.Has("b"))
	clk.add(2 * time.Second)
	assert.False(t, dst.Has("b"))
	assert.True(t, dst.Has("a"), "no-TTL entries must not expire")
}

// Records whose expiry already passed are dropped silently by Load.
func TestLoad_DropsExpired(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: int64(time.Hour)}
	c := mustNew(t, Options[string, int]{MaxWeight: 8, Clock: clk})

	nowMs := clk.t / int64(time.Millisecond)
	c.Load([]Entry[string, int]{
		{Key: "live", Value: 1, ExpiresAt: nowMs + 1000},
		{Key: "dead", Value: 2, ExpiresAt: nowMs - 1},
		{Key: "forever", Value: 3, ExpiresAt: 0},
	})

	assert.True(t, c.Has("live"))
	assert.False(t, c.Has("dead"))
	assert.True(t, c.Has("forever"))
	assert.Equal(t, 2, c.Len())
}

// Load resets first: current entries are disposed before the replay.
func TestLoad_ResetsAndDisposes(t *testing.T) {
	t.Parallel()

	var disposed []string
	c := mustNew(t, Options[string, int]{
		MaxWeight: 8,
		OnEvict:   func(k string, _ int) { disposed = append(disposed, k) },
	})
	c.Set("old", 1)

	c.Load([]Entry[string, int]{{Key: "new", Value: 2}})

	assert.Equal(t, []string{"old"}, disposed)
	assert.False(t, c.Has("old"))
	assert.True(t, c.Has("new"))
}

// The dump record serializes with the k/v/e wire layout, so snapshots
// interoperate with other implementations of the same format.
func TestEntry_WireFormat(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Entry[string, int]{Key: "a", Value: 1, ExpiresAt: 42})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"a","v":1,"e":42}`, string(b))

	var e Entry[string, int]
	require.NoError(t, json.Unmarshal([]byte(`{"k":"b","v":7,"e":0}`), &e))
	assert.Equal(t, Entry[string, int]{Key: "b", Value: 7, ExpiresAt: 0}, e)
}
