//go:build go1.18

package cache

import (
	"strings"
	"testing"
)

// Fuzz basic Set/Get/Remove semantics under arbitrary string inputs.
// Guards against panics and checks the index/list/weight invariants
// after every step.
// NOTE: We cap key/value lengths to avoid pathological memory usage
// during fuzzing (this does not weaken the invariants we check).
func FuzzCache_SetGetRemove(f *testing.F) {
	// Seed corpus: empty, ASCII, Unicode, long strings.
	f.Add("", "")
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		// Cap lengths to keep memory bounded during fuzzing.
		const limit = 1 << 12 // 4096
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c := mustNew(t, Options[string, string]{
			MaxWeight: 1 << 13,
			WeightFn:  func(v string, k string) int64 { return int64(len(v)) + 1 },
		})

		// Set -> Get must return the same value.
		if !c.Set(k, v) {
			t.Fatalf("Set must succeed for capped inputs")
		}
		got, ok := c.Get(k)
		if !ok || got != v {
			t.Fatalf("after Set/Get: want %q, got %q ok=%v", v, got, ok)
		}
		checkInvariants(t, c)

		// Overwrite must keep exactly one entry under the key.
		c.Set(k, v+"x")
		if c.Len() != 1 {
			t.Fatalf("overwrite must not duplicate, len=%d", c.Len())
		}
		checkInvariants(t, c)

		// Remove must delete and return true once.
		if !c.Remove(k) {
			t.Fatalf("Remove must return true")
		}
		if c.Remove(k) {
			t.Fatalf("second Remove must return false")
		}
		if _, ok := c.Get(k); ok {
			t.Fatalf("key must be absent after Remove")
		}
		checkInvariants(t, c)

		// After removal, Set should succeed again.
		if !c.Set(k, v) {
			t.Fatalf("Set after Remove must succeed")
		}
		checkInvariants(t, c)
	})
}
