// Package cache provides a generic, size-bounded, recency-ordered
// in-memory cache with strict LRU eviction, weighted capacity accounting,
// optional per-entry TTL, dispose callbacks, lightweight metrics hooks,
// and a dump/load snapshot format.
//
// Design
//
//   - Storage: a map[K]*node for O(1) lookups plus an intrusive MRU↔LRU
//     doubly linked list for ordering. Both structures always contain
//     exactly the same set of live keys; every mutating operation keeps
//     them in lockstep.
//
//   - Eviction: strict LRU only. When the total weight exceeds MaxWeight,
//     the cache evicts from the tail of the recency list until the bound
//     is satisfied. Recency position is the sole eviction-order rule.
//
//   - Weight: each entry is charged a weight computed by Options.WeightFn
//     (constant 1 when unset, making MaxWeight an entry-count limit).
//     An entry whose own weight exceeds MaxWeight is rejected by Set —
//     and a rejected replacement still removes the old entry under that
//     key. That asymmetry is deliberate, observable behavior.
//
//   - TTL: entries can carry a per-entry TTL overriding DefaultTTL.
//     Expiration is lazy: a stale entry is evicted when a read, a prune,
//     or an iteration touches it. There is no background timer. With
//     AllowStale, a read that evicts a stale entry still returns its
//     value one last time.
//
//   - Callbacks: Options.OnEvict(k, v) fires exactly once for every entry
//     leaving the cache, synchronously inside the mutating operation.
//     List/index bookkeeping always completes before the callback runs,
//     so a panicking callback cannot corrupt the structures. A callback
//     must not re-enter the same cache instance.
//
//   - Snapshots: Dump produces a most-recent-first sequence of
//     {key, value, expiresAt-ms} records, skipping stale entries; Load
//     resets the cache and replays such a sequence in reverse so the
//     original recency order is reconstructed through the normal write
//     path. Records already past their expiry are dropped.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug the Prometheus adapter from
//     metrics/prom to export them.
//
// Concurrency
//
// A Cache is single-owner. Operations are synchronous, never block, and
// perform no internal locking; sharing an instance across goroutines
// requires external serialization (a mutex around the instance, or a
// single owning goroutine). Clock reads for staleness are the only
// external dependency.
//
// Basic usage
//
//	// Create an LRU cache bounded to 10k entries (nil WeightFn => 1 each).
//	c, _ := cache.New[string, []byte](cache.Options[string, []byte]{MaxWeight: 10_000})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With TTL
//
//	c, _ := cache.New[string, string](cache.Options[string, string]{MaxWeight: 1024})
//	c.SetWithTTL("tmp", "v", 200*time.Millisecond)
//	time.Sleep(300 * time.Millisecond)
//	_, ok := c.Get("tmp") // ok == false (expired and evicted)
//
// Weighted capacity
//
//	c, _ := cache.New[string, []byte](cache.Options[string, []byte]{
//	    MaxWeight: 64 << 20, // 64 MiB
//	    WeightFn:  func(v []byte, _ string) int64 { return int64(len(v)) },
//	})
//
// Snapshot round-trip
//
//	snap := c.Dump()
//	c2, _ := cache.New[string, []byte](sameOptions)
//	c2.Load(snap) // same keys, same recency order, remaining TTLs kept
//
// Typical complexity is amortized O(1) per single-key operation: one map
// access and a constant amount of pointer fixes. A trim evicting k
// entries costs O(k).
package cache
