package cache

// node is an intrusive doubly linked list element owned by the cache.
// It stores the key/value alongside list links and the metadata used by
// weight accounting and TTL staleness checks.
type node[K comparable, V any] struct {
	key K
	val V

	// Intrusive list links: head is MRU, tail is LRU.
	prev *node[K, V]
	next *node[K, V]

	// Logical weight charged against MaxWeight. Computed by WeightFn
	// (constant 1 when no WeightFn is configured).
	weight int64

	// Creation timestamp in UnixNano. Zero means "written while no TTL
	// was in effect"; such an entry counts as immediately stale if a
	// TTL is introduced later, which matches the dump/load wire format.
	createdAt int64

	// Per-entry TTL override in nanoseconds. Zero means "use DefaultTTL".
	ttl int64
}
