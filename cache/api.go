package cache

import "time"

// Cache is a size-bounded, recency-ordered in-memory key/value cache with
// strict LRU eviction and optional TTL expiry.
//
// A Cache is single-owner: methods are synchronous, never block, and are
// NOT safe for concurrent use. Callers that share an instance across
// goroutines must serialize access externally (e.g. wrap it in a mutex).
//
// Typical complexity is amortized O(1) per single-key operation: a map
// lookup plus constant-time list adjustments. A trim evicting k entries
// costs O(k).
type Cache[K comparable, V any] interface {
	// Set inserts or updates k→v with the cache's DefaultTTL (if any)
	// and promotes the entry to MRU. It returns false when the entry's
	// weight exceeds MaxWeight; in that case the value is disposed, any
	// old entry under k is removed as well, and nothing is inserted.
	Set(k K, v V) bool

	// SetWithTTL is Set with a per-entry TTL overriding DefaultTTL.
	// A non-positive ttl stores no override (DefaultTTL applies).
	SetWithTTL(k K, v V, ttl time.Duration) bool

	// Get returns the value for k and a presence flag. On a fresh hit
	// the entry is promoted to MRU (and its age reset if UpdateAgeOnGet).
	// A stale entry is evicted; its value is still returned when
	// AllowStale is set.
	Get(k K) (V, bool)

	// Peek is Get without promotion or age refresh. Stale entries are
	// still evicted (and returned under AllowStale).
	Peek(k K) (V, bool)

	// Has reports whether k maps to a non-stale entry. It never
	// promotes and never evicts.
	Has(k K) bool

	// Remove deletes k if present, disposing its value, and reports
	// whether an entry existed.
	Remove(k K) bool

	// Reset disposes every entry in recency order and empties the cache.
	Reset()

	// Prune evicts every currently-stale entry. The cache never calls
	// this on its own; expiry is otherwise lazy.
	Prune()

	// Keys returns the resident keys in recency order (MRU first).
	Keys() []K

	// Values returns the resident values in recency order (MRU first).
	Values() []V

	// ForEach visits entries from MRU to LRU. Stale entries discovered
	// during the walk are evicted; they are visited only under
	// AllowStale. The visit itself does not promote.
	ForEach(fn func(v V, k K))

	// ReverseForEach is ForEach from LRU to MRU.
	ReverseForEach(fn func(v V, k K))

	// Dump returns a most-recent-first snapshot of the non-stale
	// entries, suitable for Load into another instance.
	Dump() []Entry[K, V]

	// Load resets the cache (disposing current entries) and replays the
	// dumped sequence, dropping records that have already expired.
	Load(entries []Entry[K, V])

	// Len returns the number of resident entries.
	Len() int

	// Weight returns the total weight of resident entries.
	Weight() int64

	// MaxWeight returns the configured weight bound (0 = unbounded).
	MaxWeight() int64

	// SetMaxWeight changes the weight bound and immediately trims.
	// Negative limits are rejected and leave the cache unmodified.
	SetMaxWeight(limit int64) error

	// SetDefaultTTL changes the default TTL and triggers a trim.
	// Negative TTLs are rejected and leave the cache unmodified.
	SetDefaultTTL(ttl time.Duration) error

	// SetWeightFn replaces the weight function, recomputes every
	// resident entry's weight, and trims. A nil fn restores the
	// constant-1 default.
	SetWeightFn(fn func(v V, k K) int64)
}

// Entry is a single dumped cache record. ExpiresAt is an absolute expiry
// time in epoch milliseconds; 0 means the entry never expires. The JSON
// field names match the wire layout produced by other implementations of
// this dump format.
type Entry[K comparable, V any] struct {
	Key       K     `json:"k"`
	Value     V     `json:"v"`
	ExpiresAt int64 `json:"e"`
}
