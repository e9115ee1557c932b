package cache

import (
	"errors"
	"time"
)

// Configuration errors returned by New and the mutable setters.
// A failed configuration call leaves the cache unmodified.
var (
	ErrNegativeWeightLimit = errors.New("cache: MaxWeight must be non-negative")
	ErrNegativeTTL         = errors.New("cache: TTL must be non-negative")
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity — removed by a trim to satisfy the weight bound.
	EvictCapacity EvictReason = iota
	// EvictTTL — expired by TTL (lazy eviction on access or prune).
	EvictTTL
	// EvictManual — removed by Remove, Reset, or Load's implicit reset.
	EvictManual
	// EvictOversize — a rejected Set whose weight exceeded MaxWeight.
	EvictOversize
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int, weight int64)
}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. Zero values are safe defaults:
//   - MaxWeight 0     => unbounded
//   - nil WeightFn    => every entry weighs 1 (MaxWeight == entry count)
//   - DefaultTTL 0    => entries never expire
//   - nil Metrics     => NoopMetrics
//   - nil Clock       => time.Now
type Options[K comparable, V any] struct {
	// MaxWeight is the total weight limit; 0 disables the bound.
	// With a nil WeightFn it is effectively a max entry count.
	// Negative values are rejected by New.
	MaxWeight int64

	// WeightFn computes the capacity cost of an entry. Negative results
	// are clamped to 0. Nil means every entry weighs 1.
	WeightFn func(v V, k K) int64

	// DefaultTTL applies to entries written without a per-entry TTL
	// (0 = no expiration). Negative values are rejected by New.
	DefaultTTL time.Duration

	// AllowStale makes Get/Peek return the value of a stale entry even
	// though the entry is evicted by that same read.
	AllowStale bool

	// UpdateAgeOnGet resets an entry's creation timestamp on every
	// promoting read, extending its TTL window.
	UpdateAgeOnGet bool

	// OnEvict is called exactly once for every entry leaving the cache
	// (capacity trim, TTL expiry, Remove/Reset, oversized-set rejection).
	// It runs synchronously inside the mutating operation; it must not
	// re-enter the same cache instance.
	OnEvict func(k K, v V)

	// NoDisposeOnSet suppresses the OnEvict call for the old value when
	// Set overwrites an existing key. The zero value keeps the default
	// of disposing overwritten values.
	NoDisposeOnSet bool

	// Observability sink; nil => NoopMetrics.
	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}
