package cache

import (
	"time"
)

// lruCache is a strict-LRU, weight-bounded in-memory KV store.
// It is single-owner: no internal locking, callers serialize access.
type lruCache[K comparable, V any] struct {
	m    map[K]*node[K, V]
	head *node[K, V] // MRU
	tail *node[K, V] // LRU

	len    int   // number of resident entries
	weight int64 // total weight of resident entries

	maxWeight  int64 // 0 = unbounded
	defaultTTL int64 // nanoseconds, 0 = disabled

	weightFn       func(v V, k K) int64
	allowStale     bool
	updateAgeOnGet bool
	onEvict        func(k K, v V)
	noDisposeOnSet bool

	metrics Metrics
	clock   Clock
}

// New constructs a cache with the provided Options.
// It returns a configuration error for a negative MaxWeight or DefaultTTL.
// Defaults: nil Metrics -> NoopMetrics, nil Clock -> time.Now,
// nil WeightFn -> constant 1 per entry, MaxWeight 0 -> unbounded.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.MaxWeight < 0 {
		return nil, ErrNegativeWeightLimit
	}
	if opt.DefaultTTL < 0 {
		return nil, ErrNegativeTTL
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	// return pointer-to-impl as the interface (avoids unexported-return lint)
	return &lruCache[K, V]{
		m:              make(map[K]*node[K, V]),
		maxWeight:      opt.MaxWeight,
		defaultTTL:     int64(opt.DefaultTTL),
		weightFn:       opt.WeightFn,
		allowStale:     opt.AllowStale,
		updateAgeOnGet: opt.UpdateAgeOnGet,
		onEvict:        opt.OnEvict,
		noDisposeOnSet: opt.NoDisposeOnSet,
		metrics:        opt.Metrics,
		clock:          opt.Clock,
	}, nil
}

// ---- Cache[K,V] implementation ----

// Set inserts or updates k→v with the DefaultTTL and promotes it to MRU.
func (c *lruCache[K, V]) Set(k K, v V) bool {
	return c.set(k, v, 0)
}

// SetWithTTL inserts or updates k→v with a per-entry TTL.
// A non-positive ttl stores no override, so DefaultTTL still applies.
func (c *lruCache[K, V]) SetWithTTL(k K, v V, ttl time.Duration) bool {
	if ttl < 0 {
		ttl = 0
	}
	return c.set(k, v, int64(ttl))
}

// set is the single write path. ttl is the per-entry override in
// nanoseconds (0 = none).
func (c *lruCache[K, V]) set(k K, v V, ttl int64) bool {
	w := c.weightOf(v, k)

	if c.maxWeight > 0 && w > c.maxWeight {
		// Oversized entries are rejected, not truncated. The rejected
		// value is disposed, and any old entry under the key is removed
		// as well: a too-large replacement still evicts what it replaces.
		c.metrics.Evict(EvictOversize)
		if c.onEvict != nil {
			c.onEvict(k, v)
		}
		if old, ok := c.m[k]; ok {
			c.evictNode(old, EvictOversize)
		}
		c.noteSize()
		return false
	}

	if n, ok := c.m[k]; ok {
		// In-place update. The old value is disposed before it is
		// overwritten unless NoDisposeOnSet is set.
		if !c.noDisposeOnSet && c.onEvict != nil {
			c.onEvict(k, n.val)
		}
		c.weight += w - n.weight
		n.val = v
		n.weight = w
		n.ttl = ttl
		n.createdAt = c.stamp(ttl)
		c.moveToFront(n)
		c.trim()
		return true
	}

	n := &node[K, V]{key: k, val: v, weight: w, ttl: ttl, createdAt: c.stamp(ttl)}
	c.m[k] = n
	c.insertFront(n)
	c.trim()
	return true
}

// Get returns the value for k, promoting fresh hits to MRU.
// Stale entries are evicted on sight; AllowStale still surfaces the value.
func (c *lruCache[K, V]) Get(k K) (V, bool) {
	return c.lookup(k, true)
}

// Peek is Get without promotion or age refresh.
func (c *lruCache[K, V]) Peek(k K) (V, bool) {
	return c.lookup(k, false)
}

func (c *lruCache[K, V]) lookup(k K, promote bool) (V, bool) {
	n, ok := c.m[k]
	if !ok {
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	if c.isStale(n) {
		// Eviction happens regardless of AllowStale; the flag only
		// decides whether the caller still sees the dead value.
		c.evictNode(n, EvictTTL)
		c.noteSize()
		c.metrics.Miss()
		if c.allowStale {
			return n.val, true
		}
		var zero V
		return zero, false
	}
	if promote {
		c.moveToFront(n)
		if c.updateAgeOnGet {
			n.createdAt = c.now()
		}
	}
	c.metrics.Hit()
	return n.val, true
}

// Has reports whether k maps to a non-stale entry.
// A merely-informational stale check does not mutate state.
func (c *lruCache[K, V]) Has(k K) bool {
	n, ok := c.m[k]
	if !ok {
		return false
	}
	return !c.isStale(n)
}

// Remove deletes k if present and reports whether an entry existed.
func (c *lruCache[K, V]) Remove(k K) bool {
	n, ok := c.m[k]
	if !ok {
		return false
	}
	c.evictNode(n, EvictManual)
	c.noteSize()
	return true
}

// Reset disposes every entry in recency order and empties the cache.
func (c *lruCache[K, V]) Reset() {
	// Detach everything first so a panicking dispose callback cannot
	// leave the list and index diverged.
	head := c.head
	c.m = make(map[K]*node[K, V])
	c.head, c.tail = nil, nil
	c.len = 0
	c.weight = 0
	c.noteSize()

	for n := head; n != nil; n = n.next {
		c.metrics.Evict(EvictManual)
		if c.onEvict != nil {
			c.onEvict(n.key, n.val)
		}
	}
}

// Prune evicts every currently-stale entry in one sweep.
func (c *lruCache[K, V]) Prune() {
	for n := c.head; n != nil; {
		next := n.next
		if c.isStale(n) {
			c.evictNode(n, EvictTTL)
		}
		n = next
	}
	c.noteSize()
}

// Keys returns the resident keys, MRU first.
func (c *lruCache[K, V]) Keys() []K {
	ks := make([]K, 0, c.len)
	for n := c.head; n != nil; n = n.next {
		ks = append(ks, n.key)
	}
	return ks
}

// Values returns the resident values, MRU first.
func (c *lruCache[K, V]) Values() []V {
	vs := make([]V, 0, c.len)
	for n := c.head; n != nil; n = n.next {
		vs = append(vs, n.val)
	}
	return vs
}

// ForEach visits entries from MRU to LRU without promotion.
// Stale entries discovered on the way are evicted; they are still
// visited when AllowStale is set.
func (c *lruCache[K, V]) ForEach(fn func(v V, k K)) {
	for n := c.head; n != nil; {
		next := n.next
		c.visit(n, fn)
		n = next
	}
	c.noteSize()
}

// ReverseForEach is ForEach from LRU to MRU.
func (c *lruCache[K, V]) ReverseForEach(fn func(v V, k K)) {
	for n := c.tail; n != nil; {
		prev := n.prev
		c.visit(n, fn)
		n = prev
	}
	c.noteSize()
}

func (c *lruCache[K, V]) visit(n *node[K, V], fn func(v V, k K)) {
	if c.isStale(n) {
		c.evictNode(n, EvictTTL)
		if c.allowStale {
			fn(n.val, n.key)
		}
		return
	}
	fn(n.val, n.key)
}

// Dump returns a most-recent-first snapshot of the non-stale entries.
// Stale entries are skipped but not evicted: Dump has no side effects.
func (c *lruCache[K, V]) Dump() []Entry[K, V] {
	out := make([]Entry[K, V], 0, c.len)
	for n := c.head; n != nil; n = n.next {
		if c.isStale(n) {
			continue
		}
		var expiresAt int64
		if ttl := c.effectiveTTL(n); ttl != 0 {
			expiresAt = (n.createdAt + ttl) / int64(time.Millisecond)
		}
		out = append(out, Entry[K, V]{Key: n.key, Value: n.val, ExpiresAt: expiresAt})
	}
	return out
}

// Load resets the cache and replays a dumped sequence through the normal
// set path. The sequence is most-recent-first, so it is replayed in
// reverse: set always inserts at MRU, and tail-first replay reconstructs
// the original recency order. Records whose remaining TTL has already
// run out are dropped silently.
func (c *lruCache[K, V]) Load(entries []Entry[K, V]) {
	c.Reset()
	nowMs := c.now() / int64(time.Millisecond)
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.ExpiresAt == 0 {
			c.Set(e.Key, e.Value)
			continue
		}
		remaining := e.ExpiresAt - nowMs
		if remaining <= 0 {
			continue
		}
		c.SetWithTTL(e.Key, e.Value, time.Duration(remaining)*time.Millisecond)
	}
}

// Len returns the number of resident entries.
func (c *lruCache[K, V]) Len() int { return c.len }

// Weight returns the total weight of resident entries.
func (c *lruCache[K, V]) Weight() int64 { return c.weight }

// MaxWeight returns the configured weight bound (0 = unbounded).
func (c *lruCache[K, V]) MaxWeight() int64 { return c.maxWeight }

// SetMaxWeight changes the weight bound and immediately trims.
func (c *lruCache[K, V]) SetMaxWeight(limit int64) error {
	if limit < 0 {
		return ErrNegativeWeightLimit
	}
	c.maxWeight = limit
	c.trim()
	return nil
}

// SetDefaultTTL changes the default TTL. The setter contract includes a
// trim even though a TTL change alone cannot violate the weight bound.
func (c *lruCache[K, V]) SetDefaultTTL(ttl time.Duration) error {
	if ttl < 0 {
		return ErrNegativeTTL
	}
	c.defaultTTL = int64(ttl)
	c.trim()
	return nil
}

// SetWeightFn replaces the weight function, recomputes every resident
// entry's weight, and trims to the (possibly now-violated) bound.
func (c *lruCache[K, V]) SetWeightFn(fn func(v V, k K) int64) {
	c.weightFn = fn
	var total int64
	for n := c.head; n != nil; n = n.next {
		n.weight = c.weightOf(n.val, n.key)
		total += n.weight
	}
	c.weight = total
	c.trim()
}

// -------------------- internals --------------------

func (c *lruCache[K, V]) now() int64 {
	if c.clock != nil {
		return c.clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// stamp returns the creation timestamp for an entry written with the
// given TTL override: the current time when any TTL is in effect,
// otherwise the zero sentinel.
func (c *lruCache[K, V]) stamp(ttl int64) int64 {
	if ttl != 0 || c.defaultTTL != 0 {
		return c.now()
	}
	return 0
}

// effectiveTTL returns the TTL governing n: its override if non-zero,
// else the cache default (0 = no TTL applies).
func (c *lruCache[K, V]) effectiveTTL(n *node[K, V]) int64 {
	if n.ttl != 0 {
		return n.ttl
	}
	return c.defaultTTL
}

func (c *lruCache[K, V]) isStale(n *node[K, V]) bool {
	ttl := c.effectiveTTL(n)
	if ttl == 0 {
		return false
	}
	return c.now()-n.createdAt > ttl
}

// weightOf computes the per-entry weight (negative results clamp to 0).
func (c *lruCache[K, V]) weightOf(v V, k K) int64 {
	if c.weightFn == nil {
		return 1
	}
	w := c.weightFn(v, k)
	if w < 0 {
		w = 0
	}
	return w
}

// evictNode unlinks n from both structures, then reports the eviction.
// Bookkeeping completes before the dispose callback runs, so a failing
// callback cannot leave the list and index diverged.
func (c *lruCache[K, V]) evictNode(n *node[K, V], reason EvictReason) {
	c.removeNode(n)
	delete(c.m, n.key)
	c.metrics.Evict(reason)
	if c.onEvict != nil {
		c.onEvict(n.key, n.val)
	}
}

// trim evicts LRU entries until the weight bound is satisfied.
// Recency position is the sole eviction-order rule.
func (c *lruCache[K, V]) trim() {
	for c.maxWeight > 0 && c.weight > c.maxWeight {
		t := c.back()
		if t == nil {
			break
		}
		c.evictNode(t, EvictCapacity)
	}
	c.noteSize()
}

func (c *lruCache[K, V]) noteSize() {
	c.metrics.Size(c.len, c.weight)
}
