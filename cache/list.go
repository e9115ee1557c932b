package cache

// Recency list primitives. The list is intrusive: links live inside the
// nodes, so every operation here is O(1) pointer surgery with no
// allocation. Head is MRU, tail is LRU. Weight/length counters are
// maintained by the cache, not here, except where noted.

// insertFront inserts n at MRU in O(1).
func (c *lruCache[K, V]) insertFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.len++
	c.weight += n.weight
}

// moveToFront promotes n to MRU in O(1).
func (c *lruCache[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	// detach
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.tail == n {
		c.tail = n.prev
	}
	// insert at head
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// removeNode unlinks n from the list and updates counters in O(1).
func (c *lruCache[K, V]) removeNode(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.head == n {
		c.head = n.next
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
	c.len--
	c.weight -= n.weight
	if c.weight < 0 {
		c.weight = 0
	}
}

// back returns the current LRU node in O(1), or nil when empty.
func (c *lruCache[K, V]) back() *node[K, V] { return c.tail }
