package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keysFrontToBack walks head->tail collecting keys, and cross-checks the
// backward links on the way.
func keysFrontToBack(t *testing.T, c *lruCache[string, int]) []string {
	t.Helper()
	var out []string
	var prev *node[string, int]
	for n := c.head; n != nil; n = n.next {
		require.Same(t, prev, n.prev, "backward link broken at %q", n.key)
		out = append(out, n.key)
		prev = n
	}
	require.Same(t, prev, c.tail, "tail must be the last node")
	return out
}

func newListUnderTest(t *testing.T) *lruCache[string, int] {
	t.Helper()
	c, err := New(Options[string, int]{})
	require.NoError(t, err)
	return c.(*lruCache[string, int])
}

func TestList_InsertFront(t *testing.T) {
	t.Parallel()

	c := newListUnderTest(t)
	for _, k := range []string{"a", "b", "c"} {
		c.insertFront(&node[string, int]{key: k, weight: 1})
	}
	assert.Equal(t, []string{"c", "b", "a"}, keysFrontToBack(t, c))
	assert.Equal(t, 3, c.len)
	assert.EqualValues(t, 3, c.weight)
	assert.Equal(t, "a", c.back().key)
}

func TestList_MoveToFront(t *testing.T) {
	t.Parallel()

	c := newListUnderTest(t)
	nodes := map[string]*node[string, int]{}
	for _, k := range []string{"a", "b", "c"} {
		n := &node[string, int]{key: k, weight: 1}
		nodes[k] = n
		c.insertFront(n)
	}

	c.moveToFront(nodes["a"]) // tail to head
	assert.Equal(t, []string{"a", "c", "b"}, keysFrontToBack(t, c))

	c.moveToFront(nodes["c"]) // middle to head
	assert.Equal(t, []string{"c", "a", "b"}, keysFrontToBack(t, c))

	c.moveToFront(nodes["c"]) // head stays put
	assert.Equal(t, []string{"c", "a", "b"}, keysFrontToBack(t, c))
}

func TestList_RemoveNode(t *testing.T) {
	t.Parallel()

	c := newListUnderTest(t)
	nodes := map[string]*node[string, int]{}
	for _, k := range []string{"a", "b", "c", "d"} {
		n := &node[string, int]{key: k, weight: 2}
		nodes[k] = n
		c.insertFront(n)
	}

	c.removeNode(nodes["c"]) // middle
	assert.Equal(t, []string{"d", "b", "a"}, keysFrontToBack(t, c))

	c.removeNode(nodes["d"]) // head
	assert.Equal(t, []string{"b", "a"}, keysFrontToBack(t, c))

	c.removeNode(nodes["a"]) // tail
	assert.Equal(t, []string{"b"}, keysFrontToBack(t, c))
	assert.Equal(t, 1, c.len)
	assert.EqualValues(t, 2, c.weight)

	c.removeNode(nodes["b"]) // last
	assert.Nil(t, c.head)
	assert.Nil(t, c.tail)
	assert.Equal(t, 0, c.len)
	assert.EqualValues(t, 0, c.weight)
}
