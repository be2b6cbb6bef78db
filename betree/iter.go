package betree

import (
	"iter"

	"github.com/PlakarKorp/go-betree/iterator"
)

// Iter yields the tree's keys in ascending order.  Queued puts are
// applied and queued deletes suppressed on the fly, so the sequence is
// the tree's effective contents without forcing any flush.
func (t *Tree[K]) Iter() iter.Seq[K] {
	root, compare := t.root, t.compare
	return func(yield func(K) bool) {
		root.each(compare, yield)
	}
}

type keyCursor[K any] struct {
	next func() (K, bool)
	stop func()
	cur  K
}

func (c *keyCursor[K]) Next() bool {
	k, ok := c.next()
	if !ok {
		c.stop()
		return false
	}
	c.cur = k
	return true
}

func (c *keyCursor[K]) Current() K {
	return c.cur
}

func (c *keyCursor[K]) Err() error {
	return nil
}

// Scan returns a single-pass cursor over the keys in ascending order.
func (t *Tree[K]) Scan() iterator.Iterator[K] {
	next, stop := iter.Pull(t.Iter())
	return &keyCursor[K]{next: next, stop: stop}
}
