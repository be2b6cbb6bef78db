package betree

import "fmt"

// queue is the per-interior-node buffer of pending updates.  Its
// capacity is bounded by the node arity: B at a binary node, 3B/2 at a
// ternary node with the additional pairwise constraints checked by
// queueWithNoFlush.
type queue[K any] struct {
	updates SortedUpdates[K]
}

func emptyQueue[K any]() queue[K] {
	return queue[K]{}
}

func newQueue[K any](config *Config, updates SortedUpdates[K]) queue[K] {
	if updates.Len() > config.BatchSize {
		panic(fmt.Sprintf("queue is over-full: %d > %d", updates.Len(), config.BatchSize))
	}
	return queue[K]{updates: updates}
}

// queueWithNoFlush builds a branch subtree directly when the planner
// decided nothing flushes.  The updates must partition across the
// branch's children within the queue capacity invariants; anything else
// is a logic bug in partition/plan alignment.
func queueWithNoFlush[K any](config *Config, compare func(K, K) int, updates SortedUpdates[K], branch *node[child[K]]) *subtree[K] {
	part := partition(compare, branch, updates)
	switch part.degree {
	case 2:
		if n0, n1 := part.items[0].len(), part.items[1].len(); n0+n1 > config.BatchSize {
			panic(fmt.Sprintf("queue is over-full: %d+%d > %d", n0, n1, config.BatchSize))
		}
	case 3:
		n0, n1, n2 := part.items[0].len(), part.items[1].len(), part.items[2].len()
		if n0+n1+n2 > config.BatchSize*3/2 {
			panic(fmt.Sprintf("queue is over-full: %d+%d+%d > %d", n0, n1, n2, config.BatchSize*3/2))
		}
		if n0+n1 > config.BatchSize || n1+n2 > config.BatchSize {
			panic(fmt.Sprintf("queue is over-full: partition (%d, %d, %d) exceeds %d pairwise",
				n0, n1, n2, config.BatchSize))
		}
	}
	return &subtree[K]{queue: queue[K]{updates: updates}, branch: branch}
}

func (q queue[K]) isEmpty() bool {
	return q.updates.Len() == 0
}

func (q queue[K]) len() int {
	return q.updates.Len()
}

// find returns the pending update for key, if any.
func (q queue[K]) find(compare func(K, K) int, key K) (Update[K], bool) {
	if i, found := q.updates.search(compare, key); found {
		return q.updates.At(i), true
	}
	return Update[K]{}, false
}

// overlay wires the queue into a child key stream.  emit is fed sorted
// child keys and applies the queue on the fly: a colliding put replaces
// the child's key, a colliding delete suppresses it, and queue entries
// with no child counterpart are emitted if they resolve to puts.  finish
// drains whatever the queue still holds past the last child key.  Both
// report false once the downstream yield stops.
func (q queue[K]) overlay(compare func(K, K) int, yield func(K) bool) (emit func(K) bool, finish func() bool) {
	qi := 0

	emit = func(k K) bool {
		for qi < q.updates.Len() && compare(q.updates.At(qi).Key, k) < 0 {
			u := q.updates.At(qi)
			qi++
			if key, ok := u.Resolve(); ok {
				if !yield(key) {
					return false
				}
			}
		}
		if qi < q.updates.Len() && compare(q.updates.At(qi).Key, k) == 0 {
			u := q.updates.At(qi)
			qi++
			if key, ok := u.Resolve(); ok {
				return yield(key)
			}
			return true
		}
		return yield(k)
	}

	finish = func() bool {
		for ; qi < q.updates.Len(); qi++ {
			if key, ok := q.updates.At(qi).Resolve(); ok {
				if !yield(key) {
					return false
				}
			}
		}
		return true
	}

	return emit, finish
}

// splitAtKey cuts the queue at the lower bound of key, producing the two
// queues of a freshly split node.
func (q queue[K]) splitAtKey(config *Config, compare func(K, K) int, key K) (left, right queue[K]) {
	i, _ := q.updates.search(compare, key)
	l, r := q.updates.splitOff(i)
	return newQueue(config, l), newQueue(config, r)
}
