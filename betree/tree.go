package betree

import "fmt"

// Tree is the root handle of an ordered-key index with write-buffered
// updates.  Every mutating operation returns a new root and leaves the
// previous one valid: subtrees are immutable and shared, so snapshots
// are a pointer copy.  A single root must not be updated concurrently;
// distinct roots may share subtrees across goroutines freely.
//
// Height zero marks an under-full leaf root (size < B), height one a
// leaf root of size [B, 2B]; branch roots sit at height two and above
// with all leaf descendants at height one.
type Tree[K any] struct {
	height  int
	minKey  K
	root    *subtree[K]
	compare func(K, K) int
}

// New returns an empty tree ordered by compare.
func New[K any](compare func(K, K) int) *Tree[K] {
	return &Tree[K]{
		root:    leaf([]K{}),
		compare: compare,
	}
}

// FromVals bulk-loads a tree from keys that are already sorted by
// compare and deduplicated.
func FromVals[K any](config *Config, compare func(K, K) int, vals []K) *Tree[K] {
	owned := make([]K, len(vals))
	copy(owned, vals)

	if len(owned) <= 4*config.BatchSize {
		return treeFromVals(config, compare, owned)
	}

	cut := 2 * config.BatchSize
	t := treeFromVals(config, compare, owned[:cut:cut])
	for pos := cut; pos < len(owned); pos += config.BatchSize {
		end := min(pos+config.BatchSize, len(owned))
		run := make([]Update[K], 0, end-pos)
		for _, v := range owned[pos:end] {
			run = append(run, Put(v))
		}
		t = t.enqueueOrFlush(config, SortedUpdates[K]{updates: run})
	}
	return t
}

// treeFromVals rebuilds a root from a sorted run of at most 4B keys:
// one leaf when the run fits, otherwise two balanced leaves under a
// fresh binary branch with an empty queue.
func treeFromVals[K any](config *Config, compare func(K, K) int, vals []K) *Tree[K] {
	n := len(vals)
	if n <= 2*config.BatchSize {
		var minKey K
		if n > 0 {
			minKey = vals[0]
		}
		height := 0
		if n >= config.BatchSize {
			height = 1
		}
		return &Tree[K]{height: height, minKey: minKey, root: leaf(vals), compare: compare}
	}
	if n > 4*config.BatchSize {
		panic(fmt.Sprintf("leaf rebuild of %d keys exceeds %d", n, 4*config.BatchSize))
	}

	half := (n + 1) / 2
	left, right := vals[:half:half], vals[half:]
	return &Tree[K]{
		height: 2,
		minKey: left[0],
		root: &subtree[K]{
			queue: emptyQueue[K](),
			branch: ptrTo(binaryNode(
				child[K]{minKey: left[0], subtree: leaf(left)},
				child[K]{minKey: right[0], subtree: leaf(right)},
			)),
		},
		compare: compare,
	}
}

func ptrTo[T any](v T) *T {
	return &v
}

func (t *Tree[K]) Height() int {
	return t.height
}

// Find reports whether key is present, returning the stored key.
func (t *Tree[K]) Find(key K) (K, bool) {
	return t.root.find(t.compare, key)
}

// Update applies a batch of updates and returns the new root.  The old
// root remains valid and unchanged.
func (t *Tree[K]) Update(config *Config, batch Batch[K]) *Tree[K] {
	return t.enqueueOrFlush(config, batch.updates)
}

func (t *Tree[K]) updateOpt(config *Config, batch *Batch[K]) *Tree[K] {
	if batch == nil {
		return t
	}
	return t.Update(config, *batch)
}

// childTree lifts one slot of the root branch into a tree handle one
// level down.
func (t *Tree[K]) childTree(i int) *Tree[K] {
	c := t.root.branch.items[i]
	return &Tree[K]{
		height:  t.height - 1,
		minKey:  c.minKey,
		root:    c.subtree,
		compare: t.compare,
	}
}

// enqueueOrFlush is the recursive core of update propagation.  A leaf
// root absorbs the updates by merging; a branch root either installs
// them as its queue (fast path), keeps the merged queue when nothing
// flushes, or drains planned batches into the affected children and
// rejoins the re-shaped children under a single root with the unflushed
// remainder re-enqueued on top.
func (t *Tree[K]) enqueueOrFlush(config *Config, updates SortedUpdates[K]) *Tree[K] {
	if updates.Len() > config.BatchSize*3/2 {
		panic(fmt.Sprintf("update run of %d exceeds %d", updates.Len(), config.BatchSize*3/2))
	}

	if t.root.isLeaf() {
		merged := applyUpdates(t.compare, t.root.vals, updates.updates)
		return treeFromVals(config, t.compare, merged)
	}

	q, branch := t.root.queue, t.root.branch

	if q.isEmpty() && updates.Len() <= config.BatchSize {
		return &Tree[K]{
			height:  t.height,
			minKey:  t.minKey,
			root:    &subtree[K]{queue: newQueue(config, updates), branch: branch},
			compare: t.compare,
		}
	}

	merged := q.updates.merge(t.compare, updates)
	part := partition(t.compare, branch, merged)
	plan := planFlush(config, part)

	if flushCount(plan) == 0 {
		return &Tree[K]{
			height:  t.height,
			minKey:  t.minKey,
			root:    queueWithNoFlush(config, t.compare, merged, branch),
			compare: t.compare,
		}
	}

	batches, unflushed := execFlush(config, merged, part, plan)

	switch branch.degree {
	case 2:
		c0 := t.childTree(0).updateOpt(config, batches.items[0])
		c1 := t.childTree(1).updateOpt(config, batches.items[1])
		return joinSubtrees(config, unflushed, c0, c1)
	default:
		c0 := t.childTree(0).updateOpt(config, batches.items[0])
		c1 := t.childTree(1).updateOpt(config, batches.items[1])
		c2 := t.childTree(2).updateOpt(config, batches.items[2])
		return joinSubtrees(config, unflushed, c0, c1, c2)
	}
}

func flushCount(plan node[*span]) int {
	n := 0
	for i := 0; i < plan.degree; i++ {
		if plan.items[i] != nil {
			n++
		}
	}
	return n
}

// joinSubtrees rejoins the updated children of a dismantled branch and
// re-enqueues the unflushed remainder atop the joined result, which
// re-partitions the queue against whatever shape the children now have.
func joinSubtrees[K any](config *Config, updates SortedUpdates[K], children ...*Tree[K]) *Tree[K] {
	joined := children[0]
	for _, c := range children[1:] {
		joined = joined.Join(config, c)
	}
	return joined.enqueueOrFlush(config, updates)
}
