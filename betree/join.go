package betree

import "fmt"

// Join concatenates two trees whose key ranges do not interleave: every
// key of t must order before every key of other.  The result carries all
// per-node invariants; both inputs remain valid.
//
// Joining works on the height delta.  Equal-height trees go under a new
// binary root.  A delta of one destructures the taller root: a binary
// node absorbs the shorter tree as a third child, a ternary node grows a
// level, splitting its queue by the new middle pivot.  A larger delta
// recurses into the taller side's boundary child and re-applies the
// taller root's queue through enqueueOrFlush, which re-partitions it
// against the re-shaped children.
func (t *Tree[K]) Join(config *Config, other *Tree[K]) *Tree[K] {
	hl, hr := t.height, other.height

	switch {
	// Both roots are leaves: rebuild from the concatenated runs.
	case hl <= 1 && hr <= 1:
		vals := make([]K, 0, len(t.root.vals)+len(other.root.vals))
		vals = append(vals, t.root.vals...)
		vals = append(vals, other.root.vals...)
		return treeFromVals(config, t.compare, vals)

	// Equal heights (both branches): grow under a new binary root.
	case hl == hr:
		return &Tree[K]{
			height: hl + 1,
			minKey: t.minKey,
			root: &subtree[K]{
				queue: emptyQueue[K](),
				branch: ptrTo(binaryNode(
					child[K]{minKey: t.minKey, subtree: t.root},
					child[K]{minKey: other.minKey, subtree: other.root},
				)),
			},
			compare: t.compare,
		}

	case hl == hr+1:
		branch := t.mustBranch()
		b := appendChild(branch, child[K]{minKey: other.minKey, subtree: other.root})
		return rejoinChildren(config, t.compare, t.root.queue, hl, b)

	case hr == hl+1:
		branch := other.mustBranch()
		b := prependChild(child[K]{minKey: t.minKey, subtree: t.root}, branch)
		return rejoinChildren(config, t.compare, other.root.queue, hr, b)

	// Taller on the left: join into the rightmost child.
	case hl > hr+1:
		branch := t.mustBranch()
		switch branch.degree {
		case 2:
			c0 := t.childTree(0)
			c1 := t.childTree(1).Join(config, other)
			return joinSubtrees(config, t.root.queue.updates, c0, c1)
		default:
			c0, c1 := t.childTree(0), t.childTree(1)
			c2 := t.childTree(2).Join(config, other)
			return joinSubtrees(config, t.root.queue.updates, c0, c1, c2)
		}

	// Taller on the right: join into the leftmost child.
	default:
		branch := other.mustBranch()
		switch branch.degree {
		case 2:
			c1 := t.Join(config, other.childTree(0))
			c2 := other.childTree(1)
			return joinSubtrees(config, other.root.queue.updates, c1, c2)
		default:
			c1 := t.Join(config, other.childTree(0))
			c2, c3 := other.childTree(1), other.childTree(2)
			return joinSubtrees(config, other.root.queue.updates, c1, c2, c3)
		}
	}
}

func (t *Tree[K]) mustBranch() *node[child[K]] {
	if t.root.isLeaf() {
		panic(fmt.Sprintf("root is a leaf at height %d", t.height))
	}
	return t.root.branch
}

func appendChild[K any](branch *node[child[K]], c child[K]) []child[K] {
	out := make([]child[K], 0, branch.degree+1)
	out = append(out, branch.items[:branch.degree]...)
	return append(out, c)
}

func prependChild[K any](c child[K], branch *node[child[K]]) []child[K] {
	out := make([]child[K], 0, branch.degree+1)
	out = append(out, c)
	return append(out, branch.items[:branch.degree]...)
}

// rejoinChildren rebuilds a branch root at height h from three or four
// equal-height children, carrying over the dismantled root's queue.
// Three children share the queue under one ternary node.  Four children
// grow the tree a level: two binary nodes under a fresh binary root,
// with the queue split at the third child's minimum so each half lands
// on the node covering its key range.
func rejoinChildren[K any](config *Config, compare func(K, K) int, q queue[K], h int, children []child[K]) *Tree[K] {
	switch len(children) {
	case 3:
		return &Tree[K]{
			height: h,
			minKey: children[0].minKey,
			root: &subtree[K]{
				queue:  q,
				branch: ptrTo(ternaryNode(children[0], children[1], children[2])),
			},
			compare: compare,
		}
	case 4:
		qLeft, qRight := q.splitAtKey(config, compare, children[2].minKey)
		left := &subtree[K]{queue: qLeft, branch: ptrTo(binaryNode(children[0], children[1]))}
		right := &subtree[K]{queue: qRight, branch: ptrTo(binaryNode(children[2], children[3]))}
		return &Tree[K]{
			height: h + 1,
			minKey: children[0].minKey,
			root: &subtree[K]{
				queue: emptyQueue[K](),
				branch: ptrTo(binaryNode(
					child[K]{minKey: children[0].minKey, subtree: left},
					child[K]{minKey: children[2].minKey, subtree: right},
				)),
			},
			compare: compare,
		}
	default:
		panic(fmt.Sprintf("cannot rejoin %d children", len(children)))
	}
}
