package betree

import (
	"fmt"
	"slices"
)

// node is a shape-only container holding either two or three items.
// Shape-dependent logic switches on the degree; the two constructors are
// the only way to build one.
type node[T any] struct {
	degree int
	items  [3]T
}

func binaryNode[T any](a, b T) node[T] {
	return node[T]{degree: 2, items: [3]T{a, b}}
}

func ternaryNode[T any](a, b, c T) node[T] {
	return node[T]{degree: 3, items: [3]T{a, b, c}}
}

// child is one slot of an interior node: a subtree plus its minimum key,
// which acts as the pivot to the left of the next sibling.
type child[K any] struct {
	minKey  K
	subtree *subtree[K]
}

// span is a half-open index range into a sorted update run.
type span struct {
	start, end int
}

func (s span) len() int {
	return s.end - s.start
}

// partition splits a sorted update run at the branch's pivots, returning
// a node of half-open ranges covering [0, n).  The leftmost pivot (the
// minimum of child 0) takes no part in the split; ties land in the
// right-hand range by lower-bound semantics, consistent with find.
func partition[K any](compare func(K, K) int, branch *node[child[K]], updates SortedUpdates[K]) node[span] {
	n := updates.Len()
	switch branch.degree {
	case 2:
		i, _ := updates.search(compare, branch.items[1].minKey)
		return binaryNode(span{0, i}, span{i, n})
	case 3:
		i, _ := updates.search(compare, branch.items[1].minKey)
		j, _ := updates.sub(i, n).search(compare, branch.items[2].minKey)
		j += i
		return ternaryNode(span{0, i}, span{i, j}, span{j, n})
	default:
		panic(fmt.Sprintf("illegal node degree %d", branch.degree))
	}
}

// searchKeys is the lower bound of key in a sorted, duplicate-free run.
func searchKeys[K any](compare func(K, K) int, vals []K, key K) (int, bool) {
	return slices.BinarySearchFunc(vals, key, compare)
}
