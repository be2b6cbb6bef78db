package betree

import (
	"slices"
	"sort"
)

// SortedUpdates is an immutable sorted run of updates ordered by key,
// with no duplicate keys.  Instances share their backing storage freely:
// every mutating operation returns a new run and leaves the receiver
// untouched.
type SortedUpdates[K any] struct {
	updates []Update[K]
}

// NewSortedUpdates sorts the given updates by key and deduplicates them,
// keeping the last occurrence of each key.  The input slice is not
// modified.
func NewSortedUpdates[K any](compare func(K, K) int, updates []Update[K]) SortedUpdates[K] {
	us := make([]Update[K], len(updates))
	copy(us, updates)
	sort.SliceStable(us, func(i, j int) bool {
		return compare(us[i].Key, us[j].Key) < 0
	})

	n := 0
	for i := range us {
		if n > 0 && compare(us[n-1].Key, us[i].Key) == 0 {
			us[n-1] = us[i]
		} else {
			us[n] = us[i]
			n++
		}
	}
	return SortedUpdates[K]{updates: us[:n]}
}

func (s SortedUpdates[K]) Len() int {
	return len(s.updates)
}

func (s SortedUpdates[K]) At(i int) Update[K] {
	return s.updates[i]
}

// merge joins two sorted runs by key.  On a collision the element from
// other is retained: the right operand of a merge is the latest.
func (s SortedUpdates[K]) merge(compare func(K, K) int, other SortedUpdates[K]) SortedUpdates[K] {
	a, b := s.updates, other.updates
	out := make([]Update[K], 0, len(a)+len(b))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := compare(a[i].Key, b[j].Key); {
		case c < 0:
			out = append(out, a[i])
			i++
		case c > 0:
			out = append(out, b[j])
			j++
		default:
			out = append(out, b[j])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return SortedUpdates[K]{updates: out}
}

// insert places a single update, replacing any entry with the same key.
func (s SortedUpdates[K]) insert(compare func(K, K) int, u Update[K]) SortedUpdates[K] {
	pos, found := slices.BinarySearchFunc(s.updates, u.Key, func(e Update[K], key K) int {
		return compare(e.Key, key)
	})

	out := make([]Update[K], len(s.updates))
	copy(out, s.updates)
	if found {
		out[pos] = u
		return SortedUpdates[K]{updates: out}
	}
	return SortedUpdates[K]{updates: slices.Insert(out, pos, u)}
}

// search returns the lower bound for key: the index of the first update
// whose key is not less than it, and whether it is an exact match.
func (s SortedUpdates[K]) search(compare func(K, K) int, key K) (int, bool) {
	return slices.BinarySearchFunc(s.updates, key, func(e Update[K], k K) int {
		return compare(e.Key, k)
	})
}

// sub returns the run restricted to [lo, hi).  The backing storage is
// shared with the receiver.
func (s SortedUpdates[K]) sub(lo, hi int) SortedUpdates[K] {
	return SortedUpdates[K]{updates: s.updates[lo:hi:hi]}
}

// drain extracts [lo, hi), returning the extracted run and the remainder
// (the surrounding prefix and suffix concatenated).
func (s SortedUpdates[K]) drain(lo, hi int) (drained, rest SortedUpdates[K]) {
	keep := make([]Update[K], 0, len(s.updates)-(hi-lo))
	keep = append(keep, s.updates[:lo]...)
	keep = append(keep, s.updates[hi:]...)
	return s.sub(lo, hi), SortedUpdates[K]{updates: keep}
}

// splitOff cuts the run at index i, returning the two halves.
func (s SortedUpdates[K]) splitOff(i int) (left, right SortedUpdates[K]) {
	return s.sub(0, i), s.sub(i, len(s.updates))
}
