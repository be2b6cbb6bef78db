package betree

import "testing"

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return +1
	}
	return 0
}

func keysOf(s SortedUpdates[int]) []int {
	keys := make([]int, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		keys = append(keys, s.At(i).Key)
	}
	return keys
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewSortedUpdates(t *testing.T) {
	s := NewSortedUpdates(cmpInt, []Update[int]{
		Put(3), Put(1), Delete(4), Put(1), Put(5), Put(9), Delete(2), Put(6),
	})

	want := []int{1, 2, 3, 4, 5, 6, 9}
	if got := keysOf(s); !sameInts(got, want) {
		t.Fatalf("got keys %v; want %v", got, want)
	}

	// Last occurrence of a duplicated key wins.
	s = NewSortedUpdates(cmpInt, []Update[int]{Put(7), Delete(7)})
	if s.Len() != 1 {
		t.Fatalf("got %d updates; want 1", s.Len())
	}
	if u := s.At(0); u.Opcode != OpDelete {
		t.Errorf("got opcode %v; want OpDelete", u.Opcode)
	}
}

func TestSortedUpdatesMerge(t *testing.T) {
	a := NewSortedUpdates(cmpInt, []Update[int]{Put(1), Put(3), Put(5)})
	b := NewSortedUpdates(cmpInt, []Update[int]{Delete(3), Put(4)})

	m := a.merge(cmpInt, b)
	if got, want := keysOf(m), []int{1, 3, 4, 5}; !sameInts(got, want) {
		t.Fatalf("got keys %v; want %v", got, want)
	}

	// The right operand wins on collision.
	if u := m.At(1); u.Opcode != OpDelete {
		t.Errorf("got opcode %v for key 3; want OpDelete", u.Opcode)
	}

	// The left operand is untouched.
	if u := a.At(1); u.Opcode != OpPut {
		t.Errorf("merge modified its receiver: got opcode %v for key 3", u.Opcode)
	}
}

func TestSortedUpdatesInsert(t *testing.T) {
	s := NewSortedUpdates(cmpInt, []Update[int]{Put(1), Put(3)})

	s2 := s.insert(cmpInt, Put(2))
	if got, want := keysOf(s2), []int{1, 2, 3}; !sameInts(got, want) {
		t.Fatalf("got keys %v; want %v", got, want)
	}

	s3 := s2.insert(cmpInt, Delete(2))
	if s3.Len() != 3 {
		t.Fatalf("got %d updates; want 3", s3.Len())
	}
	if u := s3.At(1); u.Opcode != OpDelete {
		t.Errorf("got opcode %v; want OpDelete", u.Opcode)
	}
	if u := s2.At(1); u.Opcode != OpPut {
		t.Errorf("insert modified its receiver")
	}
}

func TestSortedUpdatesDrain(t *testing.T) {
	s := NewSortedUpdates(cmpInt, []Update[int]{Put(1), Put(2), Put(3), Put(4), Put(5)})

	drained, rest := s.drain(1, 3)
	if got, want := keysOf(drained), []int{2, 3}; !sameInts(got, want) {
		t.Fatalf("got drained %v; want %v", got, want)
	}
	if got, want := keysOf(rest), []int{1, 4, 5}; !sameInts(got, want) {
		t.Fatalf("got rest %v; want %v", got, want)
	}
	if got, want := keysOf(s), []int{1, 2, 3, 4, 5}; !sameInts(got, want) {
		t.Fatalf("drain modified its receiver: %v", got)
	}
}

func TestSortedUpdatesSearch(t *testing.T) {
	s := NewSortedUpdates(cmpInt, []Update[int]{Put(10), Put(20), Put(30)})

	for _, tc := range []struct {
		key   int
		pos   int
		found bool
	}{
		{5, 0, false},
		{10, 0, true},
		{15, 1, false},
		{30, 2, true},
		{35, 3, false},
	} {
		pos, found := s.search(cmpInt, tc.key)
		if pos != tc.pos || found != tc.found {
			t.Errorf("search(%d) = (%d, %v); want (%d, %v)", tc.key, pos, found, tc.pos, tc.found)
		}
	}
}

func TestApplyUpdates(t *testing.T) {
	vals := []int{1, 2, 3, 5}
	updates := NewSortedUpdates(cmpInt, []Update[int]{Delete(2), Put(4), Put(5), Delete(7)})

	got := applyUpdates(cmpInt, vals, updates.updates)
	if want := []int{1, 3, 4, 5}; !sameInts(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
	if !sameInts(vals, []int{1, 2, 3, 5}) {
		t.Fatalf("applyUpdates modified its input: %v", vals)
	}
}
