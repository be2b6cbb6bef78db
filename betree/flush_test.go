package betree

import "testing"

func spansEqual(a, b *span) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func planEqual(got, want node[*span]) bool {
	if got.degree != want.degree {
		return false
	}
	for i := 0; i < got.degree; i++ {
		if !spansEqual(got.items[i], want.items[i]) {
			return false
		}
	}
	return true
}

func TestPlanFlushBinary(t *testing.T) {
	config := &Config{BatchSize: 4}

	for _, tc := range []struct {
		name string
		part node[span]
		want node[*span]
	}{
		{
			"under the total floor nothing flushes",
			binaryNode(span{0, 2}, span{2, 4}),
			binaryNode[*span](nil, nil),
		},
		{
			"larger slot wins",
			binaryNode(span{0, 2}, span{2, 5}),
			binaryNode(nil, &span{2, 5}),
		},
		{
			"ties go left",
			binaryNode(span{0, 3}, span{3, 6}),
			binaryNode(&span{0, 3}, nil),
		},
		{
			"oversized slot is capped to its leftmost B",
			binaryNode(span{0, 6}, span{6, 8}),
			binaryNode(&span{0, 4}, nil),
		},
		{
			"a slot under B/2 stays put even when the node is over-full",
			binaryNode(span{0, 1}, span{1, 5}),
			binaryNode(nil, &span{1, 5}),
		},
	} {
		if got := planFlush(config, tc.part); !planEqual(got, tc.want) {
			t.Errorf("%s: got %+v; want %+v", tc.name, got, tc.want)
		}
	}
}

func TestPlanFlushTernary(t *testing.T) {
	config := &Config{BatchSize: 4}

	for _, tc := range []struct {
		name string
		part node[span]
		want node[*span]
	}{
		{
			"under the total floor nothing flushes",
			ternaryNode(span{0, 2}, span{2, 3}, span{3, 4}),
			ternaryNode[*span](nil, nil, nil),
		},
		{
			"slots under B/2 stay put",
			ternaryNode(span{0, 1}, span{1, 5}, span{5, 6}),
			ternaryNode(nil, &span{1, 5}, nil),
		},
		{
			"all three qualify: smallest is dropped",
			ternaryNode(span{0, 2}, span{2, 5}, span{5, 9}),
			ternaryNode(nil, &span{2, 5}, &span{5, 9}),
		},
		{
			"all three qualify and tie: lower index is dropped",
			ternaryNode(span{0, 2}, span{2, 4}, span{4, 6}),
			ternaryNode(nil, &span{2, 4}, &span{4, 6}),
		},
		{
			"middle smallest is dropped",
			ternaryNode(span{0, 3}, span{3, 5}, span{5, 8}),
			ternaryNode(&span{0, 3}, nil, &span{5, 8}),
		},
		{
			"right smallest is dropped",
			ternaryNode(span{0, 4}, span{4, 7}, span{7, 9}),
			ternaryNode(&span{0, 4}, &span{4, 7}, nil),
		},
	} {
		if got := planFlush(config, tc.part); !planEqual(got, tc.want) {
			t.Errorf("%s: got %+v; want %+v", tc.name, got, tc.want)
		}
	}
}

func sortedRun(n int) SortedUpdates[int] {
	us := make([]Update[int], 0, n)
	for i := 0; i < n; i++ {
		us = append(us, Put(i))
	}
	return SortedUpdates[int]{updates: us}
}

func TestExecFlushIdentity(t *testing.T) {
	config := &Config{BatchSize: 4}
	updates := sortedRun(4)
	part := binaryNode(span{0, 2}, span{2, 4})

	batches, rest := execFlush(config, updates, part, binaryNode[*span](nil, nil))
	if batches.items[0] != nil || batches.items[1] != nil {
		t.Fatalf("identity plan flushed something")
	}
	if got, want := keysOf(rest), []int{0, 1, 2, 3}; !sameInts(got, want) {
		t.Fatalf("got rest %v; want %v", got, want)
	}
}

func TestExecFlushSingleSlot(t *testing.T) {
	config := &Config{BatchSize: 4}

	// Left end of a binary node.
	updates := sortedRun(6)
	batches, rest := execFlush(config, updates,
		binaryNode(span{0, 4}, span{4, 6}),
		binaryNode(&span{0, 4}, nil))
	if batches.items[0] == nil || batches.items[1] != nil {
		t.Fatalf("wrong slots flushed")
	}
	if got, want := keysOf(batches.items[0].updates), []int{0, 1, 2, 3}; !sameInts(got, want) {
		t.Fatalf("got batch %v; want %v", got, want)
	}
	if got, want := keysOf(rest), []int{4, 5}; !sameInts(got, want) {
		t.Fatalf("got rest %v; want %v", got, want)
	}

	// Middle of a ternary node: both surrounding portions remain.
	updates = sortedRun(6)
	batches, rest = execFlush(config, updates,
		ternaryNode(span{0, 1}, span{1, 5}, span{5, 6}),
		ternaryNode(nil, &span{1, 5}, nil))
	if got, want := keysOf(batches.items[1].updates), []int{1, 2, 3, 4}; !sameInts(got, want) {
		t.Fatalf("got batch %v; want %v", got, want)
	}
	if got, want := keysOf(rest), []int{0, 5}; !sameInts(got, want) {
		t.Fatalf("got rest %v; want %v", got, want)
	}
}

func TestExecFlushTwoSlots(t *testing.T) {
	config := &Config{BatchSize: 4}

	// Left and right of a ternary node; the middle stays.
	updates := sortedRun(9)
	batches, rest := execFlush(config, updates,
		ternaryNode(span{0, 3}, span{3, 5}, span{5, 9}),
		ternaryNode(&span{0, 3}, nil, &span{5, 9}))
	if got, want := keysOf(batches.items[0].updates), []int{0, 1, 2}; !sameInts(got, want) {
		t.Fatalf("got left batch %v; want %v", got, want)
	}
	if got, want := keysOf(batches.items[2].updates), []int{5, 6, 7, 8}; !sameInts(got, want) {
		t.Fatalf("got right batch %v; want %v", got, want)
	}
	if got, want := keysOf(rest), []int{3, 4}; !sameInts(got, want) {
		t.Fatalf("got rest %v; want %v", got, want)
	}

	// Middle and right; the left slot stays.
	updates = sortedRun(8)
	batches, rest = execFlush(config, updates,
		ternaryNode(span{0, 1}, span{1, 4}, span{4, 8}),
		ternaryNode(nil, &span{1, 4}, &span{4, 8}))
	if got, want := keysOf(batches.items[1].updates), []int{1, 2, 3}; !sameInts(got, want) {
		t.Fatalf("got middle batch %v; want %v", got, want)
	}
	if got, want := keysOf(batches.items[2].updates), []int{4, 5, 6, 7}; !sameInts(got, want) {
		t.Fatalf("got right batch %v; want %v", got, want)
	}
	if got, want := keysOf(rest), []int{0}; !sameInts(got, want) {
		t.Fatalf("got rest %v; want %v", got, want)
	}
}

func TestExecFlushFaults(t *testing.T) {
	config := &Config{BatchSize: 4}

	mustPanic := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected a panic", name)
			}
		}()
		fn()
	}

	mustPanic("all binary slots flushed", func() {
		execFlush(config, sortedRun(8),
			binaryNode(span{0, 4}, span{4, 8}),
			binaryNode(&span{0, 4}, &span{4, 8}))
	})
	mustPanic("all ternary slots flushed", func() {
		execFlush(config, sortedRun(12),
			ternaryNode(span{0, 4}, span{4, 8}, span{8, 12}),
			ternaryNode(&span{0, 4}, &span{4, 8}, &span{8, 12}))
	})
	mustPanic("arity mismatch", func() {
		execFlush(config, sortedRun(8),
			binaryNode(span{0, 4}, span{4, 8}),
			ternaryNode[*span](&span{0, 4}, nil, nil))
	})
	mustPanic("plan outside its partition slot", func() {
		execFlush(config, sortedRun(8),
			binaryNode(span{0, 4}, span{4, 8}),
			binaryNode(&span{2, 6}, nil))
	})
}

func TestNewBatchWindow(t *testing.T) {
	config := &Config{BatchSize: 4}

	if _, err := NewBatch(config, sortedRun(1)); err != ErrBatchSize {
		t.Errorf("got %v for an under-full batch; want ErrBatchSize", err)
	}
	if _, err := NewBatch(config, sortedRun(5)); err != ErrBatchSize {
		t.Errorf("got %v for an over-full batch; want ErrBatchSize", err)
	}
	for n := 2; n <= 4; n++ {
		if _, err := NewBatch(config, sortedRun(n)); err != nil {
			t.Errorf("got %v for a batch of %d; want success", err, n)
		}
	}
}
