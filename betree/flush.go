package betree

import "fmt"

// planFlush decides which contiguous subranges of a partitioned queue
// descend to which children.  Each plan slot is either nil (nothing
// flushes there) or a subrange of the corresponding partition slot sized
// within [B/2, B].  At most arity-1 slots flush.
//
// Per slot: a range under B/2 is too small to form a batch; a range over
// B contributes its leftmost B elements; anything else flushes whole.
// Flushing the largest candidate first maximizes buffer relief, and the
// B/2 floor keeps tiny batches from re-inflating high in the tree.
func planFlush(config *Config, part node[span]) node[*span] {
	takeBatch := func(r span) *span {
		switch {
		case r.len() < config.BatchSize/2:
			return nil
		case r.len() > config.BatchSize:
			return &span{r.start, r.start + config.BatchSize}
		default:
			return &span{r.start, r.end}
		}
	}

	switch part.degree {
	case 2:
		r0, r1 := part.items[0], part.items[1]
		if r0.len()+r1.len() > 2*config.BatchSize {
			panic(fmt.Sprintf("queue is over-full: %d+%d > %d",
				r0.len(), r1.len(), 2*config.BatchSize))
		}
		if r0.len()+r1.len() <= config.BatchSize {
			return binaryNode[*span](nil, nil)
		}
		if r0.len() >= r1.len() {
			return binaryNode(takeBatch(r0), nil)
		}
		return binaryNode(nil, takeBatch(r1))

	case 3:
		r0, r1, r2 := part.items[0], part.items[1], part.items[2]
		if r0.len()+r1.len()+r2.len() <= config.BatchSize {
			return ternaryNode[*span](nil, nil, nil)
		}
		y0, y1, y2 := takeBatch(r0), takeBatch(r1), takeBatch(r2)
		if y0 != nil && y1 != nil && y2 != nil {
			// All three qualify but only two may flush: drop the
			// smallest candidate, lower index on ties.
			if y0.len() <= y1.len() && y0.len() <= y2.len() {
				return ternaryNode(nil, y1, y2)
			}
			if y1.len() <= y0.len() && y1.len() <= y2.len() {
				return ternaryNode(y0, nil, y2)
			}
			return ternaryNode(y0, y1, nil)
		}
		return ternaryNode(y0, y1, y2)

	default:
		panic(fmt.Sprintf("illegal node degree %d", part.degree))
	}
}

// execFlush realizes a plan: the flushed subranges are drained out of the
// sorted updates into batches and whatever remains, in order, becomes the
// node's new queue.  The plan must agree with the partition's arity and
// flush at most arity-1 slots; anything else faults.
func execFlush[K any](config *Config, updates SortedUpdates[K], part node[span], plan node[*span]) (node[*Batch[K]], SortedUpdates[K]) {
	if plan.degree != part.degree {
		panic(fmt.Sprintf("partition/plan mismatch: arity %d vs %d", part.degree, plan.degree))
	}

	flushed := 0
	for i := 0; i < plan.degree; i++ {
		sub := plan.items[i]
		if sub == nil {
			continue
		}
		flushed++
		if r := part.items[i]; sub.start < r.start || sub.end > r.end {
			panic(fmt.Sprintf("partition/plan mismatch: slot %d plans [%d, %d) outside [%d, %d)",
				i, sub.start, sub.end, r.start, r.end))
		}
	}
	if flushed >= plan.degree {
		panic("too many branches flushed")
	}

	batches := node[*Batch[K]]{degree: plan.degree}
	kept := make([]Update[K], 0, updates.Len())
	pos := 0
	for i := 0; i < plan.degree; i++ {
		sub := plan.items[i]
		if sub == nil {
			continue
		}
		for ; pos < sub.start; pos++ {
			kept = append(kept, updates.At(pos))
		}
		batch := mustBatch(config, updates.sub(sub.start, sub.end))
		batches.items[i] = &batch
		pos = sub.end
	}
	for ; pos < updates.Len(); pos++ {
		kept = append(kept, updates.At(pos))
	}
	return batches, SortedUpdates[K]{updates: kept}
}
