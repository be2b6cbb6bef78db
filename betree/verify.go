package betree

import "fmt"

// CheckHeight recomputes the root height from leaf sizes upward and
// checks it against the stored height.
func (t *Tree[K]) CheckHeight(config *Config) (int, error) {
	h, err := t.root.checkHeight(config)
	if err != nil {
		return 0, err
	}
	if h != t.height {
		return 0, fmt.Errorf("broken invariant: stored height %d but computed %d", t.height, h)
	}
	return h, nil
}

func (s *subtree[K]) checkHeight(config *Config) (int, error) {
	if s.isLeaf() {
		if len(s.vals) < config.BatchSize {
			return 0, nil
		}
		return 1, nil
	}

	heights := make([]int, 0, 3)
	for i := 0; i < s.branch.degree; i++ {
		h, err := s.branch.items[i].subtree.checkHeight(config)
		if err != nil {
			return 0, err
		}
		heights = append(heights, h)
	}
	for _, h := range heights[1:] {
		if h != heights[0] {
			return 0, fmt.Errorf("broken invariant: children at unequal heights %v", heights)
		}
	}
	return heights[0] + 1, nil
}

// CheckInvariants walks the whole tree verifying structural and size
// invariants: height balance, leaf sizing, queue capacity per arity and
// the pairwise partition bounds at ternary nodes.  Meant for tests and
// debug assertions.
func (t *Tree[K]) CheckInvariants(config *Config) error {
	if _, err := t.CheckHeight(config); err != nil {
		return err
	}
	return t.root.checkInvariants(config, t.compare, t.height)
}

func (s *subtree[K]) checkInvariants(config *Config, compare func(K, K) int, height int) error {
	if s.isLeaf() {
		switch {
		case len(s.vals) > config.BatchSize*2:
			return fmt.Errorf("leaf too big: %d keys, max %d", len(s.vals), config.BatchSize*2)
		case height == 0 && len(s.vals) >= config.BatchSize:
			return fmt.Errorf("leaf too big for height 0: %d keys", len(s.vals))
		case height == 1 && len(s.vals) < config.BatchSize:
			return fmt.Errorf("leaf too small for height 1: %d keys, min %d", len(s.vals), config.BatchSize)
		case height > 1:
			return fmt.Errorf("leaf at height %d", height)
		}
		for i := 1; i < len(s.vals); i++ {
			if compare(s.vals[i-1], s.vals[i]) >= 0 {
				return fmt.Errorf("broken ordering of leaf keys at %d", i)
			}
		}
		return nil
	}

	if height < 2 {
		return fmt.Errorf("branch at height %d", height)
	}

	part := partition(compare, s.branch, s.queue.updates)
	switch s.branch.degree {
	case 2:
		if s.queue.len() > config.BatchSize {
			return fmt.Errorf("queue is over-full: %d > %d at a binary node",
				s.queue.len(), config.BatchSize)
		}
	case 3:
		if s.queue.len() > config.BatchSize*3/2 {
			return fmt.Errorf("queue is over-full: %d > %d at a ternary node",
				s.queue.len(), config.BatchSize*3/2)
		}
		n0, n1, n2 := part.items[0].len(), part.items[1].len(), part.items[2].len()
		if n0+n1 > config.BatchSize || n1+n2 > config.BatchSize {
			return fmt.Errorf("queue is over-full: partition (%d, %d, %d) exceeds %d pairwise",
				n0, n1, n2, config.BatchSize)
		}
	}

	for i := 0; i < s.branch.degree; i++ {
		c := s.branch.items[i]
		if i > 0 {
			prev := s.branch.items[i-1]
			if compare(prev.minKey, c.minKey) >= 0 {
				return fmt.Errorf("broken ordering of pivots at slot %d", i)
			}
		}
		if err := c.subtree.checkInvariants(config, compare, height-1); err != nil {
			return err
		}
	}
	return nil
}
