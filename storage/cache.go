package storage

import (
	"sync"

	"github.com/PlakarKorp/go-betree/betree"
)

// blockCache holds recently decoded blocks in a fixed number of slots,
// displacing the oldest slot once all are taken.  Blocks are immutable
// content-addressed views: a hit never copies, a re-put of a cached
// address is a no-op, and displacement drops the decoded form without
// any write-back.  Hit and miss accounting belongs to the BlockStore's
// metrics, not here.
type blockCache[K any] struct {
	mtx    sync.RWMutex
	slots  []MAC
	next   int
	full   bool
	blocks map[MAC]*betree.Block[K, MAC]
}

func newBlockCache[K any](target int) *blockCache[K] {
	if target < 1 {
		target = 1
	}
	return &blockCache[K]{
		slots:  make([]MAC, target),
		blocks: make(map[MAC]*betree.Block[K, MAC], target),
	}
}

func (c *blockCache[K]) get(mac MAC) (*betree.Block[K, MAC], bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	b, ok := c.blocks[mac]
	return b, ok
}

func (c *blockCache[K]) put(mac MAC, b *betree.Block[K, MAC]) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if _, ok := c.blocks[mac]; ok {
		return
	}

	if c.full {
		delete(c.blocks, c.slots[c.next])
	}
	c.slots[c.next] = mac
	c.blocks[mac] = b

	c.next++
	if c.next == len(c.slots) {
		c.next = 0
		c.full = true
	}
}

func (c *blockCache[K]) len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.blocks)
}
