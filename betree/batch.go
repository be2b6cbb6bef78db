package betree

import (
	"errors"
	"fmt"
)

// ErrBatchSize reports an attempt to build a batch whose length lies
// outside the window [B/2, B].  The updates handed to NewBatch are still
// the caller's; it may choose not to flush.
var ErrBatchSize = errors.New("batch size out of window")

// Batch is a sorted update run whose length lies within [B/2, B].  It is
// the unit of downward propagation.
type Batch[K any] struct {
	updates SortedUpdates[K]
}

func NewBatch[K any](config *Config, updates SortedUpdates[K]) (Batch[K], error) {
	if updates.Len() < config.BatchSize/2 || updates.Len() > config.BatchSize {
		return Batch[K]{}, ErrBatchSize
	}
	return Batch[K]{updates: updates}, nil
}

func (b Batch[K]) Len() int {
	return b.updates.Len()
}

// mustBatch wraps a run the flush planner already sized into the window.
func mustBatch[K any](config *Config, updates SortedUpdates[K]) Batch[K] {
	batch, err := NewBatch(config, updates)
	if err != nil {
		panic(fmt.Sprintf("planned batch of %d outside [%d, %d]",
			updates.Len(), config.BatchSize/2, config.BatchSize))
	}
	return batch
}
