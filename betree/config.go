package betree

import "fmt"

// Config carries the single tuning knob of the tree: the batch size B.
// Leaf capacity (2B), leaf underflow (B), the batch window [B/2, B] and
// the queue capacities (B binary, 3B/2 ternary) all derive from it.
type Config struct {
	BatchSize int
}

func NewDefaultConfig() *Config {
	return &Config{BatchSize: 32}
}

func (c *Config) Validate() error {
	if c.BatchSize < 4 {
		return fmt.Errorf("batch size must be at least 4, got %d", c.BatchSize)
	}
	if c.BatchSize&(c.BatchSize-1) != 0 {
		return fmt.Errorf("batch size must be a power of two, got %d", c.BatchSize)
	}
	return nil
}
