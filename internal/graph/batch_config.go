package graph

import "time"

// BatchConfig bounds the rows sent per UNWIND statement and the write
// transaction timeout
type BatchConfig struct {
	EntityBatchSize  int
	PatternBatchSize int
	TxTimeout        time.Duration
}

// DefaultBatchConfig suits single-file exports and whole-directory runs alike
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		EntityBatchSize:  1000,
		PatternBatchSize: 500,
		TxTimeout:        60 * time.Second,
	}
}

func (c BatchConfig) withDefaults() BatchConfig {
	d := DefaultBatchConfig()
	if c.EntityBatchSize <= 0 {
		c.EntityBatchSize = d.EntityBatchSize
	}
	if c.PatternBatchSize <= 0 {
		c.PatternBatchSize = d.PatternBatchSize
	}
	if c.TxTimeout <= 0 {
		c.TxTimeout = d.TxTimeout
	}
	return c
}
