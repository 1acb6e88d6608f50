package api

import (
	"fmt"
	"time"

	"github.com/kbukum/diarsplit/resilience"
	"github.com/kbukum/diarsplit/util"
)

const defaultMemoryLimit = 32 << 20

// Config is the api section of the application config.
type Config struct {
	// Concurrency bounds the number of batches running at once.
	Concurrency resilience.BulkheadConfig `yaml:"concurrency" mapstructure:"concurrency"`
	// MemoryLimit is how much of a multipart upload is held in memory
	// before spilling to temp files, e.g. "32MB".
	MemoryLimit string `yaml:"memory_limit" mapstructure:"memory_limit"`
	// PreviewRows is the number of rows returned by preview.
	PreviewRows int `yaml:"preview_rows" mapstructure:"preview_rows"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Concurrency.Name == "" {
		c.Concurrency.Name = "split"
	}
	if c.Concurrency.MaxConcurrent == 0 {
		c.Concurrency.MaxConcurrent = 2
	}
	if c.Concurrency.MaxWait == 0 {
		c.Concurrency.MaxWait = 5 * time.Second
	}
	if c.MemoryLimit == "" {
		c.MemoryLimit = "32MB"
	}
	if c.PreviewRows == 0 {
		c.PreviewRows = 10
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Concurrency.MaxConcurrent < 0 {
		return fmt.Errorf("api.concurrency.max_concurrent must be non-negative (got: %d)", c.Concurrency.MaxConcurrent)
	}
	if c.Concurrency.MaxWait < 0 {
		return fmt.Errorf("api.concurrency.max_wait must be non-negative (got: %s)", c.Concurrency.MaxWait)
	}
	if err := util.ValidSize(c.MemoryLimit); err != nil {
		return fmt.Errorf("api.memory_limit: %w", err)
	}
	if c.PreviewRows < 0 {
		return fmt.Errorf("api.preview_rows must be non-negative (got: %d)", c.PreviewRows)
	}
	return nil
}

func (c *Config) memoryLimit() int64 {
	return util.ParseSize(c.MemoryLimit, defaultMemoryLimit)
}
