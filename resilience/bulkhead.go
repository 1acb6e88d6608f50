package resilience

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBulkheadFull means every slot was taken and MaxWait is zero.
	ErrBulkheadFull = errors.New("bulkhead is full")
	// ErrBulkheadTimeout means no slot freed up within MaxWait.
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

const defaultMaxConcurrent = 4

// BulkheadConfig caps how many batches run at once.
type BulkheadConfig struct {
	Name string `yaml:"-" mapstructure:"-"`
	// MaxConcurrent defaults to 4 when not positive.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// MaxWait is how long a caller queues for a slot. Zero rejects at once.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
	// OnReject runs for every call that did not get a slot.
	OnReject func(name string) `yaml:"-" mapstructure:"-"`
}

// Bulkhead is a counting semaphore with a bounded wait.
type Bulkhead struct {
	cfg   BulkheadConfig
	slots chan struct{}
}

// NewBulkhead builds a bulkhead from cfg.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	return &Bulkhead{cfg: cfg, slots: make(chan struct{}, cfg.MaxConcurrent)}
}

// Execute holds a slot for the duration of fn.
func (b *Bulkhead) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.acquire(ctx); err != nil {
		if b.cfg.OnReject != nil {
			b.cfg.OnReject(b.cfg.Name)
		}
		return err
	}
	defer func() { <-b.slots }()
	return fn(ctx)
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
		if b.cfg.MaxWait <= 0 {
			return ErrBulkheadFull
		}
	}

	wait, cancel := context.WithTimeout(ctx, b.cfg.MaxWait)
	defer cancel()
	select {
	case b.slots <- struct{}{}:
		return nil
	case <-wait.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrBulkheadTimeout
	}
}

// InUse is the number of running calls.
func (b *Bulkhead) InUse() int { return len(b.slots) }

// Available is the number of free slots.
func (b *Bulkhead) Available() int { return cap(b.slots) - len(b.slots) }

// MaxConcurrent is the slot count after defaults.
func (b *Bulkhead) MaxConcurrent() int { return cap(b.slots) }
