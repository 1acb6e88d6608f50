package process

import (
	"context"
	"time"
)

// Runner executes commands. Media backends depend on this rather than on
// Run directly so tests can substitute canned results.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (*Result, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (*Result, error) {
	return f(ctx, cmd)
}

// Config configures an Executor.
type Config struct {
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// Executor is the default Runner, applying per-command defaults.
type Executor struct {
	config Config
}

// NewExecutor creates an Executor.
func NewExecutor(cfg Config) *Executor {
	return &Executor{config: cfg}
}

// Run executes cmd with the executor's timeout and grace period.
func (e *Executor) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 && e.config.GracePeriod > 0 {
		cmd.GracePeriod = e.config.GracePeriod
	}
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}
	return Run(ctx, cmd)
}
