package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/observability"
)

// App is one diarsplit process with a uniform lifecycle. C is the
// application config type.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	Summary *Summary

	output          io.Writer
	gracefulTimeout time.Duration
	checkers        []observability.HealthChecker
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		output:          os.Stdout,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.output != nil {
		app.output = o.output
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// AddHealthChecker registers dependencies consulted by ReadyCheck and shown
// in the startup summary.
func (a *App[C]) AddHealthChecker(checkers ...observability.HealthChecker) {
	a.checkers = append(a.checkers, checkers...)
}

// OnConfigure registers a callback for the configure phase, where servers
// are wired and started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// Health runs every registered checker.
func (a *App[C]) Health(ctx context.Context) *observability.ServiceHealth {
	return observability.Check(ctx, a.Name, a.Version, a.checkers...)
}

// ReadyCheck reports an error naming every dependency that is down.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Health(ctx).Components {
		if h.Status == observability.HealthStatusDown {
			detail := h.Name
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy dependencies: %v", unhealthy)
	}
	return nil
}

// Run starts the application and blocks until a shutdown signal or ctx is
// done, then shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		a.shutdownAfterFailure()
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask runs a finite task with the same startup and shutdown as Run.
// SIGINT and SIGTERM cancel the task context instead of ending the process.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		a.shutdownAfterFailure()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx)
	if taskCtx.Err() != nil && ctx.Err() == nil {
		a.Logger.Info("Received signal, task canceled")
	}

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Debug("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields("error", err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	return nil
}

func (a *App[C]) configure(ctx context.Context) error {
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// DisplaySummary prints the startup summary with live health.
func (a *App[C]) DisplaySummary(ctx context.Context) error {
	return a.Summary.Display(a.output, a.Health(ctx))
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", logger.Fields(
			"signal", sig.String(),
		))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the stop hooks. Use it when managing the lifecycle manually.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

// shutdownAfterFailure releases whatever a failed startup already opened.
func (a *App[C]) shutdownAfterFailure() {
	if err := a.stop(); err != nil {
		a.Logger.Warn("Cleanup after failed startup reported errors", logger.ErrorFields("shutdown", err))
	}
}

func (a *App[C]) stop() error {
	a.Logger.Debug("Shutting down application", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	for i, h := range a.onStop {
		if err := h(ctx); err != nil {
			a.Logger.Error("OnStop hook error", logger.Fields(
				"hook", i,
				"error", err.Error(),
			))
			errs = append(errs, err)
		}
	}

	a.Logger.Debug("Application shutdown complete")
	return errors.Join(errs...)
}
