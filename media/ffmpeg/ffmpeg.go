// Package ffmpeg implements media.Backend on top of the ffprobe and ffmpeg
// binaries. Sources are probed once for their duration; every clip is a
// separate ffmpeg invocation that seeks to the range and re-encodes it.
package ffmpeg

import (
	"context"
	"os/exec"
	"time"

	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/process"
	"github.com/kbukum/diarsplit/provider"
)

// Name is the registered backend name.
const Name = media.BackendFFmpeg

func init() {
	media.RegisterBackend(Name, Factory())
}

// Config holds binary locations and per-command limits.
type Config struct {
	FFmpegPath  string        `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	FFprobePath string        `yaml:"ffprobe_path" mapstructure:"ffprobe_path"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
}

// ApplyDefaults fills in binary names resolved through PATH.
func (c *Config) ApplyDefaults() {
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}
}

// Backend runs ffprobe and ffmpeg through a process.Runner.
type Backend struct {
	cfg    Config
	runner process.Runner
}

// Option customises a Backend.
type Option func(*Backend)

// WithRunner replaces the subprocess runner.
func WithRunner(r process.Runner) Option {
	return func(b *Backend) { b.runner = r }
}

// New creates a Backend.
func New(cfg Config, opts ...Option) *Backend {
	cfg.ApplyDefaults()
	b := &Backend{
		cfg: cfg,
		runner: process.NewExecutor(process.Config{
			Timeout:     cfg.Timeout,
			GracePeriod: cfg.GracePeriod,
		}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Factory builds Backends from a loose config map with the keys
// ffmpeg_path, ffprobe_path, timeout and grace_period.
func Factory() provider.Factory[media.Backend] {
	return func(m map[string]any) (media.Backend, error) {
		var cfg Config
		var err error
		if cfg.FFmpegPath, err = provider.String(m, "ffmpeg_path", ""); err != nil {
			return nil, err
		}
		if cfg.FFprobePath, err = provider.String(m, "ffprobe_path", ""); err != nil {
			return nil, err
		}
		if cfg.Timeout, err = provider.Duration(m, "timeout", 0); err != nil {
			return nil, err
		}
		if cfg.GracePeriod, err = provider.Duration(m, "grace_period", 0); err != nil {
			return nil, err
		}
		return New(cfg), nil
	}
}

// Name returns the backend name.
func (b *Backend) Name() string { return Name }

// IsAvailable reports whether both binaries can be found.
func (b *Backend) IsAvailable(_ context.Context) bool {
	if _, err := exec.LookPath(b.cfg.FFmpegPath); err != nil {
		return false
	}
	_, err := exec.LookPath(b.cfg.FFprobePath)
	return err == nil
}

// Open probes path and returns a Source whose clips are encoded with profile.
func (b *Backend) Open(ctx context.Context, path string, profile media.Profile) (media.Source, error) {
	probe, err := b.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := probe.supports(profile); err != nil {
		return nil, err
	}
	return &source{
		backend:  b,
		path:     path,
		profile:  profile,
		duration: probe.Duration,
	}, nil
}
