package batch

import (
	"os"
	"time"

	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/validation"
)

// Config is the batch section of the application config.
type Config struct {
	// TempDir is the parent of per-batch working directories.
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
	// Profile is the default output profile (audio, mp3 or video).
	Profile string `yaml:"profile" mapstructure:"profile" validate:"profile"`
	// Backend is auto, ffmpeg or wav.
	Backend     string `yaml:"backend" mapstructure:"backend" validate:"oneof=auto ffmpeg wav"`
	FFmpegPath  string `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path" mapstructure:"ffprobe_path"`
	// CommandTimeout bounds each ffmpeg/ffprobe invocation. Zero disables it.
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout" validate:"gte=0"`
	// GracePeriod is the wait between SIGTERM and SIGKILL on cancellation.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"gte=0"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.Profile == "" {
		c.Profile = media.ProfileAudio.Name
	}
	if c.Backend == "" {
		c.Backend = media.BackendAuto
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = 10 * time.Minute
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = 5 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// backendConfig is the loose map handed to media backend factories.
func (c *Config) backendConfig() map[string]any {
	return map[string]any{
		"ffmpeg_path":  c.FFmpegPath,
		"ffprobe_path": c.FFprobePath,
		"timeout":      c.CommandTimeout,
		"grace_period": c.GracePeriod,
	}
}
