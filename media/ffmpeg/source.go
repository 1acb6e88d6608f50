package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/process"
)

type source struct {
	backend  *Backend
	path     string
	profile  media.Profile
	duration float64
	closed   atomic.Bool
}

func (s *source) Duration() float64 { return s.duration }

func (s *source) Slice(start, end float64) (media.Clip, error) {
	if s.closed.Load() {
		return nil, media.ErrClosed
	}
	end = min(end, s.duration)
	if start < 0 || end <= start {
		return nil, fmt.Errorf("ffmpeg: invalid range [%g, %g) for %gs media", start, end, s.duration)
	}
	return &clip{src: s, start: start, end: end}, nil
}

func (s *source) Close() error {
	s.closed.Store(true)
	return nil
}

type clip struct {
	src        *source
	start, end float64
}

func (c *clip) Write(ctx context.Context, path string) error {
	if c.src.closed.Load() {
		return media.ErrClosed
	}
	_, err := c.src.backend.runner.Run(ctx, process.Command{
		Binary: c.src.backend.cfg.FFmpegPath,
		Args:   c.args(path),
	})
	if err != nil {
		return fmt.Errorf("ffmpeg extract [%s, %s): %w", seconds(c.start), seconds(c.end), err)
	}
	return nil
}

// args seeks on the input side, which is frame-accurate when re-encoding.
func (c *clip) args(dest string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error", "-nostdin",
		"-ss", seconds(c.start),
		"-t", seconds(c.end - c.start),
		"-i", c.src.path,
	}
	args = append(args, c.src.profile.Args...)
	return append(args, dest)
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
