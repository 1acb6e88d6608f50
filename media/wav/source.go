package wav

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/go-audio/audio"

	"github.com/kbukum/diarsplit/media"
)

type source struct {
	buf    *audio.IntBuffer
	frames int
	closed atomic.Bool
}

func newSource(buf *audio.IntBuffer) *source {
	return &source{buf: buf, frames: len(buf.Data) / buf.Format.NumChannels}
}

func (s *source) Duration() float64 {
	return float64(s.frames) / float64(s.buf.Format.SampleRate)
}

func (s *source) Slice(start, end float64) (media.Clip, error) {
	if s.closed.Load() {
		return nil, media.ErrClosed
	}
	if start < 0 || end <= start {
		return nil, fmt.Errorf("wav: invalid range [%g, %g)", start, end)
	}
	// Offsets truncate toward zero and clamp to the buffer, so a range that
	// covers less than one frame or starts past the end yields an empty clip.
	rate := float64(s.buf.Format.SampleRate)
	first := min(int(start*rate), s.frames)
	last := max(min(int(end*rate), s.frames), first)

	ch := s.buf.Format.NumChannels
	return &clip{src: s, data: s.buf.Data[first*ch : last*ch]}, nil
}

func (s *source) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.buf = &audio.IntBuffer{Format: s.buf.Format, SourceBitDepth: s.buf.SourceBitDepth}
	}
	return nil
}

type clip struct {
	src  *source
	data []int
}

func (c *clip) Write(ctx context.Context, path string) (err error) {
	if c.src.closed.Load() {
		return media.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encodeTo(f, &audio.IntBuffer{
		Format:         c.src.buf.Format,
		Data:           c.data,
		SourceBitDepth: c.src.buf.SourceBitDepth,
	})
}
