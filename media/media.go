package media

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/diarsplit/provider"
)

// ErrClosed is returned when a closed Source is used.
var ErrClosed = stderrors.New("media: source closed")

// Source is an opened media file.
type Source interface {
	// Duration returns the length of the media in seconds.
	Duration() float64
	// Slice returns the [start, end) range as a Clip. An end past the media
	// length is clamped.
	Slice(start, end float64) (Clip, error)
	// Close releases the source.
	Close() error
}

// Clip is a range of a Source ready to be encoded.
type Clip interface {
	// Write encodes the clip to path, replacing any existing file.
	Write(ctx context.Context, path string) error
}

// Backend opens media files.
type Backend interface {
	provider.Provider
	// Open decodes or probes path so that clips can be written with profile.
	Open(ctx context.Context, path string, profile Profile) (Source, error)
}
