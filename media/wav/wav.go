// Package wav implements media.Backend for PCM WAV files without external
// binaries. The whole file is decoded into memory on Open; clips are slices
// of the sample buffer taken at int(t*sampleRate) frame offsets.
package wav

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"

	"github.com/kbukum/diarsplit/media"
)

// Name is the registered backend name.
const Name = media.BackendWAV

const pcmFormat = 1

func init() {
	media.RegisterBackend(Name, func(map[string]any) (media.Backend, error) {
		return New(), nil
	})
}

// Backend decodes and encodes WAV in process.
type Backend struct{}

var _ media.Backend = (*Backend)(nil)

// New creates a Backend.
func New() *Backend { return &Backend{} }

// Name returns the backend name.
func (*Backend) Name() string { return Name }

// IsAvailable always reports true.
func (*Backend) IsAvailable(context.Context) bool { return true }

// Open decodes path. Only integer PCM input and .wav output are supported.
func (b *Backend) Open(ctx context.Context, path string, profile media.Profile) (media.Source, error) {
	if profile.Extension != ".wav" {
		return nil, fmt.Errorf("wav: cannot encode %s clips", profile.Extension)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("wav: %s: %w", path, err)
	}
	return newSource(buf), nil
}

// Decode reads a complete PCM WAV stream.
func Decode(r io.ReadSeeker) (*audio.IntBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("unsupported WAV audio format %d", dec.WavAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("missing WAV format information")
	}
	if buf.SourceBitDepth == 0 {
		buf.SourceBitDepth = int(dec.BitDepth)
	}
	return buf, nil
}

// Encode writes buf as a PCM WAV byte stream.
func Encode(buf *audio.IntBuffer) ([]byte, error) {
	ws := &writerseeker.WriterSeeker{}
	if err := encodeTo(ws, buf); err != nil {
		return nil, err
	}
	return io.ReadAll(ws.Reader())
}

func encodeTo(w io.WriteSeeker, buf *audio.IntBuffer) error {
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	enc := wav.NewEncoder(w, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, pcmFormat)
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
