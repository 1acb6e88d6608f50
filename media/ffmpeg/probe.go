package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/process"
)

// Stream errors returned by Open when the input lacks what the profile encodes.
var (
	ErrNoAudioStream = errors.New("ffmpeg: media has no audio stream")
	ErrNoVideoStream = errors.New("ffmpeg: media has no video stream")
)

// ProbeResult is the subset of ffprobe JSON output diarsplit reads.
type ProbeResult struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// Probe describes a media file.
type Probe struct {
	Duration float64
	Format   string
	HasAudio bool
	HasVideo bool
}

// Probe runs ffprobe on path.
func (b *Backend) Probe(ctx context.Context, path string) (*Probe, error) {
	res, err := b.runner.Run(ctx, process.Command{
		Binary: b.cfg.FFprobePath,
		Args: []string{
			"-v", "quiet",
			"-print_format", "json",
			"-show_format",
			"-show_streams",
			path,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(res.Stdout)
}

func parseProbe(out []byte) (*Probe, error) {
	var result ProbeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if result.Format.Duration == "" {
		return nil, fmt.Errorf("no duration found in media file")
	}
	seconds, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration %q: %w", result.Format.Duration, err)
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("media has no playable duration")
	}

	p := &Probe{Duration: seconds, Format: result.Format.FormatName}
	for _, s := range result.Streams {
		switch s.CodecType {
		case "audio":
			p.HasAudio = true
		case "video":
			p.HasVideo = true
		}
	}
	return p, nil
}

// supports reports whether clips in profile can be cut from the probed
// media. Video profiles need a video stream; the audio-only ones need audio.
func (p *Probe) supports(profile media.Profile) error {
	if profile.Video {
		if !p.HasVideo {
			return fmt.Errorf("%w (profile %s)", ErrNoVideoStream, profile.Name)
		}
		return nil
	}
	if !p.HasAudio {
		return fmt.Errorf("%w (profile %s)", ErrNoAudioStream, profile.Name)
	}
	return nil
}
