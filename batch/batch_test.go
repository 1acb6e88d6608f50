package batch_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/diarsplit/archive"
	"github.com/kbukum/diarsplit/batch"
	"github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/media/wav"
	"github.com/kbukum/diarsplit/segment"
)

const sampleRate = 1000

const therapyCSV = `start,end,speaker
0.03,2.28,therapist
2.28,4.09,patient
4.09,5.50,therapist
5.50,7.75,patient
`

func tone(t *testing.T, seconds float64) []byte {
	t.Helper()
	data := make([]int, int(seconds*sampleRate))
	for i := range data {
		data[i] = (i * 37) % 20000
	}
	b, err := wav.Encode(&audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:           data,
		SourceBitDepth: 16,
	})
	require.NoError(t, err)
	return b
}

func newProcessor(t *testing.T) (*batch.Processor, string) {
	t.Helper()
	tmp := t.TempDir()
	p, err := batch.NewProcessor(batch.Config{TempDir: tmp}, batch.WithLogger(logger.Nop()))
	require.NoError(t, err)
	return p, tmp
}

func input(media []byte, csv string) batch.Input {
	return batch.Input{
		MediaName:   "session.wav",
		Media:       bytes.NewReader(media),
		Diarization: strings.NewReader(csv),
	}
}

func assertCleanedUp(t *testing.T, tmp string) {
	t.Helper()
	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "working directory must be removed")
}

func TestProcess_EarlyStopAtSevenSeconds(t *testing.T) {
	p, tmp := newProcessor(t)

	res, err := p.Process(context.Background(), input(tone(t, 7.0), therapyCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, 3, res.ProcessedCount)
	assert.True(t, res.Stopped)
	assert.Equal(t, 3, res.StopRow)
	assert.Equal(t, []string{"therapist", "patient"}, res.Speakers)
	assert.InDelta(t, 7.0, res.MediaDuration, 1e-9)
	assert.Equal(t, media.BackendWAV, res.Backend)
	assert.Equal(t, "audio", res.Profile)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, archive.Digest(res.Archive), res.Digest)

	names, err := archive.Entries(res.Archive)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"patient/segment_2.28_4.09.wav",
		"therapist/segment_0.03_2.28.wav",
		"therapist/segment_4.09_5.50.wav",
	}, names)
	assertCleanedUp(t, tmp)
}

func TestProcess_AllRowsAtEightSeconds(t *testing.T) {
	p, tmp := newProcessor(t)

	res, err := p.Process(context.Background(), input(tone(t, 8.0), therapyCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, res.ProcessedCount)
	assert.False(t, res.Stopped)
	assert.Equal(t, -1, res.StopRow)
	assert.InDelta(t, 1.0, res.SuccessRate(), 1e-9)

	names, err := archive.Entries(res.Archive)
	require.NoError(t, err)
	assert.Len(t, names, 4)
	assertCleanedUp(t, tmp)
}

func TestProcess_ArchiveRoundTrip(t *testing.T) {
	p, _ := newProcessor(t)

	res, err := p.Process(context.Background(), input(tone(t, 8.0), therapyCSV))
	require.NoError(t, err)

	dest := t.TempDir()
	require.NoError(t, archive.Extract(res.Archive, dest))

	files := append([]string(nil), res.Files...)
	sort.Strings(files)
	names, err := archive.Entries(res.Archive)
	require.NoError(t, err)
	assert.Equal(t, files, names)

	top, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Len(t, top, len(res.Speakers))

	// Each clip holds exactly its time range.
	b, err := os.ReadFile(filepath.Join(dest, "patient", "segment_2.28_4.09.wav"))
	require.NoError(t, err)
	clip, err := wav.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Len(t, clip.Data, 4090-2280)
}

func TestProcess_Idempotent(t *testing.T) {
	p, _ := newProcessor(t)
	src := tone(t, 8.0)

	first, err := p.Process(context.Background(), input(src, therapyCSV))
	require.NoError(t, err)
	second, err := p.Process(context.Background(), input(src, therapyCSV))
	require.NoError(t, err)

	assert.NotEqual(t, first.BatchID, second.BatchID)
	assert.Equal(t, first.Archive, second.Archive)
	assert.Equal(t, first.Digest, second.Digest)
}

func TestProcess_Progress(t *testing.T) {
	p, _ := newProcessor(t)

	var events []segment.Progress
	_, err := p.Process(context.Background(), input(tone(t, 7.0), therapyCSV),
		batch.WithProgress(func(ev segment.Progress) { events = append(events, ev) }))
	require.NoError(t, err)

	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, i+1, ev.Processed)
		assert.Equal(t, 4, ev.Total)
	}
}

func TestProcess_ValidationBeforeMedia(t *testing.T) {
	garbage := []byte("definitely not audio")

	tests := []struct {
		name string
		csv  string
		code errors.ErrorCode
	}{
		{"invalid range", "start,end,speaker\n0,1,a\n5.0,3.0,x\n", errors.ErrCodeInvalidRange},
		{"missing columns", "start,end\n0,1\n", errors.ErrCodeMissingColumns},
		{"empty data", "start,end,speaker\n", errors.ErrCodeEmptyData},
		{"negative time", "start,end,speaker\n-1,1,a\n", errors.ErrCodeNegativeTime},
		{"bad number", "start,end,speaker\nzero,1,a\n", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, tmp := newProcessor(t)
			_, err := p.Process(context.Background(), input(garbage, tt.csv))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
			assertCleanedUp(t, tmp)
		})
	}
}

func TestProcess_UnreadableMedia(t *testing.T) {
	p, tmp := newProcessor(t)

	_, err := p.Process(context.Background(), input([]byte("RIFF nope"), therapyCSV))
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnreadableMedia, appErr.Code)
	assert.Equal(t, 422, appErr.HTTPStatus)
	assertCleanedUp(t, tmp)
}

func TestProcess_InputErrors(t *testing.T) {
	p, _ := newProcessor(t)
	src := tone(t, 1)

	tests := []struct {
		name string
		in   batch.Input
		code errors.ErrorCode
	}{
		{"unknown profile", batch.Input{MediaName: "a.wav", Media: bytes.NewReader(src), Diarization: strings.NewReader(therapyCSV), Profile: "gif"}, errors.ErrCodeInvalidInput},
		{"wav backend cannot write mp3", batch.Input{MediaName: "a.wav", Media: bytes.NewReader(src), Diarization: strings.NewReader(therapyCSV), Profile: "mp3", Backend: "wav"}, errors.ErrCodeInvalidInput},
		{"unknown backend", batch.Input{MediaName: "a.wav", Media: bytes.NewReader(src), Diarization: strings.NewReader(therapyCSV), Backend: "sox"}, errors.ErrCodeInvalidInput},
		{"missing media name", batch.Input{Media: bytes.NewReader(src), Diarization: strings.NewReader(therapyCSV)}, errors.ErrCodeMissingField},
		{"missing diarization", batch.Input{MediaName: "a.wav", Media: bytes.NewReader(src)}, errors.ErrCodeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Process(context.Background(), tt.in)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestProcess_Cancelled(t *testing.T) {
	p, tmp := newProcessor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, input(tone(t, 8.0), therapyCSV))
	require.Error(t, err)
	assertCleanedUp(t, tmp)
}

func TestNewProcessor_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  batch.Config
	}{
		{"backend", batch.Config{Backend: "sox"}},
		{"profile", batch.Config{Profile: "gif"}},
		{"timeout", batch.Config{CommandTimeout: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := batch.NewProcessor(tt.cfg)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg batch.Config
	cfg.ApplyDefaults()
	assert.Equal(t, "audio", cfg.Profile)
	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.NotZero(t, cfg.CommandTimeout)
	assert.NotEmpty(t, cfg.TempDir)
	assert.NoError(t, cfg.Validate())
}

func TestCheckHealth(t *testing.T) {
	p, err := batch.NewProcessor(batch.Config{
		FFmpegPath:  "/nonexistent/ffmpeg",
		FFprobePath: "/nonexistent/ffprobe",
	}, batch.WithLogger(logger.Nop()))
	require.NoError(t, err)

	h := p.CheckHealth(context.Background())
	assert.Equal(t, "media", h.Name)
	assert.Equal(t, "available", h.Details[media.BackendWAV])
	assert.Equal(t, "unavailable", h.Details[media.BackendFFmpeg])
	assert.Equal(t, "degraded", string(h.Status))
}
