package segment_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/diarsplit/diarization"
	"github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/segment"
)

type fakeSource struct {
	duration float64
	failAt   float64
	slices   [][2]float64
}

func (f *fakeSource) Duration() float64 { return f.duration }
func (f *fakeSource) Close() error      { return nil }

func (f *fakeSource) Slice(start, end float64) (media.Clip, error) {
	f.slices = append(f.slices, [2]float64{start, end})
	return fakeClip{start: start, end: end, fail: start == f.failAt}, nil
}

type fakeClip struct {
	start, end float64
	fail       bool
}

func (c fakeClip) Write(_ context.Context, path string) error {
	if c.fail {
		return stderrors.New("encoder exploded")
	}
	return os.WriteFile(path, []byte(fmt.Sprintf("%g-%g", c.start, c.end)), 0o600)
}

func therapyTable(t *testing.T) *diarization.Table {
	t.Helper()
	table, err := diarization.New([]diarization.Row{
		{Start: 0.03, End: 2.28, Speaker: "therapist"},
		{Start: 2.28, End: 4.09, Speaker: "patient"},
		{Start: 4.09, End: 5.50, Speaker: "therapist"},
		{Start: 5.50, End: 7.75, Speaker: "patient"},
	})
	require.NoError(t, err)
	return table
}

func run(t *testing.T, src media.Source, table *diarization.Table, opts ...segment.Option) (*segment.Result, string) {
	t.Helper()
	root := t.TempDir()
	opts = append([]segment.Option{segment.WithLogger(logger.Nop())}, opts...)
	res, err := segment.Run(context.Background(), src, table, root, opts...)
	require.NoError(t, err)
	return res, root
}

func TestRun_EarlyStop(t *testing.T) {
	var events []segment.Progress
	src := &fakeSource{duration: 7.0, failAt: -1}
	res, root := run(t, src, therapyTable(t), segment.WithProgress(func(p segment.Progress) {
		events = append(events, p)
	}))

	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, 3, res.ProcessedCount)
	assert.True(t, res.Stopped)
	assert.Equal(t, 3, res.StopRow)
	assert.Equal(t, []string{"therapist", "patient"}, res.Speakers)
	assert.Len(t, src.slices, 3, "rows after the stop must not be sliced")

	therapist, _ := os.ReadDir(filepath.Join(root, "therapist"))
	patient, _ := os.ReadDir(filepath.Join(root, "patient"))
	assert.Len(t, therapist, 2)
	assert.Len(t, patient, 1)

	assert.Equal(t, []string{
		"therapist/segment_0.03_2.28.wav",
		"patient/segment_2.28_4.09.wav",
		"therapist/segment_4.09_5.50.wav",
	}, res.Files)

	require.Len(t, events, 3)
	assert.Equal(t, segment.Progress{Processed: 2, Total: 4, Speaker: "patient", Row: 1, File: "patient/segment_2.28_4.09.wav"}, events[1])
	assert.InDelta(t, 0.75, res.SuccessRate(), 1e-9)
}

func TestRun_AllInRange(t *testing.T) {
	res, root := run(t, &fakeSource{duration: 8.0, failAt: -1}, therapyTable(t))
	assert.Equal(t, 4, res.ProcessedCount)
	assert.False(t, res.Stopped)
	assert.Equal(t, -1, res.StopRow)

	patient, _ := os.ReadDir(filepath.Join(root, "patient"))
	assert.Len(t, patient, 2)
	b, err := os.ReadFile(filepath.Join(root, "patient", "segment_5.50_7.75.wav"))
	require.NoError(t, err)
	assert.Equal(t, "5.5-7.75", string(b))
}

func TestRun_EndEqualToDurationIsInRange(t *testing.T) {
	table, err := diarization.New([]diarization.Row{{Start: 1, End: 2, Speaker: "a"}})
	require.NoError(t, err)
	res, _ := run(t, &fakeSource{duration: 2, failAt: -1}, table)
	assert.Equal(t, 1, res.ProcessedCount)
}

func TestRun_StopAtFirstRowStillCreatesFolders(t *testing.T) {
	table, err := diarization.New([]diarization.Row{
		{Start: 0, End: 10, Speaker: "a"},
		{Start: 0, End: 1, Speaker: "b"},
	})
	require.NoError(t, err)

	res, root := run(t, &fakeSource{duration: 5, failAt: -1}, table)
	assert.Equal(t, 0, res.ProcessedCount)
	assert.Equal(t, 0, res.StopRow)
	assert.DirExists(t, filepath.Join(root, "a"))
	assert.DirExists(t, filepath.Join(root, "b"))
}

func TestRun_ExtensionAndSanitisedFolders(t *testing.T) {
	table, err := diarization.New([]diarization.Row{
		{Start: 0, End: 1, Speaker: "../escape"},
		{Start: 1, End: 2, Speaker: ".."},
	})
	require.NoError(t, err)

	res, root := run(t, &fakeSource{duration: 5, failAt: -1}, table, segment.WithExtension(".mp4"))
	assert.Equal(t, []string{".._escape/segment_0.00_1.00.mp4", "__/segment_1.00_2.00.mp4"}, res.Files)
	for _, f := range res.Files {
		assert.FileExists(t, filepath.Join(root, filepath.FromSlash(f)))
	}
}

func TestRun_CollidingSpeakerLabelsStaySeparate(t *testing.T) {
	table, err := diarization.New([]diarization.Row{
		{Start: 0, End: 1, Speaker: "a/b"},
		{Start: 1, End: 2, Speaker: "a_b"},
		{Start: 2, End: 3, Speaker: "."},
		{Start: 3, End: 4, Speaker: "_"},
	})
	require.NoError(t, err)

	res, root := run(t, &fakeSource{duration: 5, failAt: -1}, table)
	assert.Equal(t, []string{
		"a_b/segment_0.00_1.00.wav",
		"a_b_2/segment_1.00_2.00.wav",
		"_/segment_2.00_3.00.wav",
		"__2/segment_3.00_4.00.wav",
	}, res.Files)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	for _, f := range res.Files {
		assert.FileExists(t, filepath.Join(root, filepath.FromSlash(f)))
	}
}

func TestRun_WriteFailureAborts(t *testing.T) {
	var events int
	src := &fakeSource{duration: 8, failAt: 2.28}
	_, err := segment.Run(context.Background(), src, therapyTable(t), t.TempDir(),
		segment.WithLogger(logger.Nop()),
		segment.WithProgress(func(segment.Progress) { events++ }))

	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeProcessing, appErr.Code)
	assert.Equal(t, 1, appErr.Details["row"])
	assert.Equal(t, "patient", appErr.Details["speaker"])
	assert.True(t, strings.Contains(err.Error(), "encoder exploded"))
	assert.Equal(t, 1, events)
	assert.Len(t, src.slices, 2)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := segment.Run(ctx, &fakeSource{duration: 8, failAt: -1}, therapyTable(t), t.TempDir(),
		segment.WithLogger(logger.Nop()))
	assert.True(t, errors.HasCode(err, errors.ErrCodeProcessing))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_UnwritableRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, nil, 0o600))
	_, err := segment.Run(context.Background(), &fakeSource{duration: 8, failAt: -1}, therapyTable(t), root,
		segment.WithLogger(logger.Nop()))
	assert.True(t, errors.HasCode(err, errors.ErrCodeProcessing))
}

func TestRun_DuplicateRowsOverwrite(t *testing.T) {
	table, err := diarization.New([]diarization.Row{
		{Start: 1, End: 2, Speaker: "a"},
		{Start: 1, End: 2, Speaker: "a"},
	})
	require.NoError(t, err)
	res, root := run(t, &fakeSource{duration: 5, failAt: -1}, table)
	assert.Equal(t, 2, res.ProcessedCount)
	entries, _ := os.ReadDir(filepath.Join(root, "a"))
	assert.Len(t, entries, 1)
}
