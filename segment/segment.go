package segment

import (
	"context"
	"path"
	"path/filepath"
	"strconv"

	"github.com/kbukum/diarsplit/diarization"
	"github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/pipeline"
)

// Progress is reported after each clip is written.
type Progress struct {
	Processed int
	Total     int
	Speaker   string
	Row       int
	File      string
}

// ProgressFunc observes progress. It is called synchronously.
type ProgressFunc func(Progress)

// Result summarises a run.
type Result struct {
	TotalRows      int      `json:"total_rows"`
	ProcessedCount int      `json:"processed_count"`
	Speakers       []string `json:"speakers"`
	OutputRoot     string   `json:"-"`
	// Files holds slash-separated paths relative to OutputRoot.
	Files []string `json:"files"`
	// Stopped is true when a row ending past the media stopped the run.
	Stopped bool `json:"stopped"`
	// StopRow is the index of that row, or -1.
	StopRow int `json:"stop_row"`
}

// SuccessRate returns ProcessedCount / TotalRows.
func (r *Result) SuccessRate() float64 {
	if r.TotalRows == 0 {
		return 0
	}
	return float64(r.ProcessedCount) / float64(r.TotalRows)
}

type options struct {
	progress  ProgressFunc
	extension string
	log       *logger.Logger
}

// Option configures Run.
type Option func(*options)

// WithProgress sets the progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// WithExtension sets the clip file extension, including the dot.
func WithExtension(ext string) Option {
	return func(o *options) { o.extension = ext }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

type written struct {
	row  diarization.Row
	file string
}

// Run writes one clip per in-range row of table into outputRoot.
func Run(ctx context.Context, src media.Source, table *diarization.Table, outputRoot string, opts ...Option) (*Result, error) {
	o := options{extension: media.ProfileAudio.Extension}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("segment")
	}
	log := o.log.WithContext(ctx)

	speakers := table.Speakers()
	res := &Result{
		TotalRows:  table.Len(),
		Speakers:   speakers,
		OutputRoot: outputRoot,
		StopRow:    -1,
	}

	router := NewRouter(outputRoot)
	for _, sp := range speakers {
		if _, err := router.Dir(sp); err != nil {
			return nil, errors.Processing(-1, sp, err)
		}
	}

	duration := src.Duration()
	rows := pipeline.TakeWhile(
		pipeline.FromSlice(table.Rows()),
		func(r diarization.Row) bool { return r.End <= duration },
		func(r diarization.Row) {
			res.Stopped = true
			res.StopRow = r.Index
		},
	)
	clips := pipeline.Map(rows, func(ctx context.Context, r diarization.Row) (written, error) {
		return extract(ctx, src, router, r, o.extension)
	})

	next := 0
	err := pipeline.ForEach(ctx, clips, func(_ context.Context, w written) error {
		res.ProcessedCount++
		res.Files = append(res.Files, w.file)
		next = w.row.Index + 1
		log.Debug("segment written", logger.Fields(
			logger.FieldRow, w.row.Index,
			logger.FieldSpeaker, w.row.Speaker,
			"file", w.file,
		))
		if o.progress != nil {
			o.progress(Progress{
				Processed: res.ProcessedCount,
				Total:     res.TotalRows,
				Speaker:   w.row.Speaker,
				Row:       w.row.Index,
				File:      w.file,
			})
		}
		return nil
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return nil, err
		}
		return nil, errors.Processing(next, "", err)
	}

	if res.Stopped {
		log.Info("segmentation stopped at row past media end", logger.Fields(
			logger.FieldRow, res.StopRow,
			"media_duration", duration,
			"processed", res.ProcessedCount,
			"total", res.TotalRows,
		))
	}
	return res, nil
}

func extract(ctx context.Context, src media.Source, router *Router, r diarization.Row, ext string) (written, error) {
	dir, err := router.Dir(r.Speaker)
	if err != nil {
		return written{}, errors.Processing(r.Index, r.Speaker, err)
	}
	name := FileName(r.Start, r.End, ext)

	clip, err := src.Slice(r.Start, r.End)
	if err != nil {
		return written{}, errors.Processing(r.Index, r.Speaker, err)
	}
	if err := clip.Write(ctx, filepath.Join(dir, name)); err != nil {
		return written{}, errors.Processing(r.Index, r.Speaker, err)
	}
	return written{row: r, file: path.Join(router.Folder(r.Speaker), name)}, nil
}

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
