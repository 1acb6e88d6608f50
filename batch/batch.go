package batch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/diarsplit/archive"
	"github.com/kbukum/diarsplit/diarization"
	"github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/observability"
	"github.com/kbukum/diarsplit/segment"

	// Media backends register themselves with the media package.
	_ "github.com/kbukum/diarsplit/media/ffmpeg"
	_ "github.com/kbukum/diarsplit/media/wav"
)

const (
	diarizationFile = "diarization.csv"
	mediaBaseName   = "media"
	segmentsDir     = "segments"
)

// Input is one split request.
type Input struct {
	// MediaName is the original file name; its extension is kept.
	MediaName   string
	Media       io.Reader
	Diarization io.Reader
	// Profile and Backend override the configured defaults when set.
	Profile string
	Backend string
}

// Result is a finished batch.
type Result struct {
	segment.Result
	BatchID       string        `json:"batch_id"`
	Archive       []byte        `json:"-"`
	Digest        string        `json:"digest"`
	MediaDuration float64       `json:"media_duration"`
	Profile       string        `json:"profile"`
	Backend       string        `json:"backend"`
	Duration      time.Duration `json:"duration"`
}

// Processor runs batches. It holds only immutable configuration and is
// safe for concurrent use.
type Processor struct {
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the processor logger.
func WithLogger(l *logger.Logger) ProcessorOption {
	return func(p *Processor) { p.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) ProcessorOption {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor validates cfg and creates a Processor.
func NewProcessor(cfg Config, opts ...ProcessorOption) (*Processor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Processor{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.WithComponent("batch")
	}
	if p.metrics == nil {
		m, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			return nil, errors.Internal(err)
		}
		p.metrics = m
	}
	return p, nil
}

// Config returns the effective configuration.
func (p *Processor) Config() Config { return p.cfg }

type options struct {
	progress segment.ProgressFunc
}

// Option configures a single Process call.
type Option func(*options)

// WithProgress sets the per-clip progress observer.
func WithProgress(fn segment.ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// Process runs one batch.
func (p *Processor) Process(ctx context.Context, in Input, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	id := uuid.NewString()
	ctx = logger.ContextWithBatchID(ctx, id)
	ctx, span := observability.StartSpan(ctx, observability.SpanBatchProcess)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrBatchID, id)

	log := p.log.WithContext(ctx)
	log.Info("batch started", logger.Fields("media", in.MediaName))

	res, err := p.process(ctx, id, in, o, log)

	outcome := observability.BatchOutcome{Status: "ok", Duration: time.Since(start)}
	if err != nil {
		appErr := errors.Wrap(err)
		outcome.Status = string(appErr.Code)
		observability.SetSpanError(ctx, appErr)
		log.Warn("batch failed", logger.ErrorFields("process", appErr))
		p.metrics.RecordBatch(ctx, outcome)
		return nil, appErr
	}

	res.Duration = outcome.Duration
	outcome.Profile = res.Profile
	outcome.Processed = res.ProcessedCount
	outcome.Stopped = res.Stopped
	p.metrics.RecordBatch(ctx, outcome)

	observability.SetSpanAttribute(ctx, observability.AttrProcessedCount, res.ProcessedCount)
	observability.SetSpanAttribute(ctx, observability.AttrTotalRows, res.TotalRows)
	log.Info("batch completed", logger.Fields(
		"total_rows", res.TotalRows,
		"processed", res.ProcessedCount,
		"speakers", len(res.Speakers),
		"archive_bytes", len(res.Archive),
		logger.FieldDuration, res.Duration.Milliseconds(),
	))
	return res, nil
}

func (p *Processor) process(ctx context.Context, id string, in Input, o options, log *logger.Logger) (*Result, error) {
	profile, backendName, err := p.resolve(in)
	if err != nil {
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrProfile, profile.Name)
	observability.SetSpanAttribute(ctx, observability.AttrBackend, backendName)

	workdir, err := os.MkdirTemp(p.cfg.TempDir, "diarsplit-"+id+"-")
	if err != nil {
		return nil, errors.Internal(err)
	}
	defer func() {
		if err := os.RemoveAll(workdir); err != nil {
			log.Warn("failed to remove working directory", logger.ErrorFields("cleanup", err))
		}
	}()

	mediaPath := filepath.Join(workdir, mediaBaseName+media.Ext(in.MediaName))
	csvPath := filepath.Join(workdir, diarizationFile)
	if err := persist(mediaPath, in.Media); err != nil {
		return nil, errors.Internal(err)
	}
	if err := persist(csvPath, in.Diarization); err != nil {
		return nil, errors.Internal(err)
	}

	var table *diarization.Table
	err = observability.Track(ctx, observability.SpanBatchValidate, func(context.Context) error {
		var err error
		table, err = diarization.ParseFile(csvPath)
		return err
	})
	if err != nil {
		return nil, err
	}

	var src media.Source
	err = observability.Track(ctx, observability.SpanBatchOpenMedia, func(ctx context.Context) error {
		backend, err := media.NewBackend(backendName, p.cfg.backendConfig())
		if err != nil {
			return errors.Internal(err)
		}
		src, err = backend.Open(ctx, mediaPath, profile)
		if err != nil {
			return errors.UnreadableMedia(in.MediaName, err)
		}
		observability.SetSpanAttribute(ctx, observability.AttrMediaDuration, src.Duration())
		return nil
	})
	if err != nil {
		return nil, err
	}

	closed := false
	closeSource := func() {
		if closed {
			return
		}
		closed = true
		if err := src.Close(); err != nil {
			log.Warn("failed to close media source", logger.ErrorFields("close_media", err))
		}
	}
	defer closeSource()

	segRoot := filepath.Join(workdir, segmentsDir)
	var seg *segment.Result
	err = observability.Track(ctx, observability.SpanBatchSegment, func(ctx context.Context) error {
		var err error
		seg, err = segment.Run(ctx, src, table, segRoot,
			segment.WithExtension(profile.Extension),
			segment.WithProgress(o.progress),
			segment.WithLogger(log),
		)
		if err == nil && seg.Stopped {
			observability.SetSpanAttribute(ctx, observability.AttrStopRow, seg.StopRow)
		}
		return err
	})
	duration := src.Duration()
	closeSource()
	if err != nil {
		return nil, err
	}

	var data []byte
	err = observability.Track(ctx, observability.SpanBatchArchive, func(context.Context) error {
		var err error
		data, err = archive.Directory(segRoot)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Result:        *seg,
		BatchID:       id,
		Archive:       data,
		Digest:        archive.Digest(data),
		MediaDuration: duration,
		Profile:       profile.Name,
		Backend:       backendName,
	}, nil
}

func (p *Processor) resolve(in Input) (media.Profile, string, error) {
	if in.MediaName == "" {
		return media.Profile{}, "", errors.MissingField("media")
	}
	if in.Media == nil {
		return media.Profile{}, "", errors.MissingField("media")
	}
	if in.Diarization == nil {
		return media.Profile{}, "", errors.MissingField("diarization")
	}

	name := in.Profile
	if name == "" {
		name = p.cfg.Profile
	}
	profile, err := media.LookupProfile(name)
	if err != nil {
		return media.Profile{}, "", errors.InvalidInput("profile", err.Error())
	}

	backend := in.Backend
	if backend == "" {
		backend = p.cfg.Backend
	}
	backend, err = media.SelectBackend(backend, in.MediaName, profile)
	if err != nil {
		return media.Profile{}, "", errors.InvalidInput("backend", err.Error())
	}
	return profile, backend, nil
}

func persist(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
