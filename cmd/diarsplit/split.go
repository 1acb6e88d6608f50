package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	tablewriter "github.com/djthorpe/go-tablewriter"

	"github.com/kbukum/diarsplit/archive"
	"github.com/kbukum/diarsplit/batch"
	"github.com/kbukum/diarsplit/client"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/segment"
	"github.com/kbukum/diarsplit/util"
)

// SplitCmd runs one batch.
type SplitCmd struct {
	Media   string `arg:"" help:"Media file (audio or video)" type:"existingfile"`
	CSV     string `arg:"" name:"csv" help:"Diarization CSV with start, end and speaker columns" type:"existingfile"`
	Output  string `short:"o" help:"Archive path (default: <profile>_segments.zip)" type:"path"`
	Profile string `help:"Output profile: audio, mp3 or video (default from config)"`
	Backend string `help:"Media backend: auto, ffmpeg or wav (default from config)"`
	Extract string `help:"Also unpack the archive into this directory" type:"path"`
	Server  string `help:"Run the batch on a diarsplit server instead of locally" placeholder:"URL" env:"DIARSPLIT_SERVER"`
	Token   string `help:"Bearer token for --server" env:"DIARSPLIT_TOKEN"`
	Quiet   bool   `short:"q" help:"Hide per-clip progress"`
}

// splitOutcome is what both local and remote runs report.
type splitOutcome struct {
	BatchID        string
	Profile        string
	TotalRows      int
	ProcessedCount int
	StopRow        int
	MediaDuration  float64
	Digest         string
	Archive        []byte
	Elapsed        time.Duration
}

type kv struct {
	Key   string `json:"name"`
	Value string `json:"value" writer:",wrap,width:64"`
}

type speakerCount struct {
	Speaker string `json:"speaker" writer:",width:30"`
	Clips   int    `json:"clips" writer:",right,width:6"`
}

// Run implements the split command.
func (cmd *SplitCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	app, err := newApp(g, cfg)
	if err != nil {
		return err
	}

	return app.RunTask(context.Background(), func(ctx context.Context) error {
		start := time.Now()
		var out *splitOutcome
		if remote := cmd.serverURL(cfg); remote != "" {
			out, err = cmd.remote(ctx, cfg, remote, app.Logger)
		} else {
			out, err = cmd.local(ctx, cfg, g, app.Logger)
		}
		if err != nil {
			return err
		}
		out.Elapsed = time.Since(start)
		return cmd.finish(g, out)
	})
}

func (cmd *SplitCmd) serverURL(cfg *AppConfig) string {
	if cmd.Server != "" {
		return cmd.Server
	}
	return cfg.Client.BaseURL
}

func (cmd *SplitCmd) local(ctx context.Context, cfg *AppConfig, g *Globals, log *logger.Logger) (*splitOutcome, error) {
	proc, err := batch.NewProcessor(cfg.Batch, batch.WithLogger(log))
	if err != nil {
		return nil, err
	}

	mediaFile, err := os.Open(cmd.Media)
	if err != nil {
		return nil, err
	}
	defer mediaFile.Close()
	csvFile, err := os.Open(cmd.CSV)
	if err != nil {
		return nil, err
	}
	defer csvFile.Close()

	var opts []batch.Option
	if !cmd.Quiet {
		opts = append(opts, batch.WithProgress(func(p segment.Progress) {
			fmt.Fprintf(g.stderr, "[%d/%d] row %d %s\n", p.Processed, p.Total, p.Row, p.File)
		}))
	}

	res, err := proc.Process(ctx, batch.Input{
		MediaName:   filepath.Base(cmd.Media),
		Media:       mediaFile,
		Diarization: csvFile,
		Profile:     cmd.Profile,
		Backend:     cmd.Backend,
	}, opts...)
	if err != nil {
		return nil, err
	}

	out := &splitOutcome{
		BatchID:        res.BatchID,
		Profile:        res.Profile,
		TotalRows:      res.TotalRows,
		ProcessedCount: res.ProcessedCount,
		StopRow:        -1,
		MediaDuration:  res.MediaDuration,
		Digest:         res.Digest,
		Archive:        res.Archive,
	}
	if res.Stopped {
		out.StopRow = res.StopRow
	}
	return out, nil
}

func (cmd *SplitCmd) remote(ctx context.Context, cfg *AppConfig, baseURL string, log *logger.Logger) (*splitOutcome, error) {
	ccfg := cfg.Client
	ccfg.BaseURL = baseURL
	if cmd.Token != "" {
		ccfg.Token = cmd.Token
	}
	retry := client.DefaultRetryConfig()
	if ccfg.Retry != nil {
		*retry = *ccfg.Retry
		retry.RetryIf = client.IsRetryable
	}
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		log.Warn("Server busy, retrying", logger.Fields(
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", err.Error(),
		))
	}
	ccfg.Retry = retry

	c, err := client.New(ccfg)
	if err != nil {
		return nil, err
	}

	mediaData, err := os.ReadFile(cmd.Media)
	if err != nil {
		return nil, err
	}
	csvData, err := os.ReadFile(cmd.CSV)
	if err != nil {
		return nil, err
	}

	log.Info("Uploading batch", logger.Fields(
		"server", baseURL,
		"media", filepath.Base(cmd.Media),
		"bytes", len(mediaData),
	))
	res, err := c.Split(ctx, client.SplitRequest{
		Media:       client.File{Name: filepath.Base(cmd.Media), Data: mediaData},
		Diarization: client.File{Name: filepath.Base(cmd.CSV), Data: csvData},
		Profile:     cmd.Profile,
		Backend:     cmd.Backend,
	})
	if err != nil {
		return nil, err
	}

	profile := cmd.Profile
	if profile == "" {
		profile = profileFromFileName(res.FileName)
	}
	return &splitOutcome{
		BatchID:        res.BatchID,
		Profile:        profile,
		TotalRows:      res.TotalRows,
		ProcessedCount: res.ProcessedCount,
		StopRow:        res.StopRow,
		MediaDuration:  res.MediaDuration,
		Digest:         res.Digest,
		Archive:        res.Archive,
	}, nil
}

// finish writes the archive, optionally unpacks it, and prints the summary.
func (cmd *SplitCmd) finish(g *Globals, out *splitOutcome) error {
	output := cmd.Output
	if output == "" {
		output = out.Profile + "_segments.zip"
	}
	if err := os.WriteFile(output, out.Archive, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	if err := verifyWritten(output, out.Digest); err != nil {
		return err
	}
	if cmd.Extract != "" {
		if err := archive.Extract(out.Archive, cmd.Extract); err != nil {
			return err
		}
	}

	entries, err := archive.Entries(out.Archive)
	if err != nil {
		return err
	}

	rows := []kv{
		{"batch", out.BatchID},
		{"profile", out.Profile},
		{"processed", fmt.Sprintf("%d of %d rows", out.ProcessedCount, out.TotalRows)},
	}
	if out.StopRow >= 0 {
		rows = append(rows, kv{"stopped at", "row index " + strconv.Itoa(out.StopRow) + ", which ends past the media"})
	}
	rows = append(rows,
		kv{"media duration", fmt.Sprintf("%.2fs", out.MediaDuration)},
		kv{"archive size", util.FormatSize(int64(len(out.Archive)))},
		kv{"elapsed", out.Elapsed.Round(time.Millisecond).String()},
	)
	if err := g.writer.Write(rows, tablewriter.OptHeader()); err != nil {
		return err
	}
	if counts := clipsPerSpeaker(entries); len(counts) > 0 {
		fmt.Fprintln(g.stdout)
		if err := g.writer.Write(counts, tablewriter.OptHeader()); err != nil {
			return err
		}
	}

	// Paths and the digest are printed in full, outside the fixed-width table.
	fmt.Fprintln(g.stdout)
	fmt.Fprintf(g.stdout, "archive:   %s\n", output)
	if cmd.Extract != "" {
		fmt.Fprintf(g.stdout, "extracted: %s\n", cmd.Extract)
	}
	if out.Digest != "" {
		fmt.Fprintf(g.stdout, "digest:    %s\n", out.Digest)
	}
	return nil
}

// clipsPerSpeaker counts archive entries by their top-level folder.
func clipsPerSpeaker(entries []string) []speakerCount {
	counts := map[string]int{}
	var order []string
	for _, e := range entries {
		dir := path.Dir(e)
		if dir == "." {
			continue
		}
		if _, ok := counts[dir]; !ok {
			order = append(order, dir)
		}
		counts[dir]++
	}
	sort.Strings(order)
	out := make([]speakerCount, 0, len(order))
	for _, s := range order {
		out = append(out, speakerCount{Speaker: s, Clips: counts[s]})
	}
	return out
}

func profileFromFileName(name string) string {
	if p, ok := strings.CutSuffix(name, "_segments.zip"); ok && p != "" {
		return p
	}
	return "diarsplit"
}

// verifyWritten re-hashes the archive on disk against the batch digest.
func verifyWritten(path, digest string) error {
	if digest == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	got, err := archive.DigestReader(f)
	if err != nil {
		return err
	}
	if got != digest {
		return fmt.Errorf("archive %s does not match digest %s", path, digest)
	}
	return nil
}
