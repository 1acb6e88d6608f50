package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	tablewriter "github.com/djthorpe/go-tablewriter"

	"github.com/kbukum/diarsplit/client"
	"github.com/kbukum/diarsplit/diarization"
)

// PreviewCmd validates a diarization table without touching media.
type PreviewCmd struct {
	CSV    string `arg:"" name:"csv" help:"Diarization CSV" type:"existingfile"`
	Rows   int    `short:"n" help:"Number of rows to show" default:"10"`
	Server string `help:"Validate on a diarsplit server instead of locally" placeholder:"URL" env:"DIARSPLIT_SERVER"`
	Token  string `help:"Bearer token for --server" env:"DIARSPLIT_TOKEN"`
}

type rowView struct {
	Index   int    `json:"row" writer:",right,width:5"`
	Start   string `json:"start" writer:",right,width:10"`
	End     string `json:"end" writer:",right,width:10"`
	Speaker string `json:"speaker" writer:",width:30"`
}

// Run implements the preview command.
func (cmd *PreviewCmd) Run(g *Globals) error {
	var (
		stats diarization.Stats
		rows  []diarization.Row
	)
	if cmd.Server != "" {
		cfg, err := loadConfig(g)
		if err != nil {
			return err
		}
		ccfg := cfg.Client
		ccfg.BaseURL = cmd.Server
		if cmd.Token != "" {
			ccfg.Token = cmd.Token
		}
		c, err := client.New(ccfg)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(cmd.CSV)
		if err != nil {
			return err
		}
		resp, err := c.Preview(context.Background(), client.File{Name: filepath.Base(cmd.CSV), Data: data})
		if err != nil {
			return err
		}
		stats, rows = resp.Stats, resp.Rows
		if cmd.Rows >= 0 && len(rows) > cmd.Rows {
			rows = rows[:cmd.Rows]
		}
	} else {
		f, err := os.Open(cmd.CSV)
		if err != nil {
			return err
		}
		defer f.Close()
		table, err := diarization.Parse(f)
		if err != nil {
			return err
		}
		stats, rows = table.Stats(), table.Preview(cmd.Rows)
	}
	return printPreview(g, stats, rows)
}

func printPreview(g *Globals, stats diarization.Stats, rows []diarization.Row) error {
	summary := []kv{
		{"segments", strconv.Itoa(stats.TotalSegments)},
		{"speakers", strconv.Itoa(stats.UniqueSpeakers)},
		{"total duration", fmt.Sprintf("%.2fs", stats.TotalDuration)},
	}
	if err := g.writer.Write(summary, tablewriter.OptHeader()); err != nil {
		return err
	}

	speakers := make([]speakerCount, 0, len(stats.SpeakerBreakdown))
	for _, name := range stats.Speakers {
		speakers = append(speakers, speakerCount{Speaker: name, Clips: stats.SpeakerBreakdown[name]})
	}
	sort.SliceStable(speakers, func(i, j int) bool { return speakers[i].Clips > speakers[j].Clips })
	fmt.Fprintln(g.stdout)
	if err := g.writer.Write(speakers, tablewriter.OptHeader()); err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}
	views := make([]rowView, 0, len(rows))
	for _, r := range rows {
		views = append(views, rowView{
			Index:   r.Index,
			Start:   strconv.FormatFloat(r.Start, 'f', 2, 64),
			End:     strconv.FormatFloat(r.End, 'f', 2, 64),
			Speaker: r.Speaker,
		})
	}
	fmt.Fprintln(g.stdout)
	return g.writer.Write(views, tablewriter.OptHeader())
}
