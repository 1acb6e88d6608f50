// Command diarsplit splits media recordings into per-speaker clips from a
// diarization table, locally or through a running diarsplit server.
package main

import (
	"io"
	"os"

	kong "github.com/alecthomas/kong"
	tablewriter "github.com/djthorpe/go-tablewriter"
)

const serviceName = "diarsplit"

// Globals are the flags shared by every command.
type Globals struct {
	Config string `name:"config" short:"c" help:"Config file (default: ./cmd/diarsplit/config.yml or ./config.yml)" type:"path"`
	Debug  bool   `name:"debug" help:"Enable debug logging"`

	stdout io.Writer
	stderr io.Writer
	writer *tablewriter.Writer
}

// CLI is the command tree.
type CLI struct {
	Globals

	Split    SplitCmd    `cmd:"" help:"Split a recording by speaker into a zip archive"`
	Preview  PreviewCmd  `cmd:"" help:"Validate a diarization CSV and show its statistics"`
	Profiles ProfilesCmd `cmd:"" help:"List output profiles and media backends"`
	Serve    ServeCmd    `cmd:"" help:"Run the HTTP service"`
	Token    TokenCmd    `cmd:"" help:"Issue a bearer token for the HTTP API"`
	Version  VersionCmd  `cmd:"" help:"Print build information"`
}

func main() {
	cli := CLI{}
	parser, err := newParser(&cli, os.Stdout, os.Stderr)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

func newParser(cli *CLI, stdout, stderr io.Writer) (*kong.Kong, error) {
	cli.Globals.stdout = stdout
	cli.Globals.stderr = stderr
	cli.Globals.writer = tablewriter.New(stdout, tablewriter.OptOutputText())
	return kong.New(cli,
		kong.Name(serviceName),
		kong.Description("split media recordings into per-speaker clips from a diarization table"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
	)
}
