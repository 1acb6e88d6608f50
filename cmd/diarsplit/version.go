package main

import (
	"fmt"
	"runtime"

	tablewriter "github.com/djthorpe/go-tablewriter"

	"github.com/kbukum/diarsplit/version"
)

// VersionCmd prints build information.
type VersionCmd struct {
	Deps bool `help:"Also list the modules compiled into the binary"`
}

// Run implements the version command.
func (cmd *VersionCmd) Run(g *Globals) error {
	info := version.Get()
	metadata := []kv{{"version", version.Short()}}
	if info.GitBranch != "" {
		metadata = append(metadata, kv{"branch", info.GitBranch})
	}
	if info.BuildTime != "" {
		metadata = append(metadata, kv{"build time", info.BuildTime})
	}
	metadata = append(metadata,
		kv{"go version", info.GoVersion},
		kv{"os", runtime.GOOS + "/" + runtime.GOARCH},
	)
	if err := g.writer.Write(metadata, tablewriter.OptHeader()); err != nil {
		return err
	}

	if !cmd.Deps {
		return nil
	}
	deps := version.Dependencies()
	if len(deps) == 0 {
		fmt.Fprintln(g.stdout, "\nno module information embedded")
		return nil
	}
	fmt.Fprintln(g.stdout)
	return g.writer.Write(deps, tablewriter.OptHeader())
}
