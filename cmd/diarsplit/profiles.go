package main

import (
	"fmt"
	"strings"

	tablewriter "github.com/djthorpe/go-tablewriter"

	"github.com/kbukum/diarsplit/media"
)

// ProfilesCmd lists what the local binary can produce.
type ProfilesCmd struct{}

type profileView struct {
	Name      string `json:"profile" writer:",width:8"`
	Extension string `json:"extension" writer:",width:10"`
	Video     bool   `json:"video"`
}

// Run implements the profiles command.
func (cmd *ProfilesCmd) Run(g *Globals) error {
	var views []profileView
	for _, name := range media.ProfileNames() {
		p, err := media.LookupProfile(name)
		if err != nil {
			return err
		}
		views = append(views, profileView{Name: p.Name, Extension: p.Extension, Video: p.Video})
	}
	if err := g.writer.Write(views, tablewriter.OptHeader()); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout, "\nbackends: %s\n", strings.Join(append([]string{media.BackendAuto}, media.Backends()...), ", "))
	fmt.Fprintf(g.stdout, "media extensions: %s\n", strings.Join(media.Extensions(), " "))
	return nil
}
