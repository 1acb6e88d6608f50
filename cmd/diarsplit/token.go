package main

import (
	"fmt"
	"time"

	"github.com/kbukum/diarsplit/auth"
)

// TokenCmd issues a bearer token signed with the configured secret.
type TokenCmd struct {
	Subject string        `arg:"" help:"Client the token is issued to"`
	TTL     time.Duration `name:"ttl" help:"Token lifetime (default: auth.token_ttl)"`
}

// Run implements the token command.
func (cmd *TokenCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	svc, err := auth.NewService(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("%w (set auth.secret or DIARSPLIT_AUTH_SECRET)", err)
	}
	token, err := svc.Generate(cmd.Subject, cmd.TTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(g.stdout, token)
	return nil
}
