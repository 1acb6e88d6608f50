package main

import (
	"fmt"
	"os"

	"github.com/kbukum/diarsplit/api"
	"github.com/kbukum/diarsplit/auth"
	"github.com/kbukum/diarsplit/batch"
	"github.com/kbukum/diarsplit/bootstrap"
	"github.com/kbukum/diarsplit/client"
	"github.com/kbukum/diarsplit/config"
	"github.com/kbukum/diarsplit/observability"
	"github.com/kbukum/diarsplit/server"
	"github.com/kbukum/diarsplit/version"
)

// AppConfig is the diarsplit configuration file.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Batch         batch.Config         `yaml:"batch" mapstructure:"batch"`
	API           api.Config           `yaml:"api" mapstructure:"api"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	// Client holds defaults for commands that call a remote server.
	Client client.Config `yaml:"client" mapstructure:"client"`
}

// ApplyDefaults sets defaults on every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Batch.ApplyDefaults()
	c.API.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Client.ApplyDefaults()
}

// Validate checks every section. The client section is checked when used.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

func loadConfig(g *Globals) (*AppConfig, error) {
	var opts []config.LoaderOption
	if g.Config != "" {
		if _, err := os.Stat(g.Config); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		opts = append(opts, config.WithConfigFile(g.Config))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if g.Debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newApp(g *Globals, cfg *AppConfig) (*bootstrap.App[*AppConfig], error) {
	return bootstrap.NewApp(cfg, bootstrap.WithOutput(g.stdout))
}
