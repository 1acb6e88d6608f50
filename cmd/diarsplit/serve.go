package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/diarsplit/api"
	"github.com/kbukum/diarsplit/auth"
	"github.com/kbukum/diarsplit/batch"
	"github.com/kbukum/diarsplit/bootstrap"
	"github.com/kbukum/diarsplit/observability"
	"github.com/kbukum/diarsplit/server"
	"github.com/kbukum/diarsplit/server/middleware"
	"github.com/kbukum/diarsplit/util"
)

// ServeCmd runs the HTTP service until SIGINT or SIGTERM.
type ServeCmd struct {
	Host string `help:"Override server.host"`
	Port int    `help:"Override server.port"`
}

// Run implements the serve command.
func (cmd *ServeCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if cmd.Host != "" {
		cfg.Server.Host = cmd.Host
	}
	if cmd.Port != 0 {
		cfg.Server.Port = cmd.Port
	}

	app, err := newApp(g, cfg)
	if err != nil {
		return err
	}
	app.OnConfigure(startService)
	app.OnReady(func(ctx context.Context) error {
		return app.DisplaySummary(ctx)
	})
	return app.Run(context.Background())
}

// startService wires and starts the telemetry exporters and HTTP server,
// registering their shutdown with the app.
func startService(ctx context.Context, app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg

	providers, err := observability.Init(ctx, &cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	if cfg.Observability.Enabled {
		app.Summary.TrackInfrastructure("telemetry", "otlp/http", cfg.Observability.Endpoint)
	}

	srv, err := buildServer(app)
	if err != nil {
		_ = providers.Shutdown(ctx)
		return err
	}
	if err := srv.Start(ctx); err != nil {
		_ = providers.Shutdown(ctx)
		return err
	}
	app.Summary.TrackInfrastructure("http", "server", "listening on "+srv.Addr())
	app.OnStop(srv.Stop, providers.Shutdown)
	return nil
}

// buildServer assembles the processor, middleware and routes without
// binding a port.
func buildServer(app *bootstrap.App[*AppConfig]) (*server.Server, error) {
	cfg := app.Cfg

	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	proc, err := batch.NewProcessor(cfg.Batch, batch.WithLogger(app.Logger), batch.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}
	app.AddHealthChecker(proc)

	srvCfg := cfg.Server
	srvCfg.CORS.ExposedHeaders = append(append([]string{}, srvCfg.CORS.ExposedHeaders...), api.ResponseHeaders...)
	srv := server.New(srvCfg, app.Logger)
	srv.ApplyMiddleware(metrics)
	srv.RegisterDefaultEndpoints(cfg.Name, proc)

	var mws []gin.HandlerFunc
	if cfg.Auth.Enabled {
		tokens, err := auth.NewService(&cfg.Auth)
		if err != nil {
			return nil, err
		}
		mws = append(mws, middleware.Auth(tokens))
		app.Summary.TrackInfrastructure("auth", "jwt "+string(cfg.Auth.Method),
			"secret "+util.MaskSecret(cfg.Auth.Secret, 2))
	}
	if cfg.Server.RateLimit.Enabled {
		mws = append(mws, middleware.RateLimit(cfg.Server.RateLimit))
	}

	h, err := api.NewHandler(proc, cfg.API, app.Logger)
	if err != nil {
		return nil, err
	}
	h.Register(srv.GinEngine(), mws...)

	for _, r := range srv.Routes() {
		app.Summary.TrackRoute(r.Method, r.Path, r.Handler)
	}
	return srv, nil
}
