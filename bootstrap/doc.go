// Package bootstrap runs the diarsplit entry points with a uniform lifecycle.
//
// An App owns the typed configuration, the logger and the startup summary.
// Long-running commands call Run, which blocks until SIGINT or SIGTERM;
// one-shot commands call RunTask, which cancels the task context on the same
// signals. Hooks let callers attach setup and teardown without bootstrap
// knowing about servers or exporters:
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return srv.Start(ctx)
//	})
//	app.OnStop(srv.Stop)
//	err = app.Run(ctx)
package bootstrap
