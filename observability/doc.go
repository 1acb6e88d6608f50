// Package observability provides OpenTelemetry tracing and metrics for
// diarsplit batches and the HTTP service.
//
// Exporters are optional. Without Init the global otel API is a no-op, so
// instrumented code always records spans and metrics unconditionally:
//
//	providers, err := observability.Init(ctx, &cfg.Observability, "diarsplit", version, env)
//	defer providers.Shutdown(ctx)
//
//	err = observability.Track(ctx, observability.SpanBatchArchive, func(ctx context.Context) error {
//	    ...
//	})
//
// Health Checks:
//
//	health := observability.NewServiceHealth("diarsplit", "1.0.0")
//	health.AddComponent(checker.CheckHealth(ctx))
package observability
