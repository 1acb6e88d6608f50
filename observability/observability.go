package observability

import (
	"context"
	stderrors "errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Providers holds the exporters started by Init.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Init starts the tracer and meter providers when cfg.Enabled is set. A
// disabled config returns empty Providers whose Shutdown is a no-op.
func Init(ctx context.Context, cfg *Config, service, version, environment string) (*Providers, error) {
	p := &Providers{}
	if !cfg.Enabled {
		return p, nil
	}

	tp, err := InitTracer(ctx, cfg.TracerConfig(service, version, environment))
	if err != nil {
		return nil, err
	}
	p.Tracer = tp

	mc := cfg.MeterConfig(service, version, environment)
	mp, err := InitMeter(ctx, &mc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	p.Meter = mp
	return p, nil
}

// Shutdown flushes and stops every started provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
