package batch

import (
	"context"

	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/observability"
)

// CheckHealth reports whether the media backends can serve requests. A
// missing ffmpeg degrades the service since WAV input still works.
func (p *Processor) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{
		Name:    "media",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{},
	}
	for _, name := range media.Backends() {
		backend, err := media.NewBackend(name, p.cfg.backendConfig())
		if err != nil || !backend.IsAvailable(ctx) {
			h.Details[name] = "unavailable"
			if h.Status == observability.HealthStatusUp {
				h.Status = observability.HealthStatusDegraded
				h.Message = name + " backend unavailable"
			}
			continue
		}
		h.Details[name] = "available"
	}
	return h
}
