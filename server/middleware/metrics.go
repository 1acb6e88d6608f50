package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/diarsplit/observability"
)

// RouteFunc maps a request to a low-cardinality route label.
type RouteFunc func(r *http.Request) string

// Metrics records request count, duration and in-flight gauge. A nil m
// disables recording.
func Metrics(m *observability.Metrics, route RouteFunc) Middleware {
	if route == nil {
		route = func(r *http.Request) string { return r.URL.Path }
	}
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()
			m.RecordRequestStart(ctx)
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			label := route(r)
			if sw.status == http.StatusNotFound {
				label = "unmatched"
			}
			m.RecordRequestEnd(ctx, r.Method, label, sw.status, time.Since(start))
		})
	}
}
