// Package server provides the HTTP server for the diarsplit API: a Gin
// engine mounted on a ServeMux, served over HTTP/1.1 and h2c.
//
// # Middleware
//
// Server-level middleware (server/middleware) wraps every request:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id propagation into logs
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: upload cap, 200MB by default
//   - RequestLogger: method, path, status and duration
//   - Metrics: OpenTelemetry request counters and histograms
//
// Route-group middleware for /api: Auth (bearer tokens) and RateLimit
// (per-client token buckets).
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): /health, /alive, /ready, /info,
// /version and /metrics.
package server
