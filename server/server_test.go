package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/observability"
)

func staticCheck(name string, status observability.HealthStatus) observability.HealthChecker {
	return observability.HealthCheckFunc(func(context.Context) observability.Health {
		return observability.Health{Name: name, Status: status}
	})
}

func newTestServer(t *testing.T, checkers ...observability.HealthChecker) *Server {
	t.Helper()
	cfg := Config{MaxBodySize: "1KB"}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	s := New(cfg, logger.Nop())
	s.ApplyMiddleware(nil)
	s.RegisterDefaultEndpoints("diarsplit", checkers...)
	return s
}

func serve(s *Server, method, path string, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "200MB", cfg.MaxBodySize)
	assert.Equal(t, 30, cfg.ShutdownTimeout)
	assert.Contains(t, cfg.CORS.ExposedHeaders, "X-Request-Id")
	assert.Equal(t, 5, cfg.RateLimit.Burst)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 70000 }},
		{"read timeout", func(c *Config) { c.ReadTimeout = -1 }},
		{"shutdown timeout", func(c *Config) { c.ShutdownTimeout = -1 }},
		{"body size", func(c *Config) { c.MaxBodySize = "lots" }},
		{"rate", func(c *Config) { c.RateLimit.RequestsPerSecond = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []observability.HealthChecker
		wantStatus int
		wantHealth string
	}{
		{"no checkers", nil, http.StatusOK, "up"},
		{"degraded", []observability.HealthChecker{staticCheck("media", observability.HealthStatusDegraded)}, http.StatusOK, "degraded"},
		{"down", []observability.HealthChecker{
			staticCheck("media", observability.HealthStatusUp),
			staticCheck("disk", observability.HealthStatusDown),
		}, http.StatusServiceUnavailable, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(newTestServer(t, tt.checkers...), "GET", "/health", "")
			require.Equal(t, tt.wantStatus, rr.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantHealth, body["status"])
			assert.Equal(t, "diarsplit", body["service"])
			assert.Len(t, body["components"], len(tt.checkers))
		})
	}
}

func TestProbes(t *testing.T) {
	down := newTestServer(t, staticCheck("media", observability.HealthStatusDown))
	assert.Equal(t, http.StatusOK, serve(down, "GET", "/alive", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, "GET", "/ready", "").Code)

	up := newTestServer(t, staticCheck("media", observability.HealthStatusDegraded))
	assert.Equal(t, http.StatusOK, serve(up, "GET", "/ready", "").Code)
}

func TestInfoVersionMetrics(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/info", "/version", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rr := serve(s, "GET", path, "")
			require.Equal(t, http.StatusOK, rr.Code)
			assert.True(t, json.Valid(rr.Body.Bytes()))
		})
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	s := newTestServer(t)

	rr := serve(s, "GET", "/nope", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.ErrCodeNotFound, resp.Error.Code)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(s, "DELETE", "/health", "").Code)
}

func TestMiddlewareApplied(t *testing.T) {
	s := newTestServer(t)
	s.GinEngine().POST("/panic", func(*gin.Context) { panic("boom") })
	s.GinEngine().POST("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rr := serve(s, "GET", "/health", "")
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	assert.Equal(t, http.StatusInternalServerError, serve(s, "POST", "/panic", "").Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(s, "POST", "/echo", strings.Repeat("x", 2048)).Code)
	assert.Equal(t, http.StatusNoContent, serve(s, "POST", "/echo", "ok").Code)
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		retryAfter string
	}{
		{"app error", apperrors.InvalidRange(2, 5, 3), http.StatusBadRequest, ""},
		{"busy", apperrors.ServiceBusy(nil), http.StatusServiceUnavailable, "5"},
		{"plain error", fmt.Errorf("disk on fire"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			RespondWithError(c, tt.err)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.retryAfter, rr.Header().Get("Retry-After"))
		})
	}
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)
	s.GinEngine().POST("/api/v1/split", func(*gin.Context) {})

	routes := s.Routes()
	require.NotEmpty(t, routes)
	assert.Equal(t, "/api/v1/split", routes[0].Path, "API routes come first")
	assert.False(t, routes[0].System)
	for _, r := range routes[1:] {
		assert.True(t, r.System, r.Path)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"github.com/kbukum/diarsplit/api.(*Handler).Split-fm", "Handler.Split"},
		{"github.com/kbukum/diarsplit/server/endpoint.Health.func1", "health"},
		{"main.index", "index"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatHandlerName(tt.in))
		})
	}
}

func TestStartStop(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.Nop())
	s.ApplyMiddleware(nil)
	s.RegisterDefaultEndpoints("diarsplit")

	require.NoError(t, s.Start(context.Background()))
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	resp, err := http.Get("http://" + s.Addr() + "/alive")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
