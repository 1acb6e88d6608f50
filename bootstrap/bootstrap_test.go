package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/diarsplit/config"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/observability"
)

type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, out *bytes.Buffer) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"),
		WithLogger(logger.Nop()),
		WithOutput(out),
		WithGracefulTimeout(time.Second),
	)
	require.NoError(t, err)
	return app
}

func checker(name string, status observability.HealthStatus, msg string) observability.HealthChecker {
	return observability.HealthCheckFunc(func(context.Context) observability.Health {
		return observability.Health{Name: name, Status: status, Message: msg}
	})
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	assert.Equal(t, "test-svc", app.Name)
	assert.Equal(t, "1.0.0", app.Version)
	assert.Equal(t, "test-svc", app.Cfg.Name)
	assert.NotNil(t, app.Summary)
	assert.True(t, app.Cfg.Debug, "development defaults to debug")
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.Nop()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}

func TestRunTask_Lifecycle(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})

	var order []string
	app.OnStart(func(context.Context) error { order = append(order, "start"); return nil })
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		assert.Equal(t, "test-svc", a.Cfg.Name)
		order = append(order, "configure")
		return nil
	})
	app.OnReady(func(context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(context.Context) error { order = append(order, "stop"); return nil })

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "configure", "ready", "task", "stop"}, order)
}

func TestRunTask_ErrorsPropagate(t *testing.T) {
	taskErr := errors.New("task failed")
	stopErr := errors.New("stop failed")

	t.Run("task error wins", func(t *testing.T) {
		app := newTestApp(t, &bytes.Buffer{})
		app.OnStop(func(context.Context) error { return stopErr })
		err := app.RunTask(context.Background(), func(context.Context) error { return taskErr })
		assert.ErrorIs(t, err, taskErr)
	})

	t.Run("stop error reported", func(t *testing.T) {
		app := newTestApp(t, &bytes.Buffer{})
		app.OnStop(func(context.Context) error { return stopErr })
		err := app.RunTask(context.Background(), func(context.Context) error { return nil })
		assert.ErrorIs(t, err, stopErr)
	})

	t.Run("configure failure stops", func(t *testing.T) {
		app := newTestApp(t, &bytes.Buffer{})
		stopped := false
		app.OnConfigure(func(context.Context, *App[*testConfig]) error { return taskErr })
		app.OnStop(func(context.Context) error { stopped = true; return nil })
		ran := false
		err := app.RunTask(context.Background(), func(context.Context) error { ran = true; return nil })
		assert.ErrorIs(t, err, taskErr)
		assert.False(t, ran)
		assert.True(t, stopped)
	})
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	stopped := make(chan struct{})
	app.OnStop(func(context.Context) error { close(stopped); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	<-stopped
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	app.AddHealthChecker(checker("wav", observability.HealthStatusUp, ""))
	require.NoError(t, app.ReadyCheck(context.Background()))

	app.AddHealthChecker(checker("ffmpeg", observability.HealthStatusDown, "not found"))
	err := app.ReadyCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg(not found)")
}

func TestDisplaySummary(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)
	app.AddHealthChecker(checker("wav", observability.HealthStatusUp, ""))
	app.Summary.TrackInfrastructure("http", "server", "listening on 127.0.0.1:8080")
	app.Summary.TrackRoute("POST", "/api/v1/split", "api.(*Handler).Split")
	app.Summary.SetStartupDuration(250 * time.Millisecond)

	require.NoError(t, app.DisplaySummary(context.Background()))
	s := out.String()
	assert.Contains(t, s, "test-svc 1.0.0 started in 0.25s")
	assert.Contains(t, s, "127.0.0.1:8080")
	assert.Contains(t, s, "/api/v1/split")
	assert.Contains(t, s, "Routes (1)")
	assert.Contains(t, s, "Health: up")
	assert.Len(t, app.Summary.Routes(), 1)
}
