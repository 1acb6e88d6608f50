package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Batch         struct {
		TempDir string `mapstructure:"temp_dir"`
		Profile string `mapstructure:"profile"`
	} `mapstructure:"batch"`
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	defaulted bool
}

func (c *testConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.defaulted = true
}

func (c *testConfig) Validate() error { return c.ServiceConfig.Validate() }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: diarsplit
environment: staging
batch:
  temp_dir: /scratch
  profile: video
server:
  port: 9000
`)

	var cfg testConfig
	if err := LoadConfig("diarsplit", &cfg, WithConfigFile(path), WithEnvPrefix("DSTEST_NONE_")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "diarsplit" {
		t.Errorf("expected name 'diarsplit', got %q", cfg.Name)
	}
	if cfg.Batch.TempDir != "/scratch" || cfg.Batch.Profile != "video" {
		t.Errorf("unexpected batch section %+v", cfg.Batch)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if !cfg.defaulted {
		t.Error("expected ApplyDefaults to run")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: diarsplit\nbatch:\n  temp_dir: /from-file\n")

	t.Setenv("DSTEST_BATCH_TEMP_DIR", "/from-env")
	t.Setenv("DSTEST_SERVER_PORT", "7000")

	var cfg testConfig
	if err := LoadConfig("diarsplit", &cfg, WithConfigFile(path), WithEnvPrefix("DSTEST_")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Batch.TempDir != "/from-env" {
		t.Errorf("expected env override, got %q", cfg.Batch.TempDir)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigValidationError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "environment: qa\n")

	var cfg testConfig
	err := LoadConfig("diarsplit", &cfg, WithConfigFile(path), WithEnvPrefix("DSTEST_NONE_"))
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	t.Setenv("DSTEST_NAME", "from-env")
	err := LoadConfig("diarsplit", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("DSTEST_"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("expected name from env, got %q", cfg.Name)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/diarsplit/config.yml": true,
		"./.env":                     true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("diarsplit", LoaderConfig{})
	if files.ConfigFile != "./cmd/diarsplit/config.yml" {
		t.Errorf("expected config file at ./cmd/diarsplit/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected env file ./.env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	files := resolver.ResolveFiles("diarsplit", LoaderConfig{ConfigFile: "/etc/ds.yml", EnvFile: "/etc/ds.env"})
	if files.ConfigFile != "/etc/ds.yml" || files.EnvFile != "/etc/ds.env" {
		t.Errorf("expected explicit paths, got %+v", files)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("BATCH_TEMP_DIR")
	for _, want := range []string{"batch_temp_dir", "batch.temp.dir", "batch.temp_dir", "batch_temp.dir"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if single := envKeyVariants("NAME"); len(single) != 1 || single[0] != "name" {
		t.Errorf("expected [name], got %v", single)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := envPrefix("diar-split"); got != "DIAR_SPLIT_" {
		t.Errorf("expected DIAR_SPLIT_, got %q", got)
	}
}
