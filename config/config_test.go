package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type testSection struct {
	Port    int    `mapstructure:"port"`
	APIKey  string `mapstructure:"api_key"`
	MaxSize string `mapstructure:"max_upload_size"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server        testSection `mapstructure:"server"`
	Transcription testSection `mapstructure:"transcription"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	var c ServiceConfig
	c.ApplyDefaults()
	if c.Environment != "development" {
		t.Errorf("expected development, got %q", c.Environment)
	}
	if !c.Debug {
		t.Error("expected debug in development")
	}
	if c.Logging.Format != "console" {
		t.Errorf("expected console logging in development, got %q", c.Logging.Format)
	}

	p := ServiceConfig{Environment: "production"}
	p.ApplyDefaults()
	if p.Debug {
		t.Error("debug must stay off in production")
	}
	if p.Logging.Format != "json" {
		t.Errorf("expected json logging in production, got %q", p.Logging.Format)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "staging"}, "name is required"},
		{"bad env", ServiceConfig{Name: "svc", Environment: "qa"}, "environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
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
	clearEnv(t, "NAME", "ENVIRONMENT", "SERVER_PORT", "SERVER_MAX_UPLOAD_SIZE")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: mediascribe
environment: staging
server:
  port: 9000
  max_upload_size: 25MB
`)

	var cfg testConfig
	if err := LoadConfig("mediascribe", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "mediascribe" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Server.Port != 9000 || cfg.Server.MaxSize != "25MB" {
		t.Errorf("unexpected server section %+v", cfg.Server)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "server:\n  port: 9000\n")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("SERVER_MAX_UPLOAD_SIZE", "1MB")

	var cfg testConfig
	if err := LoadConfig("mediascribe", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected env override 9100, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxSize != "1MB" {
		t.Errorf("expected max_upload_size from env, got %q", cfg.Server.MaxSize)
	}
}

func TestLoadConfig_EnvAlias(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: x\n")
	clearEnv(t, "TRANSCRIPTION_API_KEY")
	t.Setenv("OPENAI_API_KEY", "sk-alias")

	var cfg testConfig
	err := LoadConfig("mediascribe", &cfg, WithConfigFile(path),
		WithEnvAlias("OPENAI_API_KEY", "transcription.api_key"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transcription.APIKey != "sk-alias" {
		t.Errorf("expected alias to set api key, got %q", cfg.Transcription.APIKey)
	}

	t.Setenv("TRANSCRIPTION_API_KEY", "sk-direct")
	var cfg2 testConfig
	_ = LoadConfig("mediascribe", &cfg2, WithConfigFile(path),
		WithEnvAlias("OPENAI_API_KEY", "transcription.api_key"))
	if cfg2.Transcription.APIKey != "sk-direct" {
		t.Errorf("expected conventional variable to win, got %q", cfg2.Transcription.APIKey)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: x\n")
	envPath := writeFile(t, dir, ".env", "TRANSCRIPTION_API_KEY=sk-from-dotenv\n")
	clearEnv(t, "TRANSCRIPTION_API_KEY")

	var cfg testConfig
	if err := LoadConfig("mediascribe", &cfg, WithConfigFile(path), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transcription.APIKey != "sk-from-dotenv" {
		t.Errorf("expected key from .env, got %q", cfg.Transcription.APIKey)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("mediascribe", &cfg, WithConfigFile("/nonexistent/path.yml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "server: [unterminated\n")
	var cfg testConfig
	if err := LoadConfig("mediascribe", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/mediascribe/config.yml": true,
		"./.env":                       true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("mediascribe", LoaderConfig{})
	if files.ConfigFile != "./cmd/mediascribe/config.yml" {
		t.Errorf("expected config file at ./cmd/mediascribe/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected env file ./.env, got %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("mediascribe", LoaderConfig{ConfigFile: "/x.yml", EnvFile: "/y.env"})
	if explicit.ConfigFile != "/x.yml" || explicit.EnvFile != "/y.env" {
		t.Errorf("explicit paths must win, got %+v", explicit)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("SERVER_MAX_UPLOAD_SIZE")
	for _, want := range []string{"server_max_upload_size", "server.max_upload_size", "server.max.upload_size"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if got := generateEnvKeyVariants("PORT"); len(got) != 1 || got[0] != "port" {
		t.Errorf("unexpected single-part variants %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvAlias("A", "b.c")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("options not applied: %+v", lc)
	}
	if lc.EnvAliases["A"] != "b.c" {
		t.Errorf("expected alias, got %v", lc.EnvAliases)
	}
}
