package transcription

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/mediascribe/errors"
	"github.com/kbukum/mediascribe/logger"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Transcribe(context.Context, Request) (*Response, error) {
	return &Response{Text: s.name}, nil
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", func(cfg Config, _ *logger.Logger) (Provider, error) {
		return stubProvider{name: "b:" + cfg.Model}, nil
	})
	reg.Register("a", func(Config, *logger.Logger) (Provider, error) {
		return stubProvider{name: "a"}, nil
	})

	if got := reg.List(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List() = %v, want [a b]", got)
	}

	p, err := reg.Create(Config{Backend: "b", Model: "m"}, logger.Nop())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.Name() != "b:m" {
		t.Errorf("Name() = %q, want b:m", p.Name())
	}

	_, err = reg.Create(Config{Backend: "missing"}, logger.Nop())
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorCode
	}{
		{http.StatusUnauthorized, errors.ErrCodeUpstreamAuth},
		{http.StatusForbidden, errors.ErrCodeUpstreamAuth},
		{http.StatusTooManyRequests, errors.ErrCodeUpstreamUnavailable},
		{http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
		{http.StatusInternalServerError, errors.ErrCodeUpstreamFailed},
		{http.StatusBadGateway, errors.ErrCodeUpstreamFailed},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := ClassifyStatus(tt.status, nil)
			if err.Code != tt.want {
				t.Errorf("ClassifyStatus(%d) = %s, want %s", tt.status, err.Code, tt.want)
			}
			if err.Details[logger.FieldUpstreamStatus] != tt.status {
				t.Errorf("missing upstream status detail: %v", err.Details)
			}
			if err.Cause == nil {
				t.Error("expected a cause")
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Backend != BackendWhisper || cfg.Model != DefaultModel {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	cfg.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.Backend = "deepgram"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfig_APIKeyRequirement(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"hosted default without key", func(c *Config) {}, "api_key is required for api.openai.com"},
		{"hosted explicit host", func(c *Config) { c.BaseURL = "https://API.openai.com/v1/" }, "api_key is required"},
		{"hosted with key", func(c *Config) { c.APIKey = "sk-test" }, ""},
		{"self-hosted without key", func(c *Config) { c.BaseURL = "http://whisper.internal:9000/v1" }, ""},
		{"azure without key", func(c *Config) {
			c.Backend = BackendOpenAI
			c.BaseURL = "http://whisper.internal:9000/v1"
			c.Azure.Endpoint = "https://example.openai.azure.com"
		}, "api_key is required for azure openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	if ResolveModel("", "whisper-1") != "whisper-1" || ResolveModel("x", "whisper-1") != "x" {
		t.Error("ResolveModel")
	}
	if ResolveFileName("") != "audio" || ResolveFileName("a.mp3") != "a.mp3" {
		t.Error("ResolveFileName")
	}
}
