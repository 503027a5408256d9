package httpclient

import (
	"testing"
	"time"

	"github.com/kbukum/mediascribe/security"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.MaxResponseSize != 10<<20 {
		t.Errorf("expected default max response size 10MB, got %d", cfg.MaxResponseSize)
	}
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{Timeout: 10 * time.Second, MaxResponseSize: 512}
	cfg.ApplyDefaults()
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
	if cfg.MaxResponseSize != 512 {
		t.Errorf("expected max response size 512, got %d", cfg.MaxResponseSize)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Timeout: 10 * time.Second, MaxResponseSize: 1}, false},
		{"negative timeout", Config{Timeout: -1, MaxResponseSize: 1}, true},
		{"zero response size", Config{Timeout: time.Second}, true},
		{"half client cert", Config{Timeout: time.Second, MaxResponseSize: 1, TLS: &security.TLSConfig{KeyFile: "k.pem"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
