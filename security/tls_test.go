package security

import (
	"crypto/tls"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/mediascribe/security/tlstest"
)

func TestTLSConfig_Disabled(t *testing.T) {
	for name, cfg := range map[string]*TLSConfig{"nil": nil, "zero": {}} {
		t.Run(name, func(t *testing.T) {
			if cfg.Enabled() {
				t.Error("expected disabled")
			}
			tc, err := cfg.Build()
			if err != nil || tc != nil {
				t.Errorf("expected nil config, got %v, %v", tc, err)
			}
		})
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TLSConfig
		wantErr string
	}{
		{"empty", TLSConfig{}, ""},
		{"cert without key", TLSConfig{CertFile: "c.pem"}, "set together"},
		{"key without cert", TLSConfig{KeyFile: "k.pem"}, "set together"},
		{"tls13", TLSConfig{MinVersion: "1.3"}, ""},
		{"tls10", TLSConfig{MinVersion: "1.0"}, "min_version"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
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

func TestTLSConfig_Build(t *testing.T) {
	certs := tlstest.Generate(t)

	t.Run("full", func(t *testing.T) {
		cfg := &TLSConfig{
			CAFile:     certs.CAFile,
			CertFile:   certs.CertFile,
			KeyFile:    certs.KeyFile,
			ServerName: "localhost",
			MinVersion: "1.3",
		}
		tc, err := cfg.Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if tc.RootCAs == nil {
			t.Error("expected custom roots")
		}
		if len(tc.Certificates) != 1 {
			t.Errorf("expected client certificate, got %d", len(tc.Certificates))
		}
		if tc.ServerName != "localhost" || tc.MinVersion != tls.VersionTLS13 {
			t.Errorf("unexpected config: server_name=%q min=%x", tc.ServerName, tc.MinVersion)
		}
	})

	t.Run("skip verify defaults to tls12", func(t *testing.T) {
		tc, err := (&TLSConfig{SkipVerify: true}).Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if !tc.InsecureSkipVerify || tc.MinVersion != tls.VersionTLS12 {
			t.Errorf("unexpected config %+v", tc)
		}
	})

	errCases := []struct {
		name string
		cfg  TLSConfig
	}{
		{"missing ca", TLSConfig{CAFile: "/nonexistent/ca.pem"}},
		{"invalid ca", TLSConfig{CAFile: tlstest.WriteInvalidPEM(t)}},
		{"missing key pair", TLSConfig{CertFile: "/nonexistent/c.pem", KeyFile: "/nonexistent/k.pem"}},
		{"mismatched pair", TLSConfig{CertFile: certs.CertFile}},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.cfg.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTLSConfig_Transport(t *testing.T) {
	srv, certs := tlstest.NewServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), true)

	cfg := &TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}
	transport, err := cfg.Transport()
	if err != nil {
		t.Fatalf("transport: %v", err)
	}
	resp, err := (&http.Client{Transport: transport}).Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	plain, err := (&TLSConfig{}).Transport()
	if err != nil {
		t.Fatalf("default transport: %v", err)
	}
	if _, err := (&http.Client{Transport: plain}).Get(srv.URL); err == nil {
		t.Error("expected verification failure with system roots")
	}
}
