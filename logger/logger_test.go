package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatJSON}, "mediascribe", &buf)
	l.Info("hello", Fields("bytes", 42))

	m := decodeLine(t, &buf)
	if m["message"] != "hello" {
		t.Errorf("expected message hello, got %v", m["message"])
	}
	if m["service"] != "mediascribe" {
		t.Errorf("expected service field, got %v", m["service"])
	}
	if m["bytes"] != float64(42) {
		t.Errorf("expected bytes=42, got %v", m["bytes"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: FormatJSON}, "svc", &buf)
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "invalid-level", Format: FormatJSON}, "test", &buf)
	l.Info("still logs")
	if !strings.Contains(buf.String(), "still logs") {
		t.Error("expected invalid level to fall back to info")
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: FormatConsole, NoColor: true}, "svc", &buf)
	l.Error("broken")
	out := buf.String()
	if !strings.Contains(out, "[ERR]") {
		t.Errorf("expected [ERR] tag in %q", out)
	}
	if !strings.Contains(out, "broken") {
		t.Errorf("expected message in %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatJSON}, "test", &buf)
	cl := l.WithComponent("ffmpeg")
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
	cl.Info("x")
	if decodeLine(t, &buf)[FieldComponent] != "ffmpeg" {
		t.Error("expected component field")
	}
}

func TestWithContext_RequestAndTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatJSON}, "test", &buf)

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = ContextWithRequestID(ctx, "req-1")

	l.WithContext(ctx).Info("x")
	m := decodeLine(t, &buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id, got %v", m[FieldRequestID])
	}
	if m[FieldTraceID] != traceID.String() {
		t.Errorf("expected trace_id, got %v", m[FieldTraceID])
	}
	if m[FieldSpanID] != spanID.String() {
		t.Errorf("expected span_id, got %v", m[FieldSpanID])
	}
}

func TestWithContext_Empty(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatJSON}, "test", &buf)
	l.WithContext(context.Background()).Info("x")
	m := decodeLine(t, &buf)
	if _, ok := m[FieldRequestID]; ok {
		t.Error("did not expect request_id")
	}
	if _, ok := m[FieldTraceID]; ok {
		t.Error("did not expect trace_id")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatJSON}, "test", &buf)
	l.WithFields(map[string]interface{}{"key": "value"}).WithError(fmt.Errorf("oops")).Info("x")
	m := decodeLine(t, &buf)
	if m["key"] != "value" {
		t.Errorf("expected key=value, got %v", m["key"])
	}
	if m["error"] != "oops" {
		t.Errorf("expected error=oops, got %v", m["error"])
	}
}

func TestInitSetsGlobal(t *testing.T) {
	l := Init(Config{Level: "info", Format: FormatConsole, Output: "stdout"}, "svc")
	if GetGlobalLogger() != l {
		t.Error("expected Init to set the global logger")
	}
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	WithComponent("x").Info("component msg")
	WithContext(context.Background()).Info("ctx msg")
}

func TestNop(t *testing.T) {
	Nop().Error("nothing")
}

func TestConfigApplyDefaultsFor(t *testing.T) {
	tests := []struct {
		env    string
		format string
	}{
		{"", FormatConsole},
		{"development", FormatConsole},
		{"production", FormatJSON},
		{"staging", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaultsFor(tt.env)
			if cfg.Format != tt.format {
				t.Errorf("expected format %q, got %q", tt.format, cfg.Format)
			}
			if cfg.Level != "info" || cfg.Output != "stdout" || !cfg.Timestamp {
				t.Errorf("unexpected defaults: %+v", cfg)
			}
		})
	}

	cfg := Config{Format: FormatJSON}
	cfg.ApplyDefaultsFor("development")
	if cfg.Format != FormatJSON {
		t.Error("explicit format must not be overridden")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
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

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
}
