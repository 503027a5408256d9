package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mediascribe/component"
	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/media"
	"github.com/kbukum/mediascribe/transcriber"
	"github.com/kbukum/mediascribe/transcription"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTranscriber struct {
	started chan struct{}
	release chan struct{}
	text    string
}

func (s *stubTranscriber) Transcribe(_ context.Context, up transcriber.Upload) (*transcriber.Result, error) {
	if _, err := io.Copy(io.Discard, up.Body); err != nil {
		return nil, err
	}
	if s.started != nil {
		s.started <- struct{}{}
		<-s.release
	}
	return &transcriber.Result{Text: s.text}, nil
}

func testConfig() Config {
	cfg := Config{Host: "127.0.0.1", MaxConcurrent: 1, QueueTimeout: 20 * time.Millisecond}
	cfg.ApplyDefaults()
	cfg.Port = 0
	return cfg
}

func newTestServer(svc *stubTranscriber, cfg Config) *Server {
	s := New(cfg, logger.Nop())
	s.ApplyMiddleware()
	s.RegisterRoutes("mediascribe", svc, func(context.Context) []component.Health { return nil })
	return s
}

func uploadRequest(t *testing.T, data string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "talk.wav")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte(data))
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.MaxUploadSize != "25MB" || cfg.UploadLimit() != 25*1024*1024 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.QueueTimeout != 30*time.Second || cfg.MaxConcurrent < 1 {
		t.Errorf("unexpected concurrency defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 {
		t.Error("CORS lists must stay empty while disabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"bad size", func(c *Config) { c.MaxUploadSize = "lots" }},
		{"negative timeout", func(c *Config) { c.ReadTimeout = -time.Second }},
		{"no slots", func(c *Config) { c.MaxConcurrent = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHandler_Routes(t *testing.T) {
	s := newTestServer(&stubTranscriber{text: "hi"}, testConfig())
	h := s.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, "RIFF"))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"transcription":"hi"`) {
		t.Fatalf("unexpected transcribe response %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id header from server middleware")
	}

	for path, want := range map[string]int{
		"/health":  http.StatusOK,
		"/ready":   http.StatusOK,
		"/version": http.StatusOK,
		"/nope":    http.StatusNotFound,
	} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rr.Code != want {
			t.Errorf("GET %s = %d, want %d", path, rr.Code, want)
		}
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/transcribe", http.NoBody))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /transcribe = %d, want 405", rr.Code)
	}
}

type recordingExtractor struct{ calls int }

func (e *recordingExtractor) Extract(_ context.Context, src io.Reader, _ media.Source) (*media.ExtractedAudio, error) {
	e.calls++
	if _, err := io.Copy(io.Discard, src); err != nil {
		return nil, err
	}
	wav, err := media.LookupFormat("wav")
	if err != nil {
		return nil, err
	}
	audio := "RIFF-pcm"
	return &media.ExtractedAudio{Audio: strings.NewReader(audio), Size: int64(len(audio)), Format: wav}, nil
}

type recordingProvider struct {
	calls int
	got   transcription.Request
	audio string
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Transcribe(_ context.Context, req transcription.Request) (*transcription.Response, error) {
	p.calls++
	p.got = req
	b, err := io.ReadAll(req.Audio)
	if err != nil {
		return nil, err
	}
	p.audio = string(b)
	return &transcription.Response{Text: "hello world", Model: req.Model}, nil
}

func fileUpload(t *testing.T, filename, contentType, data string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	fw, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte(data))
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandler_TranscriptionPipeline(t *testing.T) {
	tests := []struct {
		name           string
		filename       string
		contentType    string
		wantStatus     int
		wantBody       string
		wantExtracts   int
		wantTranscribe int
		wantAudio      string
	}{
		{
			name:           "video is extracted then transcribed",
			filename:       "clip.mp4",
			contentType:    "video/mp4",
			wantStatus:     http.StatusOK,
			wantBody:       `{"transcription":"hello world","success":true}`,
			wantExtracts:   1,
			wantTranscribe: 1,
			wantAudio:      "RIFF-pcm",
		},
		{
			name:           "audio passes through",
			filename:       "talk.mp3",
			contentType:    "audio/mpeg",
			wantStatus:     http.StatusOK,
			wantBody:       `{"transcription":"hello world","success":true}`,
			wantTranscribe: 1,
			wantAudio:      "ID3-bytes",
		},
		{
			name:        "text file is refused without touching either gateway",
			filename:    "notes.txt",
			contentType: "text/plain",
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"success":false,"error":"unsupported format"}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			extractor := &recordingExtractor{}
			provider := &recordingProvider{}
			svc := transcriber.New(media.NewClassifier(media.ClassifierConfig{}), extractor, provider)

			s := New(testConfig(), logger.Nop())
			s.ApplyMiddleware()
			s.RegisterRoutes("mediascribe", svc, func(context.Context) []component.Health { return nil })

			data := "ID3-bytes"
			if tc.contentType == "video/mp4" {
				data = "ftyp-video"
			}
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, fileUpload(t, tc.filename, tc.contentType, data))

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tc.wantStatus, rr.Body.String())
			}
			if got := strings.TrimSpace(rr.Body.String()); got != tc.wantBody {
				t.Errorf("body = %s, want %s", got, tc.wantBody)
			}
			if extractor.calls != tc.wantExtracts || provider.calls != tc.wantTranscribe {
				t.Errorf("gateway calls: extract=%d transcribe=%d, want %d %d",
					extractor.calls, provider.calls, tc.wantExtracts, tc.wantTranscribe)
			}
			if provider.audio != tc.wantAudio {
				t.Errorf("provider received %q, want %q", provider.audio, tc.wantAudio)
			}
			if tc.wantTranscribe > 0 && provider.got.Model != transcription.DefaultModel {
				t.Errorf("model = %q, want default", provider.got.Model)
			}
		})
	}
}

func TestHandler_UploadCap(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadSize = "1KB"
	h := newTestServer(&stubTranscriber{}, cfg).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, strings.Repeat("a", 4096)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body["error"] != "file too large" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestHandler_Busy(t *testing.T) {
	svc := &stubTranscriber{started: make(chan struct{}), release: make(chan struct{})}
	h := newTestServer(svc, testConfig()).Handler()

	first := make(chan int)
	go func() {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, uploadRequest(t, "RIFF"))
		first <- rr.Code
	}()
	<-svc.started

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, "RIFF"))
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "server busy") {
		t.Fatalf("expected 503 server busy, got %d %s", rr.Code, rr.Body.String())
	}

	close(svc.release)
	if code := <-first; code != http.StatusOK {
		t.Errorf("first request = %d", code)
	}
}

func TestHandler_PanicRecovered(t *testing.T) {
	s := newTestServer(&stubTranscriber{}, testConfig())
	s.Engine().GET("/panic", func(*gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestStartStop(t *testing.T) {
	s := newTestServer(&stubTranscriber{}, testConfig())
	c := NewComponent(s)

	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(b)) != `{"status":"healthy"}` {
		t.Errorf("unexpected response %d %s", resp.StatusCode, b)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if _, err := http.Get("http://" + s.Addr() + "/health"); err == nil {
		t.Error("expected connection failure after stop")
	}
}

func TestComponentRoutes(t *testing.T) {
	c := NewComponent(newTestServer(&stubTranscriber{}, testConfig()))
	routes := c.Routes()
	if len(routes) != 4 {
		t.Fatalf("expected 4 routes, got %+v", routes)
	}
	if routes[0].Path != "/transcribe" || routes[0].Handler != "endpoint.Transcribe" {
		t.Errorf("API route must come first, got %+v", routes[0])
	}
	if d := c.Describe(); d.Type != "server" || !strings.Contains(d.Details, "max_upload=25MB") {
		t.Errorf("unexpected description %+v", d)
	}
}

func TestHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/mediascribe/server/endpoint.Transcribe.func1":      "endpoint.Transcribe",
		"github.com/kbukum/mediascribe/server.(*Server).RegisterRoutes.func1": "server.Server.RegisterRoutes",
		"main.handler-fm": "main.handler",
	}
	for in, want := range tests {
		if got := handlerName(in); got != want {
			t.Errorf("handlerName(%q) = %q, want %q", in, got, want)
		}
	}
}
