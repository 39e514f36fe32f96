package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	nserrors "github.com/matzehuels/nestsquare/pkg/errors"
	"github.com/matzehuels/nestsquare/pkg/observability"
	"github.com/matzehuels/nestsquare/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), pipeline.Options{Size: 120}, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok\n" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`src="/presets/flood-1in500.svg"`,
		`src="/presets/flood-1in5.svg"`,
		`src="/presets/flood-2021.svg"`,
		`href="/presets/flood-2021.png"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %s", want)
		}
	}
}

func TestPresetFormats(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/presets/flood-2021.svg", "image/svg+xml", "<?xml"},
		{"/presets/flood-1in5.png", "image/png", "\x89PNG"},
		{"/presets/flood-1in500.pdf", "application/pdf", "%PDF"},
		{"/presets/flood-1in500.json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.HasPrefix(body, tt.prefix) {
				t.Errorf("body starts with %q", body[:min(len(body), 10)])
			}
		})
	}
}

func TestPresetQueryOverrides(t *testing.T) {
	ts := newTestServer(t)
	_, body := get(t, ts.URL+"/presets/flood-2021.svg?title=Hello&text_color=navy")
	if !strings.Contains(body, "<title>Hello</title>") {
		t.Error("title override not applied")
	}
	if !strings.Contains(body, "fill:#000080") {
		t.Error("text color override not applied")
	}
}

func TestDiagram(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	diagram := pipeline.Options{
		Values:  []float64{1, 4},
		Labels:  []string{"small", "large"},
		Title:   "Custom",
		Formats: []string{"png"},
	}
	ts := httptest.NewServer(New(pipeline.NewRunner(nil, nil, logger), diagram, logger).Handler())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/diagram.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{"<title>Custom</title>", ">small<", ">large<"} {
		if !strings.Contains(body, want) {
			t.Errorf("diagram missing %s", want)
		}
	}

	// Presets must not inherit the diagram's data or title.
	_, body = get(t, ts.URL+"/presets/flood-2021.svg")
	if strings.Contains(body, "Custom") || strings.Contains(body, ">small<") {
		t.Error("preset picked up diagram data")
	}

	_, body = get(t, ts.URL+"/")
	if !strings.Contains(body, `src="/diagram.svg"`) {
		t.Error("index missing diagram")
	}
}

func TestPresetErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path   string
		status int
	}{
		{"/presets/flood-9999.svg", http.StatusNotFound},
		{"/presets/flood-2021.gif", http.StatusBadRequest},
		{"/presets/Flood.svg", http.StatusBadRequest},
		{"/presets/flood-2021.svg?font_size=big", http.StatusBadRequest},
		{"/presets/flood-2021.svg?text_color=nope", http.StatusBadRequest},
		{"/nothing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nserrors.New(nserrors.ErrCodePresetNotFound, "x"), http.StatusNotFound},
		{nserrors.New(nserrors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{nserrors.New(nserrors.ErrCodeLengthMismatch, "x"), http.StatusBadRequest},
		{nserrors.New(nserrors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHooksMiddleware(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	get(t, ts.URL+"/healthz")
	get(t, ts.URL+"/presets/flood-9999.svg")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 404 {
		t.Errorf("statuses = %v, want [200 404]", hooks.statuses)
	}
}

func TestListenAndServe(t *testing.T) {
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), pipeline.Options{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", func(addr string) { ready <- addr }) }()

	addr := <-ready
	resp, body := get(t, "http://"+addr+"/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok\n" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
