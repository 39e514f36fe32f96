// Package cli implements the nestsquare command-line interface.
//
// The commands compute nested-square layouts for a preset or for inline
// values, render them to files, serve them on a local display server and
// manage the layout and artifact cache. The CLI is built on cobra and logs
// through charmbracelet/log; --verbose (-v) switches to debug level, which
// also turns on the pipeline, cache and HTTP debug hooks.
//
// # Commands
//
//   - render: write SVG, PNG, PDF, EPS or JSON files
//   - layout: print or write the layout document
//   - presets: list the built-in presets
//   - show: serve diagrams on a local HTTP server
//   - cache: clear the cache or print its location
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 3 files (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Debug Hooks
// =============================================================================

// debugHooks writes pipeline, cache and HTTP events to the logger at debug
// level. It implements every hook interface in pkg/observability.
type debugHooks struct {
	logger *log.Logger
}

func newDebugHooks(l *log.Logger) *debugHooks {
	return &debugHooks{logger: l}
}

func (h *debugHooks) OnLayoutStart(_ context.Context, squares int) {
	h.logger.Debug("layout start", "squares", squares)
}

func (h *debugHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "duration", d, "error", err)
		return
	}
	h.logger.Debug("layout done", "duration", d)
}

func (h *debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "duration", d, "error", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *debugHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}
