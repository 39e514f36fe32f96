package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	// Test that it can log
	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	// Small delay to ensure measurable duration
	time.Sleep(10 * time.Millisecond)

	prog.done("test completed")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	// Should contain the message
	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	h := newDebugHooks(newLogger(&buf, log.DebugLevel))
	ctx := context.Background()

	h.OnLayoutStart(ctx, 6)
	h.OnLayoutComplete(ctx, time.Millisecond, nil)
	h.OnRenderStart(ctx, []string{"svg"})
	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "layout")
	h.OnCacheMiss(ctx, "artifact")
	h.OnCacheSet(ctx, "artifact", 512)
	h.OnRequest(ctx, "GET", "/diagram.svg")
	h.OnResponse(ctx, "GET", "/diagram.svg", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"layout start", "squares=6", "layout done",
		"render failed", "error=boom",
		"cache hit", "cache miss", "bytes=512",
		"path=/diagram.svg", "status=200",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q", want)
		}
	}
}

func TestDebugHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := newDebugHooks(newLogger(&buf, log.InfoLevel))
	h.OnCacheHit(context.Background(), "layout")
	if buf.Len() != 0 {
		t.Errorf("debug hooks wrote at info level: %q", buf.String())
	}
}
