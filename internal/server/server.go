// Package server serves rendered diagrams over HTTP for `nestsquare show`.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nestsquare/pkg/dataset"
	nserrors "github.com/matzehuels/nestsquare/pkg/errors"
	"github.com/matzehuels/nestsquare/pkg/observability"
	"github.com/matzehuels/nestsquare/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Server renders presets on request through a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	diagram  pipeline.Options
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. diagram is served as-is at /diagram.{format}; its
// render settings (size, text, gutter) also apply to every preset request.
func New(runner *pipeline.Runner, diagram pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	defaults := diagram
	defaults.Preset, defaults.Values, defaults.Labels, defaults.Colors, defaults.Title = "", nil, nil, nil, ""
	defaults.Formats = nil
	diagram.Formats = nil
	s := &Server{runner: runner, diagram: diagram, defaults: defaults, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/diagram.{format}", s.handleDiagram)
	r.Get("/presets/{name}.{format}", s.handlePreset)
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. onReady, if non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, onReady func(addr string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	if onReady != nil {
		onReady(ln.Addr().String())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, s.diagram, chi.URLParam(r, "format"))
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	opts := s.defaults
	opts.Preset = chi.URLParam(r, "name")
	s.serve(w, r, opts, chi.URLParam(r, "format"))
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	opts.Formats = []string{format}
	if err := applyQuery(&opts, r); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(res.Artifacts[format])
}

// applyQuery reads per-request overrides: title, text_color, font_size.
func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	if t := q.Get("title"); t != "" {
		opts.Title = t
	}
	if c := q.Get("text_color"); c != "" {
		opts.Text.Color = c
	}
	if fs := q.Get("font_size"); fs != "" {
		v, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return nserrors.Wrap(nserrors.ErrCodeInvalidInput, err, "font_size: cannot parse %q", fs)
		}
		opts.Text.FontSize = v
	}
	return nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>nestsquare</title>
<style>
  body { font-family: sans-serif; margin: 2em; }
  figure { margin: 0 0 3em 0; }
  figcaption a { margin-right: 0.8em; }
</style>
</head>
<body>
<figure>
  <img src="/diagram.svg" alt="diagram">
  <figcaption>diagram: {{range .Formats}}<a href="/diagram.{{.}}">{{.}}</a>{{end}}</figcaption>
</figure>
{{range .Presets}}{{$e := .}}<figure>
  <img src="/presets/{{$e.Name}}.svg" alt="{{$e.Title}}">
  <figcaption>{{$e.Name}}: {{range $e.Formats}}<a href="/presets/{{$e.Name}}.{{.}}">{{.}}</a>{{end}}</figcaption>
</figure>
{{end}}</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name, Title string
		Formats     []string
	}
	var entries []entry
	for _, p := range dataset.Presets() {
		entries = append(entries, entry{Name: p.Name, Title: p.Title, Formats: pipeline.Formats})
	}
	data := struct {
		Formats []string
		Presets []entry
	}{pipeline.Formats, entries}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()), "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "id", middleware.GetReqID(r.Context()), "path", r.URL.Path, "err", err)
	}
	http.Error(w, nserrors.UserMessage(err), status)
}

// StatusFor maps an error to an HTTP status by its code.
func StatusFor(err error) int {
	switch {
	case nserrors.Is(err, nserrors.ErrCodePresetNotFound):
		return http.StatusNotFound
	case nserrors.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}
