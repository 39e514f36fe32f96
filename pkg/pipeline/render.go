package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/core/render/sink"
	"github.com/matzehuels/nestsquare/pkg/dataset"
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// RenderFormat renders a layout in a single format.
func RenderFormat(l layout.Layout, format string, opts ...sink.Option) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = sink.RenderSVG(l, opts...)
	case FormatPNG:
		data, err = sink.RenderPNG(l, opts...)
	case FormatPDF:
		data, err = sink.RenderPDF(l, opts...)
	case FormatEPS:
		data, err = sink.RenderEPS(l, opts...)
	case FormatJSON:
		data, err = sink.RenderJSON(l, opts...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Render generates every requested format without caching.
func Render(ctx context.Context, l layout.Layout, s dataset.Series, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	colors, err := s.ResolvedColors()
	if err != nil {
		return nil, err
	}
	sinkOpts := opts.SinkOptions(s, colors)
	return renderAll(ctx, opts.Formats, func(ctx context.Context, format string) ([]byte, error) {
		return RenderFormat(l, format, sinkOpts...)
	})
}

// renderAll runs fn once per format, concurrently. The first error cancels
// the remaining formats.
func renderAll(ctx context.Context, formats []string, fn func(ctx context.Context, format string) ([]byte, error)) (map[string][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(formats))

	for _, format := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fn(ctx, format)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}
