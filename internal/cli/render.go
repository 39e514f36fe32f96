package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestsquare/pkg/dataset"
	"github.com/matzehuels/nestsquare/pkg/errors"
	"github.com/matzehuels/nestsquare/pkg/pipeline"
)

// =============================================================================
// Shared Flags
// =============================================================================

// dataFlags select the series: a preset argument or inline values, with
// optional label, color and title overrides.
type dataFlags struct {
	values      string
	labels      []string
	colors      []string
	title       string
	interactive bool
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.values, "values", "", "inline values, comma-separated (instead of a preset)")
	cmd.Flags().StringSliceVar(&f.labels, "labels", nil, "one label per value, comma-separated")
	cmd.Flags().StringSliceVar(&f.colors, "colors", nil, "one color per square, outermost first (names or #hex)")
	cmd.Flags().StringVar(&f.title, "title", "", "diagram title")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "pick a preset interactively")
}

// styleFlags override render settings from the config file.
type styleFlags struct {
	size      float64
	gutter    float64
	scale     float64
	fontSize  float64
	textColor string
	vAlign    string
	hAlign    string
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.size, "size", pipeline.DefaultSize, "side of the largest square in pixels")
	cmd.Flags().Float64Var(&f.gutter, "gutter", pipeline.DefaultGutter, "label area width as a fraction of the largest square")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().Float64Var(&f.fontSize, "font-size", 0, "label font size in points (default 14)")
	cmd.Flags().StringVar(&f.textColor, "text-color", "", "label color (default black)")
	cmd.Flags().StringVar(&f.vAlign, "valign", "", "vertical label alignment: center, top, bottom, baseline")
	cmd.Flags().StringVar(&f.hAlign, "halign", "", "horizontal label alignment: center, left, right")
}

// options builds pipeline options: config file first, then the preset
// argument, then every flag the user actually set.
func (c *CLI) options(cmd *cobra.Command, args []string, data *dataFlags, style *styleFlags) (pipeline.Options, error) {
	opts := c.config.options()
	opts.Logger = c.Logger

	if len(args) > 0 {
		opts.Preset = args[0]
	}

	flags := cmd.Flags()
	if data != nil {
		if data.interactive && opts.Preset == "" && data.values == "" {
			name, err := pickPreset()
			if err != nil {
				return opts, err
			}
			if name == "" {
				return opts, context.Canceled
			}
			opts.Preset = name
		}
		if flags.Changed("values") {
			values, err := dataset.ParseValues(data.values)
			if err != nil {
				return opts, err
			}
			opts.Values = values
		}
		if flags.Changed("labels") {
			opts.Labels = data.labels
		}
		if flags.Changed("colors") {
			opts.Colors = data.colors
		}
		opts.Title = data.title
	}

	if style != nil {
		if flags.Changed("size") {
			opts.Size = style.size
		}
		if flags.Changed("gutter") {
			opts.Gutter = style.gutter
		}
		if flags.Changed("scale") {
			opts.Scale = style.scale
		}
		if flags.Changed("font-size") {
			opts.Text.FontSize = style.fontSize
		}
		if flags.Changed("text-color") {
			opts.Text.Color = style.textColor
		}
		if flags.Changed("valign") {
			opts.Text.VerticalAlign = style.vAlign
		}
		if flags.Changed("halign") {
			opts.Text.HorizontalAlign = style.hAlign
		}
	}
	return opts, nil
}

// =============================================================================
// Render Command
// =============================================================================

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		data    dataFlags
		style   styleFlags
		formats []string
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "Render a nested-square diagram to files",
		Long: `Render a nested-square diagram for a preset or for inline values.

Without arguments the flood-1in500 preset is rendered. Use --values to draw
your own series; values should be ascending so that the last one becomes the
outermost square:

  nestsquare render flood-2021 -f svg,png
  nestsquare render --values 5,20,100 --labels "Urban 5%,Crops 20%,Total" -o out/custom

Each format is written to <output>.<format>; the default output base is the
preset name. Results are cached, so re-rendering unchanged input is instant.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args, &data, &style)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				opts.Formats = formats
			}
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	data.register(cmd)
	style.register(cmd)
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output format(s): svg (default), png, pdf, eps, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path, or - for stdout (single format)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	if output == "-" && len(opts.Formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "output - needs exactly one format, got %d", len(opts.Formats))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	base := basePath(output, result.Series.Name)
	paths, err := writeArtifacts(base, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", result.Series.Name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Squares, opts.Formats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// basePath derives the output base path. A known format extension on output
// is stripped; an empty output falls back to the series name.
func basePath(output, name string) string {
	if output == "" {
		return name
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes base.<format> for each format, creating the parent
// directory if needed.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if err := errors.ValidateOutputPath(base); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
