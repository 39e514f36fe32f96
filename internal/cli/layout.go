package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestsquare/pkg/errors"
	"github.com/matzehuels/nestsquare/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		data    dataFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [preset]",
		Short: "Compute the nested-square layout without rendering",
		Long: `Compute the nested-square layout for a preset or inline values.

The layout document lists the normalized side of every square (largest first)
and the label placements in data coordinates. It is printed to stdout unless
--output is given.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args, &data, nil)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cmd, opts, output, noCache)
		},
	}

	data.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, cmd *cobra.Command, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	l, s, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	raw, err := pipeline.MarshalLayout(l)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	data := buf.Bytes()

	if output == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Computed layout for %s", s.Name))
		return nil
	}

	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(l.Len(), nil, cacheHit)
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render %s", appName, s.Name))
	return nil
}
