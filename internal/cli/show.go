package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestsquare/internal/server"
)

// showCommand serves diagrams on a local HTTP server until interrupted.
func (c *CLI) showCommand() *cobra.Command {
	var (
		data    dataFlags
		style   styleFlags
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "show [preset]",
		Short: "Serve the diagram on a local web server",
		Long: `Serve the diagram on a local web server until interrupted (Ctrl+C).

The selected preset or inline series is available at /diagram.svg (and .png,
.pdf, .eps, .json); every built-in preset is listed on the index page.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args, &data, &style)
			if err != nil {
				return err
			}
			// Fail before listening if the series itself is unusable.
			s, err := opts.ValidateForLayout()
			if err != nil {
				return err
			}
			if _, err := s.ResolvedColors(); err != nil {
				return err
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, opts, c.Logger)
			return srv.ListenAndServe(ctx, addr, func(bound string) {
				printSuccess("Serving on %s", StyleLink.Render("http://"+bound+"/"))
				printDetail("Diagram: http://%s/diagram.svg", bound)
				printDetail("Press Ctrl+C to stop")
			})
		},
	}

	data.register(cmd)
	style.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
