package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ancestree/ancestree/internal/server"
)

// serveCommand creates the serve command that hosts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Endpoints:

  GET  /healthz              liveness probe
  POST /api/layout           family JSON in, computed layout out
  POST /api/render/{format}  family JSON in, svg/png/dot/json artifact out

The server shares the pipeline cache with the CLI commands, so a layout
computed here is a cache hit there and vice versa. Shutdown is graceful:
in-flight requests drain on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			cfg := c.Settings.Server
			if addr != "" {
				cfg.Addr = addr
			}

			srv := server.New(runner, c.Logger, cfg)
			printInfo("Serving on %s", cfg.Addr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from settings, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
