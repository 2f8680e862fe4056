package cli

import (
	"github.com/spf13/cobra"

	"github.com/hugojosefson/scatter-svg/pkg/server"
)

const defaultAddr = ":8080"

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   plotFlags
		addr    string
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plot API over HTTP",
		Long: `Serve the plot API over HTTP until interrupted.

Routes:
  GET  /healthz     liveness and build version
  POST /v1/plot     request body is the dataset; responds with the figure
  POST /v1/layout   same input; responds with the JSON layout export

Flags and the config file set the defaults for every request. Query
parameters (format, filename, style, width, height, dpi, font_size,
max_iterations, refresh) override them per request.

Set cache.url in the config file to a redis:// URL to share the cache
between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &flags, addr, maxBody)
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodySize, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, flags *plotFlags, addr string, maxBody int64) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	opts := flags.options(cmd, cfg)
	check := opts.Clone()
	if err := check.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(ctx, cfg, flags.noCache)
	defer runner.Close()

	srv := server.New(runner, opts,
		server.WithLogger(c.Logger),
		server.WithMaxBodySize(maxBody))

	printInfo("Serving on %s", addr)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}
