package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrid/internal/api"
	"github.com/matzehuels/mindgrid/pkg/pipeline"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mindgrid HTTP API server",
		Long: `Serve exposes the generation and scene endpoints over HTTP. The cache
backend, upstream service, and listen address come from the configuration
file and environment (see --config and the MINDGRID_* variables).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.ListenAddr = addr
			}

			backend, err := cfg.Cache.NewCache(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			runner := pipeline.NewRunner(backend, nil, c.Logger)
			generator := c.newGenerator(cfg, backend)
			runner.Generator = generator

			c.Logger.Info("starting server",
				"addr", cfg.Server.ListenAddr,
				"cache", cfg.Cache.Backend,
				"upstream", cfg.Upstream.BaseURL)

			server := api.NewServer(runner, generator, c.Logger)
			return server.ListenAndServe(ctx, cfg.Server.ListenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
