package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/avatarshuffle/pkg/history"
	"github.com/matzehuels/avatarshuffle/pkg/observability"
	"github.com/matzehuels/avatarshuffle/pkg/server"
	"github.com/matzehuels/avatarshuffle/pkg/suggest"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve avatar generation, styles and suggestions over HTTP",
		Long: `Serve starts the HTTP API used by the plugin UI:

  POST /v1/avatars       generate avatar images from a prompt
  GET  /v1/styles        list the style catalog
  GET  /v1/suggestions   suggest run parameters
  GET  /healthz          liveness
  GET  /metrics          Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			cz, err := cfg.Categorizer()
			if err != nil {
				return err
			}
			store, err := c.openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			srv := &server.Server{
				Generator:   c.newGenerator(cfg),
				Catalog:     c.newLoader(cfg, store),
				Suggest:     &suggest.Provider{History: history.New(store)},
				Categorizer: cz,
				Logger:      logger,
			}
			if !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				m := observability.NewPrometheus(reg)
				observability.SetRunHooks(m)
				observability.SetCacheHooks(m)
				observability.SetHTTPHooks(m)
				defer observability.Reset()
				srv.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
			}

			printInfo("Listening on %s", addr)
			return server.ListenAndServe(ctx, addr, srv.Handler(), logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	return cmd
}
