package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pairrank/internal/server"
	"github.com/matzehuels/pairrank/pkg/cache"
	"github.com/matzehuels/pairrank/pkg/observability"
	"github.com/matzehuels/pairrank/pkg/observability/prom"
	"github.com/matzehuels/pairrank/pkg/render/nodelink"
	"github.com/matzehuels/pairrank/pkg/session"
)

// serveCommand creates the "serve" command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ranking sessions over HTTP",
		Long: `Serve ranking sessions over a JSON HTTP API.

Sessions are kept in the configured store, so a redis backend lets several
instances share them. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.config.Server.Addr
			}

			b, err := c.openBackend(ctx)
			if err != nil {
				return err
			}
			m := session.NewManager(session.Instrument(b.name, b.store), c.Logger)
			defer m.Close()

			opts := server.Options{
				Logger:          c.Logger,
				Detailed:        c.config.Render.Detailed,
				ReadTimeout:     c.config.Server.ReadTimeout,
				ShutdownTimeout: c.config.Server.ShutdownTimeout,
				Renderer: &nodelink.Renderer{
					Cache:  c.serverCache(b),
					TTL:    c.config.Render.CacheTTL,
					Logger: c.Logger,
				},
			}

			if !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				hooks := prom.New(reg)
				observability.SetRankHooks(hooks)
				observability.SetStoreHooks(hooks)
				defer observability.Reset()
				opts.Gatherer = reg
			}

			printInfo("Serving %s sessions on %s", b.name, StyleHighlight.Render(addr))
			return server.New(m, opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

// serverCache shares the redis connection for rendered artifacts when the
// sessions live in redis, so all instances see the same cache.
func (c *CLI) serverCache(b *backend) cache.Cache {
	if b.client != nil && c.config.Render.Cache {
		return cache.NewRedisCache(b.client, c.config.Store.Redis.Prefix+"cache:")
	}
	return c.newCache(false)
}
