package cli

import (
	"github.com/spf13/cobra"

	"github.com/dagmin/dagmin/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve exposes the solver over HTTP.

Endpoints:
  POST /api/solve    solve a JSON graph, results cached by content hash
  POST /api/verify   check a proposed driver set
  GET  /healthz      health probe
  GET  /version      build information`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			store := c.newCache(cmd.Context(), noCache)
			defer store.Close()

			srv := server.New(
				server.WithCache(store),
				server.WithLogger(c.Logger),
				server.WithTimeout(c.Config.Solver.Timeout()),
			)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
