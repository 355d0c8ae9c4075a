package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nycleads/internal/neighborhoods"
	"nycleads/internal/web"
)

func createServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long:  `Loads every building type once and serves read-only searches plus annotation updates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ListenAddr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.newServer(addr).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default LISTEN_ADDR or :8080)")
	return cmd
}

// newServer ingests every building type and wraps the result in a server.
// Per-file warnings are logged by the ingest itself.
func (a *app) newServer(addr string) *web.Server {
	ds := a.pipe.Ingest(nil)

	idx, _, err := neighborhoods.LoadOrBuild(a.cfg.IndexJSON, a.cfg.IndexCSV, false, func() (*neighborhoods.Index, error) {
		return neighborhoods.Build(ds.Normalized), nil
	})
	if err != nil {
		a.log.Warn("index cache not saved", "error", err)
	}

	return web.NewServer(addr, ds.Records, idx, a.notes, a.log)
}
