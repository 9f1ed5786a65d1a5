package main

import (
	"context"

	"github.com/spf13/cobra"

	"sentinel-hq/minerva/pkg/audit"
	"sentinel-hq/minerva/pkg/server"
)

var serveFlags struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the governance HTTP server",
	Long: `Start the governance HTTP server with the specified configuration.

The server accepts cycle submissions over HTTP and exposes statistics,
audit search, reports, health, and metrics endpoints.

Examples:
  # Start with defaults (policies seeded into ./policies)
  minerva serve

  # Start with a custom config
  minerva serve --config /etc/minerva/config.yaml

  # Override listen address
  minerva serve --listen 0.0.0.0:8085`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	rt, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Pattern pack hot reload only runs when a pack directory is configured.
	// Watch blocks until the context is cancelled.
	if cfg.Guard.PackDir != "" {
		go func() {
			if err := rt.guard.Watch(ctx); err != nil {
				logger.Warn("pattern pack watcher stopped", "error", err)
			}
		}()
	}

	if pruner, ok := rt.store.(audit.Pruner); ok {
		scheduler := audit.NewRetentionScheduler(cfg.Audit.Retention, pruner, logger)
		if err := scheduler.Start(ctx); err != nil {
			logger.Warn("audit retention scheduler unavailable", "error", err)
		}
	}

	srv, err := server.NewServer(cfg.Server, rt.engine, rt.recorder, rt.metrics, logger)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
