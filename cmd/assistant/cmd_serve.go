package main

import (
	"os/signal"
	"syscall"

	"dataset-assistant/internal/di"
	transport "dataset-assistant/internal/transport/http"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	server := transport.NewServer(transport.Config{
		Address:      cfg.Server.Address(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Logger:       container.Logger,
	}, transport.RouterConfig{
		Registry:  container.Registry,
		Samples:   container.Samples,
		Logger:    container.Logger,
		Metrics:   container.Metrics.Handler(),
		AccessLog: cfg.Server.AccessLog,
	})

	return server.Run(ctx)
}
