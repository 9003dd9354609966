package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nusarupa/nusarupa/internal/app"
	"github.com/nusarupa/nusarupa/internal/config"
	httpserver "github.com/nusarupa/nusarupa/internal/http"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: "nusarupa",
			})
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Flags.Migrate && cfg.Storage.Driver == "postgres" {
				if err := runMigrations(ctx, cfg, "up", 0); err != nil {
					return err
				}
			}

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.L().Info("server listening", logger.Addr(cfg.Server.Addr))
				return httpserver.StartGraceful(gctx, cfg.Server.Addr, a.Handler)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.L().Info("server stopped")
			return nil
		},
	}
}
