package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vinchivii/detonation-scanner/internal/config"
	"github.com/vinchivii/detonation-scanner/internal/httpapi"
	"github.com/vinchivii/detonation-scanner/internal/metrics"
	"github.com/vinchivii/detonation-scanner/internal/store/postgres"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := metrics.NewRegistry(prometheus.DefaultRegisterer)

			s, err := buildScanner(cfg, reg)
			if err != nil {
				return err
			}

			var store *postgres.Store
			if cfg.PostgresDSN != "" {
				store, err = postgres.Open(cfg.PostgresDSN, 5*time.Second)
				if err != nil {
					return err
				}
				defer store.Close()
				log.Info().Msg("Scan persistence enabled")
			}

			serverCfg := httpapi.DefaultServerConfig()
			serverCfg.Host = cfg.HTTPHost
			serverCfg.Port = cfg.HTTPPort
			server := httpapi.NewServer(serverCfg, s.pipeline, store, s.guardStates)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				log.Info().Str("signal", sig.String()).Msg("Shutting down")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(ctx)
			}
		},
	}
}
