package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/EvgeniyBoldov/calendar/internal/blobstore"
	"github.com/EvgeniyBoldov/calendar/internal/config"
	"github.com/EvgeniyBoldov/calendar/internal/events"
	"github.com/EvgeniyBoldov/calendar/internal/httpapi"
	"github.com/EvgeniyBoldov/calendar/internal/log"
	"github.com/EvgeniyBoldov/calendar/internal/manager"
	"github.com/EvgeniyBoldov/calendar/internal/metrics"
	"github.com/EvgeniyBoldov/calendar/internal/notify"
	"github.com/EvgeniyBoldov/calendar/internal/planning"
	"github.com/EvgeniyBoldov/calendar/internal/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduling HTTP API",
	RunE:  runServe,
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	cfg.HTTPAddr, _ = cmd.Flags().GetString("http-addr")
	cfg.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
	cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	cfg.LogJSON, _ = cmd.Flags().GetBool("log-json")
	ttl, _ := cmd.Flags().GetDuration("session-ttl")
	cfg.SessionTTL.Duration = ttl
	sweep, _ := cmd.Flags().GetDuration("expiry-sweep")
	cfg.ExpirySweep.Duration = sweep

	configPath, _ := cmd.Flags().GetString("config")
	return config.LoadFile(cfg, configPath)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.WithComponent("serve")

	store, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	bus := events.NewBroker()
	mgr := manager.New(store, bus, blobstore.NoopStore{})
	plan := planning.New(store, bus, notify.LoggingSink{}, cfg.SessionTTL.Duration)

	stop := make(chan struct{})
	defer close(stop)
	go plan.RunExpiryLoop(cfg.ExpirySweep.Duration, stop)

	server := httpapi.New(mgr, plan, bus, nil)
	router := server.Router()

	if cfg.MetricsAddr != "" && cfg.MetricsAddr != cfg.HTTPAddr {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Warn().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("serving HTTP API")
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-sigCh:
		logger.Info().Msg("shutting down")
		return httpServer.Close()
	}
	return nil
}
