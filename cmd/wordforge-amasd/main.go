// Command wordforge-amasd runs the storage and maintenance side of the
// adaptive scheduler as a standalone daemon: a badger-backed store, three
// background jobs (monitoring retention, due-index consistency, value-log
// GC), and an ambient liveness/metrics HTTP surface, all supervised under
// one suture tree. The per-user scheduling engine (internal/amas/engine)
// is a library consumed directly by whatever process owns event ingestion;
// this daemon does not host a business HTTP surface to drive it.
//
// Initialization order:
//
//  1. Configuration: layered load via Koanf (defaults, optional YAML file,
//     environment variables)
//  2. Logging: zerolog initialized from config, bridged to slog for the
//     supervisor tree
//  3. Store: badger database opened at the configured path
//  4. Supervisor tree: jobs layer (retention sweep, consistency sampler,
//     value-log GC) and api layer (health, metrics servers) added as
//     independent children
//  5. Signal handling: SIGINT/SIGTERM trigger graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Heartcoolman/wordforge-sub000/internal/config"
	"github.com/Heartcoolman/wordforge-sub000/internal/httpapi"
	"github.com/Heartcoolman/wordforge-sub000/internal/httpserver"
	"github.com/Heartcoolman/wordforge-sub000/internal/jobs"
	"github.com/Heartcoolman/wordforge-sub000/internal/logging"
	"github.com/Heartcoolman/wordforge-sub000/internal/store"
	"github.com/Heartcoolman/wordforge-sub000/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(cfg.Logging.ToLoggingConfig())
	logging.Info().Msg("starting wordforge-amasd")

	st, err := store.Open(store.Options{Path: cfg.Store.Path, InMemory: cfg.Store.InMemory})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("error closing store")
		}
	}()
	logging.Info().Str("path", cfg.Store.Path).Bool("in_memory", cfg.Store.InMemory).Msg("store opened")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, cfg.Supervisor.ToTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create supervisor tree")
	}

	jobs.Register(tree, st, cfg.Jobs, cfg.Store.ValueLogGC, slogLogger)
	logging.Info().Msg("background jobs added to supervisor tree")

	handler := httpapi.NewHandler(slogLogger)

	healthSrv := &http.Server{
		Addr:    cfg.Server.HealthAddr,
		Handler: httpapi.NewHealthRouter(handler),
	}
	tree.AddAPIService(httpserver.New("health-http", healthSrv, cfg.Supervisor.ShutdownTimeout))
	logging.Info().Str("addr", healthSrv.Addr).Msg("health server added to supervisor tree")

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.ListenAddr,
		Handler: httpapi.NewMetricsRouter(),
	}
	tree.AddAPIService(httpserver.New("metrics-http", metricsSrv, cfg.Supervisor.ShutdownTimeout))
	logging.Info().Str("addr", metricsSrv.Addr).Msg("metrics server added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop")
		}
	}

	logging.Info().Msg("wordforge-amasd stopped gracefully")
}
