// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/starmaps/internal/config"
	"github.com/tomtom215/starmaps/internal/logging"
	"github.com/tomtom215/starmaps/internal/store"
	"github.com/tomtom215/starmaps/internal/supervisor"
	"github.com/tomtom215/starmaps/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", cfg.Server.Version).
		Str("environment", cfg.Server.Environment).
		Bool("llm_enabled", cfg.LLM.Enabled()).
		Bool("email_enabled", cfg.Email.Enabled()).
		Bool("store_in_memory", cfg.Store.InMemory).
		Msg("Starting StarMaps")

	db, err := store.Open(store.Options{Path: cfg.Store.Path, InMemory: cfg.Store.InMemory})
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close store")
		}
	}()

	app, err := buildApp(cfg, db)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize services")
		return
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}
	addMaintenance(tree, cfg, db, app)

	server := newHTTPServer(cfg, app.router.Handler())
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Str("prefix", cfg.Server.APIPrefix).Msg("HTTP server configured")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, stopping services")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	stop()
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	logging.Info().Msg("StarMaps stopped")
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
}

// addMaintenance schedules the periodic housekeeping services.
func addMaintenance(tree *supervisor.SupervisorTree, cfg *config.Config, db *store.DB, app *application) {
	if !cfg.Store.InMemory {
		tree.AddMaintenanceService(services.NewPeriodicService("store-gc", storeGCTask(db, cfg.Store.GCDiscardRatio),
			services.PeriodicConfig{Interval: cfg.Store.GCInterval}))
	}

	tree.AddMaintenanceService(services.NewPeriodicService("auth-purge", func(ctx context.Context) error {
		n, err := app.authStore.PurgeExpired(ctx, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			logging.Info().Int("purged", n).Msg("Expired sessions and magic links removed")
		}
		return nil
	}, services.PeriodicConfig{Interval: time.Hour, RunOnStart: true}))

	tree.AddMaintenanceService(services.NewPeriodicService("validation-cache", func(context.Context) error {
		if n := app.validator.PruneCache(); n > 0 {
			logging.Debug().Int("pruned", n).Msg("Expired query verdicts removed")
		}
		return nil
	}, services.PeriodicConfig{Interval: cfg.Recommend.ValidationCacheTTL}))
}
