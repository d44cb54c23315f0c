// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package main is the entry point for the Lexicat server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, YAML, env)
//  2. Logging: zerolog with JSON or console output
//  3. Store: DuckDB archive of sessions, responses, and learned words
//  4. Item bank: TSV vocabulary compiled into the immutable bank
//  5. Exposure controller: Badger-backed item exposure counters
//  6. Engines: adaptive testing, goal learning, calibration
//  7. Session manager and live event hub
//  8. Supervisor tree: suture v4 supervising all long-running services
//  9. HTTP server: Chi router on port 8622
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the hub disconnects websocket clients, exposure
// counters flush to disk, and the store closes last.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/dwkang/lexicat/docs" // Import generated swagger docs
	"github.com/dwkang/lexicat/internal/api"
	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/calibrate"
	"github.com/dwkang/lexicat/internal/cat"
	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/exposure"
	"github.com/dwkang/lexicat/internal/learn"
	"github.com/dwkang/lexicat/internal/live"
	"github.com/dwkang/lexicat/internal/logging"
	"github.com/dwkang/lexicat/internal/session"
	"github.com/dwkang/lexicat/internal/store"
	"github.com/dwkang/lexicat/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Lexicat with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Storage.Path).
		Str("vocab_path", cfg.Bank.VocabPath).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	// Persistence first: everything else hangs off the store.
	db, err := store.Open(cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Msg("Store initialized successfully")

	// The guessing model activates only once the response archive is
	// deep enough to estimate per-mode asymptotes. Until then every
	// probability is evaluated under 2PL.
	model := bank.Model2PL
	if n, err := db.CompletedSessionCount(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Could not count archived sessions, starting with 2PL")
	} else if n >= cfg.Calibration.Sessions3PL {
		model = bank.Model3PL
	}

	b, err := bank.Load(cfg.Bank.VocabPath, model)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Bank.VocabPath).Msg("Failed to load vocabulary bank")
	}
	handle := bank.NewHandle(b)
	logging.Info().
		Int("items", b.Size()).
		Str("model", b.Model().String()).
		Msg("Item bank loaded")

	// Exposure counters persist in Badger so rates survive restarts.
	exposureCtl, err := exposure.Open(b.Size(), cfg.Exposure)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Exposure.StorePath).Msg("Failed to open exposure store")
	}
	defer func() {
		if err := exposureCtl.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing exposure store")
		}
	}()

	catEngine := cat.NewEngine(cfg.CAT, cfg.Bank, handle, exposureCtl)
	learnEngine := learn.NewEngine(cfg.Learning, handle)
	calibrator := calibrate.NewEngine(cfg.Calibration, handle)

	sessions := session.NewManager(cfg.CAT, catEngine, learnEngine, db, handle)

	hub := live.NewHub()
	sessions.SetBroadcaster(hub)

	if cfg.Security.AdminSecret == "" {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: ADMIN_SECRET is not set")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  The /admin endpoints (recalibration, cleanup, live feed)")
		logging.Warn().Msg("  are accessible without authentication!")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  Set ADMIN_SECRET to require bearer tokens in production.")
		logging.Warn().Msg("============================================================")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog's event hook.
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(cfg, sessions, handle, db, exposureCtl, calibrator, hub)
	router := api.NewRouter(handler, cfg.Security)
	srv := api.NewServer(cfg.Server, router.SetupChi())

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddDataService(exposureCtl)
	tree.AddSessionService(sessions)
	tree.AddSessionService(hub)
	tree.AddAPIService(srv)
	logging.Info().Str("addr", srv.Addr()).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
