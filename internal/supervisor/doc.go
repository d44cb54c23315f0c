// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

/*
Package supervisor provides process supervision using suture v4.

It builds a small hierarchical supervisor tree that manages the
lifecycle of every long-running service in the application, with
Erlang/OTP-style automatic restart, failure isolation, and graceful
shutdown.

# Overview

Services are organized into three layers:

	Root ("lexicat")
	├── Data ("data-layer")
	│   └── exposure-flush       (exposure counter persistence)
	├── Session ("session-layer")
	│   ├── session-sweeper      (test session TTL expiry)
	│   └── live-hub             (websocket event fan-out)
	└── API ("api-layer")
	    └── http-server

The layering means a crashing sweeper restarts without dropping
websocket clients, and neither can take down the HTTP server.

# Usage

Basic setup in main.go:

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    log.Fatal(err)
	}

	tree.AddDataService(exposureCtl)
	tree.AddSessionService(sessions)
	tree.AddSessionService(hub)
	tree.AddAPIService(srv)

	errCh := tree.ServeBackground(ctx)
	// ... wait for signal, cancel ctx, drain errCh

# Failure Handling

Suture keeps a failure counter with exponential decay per supervisor.
Each crash increments it; when it exceeds FailureThreshold the
supervisor waits FailureBackoff before restarting. The defaults in
DefaultTreeConfig are suture's own production defaults.

# Service Interface

Every supervised component implements suture.Service directly:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return nil to stop cleanly (no restart), return an error to be
restarted, and return promptly when the context is canceled. Each
service also implements fmt.Stringer so suture's event log names it.

# What Is NOT Supervised

DuckDB is an embedded library, not a long-running service; its
connection pool is managed by the store package and a failure there
surfaces as ErrUnavailable on the persistence port, not as a crashed
service.

# Debugging Shutdown Issues

If services do not stop within ShutdownTimeout:

	report, _ := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("service did not stop: %v", svc)
	}
*/
package supervisor
