// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

/*
Package live streams session lifecycle events to connected admin dashboards.

This package implements WebSocket support for broadcasting test starts,
completions, expirations, and goal-learning milestones to operators watching
the engine in real time. It uses the gorilla/websocket library with a
hub-client architecture for efficient message broadcasting.

Key Components:

  - Hub: Central message broker that manages client connections and broadcasts
  - Client: Represents a single WebSocket connection with read/write goroutines
  - Message: Typed message structure for different event types

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← Broadcasts to all clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: Reads from WebSocket, handles pings
  - writePump: Writes to WebSocket, sends pongs

Message Types:

  - test_started: A diagnostic test session began (session_id, user_id, grade)
  - test_completed: A test terminated (theta, cefr_level, total_items, reason)
  - test_expired: An idle test was evicted by the sweeper
  - goal_started: A goal-learning session began (goal_id, target_word_count)
  - goal_completed: A goal session hit its mastery target

Usage Example - Server:

	hub := live.NewHub()
	tree.Add(hub) // Serve(ctx) implements suture.Service

	// Broadcast from the session manager
	hub.BroadcastTestStarted(sessionID, userID, "중2")
	hub.BroadcastTestCompleted(sessionID, userID, 1.2, "B2", 18, "se_threshold")

Usage Example - Client (JavaScript):

	const ws = new WebSocket('ws://localhost:8622/api/v1/admin/live');

	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);

	    if (msg.type === 'test_completed') {
	        console.log(`Test ${msg.data.session_id}: θ=${msg.data.theta}`);
	        refreshDashboard();
	    }
	};

Connection Lifecycle:

1. Client connects via HTTP upgrade on /api/v1/admin/live
2. Hub registers client
3. Client starts read/write goroutines
4. Hub broadcasts messages to all clients
5. Client disconnects (network error or explicit close)
6. Hub unregisters client and cleans up

Thread Safety:

The package is fully thread-safe:
  - Hub uses mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines

Determinism:

Clients carry monotonically increasing ids and broadcasts iterate them in
id order, so delivery order is reproducible run to run. A client whose send
buffer is full is dropped rather than allowed to stall the others.

Configuration:

WebSocket settings:
  - writeWait: 10 seconds (time allowed to write message)
  - pongWait: 60 seconds (time allowed to read pong)
  - pingPeriod: 54 seconds (ping interval, must be < pongWait)
  - maxMessageSize: 512 KB (max message size)

See Also:

  - github.com/gorilla/websocket: Underlying WebSocket library
  - internal/api: WebSocket endpoint handler and origin checks
  - internal/session: Broadcast call sites
*/
package live
