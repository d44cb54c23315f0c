// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package live

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/dwkang/lexicat/internal/logging"
	"github.com/dwkang/lexicat/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types pushed to connected dashboards.
const (
	MessageTypeTestStarted   = "test_started"
	MessageTypeTestCompleted = "test_completed"
	MessageTypeTestExpired   = "test_expired"
	MessageTypeGoalStarted   = "goal_started"
	MessageTypeGoalCompleted = "goal_completed"
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts session
// lifecycle events to them. One hub serves the whole process.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Serve runs the hub until the context is canceled, then closes every
// client. Implements suture.Service.
//
// DETERMINISM: Uses priority-based selection. When Go's select has
// multiple ready channels it picks randomly; ordering the checks keeps
// client state consistent before messages are processed.
//   - Priority 1: Context cancellation (shutdown)
//   - Priority 2: Client lifecycle events (Register/Unregister)
//   - Priority 3: Broadcast messages
func (h *Hub) Serve(ctx context.Context) error {
	for {
		// Priority 1: Check for shutdown (highest priority, non-blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: Handle client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: Handle broadcast messages or wait for any event (blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.addClient(client)

		case client := <-h.Unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String implements suture's friendly service naming.
func (h *Hub) String() string { return "live-hub" }

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	metrics.SetLiveConnections(count)
	logging.Info().Int("total_clients", count).Msg("live client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.SetLiveConnections(count)
	logging.Info().Int("total_clients", count).Msg("live client disconnected")
}

// logGracefulShutdown closes all clients and logs structured shutdown
// information. ctx.Err() is NOT logged as an error because cancellation
// is expected behavior during graceful shutdown.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.ClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "live-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("live hub stopped")
}

// getShutdownReason determines the shutdown reason from the context error.
func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.Canceled:
		return ShutdownReasonContextCanceled
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// broadcastToClients sends a message to all connected clients.
// DETERMINISM: Clients are sorted by their monotonic id so delivery
// order is reproducible. A client whose send buffer is full is dropped;
// a stalled dashboard must not stall the rest.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.SetLiveConnections(len(h.clients))
	}

	metrics.RecordLiveBroadcast()
}

// closeAllClients closes all connected clients in id order. Called
// during shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.SetLiveConnections(0)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastJSON sends a JSON message to all connected clients
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// TestStartedData is sent with test_started messages.
type TestStartedData struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Grade     string `json:"grade,omitempty"`
}

// BroadcastTestStarted notifies all clients that a diagnostic test began.
func (h *Hub) BroadcastTestStarted(sessionID, userID, grade string) {
	h.BroadcastJSON(MessageTypeTestStarted, TestStartedData{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		SessionID: sessionID,
		UserID:    userID,
		Grade:     grade,
	})
}

// TestCompletedData is sent with test_completed messages.
type TestCompletedData struct {
	Timestamp  string  `json:"timestamp"`
	SessionID  string  `json:"session_id"`
	UserID     string  `json:"user_id"`
	Theta      float64 `json:"theta"`
	CEFRLevel  string  `json:"cefr_level"`
	TotalItems int     `json:"total_items"`
	Reason     string  `json:"reason"`
}

// BroadcastTestCompleted notifies all clients that a test terminated.
func (h *Hub) BroadcastTestCompleted(sessionID, userID string, theta float64, cefrLevel string, totalItems int, reason string) {
	h.BroadcastJSON(MessageTypeTestCompleted, TestCompletedData{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		SessionID:  sessionID,
		UserID:     userID,
		Theta:      theta,
		CEFRLevel:  cefrLevel,
		TotalItems: totalItems,
		Reason:     reason,
	})
}

// TestExpiredData is sent with test_expired messages.
type TestExpiredData struct {
	Timestamp      string `json:"timestamp"`
	SessionID      string `json:"session_id"`
	ItemsCompleted int    `json:"items_completed"`
}

// BroadcastTestExpired notifies all clients that an idle test was evicted.
func (h *Hub) BroadcastTestExpired(sessionID string, itemsCompleted int) {
	h.BroadcastJSON(MessageTypeTestExpired, TestExpiredData{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		SessionID:      sessionID,
		ItemsCompleted: itemsCompleted,
	})
}

// GoalStartedData is sent with goal_started messages.
type GoalStartedData struct {
	Timestamp       string `json:"timestamp"`
	SessionID       string `json:"session_id"`
	UserID          string `json:"user_id"`
	GoalID          string `json:"goal_id"`
	TargetWordCount int    `json:"target_word_count"`
}

// BroadcastGoalStarted notifies all clients that a learning goal session began.
func (h *Hub) BroadcastGoalStarted(sessionID, userID, goalID string, targetWordCount int) {
	h.BroadcastJSON(MessageTypeGoalStarted, GoalStartedData{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		SessionID:       sessionID,
		UserID:          userID,
		GoalID:          goalID,
		TargetWordCount: targetWordCount,
	})
}

// GoalCompletedData is sent with goal_completed messages.
type GoalCompletedData struct {
	Timestamp     string `json:"timestamp"`
	SessionID     string `json:"session_id"`
	GoalID        string `json:"goal_id"`
	WordsMastered int    `json:"words_mastered"`
}

// BroadcastGoalCompleted notifies all clients that a goal session hit its target.
func (h *Hub) BroadcastGoalCompleted(sessionID, goalID string, wordsMastered int) {
	h.BroadcastJSON(MessageTypeGoalCompleted, GoalCompletedData{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		SessionID:     sessionID,
		GoalID:        goalID,
		WordsMastered: wordsMastered,
	})
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
