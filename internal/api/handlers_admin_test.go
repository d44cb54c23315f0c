// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dwkang/lexicat/internal/calibrate"
	"github.com/dwkang/lexicat/internal/live"
)

func TestAdminGuardRejectsWithoutToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t, envConfig{adminSecret: "topsecret-admin-key"})

	status, envl := e.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if code := errCode(t, envl); code != KindUnauthorized {
		t.Errorf("error code = %q, want %q", code, KindUnauthorized)
	}

	e.token = "not-a-jwt"
	status, envl = e.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", status)
	}
	if code := errCode(t, envl); code != KindUnauthorized {
		t.Errorf("error code = %q, want %q", code, KindUnauthorized)
	}
}

func TestAdminGuardAcceptsValidToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t, envConfig{adminSecret: "topsecret-admin-key"})

	token, err := GenerateAdminToken("topsecret-admin-key", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken() error = %v", err)
	}
	e.token = token

	status, envl := e.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d (%+v), want 200", status, envl.Error)
	}
	if !envl.Success {
		t.Error("envelope success = false")
	}
}

func TestAdminGuardDisabledWithoutSecret(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	status, _ := e.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 when guard disabled", status)
	}
}

func TestAdminStatsAggregates(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	started := e.startTest(t)
	e.completeTest(t, started)

	status, envl := e.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	var stats AdminStatsResponse
	decodeData(t, envl.Data, &stats)

	if stats.Store.TotalSessions != 1 {
		t.Errorf("total sessions = %d, want 1", stats.Store.TotalSessions)
	}
	if stats.Store.CompletedSessions != 1 {
		t.Errorf("completed sessions = %d, want 1", stats.Store.CompletedSessions)
	}
	if stats.Bank.Items != 120 {
		t.Errorf("bank items = %d, want 120", stats.Bank.Items)
	}
	// Terminated sessions stay resident for result reads until the TTL
	// sweep claims them.
	if stats.ActiveTests != 1 {
		t.Errorf("active tests = %d, want 1", stats.ActiveTests)
	}
}

func TestAdminStatsPersistenceUnavailable(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	e.store.mu.Lock()
	e.store.failStats = true
	e.store.mu.Unlock()

	status, envl := e.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", status)
	}
	if code := errCode(t, envl); code != KindPersistenceUnavailable {
		t.Errorf("error code = %q, want %q", code, KindPersistenceUnavailable)
	}
}

func TestAdminExposureReports(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	started := e.startTest(t)
	e.completeTest(t, started)

	status, envl := e.do(t, http.MethodGet, "/api/v1/admin/exposure", nil)
	if status != http.StatusOK {
		t.Fatalf("exposure status = %d, want 200", status)
	}
	if envl.Data == nil {
		t.Error("exposure report data missing")
	}

	status, envl = e.do(t, http.MethodGet, "/api/v1/admin/exposure/expansion", nil)
	if status != http.StatusOK {
		t.Fatalf("expansion status = %d, want 200", status)
	}
	if envl.Data == nil {
		t.Error("expansion report data missing")
	}
}

func TestAdminCleanupSweepsExpired(t *testing.T) {
	t.Parallel()
	e := newEnv(t, envConfig{ttl: 30 * time.Millisecond})

	e.startTest(t)
	time.Sleep(80 * time.Millisecond)

	status, envl := e.do(t, http.MethodPost, "/api/v1/admin/cleanup", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	var out CleanupResponse
	decodeData(t, envl.Data, &out)
	if out.ExpiredSessions < 1 {
		t.Errorf("expired_sessions = %d, want >= 1", out.ExpiredSessions)
	}

	tests, _ := e.sessions.LiveCount()
	if tests != 0 {
		t.Errorf("live tests after cleanup = %d, want 0", tests)
	}
}

func TestAdminRecalibrateWithoutEngine(t *testing.T) {
	t.Parallel()
	e := newEnv(t, envConfig{noCalibrator: true})

	status, envl := e.do(t, http.MethodPost, "/api/v1/admin/recalibrate", nil)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", status)
	}
	if code := errCode(t, envl); code != KindPersistenceUnavailable {
		t.Errorf("error code = %q, want %q", code, KindPersistenceUnavailable)
	}
}

func TestAdminRecalibrateSummarizes(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	started := e.startTest(t)
	e.completeTest(t, started)

	status, envl := e.do(t, http.MethodPost, "/api/v1/admin/recalibrate", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d (%+v), want 200", status, envl.Error)
	}
	var sum calibrate.Summary
	decodeData(t, envl.Data, &sum)

	if sum.TotalSessions != 1 {
		t.Errorf("total_sessions = %d, want 1", sum.TotalSessions)
	}
	// One observation per item is far below the calibration floor, so
	// everything must be skipped and nothing published.
	if sum.Candidates != 0 {
		t.Errorf("candidates = %d, want 0", sum.Candidates)
	}
	if sum.Skipped == 0 {
		t.Error("skipped = 0, want > 0")
	}
	if sum.Published {
		t.Error("published = true, want false")
	}
}

func TestAdminPerformanceStats(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	status, envl := e.do(t, http.MethodGet, "/api/v1/admin/performance", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if envl.Data == nil {
		t.Error("performance data missing")
	}
}

func TestLiveFeedUnavailableWithoutHub(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	status, envl := e.do(t, http.MethodGet, "/api/v1/admin/live", nil)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", status)
	}
	if code := errCode(t, envl); code != KindPersistenceUnavailable {
		t.Errorf("error code = %q, want %q", code, KindPersistenceUnavailable)
	}
}

func TestLiveFeedStreamsEvents(t *testing.T) {
	t.Parallel()
	e := newEnv(t, envConfig{withHub: true})

	wsURL := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/api/v1/admin/live"
	header := http.Header{"Origin": []string{"http://localhost"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()
	if resp != nil {
		resp.Body.Close()
	}

	// Wait for the hub to register the client before triggering the
	// event, otherwise the broadcast can race the registration.
	deadline := time.Now().Add(2 * time.Second)
	for e.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	started := e.startTest(t)

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	var msg live.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if msg.Type != live.MessageTypeTestStarted {
		t.Errorf("event type = %q, want %q", msg.Type, live.MessageTypeTestStarted)
	}

	var data live.TestStartedData
	decodeData(t, msg.Data, &data)
	if data.SessionID != started.SessionID {
		t.Errorf("event session_id = %q, want %q", data.SessionID, started.SessionID)
	}
}

func TestLiveFeedRejectsMissingOrigin(t *testing.T) {
	t.Parallel()
	e := newEnv(t, envConfig{withHub: true})

	wsURL := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/api/v1/admin/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatal("dial without Origin succeeded, want rejection")
	}
	if resp != nil {
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("handshake status = %d, want 403", resp.StatusCode)
		}
		resp.Body.Close()
	}
}
