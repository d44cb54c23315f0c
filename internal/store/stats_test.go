// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

// seedArchivedSession writes a completed session with n responses on
// consecutive item ids starting at firstItem.
func seedArchivedSession(t *testing.T, d *DB, id, userID string, finalTheta float64, firstItem, n int, at time.Time) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < n; i++ {
		resp := Response{
			SessionID:    id,
			ItemID:       firstItem + i,
			QuestionType: 1,
			IsCorrect:    i%2 == 0,
			ThetaAfter:   finalTheta,
			SEAfter:      0.3,
			SequenceIdx:  i,
			AnsweredAt:   at.Add(time.Duration(i) * time.Minute),
		}
		if err := d.AppendResponse(ctx, resp); err != nil {
			t.Fatalf("AppendResponse(%s/%d) error = %v", id, i, err)
		}
	}
	row := TestSession{
		ID:                id,
		UserID:            userID,
		StartedAt:         at,
		LastActivityAt:    at.Add(time.Duration(n) * time.Minute),
		CompletedAt:       at.Add(time.Duration(n) * time.Minute),
		FinalTheta:        finalTheta,
		FinalSE:           0.3,
		TerminationReason: "se_threshold",
	}
	if err := d.ArchiveTestSession(ctx, row); err != nil {
		t.Fatalf("ArchiveTestSession(%s) error = %v", id, err)
	}
}

func TestItemObservations(t *testing.T) {
	d := newTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 9, 14, 0, 0, 0, time.UTC)
	seedArchivedSession(t, d, "ts-1", "user-1", 0.8, 100, 3, at)
	seedArchivedSession(t, d, "ts-2", "user-2", -0.5, 101, 2, at)

	// An in-flight session must not contribute observations.
	if err := d.CreateTestSession(ctx, TestSession{ID: "ts-live", UserID: "user-3", StartedAt: at, LastActivityAt: at}); err != nil {
		t.Fatalf("CreateTestSession() error = %v", err)
	}
	if err := d.AppendResponse(ctx, Response{SessionID: "ts-live", ItemID: 100, QuestionType: 1, ThetaAfter: 2.0, SEAfter: 0.9, SequenceIdx: 0, AnsweredAt: at}); err != nil {
		t.Fatalf("AppendResponse(live) error = %v", err)
	}

	obs, err := d.ItemObservations(ctx)
	if err != nil {
		t.Fatalf("ItemObservations() error = %v", err)
	}

	// Items 100-102 from ts-1, 101-102 from ts-2.
	wantCounts := map[int]int{100: 1, 101: 2, 102: 2}
	if len(obs) != len(wantCounts) {
		t.Fatalf("len(obs) = %d, want %d", len(obs), len(wantCounts))
	}
	for itemID, want := range wantCounts {
		if got := len(obs[itemID]); got != want {
			t.Errorf("len(obs[%d]) = %d, want %d", itemID, got, want)
		}
	}
	for _, o := range obs[100] {
		if o.Theta != 0.8 {
			t.Errorf("obs[100] theta = %v, want session final 0.8", o.Theta)
		}
	}

	n, err := d.CompletedSessionCount(ctx)
	if err != nil {
		t.Fatalf("CompletedSessionCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CompletedSessionCount() = %d, want 2", n)
	}
}

func TestStats(t *testing.T) {
	d := newTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 10, 11, 0, 0, 0, time.UTC)
	if err := d.SaveUser(ctx, User{ID: "user-1", CreatedAt: at, LastActiveAt: at}); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	seedArchivedSession(t, d, "ts-1", "user-1", 1.0, 100, 4, at)
	seedArchivedSession(t, d, "ts-2", "user-1", 0.0, 200, 2, at)
	if err := d.CreateTestSession(ctx, TestSession{ID: "ts-live", UserID: "user-1", StartedAt: at, LastActivityAt: at}); err != nil {
		t.Fatalf("CreateTestSession() error = %v", err)
	}

	if err := d.SaveGoalSession(ctx, GoalSession{ID: "gs-1", UserID: "user-1", GoalID: "middle", TargetWordCount: 20, StartedAt: at, LastActivityAt: at}); err != nil {
		t.Fatalf("SaveGoalSession() error = %v", err)
	}
	if err := d.SaveLearnedWord(ctx, LearnedWord{SessionID: "gs-1", Word: "win", ReviewCount: 6, CorrectCount: 6, NextReviewAt: at, EaseFactor: 2.6, IntervalDays: 12, IsMastered: true, MasteredAt: at}); err != nil {
		t.Fatalf("SaveLearnedWord(mastered) error = %v", err)
	}
	if err := d.SaveLearnedWord(ctx, LearnedWord{SessionID: "gs-1", Word: "try", ReviewCount: 1, NextReviewAt: at, EaseFactor: 2.5}); err != nil {
		t.Fatalf("SaveLearnedWord(fresh) error = %v", err)
	}

	s, err := d.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if s.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1", s.TotalUsers)
	}
	if s.TotalSessions != 3 || s.CompletedSessions != 2 {
		t.Errorf("sessions = (%d, %d), want (3, 2)", s.TotalSessions, s.CompletedSessions)
	}
	if s.TotalResponses != 6 {
		t.Errorf("TotalResponses = %d, want 6", s.TotalResponses)
	}
	if s.GoalSessions != 1 || s.MasteredWords != 1 {
		t.Errorf("learning = (%d, %d), want (1, 1)", s.GoalSessions, s.MasteredWords)
	}
	if math.Abs(s.MeanTheta-0.5) > 1e-9 {
		t.Errorf("MeanTheta = %v, want 0.5", s.MeanTheta)
	}
	if math.Abs(s.MeanItemsPerTest-3.0) > 1e-9 {
		t.Errorf("MeanItemsPerTest = %v, want 3.0", s.MeanItemsPerTest)
	}
}

func TestPurgeStaleSessions(t *testing.T) {
	d := newTestStore(t)
	ctx := context.Background()

	old := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	// Stale incomplete session with one response.
	if err := d.CreateTestSession(ctx, TestSession{ID: "ts-stale", UserID: "user-1", StartedAt: old, LastActivityAt: old}); err != nil {
		t.Fatalf("CreateTestSession(stale) error = %v", err)
	}
	if err := d.AppendResponse(ctx, Response{SessionID: "ts-stale", ItemID: 1, QuestionType: 1, ThetaAfter: 0, SEAfter: 1, SequenceIdx: 0, AnsweredAt: old}); err != nil {
		t.Fatalf("AppendResponse(stale) error = %v", err)
	}

	// Fresh incomplete session survives.
	if err := d.CreateTestSession(ctx, TestSession{ID: "ts-fresh", UserID: "user-1", StartedAt: fresh, LastActivityAt: fresh}); err != nil {
		t.Fatalf("CreateTestSession(fresh) error = %v", err)
	}

	// Old but completed session survives.
	seedArchivedSession(t, d, "ts-done", "user-1", 0.2, 50, 2, old)

	purged, err := d.PurgeStaleSessions(ctx, cutoff)
	if err != nil {
		t.Fatalf("PurgeStaleSessions() error = %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	if _, err := d.GetTestSession(ctx, "ts-stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale session still present, err = %v", err)
	}
	responses, err := d.ListResponses(ctx, "ts-stale")
	if err != nil {
		t.Fatalf("ListResponses(stale) error = %v", err)
	}
	if len(responses) != 0 {
		t.Errorf("stale responses remain: %d", len(responses))
	}

	if _, err := d.GetTestSession(ctx, "ts-fresh"); err != nil {
		t.Errorf("fresh session was purged: %v", err)
	}
	if _, err := d.GetTestSession(ctx, "ts-done"); err != nil {
		t.Errorf("completed session was purged: %v", err)
	}
}
