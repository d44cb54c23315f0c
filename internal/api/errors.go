// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package api provides HTTP handlers for the Lexicat application.
//
// errors.go - wire error kinds and domain error translation
//
// Every failure crosses the wire as exactly one machine-readable kind
// plus a human message. The kinds are the full error vocabulary of the
// API; handlers never invent ad-hoc codes.
package api

import (
	"errors"
	"net/http"

	"github.com/dwkang/lexicat/internal/cat"
	"github.com/dwkang/lexicat/internal/learn"
	"github.com/dwkang/lexicat/internal/session"
	"github.com/dwkang/lexicat/internal/store"
)

// Error kinds carried in APIError.Code.
const (
	KindBadRequest             = "bad_request"
	KindUnauthorized           = "unauthorized"
	KindNotFound               = "not_found"
	KindConflict               = "conflict"
	KindGone                   = "gone"
	KindPoolExhausted          = "pool_exhausted"
	KindInvariantViolation     = "invariant_violation"
	KindPersistenceUnavailable = "persistence_unavailable"
	KindInternal               = "internal"
)

// kindStatus maps each kind to its HTTP status code.
var kindStatus = map[string]int{
	KindBadRequest:             http.StatusBadRequest,
	KindUnauthorized:           http.StatusUnauthorized,
	KindNotFound:               http.StatusNotFound,
	KindConflict:               http.StatusConflict,
	KindGone:                   http.StatusGone,
	KindPoolExhausted:          http.StatusUnprocessableEntity,
	KindInvariantViolation:     http.StatusInternalServerError,
	KindPersistenceUnavailable: http.StatusServiceUnavailable,
	KindInternal:               http.StatusInternalServerError,
}

// StatusOf returns the HTTP status for an error kind. Unknown kinds
// degrade to 500 rather than panic; they indicate a programming error.
func StatusOf(kind string) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeDomainError translates engine and store sentinels into wire
// errors. Call sites that need a more specific message handle their
// sentinel before falling through to this catch-all.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var dup *cat.DuplicateResponseError
	if errors.As(err, &dup) {
		rw.Conflict("Response already recorded for this item", dup.Committed)
		return
	}

	switch {
	case errors.Is(err, session.ErrNotFound):
		rw.NotFound("Session not found")
	case errors.Is(err, store.ErrNotFound):
		rw.NotFound("Not found")
	case errors.Is(err, session.ErrExpired):
		rw.Gone("Session expired")
	case errors.Is(err, session.ErrNotTerminated):
		rw.BadRequest("Test not completed yet")
	case errors.Is(err, cat.ErrPoolExhausted):
		rw.PoolExhausted("No eligible item remains in the pool")
	case errors.Is(err, cat.ErrTerminated):
		rw.BadRequest("Test already completed")
	case errors.Is(err, cat.ErrOutOfOrder):
		rw.BadRequest("Response does not reference the current item")
	case errors.Is(err, cat.ErrCorrupted):
		rw.InvariantViolation("Session state corrupted; prior responses are preserved")
	case errors.Is(err, store.ErrUnavailable):
		rw.PersistenceUnavailable("Persistence unavailable, please retry")
	case errors.Is(err, learn.ErrUnknownWord):
		rw.BadRequest("Word is not part of this goal")
	case errors.Is(err, learn.ErrBadRating):
		rw.BadRequest("Self rating must be between 0 and 3")
	case errors.Is(err, learn.ErrBadType):
		rw.BadRequest("Question type out of range")
	case errors.Is(err, learn.ErrGoalComplete):
		rw.Conflict("All goal words are already mastered", nil)
	default:
		rw.Internal("Internal error")
	}
}
