// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package api provides standardized API response handling.
// All endpoints share one envelope so clients parse a single shape.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/dwkang/lexicat/internal/logging"
)

// APIResponse is the wrapper for every API endpoint. Exactly one of
// Data and Error is populated.
type APIResponse struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (null on error)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success)
	Error *APIError `json:"error,omitempty"`

	// Meta contains optional metadata about the response
	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError represents an error response. Code carries one of the
// machine-readable kinds from errors.go.
type APIError struct {
	// Code is a machine-readable error kind
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details interface{} `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta contains optional response metadata.
type APIMeta struct {
	// RequestID is the unique request identifier for tracing
	RequestID string `json:"request_id,omitempty"`

	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp"`

	// DurationMs is the request processing time in milliseconds
	DurationMs int64 `json:"duration_ms,omitempty"`
}

// ResponseWriter provides methods for writing standardized API responses.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeSuccess(http.StatusOK, data)
}

// Created writes a 201 Created response.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeSuccess(http.StatusCreated, data)
}

func (rw *ResponseWriter) writeSuccess(statusCode int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp:  time.Now(),
			DurationMs: time.Since(rw.startTime).Milliseconds(),
			RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		},
	}
	rw.writeJSON(statusCode, response)
}

// Error writes an error envelope for the given kind. The HTTP status
// is derived from the kind.
func (rw *ResponseWriter) Error(kind, message string) {
	rw.ErrorWithDetails(kind, message, nil)
}

// ErrorWithDetails writes an error envelope with additional details.
func (rw *ResponseWriter) ErrorWithDetails(kind, message string, details interface{}) {
	requestID := logging.RequestIDFromContext(rw.r.Context())

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:      kind,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: &APIMeta{
			Timestamp:  time.Now(),
			DurationMs: time.Since(rw.startTime).Milliseconds(),
			RequestID:  requestID,
		},
	}

	rw.writeJSON(StatusOf(kind), response)
}

// BadRequest writes a 400 bad_request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(KindBadRequest, message)
}

// BadRequestWithDetails writes a 400 bad_request error with details.
func (rw *ResponseWriter) BadRequestWithDetails(message string, details interface{}) {
	rw.ErrorWithDetails(KindBadRequest, message, details)
}

// Unauthorized writes a 401 unauthorized error.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.Error(KindUnauthorized, message)
}

// NotFound writes a 404 not_found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(KindNotFound, message)
}

// Conflict writes a 409 conflict error. The committed record travels
// in details so the client can reconcile without a second round trip.
func (rw *ResponseWriter) Conflict(message string, details interface{}) {
	rw.ErrorWithDetails(KindConflict, message, details)
}

// Gone writes a 410 gone error for expired sessions.
func (rw *ResponseWriter) Gone(message string) {
	rw.Error(KindGone, message)
}

// PoolExhausted writes a 422 pool_exhausted error.
func (rw *ResponseWriter) PoolExhausted(message string) {
	rw.Error(KindPoolExhausted, message)
}

// InvariantViolation writes a 500 invariant_violation error.
func (rw *ResponseWriter) InvariantViolation(message string) {
	rw.Error(KindInvariantViolation, message)
}

// PersistenceUnavailable writes a 503 persistence_unavailable error.
func (rw *ResponseWriter) PersistenceUnavailable(message string) {
	rw.Error(KindPersistenceUnavailable, message)
}

// Internal writes a 500 internal error.
func (rw *ResponseWriter) Internal(message string) {
	rw.Error(KindInternal, message)
}

// writeJSON writes the envelope with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess is a convenience function for writing success responses.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	NewResponseWriter(w, r).Success(data)
}

// WriteError is a convenience function for writing error responses.
func WriteError(w http.ResponseWriter, r *http.Request, kind, message string) {
	NewResponseWriter(w, r).Error(kind, message)
}
