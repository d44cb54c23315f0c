// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package cat

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the session engine. The API layer maps
// them onto the wire error kinds.
var (
	// ErrPoolExhausted means no item survived selection under any
	// relaxation. It terminates the session cleanly.
	ErrPoolExhausted = errors.New("no eligible item in pool")

	// ErrTerminated is returned for operations on a finished session.
	ErrTerminated = errors.New("session already terminated")

	// ErrOutOfOrder is returned when a response references an item other
	// than the last issued one.
	ErrOutOfOrder = errors.New("response does not reference the last issued item")

	// ErrCorrupted means the posterior lost its integrates-to-one
	// invariant. The session is aborted; persisted responses survive.
	ErrCorrupted = errors.New("posterior invariant violated")
)

// DuplicateResponseError reports a second submission for an item that
// already has a committed response. The committed record travels with
// the error so the caller can return it alongside the conflict.
type DuplicateResponseError struct {
	Committed ResponseRecord
}

func (e *DuplicateResponseError) Error() string {
	return fmt.Sprintf("item %d already answered at sequence %d",
		e.Committed.ItemID, e.Committed.Sequence)
}
