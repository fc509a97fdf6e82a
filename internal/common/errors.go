// Package common defines shared constants and sentinel errors used across
// the NoteVault service layers. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrSessionNotFound = errors.New("session not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Session-flow errors. ErrSessionExpired is expected control flow, not a
	// failure: it covers stale button presses and events that arrive for a
	// step other than the one the stored session is waiting on.
	ErrSessionExpired = errors.New("session expired")
	ErrSessionStore   = errors.New("session store unavailable")

	// Validation errors (recoverable, re-prompt the user).
	ErrUnknownFolder     = errors.New("unknown folder")
	ErrCategoryMismatch  = errors.New("category does not belong to folder")
	ErrUnsupportedFile   = errors.New("unsupported attachment type")
	ErrEmptyInput        = errors.New("empty input")
	ErrUnrecognizedEvent = errors.New("unrecognized action")

	// Content-transfer errors. Fetch and store failures stay distinct so the
	// caller can report which boundary broke.
	ErrTransferFetch = errors.New("attachment fetch failed")
	ErrTransferStore = errors.New("object storage write failed")

	// Record store / lifecycle errors.
	ErrRecordStore    = errors.New("record store unavailable")
	ErrRecordInactive = errors.New("record is revoked")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
