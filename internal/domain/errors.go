package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors returned by services and repositories. Callers match them with errors.Is.
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrEventNotOpen          = errors.New("event is not open for registration")
	ErrEventFull             = errors.New("event is full")
	ErrDuplicateRegistration = errors.New("nim already registered for this event")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrEventHasParticipants  = errors.New("event has participants")
	ErrAdmissionBusy         = errors.New("registration is busy, try again")
	ErrInvalidCredentials    = errors.New("invalid credentials")

	// ErrConcurrencyConflict signals that the per-event serialization detected
	// contention. The registration service retries on it and never returns it.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// ValidationError reports malformed input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records msg for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

// HasErrors reports whether any field was rejected.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns e as an error when it holds field errors, nil otherwise.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err wraps a *ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
