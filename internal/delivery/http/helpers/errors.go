package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"campusevents/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrEventNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrParticipantNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrEventFull, http.StatusConflict, ErrCodeEventFull},
	{domain.ErrEventNotOpen, http.StatusConflict, ErrCodeEventNotOpen},
	{domain.ErrDuplicateRegistration, http.StatusConflict, ErrCodeDuplicateRegistration},
	{domain.ErrInvalidTransition, http.StatusConflict, ErrCodeInvalidTransition},
	{domain.ErrEventHasParticipants, http.StatusConflict, ErrCodeEventHasParticipants},
	{domain.ErrDuplicateEmail, http.StatusConflict, ErrCodeConflict},
	{domain.ErrAdmissionBusy, http.StatusServiceUnavailable, ErrCodeUnavailable},
}

// WriteDomainError renders err as an API error. Known domain errors keep their
// message; anything else is logged and reported as a generic 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if ve, ok := domain.IsValidationError(err); ok {
		WriteValidationError(w, ve.Fields)
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			WriteJSONError(w, m.status, m.code, m.target.Error())
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
