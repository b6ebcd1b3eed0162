package helpers

import (
	"encoding/json"
	"net/http"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest            = "bad_request"
	ErrCodeValidationFailed      = "validation_failed"
	ErrCodeUnauthorized          = "unauthorized"
	ErrCodeForbidden             = "forbidden"
	ErrCodeNotFound              = "not_found"
	ErrCodeConflict              = "conflict"
	ErrCodeEventFull             = "event_full"
	ErrCodeEventNotOpen          = "event_not_open"
	ErrCodeDuplicateRegistration = "duplicate_registration"
	ErrCodeInvalidTransition     = "invalid_transition"
	ErrCodeEventHasParticipants  = "event_has_participants"
	ErrCodeUnavailable           = "unavailable"
	ErrCodeInternalError         = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// Fields is set only for validation failures.
// swagger:model APIError
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, APIResponse{Data: data})
}

// WriteJSONError writes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, APIResponse{Error: &APIError{Code: code, Message: message}})
}

// WriteValidationError writes a 422 carrying per-field messages.
func WriteValidationError(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, APIResponse{Error: &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "validation failed",
		Fields:  fields,
	}})
}

func writeJSON(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
