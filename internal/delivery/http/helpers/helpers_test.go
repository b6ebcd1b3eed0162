package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func decodeAPIError(t *testing.T, rr *httptest.ResponseRecorder) *APIError {
	t.Helper()
	var body APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Nil(t, body.Data)
	return body.Error
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"event not found", domain.ErrEventNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"wrapped participant not found", fmt.Errorf("load: %w", domain.ErrParticipantNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{"full", domain.ErrEventFull, http.StatusConflict, ErrCodeEventFull},
		{"not open", domain.ErrEventNotOpen, http.StatusConflict, ErrCodeEventNotOpen},
		{"duplicate", domain.ErrDuplicateRegistration, http.StatusConflict, ErrCodeDuplicateRegistration},
		{"transition", domain.ErrInvalidTransition, http.StatusConflict, ErrCodeInvalidTransition},
		{"has participants", domain.ErrEventHasParticipants, http.StatusConflict, ErrCodeEventHasParticipants},
		{"busy", domain.ErrAdmissionBusy, http.StatusServiceUnavailable, ErrCodeUnavailable},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			WriteDomainError(rr, req, testLogger, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			apiErr := decodeAPIError(t, rr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.NotContains(t, apiErr.Message, "pq:")
		})
	}
}

func TestWriteDomainError_validation(t *testing.T) {
	ve := domain.NewValidationError()
	ve.Add("quota", "must be at least 1")
	rr := httptest.NewRecorder()
	WriteDomainError(rr, httptest.NewRequest(http.MethodPatch, "/events/x", nil), testLogger, ve)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	apiErr := decodeAPIError(t, rr)
	assert.Equal(t, ErrCodeValidationFailed, apiErr.Code)
	assert.Equal(t, map[string]string{"quota": "must be at least 1"}, apiErr.Fields)
}

type pingRequest struct {
	Name string `json:"name"`
}

func (p pingRequest) Validate() []string {
	if p.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"valid", `{"name":"x"}`, true},
		{"empty body", ``, false},
		{"unknown field", `{"name":"x","extra":1}`, false},
		{"fails validate", `{"name":""}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dest pingRequest
			ok := DecodeAndValidate(rr, req, &dest)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Equal(t, ErrCodeBadRequest, decodeAPIError(t, rr).Code)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/events?page=3&page_size=500", nil)
	p := ParsePagination(req)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)

	p = ParsePagination(httptest.NewRequest(http.MethodGet, "/events?page=-1&page_size=abc", nil))
	assert.Equal(t, domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}, p)

	assert.Equal(t, PaginationMeta{Page: 1, PageSize: 20, Total: 41, TotalPages: 3}, NewPaginationMeta(1, 20, 41))
}
