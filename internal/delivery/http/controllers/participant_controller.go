package controllers

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// CancelRegistrationRequest is the request body for self-service cancellation.
type CancelRegistrationRequest struct {
	NIM string `json:"nim"`
}

// Validate implements Validator.
func (c CancelRegistrationRequest) Validate() []string {
	if strings.TrimSpace(c.NIM) == "" {
		return []string{"nim is required"}
	}
	return nil
}

// MarkAttendanceRequest is the request body for POST /events/{eventID}/participants/mark-attendance.
type MarkAttendanceRequest struct {
	ParticipantIDs []string `json:"participant_ids"`
}

// Validate implements Validator.
func (m MarkAttendanceRequest) Validate() []string {
	if m.ParticipantIDs == nil {
		return []string{"participant_ids is required"}
	}
	return nil
}

// MarkAttendanceResponse reports how many participants moved to ATTENDED.
type MarkAttendanceResponse struct {
	Updated int `json:"updated"`
}

// UpdateParticipantStatusRequest is the request body for PUT .../participants/{participantID}/status.
type UpdateParticipantStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (u UpdateParticipantStatusRequest) Validate() []string {
	if strings.TrimSpace(u.Status) == "" {
		return []string{"status is required"}
	}
	return nil
}

// ParticipantSuccessResponse is the success envelope for endpoints returning one participant.
type ParticipantSuccessResponse struct {
	Data  *domain.Participant `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ParticipantListSuccessResponse is the success envelope for roster listings.
type ParticipantListSuccessResponse struct {
	Data  []*domain.Participant `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// MarkAttendanceSuccessResponse is the success envelope for bulk attendance.
type MarkAttendanceSuccessResponse struct {
	Data  MarkAttendanceResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewParticipantController(logger *slog.Logger, svc domain.RegistrationService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for an event
// @Description Public endpoint. Admission is decided against the quota under a per-event lock; a confirmation email is sent on success.
// @Tags registration
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body domain.Registrant true "Registrant data"
// @Success 201 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: event_full, event_not_open or duplicate_registration"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /events/{eventID}/register [post]
func (c *ParticipantController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req domain.Registrant
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	participant, err := c.Service.Register(r.Context(), eventID, req)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, participant)
}

// CancelRegistration godoc
// @Summary Cancel a registration
// @Description Public endpoint. The registrant proves ownership with the NIM used at registration.
// @Tags registration
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param participantID path string true "Participant ID"
// @Param body body CancelRegistrationRequest true "NIM used at registration"
// @Success 200 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_transition"
// @Router /events/{eventID}/participants/{participantID}/cancel [post]
func (c *ParticipantController) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	participantID, ok := pathParam(w, r, "participantID")
	if !ok {
		return
	}
	var req CancelRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	participant, err := c.Service.CancelRegistration(r.Context(), eventID, participantID, req.NIM)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participant)
}

// ListParticipants godoc
// @Summary List an event's participants
// @Description Sorted by registration time. Search matches name, NIM or email, case-insensitively.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param status query string false "REGISTERED, ATTENDED or CANCELLED"
// @Param search query string false "Substring of name, NIM or email"
// @Success 200 {object} controllers.ParticipantListSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /events/{eventID}/participants [get]
func (c *ParticipantController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := domain.RosterFilter{Status: q.Get("status"), Search: q.Get("search")}
	participants, err := c.Service.ListParticipants(r.Context(), middleware.ActorFromContext(r.Context()), eventID, filter)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participants)
}

// ExportParticipants godoc
// @Summary Export the roster as CSV
// @Tags participants
// @Produce text/csv
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {string} string "CSV file"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/participants/export [get]
func (c *ParticipantController) ExportParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	rows, err := c.Service.ExportRoster(r.Context(), middleware.ActorFromContext(r.Context()), eventID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "participants-"+eventID+".csv"))
	w.WriteHeader(http.StatusOK)
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		// Headers are already sent.
		c.Logger.Error("write roster csv", "event_id", eventID, "error", err)
	}
}

// MarkAttendance godoc
// @Summary Mark participants as attended
// @Description Only REGISTERED participants of this event move; other ids are skipped.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body MarkAttendanceRequest true "Participant ids"
// @Success 200 {object} controllers.MarkAttendanceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/participants/mark-attendance [post]
func (c *ParticipantController) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req MarkAttendanceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	n, err := c.Service.MarkAttended(r.Context(), middleware.ActorFromContext(r.Context()), eventID, req.ParticipantIDs)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MarkAttendanceResponse{Updated: n})
}

// UpdateParticipantStatus godoc
// @Summary Set a participant's status
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param participantID path string true "Participant ID"
// @Param body body UpdateParticipantStatusRequest true "New status"
// @Success 200 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_transition"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /events/{eventID}/participants/{participantID}/status [put]
func (c *ParticipantController) UpdateParticipantStatus(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	participantID, ok := pathParam(w, r, "participantID")
	if !ok {
		return
	}
	var req UpdateParticipantStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	participant, err := c.Service.UpdateParticipantStatus(r.Context(), middleware.ActorFromContext(r.Context()), eventID, participantID, req.Status)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participant)
}
