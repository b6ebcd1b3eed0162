package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"

	"github.com/google/uuid"
)

// UpdateEventRequest is the request body for PATCH /events/{eventID}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Date        *time.Time `json:"date"`
	Quota       *int       `json:"quota"`
	PosterRef   *string    `json:"poster_ref"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	if u.Title == nil && u.Description == nil && u.Location == nil && u.Date == nil && u.Quota == nil && u.PosterRef == nil {
		return []string{"at least one field is required"}
	}
	return nil
}

func (u UpdateEventRequest) details() domain.EventDetails {
	return domain.EventDetails{
		Title:       u.Title,
		Description: u.Description,
		Location:    u.Location,
		Date:        u.Date,
		Quota:       u.Quota,
		PosterRef:   u.PosterRef,
	}
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventWithCapacitySuccessResponse is the success envelope for GET /events/{eventID}.
type EventWithCapacitySuccessResponse struct {
	Data  *domain.EventWithCapacity `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ListEventsSuccessResponse is the success envelope for GET /events.
type ListEventsSuccessResponse struct {
	Data  helpers.Page[*domain.EventWithCapacity] `json:"data"`
	Error *helpers.APIError                       `json:"error"`
}

// DashboardSuccessResponse is the success envelope for GET /dashboard.
type DashboardSuccessResponse struct {
	Data  *domain.DashboardStats `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// StudentDashboardSuccessResponse is the GET /dashboard envelope for non-organizers.
type StudentDashboardSuccessResponse struct {
	Data  *domain.StudentDashboard `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Organizers create an event. Status defaults to DRAFT; only DRAFT or PUBLISHED may be given.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body domain.EventInput true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.EventInput
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events
// @Description Organizers see their own events in any status. Everyone else sees published events only.
// @Tags events
// @Produce json
// @Param status query string false "DRAFT, PUBLISHED or CLOSED"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), middleware.ActorFromContext(r.Context()), r.URL.Query().Get("status"), params)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewPage(events, params, total))
}

// GetEvent godoc
// @Summary Get an event with its capacity
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventWithCapacitySuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), middleware.ActorFromContext(r.Context()), eventID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Partial update of title, description, location, date, quota and poster. Lowering quota below the filled count keeps existing participants.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEventDetails(r.Context(), middleware.ActorFromContext(r.Context()), eventID, req.details())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// PublishEvent godoc
// @Summary Publish an event
// @Description Moves a DRAFT or CLOSED event to PUBLISHED, opening registration.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_transition"
// @Router /events/{eventID}/publish [post]
func (c *EventController) PublishEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.PublishEvent)
}

// CloseEvent godoc
// @Summary Close an event
// @Description Moves a PUBLISHED event to CLOSED. Further registrations fail with event_not_open.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_transition"
// @Router /events/{eventID}/close [post]
func (c *EventController) CloseEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.CloseEvent)
}

func (c *EventController) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, actor domain.Actor, eventID string) (*domain.Event, error),
) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	event, err := op(r.Context(), middleware.ActorFromContext(r.Context()), eventID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Only events that never had a participant can be deleted; close them instead.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: event_has_participants"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), middleware.ActorFromContext(r.Context()), eventID); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard godoc
// @Summary Caller dashboard
// @Description Organizers get event and participant totals across their events plus the five latest registrations.
// @Description Everyone else gets their own registrations and the published events still open to them (controllers.StudentDashboardSuccessResponse).
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DashboardSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /dashboard [get]
func (c *EventController) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if !actor.IsOrganizer() {
		dash, err := c.Service.StudentDashboard(r.Context(), actor)
		if err != nil {
			helpers.WriteDomainError(w, r, c.Logger, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, dash)
		return
	}
	stats, err := c.Service.Dashboard(r.Context(), actor)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// pathParam reads an id path value. Blank ids are a bad request; anything that
// is not a UUID cannot name a stored row and is reported as not found.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	if _, err := uuid.Parse(v); err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
		return "", false
	}
	return v, true
}
