package domain

import (
	"context"
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusClosed    EventStatus = "CLOSED"
)

// ParseEventStatus accepts any casing and surrounding whitespace.
func ParseEventStatus(s string) (EventStatus, bool) {
	st := EventStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether an organizer may move an event from s to next.
// DRAFT and CLOSED may be published; only PUBLISHED may be closed. Nothing returns to DRAFT.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch next {
	case EventStatusPublished:
		return s == EventStatusDraft || s == EventStatusClosed
	case EventStatusClosed:
		return s == EventStatusPublished
	}
	return false
}

// Event is an organizer-owned happening with a participant quota.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Date        time.Time   `json:"date"`
	Quota       int         `json:"quota"`
	Status      EventStatus `json:"status"`
	PosterRef   *string     `json:"poster_ref,omitempty"`
	CreatorID   string      `json:"creator_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event. ID is set by the repository on create.
func NewEvent(in EventInput, creatorID string, now time.Time) *Event {
	status := in.Status
	if status == "" {
		status = EventStatusDraft
	}
	return &Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Date:        in.Date,
		Quota:       in.Quota,
		Status:      status,
		PosterRef:   in.PosterRef,
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// OwnedBy reports whether the actor is an organizer who created the event.
func (e *Event) OwnedBy(actor Actor) bool {
	return actor.IsOrganizer() && e.CreatorID == actor.ID
}

// EventInput is the payload for creating an event.
type EventInput struct {
	Title       string      `json:"title" validate:"required,max=255"`
	Description string      `json:"description" validate:"required"`
	Location    string      `json:"location" validate:"required,max=255"`
	Date        time.Time   `json:"date" validate:"required"`
	Quota       int         `json:"quota" validate:"min=1"`
	Status      EventStatus `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	PosterRef   *string     `json:"poster_ref" validate:"omitempty,max=512"`
}

// EventDetails is a partial update; nil fields are left unchanged.
type EventDetails struct {
	Title       *string
	Description *string
	Location    *string
	Date        *time.Time
	Quota       *int
	PosterRef   *string
}

// Normalize trims surrounding whitespace from text fields and upper-cases the status.
func (in EventInput) Normalize() EventInput {
	in.Status = EventStatus(strings.ToUpper(strings.TrimSpace(string(in.Status))))
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	return in
}

// InputOf returns the validatable fields of an existing event.
func InputOf(e *Event) EventInput {
	return EventInput{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Date:        e.Date,
		Quota:       e.Quota,
		PosterRef:   e.PosterRef,
	}
}

// Normalize trims surrounding whitespace from the set text fields.
func (d EventDetails) Normalize() EventDetails {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	d.Title = trim(d.Title)
	d.Description = trim(d.Description)
	d.Location = trim(d.Location)
	return d
}

// Apply copies the set fields onto e.
func (d EventDetails) Apply(e *Event) {
	if d.Title != nil {
		e.Title = strings.TrimSpace(*d.Title)
	}
	if d.Description != nil {
		e.Description = strings.TrimSpace(*d.Description)
	}
	if d.Location != nil {
		e.Location = strings.TrimSpace(*d.Location)
	}
	if d.Date != nil {
		e.Date = *d.Date
	}
	if d.Quota != nil {
		e.Quota = *d.Quota
	}
	if d.PosterRef != nil {
		v := *d.PosterRef
		e.PosterRef = &v
	}
}

// EventFilter narrows event listings. Zero values match everything.
type EventFilter struct {
	Status    EventStatus
	CreatorID string
}

// EventWithCapacity pairs an event with its derived accounting for display.
type EventWithCapacity struct {
	*Event
	Capacity Capacity `json:"capacity"`
}

// DashboardStats summarises an organizer's events.
type DashboardStats struct {
	TotalEvents        int            `json:"total_events"`
	ActiveEvents       int            `json:"active_events"`
	TotalParticipants  int            `json:"total_participants"`
	RecentParticipants []*Participant `json:"recent_participants"`
}

// Registration is one of a student's participations together with its event.
type Registration struct {
	*Participant
	Event *Event `json:"event"`
}

// StudentDashboard is a student's own registrations and the events still open to them.
type StudentDashboard struct {
	MyRegistrations []*Registration      `json:"my_registrations"`
	AvailableEvents []*EventWithCapacity `json:"available_events"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	// UpdateDetails writes only the fields set in d, stamps updatedAt and
	// returns the stored event.
	UpdateDetails(ctx context.Context, id string, d EventDetails, at time.Time) (*Event, error)
	// UpdateStatus moves the event from one status to another. It fails with
	// ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to EventStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for event management.
type EventService interface {
	CreateEvent(ctx context.Context, actor Actor, in EventInput) (*Event, error)
	GetEvent(ctx context.Context, actor Actor, eventID string) (*EventWithCapacity, error)
	ListEvents(ctx context.Context, actor Actor, status string, params PaginationParams) ([]*EventWithCapacity, int, error)
	UpdateEventDetails(ctx context.Context, actor Actor, eventID string, details EventDetails) (*Event, error)
	PublishEvent(ctx context.Context, actor Actor, eventID string) (*Event, error)
	CloseEvent(ctx context.Context, actor Actor, eventID string) (*Event, error)
	DeleteEvent(ctx context.Context, actor Actor, eventID string) error
	Dashboard(ctx context.Context, actor Actor) (*DashboardStats, error)
	StudentDashboard(ctx context.Context, actor Actor) (*StudentDashboard, error)
}
