package domain

import (
	"context"
	"strings"
	"time"
)

// ParticipantStatus is the state of one registration record.
type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "REGISTERED"
	ParticipantAttended   ParticipantStatus = "ATTENDED"
	ParticipantCancelled  ParticipantStatus = "CANCELLED"
)

// ParseParticipantStatus accepts any casing and surrounding whitespace.
func ParseParticipantStatus(s string) (ParticipantStatus, bool) {
	st := ParticipantStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantRegistered, ParticipantAttended, ParticipantCancelled:
		return true
	}
	return false
}

// Holds reports whether a participant in this status occupies a quota slot.
func (s ParticipantStatus) Holds() bool {
	return s == ParticipantRegistered || s == ParticipantAttended
}

// CanTransitionTo encodes the participant state machine.
// CANCELLED is terminal; ATTENDED may be undone back to REGISTERED.
func (s ParticipantStatus) CanTransitionTo(next ParticipantStatus) bool {
	switch s {
	case ParticipantRegistered:
		return next == ParticipantAttended || next == ParticipantCancelled
	case ParticipantAttended:
		return next == ParticipantRegistered || next == ParticipantCancelled
	}
	return false
}

// Participant is a registration record against one event. It is not a user account.
// swagger:model Participant
type Participant struct {
	ID        string            `json:"id"`
	EventID   string            `json:"event_id"`
	Name      string            `json:"name"`
	NIM       string            `json:"nim"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Jurusan   *string           `json:"jurusan,omitempty"`
	Angkatan  *string           `json:"angkatan,omitempty"`
	Status    ParticipantStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Registrant is the payload a person submits to register for an event.
type Registrant struct {
	Name     string  `json:"name" validate:"required,max=255"`
	NIM      string  `json:"nim" validate:"required,max=50"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Phone    string  `json:"phone" validate:"required,max=20"`
	Jurusan  *string `json:"jurusan" validate:"omitempty,max=100"`
	Angkatan *string `json:"angkatan" validate:"omitempty,max=10"`
}

// Normalize trims fields and lower-cases the email. Blank optional fields become nil.
func (r Registrant) Normalize() Registrant {
	r.Name = strings.TrimSpace(r.Name)
	r.NIM = strings.TrimSpace(r.NIM)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Jurusan = trimOptional(r.Jurusan)
	r.Angkatan = trimOptional(r.Angkatan)
	return r
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// NewParticipant returns a REGISTERED participant. ID is set by the repository on admit.
func NewParticipant(eventID string, r Registrant, now time.Time) *Participant {
	return &Participant{
		EventID:   eventID,
		Name:      r.Name,
		NIM:       r.NIM,
		Email:     r.Email,
		Phone:     r.Phone,
		Jurusan:   r.Jurusan,
		Angkatan:  r.Angkatan,
		Status:    ParticipantRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AdmitFunc decides, while the event is held exclusively, whether a new participant
// may join the given roster. It returns the participant to insert or a rejection.
type AdmitFunc func(event *Event, roster []*Participant) (*Participant, error)

// ParticipantRepository defines the interface for participant storage.
type ParticipantRepository interface {
	// Admit loads the event and its roster, calls decide, and inserts the returned
	// participant, all under one serialization scope per event. A missing event
	// yields ErrEventNotFound; detected contention yields ErrConcurrencyConflict.
	Admit(ctx context.Context, eventID string, decide AdmitFunc) (*Participant, error)
	GetByID(ctx context.Context, id string) (*Participant, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Participant, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
	// UpdateStatus applies a single transition. It fails with ErrInvalidTransition
	// when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to ParticipantStatus, at time.Time) error
	// MarkAttended moves REGISTERED participants of eventID among ids to ATTENDED
	// and returns how many moved.
	MarkAttended(ctx context.Context, eventID string, ids []string, at time.Time) (int, error)
	// CountHoldingByCreator counts REGISTERED and ATTENDED participants across the creator's events.
	CountHoldingByCreator(ctx context.Context, creatorID string) (int, error)
	ListRecentByCreator(ctx context.Context, creatorID string, limit int) ([]*Participant, error)
	// ListByEmail returns every registration made with email, newest first.
	ListByEmail(ctx context.Context, email string) ([]*Participant, error)
}

// RosterFilter is the raw roster query; Status is parsed by the service.
type RosterFilter struct {
	Status string
	Search string
}

// RegistrationService defines admission and roster management.
type RegistrationService interface {
	Register(ctx context.Context, eventID string, r Registrant) (*Participant, error)
	CancelRegistration(ctx context.Context, eventID, participantID, nim string) (*Participant, error)
	ListParticipants(ctx context.Context, actor Actor, eventID string, filter RosterFilter) ([]*Participant, error)
	ExportRoster(ctx context.Context, actor Actor, eventID string) ([][]string, error)
	MarkAttended(ctx context.Context, actor Actor, eventID string, participantIDs []string) (int, error)
	UpdateParticipantStatus(ctx context.Context, actor Actor, eventID, participantID, status string) (*Participant, error)
}
