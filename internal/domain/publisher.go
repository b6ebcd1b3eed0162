package domain

import (
	"context"
	"time"
)

// Routing keys for domain notifications.
const (
	TopicParticipantRegistered = "participant.registered"
	TopicParticipantCancelled  = "participant.cancelled"
	TopicParticipantStatus     = "participant.status_changed"
	TopicParticipantsAttended  = "participants.attended"
	TopicEventPublished        = "event.published"
	TopicEventClosed           = "event.closed"
)

// Notification is the body published for every domain change.
type Notification struct {
	Topic         string    `json:"topic"`
	EventID       string    `json:"event_id"`
	ParticipantID string    `json:"participant_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	Count         int       `json:"count,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NotificationPublisher announces domain changes to other systems. Delivery is best effort.
type NotificationPublisher interface {
	Publish(ctx context.Context, n Notification) error
}

// AdmissionLocker serialises admission for one event across processes.
// Acquire fails with ErrConcurrencyConflict when another holder owns the lock.
type AdmissionLocker interface {
	Acquire(ctx context.Context, eventID string) (release func(context.Context) error, err error)
}
