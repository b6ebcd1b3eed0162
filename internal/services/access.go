package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campusevents/internal/domain"
)

// loadOwnedEvent returns the event when actor is the organizer who created it.
// Role is checked before existence.
func loadOwnedEvent(ctx context.Context, repo domain.EventRepository, actor domain.Actor, eventID string) (*domain.Event, error) {
	if !actor.IsOrganizer() {
		return nil, domain.ErrForbidden
	}
	event, err := loadEvent(ctx, repo, eventID)
	if err != nil {
		return nil, err
	}
	if !event.OwnedBy(actor) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func loadEvent(ctx context.Context, repo domain.EventRepository, eventID string) (*domain.Event, error) {
	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// publish sends n and logs failures. Notifications never fail the operation.
func publish(ctx context.Context, p domain.NotificationPublisher, logger *slog.Logger, n domain.Notification) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, n); err != nil {
		logger.WarnContext(ctx, "publish notification failed", "topic", n.Topic, "event_id", n.EventID, "err", err)
	}
}
