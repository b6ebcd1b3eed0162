package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusevents/internal/domain"
	"campusevents/internal/monitoring"
)

const (
	recentParticipantsLimit = 5
	availableEventsLimit    = 10
)

type eventService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	publisher       domain.NotificationPublisher
	metrics         *monitoring.Metrics
	clock           domain.Clock
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewEventService returns the EventService. publisher and metrics may be nil.
func NewEventService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	publisher domain.NotificationPublisher,
	metrics *monitoring.Metrics,
	clock domain.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		publisher:       publisher,
		metrics:         metrics,
		clock:           clock,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, actor domain.Actor, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.IsOrganizer() {
		return nil, domain.ErrForbidden
	}
	in = in.Normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	event := domain.NewEvent(in, actor.ID, s.clock.Now())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	if event.Status == domain.EventStatusPublished {
		s.publishEvent(ctx, domain.TopicEventPublished, event)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, actor domain.Actor, eventID string) (*domain.EventWithCapacity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := loadEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}
	// Drafts are invisible to everyone but their creator.
	if event.Status == domain.EventStatusDraft && !event.OwnedBy(actor) {
		return nil, domain.ErrEventNotFound
	}
	return s.withCapacity(ctx, event)
}

func (s *eventService) ListEvents(ctx context.Context, actor domain.Actor, status string, params domain.PaginationParams) ([]*domain.EventWithCapacity, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var filter domain.EventFilter
	if status != "" {
		st, ok := domain.ParseEventStatus(status)
		if !ok {
			ve := domain.NewValidationError()
			ve.Add("status", "must be one of DRAFT, PUBLISHED, CLOSED")
			return nil, 0, ve
		}
		filter.Status = st
	}
	if actor.IsOrganizer() {
		filter.CreatorID = actor.ID
	} else {
		if filter.Status != "" && filter.Status != domain.EventStatusPublished {
			return []*domain.EventWithCapacity{}, 0, nil
		}
		filter.Status = domain.EventStatusPublished
	}

	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	out := make([]*domain.EventWithCapacity, 0, len(events))
	for _, e := range events {
		ec, err := s.withCapacity(ctx, e)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ec)
	}
	return out, total, nil
}

func (s *eventService) UpdateEventDetails(ctx context.Context, actor domain.Actor, eventID string, details domain.EventDetails) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := loadOwnedEvent(ctx, s.eventRepo, actor, eventID)
	if err != nil {
		return nil, err
	}
	details = details.Normalize()
	// Field rules are independent, so a stale snapshot still validates the patch.
	details.Apply(event)
	if err := validateStruct(domain.InputOf(event)); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.UpdateDetails(ctx, event.ID, details, s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) PublishEvent(ctx context.Context, actor domain.Actor, eventID string) (*domain.Event, error) {
	return s.transition(ctx, actor, eventID, domain.EventStatusPublished, domain.TopicEventPublished)
}

func (s *eventService) CloseEvent(ctx context.Context, actor domain.Actor, eventID string) (*domain.Event, error) {
	return s.transition(ctx, actor, eventID, domain.EventStatusClosed, domain.TopicEventClosed)
}

func (s *eventService) transition(ctx context.Context, actor domain.Actor, eventID string, to domain.EventStatus, topic string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := loadOwnedEvent(ctx, s.eventRepo, actor, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(to) {
		return nil, domain.ErrInvalidTransition
	}
	now := s.clock.Now()
	if err := s.eventRepo.UpdateStatus(ctx, event.ID, event.Status, to, now); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	event.Status = to
	event.UpdatedAt = now
	s.metrics.IncTransition("event", string(to))
	s.publishEvent(ctx, topic, event)
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actor domain.Actor, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := loadOwnedEvent(ctx, s.eventRepo, actor, eventID)
	if err != nil {
		return err
	}
	n, err := s.participantRepo.CountByEventID(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if n > 0 {
		return domain.ErrEventHasParticipants
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		if errors.Is(err, domain.ErrEventHasParticipants) || errors.Is(err, domain.ErrEventNotFound) {
			return err
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) Dashboard(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.IsOrganizer() {
		return nil, domain.ErrForbidden
	}
	events, total, err := s.eventRepo.List(ctx, domain.EventFilter{CreatorID: actor.ID}, domain.PaginationParams{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	stats := &domain.DashboardStats{TotalEvents: total}
	for _, e := range events {
		if e.Status == domain.EventStatusPublished {
			stats.ActiveEvents++
		}
	}
	if stats.TotalParticipants, err = s.participantRepo.CountHoldingByCreator(ctx, actor.ID); err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	if stats.RecentParticipants, err = s.participantRepo.ListRecentByCreator(ctx, actor.ID, recentParticipantsLimit); err != nil {
		return nil, fmt.Errorf("list recent participants: %w", err)
	}
	if stats.RecentParticipants == nil {
		stats.RecentParticipants = []*domain.Participant{}
	}
	return stats, nil
}

// StudentDashboard matches registrations by the caller's account email. Open
// events the caller already holds a place in are left out of AvailableEvents.
func (s *eventService) StudentDashboard(ctx context.Context, actor domain.Actor) (*domain.StudentDashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}
	dash := &domain.StudentDashboard{
		MyRegistrations: []*domain.Registration{},
		AvailableEvents: []*domain.EventWithCapacity{},
	}

	holding := make(map[string]bool)
	if actor.Email != "" {
		mine, err := s.participantRepo.ListByEmail(ctx, actor.Email)
		if err != nil {
			return nil, fmt.Errorf("list registrations: %w", err)
		}
		events := make(map[string]*domain.Event)
		for _, p := range mine {
			e, ok := events[p.EventID]
			if !ok {
				e, err = s.eventRepo.GetByID(ctx, p.EventID)
				if errors.Is(err, domain.ErrEventNotFound) {
					continue
				}
				if err != nil {
					return nil, fmt.Errorf("get event: %w", err)
				}
				events[p.EventID] = e
			}
			dash.MyRegistrations = append(dash.MyRegistrations, &domain.Registration{Participant: p, Event: e})
			if p.Status.Holds() {
				holding[p.EventID] = true
			}
		}
	}

	open, _, err := s.eventRepo.List(ctx, domain.EventFilter{Status: domain.EventStatusPublished}, domain.PaginationParams{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	for _, e := range open {
		if len(dash.AvailableEvents) == availableEventsLimit {
			break
		}
		if holding[e.ID] {
			continue
		}
		ec, err := s.withCapacity(ctx, e)
		if err != nil {
			return nil, err
		}
		if ec.Capacity.CanRegister {
			dash.AvailableEvents = append(dash.AvailableEvents, ec)
		}
	}
	return dash, nil
}

func (s *eventService) withCapacity(ctx context.Context, event *domain.Event) (*domain.EventWithCapacity, error) {
	roster, err := s.participantRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return &domain.EventWithCapacity{Event: event, Capacity: domain.ComputeCapacity(event, roster)}, nil
}

func (s *eventService) publishEvent(ctx context.Context, topic string, event *domain.Event) {
	publish(ctx, s.publisher, s.logger, domain.Notification{
		Topic:      topic,
		EventID:    event.ID,
		Status:     string(event.Status),
		OccurredAt: event.UpdatedAt,
	})
}
