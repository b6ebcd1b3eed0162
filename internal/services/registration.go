package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusevents/internal/domain"
	"campusevents/internal/monitoring"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxAdmissionAttempts = 3
	admissionBackoff     = 15 * time.Millisecond
)

var tracer = otel.Tracer("campusevents/internal/services")

type registrationService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	emailService    domain.EmailService
	publisher       domain.NotificationPublisher
	locker          domain.AdmissionLocker
	metrics         *monitoring.Metrics
	clock           domain.Clock
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewRegistrationService returns the RegistrationService. emailService,
// publisher, locker and metrics are optional and may be nil.
func NewRegistrationService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	emailService domain.EmailService,
	publisher domain.NotificationPublisher,
	locker domain.AdmissionLocker,
	metrics *monitoring.Metrics,
	clock domain.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		emailService:    emailService,
		publisher:       publisher,
		locker:          locker,
		metrics:         metrics,
		clock:           clock,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID string, r domain.Registrant) (p *domain.Participant, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "RegistrationService.Register",
		trace.WithAttributes(attribute.String("event.id", eventID)))
	start := time.Now()
	defer func() {
		s.metrics.ObserveAdmission(admissionOutcome(err), time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	event, err := loadEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}
	r = r.Normalize()
	if err := validateStruct(r); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		p, err = s.admit(ctx, event.ID, r)
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			break
		}
		s.metrics.IncAdmissionRetry()
		span.AddEvent("admission conflict", trace.WithAttributes(attribute.Int("attempt", attempt)))
		if attempt == maxAdmissionAttempts {
			s.logger.WarnContext(ctx, "admission gave up after contention", "event_id", event.ID, "attempts", attempt)
			return nil, domain.ErrAdmissionBusy
		}
		select {
		case <-ctx.Done():
			return nil, domain.ErrAdmissionBusy
		case <-time.After(time.Duration(attempt) * admissionBackoff):
		}
	}
	if err != nil {
		if isAdmissionRejection(err) {
			return nil, err
		}
		return nil, fmt.Errorf("admit participant: %w", err)
	}
	span.SetAttributes(attribute.String("participant.id", p.ID))

	s.sendConfirmation(ctx, event, p)
	publish(ctx, s.publisher, s.logger, domain.Notification{
		Topic:         domain.TopicParticipantRegistered,
		EventID:       p.EventID,
		ParticipantID: p.ID,
		Status:        string(p.Status),
		OccurredAt:    p.CreatedAt,
	})
	return p, nil
}

// admit runs one serialized check-and-insert for the event.
func (s *registrationService) admit(ctx context.Context, eventID string, r domain.Registrant) (*domain.Participant, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, eventID)
		switch {
		case errors.Is(err, domain.ErrConcurrencyConflict):
			return nil, err
		case err != nil:
			// Storage still serializes admission; the lock only spreads load.
			s.logger.WarnContext(ctx, "admission lock unavailable", "event_id", eventID, "err", err)
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					s.logger.WarnContext(ctx, "admission lock release failed", "event_id", eventID, "err", err)
				}
			}()
		}
	}
	return s.participantRepo.Admit(ctx, eventID, admissionDecision(r, s.clock.Now()))
}

// admissionDecision returns the check run against the locked roster. An event
// that is not open rejects every registrant, duplicates included.
func admissionDecision(r domain.Registrant, now time.Time) domain.AdmitFunc {
	return func(event *domain.Event, roster []*domain.Participant) (*domain.Participant, error) {
		capacity := domain.ComputeCapacity(event, roster)
		if !capacity.CanRegister && event.Status != domain.EventStatusPublished {
			return nil, domain.ErrEventNotOpen
		}
		for _, p := range roster {
			if p.Status.Holds() && p.NIM == r.NIM {
				return nil, domain.ErrDuplicateRegistration
			}
		}
		if !capacity.CanRegister {
			return nil, domain.ErrEventFull
		}
		return domain.NewParticipant(event.ID, r, now), nil
	}
}

func isAdmissionRejection(err error) bool {
	return errors.Is(err, domain.ErrEventNotFound) ||
		errors.Is(err, domain.ErrEventNotOpen) ||
		errors.Is(err, domain.ErrEventFull) ||
		errors.Is(err, domain.ErrDuplicateRegistration)
}

func admissionOutcome(err error) string {
	switch {
	case err == nil:
		return monitoring.OutcomeAdmitted
	case errors.Is(err, domain.ErrEventFull):
		return monitoring.OutcomeFull
	case errors.Is(err, domain.ErrEventNotOpen):
		return monitoring.OutcomeNotOpen
	case errors.Is(err, domain.ErrDuplicateRegistration):
		return monitoring.OutcomeDuplicate
	case errors.Is(err, domain.ErrAdmissionBusy):
		return monitoring.OutcomeBusy
	}
	if _, ok := domain.IsValidationError(err); ok {
		return monitoring.OutcomeInvalid
	}
	return monitoring.OutcomeError
}

func (s *registrationService) sendConfirmation(ctx context.Context, event *domain.Event, p *domain.Participant) {
	if s.emailService == nil {
		return
	}
	err := s.emailService.SendRegistrationConfirmation(ctx, &domain.RegistrationEmailData{
		Email:         p.Email,
		Name:          p.Name,
		NIM:           p.NIM,
		ParticipantID: p.ID,
		EventTitle:    event.Title,
		EventLocation: event.Location,
		EventDate:     event.Date,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "registration email failed", "participant_id", p.ID, "err", err)
	}
}

// CancelRegistration lets a registrant withdraw. The nim must match the
// participant, and only REGISTERED participants may cancel themselves.
func (s *registrationService) CancelRegistration(ctx context.Context, eventID, participantID, nim string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.loadParticipant(ctx, eventID, participantID)
	if err != nil {
		return nil, err
	}
	if p.NIM != strings.TrimSpace(nim) {
		return nil, domain.ErrParticipantNotFound
	}
	if p.Status != domain.ParticipantRegistered {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.setStatus(ctx, p, domain.ParticipantCancelled); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, domain.Notification{
		Topic:         domain.TopicParticipantCancelled,
		EventID:       p.EventID,
		ParticipantID: p.ID,
		Status:        string(p.Status),
		OccurredAt:    p.UpdatedAt,
	})
	return p, nil
}

func (s *registrationService) ListParticipants(ctx context.Context, actor domain.Actor, eventID string, filter domain.RosterFilter) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var status domain.ParticipantStatus
	if filter.Status != "" {
		st, ok := domain.ParseParticipantStatus(filter.Status)
		if !ok {
			ve := domain.NewValidationError()
			ve.Add("status", "must be one of REGISTERED, ATTENDED, CANCELLED")
			return nil, ve
		}
		status = st
	}
	event, err := loadOwnedEvent(ctx, s.eventRepo, actor, eventID)
	if err != nil {
		return nil, err
	}
	roster, err := s.participantRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return domain.FilterRoster(roster, status, filter.Search), nil
}

// ExportRoster returns the full roster as CSV records, header first.
func (s *registrationService) ExportRoster(ctx context.Context, actor domain.Actor, eventID string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := loadOwnedEvent(ctx, s.eventRepo, actor, eventID)
	if err != nil {
		return nil, err
	}
	roster, err := s.participantRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	roster = domain.FilterRoster(roster, "", "")
	records := make([][]string, 0, len(roster)+1)
	records = append(records, domain.RosterExportHeader)
	for _, p := range roster {
		records = append(records, domain.RosterRecord(p))
	}
	return records, nil
}

func (s *registrationService) MarkAttended(ctx context.Context, actor domain.Actor, eventID string, participantIDs []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := loadOwnedEvent(ctx, s.eventRepo, actor, eventID)
	if err != nil {
		return 0, err
	}
	if len(participantIDs) == 0 {
		return 0, nil
	}
	now := s.clock.Now()
	n, err := s.participantRepo.MarkAttended(ctx, event.ID, participantIDs, now)
	if err != nil {
		return 0, fmt.Errorf("mark attended: %w", err)
	}
	s.metrics.AddAttended(n)
	if n > 0 {
		publish(ctx, s.publisher, s.logger, domain.Notification{
			Topic:      domain.TopicParticipantsAttended,
			EventID:    event.ID,
			Status:     string(domain.ParticipantAttended),
			Count:      n,
			OccurredAt: now,
		})
	}
	return n, nil
}

func (s *registrationService) UpdateParticipantStatus(ctx context.Context, actor domain.Actor, eventID, participantID, status string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	to, ok := domain.ParseParticipantStatus(status)
	if !ok {
		ve := domain.NewValidationError()
		ve.Add("status", "must be one of REGISTERED, ATTENDED, CANCELLED")
		return nil, ve
	}
	event, err := loadOwnedEvent(ctx, s.eventRepo, actor, eventID)
	if err != nil {
		return nil, err
	}
	p, err := s.loadParticipant(ctx, event.ID, participantID)
	if err != nil {
		return nil, err
	}
	if p.Status == to {
		return p, nil
	}
	if !p.Status.CanTransitionTo(to) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.setStatus(ctx, p, to); err != nil {
		return nil, err
	}
	if to == domain.ParticipantAttended {
		s.metrics.AddAttended(1)
	}
	publish(ctx, s.publisher, s.logger, domain.Notification{
		Topic:         domain.TopicParticipantStatus,
		EventID:       p.EventID,
		ParticipantID: p.ID,
		Status:        string(p.Status),
		OccurredAt:    p.UpdatedAt,
	})
	return p, nil
}

// loadParticipant returns the participant only when it belongs to eventID.
func (s *registrationService) loadParticipant(ctx context.Context, eventID, participantID string) (*domain.Participant, error) {
	p, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	if p.EventID != eventID {
		return nil, domain.ErrParticipantNotFound
	}
	return p, nil
}

func (s *registrationService) setStatus(ctx context.Context, p *domain.Participant, to domain.ParticipantStatus) error {
	now := s.clock.Now()
	if err := s.participantRepo.UpdateStatus(ctx, p.ID, p.Status, to, now); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrParticipantNotFound) {
			return err
		}
		return fmt.Errorf("update participant status: %w", err)
	}
	s.metrics.IncTransition("participant", string(to))
	p.Status = to
	p.UpdatedAt = now
	return nil
}
