package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"campusevents/internal/domain"
	"campusevents/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	t0         = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	organizer      = domain.Actor{ID: "org-1", Role: domain.RoleOrganizer}
	otherOrganizer = domain.Actor{ID: "org-2", Role: domain.RoleOrganizer}
	student        = domain.Actor{ID: "stu-1", Role: domain.RoleStudent}
)

// tickingClock returns a time one second later on every call.
type tickingClock struct {
	mu   sync.Mutex
	next time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, n domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, n)
	return p.err
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sent))
	for i, n := range p.sent {
		out[i] = n.Topic
	}
	return out
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.RegistrationEmailData
	err  error
}

func (f *fakeEmailService) SendRegistrationConfirmation(_ context.Context, data *domain.RegistrationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return f.err
}

// fakeLocker rejects the first conflicts acquisitions, then fails with err or grants.
type fakeLocker struct {
	mu        sync.Mutex
	conflicts int
	err       error
	calls     int
	released  int
}

func (l *fakeLocker) Acquire(_ context.Context, _ string) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.calls <= l.conflicts {
		return nil, domain.ErrConcurrencyConflict
	}
	if l.err != nil {
		return nil, l.err
	}
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
		return nil
	}, nil
}

// flakyParticipantRepo reports contention on the first conflicts Admit calls.
type flakyParticipantRepo struct {
	domain.ParticipantRepository
	conflicts int
	calls     int
}

func (r *flakyParticipantRepo) Admit(ctx context.Context, eventID string, decide domain.AdmitFunc) (*domain.Participant, error) {
	r.calls++
	if r.calls <= r.conflicts {
		return nil, domain.ErrConcurrencyConflict
	}
	return r.ParticipantRepository.Admit(ctx, eventID, decide)
}

type failingEventRepo struct {
	domain.EventRepository
	err error
}

func (r *failingEventRepo) GetByID(context.Context, string) (*domain.Event, error) {
	return nil, r.err
}

// staleEventRepo serves a fixed snapshot from GetByID, as a reader racing a writer would see.
type staleEventRepo struct {
	domain.EventRepository
	snapshot domain.Event
}

func (r *staleEventRepo) GetByID(context.Context, string) (*domain.Event, error) {
	e := r.snapshot
	return &e, nil
}

var errStorage = errors.New("storage unavailable")

type fixture struct {
	events       domain.EventRepository
	participants domain.ParticipantRepository
	publisher    *recordingPublisher
	email        *fakeEmailService
	clock        *tickingClock
	eventSvc     domain.EventService
	regSvc       domain.RegistrationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		events:       memory.NewEventRepository(store),
		participants: memory.NewParticipantRepository(store),
		publisher:    &recordingPublisher{},
		email:        &fakeEmailService{},
		clock:        &tickingClock{next: t0},
	}
	f.eventSvc = NewEventService(f.events, f.participants, f.publisher, nil, f.clock, testLogger, 5*time.Second)
	f.regSvc = f.registrationService(f.participants, nil)
	return f
}

func (f *fixture) registrationService(participants domain.ParticipantRepository, locker domain.AdmissionLocker) domain.RegistrationService {
	return NewRegistrationService(f.events, participants, f.email, f.publisher, locker, nil, f.clock, testLogger, 5*time.Second)
}

// createEvent stores an event owned by organizer in the given status.
func (f *fixture) createEvent(t *testing.T, quota int, status domain.EventStatus) *domain.Event {
	t.Helper()
	ctx := context.Background()
	in := domain.EventInput{
		Title:       "Seminar Nasional",
		Description: "Keynote and panel",
		Location:    "Aula Barat",
		Date:        t0.Add(14 * 24 * time.Hour),
		Quota:       quota,
		Status:      domain.EventStatusPublished,
	}
	if status == domain.EventStatusDraft {
		in.Status = domain.EventStatusDraft
	}
	e, err := f.eventSvc.CreateEvent(ctx, organizer, in)
	require.NoError(t, err)
	if status == domain.EventStatusClosed {
		e, err = f.eventSvc.CloseEvent(ctx, organizer, e.ID)
		require.NoError(t, err)
	}
	return e
}

func registrant(name, nim string) domain.Registrant {
	return domain.Registrant{
		Name:  name,
		NIM:   nim,
		Email: fmt.Sprintf("%s@students.campus.ac.id", nim),
		Phone: "081234567890",
	}
}

func (f *fixture) register(t *testing.T, eventID, name, nim string) *domain.Participant {
	t.Helper()
	p, err := f.regSvc.Register(context.Background(), eventID, registrant(name, nim))
	require.NoError(t, err)
	return p
}
