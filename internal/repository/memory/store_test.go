package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newEvent(t *testing.T, repo domain.EventRepository, quota int, status domain.EventStatus) *domain.Event {
	t.Helper()
	e := domain.NewEvent(domain.EventInput{
		Title: "Seminar", Description: "AI", Location: "Aula", Date: t0.Add(48 * time.Hour),
		Quota: quota, Status: status,
	}, "org-1", t0)
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func admitAll(nim string, at time.Time) domain.AdmitFunc {
	return func(event *domain.Event, roster []*domain.Participant) (*domain.Participant, error) {
		for _, p := range roster {
			if p.NIM == nim && p.Status.Holds() {
				return nil, domain.ErrDuplicateRegistration
			}
		}
		if !domain.ComputeCapacity(event, roster).CanRegister {
			return nil, domain.ErrEventFull
		}
		return domain.NewParticipant(event.ID, domain.Registrant{Name: nim, NIM: nim, Email: nim + "@x.id", Phone: "1"}, at), nil
	}
}

func TestParticipantRepository_AdmitConcurrent(t *testing.T) {
	s := NewStore()
	events := NewEventRepository(s)
	parts := NewParticipantRepository(s)
	e := newEvent(t, events, 1, domain.EventStatusPublished)

	const contenders = 50
	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := parts.Admit(context.Background(), e.ID, admitAll(fmt.Sprintf("N%d", i), t0))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	ok, full := 0, 0
	for err := range results {
		switch err {
		case nil:
			ok++
		case domain.ErrEventFull:
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, contenders-1, full)

	roster, err := parts.ListByEventID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestParticipantRepository_AdmitMissingEvent(t *testing.T) {
	parts := NewParticipantRepository(NewStore())
	_, err := parts.Admit(context.Background(), "missing", admitAll("A1", t0))
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestParticipantRepository_StatusAndAttendance(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	events := NewEventRepository(s)
	parts := NewParticipantRepository(s)
	e := newEvent(t, events, 5, domain.EventStatusPublished)
	other := newEvent(t, events, 5, domain.EventStatusPublished)

	a, err := parts.Admit(ctx, e.ID, admitAll("A1", t0))
	require.NoError(t, err)
	b, err := parts.Admit(ctx, e.ID, admitAll("B1", t0.Add(time.Minute)))
	require.NoError(t, err)
	x, err := parts.Admit(ctx, other.ID, admitAll("X1", t0))
	require.NoError(t, err)

	require.NoError(t, parts.UpdateStatus(ctx, b.ID, domain.ParticipantRegistered, domain.ParticipantCancelled, t0))
	require.ErrorIs(t, parts.UpdateStatus(ctx, b.ID, domain.ParticipantRegistered, domain.ParticipantAttended, t0), domain.ErrInvalidTransition)

	n, err := parts.MarkAttended(ctx, e.ID, []string{a.ID, b.ID, x.ID, "nope"}, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = parts.MarkAttended(ctx, e.ID, []string{a.ID}, t0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := parts.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantRegistered, got.Status)

	holding, err := parts.CountHoldingByCreator(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 2, holding)

	recent, err := parts.ListRecentByCreator(ctx, "org-1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, b.ID, recent[0].ID)
}

func TestEventRepository_DeleteRefusedWithParticipants(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	events := NewEventRepository(s)
	parts := NewParticipantRepository(s)
	e := newEvent(t, events, 5, domain.EventStatusPublished)
	empty := newEvent(t, events, 5, domain.EventStatusDraft)

	_, err := parts.Admit(ctx, e.ID, admitAll("A1", t0))
	require.NoError(t, err)

	require.ErrorIs(t, events.Delete(ctx, e.ID), domain.ErrEventHasParticipants)
	require.NoError(t, events.Delete(ctx, empty.ID))
	_, err = events.GetByID(ctx, empty.ID)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventRepository_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	events := NewEventRepository(NewStore())
	newEvent(t, events, 1, domain.EventStatusPublished)
	newEvent(t, events, 1, domain.EventStatusDraft)
	newEvent(t, events, 1, domain.EventStatusPublished)

	got, total, err := events.List(ctx, domain.EventFilter{Status: domain.EventStatusPublished}, domain.PaginationParams{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 1)

	got, total, err = events.List(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, got)
}

func TestEventRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	events := NewEventRepository(NewStore())
	e := newEvent(t, events, 3, domain.EventStatusDraft)

	got, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	got.Quota = 99

	again, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Quota)
}

func TestEventRepository_UpdateDetailsKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	events := NewEventRepository(NewStore())
	e := newEvent(t, events, 3, domain.EventStatusPublished)

	title := "Seminar Lanjutan"
	quota := 8
	var wg sync.WaitGroup
	for _, d := range []domain.EventDetails{{Title: &title}, {Quota: &quota}} {
		wg.Add(1)
		go func(d domain.EventDetails) {
			defer wg.Done()
			_, err := events.UpdateDetails(ctx, e.ID, d, t0.Add(time.Hour))
			assert.NoError(t, err)
		}(d)
	}
	wg.Wait()

	got, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, 8, got.Quota)
	assert.Equal(t, "Aula", got.Location)
	assert.Equal(t, domain.EventStatusPublished, got.Status)
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)

	_, err = events.UpdateDetails(ctx, "missing", domain.EventDetails{Title: &title}, t0)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestUserAndRoleRepositories(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	users := NewUserRepository(s)
	roles := NewRoleRepository(s)

	u := domain.NewUser("org@campus.ac.id", "Org", t0)
	require.NoError(t, users.Create(ctx, u))
	require.ErrorIs(t, users.Create(ctx, domain.NewUser("org@campus.ac.id", "Dup", t0)), domain.ErrDuplicateEmail)

	role, err := roles.GetByCode(ctx, "organizer")
	require.NoError(t, err)
	require.NoError(t, users.AssignRole(ctx, u.ID, role.ID))

	list, err := roles.ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "organizer", list[0].Code)

	_, err = roles.GetByCode(ctx, "admin")
	require.ErrorIs(t, err, domain.ErrRoleNotFound)
}
