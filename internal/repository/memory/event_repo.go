package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

type eventRepository struct {
	s *Store
}

func NewEventRepository(s *Store) domain.EventRepository {
	return &eventRepository{s: s}
}

func (r *eventRepository) Create(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = uuid.NewString()
	r.s.events[e.ID] = copyEvent(e)
	return nil
}

func (r *eventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return copyEvent(e), nil
}

func (r *eventRepository) List(_ context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	r.s.mu.RLock()
	matched := make([]*domain.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.CreatorID != "" && e.CreatorID != filter.CreatorID {
			continue
		}
		matched = append(matched, copyEvent(e))
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.Before(matched[j].Date)
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (r *eventRepository) UpdateDetails(_ context.Context, id string, d domain.EventDetails, at time.Time) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	d.Apply(e)
	e.UpdatedAt = at
	return copyEvent(e), nil
}

func (r *eventRepository) UpdateStatus(_ context.Context, id string, from, to domain.EventStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if e.Status != from {
		return domain.ErrInvalidTransition
	}
	e.Status = to
	e.UpdatedAt = at
	return nil
}

func (r *eventRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	if len(r.s.byEvent[id]) > 0 {
		return domain.ErrEventHasParticipants
	}
	delete(r.s.events, id)
	delete(r.s.byEvent, id)
	return nil
}
