package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

type participantRepository struct {
	s *Store
}

func NewParticipantRepository(s *Store) domain.ParticipantRepository {
	return &participantRepository{s: s}
}

// Admit holds the event's mutex from the roster read through the insert.
func (r *participantRepository) Admit(ctx context.Context, eventID string, decide domain.AdmitFunc) (*domain.Participant, error) {
	lock := r.s.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	e, ok := r.s.events[eventID]
	if !ok {
		r.s.mu.RUnlock()
		return nil, domain.ErrEventNotFound
	}
	event := copyEvent(e)
	roster := r.rosterLocked(eventID)
	r.s.mu.RUnlock()

	p, err := decide(event, roster)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[eventID]; !ok {
		return nil, domain.ErrEventNotFound
	}
	p.ID = uuid.NewString()
	r.s.participants[p.ID] = copyParticipant(p)
	r.s.byEvent[eventID] = append(r.s.byEvent[eventID], p.ID)
	return p, nil
}

func (r *participantRepository) rosterLocked(eventID string) []*domain.Participant {
	ids := r.s.byEvent[eventID]
	out := make([]*domain.Participant, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyParticipant(r.s.participants[id]))
	}
	domain.SortRoster(out)
	return out
}

func (r *participantRepository) GetByID(_ context.Context, id string) (*domain.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.participants[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return copyParticipant(p), nil
}

func (r *participantRepository) ListByEventID(_ context.Context, eventID string) ([]*domain.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.rosterLocked(eventID), nil
}

func (r *participantRepository) CountByEventID(_ context.Context, eventID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.byEvent[eventID]), nil
}

func (r *participantRepository) UpdateStatus(_ context.Context, id string, from, to domain.ParticipantStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[id]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	if p.Status != from {
		return domain.ErrInvalidTransition
	}
	p.Status = to
	p.UpdatedAt = at
	return nil
}

func (r *participantRepository) MarkAttended(_ context.Context, eventID string, ids []string, at time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, id := range ids {
		p, ok := r.s.participants[id]
		if !ok || p.EventID != eventID || p.Status != domain.ParticipantRegistered {
			continue
		}
		p.Status = domain.ParticipantAttended
		p.UpdatedAt = at
		n++
	}
	return n, nil
}

func (r *participantRepository) creatorEvents(creatorID string) []string {
	var out []string
	for id, e := range r.s.events {
		if e.CreatorID == creatorID {
			out = append(out, id)
		}
	}
	return out
}

func (r *participantRepository) CountHoldingByCreator(_ context.Context, creatorID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, eventID := range r.creatorEvents(creatorID) {
		for _, id := range r.s.byEvent[eventID] {
			if r.s.participants[id].Status.Holds() {
				n++
			}
		}
	}
	return n, nil
}

func (r *participantRepository) ListByEmail(_ context.Context, email string) ([]*domain.Participant, error) {
	r.s.mu.RLock()
	out := make([]*domain.Participant, 0)
	for _, p := range r.s.participants {
		if p.Email == email {
			out = append(out, copyParticipant(p))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *participantRepository) ListRecentByCreator(_ context.Context, creatorID string, limit int) ([]*domain.Participant, error) {
	r.s.mu.RLock()
	var out []*domain.Participant
	for _, eventID := range r.creatorEvents(creatorID) {
		out = append(out, r.rosterLocked(eventID)...)
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []*domain.Participant{}
	}
	return out, nil
}
