// Package memory holds process-local repositories. Admission is serialised with
// one mutex per event, so it is only safe for a single instance.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

// Store is the shared state behind the memory repositories.
type Store struct {
	mu           sync.RWMutex
	events       map[string]*domain.Event
	participants map[string]*domain.Participant
	byEvent      map[string][]string
	users        map[string]*domain.User
	roles        map[string]*domain.UserRole
	userRoles    map[string]map[string]struct{}

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewStore returns an empty store seeded with the student and organizer roles.
func NewStore() *Store {
	s := &Store{
		events:       make(map[string]*domain.Event),
		participants: make(map[string]*domain.Participant),
		byEvent:      make(map[string][]string),
		users:        make(map[string]*domain.User),
		roles:        make(map[string]*domain.UserRole),
		userRoles:    make(map[string]map[string]struct{}),
		locks:        make(map[string]*sync.Mutex),
	}
	for _, code := range []domain.Role{domain.RoleStudent, domain.RoleOrganizer} {
		r := &domain.UserRole{ID: uuid.NewString(), Code: string(code)}
		s.roles[r.Code] = r
	}
	return s
}

func (s *Store) eventLock(eventID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[eventID] = l
	}
	return l
}

func copyEvent(e *domain.Event) *domain.Event {
	c := *e
	if e.PosterRef != nil {
		v := *e.PosterRef
		c.PosterRef = &v
	}
	return &c
}

func copyParticipant(p *domain.Participant) *domain.Participant {
	c := *p
	if p.Jurusan != nil {
		v := *p.Jurusan
		c.Jurusan = &v
	}
	if p.Angkatan != nil {
		v := *p.Angkatan
		c.Angkatan = &v
	}
	return &c
}
