package memory

import (
	"context"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) domain.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *userRepository) AssignRole(_ context.Context, userID, roleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	set, ok := r.s.userRoles[userID]
	if !ok {
		set = make(map[string]struct{})
		r.s.userRoles[userID] = set
	}
	set[roleID] = struct{}{}
	return nil
}

type roleRepository struct {
	s *Store
}

func NewRoleRepository(s *Store) domain.RoleRepository {
	return &roleRepository{s: s}
}

func (r *roleRepository) GetByCode(_ context.Context, code string) (*domain.UserRole, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.roles[code]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	c := *role
	return &c, nil
}

func (r *roleRepository) ListByUserID(_ context.Context, userID string) ([]*domain.UserRole, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.UserRole, 0)
	for _, role := range r.s.roles {
		if _, ok := r.s.userRoles[userID][role.ID]; ok {
			c := *role
			out = append(out, &c)
		}
	}
	return out, nil
}
