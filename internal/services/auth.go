package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

type authService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	clock          domain.Clock
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService with the given repositories, hasher and token issuer.
func NewAuthService(userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	clock domain.Clock,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		hasher:         hasher,
		issuer:         issuer,
		clock:          clock,
		contextTimeout: timeout,
	}
}

// SignUp creates a student account.
func (s *authService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.createUser(ctx, email, password, name, domain.RoleStudent)
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("list roles: %w", err)
	}
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.Code
	}
	token, err := s.issuer.Issue(user.ID, user.Email, codes)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// CurrentUser returns the account of an authenticated actor. A token whose
// account no longer exists is treated as unauthorized.
func (s *authService) CurrentUser(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// EnsureOrganizer makes sure an account with the organizer role exists for email.
// An existing account keeps its password.
func (s *authService) EnsureOrganizer(ctx context.Context, email, password, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return s.createUser(ctx, email, password, name, domain.RoleOrganizer)
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.assignRole(ctx, user.ID, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) createUser(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	in := credentials{Email: normalizeEmail(email), Password: password, Name: strings.TrimSpace(name)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, in.Password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(in.Email, in.Name, s.clock.Now())
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.assignRole(ctx, user.ID, role); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) assignRole(ctx context.Context, userID string, role domain.Role) error {
	r, err := s.roleRepo.GetByCode(ctx, string(role))
	if err != nil {
		return fmt.Errorf("get role %q: %w", role, err)
	}
	if err := s.userRepo.AssignRole(ctx, userID, r.ID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
