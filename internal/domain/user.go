package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrRoleNotFound   = errors.New("role not found")
)

// User is an account that can sign in. Registrations do not require one.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, name string, createdAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// UserRole is a stored role row; Code is one of the Role values.
type UserRole struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed access tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string) (string, error)
}

// TokenVerifier verifies a token and resolves the caller it was issued to.
type TokenVerifier interface {
	Verify(token string) (Actor, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	AssignRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository defines the interface for role storage.
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*UserRole, error)
	ListByUserID(ctx context.Context, userID string) ([]*UserRole, error)
}

// AuthService defines sign up, login and organizer bootstrap.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	EnsureOrganizer(ctx context.Context, email, password, name string) (*User, error)
	// CurrentUser loads the account behind an authenticated actor.
	CurrentUser(ctx context.Context, actor Actor) (*User, error)
}
