package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusevents/internal/domain"
)

const (
	roleByCodeQuery = `SELECT id, code FROM roles WHERE code = $1`

	rolesByUserQuery = `
		SELECT r.id, r.code
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.code
	`
)

type roleRepository struct {
	DB *sql.DB
}

// NewRoleRepository returns a RoleRepository over the seeded roles table.
func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) GetByCode(ctx context.Context, code string) (*domain.UserRole, error) {
	var role domain.UserRole
	switch err := r.DB.QueryRowContext(ctx, roleByCodeQuery, code).Scan(&role.ID, &role.Code); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, domain.ErrRoleNotFound
	case err != nil:
		return nil, fmt.Errorf("get role %q: %w", code, err)
	}
	return &role, nil
}

func (r *roleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.UserRole, error) {
	rows, err := r.DB.QueryContext(ctx, rolesByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := []*domain.UserRole{}
	for rows.Next() {
		var role domain.UserRole
		if err := rows.Scan(&role.ID, &role.Code); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}
