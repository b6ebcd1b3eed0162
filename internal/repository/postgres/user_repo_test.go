package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		errIs   error
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(email, password_hash, salt, name, created_at, updated_at\)`).
					WithArgs("alice@campus.ac.id", "hash", "salt", "Alice", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
			wantID: "user-uuid-1",
		},
		{
			name: "unique violation returns ErrDuplicateEmail",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := &domain.User{Email: "alice@campus.ac.id", PasswordHash: "hash", Salt: "salt", Name: "Alice", CreatedAt: now, UpdatedAt: now}
			err = NewUserRepository(db).Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, u.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
			WithArgs("alice@campus.ac.id").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "salt", "name", "created_at", "updated_at"}).
				AddRow("user-uuid-1", "alice@campus.ac.id", "hash", "salt", "Alice", now, now))

		u, err := NewUserRepository(db).GetByEmail(ctx, "alice@campus.ac.id")
		require.NoError(t, err)
		require.Equal(t, "user-uuid-1", u.ID)
		require.Equal(t, "salt", u.Salt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`FROM users`).WillReturnError(sql.ErrNoRows)

		_, err = NewUserRepository(db).GetByEmail(ctx, "nobody@campus.ac.id")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_AssignRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec(`INSERT INTO user_roles \(user_id, role_id\)`).
		WithArgs("user-1", "role-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewUserRepository(db).AssignRole(context.Background(), "user-1", "role-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
