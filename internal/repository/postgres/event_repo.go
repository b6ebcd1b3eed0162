package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

const eventColumns = `id, title, description, location, date, quota, status, poster_ref, creator_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var status string
	var poster sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Date, &e.Quota,
		&status, &poster, &e.CreatorID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = domain.EventStatus(status)
	if poster.Valid {
		e.PosterRef = &poster.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, date, quota, status, poster_ref, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.Date, e.Quota, string(e.Status),
		nullString(e.PosterRef), e.CreatorID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrEventNotFound
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var where []string
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CreatorID != "" {
		args = append(args, filter.CreatorID)
		where = append(where, fmt.Sprintf("creator_id = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + eventColumns + ` FROM events` + clause + ` ORDER BY date ASC, created_at ASC`
	if params.PageSize > 0 {
		args = append(args, params.PageSize, params.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// Unset fields bind as NULL and COALESCE keeps the stored value, so concurrent
// patches touching different columns do not overwrite each other.
func (r *eventRepository) UpdateDetails(ctx context.Context, id string, d domain.EventDetails, at time.Time) (*domain.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrEventNotFound
	}
	query := `
		UPDATE events
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			location = COALESCE($3, location),
			date = COALESCE($4, date),
			quota = COALESCE($5, quota),
			poster_ref = COALESCE($6, poster_ref),
			updated_at = $7
		WHERE id = $8
		RETURNING ` + eventColumns
	var date sql.NullTime
	if d.Date != nil {
		date = sql.NullTime{Time: *d.Date, Valid: true}
	}
	var quota sql.NullInt64
	if d.Quota != nil {
		quota = sql.NullInt64{Int64: int64(*d.Quota), Valid: true}
	}
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query,
		nullString(d.Title), nullString(d.Description), nullString(d.Location),
		date, quota, nullString(d.PosterRef), at, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, from, to domain.EventStatus, at time.Time) error {
	query := `UPDATE events SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.DB.ExecContext(ctx, query, string(to), at, id, string(from))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return domain.ErrEventHasParticipants
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
