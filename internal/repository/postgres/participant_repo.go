package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"campusevents/internal/domain"
)

const participantColumns = `id, event_id, name, nim, email, phone, jurusan, angkatan, status, created_at, updated_at`

// admitLockTimeout bounds how long an admission waits for the event row lock.
const admitLockTimeout = "3s"

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{DB: db}
}

func scanParticipant(row rowScanner) (*domain.Participant, error) {
	p := &domain.Participant{}
	var status string
	var jurusan, angkatan sql.NullString
	err := row.Scan(
		&p.ID, &p.EventID, &p.Name, &p.NIM, &p.Email, &p.Phone,
		&jurusan, &angkatan, &status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = domain.ParticipantStatus(status)
	if jurusan.Valid {
		p.Jurusan = &jurusan.String
	}
	if angkatan.Valid {
		p.Angkatan = &angkatan.String
	}
	return p, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listParticipants(ctx context.Context, q queryer, query string, args ...any) ([]*domain.Participant, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Admit serialises admissions per event by locking the event row for the
// duration of the transaction. Concurrent admissions for the same event queue
// on that lock and each sees the roster committed by the previous one.
func (r *participantRepository) Admit(ctx context.Context, eventID string, decide domain.AdmitFunc) (*domain.Participant, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, domain.ErrEventNotFound
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin admission: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SET LOCAL lock_timeout = '`+admitLockTimeout+`'`); err != nil {
		return nil, fmt.Errorf("set lock timeout: %w", err)
	}

	event, err := scanEvent(tx.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		if isContention(err) {
			return nil, domain.ErrConcurrencyConflict
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}

	roster, err := listParticipants(ctx, tx,
		`SELECT `+participantColumns+` FROM participants WHERE event_id = $1 ORDER BY created_at ASC, id ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	p, err := decide(event, roster)
	if err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO participants (event_id, name, nim, email, phone, jurusan, angkatan, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insert,
		p.EventID, p.Name, p.NIM, p.Email, p.Phone, nullString(p.Jurusan), nullString(p.Angkatan),
		string(p.Status), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		switch {
		case pqCode(err) == codeUniqueViolation:
			return nil, domain.ErrDuplicateRegistration
		case isContention(err):
			return nil, domain.ErrConcurrencyConflict
		}
		return nil, fmt.Errorf("insert participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isContention(err) {
			return nil, domain.ErrConcurrencyConflict
		}
		return nil, fmt.Errorf("commit admission: %w", err)
	}
	return p, nil
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrParticipantNotFound
	}
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return []*domain.Participant{}, nil
	}
	return listParticipants(ctx, r.DB,
		`SELECT `+participantColumns+` FROM participants WHERE event_id = $1 ORDER BY created_at ASC, id ASC`, eventID)
}

func (r *participantRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

func (r *participantRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ParticipantStatus, at time.Time) error {
	query := `UPDATE participants SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.DB.ExecContext(ctx, query, string(to), at, id, string(from))
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *participantRepository) MarkAttended(ctx context.Context, eventID string, ids []string, at time.Time) (int, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}
	query := `
		UPDATE participants
		SET status = $1, updated_at = $2
		WHERE event_id = $3 AND id = ANY($4) AND status = $5
	`
	result, err := r.DB.ExecContext(ctx, query,
		string(domain.ParticipantAttended), at, eventID, pq.Array(valid), string(domain.ParticipantRegistered),
	)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *participantRepository) CountHoldingByCreator(ctx context.Context, creatorID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM participants p
		INNER JOIN events e ON e.id = p.event_id
		WHERE e.creator_id = $1 AND p.status IN ($2, $3)
	`
	var n int
	err := r.DB.QueryRowContext(ctx, query, creatorID,
		string(domain.ParticipantRegistered), string(domain.ParticipantAttended),
	).Scan(&n)
	return n, err
}

func (r *participantRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Participant, error) {
	return listParticipants(ctx, r.DB,
		`SELECT `+participantColumns+` FROM participants WHERE email = $1 ORDER BY created_at DESC, id DESC`, email)
}

func (r *participantRepository) ListRecentByCreator(ctx context.Context, creatorID string, limit int) ([]*domain.Participant, error) {
	query := `
		SELECT p.id, p.event_id, p.name, p.nim, p.email, p.phone, p.jurusan, p.angkatan, p.status, p.created_at, p.updated_at
		FROM participants p
		INNER JOIN events e ON e.id = p.event_id
		WHERE e.creator_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2
	`
	return listParticipants(ctx, r.DB, query, creatorID, limit)
}
