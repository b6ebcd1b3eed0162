package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

const (
	testParticipantID  = "9a1d2c3b-4e5f-4a6b-8c7d-0e1f2a3b4c01"
	testParticipantID2 = "9a1d2c3b-4e5f-4a6b-8c7d-0e1f2a3b4c02"
)

var participantColumnNames = []string{"id", "event_id", "name", "nim", "email", "phone", "jurusan", "angkatan", "status", "created_at", "updated_at"}

func participantRows() *sqlmock.Rows {
	return sqlmock.NewRows(participantColumnNames)
}

func addParticipant(rows *sqlmock.Rows, id, nim string, status domain.ParticipantStatus) *sqlmock.Rows {
	return rows.AddRow(id, testEventID, "Name "+nim, nim, nim+"@campus.ac.id", "0812", "Informatika", nil, string(status), testTime, testTime)
}

func admitDecision(nim string) domain.AdmitFunc {
	return func(event *domain.Event, roster []*domain.Participant) (*domain.Participant, error) {
		for _, p := range roster {
			if p.NIM == nim && p.Status.Holds() {
				return nil, domain.ErrDuplicateRegistration
			}
		}
		if !domain.ComputeCapacity(event, roster).CanRegister {
			return nil, domain.ErrEventFull
		}
		return domain.NewParticipant(event.ID, domain.Registrant{Name: "Carol", NIM: nim, Email: "carol@campus.ac.id", Phone: "0813"}, testTime), nil
	}
}

func TestParticipantRepository_Admit(t *testing.T) {
	ctx := context.Background()

	expectLocked := func(mock sqlmock.Sqlmock, quota int, status domain.EventStatus, roster *sqlmock.Rows) {
		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs(testEventID).
			WillReturnRows(eventRow(sqlmock.NewRows(eventColumnNames), testEventID, quota, status))
		mock.ExpectQuery(`FROM participants WHERE event_id = \$1 ORDER BY created_at ASC, id ASC`).
			WithArgs(testEventID).
			WillReturnRows(roster)
	}

	tests := []struct {
		name    string
		eventID string
		nim     string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		errIs   error
	}{
		{
			name:    "admits when a slot remains",
			eventID: testEventID,
			nim:     "C1",
			mock: func(mock sqlmock.Sqlmock) {
				expectLocked(mock, 2, domain.EventStatusPublished, addParticipant(participantRows(), testParticipantID, "A1", domain.ParticipantRegistered))
				mock.ExpectQuery(`INSERT INTO participants`).
					WithArgs(testEventID, "Carol", "C1", "carol@campus.ac.id", "0813", nil, nil, "REGISTERED", testTime, testTime).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testParticipantID2))
				mock.ExpectCommit()
			},
			wantID: testParticipantID2,
		},
		{
			name:    "decision rejection rolls back",
			eventID: testEventID,
			nim:     "C1",
			mock: func(mock sqlmock.Sqlmock) {
				roster := addParticipant(participantRows(), testParticipantID, "A1", domain.ParticipantRegistered)
				expectLocked(mock, 1, domain.EventStatusPublished, roster)
				mock.ExpectRollback()
			},
			errIs: domain.ErrEventFull,
		},
		{
			name:    "missing event",
			eventID: testEventID,
			nim:     "C1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SET LOCAL lock_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`FOR UPDATE`).WithArgs(testEventID).WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			errIs: domain.ErrEventNotFound,
		},
		{
			name:    "lock timeout surfaces as conflict",
			eventID: testEventID,
			nim:     "C1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SET LOCAL lock_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`FOR UPDATE`).WillReturnError(&pq.Error{Code: "55P03"})
				mock.ExpectRollback()
			},
			errIs: domain.ErrConcurrencyConflict,
		},
		{
			name:    "unique index backstops duplicates",
			eventID: testEventID,
			nim:     "C1",
			mock: func(mock sqlmock.Sqlmock) {
				expectLocked(mock, 5, domain.EventStatusPublished, participantRows())
				mock.ExpectQuery(`INSERT INTO participants`).WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			errIs: domain.ErrDuplicateRegistration,
		},
		{
			name:    "serialization failure on commit surfaces as conflict",
			eventID: testEventID,
			nim:     "C1",
			mock: func(mock sqlmock.Sqlmock) {
				expectLocked(mock, 5, domain.EventStatusPublished, participantRows())
				mock.ExpectQuery(`INSERT INTO participants`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testParticipantID2))
				mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})
			},
			errIs: domain.ErrConcurrencyConflict,
		},
		{
			name:    "malformed event id",
			eventID: "abc",
			nim:     "C1",
			mock:    func(mock sqlmock.Sqlmock) {},
			errIs:   domain.ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewParticipantRepository(db)
			got, err := repo.Admit(ctx, tt.eventID, admitDecision(tt.nim))
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, got.ID)
				require.Equal(t, domain.ParticipantRegistered, got.Status)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestParticipantRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := addParticipant(participantRows(), testParticipantID, "A1", domain.ParticipantRegistered)
	rows = addParticipant(rows, testParticipantID2, "B1", domain.ParticipantAttended)
	mock.ExpectQuery(`FROM participants WHERE event_id = \$1`).WithArgs(testEventID).WillReturnRows(rows)

	got, err := NewParticipantRepository(db).ListByEventID(ctx, testEventID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0].NIM)
	require.NotNil(t, got[0].Jurusan)
	assert.Equal(t, "Informatika", *got[0].Jurusan)
	assert.Nil(t, got[0].Angkatan)
	assert.Equal(t, domain.ParticipantAttended, got[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`FROM participants WHERE id = \$1`).WithArgs(testParticipantID).WillReturnError(sql.ErrNoRows)

		_, err = NewParticipantRepository(db).GetByID(ctx, testParticipantID)
		require.ErrorIs(t, err, domain.ErrParticipantNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = NewParticipantRepository(db).GetByID(ctx, "p-1")
		require.ErrorIs(t, err, domain.ErrParticipantNotFound)
	})
}

func TestParticipantRepository_MarkAttended(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		ids  []string
		mock func(mock sqlmock.Sqlmock)
		want int
	}{
		{
			name: "only well-formed ids are sent",
			ids:  []string{testParticipantID, "garbage", testParticipantID2},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE participants\s+SET status = \$1, updated_at = \$2\s+WHERE event_id = \$3 AND id = ANY\(\$4\) AND status = \$5`).
					WithArgs("ATTENDED", testTime, testEventID, pq.Array([]string{testParticipantID, testParticipantID2}), "REGISTERED").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			want: 1,
		},
		{
			name: "nothing to do",
			ids:  []string{"garbage"},
			mock: func(mock sqlmock.Sqlmock) {},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			n, err := NewParticipantRepository(db).MarkAttended(ctx, testEventID, tt.ids, testTime)
			require.NoError(t, err)
			require.Equal(t, tt.want, n)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestParticipantRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE participants SET status = \$1, updated_at = \$2 WHERE id = \$3 AND status = \$4`).
					WithArgs("CANCELLED", testTime, testParticipantID, "REGISTERED").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "stale status",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE participants SET status`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			errIs: domain.ErrInvalidTransition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewParticipantRepository(db).UpdateStatus(ctx, testParticipantID, domain.ParticipantRegistered, domain.ParticipantCancelled, testTime)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestParticipantRepository_CreatorAggregates(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM participants p\s+INNER JOIN events e`).
		WithArgs(testCreatorID, "REGISTERED", "ATTENDED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`ORDER BY p.created_at DESC, p.id DESC\s+LIMIT \$2`).
		WithArgs(testCreatorID, 5).
		WillReturnRows(addParticipant(participantRows(), testParticipantID, "A1", domain.ParticipantRegistered))

	repo := NewParticipantRepository(db)
	n, err := repo.CountHoldingByCreator(ctx, testCreatorID)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	recent, err := repo.ListRecentByCreator(ctx, testCreatorID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_ListByEmail(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM participants WHERE email = \$1 ORDER BY created_at DESC, id DESC`).
		WithArgs("alice@campus.ac.id").
		WillReturnRows(addParticipant(participantRows(), testParticipantID, "A1", domain.ParticipantAttended))

	got, err := NewParticipantRepository(db).ListByEmail(ctx, "alice@campus.ac.id")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, testParticipantID, got[0].ID)
	assert.Equal(t, domain.ParticipantAttended, got[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
