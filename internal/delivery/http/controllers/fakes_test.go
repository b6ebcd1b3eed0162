package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	eventID       = "4b0b2c5e-6f4c-4d1a-9a53-2f0d8a1c7e10"
	participantID = "9d6f1e2a-3b7c-4e8d-a1f0-5c2b7e9d4a31"
)

var (
	organizer = domain.Actor{ID: "org-1", Role: domain.RoleOrganizer}
	t0        = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

// newRequest builds a request carrying actor and the given path values (name, value pairs).
func newRequest(method, target, body string, actor domain.Actor, pathValues ...string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req.WithContext(middleware.SetActor(req.Context(), actor))
}

// decodeData unmarshals the envelope's data field into dest.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIError {
	t.Helper()
	var env helpers.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return *env.Error
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err       error
	event     *domain.Event
	withCap   *domain.EventWithCapacity
	list      []*domain.EventWithCapacity
	total     int
	dashboard *domain.DashboardStats
	student   *domain.StudentDashboard

	lastActor   domain.Actor
	lastEventID string
	lastInput   domain.EventInput
	lastDetails domain.EventDetails
	lastStatus  string
	lastParams  domain.PaginationParams
	lastOp      string
}

func (f *fakeEventService) CreateEvent(_ context.Context, actor domain.Actor, in domain.EventInput) (*domain.Event, error) {
	f.lastOp, f.lastActor, f.lastInput = "create", actor, in
	return f.event, f.err
}

func (f *fakeEventService) GetEvent(_ context.Context, actor domain.Actor, id string) (*domain.EventWithCapacity, error) {
	f.lastOp, f.lastActor, f.lastEventID = "get", actor, id
	return f.withCap, f.err
}

func (f *fakeEventService) ListEvents(_ context.Context, actor domain.Actor, status string, params domain.PaginationParams) ([]*domain.EventWithCapacity, int, error) {
	f.lastOp, f.lastActor, f.lastStatus, f.lastParams = "list", actor, status, params
	return f.list, f.total, f.err
}

func (f *fakeEventService) UpdateEventDetails(_ context.Context, actor domain.Actor, id string, d domain.EventDetails) (*domain.Event, error) {
	f.lastOp, f.lastActor, f.lastEventID, f.lastDetails = "update", actor, id, d
	return f.event, f.err
}

func (f *fakeEventService) PublishEvent(_ context.Context, actor domain.Actor, id string) (*domain.Event, error) {
	f.lastOp, f.lastActor, f.lastEventID = "publish", actor, id
	return f.event, f.err
}

func (f *fakeEventService) CloseEvent(_ context.Context, actor domain.Actor, id string) (*domain.Event, error) {
	f.lastOp, f.lastActor, f.lastEventID = "close", actor, id
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, actor domain.Actor, id string) error {
	f.lastOp, f.lastActor, f.lastEventID = "delete", actor, id
	return f.err
}

func (f *fakeEventService) Dashboard(_ context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	f.lastOp, f.lastActor = "dashboard", actor
	return f.dashboard, f.err
}

func (f *fakeEventService) StudentDashboard(_ context.Context, actor domain.Actor) (*domain.StudentDashboard, error) {
	f.lastOp, f.lastActor = "student-dashboard", actor
	return f.student, f.err
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	err          error
	participant  *domain.Participant
	participants []*domain.Participant
	rows         [][]string
	marked       int

	lastActor         domain.Actor
	lastEventID       string
	lastParticipantID string
	lastRegistrant    domain.Registrant
	lastNIM           string
	lastFilter        domain.RosterFilter
	lastIDs           []string
	lastStatus        string
}

func (f *fakeRegistrationService) Register(_ context.Context, eventID string, r domain.Registrant) (*domain.Participant, error) {
	f.lastEventID, f.lastRegistrant = eventID, r
	return f.participant, f.err
}

func (f *fakeRegistrationService) CancelRegistration(_ context.Context, eventID, participantID, nim string) (*domain.Participant, error) {
	f.lastEventID, f.lastParticipantID, f.lastNIM = eventID, participantID, nim
	return f.participant, f.err
}

func (f *fakeRegistrationService) ListParticipants(_ context.Context, actor domain.Actor, eventID string, filter domain.RosterFilter) ([]*domain.Participant, error) {
	f.lastActor, f.lastEventID, f.lastFilter = actor, eventID, filter
	return f.participants, f.err
}

func (f *fakeRegistrationService) ExportRoster(_ context.Context, actor domain.Actor, eventID string) ([][]string, error) {
	f.lastActor, f.lastEventID = actor, eventID
	return f.rows, f.err
}

func (f *fakeRegistrationService) MarkAttended(_ context.Context, actor domain.Actor, eventID string, ids []string) (int, error) {
	f.lastActor, f.lastEventID, f.lastIDs = actor, eventID, ids
	return f.marked, f.err
}

func (f *fakeRegistrationService) UpdateParticipantStatus(_ context.Context, actor domain.Actor, eventID, participantID, status string) (*domain.Participant, error) {
	f.lastActor, f.lastEventID, f.lastParticipantID, f.lastStatus = actor, eventID, participantID, status
	return f.participant, f.err
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	err          error
	user         *domain.User
	token        string
	lastEmail    string
	lastPassword string
	lastName     string
	lastActor    domain.Actor
}

func (f *fakeAuthService) SignUp(_ context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastPassword, f.lastName = email, password, name
	return f.user, f.err
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.token, f.user, f.err
}

func (f *fakeAuthService) EnsureOrganizer(_ context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastPassword, f.lastName = email, password, name
	return f.user, f.err
}

func (f *fakeAuthService) CurrentUser(_ context.Context, actor domain.Actor) (*domain.User, error) {
	f.lastActor = actor
	return f.user, f.err
}
