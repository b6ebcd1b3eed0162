package http

import (
	"context"
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
	"campusevents/internal/monitoring"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig carries the controllers and cross-cutting pieces NewRouter wires.
// MetricsHandler and Health are optional.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Metrics        *monitoring.Metrics
	MetricsHandler http.Handler
	Health         HealthCheck
	AllowedOrigins []string
	ServiceName    string

	Auth         *controllers.AuthController
	Events       *controllers.EventController
	Participants *controllers.ParticipantController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth

	// Auth
	mux.HandleFunc("POST /auth/signup", cfg.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)
	mux.HandleFunc("GET /users/me", auth(cfg.Auth.GetMe))

	// Events
	mux.HandleFunc("GET /events", cfg.Events.ListEvents)
	mux.HandleFunc("POST /events", auth(cfg.Events.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", cfg.Events.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", auth(cfg.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(cfg.Events.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/publish", auth(cfg.Events.PublishEvent))
	mux.HandleFunc("POST /events/{eventID}/close", auth(cfg.Events.CloseEvent))
	mux.HandleFunc("GET /dashboard", auth(cfg.Events.Dashboard))

	// Registration and roster
	mux.HandleFunc("POST /events/{eventID}/register", cfg.Participants.Register)
	mux.HandleFunc("POST /events/{eventID}/participants/{participantID}/cancel", cfg.Participants.CancelRegistration)
	mux.HandleFunc("GET /events/{eventID}/participants", auth(cfg.Participants.ListParticipants))
	mux.HandleFunc("GET /events/{eventID}/participants/export", auth(cfg.Participants.ExportParticipants))
	mux.HandleFunc("POST /events/{eventID}/participants/mark-attendance", auth(cfg.Participants.MarkAttendance))
	mux.HandleFunc("PUT /events/{eventID}/participants/{participantID}/status", auth(cfg.Participants.UpdateParticipantStatus))

	// Ops
	mux.HandleFunc("GET /healthz", healthz(cfg.Health))
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var h http.Handler = middleware.ResolveActor(cfg.Verifier, mux)
	h = middleware.LoggingMiddleware(cfg.Logger, cfg.Metrics, h)
	h = middleware.CORS(cfg.AllowedOrigins, h)
	return otelhttp.NewHandler(h, cfg.ServiceName)
}

func healthz(check HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "storage unavailable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
