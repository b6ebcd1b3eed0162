package middleware

import (
	"context"
	"net/http"
	"strings"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// SetActor returns a context carrying the caller.
func SetActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the caller, or an anonymous actor when none was set.
func ActorFromContext(ctx context.Context) domain.Actor {
	if a, ok := ctx.Value(actorKey).(domain.Actor); ok {
		return a
	}
	return domain.Anonymous()
}

// ResolveActor identifies the caller from an optional Bearer token. Requests
// without an Authorization header continue as anonymous; a malformed or
// rejected token is answered with 401.
func ResolveActor(verifier domain.TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			next.ServeHTTP(w, r.WithContext(SetActor(r.Context(), domain.Anonymous())))
			return
		}
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
			return
		}
		token := strings.TrimSpace(auth[len(prefix):])
		if token == "" {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
			return
		}
		actor, err := verifier.Verify(token)
		if err != nil {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(SetActor(r.Context(), actor)))
	})
}

// RequireAuth rejects anonymous callers with 401. It must run inside ResolveActor.
// Role checks are left to the services.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ActorFromContext(r.Context()).IsAuthenticated() {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}
