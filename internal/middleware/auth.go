package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/service"
)

// Session resolves the session cookie once per request and stores the
// session and its Caller in the context. Requests without a valid session
// continue as anonymous; a stale or forged cookie is cleared.
func Session(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			session, err := authService.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, service.ErrInvalidSession) {
					slog.Error("failed to resolve session", "error", err)
				}
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ctxkeys.Caller(r.Context()).Authenticated {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxkeys.Caller(r.Context())
		if !caller.Authenticated {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !caller.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]string{"error": message})
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
