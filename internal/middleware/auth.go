package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/taskminder/internal/auth"
	"github.com/dukerupert/taskminder/internal/model"
)

const SessionCookieName = "taskminder_session"

// SessionLookup resolves a cookie token to a live session, or nil.
type SessionLookup interface {
	GetByToken(token string) (*model.Session, error)
}

// RequireSession lets a request through only when its cookie names a live
// session, and attaches the owner's auth.Identity to the context.
func RequireSession(sessions SessionLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil {
				logger.Error("session lookup", "error", err, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if sess == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID:    sess.UserID,
				SessionID: sess.ID,
				ExpiresAt: sess.ExpiresAt,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
