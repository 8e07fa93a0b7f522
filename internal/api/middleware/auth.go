package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/feltworks/poker-ledger/internal/api/apierr"
	"github.com/feltworks/poker-ledger/internal/services/auth"
)

type contextKey string

const sessionContextKey contextKey = "host_session"

// HostAuth creates middleware requiring a valid host session. Host
// actions (confirmations, deletions, player management) sit behind it;
// everything a player's phone touches stays open.
func HostAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("host_session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the host session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}
