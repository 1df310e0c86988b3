package middleware

import (
	"net/http"

	"cross-country/runflow/internal/auth"
	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
)

// SessionLookup resolves an admin session id
type SessionLookup interface {
	GetSession(sessionID string) (*common.AdminSession, error)
}

// AuthMiddleware attaches the admin session, if any, to the request context.
// The id comes from the session cookie or, for API clients, the X-Admin-Session header.
func AuthMiddleware(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := SessionIDFromRequest(r)
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.GetSession(sessionID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.SetAdminSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(constants.AdminSessionHeader); id != "" {
		return id
	}
	if cookie, err := r.Cookie(constants.AdminSessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
