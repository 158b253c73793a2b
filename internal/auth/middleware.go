// internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"agadirhub/internal/api"
	"agadirhub/internal/domain"
	"agadirhub/internal/store"
)

// CookieName is the session cookie set on login.
const CookieName = "token"

type contextKey struct{}

var userKey contextKey

// UserFrom returns the authenticated user injected by the middleware.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}

// WithUser places a user on the context. Exported for handler tests.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// Middleware authenticates requests from the session cookie or a bearer
// header and loads the acting user.
type Middleware struct {
	tokens *Tokens
	store  store.Store
	log    *zap.SugaredLogger
}

// NewMiddleware builds the authentication middleware.
func NewMiddleware(tokens *Tokens, st store.Store, log *zap.SugaredLogger) *Middleware {
	return &Middleware{tokens: tokens, store: st, log: log.With("component", "auth")}
}

// RequireAuth rejects requests without a valid token or with an inactive
// account, and injects the user into the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			api.Message(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}

		userID, err := m.tokens.Parse(tokenString)
		if err != nil {
			api.Message(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}

		user, err := m.store.User(r.Context(), userID)
		if err != nil {
			api.Message(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		if !user.IsActive {
			api.Message(w, http.StatusForbidden, "account is deactivated")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin rejects authenticated users without the admin role. It must
// be mounted after RequireAuth.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok || !user.IsAdmin() {
			api.Message(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
