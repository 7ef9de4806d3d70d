package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/snakegame/internal/api/apierr"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/auth"
	"github.com/mcoot/snakegame/internal/session"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

// SessionCookie is the cookie checked when no Authorization header is sent
const SessionCookie = "session"

// Auth creates authentication middleware
func Auth(authService auth.ServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			sess, user, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, sessionContextKey, sess)
			ctx = context.WithValue(ctx, userContextKey, user)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Token extracts the session token from the request. The Authorization
// header may carry the bare token or a "Bearer " prefixed one.
func Token(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
			return strings.TrimSpace(header[7:])
		}
		return header
	}

	// Fall back to cookie
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
