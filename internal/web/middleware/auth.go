package middleware

import (
	"context"
	"net/http"

	apimw "github.com/mcoot/snakegame/internal/api/middleware"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/auth"
)

type contextKey string

const (
	userContextKey contextKey = "user"
)

// GetUser retrieves the signed-in user from the request context.
// Returns nil if nobody is signed in.
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// Username returns the signed-in user's name, or "" when anonymous
func Username(ctx context.Context) string {
	if user := GetUser(ctx); user != nil {
		return user.Username
	}
	return ""
}

// OptionalAuth resolves the session cookie when present. Pages render for
// anonymous visitors too; the user only changes what the nav shows.
func OptionalAuth(authService auth.ServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if user := userFromCookie(r, authService); user != nil {
				ctx = context.WithValue(ctx, userContextKey, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFromCookie(r *http.Request, authService auth.ServiceInterface) *model.User {
	cookie, err := r.Cookie(apimw.SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	_, user, err := authService.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return user
}
