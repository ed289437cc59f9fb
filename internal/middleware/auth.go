package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aimerkz/yatube/internal/auth"
	"github.com/aimerkz/yatube/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserKey is the context key for storing the authenticated user.
const UserKey contextKey = "user"

// UserResolver turns a session token into a user.
type UserResolver interface {
	UserFromToken(ctx context.Context, token string) (*models.User, error)
}

// WithUser returns ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// CurrentUser extracts the authenticated user from the context.
// Returns nil for guests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// GetUserID extracts the user ID from the context.
// Returns 0 if not found.
func GetUserID(ctx context.Context) int64 {
	if user := CurrentUser(ctx); user != nil {
		return user.ID
	}
	return 0
}

// LoadUser validates the token cookie if present and adds the user to the
// request context. Requests without a valid token continue as guests.
func LoadUser(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token != "" {
				if user, err := resolver.UserFromToken(r.Context(), token); err == nil {
					r = r.WithContext(WithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects guests to loginURL with the current path in "next".
func RequireAuth(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CurrentUser(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, LoginRedirect(loginURL, r.URL.RequestURI()), http.StatusFound)
		})
	}
}

// LoginRedirect builds "loginURL?next=path".
func LoginRedirect(loginURL, next string) string {
	return loginURL + "?" + url.Values{"next": {next}}.Encode()
}
