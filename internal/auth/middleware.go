package auth

import (
	"context"
	"net/http"

	"github.com/sakif/blogstack/internal/flash"
	"github.com/sakif/blogstack/internal/model"
	"github.com/sakif/blogstack/internal/repository"
)

// contextKey is an unexported type for context keys so no other package can
// read or shadow the values this package stores.
type contextKey string

const userKey contextKey = "user"

// WithUser resolves the session cookie to a full user record and stores it
// in the request context. It never blocks a request: anonymous and
// invalid-cookie requests pass through with no user attached. Compose it
// globally so every handler and guard can call UserFromContext.
func WithUser(sessions *SessionService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := sessions.UserIDFromRequest(r); err == nil {
				if user, err := users.GetUserByID(r.Context(), userID); err == nil {
					ctx := context.WithValue(r.Context(), userKey, user)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects anonymous requests before the wrapped handler (and any
// store effect) runs, redirecting to the login page with a flash message.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			flash.Set(w, "You need to log in or register to do that.", flash.Error)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin aborts with 403 Forbidden unless the session belongs to an
// admin. Anonymous requests get the same 403 as non-admin sessions — the
// admin pages do not reveal whether logging in would have helped.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin {
			http.Error(w, "Access Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns (nil, false) for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// ContextWithUser returns a context carrying the given user. Exported for
// handler tests that exercise guarded handlers directly.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
