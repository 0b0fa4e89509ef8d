package middleware

import (
	"blogicum/internal/auth"
	"blogicum/internal/data"
	"blogicum/internal/logger"
	"blogicum/internal/session"
	"context"
	"errors"
	"net/http"
)

// UserLookup loads the account behind a session.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*data.User, error)
}

// Authenticate puts the logged-in user, if any, into the request context.
// A session pointing at a deleted account is treated as logged out.
func Authenticate(sm session.Manager, users UserLookup, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sm.GetInt64(r.Context(), session.UserIDKey)
			if id == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if err != nil {
				if !errors.Is(err, data.ErrNotFound) {
					log.Error(err, "Failed to load session user")
				}
				sm.Remove(r.Context(), session.UserIDKey)
				next.ServeHTTP(w, r)
				return
			}

			info := &UserInfo{ID: user.ID, Username: user.Username, Role: auth.RoleAuthor}
			next.ServeHTTP(w, r.WithContext(SetUserInfo(r.Context(), info)))
		})
	}
}
