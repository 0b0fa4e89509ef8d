package middleware

import (
	"net/http"
	"net/url"

	"github.com/casbin/casbin/v2"
)

// LoginURL is where anonymous visitors are sent for protected routes.
const LoginURL = "/auth/login/"

// Authorizer creates a new middleware for authorization.
// It checks the user's role against the route policy using Casbin. Anonymous
// visitors who are refused are sent to the login page and come back after.
func Authorizer(e casbin.IEnforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserInfo(r.Context())

			allowed, err := e.Enforce(user.Role, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				if !user.IsAuthenticated() {
					http.Redirect(w, r, LoginURL+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
