package middleware

import (
	"blogicum/internal/session"
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

// ErrCSRF is the page shown when a POST carries no valid token.
var ErrCSRF = &AppError{Message: "CSRF verification failed. Request aborted.", Code: http.StatusForbidden}

// CSRF protects against Cross-Site Request Forgery attacks. The token lives
// in the session and every POST must echo it in the csrf_token form field or
// the X-CSRF-Token header. Rejections are rendered through errorPage when
// it is set.
func CSRF(sm session.Manager, enabled bool, errorPage func(AppHandler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		var reject http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, ErrCSRF.Message, ErrCSRF.Code)
		})
		if errorPage != nil {
			reject = errorPage(func(http.ResponseWriter, *http.Request) *AppError { return ErrCSRF })
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sm.GetString(r.Context(), session.CSRFTokenKey)
			if token == "" {
				token = uuid.NewString()
				sm.Put(r.Context(), session.CSRFTokenKey, token)
			}

			if r.Method == http.MethodPost {
				sent := r.Header.Get("X-CSRF-Token")
				if sent == "" {
					sent = r.FormValue("csrf_token")
				}
				if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
					reject.ServeHTTP(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), csrfContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
