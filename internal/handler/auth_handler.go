package handler

import (
	"blogicum/internal/auth"
	"blogicum/internal/logger"
	"blogicum/internal/middleware"
	"blogicum/internal/service"
	"blogicum/internal/session"
	"blogicum/internal/view"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	users   service.UserServicer
	session session.Manager
	auth    *auth.Authenticator
	view    *view.View
	log     logger.Logger
}

// NewAuthHandler creates a new AuthHandler. a may be nil, which turns the
// OIDC endpoints off.
func NewAuthHandler(us service.UserServicer, sm session.Manager, a *auth.Authenticator, v *view.View, log logger.Logger) *AuthHandler {
	return &AuthHandler{users: us, session: sm, auth: a, view: v, log: log}
}

// logIn starts a fresh session for userID.
func (h *AuthHandler) logIn(r *http.Request, userID int64) error {
	if err := h.session.RenewToken(r.Context()); err != nil {
		return err
	}
	h.session.Put(r.Context(), session.UserIDKey, userID)
	return nil
}

// loginFormHandler shows the password login form.
func (h *AuthHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return render(w, r, h.view, "login.html", map[string]interface{}{
		"Next":        safeNext(r.URL.Query().Get("next")),
		"OIDCEnabled": h.auth != nil,
	})
}

// loginHandler checks the submitted credentials.
func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := r.PostFormValue("username")
	next := safeNext(r.PostFormValue("next"))

	user, err := h.users.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return render(w, r, h.view, "login.html", map[string]interface{}{
				"Username":    username,
				"Next":        next,
				"Error":       "Please enter a correct username and password.",
				"OIDCEnabled": h.auth != nil,
			})
		}
		return middleware.Internal(err, "Failed to log in")
	}

	if err := h.logIn(r, user.ID); err != nil {
		return middleware.Internal(err, "Failed to start session")
	}
	http.Redirect(w, r, next, http.StatusFound)
	return nil
}

// logoutHandler ends the session.
func (h *AuthHandler) logoutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.session.Destroy(r.Context()); err != nil {
		return middleware.Internal(err, "Failed to log out")
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// registerFormHandler shows the sign-up form.
func (h *AuthHandler) registerFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return render(w, r, h.view, "register.html", nil)
}

// registerHandler creates an account and logs it in.
func (h *AuthHandler) registerHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	renderErrors := func(errs map[string]string) *middleware.AppError {
		return render(w, r, h.view, "register.html", map[string]interface{}{
			"Username": username,
			"Email":    email,
			"Errors":   errs,
		})
	}
	if password != r.PostFormValue("password_confirm") {
		return renderErrors(map[string]string{"password_confirm": "The two password fields didn't match."})
	}

	created, err := h.users.Register(r.Context(), username, email, password)
	if err != nil {
		if errs, ok := service.FieldErrors(err); ok {
			return renderErrors(errs)
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			return renderErrors(map[string]string{"username": "A user with that username already exists."})
		}
		return middleware.Internal(err, "Failed to register")
	}

	if err := h.logIn(r, created.ID); err != nil {
		return middleware.Internal(err, "Failed to start session")
	}
	http.Redirect(w, r, profileURL(created.Username), http.StatusFound)
	return nil
}

// oidcLoginHandler redirects the user to the OIDC provider to log in.
// It keeps a random 'state' string in the session for CSRF protection.
func (h *AuthHandler) oidcLoginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return middleware.NotFound(errors.New("oidc login is not configured"))
	}
	state, err := randString(16)
	if err != nil {
		return middleware.Internal(err, "Failed to start login")
	}
	h.session.Put(r.Context(), session.OIDCStateKey, state)
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
	return nil
}

// oidcCallbackHandler is the redirect URL for the OIDC provider.
// It handles the code exchange and token verification, then logs the
// matching local account in.
func (h *AuthHandler) oidcCallbackHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return middleware.NotFound(errors.New("oidc login is not configured"))
	}
	// Verify the state parameter to prevent CSRF attacks.
	state := h.session.PopString(r.Context(), session.OIDCStateKey)
	if state == "" || r.URL.Query().Get("state") != state {
		return &middleware.AppError{Error: errors.New("state mismatch"), Message: "State did not match", Code: http.StatusBadRequest}
	}

	claims, err := h.auth.VerifyCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Login failed", Code: http.StatusUnauthorized}
	}

	user, err := h.users.FindOrCreateExternal(r.Context(), claims.Username(), claims.Email)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return &middleware.AppError{Error: err, Message: "This username belongs to a local account", Code: http.StatusConflict}
		}
		return serviceError(err, "Failed to provision account")
	}

	if err := h.logIn(r, user.ID); err != nil {
		return middleware.Internal(err, "Failed to start session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
