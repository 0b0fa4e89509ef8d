//go:build unit

package handler

import (
	"blogicum/internal/data"
	"blogicum/internal/logger"
	"blogicum/internal/service"
	"blogicum/internal/session"
	"blogicum/internal/view"
	"blogicum/web"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// mockSessionManager is a mock implementation of the session.Manager interface.
type mockSessionManager struct {
	destroyCalled bool
	renewCalled   bool
	values        map[string]interface{}
}

// Ensure mockSessionManager implements the session.Manager interface.
var _ session.Manager = (*mockSessionManager)(nil)

func newMockSessionManager() *mockSessionManager {
	return &mockSessionManager{values: make(map[string]interface{})}
}

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	m.values[key] = val
}
func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	s, _ := m.values[key].(string)
	return s
}
func (m *mockSessionManager) GetInt64(ctx context.Context, key string) int64 {
	n, _ := m.values[key].(int64)
	return n
}
func (m *mockSessionManager) PopString(ctx context.Context, key string) string {
	s := m.GetString(ctx, key)
	delete(m.values, key)
	return s
}
func (m *mockSessionManager) RenewToken(ctx context.Context) error {
	m.renewCalled = true
	return nil
}
func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.destroyCalled = true
	m.values = make(map[string]interface{})
	return nil
}
func (m *mockSessionManager) Remove(ctx context.Context, key string) { delete(m.values, key) }

// mockUserServicer answers every login with the same result.
type mockUserServicer struct {
	service.UserServicer
	user          *data.User
	authErr       error
	registerErr   error
	registerCalls int
}

func (m *mockUserServicer) Authenticate(ctx context.Context, username, password string) (*data.User, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.user, nil
}

func (m *mockUserServicer) Register(ctx context.Context, username, email, password string) (*data.User, error) {
	m.registerCalls++
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &data.User{ID: 7, Username: username, Email: email}, nil
}

func newTestView(t *testing.T) *view.View {
	t.Helper()
	v, err := view.New(web.TemplateFS)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	return v
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLogoutHandler(t *testing.T) {
	// Arrange
	mockSession := newMockSessionManager()
	mockSession.values[session.UserIDKey] = int64(3)
	// The authenticator is nil as the logout handler does not use it.
	authHandler := NewAuthHandler(&mockUserServicer{}, mockSession, nil, newTestView(t), logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout/", nil)
	rr := httptest.NewRecorder()

	// Act
	if appErr := authHandler.logoutHandler(rr, req); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr.Error)
	}

	// Assert
	if !mockSession.destroyCalled {
		t.Error("expected session.Destroy to be called, but it wasn't")
	}
	if rr.Code != http.StatusFound {
		t.Errorf("want status code %d; got %d", http.StatusFound, rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/" {
		t.Errorf("want redirect to '/'; got '%s'", got)
	}
}

func TestLoginHandler(t *testing.T) {
	testCases := []struct {
		name         string
		users        *mockUserServicer
		next         string
		wantStatus   int
		wantLocation string
		wantBody     string
		wantUserID   int64
	}{
		{
			name:         "valid credentials follow next",
			users:        &mockUserServicer{user: &data.User{ID: 5, Username: "alice"}},
			next:         "/posts/create/",
			wantStatus:   http.StatusFound,
			wantLocation: "/posts/create/",
			wantUserID:   5,
		},
		{
			name:         "offsite next is ignored",
			users:        &mockUserServicer{user: &data.User{ID: 5, Username: "alice"}},
			next:         "//evil.example/",
			wantStatus:   http.StatusFound,
			wantLocation: "/",
			wantUserID:   5,
		},
		{
			name:       "wrong password shows the form again",
			users:      &mockUserServicer{authErr: service.ErrInvalidCredentials},
			wantStatus: http.StatusOK,
			wantBody:   "Please enter a correct username and password.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sm := newMockSessionManager()
			h := NewAuthHandler(tc.users, sm, nil, newTestView(t), logger.Nop())

			req := formRequest("/auth/login/", url.Values{"username": {"alice"}, "password": {"secret"}, "next": {tc.next}})
			rr := httptest.NewRecorder()
			if appErr := h.loginHandler(rr, req); appErr != nil {
				t.Fatalf("unexpected error: %v", appErr.Error)
			}

			if rr.Code != tc.wantStatus {
				t.Errorf("want status %d; got %d", tc.wantStatus, rr.Code)
			}
			if tc.wantLocation != "" && rr.Header().Get("Location") != tc.wantLocation {
				t.Errorf("want redirect to %q; got %q", tc.wantLocation, rr.Header().Get("Location"))
			}
			if tc.wantBody != "" && !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Errorf("body does not contain %q", tc.wantBody)
			}
			if got := sm.GetInt64(context.Background(), session.UserIDKey); got != tc.wantUserID {
				t.Errorf("want session user %d; got %d", tc.wantUserID, got)
			}
			if tc.wantUserID != 0 && !sm.renewCalled {
				t.Error("expected the session token to be renewed on login")
			}
		})
	}
}

func TestRegisterHandler_PasswordMismatch(t *testing.T) {
	users := &mockUserServicer{}
	h := NewAuthHandler(users, newMockSessionManager(), nil, newTestView(t), logger.Nop())

	req := formRequest("/auth/register/", url.Values{
		"username":         {"bob"},
		"email":            {"bob@example.com"},
		"password":         {"long-enough-1"},
		"password_confirm": {"long-enough-2"},
	})
	rr := httptest.NewRecorder()
	if appErr := h.registerHandler(rr, req); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr.Error)
	}

	if users.registerCalls != 0 {
		t.Errorf("Register should not be called when the passwords differ")
	}
	if !strings.Contains(rr.Body.String(), "The two password fields didn&#39;t match.") {
		t.Errorf("expected the mismatch message in the body, got %s", rr.Body.String())
	}
}

func TestRegisterHandler_Success(t *testing.T) {
	users := &mockUserServicer{}
	sm := newMockSessionManager()
	h := NewAuthHandler(users, sm, nil, newTestView(t), logger.Nop())

	req := formRequest("/auth/register/", url.Values{
		"username":         {"bob"},
		"password":         {"long-enough"},
		"password_confirm": {"long-enough"},
	})
	rr := httptest.NewRecorder()
	if appErr := h.registerHandler(rr, req); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr.Error)
	}

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/profile/bob/" {
		t.Errorf("want redirect to /profile/bob/; got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if got := sm.GetInt64(context.Background(), session.UserIDKey); got != 7 {
		t.Errorf("want new user logged in; got session user %d", got)
	}
}

func TestOIDCHandlers_Disabled(t *testing.T) {
	h := NewAuthHandler(&mockUserServicer{}, newMockSessionManager(), nil, newTestView(t), logger.Nop())

	rr := httptest.NewRecorder()
	if appErr := h.oidcLoginHandler(rr, httptest.NewRequest(http.MethodGet, "/auth/oidc/login/", nil)); appErr == nil || appErr.Code != http.StatusNotFound {
		t.Errorf("want 404 from oidc login without a provider; got %+v", appErr)
	}
	if appErr := h.oidcCallbackHandler(rr, httptest.NewRequest(http.MethodGet, "/auth/oidc/callback/", nil)); appErr == nil || appErr.Code != http.StatusNotFound {
		t.Errorf("want 404 from oidc callback without a provider; got %+v", appErr)
	}
}

func TestSafeNext(t *testing.T) {
	testCases := map[string]string{
		"":                 "/",
		"/posts/1/":        "/posts/1/",
		"https://evil.com": "/",
		"//evil.com":       "/",
		"/\\evil.com":      "/",
	}
	for in, want := range testCases {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q; want %q", in, got, want)
		}
	}
}
