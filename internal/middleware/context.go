package middleware

import (
	"blogicum/internal/auth"
	"context"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const (
	userContextKey = contextKey("user")
	csrfContextKey = contextKey("csrf")
)

// UserInfo represents the essential user information stored in the session and request context.
type UserInfo struct {
	ID       int64
	Username string
	Role     string
}

// IsAuthenticated reports whether the request belongs to a logged-in user.
func (u *UserInfo) IsAuthenticated() bool {
	return u != nil && u.ID != 0
}

var anonymous = &UserInfo{Role: auth.RoleAnonymous}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return anonymous
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}

// CSRFToken returns the token forms must echo back, empty when CSRF
// protection is off.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey).(string)
	return token
}

// TemplateData adds the per-request values every page needs to data.
func TemplateData(ctx context.Context, data map[string]interface{}) map[string]interface{} {
	if data == nil {
		data = make(map[string]interface{})
	}
	user := GetUserInfo(ctx)
	if user.IsAuthenticated() {
		data["CurrentUser"] = user
	}
	data["CSRFToken"] = CSRFToken(ctx)
	return data
}
