//go:build unit

package service

import (
	"blogicum/internal/data"
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(users ...*data.User) (*UserService, *mockUserRepository) {
	repo := newMockUserRepository(users...)
	svc := NewUserService(repo)
	svc.cost = bcrypt.MinCost
	svc.now = fixedClock
	return svc, repo
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "correct horse" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	if _, err := svc.Register(ctx, "alice", "", "another password"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	got, err := svc.Authenticate(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, got.ID)
	}
	for _, tc := range []struct{ username, password string }{
		{"alice", "wrong password"},
		{"nobody", "correct horse"},
	} {
		if _, err := svc.Authenticate(ctx, tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("%s/%s: expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, repo := newTestUserService()

	_, err := svc.Register(context.Background(), "bad name!", "not-an-email", "short")
	fields, ok := FieldErrors(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"username", "email", "password"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("expected error for %s", field)
		}
	}
	if len(repo.users) != 0 {
		t.Error("no user may be created")
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, repo := newTestUserService(
		&data.User{ID: 1, Username: "alice"},
		&data.User{ID: 2, Username: "bob"},
	)
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, 2, "alice", ProfileInput{FirstName: "Mallory"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for someone else's profile, got %v", err)
	}
	if repo.updated != nil {
		t.Fatal("a refused update must not be written")
	}

	user, err := svc.UpdateProfile(ctx, 1, "alice", ProfileInput{FirstName: " Alice ", LastName: "Liddell", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.FullName() != "Alice Liddell" || repo.users[1].Email != "alice@example.com" {
		t.Errorf("unexpected user %+v", user)
	}

	if _, err := svc.UpdateProfile(ctx, 1, "alice", ProfileInput{Email: "nope"}); err == nil {
		t.Error("expected invalid email to be rejected")
	}
}

func TestUserService_FindOrCreateExternal(t *testing.T) {
	svc, repo := newTestUserService(&data.User{ID: 1, Username: "local", PasswordHash: "hash"})
	ctx := context.Background()

	first, err := svc.FindOrCreateExternal(ctx, "carol", "carol@example.com")
	if err != nil {
		t.Fatalf("FindOrCreateExternal failed: %v", err)
	}
	second, err := svc.FindOrCreateExternal(ctx, "carol", "carol@example.com")
	if err != nil {
		t.Fatalf("FindOrCreateExternal failed: %v", err)
	}
	if first.ID != second.ID || len(repo.users) != 2 {
		t.Errorf("expected the same account to be reused, got %d and %d", first.ID, second.ID)
	}

	if _, err := svc.FindOrCreateExternal(ctx, "local", ""); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("accounts with a password must not be taken over, got %v", err)
	}
}
