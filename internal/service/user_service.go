package service

import (
	"blogicum/internal/data"
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

const (
	minPasswordLength = 8
	maxNameLength     = 150
)

// ProfileInput is the part of a profile its owner may change.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
}

// UserService provides business logic for accounts.
type UserService struct {
	users UserRepository
	now   Clock
	cost  int
}

// NewUserService creates a new UserService.
func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users, now: time.Now, cost: bcrypt.DefaultCost}
}

// Register creates a local account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*data.User, error) {
	verr := &ValidationError{}
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		verr.Add("username", "Enter a valid username of up to 150 letters, digits and @/./+/-/_ characters.")
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.Add("email", "Enter a valid email address.")
		}
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		verr.Add("password", "This password is too short. It must contain at least 8 characters.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	user := &data.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DateJoined:   stamp(s.now()),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*data.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrCreateExternal returns the account for a user signed in through an
// identity provider, creating it on first login. Accounts with a local
// password are never taken over.
func (s *UserService) FindOrCreateExternal(ctx context.Context, username, email string) (*data.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if user.PasswordHash != "" {
			return nil, ErrUsernameTaken
		}
		return user, nil
	case !errors.Is(err, data.ErrNotFound):
		return nil, err
	}
	if !usernamePattern.MatchString(username) {
		return nil, &ValidationError{Fields: map[string]string{"username": "The identity provider returned an unusable username."}}
	}
	user = &data.User{Username: username, Email: email, DateJoined: stamp(s.now())}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// GetByID returns the user with id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*data.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByUsername returns the user called username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*data.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// ProfileForEdit returns username's account if actorID owns it. Anyone else
// gets ErrNotFound, as if the page did not exist.
func (s *UserService) ProfileForEdit(ctx context.Context, actorID int64, username string) (*data.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if actorID == Anonymous || user.ID != actorID {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile changes the names and email of username's account.
func (s *UserService) UpdateProfile(ctx context.Context, actorID int64, username string, in ProfileInput) (*data.User, error) {
	user, err := s.ProfileForEdit(ctx, actorID, username)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if utf8.RuneCountInString(in.FirstName) > maxNameLength {
		verr.Add("first_name", "Ensure this value has at most 150 characters.")
	}
	if utf8.RuneCountInString(in.LastName) > maxNameLength {
		verr.Add("last_name", "Ensure this value has at most 150 characters.")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			verr.Add("email", "Enter a valid email address.")
		}
	}
	if err := verr.OrNil(); err != nil {
		return user, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes username's account along with their posts and comments.
func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}
