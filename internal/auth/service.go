// Package auth implements account registration and login on top of the
// user store and the token signer.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/alfajores-platform/internal/store"
	"github.com/example/alfajores-platform/internal/tokens"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrMissingDisplayName = errors.New("display name is required")
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	Users  store.UserStore
	Tokens tokens.Service
}

// Session is the result of a successful register or login.
type Session struct {
	User        store.User
	AccessToken string
	ExpiresAt   time.Time
}

type RegisterParams struct {
	Email       string
	Password    string
	DisplayName string
}

func (s Service) Register(ctx context.Context, p RegisterParams) (Session, error) {
	email := normalizeEmail(p.Email)
	displayName := strings.TrimSpace(p.DisplayName)

	if !isValidEmail(email) {
		return Session{}, ErrInvalidEmail
	}
	if len(p.Password) < 6 {
		return Session{}, ErrPasswordTooShort
	}
	if displayName == "" {
		return Session{}, ErrMissingDisplayName
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	u, err := s.Users.Create(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	})
	if err != nil {
		return Session{}, err
	}

	return s.issueSession(u)
}

func (s Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.issueSession(u)
}

func (s Service) issueSession(u store.User) (Session, error) {
	access, exp, err := s.Tokens.NewAccessToken(u.ID, time.Now().UTC())
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, AccessToken: access, ExpiresAt: exp}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isValidEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	return emailRe.MatchString(s)
}
