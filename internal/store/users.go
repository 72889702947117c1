package store

import (
	"context"
	"time"
)

// User is an account row. PasswordHash never leaves the store layer in API
// responses.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Profile is the public projection of a user attached to reviews.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	DisplayName  string
}

// UserStore defines the contract for account persistence.
type UserStore interface {
	// Create inserts a new user; duplicate email returns ErrConflict.
	Create(ctx context.Context, p CreateUserParams) (User, error)
	// FindByEmail looks a user up by normalized (lowercased) email.
	FindByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// ProfilesByIDs returns public profiles keyed by user id. Unknown ids
	// are simply absent from the result.
	ProfilesByIDs(ctx context.Context, ids []string) (map[string]Profile, error)
}
