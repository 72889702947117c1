package store

import (
	"context"
	"time"
)

// Review is a single user's review of one alfajor. UserID and AlfajorID are
// immutable once created; PublishedAt is set at creation and never changes.
type Review struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	AlfajorID   string     `json:"alfajor_id"`
	Score       float64    `json:"score"`
	Text        string     `json:"text,omitempty"`
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
	PublishedAt time.Time  `json:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ReviewPatch carries the mutable review fields; nil means "leave as is".
// A non-nil empty Text overwrites with the empty string.
type ReviewPatch struct {
	Score      *float64
	Text       *string
	ConsumedAt *time.Time
}

// ReviewStore defines the contract for review persistence. At most one
// review may exist per (user, alfajor) pair.
type ReviewStore interface {
	// Create inserts a review; a second review by the same user for the
	// same alfajor returns ErrConflict.
	Create(ctx context.Context, r Review) (Review, error)
	// GetOwned fetches a review only when owned by userID; otherwise
	// ErrNotFoundOrForbidden.
	GetOwned(ctx context.Context, reviewID, userID string) (Review, error)
	// Update applies a patch to an owned review and returns the result.
	Update(ctx context.Context, reviewID, userID string, patch ReviewPatch) (Review, error)
	// FindAndDelete removes an owned review and returns it, so callers can
	// recalculate stats for its former alfajor.
	FindAndDelete(ctx context.Context, reviewID, userID string) (Review, error)
	// ListByAlfajor returns one page, newest published_at first, plus the
	// total count for the alfajor.
	ListByAlfajor(ctx context.Context, alfajorID string, offset, limit int) ([]Review, int, error)
	// ScoresByAlfajor projects only the scores of an alfajor's reviews.
	ScoresByAlfajor(ctx context.Context, alfajorID string) ([]float64, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	CountDistinctAlfajoresByUser(ctx context.Context, userID string) (int, error)
	ScoresByUser(ctx context.Context, userID string) ([]float64, error)
}
