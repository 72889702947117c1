package store

import (
	"context"
	"time"
)

// Alfajor is a catalog row. AverageScore and ReviewCount are derived from
// the review set and written only through UpdateStats.
type Alfajor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Country      string    `json:"country"`
	Kind         string    `json:"kind"`
	Coating      string    `json:"coating"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	AverageScore float64   `json:"average_score"`
	ReviewCount  int       `json:"review_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RankedAlfajor is the projection returned by the ranking queries.
type RankedAlfajor struct {
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	AverageScore float64 `json:"average_score"`
	ReviewCount  int     `json:"review_count"`
}

// Catalog sort orders.
const (
	SortRating  = "rating"
	SortPopular = "popular"
	SortRecent  = "recent"
)

// ListAlfajoresParams carries sanitized listing inputs: Page and PageSize
// are positive, Sort is one of the Sort* constants.
type ListAlfajoresParams struct {
	Query    string // case-insensitive substring on name or brand
	Country  string
	Kind     string
	Coating  string
	Sort     string
	Page     int
	PageSize int
}

// AlfajorStore defines the contract for catalog persistence.
type AlfajorStore interface {
	// Create inserts a new alfajor with zeroed derived fields.
	Create(ctx context.Context, a Alfajor) (Alfajor, error)
	GetByID(ctx context.Context, id string) (Alfajor, error)
	Exists(ctx context.Context, id string) (bool, error)
	// List returns one page plus the total matching count.
	List(ctx context.Context, p ListAlfajoresParams) ([]Alfajor, int, error)
	// UpdateStats overwrites only the derived fields. Updating a missing
	// alfajor is a silent no-op.
	UpdateStats(ctx context.Context, id string, averageScore float64, reviewCount int) error
	// TopRated returns alfajores with at least minReviews reviews, best
	// average first. Equal averages are ordered by id ascending.
	TopRated(ctx context.Context, minReviews, limit int) ([]RankedAlfajor, error)
	// MostReviewed returns alfajores by descending review count, id
	// ascending on ties.
	MostReviewed(ctx context.Context, limit int) ([]RankedAlfajor, error)
}
