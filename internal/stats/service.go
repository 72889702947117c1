// Package stats exposes the read-only ranking and aggregate queries. It
// reads only stored derived fields; it never recomputes an alfajor's
// aggregate on the fly.
package stats

import (
	"context"

	"github.com/example/alfajores-platform/internal/rating"
	"github.com/example/alfajores-platform/internal/store"
)

const (
	defaultMinReviews = 5
	defaultLimit      = 10
)

// UserStats aggregates one reviewer's activity. ReviewCount and
// DistinctAlfajorCount come from independent queries; the uniqueness rule
// on reviews keeps them equal in practice, and DistinctAlfajorCount can
// never exceed ReviewCount.
type UserStats struct {
	ReviewCount          int     `json:"review_count"`
	DistinctAlfajorCount int     `json:"distinct_alfajor_count"`
	AverageScoreGiven    float64 `json:"average_score_given"`
}

type Service struct {
	Reviews   store.ReviewStore
	Alfajores store.AlfajorStore
}

func sanitizePositive(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// TopRated returns the best-rated alfajores having at least minReviews
// reviews. Non-positive inputs fall back to 5 and 10. Equal averages are
// ordered by id ascending (the stores guarantee the tie-break).
func (s *Service) TopRated(ctx context.Context, minReviews, limit int) ([]store.RankedAlfajor, error) {
	return s.Alfajores.TopRated(ctx, sanitizePositive(minReviews, defaultMinReviews), sanitizePositive(limit, defaultLimit))
}

// MostReviewed returns alfajores by descending review count, limit
// defaulting to 10.
func (s *Service) MostReviewed(ctx context.Context, limit int) ([]store.RankedAlfajor, error) {
	return s.Alfajores.MostReviewed(ctx, sanitizePositive(limit, defaultLimit))
}

// UserStats returns a reviewer's aggregate numbers; all zeros for a user
// with no reviews.
func (s *Service) UserStats(ctx context.Context, userID string) (UserStats, error) {
	count, err := s.Reviews.CountByUser(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	distinct, err := s.Reviews.CountDistinctAlfajoresByUser(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	scores, err := s.Reviews.ScoresByUser(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	return UserStats{
		ReviewCount:          count,
		DistinctAlfajorCount: distinct,
		AverageScoreGiven:    rating.Average(scores),
	}, nil
}
