// Package reviews implements the review lifecycle: create, update and delete
// a review, each followed synchronously by a recalculation of the alfajor's
// derived rating fields.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/example/alfajores-platform/internal/rating"
	"github.com/example/alfajores-platform/internal/store"
)

var (
	// ErrScoreOutOfRange rejects scores that are not finite or fall
	// outside [1,5].
	ErrScoreOutOfRange = errors.New("score must be between 1 and 5")
	// ErrMissingFields rejects create calls without an alfajor reference.
	ErrMissingFields = errors.New("missing required review fields")
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// Service orchestrates review mutations over the stores. It holds no state
// of its own; every operation is a request-scoped read-modify-write.
//
// Recalculation is not serialized per alfajor: two concurrent mutations of
// the same alfajor's reviews can interleave their read-recompute-write
// cycles and the later write wins with a momentarily stale aggregate. The
// next successful recalculation converges, since the aggregate is always
// rederived from the full review set.
type Service struct {
	Reviews   store.ReviewStore
	Alfajores store.AlfajorStore
	Users     store.UserStore
}

// CreateInput carries the fields for a new review.
type CreateInput struct {
	AlfajorID  string
	Score      float64
	Text       string
	ConsumedAt *time.Time
}

// ReviewWithAuthor is a review enriched with the reviewer's public profile.
type ReviewWithAuthor struct {
	store.Review
	Author *store.Profile `json:"author,omitempty"`
}

// Page is one page of reviews plus pagination metadata.
type Page struct {
	Data     []ReviewWithAuthor `json:"data"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

func validScore(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 1 && s <= 5
}

// Recalculate rederives an alfajor's average score and review count from
// its current review set and persists them. Safe to call redundantly; a
// missing alfajor makes the write a silent no-op at the store layer.
func (s *Service) Recalculate(ctx context.Context, alfajorID string) error {
	scores, err := s.Reviews.ScoresByAlfajor(ctx, alfajorID)
	if err != nil {
		return err
	}
	return s.Alfajores.UpdateStats(ctx, alfajorID, rating.Average(scores), len(scores))
}

// Create validates and persists a new review, then recalculates the
// alfajor's stats. The review keeps its published_at forever. If the
// recalculation fails the review stays persisted and the error surfaces:
// stats are stale until the next successful recalculation.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (store.Review, error) {
	if in.AlfajorID == "" {
		return store.Review{}, ErrMissingFields
	}
	if !validScore(in.Score) {
		return store.Review{}, ErrScoreOutOfRange
	}

	exists, err := s.Alfajores.Exists(ctx, in.AlfajorID)
	if err != nil {
		return store.Review{}, err
	}
	if !exists {
		return store.Review{}, store.ErrNotFound
	}

	created, err := s.Reviews.Create(ctx, store.Review{
		UserID:      userID,
		AlfajorID:   in.AlfajorID,
		Score:       in.Score,
		Text:        in.Text,
		ConsumedAt:  in.ConsumedAt,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return store.Review{}, err
	}

	if err := s.Recalculate(ctx, in.AlfajorID); err != nil {
		return store.Review{}, fmt.Errorf("review %s saved but stats recalculation failed: %w", created.ID, err)
	}
	return created, nil
}

// Update applies a partial patch to a review owned by userID, then
// recalculates (the score may have moved the mean). Non-owners and missing
// reviews are indistinguishable.
func (s *Service) Update(ctx context.Context, reviewID, userID string, patch store.ReviewPatch) (store.Review, error) {
	if patch.Score != nil && !validScore(*patch.Score) {
		return store.Review{}, ErrScoreOutOfRange
	}

	updated, err := s.Reviews.Update(ctx, reviewID, userID, patch)
	if err != nil {
		return store.Review{}, err
	}

	if err := s.Recalculate(ctx, updated.AlfajorID); err != nil {
		return store.Review{}, fmt.Errorf("review %s saved but stats recalculation failed: %w", updated.ID, err)
	}
	return updated, nil
}

// Delete removes a review owned by userID and recalculates the stats of the
// alfajor it used to reference.
func (s *Service) Delete(ctx context.Context, reviewID, userID string) error {
	deleted, err := s.Reviews.FindAndDelete(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	return s.Recalculate(ctx, deleted.AlfajorID)
}

// ListByAlfajor returns one page of an alfajor's reviews, newest first,
// each carrying the reviewer's public profile. Non-positive page or
// pageSize fall back to 1 and 10.
func (s *Service) ListByAlfajor(ctx context.Context, alfajorID string, page, pageSize int) (Page, error) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	revs, total, err := s.Reviews.ListByAlfajor(ctx, alfajorID, (page-1)*pageSize, pageSize)
	if err != nil {
		return Page{}, err
	}

	userIDs := make([]string, 0, len(revs))
	seen := make(map[string]struct{}, len(revs))
	for _, r := range revs {
		if _, ok := seen[r.UserID]; !ok {
			seen[r.UserID] = struct{}{}
			userIDs = append(userIDs, r.UserID)
		}
	}
	profiles, err := s.Users.ProfilesByIDs(ctx, userIDs)
	if err != nil {
		return Page{}, err
	}

	data := make([]ReviewWithAuthor, len(revs))
	for i, r := range revs {
		data[i] = ReviewWithAuthor{Review: r}
		if p, ok := profiles[r.UserID]; ok {
			p := p
			data[i].Author = &p
		}
	}
	return Page{Data: data, Total: total, Page: page, PageSize: pageSize}, nil
}
