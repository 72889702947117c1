package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryReviewStore is a development and test implementation.
type InMemoryReviewStore struct {
	mu      sync.RWMutex
	reviews map[string]Review // id -> review
}

func NewInMemoryReviewStore() *InMemoryReviewStore {
	return &InMemoryReviewStore{reviews: make(map[string]Review)}
}

func (s *InMemoryReviewStore) Create(_ context.Context, r Review) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.AlfajorID == r.AlfajorID {
			return Review{}, ErrConflict
		}
	}

	r.ID = uuid.NewString()
	if r.PublishedAt.IsZero() {
		r.PublishedAt = time.Now().UTC()
	}
	r.UpdatedAt = nil
	s.reviews[r.ID] = r
	return r, nil
}

func (s *InMemoryReviewStore) GetOwned(_ context.Context, reviewID, userID string) (Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[reviewID]
	if !ok || r.UserID != userID {
		return Review{}, ErrNotFoundOrForbidden
	}
	return r, nil
}

func (s *InMemoryReviewStore) Update(_ context.Context, reviewID, userID string, patch ReviewPatch) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[reviewID]
	if !ok || r.UserID != userID {
		return Review{}, ErrNotFoundOrForbidden
	}
	if patch.Score != nil {
		r.Score = *patch.Score
	}
	if patch.Text != nil {
		r.Text = *patch.Text
	}
	if patch.ConsumedAt != nil {
		r.ConsumedAt = patch.ConsumedAt
	}
	now := time.Now().UTC()
	r.UpdatedAt = &now
	s.reviews[reviewID] = r
	return r, nil
}

func (s *InMemoryReviewStore) FindAndDelete(_ context.Context, reviewID, userID string) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[reviewID]
	if !ok || r.UserID != userID {
		return Review{}, ErrNotFoundOrForbidden
	}
	delete(s.reviews, reviewID)
	return r, nil
}

func (s *InMemoryReviewStore) ListByAlfajor(_ context.Context, alfajorID string, offset, limit int) ([]Review, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Review
	for _, r := range s.reviews {
		if r.AlfajorID == alfajorID {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PublishedAt.Equal(matched[j].PublishedAt) {
			return matched[i].PublishedAt.After(matched[j].PublishedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if offset >= total {
		return []Review{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]Review, end-offset)
	copy(page, matched[offset:end])
	return page, total, nil
}

func (s *InMemoryReviewStore) ScoresByAlfajor(_ context.Context, alfajorID string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scores []float64
	for _, r := range s.reviews {
		if r.AlfajorID == alfajorID {
			scores = append(scores, r.Score)
		}
	}
	return scores, nil
}

func (s *InMemoryReviewStore) CountByUser(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.reviews {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryReviewStore) CountDistinctAlfajoresByUser(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, r := range s.reviews {
		if r.UserID == userID {
			seen[r.AlfajorID] = struct{}{}
		}
	}
	return len(seen), nil
}

func (s *InMemoryReviewStore) ScoresByUser(_ context.Context, userID string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scores []float64
	for _, r := range s.reviews {
		if r.UserID == userID {
			scores = append(scores, r.Score)
		}
	}
	return scores, nil
}
