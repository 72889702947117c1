package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryAlfajorStore is a development and test implementation.
type InMemoryAlfajorStore struct {
	mu        sync.RWMutex
	alfajores map[string]Alfajor // id -> alfajor
}

func NewInMemoryAlfajorStore() *InMemoryAlfajorStore {
	return &InMemoryAlfajorStore{alfajores: make(map[string]Alfajor)}
}

func (s *InMemoryAlfajorStore) Create(_ context.Context, a Alfajor) (Alfajor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.AverageScore = 0
	a.ReviewCount = 0
	a.CreatedAt = now
	a.UpdatedAt = now
	s.alfajores[a.ID] = a
	return a, nil
}

func (s *InMemoryAlfajorStore) GetByID(_ context.Context, id string) (Alfajor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alfajores[id]
	if !ok {
		return Alfajor{}, ErrNotFound
	}
	return a, nil
}

func (s *InMemoryAlfajorStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.alfajores[id]
	return ok, nil
}

func matchesFilters(a Alfajor, p ListAlfajoresParams) bool {
	if p.Query != "" {
		q := strings.ToLower(p.Query)
		if !strings.Contains(strings.ToLower(a.Name), q) && !strings.Contains(strings.ToLower(a.Brand), q) {
			return false
		}
	}
	if p.Country != "" && a.Country != p.Country {
		return false
	}
	if p.Kind != "" && a.Kind != p.Kind {
		return false
	}
	if p.Coating != "" && a.Coating != p.Coating {
		return false
	}
	return true
}

func (s *InMemoryAlfajorStore) List(_ context.Context, p ListAlfajoresParams) ([]Alfajor, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Alfajor
	for _, a := range s.alfajores {
		if matchesFilters(a, p) {
			matched = append(matched, a)
		}
	}

	switch p.Sort {
	case SortRating:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].AverageScore != matched[j].AverageScore {
				return matched[i].AverageScore > matched[j].AverageScore
			}
			return matched[i].ID < matched[j].ID
		})
	case SortPopular:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].ReviewCount != matched[j].ReviewCount {
				return matched[i].ReviewCount > matched[j].ReviewCount
			}
			return matched[i].ID < matched[j].ID
		})
	default:
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			return matched[i].ID < matched[j].ID
		})
	}

	total := len(matched)
	offset := (p.Page - 1) * p.PageSize
	if offset >= total {
		return []Alfajor{}, total, nil
	}
	end := offset + p.PageSize
	if end > total {
		end = total
	}
	page := make([]Alfajor, end-offset)
	copy(page, matched[offset:end])
	return page, total, nil
}

func (s *InMemoryAlfajorStore) UpdateStats(_ context.Context, id string, averageScore float64, reviewCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alfajores[id]
	if !ok {
		// Missing target is a no-op, matching the Postgres 0-row update.
		return nil
	}
	a.AverageScore = averageScore
	a.ReviewCount = reviewCount
	a.UpdatedAt = time.Now().UTC()
	s.alfajores[id] = a
	return nil
}

func (s *InMemoryAlfajorStore) TopRated(_ context.Context, minReviews, limit int) ([]RankedAlfajor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var eligible []Alfajor
	for _, a := range s.alfajores {
		if a.ReviewCount >= minReviews {
			eligible = append(eligible, a)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].AverageScore != eligible[j].AverageScore {
			return eligible[i].AverageScore > eligible[j].AverageScore
		}
		return eligible[i].ID < eligible[j].ID
	})
	return toRanked(eligible, limit), nil
}

func (s *InMemoryAlfajorStore) MostReviewed(_ context.Context, limit int) ([]RankedAlfajor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Alfajor, 0, len(s.alfajores))
	for _, a := range s.alfajores {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ReviewCount != all[j].ReviewCount {
			return all[i].ReviewCount > all[j].ReviewCount
		}
		return all[i].ID < all[j].ID
	})
	return toRanked(all, limit), nil
}

func toRanked(alfajores []Alfajor, limit int) []RankedAlfajor {
	if len(alfajores) > limit {
		alfajores = alfajores[:limit]
	}
	ranked := make([]RankedAlfajor, len(alfajores))
	for i, a := range alfajores {
		ranked[i] = RankedAlfajor{Name: a.Name, Brand: a.Brand, AverageScore: a.AverageScore, ReviewCount: a.ReviewCount}
	}
	return ranked
}
