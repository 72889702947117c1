package store

import (
	"context"
	"errors"
	"testing"
)

func seedAlfajor(t *testing.T, s *InMemoryAlfajorStore, name, brand string) Alfajor {
	t.Helper()
	a, err := s.Create(context.Background(), Alfajor{
		Name: name, Brand: brand, Country: "Argentina", Kind: "Dulce de leche", Coating: "Chocolate",
	})
	if err != nil {
		t.Fatalf("create alfajor: %v", err)
	}
	return a
}

func setStats(t *testing.T, s *InMemoryAlfajorStore, id string, avg float64, count int) {
	t.Helper()
	if err := s.UpdateStats(context.Background(), id, avg, count); err != nil {
		t.Fatalf("update stats: %v", err)
	}
}

func TestInMemoryAlfajorStore_CreateZeroesDerivedFields(t *testing.T) {
	s := NewInMemoryAlfajorStore()
	a, err := s.Create(context.Background(), Alfajor{
		Name: "Clásico", Brand: "Havanna", Country: "Argentina",
		Kind: "Dulce de leche", Coating: "Chocolate",
		AverageScore: 9.9, ReviewCount: 42, // must be ignored
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.AverageScore != 0 || a.ReviewCount != 0 {
		t.Fatalf("expected zeroed derived fields, got avg=%v count=%d", a.AverageScore, a.ReviewCount)
	}
	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatal("expected id and created_at to be set")
	}
}

func TestInMemoryAlfajorStore_GetAndExists(t *testing.T) {
	s := NewInMemoryAlfajorStore()
	ctx := context.Background()
	a := seedAlfajor(t, s, "Clásico", "Havanna")

	got, err := s.GetByID(ctx, a.ID)
	if err != nil || got.Name != "Clásico" {
		t.Fatalf("expected alfajor back, got %+v (err %v)", got, err)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ok, err := s.Exists(ctx, a.ID)
	if err != nil || !ok {
		t.Fatalf("expected exists true, got %v (err %v)", ok, err)
	}
	ok, err = s.Exists(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("expected exists false, got %v (err %v)", ok, err)
	}
}

func TestInMemoryAlfajorStore_UpdateStats(t *testing.T) {
	s := NewInMemoryAlfajorStore()
	ctx := context.Background()
	a := seedAlfajor(t, s, "Clásico", "Havanna")

	setStats(t, s, a.ID, 4.5, 2)
	got, _ := s.GetByID(ctx, a.ID)
	if got.AverageScore != 4.5 || got.ReviewCount != 2 {
		t.Fatalf("expected 4.5/2, got %v/%d", got.AverageScore, got.ReviewCount)
	}
	if got.Name != "Clásico" || got.Brand != "Havanna" {
		t.Fatal("UpdateStats must not touch descriptive fields")
	}

	// Redundant recalculation with the same values is harmless.
	setStats(t, s, a.ID, 4.5, 2)
	got, _ = s.GetByID(ctx, a.ID)
	if got.AverageScore != 4.5 || got.ReviewCount != 2 {
		t.Fatalf("expected idempotent stats, got %v/%d", got.AverageScore, got.ReviewCount)
	}

	// Unknown target is a silent no-op.
	if err := s.UpdateStats(ctx, "missing", 3, 1); err != nil {
		t.Fatalf("expected no-op for missing alfajor, got %v", err)
	}
}

func TestInMemoryAlfajorStore_List_FiltersAndSort(t *testing.T) {
	s := NewInMemoryAlfajorStore()
	ctx := context.Background()

	a := seedAlfajor(t, s, "Clásico", "Havanna")
	b := seedAlfajor(t, s, "Triple", "Guaymallén")
	setStats(t, s, a.ID, 4.8, 10)
	setStats(t, s, b.ID, 4.2, 30)

	// Query filter matches name or brand, case-insensitive.
	got, total, err := s.List(ctx, ListAlfajoresParams{Query: "havan", Sort: SortRecent, Page: 1, PageSize: 10})
	if err != nil || total != 1 || len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only Havanna match, got %v total %d (err %v)", got, total, err)
	}

	// rating sort: best average first.
	got, _, err = s.List(ctx, ListAlfajoresParams{Sort: SortRating, Page: 1, PageSize: 10})
	if err != nil || len(got) != 2 || got[0].ID != a.ID {
		t.Fatalf("expected rating order [a b], got %v (err %v)", got, err)
	}

	// popular sort: most reviewed first.
	got, _, err = s.List(ctx, ListAlfajoresParams{Sort: SortPopular, Page: 1, PageSize: 10})
	if err != nil || len(got) != 2 || got[0].ID != b.ID {
		t.Fatalf("expected popular order [b a], got %v (err %v)", got, err)
	}

	// Pagination: page 2 of size 1 has one row and the full total.
	got, total, err = s.List(ctx, ListAlfajoresParams{Sort: SortRating, Page: 2, PageSize: 1})
	if err != nil || total != 2 || len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected second page [b], got %v total %d (err %v)", got, total, err)
	}
}

func TestInMemoryAlfajorStore_TopRated(t *testing.T) {
	s := NewInMemoryAlfajorStore()
	ctx := context.Background()

	a := seedAlfajor(t, s, "A", "BrandA")
	b := seedAlfajor(t, s, "B", "BrandB")
	c := seedAlfajor(t, s, "C", "BrandC")
	setStats(t, s, a.ID, 4.8, 5)
	setStats(t, s, b.ID, 4.9, 1)
	setStats(t, s, c.ID, 4.2, 3)

	// B is excluded by minReviews, C loses on average.
	ranked, err := s.TopRated(ctx, 2, 1)
	if err != nil {
		t.Fatalf("top rated: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Name != "A" {
		t.Fatalf("expected [A], got %v", ranked)
	}

	// Without the count floor, B wins on average.
	ranked, _ = s.TopRated(ctx, 1, 10)
	if len(ranked) != 3 || ranked[0].Name != "B" {
		t.Fatalf("expected B first, got %v", ranked)
	}
}

func TestInMemoryAlfajorStore_MostReviewed(t *testing.T) {
	s := NewInMemoryAlfajorStore()
	ctx := context.Background()

	a := seedAlfajor(t, s, "A", "BrandA")
	b := seedAlfajor(t, s, "B", "BrandB")
	setStats(t, s, a.ID, 4.8, 5)
	setStats(t, s, b.ID, 3.1, 12)

	ranked, err := s.MostReviewed(ctx, 10)
	if err != nil {
		t.Fatalf("most reviewed: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Name != "B" || ranked[1].Name != "A" {
		t.Fatalf("expected [B A], got %v", ranked)
	}

	ranked, _ = s.MostReviewed(ctx, 1)
	if len(ranked) != 1 || ranked[0].Name != "B" {
		t.Fatalf("expected truncation to [B], got %v", ranked)
	}
}

// TestAlfajorStoreInterface ensures both implementations satisfy the interface.
func TestAlfajorStoreInterface(t *testing.T) {
	var _ AlfajorStore = (*InMemoryAlfajorStore)(nil)
	var _ AlfajorStore = (*PostgresAlfajorStore)(nil)
}
