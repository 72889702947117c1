package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/alfajores-platform/internal/stats"
)

func TestTopRated_Handler(t *testing.T) {
	f := newFixture()
	a := f.seedAlfajor(t, "Clásico", "Havanna")
	b := f.seedAlfajor(t, "Triple", "Guaymallén")
	for i := 0; i < 2; i++ {
		u := f.seedUser(t, string(rune('a'+i))+"@b.com", "U")
		f.seedReview(t, u.ID, a.ID, 5)
		f.seedReview(t, u.ID, b.ID, 3)
	}

	handler := TopRated(f.stats)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/stats/top-rated?min_reviews=2&limit=5", "", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp rankingResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 ranked alfajores, got %d", len(resp.Data))
	}
	if resp.Data[0].Name != "Clásico" {
		t.Fatalf("expected best average first, got %q", resp.Data[0].Name)
	}
}

func TestTopRated_Handler_DefaultFloorHidesSparse(t *testing.T) {
	f := newFixture()
	a := f.seedAlfajor(t, "Clásico", "Havanna")
	u := f.seedUser(t, "a@b.com", "A")
	f.seedReview(t, u.ID, a.ID, 5)

	handler := TopRated(f.stats)

	// no query params: min_reviews defaults to 5, one review is not enough
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/stats/top-rated", "", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp rankingResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Fatalf("expected empty ranking below the review floor, got %d", len(resp.Data))
	}
}

func TestMostReviewed_Handler(t *testing.T) {
	f := newFixture()
	a := f.seedAlfajor(t, "Clásico", "Havanna")
	b := f.seedAlfajor(t, "Triple", "Guaymallén")
	u1 := f.seedUser(t, "a@b.com", "A")
	u2 := f.seedUser(t, "b@b.com", "B")
	f.seedReview(t, u1.ID, a.ID, 4)
	f.seedReview(t, u2.ID, a.ID, 4)
	f.seedReview(t, u1.ID, b.ID, 4)

	handler := MostReviewed(f.stats)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/stats/most-reviewed", "", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp rankingResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Data))
	}
	if resp.Data[0].Name != "Clásico" || resp.Data[0].ReviewCount != 2 {
		t.Fatalf("expected Clásico with 2 reviews first, got %+v", resp.Data[0])
	}
}

func TestMyStats_Handler(t *testing.T) {
	f := newFixture()
	u := f.seedUser(t, "a@b.com", "A")
	a := f.seedAlfajor(t, "Clásico", "Havanna")
	b := f.seedAlfajor(t, "Triple", "Guaymallén")
	f.seedReview(t, u.ID, a.ID, 5)
	f.seedReview(t, u.ID, b.ID, 4)

	handler := MyStats(f.stats)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/stats/me", "", nil, u.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var us stats.UserStats
	if err := json.NewDecoder(rr.Body).Decode(&us); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if us.ReviewCount != 2 || us.DistinctAlfajorCount != 2 {
		t.Fatalf("expected 2/2 counts, got %d/%d", us.ReviewCount, us.DistinctAlfajorCount)
	}
	if us.AverageScoreGiven != 4.5 {
		t.Fatalf("expected average 4.5, got %v", us.AverageScoreGiven)
	}
}

func TestMyStats_Handler_Unauthorized(t *testing.T) {
	f := newFixture()
	handler := MyStats(f.stats)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/v1/stats/me", "", nil, ""))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
