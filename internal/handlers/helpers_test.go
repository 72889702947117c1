package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/alfajores-platform/internal/platform/auth"
	"github.com/example/alfajores-platform/internal/reviews"
	"github.com/example/alfajores-platform/internal/stats"
	"github.com/example/alfajores-platform/internal/store"
)

// setupReq builds a request with chi URL params and optional user_id in context.
func setupReq(method, url string, body string, params map[string]string, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = auth.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

type fixture struct {
	users     *store.InMemoryUserStore
	alfajores *store.InMemoryAlfajorStore
	revstore  *store.InMemoryReviewStore
	reviews   *reviews.Service
	stats     *stats.Service
}

func newFixture() *fixture {
	users := store.NewInMemoryUserStore()
	alfajores := store.NewInMemoryAlfajorStore()
	revstore := store.NewInMemoryReviewStore()
	return &fixture{
		users:     users,
		alfajores: alfajores,
		revstore:  revstore,
		reviews:   &reviews.Service{Reviews: revstore, Alfajores: alfajores, Users: users},
		stats:     &stats.Service{Reviews: revstore, Alfajores: alfajores},
	}
}

func (f *fixture) seedUser(t *testing.T, email, name string) store.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  name,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (f *fixture) seedAlfajor(t *testing.T, name, brand string) store.Alfajor {
	t.Helper()
	a, err := f.alfajores.Create(context.Background(), store.Alfajor{
		Name:    name,
		Brand:   brand,
		Country: "Argentina",
		Kind:    "triple",
		Coating: "chocolate",
	})
	if err != nil {
		t.Fatalf("seed alfajor: %v", err)
	}
	return a
}

func (f *fixture) seedReview(t *testing.T, userID, alfajorID string, score float64) store.Review {
	t.Helper()
	rv, err := f.reviews.Create(context.Background(), userID, reviews.CreateInput{
		AlfajorID: alfajorID,
		Score:     score,
		Text:      "rico",
	})
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}
	// keep published_at ordering stable across fast successive seeds
	time.Sleep(time.Millisecond)
	return rv
}
