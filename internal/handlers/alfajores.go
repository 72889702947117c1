package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/alfajores-platform/internal/platform/analytics"
	"github.com/example/alfajores-platform/internal/platform/api"
	"github.com/example/alfajores-platform/internal/platform/auth"
	"github.com/example/alfajores-platform/internal/platform/bind"
	"github.com/example/alfajores-platform/internal/store"
)

type createAlfajorRequest struct {
	Name        string `json:"name" validate:"required"`
	Brand       string `json:"brand" validate:"required"`
	Country     string `json:"country" validate:"required"`
	Kind        string `json:"kind" validate:"required"`
	Coating     string `json:"coating" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type listMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type listAlfajoresResponse struct {
	Data []store.Alfajor `json:"data"`
	Meta listMeta        `json:"meta"`
}

// ListAlfajores handles GET /v1/alfajores
func ListAlfajores(as store.AlfajorStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		sort := strings.ToLower(strings.TrimSpace(q.Get("sort")))
		switch sort {
		case store.SortRating, store.SortPopular, store.SortRecent:
		default:
			sort = store.SortRecent
		}

		params := store.ListAlfajoresParams{
			Query:    strings.TrimSpace(q.Get("q")),
			Country:  strings.TrimSpace(q.Get("country")),
			Kind:     strings.TrimSpace(q.Get("kind")),
			Coating:  strings.TrimSpace(q.Get("coating")),
			Sort:     sort,
			Page:     queryInt(r, "page", 1),
			PageSize: queryInt(r, "limit", 10),
		}

		items, total, err := as.List(r.Context(), params)
		if err != nil {
			api.Internal(w, requestID(r))
			return
		}

		api.WriteJSON(w, http.StatusOK, listAlfajoresResponse{
			Data: items,
			Meta: listMeta{Total: total, Page: params.Page, PageSize: params.PageSize},
		})
	}
}

// GetAlfajor handles GET /v1/alfajores/{alfajor_id}
func GetAlfajor(as store.AlfajorStore, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "alfajor_id"))
		if id == "" {
			api.BadRequest(w, "MISSING_ID", "alfajor_id is required", requestID(r), nil)
			return
		}

		a, err := as.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "ALFAJOR_NOT_FOUND", "alfajor not found", requestID(r))
				return
			}
			api.Internal(w, requestID(r))
			return
		}

		userID, _ := auth.UserIDFromContext(r.Context())
		events.Publish(analytics.SubjectAlfajorViewed, "catalog.alfajor_viewed", userID, map[string]any{
			"alfajor_id": a.ID,
		})
		api.WriteJSON(w, http.StatusOK, a)
	}
}

// CreateAlfajor handles POST /v1/alfajores
func CreateAlfajor(as store.AlfajorStore, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", requestID(r))
			return
		}

		var req createAlfajorRequest
		if details, err := bind.JSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION", err.Error(), requestID(r), details)
			return
		}

		created, err := as.Create(r.Context(), store.Alfajor{
			Name:        strings.TrimSpace(req.Name),
			Brand:       strings.TrimSpace(req.Brand),
			Country:     strings.TrimSpace(req.Country),
			Kind:        strings.TrimSpace(req.Kind),
			Coating:     strings.TrimSpace(req.Coating),
			Description: strings.TrimSpace(req.Description),
			ImageURL:    strings.TrimSpace(req.ImageURL),
		})
		if err != nil {
			api.Internal(w, requestID(r))
			return
		}

		events.Publish(analytics.SubjectAlfajorCreated, "catalog.alfajor_created", userID, map[string]any{
			"alfajor_id": created.ID,
		})
		api.WriteJSON(w, http.StatusCreated, created)
	}
}
