package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/alfajores-platform/internal/platform/analytics"
	"github.com/example/alfajores-platform/internal/platform/api"
	"github.com/example/alfajores-platform/internal/platform/auth"
	"github.com/example/alfajores-platform/internal/platform/bind"
	"github.com/example/alfajores-platform/internal/reviews"
	"github.com/example/alfajores-platform/internal/store"
)

type createReviewRequest struct {
	AlfajorID  string     `json:"alfajor_id" validate:"required"`
	Score      float64    `json:"score" validate:"required"`
	Text       string     `json:"text"`
	ConsumedAt *time.Time `json:"consumed_at"`
}

type updateReviewRequest struct {
	Score      *float64   `json:"score"`
	Text       *string    `json:"text"`
	ConsumedAt *time.Time `json:"consumed_at"`
}

// ListAlfajorReviews handles GET /v1/alfajores/{alfajor_id}/reviews
func ListAlfajorReviews(svc *reviews.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alfajorID := strings.TrimSpace(chi.URLParam(r, "alfajor_id"))
		if alfajorID == "" {
			api.BadRequest(w, "MISSING_ID", "alfajor_id is required", requestID(r), nil)
			return
		}

		page, err := svc.ListByAlfajor(r.Context(), alfajorID, queryInt(r, "page", 1), queryInt(r, "limit", 10))
		if err != nil {
			api.Internal(w, requestID(r))
			return
		}
		api.WriteJSON(w, http.StatusOK, page)
	}
}

// CreateReview handles POST /v1/reviews
func CreateReview(svc *reviews.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", requestID(r))
			return
		}

		var req createReviewRequest
		if details, err := bind.JSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION", err.Error(), requestID(r), details)
			return
		}

		created, err := svc.Create(r.Context(), userID, reviews.CreateInput{
			AlfajorID:  strings.TrimSpace(req.AlfajorID),
			Score:      req.Score,
			Text:       req.Text,
			ConsumedAt: req.ConsumedAt,
		})
		if err != nil {
			writeReviewError(w, r, err)
			return
		}

		events.Publish(analytics.SubjectReviewPublished, "reviews.published", userID, map[string]any{
			"review_id":  created.ID,
			"alfajor_id": created.AlfajorID,
			"score":      created.Score,
		})
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// UpdateReview handles PUT /v1/reviews/{review_id}
func UpdateReview(svc *reviews.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", requestID(r))
			return
		}

		reviewID := strings.TrimSpace(chi.URLParam(r, "review_id"))
		if reviewID == "" {
			api.BadRequest(w, "MISSING_ID", "review_id is required", requestID(r), nil)
			return
		}

		var req updateReviewRequest
		if details, err := bind.JSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION", err.Error(), requestID(r), details)
			return
		}

		updated, err := svc.Update(r.Context(), reviewID, userID, store.ReviewPatch{
			Score:      req.Score,
			Text:       req.Text,
			ConsumedAt: req.ConsumedAt,
		})
		if err != nil {
			writeReviewError(w, r, err)
			return
		}

		events.Publish(analytics.SubjectReviewUpdated, "reviews.updated", userID, map[string]any{
			"review_id":  updated.ID,
			"alfajor_id": updated.AlfajorID,
		})
		api.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteReview handles DELETE /v1/reviews/{review_id}
func DeleteReview(svc *reviews.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", requestID(r))
			return
		}

		reviewID := strings.TrimSpace(chi.URLParam(r, "review_id"))
		if reviewID == "" {
			api.BadRequest(w, "MISSING_ID", "review_id is required", requestID(r), nil)
			return
		}

		if err := svc.Delete(r.Context(), reviewID, userID); err != nil {
			writeReviewError(w, r, err)
			return
		}

		events.Publish(analytics.SubjectReviewDeleted, "reviews.deleted", userID, map[string]any{
			"review_id": reviewID,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeReviewError maps review service errors to the API envelope. Not-found
// and not-owner are collapsed into one 404 so ownership is not leaked.
func writeReviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrScoreOutOfRange), errors.Is(err, reviews.ErrMissingFields):
		api.BadRequest(w, "VALIDATION", err.Error(), requestID(r), nil)
	case errors.Is(err, store.ErrConflict):
		api.Conflict(w, "REVIEW_EXISTS", "you already reviewed this alfajor", requestID(r), nil)
	case errors.Is(err, store.ErrNotFound):
		api.NotFound(w, "ALFAJOR_NOT_FOUND", "alfajor not found", requestID(r))
	case errors.Is(err, store.ErrNotFoundOrForbidden):
		api.NotFound(w, "REVIEW_NOT_FOUND", "review not found", requestID(r))
	default:
		api.Internal(w, requestID(r))
	}
}
