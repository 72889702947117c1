package handlers

import (
	"net/http"

	"github.com/example/alfajores-platform/internal/platform/api"
	"github.com/example/alfajores-platform/internal/platform/auth"
	"github.com/example/alfajores-platform/internal/stats"
	"github.com/example/alfajores-platform/internal/store"
)

type rankingResponse struct {
	Data []store.RankedAlfajor `json:"data"`
}

// TopRated handles GET /v1/stats/top-rated
func TopRated(svc *stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ranked, err := svc.TopRated(r.Context(), queryInt(r, "min_reviews", 0), queryInt(r, "limit", 0))
		if err != nil {
			api.Internal(w, requestID(r))
			return
		}
		api.WriteJSON(w, http.StatusOK, rankingResponse{Data: ranked})
	}
}

// MostReviewed handles GET /v1/stats/most-reviewed
func MostReviewed(svc *stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ranked, err := svc.MostReviewed(r.Context(), queryInt(r, "limit", 0))
		if err != nil {
			api.Internal(w, requestID(r))
			return
		}
		api.WriteJSON(w, http.StatusOK, rankingResponse{Data: ranked})
	}
}

// MyStats handles GET /v1/stats/me
func MyStats(svc *stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", requestID(r))
			return
		}

		us, err := svc.UserStats(r.Context(), userID)
		if err != nil {
			api.Internal(w, requestID(r))
			return
		}
		api.WriteJSON(w, http.StatusOK, us)
	}
}
