package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/example/alfajores-platform/internal/auth"
	"github.com/example/alfajores-platform/internal/platform/analytics"
	"github.com/example/alfajores-platform/internal/platform/api"
	"github.com/example/alfajores-platform/internal/platform/auth"
	"github.com/example/alfajores-platform/internal/platform/bind"
	"github.com/example/alfajores-platform/internal/store"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User        store.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
}

func toSessionResponse(sess authsvc.Session) sessionResponse {
	return sessionResponse{
		User:        sess.User,
		AccessToken: sess.AccessToken,
		ExpiresIn:   int64(time.Until(sess.ExpiresAt).Seconds()),
	}
}

// Register handles POST /v1/auth/register
func Register(svc authsvc.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if details, err := bind.JSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION", err.Error(), requestID(r), details)
			return
		}

		sess, err := svc.Register(r.Context(), authsvc.RegisterParams{
			Email:       req.Email,
			Password:    req.Password,
			DisplayName: req.DisplayName,
		})
		if err != nil {
			switch {
			case errors.Is(err, authsvc.ErrInvalidEmail),
				errors.Is(err, authsvc.ErrPasswordTooShort),
				errors.Is(err, authsvc.ErrMissingDisplayName):
				api.BadRequest(w, "VALIDATION", err.Error(), requestID(r), nil)
			case errors.Is(err, store.ErrConflict):
				api.Conflict(w, "EMAIL_TAKEN", "email already registered", requestID(r), nil)
			default:
				api.Internal(w, requestID(r))
			}
			return
		}

		events.Publish(analytics.SubjectAuthRegistered, "auth.registered", sess.User.ID, nil)
		api.WriteJSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

// Login handles POST /v1/auth/login
func Login(svc authsvc.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if details, err := bind.JSON(w, r, &req); err != nil {
			api.BadRequest(w, "VALIDATION", err.Error(), requestID(r), details)
			return
		}

		sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				api.Unauthorized(w, "AUTH_INVALID_CREDENTIALS", "invalid credentials", requestID(r))
				return
			}
			api.Internal(w, requestID(r))
			return
		}

		events.Publish(analytics.SubjectAuthLoggedIn, "auth.logged_in", sess.User.ID, nil)
		api.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

// Me handles GET /v1/auth/me
func Me(users store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", requestID(r))
			return
		}

		u, err := users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "USER_NOT_FOUND", "user not found", requestID(r))
				return
			}
			api.Internal(w, requestID(r))
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}
