package handler

import (
	"net/http"

	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/user"
)

// RegisterUserRequest represents the request to register a Telegram user
type RegisterUserRequest struct {
	Identity  string `json:"identity" validate:"required,max=64"`
	Name      string `json:"name" validate:"max=256"`
	IsPremium bool   `json:"is_premium"`
}

// UpdateUserRequest carries the absolute balance and total earned for a user
type UpdateUserRequest struct {
	UserID      string `json:"user_id" validate:"required,max=64"`
	Balance     int64  `json:"balance" validate:"gte=0"`
	TotalEarned int64  `json:"total_earned" validate:"gte=0"`
}

// HandleGetUser returns the stored progress for a user
// @Summary Get user
// @Tags user
// @Produce json
// @Param id query string true "Telegram identity"
// @Success 200 {object} domain.UserProgress
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /user [get]
func HandleGetUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetQueryParam(r, w, QueryParamID)
		if !ok {
			return
		}

		u, err := svc.GetUser(r.Context(), identity)
		if err != nil {
			respondServiceError(w, r, "Get user", err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

// HandleGetProfile returns the user with derived level information
// @Summary Get user profile
// @Tags user
// @Produce json
// @Param id query string true "Telegram identity"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /user/profile [get]
func HandleGetProfile(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetQueryParam(r, w, QueryParamID)
		if !ok {
			return
		}

		p, err := svc.GetProfile(r.Context(), identity)
		if err != nil {
			respondServiceError(w, r, "Get profile", err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// HandleRegisterUser creates the user on first launch or refreshes name and premium flag
// @Summary Register user
// @Tags user
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "Telegram user"
// @Success 200 {object} domain.UserProgress
// @Failure 400 {object} ErrorResponse
// @Router /user/register [post]
func HandleRegisterUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "register user"); err != nil {
			return
		}

		logger.FromContext(r.Context()).Debug("Register user request",
			"identity", req.Identity, "is_premium", req.IsPremium)

		u, err := svc.RegisterUser(r.Context(), req.Identity, req.Name, req.IsPremium)
		if err != nil {
			respondServiceError(w, r, "Register user", err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

// HandleUpdateUser persists the absolute balance and total earned flushed by a session
// @Summary Update user progress
// @Tags user
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Absolute progress"
// @Success 200 {object} domain.UserProgress
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /user/update [post]
func HandleUpdateUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "update user"); err != nil {
			return
		}

		u, err := svc.UpdateProgress(r.Context(), req.UserID, req.Balance, req.TotalEarned)
		if err != nil {
			respondServiceError(w, r, "Update user", err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}
