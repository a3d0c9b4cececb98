package handler

import (
	"net/http"

	"github.com/osse101/TapQuest_Go/internal/quest"
)

// ClaimTaskRequest claims the reward for a social task
type ClaimTaskRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	TaskID string `json:"task_id" validate:"required,max=64"`
}

// HandleListTasks returns the social tasks with the user's completion state
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param id query string true "Telegram identity"
// @Success 200 {array} domain.TaskStatus
// @Failure 404 {object} ErrorResponse
// @Router /tasks [get]
func HandleListTasks(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetQueryParam(r, w, QueryParamID)
		if !ok {
			return
		}

		tasks, err := svc.ListTasks(r.Context(), identity)
		if err != nil {
			respondServiceError(w, r, "List tasks", err)
			return
		}
		respondJSON(w, http.StatusOK, tasks)
	}
}

// HandleClaimTask credits a task reward once per user
// @Summary Claim task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ClaimTaskRequest true "Claim"
// @Success 200 {object} domain.ClaimResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tasks/claim [post]
func HandleClaimTask(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClaimTaskRequest
		if err := DecodeAndValidateRequest(r, w, &req, "claim task"); err != nil {
			return
		}

		res, err := svc.ClaimTask(r.Context(), req.UserID, req.TaskID)
		if err != nil {
			respondServiceError(w, r, "Claim task", err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}
