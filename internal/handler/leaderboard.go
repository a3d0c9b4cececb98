package handler

import (
	"net/http"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/leaderboard"
)

// HandleLeaderboard returns the top players by total earned
// @Summary Leaderboard
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Maximum entries (default and max 100)"
// @Success 200 {array} domain.LeaderboardEntry
// @Failure 400 {object} ErrorResponse
// @Router /leaderboard [get]
func HandleLeaderboard(svc leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := GetOptionalIntQueryParam(r, QueryParamLimit, domain.LeaderboardDefaultLimit)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}

		entries, err := svc.Top(r.Context(), limit)
		if err != nil {
			respondServiceError(w, r, "Leaderboard", err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}
