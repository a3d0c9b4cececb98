package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/TapQuest_Go/internal/database"
	"github.com/osse101/TapQuest_Go/internal/logger"
)

// HealthResponse is returned by the liveness and readiness probes
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ReadinessCheck is one dependency probed by /readyz
type ReadinessCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// DatabaseCheck pings the pool
func DatabaseCheck(pool database.Pool) ReadinessCheck {
	return ReadinessCheck{Name: "database", Probe: pool.Ping}
}

const (
	readinessTimeout = 2 * time.Second
	statusOK         = "ok"
	statusDown       = "unavailable"
)

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the process is serving
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: statusOK})
	}
}

// HandleReadyz runs every check and reports 503 if any fails. Failure
// details are logged, not returned.
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: statusOK, Checks: make(map[string]string, len(checks))}
		for _, c := range checks {
			if err := c.Probe(ctx); err != nil {
				logger.FromContext(ctx).Error("Readiness check failed", "check", c.Name, "error", err)
				resp.Checks[c.Name] = statusDown
				resp.Status = statusDown
				continue
			}
			resp.Checks[c.Name] = statusOK
		}

		if resp.Status != statusOK {
			resp.Message = "Dependency unavailable"
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
