package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandleHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleHealthz().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decodeBody[HealthResponse](t, rr).Status)
}

func TestHandleReadyz(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		pool := new(MockDBPool)
		pool.On("Ping", mock.Anything).Return(nil)

		rr := httptest.NewRecorder()
		HandleReadyz(DatabaseCheck(pool)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", decodeBody[HealthResponse](t, rr).Checks["database"])
		pool.AssertExpectations(t)
	})

	t.Run("database down", func(t *testing.T) {
		pool := new(MockDBPool)
		pool.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		rr := httptest.NewRecorder()
		HandleReadyz(DatabaseCheck(pool)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		resp := decodeBody[HealthResponse](t, rr)
		assert.Equal(t, "unavailable", resp.Status)
		assert.Equal(t, "unavailable", resp.Checks["database"])
		assert.NotContains(t, resp.Message, "refused")
	})

	t.Run("one failing check fails readiness", func(t *testing.T) {
		ok := ReadinessCheck{Name: "catalog", Probe: func(context.Context) error { return nil }}
		bad := ReadinessCheck{Name: "cache", Probe: func(context.Context) error { return errors.New("cold") }}

		rr := httptest.NewRecorder()
		HandleReadyz(ok, bad).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		resp := decodeBody[HealthResponse](t, rr)
		assert.Equal(t, map[string]string{"catalog": "ok", "cache": "unavailable"}, resp.Checks)
	})
}

func TestHandleVersion(t *testing.T) {
	t.Setenv("VERSION", "1.2.3")
	prev := Version
	Version = "dev"
	t.Cleanup(func() { Version = prev })

	rr := httptest.NewRecorder()
	HandleVersion().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

	info := decodeBody[VersionInfo](t, rr)
	assert.Equal(t, "1.2.3", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestHandleVersion_LdflagsWin(t *testing.T) {
	t.Setenv("VERSION", "1.2.3")
	prev := Version
	Version = "2.0.0"
	t.Cleanup(func() { Version = prev })

	rr := httptest.NewRecorder()
	HandleVersion().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, "2.0.0", decodeBody[VersionInfo](t, rr).Version)
}
