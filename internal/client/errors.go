package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("not found")
	// ErrRejected is returned when the API refuses a request (4xx other than 404)
	ErrRejected = errors.New("request rejected")
	// ErrUnavailable is returned when retries are exhausted or the server keeps failing
	ErrUnavailable = errors.New("api unavailable")
)

// APIError carries the status and message of a non-2xx response
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Unwrap classifies the status so callers can use errors.Is
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 400 && e.Status < 500:
		return ErrRejected
	default:
		return ErrUnavailable
	}
}
