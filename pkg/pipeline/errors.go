package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the normalized failure every pipeline call reports.
// Status 0 means the request never produced an HTTP response. Path is the
// relative endpoint the call targeted, before base-URL resolution.
type APIError struct {
	Message     string            `json:"message"`
	Status      int               `json:"status"`
	Path        string            `json:"-"`
	FieldErrors map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("pipeline: request failed: %s", e.Message)
	}
	return fmt.Sprintf("pipeline: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// IsTransport reports whether the failure happened before any HTTP response.
func (e *APIError) IsTransport() bool { return e.Status == 0 }

// IsUnauthorized reports a 401 response.
func (e *APIError) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }

// IsForbidden reports a 403 response.
func (e *APIError) IsForbidden() bool { return e.Status == http.StatusForbidden }

// StatusOf extracts the HTTP status from err when it is an *APIError,
// returning -1 for other error kinds.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}
