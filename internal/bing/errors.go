// Package bing provides error types for image archive API responses.
package bing

import (
	"errors"
	"fmt"
)

// ErrNoImage indicates the archive returned no image for the requested index.
// Bing serves roughly 16 days of history; older indexes come back empty.
var ErrNoImage = errors.New("no image available for the requested index")

// APIError represents a non-2xx response from the archive endpoint.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bing API request failed: %s (%s)", e.Status, e.URL)
}

// IsNotFound reports whether err is a 404 from the archive endpoint.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
