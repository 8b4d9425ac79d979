package fetch

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped into errors returned for HTTP 404 responses.
// Callers distinguish it from other failures because a missing listing
// page means the site is gone while a missing detail page only means
// one video was removed.
var ErrNotFound = errors.New("page not found")

// StatusError reports a non-2xx HTTP response other than 404.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}
