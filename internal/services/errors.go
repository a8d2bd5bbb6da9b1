package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/albumsync/internal/shared"
)

// UpstreamError is a failed call to the photo server: either the transport
// failed (StatusCode is 0) or the server answered with a status of 400 or above.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %s %s: %v", shared.ErrUpstream, e.Method, e.Path, e.Err)
	}

	body := strings.TrimSpace(e.Body)
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("%v: %s %s returned %d %s: %s", shared.ErrUpstream, e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), body)
}

// Unwrap exposes both the upstream sentinel and, for transport failures, the cause.
func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{shared.ErrUpstream, e.Err}
	}
	return []error{shared.ErrUpstream}
}

// NotFound reports whether the server answered 404.
func (e *UpstreamError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
