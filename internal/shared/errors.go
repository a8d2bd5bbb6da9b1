package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Album definition errors
	ErrConfigConflict      = fmt.Errorf("conflicting filter fields")
	ErrUnresolvedReference = fmt.Errorf("unresolved reference")
	ErrMalformedTimespan   = fmt.Errorf("malformed timespan")

	// API and service errors
	ErrUpstream           = fmt.Errorf("upstream request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrUnsupportedVersion = fmt.Errorf("unsupported server version")
	ErrAlbumNotFound      = fmt.Errorf("album not found")
	ErrSyncRunNotFound    = fmt.Errorf("sync run not found")
	ErrBatchAborted       = fmt.Errorf("batch aborted")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
