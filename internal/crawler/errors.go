package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrRobotsBlocked is returned for a task whose URL is disallowed by
	// the host's robots.txt.
	ErrRobotsBlocked = errors.New("blocked by robots.txt")

	// ErrInvalidURL is returned for a task whose URL is not an absolute
	// http or https URL.
	ErrInvalidURL = errors.New("invalid task url")

	// ErrNoHandler is returned by New when the handler is nil.
	ErrNoHandler = errors.New("crawler: nil handler")

	// ErrNoSink is returned by New when the sink is nil.
	ErrNoSink = errors.New("crawler: nil sink")

	// ErrNoPattern is returned for a LimitRule without a domain glob.
	ErrNoPattern = errors.New("limit rule has no domain glob")
)

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	URL  string
	Code int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}
