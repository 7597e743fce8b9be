package pipeline

import "errors"

var (
	// ErrNoStep is returned when a page arrives for a stage without a step.
	ErrNoStep = errors.New("no step registered for stage")

	// ErrUnknownSpider is returned by Lookup for an unregistered spider name.
	ErrUnknownSpider = errors.New("unknown spider")
)
