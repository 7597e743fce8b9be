package output

import "errors"

var (
	// ErrUnknownFormat is returned for an output format that is not supported.
	ErrUnknownFormat = errors.New("unknown output format: use csv, jsonl, markdown or sqlite")

	// ErrStdoutNotSupported is returned when a format that needs a real file
	// (sqlite) is asked to write to stdout.
	ErrStdoutNotSupported = errors.New("format cannot be written to stdout")

	// ErrClosed is returned by Write after Close.
	ErrClosed = errors.New("writer is closed")
)
