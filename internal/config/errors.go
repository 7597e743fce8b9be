package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrNoSeed is returned when no seed URL is configured.
	ErrNoSeed = errors.New("no seed specified: provide --seed or seeds in the config file")

	// ErrInvalidSeed is returned when a seed is not an absolute http(s) URL.
	ErrInvalidSeed = errors.New("invalid seed: must be an absolute http or https URL")

	// ErrNoSpider is returned when the spider name is empty.
	ErrNoSpider = errors.New("no spider specified")

	// ErrInvalidBaseURL is returned when the base origin used to resolve
	// cast links is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base url: must be an absolute http or https URL")

	// ErrNoOutput is returned when the output path is empty.
	ErrNoOutput = errors.New("no output specified: use -o <file> or -o - for stdout")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the delay between requests is negative.
	// Use 0 for no delay.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidRetries is returned when the retry count is negative.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	// Use 0 for no cap.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size limit is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoCreditCategory is returned when no credit category is configured,
	// which would make every filmography row unqualified.
	ErrNoCreditCategory = errors.New("no credit category specified")

	// ErrInvalidLimitRule is returned for a limit rule without a domain
	// pattern or with negative values.
	ErrInvalidLimitRule = errors.New("invalid limit rule")
)
