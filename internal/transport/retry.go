package transport

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// maxRetryAfter caps how long a Retry-After header may stall a request.
const maxRetryAfter = 30 * time.Second

// retryTransport retries replayable requests (GET or HEAD without a body)
// on network errors, 429 and 5xx responses. The last response or error is
// returned once retries are exhausted.
type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempts := 1
	if isReplayable(req) {
		attempts += t.retries
	}

	ctx := req.Context()
	wait := t.backoff
	for attempt := 1; ; attempt++ {
		resp, err := t.base.RoundTrip(req)
		if attempt >= attempts || !shouldRetry(resp, err) || ctx.Err() != nil {
			return resp, err
		}

		delay := wait
		if resp != nil {
			if ra, ok := retryAfter(resp); ok {
				delay = ra
			}
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10)) //nolint:errcheck // draining for connection reuse
			_ = resp.Body.Close()                                          //nolint:errcheck // response is discarded
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

func isReplayable(req *http.Request) bool {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return false
	}
	return req.Body == nil || req.Body == http.NoBody
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter), true
}
