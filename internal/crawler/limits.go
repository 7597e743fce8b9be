package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/time/rate"
)

// LimitRule restricts requests to hosts matching DomainGlob.
//
//   - Parallelism: at most this many concurrent requests to matching hosts
//     (values below 1 mean 1)
//   - Delay: minimum interval between two requests to matching hosts
type LimitRule struct {
	// DomainGlob is matched against the request host, e.g. "*imdb.com".
	DomainGlob string

	// Delay is the minimum interval between requests.
	Delay time.Duration

	// Parallelism is the maximum number of concurrent requests.
	Parallelism int

	compiled glob.Glob
	slots    chan struct{}
	limiter  *rate.Limiter
}

// init compiles the glob and allocates the rule's slots and limiter.
func (r *LimitRule) init() error {
	if r.DomainGlob == "" {
		return ErrNoPattern
	}
	g, err := glob.Compile(r.DomainGlob)
	if err != nil {
		return fmt.Errorf("invalid domain glob %q: %w", r.DomainGlob, err)
	}
	r.compiled = g
	r.slots = make(chan struct{}, max(r.Parallelism, 1))
	if r.Delay > 0 {
		r.limiter = rate.NewLimiter(rate.Every(r.Delay), 1)
	}
	return nil
}

// Match reports whether host is covered by the rule.
func (r *LimitRule) Match(host string) bool {
	return r.compiled != nil && r.compiled.Match(host)
}

// acquire blocks until a slot is free and the rule's delay has passed.
// The returned function releases the slot.
func (r *LimitRule) acquire(ctx context.Context) (func(), error) {
	select {
	case r.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	release := func() { <-r.slots }

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}

// matchRule returns the first rule matching host, or nil.
func matchRule(rules []*LimitRule, host string) *LimitRule {
	for _, r := range rules {
		if r.Match(host) {
			return r
		}
	}
	return nil
}
