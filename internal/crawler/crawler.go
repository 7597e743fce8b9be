package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/castcrawl/internal/markup"
	"github.com/nao1215/castcrawl/internal/model"
)

// Default crawler settings used when no option overrides them.
const (
	// DefaultConcurrency keeps a single-title crawl quick without
	// hammering the site.
	DefaultConcurrency = 8
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
	acceptHeader       = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Crawler fetches tasks, hands the parsed pages to a Handler and writes the
// extracted records to a Sink.
type Crawler struct {
	client  *http.Client
	handler Handler
	sink    Sink
	logger  *slog.Logger

	concurrency   int
	delay         time.Duration
	maxPages      int
	maxBodySize   int64
	respectRobots bool
	robotsAgent   string
	rules         []*LimitRule
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrency sets the maximum number of in-flight fetches.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithDelay sets the minimum interval between any two requests.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithMaxPages caps the number of tasks processed in one run. 0 means no cap.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithMaxBodySize limits the bytes read from each response body.
func WithMaxBodySize(n int64) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithRobots makes the crawler honor robots.txt rules for userAgent.
func WithRobots(respect bool, userAgent string) Option {
	return func(c *Crawler) {
		c.respectRobots = respect
		c.robotsAgent = userAgent
	}
}

// WithLimitRules adds per-host politeness rules. The first matching rule wins.
func WithLimitRules(rules ...LimitRule) Option {
	return func(c *Crawler) {
		for _, r := range rules {
			c.rules = append(c.rules, &r)
		}
	}
}

// New returns a Crawler that fetches with client, which should already carry
// the transport settings (proxy, headers, retries).
func New(client *http.Client, handler Handler, sink Sink, opts ...Option) (*Crawler, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}
	if sink == nil {
		return nil, ErrNoSink
	}
	if client == nil {
		client = http.DefaultClient
	}

	c := &Crawler{
		client:      client,
		handler:     handler,
		sink:        &lockedSink{sink: sink},
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, r := range c.rules {
		if err := r.init(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// run holds the state of a single Run call.
type run struct {
	limiter *rate.Limiter
	robots  *robotsCache
	abort   context.CancelCauseFunc

	fetched       atomic.Int64
	failed        atomic.Int64
	robotsBlocked atomic.Int64
	records       atomic.Int64
}

// Run crawls starting from seeds until no task is left, MaxPages is
// reached, the context is canceled or the sink fails.
func (c *Crawler) Run(ctx context.Context, seeds ...model.Task) (Stats, error) {
	start := time.Now()

	runCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	st := &run{abort: abort}
	if c.delay > 0 {
		st.limiter = rate.NewLimiter(rate.Every(c.delay), 1)
	}
	if c.respectRobots {
		st.robots = newRobotsCache(c.client, c.robotsAgent)
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	results := make(chan []model.Task)
	queue := append([]model.Task(nil), seeds...)
	inflight, scheduled, dropped := 0, 0, 0

	for {
		for len(queue) > 0 && inflight < c.concurrency && runCtx.Err() == nil {
			if c.maxPages > 0 && scheduled >= c.maxPages {
				dropped += len(queue)
				c.logger.Info("max pages reached", "max_pages", c.maxPages, "dropped", len(queue))
				queue = nil
				break
			}

			task := queue[0]
			queue = queue[1:]
			inflight++
			scheduled++
			g.Go(func() error {
				results <- c.process(runCtx, st, task)
				return nil
			})
		}

		if inflight == 0 {
			break
		}
		next := <-results
		inflight--
		if runCtx.Err() == nil {
			queue = append(queue, next...)
		}
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	stats := Stats{
		PagesFetched:  int(st.fetched.Load()),
		PagesFailed:   int(st.failed.Load()),
		RobotsBlocked: int(st.robotsBlocked.Load()),
		Records:       int(st.records.Load()),
		Dropped:       dropped + len(queue),
		Elapsed:       time.Since(start),
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if cause := context.Cause(runCtx); cause != nil {
		return stats, cause
	}
	return stats, nil
}

// process handles one task and returns its follow-up tasks. Failures are
// logged and yield no follow-ups.
func (c *Crawler) process(ctx context.Context, st *run, task model.Task) []model.Task {
	logger := c.logger.With("stage", task.Stage.String(), "url", task.URL)

	page, err := c.fetch(ctx, st, task)
	if err != nil {
		switch {
		case ctx.Err() != nil:
		case errors.Is(err, ErrRobotsBlocked):
			st.robotsBlocked.Add(1)
			logger.Info("skipped by robots.txt")
		default:
			st.failed.Add(1)
			logger.Warn("fetch failed", "error", err)
		}
		return nil
	}
	st.fetched.Add(1)

	res, err := c.handler.Handle(ctx, page)
	if err != nil {
		st.failed.Add(1)
		logger.Warn("handler failed", "error", err)
		return nil
	}

	for _, rec := range res.Records {
		if err := c.sink.Write(rec); err != nil {
			st.abort(fmt.Errorf("failed to write record: %w", err))
			return nil
		}
		st.records.Add(1)
	}
	logger.Debug("page handled", "tasks", len(res.Tasks), "records", len(res.Records))
	return res.Tasks
}

// fetch applies robots and politeness rules, then GETs and parses task.URL.
func (c *Crawler) fetch(ctx context.Context, st *run, task model.Task) (*Page, error) {
	u, err := url.Parse(task.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, task.URL)
	}

	if st.robots != nil && !st.robots.Allowed(ctx, u) {
		return nil, fmt.Errorf("%w: %s", ErrRobotsBlocked, task.URL)
	}

	release, err := c.wait(ctx, st, u.Hostname())
	if err != nil {
		return nil, err
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	if task.Referer != "" {
		req.Header.Set("Referer", task.Referer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: task.URL, Code: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	doc, err := markup.Parse(io.LimitReader(resp.Body, c.maxBodySize), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", task.URL, err)
	}

	return &Page{
		Task:        task,
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Document:    doc,
	}, nil
}

// wait blocks until the global and per-host limits allow a request.
func (c *Crawler) wait(ctx context.Context, st *run, host string) (func(), error) {
	release := func() {}
	if r := matchRule(c.rules, host); r != nil {
		var err error
		if release, err = r.acquire(ctx); err != nil {
			return nil, err
		}
	}
	if st.limiter != nil {
		if err := st.limiter.Wait(ctx); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}

// lockedSink serializes writes from concurrent workers.
type lockedSink struct {
	mu   sync.Mutex
	sink Sink
}

func (s *lockedSink) Write(rec model.Association) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Write(rec)
}
