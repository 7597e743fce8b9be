package crawler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// maxRobotsSize limits the robots.txt body read per host.
const maxRobotsSize = 512 * 1024

// robotsCache fetches robots.txt once per scheme and host.
// A nil entry means everything is allowed.
type robotsCache struct {
	client    *http.Client
	userAgent string

	mu      sync.Mutex
	entries map[string]*robotsEntry
}

type robotsEntry struct {
	once sync.Once
	data *robotstxt.RobotsData
}

func newRobotsCache(client *http.Client, userAgent string) *robotsCache {
	return &robotsCache{
		client:    client,
		userAgent: userAgent,
		entries:   make(map[string]*robotsEntry),
	}
}

// Allowed reports whether u may be fetched. Hosts whose robots.txt cannot
// be fetched, or answers with a 5xx status, are treated as allowing all.
func (c *robotsCache) Allowed(ctx context.Context, u *url.URL) bool {
	key := u.Scheme + "://" + u.Host

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &robotsEntry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.data = c.fetch(ctx, key+"/robots.txt")
	})
	if e.data == nil {
		return true
	}
	return e.data.TestAgent(u.RequestURI(), c.userAgent)
}

func (c *robotsCache) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data
}
