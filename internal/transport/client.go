package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// DefaultMaxRedirects is the redirect limit when Options.MaxRedirects is 0.
	DefaultMaxRedirects = 10

	// DefaultRetryBackoff is the first retry wait when Options.RetryBackoff is 0.
	// Each further retry doubles it.
	DefaultRetryBackoff = 500 * time.Millisecond
)

// Options configures NewHTTPClient.
type Options struct {
	// Timeout bounds a whole request, retries included. 0 means no timeout.
	Timeout time.Duration

	// UserAgent is set on requests that carry none.
	UserAgent string

	// ProxyURL is an optional http://, https:// or socks5:// proxy.
	ProxyURL string

	// Headers are set on every request.
	Headers map[string]string

	// Cookie is appended to the Cookie header of every request.
	Cookie string

	// Retries is the number of extra attempts for transient failures.
	Retries int

	// RetryBackoff is the wait before the first retry.
	RetryBackoff time.Duration

	// MaxRedirects caps followed redirects.
	MaxRedirects int
}

// NewHTTPClient returns an *http.Client configured by opts.
//
// The transport chain is retry -> header injection -> *http.Transport, so
// every retry attempt carries the injected headers.
func NewHTTPClient(opts Options) (*http.Client, error) {
	base := &http.Transport{
		Proxy:                 nil,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}

	if strings.TrimSpace(opts.ProxyURL) != "" {
		if err := applyProxy(base, strings.TrimSpace(opts.ProxyURL)); err != nil {
			return nil, err
		}
	}

	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}
	maxRedirects := opts.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: &retryTransport{
			base: &headerInjectingTransport{
				base:      base,
				userAgent: opts.UserAgent,
				cookie:    opts.Cookie,
				headers:   opts.Headers,
			},
			retries: max(opts.Retries, 0),
			backoff: backoff,
		},
		Timeout: opts.Timeout,
		Jar:     jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// applyProxy points base at the proxy described by raw.
func applyProxy(base *http.Transport, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProxyURL, err)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidProxyURL, raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		base.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		base.DialContext = contextDialer(dialer)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProxy, u.Scheme)
	}
}

func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		ch := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			ch <- dialResult{conn, err}
		}()
		select {
		case r := <-ch:
			return r.conn, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// headerInjectingTransport adds the User-Agent, configured headers and
// cookie to a clone of each request.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}
	if t.userAgent != "" && clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	return t.base.RoundTrip(clone)
}
