package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/castcrawl/internal/crawler"
	"github.com/nao1215/castcrawl/internal/imdb"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "castcrawl"

	// DefaultSpider is the spider run when none is named on the command line.
	DefaultSpider = "imdb_spider"

	// DefaultBaseURL is the origin that relative cast links are resolved against.
	DefaultBaseURL = imdb.DefaultBaseURL

	// DefaultOutput is the output file written when -o is not given.
	DefaultOutput = "movies.csv"

	// DefaultConcurrency is the number of pages fetched at the same time.
	DefaultConcurrency = crawler.DefaultConcurrency

	// DefaultDelay is the minimum interval between two requests across
	// all workers.
	DefaultDelay = 250 * time.Millisecond

	// DefaultTimeout bounds a single HTTP request including retries of it.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the number of extra attempts for a request that
	// failed with a network error, 429 or 5xx.
	DefaultRetries = 2

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = crawler.DefaultMaxBodySize

	// DefaultUserAgent identifies castcrawl in HTTP requests.
	DefaultUserAgent = "castcrawl/1.0 (+https://github.com/nao1215/castcrawl)"

	// DefaultCreditCategory is the filmography row category that counts
	// as an acting credit.
	DefaultCreditCategory = imdb.ActorCategory
)

// LimitRule overrides politeness settings for hosts matching DomainGlob.
type LimitRule struct {
	// DomainGlob is a glob pattern such as "*.imdb.com".
	DomainGlob string `yaml:"domain"`

	// Delay is the minimum interval between requests to a matching host.
	Delay time.Duration `yaml:"delay"`

	// Parallelism caps concurrent requests to a matching host. 0 means
	// no per-host cap beyond the global concurrency.
	Parallelism int `yaml:"parallelism"`
}

// Config holds all configuration options for a crawl run.
// It is populated from defaults, the config file and CLI flags and is
// passed down explicitly; there is no global configuration state.
type Config struct {
	// Seeds are the title URLs the crawl starts from.
	Seeds []string

	// Spider names the registered spider to run.
	Spider string

	// BaseURL is the origin cast links are resolved against.
	BaseURL string

	// OutputPath is the file records are written to. "-" means stdout.
	OutputPath string

	// Format is the output format. Empty means infer from OutputPath.
	Format string

	// Concurrency is the maximum number of in-flight page fetches.
	Concurrency int

	// Delay is the global minimum interval between requests.
	Delay time.Duration

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Retries is the number of retries for transient failures.
	Retries int

	// MaxPages caps the number of fetched pages. 0 means unlimited.
	MaxPages int

	// MaxBodySize limits the bytes read from each response body.
	MaxBodySize int64

	// UserAgent is sent with every request.
	UserAgent string

	// ProxyURL routes requests through an http, https or socks5 proxy.
	ProxyURL string

	// RespectRobots makes the crawler honor robots.txt.
	RespectRobots bool

	// Headers are added to every request.
	Headers map[string]string

	// Cookie is sent as the Cookie header of every request.
	Cookie string

	// CreditCategories are the filmography row categories that are emitted.
	CreditCategories []string

	// Limits are per-domain politeness overrides.
	Limits []LimitRule

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches the log output to JSON.
	LogJSON bool

	// ConfigFilePath is the explicit config file path given with --config.
	ConfigFilePath string
}

// NewConfig returns a Config populated with default values.
// Seeds are left empty; the CLI falls back to the spider's default seeds.
func NewConfig() *Config {
	return &Config{
		Spider:           DefaultSpider,
		BaseURL:          DefaultBaseURL,
		OutputPath:       DefaultOutput,
		Concurrency:      DefaultConcurrency,
		Delay:            DefaultDelay,
		Timeout:          DefaultTimeout,
		Retries:          DefaultRetries,
		MaxBodySize:      DefaultMaxBodySize,
		UserAgent:        DefaultUserAgent,
		RespectRobots:    true,
		Headers:          map[string]string{},
		CreditCategories: []string{DefaultCreditCategory},
	}
}

// XDGConfigDir returns the XDG config directory for castcrawl.
// On Linux: ~/.config/castcrawl
// On macOS: ~/Library/Application Support/castcrawl
// On Windows: %APPDATA%\castcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile overlays the values set in f onto c. Zero values in f leave
// the corresponding field of c untouched.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if len(f.Seeds) > 0 {
		c.Seeds = append([]string(nil), f.Seeds...)
	}
	if f.Spider != "" {
		c.Spider = f.Spider
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.Output != "" {
		c.OutputPath = f.Output
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.Delay != nil {
		c.Delay = *f.Delay
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Retries != nil {
		c.Retries = *f.Retries
	}
	if f.MaxPages != 0 {
		c.MaxPages = f.MaxPages
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		c.ProxyURL = f.Proxy
	}
	if f.RespectRobots != nil {
		c.RespectRobots = *f.RespectRobots
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			c.Headers[k] = v
		}
	}
	if f.Cookie != "" {
		c.Cookie = f.Cookie
	}
	if len(f.CreditCategories) > 0 {
		c.CreditCategories = append([]string(nil), f.CreditCategories...)
	}
	if len(f.Limits) > 0 {
		c.Limits = append([]LimitRule(nil), f.Limits...)
	}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}
	for _, s := range c.Seeds {
		if !isHTTPURL(s) {
			return fmt.Errorf("%w: %q", ErrInvalidSeed, s)
		}
	}
	if c.Spider == "" {
		return ErrNoSpider
	}
	if !isHTTPURL(c.BaseURL) {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.OutputPath == "" {
		return ErrNoOutput
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.Retries < 0 {
		return ErrInvalidRetries
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if len(c.CreditCategories) == 0 {
		return ErrNoCreditCategory
	}
	for i, r := range c.Limits {
		if r.DomainGlob == "" || r.Delay < 0 || r.Parallelism < 0 {
			return fmt.Errorf("%w: limits[%d]", ErrInvalidLimitRule, i)
		}
	}
	return nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
