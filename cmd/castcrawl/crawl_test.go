package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/castcrawl/internal/config"
	"github.com/nao1215/castcrawl/internal/imdb"
	"github.com/nao1215/castcrawl/internal/pipeline"
)

const (
	testCreditsHTML = `<html><body><table class="cast_list">
<tr><td class="primary_photo"><a href="/name/nm0001/"><img alt="A"></a></td><td>A</td></tr>
<tr><td class="primary_photo"><a href="/name/nm0002/"><img alt="B"></a></td><td>B</td></tr>
</table></body></html>`

	testJaneDoeHTML = `<html><body>
<div id="name-overview-widget"><h1><span class="itemprop">Jane Doe</span></h1></div>
<div class="filmo-row odd" id="actor-tt0000001"><b><a href="/title/tt0000001/">Film A</a></b></div>
<div class="filmo-row even" id="actor-tt0000002"><b><a href="/title/tt0000002/">Film B</a></b></div>
<div class="filmo-row odd" id="director-tt0000003"><b><a href="/title/tt0000003/">Film C</a></b></div>
</body></html>`

	testJohnDoeHTML = `<html><body>
<div id="name-overview-widget"><h1><span class="itemprop">John Doe</span></h1></div>
<div class="filmo-row" id="actor-tt0000002"><b><a href="/title/tt0000002/">Film B</a></b></div>
</body></html>`
)

// newFakeIMDb serves one title with two credited performers.
func newFakeIMDb(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/title/tt0106145/":            "<html><head><title>Gettysburg</title></head><body></body></html>",
		"/title/tt0106145/fullcredits": testCreditsHTML,
		"/name/nm0001/":                testJaneDoeHTML,
		"/name/nm0002/":                testJohnDoeHTML,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body) //nolint:errcheck // test server
	}))
	t.Cleanup(server.Close)
	return server
}

// writeConfig writes a config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "castcrawl.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// buildTestConfig parses args like the crawl command and builds its config.
func buildTestConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	cmd := NewCrawlCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return buildConfig(cmd, cmd.Flags().Args())
}

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	if cmd.Use != "crawl [spider]" {
		t.Errorf("expected use 'crawl [spider]', got %q", cmd.Use)
	}

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "seed", defValue: "[]"},
		{name: "output", shorthand: "o", defValue: config.DefaultOutput},
		{name: "format", shorthand: "f", defValue: ""},
		{name: "base-url", defValue: config.DefaultBaseURL},
		{name: "concurrency", shorthand: "n", defValue: "8"},
		{name: "delay", defValue: "250ms"},
		{name: "timeout", shorthand: "t", defValue: "30s"},
		{name: "retries", defValue: "2"},
		{name: "max-pages", shorthand: "p", defValue: "0"},
		{name: "user-agent", defValue: config.DefaultUserAgent},
		{name: "proxy", defValue: ""},
		{name: "ignore-robots", defValue: "false"},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "log-json", defValue: "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestBuildConfig tests flag, file and default precedence.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults use the spider seed", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeConfig(t, "# empty\n")

		cfg, err := buildTestConfig(t, "--config", cfgPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != imdb.DefaultSeedURL {
			t.Errorf("expected default seed, got %v", cfg.Seeds)
		}
		if cfg.Spider != config.DefaultSpider {
			t.Errorf("expected spider %q, got %q", config.DefaultSpider, cfg.Spider)
		}
		if !cfg.RespectRobots {
			t.Error("expected robots.txt to be respected by default")
		}
	})

	t.Run("file overrides defaults and flags override file", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeConfig(t, `
seeds:
  - https://www.imdb.com/title/tt0092455/
concurrency: 3
delay: 1s
retries: 0
respect_robots: false
credit_categories: [actor, actress]
`)

		cfg, err := buildTestConfig(t, "--config", cfgPath, "--concurrency", "5", "--max-pages", "10")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Concurrency != 5 {
			t.Errorf("expected flag concurrency 5, got %d", cfg.Concurrency)
		}
		if cfg.MaxPages != 10 {
			t.Errorf("expected flag max pages 10, got %d", cfg.MaxPages)
		}
		if cfg.Delay != time.Second {
			t.Errorf("expected file delay 1s, got %s", cfg.Delay)
		}
		if cfg.Retries != 0 {
			t.Errorf("expected file retries 0, got %d", cfg.Retries)
		}
		if cfg.RespectRobots {
			t.Error("expected respect_robots false from file")
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "https://www.imdb.com/title/tt0092455/" {
			t.Errorf("expected file seed, got %v", cfg.Seeds)
		}
		if len(cfg.CreditCategories) != 2 {
			t.Errorf("expected two credit categories, got %v", cfg.CreditCategories)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %s", cfg.Timeout)
		}
	})

	t.Run("seed flags replace file seeds", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeConfig(t, "seeds: [\"https://www.imdb.com/title/tt0092455/\"]\n")

		cfg, err := buildTestConfig(t, "--config", cfgPath,
			"--seed", "https://example.com/title/tt1/",
			"--seed", "https://example.com/title/tt2/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"https://example.com/title/tt1/", "https://example.com/title/tt2/"}
		if strings.Join(cfg.Seeds, " ") != strings.Join(want, " ") {
			t.Errorf("expected seeds %v, got %v", want, cfg.Seeds)
		}
	})

	t.Run("ignore-robots flag", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeConfig(t, "respect_robots: true\n")

		cfg, err := buildTestConfig(t, "--config", cfgPath, "--ignore-robots")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RespectRobots {
			t.Error("expected --ignore-robots to win over the file")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()
		_, err := buildTestConfig(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed config file", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeConfig(t, "concurrency: [not a number\n")

		if _, err := buildTestConfig(t, "--config", cfgPath); err == nil {
			t.Error("expected error for malformed config")
		}
	})

	t.Run("unknown spider", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeConfig(t, "# empty\n")

		_, err := buildTestConfig(t, "--config", cfgPath, "no_such_spider")
		if !errors.Is(err, pipeline.ErrUnknownSpider) {
			t.Errorf("expected ErrUnknownSpider, got %v", err)
		}
	})

	t.Run("invalid seed", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeConfig(t, "# empty\n")

		_, err := buildTestConfig(t, "--config", cfgPath, "--seed", "not-a-url")
		if !errors.Is(err, config.ErrInvalidSeed) {
			t.Errorf("expected ErrInvalidSeed, got %v", err)
		}
	})

	t.Run("invalid concurrency", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeConfig(t, "# empty\n")

		_, err := buildTestConfig(t, "--config", cfgPath, "--concurrency", "0")
		if !errors.Is(err, config.ErrInvalidConcurrency) {
			t.Errorf("expected ErrInvalidConcurrency, got %v", err)
		}
	})
}

// TestLimitRules tests the conversion of configured limits.
func TestLimitRules(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Concurrency = 4
	cfg.Limits = []config.LimitRule{
		{DomainGlob: "*imdb.com", Delay: time.Second, Parallelism: 2},
		{DomainGlob: "*.example.com"},
	}

	rules := limitRules(cfg)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].DomainGlob != "*imdb.com" || rules[0].Delay != time.Second || rules[0].Parallelism != 2 {
		t.Errorf("unexpected first rule: %+v", rules[0])
	}
	if rules[1].Parallelism != 4 {
		t.Errorf("expected parallelism to inherit concurrency 4, got %d", rules[1].Parallelism)
	}
}

// TestCrawlCommand runs the whole command against a fake site and checks
// the CSV file it writes.
func TestCrawlCommand(t *testing.T) {
	server := newFakeIMDb(t)
	dir := t.TempDir()
	cfgPath := writeConfig(t, "# empty\n")
	outPath := filepath.Join(dir, "out", "movies.csv")

	var stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"crawl", "imdb_spider",
		"--config", cfgPath,
		"--seed", server.URL + "/title/tt0106145/",
		"--base-url", server.URL,
		"--delay", "0s",
		"--retries", "0",
		"-o", outPath,
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr.String())
	}

	f, err := os.Open(outPath) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 records, got %v", rows)
	}
	if strings.Join(rows[0], ",") != "actor,movie_or_TV_name" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	var got []string
	for _, r := range rows[1:] {
		got = append(got, r[0]+"|"+r[1])
	}
	sort.Strings(got)
	want := []string{"Jane Doe|Film A", "Jane Doe|Film B", "John Doe|Film B"}
	if strings.Join(got, ";") != strings.Join(want, ";") {
		t.Errorf("expected records %v, got %v", want, got)
	}

	if !strings.Contains(stderr.String(), "4 pages fetched") {
		t.Errorf("expected summary on stderr, got %q", stderr.String())
	}
}

// TestCrawlCommandMaxPages tests that the summary reports tasks discarded by
// the page cap.
func TestCrawlCommandMaxPages(t *testing.T) {
	server := newFakeIMDb(t)

	var stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"crawl",
		"--config", writeConfig(t, "# empty\n"),
		"--seed", server.URL + "/title/tt0106145/",
		"--base-url", server.URL,
		"--delay", "0s",
		"--max-pages", "1",
		"-o", filepath.Join(t.TempDir(), "movies.csv"),
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), "1 pages fetched") || !strings.Contains(stderr.String(), "1 dropped") {
		t.Errorf("expected one fetched and one dropped page in summary, got %q", stderr.String())
	}
}

// TestCrawlCommandConfigError tests that configuration errors fail the command.
func TestCrawlCommandConfigError(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"crawl", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for missing config file")
	}
}

// TestCrawlCommandOutputError tests that an unusable output fails the command
// before any page is fetched.
func TestCrawlCommandOutputError(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"crawl",
		"--config", writeConfig(t, "# empty\n"),
		"--seed", server.URL + "/title/tt1/",
		"--format", "xml",
		"-o", filepath.Join(t.TempDir(), "movies.xml"),
	})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}
