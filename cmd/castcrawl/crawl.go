package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/castcrawl/internal/config"
	"github.com/nao1215/castcrawl/internal/crawler"
	applog "github.com/nao1215/castcrawl/internal/log"
	"github.com/nao1215/castcrawl/internal/model"
	"github.com/nao1215/castcrawl/internal/output"
	"github.com/nao1215/castcrawl/internal/pipeline"
	"github.com/nao1215/castcrawl/internal/transport"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [spider]",
		Short: "Crawl cast lists and write actor/title records",
		Long: `Crawl starts from one or more IMDb title pages, follows each title's full
credits page to every credited cast member and writes one record per acting
credit listed on the performer's page.

The spider defaults to imdb_spider. Without --seed, the seeds of the config
file are used, and without those the spider's default seed.

Flags that are set explicitly override the config file, which overrides the
built-in defaults.

Examples:
  # Crawl the default title into movies.csv
  castcrawl crawl -o movies.csv

  # Crawl two titles and write JSON Lines to stdout
  castcrawl crawl --seed https://www.imdb.com/title/tt0106145/ \
    --seed https://www.imdb.com/title/tt0092455/ --format jsonl -o -

  # Store the records in SQLite through a SOCKS5 proxy
  castcrawl crawl -o cast.db --proxy socks5://127.0.0.1:1080`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringArray("seed", nil,
		"Title URL to start from (repeatable)")
	cmd.Flags().StringP("output", "o", config.DefaultOutput,
		`Output file path ("-" for stdout)`)
	cmd.Flags().StringP("format", "f", "",
		"Output format: csv, jsonl, markdown or sqlite (default: from the output extension)")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Origin that relative cast links are resolved against")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Maximum number of pages fetched at the same time")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Minimum interval between two requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for a single request")
	cmd.Flags().Int("retries", config.DefaultRetries,
		"Retries for network errors, 429 and 5xx responses")
	cmd.Flags().IntP("max-pages", "p", 0,
		"Maximum number of pages to fetch (0 = unlimited)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().String("proxy", "",
		"Proxy URL (http, https, socks5 or socks5h)")
	cmd.Flags().Bool("ignore-robots", false,
		"Do not honor robots.txt")
	cmd.Flags().StringP("config", "c", "",
		"Path to config file (default: .castcrawl, XDG config.yaml, ~/.castcrawl)")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := applog.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger, cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig merges defaults, the config file and the explicitly set flags
// into a validated Config.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the search locations
	// are optional.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.ApplyFile(file)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Spider = args[0]
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if len(cfg.Seeds) == 0 {
		spider, err := pipeline.Lookup(cfg.Spider)
		if err != nil {
			return nil, err
		}
		cfg.Seeds = append([]string(nil), spider.DefaultSeeds...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies the flags the user set onto cfg. Flags left at their
// default do not override values from the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("seed") {
		if cfg.Seeds, err = flags.GetStringArray("seed"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputPath, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return err
		}
	}
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if flags.Changed("delay") {
		if cfg.Delay, err = flags.GetDuration("delay"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("retries") {
		if cfg.Retries, err = flags.GetInt("retries"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyURL, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("ignore-robots") {
		ignore, err := flags.GetBool("ignore-robots")
		if err != nil {
			return err
		}
		cfg.RespectRobots = !ignore
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return err
	}
	return nil
}

// runCrawl wires the transport, spider, output and crawler together and
// runs one crawl. The summary line is written to stderr.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer) (err error) {
	spider, err := pipeline.Lookup(cfg.Spider)
	if err != nil {
		return err
	}

	client, err := transport.NewHTTPClient(transport.Options{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		ProxyURL:  cfg.ProxyURL,
		Headers:   cfg.Headers,
		Cookie:    cfg.Cookie,
		Retries:   cfg.Retries,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	writer, err := output.Open(cfg.OutputPath, cfg.Format)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close output: %w", cerr))
		}
	}()

	handler := spider.New(pipeline.Options{
		BaseURL:          cfg.BaseURL,
		CreditCategories: cfg.CreditCategories,
		Logger:           logger,
	})

	c, err := crawler.New(client, handler, writer,
		crawler.WithLogger(logger),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithDelay(cfg.Delay),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithRobots(cfg.RespectRobots, cfg.UserAgent),
		crawler.WithLimitRules(limitRules(cfg)...),
	)
	if err != nil {
		return fmt.Errorf("failed to create crawler: %w", err)
	}

	seeds := make([]model.Task, 0, len(cfg.Seeds))
	for _, s := range cfg.Seeds {
		seeds = append(seeds, model.NewSeed(s))
	}

	logger.Info("starting crawl",
		"spider", spider.Name,
		"seeds", len(seeds),
		"output", cfg.OutputPath,
		"concurrency", cfg.Concurrency)

	stats, err := c.Run(ctx, seeds...)
	fmt.Fprintf(stderr, "%s: %s\n", spider.Name, stats)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("crawl interrupted: %w", err)
		}
		return fmt.Errorf("crawl failed: %w", err)
	}
	return nil
}

// limitRules converts the configured limits. A rule without parallelism
// inherits the global concurrency.
func limitRules(cfg *config.Config) []crawler.LimitRule {
	rules := make([]crawler.LimitRule, 0, len(cfg.Limits))
	for _, l := range cfg.Limits {
		p := l.Parallelism
		if p == 0 {
			p = cfg.Concurrency
		}
		rules = append(rules, crawler.LimitRule{
			DomainGlob:  l.DomainGlob,
			Delay:       l.Delay,
			Parallelism: p,
		})
	}
	return rules
}
