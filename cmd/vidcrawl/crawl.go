package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidcrawl/vidcrawl/internal/config"
	"github.com/vidcrawl/vidcrawl/internal/crawler"
	"github.com/vidcrawl/vidcrawl/internal/fetch"
	"github.com/vidcrawl/vidcrawl/internal/log"
	"github.com/vidcrawl/vidcrawl/internal/notify"
	"github.com/vidcrawl/vidcrawl/internal/store"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [site...]",
		Short: "Crawl configured video sites for new videos",
		Long: `Crawl walks each site's listing pages from the configured entry point,
following previous-page links until the oldest page. Videos not seen on
an earlier run are stored, their detail pages are fetched for tags, and
each new discovery is announced.

Sites are defined in the configuration file (see 'vidcrawl init'). With
no arguments, every configured site is crawled.

Examples:
  # Crawl all configured sites
  vidcrawl crawl

  # Crawl one site
  vidcrawl crawl demotube

  # Resume one site from a specific listing page
  vidcrawl crawl demotube --start-url https://demo.example/videos/42

  # Crawl three sites, two at a time
  vidcrawl crawl site1 site2 site3 --concurrency 2

  # Use PostgreSQL instead of the default SQLite file
  vidcrawl crawl --db postgres://vidcrawl@localhost/vidcrawl`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: vidcrawl.yaml in current or XDG config directory)")
	cmd.Flags().String("db", "",
		"Database DSN: SQLite file path or postgres:// URL (default: vidcrawl.db in XDG data directory)")
	cmd.Flags().StringP("start-url", "s", "",
		"Listing page to start from instead of the configured entry point (single site only)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of sites crawled in parallel")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with sensitive-value redaction: site
	// configs may carry session cookies and proxy credentials.
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cmd, cfg, logger)
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

// buildCrawlConfig creates a Config from cobra command flags.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.DatabaseDSN, err = cmd.Flags().GetString("db")
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = config.DefaultDatabasePath()
	}

	cfg.StartURL, err = cmd.Flags().GetString("start-url")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	// Selectors and entry points live in the config file, so crawling
	// without one is impossible.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" {
		if cfg.ConfigFilePath != "" {
			return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil, errors.New("no configuration file found (run 'vidcrawl init' to create one)")
	}
	cfg.File, err = config.LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// Positional arguments select a subset of the configured sites.
	cfg.Sites = args
	if len(cfg.Sites) == 0 {
		cfg.Sites = cfg.File.SiteNames()
	}

	if cfg.StartURL != "" && len(cfg.Sites) != 1 {
		return nil, fmt.Errorf("--start-url applies to a single site, but %d sites are selected", len(cfg.Sites))
	}

	return cfg, nil
}

// runCrawl resolves the selected sites and crawls them.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	// Resolve every site before opening connections: a typo in one
	// site's config should fail the run before any crawling starts.
	sites := make([]config.Site, 0, len(cfg.Sites))
	for _, name := range cfg.Sites {
		site, err := cfg.File.Site(name)
		if err != nil {
			return err
		}
		sites = append(sites, site)
	}

	st, err := store.Open(ctx, cfg.DatabaseDSN, store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()
	logger.Info("database opened", "dsn", cfg.DatabaseDSN)

	notifier := buildNotifier(cfg.File.Notify, logger)
	retryCfg := cfg.File.RetryConfig()

	factory := func(site config.Site) (*crawler.Crawler, error) {
		fetcher, err := buildFetcher(site, logger)
		if err != nil {
			return nil, err
		}
		return crawler.New(site, st, fetcher,
			crawler.WithNotifier(notifier),
			crawler.WithRetryConfig(retryCfg),
			crawler.WithLogger(logger),
		)
	}

	runner := crawler.NewRunner(factory,
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithRunnerLogger(logger),
	)

	start := time.Now()
	results := runner.Run(ctx, sites, cfg.StartURL)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "Crawl failed for %s: %v\n", r.Site, r.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Crawled %s: %d pages, %d videos (%d new, %d enriched) in %s\n",
			r.Site, r.Stats.Pages, r.Stats.Videos, r.Stats.Created, r.Stats.Enriched,
			r.Stats.Elapsed.Round(time.Millisecond))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nDone in %s\n", time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d sites failed", failed, len(results))
	}
	return nil
}

// buildFetcher creates the HTTP client for one site from its settings.
func buildFetcher(site config.Site, logger *slog.Logger) (*fetch.Client, error) {
	opts := []fetch.Option{
		fetch.WithLogger(logger),
	}
	if site.Timeout > 0 {
		opts = append(opts, fetch.WithTimeout(site.Timeout))
	}
	if site.MaxBodyBytes > 0 {
		opts = append(opts, fetch.WithMaxBodyBytes(site.MaxBodyBytes))
	}
	if site.RequestsPerSecond > 0 {
		opts = append(opts, fetch.WithRateLimit(site.RequestsPerSecond))
	}
	if len(site.Headers) > 0 {
		opts = append(opts, fetch.WithHeaders(site.Headers))
	}
	if site.Cookie != "" {
		opts = append(opts, fetch.WithCookie(site.Cookie))
	}

	client, err := fetch.New(site.Proxy, opts...)
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", site.Name, err)
	}
	return client, nil
}

// buildNotifier selects the notification sink: a webhook when one is
// configured, otherwise log lines.
func buildNotifier(nc config.NotifySettings, logger *slog.Logger) notify.Notifier {
	if nc.Webhook == "" {
		return notify.NewLogNotifier(logger)
	}

	var opts []notify.WebhookOption
	if nc.Token != "" {
		opts = append(opts, notify.WithToken(nc.Token))
	}
	return notify.NewWebhook(nc.Webhook, opts...)
}
