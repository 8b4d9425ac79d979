package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vidcrawl/vidcrawl/internal/config"
	"github.com/vidcrawl/vidcrawl/internal/extract"
	"github.com/vidcrawl/vidcrawl/internal/fetch"
	"github.com/vidcrawl/vidcrawl/internal/model"
	"github.com/vidcrawl/vidcrawl/internal/notify"
	"github.com/vidcrawl/vidcrawl/internal/retry"
	"github.com/vidcrawl/vidcrawl/internal/store"
)

// Fetcher downloads a page and returns it parsed. *fetch.Client is
// the production implementation.
type Fetcher interface {
	Get(ctx context.Context, url string) (*goquery.Document, error)
}

// Crawler walks one site's listing pages from newest to oldest,
// stores the videos it finds, and enriches newly discovered videos
// with tags from their detail pages.
type Crawler struct {
	// site is the resolved site configuration being crawled.
	site config.Site

	// store receives the discovered sites, videos, and tags.
	store store.Store

	// fetcher downloads listing and detail pages.
	fetcher Fetcher

	// notifier is told about each newly discovered video.
	notifier notify.Notifier

	// retryCfg is the download retry policy. Its Retryable hook is
	// set per operation: a missing listing page stops the crawl while
	// a missing detail page only skips one video.
	retryCfg retry.Config

	// logger carries the site name on every line.
	logger *slog.Logger

	// enriched counts videos enriched across the whole crawl. Detail
	// pages are fetched concurrently, so the counter is atomic.
	enriched atomic.Int64
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithNotifier sets the notifier told about newly discovered videos.
// The default logs each new video.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Crawler) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithRetryConfig overrides the download retry policy.
func WithRetryConfig(rc retry.Config) Option {
	return func(c *Crawler) {
		c.retryCfg = rc
	}
}

// WithLogger sets the logger. The crawler adds the site name to it.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Crawler for the given site. The site must carry a
// bound duration converter; resolved sites from config.File.Site
// always do.
func New(site config.Site, st store.Store, fetcher Fetcher, opts ...Option) (*Crawler, error) {
	if site.ConvertDuration == nil {
		return nil, fmt.Errorf("%w: site %q", config.ErrNoDurationFormat, site.Name)
	}

	c := &Crawler{
		site:     site,
		store:    st,
		fetcher:  fetcher,
		retryCfg: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("site", site.Name)
	if c.notifier == nil {
		c.notifier = notify.NewLogNotifier(c.logger)
	}

	return c, nil
}

// Stats summarizes one crawl run.
type Stats struct {
	// Pages is the number of listing pages processed.
	Pages int

	// Videos is the number of videos seen across all pages, new and
	// already known.
	Videos int

	// Created is the number of videos discovered for the first time.
	Created int

	// Enriched is the number of new videos whose detail pages were
	// fetched and tagged.
	Enriched int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// stepResult carries one listing page's outcome out of the retry
// closure.
type stepResult struct {
	videos  int
	created []model.Video
	cont    bool
	next    string
}

// Run crawls the site starting from startURL, or from the configured
// entry point when startURL is empty. It follows the site's
// previous-page links until a page has none, enriching and announcing
// new videos along the way.
//
// Each listing page is downloaded, processed, and enriched as one
// retried unit: any transient failure inside it re-runs the whole
// page. Stored videos make the re-run idempotent. A 404 on a listing
// page returns an error wrapping ErrSiteGone without further
// attempts.
func (c *Crawler) Run(ctx context.Context, startURL string) (Stats, error) {
	if startURL == "" {
		startURL = c.site.EntryPoint
	}
	if startURL == "" {
		return Stats{}, fmt.Errorf("site %q: %w", c.site.Name, config.ErrMissingEntryPoint)
	}

	start := time.Now()
	site, siteCreated, err := c.store.GetOrCreateSite(ctx, c.site.Name, c.site.URL)
	if err != nil {
		return Stats{}, fmt.Errorf("prepare site %q: %w", c.site.Name, err)
	}
	if siteCreated {
		c.logger.Info("registered new site", "url", site.URL)
	}

	listingRetry := c.retryCfg
	listingRetry.Retryable = func(err error) bool {
		return !errors.Is(err, ErrSiteGone)
	}

	var stats Stats
	pageURL := startURL
	for {
		c.logger.Info("fetching listing page", "url", pageURL)

		var result stepResult
		err := retry.Do(ctx, listingRetry, c.logger, "download listing page", func(ctx context.Context) error {
			r, err := c.step(ctx, site, pageURL)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
		if err != nil {
			stats.Enriched = int(c.enriched.Load())
			stats.Elapsed = time.Since(start)
			return stats, fmt.Errorf("crawl %s: %w", pageURL, err)
		}

		stats.Pages++
		stats.Videos += result.videos
		stats.Created += len(result.created)

		for _, video := range result.created {
			if err := c.notifier.Notify(ctx, site, video); err != nil {
				c.logger.Warn("notification failed", "url", video.URL, "error", err)
			}
		}

		c.logger.Info("listing page complete",
			"url", pageURL,
			"videos", result.videos,
			"new", len(result.created),
		)

		if !result.cont {
			break
		}
		pageURL = result.next
	}

	stats.Enriched = int(c.enriched.Load())
	stats.Elapsed = time.Since(start)
	c.logger.Info("crawl complete",
		"pages", stats.Pages,
		"videos", stats.Videos,
		"new", stats.Created,
		"enriched", stats.Enriched,
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

// step processes one listing page: download, extract and store the
// videos, enrich the new ones, and locate the next-older page.
func (c *Crawler) step(ctx context.Context, site model.Site, pageURL string) (stepResult, error) {
	doc, err := c.fetcher.Get(ctx, pageURL)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			return stepResult{}, fmt.Errorf("%w: %s", ErrSiteGone, pageURL)
		}
		return stepResult{}, err
	}

	videos, created, err := c.processListing(ctx, site, doc, pageURL)
	if err != nil {
		return stepResult{}, err
	}

	c.enrich(ctx, created)

	result := stepResult{videos: videos, created: created}
	link, err := extract.FirstAttr(doc, c.site.Selectors.PrevPage, "href")
	if err != nil {
		c.logger.Info("no previous page link, crawl reached the oldest page", "url", pageURL)
		return result, nil
	}
	result.cont = true
	result.next = c.site.Resolve(link)
	return result, nil
}
