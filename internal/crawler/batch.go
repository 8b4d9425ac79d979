package crawler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vidcrawl/vidcrawl/internal/config"
)

// Runner crawls multiple sites concurrently. It uses errgroup to
// manage goroutines and respect the concurrency limit.
type Runner struct {
	// factory creates a fresh Crawler per site, so per-crawl state
	// like the enriched counter never leaks between sites.
	factory func(config.Site) (*Crawler, error)

	// concurrency is the maximum number of sites crawled at once.
	concurrency int

	// logger is used for run-level logging.
	logger *slog.Logger

	// results stores per-site outcomes. Access is synchronized via
	// mutex.
	results []Result
	mu      sync.Mutex
}

// Result is one site's crawl outcome. Err is set when the crawl
// failed; Stats covers whatever completed before the failure.
type Result struct {
	Site  string
	Stats Stats
	Err   error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency sets the maximum number of concurrent site crawls.
// Default is 1: one site at a time.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithRunnerLogger sets a custom logger for run-level output.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner. The factory is called once per site to
// build its crawler.
func NewRunner(factory func(config.Site) (*Crawler, error), opts ...RunnerOption) *Runner {
	r := &Runner{
		factory:     factory,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run crawls all sites and returns one Result per site, in input
// order. startURL overrides the entry point of every site it is
// applied to, so callers pass it only when crawling a single site. A
// failed site is recorded in its Result; the other sites keep
// crawling.
func (r *Runner) Run(ctx context.Context, sites []config.Site, startURL string) []Result {
	r.logger.Info("starting crawl run",
		"total_sites", len(sites),
		"concurrency", r.concurrency,
	)
	startTime := time.Now()

	// Pre-allocate results to keep input order.
	r.results = make([]Result, len(sites))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, site := range sites {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				r.mu.Lock()
				r.results[i] = Result{Site: site.Name, Err: ctx.Err()}
				r.mu.Unlock()
				return nil
			default:
			}

			r.logger.Info("crawling site",
				"site", site.Name,
				"index", i+1,
				"total", len(sites),
			)

			result := Result{Site: site.Name}
			c, err := r.factory(site)
			if err != nil {
				result.Err = err
			} else {
				result.Stats, result.Err = c.Run(ctx, startURL)
			}

			// Store the result regardless of error; failed sites must
			// not stop the rest of the run.
			r.mu.Lock()
			r.results[i] = result
			r.mu.Unlock()

			if result.Err != nil {
				r.logger.Warn("site crawl failed",
					"site", site.Name,
					"error", result.Err,
				)
			}
			return nil
		})
	}

	// Workers always return nil; per-site errors are recorded in results.
	_ = g.Wait()

	r.logger.Info("crawl run complete",
		"total_sites", len(sites),
		"elapsed", time.Since(startTime),
	)
	return r.results
}
