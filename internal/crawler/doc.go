// Package crawler walks paginated video listing pages, newest to
// oldest, and persists what it finds.
//
// # Architecture
//
// A Crawler processes one site. Each listing page goes through the
// same cycle: download the page, extract and store its videos, fetch
// the detail pages of videos seen for the first time to attach their
// tags, then follow the previous-page link. When a page has no
// previous-page link the crawl is done.
//
// The whole cycle for a page is retried as one unit with randomized
// waits, so a flaky site gets the page re-run from the top. Stored
// videos make the re-run idempotent: videos created by a failed
// attempt are recognized on the next one and not duplicated, notified,
// or re-enriched.
//
// # Components
//
//   - Crawler: crawls one site's listing chain
//   - Runner: crawls several sites concurrently, one Crawler each
//
// # Usage
//
//	c, err := crawler.New(site, store, client,
//	    crawler.WithNotifier(webhook),
//	)
//	stats, err := c.Run(ctx, "")
package crawler
