package crawler

import "errors"

// Crawl errors.
var (
	// ErrSiteGone is returned when a listing page responds 404. A
	// missing listing means the site moved or removed its archive, so
	// the crawl stops instead of retrying.
	ErrSiteGone = errors.New("listing page gone")

	// ErrNoVideos is returned when a listing page yields no videos.
	// Sites serve empty or placeholder pages under load, so the page
	// is retried like any other transient failure.
	ErrNoVideos = errors.New("no videos found on listing page")
)
