package store

import (
	"context"
	"strings"

	"github.com/vidcrawl/vidcrawl/internal/model"
)

// Store is the persistence interface the crawler writes through and
// reports read from. The boolean results of the get-or-create methods
// report whether a row was created by this call; callers use them to
// tell new discoveries from re-crawls.
type Store interface {
	// GetOrCreateSite returns the site with the given name, creating
	// it with url on first sight.
	GetOrCreateSite(ctx context.Context, name, url string) (model.Site, bool, error)

	// GetOrCreateVideo returns the video identified by (SiteID, URL),
	// creating it from the given fields on first sight. Fields of an
	// existing row are left untouched.
	GetOrCreateVideo(ctx context.Context, video model.Video) (model.Video, bool, error)

	// GetOrCreateTag returns the tag with the given slug, creating it
	// with the display name on first sight.
	GetOrCreateTag(ctx context.Context, slug, name string) (model.Tag, bool, error)

	// GetOrCreateVideoTag links a video to a tag. It reports whether
	// the link was created by this call.
	GetOrCreateVideoTag(ctx context.Context, videoID, tagID int64) (bool, error)

	// SiteSummaries returns per-site video and tag counts, ordered by
	// site name.
	SiteSummaries(ctx context.Context) ([]SiteSummary, error)

	// RecentVideos returns the newest videos, newest first. An empty
	// siteName includes every site.
	RecentVideos(ctx context.Context, siteName string, limit int) ([]model.Video, error)

	// TopTags returns the most used tags with their video counts.
	TopTags(ctx context.Context, limit int) ([]TagCount, error)

	// Close releases the underlying connections.
	Close() error
}

// SiteSummary aggregates one site's stored data for reporting.
type SiteSummary struct {
	Site       model.Site `json:"site"`
	VideoCount int        `json:"videoCount"`
	TagCount   int        `json:"tagCount"`
}

// TagCount pairs a tag with the number of videos carrying it.
type TagCount struct {
	Tag    model.Tag `json:"tag"`
	Videos int       `json:"videos"`
}

// Options configures store behavior.
type Options struct {
	// CreateIfMissing creates the SQLite database file and its parent
	// directory if they do not exist. Reporting commands leave this
	// off so a typo in the path fails instead of creating an empty
	// database.
	CreateIfMissing bool

	// EnableWAL enables Write-Ahead Logging on SQLite for better
	// concurrent read performance.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfMissing: true,
		EnableWAL:       true,
	}
}

// Open opens the store selected by dsn. A postgres:// or
// postgresql:// URL opens a PostgreSQL pool; anything else is treated
// as a SQLite database file path.
func Open(ctx context.Context, dsn string, opts Options) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return OpenPostgres(ctx, dsn)
	}
	return OpenSQLite(dsn, opts)
}
