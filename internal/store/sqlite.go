package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vidcrawl/vidcrawl/internal/model"
)

// SQLite stores crawl data in a single SQLite database file.
type SQLite struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// path is the path to the SQLite database file.
	path string
}

// OpenSQLite opens or creates a SQLite store at the specified path.
// If CreateIfMissing is set, the parent directory and database file
// are created; otherwise a missing file is an error.
func OpenSQLite(path string, opts Options) (*SQLite, error) {
	if !opts.CreateIfMissing {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a crawl first to create it)", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfMissing {
		dsn = path + "?mode=rwc"
	} else {
		dsn = path + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection also makes
	// the insert-then-select in the get-or-create methods atomic with
	// respect to concurrent callers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLite{
		db:   db,
		path: path,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *SQLite) createTables() error {
	schema := `
	-- Sites are the crawled video sites, one row per configured name
	CREATE TABLE IF NOT EXISTS sites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(name)
	);

	-- Videos are unique per site and page URL
	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id INTEGER NOT NULL REFERENCES sites(id),
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL DEFAULT '',
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(site_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_videos_site ON videos(site_id);
	CREATE INDEX IF NOT EXISTS idx_videos_created ON videos(created_at);

	-- Tags are unique per slug; name holds the display form
	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(slug)
	);

	-- Video/tag links, one row per pair
	CREATE TABLE IF NOT EXISTS video_tags (
		video_id INTEGER NOT NULL REFERENCES videos(id),
		tag_id INTEGER NOT NULL REFERENCES tags(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (video_id, tag_id)
	);

	CREATE INDEX IF NOT EXISTS idx_video_tags_tag ON video_tags(tag_id);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// GetOrCreateSite returns the site with the given name, creating it
// on first sight.
func (s *SQLite) GetOrCreateSite(ctx context.Context, name, url string) (model.Site, bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sites (name, url) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		name, url,
	)
	if err != nil {
		return model.Site{}, false, fmt.Errorf("failed to insert site: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Site{}, false, fmt.Errorf("failed to read insert result: %w", err)
	}
	created := affected > 0

	var site model.Site
	var createdAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, name, url, created_at FROM sites WHERE name = ?`,
		name,
	).Scan(&site.ID, &site.Name, &site.URL, &createdAt)
	if err != nil {
		return model.Site{}, false, fmt.Errorf("failed to get site: %w", err)
	}
	site.CreatedAt = parseTimestamp(createdAt)

	return site, created, nil
}

// GetOrCreateVideo returns the video identified by (SiteID, URL),
// creating it on first sight. An existing row keeps its stored
// fields; sites sometimes retitle videos and the first sighting wins.
func (s *SQLite) GetOrCreateVideo(ctx context.Context, video model.Video) (model.Video, bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO videos (site_id, title, url, thumbnail_url, duration_seconds)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(site_id, url) DO NOTHING`,
		video.SiteID, video.Title, video.URL, video.ThumbnailURL, video.DurationSeconds,
	)
	if err != nil {
		return model.Video{}, false, fmt.Errorf("failed to insert video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Video{}, false, fmt.Errorf("failed to read insert result: %w", err)
	}
	created := affected > 0

	var stored model.Video
	var createdAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, site_id, title, url, thumbnail_url, duration_seconds, created_at
		 FROM videos WHERE site_id = ? AND url = ?`,
		video.SiteID, video.URL,
	).Scan(&stored.ID, &stored.SiteID, &stored.Title, &stored.URL,
		&stored.ThumbnailURL, &stored.DurationSeconds, &createdAt)
	if err != nil {
		return model.Video{}, false, fmt.Errorf("failed to get video: %w", err)
	}
	stored.CreatedAt = parseTimestamp(createdAt)

	return stored, created, nil
}

// GetOrCreateTag returns the tag with the given slug, creating it on
// first sight.
func (s *SQLite) GetOrCreateTag(ctx context.Context, slug, name string) (model.Tag, bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (slug, name) VALUES (?, ?) ON CONFLICT(slug) DO NOTHING`,
		slug, name,
	)
	if err != nil {
		return model.Tag{}, false, fmt.Errorf("failed to insert tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Tag{}, false, fmt.Errorf("failed to read insert result: %w", err)
	}
	created := affected > 0

	var tag model.Tag
	var createdAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, slug, name, created_at FROM tags WHERE slug = ?`,
		slug,
	).Scan(&tag.ID, &tag.Slug, &tag.Name, &createdAt)
	if err != nil {
		return model.Tag{}, false, fmt.Errorf("failed to get tag: %w", err)
	}
	tag.CreatedAt = parseTimestamp(createdAt)

	return tag, created, nil
}

// GetOrCreateVideoTag links a video to a tag, reporting whether the
// link is new.
func (s *SQLite) GetOrCreateVideoTag(ctx context.Context, videoID, tagID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO video_tags (video_id, tag_id) VALUES (?, ?)
		 ON CONFLICT(video_id, tag_id) DO NOTHING`,
		videoID, tagID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to link video to tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return affected > 0, nil
}

// SiteSummaries returns per-site video and tag counts.
func (s *SQLite) SiteSummaries(ctx context.Context) ([]SiteSummary, error) {
	query := `
	SELECT s.id, s.name, s.url, s.created_at,
	       COUNT(DISTINCT v.id) AS video_count,
	       COUNT(DISTINCT vt.tag_id) AS tag_count
	FROM sites s
	LEFT JOIN videos v ON v.site_id = s.id
	LEFT JOIN video_tags vt ON vt.video_id = v.id
	GROUP BY s.id
	ORDER BY s.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query site summaries: %w", err)
	}
	defer rows.Close()

	var results []SiteSummary
	for rows.Next() {
		var sum SiteSummary
		var createdAt string
		if err := rows.Scan(&sum.Site.ID, &sum.Site.Name, &sum.Site.URL,
			&createdAt, &sum.VideoCount, &sum.TagCount); err != nil {
			return nil, fmt.Errorf("failed to scan site summary: %w", err)
		}
		sum.Site.CreatedAt = parseTimestamp(createdAt)
		results = append(results, sum)
	}

	return results, rows.Err()
}

// RecentVideos returns the newest videos, newest first. An empty
// siteName includes every site.
func (s *SQLite) RecentVideos(ctx context.Context, siteName string, limit int) ([]model.Video, error) {
	query := `
	SELECT v.id, v.site_id, v.title, v.url, v.thumbnail_url, v.duration_seconds, v.created_at
	FROM videos v
	JOIN sites s ON s.id = v.site_id
	WHERE (? = '' OR s.name = ?)
	ORDER BY v.created_at DESC, v.id DESC
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, siteName, siteName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent videos: %w", err)
	}
	defer rows.Close()

	var results []model.Video
	for rows.Next() {
		var v model.Video
		var createdAt string
		if err := rows.Scan(&v.ID, &v.SiteID, &v.Title, &v.URL,
			&v.ThumbnailURL, &v.DurationSeconds, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		v.CreatedAt = parseTimestamp(createdAt)
		results = append(results, v)
	}

	return results, rows.Err()
}

// TopTags returns the most used tags with their video counts.
func (s *SQLite) TopTags(ctx context.Context, limit int) ([]TagCount, error) {
	query := `
	SELECT t.id, t.slug, t.name, t.created_at, COUNT(vt.video_id) AS videos
	FROM tags t
	LEFT JOIN video_tags vt ON vt.tag_id = t.id
	GROUP BY t.id
	ORDER BY videos DESC, t.slug
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top tags: %w", err)
	}
	defer rows.Close()

	var results []TagCount
	for rows.Next() {
		var tc TagCount
		var createdAt string
		if err := rows.Scan(&tc.Tag.ID, &tc.Tag.Slug, &tc.Tag.Name,
			&createdAt, &tc.Videos); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		tc.Tag.CreatedAt = parseTimestamp(createdAt)
		results = append(results, tc)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. If parsing fails with all formats, returns zero
// time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
