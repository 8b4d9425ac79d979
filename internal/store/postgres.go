package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidcrawl/vidcrawl/internal/model"
)

// Postgres stores crawl data in a PostgreSQL database. Unlike the
// SQLite store it supports many crawler processes writing at once;
// the get-or-create methods rely on ON CONFLICT to stay race-free.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the PostgreSQL database at dsn and ensures
// the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.createTables(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return p, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// createTables creates the database schema if it doesn't exist.
func (p *Postgres) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sites (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS videos (
		id BIGSERIAL PRIMARY KEY,
		site_id BIGINT NOT NULL REFERENCES sites(id),
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL DEFAULT '',
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE(site_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_videos_site ON videos(site_id);
	CREATE INDEX IF NOT EXISTS idx_videos_created ON videos(created_at);

	CREATE TABLE IF NOT EXISTS tags (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS video_tags (
		video_id BIGINT NOT NULL REFERENCES videos(id),
		tag_id BIGINT NOT NULL REFERENCES tags(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (video_id, tag_id)
	);

	CREATE INDEX IF NOT EXISTS idx_video_tags_tag ON video_tags(tag_id);
	`

	_, err := p.pool.Exec(ctx, schema)
	return err
}

// GetOrCreateSite returns the site with the given name, creating it
// on first sight.
func (p *Postgres) GetOrCreateSite(ctx context.Context, name, url string) (model.Site, bool, error) {
	var site model.Site
	err := p.pool.QueryRow(ctx,
		`INSERT INTO sites (name, url) VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING id, name, url, created_at`,
		name, url,
	).Scan(&site.ID, &site.Name, &site.URL, &site.CreatedAt)
	if err == nil {
		return site, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Site{}, false, fmt.Errorf("failed to insert site: %w", err)
	}

	// Conflict: another crawl already created it.
	err = p.pool.QueryRow(ctx,
		`SELECT id, name, url, created_at FROM sites WHERE name = $1`,
		name,
	).Scan(&site.ID, &site.Name, &site.URL, &site.CreatedAt)
	if err != nil {
		return model.Site{}, false, fmt.Errorf("failed to get site: %w", err)
	}
	return site, false, nil
}

// GetOrCreateVideo returns the video identified by (SiteID, URL),
// creating it on first sight.
func (p *Postgres) GetOrCreateVideo(ctx context.Context, video model.Video) (model.Video, bool, error) {
	var stored model.Video
	err := p.pool.QueryRow(ctx,
		`INSERT INTO videos (site_id, title, url, thumbnail_url, duration_seconds)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (site_id, url) DO NOTHING
		 RETURNING id, site_id, title, url, thumbnail_url, duration_seconds, created_at`,
		video.SiteID, video.Title, video.URL, video.ThumbnailURL, video.DurationSeconds,
	).Scan(&stored.ID, &stored.SiteID, &stored.Title, &stored.URL,
		&stored.ThumbnailURL, &stored.DurationSeconds, &stored.CreatedAt)
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Video{}, false, fmt.Errorf("failed to insert video: %w", err)
	}

	err = p.pool.QueryRow(ctx,
		`SELECT id, site_id, title, url, thumbnail_url, duration_seconds, created_at
		 FROM videos WHERE site_id = $1 AND url = $2`,
		video.SiteID, video.URL,
	).Scan(&stored.ID, &stored.SiteID, &stored.Title, &stored.URL,
		&stored.ThumbnailURL, &stored.DurationSeconds, &stored.CreatedAt)
	if err != nil {
		return model.Video{}, false, fmt.Errorf("failed to get video: %w", err)
	}
	return stored, false, nil
}

// GetOrCreateTag returns the tag with the given slug, creating it on
// first sight.
func (p *Postgres) GetOrCreateTag(ctx context.Context, slug, name string) (model.Tag, bool, error) {
	var tag model.Tag
	err := p.pool.QueryRow(ctx,
		`INSERT INTO tags (slug, name) VALUES ($1, $2)
		 ON CONFLICT (slug) DO NOTHING
		 RETURNING id, slug, name, created_at`,
		slug, name,
	).Scan(&tag.ID, &tag.Slug, &tag.Name, &tag.CreatedAt)
	if err == nil {
		return tag, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Tag{}, false, fmt.Errorf("failed to insert tag: %w", err)
	}

	err = p.pool.QueryRow(ctx,
		`SELECT id, slug, name, created_at FROM tags WHERE slug = $1`,
		slug,
	).Scan(&tag.ID, &tag.Slug, &tag.Name, &tag.CreatedAt)
	if err != nil {
		return model.Tag{}, false, fmt.Errorf("failed to get tag: %w", err)
	}
	return tag, false, nil
}

// GetOrCreateVideoTag links a video to a tag, reporting whether the
// link is new.
func (p *Postgres) GetOrCreateVideoTag(ctx context.Context, videoID, tagID int64) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO video_tags (video_id, tag_id) VALUES ($1, $2)
		 ON CONFLICT (video_id, tag_id) DO NOTHING`,
		videoID, tagID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to link video to tag: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SiteSummaries returns per-site video and tag counts.
func (p *Postgres) SiteSummaries(ctx context.Context) ([]SiteSummary, error) {
	rows, err := p.pool.Query(ctx, `
	SELECT s.id, s.name, s.url, s.created_at,
	       COUNT(DISTINCT v.id) AS video_count,
	       COUNT(DISTINCT vt.tag_id) AS tag_count
	FROM sites s
	LEFT JOIN videos v ON v.site_id = s.id
	LEFT JOIN video_tags vt ON vt.video_id = v.id
	GROUP BY s.id
	ORDER BY s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query site summaries: %w", err)
	}
	defer rows.Close()

	var results []SiteSummary
	for rows.Next() {
		var sum SiteSummary
		if err := rows.Scan(&sum.Site.ID, &sum.Site.Name, &sum.Site.URL,
			&sum.Site.CreatedAt, &sum.VideoCount, &sum.TagCount); err != nil {
			return nil, fmt.Errorf("failed to scan site summary: %w", err)
		}
		results = append(results, sum)
	}

	return results, rows.Err()
}

// RecentVideos returns the newest videos, newest first. An empty
// siteName includes every site.
func (p *Postgres) RecentVideos(ctx context.Context, siteName string, limit int) ([]model.Video, error) {
	rows, err := p.pool.Query(ctx, `
	SELECT v.id, v.site_id, v.title, v.url, v.thumbnail_url, v.duration_seconds, v.created_at
	FROM videos v
	JOIN sites s ON s.id = v.site_id
	WHERE ($1 = '' OR s.name = $1)
	ORDER BY v.created_at DESC, v.id DESC
	LIMIT $2
	`, siteName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent videos: %w", err)
	}
	defer rows.Close()

	var results []model.Video
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.SiteID, &v.Title, &v.URL,
			&v.ThumbnailURL, &v.DurationSeconds, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		results = append(results, v)
	}

	return results, rows.Err()
}

// TopTags returns the most used tags with their video counts.
func (p *Postgres) TopTags(ctx context.Context, limit int) ([]TagCount, error) {
	rows, err := p.pool.Query(ctx, `
	SELECT t.id, t.slug, t.name, t.created_at, COUNT(vt.video_id) AS videos
	FROM tags t
	LEFT JOIN video_tags vt ON vt.tag_id = t.id
	GROUP BY t.id
	ORDER BY videos DESC, t.slug
	LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top tags: %w", err)
	}
	defer rows.Close()

	var results []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag.ID, &tc.Tag.Slug, &tc.Tag.Name,
			&tc.Tag.CreatedAt, &tc.Videos); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		results = append(results, tc)
	}

	return results, rows.Err()
}
