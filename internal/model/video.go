package model

import (
	"fmt"
	"time"
)

// Video is one listed video. Identity is (SiteID, URL): re-encountering
// the same URL on later crawls resolves to the existing record instead
// of creating a duplicate.
type Video struct {
	// ID is the database identifier.
	ID int64 `json:"id"`

	// SiteID references the owning site.
	SiteID int64 `json:"site_id"`

	// Title is the display title scraped from the listing page.
	Title string `json:"title"`

	// URL is the video's path relative to the site base URL.
	URL string `json:"url"`

	// ThumbnailURL is the preview image location.
	ThumbnailURL string `json:"thumbnail_url"`

	// DurationSeconds is the video length normalized to whole seconds.
	DurationSeconds int `json:"duration_seconds"`

	// CreatedAt is when the video was first seen.
	CreatedAt time.Time `json:"created_at"`
}

// DurationClock formats DurationSeconds as mm:ss, or h:mm:ss for videos
// an hour or longer.
func (v Video) DurationClock() string {
	d := v.DurationSeconds
	if d < 0 {
		d = 0
	}
	h := d / 3600
	m := d % 3600 / 60
	s := d % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Tag is a normalized label attached to videos. Slug is the canonical
// dedup key: raw tags that normalize to the same slug collapse into one
// record no matter how their display text differed.
type Tag struct {
	// ID is the database identifier.
	ID int64 `json:"id"`

	// Slug is the unique URL-safe form (e.g. "home-made").
	Slug string `json:"slug"`

	// Name is the human-readable display form (e.g. "Home made").
	Name string `json:"name"`

	// CreatedAt is when the tag was first seen.
	CreatedAt time.Time `json:"created_at"`
}
