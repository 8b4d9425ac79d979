package model

import "time"

// Site identifies one crawled video site. A row is created the first
// time a site is crawled and is read-only afterwards: the crawl engine
// never mutates an existing site record.
type Site struct {
	// ID is the database identifier.
	ID int64 `json:"id"`

	// Name is the unique configured name of the site (e.g. "demotube").
	Name string `json:"name"`

	// URL is the base URL all relative video URLs are resolved against.
	URL string `json:"url"`

	// CreatedAt is when the site was first registered.
	CreatedAt time.Time `json:"created_at"`
}
