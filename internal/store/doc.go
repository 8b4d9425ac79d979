// Package store persists crawled sites, videos, and tags. Two
// backends implement the same Store interface: a SQLite file for
// single-machine use and a PostgreSQL pool for shared deployments.
// The backend is chosen from the DSN at open time.
//
// Every write is a get-or-create keyed on the entity's natural
// identity (site name, site plus video URL, tag slug), so re-crawling
// a site never duplicates rows.
package store
