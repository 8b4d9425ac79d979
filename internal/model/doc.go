// Package model defines the persisted records produced by a crawl.
//
// This package contains the following main types:
//   - Site: A configured video site, created once and never mutated
//   - Video: One listed video, unique per (site, url)
//   - Tag: A deduplicated (slug, display name) pair shared across videos
//
// Multiple packages (crawler, store, report) need these types, so they
// live in their own package to prevent import cycles. All models are
// serializable to JSON for report output.
package model
