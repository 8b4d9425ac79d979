package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vidcrawl/vidcrawl/internal/model"
	"github.com/vidcrawl/vidcrawl/internal/store"
)

// Reader is the read-only slice of the store the report builder needs.
// *store.SQLite and *store.Postgres both satisfy it through store.Store.
type Reader interface {
	SiteSummaries(ctx context.Context) ([]store.SiteSummary, error)
	RecentVideos(ctx context.Context, siteName string, limit int) ([]model.Video, error)
	TopTags(ctx context.Context, limit int) ([]store.TagCount, error)
}

// RecentVideo pairs a video with the name of the site it was found on.
type RecentVideo struct {
	// Video is the stored video record.
	Video model.Video `json:"video"`

	// Site is the owning site's name.
	Site string `json:"site"`
}

// Summary is a renderable snapshot of the crawl database: per-site
// totals, the newest discoveries, and the most used tags.
type Summary struct {
	// GeneratedAt is when the summary was built.
	GeneratedAt time.Time `json:"generatedAt"`

	// Sites holds per-site video and tag counts, ordered by name.
	Sites []store.SiteSummary `json:"sites"`

	// Recent holds the newest videos across all sites, newest first.
	Recent []RecentVideo `json:"recent"`

	// Tags holds the most used tags with their video counts.
	Tags []store.TagCount `json:"tags"`
}

// TotalVideos returns the number of videos across all sites.
func (s *Summary) TotalVideos() int {
	var total int
	for _, site := range s.Sites {
		total += site.VideoCount
	}
	return total
}

// Build assembles a Summary from the store. The limit bounds both the
// recent-video and top-tag lists.
func Build(ctx context.Context, r Reader, limit int) (*Summary, error) {
	sites, err := r.SiteSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load site summaries: %w", err)
	}

	videos, err := r.RecentVideos(ctx, "", limit)
	if err != nil {
		return nil, fmt.Errorf("load recent videos: %w", err)
	}

	tags, err := r.TopTags(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load top tags: %w", err)
	}

	siteNames := make(map[int64]string, len(sites))
	for _, site := range sites {
		siteNames[site.Site.ID] = site.Site.Name
	}

	recent := make([]RecentVideo, 0, len(videos))
	for _, v := range videos {
		recent = append(recent, RecentVideo{Video: v, Site: siteNames[v.SiteID]})
	}

	return &Summary{
		GeneratedAt: time.Now(),
		Sites:       sites,
		Recent:      recent,
		Tags:        tags,
	}, nil
}

// Writer outputs a crawl summary to a configured destination.
// Implementations render different formats over the same data.
type Writer interface {
	// Write outputs the summary and returns the number of bytes
	// written.
	Write(summary *Summary) (int, error)
}

// MultiWriter writes a summary to several Writers in turn, for example
// to both terminal and file. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers. It returns the
// total bytes written across all of them.
func (m *MultiWriter) Write(summary *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
