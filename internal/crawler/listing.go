package crawler

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/vidcrawl/vidcrawl/internal/extract"
	"github.com/vidcrawl/vidcrawl/internal/model"
)

// processListing extracts the videos from one listing page and stores
// them. It returns the number of videos on the page and the ones
// created by this call, in page order.
//
// The four field selectors run independently over the page and are
// zipped by position. All raw durations are converted before any
// video is stored, so a malformed duration anywhere on the page fails
// the page before it writes half its rows.
func (c *Crawler) processListing(ctx context.Context, site model.Site, doc *goquery.Document, pageURL string) (int, []model.Video, error) {
	titles := extract.Texts(doc, c.site.Selectors.Video.Title)
	urls := extract.Attrs(doc, c.site.Selectors.Video.URL, "href")
	thumbnails := extract.AttrsAny(doc, c.site.Selectors.Video.ThumbnailURL, "src", "data-src")
	rawDurations := extract.Texts(doc, c.site.Selectors.Video.Duration)

	durations := make([]int, len(rawDurations))
	for i, raw := range rawDurations {
		seconds, err := c.site.ConvertDuration(raw)
		if err != nil {
			return 0, nil, fmt.Errorf("page %s: %w", pageURL, err)
		}
		durations[i] = seconds
	}

	n := min(len(titles), len(urls), len(thumbnails), len(durations))
	if n == 0 {
		return 0, nil, fmt.Errorf("%w: %s", ErrNoVideos, pageURL)
	}
	if len(titles) != n || len(urls) != n || len(thumbnails) != n || len(durations) != n {
		c.logger.Warn("selector counts differ, truncating to shortest",
			"url", pageURL,
			"titles", len(titles),
			"urls", len(urls),
			"thumbnails", len(thumbnails),
			"durations", len(durations),
		)
	}

	var created []model.Video
	for i := range n {
		video := model.Video{
			SiteID:          site.ID,
			Title:           titles[i],
			URL:             urls[i],
			ThumbnailURL:    thumbnails[i],
			DurationSeconds: durations[i],
		}
		stored, isNew, err := c.store.GetOrCreateVideo(ctx, video)
		if err != nil {
			return 0, nil, fmt.Errorf("store video %s: %w", video.URL, err)
		}
		if isNew {
			created = append(created, stored)
		}
	}

	return n, created, nil
}
