package crawler

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/vidcrawl/vidcrawl/internal/extract"
	"github.com/vidcrawl/vidcrawl/internal/fetch"
	"github.com/vidcrawl/vidcrawl/internal/model"
	"github.com/vidcrawl/vidcrawl/internal/retry"
	"github.com/vidcrawl/vidcrawl/internal/slug"
)

// enrich fetches the detail pages of newly created videos and
// attaches their tags. Videos already in the store were enriched by
// an earlier crawl and are not touched again.
//
// Detail pages are fetched concurrently; the shared rate limiter in
// the fetcher keeps the site load bounded. Enrichment failures are
// logged and absorbed: a crawl never fails because one video's detail
// page would not load.
func (c *Crawler) enrich(ctx context.Context, created []model.Video) {
	if len(created) == 0 {
		return
	}
	c.logger.Info("enriching new videos", "count", len(created))

	g, ctx := errgroup.WithContext(ctx)
	for _, video := range created {
		g.Go(func() error {
			c.enrichVideo(ctx, video)
			return nil
		})
	}
	// Workers log their own failures and always return nil.
	_ = g.Wait()
}

// enrichVideo downloads one video's detail page and stores its tags.
// A 404 means the video was removed between listing and enrichment;
// it is skipped without retrying.
func (c *Crawler) enrichVideo(ctx context.Context, video model.Video) {
	detailURL := c.site.Resolve(video.URL)

	detailRetry := c.retryCfg
	detailRetry.Retryable = func(err error) bool {
		return !errors.Is(err, fetch.ErrNotFound)
	}

	var doc *goquery.Document
	err := retry.Do(ctx, detailRetry, c.logger, "download video page", func(ctx context.Context) error {
		d, err := c.fetcher.Get(ctx, detailURL)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			c.logger.Warn("video page gone, skipping enrichment", "url", detailURL)
		} else {
			c.logger.Warn("failed to enrich video", "url", detailURL, "error", err)
		}
		return
	}

	c.attachTags(ctx, video, extract.Texts(doc, c.site.Selectors.VideoDetails.Tags))

	count := c.enriched.Add(1)
	c.logger.Debug("video enriched", "url", detailURL, "videos_enriched", count)
}

// attachTags canonicalizes raw tag texts and links them to the video.
// Tags that slugify to nothing carry no searchable content and are
// skipped. Tag failures are logged per tag so one bad tag does not
// lose the rest.
func (c *Crawler) attachTags(ctx context.Context, video model.Video, rawTags []string) {
	for _, raw := range rawTags {
		tagSlug := slug.Make(raw)
		if tagSlug == "" {
			c.logger.Debug("skipping empty tag", "raw", raw)
			continue
		}

		tag, _, err := c.store.GetOrCreateTag(ctx, tagSlug, slug.Humanize(tagSlug))
		if err != nil {
			c.logger.Warn("failed to store tag", "tag", tagSlug, "error", err)
			continue
		}
		if _, err := c.store.GetOrCreateVideoTag(ctx, video.ID, tag.ID); err != nil {
			c.logger.Warn("failed to link tag", "tag", tagSlug, "url", video.URL, "error", err)
		}
	}
}
