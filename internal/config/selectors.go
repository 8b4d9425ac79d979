package config

import "fmt"

// Selectors holds the CSS selectors that locate crawlable data in a
// site's HTML. Listing selectors are run over the same listing page
// and zipped by position, so each must match once per video card.
type Selectors struct {
	// Video locates per-video fields on a listing page.
	Video VideoSelectors `yaml:"video,omitempty"`

	// VideoDetails locates fields on a video's own detail page.
	VideoDetails DetailSelectors `yaml:"videoDetails,omitempty"`

	// PrevPage locates the link to the next-older listing page. When
	// this selector stops matching, the crawl has reached the last
	// page and finishes.
	PrevPage string `yaml:"prevPage,omitempty"`
}

// VideoSelectors locates the fields of a video card on a listing page.
type VideoSelectors struct {
	// Title matches the element whose text is the video title.
	Title string `yaml:"title,omitempty"`

	// URL matches the element whose href is the video page link.
	URL string `yaml:"url,omitempty"`

	// ThumbnailURL matches the element carrying the thumbnail image.
	// Both src and data-src are consulted; lazy-loading sites keep the
	// real URL in data-src.
	ThumbnailURL string `yaml:"thumbnailUrl,omitempty"`

	// Duration matches the element whose text is the video duration,
	// written in the site's durationFormat.
	Duration string `yaml:"duration,omitempty"`
}

// DetailSelectors locates the fields of a video detail page.
type DetailSelectors struct {
	// Tags matches the elements whose text contents are the video's
	// tag names, one element per tag.
	Tags string `yaml:"tags,omitempty"`
}

// Validate reports the first required selector that is missing.
// The error wraps ErrMissingSelector and names the YAML key.
func (s Selectors) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"video.title", s.Video.Title},
		{"video.url", s.Video.URL},
		{"video.thumbnailUrl", s.Video.ThumbnailURL},
		{"video.duration", s.Video.Duration},
		{"videoDetails.tags", s.VideoDetails.Tags},
		{"prevPage", s.PrevPage},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSelector, r.key)
		}
	}
	return nil
}

// merge overlays non-empty selectors from other onto a copy of s.
func (s Selectors) merge(other Selectors) Selectors {
	result := s
	if other.Video.Title != "" {
		result.Video.Title = other.Video.Title
	}
	if other.Video.URL != "" {
		result.Video.URL = other.Video.URL
	}
	if other.Video.ThumbnailURL != "" {
		result.Video.ThumbnailURL = other.Video.ThumbnailURL
	}
	if other.Video.Duration != "" {
		result.Video.Duration = other.Video.Duration
	}
	if other.VideoDetails.Tags != "" {
		result.VideoDetails.Tags = other.VideoDetails.Tags
	}
	if other.PrevPage != "" {
		result.PrevPage = other.PrevPage
	}
	return result
}
