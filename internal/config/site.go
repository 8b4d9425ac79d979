package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vidcrawl/vidcrawl/internal/retry"
)

// SiteConfig holds the per-site settings from the configuration file.
// Fields left empty fall back to the defaults entry, then to built-in
// defaults.
type SiteConfig struct {
	// URL is the site's base URL, e.g. "https://example.com". Links
	// scraped from listing pages are resolved against it.
	URL string `yaml:"url,omitempty"`

	// EntryPoint is the first listing page to fetch, either an
	// absolute URL or a path resolved against URL. The crawl walks
	// backwards from here through the prevPage links.
	EntryPoint string `yaml:"entryPoint,omitempty"`

	// DurationFormat names how the site writes video durations.
	// See DurationConverterFor for the known formats.
	DurationFormat string `yaml:"durationFormat,omitempty"`

	// RequestsPerSecond caps the request rate against this site.
	// Zero means no rate limit.
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`

	// TimeoutSeconds bounds each page download. Zero uses the
	// built-in default.
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64 `yaml:"maxBodyBytes,omitempty"`

	// Proxy routes this site's requests through an HTTP or SOCKS5
	// proxy, e.g. "socks5://127.0.0.1:9050".
	Proxy string `yaml:"proxy,omitempty"`

	// Cookie is an HTTP cookie sent with every request to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this
	// site, e.g. an age-verification header.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Selectors locate the crawlable data in this site's HTML.
	Selectors Selectors `yaml:"selectors,omitempty"`
}

// RetrySettings override the built-in download retry policy.
// Zero fields keep the defaults (20 attempts, 8 to 512 second waits).
type RetrySettings struct {
	MaxAttempts     int `yaml:"maxAttempts,omitempty"`
	MinDelaySeconds int `yaml:"minDelaySeconds,omitempty"`
	MaxDelaySeconds int `yaml:"maxDelaySeconds,omitempty"`
}

// NotifySettings configure the webhook notified once per newly
// discovered video. An empty Webhook disables notification.
type NotifySettings struct {
	Webhook string `yaml:"webhook,omitempty"`
	Token   string `yaml:"token,omitempty"`
}

// File represents the structure of the vidcrawl.yaml configuration
// file.
type File struct {
	// Sites maps site names to their configurations. The name is the
	// identity a site's videos are stored under, so renaming a site
	// makes its videos look new on the next crawl.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains settings applied to all sites unless
	// overridden in the site-specific entry.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Retry overrides the download retry policy for all sites.
	Retry RetrySettings `yaml:"retry,omitempty"`

	// Notify configures new-video webhook notification.
	Notify NotifySettings `yaml:"notify,omitempty"`
}

// merged returns the configuration for name with defaults applied.
func (cf *File) merged(name string) (SiteConfig, bool) {
	result := cf.Defaults

	sc, ok := cf.Sites[name]
	if !ok {
		return result, false
	}
	if sc.URL != "" {
		result.URL = sc.URL
	}
	if sc.EntryPoint != "" {
		result.EntryPoint = sc.EntryPoint
	}
	if sc.DurationFormat != "" {
		result.DurationFormat = sc.DurationFormat
	}
	if sc.RequestsPerSecond != 0 {
		result.RequestsPerSecond = sc.RequestsPerSecond
	}
	if sc.TimeoutSeconds != 0 {
		result.TimeoutSeconds = sc.TimeoutSeconds
	}
	if sc.MaxBodyBytes != 0 {
		result.MaxBodyBytes = sc.MaxBodyBytes
	}
	if sc.Proxy != "" {
		result.Proxy = sc.Proxy
	}
	if sc.Cookie != "" {
		result.Cookie = sc.Cookie
	}
	if len(sc.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range sc.Headers {
			result.Headers[k] = v
		}
	}
	result.Selectors = result.Selectors.merge(sc.Selectors)

	return result, true
}

// Site is a fully resolved, validated site ready to crawl.
type Site struct {
	// Name is the site's key in the configuration file.
	Name string

	// URL is the base URL without a trailing slash.
	URL string

	// EntryPoint is the absolute URL of the first listing page.
	// Empty when the config file leaves it to the --start-url flag.
	EntryPoint string

	// Selectors locate the crawlable data in the site's HTML.
	Selectors Selectors

	// ConvertDuration parses the site's duration strings into whole
	// seconds.
	ConvertDuration DurationConverter

	// Download settings consumed by the HTTP client.
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxBodyBytes      int64
	Proxy             string
	Cookie            string
	Headers           map[string]string
}

// Site resolves and validates the named site entry. It merges the
// defaults entry, checks that the base URL, selectors, and duration
// format are present, and binds the duration converter.
func (cf *File) Site(name string) (Site, error) {
	sc, ok := cf.merged(name)
	if !ok {
		return Site{}, fmt.Errorf("%w: %q", ErrUnknownSite, name)
	}
	if sc.URL == "" {
		return Site{}, fmt.Errorf("%w: %q", ErrMissingSiteURL, name)
	}
	if err := sc.Selectors.Validate(); err != nil {
		return Site{}, fmt.Errorf("site %q: %w", name, err)
	}
	if sc.DurationFormat == "" {
		return Site{}, fmt.Errorf("%w: site %q", ErrNoDurationFormat, name)
	}
	convert, err := DurationConverterFor(sc.DurationFormat)
	if err != nil {
		return Site{}, fmt.Errorf("site %q: %w", name, err)
	}

	site := Site{
		Name:              name,
		URL:               strings.TrimRight(sc.URL, "/"),
		Selectors:         sc.Selectors,
		ConvertDuration:   convert,
		RequestsPerSecond: sc.RequestsPerSecond,
		MaxBodyBytes:      sc.MaxBodyBytes,
		Proxy:             sc.Proxy,
		Cookie:            sc.Cookie,
		Headers:           sc.Headers,
	}
	if sc.TimeoutSeconds > 0 {
		site.Timeout = time.Duration(sc.TimeoutSeconds) * time.Second
	}
	if sc.EntryPoint != "" {
		site.EntryPoint = site.Resolve(sc.EntryPoint)
	}
	return site, nil
}

// SiteNames returns the names of all configured sites in sorted order.
func (cf *File) SiteNames() []string {
	names := make([]string, 0, len(cf.Sites))
	for name := range cf.Sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RetryConfig returns the download retry policy with any file-level
// overrides applied.
func (cf *File) RetryConfig() retry.Config {
	rc := retry.DefaultConfig()
	if cf.Retry.MaxAttempts > 0 {
		rc.MaxAttempts = cf.Retry.MaxAttempts
	}
	if cf.Retry.MinDelaySeconds > 0 {
		rc.MinDelay = time.Duration(cf.Retry.MinDelaySeconds) * time.Second
	}
	if cf.Retry.MaxDelaySeconds > 0 {
		rc.MaxDelay = time.Duration(cf.Retry.MaxDelaySeconds) * time.Second
	}
	return rc
}

// Resolve turns a scraped link into an absolute URL. Absolute links
// pass through unchanged; anything else is joined to the site's base
// URL.
func (s Site) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.Contains(ref, "://") {
		return ref
	}
	return s.URL + "/" + strings.TrimLeft(ref, "/")
}
