// Package fetch downloads HTML pages and hands them back as parsed
// goquery documents. The client applies a per-site politeness rate
// limit, optional proxy routing, and a response size cap, and decodes
// non-UTF-8 pages using the charset advertised by the server.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single page download.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the crawler to the sites it visits.
	DefaultUserAgent = "Mozilla/5.0 (compatible; vidcrawl/1.0; +https://github.com/vidcrawl/vidcrawl)"

	// DefaultMaxBodyBytes caps how much of a response body is read.
	// Listing and detail pages are HTML; anything larger than this is
	// not a page we want.
	DefaultMaxBodyBytes = 10 << 20
)

// Client downloads and parses HTML pages.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	headers      map[string]string
	cookie       string
	maxBodyBytes int64
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeaders adds extra headers to every request. Some sites gate
// their listings behind age-check or locale headers.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithCookie sets a raw Cookie header sent with every request.
func WithCookie(cookie string) Option {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// WithMaxBodyBytes caps how many bytes of a response body are read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithRateLimit spaces requests so that at most rps requests per
// second are sent. Zero or negative rps leaves the client unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client. proxyURL routes all requests through an HTTP
// or SOCKS5 proxy and may be empty for a direct connection.
func New(proxyURL string, opts ...Option) (*Client, error) {
	c := &Client{
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		userAgent:    DefaultUserAgent,
		headers:      make(map[string]string),
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       slog.Default(),
	}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy URL: %w", err)
		}
		c.httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get downloads pageURL and parses it into a goquery document. A 404
// response returns an error wrapping ErrNotFound; other non-2xx
// responses return a *StatusError.
func (c *Client) Get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close on read path

	c.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, pageURL)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body := io.LimitReader(resp.Body, c.maxBodyBytes)
	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("detect charset of %s: %w", pageURL, err)
	}
	node, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse HTML from %s: %w", pageURL, err)
	}
	return goquery.NewDocumentFromNode(node), nil
}
