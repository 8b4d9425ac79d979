package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vidcrawl/vidcrawl/internal/config"
	"github.com/vidcrawl/vidcrawl/internal/fetch"
	"github.com/vidcrawl/vidcrawl/internal/model"
	"github.com/vidcrawl/vidcrawl/internal/retry"
	"github.com/vidcrawl/vidcrawl/internal/store"
)

// fastRetry keeps test runs quick while preserving the retry shape.
func fastRetry(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts: attempts,
		MinDelay:    time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

// fakeSite is an httptest server with per-path handlers and hit
// counting, standing in for a crawled video site.
type fakeSite struct {
	srv      *httptest.Server
	mu       sync.Mutex
	hits     map[string]int
	handlers map[string]http.HandlerFunc
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()

	f := &fakeSite{
		hits:     make(map[string]int),
		handlers: make(map[string]http.HandlerFunc),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		handler := f.handlers[r.URL.Path]
		f.mu.Unlock()

		if handler == nil {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

// page serves static HTML at path.
func (f *fakeSite) page(path, html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}
}

// handle installs a custom handler at path.
func (f *fakeSite) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

// hitCount returns how often path was requested.
func (f *fakeSite) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// card is one video entry on a fake listing page.
type card struct {
	title    string
	url      string
	thumb    string
	duration string
}

// listingHTML renders a listing page with the given cards and an
// optional previous-page link.
func listingHTML(cards []card, prev string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"listing\">")
	for _, c := range cards {
		fmt.Fprintf(&b, `<div class="card"><a class="title" href=%q>%s</a>`, c.url, c.title)
		fmt.Fprintf(&b, `<img class="thumb" src=%q>`, c.thumb)
		fmt.Fprintf(&b, `<span class="duration">%s</span></div>`, c.duration)
	}
	b.WriteString("</div>")
	if prev != "" {
		fmt.Fprintf(&b, `<a class="prev" href=%q>older</a>`, prev)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// detailHTML renders a video detail page carrying the given tags.
func detailHTML(tags ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"tags\">")
	for _, tag := range tags {
		fmt.Fprintf(&b, `<a class="tag">%s</a>`, tag)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

// testSite builds a resolved site configuration against the fake
// server.
func testSite(t *testing.T, baseURL string) config.Site {
	t.Helper()

	convert, err := config.DurationConverterFor("clock")
	if err != nil {
		t.Fatalf("failed to build duration converter: %v", err)
	}
	return config.Site{
		Name:       "example",
		URL:        baseURL,
		EntryPoint: baseURL + "/videos",
		Selectors: config.Selectors{
			Video: config.VideoSelectors{
				Title:        "a.title",
				URL:          "a.title",
				ThumbnailURL: "img.thumb",
				Duration:     "span.duration",
			},
			VideoDetails: config.DetailSelectors{Tags: "a.tag"},
			PrevPage:     "a.prev",
		},
		ConvertDuration: convert,
	}
}

// testStore opens a SQLite store in a temp directory.
func testStore(t *testing.T) store.Store {
	t.Helper()

	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "vidcrawl.db"), store.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// testFetcher builds a direct fetch client.
func testFetcher(t *testing.T) *fetch.Client {
	t.Helper()

	client, err := fetch.New("")
	if err != nil {
		t.Fatalf("failed to build fetch client: %v", err)
	}
	return client
}

// syncBuffer is a bytes.Buffer safe for concurrent log writes from
// enrichment goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// recordingNotifier captures announced video titles in call order.
type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Notify(_ context.Context, _ model.Site, video model.Video) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, video.Title)
	return nil
}

func (n *recordingNotifier) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.titles...)
}

// chainSite serves a three-page listing chain with two videos per
// page and a detail page per video.
func chainSite(t *testing.T) *fakeSite {
	t.Helper()

	site := newFakeSite(t)
	site.page("/videos", listingHTML([]card{
		{title: "Video One", url: "/watch/1", thumb: "/thumbs/1.jpg", duration: "1:30"},
		{title: "Video Two", url: "/watch/2", thumb: "/thumbs/2.jpg", duration: "0:45"},
	}, "/videos/page/2"))
	site.page("/videos/page/2", listingHTML([]card{
		{title: "Video Three", url: "/watch/3", thumb: "/thumbs/3.jpg", duration: "2:00"},
		{title: "Video Four", url: "/watch/4", thumb: "/thumbs/4.jpg", duration: "3:15"},
	}, "/videos/page/3"))
	site.page("/videos/page/3", listingHTML([]card{
		{title: "Video Five", url: "/watch/5", thumb: "/thumbs/5.jpg", duration: "0:30"},
		{title: "Video Six", url: "/watch/6", thumb: "/thumbs/6.jpg", duration: "10:00"},
	}, ""))

	site.page("/watch/1", detailHTML("Rock", "Live"))
	site.page("/watch/2", detailHTML("Jazz"))
	site.page("/watch/3", detailHTML("Rock"))
	site.page("/watch/4", detailHTML("Acoustic", "Live"))
	site.page("/watch/5", detailHTML())
	site.page("/watch/6", detailHTML("Jazz", "Live"))
	return site
}

func TestCrawlerRun(t *testing.T) {
	t.Parallel()

	t.Run("walks the page chain and stops at the oldest page", func(t *testing.T) {
		t.Parallel()

		site := chainSite(t)
		st := testStore(t)

		c, err := New(testSite(t, site.srv.URL), st, testFetcher(t), WithRetryConfig(fastRetry(3)))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		stats, err := c.Run(context.Background(), "")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if stats.Pages != 3 {
			t.Errorf("Pages = %d, want 3", stats.Pages)
		}
		if stats.Videos != 6 {
			t.Errorf("Videos = %d, want 6", stats.Videos)
		}
		if stats.Created != 6 {
			t.Errorf("Created = %d, want 6", stats.Created)
		}
		if stats.Enriched != 6 {
			t.Errorf("Enriched = %d, want 6", stats.Enriched)
		}

		for _, path := range []string{"/videos", "/videos/page/2", "/videos/page/3"} {
			if got := site.hitCount(path); got != 1 {
				t.Errorf("listing %s fetched %d times, want 1", path, got)
			}
		}

		videos, err := st.RecentVideos(context.Background(), "example", 10)
		if err != nil {
			t.Fatalf("RecentVideos() error = %v", err)
		}
		if len(videos) != 6 {
			t.Errorf("stored %d videos, want 6", len(videos))
		}
	})

	t.Run("converts durations with the site's format", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		site.page("/videos", listingHTML([]card{
			{title: "Ninety", url: "/watch/1", thumb: "/t/1.jpg", duration: "1:30"},
			{title: "FortyFive", url: "/watch/2", thumb: "/t/2.jpg", duration: "0:45"},
		}, ""))
		site.page("/watch/1", detailHTML())
		site.page("/watch/2", detailHTML())

		st := testStore(t)
		c, err := New(testSite(t, site.srv.URL), st, testFetcher(t), WithRetryConfig(fastRetry(2)))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := c.Run(context.Background(), ""); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		videos, err := st.RecentVideos(context.Background(), "example", 10)
		if err != nil {
			t.Fatalf("RecentVideos() error = %v", err)
		}
		got := make(map[string]int, len(videos))
		for _, v := range videos {
			got[v.Title] = v.DurationSeconds
		}
		if got["Ninety"] != 90 {
			t.Errorf("duration of Ninety = %d, want 90", got["Ninety"])
		}
		if got["FortyFive"] != 45 {
			t.Errorf("duration of FortyFive = %d, want 45", got["FortyFive"])
		}
	})

	t.Run("second crawl of unchanged site creates nothing", func(t *testing.T) {
		t.Parallel()

		site := chainSite(t)
		st := testStore(t)
		siteCfg := testSite(t, site.srv.URL)

		first, err := New(siteCfg, st, testFetcher(t), WithRetryConfig(fastRetry(2)))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := first.Run(context.Background(), ""); err != nil {
			t.Fatalf("first Run() error = %v", err)
		}

		notifier := &recordingNotifier{}
		second, err := New(siteCfg, st, testFetcher(t),
			WithRetryConfig(fastRetry(2)),
			WithNotifier(notifier),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		stats, err := second.Run(context.Background(), "")
		if err != nil {
			t.Fatalf("second Run() error = %v", err)
		}

		if stats.Created != 0 {
			t.Errorf("Created = %d, want 0", stats.Created)
		}
		if stats.Enriched != 0 {
			t.Errorf("Enriched = %d, want 0", stats.Enriched)
		}
		if stats.Videos != 6 {
			t.Errorf("Videos = %d, want 6 (still seen on pages)", stats.Videos)
		}
		if titles := notifier.recorded(); len(titles) != 0 {
			t.Errorf("notifier called %d times, want 0: %v", len(titles), titles)
		}

		videos, err := st.RecentVideos(context.Background(), "example", 20)
		if err != nil {
			t.Fatalf("RecentVideos() error = %v", err)
		}
		if len(videos) != 6 {
			t.Errorf("stored %d videos, want 6", len(videos))
		}
	})

	t.Run("missing listing page stops the crawl without retries", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		// No handler installed: /videos responds 404.

		st := testStore(t)
		c, err := New(testSite(t, site.srv.URL), st, testFetcher(t),
			WithRetryConfig(fastRetry(5)),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		_, err = c.Run(context.Background(), "")
		if !errors.Is(err, ErrSiteGone) {
			t.Errorf("Run() error = %v, want ErrSiteGone", err)
		}
		if errors.Is(err, retry.ErrExhausted) {
			t.Errorf("Run() error = %v, must not be an exhaustion", err)
		}
		if got := site.hitCount("/videos"); got != 1 {
			t.Errorf("listing fetched %d times, want 1", got)
		}

		stored, err := st.RecentVideos(context.Background(), "", 10)
		if err != nil {
			t.Fatalf("RecentVideos() error = %v", err)
		}
		if len(stored) != 0 {
			t.Errorf("stored %d videos on a failed crawl, want none", len(stored))
		}
	})

	t.Run("empty listing page is retried until attempts run out", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		site.page("/videos", "<html><body><p>nothing here yet</p></body></html>")

		c, err := New(testSite(t, site.srv.URL), testStore(t), testFetcher(t),
			WithRetryConfig(fastRetry(3)),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		_, err = c.Run(context.Background(), "")
		if !errors.Is(err, retry.ErrExhausted) {
			t.Errorf("Run() error = %v, want ErrExhausted", err)
		}
		if !errors.Is(err, ErrNoVideos) {
			t.Errorf("Run() error = %v, want wrapped ErrNoVideos", err)
		}
		if got := site.hitCount("/videos"); got != 3 {
			t.Errorf("listing fetched %d times, want 3", got)
		}
	})

	t.Run("transient listing failure recovers on the next attempt", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		failures := 0
		var mu sync.Mutex
		site.handle("/videos", func(w http.ResponseWriter, _ *http.Request) {
			mu.Lock()
			failures++
			first := failures == 1
			mu.Unlock()
			if first {
				http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(listingHTML([]card{
				{title: "Only Video", url: "/watch/1", thumb: "/t/1.jpg", duration: "0:30"},
			}, "")))
		})
		site.page("/watch/1", detailHTML("Rock"))

		c, err := New(testSite(t, site.srv.URL), testStore(t), testFetcher(t),
			WithRetryConfig(fastRetry(3)),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		stats, err := c.Run(context.Background(), "")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if stats.Created != 1 {
			t.Errorf("Created = %d, want 1", stats.Created)
		}
		if got := site.hitCount("/videos"); got != 2 {
			t.Errorf("listing fetched %d times, want 2", got)
		}
	})

	t.Run("removed detail page skips enrichment but keeps the video", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		site.page("/videos", listingHTML([]card{
			{title: "Kept One", url: "/watch/1", thumb: "/t/1.jpg", duration: "1:00"},
			{title: "Removed", url: "/watch/2", thumb: "/t/2.jpg", duration: "2:00"},
			{title: "Kept Two", url: "/watch/3", thumb: "/t/3.jpg", duration: "3:00"},
		}, ""))
		site.page("/watch/1", detailHTML("Rock"))
		// No handler for /watch/2: the detail page responds 404.
		site.page("/watch/3", detailHTML("Jazz"))

		st := testStore(t)
		c, err := New(testSite(t, site.srv.URL), st, testFetcher(t),
			WithRetryConfig(fastRetry(5)),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		stats, err := c.Run(context.Background(), "")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if stats.Created != 3 {
			t.Errorf("Created = %d, want 3", stats.Created)
		}
		if stats.Enriched != 2 {
			t.Errorf("Enriched = %d, want 2", stats.Enriched)
		}
		if got := site.hitCount("/watch/2"); got != 1 {
			t.Errorf("removed detail page fetched %d times, want 1 (404 must not retry)", got)
		}

		videos, err := st.RecentVideos(context.Background(), "example", 10)
		if err != nil {
			t.Fatalf("RecentVideos() error = %v", err)
		}
		if len(videos) != 3 {
			t.Errorf("stored %d videos, want 3 (removed video stays)", len(videos))
		}

		tags, err := st.TopTags(context.Background(), 10)
		if err != nil {
			t.Fatalf("TopTags() error = %v", err)
		}
		if len(tags) != 2 {
			t.Errorf("stored %d tags, want 2", len(tags))
		}
	})

	t.Run("announces new videos in page order", func(t *testing.T) {
		t.Parallel()

		site := chainSite(t)
		notifier := &recordingNotifier{}

		c, err := New(testSite(t, site.srv.URL), testStore(t), testFetcher(t),
			WithRetryConfig(fastRetry(2)),
			WithNotifier(notifier),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := c.Run(context.Background(), ""); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		want := []string{"Video One", "Video Two", "Video Three", "Video Four", "Video Five", "Video Six"}
		got := notifier.recorded()
		if len(got) != len(want) {
			t.Fatalf("notified %d videos, want %d: %v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("notification[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("mismatched selector counts truncate to the shortest", func(t *testing.T) {
		t.Parallel()

		// Three titles but only two of everything else: the third
		// card is malformed.
		html := `<html><body>
		<a class="title" href="/watch/1">One</a><img class="thumb" src="/t/1.jpg"><span class="duration">1:00</span>
		<a class="title" href="/watch/2">Two</a><img class="thumb" src="/t/2.jpg"><span class="duration">2:00</span>
		<a class="title" href="/watch/3">Three</a>
		</body></html>`

		site := newFakeSite(t)
		site.page("/videos", html)
		site.page("/watch/1", detailHTML())
		site.page("/watch/2", detailHTML())

		var buf syncBuffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		st := testStore(t)
		c, err := New(testSite(t, site.srv.URL), st, testFetcher(t),
			WithRetryConfig(fastRetry(2)),
			WithLogger(logger),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		stats, err := c.Run(context.Background(), "")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if stats.Videos != 2 {
			t.Errorf("Videos = %d, want 2 (truncated)", stats.Videos)
		}
		if !strings.Contains(buf.String(), "truncating to shortest") {
			t.Errorf("expected truncation warning in log output: %s", buf.String())
		}
	})

	t.Run("tags are canonicalized and shared across videos", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		site.page("/videos", listingHTML([]card{
			{title: "One", url: "/watch/1", thumb: "/t/1.jpg", duration: "1:00"},
			{title: "Two", url: "/watch/2", thumb: "/t/2.jpg", duration: "2:00"},
		}, ""))
		site.page("/watch/1", detailHTML("Home Made", "★★★"))
		site.page("/watch/2", detailHTML("home-made!"))

		st := testStore(t)
		c, err := New(testSite(t, site.srv.URL), st, testFetcher(t), WithRetryConfig(fastRetry(2)))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := c.Run(context.Background(), ""); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		tags, err := st.TopTags(context.Background(), 10)
		if err != nil {
			t.Fatalf("TopTags() error = %v", err)
		}
		if len(tags) != 1 {
			t.Fatalf("stored %d tags, want 1 (variants collapse, empty slug skipped): %+v", len(tags), tags)
		}
		if tags[0].Tag.Slug != "home-made" {
			t.Errorf("slug = %q, want %q", tags[0].Tag.Slug, "home-made")
		}
		if tags[0].Tag.Name != "Home made" {
			t.Errorf("display name = %q, want %q", tags[0].Tag.Name, "Home made")
		}
		if tags[0].Videos != 2 {
			t.Errorf("tag linked to %d videos, want 2", tags[0].Videos)
		}
	})

	t.Run("explicit start URL overrides the entry point", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		site.page("/videos/page/2", listingHTML([]card{
			{title: "Old Video", url: "/watch/9", thumb: "/t/9.jpg", duration: "0:10"},
		}, ""))
		site.page("/watch/9", detailHTML())

		c, err := New(testSite(t, site.srv.URL), testStore(t), testFetcher(t), WithRetryConfig(fastRetry(2)))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		stats, err := c.Run(context.Background(), site.srv.URL+"/videos/page/2")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if stats.Created != 1 {
			t.Errorf("Created = %d, want 1", stats.Created)
		}
		if got := site.hitCount("/videos"); got != 0 {
			t.Errorf("entry point fetched %d times, want 0", got)
		}
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects a site without a duration converter", func(t *testing.T) {
		t.Parallel()

		site := config.Site{Name: "example", URL: "https://example.com"}
		_, err := New(site, testStore(t), testFetcher(t))
		if !errors.Is(err, config.ErrNoDurationFormat) {
			t.Errorf("New() error = %v, want ErrNoDurationFormat", err)
		}
	})

	t.Run("missing entry point fails the run", func(t *testing.T) {
		t.Parallel()

		siteCfg := testSite(t, "https://example.com")
		siteCfg.EntryPoint = ""

		c, err := New(siteCfg, testStore(t), testFetcher(t))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		_, err = c.Run(context.Background(), "")
		if !errors.Is(err, config.ErrMissingEntryPoint) {
			t.Errorf("Run() error = %v, want ErrMissingEntryPoint", err)
		}
	})
}

func TestRunner(t *testing.T) {
	t.Parallel()

	t.Run("crawls every site and keeps input order", func(t *testing.T) {
		t.Parallel()

		siteA := chainSite(t)
		siteB := newFakeSite(t)
		siteB.page("/videos", listingHTML([]card{
			{title: "B Video", url: "/watch/1", thumb: "/t/1.jpg", duration: "0:20"},
		}, ""))
		siteB.page("/watch/1", detailHTML("Solo"))

		st := testStore(t)
		factory := func(site config.Site) (*Crawler, error) {
			return New(site, st, testFetcher(t), WithRetryConfig(fastRetry(2)))
		}

		cfgA := testSite(t, siteA.srv.URL)
		cfgB := testSite(t, siteB.srv.URL)
		cfgB.Name = "other"

		runner := NewRunner(factory, WithConcurrency(2))
		results := runner.Run(context.Background(), []config.Site{cfgA, cfgB}, "")

		if len(results) != 2 {
			t.Fatalf("got %d results, want 2", len(results))
		}
		if results[0].Site != "example" || results[1].Site != "other" {
			t.Errorf("result order = %q, %q; want example, other", results[0].Site, results[1].Site)
		}
		for _, r := range results {
			if r.Err != nil {
				t.Errorf("site %q failed: %v", r.Site, r.Err)
			}
		}
		if results[0].Stats.Created != 6 {
			t.Errorf("site example Created = %d, want 6", results[0].Stats.Created)
		}
		if results[1].Stats.Created != 1 {
			t.Errorf("site other Created = %d, want 1", results[1].Stats.Created)
		}
	})

	t.Run("one failing site does not stop the others", func(t *testing.T) {
		t.Parallel()

		good := newFakeSite(t)
		good.page("/videos", listingHTML([]card{
			{title: "Fine", url: "/watch/1", thumb: "/t/1.jpg", duration: "0:10"},
		}, ""))
		good.page("/watch/1", detailHTML())

		gone := newFakeSite(t)
		// No listing handler: the site responds 404 and the crawl
		// fails with ErrSiteGone.

		st := testStore(t)
		factory := func(site config.Site) (*Crawler, error) {
			return New(site, st, testFetcher(t), WithRetryConfig(fastRetry(2)))
		}

		cfgGone := testSite(t, gone.srv.URL)
		cfgGone.Name = "gone"
		cfgGood := testSite(t, good.srv.URL)
		cfgGood.Name = "good"

		runner := NewRunner(factory)
		results := runner.Run(context.Background(), []config.Site{cfgGone, cfgGood}, "")

		if !errors.Is(results[0].Err, ErrSiteGone) {
			t.Errorf("gone site error = %v, want ErrSiteGone", results[0].Err)
		}
		if results[1].Err != nil {
			t.Errorf("good site failed: %v", results[1].Err)
		}
		if results[1].Stats.Created != 1 {
			t.Errorf("good site Created = %d, want 1", results[1].Stats.Created)
		}
	})
}
