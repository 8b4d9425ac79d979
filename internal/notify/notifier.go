// Package notify announces newly discovered videos. The crawler calls
// a Notifier once per video it has not seen before, in the order the
// videos were created.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vidcrawl/vidcrawl/internal/model"
)

// Notifier receives one call per newly discovered video.
type Notifier interface {
	Notify(ctx context.Context, site model.Site, video model.Video) error
}

// LogNotifier announces new videos on the log. It is the default when
// no webhook is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses the default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the new video at info level.
func (n *LogNotifier) Notify(_ context.Context, site model.Site, video model.Video) error {
	n.logger.Info("new video discovered",
		"site", site.Name,
		"title", video.Title,
		"url", video.URL,
		"duration", video.DurationClock(),
	)
	return nil
}

// Webhook POSTs a JSON payload per new video to an HTTP endpoint.
type Webhook struct {
	endpoint string
	token    string
	client   *http.Client
}

// WebhookOption configures a Webhook.
type WebhookOption func(*Webhook)

// WithToken sets a bearer token sent in the Authorization header.
func WithToken(token string) WebhookOption {
	return func(w *Webhook) {
		w.token = token
	}
}

// WithHTTPClient overrides the HTTP client used for deliveries.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *Webhook) {
		if client != nil {
			w.client = client
		}
	}
}

// NewWebhook creates a Webhook notifier targeting endpoint.
func NewWebhook(endpoint string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// payload is the webhook message body.
type payload struct {
	Site            string    `json:"site"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	ThumbnailURL    string    `json:"thumbnailUrl,omitempty"`
	DurationSeconds int       `json:"durationSeconds"`
	DiscoveredAt    time.Time `json:"discoveredAt"`
}

// Notify delivers the new video to the webhook endpoint. A non-2xx
// response is an error.
func (w *Webhook) Notify(ctx context.Context, site model.Site, video model.Video) error {
	body, err := json.Marshal(payload{
		Site:            site.Name,
		Title:           video.Title,
		URL:             video.URL,
		ThumbnailURL:    video.ThumbnailURL,
		DurationSeconds: video.DurationSeconds,
		DiscoveredAt:    video.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close on read path
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
