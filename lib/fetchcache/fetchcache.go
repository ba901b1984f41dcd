// Package fetchcache wraps an http client with a webcache.Cache so that
// every distinct url is fetched from the network at most once for the
// lifetime of the cache.
package fetchcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mmascorecard-backend/lib/telemetry"
	"mmascorecard-backend/lib/webcache"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/fetchcache")

// FetchError reports a non-success response for a url. Nothing is cached
// when it is returned, so a later retry hits the network again.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

type Client struct {
	http  *resty.Client
	cache webcache.Cache
	// guards the cache, which is not safe for the concurrent access
	// Warm produces
	mu sync.Mutex
}

func NewClient(cache webcache.Cache) *Client {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "fetchcache/http")

	return &Client{
		http:  client,
		cache: cache,
	}
}

// Fetch returns the cached document for the url when one exists, skipping
// the network entirely. On a miss it issues a single GET; the body is
// cached only on a success status, so a failed fetch never poisons the
// cache.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	c.mu.Lock()
	if c.cache.Has(url) {
		content, err := c.cache.Get(url)
		c.mu.Unlock()
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return content, err
	}
	c.mu.Unlock()

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", err
	}
	if !res.IsSuccess() {
		err := &FetchError{URL: url, StatusCode: res.StatusCode()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-success status")
		return "", err
	}

	content := res.String()
	c.mu.Lock()
	err = c.cache.Set(url, content)
	c.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("cache %s: %w", url, err)
	}
	return content, nil
}

// Warm prefetches urls into the cache with at most `workers` requests in
// flight. Failures are logged and skipped: the sequential Fetch during
// processing remains the authoritative path, Warm only saves it time.
func (c *Client) Warm(ctx context.Context, urls []string, workers int) {
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	wg := sync.WaitGroup{}

	for _, url := range urls {
		c.mu.Lock()
		cached := c.cache.Has(url)
		c.mu.Unlock()
		if cached {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(url string) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := c.Fetch(ctx, url)
			if err != nil {
				slog.WarnContext(ctx, "prefetch failed", "url", url, "err", err)
			}
		}(url)
	}

	wg.Wait()
}
