package rss

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/climbhero/climbnews/internal/metrics"
	"github.com/climbhero/climbnews/internal/news"
	"github.com/climbhero/climbnews/internal/retry"
)

// UserAgent identifies every outbound crawl request.
const UserAgent = "ClimbHero News Bot/1.0"

// Fetcher retrieves one feed document over the network and drives the
// parser. Network failures stay inside this boundary: the caller only ever
// sees a (possibly empty) article slice.
type Fetcher struct {
	client   *http.Client
	retry    retry.Config
	maxItems int
	log      *slog.Logger
}

func NewFetcher(timeout time.Duration, retryCfg retry.Config, maxItems int, log *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		retry:    retryCfg,
		maxItems: maxItems,
		log:      log,
	}
}

// NewFetcherWithClient is intended for tests that need a custom transport.
func NewFetcherWithClient(client *http.Client, retryCfg retry.Config, maxItems int, log *slog.Logger) *Fetcher {
	return &Fetcher{client: client, retry: retryCfg, maxItems: maxItems, log: log}
}

// Fetch downloads src and returns its parsed articles. Any failure
// (transport error, timeout, non-2xx status) is logged and yields an empty
// slice; it never propagates to the caller.
func (f *Fetcher) Fetch(ctx context.Context, src news.Source) []news.Article {
	var doc string
	err := retry.Do(ctx, f.retry, func() error {
		body, err := f.get(ctx, src.URL)
		if err != nil {
			return err
		}
		doc = body
		return nil
	})
	if err != nil {
		f.log.Warn("feed fetch failed",
			slog.String("source", src.Name),
			slog.String("url", src.URL),
			slog.Any("err", err),
		)
		metrics.Global.IncrementSourcesFailed()
		return nil
	}

	metrics.Global.IncrementSourcesSucceeded()
	return Parse(doc, src, f.maxItems)
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.log.Warn("failed to close response body", slog.Any("err", err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
