// Package pagemeta pulls a representative image out of an article page for
// feeds whose items carry no media reference.
package pagemeta

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const minInlineImageSize = 300

type Extractor struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

func New(timeout time.Duration, userAgent string, log *slog.Logger) *Extractor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		log:       log,
	}
}

// NewWithClient is intended for tests that need a custom transport.
func NewWithClient(client *http.Client, userAgent string, log *slog.Logger) *Extractor {
	return &Extractor{client: client, userAgent: userAgent, log: log}
}

// ExtractImage fetches pageURL and returns the best image reference:
// og:image first, then twitter:image, then the first inline <img> with a
// width or height attribute of at least 300. Returns "" when nothing
// qualifies or the page cannot be fetched.
func (e *Extractor) ExtractImage(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Debug("image extraction fetch failed", slog.String("url", pageURL), slog.Any("err", err))
		return ""
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			e.log.Warn("failed to close response body", slog.Any("err", err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	if img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && img != "" {
		return img
	}
	if img, ok := doc.Find(`meta[name="twitter:image"]`).First().Attr("content"); ok && img != "" {
		return img
	}

	var found string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return true
		}
		if attrSizeAtLeast(s, "width", minInlineImageSize) || attrSizeAtLeast(s, "height", minInlineImageSize) {
			found = src
			return false
		}
		return true
	})
	return found
}

func attrSizeAtLeast(s *goquery.Selection, attr string, min int) bool {
	raw, ok := s.Attr(attr)
	if !ok {
		return false
	}
	size, err := strconv.Atoi(raw)
	return err == nil && size >= min
}
