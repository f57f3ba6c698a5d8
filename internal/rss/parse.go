package rss

import (
	"regexp"
	"time"

	"github.com/climbhero/climbnews/internal/news"
)

const (
	// DefaultMaxItems caps how many items one feed may contribute.
	DefaultMaxItems = 10
	// SummaryMaxRunes caps the normalized article summary length.
	SummaryMaxRunes = 500
)

var (
	itemRe  = regexp.MustCompile(`(?is)<item[^>]*>(.*?)</item>`)
	imageRe = regexp.MustCompile(`(?i)url="([^"]+\.(?:jpg|jpeg|png|webp)[^"]*)"`)
)

// pubDate formats seen across the configured feeds, tried in order.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

// Parse scans a raw feed document for <item> fragments and builds one
// Article per fragment that carries both a title and a link, in document
// order, up to maxItems (DefaultMaxItems when maxItems <= 0). Malformed
// fragments never fail the document: a field that does not match is simply
// empty, and only a missing title or link drops the fragment.
func Parse(doc string, src news.Source, maxItems int) []news.Article {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	var articles []news.Article
	for _, m := range itemRe.FindAllStringSubmatch(doc, -1) {
		if len(articles) >= maxItems {
			break
		}
		item := m[1]

		title := ExtractField(item, "title")
		link := ExtractField(item, "link")
		if title == "" || link == "" {
			continue
		}

		description := ExtractField(item, "description")
		pubDate := ExtractField(item, "pubDate")

		// First media:content / media:thumbnail / enclosure image wins.
		imageURL := ""
		if im := imageRe.FindStringSubmatch(item); im != nil {
			imageURL = im[1]
		}

		articles = append(articles, news.Article{
			Title:       title,
			Summary:     truncateRunes(description, SummaryMaxRunes),
			URL:         link,
			SourceName:  src.Name,
			SourceURL:   src.URL,
			ImageURL:    imageURL,
			PublishedAt: parseDate(pubDate),
			Language:    src.Lang,
		})
	}

	return articles
}

// parseDate falls back to the current time for missing or unparseable
// dates, so a feed with sloppy timestamps still ranks near the top.
func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
