package news

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/climbhero/climbnews/internal/metrics"
)

// FeedFetcher retrieves and parses one source. Implementations never return
// an error: a failed source contributes an empty slice.
type FeedFetcher interface {
	Fetch(ctx context.Context, src Source) []Article
}

// Aggregator fans out across all configured sources and produces the
// ranked top-N article list.
type Aggregator struct {
	sources []Source
	fetcher FeedFetcher
	topN    int
	log     *slog.Logger
}

func NewAggregator(sources []Source, fetcher FeedFetcher, topN int, log *slog.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		fetcher: fetcher,
		topN:    topN,
		log:     log,
	}
}

// Crawl fetches every source concurrently, merges the results, collapses
// duplicates by URL, sorts newest-first and truncates to the top N. It
// always succeeds: if every source fails the result is simply empty.
func (a *Aggregator) Crawl(ctx context.Context) []Article {
	start := time.Now()
	defer func() {
		metrics.Global.RecordCrawlTime(time.Since(start))
		metrics.Global.SetLastRun()
	}()

	a.log.Info("starting crawl", slog.Int("sources", len(a.sources)))

	// Settle-all fan-out: every source runs to completion, one slot per
	// source, no shared state mutated concurrently.
	results := make([][]Article, len(a.sources))
	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = a.fetcher.Fetch(ctx, src)
		}(i, src)
	}
	wg.Wait()

	var combined []Article
	for i, articles := range results {
		a.log.Info("source done",
			slog.String("source", a.sources[i].Name),
			slog.Int("articles", len(articles)),
		)
		combined = append(combined, articles...)
	}

	// One entry per URL; a later occurrence replaces an earlier one.
	byURL := make(map[string]Article, len(combined))
	for _, art := range combined {
		byURL[art.URL] = art
	}
	metrics.Global.AddDuplicatesCollapsed(len(combined) - len(byURL))

	unique := make([]Article, 0, len(byURL))
	for _, art := range byURL {
		unique = append(unique, art)
	}

	// Newest first; a zero published time sorts last.
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})

	if len(unique) > a.topN {
		unique = unique[:a.topN]
	}

	metrics.Global.AddArticlesCollected(len(unique))
	a.log.Info("crawl finished", slog.Int("unique_articles", len(unique)))
	return unique
}
