// feedcheck validates every configured feed with a full RSS/Atom parser
// and reports per-source health. Useful when adding or auditing sources:
// the crawler itself tolerates broken feeds silently, this tool does not.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/climbhero/climbnews/internal/config"
	"github.com/climbhero/climbnews/internal/logger"
	"github.com/climbhero/climbnews/internal/rss"
)

func main() {
	log := logger.New("feedcheck")

	path := "configs/sources.yaml"
	if v := os.Getenv("SOURCES_CONFIG_PATH"); v != "" {
		path = v
	}

	sources, err := config.LoadSources(path)
	if err != nil {
		log.Error("load sources", slog.Any("err", err))
		os.Exit(1)
	}

	parser := gofeed.NewParser()
	parser.UserAgent = rss.UserAgent

	failed := 0
	for _, src := range sources {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		feed, err := parser.ParseURLWithContext(src.URL, ctx)
		cancel()

		if err != nil {
			failed++
			log.Error("source failed",
				slog.String("source", src.Name),
				slog.String("url", src.URL),
				slog.Any("err", err),
			)
			continue
		}

		log.Info("source ok",
			slog.String("source", src.Name),
			slog.String("feed_title", feed.Title),
			slog.Int("items", len(feed.Items)),
			slog.String("lang", src.Lang),
		)
	}

	log.Info("feedcheck done", slog.Int("sources", len(sources)), slog.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}
