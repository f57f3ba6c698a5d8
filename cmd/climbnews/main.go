package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/climbhero/climbnews/internal/config"
	"github.com/climbhero/climbnews/internal/enrich"
	"github.com/climbhero/climbnews/internal/gemini"
	"github.com/climbhero/climbnews/internal/logger"
	"github.com/climbhero/climbnews/internal/metrics"
	"github.com/climbhero/climbnews/internal/news"
	"github.com/climbhero/climbnews/internal/pagemeta"
	"github.com/climbhero/climbnews/internal/ratelimit"
	"github.com/climbhero/climbnews/internal/retry"
	"github.com/climbhero/climbnews/internal/rss"
	"github.com/climbhero/climbnews/internal/server"
	"github.com/climbhero/climbnews/internal/storage"
)

func main() {
	log := logger.New("climbnews")

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	sources, err := config.LoadSources(cfg.SourcesConfigPath)
	if err != nil {
		log.Error("load sources", slog.Any("err", err))
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error("open store", slog.Any("err", err))
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runCrawl(ctx, cfg, sources, store, log)

	if removed, err := store.Cleanup(ctx, cfg.RetentionAge); err != nil {
		log.Warn("retention cleanup", slog.Any("err", err))
	} else if removed > 0 {
		log.Info("retention cleanup", slog.Int64("removed", removed))
	}

	if !cfg.EnableHTTPAPI {
		return
	}

	srv := server.New(store, logger.New("api"))
	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

// runCrawl executes one full pipeline pass: aggregate, backfill images,
// enrich within the request budget, persist.
func runCrawl(ctx context.Context, cfg *config.Config, cfgSources []config.Source, store *storage.Store, log *slog.Logger) {
	sources := make([]news.Source, len(cfgSources))
	for i, s := range cfgSources {
		sources[i] = news.Source{Name: s.Name, URL: s.URL, Lang: s.Lang}
	}

	fetcher := rss.NewFetcher(cfg.FetchTimeout, retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}, cfg.MaxItemsPerFeed, logger.New("fetcher"))

	aggregator := news.NewAggregator(sources, fetcher, cfg.TopNewsLimit, logger.New("crawler"))
	articles := aggregator.Crawl(ctx)

	if len(articles) == 0 {
		log.Warn("crawl produced no articles")
		return
	}

	images := pagemeta.New(cfg.FetchTimeout, rss.UserAgent, logger.New("pagemeta"))
	for i := range articles {
		if articles[i].ImageURL == "" {
			articles[i].ImageURL = images.ExtractImage(ctx, articles[i].URL)
		}
	}

	for _, art := range articles {
		if err := store.UpsertArticle(ctx, art); err != nil {
			log.Error("store article", slog.String("url", art.URL), slog.Any("err", err))
			metrics.Global.SetError(err.Error())
		}
	}

	if !cfg.EnrichmentEnabled {
		log.Info("enrichment disabled, stored articles without localization")
		return
	}

	budget := ratelimit.NewBudget(cfg.MaxGeminiRequests)
	client := gemini.NewClient(cfg.GeminiAPIKey, cfg.EnrichTimeout, budget, logger.New("gemini"))
	enricher := enrich.New(client, logger.New("enrich"))

	for i, art := range articles {
		log.Info("enriching article",
			slog.Int("n", i+1),
			slog.Int("total", len(articles)),
			slog.String("title", art.Title),
		)
		loc := enricher.Enrich(ctx, art)
		if err := store.SaveLocalized(ctx, art.URL, loc); err != nil {
			log.Error("store localized text", slog.String("url", art.URL), slog.Any("err", err))
			metrics.Global.SetError(err.Error())
		}
	}

	log.Info("crawl pipeline finished",
		slog.Int("articles", len(articles)),
		slog.Int("budget_remaining", budget.Remaining()),
	)
}
