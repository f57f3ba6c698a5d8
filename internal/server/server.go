package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/climbhero/climbnews/internal/metrics"
	"github.com/climbhero/climbnews/internal/news"
	"github.com/climbhero/climbnews/internal/storage"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	trendingPoolSize = 100
)

// Server exposes the stored article list as a read-only JSON API.
type Server struct {
	store *storage.Store
	log   *slog.Logger
}

func New(store *storage.Store, log *slog.Logger) *Server {
	return &Server{store: store, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/news", s.handleListNews)
	r.Get("/api/news/trending", s.handleTrending)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	return r
}

type newsResponse struct {
	Articles   []news.Article `json:"articles"`
	Pagination pagination     `json:"pagination"`
}

type pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := clampInt(r.URL.Query().Get("limit"), defaultPageSize, maxPageSize)
	offset := clampInt(r.URL.Query().Get("offset"), 0, 10_000)
	genre := strings.TrimSpace(r.URL.Query().Get("genre"))
	if genre == "all" {
		genre = ""
	}

	articles, err := s.store.ListRecent(ctx, limit, offset, genre)
	if err != nil {
		s.log.Error("list news", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	total, err := s.store.Count(ctx, genre)
	if err != nil {
		s.log.Error("count news", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if articles == nil {
		articles = []news.Article{}
	}
	writeJSON(w, http.StatusOK, newsResponse{
		Articles:   articles,
		Pagination: pagination{Limit: limit, Offset: offset, Total: total},
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := clampInt(r.URL.Query().Get("limit"), 5, maxPageSize)

	articles, err := s.store.ListRecent(ctx, trendingPoolSize, 0, "")
	if err != nil {
		s.log.Error("trending news", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	trending := news.TopTrending(articles, limit)
	if trending == nil {
		trending = []news.Article{}
	}
	writeJSON(w, http.StatusOK, trending)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	code := http.StatusOK
	if !metrics.Global.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Global.GetStats())
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing useful left to do with a half-written response
		_ = err
	}
}
