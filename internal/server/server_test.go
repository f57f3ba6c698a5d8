package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climbhero/climbnews/internal/news"
	"github.com/climbhero/climbnews/internal/server"
	"github.com/climbhero/climbnews/internal/storage"
)

type newsResponse struct {
	Articles   []news.Article `json:"articles"`
	Pagination struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
		Total  int `json:"total"`
	} `json:"pagination"`
}

func newTestAPI(t *testing.T) (*storage.Store, *httptest.Server) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := httptest.NewServer(server.New(store, log).Router())
	t.Cleanup(api.Close)

	return store, api
}

func seed(t *testing.T, store *storage.Store, arts ...news.Article) {
	t.Helper()
	for _, a := range arts {
		require.NoError(t, store.UpsertArticle(context.Background(), a))
	}
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp.StatusCode
}

func TestListNews(t *testing.T) {
	store, api := newTestAPI(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seed(t, store,
		news.Article{Title: "old", URL: "https://x/1", PublishedAt: base},
		news.Article{Title: "new", URL: "https://x/2", PublishedAt: base.Add(time.Hour)},
	)

	var got newsResponse
	code := getJSON(t, api.URL+"/api/news", &got)

	require.Equal(t, http.StatusOK, code)
	require.Len(t, got.Articles, 2)
	require.Equal(t, "new", got.Articles[0].Title)
	require.Equal(t, 2, got.Pagination.Total)
	require.Equal(t, 20, got.Pagination.Limit)
}

func TestListNewsEmptyStore(t *testing.T) {
	_, api := newTestAPI(t)

	var got newsResponse
	code := getJSON(t, api.URL+"/api/news", &got)

	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, got.Articles)
	require.Empty(t, got.Articles)
	require.Zero(t, got.Pagination.Total)
}

func TestListNewsGenreFilter(t *testing.T) {
	store, api := newTestAPI(t)
	seed(t, store,
		news.Article{Title: "comp", URL: "https://x/1", PublishedAt: time.Now()},
		news.Article{Title: "send", URL: "https://x/2", PublishedAt: time.Now()},
	)
	// stored rows default to genre "general"; "all" must not filter
	var got newsResponse
	getJSON(t, api.URL+"/api/news?genre=all", &got)
	require.Equal(t, 2, got.Pagination.Total)

	getJSON(t, api.URL+"/api/news?genre=competition", &got)
	require.Zero(t, got.Pagination.Total)
	require.Empty(t, got.Articles)
}

func TestListNewsPagination(t *testing.T) {
	store, api := newTestAPI(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seed(t, store,
		news.Article{Title: "a", URL: "https://x/1", PublishedAt: base.Add(2 * time.Hour)},
		news.Article{Title: "b", URL: "https://x/2", PublishedAt: base.Add(time.Hour)},
		news.Article{Title: "c", URL: "https://x/3", PublishedAt: base},
	)

	var got newsResponse
	getJSON(t, api.URL+"/api/news?limit=1&offset=1", &got)

	require.Len(t, got.Articles, 1)
	require.Equal(t, "b", got.Articles[0].Title)
	require.Equal(t, 3, got.Pagination.Total)
	require.Equal(t, 1, got.Pagination.Limit)
	require.Equal(t, 1, got.Pagination.Offset)
}

func TestTrending(t *testing.T) {
	store, api := newTestAPI(t)
	seed(t, store,
		news.Article{Title: "quiet", URL: "https://x/1", PublishedAt: time.Now()},
		news.Article{Title: "viral", URL: "https://x/2", PublishedAt: time.Now()},
	)

	// bump views on the second article
	arts, err := store.ListRecent(context.Background(), 10, 0, "")
	require.NoError(t, err)
	for _, a := range arts {
		if a.Title == "viral" {
			require.NoError(t, store.IncrementViews(context.Background(), a.ID))
		}
	}

	var got []news.Article
	code := getJSON(t, api.URL+"/api/news/trending", &got)

	require.Equal(t, http.StatusOK, code)
	require.Len(t, got, 2)
	require.Equal(t, "viral", got[0].Title)
}

func TestHealth(t *testing.T) {
	_, api := newTestAPI(t)

	var got map[string]interface{}
	code := getJSON(t, api.URL+"/health", &got)

	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", got["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	_, api := newTestAPI(t)

	var got map[string]interface{}
	code := getJSON(t, api.URL+"/metrics", &got)

	require.Equal(t, http.StatusOK, code)
	require.Contains(t, got, "articles_collected")
	require.Contains(t, got, "is_healthy")
}
