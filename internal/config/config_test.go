package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climbhero/climbnews/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 10, cfg.MaxItemsPerFeed)
	require.Equal(t, 20, cfg.TopNewsLimit)
	require.Equal(t, 500, cfg.SummaryMaxRunes)
	require.Equal(t, 100, cfg.MaxGeminiRequests)
	require.Equal(t, 15*time.Second, cfg.FetchTimeout)
	require.Equal(t, "climbnews.db", cfg.DBPath)
	require.True(t, cfg.EnrichmentEnabled)
	require.False(t, cfg.EnableHTTPAPI)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadDisabledEnrichmentSkipsKeyCheck(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DISABLE_ENRICHMENT", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.False(t, cfg.EnrichmentEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("TOP_NEWS_LIMIT", "50")
	t.Setenv("MAX_ITEMS_PER_FEED", "5")
	t.Setenv("FETCH_TIMEOUT", "45s")
	t.Setenv("ENABLE_HTTP_API", "true")
	t.Setenv("BIND_ADDR", "127.0.0.1:9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 50, cfg.TopNewsLimit)
	require.Equal(t, 5, cfg.MaxItemsPerFeed)
	require.Equal(t, 45*time.Second, cfg.FetchTimeout)
	require.True(t, cfg.EnableHTTPAPI)
	require.Equal(t, "127.0.0.1:9090", cfg.BindAddr)
}

func TestLoadIgnoresInvalidOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("TOP_NEWS_LIMIT", "not-a-number")
	t.Setenv("FETCH_TIMEOUT", "-5s")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 20, cfg.TopNewsLimit)
	require.Equal(t, 15*time.Second, cfg.FetchTimeout)
}

func writeSources(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSources(t *testing.T) {
	path := writeSources(t, `sources:
  - name: UKClimbing
    url: https://www.ukclimbing.com/news/rss
    lang: en
  - name: PlanetMountain
    url: https://www.planetmountain.com/rss/news.xml
    lang: en
`)

	sources, err := config.LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	require.Equal(t, "UKClimbing", sources[0].Name)
	require.Equal(t, "https://www.planetmountain.com/rss/news.xml", sources[1].URL)
	require.Equal(t, "en", sources[1].Lang)
}

func TestLoadSourcesMissingFields(t *testing.T) {
	path := writeSources(t, `sources:
  - name: NoURL
    lang: en
`)

	_, err := config.LoadSources(path)
	require.Error(t, err)
}

func TestLoadSourcesMissingFile(t *testing.T) {
	_, err := config.LoadSources(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
