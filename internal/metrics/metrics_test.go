package metrics_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climbhero/climbnews/internal/metrics"
)

func TestCountersAndStats(t *testing.T) {
	m := &metrics.Metrics{IsHealthy: true}

	m.IncrementSourcesSucceeded()
	m.IncrementSourcesSucceeded()
	m.IncrementSourcesFailed()
	m.AddArticlesCollected(15)
	m.AddDuplicatesCollapsed(3)
	m.IncrementEnrichmentCalls()
	m.IncrementEnrichmentFallbacks()

	stats := m.GetStats()
	require.Equal(t, int64(2), stats["sources_succeeded"])
	require.Equal(t, int64(1), stats["sources_failed"])
	require.Equal(t, int64(15), stats["articles_collected"])
	require.Equal(t, int64(3), stats["duplicates_collapsed"])
	require.Equal(t, int64(1), stats["enrichment_calls"])
	require.Equal(t, int64(1), stats["enrichment_fallbacks"])
}

func TestCrawlTimeAverages(t *testing.T) {
	m := &metrics.Metrics{}

	m.RecordCrawlTime(2 * time.Second)
	m.RecordCrawlTime(4 * time.Second)

	stats := m.GetStats()
	require.Equal(t, int64(4000), stats["last_crawl_time_ms"])
	require.Equal(t, int64(3000), stats["average_crawl_time_ms"])
}

func TestHealthTransitions(t *testing.T) {
	m := &metrics.Metrics{IsHealthy: true}
	require.True(t, m.Healthy())

	m.SetError("feed unreachable")
	require.False(t, m.Healthy())
	require.Equal(t, "feed unreachable", m.GetStats()["last_error"])

	m.SetLastRun()
	require.True(t, m.Healthy())
}

func TestConcurrentUpdates(t *testing.T) {
	m := &metrics.Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementEnrichmentCalls()
			m.AddArticlesCollected(1)
		}()
	}
	wg.Wait()

	stats := m.GetStats()
	require.Equal(t, int64(50), stats["enrichment_calls"])
	require.Equal(t, int64(50), stats["articles_collected"])
}
