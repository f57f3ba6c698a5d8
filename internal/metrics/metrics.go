package metrics

import (
	"sync"
	"time"
)

// Metrics collects crawl and enrichment counters for the /metrics endpoint.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesSucceeded    int64
	SourcesFailed       int64
	ArticlesCollected   int64
	DuplicatesCollapsed int64
	EnrichmentCalls     int64
	EnrichmentFallbacks int64

	// Timings
	LastCrawlTime    time.Duration
	TotalCrawlTime   time.Duration
	CrawlCount       int64
	AverageCrawlTime time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementSourcesSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesSucceeded++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) AddArticlesCollected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesCollected += int64(n)
}

func (m *Metrics) AddDuplicatesCollapsed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesCollapsed += int64(n)
}

func (m *Metrics) IncrementEnrichmentCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnrichmentCalls++
}

func (m *Metrics) IncrementEnrichmentFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnrichmentFallbacks++
}

func (m *Metrics) RecordCrawlTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastCrawlTime = d
	m.TotalCrawlTime += d
	m.CrawlCount++

	if m.CrawlCount > 0 {
		m.AverageCrawlTime = m.TotalCrawlTime / time.Duration(m.CrawlCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_succeeded":     m.SourcesSucceeded,
		"sources_failed":        m.SourcesFailed,
		"articles_collected":    m.ArticlesCollected,
		"duplicates_collapsed":  m.DuplicatesCollapsed,
		"enrichment_calls":      m.EnrichmentCalls,
		"enrichment_fallbacks":  m.EnrichmentFallbacks,
		"last_crawl_time_ms":    m.LastCrawlTime.Milliseconds(),
		"average_crawl_time_ms": m.AverageCrawlTime.Milliseconds(),
		"last_run_time":         m.LastRunTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
