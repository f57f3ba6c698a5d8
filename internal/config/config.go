package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Source is one configured news feed.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Lang string `yaml:"lang"`
}

// SourcesConfig is the YAML file structure:
//
//	sources:
//	  - name: UKClimbing
//	    url: https://...
//	    lang: en
type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

type Config struct {
	// Gemini settings
	GeminiAPIKey      string
	MaxGeminiRequests int // maximum enrichment requests per run window (0 = unlimited)
	EnrichmentEnabled bool

	// RSS settings
	SourcesConfigPath string
	MaxItemsPerFeed   int
	TopNewsLimit      int
	SummaryMaxRunes   int

	// HTTP client settings
	FetchTimeout  time.Duration
	EnrichTimeout time.Duration
	RetryAttempts int
	RetryDelay    time.Duration

	// Storage / API settings
	DBPath        string
	BindAddr      string
	EnableHTTPAPI bool
	RetentionAge  time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		MaxGeminiRequests: 100,
		EnrichmentEnabled: true,
		SourcesConfigPath: "configs/sources.yaml",
		MaxItemsPerFeed:   10,
		TopNewsLimit:      20,
		SummaryMaxRunes:   500,
		FetchTimeout:      15 * time.Second,
		EnrichTimeout:     30 * time.Second,
		RetryAttempts:     2,
		RetryDelay:        2 * time.Second,
		DBPath:            "climbnews.db",
		BindAddr:          "0.0.0.0:8080",
		RetentionAge:      30 * 24 * time.Hour,
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if v := os.Getenv("SOURCES_CONFIG_PATH"); v != "" {
		cfg.SourcesConfigPath = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BIND_ADDR"); v != "" {
		cfg.BindAddr = v
	}
	if os.Getenv("ENABLE_HTTP_API") == "true" {
		cfg.EnableHTTPAPI = true
	}
	if os.Getenv("DISABLE_ENRICHMENT") == "true" {
		cfg.EnrichmentEnabled = false
	}

	cfg.MaxItemsPerFeed = getEnvIntOrDefault("MAX_ITEMS_PER_FEED", cfg.MaxItemsPerFeed)
	cfg.TopNewsLimit = getEnvIntOrDefault("TOP_NEWS_LIMIT", cfg.TopNewsLimit)
	cfg.MaxGeminiRequests = getEnvIntOrDefault("MAX_GEMINI_REQUESTS", cfg.MaxGeminiRequests)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)

	cfg.FetchTimeout = getEnvDurationOrDefault("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.EnrichTimeout = getEnvDurationOrDefault("ENRICH_TIMEOUT", cfg.EnrichTimeout)
	cfg.RetryDelay = getEnvDurationOrDefault("RETRY_DELAY", cfg.RetryDelay)
	cfg.RetentionAge = getEnvDurationOrDefault("RETENTION_AGE", cfg.RetentionAge)

	return cfg, cfg.Validate()
}

// LoadSources reads the configured feed list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse sources config %s: %w", path, err)
	}

	for i, s := range cfg.Sources {
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("source %d in %s: name and url are required", i, path)
		}
	}
	return cfg.Sources, nil
}

func (c *Config) Validate() error {
	if c.EnrichmentEnabled && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required unless DISABLE_ENRICHMENT=true")
	}
	if c.MaxItemsPerFeed <= 0 {
		return fmt.Errorf("MAX_ITEMS_PER_FEED must be positive")
	}
	if c.TopNewsLimit <= 0 {
		return fmt.Errorf("TOP_NEWS_LIMIT must be positive")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("RETRY_ATTEMPTS must be positive")
	}
	return nil
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
