package news

import "time"

// Article is one normalized climbing-news item extracted from a feed.
type Article struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	SourceURL   string    `json:"source_url,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_date"`
	Genre       string    `json:"genre,omitempty"`
	Language    string    `json:"language"`
	ViewCount   int64     `json:"view_count,omitempty"`
}

// Source is one configured feed endpoint with a fixed name and language.
type Source struct {
	Name string
	URL  string
	Lang string
}
