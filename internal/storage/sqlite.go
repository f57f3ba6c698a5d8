package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/climbhero/climbnews/internal/enrich"
	"github.com/climbhero/climbnews/internal/news"
)

// Store persists crawled articles and their enrichment results in SQLite.
// Articles are keyed by URL: a re-crawled article updates the existing row
// instead of inserting a duplicate.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS news_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		summary TEXT DEFAULT '',
		source_name TEXT DEFAULT '',
		source_url TEXT DEFAULT '',
		image_url TEXT DEFAULT '',
		published_date TEXT NOT NULL,
		language TEXT DEFAULT 'en',
		genre TEXT DEFAULT 'general',
		view_count INTEGER DEFAULT 0,
		title_ja TEXT DEFAULT '',
		title_en TEXT DEFAULT '',
		title_zh TEXT DEFAULT '',
		title_ko TEXT DEFAULT '',
		summary_ja TEXT DEFAULT '',
		summary_en TEXT DEFAULT '',
		summary_zh TEXT DEFAULT '',
		summary_ko TEXT DEFAULT '',
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_news_articles_published ON news_articles(published_date);
	CREATE INDEX IF NOT EXISTS idx_news_articles_genre ON news_articles(genre);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertArticle inserts an article or refreshes the existing row for its
// URL. Enrichment columns and the view count survive a refresh.
func (s *Store) UpsertArticle(ctx context.Context, art news.Article) error {
	query := `
		INSERT INTO news_articles (url, title, summary, source_name, source_url, image_url, published_date, language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			source_name = excluded.source_name,
			image_url = excluded.image_url,
			published_date = excluded.published_date,
			updated_at = datetime('now')
	`

	_, err := s.db.ExecContext(ctx, query,
		art.URL, art.Title, art.Summary, art.SourceName, art.SourceURL,
		art.ImageURL, art.PublishedAt.UTC().Format(time.RFC3339), art.Language,
	)
	if err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}
	return nil
}

// SaveLocalized stores the enrichment output for the article at url.
func (s *Store) SaveLocalized(ctx context.Context, url string, loc enrich.Localized) error {
	query := `
		UPDATE news_articles SET
			genre = ?,
			title_ja = ?, title_en = ?, title_zh = ?, title_ko = ?,
			summary_ja = ?, summary_en = ?, summary_zh = ?, summary_ko = ?,
			updated_at = datetime('now')
		WHERE url = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		loc.Genre,
		loc.Title["ja"], loc.Title["en"], loc.Title["zh"], loc.Title["ko"],
		loc.Summary["ja"], loc.Summary["en"], loc.Summary["zh"], loc.Summary["ko"],
		url,
	)
	if err != nil {
		return fmt.Errorf("save localized text: %w", err)
	}

	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("no article with url %s", url)
	}
	return nil
}

// ListRecent returns stored articles newest-first. genre filters when
// non-empty; limit and offset page through the result.
func (s *Store) ListRecent(ctx context.Context, limit, offset int, genre string) ([]news.Article, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, url, title, summary, source_name, source_url, image_url, published_date, language, genre, view_count
		FROM news_articles
	`
	args := []interface{}{}
	if genre != "" {
		query += ` WHERE genre = ?`
		args = append(args, genre)
	}
	query += ` ORDER BY published_date DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []news.Article
	for rows.Next() {
		var art news.Article
		var published string
		if err := rows.Scan(
			&art.ID, &art.URL, &art.Title, &art.Summary, &art.SourceName,
			&art.SourceURL, &art.ImageURL, &published, &art.Language,
			&art.Genre, &art.ViewCount,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			art.PublishedAt = t
		}
		articles = append(articles, art)
	}
	return articles, rows.Err()
}

// Count returns how many stored articles match genre ("" = all).
func (s *Store) Count(ctx context.Context, genre string) (int, error) {
	query := `SELECT COUNT(*) FROM news_articles`
	args := []interface{}{}
	if genre != "" {
		query += ` WHERE genre = ?`
		args = append(args, genre)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return total, nil
}

// IncrementViews bumps an article's view counter.
func (s *Store) IncrementViews(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE news_articles SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// Cleanup deletes articles older than maxAge.
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UTC().Format(time.RFC3339)

	res, err := s.db.ExecContext(ctx, `DELETE FROM news_articles WHERE published_date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
