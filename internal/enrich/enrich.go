// Package enrich orchestrates per-article AI enrichment: localized titles
// and summaries across the four supported languages, plus genre
// classification. Enrichment is best-effort; a degraded client hands back
// original-language text and the default genre.
package enrich

import (
	"context"
	"log/slog"
	"sync"

	"github.com/climbhero/climbnews/internal/news"
)

// TargetLangs is the fixed set of display languages.
var TargetLangs = []string{"ja", "en", "zh", "ko"}

// LocalizedText maps a language code to the translated text of one field.
type LocalizedText map[string]string

// Localized bundles everything enrichment produces for one article.
type Localized struct {
	Title   LocalizedText
	Summary LocalizedText
	Genre   string
}

// Translator is the slice of the enrichment client the orchestrator needs.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) string
	ClassifyGenre(ctx context.Context, title, summary string) string
}

type Enricher struct {
	tr  Translator
	log *slog.Logger
}

func New(tr Translator, log *slog.Logger) *Enricher {
	return &Enricher{tr: tr, log: log}
}

// Localize produces the four-language variants of an article's title and
// summary. Each field is translated as one concurrent batch; the two
// batches run one after the other to keep the request burst down. When a
// target language equals the article's source language the original text
// passes through untouched.
func (e *Enricher) Localize(ctx context.Context, art news.Article) (title, summary LocalizedText) {
	title = e.translateBatch(ctx, art.Title, art.Language)
	summary = e.translateBatch(ctx, art.Summary, art.Language)
	return title, summary
}

// Enrich runs Localize plus genre classification.
func (e *Enricher) Enrich(ctx context.Context, art news.Article) Localized {
	title, summary := e.Localize(ctx, art)
	return Localized{
		Title:   title,
		Summary: summary,
		Genre:   e.tr.ClassifyGenre(ctx, art.Title, art.Summary),
	}
}

func (e *Enricher) translateBatch(ctx context.Context, text, sourceLang string) LocalizedText {
	results := make([]string, len(TargetLangs))

	var wg sync.WaitGroup
	for i, lang := range TargetLangs {
		if lang == sourceLang {
			results[i] = text
			continue
		}
		wg.Add(1)
		go func(i int, lang string) {
			defer wg.Done()
			results[i] = e.tr.Translate(ctx, text, sourceLang, lang)
		}(i, lang)
	}
	wg.Wait()

	out := make(LocalizedText, len(TargetLangs))
	for i, lang := range TargetLangs {
		out[lang] = results[i]
	}
	return out
}
