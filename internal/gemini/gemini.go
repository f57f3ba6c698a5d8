package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/climbhero/climbnews/internal/metrics"
	"github.com/climbhero/climbnews/internal/ratelimit"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash-exp"

	// DefaultGenre is the classification fallback.
	DefaultGenre = "general"

	summarizeInputMaxRunes = 3000
	summarizeFallbackRunes = 200
)

// Genres is the closed label set ClassifyGenre may return.
var Genres = []string{
	"competition", "achievement", "athlete", "gear", "technique",
	"facility", "accident", "event", "general",
}

var langNames = map[string]string{
	"ja": "Japanese",
	"en": "English",
	"zh": "Chinese",
	"ko": "Korean",
}

// Client wraps the generative text API for the three enrichment operations.
// Every operation degrades silently: a failed remote call yields the
// documented fallback value, never an error.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	budget  *ratelimit.Budget
	log     *slog.Logger
}

// NewClient builds a client. budget may be nil for unlimited requests.
func NewClient(apiKey string, timeout time.Duration, budget *ratelimit.Budget, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: timeout},
		budget:  budget,
		log:     log,
	}
}

// Translate converts text between two of the supported languages. Identity
// when the languages match or the text is empty; the original text when the
// remote call fails for any reason.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	if text == "" || sourceLang == targetLang {
		return text
	}

	prompt := fmt.Sprintf(`You are a professional climbing news translator with 30+ years of experience.

Translate this climbing/bouldering news text from %s to %s.

IMPORTANT RULES:
1. Keep climbing grades unchanged (V10, 5.14a, 8c, 9a, etc.)
2. Preserve proper nouns (climber names, crag names, competition names)
3. Use natural, fluent language for the target audience
4. Maintain the original tone and excitement
5. Do NOT add any explanation, prefix, or commentary
6. Do NOT add leading/trailing whitespace or newlines
7. Output ONLY the translated text itself

Text to translate:
%s`, langName(sourceLang), langName(targetLang), text)

	out, err := c.generate(ctx, prompt, 0.2, 2048)
	if err != nil {
		c.log.Warn("translation fallback",
			slog.String("from", sourceLang),
			slog.String("to", targetLang),
			slog.Any("err", err),
		)
		metrics.Global.IncrementEnrichmentFallbacks()
		return text
	}
	return strings.TrimSpace(out)
}

// Summarize produces a 4-6 sentence summary of content in targetLang. Empty
// input yields empty output; a failed call falls back to the first 200
// runes of the original content.
func (c *Client) Summarize(ctx context.Context, content, targetLang string) string {
	if content == "" {
		return ""
	}

	prompt := fmt.Sprintf(`You are a professional climbing journalist with 30+ years of experience.

Summarize this climbing news article in %s.

REQUIREMENTS:
1. Write 4-6 detailed sentences (approximately 300-500 characters)
2. Include specific details: WHO, WHAT, WHERE, WHEN, and WHY it matters
3. Preserve all climbing grades (V10, 5.14a, 8c, 9a, etc.) exactly as written
4. Use enthusiastic, professional tone that captures climbing culture
5. Include technical details and context that climbers care about
6. Do NOT add any prefix, commentary, or explanation
7. Do NOT add leading/trailing whitespace or blank lines
8. Output ONLY the summary itself

Article content:
%s

Write the detailed summary now:`, langName(targetLang), truncateRunes(content, summarizeInputMaxRunes))

	out, err := c.generate(ctx, prompt, 0.3, 1024)
	if err != nil {
		c.log.Warn("summarize fallback", slog.Any("err", err))
		metrics.Global.IncrementEnrichmentFallbacks()
		return truncateRunes(content, summarizeFallbackRunes)
	}
	return strings.TrimSpace(out)
}

// ClassifyGenre labels an article with one genre from the closed set.
// An invalid label or any failure yields DefaultGenre.
func (c *Client) ClassifyGenre(ctx context.Context, title, summary string) string {
	prompt := fmt.Sprintf(`Classify this climbing news into exactly ONE of these genres:
- competition (contests, IFSC, World Cup, Olympics)
- achievement (first ascents, records, sends)
- athlete (pro climber profiles, interviews)
- gear (equipment, shoes, reviews)
- technique (training, tips, how-to)
- facility (gyms, new routes, crags)
- accident (safety, incidents, rescue)
- event (festivals, meetups, community)
- general (other news)

Title: %s
Summary: %s

Output ONLY the genre name in lowercase.`, title, summary)

	out, err := c.generate(ctx, prompt, 0.1, 20)
	if err != nil {
		metrics.Global.IncrementEnrichmentFallbacks()
		return DefaultGenre
	}

	genre := strings.ToLower(strings.TrimSpace(out))
	for _, g := range Genres {
		if genre == g {
			return genre
		}
	}
	c.log.Warn("invalid genre label, using default", slog.String("label", genre))
	metrics.Global.IncrementEnrichmentFallbacks()
	return DefaultGenre
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate issues one generateContent call and extracts the first
// candidate's first text part. Callers translate errors into their own
// fallback values; nothing here is fatal to the pipeline.
func (c *Client) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if c.budget != nil && !c.budget.Allow() {
		return "", fmt.Errorf("enrichment request budget exhausted")
	}
	metrics.Global.IncrementEnrichmentCalls()

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// The key travels in a header, never in the URL: transport errors embed
	// the full URL and get logged by the callers.
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("failed to close response body", slog.Any("err", err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no text in response")
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty text in response")
	}
	return text, nil
}

func langName(code string) string {
	if name, ok := langNames[code]; ok {
		return name
	}
	return code
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
