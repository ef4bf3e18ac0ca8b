// Package enrich attaches AI-derived sentiment and category labels to
// harvested articles, degrading gracefully when the service is disabled,
// misconfigured, or replies with something unparseable.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/types"
)

// Enricher submits title and body text to the classification service and
// maps the reply onto the closed label sets. A nil client means enrichment
// is disabled: every call returns unavailable labels without any network
// traffic.
type Enricher struct {
	client     *Client
	cfg        *config.AIConfig
	categories map[string]struct{}
	logger     *slog.Logger
}

// NewEnricher creates an enricher. Pass a nil client to disable enrichment.
func NewEnricher(client *Client, cfg *config.AIConfig, logger *slog.Logger) *Enricher {
	cats := make(map[string]struct{}, len(cfg.Categories))
	for _, c := range cfg.Categories {
		cats[c] = struct{}{}
	}
	return &Enricher{
		client:     client,
		cfg:        cfg,
		categories: cats,
		logger:     logger.With("component", "enricher"),
	}
}

// Enabled reports whether the service will actually be called.
func (e *Enricher) Enabled() bool {
	return e.client != nil
}

// Analyze labels the title and, when long enough, the body. Disabled service
// or empty title returns unavailable labels for everything; this is a normal
// path, not a failure. Service or parse failures return error labels and
// never abort the pipeline.
func (e *Enricher) Analyze(ctx context.Context, title, body string) (titleLabels, bodyLabels types.Analysis) {
	if e.client == nil || strings.TrimSpace(title) == "" {
		return types.UnavailableAnalysis(), types.UnavailableAnalysis()
	}

	analyzeBody := utf8.RuneCountInString(strings.TrimSpace(body)) >= e.cfg.MinBodyLen
	if analyzeBody {
		body = truncateRunes(body, e.cfg.MaxBodyLen)
	}

	raw, err := e.client.Generate(ctx, e.buildPrompt(title, body, analyzeBody))
	if err != nil {
		e.logger.Warn("enrichment request failed", "error", err)
		return types.ErrorAnalysis(), e.degradedBody(analyzeBody)
	}

	obj, ok := extractJSON(raw)
	if !ok {
		e.logger.Warn("enrichment response carries no JSON object")
		return types.ErrorAnalysis(), e.degradedBody(analyzeBody)
	}

	var parsed struct {
		TitleSentiment string `json:"title_sentiment"`
		TitleCategory  string `json:"title_category"`
		BodySentiment  string `json:"body_sentiment"`
		BodyCategory   string `json:"body_category"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		e.logger.Warn("enrichment response unparseable", "error", err)
		return types.ErrorAnalysis(), e.degradedBody(analyzeBody)
	}

	titleLabels = types.Analysis{
		Sentiment: types.ParseSentiment(parsed.TitleSentiment),
		Category:  e.mapCategory(parsed.TitleCategory),
	}
	if !analyzeBody {
		return titleLabels, types.UnavailableAnalysis()
	}
	bodyLabels = types.Analysis{
		Sentiment: types.ParseSentiment(parsed.BodySentiment),
		Category:  e.mapCategory(parsed.BodyCategory),
	}
	return titleLabels, bodyLabels
}

// degradedBody picks the right degraded state for the body labels: error if
// analysis was attempted, unavailable if it was never requested.
func (e *Enricher) degradedBody(attempted bool) types.Analysis {
	if attempted {
		return types.ErrorAnalysis()
	}
	return types.UnavailableAnalysis()
}

// mapCategory maps model output onto the closed category set. Unknown labels
// fall back to the configured catch-all; an empty reply is an error state.
func (e *Enricher) mapCategory(cat string) string {
	cat = strings.TrimSpace(cat)
	if cat == "" {
		return types.CategoryError
	}
	if _, ok := e.categories[cat]; ok {
		return cat
	}
	return e.cfg.Fallback
}

// buildPrompt asks for one JSON object with fixed keys. The body is already
// truncated; the category choices are spelled out so the model picks from
// the closed set.
func (e *Enricher) buildPrompt(title, body string, analyzeBody bool) string {
	var b strings.Builder

	b.WriteString("Analyze the following news article and return the result as a single JSON object.\n\n")
	b.WriteString("Analysis fields:\n")
	b.WriteString("1. sentiment: whether the overall tone is \"positive\", \"negative\", or \"neutral\".\n")
	fmt.Fprintf(&b, "2. category: the single best match from: [%s]\n\n", quoteJoin(e.cfg.Categories))

	b.WriteString("Target:\n---\n")
	fmt.Fprintf(&b, "Title: %s\n---\n", title)
	if analyzeBody {
		fmt.Fprintf(&b, "Body: %s\n---\n\n", body)
	} else {
		b.WriteString("Body: (none)\n---\n\n")
	}

	b.WriteString("Use exactly these JSON keys:\n")
	b.WriteString("- \"title_sentiment\"\n- \"title_category\"\n")
	if analyzeBody {
		b.WriteString("- \"body_sentiment\"\n- \"body_category\"\n")
	}
	b.WriteString("\nOutput only the JSON object.\n")

	return b.String()
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}

// truncateRunes bounds s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// extractJSON finds the first balanced JSON object in the response, which
// models routinely wrap in code fences or prose. The second return is false
// when the response carries no balanced object at all.
func extractJSON(s string) (string, bool) {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
