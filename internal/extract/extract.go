// Package extract applies configured selector rules to fetched markup.
// Rules are data, not code: a selector that matches nothing yields an empty
// result, never an error, so site markup drift degrades output instead of
// breaking the run.
package extract

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/types"
)

// Texts applies a single rule to the markup and returns the trimmed text
// content of every matched element, in document order. Empty matches are
// dropped.
func Texts(body []byte, rule config.SelectorRule) ([]string, error) {
	switch rule.Type {
	case "xpath":
		return xpathTexts(body, rule.Selector)
	default: // "css" or empty defaults to CSS
		return cssTexts(body, rule.Selector)
	}
}

// Union applies every rule in order and concatenates the results. Each rule
// is independently fallible: a rule that errors is logged and skipped, so
// one bad selector never hides what the others find.
func Union(body []byte, rules []config.SelectorRule, logger *slog.Logger) []string {
	var out []string
	for _, rule := range rules {
		values, err := Texts(body, rule)
		if err != nil {
			logger.Warn("selector rule failed", "type", rule.Type, "selector", rule.Selector, "error", err)
			continue
		}
		out = append(out, values...)
	}
	return out
}

func cssTexts(body []byte, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{Selector: selector, Err: err}
	}

	var values []string
	doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		if val := strings.TrimSpace(sel.Text()); val != "" {
			values = append(values, val)
		}
	})
	return values, nil
}

func xpathTexts(body []byte, expr string) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{Selector: expr, Err: err}
	}

	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, &types.ParseError{Selector: expr, Err: err}
	}

	var values []string
	for _, node := range nodes {
		if val := strings.TrimSpace(htmlquery.InnerText(node)); val != "" {
			values = append(values, val)
		}
	}
	return values, nil
}

// Dedupe removes exact duplicates while preserving first-seen order.
func Dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
