// Package harvest implements the incremental fetch-paginate pipeline:
// search listing harvest, bounded body pagination, and bounded rendered
// comment pagination.
package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/fetcher"
	"github.com/newsloom/newsloom/internal/types"
)

// SearchHarvester retrieves the search-result listing for a keyword and
// extracts article stubs.
type SearchHarvester struct {
	rf     fetcher.RenderedFetcher
	site   *config.SiteProfile
	logger *slog.Logger
}

// NewSearchHarvester creates a harvester over the given rendered fetcher and
// site profile.
func NewSearchHarvester(rf fetcher.RenderedFetcher, site *config.SiteProfile, logger *slog.Logger) *SearchHarvester {
	return &SearchHarvester{
		rf:     rf,
		site:   site,
		logger: logger.With("component", "search_harvester"),
	}
}

// Harvest fetches the listing for keyword and returns stubs in the site's
// natural result order. Total inability to reach or parse the listing
// returns an empty slice: the run continues with zero new articles rather
// than aborting. A listing entry missing its title or link is discarded,
// not an error.
func (h *SearchHarvester) Harvest(ctx context.Context, keyword string) []types.ArticleStub {
	searchURL := fmt.Sprintf(h.site.SearchURL, url.QueryEscape(keyword))

	resp, err := h.rf.FetchRendered(ctx, searchURL, h.site.SearchReadySel)
	if err != nil {
		h.logger.Warn("search listing unreachable", "url", searchURL, "error", err)
		return nil
	}

	doc, err := resp.Document()
	if err != nil {
		h.logger.Warn("search listing unparseable", "url", searchURL, "error", err)
		return nil
	}

	base, err := url.Parse(resp.FinalURL)
	if err != nil {
		base = nil
	}

	var stubs []types.ArticleStub
	doc.Find(h.site.ResultItemSel).Each(func(i int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(h.site.ResultTitleSel).First().Text())
		href, _ := sel.Find("a[href]").First().Attr("href")
		href = strings.TrimSpace(href)

		if title == "" || href == "" {
			h.logger.Debug("listing entry discarded", "index", i, "title", title != "", "link", href != "")
			return
		}

		stubs = append(stubs, types.ArticleStub{
			Title:       title,
			URL:         resolveURL(base, href),
			PublishedAt: NormalizeDate(sel.Find(h.site.ResultTimeSel).First().Text()),
			Source:      strings.TrimSpace(sel.Find(h.site.ResultSourceSel).First().Text()),
		})
	})

	h.logger.Info("search listing harvested", "keyword", keyword, "stubs", len(stubs))
	return stubs
}

// resolveURL makes href absolute against base. Unresolvable hrefs pass
// through unchanged.
func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
