package harvest

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/fetcher"
	"github.com/newsloom/newsloom/pkg/ratelimit"
)

// BodyPaginator fetches successive body pages of an article until a
// stop-condition fires.
type BodyPaginator struct {
	f        fetcher.Fetcher
	site     *config.SiteProfile
	limiter  *ratelimit.Limiter
	maxPages int
	logger   *slog.Logger
}

// NewBodyPaginator creates a paginator bounded at maxPages.
func NewBodyPaginator(f fetcher.Fetcher, site *config.SiteProfile, limiter *ratelimit.Limiter, maxPages int, logger *slog.Logger) *BodyPaginator {
	return &BodyPaginator{
		f:        f,
		site:     site,
		limiter:  limiter,
		maxPages: maxPages,
		logger:   logger.With("component", "body_paginator"),
	}
}

// FetchPages returns the ordered body page texts for articleURL, possibly
// empty. Stop-conditions, in order: no body region (page 1 means no body at
// all, later pages mean natural end), empty text, and text identical to the
// previous page (the site looped back to page 1). A network failure ends
// pagination with the partial result; it is never an error.
func (p *BodyPaginator) FetchPages(ctx context.Context, articleURL string) []string {
	var pages []string
	host := hostOf(articleURL)

	for page := 1; page <= p.maxPages; page++ {
		if err := p.limiter.Wait(ctx, host); err != nil {
			break
		}

		resp, err := p.f.Fetch(ctx, pageURL(articleURL, page))
		if err != nil {
			p.logger.Debug("body fetch ended pagination", "url", articleURL, "page", page, "error", err)
			break
		}

		doc, err := resp.Document()
		if err != nil {
			p.logger.Debug("body page unparseable", "url", articleURL, "page", page, "error", err)
			break
		}

		region := doc.Find(p.site.BodyRegionSel).First()
		if region.Length() == 0 {
			if page == 1 {
				p.logger.Debug("no body region", "url", articleURL)
				return nil
			}
			break
		}

		text := paragraphText(region)
		if text == "" {
			break
		}
		if len(pages) > 0 && text == pages[len(pages)-1] {
			// Looped back to page 1, a known anti-pattern of paginated sites.
			break
		}

		pages = append(pages, text)
	}

	return pages
}

// pageURL builds the URL for the given 1-based page. Page 1 is the base URL
// itself.
func pageURL(base string, page int) string {
	if page == 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "page=" + strconv.Itoa(page)
}

// paragraphText concatenates the text of all paragraph elements inside the
// body region, one paragraph per line.
func paragraphText(region *goquery.Selection) string {
	var parts []string
	region.Find("p").Each(func(i int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
