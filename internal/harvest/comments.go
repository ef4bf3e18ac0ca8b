package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/extract"
	"github.com/newsloom/newsloom/internal/fetcher"
	"github.com/newsloom/newsloom/internal/types"
	"github.com/newsloom/newsloom/pkg/ratelimit"
)

// PageSeparator joins the comments of one page into a single text block.
const PageSeparator = "\n---\n"

// CommentPaginator fetches successive rendered comment pages for an article
// until a stop-condition fires or the total comment cap is reached.
type CommentPaginator struct {
	rf       fetcher.RenderedFetcher
	site     *config.SiteProfile
	limiter  *ratelimit.Limiter
	maxPages int
	maxTotal int
	logger   *slog.Logger
}

// NewCommentPaginator creates a paginator bounded at maxPages pages and
// maxTotal comments overall.
func NewCommentPaginator(rf fetcher.RenderedFetcher, site *config.SiteProfile, limiter *ratelimit.Limiter, maxPages, maxTotal int, logger *slog.Logger) *CommentPaginator {
	return &CommentPaginator{
		rf:       rf,
		site:     site,
		limiter:  limiter,
		maxPages: maxPages,
		maxTotal: maxTotal,
		logger:   logger.With("component", "comment_paginator"),
	}
}

// FetchComments returns the total comment count and the ordered per-page
// comment texts for articleURL. A URL that does not match the article shape
// yields (0, nil) immediately. A wait timeout on page 1 means the article
// has no comments; on a later page it is the natural end of pagination.
// Comments are deduplicated within each page, preserving first-seen order.
// The cap truncates mid-page: the total never exceeds maxTotal and the final
// page text contains only the kept comments.
func (p *CommentPaginator) FetchComments(ctx context.Context, articleURL string) (int, []string) {
	base, err := p.commentURL(articleURL)
	if err != nil {
		p.logger.Debug("no comment stream for URL", "url", articleURL, "error", err)
		return 0, nil
	}

	host := hostOf(base)
	total := 0
	var pages []string

	for page := 1; page <= p.maxPages; page++ {
		if err := p.limiter.Wait(ctx, host); err != nil {
			break
		}

		pageURL := base + "?page=" + strconv.Itoa(page)
		resp, err := p.rf.FetchRendered(ctx, pageURL, p.site.CommentReadySel)
		if err != nil {
			if errors.Is(err, types.ErrWaitTimeout) && page == 1 {
				p.logger.Debug("no comments found", "url", articleURL)
			} else {
				p.logger.Debug("comment fetch ended pagination", "url", pageURL, "page", page, "error", err)
			}
			break
		}

		comments := extract.Dedupe(extract.Union(resp.Body, p.site.CommentRules, p.logger))
		if len(comments) == 0 {
			break
		}

		if remaining := p.maxTotal - total; len(comments) > remaining {
			comments = comments[:remaining]
		}

		total += len(comments)
		pages = append(pages, strings.Join(comments, PageSeparator))

		if total >= p.maxTotal {
			break
		}
	}

	return total, pages
}

// commentURL derives the comment-stream URL from an article URL. The URL
// must contain the configured article path prefix; anything else fails fast.
func (p *CommentPaginator) commentURL(articleURL string) (string, error) {
	u, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrInvalidURL, articleURL)
	}

	idx := strings.Index(u.Path, p.site.ArticlePathPrefix)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", types.ErrNotArticleURL, articleURL)
	}

	id := u.Path[idx+len(p.site.ArticlePathPrefix):]
	if slash := strings.IndexByte(id, '/'); slash >= 0 {
		id = id[:slash]
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", types.ErrNotArticleURL, articleURL)
	}

	return fmt.Sprintf(p.site.CommentURL, id), nil
}
