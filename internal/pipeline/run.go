// Package pipeline wires the harvest, pagination, enrichment, and store
// stages into one sequential run. One article is processed at a time; the
// serial flow plus per-host rate limiting is the politeness policy, not a
// performance accident.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/newsloom/newsloom/internal/store"
	"github.com/newsloom/newsloom/internal/types"
)

// Summary is the user-facing outcome of one run.
type Summary struct {
	Discovered   int
	SkippedKnown int
	Added        int
}

// Searcher retrieves article stubs for a keyword.
type Searcher interface {
	Harvest(ctx context.Context, keyword string) []types.ArticleStub
}

// BodyFetcher retrieves the ordered body page texts of an article.
type BodyFetcher interface {
	FetchPages(ctx context.Context, articleURL string) []string
}

// CommentFetcher retrieves the comment count and per-page comment texts of
// an article.
type CommentFetcher interface {
	FetchComments(ctx context.Context, articleURL string) (int, []string)
}

// Analyzer labels a title and body text.
type Analyzer interface {
	Analyze(ctx context.Context, title, body string) (types.Analysis, types.Analysis)
}

// Runner executes one incremental harvest run.
type Runner struct {
	search       Searcher
	body         BodyFetcher
	comments     CommentFetcher
	enricher     Analyzer
	st           store.Store
	articleDelay time.Duration
	logger       *slog.Logger
}

// NewRunner assembles a runner from its stages.
func NewRunner(
	search Searcher,
	body BodyFetcher,
	comments CommentFetcher,
	enricher Analyzer,
	st store.Store,
	articleDelay time.Duration,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		search:       search,
		body:         body,
		comments:     comments,
		enricher:     enricher,
		st:           st,
		articleDelay: articleDelay,
		logger:       logger.With("component", "runner"),
	}
}

// Run harvests the listing for keyword, processes every article not already
// in the store, and merges the results. Per-article failures degrade that
// record's fields; only store load and persist failures are returned.
func (r *Runner) Run(ctx context.Context, keyword string) (*Summary, error) {
	prior, err := r.st.Load(ctx)
	if err != nil {
		return nil, err
	}
	known := store.KnownURLs(prior)

	stubs := r.search.Harvest(ctx, keyword)
	summary := &Summary{Discovered: len(stubs)}
	if len(stubs) == 0 {
		r.logger.Info("no articles discovered", "keyword", keyword)
		return summary, nil
	}

	var fresh []store.Row
	for i, stub := range stubs {
		if _, ok := known[stub.URL]; ok {
			summary.SkippedKnown++
			continue
		}

		r.logger.Info("processing new article",
			"index", i+1,
			"of", len(stubs),
			"title", stub.Title,
			"url", stub.URL,
		)

		rec := r.processArticle(ctx, stub)
		fresh = append(fresh, store.RowFromRecord(rec))
		summary.Added++

		if err := r.pause(ctx); err != nil {
			r.logger.Warn("run canceled mid-harvest, persisting partial result", "error", err)
			break
		}
	}

	if len(fresh) == 0 {
		r.logger.Info("no new articles, store left untouched",
			"discovered", summary.Discovered,
			"known", summary.SkippedKnown,
		)
		return summary, nil
	}

	merged := store.Merge(prior, fresh)
	if err := r.st.Persist(ctx, merged); err != nil {
		return nil, err
	}

	r.logger.Info("run complete",
		"discovered", summary.Discovered,
		"skipped_known", summary.SkippedKnown,
		"added", summary.Added,
		"total", len(merged),
	)
	return summary, nil
}

// processArticle runs the per-article stages. Every stage degrades to empty
// or error-labeled fields on failure; nothing here aborts the run.
func (r *Runner) processArticle(ctx context.Context, stub types.ArticleStub) types.ArticleRecord {
	bodyPages := r.body.FetchPages(ctx, stub.URL)
	r.logger.Info("body fetched", "url", stub.URL, "pages", len(bodyPages))

	commentCount, commentPages := r.comments.FetchComments(ctx, stub.URL)
	r.logger.Info("comments fetched", "url", stub.URL, "count", commentCount, "pages", len(commentPages))

	// Only the first body page is analyzed, to bound request cost.
	firstPage := ""
	if len(bodyPages) > 0 {
		firstPage = bodyPages[0]
	}
	titleLabels, bodyLabels := r.enricher.Analyze(ctx, stub.Title, firstPage)

	return types.NewRecord(stub, bodyPages, commentCount, commentPages, titleLabels, bodyLabels)
}

// pause sleeps the inter-article delay, waking early on cancellation.
func (r *Runner) pause(ctx context.Context) error {
	if r.articleDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.articleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
