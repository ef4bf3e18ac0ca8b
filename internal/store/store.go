// Package store persists the growing article dataset as a single table and
// implements the idempotent merge-by-URL logic. Prior rows are carried as
// opaque column maps so a schema widened by one run (more pages seen) never
// disturbs older rows.
package store

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/newsloom/newsloom/internal/types"
)

// Row is one persisted table row, column name to cell value. Absent columns
// are empty cells, not errors.
type Row map[string]string

// Static column names, in their fixed output order.
const (
	ColTitle          = "title"
	ColURL            = "url"
	ColPublishedAt    = "published_at"
	ColSource         = "source"
	ColCommentCount   = "comment_count"
	ColTitleSentiment = "title_sentiment"
	ColTitleCategory  = "title_category"
	ColBodySentiment  = "body_sentiment"
	ColBodyCategory   = "body_category"
)

const (
	bodyColPrefix    = "body_page_"
	commentColPrefix = "comment_page_"
)

// StaticColumns is the fixed leading column set of the persisted table.
var StaticColumns = []string{
	ColTitle, ColURL, ColPublishedAt, ColSource, ColCommentCount,
	ColTitleSentiment, ColTitleCategory, ColBodySentiment, ColBodyCategory,
}

// Store is the persistence boundary. Load at run start, Persist once at run
// end; both failures abort the run.
type Store interface {
	// Load reads prior rows. A store that does not exist yet yields an
	// empty slice, not an error.
	Load(ctx context.Context) ([]Row, error)

	// Persist writes the full merged table, atomically where the backend
	// allows it.
	Persist(ctx context.Context, rows []Row) error

	// Name returns the backend identifier.
	Name() string
}

// BodyColumn returns the column name for the 1-based body page index.
func BodyColumn(page int) string {
	return bodyColPrefix + strconv.Itoa(page)
}

// CommentColumn returns the column name for the 1-based comment page index.
func CommentColumn(page int) string {
	return commentColPrefix + strconv.Itoa(page)
}

// RowFromRecord flattens an assembled article record into a table row.
func RowFromRecord(rec types.ArticleRecord) Row {
	row := Row{
		ColTitle:          rec.Title,
		ColURL:            rec.URL,
		ColPublishedAt:    rec.PublishedAt,
		ColSource:         rec.Source,
		ColCommentCount:   strconv.Itoa(rec.CommentCount),
		ColTitleSentiment: string(rec.TitleLabels.Sentiment),
		ColTitleCategory:  rec.TitleLabels.Category,
		ColBodySentiment:  string(rec.BodyLabels.Sentiment),
		ColBodyCategory:   rec.BodyLabels.Category,
	}
	for i, text := range rec.BodyPages {
		row[BodyColumn(i+1)] = text
	}
	for i, text := range rec.CommentPages {
		row[CommentColumn(i+1)] = text
	}
	return row
}

// KnownURLs returns the set of URLs already present in the table.
func KnownURLs(rows []Row) map[string]struct{} {
	known := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if u := row[ColURL]; u != "" {
			known[u] = struct{}{}
		}
	}
	return known
}

// Merge appends fresh rows to prior rows and collapses duplicate URLs,
// keeping the most recently merged occurrence in the position of the last
// one seen. The result contains every URL from either input exactly once;
// rows without a URL are dropped.
func Merge(prior, fresh []Row) []Row {
	combined := make([]Row, 0, len(prior)+len(fresh))
	combined = append(combined, prior...)
	combined = append(combined, fresh...)

	last := make(map[string]int, len(combined))
	for i, row := range combined {
		if u := row[ColURL]; u != "" {
			last[u] = i
		}
	}

	out := make([]Row, 0, len(last))
	for i, row := range combined {
		u := row[ColURL]
		if u == "" || last[u] != i {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Columns computes the output column order for the given rows: the fixed
// static set first, then body page columns by page index, then comment page
// columns by page index, then any other columns the table has ever carried,
// alphabetically.
func Columns(rows []Row) []string {
	static := make(map[string]struct{}, len(StaticColumns))
	for _, c := range StaticColumns {
		static[c] = struct{}{}
	}

	var bodyCols, commentCols, extraCols []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			if _, ok := static[col]; ok {
				continue
			}
			switch {
			case pageIndex(col, bodyColPrefix) > 0:
				bodyCols = append(bodyCols, col)
			case pageIndex(col, commentColPrefix) > 0:
				commentCols = append(commentCols, col)
			default:
				extraCols = append(extraCols, col)
			}
		}
	}

	sort.Slice(bodyCols, func(i, j int) bool {
		return pageIndex(bodyCols[i], bodyColPrefix) < pageIndex(bodyCols[j], bodyColPrefix)
	})
	sort.Slice(commentCols, func(i, j int) bool {
		return pageIndex(commentCols[i], commentColPrefix) < pageIndex(commentCols[j], commentColPrefix)
	})
	sort.Strings(extraCols)

	out := make([]string, 0, len(StaticColumns)+len(bodyCols)+len(commentCols)+len(extraCols))
	out = append(out, StaticColumns...)
	out = append(out, bodyCols...)
	out = append(out, commentCols...)
	out = append(out, extraCols...)
	return out
}

// pageIndex extracts the numeric page index from a page column name, or 0
// when the name is not a page column.
func pageIndex(col, prefix string) int {
	if !strings.HasPrefix(col, prefix) {
		return 0
	}
	n, err := strconv.Atoi(col[len(prefix):])
	if err != nil || n < 1 {
		return 0
	}
	return n
}
