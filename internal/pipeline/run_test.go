package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/newsloom/newsloom/internal/store"
	"github.com/newsloom/newsloom/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSearcher struct {
	stubs []types.ArticleStub
}

func (f *fakeSearcher) Harvest(ctx context.Context, keyword string) []types.ArticleStub {
	return f.stubs
}

type fakeBodyFetcher struct {
	pages map[string][]string
	calls []string
}

func (f *fakeBodyFetcher) FetchPages(ctx context.Context, articleURL string) []string {
	f.calls = append(f.calls, articleURL)
	return f.pages[articleURL]
}

type fakeCommentFetcher struct {
	pages map[string][]string
}

func (f *fakeCommentFetcher) FetchComments(ctx context.Context, articleURL string) (int, []string) {
	pages := f.pages[articleURL]
	return len(pages), pages
}

type fakeAnalyzer struct {
	calls int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, title, body string) (types.Analysis, types.Analysis) {
	f.calls++
	return types.Analysis{Sentiment: types.SentimentPositive, Category: "other"},
		types.Analysis{Sentiment: types.SentimentNeutral, Category: "other"}
}

type memStore struct {
	rows     []store.Row
	loadErr  error
	persists int
}

func (m *memStore) Load(ctx context.Context) ([]store.Row, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.rows, nil
}

func (m *memStore) Persist(ctx context.Context, rows []store.Row) error {
	m.rows = rows
	m.persists++
	return nil
}

func (m *memStore) Name() string { return "mem" }

func stubFor(id string) types.ArticleStub {
	return types.ArticleStub{
		Title:       "article " + id,
		URL:         "https://news.example.com/articles/" + id,
		PublishedAt: "2024/09/29 16:35",
		Source:      "wire",
	}
}

func newTestRunner(search *fakeSearcher, st *memStore) (*Runner, *fakeBodyFetcher, *fakeAnalyzer) {
	body := &fakeBodyFetcher{pages: map[string][]string{}}
	comments := &fakeCommentFetcher{pages: map[string][]string{}}
	analyzer := &fakeAnalyzer{}
	for _, stub := range search.stubs {
		body.pages[stub.URL] = []string{"body of " + stub.Title}
		comments.pages[stub.URL] = []string{"comment on " + stub.Title}
	}
	return NewRunner(search, body, comments, analyzer, st, 0, testLogger()), body, analyzer
}

func TestRunSkipsKnownAndAddsNew(t *testing.T) {
	st := &memStore{rows: []store.Row{{
		store.ColURL:   stubFor("a").URL,
		store.ColTitle: "prior title for a",
	}}}
	search := &fakeSearcher{stubs: []types.ArticleStub{stubFor("a"), stubFor("b")}}
	r, body, analyzer := newTestRunner(search, st)

	summary, err := r.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Discovered != 2 || summary.SkippedKnown != 1 || summary.Added != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if len(body.calls) != 1 || body.calls[0] != stubFor("b").URL {
		t.Errorf("body fetched for %v, want only the new article", body.calls)
	}
	if analyzer.calls != 1 {
		t.Errorf("analyzer called %d times, want 1", analyzer.calls)
	}

	if len(st.rows) != 2 {
		t.Fatalf("store has %d rows, want 2", len(st.rows))
	}
	byURL := map[string]store.Row{}
	for _, row := range st.rows {
		byURL[row[store.ColURL]] = row
	}
	// The known article's prior row is untouched.
	if byURL[stubFor("a").URL][store.ColTitle] != "prior title for a" {
		t.Errorf("prior row rewritten: %v", byURL[stubFor("a").URL])
	}
	fresh := byURL[stubFor("b").URL]
	if fresh[store.BodyColumn(1)] != "body of article b" {
		t.Errorf("fresh row body = %q", fresh[store.BodyColumn(1)])
	}
	if fresh[store.ColCommentCount] != "1" {
		t.Errorf("fresh row comment_count = %q", fresh[store.ColCommentCount])
	}
	if fresh[store.ColTitleSentiment] != string(types.SentimentPositive) {
		t.Errorf("fresh row title_sentiment = %q", fresh[store.ColTitleSentiment])
	}
}

func TestRunIdempotent(t *testing.T) {
	st := &memStore{}
	search := &fakeSearcher{stubs: []types.ArticleStub{stubFor("a"), stubFor("b")}}
	r, _, _ := newTestRunner(search, st)

	if _, err := r.Run(context.Background(), "test"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := len(st.rows)

	summary, err := r.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Added != 0 || summary.SkippedKnown != 2 {
		t.Errorf("second run summary = %+v", summary)
	}
	if len(st.rows) != first {
		t.Errorf("row count changed %d -> %d across identical runs", first, len(st.rows))
	}
	if st.persists != 1 {
		t.Errorf("persisted %d times, want 1: a run with no new articles leaves the store alone", st.persists)
	}
}

func TestRunEmptyListing(t *testing.T) {
	st := &memStore{}
	r, _, _ := newTestRunner(&fakeSearcher{}, st)

	summary, err := r.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Discovered != 0 || summary.Added != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if st.persists != 0 {
		t.Errorf("persisted %d times, want 0", st.persists)
	}
}

func TestRunLoadFailureAborts(t *testing.T) {
	st := &memStore{loadErr: errors.New("disk gone")}
	r, _, _ := newTestRunner(&fakeSearcher{stubs: []types.ArticleStub{stubFor("a")}}, st)

	if _, err := r.Run(context.Background(), "test"); err == nil {
		t.Fatal("expected load error to abort the run")
	}
	if st.persists != 0 {
		t.Errorf("persisted %d times after failed load, want 0", st.persists)
	}
}

func TestRunCancellationPersistsPartial(t *testing.T) {
	st := &memStore{}
	search := &fakeSearcher{stubs: []types.ArticleStub{stubFor("a"), stubFor("b"), stubFor("c")}}
	r, _, _ := newTestRunner(search, st)

	// An already-canceled context lets the first article through and stops
	// the loop at the inter-article pause.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := r.Run(ctx, "test")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Added != 1 {
		t.Errorf("added = %d, want 1 before cancellation took effect", summary.Added)
	}
	if st.persists != 1 {
		t.Errorf("persisted %d times, want the partial result persisted once", st.persists)
	}
	if len(st.rows) != 1 {
		t.Errorf("store has %d rows, want 1", len(st.rows))
	}
}
