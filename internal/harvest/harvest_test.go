package harvest

import (
	"context"
	"io"
	"log/slog"

	"github.com/newsloom/newsloom/internal/fetcher"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubFetcher serves canned markup per URL and records the request order.
type stubFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*fetcher.Response, error) {
	s.calls = append(s.calls, url)
	if err, ok := s.errs[url]; ok {
		return nil, err
	}
	body, ok := s.pages[url]
	if !ok {
		body = "<html><body></body></html>"
	}
	return &fetcher.Response{URL: url, FinalURL: url, StatusCode: 200, Body: []byte(body)}, nil
}

func (s *stubFetcher) Close() error { return nil }

// stubRenderedFetcher is the browser-backed analogue of stubFetcher.
type stubRenderedFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (s *stubRenderedFetcher) FetchRendered(ctx context.Context, url, ready string) (*fetcher.Response, error) {
	s.calls = append(s.calls, url)
	if err, ok := s.errs[url]; ok {
		return nil, err
	}
	body, ok := s.pages[url]
	if !ok {
		body = "<html><body></body></html>"
	}
	return &fetcher.Response{URL: url, FinalURL: url, StatusCode: 200, Body: []byte(body)}, nil
}

func (s *stubRenderedFetcher) Close() error { return nil }
