package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestFetcher(t *testing.T) *HTTPFetcher {
	t.Helper()
	cfg := config.DefaultConfig().Fetcher
	cfg.RequestTimeout = 5 * time.Second
	f, err := NewHTTPFetcher(&cfg, testLogger())
	if err != nil {
		t.Fatalf("NewHTTPFetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFetchPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("user agent = %q", ua)
		}
		io.WriteString(w, "<html><body>hello</body></html>")
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "hello") {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestFetchGzipBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		io.WriteString(gz, "compressed payload")
		gz.Close()
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(resp.Body) != "compressed payload" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestFetchBrotliBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		br := brotli.NewWriter(w)
		io.WriteString(br, "brotli payload")
		br.Close()
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(resp.Body) != "brotli payload" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	cases := []struct {
		status    int
		retryable bool
	}{
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		f := newTestFetcher(t)
		_, err := f.Fetch(context.Background(), srv.URL)
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		var fe *types.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("status %d: error type %T", tc.status, err)
		}
		if fe.StatusCode != tc.status {
			t.Errorf("status in error = %d, want %d", fe.StatusCode, tc.status)
		}
		if fe.Retryable != tc.retryable {
			t.Errorf("status %d: retryable = %v, want %v", tc.status, fe.Retryable, tc.retryable)
		}
	}
}

func TestFetchRecordsFinalURL(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
			return
		}
		io.WriteString(w, "landed")
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := f.Fetch(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.HasSuffix(resp.FinalURL, "/new") {
		t.Errorf("final url = %q, want redirect target", resp.FinalURL)
	}
}

func TestFetchContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, srv.URL)
	if err == nil {
		t.Fatal("expected error from canceled fetch")
	}
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error type %T", err)
	}
}
