package fetcher

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Response is the result of fetching one page.
type Response struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the URL after any redirects.
	FinalURL string

	// StatusCode is the HTTP status, or 200 for rendered fetches where the
	// browser does not expose it.
	StatusCode int

	// Body is the (possibly rendered) markup.
	Body []byte

	// Duration is how long the fetch took.
	Duration time.Duration
}

// Document parses the response body as HTML.
func (r *Response) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
}

// Fetcher performs a single bounded GET against a URL.
type Fetcher interface {
	// Fetch retrieves the content at the given URL.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// RenderedFetcher drives a browser session to a URL and waits for a dynamic
// content marker before returning the rendered markup.
type RenderedFetcher interface {
	// FetchRendered navigates to url and, if ready is non-empty, waits for
	// the ready selector to appear. A wait that times out returns an error
	// wrapping types.ErrWaitTimeout.
	FetchRendered(ctx context.Context, url, ready string) (*Response, error)

	// Close shuts down the browser session.
	Close() error
}
