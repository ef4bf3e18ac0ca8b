package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/types"
)

// BrowserFetcher implements RenderedFetcher using a headless browser via Rod.
// Pages are opened per fetch and closed before returning, so one browser
// session serves the whole run while never holding more than one page.
type BrowserFetcher struct {
	browser *rod.Browser
	cfg     *config.BrowserConfig
	logger  *slog.Logger
}

// NewBrowserFetcher launches a headless Chromium and connects to it.
func NewBrowserFetcher(cfg *config.BrowserConfig, logger *slog.Logger) (*BrowserFetcher, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	bf := &BrowserFetcher{
		browser: browser,
		cfg:     cfg,
		logger:  logger.With("component", "browser_fetcher"),
	}

	bf.logger.Info("browser fetcher ready", "stealth", cfg.Stealth)
	return bf, nil
}

// FetchRendered navigates to a URL, optionally waits for the ready selector,
// and returns the rendered markup. A ready-selector timeout is reported as
// an error wrapping types.ErrWaitTimeout; callers treat it as a
// stop-condition, not a failure.
func (bf *BrowserFetcher) FetchRendered(ctx context.Context, url, ready string) (*Response, error) {
	start := time.Now()

	page, err := bf.newPage()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}
	defer page.Close()

	page = page.Context(ctx)

	if bf.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: bf.cfg.UserAgent}); err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	if err := page.Timeout(bf.cfg.NavTimeout).Navigate(url); err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}

	if err := page.Timeout(bf.cfg.NavTimeout).WaitLoad(); err != nil {
		bf.logger.Warn("page load timeout, continuing", "url", url, "error", err)
	}

	if ready != "" {
		if _, err := page.Timeout(bf.cfg.WaitTimeout).Element(ready); err != nil {
			return nil, &types.FetchError{
				URL: url,
				Err: fmt.Errorf("waiting for %q: %w", ready, types.ErrWaitTimeout),
			}
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	bf.logger.Debug("rendered fetch complete",
		"url", url,
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return &Response{
		URL:        url,
		FinalURL:   finalURL,
		StatusCode: 200, // Rod doesn't easily expose status codes
		Body:       []byte(html),
		Duration:   duration,
	}, nil
}

// Close shuts down the browser.
func (bf *BrowserFetcher) Close() error {
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// newPage opens a fresh blank page, with stealth patches if configured.
func (bf *BrowserFetcher) newPage() (*rod.Page, error) {
	if bf.cfg.Stealth {
		return stealth.Page(bf.browser)
	}
	return bf.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}
