package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrWaitTimeout   = errors.New("wait condition timed out")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrNotArticleURL = errors.New("URL does not match the article shape")
)

// FetchError wraps errors that occur while fetching a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps errors that occur during markup extraction.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EnrichError wraps failures of the AI classification service.
type EnrichError struct {
	Provider string
	Err      error
}

func (e *EnrichError) Error() string {
	return fmt.Sprintf("enrich error (%s): %v", e.Provider, e.Err)
}

func (e *EnrichError) Unwrap() error { return e.Err }

// StorageError wraps errors from the persistent store. This is the only
// error class that aborts a run.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s %s): %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
