// Package fetcher retrieves raw page payloads over HTTP for the scraping
// engine. A Fetcher owns one HTTP session, reused across every page fetch of
// a scrape call; it is not safe for concurrent callers.
package fetcher

import (
	"context"
	"fmt"
	"net/url"
)

// Request describes one page fetch: where to go and what to send. Sources
// build these; the core never inspects the parameter names.
type Request struct {
	Method  string // http.MethodGet or http.MethodPost
	URL     string
	Params  url.Values // query string for GET, form body for POST
	Headers map[string]string
}

// Fetcher interface defines the contract for fetching implementations.
type Fetcher interface {
	// Fetch retrieves the raw payload for a request. Failures are reported
	// as *FetchError or *RateLimitedError.
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// FetchError is a network or HTTP failure for a single page. StatusCode is
// zero when the request never got a response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RateLimitedError means the source asked us to back off (HTTP 429).
type RateLimitedError struct {
	URL string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("fetch %s: rate limited", e.URL)
}
