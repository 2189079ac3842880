package fetcher

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements the Fetcher interface using colly. It only does
// GET, which is all the plain HTML sources need; its per-domain delay adds a
// second layer of politeness on top of the engine's own pacing.
type CollyFetcher struct {
	collector *colly.Collector

	// Set by the callbacks of the last Visit. Safe because the engine is
	// single-caller, sequential.
	body    []byte
	status  int
	headers map[string]string
}

var errPostUnsupported = errors.New("colly fetcher only supports GET")

// NewCollyFetcher creates a new CollyFetcher instance.
func NewCollyFetcher(delay time.Duration) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(defaultHeaders["User-Agent"]),
		colly.AllowURLRevisit(),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       delay,
	})

	f := &CollyFetcher{collector: c}

	c.OnResponse(func(r *colly.Response) {
		f.body = r.Body
		f.status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			f.status = r.StatusCode
		}
	})
	c.OnRequest(func(r *colly.Request) {
		for k, v := range f.headers {
			r.Headers.Set(k, v)
		}
	})

	return f
}

// Fetch implements the Fetcher interface.
func (f *CollyFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if req.Method == http.MethodPost {
		return nil, &FetchError{URL: req.URL, Err: errPostUnsupported}
	}
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: req.URL, Err: err}
	}

	f.body = nil
	f.status = 0
	f.headers = req.Headers

	target := req.URL
	if len(req.Params) > 0 {
		target += "?" + req.Params.Encode()
	}

	err := f.collector.Visit(target)
	f.collector.Wait()

	switch {
	case f.status == http.StatusTooManyRequests:
		return nil, &RateLimitedError{URL: req.URL}
	case f.status >= 400:
		return nil, &FetchError{URL: req.URL, StatusCode: f.status}
	case err != nil:
		return nil, &FetchError{URL: req.URL, Err: err}
	}
	return f.body, nil
}
