// Package scraper drives heterogeneous source plugins through one
// query/pagination/aggregation protocol. The per-source behavior (request
// construction, payload parsing, end-of-results detection) lives behind the
// Source interface; the page loop, retry and backoff, pacing and result
// assembly are shared by every source.
package scraper

import (
	"context"
	"fmt"

	"legiscraper/fetcher"
	"legiscraper/models"
	"legiscraper/query"
)

// Source is the contract every source plugin satisfies. Implementations own
// their URL templates, query-string encoding, required headers and HTML/JSON
// field extraction; the engine never inspects any of that.
type Source interface {
	// Name returns the source identifier (e.g. "senado").
	Name() string

	// Columns returns the record field names this source produces, in
	// output order.
	Columns() []string

	// BuildRequest describes the fetch for one page of one atomic query.
	// Pages are 1-based.
	BuildRequest(q query.AtomicQuery, page int) (fetcher.Request, error)

	// ParsePage extracts records from a raw payload. A payload that
	// renders but holds no results yields an empty slice, not an error.
	ParsePage(payload []byte) ([]models.Record, error)

	// HasMorePages reports whether pages beyond page exist, from whatever
	// signal the source offers (result counts, last-page markers).
	HasMorePages(payload []byte, page int) bool
}

// Primer is implemented by sources that need a session warm-up before the
// first search request (landing page visits, referer cookies).
type Primer interface {
	Prime(ctx context.Context, f fetcher.Fetcher) error
}

// ParseError means a source payload did not match the expected shape. It is
// not retried: the engine abandons the remaining pages of the term.
type ParseError struct {
	Source string
	Page   int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s page %d: %v", e.Source, e.Page, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PageRange bounds how many pages are fetched per term. First and Last are
// 1-based and inclusive.
type PageRange struct {
	First int
	Last  int
}

// Pages builds an inclusive page range.
func Pages(first, last int) *PageRange {
	return &PageRange{First: first, Last: last}
}

func (p *PageRange) validate() error {
	if p.First < 1 || p.Last < p.First {
		return fmt.Errorf("%w: page range %d-%d", query.ErrInvalidQuery, p.First, p.Last)
	}
	return nil
}
