package scraper

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"legiscraper/fetcher"
	"legiscraper/models"
	"legiscraper/query"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Engine runs the shared scraping algorithm over one source plugin. An
// engine holds a single HTTP session and no cross-call state; it assumes one
// caller at a time.
type Engine struct {
	source  Source
	fetcher fetcher.Fetcher
	logger  *zap.Logger
	limiter *rate.Limiter

	maxRetries  int
	backoffBase time.Duration

	// rateLimitFloor is the minimum wait after a source signals backoff.
	rateLimitFloor time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger; when unset, logging is disabled.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPageDelay sets the minimum interval between page fetches.
// Defaults to 2s, matching what the sources tolerate.
func WithPageDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d <= 0 {
			e.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		e.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithRetries sets the attempt bound per page fetch.
func WithRetries(n int) Option {
	return func(e *Engine) { e.maxRetries = n }
}

// WithBackoffBase sets the base delay of the exponential retry backoff.
func WithBackoffBase(d time.Duration) Option {
	return func(e *Engine) { e.backoffBase = d }
}

// New creates an engine for a source, fetching through f.
func New(src Source, f fetcher.Fetcher, opts ...Option) *Engine {
	e := &Engine{
		source:         src,
		fetcher:        f,
		logger:         zap.NewNop(),
		limiter:        rate.NewLimiter(rate.Every(2*time.Second), 1),
		maxRetries:     3,
		backoffBase:    2 * time.Second,
		rateLimitFloor: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Source returns the plugin this engine drives.
func (e *Engine) Source() Source { return e.source }

// Scrape expands the specification and fetches every page of every atomic
// term, in order. Pages limits how many pages are fetched per term; nil
// means all available pages.
//
// Transient fetch failures are retried with increasing delay; a page that
// still fails abandons the rest of that term only, so the call returns the
// partial result rather than an error. Malformed specifications fail before
// any network activity. Per-term outcomes are reported on ResultSet.Terms.
func (e *Engine) Scrape(ctx context.Context, spec query.Spec, pages *PageRange) (*models.ResultSet, error) {
	queries, err := query.Expand(spec)
	if err != nil {
		return nil, err
	}
	if pages != nil {
		if err := pages.validate(); err != nil {
			return nil, err
		}
	}

	e.logger.Info("starting scrape",
		zap.String("source", e.source.Name()),
		zap.Int("terms", len(queries)))

	if primer, ok := e.source.(Primer); ok {
		if err := primer.Prime(ctx, e.fetcher); err != nil {
			// The search requests may still succeed without the
			// warm-up cookies.
			e.logger.Warn("session warm-up failed", zap.Error(err))
		}
	}

	tag := len(queries) > 1
	result := &models.ResultSet{Columns: slices.Clone(e.source.Columns())}
	if tag {
		result.Columns = append(result.Columns, models.SearchTermColumn)
	}

	for _, q := range queries {
		term := e.scrapeTerm(ctx, q, pages, tag, result)
		result.Terms = append(result.Terms, term)
	}

	e.logger.Info("scrape finished",
		zap.String("source", e.source.Name()),
		zap.Int("rows", len(result.Rows)))
	return result, nil
}

// scrapeTerm iterates the pages of one atomic term, appending records to
// result, and returns the term's audit entry.
func (e *Engine) scrapeTerm(ctx context.Context, q query.AtomicQuery, pages *PageRange, tag bool, result *models.ResultSet) models.TermResult {
	term := models.TermResult{Term: q.Term, Origin: q.Origin, Status: models.StatusPending}

	first, last := 1, 0
	if pages != nil {
		first, last = pages.First, pages.Last
	}

	for page := first; ; page++ {
		term.Status = models.StatusFetching
		if last > 0 && page > last {
			term.Status = models.StatusExhausted
			break
		}

		req, err := e.source.BuildRequest(q, page)
		if err != nil {
			e.logger.Warn("abandoning term: bad request",
				zap.String("term", q.Term), zap.Int("page", page), zap.Error(err))
			term.Status = models.StatusAbandoned
			term.Err = err
			break
		}

		payload, err := e.fetchPage(ctx, req)
		if err != nil {
			var fe *fetcher.FetchError
			if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
				// Some sources 404 past the last page.
				term.Status = models.StatusExhausted
				break
			}
			e.logger.Warn("abandoning term: fetch failed after retries",
				zap.String("term", q.Term), zap.Int("page", page), zap.Error(err))
			term.Status = models.StatusAbandoned
			term.Err = err
			break
		}

		records, err := e.source.ParsePage(payload)
		if err != nil {
			perr := &ParseError{Source: e.source.Name(), Page: page, Err: err}
			e.logger.Warn("abandoning term: unparseable page",
				zap.String("term", q.Term), zap.Int("page", page), zap.Error(perr))
			term.Status = models.StatusAbandoned
			term.Err = perr
			break
		}

		// An empty page always ends the term, even if the source still
		// claims more pages; sources have been seen reporting counts
		// inconsistent with what they serve.
		if len(records) == 0 {
			term.Status = models.StatusExhausted
			break
		}

		term.Pages++
		term.Rows += len(records)
		for _, rec := range records {
			if tag {
				// A source may reuse record maps across pages; tag a copy.
				rec = rec.Clone()
				rec[models.SearchTermColumn] = q.Origin
			}
			result.Rows = append(result.Rows, rec)
		}

		e.logger.Debug("page fetched",
			zap.String("term", q.Term), zap.Int("page", page), zap.Int("records", len(records)))

		if !e.source.HasMorePages(payload, page) {
			term.Status = models.StatusExhausted
			break
		}
	}

	return term
}

// fetchPage fetches one page, retrying transient failures with increasing
// delay. A 404 is returned immediately for the caller to interpret.
func (e *Engine) fetchPage(ctx context.Context, req fetcher.Request) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if attempt > 0 {
			wait := e.backoffBase << (attempt - 1)
			var rl *fetcher.RateLimitedError
			if errors.As(lastErr, &rl) && wait < e.rateLimitFloor {
				wait = e.rateLimitFloor
			}
			e.logger.Warn("retrying page fetch",
				zap.String("url", req.URL),
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait),
				zap.Error(lastErr))
			if err := sleep(ctx, wait); err != nil {
				return nil, &fetcher.FetchError{URL: req.URL, Err: err}
			}
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, &fetcher.FetchError{URL: req.URL, Err: err}
		}

		payload, err := e.fetcher.Fetch(ctx, req)
		if err == nil {
			return payload, nil
		}

		var fe *fetcher.FetchError
		if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
