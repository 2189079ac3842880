package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Browser-profile headers the sources expect; government search frontends
// answer differently to unknown clients.
var defaultHeaders = map[string]string{
	"Accept-Encoding": "gzip, deflate, br, zstd",
	"Accept-Language": "pt-BR,en-US;q=0.7,en;q=0.3",
	"Connection":      "keep-alive",
	"Sec-Fetch-Dest":  "empty",
	"Sec-Fetch-Mode":  "cors",
	"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:139.0) Gecko/20100101 Firefox/139.0",
}

// RestyFetcher implements the Fetcher interface on a resty session. Cookies
// set by a source (session warm-up, anti-bot tokens) persist across fetches.
type RestyFetcher struct {
	client *resty.Client
}

// NewRestyFetcher creates a new RestyFetcher instance.
func NewRestyFetcher(timeout time.Duration) *RestyFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(defaultHeaders)

	return &RestyFetcher{client: client}
}

// Fetch implements the Fetcher interface.
func (f *RestyFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	r := f.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers)

	var (
		res *resty.Response
		err error
	)
	switch req.Method {
	case http.MethodPost:
		res, err = r.SetFormDataFromValues(req.Params).Post(req.URL)
	default:
		res, err = r.SetQueryParamsFromValues(req.Params).Get(req.URL)
	}
	if err != nil {
		return nil, &FetchError{URL: req.URL, Err: err}
	}

	switch {
	case res.StatusCode() == http.StatusTooManyRequests:
		return nil, &RateLimitedError{URL: req.URL}
	case res.StatusCode() >= 400:
		return nil, &FetchError{URL: req.URL, StatusCode: res.StatusCode()}
	}
	return res.Body(), nil
}
