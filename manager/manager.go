// Package manager maps source identifiers to ready-to-use scraper engines,
// so callers never construct source plugins directly.
package manager

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"legiscraper/fetcher"
	"legiscraper/scraper"
	"legiscraper/sources"

	"go.uber.org/zap"
)

// ErrUnknownSource indicates a source identifier that is not registered.
var ErrUnknownSource = errors.New("unknown source")

// Options configures the engine and the source plugin a lookup returns.
// The zero value gives the defaults.
type Options struct {
	Logger    *zap.Logger
	PageDelay time.Duration // minimum interval between page fetches
	Retries   int           // attempts per page fetch
	Timeout   time.Duration // per-request HTTP timeout

	// Search filters understood by some sources; the rest ignore them.
	Ano         string // camara, senado
	TipoMateria string // camara, senado
	DataInicio  string // cnj
	DataFim     string // cnj
}

type factory func(Options) *scraper.Engine

// The known sources, fixed at process start. Each lookup builds a fresh
// engine with its own HTTP session, so callers can hold several scrapers
// without sharing state.
var registry = map[string]factory{
	"presidencia": func(o Options) *scraper.Engine {
		return scraper.New(sources.NewPresidencia(), restyFetcher(o), engineOpts(o)...)
	},
	"camara": func(o Options) *scraper.Engine {
		src := sources.NewCamara(sources.CamaraOptions{Ano: o.Ano, TipoMateria: o.TipoMateria})
		return scraper.New(src, restyFetcher(o), engineOpts(o)...)
	},
	"senado": func(o Options) *scraper.Engine {
		src := sources.NewSenado(sources.SenadoOptions{Ano: o.Ano, TipoMateria: o.TipoMateria})
		return scraper.New(src, collyFetcher(o), engineOpts(o)...)
	},
	"cnj": func(o Options) *scraper.Engine {
		src := sources.NewCNJ(sources.CNJOptions{DataInicio: o.DataInicio, DataFim: o.DataFim})
		return scraper.New(src, restyFetcher(o), engineOpts(o)...)
	},
	"ipea": func(o Options) *scraper.Engine {
		return scraper.New(sources.NewIpea(), collyFetcher(o), engineOpts(o)...)
	},
}

// Get returns a fresh scraper engine for a source identifier. Matching is
// case-insensitive.
func Get(name string, opts Options) (*scraper.Engine, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return build(opts), nil
}

// Names lists the registered source identifiers, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func restyFetcher(o Options) fetcher.Fetcher {
	return fetcher.NewRestyFetcher(o.Timeout)
}

func collyFetcher(o Options) fetcher.Fetcher {
	delay := o.PageDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return fetcher.NewCollyFetcher(delay)
}

func engineOpts(o Options) []scraper.Option {
	var opts []scraper.Option
	if o.Logger != nil {
		opts = append(opts, scraper.WithLogger(o.Logger))
	}
	if o.PageDelay != 0 {
		opts = append(opts, scraper.WithPageDelay(o.PageDelay))
	}
	if o.Retries > 0 {
		opts = append(opts, scraper.WithRetries(o.Retries))
	}
	return opts
}
