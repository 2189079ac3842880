package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"legiscraper/fetcher"
	"legiscraper/models"
	"legiscraper/query"

	"github.com/PuerkitoBio/goquery"
)

const (
	camaraHome = "https://www.camara.leg.br/"
	camaraBase = "https://www.camara.leg.br/legislacao/busca"
)

// CamaraOptions narrows a Chamber of Deputies search.
type CamaraOptions struct {
	Ano         string // publication year
	TipoMateria string // norm type (lei, decreto, ...)
}

// Camara scrapes the federal legislation search of the Chamber of Deputies.
// The site rejects searches from cold sessions, so the plugin warms the
// session up by visiting the home and search pages first.
type Camara struct {
	opts CamaraOptions
}

// NewCamara creates the lower-house source plugin.
func NewCamara(opts CamaraOptions) *Camara {
	return &Camara{opts: opts}
}

func (s *Camara) Name() string { return "camara" }

func (s *Camara) Columns() []string {
	return []string{"link", "titulo", "descricao", "ementa"}
}

// Prime establishes the session cookies the search endpoint expects.
func (s *Camara) Prime(ctx context.Context, f fetcher.Fetcher) error {
	if _, err := f.Fetch(ctx, fetcher.Request{Method: http.MethodGet, URL: camaraHome}); err != nil {
		return fmt.Errorf("warm up home page: %w", err)
	}
	_, err := f.Fetch(ctx, fetcher.Request{
		Method:  http.MethodGet,
		URL:     camaraBase,
		Headers: map[string]string{"Referer": camaraHome},
	})
	if err != nil {
		return fmt.Errorf("warm up search page: %w", err)
	}
	return nil
}

func (s *Camara) BuildRequest(q query.AtomicQuery, page int) (fetcher.Request, error) {
	params := url.Values{}
	params.Set("geral", q.Term)
	params.Set("abrangencia", "Legislação Federal")
	params.Set("ordenacao", "data:ASC")
	params.Set("pagina", strconv.Itoa(page))
	if s.opts.Ano != "" {
		params.Set("ano", s.opts.Ano)
	}
	if s.opts.TipoMateria != "" {
		params.Set("tipo", s.opts.TipoMateria)
	}

	return fetcher.Request{
		Method:  http.MethodGet,
		URL:     camaraBase,
		Params:  params,
		Headers: map[string]string{"Referer": camaraBase},
	}, nil
}

func (s *Camara) ParsePage(payload []byte) ([]models.Record, error) {
	doc, err := newDoc(payload)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	doc.Find("div.resultado-busca ul").First().Find("li").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		if link.Length() == 0 {
			return
		}
		records = append(records, models.Record{
			"link":      link.AttrOr("href", ""),
			"titulo":    cleanText(link.Text()),
			"descricao": cleanText(item.Find("div p").First().Text()),
			"ementa":    cleanText(item.Find("p.busca-resultados__situacao").First().Text()),
		})
	})
	return records, nil
}

// "1 a 10 de 321" in the result header; the total is the last "de N".
var camaraTotal = regexp.MustCompile(`de (\d+)`)

func (s *Camara) HasMorePages(payload []byte, page int) bool {
	doc, err := newDoc(payload)
	if err != nil {
		return false
	}
	text := cleanText(doc.Find("div.busca-info__resultado--informado").First().Text())

	total := 0
	if ms := camaraTotal.FindAllStringSubmatch(text, -1); len(ms) > 0 {
		total, _ = strconv.Atoi(ms[len(ms)-1][1])
	}
	return page < pageCount(total, resultsPerPage)
}
