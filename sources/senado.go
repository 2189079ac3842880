package sources

import (
	"net/http"
	"net/url"
	"strconv"

	"legiscraper/fetcher"
	"legiscraper/models"
	"legiscraper/query"

	"github.com/PuerkitoBio/goquery"
)

const senadoBase = "https://wwwg.senado.leg.br/busca"

// SenadoOptions narrows a Federal Senate search.
type SenadoOptions struct {
	Ano         string
	TipoMateria string
}

// Senado scrapes the Federal Senate's search portal, restricted to the
// federal legislation collection.
type Senado struct {
	opts SenadoOptions
}

// NewSenado creates the senate source plugin.
func NewSenado(opts SenadoOptions) *Senado {
	return &Senado{opts: opts}
}

func (s *Senado) Name() string { return "senado" }

func (s *Senado) Columns() []string {
	return []string{"titulo", "link_norma", "link_detalhes", "descricao", "trecho_descricao"}
}

func (s *Senado) BuildRequest(q query.AtomicQuery, page int) (fetcher.Request, error) {
	params := url.Values{}
	params.Set("q", q.Term)
	params.Set("colecao", "Legislação Federal")
	params.Set("p", strconv.Itoa(page))
	if s.opts.Ano != "" {
		params.Set("ano", s.opts.Ano)
	}
	if s.opts.TipoMateria != "" {
		params.Set("tipo-materia", s.opts.TipoMateria)
	}

	return fetcher.Request{
		Method: http.MethodGet,
		URL:    senadoBase,
		Params: params,
		Headers: map[string]string{
			"Accept":         "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Sec-Fetch-Dest": "document",
			"Sec-Fetch-Mode": "navigate",
			"Sec-Fetch-Site": "same-origin",
		},
	}, nil
}

func (s *Senado) ParsePage(payload []byte) ([]models.Record, error) {
	doc, err := newDoc(payload)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	doc.Find("div.sf-busca-resultados div.sf-busca-resultados-item").Each(func(_ int, item *goquery.Selection) {
		anchors := item.Find("h3 a")
		paragraphs := item.Find("p")
		if anchors.Length() < 2 || paragraphs.Length() < 3 {
			return
		}
		records = append(records, models.Record{
			"titulo":           cleanText(anchors.Eq(0).Text()),
			"link_norma":       anchors.Eq(0).AttrOr("href", ""),
			"link_detalhes":    anchors.Eq(1).AttrOr("href", ""),
			"descricao":        cleanText(paragraphs.Eq(0).Text()),
			"trecho_descricao": cleanText(paragraphs.Eq(2).Text()),
		})
	})
	return records, nil
}

func (s *Senado) HasMorePages(payload []byte, page int) bool {
	doc, err := newDoc(payload)
	if err != nil {
		return false
	}
	// The collection facet link carries the result total for the
	// federal legislation collection.
	text := doc.Find(`a[data-click-type='dynnav.colecao.Legislação Federal']`).First().Text()
	return page < pageCount(firstInt(text), resultsPerPage)
}
