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

const (
	ipeaSite = "https://www.ipea.gov.br"
	ipeaBase = ipeaSite + "/portal/coluna-5/central-de-conteudo/busca-publicacoes"
)

// Ipea scrapes the publication search of the Institute for Applied Economic
// Research.
type Ipea struct{}

// NewIpea creates the economic-research-institute source plugin.
func NewIpea() *Ipea {
	return &Ipea{}
}

func (s *Ipea) Name() string { return "ipea" }

func (s *Ipea) Columns() []string {
	return []string{"titulo", "link", "autores", "data", "assuntos"}
}

func (s *Ipea) BuildRequest(q query.AtomicQuery, page int) (fetcher.Request, error) {
	params := url.Values{}
	params.Set("palavra_chave", q.Term)
	params.Set("tipo", "")
	params.Set("assunto", "")
	params.Set("autor", "")
	params.Set("timeperiods", "all")
	params.Set("data-inicial", "")
	params.Set("data-final", "")
	params.Set("pagina", strconv.Itoa(page))

	return fetcher.Request{
		Method: http.MethodGet,
		URL:    ipeaBase,
		Params: params,
		Headers: map[string]string{
			"Accept":         "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Sec-Fetch-Dest": "document",
			"Sec-Fetch-Mode": "navigate",
			"Sec-Fetch-Site": "same-origin",
		},
	}, nil
}

func (s *Ipea) ParsePage(payload []byte) ([]models.Record, error) {
	doc, err := newDoc(payload)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	doc.Find("div.lista-publicacoes div.row div.publi-conteudo").Each(func(_ int, item *goquery.Selection) {
		anchor := item.Find("h3 a").First()
		if anchor.Length() == 0 {
			return
		}
		records = append(records, models.Record{
			"titulo":   cleanText(anchor.Text()),
			"link":     ipeaSite + anchor.AttrOr("href", ""),
			"autores":  cleanText(item.Find("div.autores").First().Text()),
			"data":     cleanText(item.Find("p").First().Text()),
			"assuntos": cleanText(item.Find("div.assuntos").First().Text()),
		})
	})
	return records, nil
}

func (s *Ipea) HasMorePages(payload []byte, page int) bool {
	doc, err := newDoc(payload)
	if err != nil {
		return false
	}
	text := doc.Find("div.col.clearfix h4 strong").First().Text()
	return page < pageCount(firstInt(text), resultsPerPage)
}
