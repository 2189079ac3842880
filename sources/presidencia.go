package sources

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"legiscraper/fetcher"
	"legiscraper/models"
	"legiscraper/query"

	"github.com/PuerkitoBio/goquery"
)

const presidenciaBase = "https://legislacao.presidencia.gov.br/pesquisa/ajax/resultado_pesquisa_legislacao.php"

// Presidencia scrapes the federal legislation search of the Presidency of the
// Republic. The search frontend is an AJAX endpoint that answers POSTed form
// data with an HTML fragment; results paginate by row offset, 10 per page.
type Presidencia struct{}

// NewPresidencia creates the presidency source plugin.
func NewPresidencia() *Presidencia {
	return &Presidencia{}
}

func (s *Presidencia) Name() string { return "presidencia" }

func (s *Presidencia) Columns() []string {
	return []string{"nome", "link", "ficha", "revogacao", "descricao"}
}

func (s *Presidencia) BuildRequest(q query.AtomicQuery, page int) (fetcher.Request, error) {
	params := url.Values{}
	params.Set("termo", q.Term)
	params.Set("ordenacao", "maior_data")
	params.Set("posicao", strconv.Itoa((page-1)*resultsPerPage))

	return fetcher.Request{
		Method: http.MethodPost,
		URL:    presidenciaBase,
		Params: params,
		Headers: map[string]string{
			"Accept":           "*/*",
			"Origin":           "https://legislacao.presidencia.gov.br",
			"Referer":          "https://legislacao.presidencia.gov.br/",
			"X-Requested-With": "XMLHttpRequest",
		},
	}, nil
}

func (s *Presidencia) ParsePage(payload []byte) ([]models.Record, error) {
	doc, err := newDoc(payload)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	// Result items alternate with separator divs inside the card body.
	doc.Find("div.card-body.p-0 > div").First().ChildrenFiltered("div").Each(func(i int, item *goquery.Selection) {
		if i%2 == 1 {
			return
		}
		links := item.Find("a")
		paragraphs := item.Find("p")
		if links.Length() < 2 || paragraphs.Length() < 2 {
			return
		}
		records = append(records, models.Record{
			"nome":      cleanText(links.Eq(0).Text()),
			"link":      links.Eq(0).AttrOr("href", ""),
			"ficha":     links.Eq(1).AttrOr("href", ""),
			"revogacao": cleanText(paragraphs.Eq(0).Text()),
			"descricao": cleanText(paragraphs.Eq(1).Text()),
		})
	})
	return records, nil
}

// "27 resultados encontrados" in the fragment's heading.
var presidenciaCount = regexp.MustCompile(`(?i)(\d+)\s+resultados?\s+encontrados?`)

func (s *Presidencia) HasMorePages(payload []byte, page int) bool {
	doc, err := newDoc(payload)
	if err != nil {
		return false
	}
	heading := doc.Find("h4").First().Text()

	total := 0
	if m := presidenciaCount.FindStringSubmatch(heading); m != nil {
		total, _ = strconv.Atoi(m[1])
	} else {
		total = firstInt(heading)
	}
	return page < pageCount(total, resultsPerPage)
}
