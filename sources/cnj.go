package sources

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"legiscraper/fetcher"
	"legiscraper/models"
	"legiscraper/query"
)

const (
	cnjBase = "https://comunicaapi.pje.jus.br/api/v1/comunicacao"

	// The Comunica API caps what it serves per request well below the
	// HTML frontends, so pages are smaller here.
	cnjPageSize = 5
)

// CNJOptions narrows a judicial communications search.
type CNJOptions struct {
	DataInicio string // publication window start, YYYY-MM-DD
	DataFim    string // publication window end, YYYY-MM-DD
}

// CNJ scrapes the National Justice Council's Comunica API for judicial
// communications. Unlike the HTML sources this is a JSON API; records are
// the scalar fields of each returned item.
type CNJ struct {
	opts CNJOptions
}

// NewCNJ creates the judiciary-council source plugin.
func NewCNJ(opts CNJOptions) *CNJ {
	return &CNJ{opts: opts}
}

func (s *CNJ) Name() string { return "cnj" }

func (s *CNJ) Columns() []string {
	return []string{
		"id", "data_disponibilizacao", "siglaTribunal", "tipoComunicacao",
		"nomeOrgao", "nomeClasse", "numeroprocessocommascara", "texto", "link",
	}
}

func (s *CNJ) BuildRequest(q query.AtomicQuery, page int) (fetcher.Request, error) {
	params := url.Values{}
	params.Set("texto", q.Term)
	params.Set("itensPorPagina", strconv.Itoa(cnjPageSize))
	params.Set("pagina", strconv.Itoa(page))
	if s.opts.DataInicio != "" {
		params.Set("dataDisponibilizacaoInicio", s.opts.DataInicio)
	}
	if s.opts.DataFim != "" {
		params.Set("dataDisponibilizacaoFim", s.opts.DataFim)
	}

	return fetcher.Request{
		Method: http.MethodGet,
		URL:    cnjBase,
		Params: params,
		Headers: map[string]string{
			"Accept":  "application/json, text/plain, */*",
			"Origin":  "https://comunica.pje.jus.br",
			"Referer": "https://comunica.pje.jus.br/",
		},
	}, nil
}

type cnjPayload struct {
	Count *int                     `json:"count"`
	Total *int                     `json:"total"`
	Items []map[string]interface{} `json:"itens"`
}

func (s *CNJ) ParsePage(payload []byte) ([]models.Record, error) {
	var body cnjPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	records := make([]models.Record, 0, len(body.Items))
	for _, item := range body.Items {
		rec := make(models.Record, len(s.Columns()))
		for _, col := range s.Columns() {
			rec[col] = scalarString(item[col])
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *CNJ) HasMorePages(payload []byte, page int) bool {
	var body cnjPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return false
	}
	total := body.Count
	if total == nil {
		total = body.Total
	}
	if total == nil {
		return false
	}
	return page < pageCount(*total, cnjPageSize)
}

// scalarString renders a decoded JSON scalar as a cell value. Nested
// structures are not columns and render empty.
func scalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
