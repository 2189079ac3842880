package sources

import (
	"net/http"
	"testing"

	"legiscraper/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const senadoFixture = `
<a data-click-type="dynnav.colecao.Legislação Federal">Legislação Federal (42)</a>
<div class="sf-busca-resultados">
  <div class="sf-busca-resultados-item">
    <h3>
      <a href="https://legis.senado.leg.br/norma/564808">LEI Nº 14.026, DE 2020</a>
      <a href="https://legis.senado.leg.br/norma/564808/publicacao">Detalhes</a>
    </h3>
    <p>Atualiza o marco legal do saneamento básico.</p>
    <p>Diário Oficial da União</p>
    <p>...atualiza o marco legal do <b>saneamento</b> básico e altera...</p>
  </div>
  <div class="sf-busca-resultados-item">
    <h3><a href="https://legis.senado.leg.br/norma/1">só um link</a></h3>
    <p>incompleto</p>
  </div>
</div>`

func TestSenadoBuildRequest(t *testing.T) {
	src := NewSenado(SenadoOptions{Ano: "2020"})

	req, err := src.BuildRequest(query.AtomicQuery{Term: "saneamento"}, 4)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://wwwg.senado.leg.br/busca", req.URL)
	assert.Equal(t, "saneamento", req.Params.Get("q"))
	assert.Equal(t, "Legislação Federal", req.Params.Get("colecao"))
	assert.Equal(t, "4", req.Params.Get("p"))
	assert.Equal(t, "2020", req.Params.Get("ano"))
	assert.False(t, req.Params.Has("tipo-materia"))
}

func TestSenadoParsePage(t *testing.T) {
	src := NewSenado(SenadoOptions{})

	records, err := src.ParsePage([]byte(senadoFixture))
	require.NoError(t, err)
	require.Len(t, records, 1, "items missing links or description are skipped")

	assert.Equal(t, "LEI Nº 14.026, DE 2020", records[0]["titulo"])
	assert.Equal(t, "https://legis.senado.leg.br/norma/564808", records[0]["link_norma"])
	assert.Equal(t, "https://legis.senado.leg.br/norma/564808/publicacao", records[0]["link_detalhes"])
	assert.Equal(t, "Atualiza o marco legal do saneamento básico.", records[0]["descricao"])
	assert.Equal(t, "...atualiza o marco legal do saneamento básico e altera...", records[0]["trecho_descricao"])
}

func TestSenadoHasMorePages(t *testing.T) {
	src := NewSenado(SenadoOptions{})

	// 42 results in the collection facet is 5 pages.
	assert.True(t, src.HasMorePages([]byte(senadoFixture), 4))
	assert.False(t, src.HasMorePages([]byte(senadoFixture), 5))

	assert.False(t, src.HasMorePages([]byte(`<div>sem facetas</div>`), 1))
}
