package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"legiscraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResults() *models.ResultSet {
	return &models.ResultSet{
		Columns: []string{"titulo", "link", models.SearchTermColumn},
		Rows: []models.Record{
			{"titulo": "LEI Nº 14.026", "link": "https://example.test/1", models.SearchTermColumn: "saneamento"},
			{"titulo": "Decreto, com vírgula", "link": "https://example.test/2", models.SearchTermColumn: "saneamento"},
			{"titulo": "sem link", models.SearchTermColumn: "esgoto"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"titulo", "link", "termo_busca"}, rows[0])
	assert.Equal(t, []string{"LEI Nº 14.026", "https://example.test/1", "saneamento"}, rows[1])
	assert.Equal(t, []string{"Decreto, com vírgula", "https://example.test/2", "saneamento"}, rows[2])
	assert.Equal(t, []string{"sem link", "", "esgoto"}, rows[3], "missing cells are written empty")
}

func TestWriteCSVNoRows(t *testing.T) {
	var buf bytes.Buffer
	rs := &models.ResultSet{Columns: []string{"titulo", "link"}}
	require.NoError(t, WriteCSV(&buf, rs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultados.xlsx")
	require.NoError(t, SaveXLSX(path, sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Resultados")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"titulo", "link", "termo_busca"}, rows[0])
	assert.Equal(t, "LEI Nº 14.026", rows[1][0])
	assert.Equal(t, "esgoto", rows[3][2])
}

func TestSavePicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Save(filepath.Join(dir, "out.csv"), sampleResults()))
	require.NoError(t, Save(filepath.Join(dir, "out.XLSX"), sampleResults()))

	err := Save(filepath.Join(dir, "out.pdf"), sampleResults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
