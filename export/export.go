// Package export writes scrape results to delimited files and spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"legiscraper/models"
)

// Save writes a result set to path, picking the format from the extension
// (.csv or .xlsx).
func Save(path string, rs *models.ResultSet) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return SaveCSV(path, rs)
	case ".xlsx":
		return SaveXLSX(path, rs)
	default:
		return fmt.Errorf("unsupported output format: %s", filepath.Ext(path))
	}
}

// SaveCSV writes a result set to a CSV file.
func SaveCSV(path string, rs *models.ResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, rs); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes a result set as CSV: one header row with the source's
// columns, then one row per record in fetch order.
func WriteCSV(w io.Writer, rs *models.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rs.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(rs.Columns))
	for _, rec := range rs.Rows {
		for i, col := range rs.Columns {
			row[i] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
