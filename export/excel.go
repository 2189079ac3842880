package export

import (
	"fmt"

	"legiscraper/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Resultados"

// SaveXLSX writes a result set to an Excel workbook with a bold header row.
func SaveXLSX(path string, rs *models.ResultSet) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	header := make([]interface{}, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(rs.Columns), 1)
		f.SetCellStyle(sheetName, "A1", last, bold)
	}

	row := make([]interface{}, len(rs.Columns))
	for i, rec := range rs.Rows {
		for j, col := range rs.Columns {
			row[j] = rec[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
