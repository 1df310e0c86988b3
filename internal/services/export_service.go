package services

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/models/dtos"
)

// BuildExportGrid lays the matrix out as the spreadsheet rows: a weekday
// header, a date header, then one row per athlete with "x" marks and the total.
func BuildExportGrid(matrix *dtos.AttendanceMatrix) [][]string {
	weekdays := make([]string, 0, len(matrix.Dates)+2)
	dates := make([]string, 0, len(matrix.Dates)+2)

	weekdays = append(weekdays, "Dia da semana")
	dates = append(dates, "Atleta/data")
	for _, d := range matrix.Dates {
		weekdays = append(weekdays, d.ShortDayName)
		dates = append(dates, d.Date)
	}
	weekdays = append(weekdays, "")
	dates = append(dates, "Total")

	grid := [][]string{weekdays, dates}
	for _, row := range matrix.Rows {
		line := make([]string, 0, len(matrix.Dates)+2)
		line = append(line, row.Name)
		for _, d := range matrix.Dates {
			if row.Presences[d.Date] {
				line = append(line, "x")
			} else {
				line = append(line, "")
			}
		}
		line = append(line, strconv.Itoa(row.Total))
		grid = append(grid, line)
	}
	return grid
}

// ExportFilename is the download name for a month's sheet
func ExportFilename(monthKey string) string {
	return constants.ExportFilenamePrefix + monthKey + ".xlsx"
}

// WriteXLSX renders the matrix as a single-sheet workbook into w
func WriteXLSX(w io.Writer, matrix *dtos.AttendanceMatrix) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := constants.ExportSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range BuildExportGrid(matrix) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
