package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"sharkdash/internal/incidents"
	"sharkdash/pkg/contracts/domain"
)

// SummarySheet is the first sheet of every workbook
const SummarySheet = "Summary"

const (
	headerFill = "#DDEBF7"
	scaleLow   = "#F8F8F8"
	scaleHigh  = "#2F75B5"
)

// Workbook builds a spreadsheet for one page report: a summary sheet followed
// by one sheet per table. The fatality and hour tables get a two-colour scale
// so they read like the shaded grids of the dashboard.
func Workbook(report *domain.PageReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeSummary(f, report, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	for _, table := range Tables(report) {
		if err := writeTableSheet(f, table, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("write sheet %s: %w", table.Name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Media types of the exported files
const (
	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSVContentType      = "text/csv; charset=utf-8"
)

// WriteWorkbook builds the workbook for report and writes it to w
func WriteWorkbook(w io.Writer, report *domain.PageReport) error {
	f, err := Workbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook builds the workbook for report and saves it at path
func SaveWorkbook(path string, report *domain.PageReport) error {
	f, err := Workbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, report *domain.PageReport, headerStyle int) error {
	years := make([]string, len(report.Years))
	for i, y := range report.Years {
		years[i] = formatInt(y)
	}

	rows := [][]interface{}{
		{"field", "value"},
		{"page", string(report.Page)},
		{"title", report.Title},
		{"window", fmt.Sprintf("%d-%d", report.Window.From, report.Window.To)},
		{"selection", report.Selection},
		{"status", string(report.Status)},
		{"rows", report.RowCount},
		{"years", strings.Join(years, ", ")},
	}
	if report.Notice != "" {
		rows = append(rows, []interface{}{"notice", report.Notice})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := row
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 14); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "B", "B", 48)
}

func writeTableSheet(f *excelize.File, table Table, headerStyle int) error {
	sheet := table.Name
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, values := range table.Values {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := values
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(table.Headers))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return err
	}

	if len(table.Values) == 0 || !shaded(table.Name) {
		return nil
	}

	// The value columns start at B for the pivot and the hour table alike
	first := "B2"
	last, _ := excelize.CoordinatesToCellName(len(table.Headers), len(table.Values)+1)
	if table.Name == incidents.TableHourCounts {
		last, _ = excelize.CoordinatesToCellName(2, len(table.Values)+1)
	}
	return f.SetConditionalFormat(sheet, first+":"+last, []excelize.ConditionalFormatOptions{{
		Type:     "2_color_scale",
		Criteria: "=",
		MinType:  "min",
		MaxType:  "max",
		MinColor: scaleLow,
		MaxColor: scaleHigh,
	}})
}

func shaded(name string) bool {
	return name == incidents.TableFatality || name == incidents.TableHourCounts
}
