// Package exporter turns page reports into files: one CSV per summary table
// and one spreadsheet per page.
//
// Tables converts a domain.PageReport into named tables in the page's order.
// WriteTable and CSVWriter write them as CSV with a UTF-8 BOM so spreadsheet
// programs detect the encoding. Workbook builds an excelize file with a
// summary sheet and one sheet per table.
//
// Example usage:
//
//	for _, table := range exporter.Tables(report) {
//	    path, err := csvWriter.WriteTableFile(string(report.Page), table)
//	    ...
//	}
//	err := exporter.SaveWorkbook("home.xlsx", report)
package exporter
