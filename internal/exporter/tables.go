package exporter

import (
	"sharkdash/internal/incidents"
	"sharkdash/pkg/contracts/domain"
)

// Table is one summary table of a page report in cell form. Values keeps the
// typed cells for spreadsheet output; Rows holds their text rendering.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
	Values  [][]interface{}
}

func (t *Table) add(values ...interface{}) {
	row := make([]string, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case nil:
			row[i] = ""
		case int:
			row[i] = formatInt(x)
		case float64:
			row[i] = formatFloat(x)
		case string:
			row[i] = x
		}
	}
	t.Rows = append(t.Rows, row)
	t.Values = append(t.Values, values)
}

// Tables converts a report into its tables, in the page's order. An empty
// report has no tables.
func Tables(report *domain.PageReport) []Table {
	if report == nil || report.Empty() {
		return nil
	}
	page, ok := incidents.LookupPage(report.Page)
	if !ok {
		return nil
	}

	tables := make([]Table, 0, len(page.Aggregations))
	for _, name := range page.Aggregations {
		if t, ok := TableByName(report, name); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// TableByName converts one named table of a report
func TableByName(report *domain.PageReport, name string) (Table, bool) {
	if report == nil {
		return Table{}, false
	}

	t := Table{Name: name}
	switch name {
	case incidents.TableYearlyCounts:
		t.Headers = []string{"year", "count"}
		for _, r := range report.YearlyCounts {
			t.add(r.Year, r.Count)
		}
	case incidents.TableAgeByType:
		t.Headers = []string{"type", "mean_age", "rows"}
		for _, r := range report.AgeByType {
			t.add(r.Type, r.MeanAge, r.Rows)
		}
	case incidents.TableSpeciesCounts:
		t.Headers = []string{"species", "count"}
		for _, r := range report.SpeciesCounts {
			t.add(r.Species, r.Count)
		}
	case incidents.TableAgeBySex:
		t.Headers = []string{"sex", "mean_age", "share", "rows"}
		for _, r := range report.AgeBySex {
			t.add(r.Sex, r.MeanAge, formatShare(r.Share), r.Rows)
		}
	case incidents.TableFatality:
		t.Headers = []string{"fatality"}
		if report.Fatality == nil {
			break
		}
		t.Headers = append(t.Headers, report.Fatality.Sex...)
		for i, f := range report.Fatality.Fatality {
			row := []interface{}{f}
			for _, cell := range report.Fatality.Cells[i] {
				if cell == nil {
					row = append(row, nil)
					continue
				}
				row = append(row, *cell)
			}
			t.add(row...)
		}
	case incidents.TableHourCounts:
		t.Headers = []string{"hour", "distinct_victims", "rows"}
		for _, r := range report.HourCounts {
			t.add(r.Hour, r.DistinctCount, r.Rows)
		}
	default:
		return Table{}, false
	}
	return t, true
}
