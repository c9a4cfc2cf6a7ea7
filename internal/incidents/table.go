package incidents

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// nullTokens are the cell values read as missing, matching common
// spreadsheet and dataframe conventions.
var nullTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "#N/A": {}, "#NA": {}, "<NA>": {},
}

// Table is the normalized incident table. Year is an Int column, age a Float
// column, everything else is text. Null numeric cells are NA; null text cells
// are empty strings.
//
// A Table is never modified after construction.
type Table struct {
	df dataframe.DataFrame
}

// FromRecords builds a table from a raw header and rows of the same width.
// Rows of a different width are ignored.
func FromRecords(header []string, rows [][]string) *Table {
	t, _ := fromRecords(header, rows)
	return t
}

// fromRecords normalizes headers and cells and reports how many rows were ignored
func fromRecords(header []string, rows [][]string) (*Table, int) {
	names := normalizeHeaders(header)
	width := len(names)

	columns := make([][]string, width)
	for i := range columns {
		columns[i] = make([]string, 0, len(rows))
	}

	skipped := 0
	for _, row := range rows {
		if len(row) != width {
			skipped++
			continue
		}
		for i, cell := range row {
			columns[i] = append(columns[i], cleanCell(cell))
		}
	}

	cols := make([]series.Series, width)
	for i, name := range names {
		switch name {
		case ColumnYear:
			cols[i] = series.New(mapCells(columns[i], formatYear), series.Int, name)
		case ColumnAge:
			cols[i] = series.New(mapCells(columns[i], formatAge), series.Float, name)
		default:
			cols[i] = series.New(columns[i], series.String, name)
		}
	}
	return &Table{df: dataframe.New(cols...)}, skipped
}

func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := nullTokens[s]; ok {
		return ""
	}
	return s
}

func mapCells(cells []string, f func(string) string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = f(c)
	}
	return out
}

// parseYear accepts integers and integral floats such as "2015.0"
func parseYear(s string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

func parseAge(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatYear(s string) string {
	if y, ok := parseYear(s); ok {
		return strconv.Itoa(y)
	}
	return "NaN"
}

func formatAge(s string) string {
	if a, ok := parseAge(s); ok {
		return strconv.FormatFloat(a, 'f', -1, 64)
	}
	return "NaN"
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.df.Nrow()
}

// Columns returns the normalized column names in source order
func (t *Table) Columns() []string {
	return t.df.Names()
}

// Has reports whether the normalized column exists
func (t *Table) Has(column string) bool {
	return indexOf(t.df.Names(), column) >= 0
}

// Missing returns the columns in required that the table lacks
func (t *Table) Missing(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Years returns the distinct non-null years, ascending
func (t *Table) Years() []int {
	seen := make(map[int]struct{})
	for _, y := range t.yearCells() {
		if y.ok {
			seen[y.year] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

type yearCell struct {
	year int
	ok   bool
}

func (t *Table) yearCells() []yearCell {
	if !t.Has(ColumnYear) {
		return nil
	}
	col := t.df.Col(ColumnYear)
	out := make([]yearCell, col.Len())
	for i := range out {
		el := col.Elem(i)
		if el.IsNA() {
			continue
		}
		if y, err := el.Int(); err == nil {
			out[i] = yearCell{year: y, ok: true}
		}
	}
	return out
}

// texts returns a text column with nulls as empty strings
func (t *Table) texts(column string) []string {
	if !t.Has(column) {
		return make([]string, t.Len())
	}
	col := t.df.Col(column)
	out := make([]string, col.Len())
	for i := range out {
		el := col.Elem(i)
		if el.IsNA() {
			continue
		}
		out[i] = el.String()
	}
	return out
}

// floats returns a numeric column with nulls as NaN
func (t *Table) floats(column string) []float64 {
	if !t.Has(column) {
		out := make([]float64, t.Len())
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	col := t.df.Col(column)
	out := make([]float64, col.Len())
	for i := range out {
		el := col.Elem(i)
		if el.IsNA() {
			out[i] = math.NaN()
			continue
		}
		out[i] = el.Float()
	}
	return out
}

func (t *Table) whereYear(keep func(int) bool) *Table {
	return t.where(ColumnYear, func(el series.Element) bool {
		if el.IsNA() {
			return false
		}
		y, err := el.Int()
		return err == nil && keep(y)
	})
}

// where keeps the rows whose cell in column satisfies keep. A missing column
// keeps nothing.
func (t *Table) where(column string, keep func(series.Element) bool) *Table {
	if t.Len() == 0 {
		return t
	}
	if !t.Has(column) {
		column = t.df.Names()[0]
		keep = func(series.Element) bool { return false }
	}
	df := t.df.Filter(dataframe.F{
		Colname:    column,
		Comparator: series.CompFunc,
		Comparando: keep,
	})
	if df.Err != nil {
		return t.empty()
	}
	return &Table{df: df}
}

// empty returns a table with the same columns and no rows
func (t *Table) empty() *Table {
	names := t.df.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = series.New([]string{}, t.df.Col(name).Type(), name)
	}
	return &Table{df: dataframe.New(cols...)}
}
