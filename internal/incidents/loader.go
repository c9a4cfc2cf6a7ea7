package incidents

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anrid/xls"
	"github.com/xuri/excelize/v2"
)

// Source formats understood by Load
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
)

// ctxCheckEvery is how many rows are read between cancellation checks
const ctxCheckEvery = 1024

var (
	errNoHeader   = errors.New("source has no header row")
	errNoWorkbook = errors.New("legacy workbook has no Workbook stream")
)

// LoadOptions tunes how a source is read
type LoadOptions struct {
	// Format overrides detection by file extension
	Format string
	// Sheet names the worksheet of a spreadsheet source; the first sheet when empty
	Sheet string
	// Comma is the field delimiter of delimited text; ',' when zero
	Comma rune
}

// LoadStats describes what Load read
type LoadStats struct {
	Path        string   `json:"path"`
	Format      string   `json:"format"`
	Rows        int      `json:"rows"`
	SkippedRows int      `json:"skipped_rows"`
	Columns     []string `json:"columns"`
}

// Load reads the dataset at path and returns the normalized table.
// Malformed rows are skipped and counted; only a source that cannot be opened
// or has no header fails, with a *DataUnavailableError.
func Load(ctx context.Context, path string, opts LoadOptions) (*Table, LoadStats, error) {
	format := opts.Format
	if format == "" {
		format = DetectFormat(path)
	}
	stats := LoadStats{Path: path, Format: format}

	var (
		table   *Table
		skipped int
		err     error
	)
	switch format {
	case FormatXLSX:
		table, skipped, err = loadXLSX(ctx, path, opts.Sheet)
	case FormatXLS:
		table, skipped, err = loadXLS(ctx, path, opts.Sheet)
	case FormatCSV:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			break
		}
		var s LoadStats
		table, s, err = ReadCSV(ctx, f, opts)
		f.Close()
		skipped = s.SkippedRows
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, stats, err
		}
		return nil, stats, &DataUnavailableError{Path: path, Err: err}
	}

	stats.Rows = table.Len()
	stats.SkippedRows = skipped
	stats.Columns = table.Columns()
	return table, stats, nil
}

// DetectFormat picks the source format from the file extension. Anything that
// is not a spreadsheet is read as delimited text.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	default:
		return FormatCSV
	}
}

// ReadCSV reads delimited text. Rows that fail to parse or whose field count
// differs from the header are skipped.
func ReadCSV(ctx context.Context, r io.Reader, opts LoadOptions) (*Table, LoadStats, error) {
	stats := LoadStats{Format: FormatCSV}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, stats, errNoHeader
	}
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	if blankRow(header) {
		return nil, stats, errNoHeader
	}

	var rows [][]string
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.SkippedRows++
				continue
			}
			return nil, stats, fmt.Errorf("read row: %w", err)
		}
		if len(record) != len(header) {
			stats.SkippedRows++
			continue
		}
		rows = append(rows, record)
	}

	table := FromRecords(header, rows)
	stats.Rows = table.Len()
	stats.Columns = table.Columns()
	return table, stats, nil
}

func loadXLSX(ctx context.Context, path, sheet string) (*Table, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, 0, errNoHeader
		}
		sheet = sheets[0]
	}
	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromGrid(ctx, grid)
}

func loadXLS(ctx context.Context, path, sheetName string) (*Table, int, error) {
	wb, closer, err := xls.OpenWithCloser(path, "utf-8")
	if closer != nil {
		defer closer.Close()
	}
	if err != nil {
		return nil, 0, err
	}
	if wb == nil {
		return nil, 0, errNoWorkbook
	}

	var sheet *xls.WorkSheet
	if sheetName == "" {
		sheet = wb.GetSheet(0)
	} else {
		for i := 0; i < wb.NumSheets(); i++ {
			if s := wb.GetSheet(i); s != nil && s.Name == sheetName {
				sheet = s
				break
			}
		}
		if sheet == nil {
			return nil, 0, fmt.Errorf("read sheet %q: sheet not found", sheetName)
		}
	}
	if sheet == nil {
		return nil, 0, errNoHeader
	}

	// MaxRow is the highest row index, not a count
	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		var cols []string
		for j := 0; j <= row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		grid = append(grid, cols)
	}
	return fromGrid(ctx, grid)
}

// fromGrid turns spreadsheet rows into a table. Spreadsheets drop trailing
// empty cells, so short rows are padded; rows carrying data past the header
// are skipped.
func fromGrid(ctx context.Context, grid [][]string) (*Table, int, error) {
	start := 0
	for start < len(grid) && blankRow(grid[start]) {
		start++
	}
	if start == len(grid) {
		return nil, 0, errNoHeader
	}
	header := trimTrailingBlank(grid[start])
	width := len(header)

	skipped := 0
	rows := make([][]string, 0, len(grid)-start-1)
	for n, row := range grid[start+1:] {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		if blankRow(row) {
			continue
		}
		row = trimTrailingBlank(row)
		if len(row) > width {
			skipped++
			continue
		}
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		rows = append(rows, row)
	}

	table, ignored := fromRecords(header, rows)
	return table, skipped + ignored, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimTrailingBlank(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}
