package incidents

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV_NormalizesHeaders(t *testing.T) {
	table := csvTable(t,
		"\ufeff Year , TYPE,Species , AGE,sex,Fatal (Y/N),Time,Name ",
		"2015,Unprovoked,White shark,20,M,N,14h00,A",
	)

	assert.Equal(t,
		[]string{"year", "type", "species", "age", "sex", "fatal", "time", "name"},
		table.Columns())
	assert.Equal(t, 1, table.Len())
}

func TestReadCSV_SkipsMalformedRows(t *testing.T) {
	table, stats, err := ReadCSV(context.Background(), strings.NewReader(strings.Join([]string{
		"Year,Species",
		"2015,White shark",
		"2016,Bull shark,extra",
		"2017",
		"2018,Tiger shark",
	}, "\n")), LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 2, stats.SkippedRows)
	assert.Equal(t, []int{2015, 2018}, table.Years())
}

func TestReadCSV_CoercesNumbers(t *testing.T) {
	tests := []struct {
		name    string
		year    string
		age     string
		wantOK  bool
		wantAge bool
	}{
		{name: "plain", year: "2015", age: "20", wantOK: true, wantAge: true},
		{name: "padded", year: " 2015 ", age: " 20 ", wantOK: true, wantAge: true},
		{name: "float year", year: "2015.0", age: "20.5", wantOK: true, wantAge: true},
		{name: "text", year: "circa 2015", age: "teens", wantOK: false, wantAge: false},
		{name: "null tokens", year: "NaN", age: "N/A", wantOK: false, wantAge: false},
		{name: "empty", year: "", age: "", wantOK: false, wantAge: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := csvTable(t, "Year,Age", `"`+tt.year+`","`+tt.age+`"`)
			require.Equal(t, 1, table.Len())

			cells := table.yearCells()
			assert.Equal(t, tt.wantOK, cells[0].ok)
			if tt.wantOK {
				assert.Equal(t, 2015, cells[0].year)
			}

			ages := table.floats(ColumnAge)
			assert.Equal(t, tt.wantAge, !math.IsNaN(ages[0]))
		})
	}
}

func TestReadCSV_NoHeader(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader(""), LoadOptions{})
	assert.ErrorIs(t, err, errNoHeader)
}

func TestReadCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ReadCSV(ctx, strings.NewReader("Year\n2015\n"), LoadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadCSV_CustomDelimiter(t *testing.T) {
	table, _, err := ReadCSV(context.Background(), strings.NewReader("Year;Species\n2015;Bull shark\n"), LoadOptions{Comma: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "species"}, table.Columns())
	assert.Equal(t, 1, table.Len())
}

func TestLoad_CSV(t *testing.T) {
	path := writeSource(t, "attacks.csv",
		fullHeader,
		"2015,Unprovoked,White shark,20,M,N,14h00,A",
		"2016,Provoked,Bull shark,30,F,Y,09h30,B",
	)

	table, stats, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, FormatCSV, stats.Format)
	assert.Equal(t, path, stats.Path)
	assert.Equal(t, 0, stats.SkippedRows)
	assert.Contains(t, stats.Columns, ColumnFatal)
}

func TestLoad_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
		},
		{
			name: "empty file",
			path: func(t *testing.T) string { return writeSource(t, "empty.csv") },
		},
		{
			name: "broken workbook",
			path: func(t *testing.T) string { return writeSource(t, "broken.xlsx", "not a zip") },
		},
		{
			name: "broken workbook xls",
			path: func(t *testing.T) string { return writeSource(t, "broken.xls", "not an ole file") },
		},
		{
			name: "empty workbook xls",
			path: func(t *testing.T) string { return writeSource(t, "empty.xls") },
		},
		{
			name: "xls without workbook stream",
			path: func(t *testing.T) string { return filepath.Join("testdata", "no_workbook.xls") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			_, _, err := Load(context.Background(), path, LoadOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataUnavailable))

			var du *DataUnavailableError
			require.True(t, errors.As(err, &du))
			assert.Equal(t, path, du.Path)
		})
	}
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attacks.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Year", "Type", "Species", "Age", "Sex", "Fatal (Y/N)", "Time", "Name"},
		{2015, "Unprovoked", "White shark", 20, "M", "N", "14h00", "A"},
		{2016, "Provoked", "Bull shark"},
		{},
		{2017, "Unprovoked", "Tiger shark", 40, "F", "Y", "10h00", "C", "stray"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, stats, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, stats.Format)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 1, stats.SkippedRows)
	assert.Equal(t, []int{2015, 2016}, table.Years())
	assert.Equal(t, "", table.texts(ColumnName)[1], "padded cells are null")
	assert.True(t, math.IsNaN(table.floats(ColumnAge)[1]))
}

func TestLoad_XLS(t *testing.T) {
	path := filepath.Join("testdata", "attacks.xls")

	table, stats, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatXLS, stats.Format)
	assert.Equal(t,
		[]string{"year", "type", "species", "age", "sex", "fatal", "time", "name"},
		table.Columns())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 0, stats.SkippedRows)
	assert.Equal(t, []int{2015, 2016, 2017}, table.Years(), "last row is read")
	assert.Equal(t, []string{"A", "", "C"}, table.texts(ColumnName), "short rows are padded")
	assert.Equal(t, []string{"N", "", "Y"}, table.texts(ColumnFatal))

	ages := table.floats(ColumnAge)
	assert.Equal(t, 20.0, ages[0])
	assert.True(t, math.IsNaN(ages[1]))
	assert.Equal(t, 40.0, ages[2])
}

func TestLoad_XLSSheet(t *testing.T) {
	path := filepath.Join("testdata", "attacks.xls")

	table, _, err := Load(context.Background(), path, LoadOptions{Sheet: "Attacks"})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, _, err = Load(context.Background(), path, LoadOptions{Sheet: "Missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "Missing")
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]string{
		"attacks.csv":  FormatCSV,
		"attacks.CSV":  FormatCSV,
		"attacks.txt":  FormatCSV,
		"attacks.xlsx": FormatXLSX,
		"attacks.xls":  FormatXLS,
		"attacks.XLS":  FormatXLS,
		"attacks":      FormatCSV,
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectFormat(path), path)
	}
}
