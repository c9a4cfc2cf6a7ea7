package incidents

import (
	"fmt"
	"strconv"
	"strings"

	"sharkdash/pkg/contracts/domain"
)

// Window is an inclusive range of years
type Window struct {
	From int
	To   int
}

// Contains reports whether year lies inside the window, bounds included
func (w Window) Contains(year int) bool {
	return year >= w.From && year <= w.To
}

// Domain converts the window to its contract form
func (w Window) Domain() domain.YearWindow {
	return domain.YearWindow{From: w.From, To: w.To}
}

func (w Window) String() string {
	return fmt.Sprintf("%d-%d", w.From, w.To)
}

// Inclusion windows used by the pages
var (
	TrendWindow        = Window{From: 2014, To: 2023}
	DemographicsWindow = Window{From: 2013, To: 2023}
)

// AllYearsLabel is the text form of the "all years" selection
const AllYearsLabel = "all"

// YearSelection is either a single year or every year in the window
type YearSelection struct {
	year int
	all  bool
}

// AllYears selects every year of the window
func AllYears() YearSelection {
	return YearSelection{all: true}
}

// SelectYear selects exactly one year
func SelectYear(year int) YearSelection {
	return YearSelection{year: year}
}

// ParseYearSelection accepts "all" (any case), an empty string, or a year
func ParseYearSelection(s string) (YearSelection, error) {
	s = strings.TrimSpace(s)
	if s == "" || FoldEqual(s, AllYearsLabel) {
		return AllYears(), nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return YearSelection{}, fmt.Errorf("invalid year selection %q: %w", s, err)
	}
	return SelectYear(year), nil
}

// All reports whether the selection is the all-years sentinel
func (s YearSelection) All() bool {
	return s.all
}

// Year returns the selected year; ok is false for the all-years sentinel
func (s YearSelection) Year() (int, bool) {
	return s.year, !s.all
}

func (s YearSelection) String() string {
	if s.all {
		return AllYearsLabel
	}
	return strconv.Itoa(s.year)
}

// Window keeps rows whose year is inside w. Rows without a year are dropped.
func (t *Table) Window(w Window) *Table {
	return t.whereYear(w.Contains)
}

// Select narrows a windowed table to the selected year
func (t *Table) Select(sel YearSelection) *Table {
	year, ok := sel.Year()
	if !ok {
		return t
	}
	return t.whereYear(func(y int) bool { return y == year })
}

// YearOptions returns the selection options offered for a windowed table:
// the all-years label followed by every distinct year, ascending.
func YearOptions(t *Table) []string {
	years := t.Years()
	opts := make([]string, 0, len(years)+1)
	opts = append(opts, AllYearsLabel)
	for _, y := range years {
		opts = append(opts, strconv.Itoa(y))
	}
	return opts
}
