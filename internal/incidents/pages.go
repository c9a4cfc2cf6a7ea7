package incidents

import (
	"fmt"

	"sharkdash/pkg/contracts/domain"
)

// EmptyNotice is shown when a selection leaves no rows
const EmptyNotice = "No data available for the selected year!"

// Table names used by pages, exports and the CSV endpoint
const (
	TableYearlyCounts  = "yearly_counts"
	TableAgeByType     = "age_by_type"
	TableSpeciesCounts = "species_counts"
	TableAgeBySex      = "age_by_sex"
	TableFatality      = "fatality"
	TableHourCounts    = "hour_counts"
)

// Aggregation is one summary table computed from a filtered table
type Aggregation struct {
	Name     string
	Requires []string
	Apply    func(t *Table, r *domain.PageReport)
}

var aggregations = map[string]Aggregation{
	TableYearlyCounts: {
		Name:     TableYearlyCounts,
		Requires: []string{ColumnYear},
		Apply:    func(t *Table, r *domain.PageReport) { r.YearlyCounts = YearlyCounts(t) },
	},
	TableAgeByType: {
		Name:     TableAgeByType,
		Requires: []string{ColumnYear, ColumnType, ColumnAge},
		Apply:    func(t *Table, r *domain.PageReport) { r.AgeByType = MeanAgeByType(t) },
	},
	TableSpeciesCounts: {
		Name:     TableSpeciesCounts,
		Requires: []string{ColumnYear, ColumnSpecies},
		Apply:    func(t *Table, r *domain.PageReport) { r.SpeciesCounts = SpeciesCounts(t) },
	},
	TableAgeBySex: {
		Name:     TableAgeBySex,
		Requires: []string{ColumnYear, ColumnSex, ColumnAge},
		Apply:    func(t *Table, r *domain.PageReport) { r.AgeBySex = MeanAgeBySex(t) },
	},
	TableFatality: {
		Name:     TableFatality,
		Requires: []string{ColumnYear, ColumnSex, ColumnFatal, ColumnAge},
		Apply: func(t *Table, r *domain.PageReport) {
			p := MeanAgeBySexFatality(t)
			r.Fatality = &p
		},
	},
	TableHourCounts: {
		Name:     TableHourCounts,
		Requires: []string{ColumnYear, ColumnTime, ColumnName},
		Apply:    func(t *Table, r *domain.PageReport) { r.HourCounts = DistinctVictimsByHour(t) },
	},
}

// PageSpec binds a page to its window and aggregations
type PageSpec struct {
	ID           domain.PageID
	Title        string
	Description  string
	Window       Window
	Aggregations []string
}

// Info returns the navigation entry for the page
func (p PageSpec) Info() domain.PageInfo {
	return domain.PageInfo{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Window:      p.Window.Domain(),
		Tables:      append([]string(nil), p.Aggregations...),
	}
}

// Required returns the union of the columns the page's aggregations need, in
// first-seen order.
func (p PageSpec) Required() []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, name := range p.Aggregations {
		for _, c := range aggregations[name].Requires {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			cols = append(cols, c)
		}
	}
	return cols
}

// HasTable reports whether the page produces the named table
func (p PageSpec) HasTable(name string) bool {
	return indexOf(p.Aggregations, name) >= 0
}

var pages = []PageSpec{
	{
		ID:           domain.PageHome,
		Title:        "Shark Attacks Over Time",
		Description:  "Yearly attack counts and the average victim age per attack type.",
		Window:       TrendWindow,
		Aggregations: []string{TableYearlyCounts, TableAgeByType},
	},
	{
		ID:           domain.PageSpecies,
		Title:        "Species Involvement",
		Description:  "Attacks attributed to the five most frequently identified species.",
		Window:       TrendWindow,
		Aggregations: []string{TableSpeciesCounts},
	},
	{
		ID:           domain.PageDemographics,
		Title:        "Victim Demographics",
		Description:  "Average victim age by sex and fatality, and distinct victims by hour of day.",
		Window:       DemographicsWindow,
		Aggregations: []string{TableAgeBySex, TableFatality, TableHourCounts},
	},
}

// Pages returns every page in navigation order
func Pages() []PageSpec {
	return append([]PageSpec(nil), pages...)
}

// LookupPage finds a page by id
func LookupPage(id domain.PageID) (PageSpec, bool) {
	for _, p := range pages {
		if p.ID == id {
			return p, true
		}
	}
	return PageSpec{}, false
}

// MustPage is LookupPage for ids known at compile time
func MustPage(id domain.PageID) PageSpec {
	p, ok := LookupPage(id)
	if !ok {
		panic(fmt.Sprintf("incidents: unknown page %q", id))
	}
	return p
}

// ValidateColumns returns a *MissingColumnsError naming every column the page
// needs that the table lacks.
func ValidateColumns(t *Table, page PageSpec) error {
	if missing := t.Missing(page.Required()...); len(missing) > 0 {
		return NewMissingColumnsError(missing...)
	}
	return nil
}

// BuildPage validates the page's columns, applies its window and the year
// selection, then runs its aggregations. An empty selection is not an error:
// the report comes back with ReportStatusEmpty and no tables.
func BuildPage(t *Table, page PageSpec, sel YearSelection) (*domain.PageReport, error) {
	if err := ValidateColumns(t, page); err != nil {
		return nil, err
	}

	windowed := t.Window(page.Window)
	selected := windowed.Select(sel)

	report := &domain.PageReport{
		Page:      page.ID,
		Title:     page.Title,
		Window:    page.Window.Domain(),
		Selection: sel.String(),
		Years:     windowed.Years(),
		Status:    domain.ReportStatusOK,
		RowCount:  selected.Len(),
	}
	if selected.Len() == 0 {
		report.Status = domain.ReportStatusEmpty
		report.Notice = EmptyNotice
		return report, nil
	}

	for _, name := range page.Aggregations {
		aggregations[name].Apply(selected, report)
	}
	return report, nil
}
