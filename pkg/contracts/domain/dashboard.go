package domain

// PageID identifies one of the dashboard pages
type PageID string

const (
	PageHome         PageID = "home"
	PageSpecies      PageID = "species"
	PageDemographics PageID = "demographics"
)

// ReportStatus tells the presentation layer whether there is anything to draw
type ReportStatus string

const (
	ReportStatusOK    ReportStatus = "ok"
	ReportStatusEmpty ReportStatus = "empty"
)

// YearWindow is an inclusive range of years
type YearWindow struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// PageInfo describes a page for navigation
type PageInfo struct {
	ID          PageID     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Window      YearWindow `json:"window"`
	Tables      []string   `json:"tables"`
}

// YearCount is one point of the attack trend line
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// TypeAge is the mean victim age for one attack type
type TypeAge struct {
	Type    string  `json:"type"`
	MeanAge float64 `json:"mean_age"`
	Rows    int     `json:"rows"`
}

// SpeciesCount is the number of attacks attributed to a whitelisted species
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

// SexAge is the mean victim age for one sex value.
// Share is MeanAge divided by the sum of all means; the pie chart slices use it.
type SexAge struct {
	Sex     string  `json:"sex"`
	MeanAge float64 `json:"mean_age"`
	Share   float64 `json:"share"`
	Rows    int     `json:"rows"`
}

// FatalityPivot holds mean ages indexed by fatality (rows) and sex (columns).
// A nil cell means no victim matched that pair.
type FatalityPivot struct {
	Fatality []string     `json:"fatality"`
	Sex      []string     `json:"sex"`
	Cells    [][]*float64 `json:"cells"`
	Min      float64      `json:"min"`
	Max      float64      `json:"max"`
}

// Empty reports whether the pivot has no cells
func (p FatalityPivot) Empty() bool {
	return len(p.Fatality) == 0 || len(p.Sex) == 0
}

// Cell returns the mean age for a fatality/sex pair
func (p FatalityPivot) Cell(fatality, sex string) (float64, bool) {
	for i, f := range p.Fatality {
		if f != fatality {
			continue
		}
		for j, s := range p.Sex {
			if s == sex && p.Cells[i][j] != nil {
				return *p.Cells[i][j], true
			}
		}
	}
	return 0, false
}

// HourCount is the number of distinct victims attacked in one hour-of-day bucket
type HourCount struct {
	Hour          int `json:"hour"`
	DistinctCount int `json:"distinct_count"`
	Rows          int `json:"rows"`
}

// PageReport is everything one page needs to render for a year selection
type PageReport struct {
	Page      PageID       `json:"page"`
	Title     string       `json:"title"`
	Window    YearWindow   `json:"window"`
	Selection string       `json:"selection"`
	Years     []int        `json:"years"`
	Status    ReportStatus `json:"status"`
	Notice    string       `json:"notice,omitempty"`
	RowCount  int          `json:"row_count"`

	YearlyCounts  []YearCount    `json:"yearly_counts,omitempty"`
	AgeByType     []TypeAge      `json:"age_by_type,omitempty"`
	SpeciesCounts []SpeciesCount `json:"species_counts,omitempty"`
	AgeBySex      []SexAge       `json:"age_by_sex,omitempty"`
	Fatality      *FatalityPivot `json:"fatality,omitempty"`
	HourCounts    []HourCount    `json:"hour_counts,omitempty"`
}

// Empty reports whether the selection produced no rows
func (r *PageReport) Empty() bool {
	return r.Status == ReportStatusEmpty
}
