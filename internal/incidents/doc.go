// Package incidents turns a raw shark-incident dataset into the summary tables
// behind the dashboard pages.
//
// # Data Flow
//
//	source file → Load → Table (normalized) → Window → Select → aggregations → domain tables
//
// Load tolerates malformed rows: they are skipped and counted, never fatal.
// Only an unreadable source yields ErrDataUnavailable. Header labels are trimmed
// and lower-cased, and numeric fields (year, age) are coerced leniently, so a
// bad value becomes a null cell instead of an error.
//
// A Table is immutable. Window, Select and every aggregation derive their own
// view from it, so rows excluded by one aggregation still reach the others.
//
// # Pages
//
// BuildPage validates the page's declared column requirements once, applies the
// page window and the year selection, and runs the page's aggregations:
//
//	table, stats, err := incidents.Load(ctx, "attacks.csv", incidents.LoadOptions{})
//	if err != nil {
//	    return err // ErrDataUnavailable
//	}
//	report, err := incidents.BuildPage(table, incidents.MustPage(domain.PageHome), incidents.AllYears())
//	if errors.Is(err, incidents.ErrMissingColumns) {
//	    ...
//	}
//	if report.Empty() {
//	    // nothing to draw for this selection
//	}
package incidents
