package incidents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharkdash/pkg/contracts/domain"
)

func TestPages_Catalogue(t *testing.T) {
	pages := Pages()
	require.Len(t, pages, 3)
	assert.Equal(t, domain.PageHome, pages[0].ID)
	assert.Equal(t, domain.PageSpecies, pages[1].ID)
	assert.Equal(t, domain.PageDemographics, pages[2].ID)

	assert.Equal(t, TrendWindow, MustPage(domain.PageHome).Window)
	assert.Equal(t, TrendWindow, MustPage(domain.PageSpecies).Window)
	assert.Equal(t, DemographicsWindow, MustPage(domain.PageDemographics).Window)

	_, ok := LookupPage("unknown")
	assert.False(t, ok)
	assert.Panics(t, func() { MustPage("unknown") })
}

func TestPageSpec_Required(t *testing.T) {
	tests := []struct {
		page domain.PageID
		want []string
	}{
		{page: domain.PageHome, want: []string{"year", "type", "age"}},
		{page: domain.PageSpecies, want: []string{"year", "species"}},
		{page: domain.PageDemographics, want: []string{"year", "sex", "age", "fatal", "time", "name"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.page), func(t *testing.T) {
			assert.Equal(t, tt.want, MustPage(tt.page).Required())
		})
	}
}

func TestPageSpec_Info(t *testing.T) {
	info := MustPage(domain.PageDemographics).Info()
	assert.Equal(t, domain.YearWindow{From: 2013, To: 2023}, info.Window)
	assert.Equal(t, []string{TableAgeBySex, TableFatality, TableHourCounts}, info.Tables)
	assert.True(t, MustPage(domain.PageHome).HasTable(TableYearlyCounts))
	assert.False(t, MustPage(domain.PageHome).HasTable(TableHourCounts))
}

func TestBuildPage_Home(t *testing.T) {
	table := csvTable(t, fixtureRows...)

	report, err := BuildPage(table, MustPage(domain.PageHome), AllYears())
	require.NoError(t, err)

	assert.Equal(t, domain.ReportStatusOK, report.Status)
	assert.Equal(t, "all", report.Selection)
	assert.Equal(t, []int{2014, 2016, 2018, 2020, 2023}, report.Years)
	assert.Equal(t, 5, report.RowCount)
	assert.Len(t, report.YearlyCounts, 5)
	assert.Equal(t, []domain.TypeAge{
		{Type: "Unprovoked", MeanAge: 50, Rows: 2},
		{Type: "Watercraft", MeanAge: 45, Rows: 1},
	}, report.AgeByType)
	assert.Nil(t, report.SpeciesCounts)
	assert.Nil(t, report.Fatality)
}

func TestBuildPage_SelectedYearAppliesToDemographics(t *testing.T) {
	table := csvTable(t, fixtureRows...)

	report, err := BuildPage(table, MustPage(domain.PageDemographics), SelectYear(2013))
	require.NoError(t, err)

	assert.Equal(t, "2013", report.Selection)
	assert.Equal(t, 1, report.RowCount)
	require.Len(t, report.AgeBySex, 1)
	assert.Equal(t, "F", report.AgeBySex[0].Sex)
	assert.Equal(t, []domain.HourCount{{Hour: 11, DistinctCount: 1, Rows: 1}}, report.HourCounts)
	require.NotNil(t, report.Fatality)
	assert.Equal(t, []string{"Y"}, report.Fatality.Fatality)
}

func TestBuildPage_EmptySelection(t *testing.T) {
	table := csvTable(t, fixtureRows...)

	for _, page := range Pages() {
		t.Run(string(page.ID), func(t *testing.T) {
			report, err := BuildPage(table, page, SelectYear(2019))
			require.NoError(t, err)

			assert.True(t, report.Empty())
			assert.Equal(t, EmptyNotice, report.Notice)
			assert.Zero(t, report.RowCount)
			assert.Empty(t, report.YearlyCounts)
			assert.Empty(t, report.AgeByType)
			assert.Empty(t, report.SpeciesCounts)
			assert.Empty(t, report.AgeBySex)
			assert.Nil(t, report.Fatality)
			assert.Empty(t, report.HourCounts)
			assert.NotEmpty(t, report.Years, "year options still offered")
		})
	}
}

func TestBuildPage_MissingColumns(t *testing.T) {
	table := csvTable(t,
		"Year,Type,Species,Age,Sex,Fatal (Y/N),Name",
		"2015,Unprovoked,White shark,20,M,N,A",
	)

	_, err := BuildPage(table, MustPage(domain.PageDemographics), AllYears())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.False(t, errors.Is(err, ErrDataUnavailable))

	var mc *MissingColumnsError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, []string{"time"}, mc.Columns)

	// Other pages keep working on the same table.
	report, err := BuildPage(table, MustPage(domain.PageSpecies), AllYears())
	require.NoError(t, err)
	assert.Equal(t, []domain.SpeciesCount{{Species: "White shark", Count: 1}}, report.SpeciesCounts)
}

func TestBuildPage_MissingColumnsListsAll(t *testing.T) {
	table := csvTable(t, "Year,Name", "2015,A")

	err := ValidateColumns(table, MustPage(domain.PageDemographics))
	var mc *MissingColumnsError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, []string{"age", "fatal", "sex", "time"}, mc.Columns)
	assert.Equal(t, "missing columns: age, fatal, sex, time", err.Error())
}

func TestBuildPage_FromFileIsIdempotent(t *testing.T) {
	path := writeSource(t, "attacks.csv", fixtureRows...)

	build := func() []*domain.PageReport {
		table, _, err := Load(context.Background(), path, LoadOptions{})
		require.NoError(t, err)
		var out []*domain.PageReport
		for _, page := range Pages() {
			r, err := BuildPage(table, page, AllYears())
			require.NoError(t, err)
			out = append(out, r)
		}
		return out
	}

	assert.Equal(t, build(), build())
}
