package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharkdash/internal/config"
	"sharkdash/internal/shared/testutil"
	"sharkdash/pkg/contracts/domain"
)

func decodeReports(t *testing.T, out *bytes.Buffer) []domain.PageReport {
	t.Helper()
	var reports []domain.PageReport
	dec := json.NewDecoder(out)
	for dec.More() {
		var r domain.PageReport
		require.NoError(t, dec.Decode(&r))
		reports = append(reports, r)
	}
	return reports
}

func TestRun(t *testing.T) {
	source := testutil.WriteIncidentCSV(t)
	noTime := testutil.WriteCSV(t, "no_time.csv",
		"Year,Type,Country,Species,Age,Sex,Fatal (Y/N),Name",
		"2015,Unprovoked,USA,White,30,M,N,Alice",
	)

	tests := []struct {
		name          string
		args          func(out string) []string
		expectedCode  int
		expectedPages []domain.PageID
		expectedFiles []string
	}{
		{
			name: "all pages",
			args: func(out string) []string {
				return []string{"-source", source, "-out", out}
			},
			expectedCode:  exitOK,
			expectedPages: []domain.PageID{domain.PageHome, domain.PageSpecies, domain.PageDemographics},
			expectedFiles: []string{
				"home.xlsx", "home_yearly_counts.csv", "home_age_by_type.csv", "home_yearly_counts.png",
				"species.xlsx", "species_species_counts.csv", "species_species_counts.png",
				"demographics.xlsx", "demographics_fatality.csv", "demographics_hour_counts.png",
			},
		},
		{
			name: "single page and year without charts",
			args: func(out string) []string {
				return []string{"-source", source, "-out", out, "-page", "species", "-year", "2015", "-charts=false"}
			},
			expectedCode:  exitOK,
			expectedPages: []domain.PageID{domain.PageSpecies},
			expectedFiles: []string{"species.xlsx", "species_species_counts.csv"},
		},
		{
			name: "missing columns skip one page",
			args: func(out string) []string {
				return []string{"-source", noTime, "-out", out, "-charts=false"}
			},
			expectedCode:  exitOK,
			expectedPages: []domain.PageID{domain.PageHome, domain.PageSpecies},
			expectedFiles: []string{"home.xlsx", "species.xlsx"},
		},
		{
			name: "missing columns on the only page",
			args: func(out string) []string {
				return []string{"-source", noTime, "-out", out, "-page", "demographics"}
			},
			expectedCode: exitError,
		},
		{
			name: "unavailable source",
			args: func(out string) []string {
				return []string{"-source", filepath.Join(out, "missing.csv"), "-out", out}
			},
			expectedCode: exitError,
		},
		{
			name: "unknown page",
			args: func(out string) []string {
				return []string{"-source", source, "-out", out, "-page", "beaches"}
			},
			expectedCode: exitUsage,
		},
		{
			name: "bad year",
			args: func(out string) []string {
				return []string{"-source", source, "-out", out, "-year", "recent"}
			},
			expectedCode: exitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			logger, _ := testutil.NewTestLogger(t)
			var stdout bytes.Buffer

			code := run(context.Background(), config.Default(), tt.args(out), &stdout, logger)
			assert.Equal(t, tt.expectedCode, code)

			reports := decodeReports(t, &stdout)
			var pages []domain.PageID
			for _, r := range reports {
				pages = append(pages, r.Page)
			}
			assert.Equal(t, tt.expectedPages, pages)

			for _, name := range tt.expectedFiles {
				assert.FileExists(t, filepath.Join(out, name))
			}
		})
	}
}

func TestRun_NoChartsFlag(t *testing.T) {
	out := t.TempDir()
	logger, handler := testutil.NewTestLogger(t)
	var stdout bytes.Buffer

	code := run(context.Background(), config.Default(),
		[]string{"-source", testutil.WriteIncidentCSV(t), "-out", out, "-page", "home", "-charts=false"},
		&stdout, logger)
	require.Equal(t, exitOK, code)

	matches, err := filepath.Glob(filepath.Join(out, "*.png"))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.True(t, handler.ContainsMessage("Page report written"))

	_, err = os.Stat(filepath.Join(out, "home.xlsx"))
	assert.NoError(t, err)
}
