package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharkdash/internal/config"
	"sharkdash/internal/shared/testutil"
)

func newTestApplication(t *testing.T, source string) *Application {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Data.Source = source
	cfg.Telemetry.TracingEnabled = false
	cfg.Telemetry.MetricsEnabled = true
	cfg.Security.RateLimit.Enabled = false

	logger, _ := testutil.NewTestLogger(t)
	app, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func get(t *testing.T, app *Application, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApplication(t, testutil.WriteIncidentCSV(t))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		contentType    string
	}{
		{"health", "/api/health", http.StatusOK, "application/json"},
		{"readiness", "/api/health/ready", http.StatusOK, "application/json"},
		{"liveness", "/api/health/live", http.StatusOK, "application/json"},
		{"version", "/api/version", http.StatusOK, "application/json"},
		{"page catalogue", "/api/pages", http.StatusOK, "application/json"},
		{"home page", "/api/pages/home", http.StatusOK, "application/json"},
		{"trailing slash", "/api/pages/home/", http.StatusOK, "application/json"},
		{"species for a year", "/api/pages/species?year=2015", http.StatusOK, "application/json"},
		{"demographics", "/api/pages/demographics?year=all", http.StatusOK, "application/json"},
		{"year options", "/api/pages/demographics/years", http.StatusOK, "application/json"},
		{"chart", "/api/pages/home/charts/yearly_counts.png", http.StatusOK, "image/png"},
		{"workbook", "/api/pages/demographics/export.xlsx", http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"csv table", "/api/pages/demographics/tables/hour_counts.csv", http.StatusOK, "text/csv; charset=utf-8"},
		{"unknown page", "/api/pages/beaches", http.StatusNotFound, "application/problem+json"},
		{"bad year", "/api/pages/home?year=next", http.StatusBadRequest, "application/problem+json"},
		{"unknown route", "/api/nowhere", http.StatusNotFound, "application/problem+json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, app, tt.path)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestApplication_HomePageReport(t *testing.T) {
	app := newTestApplication(t, testutil.WriteIncidentCSV(t))

	rec := get(t, app, "/api/pages/home")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status       string `json:"status"`
		YearlyCounts []struct {
			Year  int `json:"year"`
			Count int `json:"count"`
		} `json:"yearly_counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.YearlyCounts, 2)
	assert.Equal(t, 2015, body.YearlyCounts[0].Year)
	assert.Equal(t, 3, body.YearlyCounts[0].Count)
}

func TestApplication_EmptySelection(t *testing.T) {
	app := newTestApplication(t, testutil.WriteIncidentCSV(t))

	rec := get(t, app, "/api/pages/species?year=2020")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "empty", body["status"])
	assert.NotEmpty(t, body["notice"])
}

func TestApplication_MissingColumns(t *testing.T) {
	source := testutil.WriteCSV(t, "no_time.csv",
		"Year,Type,Country,Species,Age,Sex,Fatal (Y/N),Name",
		"2015,Unprovoked,USA,White,30,M,N,Alice",
	)
	app := newTestApplication(t, source)

	rec := get(t, app, "/api/pages/demographics")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{"time"}, body["missing_columns"])

	// Pages that do not need the column still build
	assert.Equal(t, http.StatusOK, get(t, app, "/api/pages/home").Code)
}

func TestApplication_DataUnavailable(t *testing.T) {
	app := newTestApplication(t, filepath.Join(t.TempDir(), "missing.csv"))

	assert.Equal(t, http.StatusServiceUnavailable, get(t, app, "/api/pages/home").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, app, "/api/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(t, app, "/api/health/live").Code)
}

func TestApplication_Metrics(t *testing.T) {
	app := newTestApplication(t, testutil.WriteIncidentCSV(t))

	require.Equal(t, http.StatusOK, get(t, app, "/api/pages/home").Code)

	rec := get(t, app, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dashboard_page_builds")
	assert.Contains(t, string(body), "http_request_duration_seconds")
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	app := newTestApplication(t, testutil.WriteIncidentCSV(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
