package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharkdash/internal/shared/testutil"
)

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		source     func(t *testing.T) string
		wantStatus string
	}{
		{name: "dataset present", source: testutil.WriteIncidentCSV, wantStatus: "ready"},
		{name: "dataset missing", source: func(t *testing.T) string { return "/nonexistent/attacks.csv" }, wantStatus: "not_ready"},
		{name: "dataset is a directory", source: func(t *testing.T) string { return t.TempDir() }, wantStatus: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService("1.0.0", "", tt.source(t), logger)

			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			data, ok := status.Services["data"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, data.Status)
			assert.NotEmpty(t, data.Message)
		})
	}
}

func TestHealthService_Probes(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2026-01-01T00:00:00Z", "attacks.csv", logger)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := hs.Version()
	assert.Equal(t, "1.2.3", version["version"])
	assert.Equal(t, "2026-01-01T00:00:00Z", version["build_time"])
}
