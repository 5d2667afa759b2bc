package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"influencer-matching/internal/common/camunda"
	"influencer-matching/internal/common/config"
	"influencer-matching/pkg/registry"
)

func TestReadyHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		probes     map[string]probe
		wantStatus int
		wantState  string
	}{
		{"all healthy", map[string]probe{"postgres": ok, "zeebe": ok}, http.StatusOK, "ready"},
		{"one down", map[string]probe{"postgres": ok, "redis": down}, http.StatusServiceUnavailable, "not_ready"},
		{"no probes", map[string]probe{}, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(":0", tt.probes, zaptest.NewLogger(t))
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Len(t, body.Checks, len(tt.probes))
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(":0", nil, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithJobTimeout(t *testing.T) {
	assert.Equal(t, 1500, withJobTimeout(config.WorkerConfig{Timeout: 1500}, time.Second).Timeout)
	assert.Equal(t, 5000, withJobTimeout(config.WorkerConfig{}, 5*time.Second).Timeout)

	wcfg := withJobTimeout(config.WorkerConfig{MaxRetries: 2}, 10*time.Second)
	jobTimeout := config.GetDuration(wcfg.Timeout)
	assert.Equal(t, 10*time.Second, jobTimeout)
	assert.Less(t, camunda.HandlerTimeout(jobTimeout), jobTimeout)
	assert.Equal(t, 2, wcfg.MaxRetries)
}

func TestRunnable(t *testing.T) {
	reg, err := registry.Parse([]byte(`{"activities": [
		{"id": "a", "taskType": "find-influencer-matches", "implementationStatus": "completed"},
		{"id": "b", "taskType": "find-business-matches", "implementationStatus": "planned"}
	]}`))
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	enabled := config.WorkerConfig{Enabled: true, MaxJobsActive: 5}

	assert.True(t, runnable(reg, "find-influencer-matches", enabled, log).Enabled)
	assert.False(t, runnable(reg, "find-business-matches", enabled, log).Enabled)
	assert.False(t, runnable(reg, "compute-match-score", enabled, log).Enabled)
	assert.Equal(t, 5, runnable(reg, "find-business-matches", enabled, log).MaxJobsActive)
}
