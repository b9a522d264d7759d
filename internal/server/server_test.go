package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incomeclarity/marginsight/internal/config"
	"github.com/incomeclarity/marginsight/internal/database"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(database.Config{
		Path: filepath.Join(dir, "portfolio.db"),
		Name: "portfolio",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		DataDir:           dir,
		LogLevel:          "disabled",
		Port:              0,
		DefaultIterations: 500,
		MaxIterations:     10000,
		SimWorkers:        2,
	}

	return New(Config{
		Log:         zerolog.Nop(),
		Config:      cfg,
		PortfolioDB: db,
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutesRegistered(t *testing.T) {
	srv := newTestServer(t)

	// 404 means route not found; any other status means it was routed.
	testCases := []struct {
		method string
		path   string
		name   string
	}{
		{"POST", "/api/margin/simulate", "Simulate"},
		{"GET", "/api/margin/scenarios", "Scenarios"},
		{"POST", "/api/margin/stress-test", "StressTest"},
		{"GET", "/api/margin/portfolios/p1/risk-profile", "RiskProfile"},
		{"POST", "/api/margin/portfolios/p1/simulate", "SimulateStored"},
		{"GET", "/api/system/status", "SystemStatus"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)
			assert.NotEqual(t, http.StatusNotFound, rec.Code,
				"%s %s should be registered", tc.method, tc.path)
		})
	}
}

func TestScenariosThroughFullStack(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/margin/scenarios", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2008 Financial Crisis")
}
