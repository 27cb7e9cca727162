package api_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/homequest-decor/internal/api"
	"github.com/eshaffer321/homequest-decor/internal/api/dto"
	"github.com/eshaffer321/homequest-decor/internal/application/service"
	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

func newTestServer(t *testing.T) (*api.Server, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	engine := optimizer.New(catalog.Default(), optimizer.Options{})
	svc := service.NewOptimizeService(engine, repo, logger, optimizer.StrategyMaximum)
	server := api.NewServer(api.DefaultConfig(), repo, svc, logger)
	return server, repo
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
}

func TestServer_Routes(t *testing.T) {
	server, repo := newTestServer(t)
	profile := &storage.Profile{Name: "main", Towns: []string{"town1"}, Strategy: "maximum"}
	require.NoError(t, repo.SaveProfile(profile))

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/decorations", "", http.StatusOK},
		{http.MethodGet, "/api/towns", "", http.StatusOK},
		{http.MethodPost, "/api/optimize", `{"towns":["town1"],"quantities":{"Park":1}}`, http.StatusOK},
		{http.MethodPost, "/api/import", "Park,1\n", http.StatusOK},
		{http.MethodGet, "/api/profiles", "", http.StatusOK},
		{http.MethodGet, "/api/profiles/" + profile.ID, "", http.StatusOK},
		{http.MethodPost, "/api/profiles/" + profile.ID + "/optimize", "", http.StatusOK},
		{http.MethodGet, "/api/runs", "", http.StatusOK},
		{http.MethodGet, "/api/runs/missing", "", http.StatusNotFound},
		{http.MethodGet, "/api/runs/missing/export", "", http.StatusNotFound},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
		{http.MethodPatch, "/api/optimize", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			server.Router().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/optimize", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	server, _ := newTestServer(t)

	assert.NoError(t, server.Shutdown(t.Context()))
}
