package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leina-lyt/inference-dashboard/internal/config"
	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/model"
	"github.com/leina-lyt/inference-dashboard/internal/pipeline"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	base := t.TempDir()
	files := map[string]string{
		"kenya/input_logs/a.json":  `{"image_id":"a","timestamp":"2024-01-02T00:00:00Z","location":{"lat":-1.28,"lon":36.82}}`,
		"kenya/input_logs/b.json":  `{"image_id":"b","timestamp":"2024-01-01T00:00:00Z","location":{"lat":-1.30,"lon":36.80}}`,
		"kenya/output_logs/a.json": `{"image_id_from_log":"a","inference_time_seconds":0.4}`,
		"kenya/output_logs/b.json": `{"image_id_from_log":"b","inference_time_seconds":0.6}`,
		"mali/input_logs/c.json":   `{"image_id":"c","timestamp":"2024-01-01T00:00:00Z","location":{"lat":12.6,"lon":-8.0}}`,
		// mali has no output_logs directory: skipped with a diagnostic
	}
	for rel, content := range files {
		path := filepath.Join(base, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	srv := New(
		pipeline.New(pipeline.Options{BaseDir: base}),
		config.ServerConfig{RateLimitRPS: 1000, RateLimitBurst: 1000},
		config.MonitorConfig{MaxAvgInferenceSeconds: 5, MaxWarningDiagnostics: 10},
	)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t)

	var h metrics.Health
	resp := getJSON(t, ts.URL+"/health", &h)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", h.Status)
}

func TestServer_Countries(t *testing.T) {
	_, ts := newTestServer(t)

	var listings []countryListing
	resp := getJSON(t, ts.URL+"/api/countries", &listings)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listings, 1)
	assert.Equal(t, "kenya", listings[0].Country)
	assert.Equal(t, "Kenya", listings[0].DisplayName)
	assert.Equal(t, 2, listings[0].Records)
}

func TestServer_CountryRowsSortedByTimestamp(t *testing.T) {
	_, ts := newTestServer(t)

	var ds model.Dataset
	resp := getJSON(t, ts.URL+"/api/countries/kenya", &ds)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "b", ds.Rows[0].ImageID) // earlier timestamp first
	assert.Equal(t, "a", ds.Rows[1].ImageID)
}

func TestServer_CountryNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/countries/atlantis", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CountryGeoJSON(t *testing.T) {
	_, ts := newTestServer(t)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	resp := getJSON(t, ts.URL+"/api/countries/kenya/geojson", &fc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)

	f := fc.Features[0]
	assert.Equal(t, "Point", f.Geometry.Type)
	require.Len(t, f.Geometry.Coordinates, 2)
	assert.InDelta(t, 36.82, f.Geometry.Coordinates[0], 0.001) // lon first
	assert.InDelta(t, -1.28, f.Geometry.Coordinates[1], 0.001)
	assert.Contains(t, f.Properties, "inference_time_seconds")
}

func TestServer_Diagnostics(t *testing.T) {
	_, ts := newTestServer(t)

	var diags []model.Diagnostic
	resp := getJSON(t, ts.URL+"/api/diagnostics", &diags)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, diags, 1)
	assert.Equal(t, model.KindMissingSubfolder, diags[0].Kind)
	assert.Equal(t, "mali", diags[0].Country)
}

func TestServer_RateLimit(t *testing.T) {
	base := t.TempDir()
	srv := New(
		pipeline.New(pipeline.Options{BaseDir: base}),
		config.ServerConfig{RateLimitRPS: 1, RateLimitBurst: 1},
		config.MonitorConfig{},
	)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	first, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
