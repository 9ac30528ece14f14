package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"bat-monitor-be/internal/bootstrap"
	"bat-monitor-be/internal/config"
	"bat-monitor-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, debug bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Port:                "0",
			BodyLimitMB:         1,
			CorsAllowedOrigins:  "*",
			DebugRoutesEnabled:  debug,
			DownloadDir:         filepath.Join(dir, "downloads"),
			SampleSensorPath:    filepath.Join(dir, "sample_sensor.txt"),
			DefaultServerNumber: "1",
			DefaultClientNumber: "1",
		},
		Store: config.StoreConfig{Provider: "memory"},
		Classifier: config.ClassifierConfig{
			Backend:    "onnx",
			LabelsPath: filepath.Join(dir, "missing-classes.json"),
		},
	}
}

func newTestServer(t *testing.T, debug bool) *Server {
	t.Helper()
	cfg := testConfig(t, debug)
	c, err := bootstrap.NewContainer(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return New(cfg, c)
}

func get(t *testing.T, s *Server, path string) (int, string) {
	t.Helper()
	resp, err := s.GetApp().Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestServer_HealthReportsDisabledClassifier(t *testing.T) {
	s := newTestServer(t, false)

	code, body := get(t, s, "/api/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"ready":false`)
	assert.Contains(t, body, `"store":"memory"`)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, false)

	code, body := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "batmonitor_classifier_ready 0")
}

func TestServer_DebugRoutesToggle(t *testing.T) {
	code, _ := get(t, newTestServer(t, false), "/api/debug/folders")
	assert.Equal(t, http.StatusNotFound, code)

	code, body := get(t, newTestServer(t, true), "/api/debug/folders")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"total_folders":0`)
}

func TestServer_UnknownSession(t *testing.T) {
	code, body := get(t, newTestServer(t, false), "/api/bat/BAT404/files")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "Folder not found for SERVER1_CLIENT1_404")
}
