package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/gateway"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	reg := prometheus.NewRegistry()
	gw := gateway.New(gateway.DefaultConfig(), gateway.NewMetrics(reg))

	srv := httptest.NewServer(NewHandler(Options{
		Extractor: gw,
		Gatherer:  reg,
		StaticDir: dir,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestStaticRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: "<html>app</html>"},
		{path: "/assign-items", want: "<html>app</html>"},
		{path: "/split-summary", want: "<html>app</html>"},
		{path: "/app.js", want: "console.log(1)"},
		{path: "/no/such/file", want: "<html>app</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, srv.URL+tt.path)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	status, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestScrapeFallsBackWithoutCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/scrape", "application/json",
		strings.NewReader(`{"base64Image":"aGVsbG8="}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Coffee"`)

	_, metrics := get(t, srv.URL+"/metrics")
	assert.Contains(t, metrics, `receiptsplit_gateway_extractions_total{outcome="no_credentials"} 1`)
}

func TestSplitServiceMounted(t *testing.T) {
	srv := newTestServer(t)
	client := service.NewSplitServiceClient(http.DefaultClient, srv.URL)

	resp, err := client.Normalize(context.Background(), connect.NewRequest(&service.NormalizeRequest{
		Items: []models.RawItem{{Name: "Tea", Price: 3}},
	}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Items, 1)
}
