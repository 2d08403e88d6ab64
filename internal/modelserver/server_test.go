package modelserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/testutil"
)

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestHandler(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"users.json":  `[{"title":"Users"}]`,
		"broken.json": `{"title":"x"}`,
	})
	logger, logs := testutil.NewLogger()
	m := metrics.NewCollector("test")
	m.RecordFetch("get", 200)

	srv := httptest.NewServer(New(dir, m, logger).Handler())
	defer srv.Close()

	status, body, header := get(t, srv.URL+"/users.json")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `[{"title":"Users"}]`, body)
	assert.Equal(t, "application/json", header.Get("Content-Type"))

	status, _, _ = get(t, srv.URL+"/missing.json")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = get(t, srv.URL+"/broken.json")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, logs.String(), "Serving invalid model.")

	status, body, _ = get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK\n", body)

	status, body, _ = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "test_xhr_requests_total")
}

func TestStartAndShutdown(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"home.json": `[]`})
	s := New(dir, nil, nil)
	assert.Equal(t, "", s.URL())

	require.NoError(t, s.Start("127.0.0.1:0"))
	status, body, _ := get(t, s.URL()+"/home.json")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", body)

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))
}
