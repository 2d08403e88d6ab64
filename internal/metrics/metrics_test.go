package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCollector_Records(t *testing.T) {
	c := NewCollector("")

	c.RecordNavigation("docs", OutcomeRendered)
	c.RecordNavigation("docs", OutcomeRendered)
	c.RecordNavigation("docs", OutcomeRedirected)
	c.RecordFetch("get", 200)
	c.RecordFetch("get", 0)
	c.RecordPanels("docs", 3)
	c.RecordPanels("docs", 0)
	c.RecordBoot("docs", nil)
	c.RecordBoot("docs", errors.New("x"))
	c.RecordRemoteEvent("docs", nil)

	assert.Equal(t, 2.0, counterValue(t, c.navigations.WithLabelValues("docs", OutcomeRendered)))
	assert.Equal(t, 1.0, counterValue(t, c.navigations.WithLabelValues("docs", OutcomeRedirected)))
	assert.Equal(t, 1.0, counterValue(t, c.fetches.WithLabelValues("get", "200")))
	assert.Equal(t, 1.0, counterValue(t, c.fetches.WithLabelValues("get", "0")))
	assert.Equal(t, 3.0, counterValue(t, c.panels.WithLabelValues("docs")))
	assert.Equal(t, 1.0, counterValue(t, c.boots.WithLabelValues("docs", "error")))
	assert.Equal(t, 1.0, counterValue(t, c.remote.WithLabelValues("docs", "success")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordNavigation("docs", OutcomeIgnored)
		c.RecordFetch("get", 200)
		c.RecordPanels("docs", 1)
		c.RecordBoot("docs", nil)
		c.RecordRemoteEvent("docs", nil)
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.RecordFetch("post", 404)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `test_xhr_requests_total{method="post",status="404"} 1`)
}
