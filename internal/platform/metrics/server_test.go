package metrics

import (
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var probeTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "wellness_metrics_probe_total",
	Help: "Test-only counter.",
})

func TestServerExposesRegisteredMetrics(t *testing.T) {
	probeTotal.Inc()

	srv, err := Listen("127.0.0.1:0", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "wellness_metrics_probe_total 1")
}

func TestListenRejectsBadAddress(t *testing.T) {
	_, err := Listen("not-an-address", nil)
	require.Error(t, err)
}
