package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRenderDuration(150 * time.Microsecond)
	pr.AddBlocks("paragraph", 3)
	pr.AddBlocks("code", 0)
	pr.ObserveAPIRequest("/api/challenges", OutcomeSuccess, 20*time.Millisecond)
	pr.IncAPIRetry("/api/challenges")
	pr.IncSubmission(OutcomeCorrect)
	pr.IncMissionsStarted()
	pr.AddMissionsReaped(2)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"solclient_render_duration_seconds",
		"solclient_rendered_blocks_total",
		"solclient_api_request_duration_seconds",
		"solclient_api_retries_total",
		"solclient_flag_submissions_total",
		"solclient_missions_started_total",
		"solclient_missions_reaped_total",
	} {
		require.True(t, names[want], "missing metric %s", want)
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveRenderDuration(time.Millisecond)
		pr.AddBlocks("heading", 1)
		pr.IncSubmission(OutcomeIncorrect)
		pr.AddMissionsReaped(1)
	})
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncMissionsStarted()

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "solclient_missions_started_total 1")
}
