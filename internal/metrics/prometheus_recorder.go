package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "solclient"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration  prom.Histogram
	blocks          *prom.CounterVec
	apiDuration     *prom.HistogramVec
	apiRetries      *prom.CounterVec
	submissions     *prom.CounterVec
	missionsStarted prom.Counter
	missionsReaped  prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of writeup rendering",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		blocks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rendered_blocks_total",
			Help:      "Rendered content blocks by kind",
		}, []string{"kind"}),
		apiDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of challenge platform API requests",
			Buckets:   prom.DefBuckets,
		}, []string{"endpoint", "outcome"}),
		apiRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "api_retries_total",
			Help:      "Retried challenge platform API requests",
		}, []string{"endpoint"}),
		submissions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "flag_submissions_total",
			Help:      "Flag submissions by outcome",
		}, []string{"outcome"}),
		missionsStarted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "missions_started_total",
			Help:      "Missions started through this client",
		}),
		missionsReaped: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "missions_reaped_total",
			Help:      "Expired missions stopped by the reaper",
		}),
	}
	reg.MustRegister(pr.renderDuration, pr.blocks, pr.apiDuration, pr.apiRetries, pr.submissions, pr.missionsStarted, pr.missionsReaped)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddBlocks(kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.blocks.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveAPIRequest(endpoint string, outcome OutcomeLabel, d time.Duration) {
	if p == nil {
		return
	}
	p.apiDuration.WithLabelValues(endpoint, string(outcome)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncAPIRetry(endpoint string) {
	if p == nil {
		return
	}
	p.apiRetries.WithLabelValues(endpoint).Inc()
}

func (p *PrometheusRecorder) IncSubmission(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.submissions.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncMissionsStarted() {
	if p == nil {
		return
	}
	p.missionsStarted.Inc()
}

func (p *PrometheusRecorder) AddMissionsReaped(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.missionsReaped.Add(float64(n))
}
