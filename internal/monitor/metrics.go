package monitor

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports the request monitor and the endpoint layer to Prometheus.
// All methods are safe on a nil receiver so callers never need to check whether metrics are enabled.
type Metrics struct {
	// Traffic: recorded (non-internal) requests
	Requests *prometheus.CounterVec

	// Latency of every handled request, internal ones included
	RequestDuration *prometheus.HistogramVec

	// Requests refused by the access filter
	Rejected prometheus.Counter

	// Data-source failures by stage (connect, history, account, positions)
	UpstreamErrors *prometheus.CounterVec

	MinuteResets      prometheus.Counter
	RequestsPerMinute prometheus.Gauge
}

// NewMetrics registers the bridge collectors on reg. A nil reg gets a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_requests_total",
			Help: "Total number of recorded API requests.",
		}, []string{"endpoint", "method"}),

		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bridge_request_duration_seconds",
			Help:    "Histogram of request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"endpoint", "status"}),

		Rejected: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "bridge_rejected_requests_total",
			Help: "Requests refused by the allow-list.",
		}),

		UpstreamErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_upstream_errors_total",
			Help: "Data source failures by stage.",
		}, []string{"stage"}),

		MinuteResets: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "bridge_minute_resets_total",
			Help: "Number of per-minute counter resets.",
		}),

		RequestsPerMinute: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "bridge_requests_per_minute",
			Help: "Requests recorded since the last minute reset.",
		}),
	}
}

// ObserveRequest counts a recorded request.
func (m *Metrics) ObserveRequest(endpoint, method string) {
	if m == nil {
		return
	}

	m.Requests.WithLabelValues(endpoint, method).Inc()
}

// ObserveDuration records how long a request took.
func (m *Metrics) ObserveDuration(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}

	m.RequestDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveRejected counts a request refused by the allow-list.
func (m *Metrics) ObserveRejected() {
	if m == nil {
		return
	}

	m.Rejected.Inc()
}

// ObserveUpstreamError counts a data source failure at stage.
func (m *Metrics) ObserveUpstreamError(stage string) {
	if m == nil {
		return
	}

	m.UpstreamErrors.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObserveMinuteReset() {
	if m == nil {
		return
	}

	m.MinuteResets.Inc()
}

func (m *Metrics) SetRequestsPerMinute(n int64) {
	if m == nil {
		return
	}

	m.RequestsPerMinute.Set(float64(n))
}
