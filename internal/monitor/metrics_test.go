package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("/api/balance", "GET")
		m.ObserveDuration("/api/balance", 200, time.Millisecond)
		m.ObserveRejected()
		m.ObserveUpstreamError("connect")
		m.ObserveMinuteReset()
		m.SetRequestsPerMinute(3)
	})
}

func TestMetricsRegisterOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRejected()
	m.ObserveRejected()
	m.ObserveUpstreamError("connect")
	m.ObserveDuration("/api/balance", 200, 20*time.Millisecond)

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.Rejected), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.UpstreamErrors.WithLabelValues("connect")), 0)

	families, err := reg.Gather()
	assert.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "bridge_rejected_requests_total")
	assert.Contains(t, names, "bridge_request_duration_seconds")
}

func TestNewMetricsWithoutRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(nil)
		// a second private registry must not collide with the first
		NewMetrics(nil)
	})
}
