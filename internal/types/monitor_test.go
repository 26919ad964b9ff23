package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonitorResponseNeverNull(t *testing.T) {
	resp := NewMonitorResponse(MonitorSnapshot{TotalRequests: 4, RequestsPerMinute: 2}, 7, nil)

	body, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"estado": "Conectado",
		"solicitudes_por_minuto": 2,
		"solicitudes_totales": 4,
		"log_solicitudes": [],
		"dias_filtrado": 7,
		"ip_blanca": []
	}`, string(body))
}

func TestNewMonitorResponseKeepsEntries(t *testing.T) {
	entries := []RequestLogEntry{{Time: "2026-01-02 10:00:00", Endpoint: "/api/balance", Method: "GET", Origin: "10.0.0.2"}}

	resp := NewMonitorResponse(MonitorSnapshot{RecentLog: entries}, 365, []string{"10.0.0.2"})

	assert.Equal(t, entries, resp.RecentLog)
	assert.Equal(t, []string{"10.0.0.2"}, resp.AllowList)
	assert.Equal(t, MonitorStateConnected, resp.State)
}
