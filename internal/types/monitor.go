package types

// RequestLogTimeLayout is the timestamp format of RequestLogEntry.Time.
const RequestLogTimeLayout = "2006-01-02 15:04:05"

// MonitorStateConnected is the "estado" value reported by a healthy server.
const MonitorStateConnected = "Conectado"

// RequestLogEntry records one inbound API call. Immutable once created.
type RequestLogEntry struct {
	Time     string `json:"hora" yaml:"time"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Method   string `json:"metodo" yaml:"method"`
	Origin   string `json:"ip" yaml:"origin"`
}

// MonitorSnapshot is a point-in-time read of the request monitor.
type MonitorSnapshot struct {
	TotalRequests     int64
	RequestsPerMinute int64
	RecentLog         []RequestLogEntry
}

// MonitorResponse is the body of GET /monitor.
type MonitorResponse struct {
	State             string            `json:"estado"`
	RequestsPerMinute int64             `json:"solicitudes_por_minuto"`
	TotalRequests     int64             `json:"solicitudes_totales"`
	RecentLog         []RequestLogEntry `json:"log_solicitudes"`
	FilterWindowDays  int               `json:"dias_filtrado"`
	AllowList         []string          `json:"ip_blanca"`
}

// NewMonitorResponse combines a monitor snapshot with the runtime config values.
// Nil slices become empty so the JSON never carries null.
func NewMonitorResponse(snapshot MonitorSnapshot, filterWindowDays int, allowList []string) MonitorResponse {
	recent := snapshot.RecentLog
	if recent == nil {
		recent = []RequestLogEntry{}
	}

	if allowList == nil {
		allowList = []string{}
	}

	return MonitorResponse{
		State:             MonitorStateConnected,
		RequestsPerMinute: snapshot.RequestsPerMinute,
		TotalRequests:     snapshot.TotalRequests,
		RecentLog:         recent,
		FilterWindowDays:  filterWindowDays,
		AllowList:         allowList,
	}
}
