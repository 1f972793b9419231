package api

// Level is the severity carried by alert records and the derived status.
type Level string

const (
	LevelNormal   Level = "normal"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// HostSnapshot is one poll of /api/stats/current. It is superseded wholesale
// by the next poll.
type HostSnapshot struct {
	CPUUsage float64 `json:"cpu_usage"`
	RAMUsage float64 `json:"ram_usage"`

	// CPUTemp is nil on hosts without a temperature sensor.
	CPUTemp *float64 `json:"cpu_temp"`

	DiskUsage   float64 `json:"disk_usage"`
	DiskUsedGB  float64 `json:"disk_used_gb"`
	DiskFreeGB  float64 `json:"disk_free_gb"`
	DiskTotalGB float64 `json:"disk_total_gb"`

	// Server-computed host rates in KB/s.
	NetRecvSpeed float64 `json:"net_recv_speed"`
	NetSentSpeed float64 `json:"net_sent_speed"`

	Processes int `json:"processes"`

	// Uptime in seconds.
	Uptime float64 `json:"uptime"`
}

// Peak is a historical extreme reported by the server.
type Peak struct {
	Value     float64   `json:"value"`
	Timestamp Timestamp `json:"timestamp"`
}

// PeakSet is the /api/stats/peaks payload. Every field is optional.
type PeakSet struct {
	CPU     *Peak `json:"cpu_peak"`
	RAM     *Peak `json:"ram_peak"`
	Temp    *Peak `json:"temp_peak"`
	NetDown *Peak `json:"net_down_peak"`
	NetUp   *Peak `json:"net_up_peak"`

	// Sums of per-sample KB/s speeds over the last 24h. Multiply by the
	// server's sampling interval to get a volume.
	NetTotalDown *float64 `json:"net_total_down"`
	NetTotalUp   *float64 `json:"net_total_up"`
}

// EntitySample is one container observation from /api/containers.
type EntitySample struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`

	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsage   uint64  `json:"memory_usage"`
	MemoryLimit   uint64  `json:"memory_limit"`

	// Cumulative byte counters, non-decreasing while the container lives.
	NetRx uint64 `json:"net_rx"`
	NetTx uint64 `json:"net_tx"`

	// Server-side rates in B/s, used when no rate can be derived locally.
	// Nil when the server omitted them or sent something non-numeric.
	NetRxSpeed *float64 `json:"net_rx_speed,omitempty"`
	NetTxSpeed *float64 `json:"net_tx_speed,omitempty"`
}

// Running reports whether the container is in the running state.
func (e EntitySample) Running() bool {
	return e.State == "running"
}

// HistoryRecord is one element of the /api/history series.
type HistoryRecord struct {
	Timestamp    Timestamp `json:"timestamp"`
	CPUUsage     float64   `json:"cpu_usage"`
	RAMUsage     float64   `json:"ram_usage"`
	CPUTemp      *float64  `json:"cpu_temp"`
	DiskUsage    float64   `json:"disk_usage"`
	NetRecvSpeed float64   `json:"net_recv_speed"`
	NetSentSpeed float64   `json:"net_sent_speed"`
}

// AlertRecord is one entry of the server-side alert log.
type AlertRecord struct {
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	Timestamp Timestamp `json:"timestamp"`
}
