package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/liquidmon/lmon/internal/errors"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// UnmarshalJSON decodes a container observation leniently: counters that
// arrive as floats are truncated, and the optional server speeds are kept
// only when they are numeric (numbers or numeric strings).
func (e *EntitySample) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid entity JSON")
	}
	r := gjson.ParseBytes(data)
	if !r.IsObject() {
		return fmt.Errorf("entity is %s, want object", r.Type)
	}

	*e = EntitySample{
		ID:            r.Get("id").String(),
		Name:          r.Get("name").String(),
		State:         r.Get("state").String(),
		CPUPercent:    r.Get("cpu_percent").Float(),
		MemoryPercent: r.Get("memory_percent").Float(),
		MemoryUsage:   counter(r.Get("memory_usage")),
		MemoryLimit:   counter(r.Get("memory_limit")),
		NetRx:         counter(r.Get("net_rx")),
		NetTx:         counter(r.Get("net_tx")),
		NetRxSpeed:    lenientFloat(r.Get("net_rx_speed")),
		NetTxSpeed:    lenientFloat(r.Get("net_tx_speed")),
	}
	return nil
}

// counter reads a non-negative byte counter. Negative or missing values read as 0.
func counter(r gjson.Result) uint64 {
	if r.Type != gjson.Number || r.Num <= 0 {
		if r.Type == gjson.String {
			if v, err := cast.ToUint64E(r.Str); err == nil {
				return v
			}
		}
		return 0
	}
	return r.Uint()
}

// lenientFloat returns nil for missing, null and non-numeric values.
func lenientFloat(r gjson.Result) *float64 {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if r.IsObject() || r.IsArray() {
		return nil
	}
	v, err := cast.ToFloat64E(r.Value())
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// decodeSnapshot validates and decodes a /api/stats/current body. Only
// cpu_usage is required; every other field degrades to zero (or nil for
// cpu_temp) when it is missing or malformed.
func decodeSnapshot(body []byte) (*HostSnapshot, error) {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, errors.New(errors.ErrDecode,
			"Stats payload is not a JSON object",
			"Check that server_url points at the metrics API, not a web page")
	}
	if !gjson.GetBytes(body, "cpu_usage").Exists() {
		return nil, errors.New(errors.ErrDecode,
			"Stats payload has no cpu_usage field",
			"Check that server_url points at the metrics API")
	}

	r := gjson.ParseBytes(body)
	cpu := lenientFloat(r.Get("cpu_usage"))
	if cpu == nil {
		return nil, errors.New(errors.ErrDecode,
			fmt.Sprintf("Stats payload has a non-numeric cpu_usage: %s", r.Get("cpu_usage").Raw),
			"Check that server_url points at the metrics API")
	}

	return &HostSnapshot{
		CPUUsage:     *cpu,
		RAMUsage:     number(r.Get("ram_usage")),
		CPUTemp:      lenientFloat(r.Get("cpu_temp")),
		DiskUsage:    number(r.Get("disk_usage")),
		DiskUsedGB:   number(r.Get("disk_used_gb")),
		DiskFreeGB:   number(r.Get("disk_free_gb")),
		DiskTotalGB:  number(r.Get("disk_total_gb")),
		NetRecvSpeed: number(r.Get("net_recv_speed")),
		NetSentSpeed: number(r.Get("net_sent_speed")),
		Processes:    int(number(r.Get("processes"))),
		Uptime:       number(r.Get("uptime")),
	}, nil
}

// number reads an optional numeric field. Missing or malformed values read as 0.
func number(r gjson.Result) float64 {
	if v := lenientFloat(r); v != nil {
		return *v
	}
	return 0
}

// decodeList decodes a JSON array body into out. what names the payload in errors.
func decodeList(body []byte, what string, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if !gjson.ValidBytes(trimmed) || !gjson.ParseBytes(trimmed).IsArray() {
		return errors.New(errors.ErrDecode,
			fmt.Sprintf("%s payload is not a JSON array", what),
			"Check that server_url points at the metrics API")
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode, fmt.Sprintf("Malformed %s payload", what), "")
	}
	return nil
}

// decodeObject decodes a JSON object body into out.
func decodeObject(body []byte, what string, out interface{}) error {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return errors.New(errors.ErrDecode,
			fmt.Sprintf("%s payload is not a JSON object", what),
			"Check that server_url points at the metrics API")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode, fmt.Sprintf("Malformed %s payload", what), "")
	}
	return nil
}

// looksLikeHTML detects login pages served by auth proxies in front of the API.
func looksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return false
	}
	head := bytes.ToLower(trimmed[:min(len(trimmed), 64)])
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
