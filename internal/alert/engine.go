// Package alert classifies host metrics against fixed bands. It produces two
// independent outputs per evaluation: cooldown-gated notifications and an
// ungated overall status.
package alert

import (
	"fmt"
	"sync"
	"time"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/clock"
	"github.com/rs/xid"
)

// DefaultCooldown is the minimum interval between two notifications for the
// same metric.
const DefaultCooldown = 5 * time.Minute

// Metric identifies an alerting metric.
type Metric string

const (
	MetricCPU  Metric = "cpu"
	MetricRAM  Metric = "ram"
	MetricTemp Metric = "temp"
	MetricDisk Metric = "disk"
)

// Label is the display name of the metric.
func (m Metric) Label() string {
	switch m {
	case MetricCPU:
		return "CPU"
	case MetricRAM:
		return "RAM"
	case MetricTemp:
		return "Temperature"
	case MetricDisk:
		return "Disk"
	default:
		return string(m)
	}
}

// Band holds the inclusive lower bounds of the warning and critical ranges.
type Band struct {
	Warning  float64
	Critical float64
}

var (
	// PercentBand applies to cpu, ram and disk usage.
	PercentBand = Band{Warning: 80, Critical: 90}
	// TempBand applies to CPU temperature in °C.
	TempBand = Band{Warning: 75, Critical: 85}
)

// BandFor returns the thresholds for m.
func BandFor(m Metric) Band {
	if m == MetricTemp {
		return TempBand
	}
	return PercentBand
}

// Classify maps a value to its severity level.
func Classify(m Metric, v float64) api.Level {
	b := BandFor(m)
	switch {
	case v >= b.Critical:
		return api.LevelCritical
	case v >= b.Warning:
		return api.LevelWarning
	default:
		return api.LevelNormal
	}
}

// Reading is the subset of a host snapshot the engine evaluates. A zero
// value means absent; Temp is nil on hosts without a sensor.
type Reading struct {
	CPU  float64
	RAM  float64
	Temp *float64
	Disk float64
}

// ReadingFrom extracts a Reading from a snapshot.
func ReadingFrom(s *api.HostSnapshot) Reading {
	if s == nil {
		return Reading{}
	}
	return Reading{CPU: s.CPUUsage, RAM: s.RAMUsage, Temp: s.CPUTemp, Disk: s.DiskUsage}
}

type metricValue struct {
	metric Metric
	value  float64
}

// ordered returns present metrics in evaluation order: cpu, ram, temp, disk.
func (r Reading) ordered() []metricValue {
	out := make([]metricValue, 0, 4)
	if r.CPU != 0 {
		out = append(out, metricValue{MetricCPU, r.CPU})
	}
	if r.RAM != 0 {
		out = append(out, metricValue{MetricRAM, r.RAM})
	}
	if r.Temp != nil && *r.Temp != 0 {
		out = append(out, metricValue{MetricTemp, *r.Temp})
	}
	if r.Disk != 0 {
		out = append(out, metricValue{MetricDisk, r.Disk})
	}
	return out
}

// Notification is a transient alert raised by the engine.
type Notification struct {
	ID      string
	Metric  Metric
	Level   api.Level
	Value   float64
	Title   string
	Message string
	At      time.Time
}

// Evaluation is the result of one Evaluate call.
type Evaluation struct {
	Status        Status
	Notifications []Notification
}

// Engine owns the per-metric last-notified timestamps. The map is only
// reset by creating a new Engine.
type Engine struct {
	mu           sync.Mutex
	lastNotified map[Metric]time.Time
	cooldown     time.Duration
	clock        clock.Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithCooldown overrides DefaultCooldown.
func WithCooldown(d time.Duration) Option {
	return func(e *Engine) { e.cooldown = d }
}

// WithClock sets the clock used to stamp and gate notifications.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// NewEngine creates an Engine with no notification history.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		lastNotified: make(map[Metric]time.Time),
		cooldown:     DefaultCooldown,
		clock:        clock.Real(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate classifies r, emits at most one notification per metric outside
// its cooldown window, and recomputes the overall status.
func (e *Engine) Evaluate(r Reading) Evaluation {
	now := e.clock.Now()

	e.mu.Lock()
	var notes []Notification
	for _, mv := range r.ordered() {
		level := Classify(mv.metric, mv.value)
		if level == api.LevelNormal {
			continue
		}
		if last, ok := e.lastNotified[mv.metric]; ok && now.Sub(last) < e.cooldown {
			continue
		}
		e.lastNotified[mv.metric] = now
		notes = append(notes, newNotification(mv.metric, level, mv.value, now))
	}
	e.mu.Unlock()

	return Evaluation{Status: Combine(r), Notifications: notes}
}

// LastNotified returns when m last produced a notification.
func (e *Engine) LastNotified(m Metric) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.lastNotified[m]
	return t, ok
}

func newNotification(m Metric, level api.Level, v float64, at time.Time) Notification {
	n := Notification{
		ID:     xid.NewWithTime(at).String(),
		Metric: m,
		Level:  level,
		Value:  v,
		At:     at,
	}

	if m == MetricTemp {
		if level == api.LevelCritical {
			n.Title = "High temperature!"
			n.Message = fmt.Sprintf("CPU is running hot at %.1f°C.", v)
		} else {
			n.Title = "Temperature rising"
			n.Message = fmt.Sprintf("CPU temperature is %.1f°C.", v)
		}
		return n
	}

	if level == api.LevelCritical {
		n.Title = fmt.Sprintf("%s critical!", m.Label())
		n.Message = fmt.Sprintf("%s usage reached a critical %.1f%%.", m.Label(), v)
	} else {
		n.Title = fmt.Sprintf("%s warning", m.Label())
		n.Message = fmt.Sprintf("%s usage is elevated at %.1f%%.", m.Label(), v)
	}
	return n
}
