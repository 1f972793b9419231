package monitor

import (
	"math"
	"time"

	"github.com/liquidmon/lmon/internal/api"
)

// DefaultHistorySize is the number of live samples kept for card sparklines.
const DefaultHistorySize = 60

// DefaultMaxPoints caps the number of history records drawn per chart.
const DefaultMaxPoints = 500

// Live keeps the most recent host samples from the stats loop for the
// card sparklines. It is owned by the Bubble Tea model and not shared.
type Live struct {
	size    int
	cpu     *ringBuffer
	ram     *ringBuffer
	netDown *ringBuffer
	netUp   *ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewLive creates a live sample buffer holding size samples per metric.
func NewLive(size int) *Live {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &Live{
		size:    size,
		cpu:     newRingBuffer(size),
		ram:     newRingBuffer(size),
		netDown: newRingBuffer(size),
		netUp:   newRingBuffer(size),
	}
}

// Push records one host snapshot.
func (l *Live) Push(s *api.HostSnapshot) {
	if s == nil {
		return
	}
	l.cpu.push(s.CPUUsage)
	l.ram.push(s.RAMUsage)
	l.netDown.push(s.NetRecvSpeed)
	l.netUp.push(s.NetSentSpeed)
}

// Count returns how many samples are stored.
func (l *Live) Count() int {
	return l.cpu.count
}

// CPU returns up to count CPU samples, oldest first.
func (l *Live) CPU(count int) []float64 { return l.cpu.getLast(count) }

// RAM returns up to count RAM samples, oldest first.
func (l *Live) RAM(count int) []float64 { return l.ram.getLast(count) }

// Net returns up to count download and upload samples in KB/s, oldest first.
func (l *Live) Net(count int) (down, up []float64) {
	return l.netDown.getLast(count), l.netUp.getLast(count)
}

// newRingBuffer creates a new ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// push adds a value to the ring buffer.
func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head is the next write position; the newest value sits at head-1
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}

// Downsample keeps every step-th record, step = ceil(len/maxPoints), when
// there are more than maxPoints records. Shorter input is returned as is.
func Downsample(records []api.HistoryRecord, maxPoints int) []api.HistoryRecord {
	if maxPoints <= 0 || len(records) <= maxPoints {
		return records
	}

	step := int(math.Ceil(float64(len(records)) / float64(maxPoints)))
	out := make([]api.HistoryRecord, 0, len(records)/step+1)
	for i, r := range records {
		if i%step == 0 {
			out = append(out, r)
		}
	}
	return out
}

// ChartLabel formats a record time for the chart axis: "15:04" for the 24h
// period, "Jan 2 15:04" for longer ones, "-" for an unknown time.
func ChartLabel(t time.Time, period string, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	t = t.In(loc)
	if period == "24h" {
		return t.Format("15:04")
	}
	return t.Format("Jan 2 15:04")
}

// Series is a chart-ready view of a history response.
type Series struct {
	Period string
	Labels []string

	CPU  []float64
	RAM  []float64
	Temp []float64 // 0 where the record has no temperature

	// Download and upload in MB/s.
	Down []float64
	Up   []float64
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.Labels)
}

// HasTemp reports whether any point carries a temperature.
func (s Series) HasTemp() bool {
	for _, t := range s.Temp {
		if t != 0 {
			return true
		}
	}
	return false
}

// BuildSeries downsamples records and extracts every chart field.
func BuildSeries(records []api.HistoryRecord, period string, maxPoints int, loc *time.Location) Series {
	shown := Downsample(records, maxPoints)
	s := Series{
		Period: period,
		Labels: make([]string, len(shown)),
		CPU:    make([]float64, len(shown)),
		RAM:    make([]float64, len(shown)),
		Temp:   make([]float64, len(shown)),
		Down:   make([]float64, len(shown)),
		Up:     make([]float64, len(shown)),
	}

	for i, r := range shown {
		s.Labels[i] = ChartLabel(r.Timestamp.Time, period, loc)
		s.CPU[i] = r.CPUUsage
		s.RAM[i] = r.RAMUsage
		if r.CPUTemp != nil {
			s.Temp[i] = *r.CPUTemp
		}
		s.Down[i] = r.NetRecvSpeed / 1024
		s.Up[i] = r.NetSentSpeed / 1024
	}
	return s
}
