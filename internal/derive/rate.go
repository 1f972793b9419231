// Package derive turns cumulative container network counters into rates and
// picks the busiest containers from them.
package derive

import (
	"sync"
	"time"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/clock"
	"github.com/liquidmon/lmon/internal/logger"
)

// MaxGap is the longest interval between two samples of the same entity that
// still yields a rate. Longer gaps (suspended laptop, stalled server) reset the
// baseline instead.
const MaxGap = 10 * time.Second

// Rates holds instantaneous rates in bytes per second.
type Rates struct {
	Rx float64
	Tx float64
}

type sample struct {
	at time.Time
	rx uint64
	tx uint64
}

// Deriver remembers the previous counter reading per entity id. Entries are
// never evicted; ids that disappear simply stop being read.
type Deriver struct {
	mu      sync.Mutex
	history map[string]sample
	clock   clock.Clock
	log     logger.Logger
}

// DeriverOption configures a Deriver.
type DeriverOption func(*Deriver)

// WithClock sets the clock Apply reads the snapshot time from.
func WithClock(c clock.Clock) DeriverOption {
	return func(d *Deriver) { d.clock = c }
}

// WithLogger sets the logger for clamp diagnostics.
func WithLogger(l logger.Logger) DeriverOption {
	return func(d *Deriver) { d.log = l }
}

// NewDeriver creates an empty Deriver.
func NewDeriver(opts ...DeriverOption) *Deriver {
	d := &Deriver{
		history: make(map[string]sample),
		clock:   clock.Real(),
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive computes rx/tx rates for id from cumulative counters observed at now.
// The first observation of an id, a non-positive or too-long gap, and a counter
// that went backwards all produce 0 for the affected direction. The stored
// baseline is replaced on every call.
func (d *Deriver) Derive(id string, rx, tx uint64, now time.Time) Rates {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, seen := d.history[id]
	d.history[id] = sample{at: now, rx: rx, tx: tx}

	if !seen {
		return Rates{}
	}

	dt := now.Sub(prev.at).Seconds()
	if dt <= 0 || dt >= MaxGap.Seconds() {
		d.log.Debug("entity %s: sample gap %.3fs outside (0, %s), rate reset", id, dt, MaxGap)
		return Rates{}
	}

	return Rates{
		Rx: d.rate(id, "rx", prev.rx, rx, dt),
		Tx: d.rate(id, "tx", prev.tx, tx, dt),
	}
}

func (d *Deriver) rate(id, dir string, prev, cur uint64, dt float64) float64 {
	if cur < prev {
		d.log.Debug("entity %s: %s counter went backwards (%d -> %d), clamped to 0", id, dir, prev, cur)
		return 0
	}
	return float64(cur-prev) / dt
}

// Len returns how many entity baselines are stored.
func (d *Deriver) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.history)
}

// EntityRate pairs a container with the rate shown for it this cycle.
type EntityRate struct {
	Entity api.EntitySample

	// Rx and Tx are in bytes per second.
	Rx float64
	Tx float64

	// Derived reports whether each rate came from local counters rather than
	// the server-side fallback.
	RxDerived bool
	TxDerived bool
}

// Apply derives rates for a whole snapshot, stamped with a single clock read.
// When a derived rate is 0, the server-reported speed is used instead if the
// server sent one.
func (d *Deriver) Apply(entities []api.EntitySample) []EntityRate {
	now := d.clock.Now()
	out := make([]EntityRate, 0, len(entities))

	for _, e := range entities {
		r := d.Derive(e.ID, e.NetRx, e.NetTx, now)
		er := EntityRate{Entity: e, Rx: r.Rx, Tx: r.Tx, RxDerived: r.Rx > 0, TxDerived: r.Tx > 0}

		if er.Rx == 0 && e.NetRxSpeed != nil && *e.NetRxSpeed > 0 {
			er.Rx = *e.NetRxSpeed
		}
		if er.Tx == 0 && e.NetTxSpeed != nil && *e.NetTxSpeed > 0 {
			er.Tx = *e.NetTxSpeed
		}

		out = append(out, er)
	}

	return out
}
