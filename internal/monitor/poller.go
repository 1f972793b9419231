package monitor

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/liquidmon/lmon/internal/alert"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/clock"
	"github.com/liquidmon/lmon/internal/config"
	"github.com/liquidmon/lmon/internal/derive"
	"github.com/liquidmon/lmon/internal/logger"
	"github.com/liquidmon/lmon/internal/scheduler"
	"github.com/liquidmon/lmon/internal/snapcache"
	"golang.org/x/sync/errgroup"
)

// Source is the slice of the monitoring API the loops poll. *api.Client
// satisfies it.
type Source interface {
	Current(ctx context.Context) (*api.HostSnapshot, error)
	Peaks(ctx context.Context) (*api.PeakSet, error)
	History(ctx context.Context, period string) ([]api.HistoryRecord, error)
	Entities(ctx context.Context) ([]api.EntitySample, error)
	Alerts(ctx context.Context, limit int) ([]api.AlertRecord, error)
	ClearAlerts(ctx context.Context) error
}

// Sender delivers loop results to the UI. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Recorder receives domain counters. *telemetry.Metrics satisfies it.
type Recorder interface {
	NotificationEmitted(metric, level string)
	SetEntities(total, running int)
}

// Controller is what the dashboard asks of the loops in response to keys.
type Controller interface {
	ColdStart() tea.Msg
	Refresh()
	SetPeriod(loop, period string)
	SetAlertsOpen(open bool)
	ClearAlerts() tea.Msg
}

// PollerOptions configures a Poller.
type PollerOptions struct {
	ServerURL     string
	Intervals     config.IntervalsConfig
	HistoryPeriod string
	MaxPoints     int
	AlertLimit    int

	Deriver  *derive.Deriver
	Engine   *alert.Engine
	Cache    *snapcache.Cache
	Recorder Recorder
	Clock    clock.Clock
	Logger   logger.Logger
	Location *time.Location
}

// Poller implements the five polling loops. Each loop cycle fetches from
// Source, runs the derivation and alerting engines and sends the result to
// the UI. Nothing here touches the Bubble Tea model directly.
type Poller struct {
	src  Source
	send Sender
	opts PollerOptions

	mu              sync.Mutex
	periods         map[string]string
	alertsOpen      bool
	alertsRequested bool
	sched           *scheduler.Scheduler
}

// NewPoller creates a Poller. Missing engines, clock, logger and location are
// filled with defaults.
func NewPoller(src Source, send Sender, opts PollerOptions) *Poller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Deriver == nil {
		opts.Deriver = derive.NewDeriver(derive.WithClock(opts.Clock), derive.WithLogger(opts.Logger))
	}
	if opts.Engine == nil {
		opts.Engine = alert.NewEngine(alert.WithClock(opts.Clock))
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.HistoryPeriod == "" {
		opts.HistoryPeriod = config.HistoryPeriods[0]
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = DefaultMaxPoints
	}
	if opts.AlertLimit <= 0 {
		opts.AlertLimit = 50
	}

	return &Poller{
		src:  src,
		send: send,
		opts: opts,
		periods: map[string]string{
			LoopHistory:        opts.HistoryPeriod,
			LoopNetworkHistory: opts.HistoryPeriod,
		},
	}
}

// Register adds the five loops to s. Triggers from the dashboard go to s.
func (p *Poller) Register(s *scheduler.Scheduler) error {
	iv := p.opts.Intervals
	loops := []scheduler.Loop{
		{Name: LoopStats, Interval: iv.Stats, Run: p.stats},
		{Name: LoopEntities, Interval: iv.Entities, Run: p.entities},
		{Name: LoopHistory, Interval: iv.History, Run: func(ctx context.Context) error { return p.history(ctx, LoopHistory) }},
		{Name: LoopNetworkHistory, Interval: iv.NetworkHistory, Run: func(ctx context.Context) error { return p.history(ctx, LoopNetworkHistory) }},
		{Name: LoopNotifications, Interval: iv.Notifications, Run: p.notifications},
	}
	for _, l := range loops {
		if err := s.Add(l); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.sched = s
	p.mu.Unlock()
	return nil
}

func (p *Poller) stats(ctx context.Context) error {
	var (
		snap  *api.HostSnapshot
		peaks *api.PeakSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap, err = p.src.Current(gctx)
		return err
	})
	g.Go(func() (err error) {
		peaks, err = p.src.Peaks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return p.fail(LoopStats, err)
	}

	eval := p.opts.Engine.Evaluate(alert.ReadingFrom(snap))
	for _, n := range eval.Notifications {
		p.opts.Logger.Info("notification %s: %s", n.ID, n.Title)
		if p.opts.Recorder != nil {
			p.opts.Recorder.NotificationEmitted(string(n.Metric), string(n.Level))
		}
	}

	p.send.Send(statsMsg{snapshot: snap, peaks: peaks, eval: eval, at: p.opts.Clock.Now()})
	return nil
}

func (p *Poller) entities(ctx context.Context) error {
	list, err := p.src.Entities(ctx)
	if err != nil {
		return p.fail(LoopEntities, err)
	}

	rates := p.opts.Deriver.Apply(list)
	talkers := derive.Rank(rates)
	now := p.opts.Clock.Now()

	if p.opts.Cache != nil {
		if err := p.opts.Cache.Save(p.opts.ServerURL, list, now); err != nil {
			p.opts.Logger.Warn("entity cache not saved: %v", err)
		}
	}
	if p.opts.Recorder != nil {
		p.opts.Recorder.SetEntities(len(rates), RunningCount(rates))
	}

	p.send.Send(entitiesMsg{rates: rates, talkers: talkers, at: now})
	return nil
}

func (p *Poller) history(ctx context.Context, loop string) error {
	period := p.Period(loop)

	records, err := p.src.History(ctx, period)
	if err != nil {
		return p.fail(loop, err)
	}

	series := BuildSeries(records, period, p.opts.MaxPoints, p.opts.Location)
	p.opts.Logger.Debug("%s: %d records, %d shown (%s)", loop, len(records), series.Len(), period)
	p.send.Send(historyMsg{loop: loop, series: series})
	return nil
}

func (p *Poller) notifications(ctx context.Context) error {
	records, err := p.src.Alerts(ctx, p.opts.AlertLimit)
	if err != nil {
		return p.fail(LoopNotifications, err)
	}

	if p.alertsWanted() {
		p.send.Send(alertsMsg{records: records})
	}
	return nil
}

// fail forwards a cycle error to the UI and returns it for the scheduler to log.
func (p *Poller) fail(loop string, err error) error {
	p.send.Send(loopErrorMsg{loop: loop, err: err})
	return err
}

// alertsWanted reports whether the overlay is open or a refresh was asked
// for, consuming the request.
func (p *Poller) alertsWanted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	want := p.alertsOpen || p.alertsRequested
	p.alertsRequested = false
	return want
}

// Period returns the history period the loop currently fetches.
func (p *Poller) Period(loop string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.periods[loop]
}

// ColdStart loads the cached entity list, if any, as an entitiesMsg. Cached
// entities carry server-side speeds only; no rate is derived from them.
func (p *Poller) ColdStart() tea.Msg {
	if p.opts.Cache == nil {
		return nil
	}

	snap, err := p.opts.Cache.Load(p.opts.ServerURL)
	if err != nil {
		p.opts.Logger.Warn("entity cache ignored: %v", err)
		return nil
	}
	if snap == nil {
		return nil
	}

	rates := make([]derive.EntityRate, 0, len(snap.Entities))
	for _, e := range snap.Entities {
		r := derive.EntityRate{Entity: e}
		if e.NetRxSpeed != nil && *e.NetRxSpeed > 0 {
			r.Rx = *e.NetRxSpeed
		}
		if e.NetTxSpeed != nil && *e.NetTxSpeed > 0 {
			r.Tx = *e.NetTxSpeed
		}
		rates = append(rates, r)
	}

	p.opts.Logger.Debug("cold start: %d cached entities from %s", len(rates), snap.SavedAt.Format(time.RFC3339))
	return entitiesMsg{rates: rates, talkers: derive.Rank(rates), at: snap.SavedAt, cached: true}
}

// Refresh runs every loop now and asks for the alert log.
func (p *Poller) Refresh() {
	p.mu.Lock()
	p.alertsRequested = true
	p.mu.Unlock()

	for _, loop := range Loops {
		p.trigger(loop)
	}
}

// SetPeriod switches a history loop to period and refetches it. Unknown
// loops and unchanged periods are ignored.
func (p *Poller) SetPeriod(loop, period string) {
	p.mu.Lock()
	cur, ok := p.periods[loop]
	if !ok || cur == period {
		p.mu.Unlock()
		return
	}
	p.periods[loop] = period
	p.mu.Unlock()

	p.trigger(loop)
}

// SetAlertsOpen records whether the alerts overlay is visible. Opening it
// fetches the log immediately.
func (p *Poller) SetAlertsOpen(open bool) {
	p.mu.Lock()
	p.alertsOpen = open
	if open {
		p.alertsRequested = true
	}
	p.mu.Unlock()

	if open {
		p.trigger(LoopNotifications)
	}
}

// ClearAlerts clears the server-side alert log and refetches it. It blocks
// for at most one request timeout and is meant to run inside a tea.Cmd.
func (p *Poller) ClearAlerts() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 2*config.DefaultRequestTimeout)
	defer cancel()

	if err := p.src.ClearAlerts(ctx); err != nil {
		p.opts.Logger.Warn("clear alerts: %v", err)
		return alertsClearedMsg{err: err}
	}

	p.mu.Lock()
	p.alertsRequested = true
	p.mu.Unlock()
	p.trigger(LoopNotifications)
	return alertsClearedMsg{}
}

func (p *Poller) trigger(loop string) {
	p.mu.Lock()
	s := p.sched
	p.mu.Unlock()
	if s != nil {
		s.Trigger(loop)
	}
}
