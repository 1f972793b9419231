package monitor

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/liquidmon/lmon/internal/api"
)

// fakeSource serves canned API responses. Entities returns the next list of
// entityLists on each call and repeats the last one.
type fakeSource struct {
	mu sync.Mutex

	snapshot    *api.HostSnapshot
	peaks       *api.PeakSet
	history     []api.HistoryRecord
	entityLists [][]api.EntitySample
	alerts      []api.AlertRecord

	currentErr  error
	peaksErr    error
	historyErr  error
	entitiesErr error
	alertsErr   error
	clearErr    error

	historyPeriods []string
	alertLimits    []int
	entityCalls    int
	clearCalls     int
}

func (f *fakeSource) Current(ctx context.Context) (*api.HostSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot, f.currentErr
}

func (f *fakeSource) Peaks(ctx context.Context) (*api.PeakSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peaks, f.peaksErr
}

func (f *fakeSource) History(ctx context.Context, period string) ([]api.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyPeriods = append(f.historyPeriods, period)
	return f.history, f.historyErr
}

func (f *fakeSource) Entities(ctx context.Context) ([]api.EntitySample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entitiesErr != nil {
		return nil, f.entitiesErr
	}
	i := f.entityCalls
	if i >= len(f.entityLists) {
		i = len(f.entityLists) - 1
	}
	f.entityCalls++
	if i < 0 {
		return nil, nil
	}
	return f.entityLists[i], nil
}

func (f *fakeSource) Alerts(ctx context.Context, limit int) ([]api.AlertRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alertLimits = append(f.alertLimits, limit)
	return f.alerts, f.alertsErr
}

func (f *fakeSource) ClearAlerts(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if f.clearErr == nil {
		f.alerts = nil
	}
	return f.clearErr
}

// fakeSender records every message a loop sends.
type fakeSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *fakeSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *fakeSender) all() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tea.Msg(nil), s.msgs...)
}

func (s *fakeSender) last() tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		return nil
	}
	return s.msgs[len(s.msgs)-1]
}

// fakeRecorder records domain counters.
type fakeRecorder struct {
	mu            sync.Mutex
	notifications []string
	total         int
	running       int
}

func (r *fakeRecorder) NotificationEmitted(metric, level string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, metric+"/"+level)
}

func (r *fakeRecorder) SetEntities(total, running int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total, r.running = total, running
}

// fakeController records what the dashboard asked of the loops.
type fakeController struct {
	coldStart  tea.Msg
	refreshes  int
	periods    map[string]string
	alertsOpen []bool
	clears     int
}

func newFakeController() *fakeController {
	return &fakeController{periods: make(map[string]string)}
}

func (c *fakeController) ColdStart() tea.Msg { return c.coldStart }
func (c *fakeController) Refresh()           { c.refreshes++ }

func (c *fakeController) SetPeriod(loop, period string) {
	c.periods[loop] = period
}

func (c *fakeController) SetAlertsOpen(open bool) {
	c.alertsOpen = append(c.alertsOpen, open)
}

func (c *fakeController) ClearAlerts() tea.Msg {
	c.clears++
	return alertsClearedMsg{}
}

func ptr(v float64) *float64 { return &v }
