package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/liquidmon/lmon/internal/alert"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/config"
	"github.com/liquidmon/lmon/internal/derive"
	lmerrors "github.com/liquidmon/lmon/internal/errors"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutStacked is for terminals < 100 columns: one panel per row
	LayoutStacked LayoutMode = iota
	// LayoutSplit is for terminals 100+ columns: host card and peaks side by side
	LayoutSplit
)

// Width breakpoint for the split layout
const BreakpointSplit = 100

// Toast limits
const (
	DefaultToastTTL = 5 * time.Second
	MaxToasts       = 3
)

// defaultWidth is used until the first WindowSizeMsg arrives.
const defaultWidth = 100

// Options configures a Model.
type Options struct {
	ServerURL     string
	HistoryPeriod string
	Location      *time.Location
	ToastTTL      time.Duration

	// Now is the clock used for "updated Xs ago". Defaults to time.Now.
	Now func() time.Time
}

// Model is the Bubble Tea model for the monitoring dashboard. It only holds
// what the polling loops sent; all fetching happens behind Controller.
type Model struct {
	ctrl      Controller
	serverURL string
	loc       *time.Location
	toastTTL  time.Duration
	now       func() time.Time

	width    int
	height   int
	quitting bool

	showHelp   bool
	showAlerts bool

	// Host stats
	snapshot  *api.HostSnapshot
	peaks     *api.PeakSet
	status    alert.Status
	live      *Live
	lastStats time.Time

	// Entities
	rates          []derive.EntityRate
	talkers        derive.TopTalkers
	sort           SortState
	entitiesLive   bool // a fetched list has replaced the cached one
	entitiesCached bool
	lastEntities   time.Time
	table          table.Model

	// Charts
	history       Series
	netHistory    Series
	historyPeriod string
	netPeriod     string

	// Alerts overlay
	alerts       []api.AlertRecord
	alertsLoaded bool
	alertsErr    string

	toasts []alert.Notification

	authRequired bool
	lastErr      map[string]string // last failure per loop, cleared on success

	spinner spinner.Model
}

// NewModel creates a dashboard model driven by ctrl.
func NewModel(ctrl Controller, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ToastTTL <= 0 {
		opts.ToastTTL = DefaultToastTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if !config.IsHistoryPeriod(opts.HistoryPeriod) {
		opts.HistoryPeriod = config.HistoryPeriods[0]
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: ConnectingSpinnerFrames, FPS: 150 * time.Millisecond}),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent)),
	)

	m := Model{
		ctrl:          ctrl,
		serverURL:     opts.ServerURL,
		loc:           opts.Location,
		toastTTL:      opts.ToastTTL,
		now:           opts.Now,
		status:        alert.Status{Level: api.LevelNormal, Message: alert.NormalMessage},
		live:          NewLive(DefaultHistorySize),
		sort:          DefaultSort(),
		historyPeriod: opts.HistoryPeriod,
		netPeriod:     opts.HistoryPeriod,
		lastErr:       make(map[string]string),
		spinner:       sp,
	}
	m.table = newEntityTable(defaultWidth)
	m.refreshTable()
	return m
}

// Init renders the cached entity list, if any, and starts the connecting
// spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.ColdStart, m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTable()

	case spinner.TickMsg:
		// The spinner only animates until the first stats cycle lands.
		if m.snapshot != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statsMsg:
		return m, m.applyStats(msg)

	case entitiesMsg:
		m.applyEntities(msg)

	case historyMsg:
		switch msg.loop {
		case LoopHistory:
			m.history = msg.series
		case LoopNetworkHistory:
			m.netHistory = msg.series
		}
		m.clearError(msg.loop)

	case alertsMsg:
		m.alerts = msg.records
		m.alertsLoaded = true
		m.alertsErr = ""
		m.clearError(LoopNotifications)

	case alertsClearedMsg:
		if msg.err != nil {
			m.alertsErr = lmerrors.Short(msg.err)
		} else {
			m.alertsErr = ""
		}

	case loopErrorMsg:
		if lmerrors.IsAuth(msg.err) {
			m.authRequired = true
		}
		m.lastErr[msg.loop] = lmerrors.Short(msg.err)

	case toastExpiredMsg:
		m.dismissToast(msg.id)
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// applyStats stores a stats cycle and raises toasts for its notifications.
func (m *Model) applyStats(msg statsMsg) tea.Cmd {
	m.snapshot = msg.snapshot
	m.peaks = msg.peaks
	m.status = msg.eval.Status
	m.lastStats = msg.at
	m.live.Push(msg.snapshot)
	m.authRequired = false
	m.clearError(LoopStats)

	var cmds []tea.Cmd
	for _, n := range msg.eval.Notifications {
		m.toasts = append(m.toasts, n)
		cmds = append(cmds, m.expireToast(n.ID))
	}
	if len(m.toasts) > MaxToasts {
		m.toasts = m.toasts[len(m.toasts)-MaxToasts:]
	}
	return tea.Batch(cmds...)
}

// applyEntities stores an entity cycle. A cached list never replaces a
// fetched one.
func (m *Model) applyEntities(msg entitiesMsg) {
	if msg.cached && m.entitiesLive {
		return
	}
	if !msg.cached {
		m.entitiesLive = true
		m.authRequired = false
		m.clearError(LoopEntities)
	}

	m.rates = append([]derive.EntityRate(nil), msg.rates...)
	m.talkers = msg.talkers
	m.entitiesCached = msg.cached
	m.lastEntities = msg.at
	m.refreshTable()
}

func (m *Model) expireToast(id string) tea.Cmd {
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) dismissToast(id string) {
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m *Model) clearError(loop string) {
	delete(m.lastErr, loop)
}

// refreshTable re-sorts the entity list and rebuilds the table rows.
func (m *Model) refreshTable() {
	SortEntities(m.rates, m.sort)
	m.table.SetColumns(entityColumns(m.contentWidth(), m.sort))
	m.table.SetRows(entityRows(m.rates))
	// An empty table parks the cursor at -1; select the first row once rows arrive.
	if m.table.Cursor() < 0 && len(m.rates) > 0 {
		m.table.SetCursor(0)
	}
}

func (m *Model) resizeTable() {
	m.table.SetColumns(entityColumns(m.contentWidth(), m.sort))
	m.table.SetWidth(m.contentWidth())
	m.table.SetHeight(m.tableHeight())
}

// RunningCount returns the number of running containers on screen.
func (m Model) RunningCount() int {
	return RunningCount(m.rates)
}

// Status returns the current overall status.
func (m Model) Status() alert.Status {
	return m.status
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// stats cycle.
func (m Model) SecondsSinceUpdate() int {
	if m.lastStats.IsZero() {
		return 0
	}
	d := m.now().Sub(m.lastStats)
	if d < 0 {
		return 0
	}
	return int(d.Seconds())
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	if m.contentWidth() >= BreakpointSplit {
		return LayoutSplit
	}
	return LayoutStacked
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// tableHeight leaves the rest of the screen to cards and charts.
func (m Model) tableHeight() int {
	h := m.height / 3
	if h < 5 {
		return 5
	}
	return h
}
