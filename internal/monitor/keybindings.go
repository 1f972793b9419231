package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/liquidmon/lmon/internal/config"
)

// Key bindings as constants for consistency.
const (
	KeyQuit          = "q"
	KeyQuitAlt       = "ctrl+c"
	KeyRefresh       = "r"
	KeyToggleAlerts  = "a"
	KeyClearAlerts   = "x"
	KeyHistoryPeriod = "p"
	KeyNetworkPeriod = "n"
	KeyClose         = "esc"
	KeyToggleHelp    = "?"
)

// sortKeys maps the number keys to table columns.
var sortKeys = map[string]SortColumn{
	"1": sortColumns[0],
	"2": sortColumns[1],
	"3": sortColumns[2],
	"4": sortColumns[3],
	"5": sortColumns[4],
	"6": sortColumns[5],
	"7": sortColumns[6],
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise. Unhandled keys go to
// the entity table for row navigation.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if key == KeyClose {
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.showAlerts:
			m.setAlertsOpen(false)
		}
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		m.ctrl.Refresh()
		return true, nil

	case KeyToggleAlerts:
		m.setAlertsOpen(!m.showAlerts)
		return true, nil

	case KeyClearAlerts:
		if !m.showAlerts {
			return false, nil
		}
		return true, m.ctrl.ClearAlerts

	case KeyHistoryPeriod:
		m.historyPeriod = config.NextHistoryPeriod(m.historyPeriod)
		m.ctrl.SetPeriod(LoopHistory, m.historyPeriod)
		return true, nil

	case KeyNetworkPeriod:
		m.netPeriod = config.NextHistoryPeriod(m.netPeriod)
		m.ctrl.SetPeriod(LoopNetworkHistory, m.netPeriod)
		return true, nil
	}

	if col, ok := sortKeys[key]; ok {
		m.sort = m.sort.Select(col)
		m.refreshTable()
		return true, nil
	}

	return false, nil
}

func (m *Model) setAlertsOpen(open bool) {
	m.showAlerts = open
	if !open {
		m.alertsErr = ""
	}
	m.ctrl.SetAlertsOpen(open)
}
