package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/derive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestHandleKeyMsg_Quit(t *testing.T) {
	for _, key := range []string{KeyQuit, KeyQuitAlt} {
		t.Run(key, func(t *testing.T) {
			m := newTestModel(newFakeController())
			handled, cmd := m.HandleKeyMsg(keyMsg(key))
			assert.True(t, handled)
			assert.True(t, m.quitting)
			require.NotNil(t, cmd)
		})
	}
}

func TestHandleKeyMsg_Help(t *testing.T) {
	m := newTestModel(newFakeController())

	m.HandleKeyMsg(keyMsg(KeyToggleHelp))
	assert.True(t, m.showHelp)

	m.HandleKeyMsg(keyMsg(KeyClose))
	assert.False(t, m.showHelp)
}

func TestHandleKeyMsg_Refresh(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl)

	handled, _ := m.HandleKeyMsg(keyMsg(KeyRefresh))
	assert.True(t, handled)
	assert.Equal(t, 1, ctrl.refreshes)
}

func TestHandleKeyMsg_AlertsOverlay(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl)

	handled, _ := m.HandleKeyMsg(keyMsg(KeyClearAlerts))
	assert.False(t, handled, "x does nothing while the overlay is closed")
	assert.Equal(t, 0, ctrl.clears)

	m.HandleKeyMsg(keyMsg(KeyToggleAlerts))
	assert.True(t, m.showAlerts)

	handled, cmd := m.HandleKeyMsg(keyMsg(KeyClearAlerts))
	assert.True(t, handled)
	require.NotNil(t, cmd)
	assert.Equal(t, alertsClearedMsg{}, cmd())
	assert.Equal(t, 1, ctrl.clears)

	m.HandleKeyMsg(keyMsg(KeyClose))
	assert.False(t, m.showAlerts)

	m.HandleKeyMsg(keyMsg(KeyToggleAlerts))
	m.HandleKeyMsg(keyMsg(KeyToggleAlerts))
	assert.Equal(t, []bool{true, false, true, false}, ctrl.alertsOpen)
}

func TestHandleKeyMsg_HelpClosesBeforeAlerts(t *testing.T) {
	m := newTestModel(newFakeController())
	m.HandleKeyMsg(keyMsg(KeyToggleAlerts))
	m.HandleKeyMsg(keyMsg(KeyToggleHelp))

	m.HandleKeyMsg(keyMsg(KeyClose))
	assert.False(t, m.showHelp)
	assert.True(t, m.showAlerts)
}

func TestHandleKeyMsg_Periods(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl)

	m.HandleKeyMsg(keyMsg(KeyHistoryPeriod))
	assert.Equal(t, "7d", m.historyPeriod)
	assert.Equal(t, "7d", ctrl.periods[LoopHistory])
	assert.Equal(t, "24h", m.netPeriod, "network period is independent")

	m.HandleKeyMsg(keyMsg(KeyHistoryPeriod))
	m.HandleKeyMsg(keyMsg(KeyHistoryPeriod))
	assert.Equal(t, "24h", m.historyPeriod, "cycles back to 24h")

	m.HandleKeyMsg(keyMsg(KeyNetworkPeriod))
	assert.Equal(t, "7d", ctrl.periods[LoopNetworkHistory])
}

func TestHandleKeyMsg_Sort(t *testing.T) {
	m := newTestModel(newFakeController())
	m.rates = []derive.EntityRate{
		{Entity: api.EntitySample{Name: "b", CPUPercent: 1}},
		{Entity: api.EntitySample{Name: "a", CPUPercent: 2}},
	}

	tests := []struct {
		key       string
		column    SortColumn
		ascending bool
		order     []string
	}{
		{"1", SortByName, true, []string{"a", "b"}},
		{"1", SortByName, false, []string{"b", "a"}},
		{"3", SortByCPU, false, []string{"a", "b"}},
		{"3", SortByCPU, true, []string{"b", "a"}},
		{"7", SortByRAMUsage, false, []string{"b", "a"}},
	}

	for _, tt := range tests {
		handled, _ := m.HandleKeyMsg(keyMsg(tt.key))
		require.True(t, handled)
		assert.Equal(t, tt.column, m.sort.Column, "key %s", tt.key)
		assert.Equal(t, tt.ascending, m.sort.Ascending, "key %s", tt.key)
		assert.Equal(t, tt.order, names(m.rates), "key %s", tt.key)
	}
}

func TestHandleKeyMsg_UnhandledGoesToTable(t *testing.T) {
	m := newTestModel(newFakeController())
	m, _ = update(t, m, entitiesMsg{rates: []derive.EntityRate{
		{Entity: api.EntitySample{Name: "a", CPUPercent: 2}},
		{Entity: api.EntitySample{Name: "b", CPUPercent: 1}},
	}})

	handled, _ := m.HandleKeyMsg(keyMsg("down"))
	assert.False(t, handled)

	m, _ = update(t, m, keyMsg("down"))
	assert.Equal(t, 1, m.table.Cursor())
}

func TestRefreshTable_SelectsFirstRow(t *testing.T) {
	m := newTestModel(newFakeController())
	m, _ = update(t, m, entitiesMsg{rates: []derive.EntityRate{
		{Entity: api.EntitySample{Name: "a", CPUPercent: 3}},
		{Entity: api.EntitySample{Name: "b", CPUPercent: 2}},
		{Entity: api.EntitySample{Name: "c", CPUPercent: 1}},
	}})
	assert.Equal(t, 0, m.table.Cursor())

	m, _ = update(t, m, keyMsg("down"))
	assert.Equal(t, 1, m.table.Cursor())
	m, _ = update(t, m, keyMsg("j"))
	assert.Equal(t, 2, m.table.Cursor())
}
