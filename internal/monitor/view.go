package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/liquidmon/lmon/internal/api"
)

// Chart layout constants
const (
	chartHeight      = 3
	chartLabelWidth  = 6
	chartMinWidth    = 20
	splitPeaksWidth  = 34
	staleLoopsPrefix = "stale: "
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.showAlerts {
		return m.renderAlertsOverlay()
	}

	width := m.contentWidth()
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.authRequired {
		b.WriteString(AuthBannerStyle.Width(width).Render("Authentication required: the server answered 401. Sign in on the server, then press r."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderTopRow(width))
	b.WriteString("\n")
	b.WriteString(m.renderCharts(width))
	b.WriteString("\n")
	b.WriteString(m.renderEntities(width))

	if toasts := m.renderToasts(width); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the dashboard header with the overall status.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("lmon")

	var status string
	if m.snapshot == nil {
		status = m.spinner.View() + " " + MutedStyle.Render("connecting")
	} else {
		status = LevelStyle(m.status.Level).Render(StatusDot + " " + m.status.Message)
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s | %d/%d running | updated %s | ", m.serverURL, m.RunningCount(), len(m.rates), m.updatedText()))

	return HeaderStyle.Render(title + stats + status)
}

func (m Model) updatedText() string {
	if m.lastStats.IsZero() {
		return "never"
	}
	switch s := m.SecondsSinceUpdate(); s {
	case 0:
		return "just now"
	case 1:
		return "1s ago"
	default:
		return fmt.Sprintf("%ds ago", s)
	}
}

// renderTopRow places the host card and peaks side by side when wide
// enough, stacked otherwise.
func (m Model) renderTopRow(width int) string {
	if m.LayoutMode() == LayoutSplit {
		hostWidth := width - splitPeaksWidth - 1
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderHostCard(hostWidth), " ", m.renderPeaksCard(splitPeaksWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHostCard(width), m.renderPeaksCard(width))
}

// renderCharts renders the history and network history panels.
func (m Model) renderCharts(width int) string {
	if m.LayoutMode() == LayoutSplit {
		half := (width - 1) / 2
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderHistoryChart(half), " ", m.renderNetworkChart(width-half-1))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHistoryChart(width), m.renderNetworkChart(width))
}

func (m Model) renderHistoryChart(width int) string {
	s := m.history
	if s.Len() == 0 {
		return Section("History", m.historyPeriod, []string{MutedStyle.Render("waiting for data")}, width)
	}

	plot := chartPlotWidth(width)
	var lines []string
	lines = append(lines, chartRows("CPU", s.CPU, plot, MetricColor)...)
	lines = append(lines, chartRows("RAM", s.RAM, plot, MetricColor)...)
	if s.HasTemp() {
		lines = append(lines, chartRows("Temp", s.Temp, plot, TempColor)...)
	}
	lines = append(lines, strings.Repeat(" ", chartLabelWidth+1)+RenderAxis(s.Labels, plot))

	return Section("History", m.historyPeriod, lines, width)
}

func (m Model) renderNetworkChart(width int) string {
	s := m.netHistory
	if s.Len() == 0 {
		return Section("Network", m.netPeriod, []string{MutedStyle.Render("waiting for data")}, width)
	}

	plot := chartPlotWidth(width)
	var lines []string
	lines = append(lines, chartRows("↓ MB/s", s.Down, plot, Fixed(ColorGraph))...)
	lines = append(lines, chartRows("↑ MB/s", s.Up, plot, Fixed(ColorGraphAlt))...)
	lines = append(lines, strings.Repeat(" ", chartLabelWidth+1)+RenderAxis(s.Labels, plot))

	return Section("Network", m.netPeriod, lines, width)
}

// chartPlotWidth is the sparkline width inside a section of width.
func chartPlotWidth(width int) int {
	w := width - 4 - chartLabelWidth - 1
	if w < chartMinWidth {
		return chartMinWidth
	}
	return w
}

// chartRows renders a labelled sparkline; the label sits on the first row.
func chartRows(label string, data []float64, plot int, colorOf ColorFunc) []string {
	graph := RenderBrailleSparkline(data, plot, chartHeight, colorOf)
	rows := strings.Split(graph, "\n")
	for i, r := range rows {
		l := ""
		if i == 0 {
			l = label
		}
		rows[i] = LabelStyle.Width(chartLabelWidth).Render(l) + " " + r
	}
	return rows
}

// renderEntities renders the container table and the top talkers.
func (m Model) renderEntities(width int) string {
	value := fmt.Sprintf("%d/%d running", m.RunningCount(), len(m.rates))
	if m.entitiesCached {
		value = "cached " + m.lastEntities.In(m.loc).Format("15:04") + " | " + value
	}

	var lines []string
	if len(m.rates) == 0 {
		lines = append(lines, MutedStyle.Render("No containers"))
	} else {
		lines = append(lines, strings.Split(m.table.View(), "\n")...)
	}
	lines = append(lines, "", m.renderTalkers())

	return Section("Containers", value, lines, width)
}

// renderToasts renders the visible notifications, newest last.
func (m Model) renderToasts(width int) string {
	if len(m.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := toastStyle.BorderForeground(LevelColor(t.Level)).Width(width - 2)
		body := LevelStyle(t.Level).Bold(true).Render(t.Title) + "  " + ValueStyle.Render(t.Message)
		lines = append(lines, style.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

var toastStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// renderFooter renders the keyboard help footer and any loops serving
// stale data.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"a alerts",
		"p/n period",
		"1-7 sort",
		"? help",
	}
	footer := FooterStyle.Render(strings.Join(hints, " | "))

	if stale := m.staleLoops(); len(stale) > 0 {
		footer += " " + ErrorTextStyle.Render(staleLoopsPrefix+strings.Join(stale, ", "))
	}
	return footer
}

// staleLoops lists loops whose last cycle failed, in loop order.
func (m Model) staleLoops() []string {
	var out []string
	for _, loop := range Loops {
		if _, ok := m.lastErr[loop]; ok {
			out = append(out, loop)
		}
	}
	return out
}

// levelLabel is the upper-case badge text for a level.
func levelLabel(l api.Level) string {
	if l == "" {
		return strings.ToUpper(string(api.LevelNormal))
	}
	return strings.ToUpper(string(l))
}
