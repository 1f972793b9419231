package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NoNotificationsText is shown by the overlay when the alert log is empty.
const NoNotificationsText = "No notifications"

const alertsOverlayWidth = 72

var alertsBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorAccent).
	Background(ColorSurfaceBg).
	Padding(1, 2)

// renderAlertsOverlay renders the server-side alert log in a centered box.
func (m Model) renderAlertsOverlay() string {
	inner := alertsOverlayWidth - 6
	if w := m.contentWidth() - 8; w < inner {
		inner = w
	}

	var lines []string
	lines = append(lines, helpTitleStyle.Render("Notifications"))

	switch {
	case !m.alertsLoaded:
		lines = append(lines, MutedStyle.Render("Loading..."))
	case len(m.alerts) == 0:
		lines = append(lines, MutedStyle.Render(NoNotificationsText))
	default:
		for _, a := range m.alerts {
			when := a.Timestamp.Display(m.loc, "Jan 2 15:04:05")
			badge := LevelStyle(a.Level).Bold(true).Width(9).Render(levelLabel(a.Level))
			line := MutedStyle.Render(when) + "  " + badge + " " + ValueStyle.Render(a.Message)
			lines = append(lines, lipgloss.NewStyle().MaxWidth(inner).Render(line))
		}
	}

	if m.alertsErr != "" {
		lines = append(lines, "", ErrorTextStyle.Render(m.alertsErr))
	}

	lines = append(lines, "", LabelStyle.Render("x clear | a / esc close"))

	box := alertsBoxStyle.Width(inner + 4).Render(strings.Join(lines, "\n"))
	return placeCentered(m.contentWidth(), m.height, box)
}
