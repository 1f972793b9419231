package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is focused in CLI output, so the first row must not look selected.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string for CLI output.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// MetricRow is one line of the 'lmon status' metric table.
type MetricRow struct {
	Metric string // "CPU", "RAM", ...
	Value  string // formatted reading, or "N/A"
	Level  string // alert level, empty for informational rows
}

// RenderMetricTable renders the one-shot host status table.
func RenderMetricTable(rows []MetricRow) string {
	if len(rows) == 0 {
		return "No metrics"
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var b strings.Builder
	b.WriteString(headerStyle.Render("  " + padRight("METRIC", 10) + padRight("VALUE", 20) + "LEVEL"))
	b.WriteString("\n")

	for _, row := range rows {
		level := MutedStyle().Render("-")
		icon := " "
		if row.Level != "" {
			level = LevelStyle(row.Level).Render(row.Level)
			icon = LevelStyle(row.Level).Render(LevelSymbol(row.Level))
		}
		b.WriteString(icon + " " + padRight(row.Metric, 10) + padRight(row.Value, 20) + level + "\n")
	}

	return b.String()
}

// AlertRow is one server-side alert record in 'lmon alerts list'.
type AlertRow struct {
	Time    string
	Level   string
	Message string
}

// RenderAlertTable renders alert records, newest first as given.
func RenderAlertTable(rows []AlertRow) string {
	if len(rows) == 0 {
		return MutedStyle().Render("No notifications") + "\n"
	}

	var b strings.Builder
	for _, row := range rows {
		style := LevelStyle(row.Level)
		b.WriteString(MutedStyle().Render(padRight(row.Time, 16)) + " " +
			style.Render(padRight(LevelSymbol(row.Level)+" "+strings.ToUpper(row.Level), 11)) + " " +
			row.Message + "\n")
	}
	return b.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
