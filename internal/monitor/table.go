package monitor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/liquidmon/lmon/internal/derive"
)

// Fixed widths of every entity column but the name.
var entityColumnWidths = []int{9, 7, 7, 9, 9, 9, 9, 9}

var entityColumnTitles = []string{"NAME", "STATE", "CPU%", "MEM%", "↓ MB/s", "↑ MB/s", "RX", "TX", "RAM"}

const minNameWidth = 12

// sortColumnIndex maps a sort column to the table column it orders by.
// net_down and net_up sort by the cumulative counters.
var sortColumnIndex = map[SortColumn]int{
	SortByName:     0,
	SortByState:    1,
	SortByCPU:      2,
	SortByMem:      3,
	SortByNetDown:  6,
	SortByNetUp:    7,
	SortByRAMUsage: 8,
}

func newEntityTable(width int) table.Model {
	t := table.New(
		table.WithColumns(entityColumns(width, DefaultSort())),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Foreground(ColorAccent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorTextPrimary).
		Background(ColorBorder).
		Bold(false)
	t.SetStyles(s)
	return t
}

// entityColumns sizes the table for width and marks the sorted column.
func entityColumns(width int, sort SortState) []table.Column {
	fixed := 0
	for _, w := range entityColumnWidths {
		fixed += w
	}
	// Two cells of padding per column plus the section border.
	nameWidth := width - fixed - 2*len(entityColumnTitles) - 4
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}

	widths := append([]int{nameWidth}, entityColumnWidths...)
	sorted := sortColumnIndex[sort.Column]

	cols := make([]table.Column, len(entityColumnTitles))
	for i, title := range entityColumnTitles {
		if i == sorted {
			title += " " + sort.Indicator()
		}
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func entityRows(rates []derive.EntityRate) []table.Row {
	rows := make([]table.Row, 0, len(rates))
	for _, r := range rates {
		e := r.Entity
		rows = append(rows, table.Row{
			e.Name,
			e.State,
			fmt.Sprintf("%.1f", e.CPUPercent),
			fmt.Sprintf("%.1f", e.MemoryPercent),
			fmt.Sprintf("%.2f", r.Rx/(1024*1024)),
			fmt.Sprintf("%.2f", r.Tx/(1024*1024)),
			formatBytes(e.NetRx),
			formatBytes(e.NetTx),
			formatBytes(e.MemoryUsage),
		})
	}
	return rows
}
