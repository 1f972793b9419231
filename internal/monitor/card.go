package monitor

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/derive"
)

// Card layout constants
const (
	cardLabelWidth  = 6
	cardMinBarWidth = 10
	cardValueWidth  = 8
	cardLiveWidth   = 6  // braille cells of live history next to cpu and ram
	cardTrailWidth  = 16 // room after the value for the sparkline or disk sizes
)

// cardLabel renders a fixed-width metric label.
func cardLabel(name string) string {
	return LabelStyle.Width(cardLabelWidth).Render(name)
}

// cardBarWidth is what remains of an inner width after label, value and the
// trailing column.
func cardBarWidth(inner int) int {
	w := inner - cardLabelWidth - cardValueWidth - cardTrailWidth - 3
	if w < cardMinBarWidth {
		return cardMinBarWidth
	}
	return w
}

// renderHostCard renders the host section: usage bars, temperature, disk,
// network speeds and process count. Before the first stats cycle it shows
// the connecting spinner.
func (m Model) renderHostCard(width int) string {
	inner := width - 4
	s := m.snapshot

	if s == nil {
		line := m.spinner.View() + " " + MutedStyle.Render("connecting to "+m.serverURL)
		return Section("Host", "", []string{line}, width)
	}

	barWidth := cardBarWidth(inner)
	live := func(data []float64) string {
		return RenderBrailleSparkline(data, cardLiveWidth, 1, MetricColor)
	}

	down, _ := m.live.Net(cardLiveWidth * 2)

	lines := []string{
		cardLabel("CPU") + " " + ProgressBar(barWidth, s.CPUUsage, MetricColor(s.CPUUsage)) + " " +
			MetricStyle(s.CPUUsage).Width(cardValueWidth).Render(fmt.Sprintf("%.1f%%", s.CPUUsage)) + " " +
			live(m.live.CPU(cardLiveWidth*2)),
		cardLabel("RAM") + " " + ProgressBar(barWidth, s.RAMUsage, MetricColor(s.RAMUsage)) + " " +
			MetricStyle(s.RAMUsage).Width(cardValueWidth).Render(fmt.Sprintf("%.1f%%", s.RAMUsage)) + " " +
			live(m.live.RAM(cardLiveWidth*2)),
		m.renderTempLine(barWidth),
		cardLabel("Disk") + " " + RenderGradientBar(barWidth, s.DiskUsage) + " " +
			MetricStyle(s.DiskUsage).Width(cardValueWidth).Render(fmt.Sprintf("%.1f%%", s.DiskUsage)) + " " +
			MutedStyle.Render(fmt.Sprintf("%.1f/%.1f GB", s.DiskUsedGB, s.DiskTotalGB)),
		cardLabel("Net") + " " +
			lipgloss.NewStyle().Foreground(ColorGraph).Render("↓ "+FormatKBps(s.NetRecvSpeed)) + "  " +
			lipgloss.NewStyle().Foreground(ColorGraphAlt).Render("↑ "+FormatKBps(s.NetSentSpeed)) + " " +
			RenderBrailleSparkline(down, cardLiveWidth, 1, Fixed(ColorGraph)),
		cardLabel("Procs") + " " + ValueStyle.Render(fmt.Sprintf("%d", s.Processes)) + "  " +
			MutedStyle.Render(fmt.Sprintf("free %.1f GB", s.DiskFreeGB)),
	}

	return Section("Host", "up "+FormatUptime(s.Uptime), lines, width)
}

// renderTempLine renders the temperature bar, or N/A on hosts without a sensor.
func (m Model) renderTempLine(barWidth int) string {
	t := m.snapshot.CPUTemp
	if t == nil {
		return cardLabel("Temp") + " " + MutedStyle.Render("N/A")
	}
	color := TempColor(*t)
	return cardLabel("Temp") + " " + ProgressBar(barWidth, TempPercent(*t), color) + " " +
		lipgloss.NewStyle().Foreground(color).Width(cardValueWidth).Render(fmt.Sprintf("%.1f°C", *t))
}

// peakRow describes one line of the peaks panel.
type peakRow struct {
	label string
	peak  func(*api.PeakSet) *api.Peak
	kind  PeakKind
}

var peakRows = []peakRow{
	{"CPU", func(p *api.PeakSet) *api.Peak { return p.CPU }, PeakPercent},
	{"RAM", func(p *api.PeakSet) *api.Peak { return p.RAM }, PeakPercent},
	{"Temp", func(p *api.PeakSet) *api.Peak { return p.Temp }, PeakTemp},
	{"Net ↓", func(p *api.PeakSet) *api.Peak { return p.NetDown }, PeakNet},
	{"Net ↑", func(p *api.PeakSet) *api.Peak { return p.NetUp }, PeakNet},
}

// renderPeaksCard renders server-side peaks and the 24h network totals.
func (m Model) renderPeaksCard(width int) string {
	peaks := m.peaks
	if peaks == nil {
		peaks = &api.PeakSet{}
	}

	lines := make([]string, 0, len(peakRows)+1)
	for _, r := range peakRows {
		value, at := FormatPeak(r.peak(peaks), r.kind, m.loc)
		line := cardLabel(r.label) + " " + ValueStyle.Width(cardValueWidth+2).Render(value)
		if at != "" {
			line += MutedStyle.Render("@ " + at)
		}
		lines = append(lines, line)
	}

	lines = append(lines, cardLabel("Total")+" "+
		ValueStyle.Render("↓ "+FormatTotal(peaks.NetTotalDown))+"  "+
		ValueStyle.Render("↑ "+FormatTotal(peaks.NetTotalUp)))

	return Section("Peaks", "24h", lines, width)
}

// renderTalkers renders the top download and upload containers.
func (m Model) renderTalkers() string {
	return renderTalker("↓", m.talkers.Download) + "   " + renderTalker("↑", m.talkers.Upload)
}

func renderTalker(arrow string, t *derive.Talker) string {
	label := LabelStyle.Render("Top " + arrow + " ")
	if t == nil {
		return label + MutedStyle.Render("-")
	}
	return label + ValueStyle.Render(t.Name) + " " +
		lipgloss.NewStyle().Foreground(ColorGraph).Render(FormatEntityRate(t.Rate))
}
