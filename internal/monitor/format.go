package monitor

import (
	"fmt"
	"time"

	"github.com/liquidmon/lmon/internal/api"
)

// TotalsSampleInterval is the server's history sampling period in seconds.
// Peak totals are sums of per-sample KB/s speeds, so multiplying by it
// gives kilobytes.
const TotalsSampleInterval = 5

// FormatUptime renders seconds as "HH:MM:SS", prefixed by "{d}g " when the
// uptime spans at least one day.
func FormatUptime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	days := total / 86400
	h := (total % 86400) / 3600
	m := (total % 3600) / 60
	s := total % 60

	clock := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if days > 0 {
		return fmt.Sprintf("%dg %s", days, clock)
	}
	return clock
}

// FormatKBps renders a host speed reported in KB/s as MB/s.
func FormatKBps(kbps float64) string {
	return fmt.Sprintf("%.2f MB/s", kbps/1024)
}

// FormatEntityRate renders a container rate reported in B/s as MB/s.
func FormatEntityRate(bps float64) string {
	return fmt.Sprintf("%.2f MB/s", bps/(1024*1024))
}

// FormatRate formats a bytes-per-second rate as a human-readable string.
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 1024 {
		return fmt.Sprintf("%.0f B/s", bytesPerSecond)
	} else if bytesPerSecond < 1024*1024 {
		return fmt.Sprintf("%.1f KB/s", bytesPerSecond/1024)
	} else if bytesPerSecond < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB/s", bytesPerSecond/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB/s", bytesPerSecond/(1024*1024*1024))
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}

// TotalGB converts a 24h speed sum to gigabytes.
func TotalGB(sum float64) float64 {
	return sum * TotalsSampleInterval / (1024 * 1024)
}

// FormatTotal renders an optional 24h total, or "-" when absent.
func FormatTotal(sum *float64) string {
	if sum == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f GB", TotalGB(*sum))
}

// PeakKind selects how a peak value is rendered.
type PeakKind int

const (
	PeakPercent PeakKind = iota
	PeakTemp
	PeakNet
)

// FormatPeak renders a peak as "value @ HH:MM" in local time, or "-" when
// the server has no peak for the metric.
func FormatPeak(p *api.Peak, kind PeakKind, loc *time.Location) (value, at string) {
	if p == nil {
		return "-", ""
	}

	switch kind {
	case PeakTemp:
		value = fmt.Sprintf("%.1f°C", p.Value)
	case PeakNet:
		value = FormatKBps(p.Value)
	default:
		value = fmt.Sprintf("%.1f%%", p.Value)
	}

	if !p.Timestamp.IsZero() {
		at = p.Timestamp.In(loc).Format("15:04")
	}
	return value, at
}

// TempPercent maps a temperature onto a 0-100 bar where 85°C is full.
func TempPercent(temp float64) float64 {
	pct := temp / 85 * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
