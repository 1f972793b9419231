package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// NoColorEnv disables color output when set to any non-empty value.
// See https://no-color.org.
const NoColorEnv = "NO_COLOR"

// Accent colors used for branding.
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00E5FF"
	ColorNeonPurple  lipgloss.Color = "#B967FF"
	ColorNeonGreen   lipgloss.Color = "#39FF14"
	ColorGlassBorder lipgloss.Color = "#3D3D5C"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "#39FF14" // normal
	ColorError   lipgloss.Color = "#FF0055" // critical
	ColorWarning lipgloss.Color = "#FFAA00"
	ColorInfo    lipgloss.Color = "#00FFFF"
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "#FFFFFF"
	ColorSecondary lipgloss.Color = "#B4B4D0"
	ColorMuted     lipgloss.Color = "#6B6B8D"
)

// GradientColors cycle through the spinner frames.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}

// SuccessStyle renders normal-level text.
func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }

// ErrorStyle renders critical-level text.
func ErrorStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorError) }

// WarningStyle renders warning-level text.
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }

// InfoStyle renders informational text.
func InfoStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorInfo) }

// MutedStyle renders secondary text such as timestamps.
func MutedStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorMuted) }

// LevelStyle maps an alert level ("normal", "warning", "critical") to its style.
// Unknown levels render muted.
func LevelStyle(level string) lipgloss.Style {
	switch level {
	case "critical":
		return ErrorStyle().Bold(true)
	case "warning":
		return WarningStyle()
	case "normal":
		return SuccessStyle()
	default:
		return MutedStyle()
	}
}

// ConfigureColors picks the color profile for every lipgloss renderer.
// Color is disabled when noColor is set, when NO_COLOR is present in the
// environment, or when stdout is not a terminal.
func ConfigureColors(noColor bool) {
	if noColor || os.Getenv(NoColorEnv) != "" {
		DisableColors()
		return
	}
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
}

// DisableColors switches to monochrome output.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// PrintWarning prints a warning line to stderr.
func PrintWarning(msg string) {
	fmt.Fprintln(os.Stderr, WarningStyle().Render(SymbolWarning+" "+msg))
}
