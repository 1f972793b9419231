package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.4.0"
	Server  string // Optional server URL
	Status  string // Optional status line, already styled
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the branded header printed above one-shot command output.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ColorNeonPink).
		Bold(true)

	versionStyle := lipgloss.NewStyle().
		Foreground(ColorNeonCyan)

	dividerStyle := lipgloss.NewStyle().
		Foreground(ColorGlassBorder)

	var output strings.Builder

	// Title line: "lmon v0.5.0"
	output.WriteString(titleStyle.Render("lmon"))
	if info.Version != "" {
		output.WriteString(" ")
		output.WriteString(versionStyle.Render(info.Version))
	}
	output.WriteString("\n")

	if info.Server != "" {
		output.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Server))
		output.WriteString("\n")
	}

	if info.Status != "" {
		output.WriteString(info.Status)
		output.WriteString("\n")
	}

	output.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")

	return output.String()
}

// WriteHeader writes the styled header to w.
func WriteHeader(w io.Writer, info HeaderInfo) error {
	_, err := io.WriteString(w, RenderHeader(info))
	return err
}
