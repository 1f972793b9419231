package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "◉"
	SymbolFail     = "✕"
	SymbolPending  = "◇"
	SymbolProgress = "◆"
	SymbolComplete = "●"
	SymbolWarning  = "⚠"
	SymbolCritical = "▲"
)

// LevelSymbol returns the status glyph for an alert level.
func LevelSymbol(level string) string {
	switch level {
	case "critical":
		return SymbolCritical
	case "warning":
		return SymbolWarning
	case "normal":
		return SymbolComplete
	default:
		return SymbolPending
	}
}
