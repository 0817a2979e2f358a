package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Stage or host succeeded
	SymbolFail    = "✗" // Stage or host failed
	SymbolWarning = "⚠" // Something worth a look, not fatal
	SymbolArrow   = "→" // Upload direction
	SymbolBullet  = "•" // List item
)
