package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }
func ErrorStyle() lipgloss.Style   { return lipgloss.NewStyle().Foreground(ColorError) }
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }
func InfoStyle() lipgloss.Style    { return lipgloss.NewStyle().Foreground(ColorInfo) }
func MutedStyle() lipgloss.Style   { return lipgloss.NewStyle().Foreground(ColorMuted) }
func HostStyle() lipgloss.Style    { return lipgloss.NewStyle().Foreground(ColorSecondary) }

// DisableColors switches every style to plain text.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// PrintWarning writes a yellow warning line to stderr.
func PrintWarning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle().Render(SymbolWarning), msg)
}
