// Package theme provides the Lip Gloss color palette and reusable styles
// for the netpong TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Court colors. Slot 0 plays on the left, slot 1 on the right.
var (
	ColorPaddleLeft  = lipgloss.Color("#22c55e")
	ColorPaddleRight = lipgloss.Color("#d946ef")
	ColorBall        = lipgloss.Color("#f9fafb")
	ColorNet         = lipgloss.Color("#374151")
	ColorScore       = lipgloss.Color("#f9fafb")
	ColorCountdown   = lipgloss.Color("#f59e0b")
	ColorWin         = lipgloss.Color("#ffd700")
)

// Menu colors.
var (
	ColorButton      = lipgloss.Color("#323264")
	ColorButtonHover = lipgloss.Color("#4682b4")
	ColorButtonText  = lipgloss.Color("#c8c8c8")
	ColorValue       = lipgloss.Color("#c8ffc8")
	ColorValueOff    = lipgloss.Color("#ffc8c8")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorInfo    = lipgloss.Color("#2563eb")
	ColorAccent  = lipgloss.Color("#7c3aed")
)

// PaddleColor returns the color for a player slot.
func PaddleColor(slot int) lipgloss.Color {
	if slot == 1 {
		return ColorPaddleRight
	}
	return ColorPaddleLeft
}

// SideName names the side of the court a slot plays on.
func SideName(slot int) string {
	if slot == 1 {
		return "right"
	}
	return "left"
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright).
			Padding(0, 2)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleButton = lipgloss.NewStyle().
			Width(20).
			Align(lipgloss.Center).
			Foreground(ColorButtonText).
			Background(ColorButton).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorBright)

	StyleButtonActive = StyleButton.
				Foreground(ColorBright).
				Background(ColorButtonHover)

	StyleNotice = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)
)
