package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// upwell's palette: leafy greens for progress, a warm coral for effort.
var (
	Leaf   = lipgloss.Color("#3FA34D")
	Mint   = lipgloss.Color("#9BE3A5")
	Coral  = lipgloss.Color("#FF7F50")
	Sun    = lipgloss.Color("#F4C430")
	Sky    = lipgloss.Color("#4A90D9")
	Berry  = lipgloss.Color("#D7263D")
	Dim    = lipgloss.Color("#666666")
	Bright = lipgloss.Color("#FFFFFF")

	// Semantic styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Leaf)

	Subtitle = lipgloss.NewStyle().
			Foreground(Mint)

	Success = lipgloss.NewStyle().
		Foreground(Leaf)

	Error = lipgloss.NewStyle().
		Foreground(Berry)

	Warning = lipgloss.NewStyle().
		Foreground(Sun)

	Info = lipgloss.NewStyle().
		Foreground(Sky)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Coral).
		Bold(true)

	// Component styles
	Banner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Leaf).
		Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Mint).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)

	// Calendar cells
	DoneCell = lipgloss.NewStyle().
			Foreground(Bright).
			Background(Leaf).
			Bold(true)

	ShieldCell = lipgloss.NewStyle().
			Foreground(Bright).
			Background(Sky)

	TodayCell = lipgloss.NewStyle().
			Foreground(Coral).
			Underline(true).
			Bold(true)
)

// Icon constants.
const (
	IconSprout  = "🌱 "
	IconFire    = "🔥"
	IconShield  = "🛡 "
	IconSyringe = "💉"
	IconScale   = "⚖ "
	IconCal     = "📅"
	IconReport  = "📝"
	IconLock    = "🔑"
	IconWarn    = "⚠️ "
	IconError   = "✗ "
	IconOk      = "✓ "
	IconArrow   = "→"
	IconDot     = "·"
	IconFilled  = "●"
	IconEmpty   = "○"
)

// DisableColor strips all color and styling from subsequent renders. Used
// for --no-color and the NO_COLOR convention.
func DisableColor() {
	colorDisabled = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

var colorDisabled bool
