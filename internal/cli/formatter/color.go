package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleLabel  = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
)

// SetColor turns styled output on or off for the whole process.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// KindStyle returns the accent used for a node kind.
func KindStyle(kind domain.NodeKind) lipgloss.Style {
	switch kind {
	case domain.KindDecision:
		return StyleBlue
	case domain.KindUncertainty:
		return StylePurple
	case domain.KindSystemRequirement:
		return StyleGreen
	default:
		return StyleDim
	}
}

// KindBadge renders a node kind as "● decision" in its accent color.
func KindBadge(kind domain.NodeKind) string {
	return KindStyle(kind).Render("● " + string(kind))
}

// Label renders a generated ID, or a dim placeholder when none is set.
func Label(label string) string {
	if label == "" {
		return StyleDim.Render("--")
	}
	return StyleLabel.Render(label)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Success renders a confirmation line with a green check.
func Success(text string) string {
	return StyleGreen.Render("✔ ") + text
}

// Warning renders a non-fatal problem with an amber marker.
func Warning(text string) string {
	return StyleYellow.Render("▲ ") + text
}
