// Package theme provides the Lip Gloss palettes and reusable styles for the
// garden TUI. It is a leaf package apart from the stage names it renders,
// and it never touches storage: callers pass the theme name in.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/secret-garden/garden/internal/gamification"
)

// Palette is one colour set.
type Palette struct {
	Name    string
	Border  lipgloss.Color
	Dimmed  lipgloss.Color
	Bright  lipgloss.Color
	Accent  lipgloss.Color
	Leaf    lipgloss.Color
	Bloom   lipgloss.Color
	Gold    lipgloss.Color
	Danger  lipgloss.Color
	Surface lipgloss.Color
}

// Built-in palettes.
var (
	Light = Palette{
		Name:    "light",
		Border:  lipgloss.Color("#a3b18a"),
		Dimmed:  lipgloss.Color("#6b7280"),
		Bright:  lipgloss.Color("#1f2937"),
		Accent:  lipgloss.Color("#588157"),
		Leaf:    lipgloss.Color("#3a5a40"),
		Bloom:   lipgloss.Color("#e07a5f"),
		Gold:    lipgloss.Color("#d97706"),
		Danger:  lipgloss.Color("#dc2626"),
		Surface: lipgloss.Color("#f7f5ef"),
	}
	Dark = Palette{
		Name:    "dark",
		Border:  lipgloss.Color("#4b5563"),
		Dimmed:  lipgloss.Color("#9ca3af"),
		Bright:  lipgloss.Color("#f9fafb"),
		Accent:  lipgloss.Color("#84cc16"),
		Leaf:    lipgloss.Color("#22c55e"),
		Bloom:   lipgloss.Color("#f472b6"),
		Gold:    lipgloss.Color("#f59e0b"),
		Danger:  lipgloss.Color("#f87171"),
		Surface: lipgloss.Color("#111827"),
	}
)

// ForName returns the palette called name, falling back to Light.
func ForName(name string) Palette {
	if name == Dark.Name {
		return Dark
	}
	return Light
}

// Styles are the reusable styles derived from a palette.
type Styles struct {
	Palette  Palette
	Border   lipgloss.Style
	Header   lipgloss.Style
	Dimmed   lipgloss.Style
	Selected lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Toast    lipgloss.Style
	Done     lipgloss.Style
	Error    lipgloss.Style
}

// NewStyles builds the style set for p.
func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Leaf),
		Dimmed: lipgloss.NewStyle().
			Foreground(p.Dimmed),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Bright),
		Tab: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(p.Dimmed),
		TabOn: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Underline(true).
			Foreground(p.Accent),
		Toast: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Bloom),
		Done: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(p.Dimmed),
		Error: lipgloss.NewStyle().
			Foreground(p.Danger),
	}
}

// Bar renders a fill/total progress bar in the accent colour.
func (s Styles) Bar(pct float64, total int) string {
	if total <= 0 {
		return "[]"
	}
	fill := int(pct * float64(total))
	fill = min(max(fill, 0), total)
	filled := lipgloss.NewStyle().Foreground(s.Palette.Accent).Render(strings.Repeat("█", fill))
	empty := lipgloss.NewStyle().Foreground(s.Palette.Dimmed).Render(strings.Repeat("░", total-fill))
	return "[" + filled + empty + "]"
}

// StageGlyph returns the plant drawn for a garden stage.
func StageGlyph(s gamification.Stage) string {
	switch s {
	case gamification.StageSeed:
		return "🌰"
	case gamification.StageSprout:
		return "🌱"
	case gamification.StagePlant:
		return "🌿"
	case gamification.StageFlower:
		return "🌷"
	case gamification.StageLush:
		return "🌳"
	default:
		return "·"
	}
}

// AchievementGlyph returns the icon for an unlocked achievement or a lock.
func AchievementGlyph(icon string, unlocked bool) string {
	if !unlocked {
		return "🔒"
	}
	if icon == "" {
		return "★"
	}
	return icon
}
