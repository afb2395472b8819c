package console

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors of the terminal console.
type Theme struct {
	Name string

	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Dim       lipgloss.Color
	Border    lipgloss.Color
}

// DarkTheme matches the site's dark console.
var DarkTheme = Theme{
	Name:      "dark",
	Accent:    lipgloss.Color("#38bdf8"),
	Success:   lipgloss.Color("#4ade80"),
	Warning:   lipgloss.Color("#facc15"),
	Error:     lipgloss.Color("#f87171"),
	Primary:   lipgloss.Color("#e2e8f0"),
	Secondary: lipgloss.Color("#94a3b8"),
	Dim:       lipgloss.Color("#64748b"),
	Border:    lipgloss.Color("#1e293b"),
}

var LightTheme = Theme{
	Name:      "light",
	Accent:    lipgloss.Color("#0284c7"),
	Success:   lipgloss.Color("#15803d"),
	Warning:   lipgloss.Color("#a16207"),
	Error:     lipgloss.Color("#b91c1c"),
	Primary:   lipgloss.Color("#0f172a"),
	Secondary: lipgloss.Color("#374151"),
	Dim:       lipgloss.Color("#64748b"),
	Border:    lipgloss.Color("#cbd5e1"),
}

// DetectTheme picks a theme from the flag, then PORTFOLIO_THEME, then the
// terminal's COLORFGBG hint. Dark is the default.
func DetectTheme(flagVal string) Theme {
	if t, ok := themeNamed(flagVal); ok {
		return t
	}
	if t, ok := themeNamed(os.Getenv("PORTFOLIO_THEME")); ok {
		return t
	}
	// COLORFGBG is "fg;bg"; 7 and 15 are light backgrounds.
	if v := os.Getenv("COLORFGBG"); v != "" {
		parts := strings.Split(v, ";")
		if len(parts) >= 2 {
			if bg := parts[len(parts)-1]; bg == "7" || bg == "15" {
				return LightTheme
			}
		}
	}
	return DarkTheme
}

func themeNamed(name string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return DarkTheme, true
	case "light":
		return LightTheme, true
	}
	return Theme{}, false
}

type styles struct {
	title     lipgloss.Style
	accent    lipgloss.Style
	primary   lipgloss.Style
	secondary lipgloss.Style
	dim       lipgloss.Style
	box       lipgloss.Style
	section   lipgloss.Style
	offline   lipgloss.Style
	online    lipgloss.Style
	ok        lipgloss.Style
	loading   lipgloss.Style
	pending   lipgloss.Style
	kbdKey    lipgloss.Style
	kbdDesc   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:     lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		accent:    lipgloss.NewStyle().Foreground(t.Accent),
		primary:   lipgloss.NewStyle().Foreground(t.Primary),
		secondary: lipgloss.NewStyle().Foreground(t.Secondary),
		dim:       lipgloss.NewStyle().Foreground(t.Dim),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),
		section: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginTop(1),
		offline: lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		online:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		ok:      lipgloss.NewStyle().Foreground(t.Success),
		loading: lipgloss.NewStyle().Foreground(t.Warning),
		pending: lipgloss.NewStyle().Foreground(t.Dim),
		kbdKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Border).
			Padding(0, 1),
		kbdDesc: lipgloss.NewStyle().Foreground(t.Dim),
	}
}
