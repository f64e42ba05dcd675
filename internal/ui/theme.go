package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used by the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	Border     string

	SelectionBg   string
	SelectionText string

	Text      string
	Muted     string
	Accent    string
	Secondary string
	Warning   string
	Danger    string
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	Text       lipgloss.Style
	MutedText  lipgloss.Style
	AccentText lipgloss.Style
	Favorite   lipgloss.Style
	Warning    lipgloss.Style
	Danger     lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Selected lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Badge    lipgloss.Style
	Pane     lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		AccentText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		Favorite:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)).Bold(true),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		TabOn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Underline(true).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Surface)).
			Background(lipgloss.Color(t.Secondary)).
			Padding(0, 1),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
	}
}

var themes = map[string]Theme{
	"Light": lightTheme(),
	"Dark":  darkTheme(),
	"Slate": slateTheme(),
}

var themeOrder = []string{"Light", "Dark", "Slate"}

// GetTheme returns a theme by name, falling back to Light.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return lightTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

// Light and Dark share the indigo primary and emerald secondary.

func lightTheme() Theme {
	return Theme{
		Name:          "Light",
		Background:    "#F6F7FB",
		Surface:       "#FFFFFF",
		Border:        "#E5E7EB",
		SelectionBg:   "#EEF2FF",
		SelectionText: "#0F172A",
		Text:          "#0F172A",
		Muted:         "#6B7280",
		Accent:        "#4F46E5",
		Secondary:     "#10B981",
		Warning:       "#D97706",
		Danger:        "#EF4444",
	}
}

func darkTheme() Theme {
	return Theme{
		Name:          "Dark",
		Background:    "#0B0F14",
		Surface:       "#141A22",
		Border:        "#273142",
		SelectionBg:   "#4F46E5",
		SelectionText: "#E5E7EB",
		Text:          "#E5E7EB",
		Muted:         "#9CA3AF",
		Accent:        "#818CF8",
		Secondary:     "#10B981",
		Warning:       "#F59E0B",
		Danger:        "#EF4444",
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette
	return Theme{
		Name:          "Slate",
		Background:    "#020617", // slate-950
		Surface:       "#0f172a", // slate-900
		Border:        "#334155", // slate-700
		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50
		Text:          "#f1f5f9", // slate-100
		Muted:         "#94a3b8", // slate-400
		Accent:        "#38bdf8", // sky-400
		Secondary:     "#22c55e", // green-500
		Warning:       "#f59e0b", // amber-500
		Danger:        "#ef4444", // red-500
	}
}
