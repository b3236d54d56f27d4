package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the status panel.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeMidnight = Theme{
		Name:    "midnight",
		Primary: lipgloss.Color("#8ecae6"),
		Accent:  lipgloss.Color("#ffd166"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#5c677d"),
		Border:  lipgloss.Color("#33415c"),
		Success: lipgloss.Color("#90e0ef"),
		Warning: lipgloss.Color("#ff9f1c"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#dddddd"),
		Muted:   lipgloss.Color("#888888"),
		Border:  lipgloss.Color("#444444"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Accent:  lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Border:  lipgloss.Color("#4a2c4b"),
		Success: lipgloss.Color("#5fd068"),
		Warning: lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{ThemeMidnight, ThemeMinimal, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to midnight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMidnight
}

// NextTheme returns the theme after t in Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// styles derived from a theme
type styles struct {
	panel   lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	hint    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(panelWidth - 2),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(9),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}
