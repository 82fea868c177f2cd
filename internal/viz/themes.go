package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the scene view.
type Theme struct {
	Name    string
	Orb     lipgloss.Color
	Charged lipgloss.Color
	Plane   lipgloss.Color
	Cube    lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:    "neon",
		Orb:     lipgloss.Color("#00ffff"),
		Charged: lipgloss.Color("#ff00ff"),
		Plane:   lipgloss.Color("#444466"),
		Cube:    lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Accent:  lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Orb:     lipgloss.Color("#00ff00"),
		Charged: lipgloss.Color("#88ff88"),
		Plane:   lipgloss.Color("#005500"),
		Cube:    lipgloss.Color("#00cc00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Accent:  lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Orb:     lipgloss.Color("#feca57"),
		Charged: lipgloss.Color("#ff6b6b"),
		Plane:   lipgloss.Color("#8b6b8c"),
		Cube:    lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Accent:  lipgloss.Color("#5fd068"),
		Warning: lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{ThemeNeon, ThemeRetro, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after cur, wrapping around.
func NextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
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

// orbColor blends from Orb to Charged as the charge grows.
func (t Theme) orbColor(charge float32) lipgloss.Color {
	return lerpColor(t.Orb, t.Charged, float64(charge))
}
