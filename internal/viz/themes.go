package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for terminal reports.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Midpoint  lipgloss.Color
	Trapezoid lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Midpoint:  lipgloss.Color("#0088ff"),
		Trapezoid: lipgloss.Color("#ff4444"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#00a8cc"),
		Midpoint:  lipgloss.Color("#0077be"),
		Trapezoid: lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // green phosphor
		Midpoint:  lipgloss.Color("#88ff88"),
		Trapezoid: lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Error:     lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeMinimal,
		ThemeOcean,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name, falling back to minimal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
