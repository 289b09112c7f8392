package viz

import "github.com/charmbracelet/lipgloss"

// Theme picks the colours used for species bars.
type Theme struct {
	Name  string
	Acid  lipgloss.Color
	Base  lipgloss.Color
	H3O   lipgloss.Color
	OH    lipgloss.Color
	Water lipgloss.Color
	Muted lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:  "classic",
		Acid:  lipgloss.Color("#00aaff"),
		Base:  lipgloss.Color("#ff8800"),
		H3O:   lipgloss.Color("#ff3355"),
		OH:    lipgloss.Color("#3366ff"),
		Water: lipgloss.Color("#aaddff"),
		Muted: lipgloss.Color("#666688"),
	}

	ThemeMinimal = Theme{
		Name:  "minimal",
		Acid:  lipgloss.Color("#ffffff"),
		Base:  lipgloss.Color("#cccccc"),
		H3O:   lipgloss.Color("#ffffff"),
		OH:    lipgloss.Color("#cccccc"),
		Water: lipgloss.Color("#888888"),
		Muted: lipgloss.Color("#555555"),
	}
)

var themes = map[string]Theme{
	ThemeClassic.Name: ThemeClassic,
	ThemeMinimal.Name: ThemeMinimal,
}

// GetTheme returns the named theme, or classic when unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return ThemeClassic
}
