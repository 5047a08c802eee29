package domain

// Theme selects a visual palette. It never affects data.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeGreen Theme = "green"
	ThemeBlue  Theme = "blue"
)

// DefaultTheme is applied when no preference is stored.
const DefaultTheme = ThemeLight

// Themes lists every theme.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeGreen, ThemeBlue}

// ParseTheme parses a theme name. The second return is false for unknown names.
func ParseTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}
