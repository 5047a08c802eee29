package render

import (
	"github.com/jwulff/glycemia-go/internal/bloodsugar"
	"github.com/jwulff/glycemia-go/internal/domain"
)

// Common colors.
var (
	ColorBlack = domain.NewRGB(0, 0, 0)
	ColorWhite = domain.NewRGB(255, 255, 255)
	ColorGray  = domain.NewRGB(128, 128, 128)
)

// Palette maps semantic tokens and chart chrome to concrete colors.
type Palette struct {
	Background domain.RGB
	Text       domain.RGB
	Axis       domain.RGB
	Line       domain.RGB
	Tokens     map[bloodsugar.ColorToken]domain.RGB
	// BandTint is how far band fills move from the background toward the token color.
	BandTint float64
}

// Color returns the color for a token, falling back to the line color.
func (p Palette) Color(token bloodsugar.ColorToken) domain.RGB {
	if c, ok := p.Tokens[token]; ok {
		return c
	}
	return p.Line
}

var statusColors = map[bloodsugar.ColorToken]domain.RGB{
	bloodsugar.TokenInfo:    domain.NewRGB(23, 162, 184),
	bloodsugar.TokenSuccess: domain.NewRGB(40, 167, 69),
	bloodsugar.TokenWarning: domain.NewRGB(255, 193, 7),
	bloodsugar.TokenDanger:  domain.NewRGB(220, 53, 69),
}

var palettes = map[domain.Theme]Palette{
	domain.ThemeLight: {
		Background: ColorWhite,
		Text:       domain.NewRGB(51, 51, 51),
		Axis:       domain.NewRGB(200, 200, 200),
		Line:       domain.NewRGB(74, 144, 226),
		Tokens:     statusColors,
		BandTint:   0.15,
	},
	domain.ThemeDark: {
		Background: domain.NewRGB(30, 30, 36),
		Text:       domain.NewRGB(230, 230, 230),
		Axis:       domain.NewRGB(80, 80, 90),
		Line:       domain.NewRGB(110, 170, 240),
		Tokens:     statusColors,
		BandTint:   0.25,
	},
	domain.ThemeGreen: {
		Background: domain.NewRGB(240, 248, 240),
		Text:       domain.NewRGB(34, 68, 34),
		Axis:       domain.NewRGB(180, 210, 180),
		Line:       domain.NewRGB(46, 125, 50),
		Tokens:     statusColors,
		BandTint:   0.15,
	},
	domain.ThemeBlue: {
		Background: domain.NewRGB(235, 243, 252),
		Text:       domain.NewRGB(25, 50, 90),
		Axis:       domain.NewRGB(170, 195, 225),
		Line:       domain.NewRGB(21, 101, 192),
		Tokens:     statusColors,
		BandTint:   0.15,
	},
}

// PaletteFor returns the palette of a theme. Unknown themes get the light palette.
func PaletteFor(theme domain.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[domain.DefaultTheme]
}

// LerpColor linearly interpolates between two colors.
func LerpColor(a, b domain.RGB, t float64) domain.RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return domain.NewRGB(
		uint8(float64(a.R)+t*float64(int(b.R)-int(a.R))),
		uint8(float64(a.G)+t*float64(int(b.G)-int(a.G))),
		uint8(float64(a.B)+t*float64(int(b.B)-int(a.B))),
	)
}

// DimColor reduces the brightness of a color by a factor (0-1).
func DimColor(c domain.RGB, factor float64) domain.RGB {
	if factor <= 0 {
		return ColorBlack
	}
	if factor >= 1 {
		return c
	}
	return domain.NewRGB(
		uint8(float64(c.R)*factor),
		uint8(float64(c.G)*factor),
		uint8(float64(c.B)*factor),
	)
}
