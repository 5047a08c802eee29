package render

import (
	"strings"

	"github.com/jwulff/glycemia-go/internal/bloodsugar"
	"github.com/jwulff/glycemia-go/internal/domain"
)

// asciiPalette paints on black so brightness maps cleanly to glyph density.
var asciiPalette = Palette{
	Background: ColorBlack,
	Text:       ColorWhite,
	Axis:       DimColor(ColorWhite, 0.3),
	Line:       DimColor(ColorWhite, 0.7),
	Tokens:     statusColors,
	BandTint:   0.12,
}

// ASCIIChart renders readings as a text-mode chart of cols x rows characters.
// Markers are drawn with the first letter of their band. Empty input gives "".
func ASCIIChart(readings []domain.GlucoseReading, cols, rows int) string {
	d := Project(readings, ChartConfig{
		Width:  cols,
		Height: rows,
		Insets: Insets{Top: 1, Right: 1, Bottom: 1, Left: 1},
	})
	if d.Empty() {
		return ""
	}

	frame := domain.NewFrameWithColor(d.Width, d.Height, asciiPalette.Background)
	paintShapes(frame, d, asciiPalette, asciiPalette.BandTint)

	grid := frameGlyphs(frame)
	for _, m := range d.Markers {
		x, y := px(m.At.X), px(m.At.Y)
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = markerGlyph(m)
		}
	}

	return bordered(grid, frame.Width)
}

// ASCII renders a frame as bordered text, one character per pixel.
func ASCII(frame *domain.Frame) string {
	return bordered(frameGlyphs(frame), frame.Width)
}

func bordered(grid [][]rune, width int) string {
	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", width) + "┐\n")
	for _, row := range grid {
		b.WriteString("│" + string(row) + "│\n")
	}
	b.WriteString("└" + strings.Repeat("─", width) + "┘\n")
	return b.String()
}

func frameGlyphs(frame *domain.Frame) [][]rune {
	grid := make([][]rune, frame.Height)
	for y := 0; y < frame.Height; y++ {
		grid[y] = make([]rune, frame.Width)
		for x := 0; x < frame.Width; x++ {
			grid[y][x] = brightnessGlyph(frame.GetPixel(x, y))
		}
	}
	return grid
}

func brightnessGlyph(pixel *domain.RGB) rune {
	if pixel == nil {
		return ' '
	}

	brightness := (int(pixel.R) + int(pixel.G) + int(pixel.B)) / 3

	switch {
	case brightness > 200:
		return '█'
	case brightness > 150:
		return '▓'
	case brightness > 100:
		return '▒'
	case brightness > 50:
		return '░'
	case brightness > 10:
		return '·'
	default:
		return ' '
	}
}

func markerGlyph(m Marker) rune {
	switch m.Band {
	case bloodsugar.BandLow:
		return 'L'
	case bloodsugar.BandNormal:
		return 'N'
	case bloodsugar.BandHigh:
		return 'H'
	default:
		return 'V'
	}
}
