package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jwulff/glycemia-go/internal/domain"
)

var labelFace = basicfont.Face7x13

// Rasterize paints a drawing onto a new frame of the drawing's size.
// Bands go first, then the line, markers, tick labels and legend.
func Rasterize(d Drawing, p Palette) *domain.Frame {
	if d.Empty() {
		return domain.NewFrameWithColor(max(d.Width, 1), max(d.Height, 1), p.Background)
	}
	frame := domain.NewFrameWithColor(d.Width, d.Height, p.Background)
	paintShapes(frame, d, p, p.BandTint)
	paintLabels(frame, d, p)
	return frame
}

func paintShapes(frame *domain.Frame, d Drawing, p Palette, tint float64) {
	for _, b := range d.Bands {
		x, y := px(b.X), px(b.Y)
		frame.FillRect(x, y, px(b.X+b.W)-x, px(b.Y+b.H)-y, LerpColor(p.Background, p.Color(b.Color), tint))
	}

	// Plot frame: left axis and baseline
	left, top := px(d.Plot.X), px(d.Plot.Y)
	right, bottom := px(d.Plot.X+d.Plot.W), px(d.Plot.Y+d.Plot.H)
	frame.DrawLine(left, top, left, bottom, p.Axis)
	frame.DrawLine(left, bottom, right, bottom, p.Axis)

	for _, s := range d.Segments {
		frame.DrawLine(px(s.From.X), px(s.From.Y), px(s.To.X), px(s.To.Y), p.Line)
	}

	radius := markerRadius(d)
	for _, m := range d.Markers {
		frame.FillCircle(px(m.At.X), px(m.At.Y), radius, p.Color(m.Color))
	}
}

func paintLabels(frame *domain.Frame, d Drawing, p Palette) {
	ascent := labelFace.Metrics().Ascent.Ceil()

	for _, t := range d.YTicks {
		y := px(t.At.Y)
		x := px(t.At.X)
		frame.DrawLine(x-4, y, x, y, p.Axis)
		drawText(frame, t.Text, x-6-measureText(t.Text), y+ascent/2, p.Text)
	}

	for _, t := range d.XTicks {
		x := px(t.At.X) - measureText(t.Text)/2
		y := px(t.At.Y) + 4 + ascent
		drawText(frame, t.Text, x, y, p.Text)
	}

	// Legend runs right-aligned along the top margin
	const swatch, gap = 8, 12
	width := 0
	for _, e := range d.Legend {
		width += swatch + 4 + measureText(e.Text) + gap
	}
	x := px(d.Plot.X+d.Plot.W) - width + gap
	y := max(px(d.Plot.Y)-6, ascent)
	for _, e := range d.Legend {
		frame.FillRect(x, y-swatch, swatch, swatch, p.Color(e.Color))
		x += swatch + 4
		drawText(frame, e.Text, x, y, p.Text)
		x += measureText(e.Text) + gap
	}
}

// markerRadius shrinks markers on small surfaces so they do not swallow the line.
func markerRadius(d Drawing) int {
	if d.Plot.H < 8*MarkerRadius {
		return 0
	}
	return MarkerRadius
}

func drawText(frame *domain.Frame, text string, x, y int, c domain.RGB) {
	drawer := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(c),
		Face: labelFace,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

func measureText(text string) int {
	return font.MeasureString(labelFace, text).Ceil()
}

func px(v float64) int {
	return int(math.Round(v))
}

// EncodePNG writes the frame as a PNG image.
func EncodePNG(w io.Writer, frame *domain.Frame) error {
	if err := png.Encode(w, frame); err != nil {
		return fmt.Errorf("encode chart png: %w", err)
	}
	return nil
}

// RenderPNG projects, rasterizes and encodes readings in one step.
func RenderPNG(readings []domain.GlucoseReading, cfg ChartConfig, p Palette) ([]byte, error) {
	frame := Rasterize(Project(readings, cfg), p)
	var buf bytes.Buffer
	if err := EncodePNG(&buf, frame); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
