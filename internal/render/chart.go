package render

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jwulff/glycemia-go/internal/bloodsugar"
	"github.com/jwulff/glycemia-go/internal/domain"
)

// Projection constants in mg/dL.
const (
	DomainPadding = 20
	MinDomainSpan = 50
	BandCeiling   = 400
)

// MarkerRadius is the radius of a reading marker in pixels.
const MarkerRadius = 4

// Insets reserve room around the plot area for tick labels and the legend.
type Insets struct {
	Top, Right, Bottom, Left int
}

// DefaultInsets are used when a config sets neither size nor insets.
var DefaultInsets = Insets{Top: 24, Right: 16, Bottom: 28, Left: 44}

// ChartConfig configures the chart projection.
type ChartConfig struct {
	Width  int
	Height int
	Insets Insets
}

// NewChartConfig creates a chart config with the default insets.
func NewChartConfig(width, height int) ChartConfig {
	return ChartConfig{
		Width:  width,
		Height: height,
		Insets: DefaultInsets,
	}
}

// ApplyDefaults applies default values to zero fields.
func (c *ChartConfig) ApplyDefaults() {
	if c.Width == 0 && c.Height == 0 && c.Insets == (Insets{}) {
		c.Insets = DefaultInsets
	}
	if c.Width == 0 {
		c.Width = 800
	}
	if c.Height == 0 {
		c.Height = 400
	}
}

func (c ChartConfig) plotArea() Rect {
	w := c.Width - c.Insets.Left - c.Insets.Right
	h := c.Height - c.Insets.Top - c.Insets.Bottom
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Rect{X: float64(c.Insets.Left), Y: float64(c.Insets.Top), W: float64(w), H: float64(h)}
}

// Point is a pixel coordinate with the origin at the top-left.
type Point struct {
	X, Y float64
}

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Domain is the vertical value range of the chart in mg/dL.
type Domain struct {
	Min, Max float64
}

// BandRect is a filled background band aligned to the classifier thresholds.
type BandRect struct {
	Rect
	Band  bloodsugar.Band
	Color bloodsugar.ColorToken
}

// Segment is a straight line between two consecutive readings.
type Segment struct {
	From, To Point
}

// Marker is a point marker for one reading.
type Marker struct {
	At    Point
	Value int
	Band  bloodsugar.Band
	Color bloodsugar.ColorToken
}

// Tick is an axis label anchored on the plot edge.
type Tick struct {
	At    Point
	Value float64
	Text  string
}

// LegendEntry describes one band in the legend.
type LegendEntry struct {
	Band  bloodsugar.Band
	Text  string
	Color bloodsugar.ColorToken
}

// Drawing is the projected chart as drawing primitives, independent of any graphics binding.
type Drawing struct {
	Width    int
	Height   int
	Plot     Rect
	Domain   Domain
	Bands    []BandRect
	Segments []Segment
	Markers  []Marker
	YTicks   []Tick
	XTicks   []Tick
	Legend   []LegendEntry
}

// Empty reports whether the drawing has nothing to paint.
func (d Drawing) Empty() bool {
	return len(d.Markers) == 0
}

type bandRange struct {
	lo, hi float64
	band   bloodsugar.Band
}

var bandRanges = []bandRange{
	{0, bloodsugar.ThresholdLow, bloodsugar.BandLow},
	{bloodsugar.ThresholdLow, bloodsugar.ThresholdHigh, bloodsugar.BandNormal},
	{bloodsugar.ThresholdHigh, bloodsugar.ThresholdVeryHigh, bloodsugar.BandHigh},
	{bloodsugar.ThresholdVeryHigh, BandCeiling, bloodsugar.BandVeryHigh},
}

// SortReadings returns a copy of readings ordered by timestamp.
// Readings with equal timestamps keep their original order.
func SortReadings(readings []domain.GlucoseReading) []domain.GlucoseReading {
	sorted := make([]domain.GlucoseReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// Project lays out readings as a line chart with classifier-colored markers.
// An empty input yields an empty Drawing.
func Project(readings []domain.GlucoseReading, cfg ChartConfig) Drawing {
	cfg.ApplyDefaults()

	if len(readings) == 0 {
		return Drawing{}
	}

	sorted := SortReadings(readings)
	plot := cfg.plotArea()
	dom := calculateDomain(sorted)

	d := Drawing{
		Width:  cfg.Width,
		Height: cfg.Height,
		Plot:   plot,
		Domain: dom,
		Bands:  projectBands(dom, plot),
	}

	points := make([]Point, len(sorted))
	for i, r := range sorted {
		points[i] = Point{
			X: indexToX(i, len(sorted), plot),
			Y: valueToY(float64(r.Value), dom, plot),
		}
	}

	for i := 1; i < len(points); i++ {
		d.Segments = append(d.Segments, Segment{From: points[i-1], To: points[i]})
	}

	for i, r := range sorted {
		band := bloodsugar.Classify(r.Value)
		d.Markers = append(d.Markers, Marker{
			At:    points[i],
			Value: r.Value,
			Band:  band,
			Color: band.Color(),
		})
	}

	d.YTicks = yTicks(sorted, dom, plot)
	d.XTicks = xTicks(sorted, points, plot)
	d.Legend = legend()

	return d
}

// calculateDomain pads the value range and enforces a minimum span.
func calculateDomain(sorted []domain.GlucoseReading) Domain {
	lo, hi := valueRange(sorted)

	dom := Domain{Min: float64(lo - DomainPadding), Max: float64(hi + DomainPadding)}
	if span := dom.Max - dom.Min; span < MinDomainSpan {
		extra := (MinDomainSpan - span) / 2
		dom.Min -= extra
		dom.Max += extra
	}
	return dom
}

func valueRange(readings []domain.GlucoseReading) (int, int) {
	lo, hi := readings[0].Value, readings[0].Value
	for _, r := range readings[1:] {
		if r.Value < lo {
			lo = r.Value
		}
		if r.Value > hi {
			hi = r.Value
		}
	}
	return lo, hi
}

// indexToX spaces readings evenly regardless of the time between them.
func indexToX(i, n int, plot Rect) float64 {
	if n == 1 {
		return plot.X + plot.W/2
	}
	return plot.X + float64(i)/float64(n-1)*plot.W
}

// valueToY maps a value into the plot. Higher values sit nearer the top.
func valueToY(v float64, dom Domain, plot Rect) float64 {
	return plot.Y + (dom.Max-v)/(dom.Max-dom.Min)*plot.H
}

func projectBands(dom Domain, plot Rect) []BandRect {
	var bands []BandRect
	for _, br := range bandRanges {
		lo := max(br.lo, dom.Min)
		hi := min(br.hi, dom.Max)
		if hi <= lo {
			continue
		}
		top := valueToY(hi, dom, plot)
		bottom := valueToY(lo, dom, plot)
		bands = append(bands, BandRect{
			Rect:  Rect{X: plot.X, Y: top, W: plot.W, H: bottom - top},
			Band:  br.band,
			Color: br.band.Color(),
		})
	}
	return bands
}

func yTicks(sorted []domain.GlucoseReading, dom Domain, plot Rect) []Tick {
	var values []int
	for _, th := range []int{bloodsugar.ThresholdLow, bloodsugar.ThresholdHigh, bloodsugar.ThresholdVeryHigh} {
		if float64(th) >= dom.Min && float64(th) <= dom.Max {
			values = append(values, th)
		}
	}

	lo, hi := valueRange(sorted)
	if lo < bloodsugar.ThresholdLow {
		values = append(values, lo)
	}
	if hi > bloodsugar.ThresholdVeryHigh {
		values = append(values, hi)
	}
	sort.Ints(values)

	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{
			At:    Point{X: plot.X, Y: valueToY(float64(v), dom, plot)},
			Value: float64(v),
			Text:  strconv.Itoa(v),
		})
	}
	return ticks
}

// xTicks labels only the first, middle and last readings.
func xTicks(sorted []domain.GlucoseReading, points []Point, plot Rect) []Tick {
	n := len(sorted)
	indexes := []int{0, n / 2, n - 1}

	var ticks []Tick
	seen := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		if seen[i] {
			continue
		}
		seen[i] = true
		ticks = append(ticks, Tick{
			At:    Point{X: points[i].X, Y: plot.Y + plot.H},
			Value: float64(i),
			Text:  shortDate(sorted[i].Date),
		})
	}
	return ticks
}

// shortDate renders an ISO date as DD/MM.
func shortDate(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01")
}

func legend() []LegendEntry {
	texts := map[bloodsugar.Band]string{
		bloodsugar.BandLow:      fmt.Sprintf("<%d", bloodsugar.ThresholdLow),
		bloodsugar.BandNormal:   fmt.Sprintf("%d-%d", bloodsugar.ThresholdLow, bloodsugar.ThresholdHigh),
		bloodsugar.BandHigh:     fmt.Sprintf("%d-%d", bloodsugar.ThresholdHigh+1, bloodsugar.ThresholdVeryHigh),
		bloodsugar.BandVeryHigh: fmt.Sprintf(">%d", bloodsugar.ThresholdVeryHigh),
	}

	entries := make([]LegendEntry, 0, len(bloodsugar.Bands))
	for _, b := range bloodsugar.Bands {
		entries = append(entries, LegendEntry{
			Band:  b,
			Text:  b.Label() + " " + texts[b],
			Color: b.Color(),
		})
	}
	return entries
}
