// Package stats computes aggregate metrics over glucose readings.
package stats

import (
	"math"

	"github.com/jwulff/glycemia-go/internal/bloodsugar"
	"github.com/jwulff/glycemia-go/internal/domain"
)

// Summary holds aggregate statistics over a set of readings.
// High counts every reading above the normal range, very-high included.
type Summary struct {
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Low    int     `json:"low"`
	Normal int     `json:"normal"`
	High   int     `json:"high"`

	// Percentages are rounded to one decimal independently, so they may not sum to 100.
	LowPercent    float64 `json:"lowPercent"`
	NormalPercent float64 `json:"normalPercent"`
	HighPercent   float64 `json:"highPercent"`
}

// Compute aggregates readings. An empty input yields the zero Summary.
func Compute(readings []domain.GlucoseReading) Summary {
	if len(readings) == 0 {
		return Summary{}
	}

	s := Summary{
		Total: len(readings),
		Min:   readings[0].Value,
		Max:   readings[0].Value,
	}

	sum := 0
	for _, r := range readings {
		sum += r.Value
		if r.Value < s.Min {
			s.Min = r.Value
		}
		if r.Value > s.Max {
			s.Max = r.Value
		}

		// Very high counts as high in the aggregate
		switch bloodsugar.Classify(r.Value) {
		case bloodsugar.BandLow:
			s.Low++
		case bloodsugar.BandNormal:
			s.Normal++
		default:
			s.High++
		}
	}

	s.Mean = float64(sum) / float64(s.Total)
	s.LowPercent = percent(s.Low, s.Total)
	s.NormalPercent = percent(s.Normal, s.Total)
	s.HighPercent = percent(s.High, s.Total)

	return s
}

// Empty reports whether the summary covers no readings.
func (s Summary) Empty() bool {
	return s.Total == 0
}

// Control rates the mean of the summary.
func (s Summary) Control() bloodsugar.Control {
	return bloodsugar.ControlLevel(s.Mean)
}

// RoundedMean returns the mean rounded to one decimal for display.
func (s Summary) RoundedMean() float64 {
	return round1(s.Mean)
}

func percent(count, total int) float64 {
	return round1(float64(count) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
