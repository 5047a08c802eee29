package tracker

import (
	"math"
	"sort"

	"github.com/jwulff/glycemia-go/internal/bloodsugar"
	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/stats"
)

// HistoryFilter narrows the history. Zero fields match everything.
type HistoryFilter struct {
	Date string
	Band bloodsugar.Band
}

// HistoryRow is one classified reading in the history list.
type HistoryRow struct {
	Reading domain.GlucoseReading
	Band    bloodsugar.Band
	Color   bloodsugar.ColorToken
}

// History lists readings newest first, classified and filtered.
func History(s State, f HistoryFilter) []HistoryRow {
	rows := make([]HistoryRow, 0, len(s.Records.Readings))
	for _, r := range s.Records.Readings {
		if f.Date != "" && r.Date != f.Date {
			continue
		}
		band := bloodsugar.Classify(r.Value)
		if f.Band != "" && band != f.Band {
			continue
		}
		rows = append(rows, HistoryRow{Reading: r, Band: band, Color: band.Color()})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Reading.Timestamp > rows[j].Reading.Timestamp
	})
	return rows
}

// GoalsView splits goals by completion and counts progress.
type GoalsView struct {
	Pending   []domain.Goal
	Completed []domain.Goal
	Total     int
	Done      int
	// Percent is the completed share rounded to a whole number.
	Percent int
}

// Goals builds the goals view.
func Goals(s State) GoalsView {
	v := GoalsView{Total: len(s.Records.Goals)}
	for _, g := range s.Records.Goals {
		if g.Completed {
			v.Completed = append(v.Completed, g)
		} else {
			v.Pending = append(v.Pending, g)
		}
	}
	v.Done = len(v.Completed)
	if v.Total > 0 {
		v.Percent = int(math.Round(float64(v.Done) / float64(v.Total) * 100))
	}
	return v
}

// Foods lists food entries with the newest date first.
func Foods(s State) []domain.FoodEntry {
	foods := append([]domain.FoodEntry(nil), s.Records.Foods...)
	sort.SliceStable(foods, func(i, j int) bool {
		return foods[i].Date > foods[j].Date
	})
	return foods
}

// IndexView is the glycemic index panel for a period.
type IndexView struct {
	Start           string
	End             string
	Summary         stats.Summary
	Control         bloodsugar.Control
	Recommendations []string
}

// Index computes the glycemic index panel. It reports false when the period has no readings.
func Index(s State, start, end string) (IndexView, bool) {
	readings := stats.FilterPeriod(s.Records.Readings, start, end)
	if len(readings) == 0 {
		return IndexView{Start: start, End: end}, false
	}
	summary := stats.Compute(readings)
	return IndexView{
		Start:           start,
		End:             end,
		Summary:         summary,
		Control:         summary.Control(),
		Recommendations: stats.IndexRecommendations(summary),
	}, true
}
