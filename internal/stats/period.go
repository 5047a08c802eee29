package stats

import (
	"time"

	"github.com/jwulff/glycemia-go/internal/domain"
)

// FilterPeriod returns the readings dated within [start, end].
// Dates are compared as ISO strings, without any timezone normalization.
func FilterPeriod(readings []domain.GlucoseReading, start, end string) []domain.GlucoseReading {
	out := make([]domain.GlucoseReading, 0, len(readings))
	for _, r := range readings {
		if start <= r.Date && r.Date <= end {
			out = append(out, r)
		}
	}
	return out
}

// FilterFoods returns the food entries dated within [start, end].
func FilterFoods(foods []domain.FoodEntry, start, end string) []domain.FoodEntry {
	out := make([]domain.FoodEntry, 0, len(foods))
	for _, f := range foods {
		if start <= f.Date && f.Date <= end {
			out = append(out, f)
		}
	}
	return out
}

// FilterGoalsCreated returns the goals whose creation date falls within [start, end].
func FilterGoalsCreated(goals []domain.Goal, start, end string) []domain.Goal {
	out := make([]domain.Goal, 0, len(goals))
	for _, g := range goals {
		created := g.CreatedDate()
		if start <= created && created <= end {
			out = append(out, g)
		}
	}
	return out
}

// LastDays returns the readings dated on or after the local midnight days before now.
func LastDays(readings []domain.GlucoseReading, days int, now time.Time) []domain.GlucoseReading {
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d-days, 0, 0, 0, 0, now.Location()).Format(domain.DateLayout)
	return FilterPeriod(readings, cutoff, "9999-12-31")
}
