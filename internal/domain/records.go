// Package domain contains core domain types for the glycemia tracker.
package domain

import (
	"fmt"
	"time"
)

// Date and clock layouts used by every record.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// GlucoseReading is one timestamped blood-glucose measurement.
type GlucoseReading struct {
	ID        int64  `json:"id"`
	Value     int    `json:"value"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds of Date+Time
	Note      string `json:"note,omitempty"`
}

// NewGlucoseReading creates a reading with its timestamp derived from date and clock.
func NewGlucoseReading(id int64, value int, date, clock, note string, loc *time.Location) (GlucoseReading, error) {
	r := GlucoseReading{ID: id, Value: value, Note: note}
	if err := r.SetDateTime(date, clock, loc); err != nil {
		return GlucoseReading{}, err
	}
	return r, nil
}

// SetDateTime replaces date and clock and recomputes the timestamp.
// The three fields are only ever changed together.
func (r *GlucoseReading) SetDateTime(date, clock string, loc *time.Location) error {
	ts, err := ReadingTimestamp(date, clock, loc)
	if err != nil {
		return err
	}
	r.Date = date
	r.Time = clock
	r.Timestamp = ts
	return nil
}

// ReadingTimestamp combines an ISO date and a HH:MM clock into Unix milliseconds.
func ReadingTimestamp(date, clock string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid date/time %q %q (expected YYYY-MM-DD and HH:MM)", date, clock)
	}
	return t.UnixMilli(), nil
}

// GoalCategory classifies a care goal.
type GoalCategory string

const (
	GoalExercise        GoalCategory = "exercise"
	GoalDiet            GoalCategory = "diet"
	GoalMedication      GoalCategory = "medication"
	GoalGlycemicControl GoalCategory = "glycemic-control"
	GoalOther           GoalCategory = "other"
)

// GoalCategories lists every goal category.
var GoalCategories = []GoalCategory{GoalExercise, GoalDiet, GoalMedication, GoalGlycemicControl, GoalOther}

// Label returns the human label of the category.
func (c GoalCategory) Label() string {
	switch c {
	case GoalExercise:
		return "Exercise"
	case GoalDiet:
		return "Diet"
	case GoalMedication:
		return "Medication"
	case GoalGlycemicControl:
		return "Glycemic Control"
	case GoalOther:
		return "Other"
	default:
		return string(c)
	}
}

// Valid reports whether c is a known category.
func (c GoalCategory) Valid() bool {
	for _, known := range GoalCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Goal is a care goal. Goals start pending and can only move to completed.
type Goal struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	DueDate     string       `json:"dueDate,omitempty"`
	Category    GoalCategory `json:"category"`
	Completed   bool         `json:"completed"`
}

// Complete marks the goal completed. It reports whether the state changed.
func (g *Goal) Complete() bool {
	if g.Completed {
		return false
	}
	g.Completed = true
	return true
}

// CreatedDate returns the UTC creation date encoded in the goal id.
func (g Goal) CreatedDate() string {
	return time.UnixMilli(g.ID).UTC().Format(DateLayout)
}

// FoodCategory classifies a food entry.
type FoodCategory string

const (
	FoodCarbohydrate FoodCategory = "carbohydrate"
	FoodProtein      FoodCategory = "protein"
	FoodFat          FoodCategory = "fat"
	FoodFiber        FoodCategory = "fiber"
	FoodFruit        FoodCategory = "fruit"
	FoodVegetable    FoodCategory = "vegetable"
	FoodDairy        FoodCategory = "dairy"
	FoodOther        FoodCategory = "other"
)

// FoodCategories lists every food category.
var FoodCategories = []FoodCategory{
	FoodCarbohydrate, FoodProtein, FoodFat, FoodFiber,
	FoodFruit, FoodVegetable, FoodDairy, FoodOther,
}

// Label returns the human label of the category.
func (c FoodCategory) Label() string {
	switch c {
	case FoodCarbohydrate:
		return "Carbohydrate"
	case FoodProtein:
		return "Protein"
	case FoodFat:
		return "Fat"
	case FoodFiber:
		return "Fiber"
	case FoodFruit:
		return "Fruit"
	case FoodVegetable:
		return "Vegetable"
	case FoodDairy:
		return "Dairy"
	case FoodOther:
		return "Other"
	default:
		return string(c)
	}
}

// Valid reports whether c is a known category.
func (c FoodCategory) Valid() bool {
	for _, known := range FoodCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Effect is the observed effect of a food on glucose.
type Effect string

const (
	EffectPositive Effect = "positive"
	EffectNegative Effect = "negative"
	EffectNeutral  Effect = "neutral"
)

// Effects lists every effect.
var Effects = []Effect{EffectPositive, EffectNegative, EffectNeutral}

// Label returns the human label of the effect.
func (e Effect) Label() string {
	switch e {
	case EffectPositive:
		return "Positive (controls)"
	case EffectNegative:
		return "Negative (raises)"
	case EffectNeutral:
		return "Neutral"
	default:
		return string(e)
	}
}

// Valid reports whether e is a known effect.
func (e Effect) Valid() bool {
	for _, known := range Effects {
		if e == known {
			return true
		}
	}
	return false
}

// FoodEntry is a logged food and its observed effect.
type FoodEntry struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Category FoodCategory `json:"category"`
	Effect   Effect       `json:"effect"`
	Note     string       `json:"note,omitempty"`
	Date     string       `json:"date"`
}

// Records holds the three record collections in insertion order.
// JSON keys match the persisted collection names.
type Records struct {
	Readings []GlucoseReading `json:"glicemias"`
	Goals    []Goal           `json:"metas"`
	Foods    []FoodEntry      `json:"alimentos"`
}

// Collection names one of the record collections.
type Collection string

const (
	CollectionReadings Collection = "glicemias"
	CollectionGoals    Collection = "metas"
	CollectionFoods    Collection = "alimentos"
)

// Collections lists every collection in persistence order.
var Collections = []Collection{CollectionReadings, CollectionGoals, CollectionFoods}
