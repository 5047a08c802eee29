package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/jwulff/glycemia-go/internal/domain"
)

// ImportMode decides how imported records combine with existing ones.
type ImportMode string

const (
	// ImportMerge adds records whose id is not already present.
	ImportMerge ImportMode = "merge"
	// ImportReplace discards existing records.
	ImportReplace ImportMode = "replace"
)

// ParseImportMode parses a mode name.
func ParseImportMode(name string) (ImportMode, bool) {
	switch ImportMode(name) {
	case ImportMerge, ImportReplace:
		return ImportMode(name), true
	}
	return "", false
}

// ImportResult counts the records added per collection.
type ImportResult struct {
	Readings int
	Goals    int
	Foods    int
}

// EncodeBackup serializes records as indented JSON keyed by collection name.
func EncodeBackup(r domain.Records) ([]byte, error) {
	r = nonNil(r)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// DecodeBackup parses a backup written by EncodeBackup.
func DecodeBackup(data []byte) (domain.Records, error) {
	var r domain.Records
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.Records{}, fmt.Errorf("decode backup: %w", err)
	}
	return nonNil(r), nil
}

func nonNil(r domain.Records) domain.Records {
	if r.Readings == nil {
		r.Readings = []domain.GlucoseReading{}
	}
	if r.Goals == nil {
		r.Goals = []domain.Goal{}
	}
	if r.Foods == nil {
		r.Foods = []domain.FoodEntry{}
	}
	return r
}

// ValidateRecords checks imported records against the entry rules.
// Ids must be unique within each collection.
func ValidateRecords(r domain.Records) error {
	if err := uniqueIDs("Reading", r.Readings, func(rd domain.GlucoseReading) int64 { return rd.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("Goal", r.Goals, func(g domain.Goal) int64 { return g.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("Food", r.Foods, func(f domain.FoodEntry) int64 { return f.ID }); err != nil {
		return err
	}
	for _, rd := range r.Readings {
		if rd.Value < MinReading || rd.Value > MaxReading {
			return invalid("value", "Reading %d: value %d outside %d-%d mg/dL.", rd.ID, rd.Value, MinReading, MaxReading)
		}
		if _, err := time.Parse(domain.DateLayout, rd.Date); err != nil {
			return invalid("date", "Reading %d: invalid date %q.", rd.ID, rd.Date)
		}
		if _, err := time.Parse(domain.TimeLayout, rd.Time); err != nil {
			return invalid("time", "Reading %d: invalid time %q.", rd.ID, rd.Time)
		}
	}
	for _, g := range r.Goals {
		if g.Description == "" {
			return invalid("description", "Goal %d: missing description.", g.ID)
		}
		if !g.Category.Valid() {
			return invalid("category", "Goal %d: unknown category %q.", g.ID, g.Category)
		}
	}
	for _, f := range r.Foods {
		if f.Name == "" {
			return invalid("name", "Food %d: missing name.", f.ID)
		}
		if !f.Category.Valid() {
			return invalid("category", "Food %d: unknown category %q.", f.ID, f.Category)
		}
		if !f.Effect.Valid() {
			return invalid("effect", "Food %d: unknown effect %q.", f.ID, f.Effect)
		}
	}
	return nil
}

// Import brings records into the state. Reading timestamps are derived from
// their date and time in the controller's location.
func (c *Controller) Import(ctx context.Context, in domain.Records, mode ImportMode) (ImportResult, error) {
	if _, ok := ParseImportMode(string(mode)); !ok {
		return ImportResult{}, invalid("mode", "Unknown import mode %q.", mode)
	}
	if err := ValidateRecords(in); err != nil {
		return ImportResult{}, err
	}

	// Timestamps always follow date and time
	readings := slices.Clone(in.Readings)
	for i := range readings {
		if err := readings[i].SetDateTime(readings[i].Date, readings[i].Time, c.loc); err != nil {
			return ImportResult{}, invalid("date", "Reading %d: %s", readings[i].ID, err.Error())
		}
	}

	prev := c.state.Records
	var next domain.Records
	var res ImportResult
	if mode == ImportReplace {
		next = nonNil(domain.Records{
			Readings: readings,
			Goals:    slices.Clone(in.Goals),
			Foods:    slices.Clone(in.Foods),
		})
		res = ImportResult{Readings: len(next.Readings), Goals: len(next.Goals), Foods: len(next.Foods)}
	} else {
		next.Readings, res.Readings = merge(prev.Readings, readings, func(r domain.GlucoseReading) int64 { return r.ID })
		next.Goals, res.Goals = merge(prev.Goals, in.Goals, func(g domain.Goal) int64 { return g.ID })
		next.Foods, res.Foods = merge(prev.Foods, in.Foods, func(f domain.FoodEntry) int64 { return f.ID })
	}

	c.state.Records = next
	if err := c.commit(ctx, func() { c.state.Records = prev }, TopicReadings, TopicGoals, TopicFoods); err != nil {
		return ImportResult{}, err
	}
	c.ids.last = max(c.ids.last, c.state.maxID())

	c.logger.Info("records imported",
		zap.String("mode", string(mode)),
		zap.Int("readings", res.Readings),
		zap.Int("goals", res.Goals),
		zap.Int("foods", res.Foods),
	)
	return res, nil
}

func uniqueIDs[T any](kind string, items []T, id func(T) int64) error {
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if seen[id(item)] {
			return invalid("id", "%s id %d appears more than once.", kind, id(item))
		}
		seen[id(item)] = true
	}
	return nil
}

// merge appends the items of in whose id is not yet taken.
func merge[T any](existing, in []T, id func(T) int64) ([]T, int) {
	out := slices.Clone(existing)
	if out == nil {
		out = []T{}
	}
	seen := make(map[int64]bool, len(existing)+len(in))
	for _, e := range existing {
		seen[id(e)] = true
	}
	added := 0
	for _, item := range in {
		if seen[id(item)] {
			continue
		}
		seen[id(item)] = true
		out = append(out, item)
		added++
	}
	return out, added
}
