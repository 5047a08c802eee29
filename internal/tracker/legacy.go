package tracker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwulff/glycemia-go/internal/domain"
)

// Browser export format: the three localStorage collections with Portuguese keys.
type legacyExport struct {
	Readings []legacyReading `json:"glicemias"`
	Goals    []legacyGoal    `json:"metas"`
	Foods    []legacyFood    `json:"alimentos"`
}

type legacyReading struct {
	ID        int64  `json:"id"`
	Value     int    `json:"glicemia"`
	Date      string `json:"data"`
	Time      string `json:"hora"`
	Note      string `json:"observacao"`
	Timestamp *int64 `json:"timestamp"`
}

type legacyGoal struct {
	ID          int64  `json:"id"`
	Description string `json:"descricao"`
	DueDate     string `json:"dataLimite"`
	Category    string `json:"categoria"`
	Completed   bool   `json:"concluida"`
}

type legacyFood struct {
	ID       int64  `json:"id"`
	Name     string `json:"alimento"`
	Category string `json:"categoria"`
	Effect   string `json:"efeito"`
	Note     string `json:"observacao"`
	Date     string `json:"data"`
}

var legacyGoalCategories = map[string]domain.GoalCategory{
	"exercicio":   domain.GoalExercise,
	"alimentacao": domain.GoalDiet,
	"medicacao":   domain.GoalMedication,
	"controle":    domain.GoalGlycemicControl,
	"outro":       domain.GoalOther,
}

var legacyFoodCategories = map[string]domain.FoodCategory{
	"carboidrato": domain.FoodCarbohydrate,
	"proteina":    domain.FoodProtein,
	"gordura":     domain.FoodFat,
	"fibra":       domain.FoodFiber,
	"fruta":       domain.FoodFruit,
	"vegetal":     domain.FoodVegetable,
	"laticinio":   domain.FoodDairy,
	"outro":       domain.FoodOther,
}

var legacyEffects = map[string]domain.Effect{
	"positivo": domain.EffectPositive,
	"negativo": domain.EffectNegative,
	"neutro":   domain.EffectNeutral,
}

// ParseLegacy converts a browser localStorage export into records.
// Reading timestamps are derived from date and time in loc.
func ParseLegacy(data []byte, loc *time.Location) (domain.Records, error) {
	var in legacyExport
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.Records{}, fmt.Errorf("decode legacy export: %w", err)
	}

	out := domain.Records{
		Readings: make([]domain.GlucoseReading, 0, len(in.Readings)),
		Goals:    make([]domain.Goal, 0, len(in.Goals)),
		Foods:    make([]domain.FoodEntry, 0, len(in.Foods)),
	}

	for _, r := range in.Readings {
		// The stored timestamp is ignored in favor of date and time
		reading := domain.GlucoseReading{ID: r.ID, Value: r.Value, Note: r.Note}
		if err := reading.SetDateTime(r.Date, r.Time, loc); err != nil {
			return domain.Records{}, fmt.Errorf("legacy reading %d: %w", r.ID, err)
		}
		out.Readings = append(out.Readings, reading)
	}

	for _, g := range in.Goals {
		category, ok := legacyGoalCategories[g.Category]
		if !ok {
			return domain.Records{}, fmt.Errorf("legacy goal %d: unknown category %q", g.ID, g.Category)
		}
		out.Goals = append(out.Goals, domain.Goal{
			ID:          g.ID,
			Description: g.Description,
			DueDate:     g.DueDate,
			Category:    category,
			Completed:   g.Completed,
		})
	}

	for _, f := range in.Foods {
		category, ok := legacyFoodCategories[f.Category]
		if !ok {
			return domain.Records{}, fmt.Errorf("legacy food %d: unknown category %q", f.ID, f.Category)
		}
		effect, ok := legacyEffects[f.Effect]
		if !ok {
			return domain.Records{}, fmt.Errorf("legacy food %d: unknown effect %q", f.ID, f.Effect)
		}
		out.Foods = append(out.Foods, domain.FoodEntry{
			ID:       f.ID,
			Name:     f.Name,
			Category: category,
			Effect:   effect,
			Note:     f.Note,
			Date:     f.Date,
		})
	}

	return out, nil
}
