// Package report composes glucose reports and renders them to files.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jwulff/glycemia-go/internal/bloodsugar"
	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/stats"
)

// Kind selects which sections a report contains.
type Kind string

const (
	KindComplete Kind = "complete"
	KindGlucose  Kind = "glucose"
	KindFoods    Kind = "foods"
	KindGoals    Kind = "goals"
	KindIndex    Kind = "index"
)

// Kinds lists every report kind.
var Kinds = []Kind{KindComplete, KindGlucose, KindFoods, KindGoals, KindIndex}

// ParseKind parses a kind name. The second return is false for unknown names.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Label returns the human label of the kind.
func (k Kind) Label() string {
	switch k {
	case KindComplete:
		return "Complete report"
	case KindGlucose:
		return "Glucose readings only"
	case KindFoods:
		return "Foods only"
	case KindGoals:
		return "Goals only"
	case KindIndex:
		return "Glycemic index"
	default:
		return string(k)
	}
}

func (k Kind) includes(section Kind) bool {
	return k == KindComplete || k == section
}

// Report texts.
const (
	Title    = "Diabetes Monitoring Report"
	Subtitle = "Taking care of your diabetes"
	Footer   = "Generated by glycemia. This report does not replace medical advice."
)

// Request selects the period and kind of a report. Dates are YYYY-MM-DD.
type Request struct {
	Start string
	End   string
	Kind  Kind
}

// Field is one labelled value.
type Field struct {
	Label string
	Value string
}

// Table is a titled grid of text cells.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Section is one titled block of a report.
// A section with neither fields nor tables shows its Empty message.
type Section struct {
	Title  string
	Fields []Field
	Tables []Table
	Empty  string
}

// IsEmpty reports whether the section has no content.
func (s Section) IsEmpty() bool {
	return len(s.Fields) == 0 && len(s.Tables) == 0
}

// Document is the renderer-independent content of a report.
type Document struct {
	ID              string
	Title           string
	Subtitle        string
	Start           string
	End             string
	Kind            Kind
	GeneratedAt     time.Time
	Stats           stats.Summary
	Summary         []Field
	Sections        []Section
	Recommendations []string
	Footer          string
}

// Period renders the report period as DD/MM/YYYY to DD/MM/YYYY.
func (d Document) Period() string {
	return displayDate(d.Start) + " to " + displayDate(d.End)
}

// Header returns the descriptive lines printed under the title.
func (d Document) Header() []Field {
	return []Field{
		{Label: "Period", Value: d.Period()},
		{Label: "Generated on", Value: d.GeneratedAt.Format("02/01/2006")},
		{Label: "Report type", Value: d.Kind.Label()},
	}
}

// FileName names the exported file after the UTC generation date.
func (d Document) FileName(ext string) string {
	return fmt.Sprintf("glucose-report-%s.%s", d.GeneratedAt.UTC().Format(domain.DateLayout), ext)
}

// Compose builds the report for the requested period.
// Readings and foods are selected by their date, goals by their creation date.
func Compose(records domain.Records, req Request, now time.Time) Document {
	readings := stats.FilterPeriod(records.Readings, req.Start, req.End)
	foods := stats.FilterFoods(records.Foods, req.Start, req.End)
	goals := stats.FilterGoalsCreated(records.Goals, req.Start, req.End)
	summary := stats.Compute(readings)

	doc := Document{
		ID:          uuid.NewString(),
		Title:       Title,
		Subtitle:    Subtitle,
		Start:       req.Start,
		End:         req.End,
		Kind:        req.Kind,
		GeneratedAt: now,
		Stats:       summary,
		Footer:      Footer,
	}

	if !summary.Empty() {
		doc.Summary = summaryFields(summary)
		doc.Recommendations = stats.ReportRecommendations(summary)
	}

	if req.Kind.includes(KindGlucose) {
		doc.Sections = append(doc.Sections, glucoseSection(readings))
	}
	if req.Kind.includes(KindFoods) {
		doc.Sections = append(doc.Sections, foodsSection(foods))
	}
	if req.Kind.includes(KindGoals) {
		doc.Sections = append(doc.Sections, goalsSection(goals))
	}
	if req.Kind.includes(KindIndex) {
		doc.Sections = append(doc.Sections, indexSection(summary))
	}

	return doc
}

func summaryFields(s stats.Summary) []Field {
	return []Field{
		{Label: "Mean glucose", Value: mgdl(s.RoundedMean())},
		{Label: "Minimum", Value: strconv.Itoa(s.Min) + " mg/dL"},
		{Label: "Maximum", Value: strconv.Itoa(s.Max) + " mg/dL"},
		{Label: "In range (70-180 mg/dL)", Value: percent(s.NormalPercent)},
		{Label: "Above range (>180 mg/dL)", Value: percent(s.HighPercent)},
		{Label: "Below range (<70 mg/dL)", Value: percent(s.LowPercent)},
	}
}

func glucoseSection(readings []domain.GlucoseReading) Section {
	sec := Section{Title: "Glucose Readings", Empty: "No glucose readings in this period."}
	if len(readings) == 0 {
		return sec
	}

	table := Table{Columns: []string{"Date", "Time", "mg/dL", "mmol/L", "Status", "Note"}}
	for _, r := range readings {
		table.Rows = append(table.Rows, []string{
			displayDate(r.Date),
			r.Time,
			strconv.Itoa(r.Value),
			strconv.FormatFloat(bloodsugar.MgdlToMmol(r.Value), 'f', 1, 64),
			bloodsugar.Classify(r.Value).Label(),
			orDash(r.Note),
		})
	}
	sec.Tables = []Table{table}
	return sec
}

func foodsSection(foods []domain.FoodEntry) Section {
	sec := Section{Title: "Foods", Empty: "No foods logged in this period."}
	if len(foods) == 0 {
		return sec
	}

	table := Table{Columns: []string{"Food", "Category", "Effect", "Note", "Date"}}
	for _, f := range foods {
		table.Rows = append(table.Rows, []string{
			f.Name,
			f.Category.Label(),
			f.Effect.Label(),
			orDash(f.Note),
			displayDate(f.Date),
		})
	}
	sec.Tables = []Table{table}
	return sec
}

func goalsSection(goals []domain.Goal) Section {
	sec := Section{Title: "Goals", Empty: "No goals created in this period."}

	pending := Table{Title: "Pending Goals", Columns: []string{"Goal", "Category", "Due"}}
	completed := Table{Title: "Completed Goals", Columns: []string{"Goal", "Category"}}
	for _, g := range goals {
		if g.Completed {
			completed.Rows = append(completed.Rows, []string{g.Description, g.Category.Label()})
			continue
		}
		due := "-"
		if g.DueDate != "" {
			due = "By " + displayDate(g.DueDate)
		}
		pending.Rows = append(pending.Rows, []string{g.Description, g.Category.Label(), due})
	}

	if len(pending.Rows) > 0 {
		sec.Tables = append(sec.Tables, pending)
	}
	if len(completed.Rows) > 0 {
		sec.Tables = append(sec.Tables, completed)
	}
	return sec
}

func indexSection(s stats.Summary) Section {
	sec := Section{Title: "Glycemic Index", Empty: "Not enough data to compute the glycemic index."}
	if s.Empty() {
		return sec
	}

	sec.Fields = []Field{
		{Label: "Mean glucose", Value: mgdl(s.RoundedMean())},
		{Label: "Rating", Value: s.Control().Label()},
		{Label: "Normal readings", Value: fmt.Sprintf("%d (%s)", s.Normal, percent(s.NormalPercent))},
		{Label: "High readings", Value: fmt.Sprintf("%d (%s)", s.High, percent(s.HighPercent))},
		{Label: "Low readings", Value: fmt.Sprintf("%d (%s)", s.Low, percent(s.LowPercent))},
	}
	return sec
}

// displayDate renders YYYY-MM-DD as DD/MM/YYYY, passing anything else through.
func displayDate(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

func mgdl(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + " mg/dL"
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
