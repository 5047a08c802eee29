package tracker

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/storage"
)

// Glucose entry limits in mg/dL.
const (
	MinReading = 20
	MaxReading = 600
)

// Topic names a part of the state that views subscribe to.
type Topic string

const (
	TopicReadings Topic = "readings"
	TopicGoals    Topic = "goals"
	TopicFoods    Topic = "foods"
	TopicTheme    Topic = "theme"
)

// Listener redraws a view after its topic changed and was persisted.
type Listener func(ctx context.Context, s State)

// AlertConfig configures the low reading alert.
type AlertConfig struct {
	LowThreshold int
	Contact      string
}

// Controller applies user actions to the state.
// Every mutation is validated first, then persisted in full, then announced
// to the listeners of the changed topic.
type Controller struct {
	store     storage.Store
	state     *State
	now       func() time.Time
	loc       *time.Location
	ids       idSource
	alert     AlertConfig
	logger    *zap.Logger
	listeners map[Topic][]Listener
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLocation sets the timezone readings are entered in.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.loc = loc }
}

// WithAlert sets the low reading alert.
func WithAlert(cfg AlertConfig) Option {
	return func(c *Controller) { c.alert = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// New creates a controller over a loaded state.
func New(store storage.Store, state *State, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		state:     state,
		now:       time.Now,
		loc:       time.Local,
		alert:     AlertConfig{LowThreshold: 70},
		logger:    zap.NewNop(),
		listeners: make(map[Topic][]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ids.last = state.maxID()
	return c
}

// State returns the current state. Callers must not modify it.
func (c *Controller) State() State {
	return *c.state
}

// Subscribe registers a listener for a topic.
func (c *Controller) Subscribe(topic Topic, l Listener) {
	c.listeners[topic] = append(c.listeners[topic], l)
}

func (c *Controller) notify(ctx context.Context, topics ...Topic) {
	for _, t := range topics {
		for _, l := range c.listeners[t] {
			l(ctx, *c.state)
		}
	}
}

// commit persists all collections and notifies listeners. On failure the
// mutation is reverted and nobody is notified.
func (c *Controller) commit(ctx context.Context, undo func(), topics ...Topic) error {
	if err := storage.SaveRecords(ctx, c.store, c.state.Records); err != nil {
		undo()
		c.logger.Error("persist failed", zap.Error(err))
		return fmt.Errorf("persist records: %w", err)
	}
	c.notify(ctx, topics...)
	return nil
}

// ReadingInput is the glucose entry form.
type ReadingInput struct {
	Value int
	Date  string
	Time  string
	Note  string
}

// AddReading records a glucose reading. The returned notice is non-nil when
// the reading triggers the low alert.
func (c *Controller) AddReading(ctx context.Context, in ReadingInput) (domain.GlucoseReading, *Notice, error) {
	if in.Value < MinReading || in.Value > MaxReading {
		return domain.GlucoseReading{}, nil, invalid("value", "Please enter a valid glucose value (%d-%d mg/dL).", MinReading, MaxReading)
	}
	if strings.TrimSpace(in.Date) == "" {
		return domain.GlucoseReading{}, nil, invalid("date", "Please select a date.")
	}
	if strings.TrimSpace(in.Time) == "" {
		return domain.GlucoseReading{}, nil, invalid("time", "Please select a time.")
	}

	id := c.ids.next(c.now())
	r, err := domain.NewGlucoseReading(id, in.Value, in.Date, in.Time, strings.TrimSpace(in.Note), c.loc)
	if err != nil {
		return domain.GlucoseReading{}, nil, invalid("date", "%s", err.Error())
	}

	prev := c.state.Records.Readings
	c.state.Records.Readings = append(prev, r)
	if err := c.commit(ctx, func() { c.state.Records.Readings = prev }, TopicReadings); err != nil {
		return domain.GlucoseReading{}, nil, err
	}

	c.logger.Info("reading added",
		zap.Int64("reading_id", r.ID),
		zap.Int("value", r.Value),
		zap.String("date", r.Date),
	)
	return r, c.lowAlert(r.Value), nil
}

// DeleteReading removes the reading with the given id.
func (c *Controller) DeleteReading(ctx context.Context, id int64) error {
	prev := c.state.Records.Readings
	i := slices.IndexFunc(prev, func(r domain.GlucoseReading) bool { return r.ID == id })
	if i < 0 {
		return notFound("reading", id)
	}

	c.state.Records.Readings = slices.Delete(slices.Clone(prev), i, i+1)
	if err := c.commit(ctx, func() { c.state.Records.Readings = prev }, TopicReadings); err != nil {
		return err
	}
	c.logger.Info("reading deleted", zap.Int64("reading_id", id))
	return nil
}

// GoalInput is the goal entry form.
type GoalInput struct {
	Description string
	DueDate     string
	Category    domain.GoalCategory
}

// AddGoal creates a pending goal. An empty category means other.
func (c *Controller) AddGoal(ctx context.Context, in GoalInput) (domain.Goal, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return domain.Goal{}, invalid("description", "Please enter a goal description.")
	}
	category := in.Category
	if category == "" {
		category = domain.GoalOther
	}
	if !category.Valid() {
		return domain.Goal{}, invalid("category", "Unknown goal category %q.", in.Category)
	}
	if in.DueDate != "" {
		if _, err := time.Parse(domain.DateLayout, in.DueDate); err != nil {
			return domain.Goal{}, invalid("dueDate", "Invalid due date %q (expected YYYY-MM-DD).", in.DueDate)
		}
	}

	g := domain.Goal{
		ID:          c.ids.next(c.now()),
		Description: desc,
		DueDate:     in.DueDate,
		Category:    category,
	}

	prev := c.state.Records.Goals
	c.state.Records.Goals = append(prev, g)
	if err := c.commit(ctx, func() { c.state.Records.Goals = prev }, TopicGoals); err != nil {
		return domain.Goal{}, err
	}
	c.logger.Info("goal added", zap.Int64("goal_id", g.ID), zap.String("category", string(g.Category)))
	return g, nil
}

// CompleteGoal marks a goal completed. Completing a completed goal changes nothing
// and reports false.
func (c *Controller) CompleteGoal(ctx context.Context, id int64) (bool, error) {
	prev := c.state.Records.Goals
	i := slices.IndexFunc(prev, func(g domain.Goal) bool { return g.ID == id })
	if i < 0 {
		return false, notFound("goal", id)
	}
	if prev[i].Completed {
		return false, nil
	}

	goals := slices.Clone(prev)
	goals[i].Complete()
	c.state.Records.Goals = goals
	if err := c.commit(ctx, func() { c.state.Records.Goals = prev }, TopicGoals); err != nil {
		return false, err
	}
	c.logger.Info("goal completed", zap.Int64("goal_id", id))
	return true, nil
}

// DeleteGoal removes the goal with the given id.
func (c *Controller) DeleteGoal(ctx context.Context, id int64) error {
	prev := c.state.Records.Goals
	i := slices.IndexFunc(prev, func(g domain.Goal) bool { return g.ID == id })
	if i < 0 {
		return notFound("goal", id)
	}

	c.state.Records.Goals = slices.Delete(slices.Clone(prev), i, i+1)
	if err := c.commit(ctx, func() { c.state.Records.Goals = prev }, TopicGoals); err != nil {
		return err
	}
	c.logger.Info("goal deleted", zap.Int64("goal_id", id))
	return nil
}

// FoodInput is the food entry form.
type FoodInput struct {
	Name     string
	Category domain.FoodCategory
	Effect   domain.Effect
	Note     string
}

// AddFood logs a food dated today. Empty category and effect mean other and neutral.
func (c *Controller) AddFood(ctx context.Context, in FoodInput) (domain.FoodEntry, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.FoodEntry{}, invalid("name", "Please enter the food name.")
	}
	category, effect := in.Category, in.Effect
	if category == "" {
		category = domain.FoodOther
	}
	if effect == "" {
		effect = domain.EffectNeutral
	}
	if !category.Valid() {
		return domain.FoodEntry{}, invalid("category", "Unknown food category %q.", in.Category)
	}
	if !effect.Valid() {
		return domain.FoodEntry{}, invalid("effect", "Unknown effect %q.", in.Effect)
	}

	now := c.now()
	f := domain.FoodEntry{
		ID:       c.ids.next(now),
		Name:     name,
		Category: category,
		Effect:   effect,
		Note:     strings.TrimSpace(in.Note),
		Date:     now.In(c.loc).Format(domain.DateLayout),
	}

	prev := c.state.Records.Foods
	c.state.Records.Foods = append(prev, f)
	if err := c.commit(ctx, func() { c.state.Records.Foods = prev }, TopicFoods); err != nil {
		return domain.FoodEntry{}, err
	}
	c.logger.Info("food added", zap.Int64("food_id", f.ID), zap.String("effect", string(f.Effect)))
	return f, nil
}

// DeleteFood removes the food entry with the given id.
func (c *Controller) DeleteFood(ctx context.Context, id int64) error {
	prev := c.state.Records.Foods
	i := slices.IndexFunc(prev, func(f domain.FoodEntry) bool { return f.ID == id })
	if i < 0 {
		return notFound("food", id)
	}

	c.state.Records.Foods = slices.Delete(slices.Clone(prev), i, i+1)
	if err := c.commit(ctx, func() { c.state.Records.Foods = prev }, TopicFoods); err != nil {
		return err
	}
	c.logger.Info("food deleted", zap.Int64("food_id", id))
	return nil
}

// SetTheme stores the theme preference.
func (c *Controller) SetTheme(ctx context.Context, name string) (domain.Theme, error) {
	theme, ok := domain.ParseTheme(name)
	if !ok {
		return "", invalid("theme", "Unknown theme %q.", name)
	}
	if err := c.store.SetConfig(ctx, storage.ThemeKey, string(theme)); err != nil {
		return "", fmt.Errorf("persist theme: %w", err)
	}
	c.state.Theme = theme
	c.notify(ctx, TopicTheme)
	c.logger.Info("theme changed", zap.String("theme", string(theme)))
	return theme, nil
}

// ValidatePeriod checks a period request: both dates present, well formed and in order.
func ValidatePeriod(start, end string) error {
	if start == "" || end == "" {
		return invalid("period", "Please fill in both dates.")
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse(domain.DateLayout, d); err != nil {
			return invalid("period", "Invalid date %q (expected YYYY-MM-DD).", d)
		}
	}
	if start > end {
		return invalid("period", "The start date cannot be after the end date.")
	}
	return nil
}
