package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/storage"
	"github.com/jwulff/glycemia-go/internal/storage/sqlite"
)

var testNow = time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

func frozenClock() func() time.Time {
	return func() time.Time { return testNow }
}

// failingStore fails collection saves once armed. With failKey set only
// batches touching that collection fail, and a failed batch writes nothing.
type failingStore struct {
	*sqlite.Store
	fail    bool
	failKey domain.Collection
}

func (s *failingStore) SaveCollections(ctx context.Context, entries []storage.CollectionData) error {
	for _, e := range entries {
		if s.fail && (s.failKey == "" || s.failKey == e.Key) {
			return fmt.Errorf("save %s: %w", e.Key, errors.New("disk full"))
		}
	}
	return s.Store.SaveCollections(ctx, entries)
}

func newTestStore(t *testing.T) *failingStore {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return &failingStore{Store: store}
}

func newTestController(t *testing.T, opts ...Option) (*Controller, *failingStore) {
	store := newTestStore(t)
	state, err := Load(context.Background(), store)
	require.NoError(t, err)

	opts = append([]Option{WithClock(frozenClock()), WithLocation(time.UTC)}, opts...)
	return New(store, state, opts...), store
}

func TestAddReadingPersists(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t)

	r, notice, err := c.AddReading(ctx, ReadingInput{Value: 120, Date: "2026-04-10", Time: "08:15", Note: " after run "})
	require.NoError(t, err)
	assert.Nil(t, notice)

	assert.Equal(t, testNow.UnixMilli(), r.ID)
	assert.Equal(t, time.Date(2026, 4, 10, 8, 15, 0, 0, time.UTC).UnixMilli(), r.Timestamp)
	assert.Equal(t, "after run", r.Note)

	state, err := Load(ctx, store)
	require.NoError(t, err)
	require.Len(t, state.Records.Readings, 1)
	assert.Equal(t, r, state.Records.Readings[0])
}

func TestAddReadingValidation(t *testing.T) {
	tests := []struct {
		name  string
		input ReadingInput
		field string
	}{
		{"below range", ReadingInput{Value: 19, Date: "2026-04-10", Time: "08:00"}, "value"},
		{"above range", ReadingInput{Value: 601, Date: "2026-04-10", Time: "08:00"}, "value"},
		{"missing date", ReadingInput{Value: 100, Time: "08:00"}, "date"},
		{"missing time", ReadingInput{Value: 100, Date: "2026-04-10"}, "time"},
		{"malformed date", ReadingInput{Value: 100, Date: "10/04/2026", Time: "08:00"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t)
			notified := false
			c.Subscribe(TopicReadings, func(context.Context, State) { notified = true })

			_, _, err := c.AddReading(context.Background(), tt.input)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Empty(t, c.State().Records.Readings)
			assert.False(t, notified)
		})
	}
}

func TestAddReadingRangeBoundsAccepted(t *testing.T) {
	c, _ := newTestController(t)

	for _, v := range []int{MinReading, MaxReading} {
		_, _, err := c.AddReading(context.Background(), ReadingInput{Value: v, Date: "2026-04-10", Time: "08:00"})
		require.NoError(t, err, "value %d", v)
	}
	assert.Len(t, c.State().Records.Readings, 2)
}

func TestListenersRunAfterPersist(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t)

	var persisted []domain.GlucoseReading
	goalsNotified := false
	c.Subscribe(TopicReadings, func(ctx context.Context, s State) {
		loaded, err := storage.LoadRecords(ctx, store)
		require.NoError(t, err)
		persisted = loaded.Readings
	})
	c.Subscribe(TopicGoals, func(context.Context, State) { goalsNotified = true })

	_, _, err := c.AddReading(ctx, ReadingInput{Value: 95, Date: "2026-04-10", Time: "07:00"})
	require.NoError(t, err)

	require.Len(t, persisted, 1)
	assert.Equal(t, 95, persisted[0].Value)
	assert.False(t, goalsNotified)
}

func TestPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t)
	_, _, err := c.AddReading(ctx, ReadingInput{Value: 95, Date: "2026-04-10", Time: "07:00"})
	require.NoError(t, err)

	notified := false
	c.Subscribe(TopicReadings, func(context.Context, State) { notified = true })
	store.fail = true

	_, _, err = c.AddReading(ctx, ReadingInput{Value: 140, Date: "2026-04-10", Time: "12:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, c.State().Records.Readings, 1)

	err = c.DeleteReading(ctx, c.State().Records.Readings[0].ID)
	require.Error(t, err)
	assert.Len(t, c.State().Records.Readings, 1)
	assert.False(t, notified)
}

func TestPartialPersistFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t)
	store.fail = true
	store.failKey = domain.CollectionGoals

	_, _, err := c.AddReading(ctx, ReadingInput{Value: 140, Date: "2026-04-10", Time: "12:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save metas: disk full")
	assert.Empty(t, c.State().Records.Readings)

	store.fail = false
	persisted, err := storage.LoadRecords(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, persisted.Readings)
}

func TestLowAlert(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t, WithAlert(AlertConfig{LowThreshold: 70, Contact: "Ana 555-0100"}))

	_, notice, err := c.AddReading(ctx, ReadingInput{Value: 65, Date: "2026-04-10", Time: "07:00"})
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeAlert, notice.Kind)
	assert.Contains(t, notice.Message, "65 mg/dL")
	assert.Contains(t, notice.Message, "Ana 555-0100")

	_, notice, err = c.AddReading(ctx, ReadingInput{Value: 70, Date: "2026-04-10", Time: "07:05"})
	require.NoError(t, err)
	assert.Nil(t, notice)
}

func TestLowAlertNeedsContact(t *testing.T) {
	c, _ := newTestController(t, WithAlert(AlertConfig{LowThreshold: 70}))

	_, notice, err := c.AddReading(context.Background(), ReadingInput{Value: 50, Date: "2026-04-10", Time: "07:00"})
	require.NoError(t, err)
	assert.Nil(t, notice)

	_, err = c.TestAlert()
	assert.True(t, IsValidation(err))
}

func TestTestAlert(t *testing.T) {
	c, _ := newTestController(t, WithAlert(AlertConfig{LowThreshold: 65, Contact: "Bea"}))

	notice, err := c.TestAlert()
	require.NoError(t, err)
	assert.Equal(t, NoticeInfo, notice.Kind)
	assert.Equal(t, "Test alert: glucose below 65 mg/dL. A message would be sent to Bea.", notice.Message)
}

func TestIDsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t)

	r1, _, err := c.AddReading(ctx, ReadingInput{Value: 100, Date: "2026-04-10", Time: "07:00"})
	require.NoError(t, err)
	g, err := c.AddGoal(ctx, GoalInput{Description: "Walk"})
	require.NoError(t, err)
	r2, _, err := c.AddReading(ctx, ReadingInput{Value: 110, Date: "2026-04-10", Time: "08:00"})
	require.NoError(t, err)

	assert.Equal(t, r1.ID+1, g.ID)
	assert.Equal(t, g.ID+1, r2.ID)
}

func TestIDsContinuePastStoredRecords(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	future := testNow.Add(time.Hour).UnixMilli()
	require.NoError(t, storage.SaveRecords(ctx, store, domain.Records{
		Goals: []domain.Goal{{ID: future, Description: "Walk", Category: domain.GoalExercise}},
	}))

	state, err := Load(ctx, store)
	require.NoError(t, err)
	c := New(store, state, WithClock(frozenClock()), WithLocation(time.UTC))

	r, _, err := c.AddReading(ctx, ReadingInput{Value: 100, Date: "2026-04-10", Time: "07:00"})
	require.NoError(t, err)
	assert.Equal(t, future+1, r.ID)
}

func TestDeleteReading(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t)
	r1, _, _ := c.AddReading(ctx, ReadingInput{Value: 100, Date: "2026-04-10", Time: "07:00"})
	r2, _, _ := c.AddReading(ctx, ReadingInput{Value: 110, Date: "2026-04-10", Time: "08:00"})

	require.NoError(t, c.DeleteReading(ctx, r1.ID))

	state, err := Load(ctx, store)
	require.NoError(t, err)
	require.Len(t, state.Records.Readings, 1)
	assert.Equal(t, r2.ID, state.Records.Readings[0].ID)

	err = c.DeleteReading(ctx, r1.ID)
	assert.True(t, storage.IsNotFound(err))
}

func TestDeleteDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t)
	r, _, _ := c.AddReading(ctx, ReadingInput{Value: 100, Date: "2026-04-10", Time: "07:00"})
	_, err := c.AddGoal(ctx, GoalInput{Description: "Walk"})
	require.NoError(t, err)
	_, err = c.AddFood(ctx, FoodInput{Name: "Oats"})
	require.NoError(t, err)

	require.NoError(t, c.DeleteReading(ctx, r.ID))

	assert.Len(t, c.State().Records.Goals, 1)
	assert.Len(t, c.State().Records.Foods, 1)
}

func TestAddGoal(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t)

	g, err := c.AddGoal(ctx, GoalInput{Description: "Walk 30 minutes", DueDate: "2026-04-30", Category: domain.GoalExercise})
	require.NoError(t, err)
	assert.False(t, g.Completed)
	assert.Equal(t, domain.GoalExercise, g.Category)

	g, err = c.AddGoal(ctx, GoalInput{Description: "Something"})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalOther, g.Category)

	_, err = c.AddGoal(ctx, GoalInput{Description: "  "})
	assert.True(t, IsValidation(err))
	_, err = c.AddGoal(ctx, GoalInput{Description: "Swim", Category: "sport"})
	assert.True(t, IsValidation(err))
	_, err = c.AddGoal(ctx, GoalInput{Description: "Swim", DueDate: "soon"})
	assert.True(t, IsValidation(err))

	assert.Len(t, c.State().Records.Goals, 2)
}

func TestCompleteGoalIsOneWay(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t)
	g, err := c.AddGoal(ctx, GoalInput{Description: "Walk"})
	require.NoError(t, err)

	calls := 0
	c.Subscribe(TopicGoals, func(context.Context, State) { calls++ })

	changed, err := c.CompleteGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = c.CompleteGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, calls)

	state, err := Load(ctx, store)
	require.NoError(t, err)
	assert.True(t, state.Records.Goals[0].Completed)

	_, err = c.CompleteGoal(ctx, 42)
	assert.True(t, storage.IsNotFound(err))
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t)
	g, _ := c.AddGoal(ctx, GoalInput{Description: "Walk"})

	require.NoError(t, c.DeleteGoal(ctx, g.ID))
	assert.Empty(t, c.State().Records.Goals)
	assert.True(t, storage.IsNotFound(c.DeleteGoal(ctx, g.ID)))
}

func TestAddFood(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("BRT", -3*60*60)
	late := time.Date(2026, 4, 11, 1, 0, 0, 0, time.UTC)
	c, _ := newTestController(t, WithLocation(loc), WithClock(func() time.Time { return late }))

	f, err := c.AddFood(ctx, FoodInput{Name: "Oats", Category: domain.FoodFiber, Effect: domain.EffectPositive})
	require.NoError(t, err)
	// Still the 10th in the configured zone
	assert.Equal(t, "2026-04-10", f.Date)

	f, err = c.AddFood(ctx, FoodInput{Name: "Bread"})
	require.NoError(t, err)
	assert.Equal(t, domain.FoodOther, f.Category)
	assert.Equal(t, domain.EffectNeutral, f.Effect)

	_, err = c.AddFood(ctx, FoodInput{})
	assert.True(t, IsValidation(err))
	_, err = c.AddFood(ctx, FoodInput{Name: "Cake", Effect: "sweet"})
	assert.True(t, IsValidation(err))
}

func TestDeleteFood(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t)
	f, _ := c.AddFood(ctx, FoodInput{Name: "Oats"})

	require.NoError(t, c.DeleteFood(ctx, f.ID))
	assert.Empty(t, c.State().Records.Foods)
	assert.True(t, storage.IsNotFound(c.DeleteFood(ctx, f.ID)))
}

func TestSetTheme(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t)
	var seen domain.Theme
	c.Subscribe(TopicTheme, func(_ context.Context, s State) { seen = s.Theme })

	theme, err := c.SetTheme(ctx, "dark")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
	assert.Equal(t, domain.ThemeDark, seen)

	stored, err := storage.LoadTheme(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, stored)

	_, err = c.SetTheme(ctx, "neon")
	assert.True(t, IsValidation(err))
	assert.Equal(t, domain.ThemeDark, c.State().Theme)
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ValidatePeriod("2026-04-01", "2026-04-30"))
	assert.NoError(t, ValidatePeriod("2026-04-01", "2026-04-01"))
	assert.True(t, IsValidation(ValidatePeriod("", "2026-04-30")))
	assert.True(t, IsValidation(ValidatePeriod("2026-04-30", "2026-04-01")))
	assert.True(t, IsValidation(ValidatePeriod("2026-4-1", "2026-04-30")))
}

func TestControllerLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c, _ := newTestController(t, WithLogger(zap.New(core)))

	r, _, err := c.AddReading(context.Background(), ReadingInput{Value: 100, Date: "2026-04-10", Time: "07:00"})
	require.NoError(t, err)

	entries := logs.FilterMessage("reading added").All()
	require.Len(t, entries, 1)
	assert.Equal(t, r.ID, entries[0].ContextMap()["reading_id"])
}
