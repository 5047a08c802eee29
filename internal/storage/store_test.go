package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/glycemia-go/internal/domain"
)

// memStore is a map-backed Store for exercising the codec.
type memStore struct {
	collections map[domain.Collection][]byte
	config      map[string]string
	failSave    error
	// failKey limits failSave to one collection.
	failKey domain.Collection
}

func newMemStore() *memStore {
	return &memStore{
		collections: make(map[domain.Collection][]byte),
		config:      make(map[string]string),
	}
}

func (m *memStore) LoadCollection(_ context.Context, key domain.Collection) ([]byte, error) {
	data, ok := m.collections[key]
	if !ok {
		return nil, ErrNotFound{Resource: "collection", ID: string(key)}
	}
	return data, nil
}

func (m *memStore) SaveCollection(_ context.Context, key domain.Collection, data []byte) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.collections[key] = data
	return nil
}

func (m *memStore) SaveCollections(_ context.Context, entries []CollectionData) error {
	for _, e := range entries {
		if m.failSave != nil && (m.failKey == "" || m.failKey == e.Key) {
			return fmt.Errorf("save %s: %w", e.Key, m.failSave)
		}
	}
	for _, e := range entries {
		m.collections[e.Key] = e.Data
	}
	return nil
}

func (m *memStore) GetConfig(_ context.Context, key string) (string, error) {
	v, ok := m.config[key]
	if !ok {
		return "", ErrNotFound{Resource: "config", ID: key}
	}
	return v, nil
}

func (m *memStore) SetConfig(_ context.Context, key, value string) error {
	m.config[key] = value
	return nil
}

func (m *memStore) DeleteConfig(_ context.Context, key string) error {
	delete(m.config, key)
	return nil
}

func (m *memStore) Close() error { return nil }

func sampleRecords() domain.Records {
	return domain.Records{
		Readings: []domain.GlucoseReading{
			{ID: 1775030400000, Value: 95, Date: "2026-04-01", Time: "08:00", Timestamp: 1775030400000},
			{ID: 1775034000000, Value: 210, Date: "2026-04-01", Time: "09:00", Timestamp: 1775034000000, Note: "after breakfast"},
		},
		Goals: []domain.Goal{
			{ID: 1775030400001, Description: "Walk 30 minutes", DueDate: "2026-04-30", Category: domain.GoalExercise},
			{ID: 1775030400002, Description: "Check before bed", Category: domain.GoalGlycemicControl, Completed: true},
		},
		Foods: []domain.FoodEntry{
			{ID: 1775030400003, Name: "Oats", Category: domain.FoodFiber, Effect: domain.EffectPositive, Date: "2026-04-01"},
		},
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	want := sampleRecords()

	require.NoError(t, SaveRecords(ctx, s, want))
	got, err := LoadRecords(ctx, s)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRecordsMissingKeysAreEmpty(t *testing.T) {
	got, err := LoadRecords(context.Background(), newMemStore())
	require.NoError(t, err)

	assert.NotNil(t, got.Readings)
	assert.Empty(t, got.Readings)
	assert.NotNil(t, got.Goals)
	assert.Empty(t, got.Goals)
	assert.NotNil(t, got.Foods)
	assert.Empty(t, got.Foods)
}

func TestLoadRecordsNullCollection(t *testing.T) {
	s := newMemStore()
	s.collections[domain.CollectionGoals] = []byte("null")

	got, err := LoadRecords(context.Background(), s)
	require.NoError(t, err)
	assert.NotNil(t, got.Goals)
}

func TestLoadRecordsCorrupt(t *testing.T) {
	s := newMemStore()
	s.collections[domain.CollectionReadings] = []byte("{not json")

	_, err := LoadRecords(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode glicemias")
}

func TestSaveRecordsWritesEmptyArrays(t *testing.T) {
	s := newMemStore()
	require.NoError(t, SaveRecords(context.Background(), s, domain.Records{}))

	for _, key := range domain.Collections {
		assert.Equal(t, "[]", string(s.collections[key]), "collection %s", key)
	}
}

func TestSaveRecordsUsesCollectionKeys(t *testing.T) {
	s := newMemStore()
	require.NoError(t, SaveRecords(context.Background(), s, sampleRecords()))

	assert.Contains(t, string(s.collections["glicemias"]), `"value":210`)
	assert.Contains(t, string(s.collections["metas"]), `"dueDate":"2026-04-30"`)
	assert.Contains(t, string(s.collections["alimentos"]), `"effect":"positive"`)
}

func TestSaveRecordsWrapsErrors(t *testing.T) {
	s := newMemStore()
	s.failSave = errors.New("disk full")

	err := SaveRecords(context.Background(), s, sampleRecords())
	require.Error(t, err)
	assert.Equal(t, "save records: save glicemias: disk full", err.Error())
	assert.ErrorIs(t, err, s.failSave)
}

func TestSaveRecordsIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	require.NoError(t, SaveRecords(ctx, s, sampleRecords()))

	s.failSave = errors.New("disk full")
	s.failKey = domain.CollectionGoals

	changed := sampleRecords()
	changed.Readings = changed.Readings[:1]
	err := SaveRecords(ctx, s, changed)
	assert.EqualError(t, err, "save records: save metas: disk full")

	s.failSave = nil
	got, err := LoadRecords(ctx, s)
	require.NoError(t, err)
	assert.Len(t, got.Readings, 2)
}

func TestLoadTheme(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()

	theme, err := LoadTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTheme, theme)

	require.NoError(t, s.SetConfig(ctx, ThemeKey, "dark"))
	theme, err = LoadTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)

	require.NoError(t, s.SetConfig(ctx, ThemeKey, "neon"))
	theme, err = LoadTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTheme, theme)
}

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound{Resource: "reading", ID: "123"}

	assert.Equal(t, "reading not found: 123", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("delete: %w", err)))
}

func TestIsNotFoundFalse(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(assert.AnError))
}
