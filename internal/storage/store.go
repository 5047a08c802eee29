// Package storage provides storage abstractions for the glycemia tracker.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jwulff/glycemia-go/internal/domain"
)

// ThemeKey is the config key holding the theme preference.
const ThemeKey = "tema"

// CollectionData is one serialized collection in a batch save.
type CollectionData struct {
	Key  domain.Collection
	Data []byte
}

// Store is the interface for persistent storage.
type Store interface {
	// Record collections, each stored as one serialized JSON array
	LoadCollection(ctx context.Context, key domain.Collection) ([]byte, error)
	SaveCollection(ctx context.Context, key domain.Collection, data []byte) error
	// SaveCollections writes every entry or none of them.
	SaveCollections(ctx context.Context, entries []CollectionData) error

	// Configuration
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	DeleteConfig(ctx context.Context, key string) error

	// Lifecycle
	Close() error
}

// LoadRecords reads all three collections. A collection that was never saved is empty.
func LoadRecords(ctx context.Context, s Store) (domain.Records, error) {
	var r domain.Records
	if err := loadCollection(ctx, s, domain.CollectionReadings, &r.Readings); err != nil {
		return domain.Records{}, err
	}
	if err := loadCollection(ctx, s, domain.CollectionGoals, &r.Goals); err != nil {
		return domain.Records{}, err
	}
	if err := loadCollection(ctx, s, domain.CollectionFoods, &r.Foods); err != nil {
		return domain.Records{}, err
	}
	return r, nil
}

func loadCollection[T any](ctx context.Context, s Store, key domain.Collection, dst *[]T) error {
	data, err := s.LoadCollection(ctx, key)
	if IsNotFound(err) {
		*dst = []T{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	*dst = items
	return nil
}

// SaveRecords writes all three collections in full as one batch.
// Either every collection is stored or none is.
func SaveRecords(ctx context.Context, s Store, r domain.Records) error {
	entries := make([]CollectionData, 0, 3)
	for _, enc := range []func() (CollectionData, error){
		func() (CollectionData, error) { return encodeCollection(domain.CollectionReadings, r.Readings) },
		func() (CollectionData, error) { return encodeCollection(domain.CollectionGoals, r.Goals) },
		func() (CollectionData, error) { return encodeCollection(domain.CollectionFoods, r.Foods) },
	} {
		entry, err := enc()
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if err := s.SaveCollections(ctx, entries); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

func encodeCollection[T any](key domain.Collection, items []T) (CollectionData, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return CollectionData{}, fmt.Errorf("encode %s: %w", key, err)
	}
	return CollectionData{Key: key, Data: data}, nil
}

// LoadTheme returns the stored theme, or the default when none is stored or it is unknown.
func LoadTheme(ctx context.Context, s Store) (domain.Theme, error) {
	value, err := s.GetConfig(ctx, ThemeKey)
	if IsNotFound(err) {
		return domain.DefaultTheme, nil
	}
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	theme, ok := domain.ParseTheme(value)
	if !ok {
		return domain.DefaultTheme, nil
	}
	return theme, nil
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
