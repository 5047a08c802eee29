// Package tracker owns the tracker state and reacts to user actions:
// it validates input, mutates state, persists it and notifies dependent views.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/storage"
)

// State is everything the views render from.
type State struct {
	Records domain.Records
	Theme   domain.Theme
}

// Load reads the persisted state. Missing collections start empty.
func Load(ctx context.Context, store storage.Store) (*State, error) {
	records, err := storage.LoadRecords(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	theme, err := storage.LoadTheme(ctx, store)
	if err != nil {
		return nil, err
	}
	return &State{Records: records, Theme: theme}, nil
}

// maxID returns the largest id in use across all collections.
func (s *State) maxID() int64 {
	var m int64
	for _, r := range s.Records.Readings {
		m = max(m, r.ID)
	}
	for _, g := range s.Records.Goals {
		m = max(m, g.ID)
	}
	for _, f := range s.Records.Foods {
		m = max(m, f.ID)
	}
	return m
}

// idSource issues creation-time ids: Unix milliseconds, bumped past the last id
// when the clock has not moved forward.
type idSource struct {
	last int64
}

func (s *idSource) next(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
