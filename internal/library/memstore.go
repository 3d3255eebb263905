package library

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// MemStore is an in-process catalog with the same contract as Store.
// Entries are copied in and out, so callers never observe a half-written
// entry and cannot mutate stored state.
type MemStore struct {
	mu     sync.RWMutex
	byTVDB map[int64]*Series
	nextID int64
}

// NewMemStore creates an empty in-memory catalog.
func NewMemStore() *MemStore {
	return &MemStore{byTVDB: make(map[int64]*Series)}
}

// Exists reports whether a series with the TVDB ID is cataloged.
func (m *MemStore) Exists(_ context.Context, tvdbID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byTVDB[tvdbID]
	return ok, nil
}

// Insert adds a copy of series, setting ID and AddedAt on the argument.
// Check and insert happen under one write lock.
// Returns ErrDuplicate if the TVDB ID is already cataloged.
func (m *MemStore) Insert(_ context.Context, series *Series) error {
	if err := series.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byTVDB[series.TVDBID]; ok {
		return fmt.Errorf("insert series %d: %w", series.TVDBID, ErrDuplicate)
	}

	m.nextID++
	series.ID = m.nextID
	series.AddedAt = time.Now().UTC()

	stored := *series
	m.byTVDB[series.TVDBID] = &stored
	return nil
}

// GetByTVDBID retrieves a copy of the series with the TVDB ID.
// Returns ErrNotFound if the series is not cataloged.
func (m *MemStore) GetByTVDBID(_ context.Context, tvdbID int64) (*Series, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byTVDB[tvdbID]
	if !ok {
		return nil, fmt.Errorf("get series %d: %w", tvdbID, ErrNotFound)
	}
	out := *s
	return &out, nil
}

// All returns copies of every cataloged series in insertion order.
func (m *MemStore) All(_ context.Context) ([]*Series, error) {
	m.mu.RLock()
	results := make([]*Series, 0, len(m.byTVDB))
	for _, s := range m.byTVDB {
		out := *s
		results = append(results, &out)
	}
	m.mu.RUnlock()

	slices.SortFunc(results, func(a, b *Series) int { return cmp.Compare(a.ID, b.ID) })
	return results, nil
}
