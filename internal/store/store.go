// Package store persists rosters. Computed results are never stored; they
// are rebuilt from the roster on every read.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/classkit/gradebook/internal/roster"
)

var ErrNotFound = errors.New("roster not found")

type Store interface {
	PutRoster(ctx context.Context, r *roster.Roster) error
	GetRoster(ctx context.Context, id string) (*roster.Roster, error)
	ListRosters(ctx context.Context) ([]RosterInfo, error)
	DeleteRoster(ctx context.Context, id string) error
}

// RosterInfo is the listing view: identity plus shape, no cells.
type RosterInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Subjects int    `json:"subjects"`
	Students int    `json:"students"`
}

type memoryStore struct {
	mu      sync.RWMutex
	rosters map[string]*roster.Roster
}

func NewInMemoryStore() Store {
	return &memoryStore{rosters: map[string]*roster.Roster{}}
}

func (m *memoryStore) PutRoster(_ context.Context, r *roster.Roster) error {
	if r == nil || r.ID == "" {
		return errors.New("roster id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosters[r.ID] = r.Clone()
	return nil
}

func (m *memoryStore) GetRoster(_ context.Context, id string) (*roster.Roster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rosters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

func (m *memoryStore) ListRosters(_ context.Context) ([]RosterInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RosterInfo, 0, len(m.rosters))
	for _, r := range m.rosters {
		out = append(out, RosterInfo{ID: r.ID, Title: r.Title, Subjects: len(r.Subjects), Students: len(r.Students)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) DeleteRoster(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rosters[id]; !ok {
		return ErrNotFound
	}
	delete(m.rosters, id)
	return nil
}
