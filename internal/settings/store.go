package settings

import (
	"fmt"
	"sync"
)

// SaveFunc persists a full settings snapshot.
type SaveFunc func(Settings) error

// Store is the process-wide holder of the current settings. Readers get a
// copy; every successful Update is persisted before it becomes visible.
type Store struct {
	mu   sync.RWMutex
	cur  Settings
	save SaveFunc
}

// NewStore creates a store seeded with initial. save may be nil, in which
// case updates are kept in memory only.
func NewStore(initial Settings, save SaveFunc) *Store {
	return &Store{cur: initial, save: save}
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Update applies fn to a copy of the current settings, validates and persists
// the result, and then publishes it. On any error the current settings are
// left untouched.
func (s *Store) Update(fn func(*Settings) error) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur
	if err := fn(&next); err != nil {
		return s.cur, err
	}
	if err := next.Validate(); err != nil {
		return s.cur, fmt.Errorf("settings: %w", err)
	}
	if s.save != nil {
		if err := s.save(next); err != nil {
			return s.cur, fmt.Errorf("settings: save: %w", err)
		}
	}
	s.cur = next
	return next, nil
}
