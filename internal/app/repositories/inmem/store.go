// Package inmem implements the repository interfaces on in-process maps.
// It backs the "memory" database driver and the service and router tests.
package inmem

import (
	"context"
	"sync"

	"github.com/yigit/schoolvax/internal/app/repositories"
)

// Store holds every record. mu guards the maps; row locks serialize read-modify-write
// cycles on a single record the way SELECT ... FOR UPDATE does, without holding mu
// while a mutation callback runs.
type Store struct {
	mu           sync.RWMutex
	coordinators map[string]*coordinatorRow
	students     map[string]*studentRow
	drives       map[string]*driveRow

	rowMu sync.Mutex
	rows  map[string]*sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		coordinators: map[string]*coordinatorRow{},
		students:     map[string]*studentRow{},
		drives:       map[string]*driveRow{},
		rows:         map[string]*sync.Mutex{},
	}
}

// NewRepositories wires the in-memory repositories over one store
func NewRepositories(store *Store) *repositories.Repositories {
	return &repositories.Repositories{
		Coordinators: &CoordinatorRepository{store: store},
		Students:     &StudentRepository{store: store},
		Drives:       &DriveRepository{store: store},
		Health:       store,
	}
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error {
	return nil
}

// lockRow acquires the row lock for key and returns its release func
func (s *Store) lockRow(key string) func() {
	s.rowMu.Lock()
	m, ok := s.rows[key]
	if !ok {
		m = &sync.Mutex{}
		s.rows[key] = m
	}
	s.rowMu.Unlock()

	m.Lock()
	return m.Unlock
}
