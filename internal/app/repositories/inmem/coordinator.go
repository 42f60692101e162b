package inmem

import (
	"context"
	"strings"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
)

type coordinatorRow struct {
	c models.Coordinator
}

// CoordinatorRepository is the in-memory coordinator store
type CoordinatorRepository struct {
	store *Store
}

// Create inserts a coordinator; emails are unique case-insensitively
func (r *CoordinatorRepository) Create(_ context.Context, c *models.Coordinator) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := strings.ToLower(c.Email)
	for _, row := range r.store.coordinators {
		if row.c.Email == email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	stored := *c
	stored.Email = email
	r.store.coordinators[c.ID] = &coordinatorRow{c: stored}
	return nil
}

// GetByID retrieves a coordinator by ID
func (r *CoordinatorRepository) GetByID(_ context.Context, id string) (*models.Coordinator, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.coordinators[id]
	if !ok {
		return nil, apperrors.ErrCoordinatorNotFound
	}
	c := row.c
	return &c, nil
}

// GetByEmail retrieves a coordinator by email
func (r *CoordinatorRepository) GetByEmail(_ context.Context, email string) (*models.Coordinator, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, row := range r.store.coordinators {
		if row.c.Email == email {
			c := row.c
			return &c, nil
		}
	}
	return nil, apperrors.ErrCoordinatorNotFound
}
