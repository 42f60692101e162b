package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
)

type driveRow struct {
	d *models.VaccinationDrive
}

// DriveRepository is the in-memory drive store
type DriveRepository struct {
	store *Store
}

// Create inserts a drive
func (r *DriveRepository) Create(_ context.Context, d *models.VaccinationDrive) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := d.Clone()
	stripSummaries(stored)
	r.store.drives[d.ID] = &driveRow{d: stored}

	r.attachSummaries(d)
	return nil
}

// GetByID retrieves a drive owned by coordinatorID
func (r *DriveRepository) GetByID(_ context.Context, coordinatorID, id string) (*models.VaccinationDrive, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.drives[id]
	if !ok || row.d.CoordinatorID != coordinatorID {
		return nil, apperrors.ErrDriveNotFound
	}
	d := row.d.Clone()
	r.attachSummaries(d)
	return d, nil
}

// List returns the coordinator's drives ordered by date ascending
func (r *DriveRepository) List(_ context.Context, coordinatorID string, filter models.DriveFilter) ([]*models.VaccinationDrive, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*models.VaccinationDrive{}
	for _, row := range r.store.drives {
		if row.d.CoordinatorID != coordinatorID || !filter.Matches(row.d) {
			continue
		}
		d := row.d.Clone()
		r.attachSummaries(d)
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// HasConflict reports whether another drive of the coordinator occupies location in [from, to)
func (r *DriveRepository) HasConflict(_ context.Context, coordinatorID, location string, from, to time.Time, excludeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for id, row := range r.store.drives {
		d := row.d
		if id == excludeID || d.CoordinatorID != coordinatorID || d.Location != location {
			continue
		}
		if !d.Date.Before(from) && d.Date.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

// Update applies fn to a copy of the drive under its row lock and stores the result
func (r *DriveRepository) Update(_ context.Context, coordinatorID, id string, fn repositories.DriveMutation) (*models.VaccinationDrive, error) {
	unlock := r.store.lockRow("drive:" + id)
	defer unlock()

	working, err := r.snapshot(coordinatorID, id)
	if err != nil {
		return nil, err
	}

	if err := fn(working); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, still := r.store.drives[id]; !still {
		return nil, apperrors.ErrDriveNotFound
	}
	working.ID = id
	working.CoordinatorID = coordinatorID

	// a student deleted while fn ran must stay detached
	for i := range working.Students {
		if sid := working.Students[i].StudentID; sid != "" {
			if _, ok := r.store.students[sid]; !ok {
				working.Students[i].StudentID = ""
			}
		}
	}

	stored := working.Clone()
	stripSummaries(stored)
	r.store.drives[id] = &driveRow{d: stored}

	r.attachSummaries(working)
	return working, nil
}

// Delete removes the drive when fn accepts it
func (r *DriveRepository) Delete(_ context.Context, coordinatorID, id string, fn repositories.DriveMutation) error {
	unlock := r.store.lockRow("drive:" + id)
	defer unlock()

	working, err := r.snapshot(coordinatorID, id)
	if err != nil {
		return err
	}
	if err := fn(working); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.drives, id)
	return nil
}

func (r *DriveRepository) snapshot(coordinatorID, id string) (*models.VaccinationDrive, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.drives[id]
	if !ok || row.d.CoordinatorID != coordinatorID {
		return nil, apperrors.ErrDriveNotFound
	}
	d := row.d.Clone()
	r.attachSummaries(d)
	return d, nil
}

// attachSummaries must be called with mu held
func (r *DriveRepository) attachSummaries(d *models.VaccinationDrive) {
	for i := range d.Students {
		e := &d.Students[i]
		e.Student = nil
		if e.StudentID == "" {
			continue
		}
		if row, ok := r.store.students[e.StudentID]; ok {
			e.Student = row.s.Summary()
		}
	}
}

func stripSummaries(d *models.VaccinationDrive) {
	for i := range d.Students {
		d.Students[i].Student = nil
	}
}
