package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
)

type studentRow struct {
	s *models.Student
}

// StudentRepository is the in-memory roster
type StudentRepository struct {
	store *Store
}

// Create inserts a student; the external student ID is unique across all coordinators
func (r *StudentRepository) Create(_ context.Context, s *models.Student) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.studentIDTaken(s.StudentID, "") {
		return apperrors.ErrStudentIDAlreadyExists
	}
	r.store.students[s.ID] = &studentRow{s: s.Clone()}
	return nil
}

// GetByID retrieves a student owned by coordinatorID
func (r *StudentRepository) GetByID(_ context.Context, coordinatorID, id string) (*models.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.students[id]
	if !ok || row.s.CoordinatorID != coordinatorID {
		return nil, apperrors.ErrStudentNotFound
	}
	return row.s.Clone(), nil
}

// GetByIDs retrieves the subset of ids owned by coordinatorID, in creation order
func (r *StudentRepository) GetByIDs(_ context.Context, coordinatorID string, ids []string) ([]*models.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*models.Student{}
	seen := map[string]struct{}{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if row, ok := r.store.students[id]; ok && row.s.CoordinatorID == coordinatorID {
			out = append(out, row.s.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// List returns the coordinator's students, newest first
func (r *StudentRepository) List(_ context.Context, coordinatorID string, filter models.StudentFilter) ([]*models.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := []*models.Student{}
	for _, row := range r.store.students {
		s := row.s
		if s.CoordinatorID != coordinatorID {
			continue
		}
		if filter.Grade != "" && s.Grade != filter.Grade {
			continue
		}
		if filter.Status != "" && s.VaccinationStatus != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.StudentID), search) {
			continue
		}
		out = append(out, s.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update applies fn to a copy of the student under its row lock and stores the result
func (r *StudentRepository) Update(_ context.Context, coordinatorID, id string, fn repositories.StudentMutation) (*models.Student, error) {
	unlock := r.store.lockRow("student:" + id)
	defer unlock()

	r.store.mu.RLock()
	row, ok := r.store.students[id]
	var working *models.Student
	if ok && row.s.CoordinatorID == coordinatorID {
		working = row.s.Clone()
	}
	r.store.mu.RUnlock()

	if working == nil {
		return nil, apperrors.ErrStudentNotFound
	}

	if err := fn(working); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, still := r.store.students[id]; !still {
		return nil, apperrors.ErrStudentNotFound
	}
	if r.studentIDTaken(working.StudentID, id) {
		return nil, apperrors.ErrStudentIDAlreadyExists
	}
	working.ID = id
	working.CoordinatorID = coordinatorID
	r.store.students[id] = &studentRow{s: working.Clone()}
	return working, nil
}

// Delete removes the student and detaches it from every enrollment
func (r *StudentRepository) Delete(_ context.Context, coordinatorID, id string) error {
	unlock := r.store.lockRow("student:" + id)
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row, ok := r.store.students[id]
	if !ok || row.s.CoordinatorID != coordinatorID {
		return apperrors.ErrStudentNotFound
	}
	delete(r.store.students, id)

	for _, d := range r.store.drives {
		for i := range d.d.Students {
			if d.d.Students[i].StudentID == id {
				d.d.Students[i].StudentID = ""
			}
		}
	}
	return nil
}

// ExistsByStudentID checks the system-wide uniqueness of an external student identifier
func (r *StudentRepository) ExistsByStudentID(_ context.Context, studentID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.studentIDTaken(studentID, ""), nil
}

// studentIDTaken must be called with mu held
func (r *StudentRepository) studentIDTaken(studentID, exceptID string) bool {
	for id, row := range r.store.students {
		if id != exceptID && row.s.StudentID == studentID {
			return true
		}
	}
	return false
}
