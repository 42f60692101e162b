package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/db"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/logger"
)

var driveColumns = []string{
	"id", "coordinator_id", "name", "description", "date", "location", "vaccine_type",
	"target_count", "vaccinated_count", "status", "created_at", "updated_at",
}

// PgDriveRepository handles vaccination drive database operations
type PgDriveRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDriveRepository creates a new drive repository
func NewDriveRepository(db *pgxpool.Pool) *PgDriveRepository {
	return &PgDriveRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a drive and its initial enrollments
func (r *PgDriveRepository) Create(ctx context.Context, d *models.VaccinationDrive) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("vaccination_drives").
			Columns(driveColumns...).
			Values(d.ID, d.CoordinatorID, d.Name, d.Description, d.Date, d.Location, d.VaccineType,
				d.TargetCount, d.VaccinatedCount, string(d.Status), d.CreatedAt, d.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create drive query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error creating drive: %w", err)
		}
		return r.replaceEnrollments(ctx, tx, d.ID, d.Students)
	})
	if err != nil {
		logger.Error().Err(err).Str("driveID", d.ID).Msg("Error creating vaccination drive")
		return err
	}

	return r.attachStudentSummaries(ctx, r.db, []*models.VaccinationDrive{d})
}

// GetByID retrieves a drive owned by coordinatorID with its enrollments
func (r *PgDriveRepository) GetByID(ctx context.Context, coordinatorID, id string) (*models.VaccinationDrive, error) {
	drives, err := r.query(ctx, r.db, r.selectDrives().
		Where(squirrel.Eq{"coordinator_id": coordinatorID, "id": id}).
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(drives) == 0 {
		return nil, apperrors.ErrDriveNotFound
	}
	return drives[0], nil
}

// List returns the coordinator's drives ordered by date ascending
func (r *PgDriveRepository) List(ctx context.Context, coordinatorID string, filter models.DriveFilter) ([]*models.VaccinationDrive, error) {
	where := squirrel.And{squirrel.Eq{"coordinator_id": coordinatorID}}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"status": string(filter.Status)})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		where = append(where, squirrel.Eq{"status": statuses})
	}
	if filter.From != nil {
		where = append(where, squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		where = append(where, squirrel.LtOrEq{"date": *filter.To})
	}
	if filter.VaccineType != "" {
		where = append(where, squirrel.Eq{"vaccine_type": filter.VaccineType})
	}

	builder := r.selectDrives().Where(where).OrderBy("date ASC", "id ASC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	return r.query(ctx, r.db, builder)
}

// HasConflict reports whether another drive of the coordinator occupies location in [from, to)
func (r *PgDriveRepository) HasConflict(ctx context.Context, coordinatorID, location string, from, to time.Time, excludeID string) (bool, error) {
	where := squirrel.And{
		squirrel.Eq{"coordinator_id": coordinatorID, "location": location},
		squirrel.GtOrEq{"date": from},
		squirrel.Lt{"date": to},
	}
	if excludeID != "" {
		where = append(where, squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("vaccination_drives").
		Where(where).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build conflict query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking drive conflict: %w", err)
	}
	return exists, nil
}

// Update locks the drive row, applies fn and writes back the drive and its enrollments
func (r *PgDriveRepository) Update(ctx context.Context, coordinatorID, id string, fn DriveMutation) (*models.VaccinationDrive, error) {
	var updated *models.VaccinationDrive

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		d, err := r.lock(ctx, tx, coordinatorID, id)
		if err != nil {
			return err
		}

		if err := fn(d); err != nil {
			return err
		}

		sql, args, err := r.sb.Update("vaccination_drives").
			SetMap(map[string]interface{}{
				"name":             d.Name,
				"description":      d.Description,
				"date":             d.Date,
				"location":         d.Location,
				"vaccine_type":     d.VaccineType,
				"target_count":     d.TargetCount,
				"vaccinated_count": d.VaccinatedCount,
				"status":           string(d.Status),
				"updated_at":       d.UpdatedAt,
			}).
			Where(squirrel.Eq{"id": d.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update drive query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error updating drive: %w", err)
		}

		if err := r.replaceEnrollments(ctx, tx, d.ID, d.Students); err != nil {
			return err
		}

		if err := r.attachStudentSummaries(ctx, tx, []*models.VaccinationDrive{d}); err != nil {
			return err
		}

		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the drive when fn accepts the locked drive
func (r *PgDriveRepository) Delete(ctx context.Context, coordinatorID, id string, fn DriveMutation) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		d, err := r.lock(ctx, tx, coordinatorID, id)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM vaccination_drives WHERE id = $1`, d.ID); err != nil {
			return fmt.Errorf("error deleting drive: %w", err)
		}
		return nil
	})
}

func (r *PgDriveRepository) lock(ctx context.Context, tx pgx.Tx, coordinatorID, id string) (*models.VaccinationDrive, error) {
	drives, err := r.query(ctx, tx, r.selectDrives().
		Where(squirrel.Eq{"coordinator_id": coordinatorID, "id": id}).
		Suffix("FOR UPDATE"))
	if err != nil {
		return nil, err
	}
	if len(drives) == 0 {
		return nil, apperrors.ErrDriveNotFound
	}
	return drives[0], nil
}

func (r *PgDriveRepository) selectDrives() squirrel.SelectBuilder {
	return r.sb.Select(driveColumns...).From("vaccination_drives")
}

// query runs a drive select and attaches enrollments with their student summaries
func (r *PgDriveRepository) query(ctx context.Context, q querier, builder squirrel.SelectBuilder) ([]*models.VaccinationDrive, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build drive query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying drives: %w", err)
	}
	defer rows.Close()

	drives := []*models.VaccinationDrive{}
	for rows.Next() {
		d := &models.VaccinationDrive{Students: []models.Enrollment{}}
		var status string
		if err := rows.Scan(&d.ID, &d.CoordinatorID, &d.Name, &d.Description, &d.Date, &d.Location, &d.VaccineType,
			&d.TargetCount, &d.VaccinatedCount, &status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning drive row: %w", err)
		}
		d.Status = models.DriveStatus(status)
		drives = append(drives, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drive rows: %w", err)
	}
	rows.Close()

	if err := r.attachStudentSummaries(ctx, q, drives); err != nil {
		return nil, err
	}
	return drives, nil
}

// attachStudentSummaries reloads the enrollments of drives joined with their students
func (r *PgDriveRepository) attachStudentSummaries(ctx context.Context, q querier, drives []*models.VaccinationDrive) error {
	if len(drives) == 0 {
		return nil
	}

	byID := make(map[string]*models.VaccinationDrive, len(drives))
	ids := make([]string, 0, len(drives))
	for _, d := range drives {
		d.Students = []models.Enrollment{}
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}

	sql, args, err := r.sb.Select(
		"e.drive_id", "e.id", "COALESCE(e.student_id, '')", "e.attended", "e.notes",
		"s.id", "s.name", "s.student_id", "s.grade", "s.class", "s.vaccination_status",
	).
		From("drive_enrollments e").
		LeftJoin("students s ON s.id = e.student_id").
		Where(squirrel.Eq{"e.drive_id": ids}).
		OrderBy("e.drive_id", "e.position").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enrollment query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var driveID string
		var e models.Enrollment
		var sID, sName, sStudentID, sGrade, sClass, sStatus *string
		if err := rows.Scan(&driveID, &e.ID, &e.StudentID, &e.Attended, &e.Notes,
			&sID, &sName, &sStudentID, &sGrade, &sClass, &sStatus); err != nil {
			return fmt.Errorf("error scanning enrollment: %w", err)
		}
		if sID != nil {
			e.Student = &models.StudentSummary{
				ID:                *sID,
				Name:              deref(sName),
				StudentID:         deref(sStudentID),
				Grade:             deref(sGrade),
				Class:             deref(sClass),
				VaccinationStatus: models.VaccinationStatus(deref(sStatus)),
			}
		}
		if d, ok := byID[driveID]; ok {
			d.Students = append(d.Students, e)
		}
	}
	return rows.Err()
}

// replaceEnrollments rewrites the ordered enrollment list, keeping enrollment ids stable
func (r *PgDriveRepository) replaceEnrollments(ctx context.Context, tx pgx.Tx, driveID string, enrollments []models.Enrollment) error {
	if _, err := tx.Exec(ctx, `DELETE FROM drive_enrollments WHERE drive_id = $1`, driveID); err != nil {
		return fmt.Errorf("error clearing enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return nil
	}

	insert := r.sb.Insert("drive_enrollments").
		Columns("id", "drive_id", "student_id", "attended", "notes", "position")
	for i, e := range enrollments {
		var studentID interface{}
		if e.StudentID != "" {
			studentID = e.StudentID
		}
		insert = insert.Values(e.ID, driveID, studentID, e.Attended, e.Notes, i)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enrollment insert: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error writing enrollments: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
