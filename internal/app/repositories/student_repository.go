package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/db"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/dberrors"
	"github.com/yigit/schoolvax/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "coordinator_id", "name", "student_id", "grade", "class", "date_of_birth",
	"parent_name", "contact_number", "vaccination_status", "created_at", "updated_at",
}

// PgStudentRepository handles roster database operations
type PgStudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *PgStudentRepository {
	return &PgStudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a student together with its vaccine records
func (r *PgStudentRepository) Create(ctx context.Context, s *models.Student) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("students").
			Columns(studentColumns...).
			Values(s.ID, s.CoordinatorID, s.Name, s.StudentID, s.Grade, s.Class, s.DateOfBirth,
				s.ParentName, s.ContactNumber, string(s.VaccinationStatus), s.CreatedAt, s.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return mapStudentWriteError(err)
		}

		return r.replaceVaccines(ctx, tx, s.ID, s.Vaccines)
	})
}

// GetByID retrieves a student owned by coordinatorID
func (r *PgStudentRepository) GetByID(ctx context.Context, coordinatorID, id string) (*models.Student, error) {
	students, err := r.query(ctx, r.db, r.selectStudents().
		Where(squirrel.Eq{"coordinator_id": coordinatorID, "id": id}).
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	return students[0], nil
}

// GetByIDs retrieves the subset of ids owned by coordinatorID, in creation order
func (r *PgStudentRepository) GetByIDs(ctx context.Context, coordinatorID string, ids []string) ([]*models.Student, error) {
	if len(ids) == 0 {
		return []*models.Student{}, nil
	}
	return r.query(ctx, r.db, r.selectStudents().
		Where(squirrel.Eq{"coordinator_id": coordinatorID, "id": ids}).
		OrderBy("created_at ASC", "id ASC"))
}

// List returns the coordinator's students, newest first
func (r *PgStudentRepository) List(ctx context.Context, coordinatorID string, filter models.StudentFilter) ([]*models.Student, error) {
	where := squirrel.And{squirrel.Eq{"coordinator_id": coordinatorID}}
	if filter.Grade != "" {
		where = append(where, squirrel.Eq{"grade": filter.Grade})
	}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"vaccination_status": string(filter.Status)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"student_id": pattern},
		})
	}

	return r.query(ctx, r.db, r.selectStudents().
		Where(where).
		OrderBy("created_at DESC", "id DESC"))
}

// Update locks the student row, applies fn and writes back the row and vaccine records
func (r *PgStudentRepository) Update(ctx context.Context, coordinatorID, id string, fn StudentMutation) (*models.Student, error) {
	var updated *models.Student

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		students, err := r.query(ctx, tx, r.selectStudents().
			Where(squirrel.Eq{"coordinator_id": coordinatorID, "id": id}).
			Suffix("FOR UPDATE"))
		if err != nil {
			return err
		}
		if len(students) == 0 {
			return apperrors.ErrStudentNotFound
		}

		s := students[0]
		if err := fn(s); err != nil {
			return err
		}

		sql, args, err := r.sb.Update("students").
			SetMap(map[string]interface{}{
				"name":               s.Name,
				"student_id":         s.StudentID,
				"grade":              s.Grade,
				"class":              s.Class,
				"date_of_birth":      s.DateOfBirth,
				"parent_name":        s.ParentName,
				"contact_number":     s.ContactNumber,
				"vaccination_status": string(s.VaccinationStatus),
				"updated_at":         s.UpdatedAt,
			}).
			Where(squirrel.Eq{"id": s.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update student query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return mapStudentWriteError(err)
		}

		if err := r.replaceVaccines(ctx, tx, s.ID, s.Vaccines); err != nil {
			return err
		}

		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a student; enrollments referencing it lose the reference through the foreign key
func (r *PgStudentRepository) Delete(ctx context.Context, coordinatorID, id string) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"coordinator_id": coordinatorID, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", id).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ExistsByStudentID checks the system-wide uniqueness of an external student identifier
func (r *PgStudentRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("students").
		Where(squirrel.Eq{"student_id": studentID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build student exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking student ID: %w", err)
	}
	return exists, nil
}

func (r *PgStudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).From("students")
}

// query runs a student select and attaches vaccine records in one extra round trip
func (r *PgStudentRepository) query(ctx context.Context, q querier, builder squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	byID := map[string]*models.Student{}
	for rows.Next() {
		s := &models.Student{Vaccines: []models.VaccineRecord{}}
		var status string
		if err := rows.Scan(&s.ID, &s.CoordinatorID, &s.Name, &s.StudentID, &s.Grade, &s.Class, &s.DateOfBirth,
			&s.ParentName, &s.ContactNumber, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		s.VaccinationStatus = models.VaccinationStatus(status)
		students = append(students, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	rows.Close()

	if len(students) == 0 {
		return students, nil
	}

	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}

	vsql, vargs, err := r.sb.Select("student_id", "name", "last_dose_at", "doses", "completed").
		From("student_vaccines").
		Where(squirrel.Eq{"student_id": ids}).
		OrderBy("student_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build vaccine query: %w", err)
	}

	vrows, err := q.Query(ctx, vsql, vargs...)
	if err != nil {
		return nil, fmt.Errorf("error querying vaccine records: %w", err)
	}
	defer vrows.Close()

	for vrows.Next() {
		var studentID string
		var v models.VaccineRecord
		if err := vrows.Scan(&studentID, &v.Name, &v.LastDoseAt, &v.Doses, &v.Completed); err != nil {
			return nil, fmt.Errorf("error scanning vaccine record: %w", err)
		}
		if s, ok := byID[studentID]; ok {
			s.Vaccines = append(s.Vaccines, v)
		}
	}
	if err := vrows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vaccine records: %w", err)
	}

	return students, nil
}

// replaceVaccines rewrites the ordered vaccine list of a student
func (r *PgStudentRepository) replaceVaccines(ctx context.Context, tx pgx.Tx, studentID string, vaccines []models.VaccineRecord) error {
	if _, err := tx.Exec(ctx, `DELETE FROM student_vaccines WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("error clearing vaccine records: %w", err)
	}
	if len(vaccines) == 0 {
		return nil
	}

	insert := r.sb.Insert("student_vaccines").
		Columns("student_id", "name", "last_dose_at", "doses", "completed", "position")
	for i, v := range vaccines {
		insert = insert.Values(studentID, v.Name, v.LastDoseAt, v.Doses, v.Completed, i)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build vaccine insert: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentVaccine) {
			return apperrors.NewValidationError("duplicate vaccine record")
		}
		return fmt.Errorf("error writing vaccine records: %w", err)
	}
	return nil
}

func mapStudentWriteError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentID) {
		return apperrors.ErrStudentIDAlreadyExists
	}
	logger.Error().Err(err).Msg("Error writing student")
	return fmt.Errorf("error writing student: %w", err)
}

// escapeLike escapes LIKE metacharacters so search terms match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
