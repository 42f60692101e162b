package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/export"
	"github.com/yigit/schoolvax/internal/pkg/helpers"
	"github.com/yigit/schoolvax/internal/pkg/metrics"
)

// StudentService defines roster operations. Every call is scoped to the calling coordinator.
type StudentService interface {
	List(ctx context.Context, coordinatorID string, filter models.StudentFilter) ([]*models.Student, error)
	Get(ctx context.Context, coordinatorID, id string) (*models.Student, error)
	Create(ctx context.Context, coordinatorID string, req *dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, coordinatorID, id string, req *dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, coordinatorID, id string) error
	Import(ctx context.Context, coordinatorID, filename string, r io.Reader) (*dto.ImportResult, error)
	Export(ctx context.Context, coordinatorID string, filter models.StudentFilter, format string) ([]byte, error)
}

type studentServiceImpl struct {
	studentRepo repositories.StudentRepository
	validate    *validator.Validate
	now         Clock
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo repositories.StudentRepository, now Clock, logger zerolog.Logger) StudentService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("col"); name != "" && name != "-" {
			return name
		}
		return fld.Name
	})

	return &studentServiceImpl{
		studentRepo: studentRepo,
		validate:    v,
		now:         defaultClock(now),
		logger:      logger,
	}
}

// List returns the coordinator's students, newest first
func (s *studentServiceImpl) List(ctx context.Context, coordinatorID string, filter models.StudentFilter) ([]*models.Student, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.NewValidationError("Invalid vaccination status %q", filter.Status)
	}
	return s.studentRepo.List(ctx, coordinatorID, filter)
}

// Get returns one student
func (s *studentServiceImpl) Get(ctx context.Context, coordinatorID, id string) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, coordinatorID, id)
}

// Create adds a student to the roster
func (s *studentServiceImpl) Create(ctx context.Context, coordinatorID string, req *dto.CreateStudentRequest) (*models.Student, error) {
	student := &models.Student{
		ID:            uuid.NewString(),
		CoordinatorID: coordinatorID,
		Name:          strings.TrimSpace(req.Name),
		StudentID:     strings.TrimSpace(req.StudentID),
		Grade:         strings.TrimSpace(req.Grade),
		Class:         strings.TrimSpace(req.Class),
		ParentName:    strings.TrimSpace(req.ParentName),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
	}
	if student.Name == "" || student.StudentID == "" || student.Grade == "" {
		return nil, apperrors.NewValidationError("Name, studentId and grade are required")
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	student.DateOfBirth = dob

	if err := applyVaccinationData(student, req.Vaccines != nil, req.Vaccines, req.VaccinationStatus); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("coordinatorId", coordinatorID).Str("studentId", student.ID).Msg("Student created")
	return student, nil
}

// Update applies a partial update; absent fields keep their stored values
func (s *studentServiceImpl) Update(ctx context.Context, coordinatorID, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	return s.studentRepo.Update(ctx, coordinatorID, id, func(st *models.Student) error {
		if req.Name != nil {
			st.Name = strings.TrimSpace(*req.Name)
		}
		if req.StudentID != nil {
			st.StudentID = strings.TrimSpace(*req.StudentID)
		}
		if req.Grade != nil {
			st.Grade = strings.TrimSpace(*req.Grade)
		}
		if req.Class != nil {
			st.Class = strings.TrimSpace(*req.Class)
		}
		if req.ParentName != nil {
			st.ParentName = strings.TrimSpace(*req.ParentName)
		}
		if req.ContactNumber != nil {
			st.ContactNumber = strings.TrimSpace(*req.ContactNumber)
		}
		if st.Name == "" || st.StudentID == "" || st.Grade == "" {
			return apperrors.NewValidationError("Name, studentId and grade cannot be empty")
		}

		if req.DateOfBirth != nil {
			parsed, err := parseDateOfBirth(*req.DateOfBirth)
			if err != nil {
				return err
			}
			st.DateOfBirth = parsed
		}

		var vaccines []models.VaccineRecord
		if req.Vaccines != nil {
			vaccines = *req.Vaccines
		}
		status := ""
		if req.VaccinationStatus != nil {
			status = *req.VaccinationStatus
		}
		if req.Vaccines != nil || status != "" {
			if err := applyVaccinationData(st, req.Vaccines != nil, vaccines, status); err != nil {
				return err
			}
		}

		st.UpdatedAt = s.now().UTC()
		return nil
	})
}

// Delete removes a student; enrollments referencing it are detached by the store
func (s *studentServiceImpl) Delete(ctx context.Context, coordinatorID, id string) error {
	if err := s.studentRepo.Delete(ctx, coordinatorID, id); err != nil {
		return err
	}
	s.logger.Info().Str("coordinatorId", coordinatorID).Str("studentId", id).Msg("Student deleted")
	return nil
}

// Import creates one student per roster row. A failing row is reported and skipped.
func (s *studentServiceImpl) Import(ctx context.Context, coordinatorID, filename string, r io.Reader) (*dto.ImportResult, error) {
	format, err := export.FormatFromFilename(filename)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Please upload a .csv or .xlsx file")
	}

	rows, err := export.ParseRoster(format, r)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Could not read roster file: %v", err))
	}

	result := &dto.ImportResult{TotalCount: len(rows), Errors: []string{}}
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		if msg := s.importRow(ctx, coordinatorID, row, seen); msg != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row.Line, msg))
			metrics.StudentsImported.WithLabelValues("failed").Inc()
			continue
		}
		result.SuccessCount++
		metrics.StudentsImported.WithLabelValues("created").Inc()
	}

	result.Message = fmt.Sprintf("Imported %d students successfully", result.SuccessCount)
	s.logger.Info().
		Str("coordinatorId", coordinatorID).
		Int("total", result.TotalCount).
		Int("imported", result.SuccessCount).
		Int("failed", len(result.Errors)).
		Msg("Roster import finished")
	return result, nil
}

// importRow returns a user-facing message when the row is rejected
func (s *studentServiceImpl) importRow(ctx context.Context, coordinatorID string, row export.RosterRow, seen map[string]int) string {
	if err := s.validate.Struct(row); err != nil {
		return rosterValidationMessage(err)
	}

	// seen only holds rows that were imported
	if first, dup := seen[row.StudentID]; dup {
		return fmt.Sprintf("Student ID %s is duplicated in the file (already imported from row %d)", row.StudentID, first)
	}

	exists, err := s.studentRepo.ExistsByStudentID(ctx, row.StudentID)
	if err != nil {
		s.logger.Error().Err(err).Int("row", row.Line).Msg("Roster import lookup failed")
		return "could not be saved"
	}
	if exists {
		return fmt.Sprintf("Student with ID %s already exists", row.StudentID)
	}

	dob, err := parseDateOfBirth(row.DateOfBirth)
	if err != nil {
		return apperrors.Message(err, "invalid dateOfBirth")
	}

	status := models.StatusNotVaccinated
	if row.VaccinationStatus != "" {
		status = models.VaccinationStatus(row.VaccinationStatus)
	}

	now := s.now().UTC()
	student := &models.Student{
		ID:                uuid.NewString(),
		CoordinatorID:     coordinatorID,
		Name:              row.Name,
		StudentID:         row.StudentID,
		Grade:             row.Grade,
		Class:             row.Class,
		DateOfBirth:       dob,
		ParentName:        row.ParentName,
		ContactNumber:     row.ContactNumber,
		VaccinationStatus: status,
		Vaccines:          []models.VaccineRecord{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Sprintf("Student with ID %s already exists", row.StudentID)
		}
		s.logger.Error().Err(err).Int("row", row.Line).Msg("Roster import insert failed")
		return "could not be saved"
	}
	seen[row.StudentID] = row.Line
	return ""
}

// Export renders the matching students as a CSV or XLSX roster file
func (s *studentServiceImpl) Export(ctx context.Context, coordinatorID string, filter models.StudentFilter, format string) ([]byte, error) {
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXLSX {
		return nil, apperrors.NewValidationError("Unsupported export format %q", format)
	}

	students, err := s.List(ctx, coordinatorID, filter)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperrors.NewResourceNotFoundError("No students found matching the criteria")
	}

	rows := make([]export.RosterRow, 0, len(students))
	for _, st := range students {
		dob := ""
		if st.DateOfBirth != nil {
			dob = st.DateOfBirth.Format(helpers.DayLayout)
		}
		rows = append(rows, export.RosterRow{
			Name:              st.Name,
			StudentID:         st.StudentID,
			Grade:             st.Grade,
			Class:             st.Class,
			DateOfBirth:       dob,
			ParentName:        st.ParentName,
			ContactNumber:     st.ContactNumber,
			VaccinationStatus: string(st.VaccinationStatus),
		})
	}

	var buf bytes.Buffer
	if format == export.FormatXLSX {
		err = export.WriteRosterXLSX(&buf, rows)
	} else {
		err = export.WriteRosterCSV(&buf, rows)
	}
	if err != nil {
		return nil, fmt.Errorf("error writing roster: %w", err)
	}
	return buf.Bytes(), nil
}

// applyVaccinationData sets vaccine records and status. Supplied records always win and the
// status is derived from them; an explicit status is only kept for a student without records.
func applyVaccinationData(st *models.Student, supplied bool, vaccines []models.VaccineRecord, status string) error {
	if supplied {
		normalized, msg := models.NormalizeVaccines(vaccines)
		if msg != "" {
			return apperrors.NewValidationError("%s", msg)
		}
		st.Vaccines = normalized
		st.RefreshStatus()
		return nil
	}

	if st.Vaccines == nil {
		st.Vaccines = []models.VaccineRecord{}
	}
	if len(st.Vaccines) > 0 {
		st.RefreshStatus()
		return nil
	}

	switch {
	case status == "":
		if st.VaccinationStatus == "" {
			st.VaccinationStatus = models.StatusNotVaccinated
		}
	case models.VaccinationStatus(status).IsValid():
		st.VaccinationStatus = models.VaccinationStatus(status)
	default:
		return apperrors.NewValidationError("Invalid vaccination status %q", status)
	}
	return nil
}

func parseDateOfBirth(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := helpers.ParseDate(value)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid dateOfBirth %q, expected YYYY-MM-DD", value)
	}
	return &t, nil
}

func rosterValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	missing := []string{}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "oneof":
			return fmt.Sprintf("invalid %s %q", fe.Field(), fe.Value())
		default:
			return fmt.Sprintf("invalid %s", fe.Field())
		}
	}
	return "missing required fields: " + strings.Join(missing, ", ")
}
