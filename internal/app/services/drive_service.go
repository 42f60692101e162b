package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/helpers"
	"github.com/yigit/schoolvax/internal/pkg/metrics"
)

// UpcomingDrivesLimit caps the upcoming drives listing
const UpcomingDrivesLimit = 3

// DriveService defines vaccination drive operations
type DriveService interface {
	List(ctx context.Context, coordinatorID string, status models.DriveStatus) ([]*models.VaccinationDrive, error)
	Upcoming(ctx context.Context, coordinatorID string) ([]*models.VaccinationDrive, error)
	Get(ctx context.Context, coordinatorID, id string) (*models.VaccinationDrive, error)
	Create(ctx context.Context, coordinatorID string, req *dto.CreateDriveRequest) (*models.VaccinationDrive, error)
	Update(ctx context.Context, coordinatorID, id string, req *dto.UpdateDriveRequest) (*models.VaccinationDrive, error)
	Delete(ctx context.Context, coordinatorID, id string) error
	AddStudents(ctx context.Context, coordinatorID, id string, studentIDs []string) (*dto.AddStudentsResponse, error)
	MarkAttendance(ctx context.Context, coordinatorID, driveID, studentID string, attended bool, notes string) (*models.VaccinationDrive, error)
}

type driveServiceImpl struct {
	driveRepo   repositories.DriveRepository
	studentRepo repositories.StudentRepository
	loc         *time.Location
	now         Clock
	logger      zerolog.Logger
}

// NewDriveService creates a new drive service. loc is the zone whose calendar days the
// scheduling guard compares; nil means UTC.
func NewDriveService(
	driveRepo repositories.DriveRepository,
	studentRepo repositories.StudentRepository,
	loc *time.Location,
	now Clock,
	logger zerolog.Logger,
) DriveService {
	if loc == nil {
		loc = time.UTC
	}
	return &driveServiceImpl{
		driveRepo:   driveRepo,
		studentRepo: studentRepo,
		loc:         loc,
		now:         defaultClock(now),
		logger:      logger,
	}
}

// List returns the coordinator's drives ordered by date, optionally by status
func (s *driveServiceImpl) List(ctx context.Context, coordinatorID string, status models.DriveStatus) ([]*models.VaccinationDrive, error) {
	if status != "" && !status.IsValid() {
		return nil, apperrors.NewValidationError("Invalid drive status %q", status)
	}
	return s.driveRepo.List(ctx, coordinatorID, models.DriveFilter{Status: status})
}

// Upcoming returns the next scheduled drives dated now or later
func (s *driveServiceImpl) Upcoming(ctx context.Context, coordinatorID string) ([]*models.VaccinationDrive, error) {
	now := s.now()
	return s.driveRepo.List(ctx, coordinatorID, models.DriveFilter{
		Status: models.DriveScheduled,
		From:   &now,
		Limit:  UpcomingDrivesLimit,
	})
}

// Get returns one drive with its enrollments
func (s *driveServiceImpl) Get(ctx context.Context, coordinatorID, id string) (*models.VaccinationDrive, error) {
	return s.driveRepo.GetByID(ctx, coordinatorID, id)
}

// Create schedules a new drive and enrolls the given students the coordinator owns
func (s *driveServiceImpl) Create(ctx context.Context, coordinatorID string, req *dto.CreateDriveRequest) (*models.VaccinationDrive, error) {
	drive := &models.VaccinationDrive{
		ID:            uuid.NewString(),
		CoordinatorID: coordinatorID,
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		Date:          req.Date,
		Location:      strings.TrimSpace(req.Location),
		VaccineType:   strings.TrimSpace(req.VaccineType),
		TargetCount:   req.TargetCount,
		Status:        models.DriveScheduled,
		Students:      []models.Enrollment{},
	}
	if drive.Name == "" || drive.Location == "" || drive.VaccineType == "" || drive.Date.IsZero() || drive.TargetCount <= 0 {
		return nil, apperrors.NewValidationError("Name, date, location, vaccine type, and target count are required")
	}

	if err := s.checkSchedule(ctx, coordinatorID, drive.Location, drive.Date, ""); err != nil {
		return nil, err
	}

	if len(req.StudentIDs) > 0 {
		students, err := s.studentRepo.GetByIDs(ctx, coordinatorID, req.StudentIDs)
		if err != nil {
			return nil, err
		}
		for _, st := range students {
			drive.Students = append(drive.Students, models.Enrollment{ID: uuid.NewString(), StudentID: st.ID})
		}
	}

	now := s.now().UTC()
	drive.CreatedAt = now
	drive.UpdatedAt = now

	if err := s.driveRepo.Create(ctx, drive); err != nil {
		return nil, err
	}

	metrics.DrivesCreated.Inc()
	s.logger.Info().
		Str("coordinatorId", coordinatorID).
		Str("driveId", drive.ID).
		Time("date", drive.Date).
		Str("location", drive.Location).
		Int("enrolled", len(drive.Students)).
		Msg("Vaccination drive created")
	return drive, nil
}

// Update applies a partial update. Checks run in a fixed order and nothing is written
// unless all of them pass: terminal state, scheduling guard, status transition.
func (s *driveServiceImpl) Update(ctx context.Context, coordinatorID, id string, req *dto.UpdateDriveRequest) (*models.VaccinationDrive, error) {
	var from, to models.DriveStatus

	drive, err := s.driveRepo.Update(ctx, coordinatorID, id, func(d *models.VaccinationDrive) error {
		if d.Status.IsTerminal() {
			return apperrors.Wrap(apperrors.ErrValidationFailed, "Cannot modify a %s vaccination drive", d.Status)
		}

		date := d.Date
		if req.Date != nil {
			if req.Date.IsZero() {
				return apperrors.NewValidationError("Date cannot be empty")
			}
			date = *req.Date
		}
		location := d.Location
		if req.Location != nil {
			location = strings.TrimSpace(*req.Location)
			if location == "" {
				return apperrors.NewValidationError("Location cannot be empty")
			}
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			return apperrors.NewValidationError("Name cannot be empty")
		}
		if req.VaccineType != nil && strings.TrimSpace(*req.VaccineType) == "" {
			return apperrors.NewValidationError("Vaccine type cannot be empty")
		}
		if req.TargetCount != nil && *req.TargetCount <= 0 {
			return apperrors.NewValidationError("Target count must be greater than zero")
		}

		if !date.Equal(d.Date) || location != d.Location {
			if err := s.checkSchedule(ctx, coordinatorID, location, date, d.ID); err != nil {
				return err
			}
		}

		if req.Status != nil {
			if !d.Status.CanTransitionTo(*req.Status) {
				return apperrors.Wrap(apperrors.ErrInvalidStatusTransition,
					"Invalid status transition from %s to %s", d.Status, *req.Status)
			}
			from, to = d.Status, *req.Status
			d.Status = *req.Status
		}

		d.Date = date
		d.Location = location
		if req.Name != nil {
			d.Name = strings.TrimSpace(*req.Name)
		}
		if req.VaccineType != nil {
			d.VaccineType = strings.TrimSpace(*req.VaccineType)
		}
		if req.Description != nil {
			d.Description = strings.TrimSpace(*req.Description)
		}
		if req.TargetCount != nil {
			d.TargetCount = *req.TargetCount
		}
		d.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != to {
		metrics.DriveTransitions.WithLabelValues(string(from), string(to)).Inc()
		s.logger.Info().
			Str("driveId", id).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("Vaccination drive status changed")
	}
	return drive, nil
}

// Delete removes a drive that has not started yet
func (s *driveServiceImpl) Delete(ctx context.Context, coordinatorID, id string) error {
	err := s.driveRepo.Delete(ctx, coordinatorID, id, func(d *models.VaccinationDrive) error {
		if !d.Status.IsDeletable() {
			return apperrors.Wrap(apperrors.ErrValidationFailed, "Cannot delete a %s vaccination drive", d.Status)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("coordinatorId", coordinatorID).Str("driveId", id).Msg("Vaccination drive deleted")
	return nil
}

// AddStudents enrolls the coordinator's students that are not enrolled yet. Unknown ids and
// students of other coordinators are skipped.
func (s *driveServiceImpl) AddStudents(ctx context.Context, coordinatorID, id string, studentIDs []string) (*dto.AddStudentsResponse, error) {
	if len(studentIDs) == 0 {
		return nil, apperrors.NewValidationError("Student IDs are required")
	}

	current, err := s.driveRepo.GetByID(ctx, coordinatorID, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.AcceptsEnrollments() {
		return nil, enrollmentClosed(current.Status)
	}

	students, err := s.studentRepo.GetByIDs(ctx, coordinatorID, studentIDs)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperrors.ErrNoValidStudents
	}

	added := 0
	drive, err := s.driveRepo.Update(ctx, coordinatorID, id, func(d *models.VaccinationDrive) error {
		// status may have moved since the first read
		if !d.Status.AcceptsEnrollments() {
			return enrollmentClosed(d.Status)
		}

		added = 0
		for _, st := range students {
			if d.IsEnrolled(st.ID) {
				continue
			}
			d.Students = append(d.Students, models.Enrollment{ID: uuid.NewString(), StudentID: st.ID})
			added++
		}
		if added == 0 {
			return apperrors.ErrStudentsAlreadyEnrolled
		}
		d.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("driveId", id).Int("added", added).Msg("Students added to vaccination drive")
	return &dto.AddStudentsResponse{
		Message:    "Added " + strconv.Itoa(added) + " students to the vaccination drive",
		AddedCount: added,
		Drive:      drive,
	}, nil
}

// MarkAttendance records a student's attendance on an in-progress drive.
//
// The drive side (enrollment flags and vaccinatedCount) commits first in its own transaction.
// When attended is true a dose of the drive's vaccine is then recorded on the student in a
// second transaction. A failure there is logged and counted but leaves the drive side committed.
func (s *driveServiceImpl) MarkAttendance(ctx context.Context, coordinatorID, driveID, studentID string, attended bool, notes string) (*models.VaccinationDrive, error) {
	var vaccineType string

	drive, err := s.driveRepo.Update(ctx, coordinatorID, driveID, func(d *models.VaccinationDrive) error {
		if !d.Status.AcceptsAttendance() {
			return apperrors.Wrap(apperrors.ErrValidationFailed, "Cannot update attendance for a %s vaccination drive", d.Status)
		}
		if _, found := d.MarkAttendance(studentID, attended, notes); !found {
			return apperrors.ErrStudentNotEnrolled
		}
		vaccineType = d.VaccineType
		d.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.AttendanceUpdates.WithLabelValues(strconv.FormatBool(attended)).Inc()

	if !attended {
		return drive, nil
	}

	student, err := s.recordDose(ctx, coordinatorID, studentID, vaccineType)
	if err != nil {
		metrics.StudentUpdateFailures.Inc()
		s.logger.Error().Err(err).
			Str("driveId", driveID).
			Str("studentId", studentID).
			Str("vaccine", vaccineType).
			Msg("Attendance saved but the student's vaccine record could not be updated")
		return drive, nil
	}

	metrics.DosesRecorded.Inc()
	if e := drive.FindEnrollment(studentID); e != nil {
		e.Student = student.Summary()
	}
	return drive, nil
}

func (s *driveServiceImpl) recordDose(ctx context.Context, coordinatorID, studentID, vaccineType string) (*models.Student, error) {
	return s.studentRepo.Update(ctx, coordinatorID, studentID, func(st *models.Student) error {
		now := s.now().UTC()
		st.RecordDose(vaccineType, now)
		st.UpdatedAt = now
		return nil
	})
}

// checkSchedule rejects a drive at location on the same local calendar day as another
// drive of the coordinator. excludeID skips the drive being updated.
func (s *driveServiceImpl) checkSchedule(ctx context.Context, coordinatorID, location string, date time.Time, excludeID string) error {
	start, end := helpers.DayWindow(date, s.loc)

	conflict, err := s.driveRepo.HasConflict(ctx, coordinatorID, location, start, end, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		metrics.SchedulingConflicts.Inc()
		s.logger.Debug().
			Str("coordinatorId", coordinatorID).
			Str("location", location).
			Str("day", start.Format(helpers.DayLayout)).
			Msg("Scheduling conflict")
		return apperrors.Wrap(apperrors.ErrSchedulingConflict,
			"There is already a vaccination drive scheduled at %s on %s", location, start.Format(helpers.DayLayout))
	}
	return nil
}

func enrollmentClosed(status models.DriveStatus) error {
	return apperrors.Wrap(apperrors.ErrValidationFailed, "Cannot add students to a %s vaccination drive", status)
}
