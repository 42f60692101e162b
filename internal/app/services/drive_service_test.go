package services

import (
	"context"
	"errors"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/metrics"
)

func TestCreateDrive_SchedulingGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drive(t, coordA, "Main Hall", at(12, 9))

	tests := []struct {
		name     string
		coord    string
		location string
		date     time.Time
		conflict bool
	}{
		{"same day later time", coordA, "Main Hall", at(12, 15), true},
		{"same day midnight", coordA, "Main Hall", at(12, 0), true},
		{"next day midnight", coordA, "Main Hall", at(13, 0), false},
		{"other location", coordA, "Gym", at(12, 9), false},
		{"other coordinator", coordB, "Main Hall", at(12, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.drives.Create(ctx, tt.coord, &dto.CreateDriveRequest{
				Name: "x", Date: tt.date, Location: tt.location, VaccineType: "MMR", TargetCount: 5,
			})
			if tt.conflict {
				require.ErrorIs(t, err, apperrors.ErrSchedulingConflict)
				assert.Equal(t, "There is already a vaccination drive scheduled at Main Hall on 2025-03-12", apperrors.Message(err, ""))
				return
			}
			require.NoError(t, err)
		})
	}

	drives, err := f.drives.List(ctx, coordA, "")
	require.NoError(t, err)
	assert.Len(t, drives, 3, "rejected drives must not be persisted")
}

func TestCreateDrive_GuardUsesConfiguredZone(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*3600)
	// 02:00Z is the evening before in UTC-5, 16:00Z is the same UTC day
	first, second := at(10, 2), at(10, 16)

	utc := newFixture(t)
	utc.drive(t, coordA, "Gym", first)
	_, err := utc.drives.Create(context.Background(), coordA, &dto.CreateDriveRequest{
		Name: "x", Date: second, Location: "Gym", VaccineType: "MMR", TargetCount: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrSchedulingConflict)

	local := newFixtureIn(t, zone)
	local.drive(t, coordA, "Gym", first)
	_, err = local.drives.Create(context.Background(), coordA, &dto.CreateDriveRequest{
		Name: "x", Date: second, Location: "Gym", VaccineType: "MMR", TargetCount: 1,
	})
	assert.NoError(t, err)
}

func TestCreateDrive_EnrollsOnlyOwnStudents(t *testing.T) {
	f := newFixture(t)
	mine := f.student(t, coordA, "S-1", "9th")
	theirs := f.student(t, coordB, "S-2", "9th")

	d := f.drive(t, coordA, "Main Hall", at(12, 9), mine.ID, theirs.ID, "missing")
	require.Len(t, d.Students, 1)
	assert.Equal(t, mine.ID, d.Students[0].StudentID)
	require.NotNil(t, d.Students[0].Student)
	assert.Equal(t, "S-1", d.Students[0].Student.StudentID)
	assert.Equal(t, models.DriveScheduled, d.Status)
	assert.Zero(t, d.VaccinatedCount)
}

func TestCreateDrive_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.drives.Create(context.Background(), coordA, &dto.CreateDriveRequest{
		Name: "x", Date: at(12, 9), Location: "Gym", VaccineType: "MMR", TargetCount: 0,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateDrive_GuardOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hall := f.drive(t, coordA, "Main Hall", at(12, 9))
	gym := f.drive(t, coordA, "Gym", at(12, 9))

	_, err := f.drives.Update(ctx, coordA, gym.ID, &dto.UpdateDriveRequest{Name: ptr("Renamed")})
	require.NoError(t, err)

	// moving within its own day never conflicts with itself
	_, err = f.drives.Update(ctx, coordA, hall.ID, &dto.UpdateDriveRequest{Date: ptr(at(12, 14))})
	require.NoError(t, err)

	_, err = f.drives.Update(ctx, coordA, gym.ID, &dto.UpdateDriveRequest{Location: ptr("Main Hall"), Name: ptr("Moved")})
	require.ErrorIs(t, err, apperrors.ErrSchedulingConflict)

	stored, err := f.drives.Get(ctx, coordA, gym.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gym", stored.Location)
	assert.Equal(t, "Renamed", stored.Name, "a rejected update writes nothing")
}

func TestUpdateDrive_StatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.drive(t, coordA, "Main Hall", at(12, 9))

	_, err := f.drives.Update(ctx, coordA, d.ID, &dto.UpdateDriveRequest{Status: ptr(models.DriveCompleted)})
	require.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	assert.Equal(t, "Invalid status transition from scheduled to completed", apperrors.Message(err, ""))

	_, err = f.drives.Update(ctx, coordA, d.ID, &dto.UpdateDriveRequest{Status: ptr(models.DriveScheduled)})
	require.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	assert.Equal(t, "Invalid status transition from scheduled to scheduled", apperrors.Message(err, ""))

	f.start(t, coordA, d.ID)

	_, err = f.drives.Update(ctx, coordA, d.ID, &dto.UpdateDriveRequest{Status: ptr(models.DriveInProgress)})
	require.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	assert.Equal(t, "Invalid status transition from in_progress to in_progress", apperrors.Message(err, ""))

	updated, err := f.drives.Update(ctx, coordA, d.ID, &dto.UpdateDriveRequest{Status: ptr(models.DriveCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.DriveCompleted, updated.Status)

	_, err = f.drives.Update(ctx, coordA, d.ID, &dto.UpdateDriveRequest{Status: ptr(models.DriveInProgress)})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Cannot modify a completed vaccination drive", apperrors.Message(err, ""))

	other := f.drive(t, coordA, "Gym", at(14, 9))
	cancelled, err := f.drives.Update(ctx, coordA, other.ID, &dto.UpdateDriveRequest{Status: ptr(models.DriveCancelled)})
	require.NoError(t, err)
	assert.Equal(t, models.DriveCancelled, cancelled.Status)
}

func TestUpdateDrive_CheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drive(t, coordA, "Main Hall", at(12, 9))
	gym := f.drive(t, coordA, "Gym", at(12, 9))

	// the scheduling guard runs before the transition table
	_, err := f.drives.Update(ctx, coordA, gym.ID, &dto.UpdateDriveRequest{
		Location: ptr("Main Hall"),
		Status:   ptr(models.DriveCompleted),
	})
	assert.ErrorIs(t, err, apperrors.ErrSchedulingConflict)

	_, err = f.drives.Update(ctx, coordA, "missing", &dto.UpdateDriveRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.drives.Update(ctx, coordB, gym.ID, &dto.UpdateDriveRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, "drives of other coordinators are invisible")
}

func TestDeleteDrive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	running := f.drive(t, coordA, "Main Hall", at(12, 9))
	f.start(t, coordA, running.ID)

	err := f.drives.Delete(ctx, coordA, running.ID)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Cannot delete a in_progress vaccination drive", apperrors.Message(err, ""))

	planned := f.drive(t, coordA, "Gym", at(12, 9))
	require.NoError(t, f.drives.Delete(ctx, coordA, planned.ID))

	_, err = f.drives.Get(ctx, coordA, planned.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAddStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.student(t, coordA, "S-1", "9th")
	s2 := f.student(t, coordA, "S-2", "9th")
	foreign := f.student(t, coordB, "S-3", "9th")
	d := f.drive(t, coordA, "Main Hall", at(12, 9), s1.ID)

	_, err := f.drives.AddStudents(ctx, coordA, d.ID, []string{foreign.ID, "missing"})
	require.ErrorIs(t, err, apperrors.ErrNoValidStudents)

	_, err = f.drives.AddStudents(ctx, coordA, d.ID, []string{s1.ID})
	require.ErrorIs(t, err, apperrors.ErrStudentsAlreadyEnrolled)

	res, err := f.drives.AddStudents(ctx, coordA, d.ID, []string{s1.ID, s2.ID, foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.AddedCount)
	assert.Equal(t, "Added 1 students to the vaccination drive", res.Message)
	assert.Len(t, res.Drive.Students, 2)

	_, err = f.drives.AddStudents(ctx, coordA, "missing", []string{s1.ID})
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)
}

func TestAddStudents_ClosedDrive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.student(t, coordA, "S-1", "9th")
	d := f.drive(t, coordA, "Main Hall", at(12, 9))
	_, err := f.drives.Update(ctx, coordA, d.ID, &dto.UpdateDriveRequest{Status: ptr(models.DriveCancelled)})
	require.NoError(t, err)

	_, err = f.drives.AddStudents(ctx, coordA, d.ID, []string{s1.ID})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Cannot add students to a cancelled vaccination drive", apperrors.Message(err, ""))
}

func TestUpcoming(t *testing.T) {
	f := newFixture(t)
	f.drive(t, coordA, "Past", at(9, 9))
	f.drive(t, coordA, "D", at(20, 9))
	f.drive(t, coordA, "B", at(12, 9))
	f.drive(t, coordA, "C", at(15, 9))
	f.drive(t, coordA, "A", at(11, 9))
	started := f.drive(t, coordA, "Running", at(10, 12))
	f.start(t, coordA, started.ID)

	upcoming, err := f.drives.Upcoming(context.Background(), coordA)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{upcoming[0].Location, upcoming[1].Location, upcoming[2].Location})
}

func TestMarkAttendance_TwoDrivesCompleteVaccine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.student(t, coordA, "S-1", "10th")

	first := f.drive(t, coordA, "Main Hall", at(10, 9), s.ID)
	f.start(t, coordA, first.ID)

	d, err := f.drives.MarkAttendance(ctx, coordA, first.ID, s.ID, true, "first dose")
	require.NoError(t, err)
	assert.Equal(t, 1, d.VaccinatedCount)
	assert.Equal(t, "first dose", d.Students[0].Notes)
	assert.Equal(t, models.StatusPartiallyVaccinated, d.Students[0].Student.VaccinationStatus)

	got, err := f.students.Get(ctx, coordA, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Vaccines, 1)
	assert.Equal(t, "MMR", got.Vaccines[0].Name)
	assert.Equal(t, 1, got.Vaccines[0].Doses)
	assert.False(t, got.Vaccines[0].Completed)
	require.NotNil(t, got.Vaccines[0].LastDoseAt)
	assert.True(t, got.Vaccines[0].LastDoseAt.Equal(f.now))
	assert.Equal(t, models.StatusPartiallyVaccinated, got.VaccinationStatus)

	second := f.drive(t, coordA, "Gym", at(11, 9), s.ID)
	f.start(t, coordA, second.ID)
	_, err = f.drives.MarkAttendance(ctx, coordA, second.ID, s.ID, true, "")
	require.NoError(t, err)

	got, err = f.students.Get(ctx, coordA, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Vaccines, 1)
	assert.Equal(t, 2, got.Vaccines[0].Doses)
	assert.True(t, got.Vaccines[0].Completed)
	assert.Equal(t, models.StatusVaccinated, got.VaccinationStatus)
}

func TestMarkAttendance_DoseMetricIsUnlabelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.student(t, coordA, "S-1", "10th")

	d, err := f.drives.Create(ctx, coordA, &dto.CreateDriveRequest{
		Name: "Flu", Date: at(10, 9), Location: "Main Hall", VaccineType: "Flu shot (batch 2025-A17)", TargetCount: 5,
		StudentIDs: []string{s.ID},
	})
	require.NoError(t, err)
	f.start(t, coordA, d.ID)

	before := promtest.ToFloat64(metrics.DosesRecorded)
	_, err = f.drives.MarkAttendance(ctx, coordA, d.ID, s.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.DosesRecorded))
	assert.Equal(t, 1, promtest.CollectAndCount(metrics.DosesRecorded), "one series regardless of vaccine type")
}

func TestMarkAttendance_CounterFollowsFlips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.student(t, coordA, "S-1", "9th")
	s2 := f.student(t, coordA, "S-2", "9th")
	d := f.drive(t, coordA, "Main Hall", at(10, 9), s1.ID, s2.ID)
	f.start(t, coordA, d.ID)

	steps := []struct {
		student  string
		attended bool
		want     int
	}{
		{s1.ID, true, 1},
		{s1.ID, true, 1},
		{s2.ID, true, 2},
		{s1.ID, false, 1},
		{s1.ID, false, 1},
		{s2.ID, false, 0},
	}
	for i, step := range steps {
		got, err := f.drives.MarkAttendance(ctx, coordA, d.ID, step.student, step.attended, "")
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.want, got.VaccinatedCount, "step %d", i)
		assert.Equal(t, got.AttendedCount(), got.VaccinatedCount, "step %d", i)
	}
}

func TestMarkAttendance_FalseLeavesStudentUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.student(t, coordA, "S-1", "9th")
	d := f.drive(t, coordA, "Main Hall", at(10, 9), s.ID)
	f.start(t, coordA, d.ID)

	_, err := f.drives.MarkAttendance(ctx, coordA, d.ID, s.ID, true, "")
	require.NoError(t, err)
	_, err = f.drives.MarkAttendance(ctx, coordA, d.ID, s.ID, false, "left early")
	require.NoError(t, err)

	got, err := f.students.Get(ctx, coordA, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Vaccines, 1)
	assert.Equal(t, 1, got.Vaccines[0].Doses, "a recorded dose is not rolled back")
}

func TestMarkAttendance_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.student(t, coordA, "S-1", "9th")
	other := f.student(t, coordA, "S-2", "9th")
	d := f.drive(t, coordA, "Main Hall", at(10, 9), s.ID)

	_, err := f.drives.MarkAttendance(ctx, coordA, d.ID, s.ID, true, "")
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Cannot update attendance for a scheduled vaccination drive", apperrors.Message(err, ""))

	f.start(t, coordA, d.ID)

	_, err = f.drives.MarkAttendance(ctx, coordA, d.ID, other.ID, true, "")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotEnrolled)

	_, err = f.drives.MarkAttendance(ctx, coordA, "missing", s.ID, true, "")
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)

	_, err = f.drives.MarkAttendance(ctx, coordB, d.ID, s.ID, true, "")
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)
}

func TestMarkAttendance_DeletedStudentIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.student(t, coordA, "S-1", "9th")
	d := f.drive(t, coordA, "Main Hall", at(10, 9), s.ID)
	f.start(t, coordA, d.ID)
	_, err := f.drives.MarkAttendance(ctx, coordA, d.ID, s.ID, true, "")
	require.NoError(t, err)

	require.NoError(t, f.students.Delete(ctx, coordA, s.ID))

	got, err := f.drives.Get(ctx, coordA, d.ID)
	require.NoError(t, err)
	require.Len(t, got.Students, 1)
	assert.Empty(t, got.Students[0].StudentID)
	assert.True(t, got.Students[0].Attended)
	assert.Equal(t, 1, got.VaccinatedCount)

	_, err = f.drives.MarkAttendance(ctx, coordA, d.ID, s.ID, false, "")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotEnrolled)
}

type brokenStudentUpdates struct {
	repositories.StudentRepository
}

func (brokenStudentUpdates) Update(context.Context, string, string, repositories.StudentMutation) (*models.Student, error) {
	return nil, errors.New("connection reset by peer")
}

func TestMarkAttendance_StudentFailureKeepsDriveSide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.student(t, coordA, "S-1", "9th")
	d := f.drive(t, coordA, "Main Hall", at(10, 9), s.ID)
	f.start(t, coordA, d.ID)

	svc := NewDriveService(f.repos.Drives, brokenStudentUpdates{f.repos.Students}, time.UTC,
		func() time.Time { return f.now }, zerolog.Nop())

	got, err := svc.MarkAttendance(ctx, coordA, d.ID, s.ID, true, "ok")
	require.NoError(t, err)
	assert.Equal(t, 1, got.VaccinatedCount)

	stored, err := f.drives.Get(ctx, coordA, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.VaccinatedCount)
	assert.True(t, stored.Students[0].Attended)

	student, err := f.students.Get(ctx, coordA, s.ID)
	require.NoError(t, err)
	assert.Empty(t, student.Vaccines)
	assert.Equal(t, models.StatusNotVaccinated, student.VaccinationStatus)
}
