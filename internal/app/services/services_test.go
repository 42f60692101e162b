package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/app/repositories/inmem"
)

const (
	coordA = "coord-a"
	coordB = "coord-b"
)

type fixture struct {
	repos    *repositories.Repositories
	students StudentService
	drives   DriveService
	reports  ReportService
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	return newFixtureIn(t, time.UTC)
}

func newFixtureIn(t *testing.T, loc *time.Location) *fixture {
	t.Helper()

	f := &fixture{
		repos: inmem.NewRepositories(inmem.NewStore()),
		now:   time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	log := zerolog.Nop()

	f.students = NewStudentService(f.repos.Students, clock, log)
	f.drives = NewDriveService(f.repos.Drives, f.repos.Students, loc, clock, log)
	f.reports = NewReportService(f.repos.Students, f.repos.Drives, loc, clock, log)
	return f
}

func (f *fixture) student(t *testing.T, coordinatorID, studentID, grade string) *models.Student {
	t.Helper()
	st, err := f.students.Create(context.Background(), coordinatorID, &dto.CreateStudentRequest{
		Name:      "Student " + studentID,
		StudentID: studentID,
		Grade:     grade,
	})
	require.NoError(t, err)
	return st
}

func (f *fixture) drive(t *testing.T, coordinatorID, location string, date time.Time, studentIDs ...string) *models.VaccinationDrive {
	t.Helper()
	d, err := f.drives.Create(context.Background(), coordinatorID, &dto.CreateDriveRequest{
		Name:        "Drive at " + location,
		Date:        date,
		Location:    location,
		VaccineType: "MMR",
		TargetCount: 10,
		StudentIDs:  studentIDs,
	})
	require.NoError(t, err)
	return d
}

// start moves a scheduled drive to in_progress
func (f *fixture) start(t *testing.T, coordinatorID, id string) {
	t.Helper()
	status := models.DriveInProgress
	_, err := f.drives.Update(context.Background(), coordinatorID, id, &dto.UpdateDriveRequest{Status: &status})
	require.NoError(t, err)
}

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }
