package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/export"
)

func TestCreateStudent_StatusRule(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.CreateStudentRequest
		want     models.VaccinationStatus
		wantErr  error
		vaccines int
	}{
		{
			name: "default",
			req:  dto.CreateStudentRequest{},
			want: models.StatusNotVaccinated,
		},
		{
			name: "explicit status without records",
			req:  dto.CreateStudentRequest{VaccinationStatus: "vaccinated"},
			want: models.StatusVaccinated,
		},
		{
			name:     "records win over explicit status",
			req:      dto.CreateStudentRequest{VaccinationStatus: "vaccinated", Vaccines: []models.VaccineRecord{{Name: "MMR", Doses: 1}}},
			want:     models.StatusPartiallyVaccinated,
			vaccines: 1,
		},
		{
			name:     "completed records",
			req:      dto.CreateStudentRequest{Vaccines: []models.VaccineRecord{{Name: "MMR", Doses: 2}, {Name: "Polio", Doses: 3}}},
			want:     models.StatusVaccinated,
			vaccines: 2,
		},
		{
			name:    "unknown status",
			req:     dto.CreateStudentRequest{VaccinationStatus: "immune"},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "duplicate vaccine",
			req:     dto.CreateStudentRequest{Vaccines: []models.VaccineRecord{{Name: "MMR", Doses: 1}, {Name: " MMR ", Doses: 1}}},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "bad date of birth",
			req:     dto.CreateStudentRequest{DateOfBirth: "04/05/2010"},
			wantErr: apperrors.ErrValidationFailed,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := tt.req
			req.Name = "Ada"
			req.StudentID = "S-" + string(rune('A'+i))
			req.Grade = "10th"

			st, err := f.students.Create(context.Background(), coordA, &req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.VaccinationStatus)
			assert.Len(t, st.Vaccines, tt.vaccines)
		})
	}
}

func TestCreateStudent_UniqueStudentID(t *testing.T) {
	f := newFixture(t)
	f.student(t, coordA, "S-1", "9th")

	_, err := f.students.Create(context.Background(), coordB, &dto.CreateStudentRequest{Name: "x", StudentID: "S-1", Grade: "9th"})
	assert.ErrorIs(t, err, apperrors.ErrConflict, "student IDs are unique across coordinators")
}

func TestUpdateStudent_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st, err := f.students.Create(ctx, coordA, &dto.CreateStudentRequest{
		Name: "Ada", StudentID: "S-1", Grade: "9th", Class: "A", DateOfBirth: "2010-05-04",
	})
	require.NoError(t, err)
	f.student(t, coordA, "S-2", "9th")

	updated, err := f.students.Update(ctx, coordA, st.ID, &dto.UpdateStudentRequest{Grade: ptr("10th")})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "A", updated.Class)
	assert.Equal(t, "10th", updated.Grade)
	require.NotNil(t, updated.DateOfBirth)
	assert.Equal(t, "2010-05-04", updated.DateOfBirth.Format("2006-01-02"))

	_, err = f.students.Update(ctx, coordA, st.ID, &dto.UpdateStudentRequest{StudentID: ptr("S-2")})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	vaccines := []models.VaccineRecord{{Name: "MMR", Doses: 2}}
	updated, err = f.students.Update(ctx, coordA, st.ID, &dto.UpdateStudentRequest{Vaccines: &vaccines})
	require.NoError(t, err)
	assert.Equal(t, models.StatusVaccinated, updated.VaccinationStatus)

	// records present: an explicit status cannot contradict them
	updated, err = f.students.Update(ctx, coordA, st.ID, &dto.UpdateStudentRequest{VaccinationStatus: ptr("not_vaccinated")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusVaccinated, updated.VaccinationStatus)

	_, err = f.students.Update(ctx, coordB, st.ID, &dto.UpdateStudentRequest{Grade: ptr("11th")})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestListStudents_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, coordA, "S-100", "9th")
	f.student(t, coordA, "S-200", "10th")
	f.student(t, coordB, "S-300", "9th")

	all, err := f.students.List(ctx, coordA, models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ninth, err := f.students.List(ctx, coordA, models.StudentFilter{Grade: "9th"})
	require.NoError(t, err)
	require.Len(t, ninth, 1)
	assert.Equal(t, "S-100", ninth[0].StudentID)

	found, err := f.students.List(ctx, coordA, models.StudentFilter{Search: "s-2"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "S-200", found[0].StudentID)

	_, err = f.students.List(ctx, coordA, models.StudentFilter{Status: "immune"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestImportStudents(t *testing.T) {
	f := newFixture(t)
	f.student(t, coordB, "S-9", "9th")

	csv := strings.Join([]string{
		"name,studentId,grade,class,dateOfBirth,parentName,contactNumber,vaccinationStatus",
		"Ada,S-1,9th,A,2010-05-04,Byron,555,",
		"Grace,S-2,10th,B,,,,partially_vaccinated",
		",S-3,10th,,,,,",
		"Alan,S-1,11th,,,,,",
		"Linus,S-9,12th,,,,,",
		"Ken,S-4,12th,,not-a-date,,,",
		"Rob,S-5,12th,,,,,immune",
	}, "\n")

	res, err := f.students.Import(context.Background(), coordA, "roster.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 7, res.TotalCount)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, "Imported 2 students successfully", res.Message)
	require.Len(t, res.Errors, 5)
	assert.Equal(t, "Row 4: missing required fields: name", res.Errors[0])
	assert.Contains(t, res.Errors[1], "Row 5: Student ID S-1 is duplicated")
	assert.Equal(t, "Row 6: Student with ID S-9 already exists", res.Errors[2])
	assert.Contains(t, res.Errors[3], "Row 7: Invalid dateOfBirth")
	assert.Contains(t, res.Errors[4], "Row 8: invalid vaccinationStatus")

	students, err := f.students.List(context.Background(), coordA, models.StudentFilter{Status: models.StatusPartiallyVaccinated})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Grace", students[0].Name)
}

func TestImportStudents_RejectedRowDoesNotClaimID(t *testing.T) {
	f := newFixture(t)

	csv := strings.Join([]string{
		"name,studentId,grade,class,dateOfBirth,parentName,contactNumber,vaccinationStatus",
		"Ada,S-1,9th,,not-a-date,,,",
		"Ada,S-1,9th,,2010-05-04,,,",
		"Alan,S-1,11th,,,,,",
	}, "\n")

	res, err := f.students.Import(context.Background(), coordA, "roster.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.SuccessCount)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "Row 2: Invalid dateOfBirth")
	assert.Equal(t, "Row 4: Student ID S-1 is duplicated in the file (already imported from row 3)", res.Errors[1])

	students, err := f.students.List(context.Background(), coordA, models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.NotNil(t, students[0].DateOfBirth)
}

func TestImportStudents_RejectsFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.students.Import(context.Background(), coordA, "roster.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = f.students.Import(context.Background(), coordA, "roster.csv", strings.NewReader("name,grade\nAda,9th\n"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestExportStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.students.Export(ctx, coordA, models.StudentFilter{}, "csv")
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.students.Create(ctx, coordA, &dto.CreateStudentRequest{
		Name: "Ada", StudentID: "S-1", Grade: "9th", DateOfBirth: "2010-05-04",
	})
	require.NoError(t, err)
	f.student(t, coordA, "S-2", "10th")

	data, err := f.students.Export(ctx, coordA, models.StudentFilter{Grade: "9th"}, "")
	require.NoError(t, err)
	rows, err := export.ParseRoster(export.FormatCSV, bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "S-1", rows[0].StudentID)
	assert.Equal(t, "2010-05-04", rows[0].DateOfBirth)
	assert.Equal(t, "not_vaccinated", rows[0].VaccinationStatus)

	data, err = f.students.Export(ctx, coordA, models.StudentFilter{}, "xlsx")
	require.NoError(t, err)
	rows, err = export.ParseRoster(export.FormatXLSX, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = f.students.Export(ctx, coordA, models.StudentFilter{}, "pdf")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
