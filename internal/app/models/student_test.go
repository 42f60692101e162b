package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveVaccinationStatus(t *testing.T) {
	tests := []struct {
		name    string
		records []VaccineRecord
		want    VaccinationStatus
	}{
		{"no records", nil, StatusNotVaccinated},
		{"one incomplete", []VaccineRecord{{Name: "MMR", Doses: 1}}, StatusPartiallyVaccinated},
		{"one complete", []VaccineRecord{{Name: "MMR", Doses: 2, Completed: true}}, StatusVaccinated},
		{"mixed", []VaccineRecord{{Name: "MMR", Doses: 2, Completed: true}, {Name: "HPV", Doses: 1}}, StatusPartiallyVaccinated},
		{"all complete", []VaccineRecord{{Name: "MMR", Completed: true}, {Name: "HPV", Completed: true}}, StatusVaccinated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveVaccinationStatus(tt.records))
		})
	}
}

func TestRecordDose_TwoDoseCompletion(t *testing.T) {
	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 1, 0)

	s := &Student{VaccinationStatus: StatusNotVaccinated}

	rec := s.RecordDose("MMR", first)
	assert.Equal(t, 1, rec.Doses)
	assert.False(t, rec.Completed)
	assert.Equal(t, StatusPartiallyVaccinated, s.VaccinationStatus)
	require.Len(t, s.Vaccines, 1)

	rec = s.RecordDose("MMR", second)
	assert.Equal(t, 2, rec.Doses)
	assert.True(t, rec.Completed)
	require.NotNil(t, rec.LastDoseAt)
	assert.True(t, rec.LastDoseAt.Equal(second))
	assert.Equal(t, StatusVaccinated, s.VaccinationStatus)
	assert.Len(t, s.Vaccines, 1)

	// a third dose stays completed
	rec = s.RecordDose("MMR", second)
	assert.Equal(t, 3, rec.Doses)
	assert.True(t, rec.Completed)
}

func TestRecordDose_NewVaccineDowngradesStatus(t *testing.T) {
	s := &Student{Vaccines: []VaccineRecord{{Name: "MMR", Doses: 2, Completed: true}}}
	s.RefreshStatus()
	require.Equal(t, StatusVaccinated, s.VaccinationStatus)

	s.RecordDose("HPV", time.Now())
	assert.Equal(t, StatusPartiallyVaccinated, s.VaccinationStatus)
	assert.Len(t, s.Vaccines, 2)
}

func TestNormalizeVaccines(t *testing.T) {
	out, msg := NormalizeVaccines([]VaccineRecord{{Name: " MMR ", Doses: 2}, {Name: "HPV", Doses: 1, Completed: true}})
	require.Empty(t, msg)
	assert.Equal(t, "MMR", out[0].Name)
	assert.True(t, out[0].Completed)
	assert.False(t, out[1].Completed)

	_, msg = NormalizeVaccines([]VaccineRecord{{Name: "MMR"}, {Name: "MMR"}})
	assert.Contains(t, msg, "duplicate")

	_, msg = NormalizeVaccines([]VaccineRecord{{Name: " "}})
	assert.NotEmpty(t, msg)

	_, msg = NormalizeVaccines([]VaccineRecord{{Name: "MMR", Doses: -1}})
	assert.NotEmpty(t, msg)
}

func TestStudent_CloneIsDeep(t *testing.T) {
	at := time.Now()
	s := &Student{Vaccines: []VaccineRecord{{Name: "MMR", Doses: 1, LastDoseAt: &at}}}

	c := s.Clone()
	c.Vaccines[0].Doses = 5
	*c.Vaccines[0].LastDoseAt = at.Add(time.Hour)

	assert.Equal(t, 1, s.Vaccines[0].Doses)
	assert.True(t, s.Vaccines[0].LastDoseAt.Equal(at))
}
