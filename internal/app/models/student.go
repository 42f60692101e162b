package models

import (
	"strings"
	"time"
)

// DosesForCompletion is the dose count at which a vaccine record is considered completed,
// independent of the vaccine name.
const DosesForCompletion = 2

// VaccinationStatus is the derived aggregate status of a student
type VaccinationStatus string

const (
	StatusVaccinated          VaccinationStatus = "vaccinated"
	StatusPartiallyVaccinated VaccinationStatus = "partially_vaccinated"
	StatusNotVaccinated       VaccinationStatus = "not_vaccinated"
)

// AllVaccinationStatuses lists the statuses in reporting order
var AllVaccinationStatuses = []VaccinationStatus{
	StatusVaccinated,
	StatusPartiallyVaccinated,
	StatusNotVaccinated,
}

// IsValid reports whether s is a known status
func (s VaccinationStatus) IsValid() bool {
	switch s {
	case StatusVaccinated, StatusPartiallyVaccinated, StatusNotVaccinated:
		return true
	}
	return false
}

// Label returns the human-readable name used in reports
func (s VaccinationStatus) Label() string {
	switch s {
	case StatusVaccinated:
		return "Fully Vaccinated"
	case StatusPartiallyVaccinated:
		return "Partially Vaccinated"
	case StatusNotVaccinated:
		return "Not Vaccinated"
	}
	return string(s)
}

// VaccineRecord is the dose history of one vaccine for a student
type VaccineRecord struct {
	Name       string     `json:"name" db:"name" example:"MMR"`
	LastDoseAt *time.Time `json:"date,omitempty" db:"last_dose_at" example:"2025-03-10T09:00:00Z"`
	Doses      int        `json:"doses" db:"doses" example:"1"`
	Completed  bool       `json:"completed" db:"completed" example:"false"`
}

// Student is a roster entry owned by a coordinator
type Student struct {
	ID                string            `json:"id" db:"id"`
	CoordinatorID     string            `json:"createdBy" db:"coordinator_id"`
	Name              string            `json:"name" db:"name" example:"Ada Lovelace"`
	StudentID         string            `json:"studentId" db:"student_id" example:"S-1001"`
	Grade             string            `json:"grade" db:"grade" example:"10th"`
	Class             string            `json:"class" db:"class" example:"B"`
	DateOfBirth       *time.Time        `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	ParentName        string            `json:"parentName" db:"parent_name"`
	ContactNumber     string            `json:"contactNumber" db:"contact_number"`
	VaccinationStatus VaccinationStatus `json:"vaccinationStatus" db:"vaccination_status"`
	Vaccines          []VaccineRecord   `json:"vaccines"`
	CreatedAt         time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time         `json:"updatedAt" db:"updated_at"`
}

// DeriveVaccinationStatus computes the aggregate status from vaccine records:
// no records is not_vaccinated, all completed is vaccinated, anything else is partially_vaccinated.
func DeriveVaccinationStatus(records []VaccineRecord) VaccinationStatus {
	if len(records) == 0 {
		return StatusNotVaccinated
	}
	for _, r := range records {
		if !r.Completed {
			return StatusPartiallyVaccinated
		}
	}
	return StatusVaccinated
}

// RecordDose adds one dose of vaccine at the given time and recomputes the derived status
func (s *Student) RecordDose(vaccine string, at time.Time) VaccineRecord {
	doseAt := at
	for i := range s.Vaccines {
		rec := &s.Vaccines[i]
		if rec.Name != vaccine {
			continue
		}
		rec.Doses++
		rec.LastDoseAt = &doseAt
		if rec.Doses >= DosesForCompletion {
			rec.Completed = true
		}
		s.RefreshStatus()
		return *rec
	}

	rec := VaccineRecord{
		Name:       vaccine,
		LastDoseAt: &doseAt,
		Doses:      1,
		Completed:  1 >= DosesForCompletion,
	}
	s.Vaccines = append(s.Vaccines, rec)
	s.RefreshStatus()
	return rec
}

// RefreshStatus recomputes VaccinationStatus from the vaccine records
func (s *Student) RefreshStatus() {
	s.VaccinationStatus = DeriveVaccinationStatus(s.Vaccines)
}

// Clone returns a deep copy
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	c := *s
	if s.DateOfBirth != nil {
		dob := *s.DateOfBirth
		c.DateOfBirth = &dob
	}
	c.Vaccines = make([]VaccineRecord, len(s.Vaccines))
	for i, v := range s.Vaccines {
		if v.LastDoseAt != nil {
			at := *v.LastDoseAt
			v.LastDoseAt = &at
		}
		c.Vaccines[i] = v
	}
	return &c
}

// NormalizeVaccines validates supplied vaccine records: names are trimmed and must be unique
// and non-empty, dose counts must not be negative. The completed flag is recomputed from the dose count.
func NormalizeVaccines(records []VaccineRecord) ([]VaccineRecord, string) {
	seen := make(map[string]struct{}, len(records))
	out := make([]VaccineRecord, 0, len(records))
	for _, r := range records {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return nil, "vaccine name is required"
		}
		if _, dup := seen[r.Name]; dup {
			return nil, "duplicate vaccine record for " + r.Name
		}
		if r.Doses < 0 {
			return nil, "vaccine doses cannot be negative"
		}
		seen[r.Name] = struct{}{}
		r.Completed = r.Doses >= DosesForCompletion
		out = append(out, r)
	}
	return out, ""
}

// StudentFilter narrows roster queries
type StudentFilter struct {
	Grade  string
	Status VaccinationStatus
	// Search is a case-insensitive substring of name or student ID
	Search string
}

// StudentSummary is the subset of a student embedded in drive enrollments
type StudentSummary struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	StudentID         string            `json:"studentId"`
	Grade             string            `json:"grade"`
	Class             string            `json:"class"`
	VaccinationStatus VaccinationStatus `json:"vaccinationStatus"`
}

// Summary returns the enrollment view of the student
func (s *Student) Summary() *StudentSummary {
	return &StudentSummary{
		ID:                s.ID,
		Name:              s.Name,
		StudentID:         s.StudentID,
		Grade:             s.Grade,
		Class:             s.Class,
		VaccinationStatus: s.VaccinationStatus,
	}
}
