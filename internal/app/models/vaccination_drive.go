package models

import (
	"time"
)

// DriveStatus is the lifecycle state of a vaccination drive
type DriveStatus string

const (
	DriveScheduled  DriveStatus = "scheduled"
	DriveInProgress DriveStatus = "in_progress"
	DriveCompleted  DriveStatus = "completed"
	DriveCancelled  DriveStatus = "cancelled"
)

// driveTransitions maps a status to the statuses it may move to; terminal states have no entry
var driveTransitions = map[DriveStatus][]DriveStatus{
	DriveScheduled:  {DriveInProgress, DriveCancelled},
	DriveInProgress: {DriveCompleted, DriveCancelled},
}

// IsValid reports whether s is a known status
func (s DriveStatus) IsValid() bool {
	switch s {
	case DriveScheduled, DriveInProgress, DriveCompleted, DriveCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s DriveStatus) IsTerminal() bool {
	return s == DriveCompleted || s == DriveCancelled
}

// CanTransitionTo reports whether next is an allowed successor of s
func (s DriveStatus) CanTransitionTo(next DriveStatus) bool {
	for _, allowed := range driveTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsEnrollments reports whether students may be added in this state
func (s DriveStatus) AcceptsEnrollments() bool {
	return s == DriveScheduled || s == DriveInProgress
}

// AcceptsAttendance reports whether attendance may be marked in this state
func (s DriveStatus) AcceptsAttendance() bool {
	return s == DriveInProgress
}

// IsDeletable reports whether a drive in this state may be deleted
func (s DriveStatus) IsDeletable() bool {
	return s == DriveScheduled
}

// Enrollment is a student's participation in a drive.
// StudentID is empty once the referenced student has been deleted.
type Enrollment struct {
	ID        string          `json:"id" db:"id"`
	StudentID string          `json:"studentId,omitempty" db:"student_id"`
	Attended  bool            `json:"attended" db:"attended"`
	Notes     string          `json:"notes" db:"notes"`
	Student   *StudentSummary `json:"student,omitempty"` // Relation, no db tag
}

// VaccinationDrive is a scheduled vaccination event owned by a coordinator
type VaccinationDrive struct {
	ID              string       `json:"id" db:"id"`
	CoordinatorID   string       `json:"createdBy" db:"coordinator_id"`
	Name            string       `json:"name" db:"name" example:"Spring MMR Drive"`
	Description     string       `json:"description" db:"description"`
	Date            time.Time    `json:"date" db:"date" example:"2025-03-10T09:00:00Z"`
	Location        string       `json:"location" db:"location" example:"Main Hall"`
	VaccineType     string       `json:"vaccineType" db:"vaccine_type" example:"MMR"`
	TargetCount     int          `json:"targetCount" db:"target_count" example:"120"`
	VaccinatedCount int          `json:"vaccinatedCount" db:"vaccinated_count" example:"0"`
	Status          DriveStatus  `json:"status" db:"status" example:"scheduled"`
	Students        []Enrollment `json:"students"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`
}

// FindEnrollment returns the enrollment of studentID, or nil
func (d *VaccinationDrive) FindEnrollment(studentID string) *Enrollment {
	if studentID == "" {
		return nil
	}
	for i := range d.Students {
		if d.Students[i].StudentID == studentID {
			return &d.Students[i]
		}
	}
	return nil
}

// IsEnrolled reports whether studentID already has an enrollment
func (d *VaccinationDrive) IsEnrolled(studentID string) bool {
	return d.FindEnrollment(studentID) != nil
}

// MarkAttendance stores attended and notes on the enrollment of studentID and adjusts
// VaccinatedCount on a flip: +1 for false to true, -1 floored at zero for true to false.
// It returns whether the student newly attended and false when no enrollment exists.
func (d *VaccinationDrive) MarkAttendance(studentID string, attended bool, notes string) (flippedOn bool, found bool) {
	e := d.FindEnrollment(studentID)
	if e == nil {
		return false, false
	}

	was := e.Attended
	e.Attended = attended
	e.Notes = notes

	switch {
	case !was && attended:
		d.VaccinatedCount++
		flippedOn = true
	case was && !attended:
		if d.VaccinatedCount > 0 {
			d.VaccinatedCount--
		}
	}

	return flippedOn, true
}

// AttendedCount counts enrollments marked attended
func (d *VaccinationDrive) AttendedCount() int {
	n := 0
	for _, e := range d.Students {
		if e.Attended {
			n++
		}
	}
	return n
}

// Clone returns a deep copy
func (d *VaccinationDrive) Clone() *VaccinationDrive {
	if d == nil {
		return nil
	}
	c := *d
	c.Students = make([]Enrollment, len(d.Students))
	for i, e := range d.Students {
		if e.Student != nil {
			s := *e.Student
			e.Student = &s
		}
		c.Students[i] = e
	}
	return &c
}

// DriveFilter narrows drive queries
type DriveFilter struct {
	Status DriveStatus
	// From and To bound the drive date inclusively when set
	From        *time.Time
	To          *time.Time
	VaccineType string
	// Statuses restricts to any of the listed states when non-empty
	Statuses []DriveStatus
	Limit    int
}

// Matches reports whether d passes the filter
func (f DriveFilter) Matches(d *VaccinationDrive) bool {
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if d.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.From != nil && d.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && d.Date.After(*f.To) {
		return false
	}
	if f.VaccineType != "" && d.VaccineType != f.VaccineType {
		return false
	}
	return true
}
