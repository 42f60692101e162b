package dto

import (
	"time"

	"github.com/yigit/schoolvax/internal/app/models"
)

// CreateDriveRequest represents a new vaccination drive
type CreateDriveRequest struct {
	Name        string    `json:"name" binding:"required" example:"Spring MMR Drive"`
	Date        time.Time `json:"date" binding:"required" example:"2025-03-10T09:00:00Z"`
	Location    string    `json:"location" binding:"required" example:"Main Hall"`
	VaccineType string    `json:"vaccineType" binding:"required" example:"MMR"`
	Description string    `json:"description"`
	TargetCount int       `json:"targetCount" binding:"required,gt=0" example:"120"`
	StudentIDs  []string  `json:"studentIds"`
}

// UpdateDriveRequest is a partial update with an optional status transition
type UpdateDriveRequest struct {
	Name        *string             `json:"name"`
	Date        *time.Time          `json:"date"`
	Location    *string             `json:"location"`
	VaccineType *string             `json:"vaccineType"`
	Description *string             `json:"description"`
	TargetCount *int                `json:"targetCount"`
	Status      *models.DriveStatus `json:"status" example:"in_progress"`
}

// AddStudentsRequest enrolls students into a drive
type AddStudentsRequest struct {
	StudentIDs []string `json:"studentIds" binding:"required,min=1"`
}

// AddStudentsResponse reports how many students were enrolled
type AddStudentsResponse struct {
	Message    string                   `json:"message" example:"Added 3 students to the vaccination drive"`
	AddedCount int                      `json:"addedCount" example:"3"`
	Drive      *models.VaccinationDrive `json:"drive"`
}

// AttendanceRequest marks a student's attendance on a drive
type AttendanceRequest struct {
	Attended *bool  `json:"attended" binding:"required"`
	Notes    string `json:"notes"`
}

// AttendanceResponse carries the updated drive
type AttendanceResponse struct {
	Message string                   `json:"message" example:"Student attendance updated"`
	Drive   *models.VaccinationDrive `json:"drive"`
}
