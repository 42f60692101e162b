package dto

import "github.com/yigit/schoolvax/internal/app/models"

// CreateStudentRequest represents a new roster entry
type CreateStudentRequest struct {
	Name              string                 `json:"name" binding:"required" example:"Ada Lovelace"`
	StudentID         string                 `json:"studentId" binding:"required" example:"S-1001"`
	Grade             string                 `json:"grade" binding:"required" example:"10th"`
	Class             string                 `json:"class" example:"B"`
	DateOfBirth       string                 `json:"dateOfBirth" example:"2010-05-04"`
	ParentName        string                 `json:"parentName"`
	ContactNumber     string                 `json:"contactNumber"`
	VaccinationStatus string                 `json:"vaccinationStatus" example:"not_vaccinated"`
	Vaccines          []models.VaccineRecord `json:"vaccines"`
}

// UpdateStudentRequest is a partial update; nil fields keep their stored value
type UpdateStudentRequest struct {
	Name              *string                `json:"name"`
	StudentID         *string                `json:"studentId"`
	Grade             *string                `json:"grade"`
	Class             *string                `json:"class"`
	DateOfBirth       *string                `json:"dateOfBirth"`
	ParentName        *string                `json:"parentName"`
	ContactNumber     *string                `json:"contactNumber"`
	VaccinationStatus *string                `json:"vaccinationStatus"`
	Vaccines          *[]models.VaccineRecord `json:"vaccines"`
}

// ImportResult summarizes a bulk roster import
type ImportResult struct {
	Message      string   `json:"message" example:"Imported 9 of 10 students"`
	SuccessCount int      `json:"successCount" example:"9"`
	TotalCount   int      `json:"totalCount" example:"10"`
	Errors       []string `json:"errors"`
}
