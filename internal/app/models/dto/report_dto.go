package dto

import (
	"time"

	"github.com/yigit/schoolvax/internal/app/models"
)

// DailyCount is the number of vaccinations on one calendar day
type DailyCount struct {
	Date  string `json:"date" example:"2025-03-10"`
	Count int    `json:"count" example:"42"`
}

// DashboardStats is the coordinator's landing-page rollup
type DashboardStats struct {
	TotalStudents         int                        `json:"totalStudents"`
	VaccinatedStudents    int                        `json:"vaccinatedStudents"`
	PendingVaccinations   int                        `json:"pendingVaccinations"`
	UpcomingDrives        int                        `json:"upcomingDrives"`
	VaccinationRate       float64                    `json:"vaccinationRate" example:"62.5"`
	RecentVaccinationData []DailyCount               `json:"recentVaccinationData"`
	UpcomingDrivesList    []*models.VaccinationDrive `json:"upcomingDrivesList"`
}

// StatusCount is one bucket of the status distribution
type StatusCount struct {
	Status string `json:"status" example:"Fully Vaccinated"`
	Key    string `json:"key" example:"vaccinated"`
	Count  int    `json:"count"`
}

// GradeRate is the vaccinated percentage of one grade
type GradeRate struct {
	Grade string `json:"grade" example:"10th"`
	Rate  int    `json:"rate" example:"75"`
}

// VaccineTypeCount counts vaccine records by vaccine name
type VaccineTypeCount struct {
	Type  string `json:"type" example:"MMR"`
	Count int    `json:"count"`
}

// MonthRate is the drive completion rate for one calendar month
type MonthRate struct {
	Month string `json:"month" example:"2025-03"`
	Label string `json:"label" example:"Mar 2025"`
	Rate  int    `json:"rate" example:"80"`
}

// ReportData is the full set of report rollups
type ReportData struct {
	VaccinationStatusDistribution []StatusCount      `json:"vaccinationStatusDistribution"`
	VaccinationRateByGrade        []GradeRate        `json:"vaccinationRateByGrade"`
	VaccineTypeDistribution       []VaccineTypeCount `json:"vaccineTypeDistribution"`
	VaccinationRateByMonth        []MonthRate        `json:"vaccinationRateByMonth"`
	RecentVaccinations            []DailyCount       `json:"recentVaccinations"`
}

// ReportFilter narrows the report rollups. StartDate and EndDate name the local calendar
// days that contain them; both days are included whole.
type ReportFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Grade       string
	VaccineType string
}
