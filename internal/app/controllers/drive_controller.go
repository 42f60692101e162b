package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/services"
	"github.com/yigit/schoolvax/internal/middleware"
)

// DriveController handles vaccination drives and their enrollments
type DriveController struct {
	driveService services.DriveService
	logger       zerolog.Logger
}

// NewDriveController creates a new DriveController
func NewDriveController(driveService services.DriveService, logger zerolog.Logger) *DriveController {
	return &DriveController{
		driveService: driveService,
		logger:       logger,
	}
}

// ListDrives lists the coordinator's drives by date
// @Summary List vaccination drives
// @Tags vaccination-drives
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(scheduled, in_progress, completed, cancelled)
// @Success 200 {object} dto.APIResponse{data=[]models.VaccinationDrive} "Drives retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /vaccination-drives [get]
func (c *DriveController) ListDrives(ctx *gin.Context) {
	drives, err := c.driveService.List(ctx.Request.Context(), middleware.CoordinatorID(ctx), models.DriveStatus(ctx.Query("status")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(drives, ""))
}

// UpcomingDrives returns the next scheduled drives
// @Summary Upcoming vaccination drives
// @Description The next three scheduled drives dated now or later
// @Tags vaccination-drives
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.VaccinationDrive} "Upcoming drives"
// @Router /vaccination-drives/stats/upcoming [get]
func (c *DriveController) UpcomingDrives(ctx *gin.Context) {
	drives, err := c.driveService.Upcoming(ctx.Request.Context(), middleware.CoordinatorID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(drives, ""))
}

// GetDrive returns one drive with its enrollments
// @Summary Get vaccination drive
// @Tags vaccination-drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=models.VaccinationDrive} "Drive retrieved"
// @Failure 404 {object} dto.ErrorResponse "Vaccination drive not found"
// @Router /vaccination-drives/{id} [get]
func (c *DriveController) GetDrive(ctx *gin.Context) {
	drive, err := c.driveService.Get(ctx.Request.Context(), middleware.CoordinatorID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(drive, ""))
}

// CreateDrive schedules a drive
// @Summary Create vaccination drive
// @Description Only one drive per location per calendar day is allowed
// @Tags vaccination-drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDriveRequest true "Drive information"
// @Success 201 {object} dto.APIResponse{data=models.VaccinationDrive} "Drive created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Scheduling conflict"
// @Router /vaccination-drives [post]
func (c *DriveController) CreateDrive(ctx *gin.Context) {
	var req dto.CreateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	drive, err := c.driveService.Create(ctx.Request.Context(), middleware.CoordinatorID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(drive, "Vaccination drive created successfully"))
}

// UpdateDrive edits a drive and optionally moves its status
// @Summary Update vaccination drive
// @Description Completed and cancelled drives cannot be modified
// @Tags vaccination-drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Param request body dto.UpdateDriveRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.VaccinationDrive} "Drive updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or status transition"
// @Failure 404 {object} dto.ErrorResponse "Vaccination drive not found"
// @Failure 409 {object} dto.ErrorResponse "Scheduling conflict"
// @Router /vaccination-drives/{id} [put]
func (c *DriveController) UpdateDrive(ctx *gin.Context) {
	var req dto.UpdateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	drive, err := c.driveService.Update(ctx.Request.Context(), middleware.CoordinatorID(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(drive, "Vaccination drive updated successfully"))
}

// DeleteDrive removes a scheduled drive
// @Summary Delete vaccination drive
// @Tags vaccination-drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} dto.APIResponse "Vaccination drive removed"
// @Failure 400 {object} dto.ErrorResponse "Drive is not scheduled"
// @Failure 404 {object} dto.ErrorResponse "Vaccination drive not found"
// @Router /vaccination-drives/{id} [delete]
func (c *DriveController) DeleteDrive(ctx *gin.Context) {
	if err := c.driveService.Delete(ctx.Request.Context(), middleware.CoordinatorID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Vaccination drive removed"))
}

// AddStudents enrolls students into a drive
// @Summary Enroll students
// @Tags vaccination-drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Param request body dto.AddStudentsRequest true "Student IDs"
// @Success 200 {object} dto.APIResponse{data=dto.AddStudentsResponse} "Students added"
// @Failure 400 {object} dto.ErrorResponse "Drive closed or students already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Drive or students not found"
// @Router /vaccination-drives/{id}/students [post]
func (c *DriveController) AddStudents(ctx *gin.Context) {
	var req dto.AddStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.driveService.AddStudents(ctx.Request.Context(), middleware.CoordinatorID(ctx), ctx.Param("id"), req.StudentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, resp.Message))
}

// MarkAttendance records whether an enrolled student attended
// @Summary Mark attendance
// @Description Attending records a dose of the drive's vaccine on the student
// @Tags vaccination-drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Param studentId path string true "Student ID"
// @Param request body dto.AttendanceRequest true "Attendance"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceResponse} "Student attendance updated"
// @Failure 400 {object} dto.ErrorResponse "Drive is not open for attendance"
// @Failure 404 {object} dto.ErrorResponse "Drive not found or student not enrolled"
// @Router /vaccination-drives/{id}/students/{studentId} [put]
func (c *DriveController) MarkAttendance(ctx *gin.Context) {
	var req dto.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	drive, err := c.driveService.MarkAttendance(ctx.Request.Context(), middleware.CoordinatorID(ctx),
		ctx.Param("id"), ctx.Param("studentId"), *req.Attended, req.Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	const msg = "Student attendance updated"
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AttendanceResponse{Message: msg, Drive: drive}, msg))
}
