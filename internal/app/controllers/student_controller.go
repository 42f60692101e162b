package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/services"
	"github.com/yigit/schoolvax/internal/middleware"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/export"
)

// Content types of roster exports
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// StudentController handles the coordinator's roster
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

func studentFilterFromQuery(ctx *gin.Context) models.StudentFilter {
	return models.StudentFilter{
		Grade:  ctx.Query("grade"),
		Status: models.VaccinationStatus(ctx.Query("status")),
		Search: ctx.Query("search"),
	}
}

// ListStudents lists the coordinator's students
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param grade query string false "Filter by grade"
// @Param status query string false "Filter by vaccination status" Enums(vaccinated, partially_vaccinated, not_vaccinated)
// @Param search query string false "Substring of name or student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.List(ctx.Request.Context(), middleware.CoordinatorID(ctx), studentFilterFromQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students, ""))
}

// GetStudent returns one student
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.Get(ctx.Request.Context(), middleware.CoordinatorID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, ""))
}

// CreateStudent adds a student to the roster
// @Summary Create student
// @Description Vaccine records, when given, determine the vaccination status
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), middleware.CoordinatorID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student, "Student created successfully"))
}

// UpdateStudent applies a partial update
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), middleware.CoordinatorID(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, "Student updated successfully"))
}

// DeleteStudent removes a student
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse "Student removed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.studentService.Delete(ctx.Request.Context(), middleware.CoordinatorID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Student removed"))
}

// ImportStudents bulk-creates students from a CSV or XLSX roster
// @Summary Import students
// @Description Rows that fail are reported individually; valid rows are still created
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Roster file (.csv or .xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import finished"
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable file"
// @Router /students/import [post]
func (c *StudentController) ImportStudents(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Please upload a file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded roster")
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Could not read the uploaded file"))
		return
	}
	defer file.Close()

	result, err := c.studentService.Import(ctx.Request.Context(), middleware.CoordinatorID(ctx), fileHeader.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, result.Message))
}

// ExportStudents downloads the filtered roster
// @Summary Export students
// @Tags students
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param grade query string false "Filter by grade"
// @Param status query string false "Filter by vaccination status"
// @Param format query string false "csv or xlsx" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "Roster file"
// @Failure 400 {object} dto.ErrorResponse "Unknown format"
// @Failure 404 {object} dto.ErrorResponse "No students found matching the criteria"
// @Router /students/export [get]
func (c *StudentController) ExportStudents(ctx *gin.Context) {
	format := ctx.DefaultQuery("format", export.FormatCSV)
	data, err := c.studentService.Export(ctx.Request.Context(), middleware.CoordinatorID(ctx), studentFilterFromQuery(ctx), format)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	contentType := ContentTypeCSV
	if format == export.FormatXLSX {
		contentType = ContentTypeXLSX
	}
	ctx.Header("Content-Disposition", "attachment; filename=students."+format)
	ctx.Data(http.StatusOK, contentType, data)
}
