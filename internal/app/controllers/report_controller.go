package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/services"
	"github.com/yigit/schoolvax/internal/middleware"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/helpers"
)

// ReportController serves the dashboard and report rollups
type ReportController struct {
	reportService services.ReportService
	loc           *time.Location
	logger        zerolog.Logger
}

// NewReportController creates a new ReportController. Date-only query values are read in loc.
func NewReportController(reportService services.ReportService, loc *time.Location, logger zerolog.Logger) *ReportController {
	return &ReportController{
		reportService: reportService,
		loc:           loc,
		logger:        logger,
	}
}

func queryDate(ctx *gin.Context, param string, loc *time.Location) (*time.Time, error) {
	raw := ctx.Query(param)
	if raw == "" {
		return nil, nil
	}
	t, err := helpers.ParseDateIn(raw, loc)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid %s %q, expected YYYY-MM-DD", param, raw)
	}
	return &t, nil
}

func reportFilterFromQuery(ctx *gin.Context, loc *time.Location) (dto.ReportFilter, error) {
	filter := dto.ReportFilter{
		Grade:       ctx.Query("grade"),
		VaccineType: ctx.Query("vaccineType"),
	}
	var err error
	if filter.StartDate, err = queryDate(ctx, "startDate", loc); err != nil {
		return filter, err
	}
	if filter.EndDate, err = queryDate(ctx, "endDate", loc); err != nil {
		return filter, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, apperrors.NewValidationError("endDate must not be before startDate")
	}
	return filter, nil
}

// Dashboard returns the landing-page rollup
// @Summary Dashboard statistics
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats} "Dashboard statistics"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /reports/dashboard [get]
func (c *ReportController) Dashboard(ctx *gin.Context) {
	stats, err := c.reportService.Dashboard(ctx.Request.Context(), middleware.CoordinatorID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats, ""))
}

// Data returns the filtered report rollups
// @Summary Report data
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "First drive date (YYYY-MM-DD)"
// @Param endDate query string false "Last drive date, inclusive (YYYY-MM-DD)"
// @Param grade query string false "Restrict students to a grade"
// @Param vaccineType query string false "Restrict to a vaccine"
// @Success 200 {object} dto.APIResponse{data=dto.ReportData} "Report data"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Router /reports/data [get]
func (c *ReportController) Data(ctx *gin.Context) {
	filter, err := reportFilterFromQuery(ctx, c.loc)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data, err := c.reportService.Data(ctx.Request.Context(), middleware.CoordinatorID(ctx), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(data, ""))
}

// Export downloads the report rollups as a workbook
// @Summary Export report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param startDate query string false "First drive date (YYYY-MM-DD)"
// @Param endDate query string false "Last drive date, inclusive (YYYY-MM-DD)"
// @Param grade query string false "Restrict students to a grade"
// @Param vaccineType query string false "Restrict to a vaccine"
// @Success 200 {file} file "Report workbook"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Router /reports/export [get]
func (c *ReportController) Export(ctx *gin.Context) {
	filter, err := reportFilterFromQuery(ctx, c.loc)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data, err := c.reportService.Export(ctx.Request.Context(), middleware.CoordinatorID(ctx), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", "attachment; filename=vaccination-report.xlsx")
	ctx.Data(http.StatusOK, ContentTypeXLSX, data)
}
