package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolvax/internal/app/controllers"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/middleware"
	"github.com/yigit/schoolvax/internal/pkg/metrics"
)

// healthTimeout bounds the store ping of the health check
const healthTimeout = 2 * time.Second

// SetupRouter configures all application routes.
// authLimiter throttles the public auth endpoints; nil disables throttling.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	driveController *controllers.DriveController,
	reportController *controllers.ReportController,
	authMiddleware *middleware.AuthMiddleware,
	authLimiter *middleware.RateLimiter,
	health repositories.Pinger,
) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"name": "SchoolVax API", "version": "1.0"}, "Welcome to the SchoolVax API"))
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheck(health))

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		public := auth.Group("")
		if authLimiter != nil {
			public.Use(middleware.RateLimit(authLimiter))
		}
		public.POST("/signup", authController.Signup)
		public.POST("/login", authController.Login)

		auth.GET("/verify", authMiddleware.JWTAuth(), authController.Verify)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	students := authenticated.Group("/students")
	{
		// static segments before /:id
		students.GET("/export", studentController.ExportStudents)
		students.POST("/import", studentController.ImportStudents)

		students.GET("", studentController.ListStudents)
		students.POST("", studentController.CreateStudent)
		students.GET("/:id", studentController.GetStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}

	drives := authenticated.Group("/vaccination-drives")
	{
		drives.GET("/stats/upcoming", driveController.UpcomingDrives)

		drives.GET("", driveController.ListDrives)
		drives.POST("", driveController.CreateDrive)
		drives.GET("/:id", driveController.GetDrive)
		drives.PUT("/:id", driveController.UpdateDrive)
		drives.DELETE("/:id", driveController.DeleteDrive)

		// Enrollment and attendance
		drives.POST("/:id/students", driveController.AddStudents)
		drives.PUT("/:id/students/:studentId", driveController.MarkAttendance)
	}

	reports := authenticated.Group("/reports")
	{
		reports.GET("/dashboard", reportController.Dashboard)
		reports.GET("/data", reportController.Data)
		reports.GET("/export", reportController.Export)
	}
}

// healthCheck reports whether the backing store answers
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.APIResponse "Service healthy"
// @Failure 503 {object} dto.ErrorResponse "Database unavailable"
// @Router /health [get]
func healthCheck(pinger repositories.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		start := time.Now()
		err := pinger.Ping(ctx)
		metrics.ObserveDBPing(time.Since(start))
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Database unavailable").
				WithSeverity(dto.ErrorSeverityCritical)
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		}
		c.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok", "database": "up"}, ""))
	}
}
