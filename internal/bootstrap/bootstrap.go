package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/schoolvax/internal/app/controllers"
	appMigrations "github.com/yigit/schoolvax/internal/app/migrations"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	appRepos "github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/app/repositories/inmem"
	appRoutes "github.com/yigit/schoolvax/internal/app/routes"
	appServices "github.com/yigit/schoolvax/internal/app/services"
	"github.com/yigit/schoolvax/internal/config"
	"github.com/yigit/schoolvax/internal/db"
	appMiddleware "github.com/yigit/schoolvax/internal/middleware"
	pkgAuth "github.com/yigit/schoolvax/internal/pkg/auth"
	"github.com/yigit/schoolvax/internal/pkg/logger"
	"github.com/yigit/schoolvax/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	StudentService    appServices.StudentService
	DriveService      appServices.DriveService
	ReportService     appServices.ReportService
	AuthController    *appControllers.AuthController
	StudentController *appControllers.StudentController
	DriveController   *appControllers.DriveController
	ReportController  *appControllers.ReportController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	AuthLimiter       *appMiddleware.RateLimiter // nil when rate limiting is disabled
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
}

// Close releases background resources owned by the dependencies
func (d *Dependencies) Close() {
	if d.AuthLimiter != nil {
		d.AuthLimiter.Stop()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store and runs migrations.
// The returned pool is nil for the memory driver.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *pgxpool.Pool, error) {
	ctx := context.Background()

	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store, data is lost on restart")
		repos := inmem.NewRepositories(inmem.NewStore())
		if err := seedDemoData(ctx, cfg, repos, lgr); err != nil {
			return nil, nil, err
		}
		return repos, nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	if cfg.Database.AutoMigrate {
		lgr.Info().Msg("Running database migrations...")
		migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := appMigrations.NewMigrator(dbPool).Up(migrateCtx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			dbPool.Close()
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
	}

	repos := appRepos.NewRepositories(dbPool)
	if err := seedDemoData(ctx, cfg, repos, lgr); err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	return repos, dbPool, nil
}

func seedDemoData(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	if !cfg.Seed.Enabled {
		return nil
	}
	demo := seed.Coordinator{
		Name:     cfg.Seed.Name,
		Email:    cfg.Seed.Email,
		Password: cfg.Seed.Password,
		School:   cfg.Seed.School,
	}
	if err := seed.CreateDefaultData(ctx, repos.Coordinators, demo, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data")
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	return nil
}

// BuildDependencies initializes application services, middleware and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos}
	loc := cfg.Location()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(repos.Coordinators, deps.JWTService, time.Now, lgr.With().Str("service", "auth").Logger())
	deps.StudentService = appServices.NewStudentService(repos.Students, time.Now, lgr.With().Str("service", "students").Logger())
	deps.DriveService = appServices.NewDriveService(repos.Drives, repos.Students, loc, time.Now, lgr.With().Str("service", "drives").Logger())
	deps.ReportService = appServices.NewReportService(repos.Students, repos.Drives, loc, time.Now, lgr.With().Str("service", "reports").Logger())

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.Coordinators, lgr)
	if cfg.RateLimit.Enabled {
		deps.AuthLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.DriveController = appControllers.NewDriveController(deps.DriveService, lgr)
	deps.ReportController = appControllers.NewReportController(deps.ReportService, loc, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.UseJSONFieldNames()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(),
		appMiddleware.CORS(cfg.Server.CORSOrigin),
	)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")))
	})

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.DriveController,
		deps.ReportController,
		deps.AuthMiddleware,
		deps.AuthLimiter,
		deps.Repos.Health,
	)

	return router
}
