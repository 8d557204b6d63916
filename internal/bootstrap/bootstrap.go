package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/emrecan/internhub/docs" // Import generated swagger docs
	appControllers "github.com/emrecan/internhub/internal/app/controllers"
	appMigrations "github.com/emrecan/internhub/internal/app/migrations"
	appRepos "github.com/emrecan/internhub/internal/app/repositories"
	appRoutes "github.com/emrecan/internhub/internal/app/routes"
	appServices "github.com/emrecan/internhub/internal/app/services"
	"github.com/emrecan/internhub/internal/config"
	"github.com/emrecan/internhub/internal/db"
	appMiddleware "github.com/emrecan/internhub/internal/middleware"
	pkgAuth "github.com/emrecan/internhub/internal/pkg/auth"
	"github.com/emrecan/internhub/internal/pkg/fixture"
	"github.com/emrecan/internhub/internal/pkg/gitlab"
	"github.com/emrecan/internhub/internal/pkg/helpers"
	"github.com/emrecan/internhub/internal/pkg/logger"
	"github.com/emrecan/internhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos    *appRepos.Repositories
	Resolver gitlab.Resolver
	Fetcher  gitlab.ActivityFetcher

	JWTService        *pkgAuth.JWTService
	AuthService       *appServices.AuthService
	OnboardingService *appServices.OnboardingService
	CatalogService    *appServices.CatalogService
	ApprovalService   *appServices.ApprovalService
	ActivityService   *appServices.ActivityService
	DashboardService  *appServices.DashboardService
	AdminService      *appServices.AdminService

	AuthController        *appControllers.AuthController
	OnboardingController  *appControllers.OnboardingController
	CollegeController     *appControllers.CollegeController
	JoinRequestController *appControllers.JoinRequestController
	ActivityController    *appControllers.ActivityController
	DashboardController   *appControllers.DashboardController
	AdminController       *appControllers.AdminController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
// Not called in demo mode, which runs entirely in memory.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes repositories, services, and controllers.
// Demo mode swaps the Postgres-backed stores and the GitLab client for the
// in-memory fixture implementations; everything downstream is wired the
// same way and cannot tell the difference.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	ctx := context.Background()

	if cfg.Server.DemoMode {
		lgr.Info().Msg("Demo mode enabled, using in-memory stores and canned identities")
		store := fixture.NewStore()
		resolver := fixture.NewResolver(cfg.Server.BaseURL)
		deps.Repos = fixture.NewRepositories(store)
		deps.Resolver = resolver
		feed := fixture.NewActivityFeed()
		fixture.SeedDemoActivity(feed)
		deps.Fetcher = feed

		if err := fixture.SeedDemoData(ctx, deps.Repos, resolver); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	} else {
		client := gitlab.NewClient(gitlab.Config{
			BaseURL:      cfg.GitLab.BaseURL,
			ClientID:     cfg.GitLab.ClientID,
			ClientSecret: cfg.GitLab.ClientSecret,
			RedirectURL:  cfg.GitLab.RedirectURL,
		})
		deps.Repos = appRepos.NewRepositories(dbPool)
		deps.Resolver = client
		deps.Fetcher = client
	}

	if err := seed.CreateBootstrapAdmin(ctx, cfg, deps.Repos.Users, lgr); err != nil {
		// Not fatal; the platform works without the admin account
		lgr.Error().Err(err).Msg("Failed to create bootstrap admin, proceeding anyway...")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.Users, deps.Resolver, deps.JWTService, lgr)
	deps.OnboardingService = appServices.NewOnboardingService(
		deps.Repos.Users,
		deps.Repos.Colleges,
		deps.Repos.Cohorts,
		deps.Repos.JoinRequests,
		lgr,
	)
	deps.CatalogService = appServices.NewCatalogService(deps.Repos.Colleges, deps.Repos.Cohorts, lgr)
	deps.ApprovalService = appServices.NewApprovalService(deps.Repos.Users, deps.Repos.JoinRequests, deps.Repos.Colleges, deps.Repos.Cohorts, lgr)
	deps.ActivityService = appServices.NewActivityService(deps.Repos.Users, deps.Repos.Colleges, deps.Repos.Activities, deps.Fetcher, lgr)
	deps.DashboardService = appServices.NewDashboardService(
		deps.Repos.Users,
		deps.Repos.Colleges,
		deps.Repos.Cohorts,
		deps.Repos.JoinRequests,
		lgr,
	)
	deps.AdminService = appServices.NewAdminService(deps.Repos.Users, deps.Repos.Colleges, deps.Repos.Cohorts, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.OnboardingController = appControllers.NewOnboardingController(deps.OnboardingService)
	deps.CollegeController = appControllers.NewCollegeController(deps.CatalogService)
	deps.JoinRequestController = appControllers.NewJoinRequestController(deps.ApprovalService)
	deps.ActivityController = appControllers.NewActivityController(deps.ActivityService)
	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService, deps.DashboardService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.OnboardingController,
		deps.CollegeController,
		deps.JoinRequestController,
		deps.ActivityController,
		deps.DashboardController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}
