package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/hamza/campuscard/internal/app/controllers"
	appRoutes "github.com/hamza/campuscard/internal/app/routes"
	appServices "github.com/hamza/campuscard/internal/app/services"
	"github.com/hamza/campuscard/internal/app/store"
	"github.com/hamza/campuscard/internal/config"
	appMiddleware "github.com/hamza/campuscard/internal/middleware"
	pkgAuth "github.com/hamza/campuscard/internal/pkg/auth"
	"github.com/hamza/campuscard/internal/pkg/filestorage"
	"github.com/hamza/campuscard/internal/pkg/helpers"
	"github.com/hamza/campuscard/internal/pkg/logger"
	"github.com/hamza/campuscard/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             *store.StudentStore
	FileStorage       *filestorage.LocalStorage
	JWTService        *pkgAuth.JWTService
	AuthService       *appServices.AuthService
	StudentService    *appServices.StudentService
	CardService       *appServices.CardService
	ExportService     *appServices.ExportService
	ImportService     *appServices.ImportService
	AuthController    *appControllers.AuthController
	StudentController *appControllers.StudentController
	CardController    *appControllers.CardController
	ImportController  *appControllers.ImportController
	VerifyController  *appControllers.VerifyController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Logger            zerolog.Logger
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

// BuildDependencies initializes the store, services, and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Store = store.New(store.Config{
		WriteDelay:  helpers.ParseDuration(cfg.Store.WriteDelay, 500*time.Millisecond),
		DeleteDelay: helpers.ParseDuration(cfg.Store.DeleteDelay, 300*time.Millisecond),
	})

	if cfg.Store.SeedDemo {
		if err := seed.CreateDemoData(context.Background(), deps.Store, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to seed demo data, proceeding anyway...")
		}
	}

	// File storage baseURL must match the static file serving URL path
	fileStorageBaseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.Auth.JWTSecret,
		AccessTokenExp: helpers.ParseDuration(cfg.Auth.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.Auth.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.JWTService, cfg.Auth.AdminUsername, cfg.Auth.AdminPasswordHash)
	deps.StudentService = appServices.NewStudentService(deps.Store, deps.FileStorage)
	deps.CardService = appServices.NewCardService(
		deps.Store,
		deps.FileStorage,
		cfg.Card.InstitutionName,
		cfg.Card.Tagline,
		cfg.Server.BaseURL,
	)
	deps.ExportService = appServices.NewExportService(deps.Store, deps.CardService)
	deps.ImportService = appServices.NewImportService(deps.Store, cfg.Import.MaxFileSizeMB, cfg.Import.MaxRows)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, deps.ExportService)
	deps.CardController = appControllers.NewCardController(deps.CardService, deps.ExportService)
	deps.ImportController = appControllers.NewImportController(deps.ImportService, deps.ExportService)
	deps.VerifyController = appControllers.NewVerifyController(deps.StudentService)

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

	router := gin.Default()

	// Uploaded photos are served statically
	router.Static("/uploads", cfg.Server.StoragePath)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.CardController,
		deps.ImportController,
		deps.VerifyController,
		deps.AuthMiddleware,
	)

	return router
}
