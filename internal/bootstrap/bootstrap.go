package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/campusdesk/internal/app/auth"
	appControllers "github.com/yigit/campusdesk/internal/app/controllers"
	appMigrations "github.com/yigit/campusdesk/internal/app/migrations"
	"github.com/yigit/campusdesk/internal/app/notify"
	appRepos "github.com/yigit/campusdesk/internal/app/repositories"
	appRoutes "github.com/yigit/campusdesk/internal/app/routes"
	appServices "github.com/yigit/campusdesk/internal/app/services"
	"github.com/yigit/campusdesk/internal/config"
	"github.com/yigit/campusdesk/internal/db"
	appMiddleware "github.com/yigit/campusdesk/internal/middleware"
	pkgAuth "github.com/yigit/campusdesk/internal/pkg/auth"
	"github.com/yigit/campusdesk/internal/pkg/cache"
	"github.com/yigit/campusdesk/internal/pkg/email"
	"github.com/yigit/campusdesk/internal/pkg/filestorage"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
	"github.com/yigit/campusdesk/internal/pkg/logger"
)

// DefaultConfigPath is where the server looks for its YAML configuration
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store      appRepos.Store
	Storage    filestorage.FileStorage
	Redis      *redis.Client // nil when no redis address is configured
	Dispatcher *notify.Dispatcher
	JWTService *pkgAuth.JWTService
	Gate       *appAuth.Gate

	AdminService       *appServices.AdminService
	AuthService        *appServices.AuthService
	InstitutionService *appServices.InstitutionService
	EnrollmentService  *appServices.EnrollmentService
	CourseService      *appServices.CourseService
	StudentService     *appServices.StudentService
	DashboardService   *appServices.DashboardService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// Options tweaks dependency construction. The zero value is production.
type Options struct {
	// BcryptCost overrides pkgAuth.BcryptCost when non-zero
	BcryptCost int
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:   level,
		Pretty:  strings.EqualFold(cfg.Logging.Format, "text"),
		Service: "campusdesk",
	})

	lgr := logger.WithField("mode", cfg.Server.Mode)
	lgr.Info().Str("logLevel", string(level)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	applied, err := appMigrations.NewMigrator(database.Pool).Up(ctx)
	if err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations are up to date.")

	return database, nil
}

// NewFileStorage picks the upload backend named by the storage driver.
func NewFileStorage(ctx context.Context, cfg *config.Config) (filestorage.FileStorage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return filestorage.NewS3Storage(ctx, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.Prefix)
	default:
		return filestorage.NewLocalStorage(cfg.Server.UploadPath, cfg.BaseURL())
	}
}

// BuildDependencies initializes services, controllers and the background
// notifier on top of store. Call Close when done.
func BuildDependencies(ctx context.Context, cfg *config.Config, store appRepos.Store, lgr zerolog.Logger, opts Options) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	var err error
	deps.Storage, err = NewFileStorage(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Redis, err = cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	var revoked pkgAuth.RevocationStore
	if deps.Redis != nil {
		revoked = pkgAuth.NewRedisRevocationStore(deps.Redis)
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis for token revocation and dashboard cache")
	} else {
		revoked = pkgAuth.NewMemoryRevocationStore()
		lgr.Warn().Msg("Redis not configured, token revocation is process-local and dashboard caching is off")
	}

	mailer := email.NewMailer(email.Config{
		Provider:       cfg.Email.Provider,
		Host:           cfg.Email.Host,
		Port:           cfg.Email.Port,
		Username:       cfg.Email.Username,
		Password:       cfg.Email.Password,
		UseTLS:         cfg.Email.UseTLS,
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromName:       cfg.Email.FromName,
		FromEmail:      cfg.Email.FromEmail,
	}, lgr)

	deps.Dispatcher, err = notify.NewDispatcher(notify.Config{MaxAttempts: cfg.Email.MaxAttempts}, mailer, lgr)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to start notification dispatcher: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Gate = appAuth.NewGate(deps.JWTService, revoked, store.Repositories(), lgr)

	hasher := pkgAuth.NewPasswordHasher(opts.BcryptCost)
	issuer := appServices.NewCredentialIssuer(hasher, cfg.Credentials.PasswordLength, deps.Dispatcher, lgr)
	statsTTL := helpers.ParseDuration(cfg.Redis.StatsTTL, 30*time.Second)

	deps.AdminService = appServices.NewAdminService(store, hasher, lgr)
	deps.AuthService = appServices.NewAuthService(store, hasher, deps.JWTService, deps.Gate, lgr)
	deps.InstitutionService = appServices.NewInstitutionService(store, deps.Storage, issuer, lgr)
	deps.EnrollmentService = appServices.NewEnrollmentService(store, deps.Storage, issuer, lgr)
	deps.CourseService = appServices.NewCourseService(store, deps.Storage, lgr)
	deps.StudentService = appServices.NewStudentService(store, deps.Storage, lgr)
	deps.DashboardService = appServices.NewDashboardService(store, cache.NewHelper(deps.Redis, "campusdesk:"), statsTTL, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Gate)
	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.AuthService, deps.AdminService, cfg.IsProduction(), lgr),
		Institution: appControllers.NewInstitutionController(deps.InstitutionService, lgr),
		Course:      appControllers.NewCourseController(deps.CourseService),
		Student:     appControllers.NewStudentController(deps.EnrollmentService, deps.StudentService, lgr),
		Dashboard:   appControllers.NewDashboardController(deps.DashboardService, store),
	}

	return deps, nil
}

// Close stops the notifier, draining queued emails, and releases redis.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Dispatcher != nil {
		if err := d.Dispatcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notification dispatcher: %w", err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ConfigureGinMode switches gin to release mode in production.
func ConfigureGinMode(cfg *config.Config, lgr zerolog.Logger) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
		return
	}
	gin.SetMode(gin.DebugMode)
	lgr.Info().Msg("Setting Gin mode to debug")
}

// SetupRouter configures the Gin engine with middleware and routes, wrapped
// in CORS handling for the configured browser origins.
func SetupRouter(cfg *config.Config, deps *Dependencies) http.Handler {
	router := gin.New()
	router.MaxMultipartMemory = 4 * filestorage.MaxUploadSize
	router.Use(appMiddleware.RequestLogger(deps.Logger), gin.Recovery())

	if local, ok := deps.Storage.(*filestorage.LocalStorage); ok {
		router.Static(filestorage.PublicPrefix, local.BasePath())
		deps.Logger.Info().Str("path", local.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return withCORS(cfg.Origins(), router)
}

// withCORS lets the configured frontends call the API with session cookies.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	return middleware.Handler(h)
}
