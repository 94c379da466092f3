package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/nqanh/vku-student-manager/internal/app/controllers"
	appMigrations "github.com/nqanh/vku-student-manager/internal/app/migrations"
	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	appRepos "github.com/nqanh/vku-student-manager/internal/app/repositories"
	appRoutes "github.com/nqanh/vku-student-manager/internal/app/routes"
	appServices "github.com/nqanh/vku-student-manager/internal/app/services"
	"github.com/nqanh/vku-student-manager/internal/config"
	"github.com/nqanh/vku-student-manager/internal/db"
	"github.com/nqanh/vku-student-manager/internal/events"
	appMiddleware "github.com/nqanh/vku-student-manager/internal/middleware"
	pkgAuth "github.com/nqanh/vku-student-manager/internal/pkg/auth"
	"github.com/nqanh/vku-student-manager/internal/pkg/logger"
	"github.com/nqanh/vku-student-manager/internal/pkg/openrouter"
	"github.com/nqanh/vku-student-manager/internal/pkg/photostorage"
	"github.com/nqanh/vku-student-manager/internal/pkg/roster"
	"github.com/nqanh/vku-student-manager/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	PhotoStorage      photostorage.Storage
	EventPublisher    events.Publisher
	KafkaPublisher    *events.KafkaPublisher
	RosterHub         *roster.Hub
	RosterHandler     *roster.Handler
	AuthService       *appServices.AuthService
	StudentService    *appServices.StudentService
	ChatService       *appServices.ChatService
	AuthController    *appControllers.AuthController
	StudentController *appControllers.StudentController
	ChatController    *appControllers.ChatController
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

// SetupDatabase establishes the database connection, runs migrations,
// and seeds the default administrator.
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
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.EnsureDefaultAdmin(context.Background(), appRepos.NewAdminRepository(dbPool), cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed default admin")
		dbPool.Close()
		return nil, err
	}

	return dbPool, nil
}

// setupPhotoStorage selects the photo upload collaborator
func setupPhotoStorage(cfg *config.Config, lgr zerolog.Logger) (photostorage.Storage, error) {
	switch cfg.Photos.Provider {
	case "cloudinary":
		storage, err := photostorage.NewCloudinaryStorage(cfg.Photos.Folder)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cloudinary storage: %w", err)
		}
		lgr.Info().Str("folder", cfg.Photos.Folder).Msg("Cloudinary photo storage configured")
		return storage, nil
	default:
		baseURL := "http://localhost:" + cfg.Server.Port + "/uploads"
		storage, err := photostorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local photo storage: %w", err)
		}
		lgr.Info().Str("path", cfg.Server.StoragePath).Msg("Local photo storage configured")
		return storage, nil
	}
}

// BuildDependencies wires repositories, services, and controllers
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	storage, err := setupPhotoStorage(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize photo storage")
		return nil, err
	}
	deps.PhotoStorage = storage

	accessTokenExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		accessTokenExp = 12 * time.Hour
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: accessTokenExp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.EventPublisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		deps.KafkaPublisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, lgr)
		deps.EventPublisher = deps.KafkaPublisher
		lgr.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka event publishing configured")
	}

	snapshot := func(ctx context.Context) ([]byte, error) {
		students, err := deps.Repos.StudentRepository.List(ctx, "")
		if err != nil {
			return nil, err
		}
		return json.Marshal(dto.NewStudentListResponse(students))
	}

	deps.RosterHub = roster.NewHub(lgr)
	go deps.RosterHub.Run()
	deps.RosterHandler = roster.NewHandler(deps.RosterHub, snapshot, lgr)
	notifier := roster.NewPublisher(deps.RosterHub, snapshot, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.AdminRepository,
		deps.Repos.StudentRepository,
		deps.JWTService,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.PhotoStorage,
		notifier,
		deps.EventPublisher,
		lgr,
	)
	deps.ChatService = appServices.NewChatService(openrouter.NewClient(openrouter.Config{
		APIKey:  cfg.Chat.APIKey,
		BaseURL: cfg.Chat.BaseURL,
		Model:   cfg.Chat.Model,
		Referer: cfg.Chat.Referer,
		Title:   cfg.Chat.Title,
	}), lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.StudentService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.ChatController = appControllers.NewChatController(deps.ChatService, lgr)

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
	router.Use(appMiddleware.RequestLogger(lgr), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.ChatController,
		deps.RosterHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
