package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/schoolconnector/internal/app/controllers"
	appEvents "github.com/yigit/schoolconnector/internal/app/events"
	appMigrations "github.com/yigit/schoolconnector/internal/app/migrations"
	appRepos "github.com/yigit/schoolconnector/internal/app/repositories"
	appRoutes "github.com/yigit/schoolconnector/internal/app/routes"
	appServices "github.com/yigit/schoolconnector/internal/app/services"
	"github.com/yigit/schoolconnector/internal/config"
	"github.com/yigit/schoolconnector/internal/db"
	appMiddleware "github.com/yigit/schoolconnector/internal/middleware"
	"github.com/yigit/schoolconnector/internal/pkg/connector"
	"github.com/yigit/schoolconnector/internal/pkg/filestorage"
	"github.com/yigit/schoolconnector/internal/pkg/helpers"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/pkg/metrics"
	pkgRedis "github.com/yigit/schoolconnector/internal/pkg/redis"
)

// Store is the selected persistence backend. Only the handles of the
// configured driver are set.
type Store struct {
	Repos    *appRepos.Repositories
	Postgres *db.PostgresDB
	Mongo    *db.MongoDB
}

// Health probes the backend; the memory store is always healthy.
func (s *Store) Health(ctx context.Context) error {
	switch {
	case s.Postgres != nil:
		return s.Postgres.Pool.Ping(ctx)
	case s.Mongo != nil:
		return s.Mongo.Client.Ping(ctx, nil)
	}
	return nil
}

// Close releases the backend connections
func (s *Store) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.Postgres.Close()
	return s.Mongo.Close(ctx)
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Connector         connector.Client
	School            appServices.SchoolIdentity
	StudentService    appServices.StudentService
	OnboardingService appServices.OnboardingService
	MailService       appServices.MailService
	FileService       appServices.FileService
	AuditLogService   appServices.AuditLogService
	BatchService      appServices.BatchService
	Reconciler        *appEvents.Reconciler
	Metrics           *metrics.Metrics

	// Redis and Subscriber are nil unless events.redis_url is set
	Redis      *pkgRedis.Client
	Subscriber *appEvents.RedisSubscriber

	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(config.ConfigPath("configs/config.yaml"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore connects to the configured database and prepares its schema.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return setupPostgres(ctx, cfg, lgr)
	case config.DriverMongo:
		return setupMongo(ctx, cfg, lgr)
	default:
		lgr.Warn().Msg("Using the in-memory student store, records are lost on restart")
		return &Store{Repos: appRepos.NewMemoryRepositories()}, nil
	}
}

func setupPostgres(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return &Store{
		Repos:    appRepos.NewPostgresRepositories(database.Pool),
		Postgres: database,
	}, nil
}

func setupMongo(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	lgr.Info().Str("database", cfg.Database.MongoDBName).Msg("Connecting to MongoDB...")
	database, err := db.NewMongoDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
		return nil, err
	}

	repo := appRepos.NewMongoStudentRepository(database.Database)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = database.Close(context.Background())
		return nil, fmt.Errorf("failed to create student indexes: %w", err)
	}
	lgr.Info().Msg("MongoDB connection established and indexes ensured.")

	return &Store{
		Repos: &appRepos.Repositories{StudentRepository: repo},
		Mongo: database,
	}, nil
}

// BuildDependencies initializes the connector client, services and event handling.
func BuildDependencies(ctx context.Context, cfg *config.Config, store *Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.New(deps.Registry)

	deps.Connector = connector.NewHTTPClient(connector.Options{
		BaseURL:   cfg.Connector.BaseURL,
		APIKey:    cfg.Connector.APIKey,
		Timeout:   helpers.ParseDuration("connector.timeout", cfg.Connector.Timeout, 30*time.Second),
		RateLimit: cfg.Connector.RateLimit,
		RateBurst: cfg.Connector.RateBurst,
		Metrics:   deps.Metrics,
	})

	school, err := appServices.EnsureSchoolIdentity(ctx, deps.Connector, cfg.School.Name, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to resolve the school identity on the connector")
		return nil, fmt.Errorf("failed to resolve school identity: %w", err)
	}
	deps.School = school
	lgr.Info().Str("address", school.Address).Str("school", school.Name()).Msg("School identity ready")

	assets, err := filestorage.NewLocalStorage(cfg.School.AssetsLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assets storage: %w", err)
	}

	deps.MailService = appServices.NewMailService(deps.Connector, assets)
	deps.FileService = appServices.NewFileService(deps.Connector)
	deps.AuditLogService = appServices.NewAuditLogService(deps.Connector)
	deps.StudentService = appServices.NewStudentService(
		store.Repos.StudentRepository,
		deps.Connector,
		deps.MailService,
		school,
		appServices.StudentServiceConfig{
			AutoMailBeforeOffboarding: cfg.Offboarding.AutoMail,
			MailFailurePolicy:         cfg.Offboarding.MailFailurePolicy,
		},
		deps.Metrics,
	)
	deps.OnboardingService = appServices.NewOnboardingService(deps.Connector, school, appServices.OnboardingConfig{
		NewQRFormat:   cfg.School.NewQRFormat,
		PlayStoreLink: cfg.School.PlayStoreLink,
		AppStoreLink:  cfg.School.AppStoreLink,
		Concurrency:   cfg.Batch.Concurrency,
	})
	deps.BatchService = appServices.NewBatchService(deps.StudentService, deps.OnboardingService)

	deps.Reconciler = appEvents.NewReconciler(
		store.Repos.StudentRepository,
		deps.Connector,
		deps.StudentService,
		helpers.ParseDuration("events.settle_delay", cfg.Events.SettleDelay, appEvents.DefaultSettleDelay),
		deps.Metrics,
	)

	if cfg.Events.RedisURL != "" {
		deps.Redis, err = pkgRedis.New(ctx, cfg.Events.RedisURL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to Redis")
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Subscriber = appEvents.NewRedisSubscriber(deps.Redis.Client, cfg.Events.RedisChannel, deps.Reconciler)
	}

	if !cfg.Events.WebhookEnabled && deps.Subscriber == nil {
		lgr.Warn().Msg("Neither the webhook nor a Redis channel is configured, connector events will not be processed")
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, store *Store, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(deps.Metrics),
	)

	checks := map[string]appControllers.HealthCheck{
		"database": store.Health,
		"connector": func(ctx context.Context) error {
			_, err := deps.Connector.GetIdentityInfo(ctx)
			return err
		},
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis.Health
	}

	ctrl := appRoutes.Controllers{
		Student:    appControllers.NewStudentController(deps.StudentService, deps.AuditLogService, deps.BatchService),
		Onboarding: appControllers.NewOnboardingController(deps.StudentService, deps.OnboardingService),
		Mail:       appControllers.NewMailController(deps.StudentService, deps.MailService),
		File:       appControllers.NewFileController(deps.StudentService, deps.FileService),
		Health:     appControllers.NewHealthController(checks),
	}
	if cfg.Events.WebhookEnabled {
		ctrl.Webhook = appControllers.NewWebhookController(deps.Reconciler)
	}

	appRoutes.SetupRouter(router, ctrl, appMiddleware.APIKeyAuth(cfg.Server.APIKey, cfg.Server.APIKeyHash), deps.Registry)
	return router, nil
}
