package di

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"todoai/application/analysis"
	"todoai/application/serviceimpl"
	"todoai/domain/ports"
	"todoai/domain/repositories"
	"todoai/domain/services"
	"todoai/infrastructure/ai"
	natspkg "todoai/infrastructure/nats"
	"todoai/infrastructure/postgres"
	redispkg "todoai/infrastructure/redis"
	"todoai/interfaces/api/handlers"
	"todoai/pkg/config"
	"todoai/pkg/logger"
	"todoai/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client   // analysis cache + notify dedupe (optional)
	NATSClient     *natspkg.Client    // task events (optional)
	NATSPublisher  *natspkg.Publisher // nil เมื่อไม่มี NATS
	EventScheduler scheduler.EventScheduler
	AICascade      *ai.Cascade

	// Ports
	EventPublisher ports.TaskEventPublisher
	AnalysisCache  ports.AnalysisCache
	NotifyGuard    ports.DeadlineNotifyGuard

	// Repositories
	UserRepository repositories.UserRepository
	TaskRepository repositories.TaskRepository

	// Services
	UserService     services.UserService
	TaskService     services.TaskService
	AnalysisService services.AnalysisService
	Orchestrator    *analysis.Orchestrator
	DeadlineWatcher *serviceimpl.DeadlineWatcherService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initAI(); err != nil {
		return err
	}

	c.initRepositories()
	c.initServices()

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Driver:   c.Config.Database.Driver,
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
		Path:     c.Config.Database.Path,
		LogLevel: c.Config.Database.LogLevel,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "driver", c.Config.Database.Driver, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Redis (optional - graceful degradation)
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (analysis cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			c.AnalysisCache = redispkg.NewAnalysisCache(redisClient)
			c.NotifyGuard = redispkg.NewNotifyGuard(redisClient)
		}
	}

	// NATS + JetStream (optional)
	c.EventPublisher = ports.NoopTaskEventPublisher{}
	if c.Config.NATS.Enabled {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{URL: c.Config.NATS.URL})
		if err != nil {
			logger.Warn("NATS client initialization failed (task events disabled)", "error", err)
		} else {
			c.NATSClient = natsClient
			c.NATSPublisher = natspkg.NewPublisher(natsClient)
			c.EventPublisher = c.NATSPublisher
		}
	}

	return nil
}

func (c *Container) initAI() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	httpClient := &http.Client{Timeout: c.Config.AI.Timeout + 5*time.Second}
	cascade, err := ai.BuildCascade(ctx, &c.Config.AI, httpClient)
	if err != nil {
		return err
	}
	c.AICascade = cascade

	c.Orchestrator = analysis.NewOrchestrator(cascade.Providers, analysis.Options{
		Timeout: c.Config.AI.Timeout,
	})

	if len(cascade.Providers) == 0 {
		logger.Warn("No AI providers configured; analysis will always return the fallback")
	} else {
		logger.Info("AI provider cascade ready", "providers", c.Orchestrator.ProviderNames())
	}
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	logger.Info("Repositories initialized")
}

func (c *Container) initServices() {
	c.UserService = serviceimpl.NewUserService(c.UserRepository, c.Config.JWT.Secret, c.Config.JWT.TTL)
	c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.EventPublisher)
	c.AnalysisService = serviceimpl.NewAnalysisService(c.TaskRepository, c.Orchestrator, c.AnalysisCache, c.Config.Redis.AnalysisTTL)
	logger.Info("Services initialized")
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	c.DeadlineWatcher = serviceimpl.NewDeadlineWatcherService(
		serviceimpl.DeadlineWatcherConfig{
			CronExpr: c.Config.Scheduler.DeadlineCheckCron,
			Window:   c.Config.Scheduler.DeadlineWindow,
		},
		c.TaskRepository,
		c.EventPublisher,
		c.NotifyGuard,
		c.EventScheduler,
	)
	if err := c.DeadlineWatcher.RegisterWatcherJob(); err != nil {
		return err
	}

	c.EventScheduler.Start()
	logger.Info("Deadline watcher registered",
		"cron", c.Config.Scheduler.DeadlineCheckCron,
		"window", c.Config.Scheduler.DeadlineWindow.String(),
	)
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.AICascade != nil {
		if err := c.AICascade.Close(); err != nil {
			logger.Warn("Failed to close AI clients", "error", err)
		}
	}

	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:     c.UserService,
		TaskService:     c.TaskService,
		AnalysisService: c.AnalysisService,
		DB:              c.DB,
		RedisClient:     c.RedisClient,
		NATSClient:      c.NATSClient,
		AIProviders:     c.Orchestrator.ProviderNames(),
	}
}
