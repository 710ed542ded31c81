package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"voting-platform/internal/fixtures"
	httpHandler "voting-platform/internal/handler/http"
	gormpersistence "voting-platform/internal/infra/persistence/gorm"
	"voting-platform/internal/infra/setup"
	memorystate "voting-platform/internal/infra/state/memory"
	redisstate "voting-platform/internal/infra/state/redis"
	"voting-platform/internal/metrics"
	"voting-platform/internal/repository"
	"voting-platform/internal/service"
	"voting-platform/internal/session"
	"voting-platform/internal/tasks"
	"voting-platform/internal/worker"
)

// Services 汇总业务服务，供 CLI 子命令与 HTTP 层共用
type Services struct {
	Auth       *service.AuthService
	Vote       *service.VoteService
	Candidates *service.CandidateService
	Seeder     *service.Seeder
}

// NewServices 基于同一个数据库连接创建全部服务
func NewServices(db *gorm.DB, m *metrics.Metrics) *Services {
	userRepo := gormpersistence.NewGormUserRepository(db)
	candidateRepo := gormpersistence.NewGormCandidateRepository(db)
	voteRepo := gormpersistence.NewGormVoteRepository(db)
	return &Services{
		Auth:       service.NewAuthService(userRepo, m),
		Vote:       service.NewVoteService(voteRepo, candidateRepo, m),
		Candidates: service.NewCandidateService(candidateRepo, userRepo),
		Seeder:     service.NewSeeder(userRepo, candidateRepo),
	}
}

// OpenDatabase 打开并迁移数据库
func OpenDatabase(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := setup.InitDB(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	return db, nil
}

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client // 未配置 REDIS_ADDR 时为 nil
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	Scheduler   *asynq.Scheduler
	Services    *Services
	Metrics     *metrics.Metrics
	Router      *gin.Engine
	HttpServer  *http.Server

	redisClientOpt asynq.RedisClientOpt
}

// NewApp 从环境加载配置并初始化应用
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewAppWithConfig(cfg, NewLogger(cfg))
}

// NewAppWithConfig 使用给定配置创建并初始化应用的所有组件
func NewAppWithConfig(cfg *Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	// 1. 数据库
	db, err := OpenDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	app.DB = db
	log.Info("Database initialized and migrated")

	// 2. 会话存储：优先 Redis，否则进程内存
	var sessionRepo repository.SessionRepository
	var limiter repository.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.RedisClient = redisClient
		store := redisstate.NewRedisSessionRepository(redisClient, cfg.KeyPrefix)
		sessionRepo, limiter = store, store

		app.redisClientOpt = asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		app.AsynqClient = asynq.NewClient(app.redisClientOpt)
		log.Info("Redis session store and Asynq client initialized")
	} else {
		store := memorystate.NewMemorySessionRepository()
		sessionRepo, limiter = store, store
		log.Warn("REDIS_ADDR not set: using in-memory sessions, background tally audit disabled")
	}

	// 3. Services
	app.Metrics = metrics.New()
	app.Services = NewServices(db, app.Metrics)

	// 4. 会话与 Handlers
	sessions, err := session.NewManager(sessionRepo, cfg.SecretKey, cfg.SessionTTL, cfg.Production())
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}
	render := httpHandler.NewRenderer(sessions)
	handlers := Handlers{
		Auth:  httpHandler.NewAuthHandler(app.Services.Auth, sessions, render),
		Vote:  httpHandler.NewVoteHandler(app.Services.Auth, app.Services.Vote, app.Services.Candidates, render),
		Admin: httpHandler.NewAdminHandler(app.Services.Candidates, render),
	}

	// 5. Worker Server
	if app.AsynqClient != nil {
		app.AsynqServer = worker.NewWorkerServer(app.redisClientOpt, app.Services.Vote, log)
	}

	// 6. 路由与 HTTP Server
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	app.Router, err = NewRouter(RouterOptions{
		Config:   cfg,
		Log:      log,
		Sessions: sessions,
		Limiter:  limiter,
		Handlers: handlers,
		Registry: app.Metrics.Registry,
	})
	if err != nil {
		return nil, err
	}
	app.HttpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Application assembled successfully")
	return app, nil
}

// Seed 写入演示数据
func (a *App) Seed(ctx context.Context, data *fixtures.Fixtures) (*service.SeedReport, error) {
	return a.Services.Seeder.Seed(ctx, data)
}

// Start 启动后台任务和 HTTP 服务器
func (a *App) Start(ctx context.Context) error {
	if a.Config.SeedOnStart {
		if _, err := a.Seed(ctx, nil); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	if a.AsynqServer != nil {
		go a.AsynqServer.Start()
		a.registerPeriodicTasks()
		a.enqueueAudit("startup")
	}

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
	return nil
}

func (a *App) enqueueAudit(trigger string) {
	payload, err := tasks.NewTallyAuditTask(trigger)
	if err != nil {
		a.Log.Errorf("Failed to create tally audit payload: %v", err)
		return
	}
	if _, err := a.AsynqClient.Enqueue(asynq.NewTask(tasks.TypeTallyAudit, payload), asynq.MaxRetry(3)); err != nil {
		a.Log.Errorf("Failed to enqueue tally audit: %v", err)
	}
}

func (a *App) registerPeriodicTasks() {
	a.Scheduler = asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{Logger: a.Log.WithField("component", "scheduler")})

	payload, err := tasks.NewTallyAuditTask("schedule")
	if err != nil {
		a.Log.Errorf("Failed to create tally audit payload: %v", err)
		return
	}
	entryID, err := a.Scheduler.Register(a.Config.AuditSchedule, asynq.NewTask(tasks.TypeTallyAudit, payload), asynq.Queue("default"))
	if err != nil {
		a.Log.Errorf("Could not register periodic tally audit: %v", err)
		return
	}
	a.Log.Infof("Periodic tally audit registered with schedule '%s' (EntryID: %s)", a.Config.AuditSchedule, entryID)

	go func() {
		if err := a.Scheduler.Run(); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			a.Log.Errorf("Asynq scheduler Run() failed: %v", err)
		}
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.Scheduler != nil {
		a.Scheduler.Shutdown()
	}
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}
