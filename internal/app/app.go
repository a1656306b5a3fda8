package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spider_edu_backend/internal/config"
	"spider_edu_backend/internal/controller"
	"spider_edu_backend/internal/repository"
	"spider_edu_backend/internal/service"
	"spider_edu_backend/pkg/database"
	"spider_edu_backend/pkg/logger"
	"spider_edu_backend/pkg/monitoring"
	"spider_edu_backend/pkg/security"
	"spider_edu_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user      *repository.UserRepository
	exercise  *repository.ExerciseRepository
	challenge *repository.ChallengeRepository
	note      *repository.StudyNoteRepository
	knowledge *repository.KnowledgeRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	exercise    *service.ExerciseService
	challenge   *service.ChallengeService
	leaderboard *service.LeaderboardService
	note        *service.StudyNoteService
	knowledge   *service.KnowledgeBaseService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	exercise  *controller.ExerciseController
	challenge *controller.ChallengeController
	note      *controller.StudyNoteController
	knowledge *controller.KnowledgeBaseController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，由 configwatcher 在配置文件变化时调用。
// 端口、数据库连接等启动期配置不会生效，需要重启。
func (a *App) ReloadConfig(newCfg *config.Config) {
	a.Config = newCfg
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		exercise:  repository.NewExerciseRepository(db),
		challenge: repository.NewChallengeRepository(db),
		note:      repository.NewStudyNoteRepository(db),
		knowledge: repository.NewKnowledgeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.exercise = service.NewExerciseService(repos.exercise)
	s.challenge = service.NewChallengeService(repos.challenge, repos.exercise)
	s.leaderboard = service.NewLeaderboardService(repos.challenge, rdb)
	s.note = service.NewStudyNoteService(repos.note)
	s.knowledge = service.NewKnowledgeBaseService(repos.knowledge)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	cookieMaxAge := int(a.Config.JWT.ExpireTime / time.Second)

	return &controllers{
		auth:      controller.NewAuthController(s.auth, a.Config.JWT.CookieSecure, cookieMaxAge),
		user:      controller.NewUserController(s.user),
		exercise:  controller.NewExerciseController(s.exercise),
		challenge: controller.NewChallengeController(s.challenge, s.leaderboard),
		note:      controller.NewStudyNoteController(s.note),
		knowledge: controller.NewKnowledgeBaseController(s.knowledge),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerChallengeValidators 注册题目级反爬校验器。
// 第一题要求提交时附带 timestamp 和 md5(timestamp+盐) 签名。
func registerChallengeValidators() {
	service.RegisterValidator(1, service.NewPaginationSignValidator("spider", 5*time.Minute))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode == "debug"
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis只用于缓存，连不上时降级运行
		logger.Log.Warn("Failed to initialize redis, running without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	registerChallengeValidators()

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("spider-edu-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
