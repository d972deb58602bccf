package app

import (
	"bookgraph_backend/internal/config"
	"bookgraph_backend/internal/controller"
	"bookgraph_backend/internal/repository"
	"bookgraph_backend/internal/service"
	"bookgraph_backend/internal/util"
	"bookgraph_backend/pkg/configwatcher"
	"bookgraph_backend/pkg/database"
	"bookgraph_backend/pkg/logger"
	"bookgraph_backend/pkg/monitoring"
	"bookgraph_backend/pkg/security"
	"bookgraph_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	book        *repository.BookRepository
	skillMap    *repository.SkillMapRepository
	topic       *repository.TopicRepository
	progress    *repository.ProgressRepository
	graphLayout *repository.GraphLayoutRepository
}

type services struct {
	storage  *service.StorageService
	auth     *service.AuthService
	user     *service.UserService
	topic    *service.TopicService
	progress *service.ProgressService
	search   *service.BookSearchService
	book     *service.BookService
	graph    *service.GraphService
}

type controllers struct {
	auth     *controller.AuthController
	book     *controller.BookController
	graph    *controller.GraphController
	topic    *controller.TopicController
	progress *controller.ProgressController
	user     *controller.UserController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		book:        repository.NewBookRepository(db),
		skillMap:    repository.NewSkillMapRepository(db),
		topic:       repository.NewTopicRepository(db),
		progress:    repository.NewProgressRepository(db),
		graphLayout: repository.NewGraphLayoutRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.topic, repos.progress, s.storage)
	s.topic = service.NewTopicService(repos.topic)
	s.progress = service.NewProgressService(repos.progress, repos.book)
	s.search = service.NewBookSearchService(cfg.Books, rdb)

	ai := service.NewAIService(cfg.AI)
	classifier := service.NewClassifierService(ai)
	s.book = service.NewBookService(s.search, classifier, repos.book, repos.skillMap, repos.topic)

	s.graph = service.NewGraphService(repos.book, repos.skillMap, repos.topic, repos.progress, repos.graphLayout)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		book:     controller.NewBookController(s.book),
		graph:    controller.NewGraphController(s.graph),
		topic:    controller.NewTopicController(s.topic),
		progress: controller.NewProgressController(s.progress),
		user:     controller.NewUserController(s.user),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 监听配置文件变更并热更新，回调里拿到的是完整的新配置
func (a *App) watchConfig(configDir string) {
	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); err != nil {
		return
	}
	go configwatcher.WatchConfig(configFile, a.Config, func(raw interface{}) {
		newCfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		a.Config = newCfg
		logger.Log.Info("Config reloaded")
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("bookgraph", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig("configs")

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

	log.Println("Server exiting")
}
