package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"aviation_exam_backend/internal/config"
	"aviation_exam_backend/internal/controller"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/service"
	"aviation_exam_backend/internal/util"
	"aviation_exam_backend/pkg/configwatcher"
	"aviation_exam_backend/pkg/database"
	"aviation_exam_backend/pkg/logger"
	"aviation_exam_backend/pkg/monitoring"
	"aviation_exam_backend/pkg/security"
	"aviation_exam_backend/pkg/tracing"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user   *repository.UserRepository
	paper  *repository.ExamPaperRepository
	module *repository.ExamModuleRepository
	mcq    *repository.McqRepository
	retell *repository.RetellRepository
	lsa    *repository.LsaRepository
	atc    *repository.AtcRepository
	opi    *repository.OpiRepository
	record *repository.ExamRecordRepository
	media  *repository.MediaRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	media      *service.MediaService
	module     *service.ModuleService
	question   *service.QuestionService
	grading    *service.GradingService
	statistics *service.StatisticsService
	record     *service.ExamRecordService
}

type controllers struct {
	auth       *controller.AuthController
	paper      *controller.ExamPaperController
	module     *controller.ModuleController
	question   *controller.QuestionController
	grading    *controller.GradingController
	statistics *controller.StatisticsController
	record     *controller.ExamRecordController
	media      *controller.MediaController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:   repository.NewUserRepository(db),
		paper:  repository.NewExamPaperRepository(db),
		module: repository.NewExamModuleRepository(db),
		mcq:    repository.NewMcqRepository(db),
		retell: repository.NewRetellRepository(db),
		lsa:    repository.NewLsaRepository(db),
		atc:    repository.NewAtcRepository(db),
		opi:    repository.NewOpiRepository(db),
		record: repository.NewExamRecordRepository(db),
		media:  repository.NewMediaRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.media = service.NewMediaService(repos.media, s.storage, logger.Log)
	s.module = service.NewModuleService(repos.paper, repos.module, db)
	s.question = service.NewQuestionService(repos.module, repos.mcq, repos.retell, repos.lsa, repos.atc, repos.opi, db)
	s.grading = service.NewGradingService(repos.mcq, repos.retell, repos.lsa, repos.atc, repos.opi,
		service.NewScoringClient(cfg.Scoring), db)
	s.statistics = service.NewStatisticsService(db, repos.module, rdb, logger.Log)
	s.record = service.NewExamRecordService(repos.record, repos.paper, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		paper:      controller.NewExamPaperController(s.module),
		module:     controller.NewModuleController(s.module),
		question:   controller.NewQuestionController(s.question),
		grading:    controller.NewGradingController(s.grading),
		statistics: controller.NewStatisticsController(s.statistics),
		record:     controller.NewExamRecordController(s.record),
		media:      controller.NewMediaController(s.media),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 监听配置文件变更并回放给已注册的回调
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(newCfg interface{}) {
		cfg, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("config reloaded")
		a.Config = cfg
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis 仅用于统计快照缓存，失联时降级为直查
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, statistics cache disabled", zap.Error(err))
		rdb = nil
	}

	// 音频时长探测依赖 ffmpeg，缺失时上传仍可用但时长留空
	if ver, err := util.GetFFmpegVersion(); err != nil {
		logger.Log.Warn("ffmpeg not found, audio duration probing disabled", zap.Error(err))
	} else {
		logger.Log.Info("ffmpeg detected", zap.String("version", ver))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, db, rdb)
	app.services = svcs
	ctrls := app.initControllers(svcs, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("aviation-exam-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/media", cfg.Storage.LocalPath)
	}

	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

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
