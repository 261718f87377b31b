package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/ourmemory/ourmemory-backend/internal/config"
	"github.com/ourmemory/ourmemory-backend/internal/handler"
	"github.com/ourmemory/ourmemory-backend/internal/middleware"
	"github.com/ourmemory/ourmemory-backend/internal/migration"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
	"github.com/ourmemory/ourmemory-backend/internal/routes"
	"github.com/ourmemory/ourmemory-backend/internal/service"
	"github.com/ourmemory/ourmemory-backend/internal/ws"
	pkgcache "github.com/ourmemory/ourmemory-backend/pkg/cache"
	pkges "github.com/ourmemory/ourmemory-backend/pkg/elasticsearch"
	"github.com/ourmemory/ourmemory-backend/pkg/fcm"
	"github.com/ourmemory/ourmemory-backend/pkg/i18n"
	"github.com/ourmemory/ourmemory-backend/pkg/jwt"
	pkglogger "github.com/ourmemory/ourmemory-backend/pkg/logger"
	pkgredis "github.com/ourmemory/ourmemory-backend/pkg/redis"
	pkgstorage "github.com/ourmemory/ourmemory-backend/pkg/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           OurMemory Backend API
// @version         1.0
// @description     공유 캘린더 OurMemory 백엔드 API
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// MySQL 연결 (필수)
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if cfg.IsDevelopment() {
		if err := migration.AutoMigrate(db); err != nil {
			pkglogger.Warn("AutoMigrate warning: %v", err)
		}
	}

	// Redis 연결 (선택)
	redisClient, err := pkgredis.NewClient(pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient)

	// Elasticsearch 연결 (없으면 SQL 검색)
	var indexer service.MemoryIndexer
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, esErr := pkges.NewClient(pkges.Config{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			Index:     cfg.Elasticsearch.Index,
		})
		if esErr != nil {
			pkglogger.Warn("Elasticsearch connection failed: %v (continuing with SQL search)", esErr)
		} else if err := esClient.EnsureIndex(context.Background(), service.MemoryIndexMapping()); err != nil {
			pkglogger.Warn("Elasticsearch index setup failed: %v (continuing with SQL search)", err)
		} else {
			indexer = service.NewMemoryIndexer(esClient)
		}
	}

	// S3-compatible storage (프로필 이미지)
	var store pkgstorage.ObjectStorage
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, s3Err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Warn("S3 storage init failed: %v (profile upload disabled)", s3Err)
		} else {
			store = s3Client
			pkglogger.Info("Connected to S3 storage")
		}
	}

	// FCM (없으면 푸시 비활성)
	var pusher service.Pusher
	if cfg.FCM.Enabled {
		fcmClient, fcmErr := fcm.NewClient(context.Background(), fcm.Config{
			ProjectID:       cfg.FCM.ProjectID,
			CredentialsFile: cfg.FCM.CredentialsFile,
			Timeout:         cfg.FCMTimeout(),
		})
		if fcmErr != nil {
			pkglogger.Warn("FCM init failed: %v (push disabled)", fcmErr)
		} else {
			pusher = fcmClient
		}
	}

	// WebSocket Hub
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	if err := middleware.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}
	if _, err := os.Stat("i18n"); err == nil {
		if err := i18n.Default().LoadDir("i18n"); err != nil {
			pkglogger.Warn("i18n LoadDir failed: %v", err)
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)

	// Services
	fcmService := service.NewFcmService(pusher, userRepo)
	noticeService := service.NewNoticeService(noticeRepo, wsHub)
	userService := service.NewUserService(db, userRepo, roomRepo, friendRepo, jwtManager, cacheService, store)
	roomService := service.NewRoomService(db, roomRepo, userRepo, noticeService, fcmService)
	memoryService := service.NewMemoryService(db, memoryRepo, roomRepo, userRepo, indexer, noticeService, fcmService)
	friendService := service.NewFriendService(friendRepo, userRepo, noticeService, fcmService)
	todoService := service.NewTodoService(todoRepo)

	handlers := &routes.Handlers{
		User:   handler.NewUserHandler(userService),
		Room:   handler.NewRoomHandler(roomService),
		Memory: handler.NewMemoryHandler(memoryService),
		Friend: handler.NewFriendHandler(friendService),
		Todo:   handler.NewTodoHandler(todoService),
		Notice: handler.NewNoticeHandler(noticeService),
		Fcm:    handler.NewFcmHandler(fcmService),
		WS:     handler.NewWSHandler(wsHub, cfg.CORS.AllowOrigins),
	}

	// Gin 라우터 생성
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS 설정
	allowOrigins := config.SplitAndTrim(cfg.CORS.AllowOrigins, ",")
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           12 * time.Hour,
	}))

	// Middleware
	router.Use(middleware.I18n())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	})
	defer rateLimiter.Stop()

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
		} else {
			middleware.SetDBConnectionsOpen(sqlDB.Stats().OpenConnections)
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"service": "ourmemory-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, handlers, jwtManager, rateLimiter)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		pkglogger.Info("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Server shutdown error: %v", err)
	}
	wsHub.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	pkglogger.Info("Server stopped")
}

// initDB MySQL 연결 초기화
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("DSN 파싱 실패: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["time_zone"] = "'+09:00'"

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.Database.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
