package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"telecounsel/internal/config"
	"telecounsel/internal/database"
	"telecounsel/internal/logger"
	"telecounsel/internal/meeting"
	"telecounsel/internal/middleware"
	"telecounsel/internal/modules/appointment"
	"telecounsel/internal/modules/auth"
	"telecounsel/internal/modules/chat"
	"telecounsel/internal/modules/counselor"
	"telecounsel/internal/modules/earnings"
	jwtsvc "telecounsel/internal/pkg/jwt"
	"telecounsel/internal/pkg/lock"
	"telecounsel/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Env)
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	var locker lock.Locker
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL)
		log.Info("using redis appointment locks", zap.String("addr", cfg.RedisAddr))
	} else {
		locker = lock.NewLocalLocker()
		log.Info("using in-process appointment locks")
	}

	zoom := meeting.NewZoomClient(cfg.Zoom, log)
	if !zoom.Enabled() {
		log.Info("zoom token not configured, video meetings will use fallback links")
	}

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService, j)

	counselorService := counselor.NewService(userRepo, appointmentRepo)
	counselorHandler := counselor.NewHandler(counselorService)

	appointmentService := appointment.NewService(appointmentRepo, userRepo, zoom, locker, log)
	appointmentHandler := appointment.NewHandler(appointmentService)

	chatService := chat.NewService(appointmentRepo, messageRepo)
	chatHandler := chat.NewHandler(chatService)

	earningsService := earnings.NewService(appointmentRepo)
	earningsHandler := earnings.NewHandler(earningsService)

	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		counselorHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			appointmentHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			earningsHandler.RegisterRoutes(protected)
		}
	}

	log.Info("starting api server", zap.String("port", cfg.HTTPPort))
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
