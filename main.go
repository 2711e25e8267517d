package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mplazax/meeting-syntesis/handlers"
	"github.com/mplazax/meeting-syntesis/internal/config"
	"github.com/mplazax/meeting-syntesis/internal/database"
	"github.com/mplazax/meeting-syntesis/internal/ingest"
	meetingrepo "github.com/mplazax/meeting-syntesis/internal/meeting/repository"
	meetingsvc "github.com/mplazax/meeting-syntesis/internal/meeting/service"
	"github.com/mplazax/meeting-syntesis/internal/sessions"
	"github.com/mplazax/meeting-syntesis/internal/transcribe"
	"github.com/mplazax/meeting-syntesis/internal/users"
	"github.com/mplazax/meeting-syntesis/pkg/logger"
	"github.com/mplazax/meeting-syntesis/pkg/metrics"
	"github.com/mplazax/meeting-syntesis/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging first (LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v upload_backend=%s whisper=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Upload.Backend, cfg.Whisper.Endpoint != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Connect to Redis early so sessions, blacklist and the rate limiter can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// services wired below, referenced by readiness
	var userSvc *users.Service
	var sessionsSvc *sessions.Service
	var meetingSvc *meetingsvc.Service

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness — 200 only when the critical dependencies are wired
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["users"] = userSvc != nil
		deps["sessions"] = sessionsSvc != nil
		deps["meetings"] = meetingSvc != nil
		if userSvc == nil || sessionsSvc == nil || meetingSvc == nil {
			ready = false
		}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Prefer Redis-based sessions when available (fast, self-expiring)
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("Using Redis for session storage")
	}

	// MongoDB-backed repositories. Retry with backoff to tolerate startup races.
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var db *database.DB
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			db, errConn = database.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = db.Close(ctx) }()

			userSvc = users.NewService(users.NewMongoUserRepository(db.Users()))
			if sessionsSvc == nil {
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Sessions()))
			}

			store, err := buildStore(cfg)
			if err != nil {
				logger.Fatalf("failed to initialize upload store: %v", err)
			}
			stt := transcribe.NewWhisperClient(transcribe.WhisperConfig{
				Endpoint: cfg.Whisper.Endpoint,
				APIKey:   cfg.Whisper.APIKey,
				Model:    cfg.Whisper.Model,
				Timeout:  cfg.Whisper.Timeout,
			}, store)
			meetingSvc = meetingsvc.New(meetingrepo.NewMongoRepository(db.Meetings()), store, stt)
		}
	}

	// Register handlers when their services are available
	if userSvc != nil && sessionsSvc != nil {
		handlers.NewAuthHandler(cfg, userSvc, sessionsSvc).Register(r.Group("/"))

		api := r.Group("/api/v1", middleware.AuthMiddleware(cfg))
		handlers.NewUserHandler(userSvc).Register(api)
		if meetingSvc != nil {
			handlers.NewMeetingHandler(meetingSvc).Register(api)
		}
	} else {
		logger.Warnf("auth/meeting handlers not registered because services are unavailable")
	}

	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting meeting backend on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// buildStore selects the audio store from configuration.
func buildStore(cfg *config.Config) (ingest.Store, error) {
	switch cfg.Upload.Backend {
	case "minio":
		return ingest.NewMinIOStore(ingest.MinIOConfig{
			Endpoint:  cfg.Upload.MinIOEndpoint,
			AccessKey: cfg.Upload.MinIOAccessKey,
			SecretKey: cfg.Upload.MinIOSecretKey,
			UseSSL:    cfg.Upload.MinIOUseSSL,
			Bucket:    cfg.Upload.MinIOBucket,
		})
	default:
		return ingest.NewLocalStore(cfg.Upload.Dir)
	}
}
