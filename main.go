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

	"github.com/ideahunt/backend/handlers"
	"github.com/ideahunt/backend/internal/config"
	"github.com/ideahunt/backend/internal/idea"
	"github.com/ideahunt/backend/internal/storage"
	"github.com/ideahunt/backend/internal/store"
	"github.com/ideahunt/backend/pkg/logger"
	"github.com/ideahunt/backend/pkg/metrics"
	"github.com/ideahunt/backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: database=%s redis=%v minio=%v", cfg.Database.Name, cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: request ids + logging + recovery
	r.Use(middleware.RequestIDMiddleware(), gin.Logger(), gin.Recovery())

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global per-IP rate limiter
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Select the store backend once: MongoDB when reachable within the
	// configured timeout, in-memory fallback otherwise. The choice holds for
	// the life of the process.
	st := store.Open(context.Background(), cfg.Database.URL, cfg.Database.Name, cfg.Database.Timeout)
	db := store.NewDB(st)
	ideaSvc := idea.NewService(db)

	// Optional thumbnail object storage
	var thumbs *storage.ThumbnailStore
	if cfg.MinIO.Endpoint != "" {
		thumbs, err = storage.NewThumbnailStore(cfg.MinIO)
		if err != nil {
			logger.Warnf("thumbnail storage unavailable: %v", err)
			thumbs = nil
		}
	}

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — the store is always ready (memory fallback), so
	// report which backend is serving and how long we have been up
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ready",
			"backend": st.Name(),
			"deps":    gin.H{"redis": redisClient != nil, "thumbnails": thumbs != nil},
			"uptime":  time.Since(startTime).String(),
		})
	})

	h := handlers.NewIdeaHandler(ideaSvc, st, thumbs)
	h.Register(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting idea service on %s (backend=%s)", addr, st.Name())
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
