package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Jbox19/ITMajor3-FinalProject/internal/config"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/database"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/handlers"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/metrics"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/middleware/ratelimit"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/services"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	logger.Infof("Opening sleep database at %s", cfg.SQLitePath)
	db, err := database.NewConnection(cfg.SQLitePath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Initialize Redis (optional; the API runs uncached without it)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisConnection(cfg.RedisURL)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	}

	// Initialize services
	sleepService := services.NewSleepService(db)
	recService := services.NewRecommendationService(db)
	goalService := services.NewGoalService(db)
	rateLimiter := ratelimit.NewRateLimiter(100, time.Minute)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize handlers and routes
	h := handlers.NewHandler(sleepService, recService, goalService, rateLimiter, redisClient, logger)
	h.Register(e)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
