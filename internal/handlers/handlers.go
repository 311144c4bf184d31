package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appmetrics "github.com/Jbox19/ITMajor3-FinalProject/internal/metrics"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/middleware/ratelimit"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/models"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/services"
)

const statsCacheTTL = 5 * time.Minute

// statsCacheKeys lists every cached aggregate so writes can invalidate them
// all at once.
var statsCacheKeys = []string{
	"sleep_stats:average_duration",
	"sleep_stats:frequent_sleep_time",
	"sleep_stats:frequent_wake_time",
	"sleep_stats:longest_sleep",
	"sleep_stats:shortest_sleep",
}

type Handler struct {
	sleepService *services.SleepService
	recService   *services.RecommendationService
	goalService  *services.GoalService
	rateLimiter  *ratelimit.RateLimiter
	redisClient  *redis.Client
	logger       *zap.SugaredLogger
}

func NewHandler(
	sleepService *services.SleepService,
	recService *services.RecommendationService,
	goalService *services.GoalService,
	rateLimiter *ratelimit.RateLimiter,
	redisClient *redis.Client,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		sleepService: sleepService,
		recService:   recService,
		goalService:  goalService,
		rateLimiter:  rateLimiter,
		redisClient:  redisClient,
		logger:       logger,
	}
}

// Register wires every route. Echo gives static segments priority over the
// :date parameter, so the aggregate paths under /sleep_logs stay reachable.
func (h *Handler) Register(e *echo.Echo) {
	e.Use(metricsMiddleware)

	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/sleep_logs", h.AddSleepLog, h.rateLimit)
	e.GET("/sleep_logs", h.GetAllSleepLogs)
	e.GET("/sleep_logs/history", h.GetSleepLogHistory)
	e.GET("/sleep_logs/average_duration", h.GetAverageSleepDuration)
	e.GET("/sleep_logs/frequent_sleep_time", h.GetFrequentSleepTime)
	e.GET("/sleep_logs/frequent_wake_time", h.GetFrequentWakeTime)
	e.GET("/sleep_logs/longest_sleep", h.GetLongestSleepDuration)
	e.GET("/sleep_logs/shortest_sleep", h.GetShortestSleepDuration)
	e.GET("/sleep_logs/summary/:date", h.GetDailySleepSummary)
	e.GET("/sleep_logs/month/:year/:month", h.GetSleepLogsByMonth)
	e.GET("/sleep_logs/year/:year", h.GetSleepLogsByYear)
	e.GET("/sleep_logs/:date", h.GetSleepLogsByDate)
	e.PUT("/sleep_logs/:log_id", h.UpdateSleepLog, h.rateLimit)
	e.DELETE("/sleep_logs/:log_id", h.DeleteSleepLog, h.rateLimit)

	e.POST("/sleep_goals/monthly_sleep_goal", h.SetMonthlySleepGoal)

	e.POST("/recommendations", h.AddRecommendation, h.rateLimit)
	e.GET("/recommendations", h.GetRecommendations)
	e.GET("/recommendations/history", h.GetRecommendationHistory)
	e.PUT("/recommendations/:recommendation_id", h.UpdateRecommendation, h.rateLimit)
	e.DELETE("/recommendations/:recommendation_id", h.DeleteRecommendation, h.rateLimit)
}

func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		appmetrics.RequestsTotal.Inc()
		appmetrics.ActiveRequests.Inc()
		start := time.Now()
		defer func() {
			appmetrics.ActiveRequests.Dec()
			appmetrics.RequestDurationSeconds.Observe(time.Since(start).Seconds())
		}()
		return next(c)
	}
}

func (h *Handler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.rateLimiter.IsAllowed(c.RealIP()) {
			appmetrics.RateLimitDroppedTotal.Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
		}
		return next(c)
	}
}

// httpError maps service errors onto HTTP status codes: unknown ids to 404,
// bad timestamps to 400, anything else to 500 carrying the underlying message.
func httpError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	case errors.Is(err, services.ErrBadTimestamp):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// cachedStats serves aggregate endpoints cache-aside: serve the cached body
// when present, otherwise compute, store best-effort, and respond. With no
// redis client configured this is a plain computation.
func (h *Handler) cachedStats(c echo.Context, key string, compute func(ctx context.Context) (any, error)) error {
	ctx := c.Request().Context()
	cacheKey := "sleep_stats:" + key

	if h.redisClient != nil {
		if cached, err := h.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			return c.JSONBlob(http.StatusOK, []byte(cached))
		}
	}

	payload, err := compute(ctx)
	if err != nil {
		h.logger.Errorf("failed to compute %s: %v", key, err)
		return httpError(err, "")
	}

	if h.redisClient != nil {
		if body, err := json.Marshal(payload); err == nil {
			_ = h.redisClient.Set(ctx, cacheKey, body, statsCacheTTL).Err()
		}
	}

	return c.JSON(http.StatusOK, payload)
}

// invalidateStatsCache is best-effort; a failed delete only means a stale
// aggregate for at most the TTL.
func (h *Handler) invalidateStatsCache(ctx context.Context) {
	if h.redisClient == nil {
		return
	}
	_ = h.redisClient.Del(ctx, statsCacheKeys...).Err()
}

func (h *Handler) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()

	dbStatus := "healthy"
	if _, err := h.sleepService.AverageDuration(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if h.redisClient != nil {
		redisStatus = "healthy"
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Redis:     redisStatus,
	}

	return c.JSON(http.StatusOK, response)
}
