package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	appmetrics "github.com/Jbox19/ITMajor3-FinalProject/internal/metrics"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/models"
)

func (h *Handler) AddSleepLog(c echo.Context) error {
	ctx := c.Request().Context()

	var in models.SleepLogInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	dbStart := time.Now()
	err := h.sleepService.Create(ctx, in)
	appmetrics.DBWriteDurationSeconds.Observe(time.Since(dbStart).Seconds())
	if err != nil {
		h.logger.Errorf("failed to add sleep log: %v", err)
		return httpError(err, "")
	}

	h.invalidateStatsCache(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "Sleep log added successfully!"})
}

func (h *Handler) GetAllSleepLogs(c echo.Context) error {
	logs, err := h.sleepService.List(c.Request().Context())
	if err != nil {
		h.logger.Errorf("failed to list sleep logs: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *Handler) GetSleepLogsByDate(c echo.Context) error {
	logs, err := h.sleepService.ListByDatePrefix(c.Request().Context(), c.Param("date"))
	if err != nil {
		h.logger.Errorf("failed to list sleep logs by date: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *Handler) UpdateSleepLog(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("log_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid sleep log id")
	}

	var in models.SleepLogInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	dbStart := time.Now()
	err = h.sleepService.Update(ctx, id, in)
	appmetrics.DBWriteDurationSeconds.Observe(time.Since(dbStart).Seconds())
	if err != nil {
		h.logger.Errorf("failed to update sleep log %d: %v", id, err)
		return httpError(err, "Sleep log not found")
	}

	h.invalidateStatsCache(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "Sleep log updated successfully!"})
}

func (h *Handler) DeleteSleepLog(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("log_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid sleep log id")
	}

	dbStart := time.Now()
	err = h.sleepService.Delete(ctx, id)
	appmetrics.DBWriteDurationSeconds.Observe(time.Since(dbStart).Seconds())
	if err != nil {
		h.logger.Errorf("failed to delete sleep log %d: %v", id, err)
		return httpError(err, "Sleep log not found")
	}

	h.invalidateStatsCache(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "Sleep log deleted successfully!"})
}

func (h *Handler) GetAverageSleepDuration(c echo.Context) error {
	return h.cachedStats(c, "average_duration", func(ctx context.Context) (any, error) {
		avg, err := h.sleepService.AverageDuration(ctx)
		if err != nil {
			return nil, err
		}
		return echo.Map{"average_sleep_duration": avg}, nil
	})
}

func (h *Handler) GetFrequentSleepTime(c echo.Context) error {
	return h.cachedStats(c, "frequent_sleep_time", func(ctx context.Context) (any, error) {
		f, err := h.sleepService.FrequentSleepHour(ctx)
		if err != nil {
			return nil, err
		}
		return echo.Map{"frequent_sleep_hour": f.Hour, "count": f.Count}, nil
	})
}

func (h *Handler) GetFrequentWakeTime(c echo.Context) error {
	return h.cachedStats(c, "frequent_wake_time", func(ctx context.Context) (any, error) {
		f, err := h.sleepService.FrequentWakeHour(ctx)
		if err != nil {
			return nil, err
		}
		return echo.Map{"frequent_wake_hour": f.Hour, "count": f.Count}, nil
	})
}

func (h *Handler) GetLongestSleepDuration(c echo.Context) error {
	return h.cachedStats(c, "longest_sleep", func(ctx context.Context) (any, error) {
		v, err := h.sleepService.LongestSleep(ctx)
		if err != nil {
			return nil, err
		}
		return echo.Map{"longest_sleep_duration": v}, nil
	})
}

func (h *Handler) GetShortestSleepDuration(c echo.Context) error {
	return h.cachedStats(c, "shortest_sleep", func(ctx context.Context) (any, error) {
		v, err := h.sleepService.ShortestSleep(ctx)
		if err != nil {
			return nil, err
		}
		return echo.Map{"shortest_sleep_duration": v}, nil
	})
}

func (h *Handler) GetSleepLogsByMonth(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid year")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid month")
	}

	logs, err := h.sleepService.ListByMonth(c.Request().Context(), year, month)
	if err != nil {
		h.logger.Errorf("failed to list sleep logs by month: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *Handler) GetSleepLogsByYear(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid year")
	}

	logs, err := h.sleepService.ListByYear(c.Request().Context(), year)
	if err != nil {
		h.logger.Errorf("failed to list sleep logs by year: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *Handler) GetDailySleepSummary(c echo.Context) error {
	summary, err := h.sleepService.DailySummary(c.Request().Context(), c.Param("date"))
	if err != nil {
		h.logger.Errorf("failed to compute daily summary: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) SetMonthlySleepGoal(c echo.Context) error {
	var goal models.SleepGoal
	if err := c.Bind(&goal); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if goal.Month < 1 || goal.Month > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "Month must be between 1 and 12")
	}

	outcome, err := h.goalService.Evaluate(c.Request().Context(), goal)
	if err != nil {
		h.logger.Errorf("failed to evaluate sleep goal: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, outcome)
}

func (h *Handler) GetSleepLogHistory(c echo.Context) error {
	entries, err := h.sleepService.History(c.Request().Context())
	if err != nil {
		h.logger.Errorf("failed to list sleep log history: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, entries)
}
