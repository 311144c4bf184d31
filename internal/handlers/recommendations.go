package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	appmetrics "github.com/Jbox19/ITMajor3-FinalProject/internal/metrics"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/models"
)

func (h *Handler) AddRecommendation(c echo.Context) error {
	var in models.RecommendationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(in.Recommendation) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Recommendation text is required")
	}

	dbStart := time.Now()
	err := h.recService.Create(c.Request().Context(), in.Recommendation)
	appmetrics.DBWriteDurationSeconds.Observe(time.Since(dbStart).Seconds())
	if err != nil {
		h.logger.Errorf("failed to add recommendation: %v", err)
		return httpError(err, "")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Recommendation added successfully"})
}

func (h *Handler) GetRecommendations(c echo.Context) error {
	recs, err := h.recService.List(c.Request().Context())
	if err != nil {
		h.logger.Errorf("failed to list recommendations: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *Handler) UpdateRecommendation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("recommendation_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recommendation id")
	}

	var in models.RecommendationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(in.Recommendation) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Recommendation text is required")
	}

	dbStart := time.Now()
	err = h.recService.Update(c.Request().Context(), id, in.Recommendation)
	appmetrics.DBWriteDurationSeconds.Observe(time.Since(dbStart).Seconds())
	if err != nil {
		h.logger.Errorf("failed to update recommendation %d: %v", id, err)
		return httpError(err, "Recommendation not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Recommendation updated successfully"})
}

func (h *Handler) DeleteRecommendation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("recommendation_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recommendation id")
	}

	dbStart := time.Now()
	err = h.recService.Delete(c.Request().Context(), id)
	appmetrics.DBWriteDurationSeconds.Observe(time.Since(dbStart).Seconds())
	if err != nil {
		h.logger.Errorf("failed to delete recommendation %d: %v", id, err)
		return httpError(err, "Recommendation not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Recommendation deleted successfully"})
}

func (h *Handler) GetRecommendationHistory(c echo.Context) error {
	entries, err := h.recService.History(c.Request().Context())
	if err != nil {
		h.logger.Errorf("failed to list recommendation history: %v", err)
		return httpError(err, "")
	}
	return c.JSON(http.StatusOK, entries)
}
