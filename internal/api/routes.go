// Package api exposes the HTTP surface: device auth, habit queries and the
// WebSocket upgrade endpoint.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/repositories"
	"github.com/aryasatya/momentum/internal/auth"
	"github.com/aryasatya/momentum/internal/websocket"
)

// InitRoutes registers all HTTP routes.
func InitRoutes(
	e *echo.Echo,
	hub *websocket.Hub,
	deviceRepo repositories.DeviceRepository,
	habitRepo repositories.HabitRepository,
	logger *zap.Logger,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "momentum-server",
		})
	})

	v1 := e.Group("/api/v1")

	v1.POST("/device/auth", func(c echo.Context) error {
		return deviceAuth(c, deviceRepo, logger)
	})

	v1.GET("/habits/:id/streak", func(c echo.Context) error {
		return getStreak(c, habitRepo, logger)
	})
	v1.GET("/habits/:id/completions", func(c echo.Context) error {
		return getCompletions(c, habitRepo, logger)
	})

	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, logger)
	})
}

func deviceAuth(c echo.Context, deviceRepo repositories.DeviceRepository, logger *zap.Logger) error {
	var req DeviceAuthRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind device auth request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.SerialNumber == "" || req.SecretKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Serial number and secret key are required",
		})
	}

	device, err := deviceRepo.ValidateDevice(req.SerialNumber, req.SecretKey)
	if err != nil {
		logger.Warn("Device authentication failed",
			zap.String("serial_number", req.SerialNumber),
			zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid device credentials",
		})
	}

	token, err := auth.GenerateDeviceToken(device.ID, device.HabitID)
	if err != nil {
		logger.Error("Failed to generate device token",
			zap.String("device_id", device.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	logger.Info("Device authenticated",
		zap.String("device_id", device.ID),
		zap.String("habit_id", device.HabitID))

	return c.JSON(http.StatusOK, DeviceAuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		DeviceID:  device.ID,
		HabitID:   device.HabitID,
	})
}

func getStreak(c echo.Context, habitRepo repositories.HabitRepository, logger *zap.Logger) error {
	habitID := c.Param("id")

	record, err := habitRepo.GetStreakRecord(c.Request().Context(), habitID)
	if err != nil {
		logger.Error("Failed to load streak record",
			zap.String("habit_id", habitID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load streak record",
		})
	}

	resp := StreakResponse{
		HabitID:          record.HabitID,
		CurrentStreak:    record.CurrentStreak,
		LongestStreak:    record.LongestStreak,
		TotalCompletions: record.TotalCompletions,
	}
	if !record.CurrentStreakStartDate.IsZero() {
		start := record.CurrentStreakStartDate
		resp.StreakStartDate = &start
	}
	if !record.LastCompletionDate.IsZero() {
		last := record.LastCompletionDate
		resp.LastCompletedAt = &last
	}

	return c.JSON(http.StatusOK, resp)
}

func getCompletions(c echo.Context, habitRepo repositories.HabitRepository, logger *zap.Logger) error {
	habitID := c.Param("id")

	days := 7
	if daysParam := c.QueryParam("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed < 1 || parsed > 365 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_days",
				Message: "days must be an integer between 1 and 365",
			})
		}
		days = parsed
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	completions, err := habitRepo.GetCompletions(c.Request().Context(), start, end, habitID)
	if err != nil {
		logger.Error("Failed to query completions",
			zap.String("habit_id", habitID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to query completions",
		})
	}

	resp := CompletionsResponse{
		HabitID:     habitID,
		Days:        days,
		Completions: make([]CompletionResponse, 0, len(completions)),
	}
	for _, completion := range completions {
		resp.Completions = append(resp.Completions, CompletionResponse{
			ID:          completion.ID,
			HabitID:     completion.HabitID,
			HabitName:   completion.HabitName,
			CompletedAt: completion.CompletedAt,
			Source:      completion.Source,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// websocketWithAuth validates the device JWT before upgrading.
func websocketWithAuth(hub *websocket.Hub, c echo.Context, logger *zap.Logger) error {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token == "" {
		token = c.QueryParam("token")
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required",
		})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	if claims.Role != "device" {
		logger.Warn("WebSocket connection rejected: invalid role",
			zap.String("role", claims.Role))
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only device tokens may open WebSocket connections",
		})
	}

	if claims.DeviceID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_token_claims",
			Message: "Device ID not found in token",
		})
	}

	logger.Info("WebSocket connection authenticated",
		zap.String("device_id", claims.DeviceID))

	return websocket.HandleWebSocket(hub, c, claims.DeviceID, logger)
}
