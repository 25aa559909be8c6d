package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/aryasatya/momentum/adapters/memory"
	"github.com/aryasatya/momentum/domain/entities"
)

func setupTestServer(t *testing.T) (*echo.Echo, *memory.DeviceRepository, *memory.HabitRepository) {
	t.Helper()
	logger := zaptest.NewLogger(t)

	devices := memory.NewDeviceRepository()
	habits := memory.NewHabitRepository()

	e := echo.New()
	InitRoutes(e, nil, devices, habits, logger)
	return e, devices, habits
}

func TestHealthEndpoint(t *testing.T) {
	e, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "momentum-server") {
		t.Errorf("Unexpected health body: %s", rec.Body.String())
	}
}

func TestDeviceAuthSuccess(t *testing.T) {
	e, devices, _ := setupTestServer(t)
	ctx := context.Background()

	device := &entities.Device{
		SerialNumber: "SN-001",
		Model:        "momentum-v1",
		HabitID:      "habit-1",
		HabitName:    "workout",
	}
	if err := devices.Create(ctx, device); err != nil {
		t.Fatal(err)
	}
	if err := devices.RegisterDeviceSecret("SN-001", "secret-key"); err != nil {
		t.Fatal(err)
	}

	body := `{"serial_number":"SN-001","secret_key":"secret-key"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/device/auth", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp DeviceAuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Error("Expected a token")
	}
	if resp.HabitID != "habit-1" {
		t.Errorf("Expected habit-1, got %s", resp.HabitID)
	}
}

func TestDeviceAuthRejectsBadCredentials(t *testing.T) {
	e, devices, _ := setupTestServer(t)

	if err := devices.RegisterDeviceSecret("SN-001", "secret-key"); err != nil {
		t.Fatal(err)
	}

	body := `{"serial_number":"SN-001","secret_key":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/device/auth", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestDeviceAuthMissingFields(t *testing.T) {
	e, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/device/auth", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestGetStreakReturnsStoredRecord(t *testing.T) {
	e, _, habits := setupTestServer(t)
	ctx := context.Background()
	now := time.Now()

	record := entities.NewStreakRecord("habit-1").
		UpdateWithCompletion(now.AddDate(0, 0, -1), now).
		UpdateWithCompletion(now, now)
	if err := habits.UpdateStreakRecord(ctx, record); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits/habit-1/streak", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp StreakResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.CurrentStreak != 2 {
		t.Errorf("Expected current streak 2, got %d", resp.CurrentStreak)
	}
	if resp.LastCompletedAt == nil {
		t.Error("Expected last_completed_at to be set")
	}
}

func TestGetStreakMissingHabitReturnsZeroes(t *testing.T) {
	e, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits/ghost/streak", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp StreakResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.CurrentStreak != 0 || resp.StreakStartDate != nil {
		t.Errorf("Expected zeroed record, got %+v", resp)
	}
}

func TestGetCompletionsFiltersByWindow(t *testing.T) {
	e, _, habits := setupTestServer(t)
	ctx := context.Background()
	now := time.Now()

	recent := entities.NewCompletion("habit-1", "workout", now.Add(-time.Hour), entities.CompletionSourceVoice)
	old := entities.NewCompletion("habit-1", "workout", now.AddDate(0, 0, -30), entities.CompletionSourceVoice)
	for _, completion := range []entities.Completion{recent, old} {
		if err := habits.SaveCompletion(ctx, completion); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits/habit-1/completions?days=7", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp CompletionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Completions) != 1 {
		t.Fatalf("Expected 1 completion in window, got %d", len(resp.Completions))
	}
	if resp.Completions[0].ID != recent.ID {
		t.Errorf("Expected completion %s, got %s", recent.ID, resp.Completions[0].ID)
	}
}

func TestGetCompletionsRejectsInvalidDays(t *testing.T) {
	e, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits/habit-1/completions?days=0", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	e, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}
