package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/aryasatya/momentum/adapters/llm"
	"github.com/aryasatya/momentum/adapters/memory"
	mongoadapter "github.com/aryasatya/momentum/adapters/mongo"
	"github.com/aryasatya/momentum/adapters/stt"
	"github.com/aryasatya/momentum/adapters/tts"
	"github.com/aryasatya/momentum/domain/entities"
	"github.com/aryasatya/momentum/domain/repositories"
	"github.com/aryasatya/momentum/internal/api"
	"github.com/aryasatya/momentum/internal/classify"
	"github.com/aryasatya/momentum/internal/response"
	"github.com/aryasatya/momentum/internal/websocket"
)

func main() {
	godotenv.Load()

	logger, _ := zap.NewProduction()
	if os.Getenv("ENV") == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// Core pipeline components shared by every connection.
	classifier := classify.NewClassifier(logger)
	engine := response.NewEngine(response.DefaultCatalog(), logger)
	if err := engine.Initialize(); err != nil {
		logger.Fatal("Failed to initialize response engine", zap.Error(err))
	}

	habitRepo, deviceRepo, cleanup := buildRepositories(logger)
	defer cleanup()

	var encourager repositories.Encourager
	if os.Getenv("GEMINI_API_KEY") != "" {
		gemini, err := llm.NewGeminiEncourager(logger)
		if err != nil {
			logger.Warn("Encouragements disabled", zap.Error(err))
		} else {
			encourager = gemini
		}
	}

	hub := websocket.NewHub(
		classifier,
		engine,
		habitRepo,
		deviceRepo,
		encourager,
		buildSpeechProvider(logger),
		logger,
	)
	go hub.Run()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, hub, deviceRepo, habitRepo, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// buildRepositories selects MongoDB-backed persistence when MONGODB_URI is
// set and falls back to in-memory repositories for development.
func buildRepositories(logger *zap.Logger) (repositories.HabitRepository, repositories.DeviceRepository, func()) {
	if os.Getenv("MONGODB_URI") != "" {
		client, err := mongoadapter.NewClient(logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Close(ctx)
		}
		return mongoadapter.NewHabitRepository(client.Database), seedDevices(memory.NewDeviceRepository(), logger), cleanup
	}

	logger.Info("MONGODB_URI not set, using in-memory repositories")
	return memory.NewHabitRepository(), seedDevices(memory.NewDeviceRepository(), logger), func() {}
}

// seedDevices registers the development device when DEV_DEVICE_SERIAL is
// set, so a local client can authenticate without a provisioning flow.
func seedDevices(repo *memory.DeviceRepository, logger *zap.Logger) *memory.DeviceRepository {
	serial := os.Getenv("DEV_DEVICE_SERIAL")
	if serial == "" {
		return repo
	}
	secret := os.Getenv("DEV_DEVICE_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	device := &entities.Device{
		SerialNumber: serial,
		Model:        "momentum-dev",
		HabitID:      envOr("DEV_HABIT_ID", "habit-1"),
		HabitName:    envOr("DEV_HABIT_NAME", "workout"),
	}
	if err := repo.Create(context.Background(), device); err != nil {
		logger.Warn("Failed to seed development device", zap.Error(err))
		return repo
	}
	if err := repo.RegisterDeviceSecret(serial, secret); err != nil {
		logger.Warn("Failed to register development device secret", zap.Error(err))
	}
	logger.Info("Seeded development device",
		zap.String("serial", serial),
		zap.String("habit", device.HabitName))
	return repo
}

// buildSpeechProvider wires real recognizers and synthesis when their
// credentials are configured, mocks otherwise.
func buildSpeechProvider(logger *zap.Logger) websocket.SpeechProvider {
	useGoogle := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != ""
	ttsConfig := tts.NewElevenLabsConfigFromEnv()
	useElevenLabs := ttsConfig.APIKey != ""

	return func(source websocket.AudioSource, sink websocket.AudioSink) (repositories.SpeechInput, repositories.SpeechOutput, error) {
		var speechIn repositories.SpeechInput
		if useGoogle {
			speechIn = stt.NewGoogleSpeechInput(source, stt.AudioConfig{
				SampleRate: 16000,
				Encoding:   "LINEAR16",
				Language:   "en-US",
			}, logger)
		} else {
			speechIn = stt.NewMockSpeechInput(nil, time.Second, logger)
		}

		var speechOut repositories.SpeechOutput
		if useElevenLabs {
			elevenLabs, err := tts.NewElevenLabsSpeechOutput(ttsConfig, sink, logger)
			if err != nil {
				return nil, nil, err
			}
			speechOut = elevenLabs
		} else {
			speechOut = tts.NewMockSpeechOutput(logger)
		}

		return speechIn, speechOut, nil
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
