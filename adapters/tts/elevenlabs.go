// Package tts provides speech output adapters.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/repositories"
)

const (
	defaultAPIBaseURL   = "https://api.elevenlabs.io/v1"
	defaultVoiceID      = "21m00Tcm4TlvDq8ikWAM" // Rachel voice
	defaultChunkSize    = 1024
	defaultOutputFormat = "pcm_24000"
	defaultModelID      = "eleven_multilingual_v2"
	defaultStability    = 0.5
	defaultClarity      = 0.75
)

// AudioSink receives synthesized audio chunks. The websocket layer
// implements this to forward audio to the device.
type AudioSink interface {
	WriteAudio(chunk []byte) error
}

// ElevenLabsConfig holds configuration for the ElevenLabsSpeechOutput
// adapter. APIKey is required; everything else falls back to a default.
type ElevenLabsConfig struct {
	APIKey       string
	APIBaseURL   string
	VoiceID      string
	ModelID      string
	OutputFormat string
	ChunkSize    int
	Stability    float64 // between 0 and 1
	Clarity      float64 // similarity boost, between 0 and 1
}

// ValidateElevenLabsConfig validates an ElevenLabsConfig.
func ValidateElevenLabsConfig(config ElevenLabsConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("eleven labs API key is required")
	}
	if config.Stability != 0 && (config.Stability < 0 || config.Stability > 1) {
		return fmt.Errorf("stability must be between 0 and 1, got %f", config.Stability)
	}
	if config.Clarity != 0 && (config.Clarity < 0 || config.Clarity > 1) {
		return fmt.Errorf("clarity must be between 0 and 1, got %f", config.Clarity)
	}
	if config.ChunkSize < 0 {
		return fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}
	return nil
}

// NewElevenLabsConfigFromEnv builds an ElevenLabsConfig from environment
// variables. Invalid numeric values are silently ignored and fall back to
// defaults.
func NewElevenLabsConfigFromEnv() ElevenLabsConfig {
	config := ElevenLabsConfig{
		APIKey:       os.Getenv("ELEVEN_LABS_API_KEY"),
		APIBaseURL:   os.Getenv("ELEVEN_LABS_API_BASE_URL"),
		VoiceID:      os.Getenv("ELEVEN_LABS_VOICE_ID"),
		ModelID:      os.Getenv("ELEVEN_LABS_MODEL_ID"),
		OutputFormat: os.Getenv("ELEVEN_LABS_OUTPUT_FORMAT"),
	}

	if chunkSizeStr := os.Getenv("ELEVEN_LABS_CHUNK_SIZE"); chunkSizeStr != "" {
		if chunkSize, err := strconv.Atoi(chunkSizeStr); err == nil && chunkSize > 0 {
			config.ChunkSize = chunkSize
		}
	}
	if stabilityStr := os.Getenv("ELEVEN_LABS_STABILITY"); stabilityStr != "" {
		if stability, err := strconv.ParseFloat(stabilityStr, 64); err == nil && stability >= 0 && stability <= 1 {
			config.Stability = stability
		}
	}
	if clarityStr := os.Getenv("ELEVEN_LABS_CLARITY"); clarityStr != "" {
		if clarity, err := strconv.ParseFloat(clarityStr, 64); err == nil && clarity >= 0 && clarity <= 1 {
			config.Clarity = clarity
		}
	}

	return config
}

// ElevenLabsSpeechOutput implements repositories.SpeechOutput using the
// Eleven Labs streaming TTS API. Synthesized audio is forwarded to the
// configured sink chunk by chunk.
type ElevenLabsSpeechOutput struct {
	apiKey       string
	apiBaseURL   string
	voiceID      string
	modelID      string
	outputFormat string
	chunkSize    int
	stability    float64
	clarity      float64
	sink         AudioSink
	client       *http.Client
	logger       *zap.Logger

	mu            sync.Mutex
	cancel        context.CancelFunc
	statusHandler repositories.StatusHandler
}

var _ repositories.SpeechOutput = (*ElevenLabsSpeechOutput)(nil)

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
}

type synthesisRequest struct {
	Text                   string        `json:"text"`
	ModelID                string        `json:"model_id"`
	VoiceSettings          voiceSettings `json:"voice_settings"`
	ApplyTextNormalization string        `json:"apply_text_normalization,omitempty"`
}

// NewElevenLabsSpeechOutput creates a speech output that streams synthesized
// audio into the sink.
func NewElevenLabsSpeechOutput(config ElevenLabsConfig, sink AudioSink, logger *zap.Logger) (*ElevenLabsSpeechOutput, error) {
	if err := ValidateElevenLabsConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	voiceID := config.VoiceID
	if voiceID == "" {
		voiceID = defaultVoiceID
	}
	modelID := config.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}
	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = defaultOutputFormat
	}
	chunkSize := config.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	}
	stability := config.Stability
	if stability == 0 {
		stability = defaultStability
	}
	clarity := config.Clarity
	if clarity == 0 {
		clarity = defaultClarity
	}

	return &ElevenLabsSpeechOutput{
		apiKey:       config.APIKey,
		apiBaseURL:   apiBaseURL,
		voiceID:      voiceID,
		modelID:      modelID,
		outputFormat: outputFormat,
		chunkSize:    chunkSize,
		stability:    stability,
		clarity:      clarity,
		sink:         sink,
		client:       &http.Client{Timeout: 60 * time.Second},
		logger:       logger,
	}, nil
}

// SetStatusHandler registers the handler notified of status transitions.
func (e *ElevenLabsSpeechOutput) SetStatusHandler(handler repositories.StatusHandler) {
	e.mu.Lock()
	e.statusHandler = handler
	e.mu.Unlock()
}

// Speak synthesizes the text and streams the audio into the sink. It blocks
// until the full response has been streamed, the context is cancelled, or
// Stop is called.
func (e *ElevenLabsSpeechOutput) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	ctx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.cancel = nil
		e.mu.Unlock()
		cancel()
	}()

	e.logger.Info("Synthesizing speech",
		zap.Int("textLength", len(text)),
		zap.String("voiceID", e.voiceID),
		zap.String("modelID", e.modelID))

	request := synthesisRequest{
		Text:                   text,
		ModelID:                e.modelID,
		ApplyTextNormalization: "auto",
		VoiceSettings: voiceSettings{
			Stability:       e.stability,
			SimilarityBoost: e.clarity,
			Style:           0.0,
			UseSpeakerBoost: true,
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/stream?output_format=%s&enable_logging=false",
		e.apiBaseURL, e.voiceID, e.outputFormat)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	// PCM output formats require the audio/pcm accept header.
	acceptHeader := "audio/mpeg"
	if strings.HasPrefix(e.outputFormat, "pcm") {
		acceptHeader = "audio/pcm"
	}
	httpReq.Header.Set("Accept", acceptHeader)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", e.apiKey)

	e.notify(repositories.SpeechStatusSpeaking)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		e.notify(repositories.SpeechStatusError)
		return fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		e.notify(repositories.SpeechStatusError)
		return fmt.Errorf("eleven labs API returned %d: %s", resp.StatusCode, string(errorBody))
	}

	if err := e.streamAudio(ctx, resp.Body); err != nil {
		e.notify(repositories.SpeechStatusError)
		return err
	}

	e.notify(repositories.SpeechStatusInactive)
	return nil
}

// Stop cancels any in-flight synthesis.
func (e *ElevenLabsSpeechOutput) Stop(ctx context.Context) error {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

func (e *ElevenLabsSpeechOutput) streamAudio(ctx context.Context, body io.Reader) error {
	buffer := make([]byte, e.chunkSize)
	totalBytes := 0

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := body.Read(buffer)
		if n > 0 {
			totalBytes += n
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			if writeErr := e.sink.WriteAudio(chunk); writeErr != nil {
				return fmt.Errorf("failed to write audio chunk: %w", writeErr)
			}
		}
		if err == io.EOF {
			e.logger.Debug("Finished streaming audio", zap.Int("totalBytes", totalBytes))
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading response body: %w", err)
		}
	}
}

func (e *ElevenLabsSpeechOutput) notify(status repositories.SpeechStatus) {
	e.mu.Lock()
	handler := e.statusHandler
	e.mu.Unlock()

	if handler != nil {
		handler(status)
	}
}
