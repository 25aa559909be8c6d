package tts

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/repositories"
)

// MockSpeechOutput records spoken texts instead of synthesizing audio. It is
// used in development mode when no TTS credentials are configured.
type MockSpeechOutput struct {
	logger *zap.Logger

	mu            sync.Mutex
	spoken        []string
	statusHandler repositories.StatusHandler
}

// NewMockSpeechOutput creates a recording speech output.
func NewMockSpeechOutput(logger *zap.Logger) *MockSpeechOutput {
	return &MockSpeechOutput{logger: logger}
}

var _ repositories.SpeechOutput = (*MockSpeechOutput)(nil)

// Speak logs and records the text.
func (m *MockSpeechOutput) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	handler := m.statusHandler
	m.mu.Unlock()

	m.logger.Info("Mock speech output speaking", zap.String("text", text))

	if handler != nil {
		handler(repositories.SpeechStatusSpeaking)
		handler(repositories.SpeechStatusInactive)
	}
	return nil
}

// Stop is a no-op for the mock.
func (m *MockSpeechOutput) Stop(ctx context.Context) error {
	return nil
}

// SetStatusHandler registers the handler notified of status transitions.
func (m *MockSpeechOutput) SetStatusHandler(handler repositories.StatusHandler) {
	m.mu.Lock()
	m.statusHandler = handler
	m.mu.Unlock()
}

// Spoken returns a copy of everything spoken so far.
func (m *MockSpeechOutput) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}
