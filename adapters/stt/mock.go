package stt

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/entities"
	"github.com/aryasatya/momentum/domain/repositories"
)

// MockSpeechInput replays a scripted sequence of utterances. It is used in
// development mode when no recognizer credentials are configured.
type MockSpeechInput struct {
	script []entities.Utterance
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	handler repositories.UtteranceHandler
}

// NewMockSpeechInput creates a scripted speech input that delivers one
// utterance per delay interval after Start.
func NewMockSpeechInput(script []entities.Utterance, delay time.Duration, logger *zap.Logger) *MockSpeechInput {
	return &MockSpeechInput{
		script: script,
		delay:  delay,
		logger: logger,
	}
}

var _ repositories.SpeechInput = (*MockSpeechInput)(nil)

// Start begins replaying the script to the handler.
func (m *MockSpeechInput) Start(ctx context.Context, handler repositories.UtteranceHandler) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return errors.New("speech input already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.handler = handler
	m.mu.Unlock()

	go m.replay(ctx, handler)
	return nil
}

// Stop halts the replay.
func (m *MockSpeechInput) Stop(ctx context.Context) error {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.handler = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

// Emit delivers a single utterance outside the script, for tests and
// manual driving.
func (m *MockSpeechInput) Emit(utterance entities.Utterance) {
	m.mu.Lock()
	handler := m.handler
	m.mu.Unlock()

	if handler != nil {
		handler(utterance)
	}
}

func (m *MockSpeechInput) replay(ctx context.Context, handler repositories.UtteranceHandler) {
	for _, utterance := range m.script {
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.delay):
		}
		m.logger.Debug("Mock speech input delivering utterance",
			zap.String("text", utterance.Text),
			zap.Bool("final", utterance.IsFinal))
		handler(utterance)
	}
}
