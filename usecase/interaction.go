// Package usecase wires the classifier, template engine and streak rules to
// the speech and persistence collaborators behind a per-session state
// machine.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/entities"
	"github.com/aryasatya/momentum/domain/repositories"
	"github.com/aryasatya/momentum/internal/classify"
	"github.com/aryasatya/momentum/internal/response"
)

// InteractionState is the orchestrator's current position in the
// listen-process-respond cycle.
type InteractionState string

const (
	StateIdle       InteractionState = "idle"
	StateReady      InteractionState = "ready"
	StateListening  InteractionState = "listening"
	StateProcessing InteractionState = "processing"
	StateResponding InteractionState = "responding"
	StateError      InteractionState = "error"
)

// ErrInvalidState is returned when Start is called while an interaction is
// already in flight. The call performs no transition.
var ErrInvalidState = errors.New("invalid state: interaction already active")

// EventType labels entries on the outgoing event channel.
type EventType string

const (
	EventStateChanged EventType = "state_changed"
	EventResult       EventType = "interaction_result"
	EventFailure      EventType = "failure"
)

// Event is one notification emitted by the service: a state transition, a
// completed interaction (command plus spoken response) or a failure.
type Event struct {
	Type      EventType
	State     InteractionState
	Command   *entities.Command
	Response  string
	Err       error
	Timestamp time.Time
}

// InteractionConfig identifies the habit one service instance manages.
type InteractionConfig struct {
	HabitID   string
	HabitName string
}

// InteractionService drives one voice interaction session at a time. It is
// not reentrant: a second Start while listening, processing or responding
// fails with ErrInvalidState. Distinct instances may run concurrently as
// long as they own independent habit state.
//
// There is no timeout on the listening state or on collaborator calls;
// cancellation happens only through Stop or the caller's context.
type InteractionService struct {
	config     InteractionConfig
	speechIn   repositories.SpeechInput
	speechOut  repositories.SpeechOutput
	habits     repositories.HabitRepository
	classifier *classify.Classifier
	engine     *response.Engine
	encourager repositories.Encourager
	logger     *zap.Logger

	mu      sync.Mutex
	state   InteractionState
	session *entities.InteractionSession

	events chan Event
}

// NewInteractionService creates a service in the Idle state. The encourager
// is optional and may be nil.
func NewInteractionService(
	config InteractionConfig,
	speechIn repositories.SpeechInput,
	speechOut repositories.SpeechOutput,
	habits repositories.HabitRepository,
	classifier *classify.Classifier,
	engine *response.Engine,
	encourager repositories.Encourager,
	logger *zap.Logger,
) *InteractionService {
	return &InteractionService{
		config:     config,
		speechIn:   speechIn,
		speechOut:  speechOut,
		habits:     habits,
		classifier: classifier,
		engine:     engine,
		encourager: encourager,
		logger:     logger,
		state:      StateIdle,
		events:     make(chan Event, 32),
	}
}

// Events returns the outgoing notification channel. Events are dropped,
// with a warning, if the consumer falls behind the buffer.
func (s *InteractionService) Events() <-chan Event {
	return s.events
}

// State returns the current state.
func (s *InteractionService) State() InteractionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns the active session, or nil outside an interaction.
func (s *InteractionService) Session() *entities.InteractionSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Start begins a listening session. Allowed from Idle, Ready and Error;
// recovery from Error is explicit, never automatic.
func (s *InteractionService) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateListening, StateProcessing, StateResponding:
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrInvalidState, state)
	}
	s.session = entities.NewInteractionSession(s.config.HabitID)
	s.mu.Unlock()

	handler := func(utterance entities.Utterance) {
		s.handleUtterance(ctx, utterance)
	}
	if err := s.speechIn.Start(ctx, handler); err != nil {
		err = fmt.Errorf("speech input start failed: %w", err)
		s.fail(ctx, err)
		return err
	}

	s.transition(StateListening)
	s.logger.Info("Interaction started",
		zap.String("habitID", s.config.HabitID),
		zap.String("sessionID", s.Session().ID))
	return nil
}

// Stop ends the session from any state: speech input and output are
// stopped, the event log is discarded and the service returns to Idle.
func (s *InteractionService) Stop(ctx context.Context) error {
	if err := s.speechIn.Stop(ctx); err != nil {
		s.logger.Warn("Speech input stop failed", zap.Error(err))
	}
	if err := s.speechOut.Stop(ctx); err != nil {
		s.logger.Warn("Speech output stop failed", zap.Error(err))
	}

	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	s.transition(StateIdle)

	s.logger.Info("Interaction stopped", zap.String("habitID", s.config.HabitID))
	return nil
}

// handleUtterance consumes recognition results while listening. Non-final
// utterances are ignored; the first final one drives the whole
// process-respond cycle.
func (s *InteractionService) handleUtterance(ctx context.Context, utterance entities.Utterance) {
	if !utterance.IsFinal {
		return
	}

	s.mu.Lock()
	if s.state != StateListening {
		s.mu.Unlock()
		return
	}
	if s.session != nil {
		s.session.AddEvent(entities.SessionEventUtteranceReceived, utterance.Text)
	}
	s.mu.Unlock()

	s.transition(StateProcessing)

	command, err := s.classifier.Parse(utterance.Text)
	if err != nil {
		s.fail(ctx, fmt.Errorf("command parse failed: %w", err))
		return
	}
	s.recordEvent(entities.SessionEventCommandParsed, string(command.Type))

	responseCtx, err := s.dispatch(ctx, command)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	text, err := s.engine.GetResponse(responseCtx)
	if err != nil {
		s.fail(ctx, fmt.Errorf("response generation failed: %w", err))
		return
	}

	s.transition(StateResponding)
	if err := s.speechOut.Speak(ctx, text); err != nil {
		s.fail(ctx, fmt.Errorf("speech output failed: %w", err))
		return
	}
	s.recordEvent(entities.SessionEventResponseSpoken, text)

	s.transition(StateReady)
	s.emit(Event{
		Type:      EventResult,
		State:     StateReady,
		Command:   &command,
		Response:  text,
		Timestamp: time.Now(),
	})

	s.logger.Info("Interaction completed",
		zap.String("command", string(command.Type)),
		zap.Float64("confidence", command.Confidence))
}

// dispatch builds the response context for a parsed command. Help and
// unknown commands never touch persistence.
func (s *InteractionService) dispatch(ctx context.Context, command entities.Command) (entities.ResponseContext, error) {
	switch command.Type {
	case entities.CommandCompleteHabit:
		return s.completeHabit(ctx)
	case entities.CommandCheckStreak:
		return s.checkStreak(ctx)
	case entities.CommandHabitStatus:
		return s.habitStatus(ctx)
	case entities.CommandHelp:
		return entities.NewResponseContext(entities.ResponseHelp, map[string]interface{}{
			"topic": command.Parameters[entities.ParamTopic],
		}), nil
	case entities.CommandUnknown:
		return entities.NewResponseContext(entities.ResponseUnknown, map[string]interface{}{
			"reason":        command.Parameters[entities.ParamReason],
			"original_text": command.OriginalText,
		}), nil
	default:
		return entities.ResponseContext{}, fmt.Errorf("unhandled command type %q", command.Type)
	}
}

// completeHabit persists a completion, folds it into the streak record and
// builds a habitCompleted context.
func (s *InteractionService) completeHabit(ctx context.Context) (entities.ResponseContext, error) {
	now := time.Now()
	completion := entities.NewCompletion(s.config.HabitID, s.config.HabitName, now, entities.CompletionSourceVoice)
	if err := s.habits.SaveCompletion(ctx, completion); err != nil {
		return entities.ResponseContext{}, fmt.Errorf("save completion failed: %w", err)
	}

	record, err := s.habits.GetStreakRecord(ctx, s.config.HabitID)
	if err != nil {
		return entities.ResponseContext{}, fmt.Errorf("load streak record failed: %w", err)
	}

	updated := record.UpdateWithCompletion(now, now)
	if err := s.habits.UpdateStreakRecord(ctx, updated); err != nil {
		return entities.ResponseContext{}, fmt.Errorf("update streak record failed: %w", err)
	}

	variables := map[string]interface{}{
		"habit_name":        s.config.HabitName,
		"current_streak":    updated.CurrentStreak,
		"longest_streak":    updated.LongestStreak,
		"total_completions": updated.TotalCompletions,
		"is_new_record":     updated.LongestStreak > record.LongestStreak,
	}

	if s.encourager != nil {
		line, err := s.encourager.Encouragement(ctx, s.config.HabitName, updated.CurrentStreak)
		if err != nil {
			s.logger.Warn("Encouragement generation failed", zap.Error(err))
		} else if line != "" {
			variables["encouragement"] = line
		}
	}

	return entities.NewResponseContext(entities.ResponseHabitCompleted, variables), nil
}

// checkStreak reads the streak record without modifying anything.
func (s *InteractionService) checkStreak(ctx context.Context) (entities.ResponseContext, error) {
	record, err := s.habits.GetStreakRecord(ctx, s.config.HabitID)
	if err != nil {
		return entities.ResponseContext{}, fmt.Errorf("load streak record failed: %w", err)
	}

	variables := map[string]interface{}{
		"habit_name":     s.config.HabitName,
		"current_streak": record.CurrentStreak,
		"longest_streak": record.LongestStreak,
	}
	if !record.CurrentStreakStartDate.IsZero() {
		variables["streak_start"] = record.CurrentStreakStartDate
	}

	return entities.NewResponseContext(entities.ResponseStreakUpdate, variables), nil
}

// habitStatus reads the streak record and checks whether a completion
// already exists for the current calendar day.
func (s *InteractionService) habitStatus(ctx context.Context) (entities.ResponseContext, error) {
	record, err := s.habits.GetStreakRecord(ctx, s.config.HabitID)
	if err != nil {
		return entities.ResponseContext{}, fmt.Errorf("load streak record failed: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	completions, err := s.habits.GetCompletions(ctx, startOfDay, now, s.config.HabitID)
	if err != nil {
		return entities.ResponseContext{}, fmt.Errorf("load completions failed: %w", err)
	}

	variables := map[string]interface{}{
		"habit_name":      s.config.HabitName,
		"current_streak":  record.CurrentStreak,
		"longest_streak":  record.LongestStreak,
		"completed_today": len(completions) > 0,
	}
	if !record.LastCompletionDate.IsZero() {
		variables["last_completion"] = record.LastCompletionDate
	}

	return entities.NewResponseContext(entities.ResponseHabitStatus, variables), nil
}

// fail moves the service to the Error state, emits the failure and makes a
// best-effort attempt to speak a generic apology. The apology's own failure
// is ignored; the caller must Start again to resume.
func (s *InteractionService) fail(ctx context.Context, err error) {
	s.recordEvent(entities.SessionEventFailure, err.Error())
	s.transition(StateError)
	s.emit(Event{
		Type:      EventFailure,
		State:     StateError,
		Err:       err,
		Timestamp: time.Now(),
	})
	s.logger.Error("Interaction failed", zap.Error(err))

	apology, templateErr := s.engine.GetRandomResponse(entities.ResponseError, nil)
	if templateErr != nil {
		return
	}
	if speakErr := s.speechOut.Speak(ctx, apology); speakErr != nil {
		s.logger.Warn("Apology playback failed", zap.Error(speakErr))
	}
}

func (s *InteractionService) transition(to InteractionState) {
	s.mu.Lock()
	from := s.state
	s.state = to
	if s.session != nil && from != to {
		s.session.AddEvent(entities.SessionEventStateChanged, fmt.Sprintf("%s -> %s", from, to))
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventStateChanged, State: to, Timestamp: time.Now()})
	s.logger.Debug("State changed",
		zap.String("from", string(from)),
		zap.String("to", string(to)))
}

func (s *InteractionService) recordEvent(eventType entities.SessionEventType, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.AddEvent(eventType, detail)
	}
}

func (s *InteractionService) emit(event Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("Event channel full, dropping event", zap.String("type", string(event.Type)))
	}
}
