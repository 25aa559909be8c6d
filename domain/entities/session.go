package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionEventType labels entries in a session's event log.
type SessionEventType string

const (
	SessionEventStateChanged      SessionEventType = "state_changed"
	SessionEventUtteranceReceived SessionEventType = "utterance_received"
	SessionEventCommandParsed     SessionEventType = "command_parsed"
	SessionEventResponseSpoken    SessionEventType = "response_spoken"
	SessionEventFailure           SessionEventType = "failure"
)

// SessionEvent is one timestamped entry in a session's history.
type SessionEvent struct {
	Timestamp time.Time        `json:"timestamp"`
	Type      SessionEventType `json:"type"`
	Detail    string           `json:"detail,omitempty"`
}

// InteractionSession is the event history of one listen-process-respond
// cycle. It is created when an interaction starts and discarded when the
// interaction stops; its event log is owned by exactly one orchestrator.
type InteractionSession struct {
	ID        string         `json:"id"`
	HabitID   string         `json:"habit_id"`
	StartTime time.Time      `json:"start_time"`
	Events    []SessionEvent `json:"events"`
}

// NewInteractionSession starts a fresh session for a habit.
func NewInteractionSession(habitID string) *InteractionSession {
	return &InteractionSession{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		StartTime: time.Now(),
		Events:    make([]SessionEvent, 0, 8),
	}
}

// AddEvent appends a timestamped event to the session history.
func (s *InteractionSession) AddEvent(eventType SessionEventType, detail string) {
	s.Events = append(s.Events, SessionEvent{
		Timestamp: time.Now(),
		Type:      eventType,
		Detail:    detail,
	})
}

// Duration reports how long the session has been running.
func (s *InteractionSession) Duration() time.Duration {
	return time.Since(s.StartTime)
}
