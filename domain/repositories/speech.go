package repositories

import (
	"context"

	"github.com/aryasatya/momentum/domain/entities"
)

// UtteranceHandler receives recognition results from a speech input.
// Implementations may deliver non-final intermediate results; consumers
// decide whether to act on them.
type UtteranceHandler func(utterance entities.Utterance)

// SpeechInput abstracts a speech recognition source. Start begins delivering
// utterances to the handler until Stop is called or the context ends.
type SpeechInput interface {
	Start(ctx context.Context, handler UtteranceHandler) error
	Stop(ctx context.Context) error
}

// SpeechStatus is the activity state reported by a speech output.
type SpeechStatus string

const (
	SpeechStatusSpeaking SpeechStatus = "speaking"
	SpeechStatusInactive SpeechStatus = "inactive"
	SpeechStatusError    SpeechStatus = "error"
)

// StatusHandler receives speech output status transitions.
type StatusHandler func(status SpeechStatus)

// SpeechOutput abstracts text-to-speech playback. Speak blocks until the
// text has been spoken or fails. SetStatusHandler is optional; a nil handler
// disables status notifications.
type SpeechOutput interface {
	Speak(ctx context.Context, text string) error
	Stop(ctx context.Context) error
	SetStatusHandler(handler StatusHandler)
}
