package websocket

import (
	"sync"

	"github.com/aryasatya/momentum/domain/repositories"
)

// AudioSink receives synthesized audio bound for the device.
type AudioSink interface {
	WriteAudio(chunk []byte) error
}

// AudioSource exposes the client's microphone audio as a chunk channel.
type AudioSource interface {
	Chunks() <-chan []byte
}

// SpeechProvider builds the speech input and output pair for one connected
// client. The source delivers the client's microphone audio; the sink
// receives synthesized speech. cmd/server decides between real recognizers
// and mocks.
type SpeechProvider func(source AudioSource, sink AudioSink) (repositories.SpeechInput, repositories.SpeechOutput, error)

const audioSourceBuffer = 64

// clientAudioSource bridges binary WebSocket frames into the audio channel
// a speech input consumes. Chunks are dropped when the recognizer falls
// behind the buffer.
type clientAudioSource struct {
	chunks chan []byte

	mu     sync.Mutex
	closed bool
}

func newClientAudioSource() *clientAudioSource {
	return &clientAudioSource{chunks: make(chan []byte, audioSourceBuffer)}
}

// Chunks returns the audio channel. It closes when the client disconnects.
func (s *clientAudioSource) Chunks() <-chan []byte {
	return s.chunks
}

// Push enqueues one audio chunk. It reports whether the chunk was accepted.
func (s *clientAudioSource) Push(chunk []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	select {
	case s.chunks <- chunk:
		return true
	default:
		return false
	}
}

// Close ends the audio stream. Safe to call more than once.
func (s *clientAudioSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.chunks)
}
