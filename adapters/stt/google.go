// Package stt provides speech input adapters.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/entities"
	"github.com/aryasatya/momentum/domain/repositories"
)

// AudioSource supplies raw audio chunks to a speech input. The channel
// closes when the source ends (microphone released, stream closed).
type AudioSource interface {
	Chunks() <-chan []byte
}

// AudioConfig describes the audio a source produces.
type AudioConfig struct {
	SampleRate int
	Encoding   string
	Language   string
}

// GoogleSpeechInput implements repositories.SpeechInput over Google Cloud
// Speech streaming recognition. Interim hypotheses are forwarded as
// non-final utterances; the recognizer's final results carry IsFinal.
type GoogleSpeechInput struct {
	source AudioSource
	config AudioConfig
	logger *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewGoogleSpeechInput creates a speech input over the given audio source.
func NewGoogleSpeechInput(source AudioSource, config AudioConfig, logger *zap.Logger) *GoogleSpeechInput {
	return &GoogleSpeechInput{
		source: source,
		config: config,
		logger: logger,
	}
}

var _ repositories.SpeechInput = (*GoogleSpeechInput)(nil)

// Start opens a streaming recognition session and pumps the audio source
// through it, delivering utterances to the handler until Stop is called or
// the source ends.
func (g *GoogleSpeechInput) Start(ctx context.Context, handler repositories.UtteranceHandler) error {
	g.mu.Lock()
	if g.cancel != nil {
		g.mu.Unlock()
		return errors.New("speech input already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.mu.Unlock()

	client, err := speech.NewClient(ctx)
	if err != nil {
		g.reset()
		return fmt.Errorf("failed to create speech client: %w", err)
	}

	stream, err := client.StreamingRecognize(ctx)
	if err != nil {
		client.Close()
		g.reset()
		return fmt.Errorf("failed to open streaming recognize: %w", err)
	}

	encoding, err := audioEncoding(g.config.Encoding)
	if err != nil {
		stream.CloseSend()
		client.Close()
		g.reset()
		return err
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        encoding,
					SampleRateHertz: int32(g.config.SampleRate),
					LanguageCode:    g.config.Language,
				},
				InterimResults: true,
			},
		},
	}); err != nil {
		stream.CloseSend()
		client.Close()
		g.reset()
		return fmt.Errorf("failed to send streaming config: %w", err)
	}

	go g.pumpAudio(ctx, stream)
	go g.receiveResults(ctx, client, stream, handler)

	g.logger.Info("Google speech input started",
		zap.Int("sampleRate", g.config.SampleRate),
		zap.String("language", g.config.Language))
	return nil
}

// Stop cancels the recognition session.
func (g *GoogleSpeechInput) Stop(ctx context.Context) error {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

func (g *GoogleSpeechInput) reset() {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.mu.Unlock()
}

func (g *GoogleSpeechInput) pumpAudio(ctx context.Context, stream speechpb.Speech_StreamingRecognizeClient) {
	defer stream.CloseSend()

	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-g.source.Chunks():
			if !ok {
				return
			}
			if len(chunk) == 0 {
				continue
			}
			if err := stream.Send(&speechpb.StreamingRecognizeRequest{
				StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
					AudioContent: chunk,
				},
			}); err != nil {
				g.logger.Error("Failed to send audio chunk", zap.Error(err))
				return
			}
		}
	}
}

func (g *GoogleSpeechInput) receiveResults(
	ctx context.Context,
	client *speech.Client,
	stream speechpb.Speech_StreamingRecognizeClient,
	handler repositories.UtteranceHandler,
) {
	defer client.Close()

	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			if ctx.Err() == nil {
				g.logger.Error("Streaming recognition failed", zap.Error(err))
			}
			return
		}

		for _, result := range resp.Results {
			if len(result.Alternatives) == 0 {
				continue
			}
			best := result.Alternatives[0]
			handler(entities.Utterance{
				Text:       best.Transcript,
				Confidence: float64(best.Confidence),
				IsFinal:    result.IsFinal,
			})
		}
	}
}

func audioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
