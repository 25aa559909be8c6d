// Package llm provides the Gemini-backed encouragement generator.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/aryasatya/momentum/domain/repositories"
)

const encouragementPrompt = `You are the voice of a friendly habit tracking assistant.
The user just completed their habit "%s" and is on a %d day streak.
Reply with one short spoken sentence of encouragement, at most 15 words.
No emoji, no quotation marks, no preamble.`

// GeminiEncourager generates one-line encouragements with the Gemini API.
// Every call is best-effort; callers fall back to templates on error.
type GeminiEncourager struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

// NewGeminiEncourager creates an encourager backed by GEMINI_API_KEY.
func NewGeminiEncourager(logger *zap.Logger) (*GeminiEncourager, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEncourager{
		client: client,
		logger: logger,
		model:  "gemini-2.0-flash",
	}, nil
}

var _ repositories.Encourager = (*GeminiEncourager)(nil)

// Encouragement generates a single spoken encouragement line.
func (g *GeminiEncourager) Encouragement(ctx context.Context, habitName string, currentStreak int) (string, error) {
	prompt := fmt.Sprintf(encouragementPrompt, habitName, currentStreak)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0.8)),
		MaxOutputTokens: 60,
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate encouragement: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
	if text == "" {
		return "", fmt.Errorf("empty response")
	}

	g.logger.Debug("Generated encouragement",
		zap.String("habit", habitName),
		zap.Int("streak", currentStreak))
	return text, nil
}
