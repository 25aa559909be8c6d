// Package classify turns normalized voice transcriptions into typed
// commands using curated phrase patterns. Classification is fully
// deterministic: the same input always yields the same command.
package classify

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/entities"
)

// ErrEmptyInput is returned when the utterance text is empty after trimming.
var ErrEmptyInput = errors.New("empty input")

const (
	// minScore is the floor below which a parse falls back to unknown.
	minScore = 0.3
	// exactMatchFloor is the minimum confidence for an exact phrase match.
	exactMatchFloor = 0.95
)

// typePatterns binds a command type to its curated phrase patterns.
// Order matters: evaluation walks this slice front to back so ties resolve
// the same way on every call.
type typePatterns struct {
	commandType entities.CommandType
	patterns    []string
}

var patternTable = []typePatterns{
	{
		commandType: entities.CommandCompleteHabit,
		patterns: []string{
			"i did it",
			"done",
			"completed",
			"finished",
			"complete",
			"i finished",
			"just finished",
			"all done",
			"mark it done",
			"i did my habit",
		},
	},
	{
		commandType: entities.CommandCheckStreak,
		patterns: []string{
			"check my streak",
			"whats my streak",
			"how many days",
			"streak",
			"current streak",
			"how long is my streak",
			"show my streak",
		},
	},
	{
		commandType: entities.CommandHabitStatus,
		patterns: []string{
			"status",
			"habit status",
			"how am i doing",
			"did i do it today",
			"have i done it today",
			"whats my progress",
			"progress",
		},
	},
	{
		commandType: entities.CommandHelp,
		patterns: []string{
			"help",
			"i need help",
			"what can you do",
			"what can i say",
			"how does this work",
			"what are the commands",
		},
	},
}

// statusOverrides and nonsenseOverrides are checked as whole words before
// generic scoring runs and short-circuit to a fixed type. This precedence
// keeps "status" phrasings out of the completion patterns they overlap with.
var statusOverrides = []string{"status"}

var nonsenseOverrides = []string{"random", "nonsense", "gibberish", "blah"}

var actionKeywords = []string{
	"workout", "exercise", "run", "running", "walk", "meditate", "meditation",
	"read", "reading", "write", "journal", "stretch", "practice", "water", "yoga",
}

var timeKeywords = []string{
	"today", "tonight", "yesterday", "now", "morning", "afternoon", "evening", "night",
}

var timeOfDayKeywords = map[string]bool{
	"morning":   true,
	"afternoon": true,
	"evening":   true,
	"night":     true,
	"tonight":   true,
}

// Classifier parses free-text utterances into commands. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Parse classifies the given text into a Command. It fails with
// ErrEmptyInput when the trimmed text is empty; every other input yields a
// command, falling back to CommandUnknown with confidence 0.
func (c *Classifier) Parse(text string) (entities.Command, error) {
	if strings.TrimSpace(text) == "" {
		return entities.Command{}, ErrEmptyInput
	}

	normalized := Normalize(text)
	words := strings.Fields(normalized)

	if overrideType, ok := checkOverrides(words); ok {
		command := c.buildCommand(overrideType, text, normalized, words, overrideConfidence(overrideType, normalized))
		c.logger.Debug("Override rule matched",
			zap.String("type", string(command.Type)),
			zap.Float64("confidence", command.Confidence))
		return command, nil
	}

	bestType := entities.CommandUnknown
	bestScore := 0.0
	bestExact := false
	for _, entry := range patternTable {
		score, exact := scoreType(normalized, words, entry.patterns)
		if score > bestScore {
			bestType = entry.commandType
			bestScore = score
			bestExact = exact
		}
	}

	if bestScore < minScore {
		command := c.buildCommand(entities.CommandUnknown, text, normalized, words, 0)
		return command, nil
	}

	confidence := adjustForLength(bestScore, normalized)
	if bestExact && confidence < exactMatchFloor {
		confidence = exactMatchFloor
	}

	return c.buildCommand(bestType, text, normalized, words, confidence), nil
}

// Normalize lowercases the text, strips punctuation and collapses runs of
// whitespace into single spaces.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteByte(' ')
		case r == '\'':
			// drop apostrophes so "what's" folds to "whats"
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func checkOverrides(words []string) (entities.CommandType, bool) {
	for _, w := range words {
		for _, override := range statusOverrides {
			if w == override {
				return entities.CommandHabitStatus, true
			}
		}
	}
	for _, w := range words {
		for _, override := range nonsenseOverrides {
			if w == override {
				return entities.CommandUnknown, true
			}
		}
	}
	return entities.CommandUnknown, false
}

func overrideConfidence(commandType entities.CommandType, normalized string) float64 {
	if commandType == entities.CommandUnknown {
		return 0
	}
	score, exact := scoreTypeFor(commandType, normalized)
	confidence := adjustForLength(score, normalized)
	if exact && confidence < exactMatchFloor {
		confidence = exactMatchFloor
	}
	if confidence < 0.8 {
		confidence = 0.8
	}
	return confidence
}

func scoreTypeFor(commandType entities.CommandType, normalized string) (float64, bool) {
	words := strings.Fields(normalized)
	for _, entry := range patternTable {
		if entry.commandType == commandType {
			return scoreType(normalized, words, entry.patterns)
		}
	}
	return 0, false
}

// scoreType returns the best score any pattern achieves against the text
// and whether that score came from an exact phrase match.
func scoreType(normalized string, words []string, patterns []string) (float64, bool) {
	best := 0.0
	exact := false
	for _, pattern := range patterns {
		score, isExact := scorePattern(normalized, words, pattern)
		if score > best {
			best = score
			exact = isExact
		}
	}
	return best, exact
}

func scorePattern(normalized string, words []string, pattern string) (float64, bool) {
	if normalized == pattern {
		return 1.0, true
	}

	if strings.Contains(normalized, pattern) {
		score := float64(len(pattern)) / float64(len(normalized))
		if strings.HasPrefix(normalized, pattern) || strings.HasSuffix(normalized, pattern) {
			score += 0.2
		}
		if score > 1.0 {
			score = 1.0
		}
		return score, false
	}

	patternWords := strings.Fields(pattern)
	if len(patternWords) == 0 {
		return 0, false
	}
	matching := 0
	for _, pw := range patternWords {
		for _, w := range words {
			if w == pw {
				matching++
				break
			}
		}
	}
	return float64(matching) / float64(len(patternWords)) * 0.7, false
}

// adjustForLength dampens confidence at the extremes: very short inputs are
// ambiguous, very long ones dilute the matched phrase.
func adjustForLength(score float64, normalized string) float64 {
	switch {
	case len(normalized) < 5:
		return score * 0.8
	case len(normalized) > 50:
		return score * 0.9
	default:
		return score
	}
}

func (c *Classifier) buildCommand(
	commandType entities.CommandType,
	original, normalized string,
	words []string,
	confidence float64,
) entities.Command {
	params := extractParameters(commandType, normalized, words)
	return entities.Command{
		Type:         commandType,
		OriginalText: original,
		Parameters:   params,
		Confidence:   confidence,
	}
}

// extractParameters derives the parameter bag for a parsed command: matched
// habit-action and time keywords plus the fixed key for the command type.
func extractParameters(commandType entities.CommandType, normalized string, words []string) map[string]interface{} {
	params := make(map[string]interface{})

	for _, w := range words {
		for _, action := range actionKeywords {
			if w == action {
				params["habit_action"] = action
				break
			}
		}
		if _, ok := params["habit_action"]; ok {
			break
		}
	}

	for _, w := range words {
		matched := false
		for _, tk := range timeKeywords {
			if w == tk {
				params[entities.ParamTimeContext] = tk
				if timeOfDayKeywords[tk] {
					params[entities.ParamTimeOfDay] = tk
				}
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	switch commandType {
	case entities.CommandCompleteHabit:
		params[entities.ParamAction] = "complete"
	case entities.CommandCheckStreak:
		params[entities.ParamQuery] = "streak"
	case entities.CommandHabitStatus:
		params[entities.ParamQuery] = "status"
	case entities.CommandHelp:
		params[entities.ParamTopic] = "general"
	case entities.CommandUnknown:
		params[entities.ParamReason] = "no_match"
	}

	return params
}
