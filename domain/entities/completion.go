package entities

import (
	"time"

	"github.com/google/uuid"
)

// Completion is one recorded instance of a habit being done.
type Completion struct {
	ID          string    `json:"id" bson:"_id"`
	HabitID     string    `json:"habit_id" bson:"habit_id"`
	HabitName   string    `json:"habit_name" bson:"habit_name"`
	CompletedAt time.Time `json:"completed_at" bson:"completed_at"`
	Source      string    `json:"source" bson:"source"`
}

// Completion sources.
const (
	CompletionSourceVoice  = "voice"
	CompletionSourceManual = "manual"
)

// NewCompletion records a completion for a habit at the given time.
func NewCompletion(habitID, habitName string, completedAt time.Time, source string) Completion {
	return Completion{
		ID:          uuid.New().String(),
		HabitID:     habitID,
		HabitName:   habitName,
		CompletedAt: completedAt,
		Source:      source,
	}
}
