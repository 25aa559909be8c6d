package repositories

import (
	"context"
	"time"

	"github.com/aryasatya/momentum/domain/entities"
)

// HabitRepository persists streak records and habit completions.
//
// GetStreakRecord returns the zeroed initial record when no record is
// stored; absence is not an error condition.
type HabitRepository interface {
	GetStreakRecord(ctx context.Context, habitID string) (entities.StreakRecord, error)
	UpdateStreakRecord(ctx context.Context, record entities.StreakRecord) error
	SaveCompletion(ctx context.Context, completion entities.Completion) error
	// GetCompletions returns completions in [start, end]. An empty habitID
	// matches all habits.
	GetCompletions(ctx context.Context, start, end time.Time, habitID string) ([]entities.Completion, error)
}
