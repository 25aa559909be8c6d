// Package memory provides in-memory repository implementations used in dev
// mode and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aryasatya/momentum/domain/entities"
	"github.com/aryasatya/momentum/domain/repositories"
)

// HabitRepository is a mutex-guarded in-memory implementation of
// repositories.HabitRepository.
type HabitRepository struct {
	mu          sync.RWMutex
	records     map[string]entities.StreakRecord
	completions []entities.Completion
}

// NewHabitRepository creates an empty in-memory habit repository.
func NewHabitRepository() *HabitRepository {
	return &HabitRepository{
		records: make(map[string]entities.StreakRecord),
	}
}

// GetStreakRecord returns the stored record, or the zeroed initial record
// when the habit has never been updated. Absence is not an error.
func (r *HabitRepository) GetStreakRecord(ctx context.Context, habitID string) (entities.StreakRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if record, ok := r.records[habitID]; ok {
		return record, nil
	}
	return entities.NewStreakRecord(habitID), nil
}

// UpdateStreakRecord stores the record, overwriting any previous value.
func (r *HabitRepository) UpdateStreakRecord(ctx context.Context, record entities.StreakRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.HabitID] = record
	return nil
}

// SaveCompletion appends a completion.
func (r *HabitRepository) SaveCompletion(ctx context.Context, completion entities.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, completion)
	return nil
}

// GetCompletions returns completions in [start, end], optionally filtered
// by habit.
func (r *HabitRepository) GetCompletions(ctx context.Context, start, end time.Time, habitID string) ([]entities.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.Completion, 0)
	for _, c := range r.completions {
		if habitID != "" && c.HabitID != habitID {
			continue
		}
		if c.CompletedAt.Before(start) || c.CompletedAt.After(end) {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

var _ repositories.HabitRepository = (*HabitRepository)(nil)
