package entities

import "time"

// StreakRecord holds the consecutive-day completion counters for a single
// habit. Records are never deleted; updates replace the stored value.
type StreakRecord struct {
	HabitID                string    `json:"habit_id" bson:"habit_id"`
	CurrentStreak          int       `json:"current_streak" bson:"current_streak"`
	LongestStreak          int       `json:"longest_streak" bson:"longest_streak"`
	CurrentStreakStartDate time.Time `json:"current_streak_start_date" bson:"current_streak_start_date"`
	LastCompletionDate     time.Time `json:"last_completion_date" bson:"last_completion_date"`
	TotalCompletions       int       `json:"total_completions" bson:"total_completions"`
	LastUpdated            time.Time `json:"last_updated" bson:"last_updated"`
}

// NewStreakRecord returns the zeroed initial record for a habit. A habit
// with no stored record is represented by this value, never by an error.
func NewStreakRecord(habitID string) StreakRecord {
	return StreakRecord{
		HabitID:     habitID,
		LastUpdated: time.Now(),
	}
}

// UpdateWithCompletion applies one completion to the record and returns the
// new value. The receiver is not modified.
//
// Continuity rules over calendar days:
//   - same day as the last completion: only TotalCompletions moves;
//   - exactly the next day: CurrentStreak extends, start date kept;
//   - any larger gap (or first completion ever): CurrentStreak restarts at 1
//     and the streak start date becomes the completion date.
//
// CurrentStreak can never exceed LongestStreak after an update.
func (r StreakRecord) UpdateWithCompletion(completedAt, now time.Time) StreakRecord {
	updated := r
	updated.LastUpdated = now

	if !r.LastCompletionDate.IsZero() && SameCalendarDay(r.LastCompletionDate, completedAt) {
		updated.TotalCompletions++
		return updated
	}

	if !r.LastCompletionDate.IsZero() && SameCalendarDay(r.LastCompletionDate.AddDate(0, 0, 1), completedAt) {
		updated.CurrentStreak++
	} else {
		updated.CurrentStreak = 1
		updated.CurrentStreakStartDate = completedAt
	}

	if updated.CurrentStreak > updated.LongestStreak {
		updated.LongestStreak = updated.CurrentStreak
	}
	updated.LastCompletionDate = completedAt
	updated.TotalCompletions++
	return updated
}

// SameCalendarDay reports whether two instants fall on the same local
// calendar day.
func SameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
