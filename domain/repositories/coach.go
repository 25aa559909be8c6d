package repositories

import "context"

// Encourager produces a short spoken encouragement line for a habit
// completion. It is strictly best-effort: callers ignore failures and fall
// back to template-only responses.
type Encourager interface {
	Encouragement(ctx context.Context, habitName string, currentStreak int) (string, error)
}
