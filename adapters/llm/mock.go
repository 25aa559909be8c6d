package llm

import (
	"context"
	"fmt"

	"github.com/aryasatya/momentum/domain/repositories"
)

// MockEncourager returns canned encouragements, for development and tests.
type MockEncourager struct{}

var _ repositories.Encourager = (*MockEncourager)(nil)

// Encouragement returns a deterministic line based on the streak.
func (MockEncourager) Encouragement(ctx context.Context, habitName string, currentStreak int) (string, error) {
	if currentStreak <= 1 {
		return fmt.Sprintf("Great start on %s, keep it going!", habitName), nil
	}
	return fmt.Sprintf("That's %d days of %s in a row, impressive!", currentStreak, habitName), nil
}
