package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aryasatya/momentum/domain/entities"
)

func TestGetStreakRecordMissingReturnsInitial(t *testing.T) {
	repo := NewHabitRepository()

	record, err := repo.GetStreakRecord(context.Background(), "habit-1")
	if err != nil {
		t.Fatalf("Missing record must not be an error, got %v", err)
	}
	if record.HabitID != "habit-1" {
		t.Errorf("Expected habit ID habit-1, got %s", record.HabitID)
	}
	if record.CurrentStreak != 0 || record.TotalCompletions != 0 {
		t.Errorf("Expected zeroed initial record, got %+v", record)
	}
}

func TestUpdateAndReloadStreakRecord(t *testing.T) {
	repo := NewHabitRepository()
	ctx := context.Background()
	now := time.Now()

	record := entities.NewStreakRecord("habit-1").UpdateWithCompletion(now, now)
	if err := repo.UpdateStreakRecord(ctx, record); err != nil {
		t.Fatalf("UpdateStreakRecord failed: %v", err)
	}

	loaded, err := repo.GetStreakRecord(ctx, "habit-1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.CurrentStreak != 1 || loaded.TotalCompletions != 1 {
		t.Errorf("Expected reloaded record to match update, got %+v", loaded)
	}
}

func TestGetCompletionsFiltering(t *testing.T) {
	repo := NewHabitRepository()
	ctx := context.Background()
	now := time.Now()

	inRange := entities.NewCompletion("habit-1", "workout", now.Add(-time.Hour), entities.CompletionSourceVoice)
	outOfRange := entities.NewCompletion("habit-1", "workout", now.AddDate(0, 0, -3), entities.CompletionSourceVoice)
	otherHabit := entities.NewCompletion("habit-2", "reading", now.Add(-time.Minute), entities.CompletionSourceManual)

	for _, c := range []entities.Completion{inRange, outOfRange, otherHabit} {
		if err := repo.SaveCompletion(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	completions, err := repo.GetCompletions(ctx, now.Add(-2*time.Hour), now, "habit-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(completions) != 1 {
		t.Fatalf("Expected 1 completion in range for habit-1, got %d", len(completions))
	}
	if completions[0].ID != inRange.ID {
		t.Errorf("Expected completion %s, got %s", inRange.ID, completions[0].ID)
	}

	all, err := repo.GetCompletions(ctx, now.AddDate(0, 0, -7), now, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("Empty habit filter must match all habits, got %d", len(all))
	}
}
