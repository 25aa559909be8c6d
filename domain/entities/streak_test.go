package entities

import (
	"testing"
	"time"
)

func TestNewStreakRecord(t *testing.T) {
	record := NewStreakRecord("habit-1")

	if record.HabitID != "habit-1" {
		t.Errorf("Expected habit ID habit-1, got %s", record.HabitID)
	}
	if record.CurrentStreak != 0 || record.LongestStreak != 0 || record.TotalCompletions != 0 {
		t.Errorf("Expected zeroed counters, got %+v", record)
	}
	if !record.LastCompletionDate.IsZero() {
		t.Error("Expected zero last completion date on a fresh record")
	}
	if record.LastUpdated.IsZero() {
		t.Error("Expected LastUpdated to be stamped at creation")
	}
}

func TestUpdateWithCompletionFirstEver(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	record := NewStreakRecord("habit-1")

	updated := record.UpdateWithCompletion(now, now)

	if updated.CurrentStreak != 1 {
		t.Errorf("Expected streak 1, got %d", updated.CurrentStreak)
	}
	if updated.LongestStreak != 1 {
		t.Errorf("Expected longest streak 1, got %d", updated.LongestStreak)
	}
	if updated.TotalCompletions != 1 {
		t.Errorf("Expected 1 completion, got %d", updated.TotalCompletions)
	}
	if !updated.CurrentStreakStartDate.Equal(now) {
		t.Errorf("Expected streak start %v, got %v", now, updated.CurrentStreakStartDate)
	}
	if record.CurrentStreak != 0 {
		t.Error("UpdateWithCompletion must not modify the receiver")
	}
}

func TestUpdateWithCompletionConsecutiveDay(t *testing.T) {
	yesterday := time.Date(2025, 3, 9, 22, 30, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 6, 15, 0, 0, time.UTC)
	start := time.Date(2025, 3, 8, 7, 0, 0, 0, time.UTC)

	record := StreakRecord{
		HabitID:                "habit-1",
		CurrentStreak:          2,
		LongestStreak:          5,
		CurrentStreakStartDate: start,
		LastCompletionDate:     yesterday,
		TotalCompletions:       12,
	}

	updated := record.UpdateWithCompletion(today, today)

	if updated.CurrentStreak != 3 {
		t.Errorf("Expected streak 3, got %d", updated.CurrentStreak)
	}
	if updated.LongestStreak != 5 {
		t.Errorf("Expected longest streak to stay 5, got %d", updated.LongestStreak)
	}
	if !updated.LastCompletionDate.Equal(today) {
		t.Errorf("Expected last completion %v, got %v", today, updated.LastCompletionDate)
	}
	if updated.TotalCompletions != 13 {
		t.Errorf("Expected 13 completions, got %d", updated.TotalCompletions)
	}
	if !updated.CurrentStreakStartDate.Equal(start) {
		t.Error("Streak start date must not move when the streak continues")
	}
}

func TestUpdateWithCompletionExtendsLongestStreak(t *testing.T) {
	yesterday := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	record := StreakRecord{
		HabitID:            "habit-1",
		CurrentStreak:      5,
		LongestStreak:      5,
		LastCompletionDate: yesterday,
		TotalCompletions:   5,
	}

	updated := record.UpdateWithCompletion(today, today)

	if updated.CurrentStreak != 6 {
		t.Errorf("Expected streak 6, got %d", updated.CurrentStreak)
	}
	if updated.LongestStreak != 6 {
		t.Errorf("Expected longest streak to grow to 6, got %d", updated.LongestStreak)
	}
}

func TestUpdateWithCompletionSameDayRepeat(t *testing.T) {
	morning := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 21, 45, 0, 0, time.UTC)

	record := StreakRecord{
		HabitID:            "habit-1",
		CurrentStreak:      4,
		LongestStreak:      6,
		LastCompletionDate: morning,
		TotalCompletions:   20,
	}

	first := record.UpdateWithCompletion(evening, evening)
	second := first.UpdateWithCompletion(evening.Add(time.Hour), evening.Add(time.Hour))

	if first.CurrentStreak != 4 || second.CurrentStreak != 4 {
		t.Errorf("Same-day repeats must not move the streak, got %d then %d",
			first.CurrentStreak, second.CurrentStreak)
	}
	if first.TotalCompletions != 21 || second.TotalCompletions != 22 {
		t.Errorf("Expected completions 21 then 22, got %d then %d",
			first.TotalCompletions, second.TotalCompletions)
	}
	if !second.LastCompletionDate.Equal(morning) {
		t.Error("Same-day repeat must keep the original last completion date")
	}
}

func TestUpdateWithCompletionGapResetsStreak(t *testing.T) {
	lastWeek := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	record := StreakRecord{
		HabitID:                "habit-1",
		CurrentStreak:          9,
		LongestStreak:          9,
		CurrentStreakStartDate: lastWeek.AddDate(0, 0, -8),
		LastCompletionDate:     lastWeek,
		TotalCompletions:       30,
	}

	updated := record.UpdateWithCompletion(today, today)

	if updated.CurrentStreak != 1 {
		t.Errorf("Expected streak reset to 1, got %d", updated.CurrentStreak)
	}
	if updated.LongestStreak != 9 {
		t.Errorf("Expected longest streak preserved at 9, got %d", updated.LongestStreak)
	}
	if !updated.CurrentStreakStartDate.Equal(today) {
		t.Errorf("Expected streak start moved to %v, got %v", today, updated.CurrentStreakStartDate)
	}
	if updated.TotalCompletions != 31 {
		t.Errorf("Expected 31 completions, got %d", updated.TotalCompletions)
	}
}

func TestUpdateWithCompletionTwoDayGap(t *testing.T) {
	twoDaysAgo := time.Date(2025, 3, 8, 23, 59, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)

	record := StreakRecord{
		HabitID:            "habit-1",
		CurrentStreak:      3,
		LongestStreak:      4,
		LastCompletionDate: twoDaysAgo,
		TotalCompletions:   8,
	}

	updated := record.UpdateWithCompletion(today, today)

	if updated.CurrentStreak != 1 {
		t.Errorf("A two-day gap must reset the streak, got %d", updated.CurrentStreak)
	}
}

func TestCurrentStreakNeverExceedsLongest(t *testing.T) {
	record := NewStreakRecord("habit-1")
	day := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 30; i++ {
		record = record.UpdateWithCompletion(day, day)
		if record.CurrentStreak > record.LongestStreak {
			t.Fatalf("Invariant broken on day %d: current %d > longest %d",
				i, record.CurrentStreak, record.LongestStreak)
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC)
	b := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	c := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	if !SameCalendarDay(a, b) {
		t.Error("Expected same calendar day for two instants on 2025-03-10")
	}
	if SameCalendarDay(b, c) {
		t.Error("Midnight boundary must separate calendar days")
	}
}
