package api

import "time"

// DeviceAuthRequest is the payload for device authentication.
type DeviceAuthRequest struct {
	SerialNumber string `json:"serial_number"`
	SecretKey    string `json:"secret_key"`
}

// DeviceAuthResponse carries the issued token.
type DeviceAuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	DeviceID  string    `json:"device_id"`
	HabitID   string    `json:"habit_id"`
}

// StreakResponse reports the stored streak state for one habit.
type StreakResponse struct {
	HabitID          string     `json:"habit_id"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	TotalCompletions int        `json:"total_completions"`
	StreakStartDate  *time.Time `json:"streak_start_date,omitempty"`
	LastCompletedAt  *time.Time `json:"last_completed_at,omitempty"`
}

// CompletionResponse is one completion in a history listing.
type CompletionResponse struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	HabitName   string    `json:"habit_name"`
	CompletedAt time.Time `json:"completed_at"`
	Source      string    `json:"source"`
}

// CompletionsResponse is a completion history listing.
type CompletionsResponse struct {
	HabitID     string               `json:"habit_id"`
	Days        int                  `json:"days"`
	Completions []CompletionResponse `json:"completions"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
