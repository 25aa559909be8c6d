package entities

import "time"

// ResponseType selects which group of templates a response is rendered from.
type ResponseType string

const (
	ResponseHabitCompleted ResponseType = "habit_completed"
	ResponseStreakUpdate   ResponseType = "streak_update"
	ResponseHabitStatus    ResponseType = "habit_status"
	ResponseHelp           ResponseType = "help"
	ResponseUnknown        ResponseType = "unknown"
	ResponseError          ResponseType = "error"
)

// ResponseContext carries everything needed to select and render one
// response: the response type, a variable bag and the moment the response
// is being generated.
type ResponseContext struct {
	Type      ResponseType           `json:"type"`
	Variables map[string]interface{} `json:"variables"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewResponseContext builds a context timestamped now.
func NewResponseContext(responseType ResponseType, variables map[string]interface{}) ResponseContext {
	if variables == nil {
		variables = make(map[string]interface{})
	}
	return ResponseContext{
		Type:      responseType,
		Variables: variables,
		Timestamp: time.Now(),
	}
}
