package entities

// CommandType identifies the intent classified from an utterance.
type CommandType string

const (
	CommandCompleteHabit CommandType = "complete_habit"
	CommandCheckStreak   CommandType = "check_streak"
	CommandHabitStatus   CommandType = "habit_status"
	CommandHelp          CommandType = "help"
	CommandUnknown       CommandType = "unknown"
)

// Parameter keys attached to parsed commands.
const (
	ParamAction      = "action"
	ParamQuery       = "query"
	ParamTopic       = "topic"
	ParamReason      = "reason"
	ParamTimeContext = "time_context"
	ParamTimeOfDay   = "time_of_day"
)

// Command is a classified intent with its extracted parameters and a
// confidence score in [0, 1]. CommandUnknown always carries confidence 0.
type Command struct {
	Type         CommandType            `json:"type"`
	OriginalText string                 `json:"original_text"`
	Parameters   map[string]interface{} `json:"parameters"`
	Confidence   float64                `json:"confidence"`
}
