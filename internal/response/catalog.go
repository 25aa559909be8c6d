package response

import "github.com/aryasatya/momentum/domain/entities"

// DefaultCatalog builds the static template catalog. The caller owns the
// returned value and hands it to NewEngine; nothing in this package keeps a
// global copy.
func DefaultCatalog() Catalog {
	return Catalog{
		entities.ResponseHabitCompleted: {
			{
				ID:           "habit_completed_cheer",
				Body:         "Great job on {{habit_name}}! {{#if current_streak}}That's {{current_streak}} days in a row.{{/if}} {{#if is_new_record}}A new personal record!{{/if}}",
				RequiredVars: []string{"habit_name"},
				OptionalVars: []string{"current_streak", "is_new_record"},
				Weight:       3,
			},
			{
				ID:           "habit_completed_simple",
				Body:         "Nice, {{habit_name}} is done for today. {{#if encouragement}}{{encouragement}}{{/if}}",
				RequiredVars: []string{"habit_name"},
				OptionalVars: []string{"encouragement"},
				Weight:       2,
			},
			{
				ID:           "habit_completed_streak",
				Body:         "{{habit_name}} logged! Your streak is now {{current_streak}}, with {{total_completions}} completions overall.",
				RequiredVars: []string{"habit_name", "current_streak", "total_completions"},
				Weight:       2,
			},
			{
				ID:           "habit_completed_again",
				Body:         "Logged another round of {{habit_name}} today. {{#unless is_new_record}}Keep pushing toward your record of {{longest_streak}}.{{/unless}}",
				RequiredVars: []string{"habit_name", "longest_streak"},
				OptionalVars: []string{"is_new_record"},
				Weight:       1,
			},
		},
		entities.ResponseStreakUpdate: {
			{
				ID:           "streak_update_current",
				Body:         "Your {{habit_name}} streak is {{current_streak}} days. {{#if streak_start}}It started {{streak_start}}.{{/if}}",
				RequiredVars: []string{"habit_name", "current_streak"},
				OptionalVars: []string{"streak_start"},
				Weight:       3,
			},
			{
				ID:           "streak_update_record",
				Body:         "You're at {{current_streak}} days of {{habit_name}}. Your best ever is {{longest_streak}}.",
				RequiredVars: []string{"habit_name", "current_streak", "longest_streak"},
				Weight:       2,
			},
			{
				ID:           "streak_update_fresh",
				Body:         "{{#unless current_streak}}No active streak for {{habit_name}} yet. Today is a good day to start one.{{/unless}}{{#if current_streak}}{{current_streak}} days and counting on {{habit_name}}.{{/if}}",
				RequiredVars: []string{"habit_name"},
				OptionalVars: []string{"current_streak"},
				Weight:       1,
			},
		},
		entities.ResponseHabitStatus: {
			{
				ID:           "habit_status_today",
				Body:         "{{#if completed_today}}You've already done {{habit_name}} today.{{/if}}{{#unless completed_today}}You haven't done {{habit_name}} yet today.{{/unless}}",
				RequiredVars: []string{"habit_name"},
				OptionalVars: []string{"completed_today"},
				Weight:       3,
			},
			{
				ID:           "habit_status_summary",
				Body:         "{{habit_name}}: streak {{current_streak}}, best {{longest_streak}}, last done {{last_completion}}.",
				RequiredVars: []string{"habit_name", "current_streak", "longest_streak", "last_completion"},
				Weight:       2,
			},
		},
		entities.ResponseHelp: {
			{
				ID:     "help_overview",
				Body:   "You can tell me when you're done, ask about your streak, or ask for your status.",
				Weight: 3,
			},
			{
				ID:     "help_examples",
				Body:   "Try saying \"I did it\", \"check my streak\", or \"what's my status\".",
				Weight: 2,
			},
		},
		entities.ResponseUnknown: {
			{
				ID:     "unknown_retry",
				Body:   "Sorry, I didn't catch that. You can say \"I did it\" or ask about your streak.",
				Weight: 3,
			},
			{
				ID:     "unknown_help_hint",
				Body:   "I'm not sure what you meant. Say \"help\" to hear what I understand.",
				Weight: 2,
			},
		},
		entities.ResponseError: {
			{
				ID:     "error_generic",
				Body:   "Sorry, something went wrong. Please try again.",
				Weight: 3,
			},
			{
				ID:     "error_retry",
				Body:   "I ran into a problem there. Give it another try in a moment.",
				Weight: 1,
			},
		},
	}
}
