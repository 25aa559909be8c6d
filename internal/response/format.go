package response

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/aryasatya/momentum/domain/entities"
)

// FormatValue renders a variable value into speech-friendly text.
//
// Dates within a week of now render relatively ("today", "yesterday",
// "3 days ago"), older ones as D/M/Y. Durations use their largest nonzero
// unit with correct pluralization. Integers render verbatim; non-integral
// floats to one decimal place.
func FormatValue(value interface{}, now time.Time) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return formatDate(v, now)
	case time.Duration:
		return formatDuration(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatDate(t, now time.Time) string {
	if entities.SameCalendarDay(t, now) {
		return "today"
	}
	if entities.SameCalendarDay(t.AddDate(0, 0, 1), now) {
		return "yesterday"
	}

	days := calendarDaysBetween(t, now)
	if days > 1 && days < 7 {
		return fmt.Sprintf("%d days ago", days)
	}
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// calendarDaysBetween counts midnight boundaries from t up to now.
func calendarDaysBetween(t, now time.Time) int {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	start := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	end := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	switch {
	case d >= 24*time.Hour:
		return pluralize(int(d.Hours())/24, "day")
	case d >= time.Hour:
		return pluralize(int(d.Hours()), "hour")
	case d >= time.Minute:
		return pluralize(int(d.Minutes()), "minute")
	default:
		return pluralize(int(d.Seconds()), "second")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}
