package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Layouts for calendar keys
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// DayWindow returns [local midnight, next local midnight) of the calendar day containing t in loc.
// The end is computed by calendar arithmetic so DST days are 23 or 25 hours long.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// DayKey formats t as YYYY-MM-DD in loc
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// MonthKey formats t as YYYY-MM in loc
func MonthKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(MonthLayout)
}

// LastNDays returns the day keys of the n days ending with today, oldest first
func LastNDays(now time.Time, n int, loc *time.Location) []string {
	start, _ := DayWindow(now, loc)
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, start.AddDate(0, 0, -i).Format(DayLayout))
	}
	return keys
}

// ParseDate accepts YYYY-MM-DD or RFC3339; a bare date is midnight UTC
func ParseDate(value string) (time.Time, error) {
	return ParseDateIn(value, time.UTC)
}

// ParseDateIn accepts YYYY-MM-DD, read as local midnight in loc, or RFC3339
func ParseDateIn(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DayLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
