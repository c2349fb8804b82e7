package timeutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/wakephrase/wakephrase/internal/constants"
)

// ErrMalformedTime is returned when a clock string does not parse as HH:MM.
var ErrMalformedTime = errors.New("malformed time")

// ParseClock parses a 24-hour "HH:MM" string into its hour and minute parts.
// Both fields must be zero-padded; time.Parse alone would accept "7:30".
func ParseClock(s string) (hour, minute int, err error) {
	t, perr := time.Parse(constants.TimeFormat, s)
	if perr != nil || len(s) != len(constants.TimeFormat) {
		return 0, 0, fmt.Errorf("%w: %q (expected HH:MM)", ErrMalformedTime, s)
	}
	return t.Hour(), t.Minute(), nil
}

// MinutesSinceMidnight converts a wall-clock time-of-day to minutes from midnight.
func MinutesSinceMidnight(hour, minute int) int {
	return hour*60 + minute
}

// DaysUntilWeekday returns how many days from today until the target weekday,
// in [0,6]. Zero means the target is today.
func DaysUntilWeekday(today, target time.Weekday) int {
	return (int(target) - int(today) + 7) % 7
}

// FormatDisplay renders a time-of-day on a 12-hour clock with AM/PM.
func FormatDisplay(hour, minute int) string {
	t := time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
	return t.Format(constants.DisplayTimeFormat)
}

// NextOccurrenceOf returns the next instant at which the given time-of-day
// occurs: today if it is still in the future, otherwise tomorrow.
func NextOccurrenceOf(now time.Time, hour, minute int) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}
