package engine

import (
	"fmt"

	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/timeutil"
)

// NextOccurrence reports the globally next-firing alarm across the set as a
// display string. Candidates are compared by (days until firing, minutes since
// midnight); ties keep the earlier alarm in input order.
//
// A one-shot alarm whose time already passed today counts as tomorrow, the
// same roll-over its registration gets.
func (e *Engine) NextOccurrence(list []models.Alarm) string {
	if len(list) == 0 {
		return "No alarms set"
	}

	active := make([]models.Alarm, 0, len(list))
	for _, a := range list {
		if a.IsActive {
			active = append(active, a)
		}
	}
	if len(active) == 0 {
		return "No active alarms"
	}

	now := e.now()
	today := now.Weekday()
	nowMinutes := timeutil.MinutesSinceMidnight(now.Hour(), now.Minute())

	const noCandidate = 8
	bestDays := noCandidate
	bestMinutes := 0
	bestHour, bestMinute := 0, 0
	found := false

	consider := func(days, minutes, hour, minute int) {
		if days < bestDays || (days == bestDays && minutes < bestMinutes) {
			bestDays, bestMinutes = days, minutes
			bestHour, bestMinute = hour, minute
			found = true
		}
	}

	for _, a := range active {
		hour, minute, err := timeutil.ParseClock(a.Time)
		if err != nil {
			continue
		}
		m := timeutil.MinutesSinceMidnight(hour, minute)

		if a.IsOneShot() {
			if m > nowMinutes {
				consider(0, m, hour, minute)
			} else {
				consider(1, m, hour, minute)
			}
			continue
		}

		for _, wd := range a.Weekdays() {
			days := timeutil.DaysUntilWeekday(today, wd)
			if days == 0 && m <= nowMinutes {
				days = 7
			}
			consider(days, m, hour, minute)
		}
	}

	if !found {
		return "No upcoming alarms"
	}

	when := ""
	switch bestDays {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	default:
		when = "on " + now.AddDate(0, 0, bestDays).Weekday().String()
	}
	return fmt.Sprintf("Next alarm %s at %s", when, timeutil.FormatDisplay(bestHour, bestMinute))
}
