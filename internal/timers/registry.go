package timers

import (
	"errors"
	"time"
)

// ErrSchedulingUnavailable is returned when the timer substrate cannot accept
// registrations (e.g. it has been shut down).
var ErrSchedulingUnavailable = errors.New("scheduling unavailable")

// Payload is the correlation record attached to every registration. AlarmID is
// the sole key used to resolve a firing back to an alarm.
type Payload struct {
	AlarmID string `json:"alarmId"`
	Snoozed bool   `json:"snoozed,omitempty"`
}

// Fired is a delivered timer event.
type Fired struct {
	Payload Payload
	Handle  string
	At      time.Time
}

// Registry schedules one-shot and weekly-repeating timers. Handles are opaque;
// Cancel of an unknown, fired, or already-cancelled handle is a no-op.
type Registry interface {
	ScheduleOnce(at time.Time, p Payload) (string, error)
	ScheduleWeekly(hour, minute int, day time.Weekday, p Payload) (string, error)
	Cancel(handle string)
	Events() <-chan Fired
	Close()
}
