package engine

import (
	"time"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/logger"
	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/timers"
	"github.com/wakephrase/wakephrase/internal/timeutil"
)

// Engine translates declarative alarm definitions into timer registrations
// and computes what fires next across the whole alarm set.
type Engine struct {
	registry timers.Registry
	now      func() time.Time
}

func New(registry timers.Registry) *Engine {
	return &Engine{registry: registry, now: time.Now}
}

// NewAt creates an engine with an injected clock, used by tests.
func NewAt(registry timers.Registry, now func() time.Time) *Engine {
	return &Engine{registry: registry, now: now}
}

// Reconcile regenerates the alarm's timer registrations from its current
// fields. It always cancels first and re-derives rather than diffing, which
// makes it idempotent under repeated or out-of-order invocation. Registration
// failures degrade to fewer handles; an active alarm with zero handles simply
// never fires until re-saved on a capable surface.
func (e *Engine) Reconcile(alarm models.Alarm) models.Alarm {
	e.CancelAll(alarm)
	alarm.NotificationIDs = []string{}

	if !alarm.IsActive {
		return alarm
	}

	hour, minute, err := timeutil.ParseClock(alarm.Time)
	if err != nil {
		logger.Error("Cannot schedule alarm with malformed time", "alarm", alarm.ID, "time", alarm.Time)
		return alarm
	}

	payload := timers.Payload{AlarmID: alarm.ID}

	if alarm.IsOneShot() {
		at := timeutil.NextOccurrenceOf(e.now(), hour, minute)
		handle, err := e.registry.ScheduleOnce(at, payload)
		if err != nil {
			logger.Warn("One-shot registration failed", "alarm", alarm.ID, "error", err)
		} else if handle != "" {
			alarm.NotificationIDs = append(alarm.NotificationIDs, handle)
		}
		return alarm
	}

	for _, wd := range alarm.Weekdays() {
		handle, err := e.registry.ScheduleWeekly(hour, minute, wd, payload)
		if err != nil {
			logger.Warn("Weekly registration failed", "alarm", alarm.ID, "day", wd, "error", err)
			continue
		}
		if handle != "" {
			alarm.NotificationIDs = append(alarm.NotificationIDs, handle)
		}
	}
	return alarm
}

// CancelAll cancels every live registration the alarm holds.
func (e *Engine) CancelAll(alarm models.Alarm) {
	for _, handle := range alarm.NotificationIDs {
		e.registry.Cancel(handle)
	}
}

// ScheduleSnooze registers a single one-shot repeat of the alarm a short
// delay from now. The handle is session-scoped and never stored on the alarm.
// Returns "" on failure; a missed snooze must not break ring resolution.
func (e *Engine) ScheduleSnooze(alarm models.Alarm) string {
	at := e.now().Add(constants.SnoozeDelay)
	handle, err := e.registry.ScheduleOnce(at, timers.Payload{AlarmID: alarm.ID, Snoozed: true})
	if err != nil {
		logger.Warn("Snooze registration failed", "alarm", alarm.ID, "error", err)
		return ""
	}
	logger.Debug("Snooze scheduled", "alarm", alarm.ID, "at", at)
	return handle
}
