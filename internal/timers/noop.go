package timers

import "time"

// Noop is the registry for surfaces with no background timer delivery. Every
// schedule call succeeds with zero handles; callers must treat an empty handle
// as a valid outcome, not an error.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (Noop) ScheduleOnce(time.Time, Payload) (string, error) { return "", nil }

func (Noop) ScheduleWeekly(int, int, time.Weekday, Payload) (string, error) { return "", nil }

func (Noop) Cancel(string) {}

// Events returns nil: receives block forever, which is the correct shape for a
// surface that never fires.
func (Noop) Events() <-chan Fired { return nil }

func (Noop) Close() {}
