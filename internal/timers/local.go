package timers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wakephrase/wakephrase/internal/logger"
	"github.com/wakephrase/wakephrase/internal/timeutil"
)

// eventBuffer bounds how many undelivered firings we hold before dropping.
const eventBuffer = 16

type registration struct {
	timer  *time.Timer
	weekly bool
}

// Local is an in-process timer substrate backed by the Go runtime. Weekly
// registrations re-arm themselves after each firing and keep their handle.
type Local struct {
	mu     sync.Mutex
	regs   map[string]*registration
	events chan Fired
	now    func() time.Time
	closed bool
}

func NewLocal() *Local {
	return &Local{
		regs:   make(map[string]*registration),
		events: make(chan Fired, eventBuffer),
		now:    time.Now,
	}
}

// NewLocalAt creates a registry with an injected clock, used by tests.
func NewLocalAt(now func() time.Time) *Local {
	l := NewLocal()
	l.now = now
	return l
}

func (l *Local) ScheduleOnce(at time.Time, p Payload) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return "", ErrSchedulingUnavailable
	}
	handle := uuid.New().String()
	l.arm(handle, at, p, false)
	return handle, nil
}

func (l *Local) ScheduleWeekly(hour, minute int, day time.Weekday, p Payload) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return "", ErrSchedulingUnavailable
	}
	handle := uuid.New().String()
	l.arm(handle, l.nextWeekly(hour, minute, day), p, true)
	return handle, nil
}

// nextWeekly computes the next instant the given local time occurs on the
// given weekday. A same-day time that already passed rolls to next week.
func (l *Local) nextWeekly(hour, minute int, day time.Weekday) time.Time {
	now := l.now()
	days := timeutil.DaysUntilWeekday(now.Weekday(), day)
	at := time.Date(now.Year(), now.Month(), now.Day()+days, hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 7)
	}
	return at
}

// arm must be called with the lock held.
func (l *Local) arm(handle string, at time.Time, p Payload, weekly bool) {
	d := at.Sub(l.now())
	if d < 0 {
		d = 0
	}
	reg := &registration{weekly: weekly}
	reg.timer = time.AfterFunc(d, func() {
		l.fire(handle, p, at)
	})
	l.regs[handle] = reg
}

func (l *Local) fire(handle string, p Payload, at time.Time) {
	l.mu.Lock()
	reg, live := l.regs[handle]
	if !live || l.closed {
		l.mu.Unlock()
		return
	}
	if reg.weekly {
		l.arm(handle, at.AddDate(0, 0, 7), p, true)
	} else {
		delete(l.regs, handle)
	}

	// Deliver without blocking; the lock also fences Close from closing the
	// channel mid-send.
	select {
	case l.events <- Fired{Payload: p, Handle: handle, At: at}:
	default:
		logger.Warn("Dropping timer event, consumer not keeping up", "alarm", p.AlarmID)
	}
	l.mu.Unlock()
}

func (l *Local) Cancel(handle string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if reg, ok := l.regs[handle]; ok {
		reg.timer.Stop()
		delete(l.regs, handle)
	}
}

func (l *Local) Events() <-chan Fired {
	return l.events
}

func (l *Local) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for h, reg := range l.regs {
		reg.timer.Stop()
		delete(l.regs, h)
	}
	close(l.events)
}
