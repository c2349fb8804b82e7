package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/timers"
)

// fakeRegistry records every registration so tests can assert what the engine
// derived from an alarm.
type fakeRegistry struct {
	next      int
	onceAt    map[string]time.Time
	oncePay   map[string]timers.Payload
	weekly    map[string]weeklyReg
	cancelled []string
	fail      bool
}

type weeklyReg struct {
	hour, minute int
	day          time.Weekday
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		onceAt:  make(map[string]time.Time),
		oncePay: make(map[string]timers.Payload),
		weekly:  make(map[string]weeklyReg),
	}
}

func (f *fakeRegistry) handle() string {
	f.next++
	return fmt.Sprintf("h%d", f.next)
}

func (f *fakeRegistry) ScheduleOnce(at time.Time, p timers.Payload) (string, error) {
	if f.fail {
		return "", errors.New("substrate down")
	}
	h := f.handle()
	f.onceAt[h] = at
	f.oncePay[h] = p
	return h, nil
}

func (f *fakeRegistry) ScheduleWeekly(hour, minute int, day time.Weekday, p timers.Payload) (string, error) {
	if f.fail {
		return "", errors.New("substrate down")
	}
	h := f.handle()
	f.weekly[h] = weeklyReg{hour: hour, minute: minute, day: day}
	return h, nil
}

func (f *fakeRegistry) Cancel(handle string) {
	f.cancelled = append(f.cancelled, handle)
	delete(f.onceAt, handle)
	delete(f.weekly, handle)
}

func (f *fakeRegistry) Events() <-chan timers.Fired { return nil }
func (f *fakeRegistry) Close()                      {}

// live returns the currently registered (day, hour, minute) triples.
func (f *fakeRegistry) live() map[weeklyReg]bool {
	out := make(map[weeklyReg]bool, len(f.weekly))
	for _, r := range f.weekly {
		out[r] = true
	}
	return out
}

var testNow = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) // a Monday

func testEngine() (*Engine, *fakeRegistry) {
	reg := newFakeRegistry()
	return NewAt(reg, func() time.Time { return testNow }), reg
}

func TestEngine_ReconcileWeekly(t *testing.T) {
	e, reg := testEngine()

	alarm := models.Alarm{
		ID:       "a1",
		Time:     "07:30",
		Days:     []string{"Mon", "Wed", "Fri"},
		IsActive: true,
	}
	alarm = e.Reconcile(alarm)

	if len(alarm.NotificationIDs) != 3 {
		t.Fatalf("got %d registrations, want 3", len(alarm.NotificationIDs))
	}
	want := map[weeklyReg]bool{
		{7, 30, time.Monday}:    true,
		{7, 30, time.Wednesday}: true,
		{7, 30, time.Friday}:    true,
	}
	got := reg.live()
	for r := range want {
		if !got[r] {
			t.Errorf("missing registration %+v", r)
		}
	}
}

func TestEngine_ReconcileDuplicateDays(t *testing.T) {
	e, _ := testEngine()

	alarm := models.Alarm{
		ID:       "a1",
		Time:     "07:30",
		Days:     []string{"Mon", "mon", "Monday"},
		IsActive: true,
	}
	alarm = e.Reconcile(alarm)

	if len(alarm.NotificationIDs) != 1 {
		t.Errorf("got %d registrations for duplicated day, want 1", len(alarm.NotificationIDs))
	}
}

func TestEngine_ReconcileInactive(t *testing.T) {
	e, reg := testEngine()

	alarm := models.Alarm{
		ID:              "a1",
		Time:            "07:30",
		Days:            []string{"Mon"},
		IsActive:        false,
		NotificationIDs: []string{"stale1", "stale2"},
	}
	alarm = e.Reconcile(alarm)

	if len(alarm.NotificationIDs) != 0 {
		t.Errorf("inactive alarm kept %d registrations, want 0", len(alarm.NotificationIDs))
	}
	if len(reg.cancelled) != 2 {
		t.Errorf("cancelled %d handles, want 2", len(reg.cancelled))
	}
}

func TestEngine_ReconcileIdempotent(t *testing.T) {
	e, reg := testEngine()

	alarm := models.Alarm{
		ID:       "a1",
		Time:     "07:30",
		Days:     []string{"Mon", "Wed"},
		IsActive: true,
	}
	alarm = e.Reconcile(alarm)
	first := reg.live()

	alarm = e.Reconcile(alarm)
	second := reg.live()

	if len(alarm.NotificationIDs) != 2 {
		t.Fatalf("got %d registrations after double reconcile, want 2", len(alarm.NotificationIDs))
	}
	if len(second) != len(first) {
		t.Fatalf("live registrations changed: %d -> %d", len(first), len(second))
	}
	for r := range first {
		if !second[r] {
			t.Errorf("registration %+v lost on second reconcile", r)
		}
	}
}

func TestEngine_ReconcileOneShot(t *testing.T) {
	tests := []struct {
		name string
		time string
		want time.Time
	}{
		{
			name: "later today",
			time: "10:00",
			want: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "already passed rolls to tomorrow",
			time: "08:00",
			want: time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, reg := testEngine()
			alarm := e.Reconcile(models.Alarm{ID: "a1", Time: tt.time, IsActive: true})

			if len(alarm.NotificationIDs) != 1 {
				t.Fatalf("got %d registrations, want 1", len(alarm.NotificationIDs))
			}
			at := reg.onceAt[alarm.NotificationIDs[0]]
			if !at.Equal(tt.want) {
				t.Errorf("scheduled at %v, want %v", at, tt.want)
			}
		})
	}
}

func TestEngine_ReconcileMalformedTime(t *testing.T) {
	e, _ := testEngine()

	alarm := e.Reconcile(models.Alarm{ID: "a1", Time: "25:99", IsActive: true})
	if len(alarm.NotificationIDs) != 0 {
		t.Errorf("malformed time produced %d registrations, want 0", len(alarm.NotificationIDs))
	}
}

func TestEngine_ReconcileRegistrationFailure(t *testing.T) {
	reg := newFakeRegistry()
	reg.fail = true
	e := NewAt(reg, func() time.Time { return testNow })

	alarm := e.Reconcile(models.Alarm{
		ID: "a1", Time: "07:30", Days: []string{"Mon", "Wed"}, IsActive: true,
	})

	// Failures degrade to fewer handles, never to an error
	if len(alarm.NotificationIDs) != 0 {
		t.Errorf("got %d registrations from a failing substrate, want 0", len(alarm.NotificationIDs))
	}
}

func TestEngine_ScheduleSnooze(t *testing.T) {
	e, reg := testEngine()

	alarm := models.Alarm{ID: "a1", Time: "07:30", NotificationIDs: []string{"keep"}}
	handle := e.ScheduleSnooze(alarm)

	if handle == "" {
		t.Fatal("ScheduleSnooze() returned empty handle")
	}
	wantAt := testNow.Add(constants.SnoozeDelay)
	if at := reg.onceAt[handle]; !at.Equal(wantAt) {
		t.Errorf("snooze scheduled at %v, want %v", at, wantAt)
	}
	p := reg.oncePay[handle]
	if p.AlarmID != "a1" || !p.Snoozed {
		t.Errorf("snooze payload = %+v, want alarm a1 with snoozed set", p)
	}
	// The snooze handle is session-scoped and never lands on the alarm
	if len(alarm.NotificationIDs) != 1 || alarm.NotificationIDs[0] != "keep" {
		t.Errorf("alarm registrations changed: %v", alarm.NotificationIDs)
	}
}

func TestEngine_ScheduleSnoozeFailure(t *testing.T) {
	reg := newFakeRegistry()
	reg.fail = true
	e := NewAt(reg, func() time.Time { return testNow })

	if handle := e.ScheduleSnooze(models.Alarm{ID: "a1"}); handle != "" {
		t.Errorf("ScheduleSnooze() = %q, want empty handle on failure", handle)
	}
}
