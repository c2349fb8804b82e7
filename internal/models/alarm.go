package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/timeutil"
)

// dayTokens is the fixed weekday enumeration used on the wire and in storage.
var dayTokens = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// ParseDay resolves a weekday token (Mon..Sun, case-insensitive on the first
// letter casing users actually type) to a time.Weekday.
func ParseDay(token string) (time.Weekday, error) {
	if wd, ok := dayTokens[token]; ok {
		return wd, nil
	}
	// Tolerate lowercase/long forms from the CLI
	norm := strings.ToLower(strings.TrimSpace(token))
	if len(norm) >= 3 {
		norm = strings.ToUpper(norm[:1]) + norm[1:3]
		if wd, ok := dayTokens[norm]; ok {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %q", token)
}

// DayToken returns the canonical token for a weekday.
func DayToken(wd time.Weekday) string {
	return wd.String()[:3]
}

// Alarm is a user-defined wake schedule. An empty Days set means one-shot:
// the alarm fires once at the next occurrence of Time.
type Alarm struct {
	ID              string   `json:"id"`
	Time            string   `json:"time"` // HH:MM format
	Label           string   `json:"label"`
	Days            []string `json:"days"`
	IsActive        bool     `json:"isActive"`
	Sound           string   `json:"sound,omitempty"`
	NotificationIDs []string `json:"notificationIds"`
}

// UnmarshalJSON treats a missing isActive field as true, matching records
// written before the flag existed.
func (a *Alarm) UnmarshalJSON(data []byte) error {
	type alias Alarm
	aux := struct {
		IsActive *bool `json:"isActive"`
		*alias
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.IsActive == nil {
		a.IsActive = true
	} else {
		a.IsActive = *aux.IsActive
	}
	return nil
}

func (a *Alarm) Validate() error {
	if a.Time == "" {
		return fmt.Errorf("alarm time cannot be empty")
	}
	if _, _, err := timeutil.ParseClock(a.Time); err != nil {
		return err
	}
	for _, d := range a.Days {
		if _, err := ParseDay(d); err != nil {
			return err
		}
	}
	return nil
}

// Normalize fills the field defaults applied to every loaded record: a fresh
// id when missing, the default label, and non-nil slices.
func (a *Alarm) Normalize() {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Label == "" {
		a.Label = constants.DefaultAlarmLabel
	}
	if a.Days == nil {
		a.Days = []string{}
	}
	if a.NotificationIDs == nil {
		a.NotificationIDs = []string{}
	}
}

// IsOneShot reports whether the alarm fires once rather than weekly.
func (a *Alarm) IsOneShot() bool {
	return len(a.Days) == 0
}

// Weekdays returns the distinct selected weekdays in input order.
// Invalid tokens are skipped; Validate catches them before save.
func (a *Alarm) Weekdays() []time.Weekday {
	seen := make(map[time.Weekday]bool, len(a.Days))
	out := make([]time.Weekday, 0, len(a.Days))
	for _, d := range a.Days {
		wd, err := ParseDay(d)
		if err != nil || seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, wd)
	}
	return out
}

// FormatDays returns a human-readable description of the alarm's schedule.
func (a *Alarm) FormatDays() string {
	if a.IsOneShot() {
		return "Once"
	}
	tokens := make([]string, 0, len(a.Days))
	for _, wd := range a.Weekdays() {
		tokens = append(tokens, DayToken(wd))
	}
	return strings.Join(tokens, ", ")
}
