package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wakephrase/wakephrase/internal/alarms"
	"github.com/wakephrase/wakephrase/internal/api"
	"github.com/wakephrase/wakephrase/internal/engine"
	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/session"
	"github.com/wakephrase/wakephrase/internal/sound"
	"github.com/wakephrase/wakephrase/internal/storage"
	"github.com/wakephrase/wakephrase/internal/timers"
)

// Context carries the wired application services into every command.
type Context struct {
	Local    storage.Provider
	Session  *session.Session
	API      *api.Client
	Registry timers.Registry
	Engine   *engine.Engine
	Store    *alarms.Store
	Sound    *sound.Controller
}

// ParseDays parses a comma-separated weekday list ("mon,wed,fri") into
// canonical tokens. An empty string yields an empty set: a one-shot alarm.
func ParseDays(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		wd, err := models.ParseDay(part)
		if err != nil {
			return nil, err
		}
		token := models.DayToken(wd)
		duplicate := false
		for _, t := range out {
			if t == token {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, token)
		}
	}
	return out, nil
}

// WarnIfRemote downgrades backend-sync failures to a printed warning: the
// local mutation already happened and there is no offline write queue, so the
// command itself still succeeds. Other errors pass through.
func WarnIfRemote(err error) error {
	if err == nil {
		return nil
	}
	var remote *api.RemoteError
	if errors.As(err, &remote) || errors.Is(err, session.ErrNotLoggedIn) {
		fmt.Printf("⚠ Saved locally only, backend sync failed: %v\n", err)
		return nil
	}
	return err
}

// ResolveAlarm finds an alarm by full id or unambiguous prefix.
func ResolveAlarm(ctx *Context, id string) (models.Alarm, error) {
	if alarm, ok := ctx.Store.Find(id); ok {
		return alarm, nil
	}

	var matches []models.Alarm
	for _, a := range ctx.Store.Alarms() {
		if strings.HasPrefix(a.ID, id) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Alarm{}, fmt.Errorf("alarm not found: %s", id)
	default:
		return models.Alarm{}, fmt.Errorf("alarm id %q is ambiguous (%d matches)", id, len(matches))
	}
}
