package ring

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/logger"
	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/sound"
	"github.com/wakephrase/wakephrase/internal/timers"
)

// Phase is the ring state machine position.
type Phase int

const (
	Idle Phase = iota
	Ringing
	AwaitingChallenge
)

// ErrPhraseMismatch is returned by SubmitChallenge when the typed input does
// not match the challenge phrase. The session stays in AwaitingChallenge; the
// user may retry.
var ErrPhraseMismatch = errors.New("incorrect phrase")

// ErrNoSession is returned when an action is requested while nothing rings.
var ErrNoSession = errors.New("no alarm is ringing")

// Store is the alarm lookup surface the controller resolves firings against.
type Store interface {
	Find(id string) (models.Alarm, bool)
	Load(ctx context.Context) ([]models.Alarm, error)
}

// Snoozer schedules the one-shot snooze repeat on resolution.
type Snoozer interface {
	ScheduleSnooze(alarm models.Alarm) string
}

// PhraseGenerator produces the challenge phrase for a ring action.
type PhraseGenerator interface {
	GeneratePhrase(ctx context.Context, action constants.Action) (string, error)
}

// Attention is the non-audio attention channel driven while ringing (desktop
// notification, terminal bell). Failures are log-and-continue.
type Attention interface {
	Start(alarm models.Alarm) error
	Stop() error
}

// NoopAttention is used where no attention channel exists.
type NoopAttention struct{}

func (NoopAttention) Start(models.Alarm) error { return nil }
func (NoopAttention) Stop() error              { return nil }

// Session is the ephemeral state of one ringing alarm. The alarm is held by
// value so the session survives the alarm being deleted mid-ring.
type Session struct {
	Alarm  models.Alarm
	Phase  Phase
	Action constants.Action
	Phrase string
}

// Controller drives the lifecycle of a ringing alarm: resolve the fired
// payload to an alarm, ring, run the dismiss/snooze challenge, and guarantee
// everything is stopped on every exit path.
type Controller struct {
	mu        sync.Mutex
	store     Store
	snoozer   Snoozer
	sound     *sound.Controller
	phrases   PhraseGenerator
	attention Attention
	session   *Session
}

func NewController(store Store, snoozer Snoozer, snd *sound.Controller, phrases PhraseGenerator, attention Attention) *Controller {
	if attention == nil {
		attention = NoopAttention{}
	}
	return &Controller{
		store:     store,
		snoozer:   snoozer,
		sound:     snd,
		phrases:   phrases,
		attention: attention,
	}
}

// HandleFired resolves a fired-timer payload and starts ringing. If the alarm
// is not in memory the store is re-fetched once; an unresolvable payload is
// logged and dropped. Returns the session when ringing began.
func (c *Controller) HandleFired(ctx context.Context, p timers.Payload) (*Session, bool) {
	alarm, ok := c.store.Find(p.AlarmID)
	if !ok {
		if _, err := c.store.Load(ctx); err != nil {
			logger.Warn("Alarm refresh after lookup miss failed", "error", err)
		}
		alarm, ok = c.store.Find(p.AlarmID)
	}
	if !ok {
		logger.Warn("No matching alarm for fired timer, dropping", "alarm", p.AlarmID)
		return nil, false
	}

	c.mu.Lock()
	c.session = &Session{Alarm: alarm, Phase: Ringing}
	c.mu.Unlock()

	if err := c.attention.Start(alarm); err != nil {
		logger.Warn("Attention channel failed to start", "error", err)
	}
	if err := c.sound.Play(alarm.Sound); err != nil {
		logger.Warn("Alarm tone failed to start", "alarm", alarm.ID, "error", err)
	}

	logger.Info("Alarm ringing", "alarm", alarm.ID, "label", alarm.Label, "snoozed", p.Snoozed)
	return c.Session(), true
}

// RequestAction starts the challenge flow for dismiss or snooze. When the
// phrase generator fails the action resolves immediately: a remote failure
// must never block the user from silencing an alarm.
func (c *Controller) RequestAction(ctx context.Context, action constants.Action) (string, bool, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return "", false, ErrNoSession
	}
	c.mu.Unlock()

	phrase, err := c.phrases.GeneratePhrase(ctx, action)
	if err != nil {
		logger.Warn("Phrase generation failed, resolving without challenge", "action", action, "error", err)
		c.resolve(action)
		return "", false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The session may have resolved while the generator ran.
	if c.session == nil {
		return "", false, ErrNoSession
	}
	c.session.Phase = AwaitingChallenge
	c.session.Action = action
	c.session.Phrase = phrase
	return phrase, true, nil
}

// SubmitChallenge checks the typed input against the challenge phrase,
// ignoring case and surrounding whitespace. A match resolves the pending
// action; a mismatch keeps the session unchanged and returns a retryable
// error.
func (c *Controller) SubmitChallenge(input string) error {
	c.mu.Lock()
	if c.session == nil || c.session.Phase != AwaitingChallenge {
		c.mu.Unlock()
		return ErrNoSession
	}
	want := strings.ToLower(strings.TrimSpace(c.session.Phrase))
	got := strings.ToLower(strings.TrimSpace(input))
	action := c.session.Action
	c.mu.Unlock()

	if got != want {
		return ErrPhraseMismatch
	}
	c.resolve(action)
	return nil
}

// resolve performs the exit steps for an action. Each step runs independently
// of the others' failures so a ringing alarm can never get permanently stuck.
func (c *Controller) resolve(action constants.Action) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return
	}

	c.sound.Stop()

	if err := c.attention.Stop(); err != nil {
		logger.Warn("Attention channel failed to stop", "error", err)
	}

	if action == constants.ActionSnooze {
		if handle := c.snoozer.ScheduleSnooze(session.Alarm); handle == "" {
			logger.Warn("Snooze not scheduled", "alarm", session.Alarm.ID)
		}
	}

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	logger.Info("Ring resolved", "alarm", session.Alarm.ID, "action", action)
}

// Phase returns the current state machine position.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Idle
	}
	return c.session.Phase
}

// Session returns a copy of the active session, or nil when idle.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}
