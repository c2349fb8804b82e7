package sound

import (
	"sync"

	"github.com/wakephrase/wakephrase/internal/logger"
)

// Player is a single playback of one tone. Play begins looped playback and
// returns immediately; Stop releases the underlying device.
type Player interface {
	Play() error
	Stop() error
}

// OpenFunc creates a Player for a tone reference. An empty ref selects the
// built-in default tone.
type OpenFunc func(toneRef string) (Player, error)

// Controller owns at most one concurrently playing alarm tone.
type Controller struct {
	mu      sync.Mutex
	open    OpenFunc
	current Player
}

func NewController(open OpenFunc) *Controller {
	return &Controller{open: open}
}

// Play stops any prior tone, then starts looping playback of toneRef. A
// playback failure leaves the controller in the "nothing playing" state.
func (c *Controller) Play(toneRef string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	p, err := c.open(toneRef)
	if err != nil {
		return err
	}
	if err := p.Play(); err != nil {
		return err
	}
	c.current = p
	return nil
}

// Stop stops and releases whatever is playing. Safe to call when nothing is;
// on failure the internal state is force-reset so the controller never sticks
// in an ambiguous "maybe playing" state.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.current == nil {
		return
	}
	if err := c.current.Stop(); err != nil {
		logger.Warn("Failed to stop alarm tone, resetting sound state", "error", err)
	}
	c.current = nil
}

// Playing reports whether a tone is currently held by the controller.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}
