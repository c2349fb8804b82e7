package session

import (
	"errors"
	"sync"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/keyring"
	"github.com/wakephrase/wakephrase/internal/logger"
)

// ErrNotLoggedIn is returned when an operation requires a user identity and
// none is present.
var ErrNotLoggedIn = errors.New("not logged in")

// TokenStore is the local storage fallback used when the OS keyring is
// unavailable.
type TokenStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Session holds the current user identity. It is constructed once at startup
// and passed explicitly to everything that needs the identity; login and
// logout refresh it in place.
type Session struct {
	mu         sync.Mutex
	userID     string
	store      TokenStore
	useKeyring bool
}

// New loads any persisted identity, preferring the OS keyring and falling
// back to the local token store.
func New(store TokenStore) *Session {
	s := &Session{store: store, useKeyring: keyring.IsAvailable()}

	if s.useKeyring {
		if id, err := keyring.GetUserID(); err == nil {
			s.userID = id
			return s
		}
	}
	if id, ok, err := store.Get(constants.StorageKeyUserID); err == nil && ok {
		s.userID = id
	}
	return s
}

// Current returns the active user identity, or ErrNotLoggedIn.
func (s *Session) Current() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return "", ErrNotLoggedIn
	}
	return s.userID, nil
}

// LoggedIn reports whether an identity is present.
func (s *Session) LoggedIn() bool {
	_, err := s.Current()
	return err == nil
}

// SetUser records a new identity in memory and persists it.
func (s *Session) SetUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id

	if s.useKeyring {
		if err := keyring.SetUserID(id); err == nil {
			return nil
		}
		logger.Warn("Keyring write failed, falling back to local storage")
	}
	return s.store.Set(constants.StorageKeyUserID, id)
}

// Clear drops the identity from memory and every persisted location.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""

	if s.useKeyring {
		if err := keyring.DeleteUserID(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to clear identity from keyring", "error", err)
		}
	}
	return s.store.Delete(constants.StorageKeyUserID)
}
