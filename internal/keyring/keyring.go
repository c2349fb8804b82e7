package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/wakephrase/wakephrase/internal/constants"
)

var (
	// ErrNotFound is returned when no identity token is stored in the keyring
	ErrNotFound = errors.New("identity not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetUserID retrieves the stored user identity token from the OS keyring.
func GetUserID() (string, error) {
	id, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return id, nil
}

// SetUserID stores the user identity token in the OS keyring.
func SetUserID(id string) error {
	if id == "" {
		return errors.New("user identity cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, id); err != nil {
		return fmt.Errorf("failed to store identity in keyring: %w", err)
	}
	return nil
}

// DeleteUserID removes the user identity token from the OS keyring.
func DeleteUserID() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete identity from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is usable on the current system.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}
