package constants

import "time"

// Action identifies which ring resolution the user is attempting.
type Action string

const (
	AppName            = "wakephrase"
	DefaultKeyringUser = "user-identity"
	DefaultConfigPath  = "~/.config/wakephrase/wakephrase.db"
	DefaultAPIURL      = "http://localhost:5001"
	Version            = "v0.3.0"

	// Storage keys for the local durable snapshot
	StorageKeyAlarms  = "alarms"
	StorageKeyProfile = "profile"
	StorageKeyUserID  = "user_id"

	// DefaultAlarmLabel is substituted for alarms saved without a label
	DefaultAlarmLabel = "Alarm"

	// SnoozeDelay is how far out a snoozed alarm re-fires
	SnoozeDelay = 2 * time.Minute

	// Notify constants
	NotifierLockfileName   = "wakephrase-tray.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.wakephrase.tray"

	// Ring actions
	ActionDismiss Action = "dismiss"
	ActionSnooze  Action = "snooze"
)
