package constants

const (
	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DisplayTimeFormat is the 12-hour clock format used for user-facing output
	DisplayTimeFormat = "3:04 PM"
)
