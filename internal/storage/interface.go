package storage

// Provider is the local durable key-value store backing the alarm snapshot,
// the cached profile, and the user identity token. Backends are selected by
// the config path: a .json suffix picks the JSON file store, anything else
// SQLite.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}
