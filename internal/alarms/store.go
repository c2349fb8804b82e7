package alarms

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/logger"
	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/storage"
)

// Remote is the backend alarm API consumed by the store.
type Remote interface {
	FetchAlarms(ctx context.Context) ([]models.Alarm, error)
	UpsertAlarm(ctx context.Context, alarm models.Alarm) (string, error)
	DeleteAlarm(ctx context.Context, id string) error
}

// Reconciler regenerates an alarm's timer registrations from its current
// fields. Implemented by the scheduling engine.
type Reconciler interface {
	Reconcile(alarm models.Alarm) models.Alarm
	CancelAll(alarm models.Alarm)
}

// Store owns the authoritative in-memory alarm list. The remote backend is
// the source of truth; the local snapshot is a durability backstop used when
// the backend cannot be reached.
type Store struct {
	mu     sync.Mutex
	remote Remote
	local  storage.Provider
	rec    Reconciler
	alarms []models.Alarm
}

func NewStore(remote Remote, local storage.Provider, rec Reconciler) *Store {
	return &Store{remote: remote, local: local, rec: rec}
}

// Load replaces the in-memory list from the remote store, falling back to the
// last local snapshot on any failure. Every record is normalized on the way in.
func (s *Store) Load(ctx context.Context) ([]models.Alarm, error) {
	loaded, err := s.remote.FetchAlarms(ctx)
	if err != nil {
		logger.Warn("Remote alarm fetch failed, using local snapshot", "error", err)
		loaded = s.loadLocal()
	}

	for i := range loaded {
		loaded[i].Normalize()
	}

	s.mu.Lock()
	s.alarms = loaded
	s.mu.Unlock()

	s.PersistLocal()
	return s.Alarms(), nil
}

// LoadCached seeds the in-memory list from the local snapshot without
// touching the remote. Used at startup so every command sees the last known
// list immediately; Load refreshes from the backend.
func (s *Store) LoadCached() []models.Alarm {
	loaded := s.loadLocal()
	for i := range loaded {
		loaded[i].Normalize()
	}
	s.mu.Lock()
	s.alarms = loaded
	s.mu.Unlock()
	return s.Alarms()
}

func (s *Store) loadLocal() []models.Alarm {
	raw, ok, err := s.local.Get(constants.StorageKeyAlarms)
	if err != nil || !ok {
		if err != nil {
			logger.Error("Failed to read alarm snapshot", "error", err)
		}
		return []models.Alarm{}
	}
	var out []models.Alarm
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logger.Error("Failed to parse alarm snapshot", "error", err)
		return []models.Alarm{}
	}
	return out
}

// PersistLocal writes the full alarm list to local storage. Best-effort:
// failures are logged, never returned.
func (s *Store) PersistLocal() {
	s.mu.Lock()
	raw, err := json.Marshal(s.alarms)
	s.mu.Unlock()
	if err != nil {
		logger.Error("Failed to serialize alarms", "error", err)
		return
	}
	if err := s.local.Set(constants.StorageKeyAlarms, string(raw)); err != nil {
		logger.Error("Failed to persist alarm snapshot", "error", err)
	}
}

// Alarms returns a copy of the current list.
func (s *Store) Alarms() []models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Alarm, len(s.alarms))
	copy(out, s.alarms)
	return out
}

// Find looks up an alarm by id.
func (s *Store) Find(id string) (models.Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alarms {
		if a.ID == id {
			return a, true
		}
	}
	return models.Alarm{}, false
}

// Save creates or updates an alarm: push to the remote (adopting the
// server-assigned id on create), regenerate its timers, and persist the
// snapshot before returning. A remote push failure does not lose the local
// mutation; the alarm keeps its provisional id and the error is returned so
// the caller can surface it.
func (s *Store) Save(ctx context.Context, alarm models.Alarm) (models.Alarm, error) {
	if err := alarm.Validate(); err != nil {
		return models.Alarm{}, err
	}
	if alarm.ID == "" {
		alarm.ID = uuid.New().String()
	}
	alarm.Normalize()
	provisionalID := alarm.ID

	var remoteErr error
	if id, err := s.remote.UpsertAlarm(ctx, alarm); err != nil {
		logger.Warn("Remote alarm save failed, keeping local copy", "alarm", alarm.ID, "error", err)
		remoteErr = err
	} else if id != "" && id != alarm.ID {
		// Server-assigned id replaces the provisional one; Reconcile below
		// re-registers the timers under the new payload.
		alarm.ID = id
	}

	alarm = s.rec.Reconcile(alarm)
	// Replace any record still stored under the provisional id, so an alarm
	// first saved offline does not duplicate when a later save adopts the
	// server id.
	s.replaceInMemory(provisionalID, alarm)
	s.PersistLocal()
	return alarm, remoteErr
}

// Toggle flips isActive and adds or removes the alarm's timers accordingly.
func (s *Store) Toggle(ctx context.Context, id string) (models.Alarm, error) {
	alarm, ok := s.Find(id)
	if !ok {
		return models.Alarm{}, fmt.Errorf("alarm not found: %s", id)
	}
	alarm.IsActive = !alarm.IsActive
	return s.Save(ctx, alarm)
}

// Delete cancels the alarm's timers, removes the remote copy, and drops it
// from the list. Remote failures abort the delete so the list never diverges
// silently from the backend.
func (s *Store) Delete(ctx context.Context, id string) error {
	alarm, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("alarm not found: %s", id)
	}

	s.rec.CancelAll(alarm)

	if err := s.remote.DeleteAlarm(ctx, id); err != nil {
		// Timers were already cancelled; restore them so the alarm still fires.
		restored := s.rec.Reconcile(alarm)
		s.upsertInMemory(restored)
		s.PersistLocal()
		return fmt.Errorf("failed to delete alarm: %w", err)
	}

	s.mu.Lock()
	kept := s.alarms[:0]
	for _, a := range s.alarms {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.alarms = kept
	s.mu.Unlock()

	s.PersistLocal()
	return nil
}

// ReconcileAll regenerates timer registrations for every alarm against the
// current substrate. Used when a fresh process takes over firing duty: handles
// issued by a previous process are dead here, and Cancel on them is a no-op.
// Returns the number of live registrations.
func (s *Store) ReconcileAll() int {
	live := 0
	s.mu.Lock()
	list := make([]models.Alarm, len(s.alarms))
	copy(list, s.alarms)
	s.mu.Unlock()

	for i := range list {
		list[i] = s.rec.Reconcile(list[i])
		live += len(list[i].NotificationIDs)
		s.upsertInMemory(list[i])
	}

	s.PersistLocal()
	return live
}

// ReplaceAll swaps in a full list (e.g. the snapshot bundled with a login
// response) and persists it.
func (s *Store) ReplaceAll(list []models.Alarm) {
	for i := range list {
		list[i].Normalize()
	}
	s.mu.Lock()
	s.alarms = list
	s.mu.Unlock()
	s.PersistLocal()
}

func (s *Store) upsertInMemory(alarm models.Alarm) {
	s.replaceInMemory(alarm.ID, alarm)
}

// replaceInMemory updates the record stored under prevID or alarm.ID,
// appending when neither exists. prevID differs from alarm.ID only when a
// save adopted a server-assigned id.
func (s *Store) replaceInMemory(prevID string, alarm models.Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.alarms {
		if a.ID == prevID || a.ID == alarm.ID {
			s.alarms[i] = alarm
			return
		}
	}
	s.alarms = append(s.alarms, alarm)
}
