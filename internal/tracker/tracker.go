// Package tracker implements the session state machine: materializing
// sessions from the catalog, the per-set ledger, the rest countdown, day
// rotation, and the history log. All state lives in a single blob saved
// whole after every mutation.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/repcycle/internal/catalog"
)

var (
	// ErrIndexOutOfRange reports an exercise id or set index that does not
	// exist in the active session. The operation is a no-op on state.
	ErrIndexOutOfRange = errors.New("tracker: index out of range")

	// ErrNoActiveSession reports an operation that requires an active session.
	ErrNoActiveSession = errors.New("tracker: no active session")
)

// Store durably holds the serialized state blob. Load reports ok=false when
// no blob has been saved yet.
type Store interface {
	Load() (data []byte, ok bool, err error)
	Save(data []byte) error
}

// Notifier receives the fire-and-forget rest-expired signal.
type Notifier interface {
	RestExpired()
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func()

func (f NotifierFunc) RestExpired() { f() }

// FinishPolicy controls what happens to a session's set data on finish.
type FinishPolicy string

const (
	// PolicyPreserveLoad keeps last-used reps/weight as the defaults for
	// next time and only clears completion flags.
	PolicyPreserveLoad FinishPolicy = "preserve_load"
	// PolicyResetDefaults discards the session entirely; the next start
	// rebuilds from catalog defaults.
	PolicyResetDefaults FinishPolicy = "reset_defaults"
)

// Tracker owns the whole state graph. All mutations are serialized behind
// its mutex and followed by a synchronous whole-blob save.
type Tracker struct {
	mu       sync.Mutex
	st       *State
	cat      *catalog.Catalog
	store    Store
	notifier Notifier
	policy   FinishPolicy
	log      *slog.Logger

	now          func() time.Time
	pollInterval time.Duration
	restCancel   func()
	restGen      int
}

// New creates a Tracker. Call Load before use and Close on shutdown.
func New(cat *catalog.Catalog, store Store, notifier Notifier, policy FinishPolicy, log *slog.Logger) *Tracker {
	if policy == "" {
		policy = PolicyPreserveLoad
	}
	return &Tracker{
		cat:          cat,
		store:        store,
		notifier:     notifier,
		policy:       policy,
		log:          log,
		now:          time.Now,
		pollInterval: 250 * time.Millisecond,
	}
}

// Load reads the persisted blob, migrating older schema shapes and falling
// back to a default empty state if the blob is missing or unreadable. A rest
// deadline still in the future resumes counting down; a stale one resolves
// to idle without firing a notification.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, ok, err := t.store.Load()
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if !ok {
		t.st = defaultState()
		return t.saveLocked()
	}

	st, err := ParseState(data)
	if err != nil {
		t.log.Warn("state blob unreadable, starting fresh", "error", err)
		t.st = defaultState()
		return t.saveLocked()
	}
	t.st = st
	t.dropUnknownSessionsLocked()
	t.resumeRestLocked()
	return t.saveLocked()
}

// Close cancels the rest poll goroutine, if any.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelRestPollLocked()
}

// dropUnknownSessionsLocked discards persisted sessions whose program or day
// no longer exists in the catalog, rather than crashing on render.
func (t *Tracker) dropUnknownSessionsLocked() {
	for dayID, s := range t.st.Sessions {
		if _, err := t.cat.Day(s.ProgramID, s.DayID); err != nil {
			t.log.Warn("discarding session for unknown catalog entry",
				"program", s.ProgramID, "day", dayID)
			delete(t.st.Sessions, dayID)
			if t.st.ActiveDay == dayID {
				t.st.ActiveDay = ""
			}
		}
	}
}

func (t *Tracker) saveLocked() error {
	data, err := encodeState(t.st)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := t.store.Save(data); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the current state for rendering.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *cloneState(t.st)
}

// ActiveSession returns a deep copy of the active session, or nil.
func (t *Tracker) ActiveSession() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneSession(t.activeSessionLocked())
}

func (t *Tracker) activeSessionLocked() *Session {
	if t.st.ActiveDay == "" {
		return nil
	}
	return t.st.Sessions[t.st.ActiveDay]
}

// Preferences returns the current user preferences.
func (t *Tracker) Preferences() Preferences {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st.Preferences
}

// UpdatePreferences replaces the preferences, coercing out-of-range values
// back to defaults. Changes affect future sessions and timers only.
func (t *Tracker) UpdatePreferences(p Preferences) (Preferences, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.st.Preferences = normalizePreferences(p)
	if err := t.saveLocked(); err != nil {
		return Preferences{}, err
	}
	return t.st.Preferences, nil
}

// StartSession makes the session for (programID, dayID) active. An empty
// dayID resolves through the rotation pointer. If that session is already
// active it is returned unchanged (resume); a session preserved by a
// previous finish is revived with a fresh start time; otherwise a new one is
// materialized from the catalog.
func (t *Tracker) StartSession(programID, dayID string) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prog, err := t.cat.Program(programID)
	if err != nil {
		return nil, err
	}
	if dayID == "" {
		dayID = prog.DayIDs[t.rotationIndexLocked(prog)]
	}
	day, err := t.cat.Day(programID, dayID)
	if err != nil {
		return nil, err
	}

	if t.st.ActiveDay == dayID {
		if s := t.st.Sessions[dayID]; s != nil {
			return cloneSession(s), nil
		}
	}

	// Switching away from another in-progress session: its countdown is no
	// longer meaningful, drop it silently.
	if prev := t.activeSessionLocked(); prev != nil && prev.Rest.Active {
		t.stopRestLocked(prev)
	}

	s, ok := t.st.Sessions[dayID]
	if ok {
		s.StartedAt = t.now()
	} else {
		s = newSession(day, t.now())
		t.st.Sessions[dayID] = s
	}
	t.st.ActiveDay = dayID

	if err := t.saveLocked(); err != nil {
		return nil, err
	}
	return cloneSession(s), nil
}

// ResetSession rebuilds the active session from the catalog, discarding all
// edits and progress for that day.
func (t *Tracker) ResetSession() (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.activeSessionLocked()
	if cur == nil {
		return nil, ErrNoActiveSession
	}
	if cur.Rest.Active {
		t.stopRestLocked(cur)
	}

	day, err := t.cat.Day(cur.ProgramID, cur.DayID)
	if err != nil {
		return nil, err
	}
	s := newSession(day, t.now())
	t.st.Sessions[cur.DayID] = s

	if err := t.saveLocked(); err != nil {
		return nil, err
	}
	return cloneSession(s), nil
}
