package tracker

import "time"

// CurrentSchemaVersion is the schema of the persisted state blob. Version 1
// is the legacy PWA localStorage document; see persist.go for the migration.
const CurrentSchemaVersion = 2

// Set ledger bounds and defaults. Edits outside the bounds are clamped, not
// rejected, so user input never gets stuck.
const (
	MinReps   = 1
	MaxReps   = 200
	MinWeight = 0
	MaxWeight = 500
	MinSets   = 1
	MaxSets   = 12

	DefaultReps   = 5
	DefaultWeight = 5
	DefaultSets   = 5
)

// HistoryCap bounds the history ledger; oldest entries drop on overflow.
const HistoryCap = 200

// RestPresets are the selectable rest durations in seconds.
var RestPresets = []int{30, 60, 90, 120}

const (
	defaultRestSeconds = 90
	defaultWeightStep  = 2
)

// Preferences are explicit user settings. They affect future sessions and
// timers only, never retroactively.
type Preferences struct {
	RestEnabled  bool    `json:"restEnabled"`
	SoundEnabled bool    `json:"soundEnabled"`
	RestSeconds  int     `json:"restSeconds"`
	WeightStep   float64 `json:"weightStep"`
}

// HistoryEntry is a completed-session summary with a snapshot of the set
// data at finish time.
type HistoryEntry struct {
	ID          string                    `json:"id"`
	ProgramID   string                    `json:"programId"`
	DayID       string                    `json:"dayId"`
	Title       string                    `json:"title"`
	FinishedAt  time.Time                 `json:"finishedAt"`
	TotalVolume float64                   `json:"totalVolume"`
	Exercises   map[string]*ExerciseState `json:"exercises,omitempty"`
}

// State is the whole persisted graph: preferences, rotation pointers,
// materialized sessions, and history. It is owned by a single Tracker and
// saved whole after every mutation.
type State struct {
	SchemaVersion int                 `json:"schemaVersion"`
	Preferences   Preferences         `json:"preferences"`
	Rotation      map[string]int      `json:"rotation"`
	ActiveDay     string              `json:"activeDay,omitempty"`
	Sessions      map[string]*Session `json:"sessions"`
	History       []HistoryEntry      `json:"history"`
}

func defaultPreferences() Preferences {
	return Preferences{
		RestEnabled:  true,
		SoundEnabled: true,
		RestSeconds:  defaultRestSeconds,
		WeightStep:   defaultWeightStep,
	}
}

func defaultState() *State {
	return &State{
		SchemaVersion: CurrentSchemaVersion,
		Preferences:   defaultPreferences(),
		Rotation:      map[string]int{},
		Sessions:      map[string]*Session{},
		History:       []HistoryEntry{},
	}
}

// normalize fills missing pieces of a decoded state with defaults and
// re-establishes invariants that older or hand-edited blobs may violate.
func (st *State) normalize() {
	st.SchemaVersion = CurrentSchemaVersion
	if st.Rotation == nil {
		st.Rotation = map[string]int{}
	}
	for id, idx := range st.Rotation {
		if idx < 0 {
			st.Rotation[id] = 0
		}
	}
	if st.Sessions == nil {
		st.Sessions = map[string]*Session{}
	}
	if st.History == nil {
		st.History = []HistoryEntry{}
	}
	if len(st.History) > HistoryCap {
		st.History = st.History[len(st.History)-HistoryCap:]
	}
	st.Preferences = normalizePreferences(st.Preferences)

	if st.ActiveDay != "" {
		if _, ok := st.Sessions[st.ActiveDay]; !ok {
			st.ActiveDay = ""
		}
	}
	for _, s := range st.Sessions {
		if s.Exercises == nil {
			s.Exercises = map[string]*ExerciseState{}
		}
		// active=false implies no deadline
		if !s.Rest.Active {
			s.Rest = RestState{}
		}
	}
}

func normalizePreferences(p Preferences) Preferences {
	if !isRestPreset(p.RestSeconds) {
		p.RestSeconds = defaultRestSeconds
	}
	if p.WeightStep <= 0 {
		p.WeightStep = defaultWeightStep
	}
	return p
}

func isRestPreset(sec int) bool {
	for _, p := range RestPresets {
		if p == sec {
			return true
		}
	}
	return false
}
