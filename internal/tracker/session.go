package tracker

import (
	"time"

	"github.com/claude/repcycle/internal/catalog"
)

// SetRecord is one set of one exercise inside a live session.
type SetRecord struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Done   bool    `json:"done"`
}

// ExerciseState is the mutable per-exercise state inside a session. For
// set-based days Sets is populated; for checklist days only Done is used.
type ExerciseState struct {
	Name         string      `json:"name"`
	Prescription string      `json:"rx,omitempty"`
	SwapGroup    string      `json:"swapGroup,omitempty"`
	Sets         []SetRecord `json:"sets,omitempty"`
	Done         bool        `json:"done,omitempty"`
}

// RestState is the persisted countdown state. Active=false implies a zero
// EndsAt.
type RestState struct {
	Active bool      `json:"active"`
	EndsAt time.Time `json:"endsAt"`
}

// Session is the live, mutable instance of one workout day, materialized
// from the immutable catalog template. The exercise key set is fixed at
// creation; set arrays within it grow and shrink.
type Session struct {
	ProgramID string                    `json:"programId"`
	DayID     string                    `json:"dayId"`
	Kind      string                    `json:"kind"`
	StartedAt time.Time                 `json:"startedAt"`
	Exercises map[string]*ExerciseState `json:"exercises"`
	Rest      RestState                 `json:"rest"`
}

// newSession materializes a fresh session from a catalog day. Set-based
// exercises are seeded with the default set array; checklist exercises start
// unchecked.
func newSession(day catalog.Day, startedAt time.Time) *Session {
	s := &Session{
		ProgramID: day.ProgramID,
		DayID:     day.ID,
		Kind:      day.Kind,
		StartedAt: startedAt,
		Exercises: make(map[string]*ExerciseState, len(day.Exercises)),
	}
	for _, e := range day.Exercises {
		ex := &ExerciseState{
			Name:         e.Name,
			Prescription: e.Prescription,
			SwapGroup:    e.SwapGroup,
		}
		if day.Kind == catalog.KindSets {
			ex.Sets = make([]SetRecord, DefaultSets)
			for i := range ex.Sets {
				ex.Sets[i] = SetRecord{Reps: DefaultReps, Weight: DefaultWeight}
			}
		}
		s.Exercises[e.ID] = ex
	}
	return s
}

func cloneSets(sets []SetRecord) []SetRecord {
	if sets == nil {
		return nil
	}
	out := make([]SetRecord, len(sets))
	copy(out, sets)
	return out
}

func cloneExercises(m map[string]*ExerciseState) map[string]*ExerciseState {
	if m == nil {
		return nil
	}
	out := make(map[string]*ExerciseState, len(m))
	for id, ex := range m {
		c := *ex
		c.Sets = cloneSets(ex.Sets)
		out[id] = &c
	}
	return out
}

func cloneSession(s *Session) *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Exercises = cloneExercises(s.Exercises)
	return &c
}

func cloneState(st *State) *State {
	c := *st
	c.Rotation = make(map[string]int, len(st.Rotation))
	for k, v := range st.Rotation {
		c.Rotation[k] = v
	}
	c.Sessions = make(map[string]*Session, len(st.Sessions))
	for k, s := range st.Sessions {
		c.Sessions[k] = cloneSession(s)
	}
	c.History = make([]HistoryEntry, len(st.History))
	for i, e := range st.History {
		e.Exercises = cloneExercises(e.Exercises)
		c.History[i] = e
	}
	return &c
}
