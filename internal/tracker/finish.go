package tracker

import (
	"github.com/claude/repcycle/internal/catalog"
	"github.com/google/uuid"
)

// sessionVolume sums weight*reps over completed sets. Checklist sessions
// contribute no volume.
func sessionVolume(s *Session) float64 {
	if s.Kind != catalog.KindSets {
		return 0
	}
	var vol float64
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			if set.Done {
				vol += set.Weight * float64(set.Reps)
			}
		}
	}
	return vol
}

// FinishWorkout commits the active session: it appends a history entry with
// a snapshot of the set data, advances the program's rotation pointer,
// silences the rest timer, and applies the finish policy to the session
// (preserve last-used loads with completion cleared, or discard entirely).
func (t *Tracker) FinishWorkout() (HistoryEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.activeSessionLocked()
	if s == nil {
		return HistoryEntry{}, ErrNoActiveSession
	}

	day, err := t.cat.Day(s.ProgramID, s.DayID)
	if err != nil {
		return HistoryEntry{}, err
	}

	entry := HistoryEntry{
		ID:          uuid.NewString(),
		ProgramID:   s.ProgramID,
		DayID:       s.DayID,
		Title:       day.Title,
		FinishedAt:  t.now(),
		TotalVolume: sessionVolume(s),
		Exercises:   cloneExercises(s.Exercises),
	}
	t.appendHistoryLocked(entry)

	if prog, err := t.cat.Program(s.ProgramID); err == nil {
		t.advanceRotationLocked(prog)
	}

	t.stopRestLocked(s)

	switch t.policy {
	case PolicyResetDefaults:
		delete(t.st.Sessions, s.DayID)
	default: // PolicyPreserveLoad
		for _, ex := range s.Exercises {
			ex.Done = false
			for i := range ex.Sets {
				ex.Sets[i].Done = false
			}
		}
	}
	t.st.ActiveDay = ""

	if err := t.saveLocked(); err != nil {
		return HistoryEntry{}, err
	}

	t.log.Info("workout finished",
		"program", entry.ProgramID,
		"day", entry.DayID,
		"volume", entry.TotalVolume,
	)
	return entry, nil
}
