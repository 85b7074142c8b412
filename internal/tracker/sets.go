package tracker

import (
	"fmt"

	"github.com/claude/repcycle/internal/catalog"
)

func clampReps(n int) int {
	if n < MinReps {
		return MinReps
	}
	if n > MaxReps {
		return MaxReps
	}
	return n
}

func clampWeight(w float64) float64 {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}

// exerciseLocked resolves an exercise id within the active session.
func (t *Tracker) exerciseLocked(exerciseID string) (*Session, *ExerciseState, error) {
	s := t.activeSessionLocked()
	if s == nil {
		return nil, nil, ErrNoActiveSession
	}
	ex, ok := s.Exercises[exerciseID]
	if !ok {
		return nil, nil, fmt.Errorf("exercise %q: %w", exerciseID, ErrIndexOutOfRange)
	}
	return s, ex, nil
}

func (t *Tracker) setLocked(exerciseID string, idx int) (*Session, *ExerciseState, *SetRecord, error) {
	s, ex, err := t.exerciseLocked(exerciseID)
	if err != nil {
		return nil, nil, nil, err
	}
	if idx < 0 || idx >= len(ex.Sets) {
		return nil, nil, nil, fmt.Errorf("exercise %q set %d: %w", exerciseID, idx, ErrIndexOutOfRange)
	}
	return s, ex, &ex.Sets[idx], nil
}

// ToggleSet flips a set's done flag. Completing a set (false to true) starts
// the rest countdown when the rest preference is enabled; un-completing
// never does.
func (t *Tracker) ToggleSet(exerciseID string, idx int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _, set, err := t.setLocked(exerciseID, idx)
	if err != nil {
		return err
	}
	set.Done = !set.Done
	if set.Done && t.st.Preferences.RestEnabled {
		t.startRestLocked(t.st.Preferences.RestSeconds)
	}
	return t.saveLocked()
}

// EditSet overwrites a set's reps and weight, clamping both into bounds.
func (t *Tracker) EditSet(exerciseID string, idx, reps int, weight float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _, set, err := t.setLocked(exerciseID, idx)
	if err != nil {
		return err
	}
	set.Reps = clampReps(reps)
	set.Weight = clampWeight(weight)
	return t.saveLocked()
}

// AddSet appends a new set copying the last set's reps/weight (or the
// session defaults if the exercise has none). At the set cap this is a
// no-op, in the same spirit as clamping.
func (t *Tracker) AddSet(exerciseID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ex, err := t.exerciseLocked(exerciseID)
	if err != nil {
		return err
	}
	if len(ex.Sets) >= MaxSets {
		return nil
	}
	ex.Sets = append(ex.Sets, nextSetTemplate(ex.Sets))
	return t.saveLocked()
}

// SetSetCount grows or truncates the set array to exactly n, clamped to
// [MinSets, MaxSets]. Growth copies the last set; truncation drops from the
// tail.
func (t *Tracker) SetSetCount(exerciseID string, n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ex, err := t.exerciseLocked(exerciseID)
	if err != nil {
		return err
	}
	if n < MinSets {
		n = MinSets
	}
	if n > MaxSets {
		n = MaxSets
	}
	for len(ex.Sets) < n {
		ex.Sets = append(ex.Sets, nextSetTemplate(ex.Sets))
	}
	if len(ex.Sets) > n {
		ex.Sets = ex.Sets[:n]
	}
	return t.saveLocked()
}

func nextSetTemplate(sets []SetRecord) SetRecord {
	if len(sets) == 0 {
		return SetRecord{Reps: DefaultReps, Weight: DefaultWeight}
	}
	last := sets[len(sets)-1]
	return SetRecord{Reps: last.Reps, Weight: last.Weight}
}

// SwapExercise advances the exercise's display name to the next alternative
// in its swap group, cyclically relative to the current name. A current name
// not present in the list lands on the first alternative. Exercises without
// a swap group (or with an empty group) are left untouched. Set data is
// never affected.
func (t *Tracker) SwapExercise(exerciseID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ex, err := t.exerciseLocked(exerciseID)
	if err != nil {
		return err
	}
	if ex.SwapGroup == "" {
		return nil
	}
	alts := t.cat.SwapAlternatives(ex.SwapGroup)
	if len(alts) == 0 {
		return nil
	}

	cur := -1
	for i, name := range alts {
		if name == ex.Name {
			cur = i
			break
		}
	}
	ex.Name = alts[(cur+1)%len(alts)]
	return t.saveLocked()
}

// ToggleChecklistItem flips a checklist exercise's done flag. Only valid for
// checklist-kind sessions.
func (t *Tracker) ToggleChecklistItem(exerciseID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ex, err := t.exerciseLocked(exerciseID)
	if err != nil {
		return err
	}
	if s.Kind != catalog.KindChecklist {
		return fmt.Errorf("exercise %q is not a checklist item: %w", exerciseID, ErrIndexOutOfRange)
	}
	ex.Done = !ex.Done
	return t.saveLocked()
}
