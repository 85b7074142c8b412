package tracker

import (
	"errors"
	"testing"
	"time"
)

func startPush(t *testing.T, tr *Tracker) {
	t.Helper()
	if _, err := tr.StartSession("ppl", "push"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
}

// TestToggleSetStartsRest verifies completing a set arms the rest countdown
// using the restSeconds preference.
func TestToggleSetStartsRest(t *testing.T) {
	tr, _, clock, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.ToggleSet("bench", 0); err != nil {
		t.Fatalf("ToggleSet: %v", err)
	}
	s := tr.ActiveSession()
	if !s.Exercises["bench"].Sets[0].Done {
		t.Error("set not marked done")
	}
	if !s.Rest.Active {
		t.Fatal("rest timer not started")
	}
	want := clock.Now().Add(time.Duration(defaultRestSeconds) * time.Second)
	if !s.Rest.EndsAt.Equal(want) {
		t.Errorf("endsAt = %v, want %v", s.Rest.EndsAt, want)
	}
}

// TestToggleSetUndoSilent verifies un-completing a set flips the flag back
// without arming a new countdown.
func TestToggleSetUndoSilent(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.ToggleSet("bench", 0); err != nil {
		t.Fatalf("ToggleSet: %v", err)
	}
	if err := tr.SkipRest(); err != nil {
		t.Fatalf("SkipRest: %v", err)
	}
	if err := tr.ToggleSet("bench", 0); err != nil {
		t.Fatalf("ToggleSet: %v", err)
	}

	s := tr.ActiveSession()
	if s.Exercises["bench"].Sets[0].Done {
		t.Error("set still marked done")
	}
	if s.Rest.Active {
		t.Error("undo armed the rest timer")
	}
}

// TestToggleSetRestDisabled verifies the rest preference gates the
// countdown entirely.
func TestToggleSetRestDisabled(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	if _, err := tr.UpdatePreferences(Preferences{RestEnabled: false, SoundEnabled: true, RestSeconds: 90, WeightStep: 2}); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	startPush(t, tr)

	if err := tr.ToggleSet("bench", 0); err != nil {
		t.Fatalf("ToggleSet: %v", err)
	}
	if tr.ActiveSession().Rest.Active {
		t.Error("rest timer started despite disabled preference")
	}
}

// TestEditSetClamps verifies out-of-bounds edits are clamped into range and
// that repeating the same edit is idempotent.
func TestEditSetClamps(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	for i := 0; i < 2; i++ {
		if err := tr.EditSet("bench", 0, -5, -1); err != nil {
			t.Fatalf("EditSet: %v", err)
		}
		set := tr.ActiveSession().Exercises["bench"].Sets[0]
		if set.Reps != MinReps || set.Weight != MinWeight {
			t.Errorf("pass %d: set = %+v, want reps=%d weight=%d", i, set, MinReps, MinWeight)
		}
	}

	if err := tr.EditSet("bench", 0, 10000, 10000); err != nil {
		t.Fatalf("EditSet: %v", err)
	}
	set := tr.ActiveSession().Exercises["bench"].Sets[0]
	if set.Reps != MaxReps || set.Weight != MaxWeight {
		t.Errorf("set = %+v, want upper bounds", set)
	}
}

// TestAddSetCopiesLast verifies a new set inherits the preceding set's
// reps/weight so mid-workout additions match the current load.
func TestAddSetCopiesLast(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.EditSet("bench", DefaultSets-1, 3, 60); err != nil {
		t.Fatalf("EditSet: %v", err)
	}
	if err := tr.AddSet("bench"); err != nil {
		t.Fatalf("AddSet: %v", err)
	}

	sets := tr.ActiveSession().Exercises["bench"].Sets
	if len(sets) != DefaultSets+1 {
		t.Fatalf("set count = %d, want %d", len(sets), DefaultSets+1)
	}
	last := sets[len(sets)-1]
	if last.Reps != 3 || last.Weight != 60 || last.Done {
		t.Errorf("appended set = %+v, want copy of previous, undone", last)
	}
}

// TestAddSetCapNoop verifies adding past the set cap silently leaves the
// ledger unchanged, consistent with the clamp-don't-reject contract.
func TestAddSetCapNoop(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.SetSetCount("bench", MaxSets); err != nil {
		t.Fatalf("SetSetCount: %v", err)
	}
	if err := tr.AddSet("bench"); err != nil {
		t.Fatalf("AddSet: %v", err)
	}
	if got := len(tr.ActiveSession().Exercises["bench"].Sets); got != MaxSets {
		t.Errorf("set count = %d, want %d", got, MaxSets)
	}
}

// TestSetSetCount verifies growth copies the last set, truncation drops from
// the tail, and the target is clamped into [MinSets, MaxSets].
func TestSetSetCount(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.EditSet("bench", DefaultSets-1, 8, 30); err != nil {
		t.Fatalf("EditSet: %v", err)
	}

	if err := tr.SetSetCount("bench", 7); err != nil {
		t.Fatalf("SetSetCount: %v", err)
	}
	sets := tr.ActiveSession().Exercises["bench"].Sets
	if len(sets) != 7 {
		t.Fatalf("set count = %d, want 7", len(sets))
	}
	if sets[6].Reps != 8 || sets[6].Weight != 30 {
		t.Errorf("grown set = %+v, want copy of last", sets[6])
	}

	if err := tr.SetSetCount("bench", 2); err != nil {
		t.Fatalf("SetSetCount: %v", err)
	}
	if got := len(tr.ActiveSession().Exercises["bench"].Sets); got != 2 {
		t.Errorf("set count = %d, want 2", got)
	}

	if err := tr.SetSetCount("bench", 0); err != nil {
		t.Fatalf("SetSetCount: %v", err)
	}
	if got := len(tr.ActiveSession().Exercises["bench"].Sets); got != MinSets {
		t.Errorf("set count = %d, want clamp to %d", got, MinSets)
	}

	if err := tr.SetSetCount("bench", 99); err != nil {
		t.Fatalf("SetSetCount: %v", err)
	}
	if got := len(tr.ActiveSession().Exercises["bench"].Sets); got != MaxSets {
		t.Errorf("set count = %d, want clamp to %d", got, MaxSets)
	}
}

// TestSwapCycling verifies three successive swaps over alternatives [A,B,C]
// starting at A visit B, C, A in order, touching only the display name.
func TestSwapCycling(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.EditSet("bench", 0, 9, 55); err != nil {
		t.Fatalf("EditSet: %v", err)
	}

	for _, want := range []string{"B", "C", "A"} {
		if err := tr.SwapExercise("bench"); err != nil {
			t.Fatalf("SwapExercise: %v", err)
		}
		if got := tr.ActiveSession().Exercises["bench"].Name; got != want {
			t.Errorf("name = %q, want %q", got, want)
		}
	}

	set := tr.ActiveSession().Exercises["bench"].Sets[0]
	if set.Reps != 9 || set.Weight != 55 {
		t.Errorf("set = %+v, swap touched set data", set)
	}
}

// TestSwapUnknownCurrentName verifies a display name not present in the
// alternatives list is treated as index -1, landing on the first entry.
func TestSwapUnknownCurrentName(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	// Simulate a catalog rename between app versions: the persisted display
	// name no longer appears in the alternatives list.
	tr.mu.Lock()
	tr.st.Sessions["push"].Exercises["bench"].Name = "Retired Lift"
	tr.mu.Unlock()

	if err := tr.SwapExercise("bench"); err != nil {
		t.Fatalf("SwapExercise: %v", err)
	}
	if got := tr.ActiveSession().Exercises["bench"].Name; got != "A" {
		t.Errorf("name = %q, want first alternative %q", got, "A")
	}
}

// TestSwapWithoutGroupNoop verifies exercises with no swap group are left
// untouched.
func TestSwapWithoutGroupNoop(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.SwapExercise("raise"); err != nil {
		t.Fatalf("SwapExercise: %v", err)
	}
	if got := tr.ActiveSession().Exercises["raise"].Name; got != "Raise" {
		t.Errorf("name = %q, want unchanged", got)
	}
}

// TestIndexOutOfRange verifies invalid exercise ids and set indices are
// rejected with ErrIndexOutOfRange and leave state untouched.
func TestIndexOutOfRange(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	before := tr.Snapshot()

	if err := tr.ToggleSet("ghost", 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("unknown exercise error = %v, want ErrIndexOutOfRange", err)
	}
	if err := tr.ToggleSet("bench", 99); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("bad index error = %v, want ErrIndexOutOfRange", err)
	}
	if err := tr.EditSet("bench", -1, 5, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative index error = %v, want ErrIndexOutOfRange", err)
	}

	after := tr.Snapshot()
	if len(after.Sessions["push"].Exercises["bench"].Sets) != len(before.Sessions["push"].Exercises["bench"].Sets) {
		t.Error("failed operation mutated state")
	}
}

// TestNoActiveSessionOps verifies ledger operations without an active
// session report ErrNoActiveSession.
func TestNoActiveSessionOps(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	if err := tr.ToggleSet("bench", 0); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("error = %v, want ErrNoActiveSession", err)
	}
}

// TestToggleChecklistItem verifies checklist items flip their done flag and
// that the operation is rejected for set-based sessions.
func TestToggleChecklistItem(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	if _, err := tr.StartSession("mob", "stretch"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := tr.ToggleChecklistItem("c1"); err != nil {
		t.Fatalf("ToggleChecklistItem: %v", err)
	}
	if !tr.ActiveSession().Exercises["c1"].Done {
		t.Error("checklist item not marked done")
	}
	if err := tr.ToggleChecklistItem("c1"); err != nil {
		t.Fatalf("ToggleChecklistItem: %v", err)
	}
	if tr.ActiveSession().Exercises["c1"].Done {
		t.Error("second toggle did not clear the flag")
	}

	startPush(t, tr)
	if err := tr.ToggleChecklistItem("bench"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("sets-session error = %v, want ErrIndexOutOfRange", err)
	}
}
