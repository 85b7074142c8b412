package tracker

import (
	"errors"
	"testing"
	"time"
)

// TestFinishVolumeCountsDoneOnly verifies total volume sums weight*reps over
// completed sets only.
func TestFinishVolumeCountsDoneOnly(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	// Trim both exercises to two sets so the arithmetic is exact:
	// bench [{5x10 done},{5x20 not}], raise [{5x10 done},{5x20 not}].
	for _, ex := range []string{"bench", "raise"} {
		if err := tr.SetSetCount(ex, 2); err != nil {
			t.Fatalf("SetSetCount: %v", err)
		}
		if err := tr.EditSet(ex, 0, 5, 10); err != nil {
			t.Fatalf("EditSet: %v", err)
		}
		if err := tr.EditSet(ex, 1, 5, 20); err != nil {
			t.Fatalf("EditSet: %v", err)
		}
		if err := tr.ToggleSet(ex, 0); err != nil {
			t.Fatalf("ToggleSet: %v", err)
		}
	}

	entry, err := tr.FinishWorkout()
	if err != nil {
		t.Fatalf("FinishWorkout: %v", err)
	}
	if entry.TotalVolume != 100 {
		t.Errorf("volume = %v, want 100 (2 exercises x 5 reps x 10)", entry.TotalVolume)
	}
}

// TestFinishPreservesLoadClearsCompletion verifies the default policy keeps
// the edited reps/weight for the next visit to the day but clears every done
// flag.
func TestFinishPreservesLoadClearsCompletion(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.EditSet("bench", 0, 8, 42.5); err != nil {
		t.Fatalf("EditSet: %v", err)
	}
	if err := tr.ToggleSet("bench", 0); err != nil {
		t.Fatalf("ToggleSet: %v", err)
	}
	if _, err := tr.FinishWorkout(); err != nil {
		t.Fatalf("FinishWorkout: %v", err)
	}

	if tr.ActiveSession() != nil {
		t.Fatal("session still active after finish")
	}

	// Revisit the same day: loads survive, completion does not.
	s, err := tr.StartSession("ppl", "push")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	set := s.Exercises["bench"].Sets[0]
	if set.Reps != 8 || set.Weight != 42.5 {
		t.Errorf("set = %+v, want preserved load 8x42.5", set)
	}
	if set.Done {
		t.Error("done flag survived finish")
	}
}

// TestFinishResetDefaultsPolicy verifies the reset policy discards the
// session so the next visit starts from catalog defaults.
func TestFinishResetDefaultsPolicy(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	tr.policy = PolicyResetDefaults
	startPush(t, tr)

	if err := tr.EditSet("bench", 0, 8, 42.5); err != nil {
		t.Fatalf("EditSet: %v", err)
	}
	if _, err := tr.FinishWorkout(); err != nil {
		t.Fatalf("FinishWorkout: %v", err)
	}

	s, err := tr.StartSession("ppl", "push")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	set := s.Exercises["bench"].Sets[0]
	if set.Reps != DefaultReps || set.Weight != DefaultWeight {
		t.Errorf("set = %+v, want catalog defaults", set)
	}
}

// TestFinishAdvancesRotation verifies committing a session moves the
// program's rotation pointer to the next day.
func TestFinishAdvancesRotation(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if _, err := tr.FinishWorkout(); err != nil {
		t.Fatalf("FinishWorkout: %v", err)
	}
	day, err := tr.NextDay("ppl")
	if err != nil {
		t.Fatalf("NextDay: %v", err)
	}
	if day.ID != "legs" {
		t.Errorf("next = %q, want %q", day.ID, "legs")
	}
}

// TestFinishNoActiveSession verifies finishing with no session active is an
// error, not a silent no-op.
func TestFinishNoActiveSession(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	if _, err := tr.FinishWorkout(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("error = %v, want ErrNoActiveSession", err)
	}
}

// TestFinishChecklistZeroVolume verifies checklist sessions commit with zero
// volume regardless of how many items were checked.
func TestFinishChecklistZeroVolume(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	if _, err := tr.StartSession("mob", "stretch"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := tr.ToggleChecklistItem("c1"); err != nil {
		t.Fatalf("ToggleChecklistItem: %v", err)
	}

	entry, err := tr.FinishWorkout()
	if err != nil {
		t.Fatalf("FinishWorkout: %v", err)
	}
	if entry.TotalVolume != 0 {
		t.Errorf("volume = %v, want 0 for checklist day", entry.TotalVolume)
	}
}

// TestFinishSilencesRest verifies a running countdown dies with the session
// and never fires after the finish.
func TestFinishSilencesRest(t *testing.T) {
	tr, _, clock, notify := newTestTracker(t)
	startPush(t, tr)

	if err := tr.ToggleSet("bench", 0); err != nil {
		t.Fatalf("ToggleSet: %v", err)
	}
	if _, err := tr.FinishWorkout(); err != nil {
		t.Fatalf("FinishWorkout: %v", err)
	}

	clock.Advance(time.Duration(defaultRestSeconds+1) * time.Second)
	assertNoNotification(t, notify)
}

// TestFinishSnapshotIsolated verifies the history snapshot is decoupled from
// the live session: later edits to the day must not rewrite history.
func TestFinishSnapshotIsolated(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	startPush(t, tr)

	if err := tr.EditSet("bench", 0, 5, 50); err != nil {
		t.Fatalf("EditSet: %v", err)
	}
	if _, err := tr.FinishWorkout(); err != nil {
		t.Fatalf("FinishWorkout: %v", err)
	}

	startPush(t, tr)
	if err := tr.EditSet("bench", 0, 1, 1); err != nil {
		t.Fatalf("EditSet: %v", err)
	}

	hist := tr.History()
	if len(hist) != 1 {
		t.Fatalf("history length = %d, want 1", len(hist))
	}
	snap := hist[0].Exercises["bench"].Sets[0]
	if snap.Reps != 5 || snap.Weight != 50 {
		t.Errorf("snapshot set = %+v, want 5x50 untouched by later edits", snap)
	}
}
