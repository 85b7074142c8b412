package tracker

import (
	"fmt"
	"testing"
)

// TestHistoryCapBound verifies appending past the retention cap drops the
// oldest entries and keeps the most recent at the head of History().
func TestHistoryCapBound(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	tr.mu.Lock()
	for i := 0; i < HistoryCap+5; i++ {
		tr.appendHistoryLocked(HistoryEntry{ID: fmt.Sprintf("entry-%d", i)})
	}
	tr.mu.Unlock()

	got := tr.History()
	if len(got) != HistoryCap {
		t.Fatalf("history length = %d, want %d", len(got), HistoryCap)
	}
	if got[0].ID != fmt.Sprintf("entry-%d", HistoryCap+4) {
		t.Errorf("head = %q, want most recent entry", got[0].ID)
	}
	// The five oldest must be gone.
	if got[len(got)-1].ID != "entry-5" {
		t.Errorf("tail = %q, want %q", got[len(got)-1].ID, "entry-5")
	}
}

// TestHistoryOrderMostRecentFirst verifies the read projection reverses
// insertion order without mutating the ledger.
func TestHistoryOrderMostRecentFirst(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	for _, day := range []string{"push", "legs"} {
		if _, err := tr.StartSession("ppl", day); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
		if _, err := tr.FinishWorkout(); err != nil {
			t.Fatalf("FinishWorkout: %v", err)
		}
	}

	got := tr.History()
	if len(got) != 2 {
		t.Fatalf("history length = %d, want 2", len(got))
	}
	if got[0].DayID != "legs" || got[1].DayID != "push" {
		t.Errorf("order = [%s %s], want [legs push]", got[0].DayID, got[1].DayID)
	}

	// Calling History twice yields the same result: reads do not mutate.
	again := tr.History()
	if again[0].DayID != "legs" {
		t.Errorf("second read head = %q, want %q", again[0].DayID, "legs")
	}
}

// TestClearHistory verifies the explicit clear action empties the ledger.
func TestClearHistory(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	if _, err := tr.StartSession("ppl", "push"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := tr.FinishWorkout(); err != nil {
		t.Fatalf("FinishWorkout: %v", err)
	}
	if err := tr.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if got := tr.History(); len(got) != 0 {
		t.Errorf("history length = %d, want 0", len(got))
	}
}
