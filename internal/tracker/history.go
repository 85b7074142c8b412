package tracker

// appendHistoryLocked inserts an entry at the most-recent end and drops the
// oldest entries past the retention cap.
func (t *Tracker) appendHistoryLocked(entry HistoryEntry) {
	t.st.History = append(t.st.History, entry)
	if len(t.st.History) > HistoryCap {
		t.st.History = t.st.History[len(t.st.History)-HistoryCap:]
	}
}

// History returns the ledger most-recent-first. The returned slice is a deep
// copy; mutating it does not affect tracker state.
func (t *Tracker) History() []HistoryEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]HistoryEntry, len(t.st.History))
	for i, e := range t.st.History {
		e.Exercises = cloneExercises(e.Exercises)
		out[len(out)-1-i] = e
	}
	return out
}

// ClearHistory empties the ledger. Explicit user action only.
func (t *Tracker) ClearHistory() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.st.History = []HistoryEntry{}
	return t.saveLocked()
}
