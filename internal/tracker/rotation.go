package tracker

import "github.com/claude/repcycle/internal/catalog"

// rotationIndexLocked returns the current index into the program's cyclic
// day sequence. The modulo keeps stale indices valid if a program's day list
// shrinks between versions.
func (t *Tracker) rotationIndexLocked(prog catalog.Program) int {
	return t.st.Rotation[prog.ID] % len(prog.DayIDs)
}

// advanceRotationLocked moves the program's pointer to the next day. Called
// exactly once per finished workout, never on abandon or reset. A
// single-day program is a fixed point.
func (t *Tracker) advanceRotationLocked(prog catalog.Program) {
	t.st.Rotation[prog.ID] = (t.rotationIndexLocked(prog) + 1) % len(prog.DayIDs)
}

// NextDay returns the day the rotation currently points at for a program.
func (t *Tracker) NextDay(programID string) (catalog.Day, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prog, err := t.cat.Program(programID)
	if err != nil {
		return catalog.Day{}, err
	}
	return t.cat.Day(programID, prog.DayIDs[t.rotationIndexLocked(prog)])
}
