package tracker

import (
	"context"
	"math"
	"time"
)

// The rest timer is the only asynchronous element in the tracker. Its state
// machine is Idle -> Running(endsAt) -> Idle; the transition back to Idle
// happens either through an explicit skip (silent) or when the poll
// goroutine observes the deadline passing, which fires exactly one
// notification. The generation counter ties each poll goroutine to the
// deadline it was started for, so a restarted or skipped timer can never
// fire a stale notification.

// startRestLocked arms the countdown on the active session, replacing any
// running timer (the deadline simply moves, no stacking).
func (t *Tracker) startRestLocked(seconds int) {
	s := t.activeSessionLocked()
	if s == nil {
		return
	}
	t.cancelRestPollLocked()
	s.Rest = RestState{
		Active: true,
		EndsAt: t.now().Add(time.Duration(seconds) * time.Second),
	}
	t.restGen++
	t.spawnRestPollLocked(t.restGen)
}

// stopRestLocked forces the timer to Idle without notifying.
func (t *Tracker) stopRestLocked(s *Session) {
	t.cancelRestPollLocked()
	t.restGen++
	s.Rest = RestState{}
}

func (t *Tracker) cancelRestPollLocked() {
	if t.restCancel != nil {
		t.restCancel()
		t.restCancel = nil
	}
}

func (t *Tracker) spawnRestPollLocked(gen int) {
	ctx, cancel := context.WithCancel(context.Background())
	t.restCancel = cancel
	go t.pollRest(ctx, gen)
}

func (t *Tracker) pollRest(ctx context.Context, gen int) {
	tick := time.NewTicker(t.pollInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if t.checkRestExpiry(gen) {
				return
			}
		}
	}
}

// checkRestExpiry observes the deadline once. It returns true when the poll
// goroutine should stop, either because it fired or because its timer was
// superseded.
func (t *Tracker) checkRestExpiry(gen int) bool {
	t.mu.Lock()
	s := t.activeSessionLocked()
	if gen != t.restGen || s == nil || !s.Rest.Active {
		t.mu.Unlock()
		return true
	}
	if t.now().Before(s.Rest.EndsAt) {
		t.mu.Unlock()
		return false
	}

	s.Rest = RestState{}
	t.restGen++
	t.cancelRestPollLocked()
	if err := t.saveLocked(); err != nil {
		t.log.Error("saving state after rest expiry", "error", err)
	}
	t.mu.Unlock()

	// Fire-and-forget, outside the lock.
	t.notifier.RestExpired()
	return true
}

// resumeRestLocked reconciles a persisted countdown after a restart: a
// deadline already in the past resolves to Idle without a notification
// (expiry is a live-only side effect), a future one resumes polling.
func (t *Tracker) resumeRestLocked() {
	s := t.activeSessionLocked()
	if s == nil || !s.Rest.Active {
		return
	}
	if !t.now().Before(s.Rest.EndsAt) {
		s.Rest = RestState{}
		return
	}
	t.restGen++
	t.spawnRestPollLocked(t.restGen)
}

// SkipRest forces the timer to Idle immediately. Skip is silent: no
// notification fires.
func (t *Tracker) SkipRest() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.activeSessionLocked()
	if s == nil {
		return ErrNoActiveSession
	}
	if !s.Rest.Active {
		return nil
	}
	t.stopRestLocked(s)
	return t.saveLocked()
}

// RestRemaining reports whether the countdown is running and how many whole
// seconds remain, clamped to zero. Querying never mutates state.
func (t *Tracker) RestRemaining() (active bool, seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.activeSessionLocked()
	if s == nil || !s.Rest.Active {
		return false, 0
	}
	rem := s.Rest.EndsAt.Sub(t.now()).Seconds()
	if rem < 0 {
		rem = 0
	}
	return true, int(math.Ceil(rem))
}
