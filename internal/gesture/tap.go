package gesture

import (
	"time"

	"github.com/DeltaFoundry/TouchRelay/internal/command"
)

const (
	// doubleTapWindow is how long a tap waits for a second tap before it is
	// committed as a single left click. Shorter feels snappier but misses
	// double taps; 180ms is the compromise.
	doubleTapWindow = 180 * time.Millisecond

	// twoFingerSuppressWindow discards a single tap arriving just after a
	// two-finger tap. The recognizer tends to mis-report a trailing single
	// tap when the second finger lifts late.
	twoFingerSuppressWindow = 500 * time.Millisecond
)

// tapState resolves single tap vs. double tap vs. suppressed tap.
//
// At most one pending single-tap timer exists at any instant; gen is bumped
// whenever the pending timer is replaced or cancelled so a stale expiry that
// already left the clock can never fire a click.
type tapState struct {
	lastTap       time.Time
	lastTwoFinger time.Time
	pending       Timer
	gen           uint64
}

func (t *Translator) handleTap() {
	if t.pan.active {
		t.log.Debug().Msg("tap during active pan discarded")
		return
	}

	now := t.clock.Now()

	if !t.tap.lastTwoFinger.IsZero() && now.Sub(t.tap.lastTwoFinger) < twoFingerSuppressWindow {
		t.log.Debug().Msg("tap suppressed after two-finger tap")
		return
	}

	if t.tap.pending != nil && !t.tap.lastTap.IsZero() && now.Sub(t.tap.lastTap) < doubleTapWindow {
		t.cancelPendingTap()
		// Zeroed so a third rapid tap starts a fresh pair instead of
		// being mis-paired with this one.
		t.tap.lastTap = time.Time{}
		t.emit(command.Click{Button: command.ButtonLeft, Count: 2})
		return
	}

	t.cancelPendingTap()
	t.tap.lastTap = now
	t.tap.gen++
	gen := t.tap.gen
	t.tap.pending = t.clock.AfterFunc(doubleTapWindow, func() {
		t.commitSingleTap(gen)
	})
}

func (t *Translator) handleTwoFingerTap() {
	if t.pan.active {
		t.log.Debug().Msg("two-finger tap during active pan discarded")
		return
	}

	// No debounce: a right click is always immediate.
	t.tap.lastTwoFinger = t.clock.Now()
	t.emit(command.Click{Button: command.ButtonRight, Count: 1})
}

// commitSingleTap runs when the double-tap window elapses with no second
// tap. The generation check makes replacement race-free even if the timer
// callback was already in flight when the timer was cancelled.
func (t *Translator) commitSingleTap(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.tap.gen || t.tap.pending == nil {
		return
	}
	t.tap.pending = nil
	t.emit(command.Click{Button: command.ButtonLeft, Count: 1})
}

func (t *Translator) cancelPendingTap() {
	if t.tap.pending == nil {
		return
	}
	t.tap.pending.Stop()
	t.tap.pending = nil
	t.tap.gen++
}
