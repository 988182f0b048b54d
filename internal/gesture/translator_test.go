package gesture

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/DeltaFoundry/TouchRelay/internal/command"
)

// recorder collects every command the translator emits.
type recorder struct {
	cmds []command.Command
}

func (r *recorder) send(c command.Command) bool {
	r.cmds = append(r.cmds, c)
	return true
}

func newTestTranslator(factor float64) (*Translator, *recorder, *fakeClock) {
	rec := &recorder{}
	clock := newFakeClock()
	tr := NewTranslator(rec.send, func() float64 { return factor }, clock, zerolog.Nop())
	return tr, rec, clock
}

func TestPanMoveEmitsIncrementalDeltas(t *testing.T) {
	tr, rec, _ := newTestTranslator(1.0)

	tr.Handle(Event{Type: EventPanStart, Pointers: 1, X: 0, Y: 0})
	tr.Handle(Event{Type: EventPanMove, X: 10, Y: 4})
	tr.Handle(Event{Type: EventPanMove, X: 13, Y: 4})

	want := []command.Command{
		command.Move{DX: 10, DY: 4},
		command.Move{DX: 3, DY: 0},
	}
	if len(rec.cmds) != len(want) {
		t.Fatalf("expected %d commands, got %d: %#v", len(want), len(rec.cmds), rec.cmds)
	}
	for i := range want {
		if rec.cmds[i] != want[i] {
			t.Errorf("command %d: got %#v, want %#v", i, rec.cmds[i], want[i])
		}
	}
}

func TestPanMoveAppliesSensitivity(t *testing.T) {
	tr, rec, _ := newTestTranslator(2.0)

	tr.Handle(Event{Type: EventPanStart, Pointers: 1, X: 0, Y: 0})
	tr.Handle(Event{Type: EventPanMove, X: 3, Y: -1.6})

	if len(rec.cmds) != 1 {
		t.Fatalf("expected one command, got %d", len(rec.cmds))
	}
	if rec.cmds[0] != (command.Move{DX: 6, DY: -3}) {
		t.Fatalf("got %#v", rec.cmds[0])
	}
}

func TestPanMoveSuppressesZeroMoves(t *testing.T) {
	tr, rec, _ := newTestTranslator(1.0)

	tr.Handle(Event{Type: EventPanStart, Pointers: 1, X: 0, Y: 0})
	tr.Handle(Event{Type: EventPanMove, X: 0.2, Y: 0.3})
	tr.Handle(Event{Type: EventPanMove, X: 0.4, Y: 0.4})

	if len(rec.cmds) != 0 {
		t.Fatalf("jitter-sized deltas must not emit moves, got %#v", rec.cmds)
	}
}

func TestTwoPointerPanScrolls(t *testing.T) {
	tr, rec, _ := newTestTranslator(1.0)

	tr.Handle(Event{Type: EventPanStart, Pointers: 2, X: 0, Y: 0})
	tr.Handle(Event{Type: EventPanMove, X: 0, Y: 15})
	if len(rec.cmds) != 0 {
		t.Fatalf("below threshold, expected no commands, got %#v", rec.cmds)
	}

	tr.Handle(Event{Type: EventPanMove, X: 0, Y: 30})
	if len(rec.cmds) != 1 {
		t.Fatalf("expected one scroll tick, got %d", len(rec.cmds))
	}
	if rec.cmds[0] != (command.ScrollUnit{Direction: -1}) {
		t.Fatalf("got %#v", rec.cmds[0])
	}
	if tr.pan.scrollAcc != 10 {
		t.Fatalf("expected carried remainder 10, got %v", tr.pan.scrollAcc)
	}
}

func TestTwoPointerPanIgnoresSensitivity(t *testing.T) {
	tr, rec, _ := newTestTranslator(3.0)

	tr.Handle(Event{Type: EventPanStart, Pointers: 2, X: 0, Y: 0})
	tr.Handle(Event{Type: EventPanMove, X: 0, Y: 15})

	// 15 * 3.0 would cross the threshold; raw 15 must not.
	if len(rec.cmds) != 0 {
		t.Fatalf("scroll threshold must use raw deltas, got %#v", rec.cmds)
	}
}

func TestThreePointerPanEmitsNothing(t *testing.T) {
	tr, rec, _ := newTestTranslator(1.0)

	tr.Handle(Event{Type: EventPanStart, Pointers: 3, X: 0, Y: 0})
	tr.Handle(Event{Type: EventPanMove, X: 50, Y: 50})

	if len(rec.cmds) != 0 {
		t.Fatalf("unhandled pointer counts must emit nothing, got %#v", rec.cmds)
	}
}

func TestPanEndResetsState(t *testing.T) {
	tr, _, _ := newTestTranslator(1.0)

	tr.Handle(Event{Type: EventPanStart, Pointers: 2, X: 5, Y: 5})
	tr.Handle(Event{Type: EventPanMove, X: 5, Y: 17})
	tr.Handle(Event{Type: EventPanEnd})

	if tr.pan != (panState{}) {
		t.Fatalf("pan end must zero all state, got %#v", tr.pan)
	}
}

func TestPanCancelResetsState(t *testing.T) {
	tr, _, _ := newTestTranslator(1.0)

	tr.Handle(Event{Type: EventPanStart, Pointers: 1, X: 0, Y: 0})
	tr.Handle(Event{Type: EventPanMove, X: 40, Y: 2})
	tr.Handle(Event{Type: EventPanCancel})

	if tr.pan != (panState{}) {
		t.Fatalf("pan cancel must zero all state, got %#v", tr.pan)
	}
}

func TestPanMoveWithoutStartIsIgnored(t *testing.T) {
	tr, rec, _ := newTestTranslator(1.0)

	tr.Handle(Event{Type: EventPanMove, X: 100, Y: 100})

	if len(rec.cmds) != 0 {
		t.Fatalf("move without start must emit nothing, got %#v", rec.cmds)
	}
}
