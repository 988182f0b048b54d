package gesture

import (
	"math"

	"github.com/DeltaFoundry/TouchRelay/internal/command"
)

// panState tracks one in-flight pan gesture.
//
// lastX/lastY hold the cumulative offset seen on the previous event so each
// pan-move can be reduced to an incremental delta; the source reports offsets
// from gesture start, and forwarding those directly would repeat motion.
// scrollAcc is meaningful only while pointers == 2 and is always zero while
// inactive.
type panState struct {
	active    bool
	pointers  int
	lastX     float64
	lastY     float64
	scrollAcc float64
}

func (t *Translator) handlePanStart(pointers int, x, y float64) {
	t.pan = panState{
		active:   true,
		pointers: pointers,
		lastX:    x,
		lastY:    y,
	}
}

func (t *Translator) handlePanMove(x, y float64) {
	if !t.pan.active {
		return
	}

	incX := x - t.pan.lastX
	incY := y - t.pan.lastY
	t.pan.lastX = x
	t.pan.lastY = y

	switch t.pan.pointers {
	case 1:
		factor := t.sensitivity()
		dx := int(math.Round(incX * factor))
		dy := int(math.Round(incY * factor))
		// Sub-pixel jitter rounds to (0,0); suppress rather than send a no-op.
		if dx == 0 && dy == 0 {
			return
		}
		t.emit(command.Move{DX: dx, DY: dy})

	case 2:
		acc, ticks, dir := quantizeScroll(t.pan.scrollAcc, incY)
		t.pan.scrollAcc = acc
		for i := 0; i < ticks; i++ {
			t.emit(command.ScrollUnit{Direction: dir})
		}

	default:
		// Reserved for future gestures.
	}
}

// handlePanEnd resets the pan state unconditionally. Cancel is treated
// identically to a normal end.
func (t *Translator) handlePanEnd() {
	t.pan = panState{}
}
