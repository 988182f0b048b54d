package gesture

import "math"

// scrollThreshold is the accumulated vertical distance that produces one
// scroll tick. It is measured in raw incremental-delta units and is not
// scaled by the move factor.
const scrollThreshold = 20.0

// quantizeScroll folds an incremental vertical delta into the running
// accumulator and returns the new accumulator together with the number of
// whole scroll ticks crossed and their direction.
//
// Swipe-down (positive delta) maps to scroll-down, so the tick direction is
// the inverse of the accumulator sign. The remainder keeps the sign of the
// pre-quantization accumulator so slow, steady swiping never loses
// fractional progress between calls.
func quantizeScroll(acc, dy float64) (newAcc float64, ticks, direction int) {
	acc += dy

	mag := math.Abs(acc)
	if mag < scrollThreshold {
		return acc, 0, 0
	}

	ticks = int(mag / scrollThreshold)
	if acc > 0 {
		direction = -1
	} else {
		direction = 1
	}

	newAcc = math.Mod(mag, scrollThreshold)
	if acc < 0 {
		newAcc = -newAcc
	}
	return newAcc, ticks, direction
}
