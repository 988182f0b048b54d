package gesture

import "testing"

func TestQuantizeScrollAccumulatesBelowThreshold(t *testing.T) {
	acc, ticks, _ := quantizeScroll(0, 15)
	if ticks != 0 {
		t.Fatalf("expected no ticks, got %d", ticks)
	}
	if acc != 15 {
		t.Fatalf("expected accumulator 15, got %v", acc)
	}
}

func TestQuantizeScrollEmitsWithRemainder(t *testing.T) {
	// Worked example: 15 + 15 crosses the threshold once, remainder 10.
	acc, ticks, _ := quantizeScroll(0, 15)
	acc, ticks, dir := quantizeScroll(acc, 15)
	if ticks != 1 {
		t.Fatalf("expected one tick, got %d", ticks)
	}
	if dir != -1 {
		t.Fatalf("swipe down should scroll down (direction -1), got %d", dir)
	}
	if acc != 10 {
		t.Fatalf("expected remainder 10, got %v", acc)
	}
}

func TestQuantizeScrollNegativeInvertsDirection(t *testing.T) {
	acc, ticks, dir := quantizeScroll(0, -45)
	if ticks != 2 {
		t.Fatalf("expected two ticks, got %d", ticks)
	}
	if dir != 1 {
		t.Fatalf("swipe up should scroll up (direction +1), got %d", dir)
	}
	if acc != -5 {
		t.Fatalf("remainder should keep the accumulator sign, got %v", acc)
	}
}

func TestQuantizeScrollMultipleTicks(t *testing.T) {
	acc, ticks, dir := quantizeScroll(5, 58)
	if ticks != 3 {
		t.Fatalf("expected three ticks for 63 accumulated, got %d", ticks)
	}
	if dir != -1 {
		t.Fatalf("expected direction -1, got %d", dir)
	}
	if acc != 3 {
		t.Fatalf("expected remainder 3, got %v", acc)
	}
}

func TestQuantizeScrollZeroAccumulator(t *testing.T) {
	acc, ticks, _ := quantizeScroll(0, 0)
	if ticks != 0 || acc != 0 {
		t.Fatalf("zero accumulator must not emit or change sign, got acc=%v ticks=%d", acc, ticks)
	}
}
