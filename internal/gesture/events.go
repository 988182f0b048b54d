// Package gesture translates classified multi-touch gesture primitives into
// remote-input commands.
//
// Multi-touch recognition itself is external: a gesture source delivers
// pan-start/move/end/cancel and tap primitives, and this package only
// consumes them. Pan events carry the cumulative offset from gesture start,
// not per-event deltas.
package gesture

// EventType identifies a gesture primitive.
type EventType int

const (
	EventPanStart EventType = iota
	EventPanMove
	EventPanEnd
	EventPanCancel
	EventTap
	EventTwoFingerTap
)

func (t EventType) String() string {
	switch t {
	case EventPanStart:
		return "pan_start"
	case EventPanMove:
		return "pan_move"
	case EventPanEnd:
		return "pan_end"
	case EventPanCancel:
		return "pan_cancel"
	case EventTap:
		return "tap"
	case EventTwoFingerTap:
		return "two_finger_tap"
	default:
		return "unknown"
	}
}

// Event is one gesture primitive from the gesture source.
//
// For pan events, X and Y are the cumulative offset from gesture start and
// Pointers is the number of active contacts. Tap events carry no payload;
// their timestamp is taken from the translator's clock on arrival.
type Event struct {
	Type     EventType
	Pointers int
	X, Y     float64
}

// Source produces a stream of gesture primitives.
type Source interface {
	Events() <-chan Event
}
