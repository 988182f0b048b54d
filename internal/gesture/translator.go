package gesture

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/DeltaFoundry/TouchRelay/internal/command"
)

// Sender transmits one command. It reports false when the command was
// dropped, e.g. because the transport session is not connected.
type Sender func(command.Command) bool

// Translator converts gesture primitives into remote-input commands and
// hands them to a Sender.
//
// All events are dispatched through Handle, which serializes mutation of the
// pan and tap state. The single-tap expiry timer funnels through the same
// lock, so the translator behaves as one logical thread of control.
type Translator struct {
	mu          sync.Mutex
	clock       Clock
	send        Sender
	sensitivity func() float64
	log         zerolog.Logger

	pan panState
	tap tapState
}

// NewTranslator creates a translator. sensitivity is read on every
// single-pointer pan move, so a live config value can be passed directly.
func NewTranslator(send Sender, sensitivity func() float64, clock Clock, log zerolog.Logger) *Translator {
	return &Translator{
		clock:       clock,
		send:        send,
		sensitivity: sensitivity,
		log:         log,
	}
}

// Handle dispatches one gesture primitive.
func (t *Translator) Handle(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Type {
	case EventPanStart:
		t.handlePanStart(ev.Pointers, ev.X, ev.Y)
	case EventPanMove:
		t.handlePanMove(ev.X, ev.Y)
	case EventPanEnd, EventPanCancel:
		t.handlePanEnd()
	case EventTap:
		t.handleTap()
	case EventTwoFingerTap:
		t.handleTwoFingerTap()
	}
}

// Run consumes a gesture source until its channel closes.
func (t *Translator) Run(src Source) {
	for ev := range src.Events() {
		t.Handle(ev)
	}
}

// emit forwards a command to the sender. Callers hold t.mu. Rejected sends
// are logged and dropped; the transport reports its own health separately.
func (t *Translator) emit(c command.Command) {
	if !t.send(c) {
		t.log.Warn().Str("op", c.Op()).Msg("command dropped, session not connected")
	}
}
