// Package command defines the remote-input command set and its wire format.
//
// Each command is transmitted as a JSON array whose first element is a
// one-character operation code, e.g. ["m",4,-2] for a relative mouse move.
package command

import (
	"encoding/json"
	"fmt"
)

// Operation codes on the wire.
const (
	opMove   = "m"
	opWheel  = "w"
	opButton = "b"
	opText   = "t"
	opKey    = "k"
	opPing   = "ping"
)

// Button identifies a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

func (b Button) String() string {
	if b == ButtonRight {
		return "r"
	}
	return "l"
}

// Command is one remote-input command. It is a closed set: Move, ScrollUnit,
// Click, Text, Key and Ping.
type Command interface {
	// Op returns the one-character wire operation code.
	Op() string
}

// Move is a relative mouse move. Producers never emit Move{0,0}.
type Move struct {
	DX int
	DY int
}

func (Move) Op() string { return opMove }

// ScrollUnit is a single scroll-wheel tick. Direction is +1 (scroll up)
// or -1 (scroll down).
type ScrollUnit struct {
	Direction int
}

func (ScrollUnit) Op() string { return opWheel }

// Click is a button click. Count is 1 or 2.
type Click struct {
	Button Button
	Count  int
}

func (Click) Op() string { return opButton }

// Text is literal text to inject on the receiver.
type Text struct {
	Content string
}

func (Text) Op() string { return opText }

// Key is a named key press (Escape, PageUp, PageDown, Delete, Return).
type Key struct {
	Name string
}

func (Key) Op() string { return opKey }

// Ping is an application-level heartbeat. It carries no arguments and the
// receiver ignores it.
type Ping struct{}

func (Ping) Op() string { return opPing }

// Marshal encodes a command as its wire tuple.
func Marshal(c Command) ([]byte, error) {
	var tuple []interface{}

	switch cmd := c.(type) {
	case Move:
		tuple = []interface{}{opMove, cmd.DX, cmd.DY}
	case ScrollUnit:
		tuple = []interface{}{opWheel, cmd.Direction}
	case Click:
		tuple = []interface{}{opButton, cmd.Button.String(), cmd.Count}
	case Text:
		tuple = []interface{}{opText, cmd.Content}
	case Key:
		tuple = []interface{}{opKey, cmd.Name}
	case Ping:
		tuple = []interface{}{opPing}
	default:
		return nil, fmt.Errorf("unknown command type %T", c)
	}

	return json.Marshal(tuple)
}

// Unmarshal decodes a wire tuple into a command, validating the operation
// code, arity and argument types. It does not enforce producer-side
// invariants such as non-zero moves.
func Unmarshal(data []byte) (Command, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return nil, fmt.Errorf("message is not an array: %w", err)
	}
	if len(tuple) == 0 {
		return nil, fmt.Errorf("empty message array")
	}

	var op string
	if err := json.Unmarshal(tuple[0], &op); err != nil {
		return nil, fmt.Errorf("invalid operation code: %w", err)
	}

	switch op {
	case opMove:
		if len(tuple) < 3 {
			return nil, fmt.Errorf("invalid mouse move message")
		}
		var dx, dy int
		if err := json.Unmarshal(tuple[1], &dx); err != nil {
			return nil, fmt.Errorf("invalid dx: %w", err)
		}
		if err := json.Unmarshal(tuple[2], &dy); err != nil {
			return nil, fmt.Errorf("invalid dy: %w", err)
		}
		return Move{DX: dx, DY: dy}, nil

	case opWheel:
		if len(tuple) < 2 {
			return nil, fmt.Errorf("invalid wheel message")
		}
		var dir int
		if err := json.Unmarshal(tuple[1], &dir); err != nil {
			return nil, fmt.Errorf("invalid direction: %w", err)
		}
		if dir != 1 && dir != -1 {
			return nil, fmt.Errorf("wheel direction out of range: %d", dir)
		}
		return ScrollUnit{Direction: dir}, nil

	case opButton:
		if len(tuple) < 3 {
			return nil, fmt.Errorf("invalid button click message")
		}
		var btn string
		if err := json.Unmarshal(tuple[1], &btn); err != nil {
			return nil, fmt.Errorf("invalid button type: %w", err)
		}
		var count int
		if err := json.Unmarshal(tuple[2], &count); err != nil {
			return nil, fmt.Errorf("invalid click count: %w", err)
		}
		if count < 1 || count > 2 {
			return nil, fmt.Errorf("click count out of range: %d", count)
		}
		switch btn {
		case "l":
			return Click{Button: ButtonLeft, Count: count}, nil
		case "r":
			return Click{Button: ButtonRight, Count: count}, nil
		default:
			return nil, fmt.Errorf("unknown button type: %q", btn)
		}

	case opText:
		if len(tuple) < 2 {
			return nil, fmt.Errorf("invalid text message")
		}
		var content string
		if err := json.Unmarshal(tuple[1], &content); err != nil {
			return nil, fmt.Errorf("invalid text content: %w", err)
		}
		return Text{Content: content}, nil

	case opKey:
		if len(tuple) < 2 {
			return nil, fmt.Errorf("invalid key press message")
		}
		var name string
		if err := json.Unmarshal(tuple[1], &name); err != nil {
			return nil, fmt.Errorf("invalid key name: %w", err)
		}
		return Key{Name: name}, nil

	case opPing:
		return Ping{}, nil

	default:
		return nil, fmt.Errorf("unknown command: %q", op)
	}
}
