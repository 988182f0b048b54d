// Package input defines the boundary to OS-level input injection.
//
// TouchRelay does not perform injection itself; a platform backend satisfies
// Injector. The package ships a logging implementation for development and
// for platforms without a backend.
package input

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/DeltaFoundry/TouchRelay/internal/command"
)

// Injector applies decoded remote-input commands to the local machine.
type Injector interface {
	MouseMove(dx, dy int) error
	Scroll(direction int) error
	Click(button command.Button, count int) error
	TypeText(text string) error
	PressKey(name string) error
}

// keyNames maps accepted wire key names to the injected key. The Delete
// button on the client sends a Backspace, matching what a soft keyboard's
// delete does.
var keyNames = map[string]string{
	"Escape":   "Escape",
	"PageUp":   "PageUp",
	"PageDown": "PageDown",
	"Delete":   "Backspace",
	"Return":   "Return",
}

// ResolveKey validates a wire key name and returns the key to inject.
func ResolveKey(name string) (string, error) {
	key, ok := keyNames[name]
	if !ok {
		return "", fmt.Errorf("unknown key: %q", name)
	}
	return key, nil
}

// LogInjector logs every command instead of injecting it.
type LogInjector struct {
	log zerolog.Logger
}

// NewLogInjector creates a logging injector.
func NewLogInjector(log zerolog.Logger) *LogInjector {
	return &LogInjector{log: log}
}

func (l *LogInjector) MouseMove(dx, dy int) error {
	l.log.Info().Int("dx", dx).Int("dy", dy).Msg("mouse move")
	return nil
}

func (l *LogInjector) Scroll(direction int) error {
	l.log.Info().Int("direction", direction).Msg("scroll tick")
	return nil
}

func (l *LogInjector) Click(button command.Button, count int) error {
	l.log.Info().Str("button", button.String()).Int("count", count).Msg("click")
	return nil
}

func (l *LogInjector) TypeText(text string) error {
	l.log.Info().Int("length", len(text)).Msg("text input")
	return nil
}

func (l *LogInjector) PressKey(name string) error {
	key, err := ResolveKey(name)
	if err != nil {
		return err
	}
	l.log.Info().Str("key", key).Msg("key press")
	return nil
}
