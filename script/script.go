// Package script defines how the player hands action payloads to a
// scripting engine. Payloads are never interpreted here.
package script

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"swfplay/swf/event"
)

// CallKind tells why the engine is called.
type CallKind int

const (
	// CallEvent is a clip event binding firing.
	CallEvent CallKind = iota
	// CallFrame runs actions attached to a frame.
	CallFrame
	// CallInit runs sprite initialization actions, once per sprite.
	CallInit
)

func (k CallKind) String() string {
	switch k {
	case CallEvent:
		return "event"
	case CallFrame:
		return "frame"
	case CallInit:
		return "init"
	}
	return fmt.Sprintf("CallKind(%d)", int(k))
}

func (k CallKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Call is one request to run actions.
type Call struct {
	Kind CallKind `yaml:"kind" cbor:"kind"`
	// Trigger is set for CallEvent only.
	Trigger event.Trigger `yaml:"trigger,omitempty" cbor:"trigger,omitempty"`
	// KeyCode is set for key press triggers only.
	KeyCode uint8 `yaml:"key_code,omitempty" cbor:"key_code,omitempty"`
	// Payload must not be modified, it is shared with the timeline.
	Payload []byte `yaml:"-" cbor:"payload"`
	// Target is the dotted path of the clip the actions run against, for
	// example "_root.menu.button".
	Target string `yaml:"target" cbor:"target"`
}

func (c Call) String() string {
	switch c.Kind {
	case CallEvent:
		if c.Trigger == event.TriggerKeyPress {
			return fmt.Sprintf("%s %s(%d) %s [%d bytes]", c.Kind, c.Trigger, c.KeyCode, c.Target, len(c.Payload))
		}
		return fmt.Sprintf("%s %s %s [%d bytes]", c.Kind, c.Trigger, c.Target, len(c.Payload))
	default:
		return fmt.Sprintf("%s %s [%d bytes]", c.Kind, c.Target, len(c.Payload))
	}
}

// Engine runs action payloads. Errors are reported by the player and never
// stop playback.
type Engine interface {
	Handle(Call) error
}

// Func adapts a function to Engine.
type Func func(Call) error

func (f Func) Handle(c Call) error {
	return f(c)
}

// Recorder keeps every call, in order.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) Handle(c Call) error {
	r.Calls = append(r.Calls, c)
	return nil
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Logger is an engine which only logs calls.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log.Named("script")}
}

func (l *Logger) Handle(c Call) error {
	l.log.Info("Script call",
		zap.Stringer("kind", c.Kind),
		zap.Stringer("trigger", c.Trigger),
		zap.Uint8("key", c.KeyCode),
		zap.String("target", c.Target),
		zap.Int("payload", len(c.Payload)))
	return nil
}

// Tee passes every call to all engines and combines their errors.
type Tee []Engine

func (t Tee) Handle(c Call) error {
	var err error
	for _, e := range t {
		err = multierr.Append(err, e.Handle(c))
	}
	return err
}
