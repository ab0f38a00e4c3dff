// Package event decodes clip event handler blocks attached to placements.
package event

import "fmt"

// Trigger identifies what fires an event binding.
type Trigger int

const (
	TriggerInvalid Trigger = iota
	TriggerLoad
	TriggerEnterFrame
	TriggerUnload
	TriggerMouseMove
	TriggerMouseDown
	TriggerMouseUp
	TriggerKeyDown
	TriggerKeyUp
	TriggerData
	TriggerInitialize
	TriggerPress
	TriggerRelease
	TriggerReleaseOutside
	TriggerRollOver
	TriggerRollOut
	TriggerDragOver
	TriggerDragOut
	TriggerKeyPress
	TriggerConstruct
)

var triggerNames = map[Trigger]string{
	TriggerInvalid:        "invalid",
	TriggerLoad:           "load",
	TriggerEnterFrame:     "enterFrame",
	TriggerUnload:         "unload",
	TriggerMouseMove:      "mouseMove",
	TriggerMouseDown:      "mouseDown",
	TriggerMouseUp:        "mouseUp",
	TriggerKeyDown:        "keyDown",
	TriggerKeyUp:          "keyUp",
	TriggerData:           "data",
	TriggerInitialize:     "initialize",
	TriggerPress:          "press",
	TriggerRelease:        "release",
	TriggerReleaseOutside: "releaseOutside",
	TriggerRollOver:       "rollOver",
	TriggerRollOut:        "rollOut",
	TriggerDragOver:       "dragOver",
	TriggerDragOut:        "dragOut",
	TriggerKeyPress:       "keyPress",
	TriggerConstruct:      "construct",
}

func (t Trigger) String() string {
	if n, ok := triggerNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// MarshalText lets triggers appear by name in yaml and cbor dumps.
func (t Trigger) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTrigger maps a name produced by String back to a Trigger.
func ParseTrigger(name string) (Trigger, error) {
	for t, n := range triggerNames {
		if n == name && t != TriggerInvalid {
			return t, nil
		}
	}
	return TriggerInvalid, fmt.Errorf("event: unknown trigger %q", name)
}

// TableSize is the number of bit positions covered by the trigger table.
const TableSize = 20

// KeyPressBit is the mask position carrying a key code.
const KeyPressBit = 17

// bitTriggers maps a mask bit position to its trigger. Positions mapped to
// TriggerInvalid are reserved by the container format.
var bitTriggers = [TableSize]Trigger{
	TriggerLoad,
	TriggerEnterFrame,
	TriggerUnload,
	TriggerMouseMove,
	TriggerMouseDown,
	TriggerMouseUp,
	TriggerKeyDown,
	TriggerKeyUp,

	TriggerData,
	TriggerInitialize,
	TriggerPress,
	TriggerRelease,
	TriggerReleaseOutside,
	TriggerRollOver,
	TriggerRollOut,
	TriggerDragOver,

	TriggerDragOut,
	TriggerKeyPress,
	TriggerConstruct,
	TriggerInvalid,
}

// knownMask has a bit set for every position with a real trigger.
var knownMask = func() uint32 {
	var m uint32
	for i, t := range bitTriggers {
		if t != TriggerInvalid {
			m |= 1 << i
		}
	}
	return m
}()

// TriggerAt returns the trigger for a mask bit position, false for reserved
// or out of range positions.
func TriggerAt(bit int) (Trigger, bool) {
	if bit < 0 || bit >= TableSize || bitTriggers[bit] == TriggerInvalid {
		return TriggerInvalid, false
	}
	return bitTriggers[bit], true
}

// BitOf is the inverse of TriggerAt.
func BitOf(t Trigger) (int, bool) {
	for i, v := range bitTriggers {
		if v == t && t != TriggerInvalid {
			return i, true
		}
	}
	return -1, false
}

// Mask builds a trigger mask from triggers.
func Mask(triggers ...Trigger) uint32 {
	var m uint32
	for _, t := range triggers {
		if bit, ok := BitOf(t); ok {
			m |= 1 << bit
		}
	}
	return m
}

// Binding is one handler: the trigger and the opaque action payload the
// scripting engine runs. KeyCode is meaningful only for TriggerKeyPress.
type Binding struct {
	Trigger Trigger `yaml:"trigger" cbor:"trigger"`
	KeyCode uint8   `yaml:"key_code,omitempty" cbor:"key_code,omitempty"`
	// Payload is shared by all bindings decoded from the same record and
	// must not be modified.
	Payload []byte `yaml:"-" cbor:"payload"`
}

// Matches reports whether the binding handles the trigger (and, for key
// presses, the key code).
func (b Binding) Matches(t Trigger, key uint8) bool {
	if b.Trigger != t {
		return false
	}
	return t != TriggerKeyPress || b.KeyCode == key
}
