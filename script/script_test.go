package script

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"swfplay/swf/event"
)

func TestCall_String(t *testing.T) {
	tests := []struct {
		name string
		call Call
		want string
	}{
		{
			name: "event",
			call: Call{Kind: CallEvent, Trigger: event.TriggerLoad, Payload: []byte{0x07, 0}, Target: "_root.a"},
			want: "event load _root.a [2 bytes]",
		},
		{
			name: "key press",
			call: Call{Kind: CallEvent, Trigger: event.TriggerKeyPress, KeyCode: 13, Payload: []byte{0}, Target: "_root"},
			want: "event keyPress(13) _root [1 bytes]",
		},
		{
			name: "frame",
			call: Call{Kind: CallFrame, Payload: []byte{0}, Target: "_root.s"},
			want: "frame _root.s [1 bytes]",
		},
		{
			name: "init",
			call: Call{Kind: CallInit, Target: "_root.s"},
			want: "init _root.s [0 bytes]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.call.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := CallKind(7).String(); got != "CallKind(7)" {
		t.Errorf("String() = %q", got)
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	for _, target := range []string{"_root.a", "_root.b"} {
		if err := rec.Handle(Call{Kind: CallFrame, Target: target}); err != nil {
			t.Fatal(err)
		}
	}
	if len(rec.Calls) != 2 || rec.Calls[1].Target != "_root.b" {
		t.Errorf("Calls = %v", rec.Calls)
	}
	rec.Reset()
	if len(rec.Calls) != 0 {
		t.Errorf("Calls after Reset() = %v", rec.Calls)
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewLogger(zap.New(core))
	if err := l.Handle(Call{Kind: CallEvent, Trigger: event.TriggerUnload, Payload: []byte{0}, Target: "_root.x"}); err != nil {
		t.Fatal(err)
	}
	entries := logs.FilterMessage("Script call").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %v", logs.All())
	}
	fields := entries[0].ContextMap()
	if fields["target"] != "_root.x" || fields["trigger"] != "unload" {
		t.Errorf("fields = %v", fields)
	}
}

func TestTee(t *testing.T) {
	errFirst := errors.New("first")
	var order []string
	tee := Tee{
		Func(func(Call) error { order = append(order, "a"); return errFirst }),
		Func(func(Call) error { order = append(order, "b"); return errors.New("second") }),
	}
	err := tee.Handle(Call{})
	if !errors.Is(err, errFirst) || len(multierr.Errors(err)) != 2 {
		t.Errorf("Handle() error = %v, want both errors", err)
	}
	if len(order) != 2 {
		t.Errorf("order = %v, every engine must be called", order)
	}
}
