package event

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"swfplay/swf/stream"
)

// stop + end
var stopActions = []byte{0x07, 0x00}

func newLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func encode(version uint8, records ...Record) []byte {
	w := stream.NewWriter()
	WriteBlock(w, version, records)
	return w.Bytes()
}

func TestReadBlock_TwoLowestBitsShareOnePayload(t *testing.T) {
	data := encode(6, Record{Mask: 0x3, Payload: stopActions})

	r := stream.NewReader(data)
	blk, err := ReadBlock(r, 6, newLogger(t))
	if err != nil {
		t.Fatalf("ReadBlock() error = %v", err)
	}
	if blk.AllTriggers != 0x3 {
		t.Errorf("AllTriggers = %#x, want 0x3", blk.AllTriggers)
	}
	if len(blk.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(blk.Bindings))
	}

	want0, _ := TriggerAt(0)
	want1, _ := TriggerAt(1)
	if blk.Bindings[0].Trigger != want0 || blk.Bindings[1].Trigger != want1 {
		t.Errorf("triggers = %v, %v, want %v, %v", blk.Bindings[0].Trigger, blk.Bindings[1].Trigger, want0, want1)
	}
	if want0 != TriggerLoad || want1 != TriggerEnterFrame {
		t.Errorf("table positions 0,1 = %v,%v, want load,enterFrame", want0, want1)
	}
	if &blk.Bindings[0].Payload[0] != &blk.Bindings[1].Payload[0] {
		t.Error("bindings do not share one payload")
	}
	if r.Position() != len(data) {
		t.Errorf("Position() = %d, want %d", r.Position(), len(data))
	}
}

func TestReadBlock_KeyPressConsumesOneByte(t *testing.T) {
	withKey := encode(6, Record{Mask: 1 << KeyPressBit, KeyCode: 13, Payload: stopActions})
	withoutKey := encode(6, Record{Mask: 1 << 6, Payload: stopActions})

	if len(withKey) != len(withoutKey)+1 {
		t.Fatalf("encoded sizes %d and %d differ by more than the key code", len(withKey), len(withoutKey))
	}

	blk, err := ReadBlock(stream.NewReader(withKey), 6, newLogger(t))
	if err != nil {
		t.Fatalf("ReadBlock() error = %v", err)
	}
	if len(blk.Bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(blk.Bindings))
	}
	b := blk.Bindings[0]
	if b.Trigger != TriggerKeyPress || b.KeyCode != 13 {
		t.Errorf("binding = %v/%d, want keyPress/13", b.Trigger, b.KeyCode)
	}
	if !bytes.Equal(b.Payload, stopActions) {
		t.Errorf("payload = %v, want %v", b.Payload, stopActions)
	}

	blk, err = ReadBlock(stream.NewReader(withoutKey), 6, newLogger(t))
	if err != nil {
		t.Fatalf("ReadBlock() error = %v", err)
	}
	if blk.Bindings[0].KeyCode != 0 || !bytes.Equal(blk.Bindings[0].Payload, stopActions) {
		t.Errorf("binding without key press = %+v", blk.Bindings[0])
	}
}

func TestReadBlock_NarrowMasksBeforeVersion6(t *testing.T) {
	narrow := encode(5, Record{Mask: Mask(TriggerUnload), Payload: stopActions})
	wide := encode(6, Record{Mask: Mask(TriggerUnload), Payload: stopActions})
	// aggregate, record and terminator masks are two bytes shorter each
	if len(wide)-len(narrow) != 6 {
		t.Errorf("size difference = %d, want 6", len(wide)-len(narrow))
	}
	blk, err := ReadBlock(stream.NewReader(narrow), 5, newLogger(t))
	if err != nil {
		t.Fatalf("ReadBlock() error = %v", err)
	}
	if len(blk.Bindings) != 1 || blk.Bindings[0].Trigger != TriggerUnload {
		t.Errorf("bindings = %+v", blk.Bindings)
	}
}

func TestReadBlock_ReservedBitsDropped(t *testing.T) {
	data := encode(6, Record{Mask: 1<<19 | 1<<25 | Mask(TriggerPress), Payload: stopActions})

	blk, err := ReadBlock(stream.NewReader(data), 6, newLogger(t))
	if err != nil {
		t.Fatalf("ReadBlock() error = %v", err)
	}
	if len(blk.Bindings) != 1 || blk.Bindings[0].Trigger != TriggerPress {
		t.Errorf("bindings = %+v, want single press", blk.Bindings)
	}
	if len(blk.Issues) != 1 || !errors.Is(blk.Issues[0], ErrUnknownTriggerBits) {
		t.Errorf("issues = %v", blk.Issues)
	}
}

func TestReadBlock_ReservedFieldIsNotFatal(t *testing.T) {
	data := encode(6, Record{Mask: Mask(TriggerLoad), Payload: stopActions})
	data[0] = 0x01

	blk, err := ReadBlock(stream.NewReader(data), 6, newLogger(t))
	if err != nil {
		t.Fatalf("ReadBlock() error = %v", err)
	}
	if len(blk.Bindings) != 1 {
		t.Errorf("got %d bindings, want 1", len(blk.Bindings))
	}
	if len(blk.Issues) != 1 || !errors.Is(blk.Issues[0], ErrReservedNonZero) {
		t.Errorf("issues = %v", blk.Issues)
	}
}

func TestReadBlock_LengthBeyondTag(t *testing.T) {
	w := stream.NewWriter()
	w.WriteU16(0)
	w.WriteU32(1)
	w.WriteU32(1)
	w.WriteU32(1000)
	w.WriteBytes(stopActions)
	data := w.Bytes()

	r := stream.NewReader(data)
	r.OpenTag(len(data))
	_, err := ReadBlock(r, 6, newLogger(t))
	if !errors.Is(err, ErrEventOverrun) {
		t.Errorf("ReadBlock() error = %v, want ErrEventOverrun", err)
	}
}

func TestReadBlock_ShortActionsSkipRemainder(t *testing.T) {
	payload := append([]byte{}, stopActions...)
	payload = append(payload, 0xAA, 0xBB)
	data := encode(6, Record{Mask: Mask(TriggerLoad), Payload: payload})

	r := stream.NewReader(data)
	blk, err := ReadBlock(r, 6, newLogger(t))
	if err != nil {
		t.Fatalf("ReadBlock() error = %v", err)
	}
	if !bytes.Equal(blk.Bindings[0].Payload, stopActions) {
		t.Errorf("payload = %v, want %v", blk.Bindings[0].Payload, stopActions)
	}
	if len(blk.Issues) != 1 || !errors.Is(blk.Issues[0], ErrPayloadMismatch) {
		t.Errorf("issues = %v", blk.Issues)
	}
	if r.Position() != len(data) {
		t.Errorf("Position() = %d, want %d", r.Position(), len(data))
	}
}

func TestReadBlock_ActionsPastDeclaredLengthTruncated(t *testing.T) {
	w := stream.NewWriter()
	w.WriteU16(0)
	w.WriteU32(Mask(TriggerLoad, TriggerUnload))
	w.WriteU32(Mask(TriggerLoad))
	w.WriteU32(3)
	// no end marker within the declared three bytes
	w.WriteBytes([]byte{0x07, 0x06, 0x07})
	w.WriteU32(Mask(TriggerUnload))
	w.WriteU32(uint32(len(stopActions)))
	w.WriteBytes(stopActions)
	w.WriteU32(0)
	data := w.Bytes()

	r := stream.NewReader(data)
	r.OpenTag(len(data))
	blk, err := ReadBlock(r, 6, newLogger(t))
	if err != nil {
		t.Fatalf("ReadBlock() error = %v", err)
	}
	if len(blk.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(blk.Bindings))
	}
	if got := blk.Bindings[0].Payload; !bytes.Equal(got, []byte{0x07, 0x06, 0x07}) {
		t.Errorf("load payload = %v, want declared three bytes", got)
	}
	if blk.Bindings[1].Trigger != TriggerUnload || !bytes.Equal(blk.Bindings[1].Payload, stopActions) {
		t.Errorf("record after truncated one = %+v", blk.Bindings[1])
	}
	if len(blk.Issues) != 1 || !errors.Is(blk.Issues[0], ErrPayloadMismatch) {
		t.Errorf("issues = %v", blk.Issues)
	}
	if r.Position() != len(data) {
		t.Errorf("Position() = %d, want %d", r.Position(), len(data))
	}
}

func TestActionStreamLen(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		n        int
		complete bool
	}{
		{"empty", nil, 0, true},
		{"end only", []byte{0}, 1, true},
		{"short record", []byte{0x07, 0x00, 0x99}, 2, true},
		{"long record", []byte{0x81, 0x02, 0x00, 0x05, 0x00, 0x00}, 6, true},
		{"no end", []byte{0x07, 0x06}, 2, false},
		{"long record cut", []byte{0x96, 0x09, 0x00, 0x01}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, complete := ActionStreamLen(tt.data)
			if n != tt.n || complete != tt.complete {
				t.Errorf("ActionStreamLen() = %d, %v, want %d, %v", n, complete, tt.n, tt.complete)
			}
		})
	}
}

func TestTriggerTable(t *testing.T) {
	known := 0
	for bit := range TableSize {
		trig, ok := TriggerAt(bit)
		if !ok {
			continue
		}
		known++
		if back, _ := BitOf(trig); back != bit {
			t.Errorf("BitOf(%v) = %d, want %d", trig, back, bit)
		}
		if parsed, err := ParseTrigger(trig.String()); err != nil || parsed != trig {
			t.Errorf("ParseTrigger(%q) = %v, %v", trig.String(), parsed, err)
		}
	}
	if known != 19 {
		t.Errorf("known positions = %d, want 19", known)
	}
	if trig, _ := TriggerAt(KeyPressBit); trig != TriggerKeyPress {
		t.Errorf("TriggerAt(KeyPressBit) = %v", trig)
	}
	if _, ok := TriggerAt(TableSize); ok {
		t.Error("TriggerAt(TableSize) reported known")
	}
}

func TestBinding_Matches(t *testing.T) {
	key := Binding{Trigger: TriggerKeyPress, KeyCode: 32}
	if !key.Matches(TriggerKeyPress, 32) || key.Matches(TriggerKeyPress, 33) {
		t.Error("key press binding must match by key code")
	}
	load := Binding{Trigger: TriggerLoad}
	if !load.Matches(TriggerLoad, 99) || load.Matches(TriggerUnload, 0) {
		t.Error("load binding matches wrong triggers")
	}
}
