package tag

import (
	"bytes"
	"testing"

	"swfplay/swf/event"
	"swfplay/swf/stream"
)

func decodeOne(t *testing.T, data []byte, version uint8) Record {
	t.Helper()
	d := NewDecoder(stream.NewReader(data), Options{Version: version}, newLogger(t))
	rec, err := d.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if d.Issues() != nil {
		t.Errorf("Issues() = %v", d.Issues())
	}
	return rec
}

func TestPlaceKindOf(t *testing.T) {
	cases := []struct {
		hasCharacter, move bool
		want               PlaceKind
	}{
		{true, true, PlaceKindReplace},
		{false, true, PlaceKindMove},
		{true, false, PlaceKindPlace},
		{false, false, PlaceKindRemove},
	}
	for _, tc := range cases {
		if got := PlaceKindOf(tc.hasCharacter, tc.move); got != tc.want {
			t.Errorf("PlaceKindOf(%v, %v) = %v, want %v", tc.hasCharacter, tc.move, got, tc.want)
		}
	}
}

func TestPlace_MatrixAndName(t *testing.T) {
	m := Matrix{ScaleX: 2 << 16, ScaleY: fixedOne, RotateSkew0: -1 << 14, TranslateX: 400, TranslateY: -20}
	in := &Place{
		Flags:  PlaceMove | PlaceHasMatrix | PlaceHasName,
		Depth:  5 + StaticDepthOffset,
		Matrix: m,
		Name:   "hero",
	}
	data := EncodePlace(in, 10, nil)

	p, ok := decodeOne(t, data, 10).(*Place)
	if !ok {
		t.Fatal("record is not *Place")
	}
	if p.Depth != 5+StaticDepthOffset {
		t.Errorf("Depth = %d, want %d", p.Depth, 5+StaticDepthOffset)
	}
	if p.Kind != PlaceKindMove {
		t.Errorf("Kind = %v, want move", p.Kind)
	}
	if p.Matrix != m {
		t.Errorf("Matrix = %v, want %v", p.Matrix, m)
	}
	if p.Name != "hero" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Has(PlaceHasCharacter) || p.Has(PlaceHasColorTransform) || p.Has(PlaceHasRatio) {
		t.Errorf("unexpected fields present: %v", p.Flags)
	}
	if p.ColorTransform != IdentityColorTransform {
		t.Errorf("absent color transform = %+v, want identity", p.ColorTransform)
	}
}

func TestPlace_AllFields(t *testing.T) {
	cx := ColorTransform{MulR: 128, MulG: 256, MulB: 256, MulA: 200, AddR: -10, AddG: 0, AddB: 5, AddA: 0}
	in := &Place{
		Flags: PlaceHasCharacter | PlaceHasMatrix | PlaceHasColorTransform | PlaceHasRatio |
			PlaceHasName | PlaceHasClipDepth | PlaceHasEvents,
		Depth:          1 + StaticDepthOffset,
		CharacterID:    12,
		Matrix:         IdentityMatrix,
		ColorTransform: cx,
		Ratio:          300,
		Name:           "mask",
		ClipDepth:      4 + StaticDepthOffset,
	}
	load := []byte{0x07, 0x00}
	key := []byte{0x06, 0x00}
	events := []event.Record{
		{Mask: event.Mask(event.TriggerLoad, event.TriggerEnterFrame), Payload: load},
		{Mask: event.Mask(event.TriggerKeyPress), KeyCode: 13, Payload: key},
	}
	data := EncodePlace(in, 10, events)

	p := decodeOne(t, data, 10).(*Place)
	if p.Kind != PlaceKindPlace {
		t.Errorf("Kind = %v", p.Kind)
	}
	if p.CharacterID != 12 || p.Ratio != 300 || p.Name != "mask" {
		t.Errorf("got id %d ratio %d name %q", p.CharacterID, p.Ratio, p.Name)
	}
	if p.ClipDepth != 4+StaticDepthOffset {
		t.Errorf("ClipDepth = %d", p.ClipDepth)
	}
	if p.ColorTransform != cx {
		t.Errorf("ColorTransform = %+v, want %+v", p.ColorTransform, cx)
	}
	if len(p.Bindings) != 3 {
		t.Fatalf("got %d bindings, want 3", len(p.Bindings))
	}
	if !p.Bindings[0].Matches(event.TriggerLoad, 0) || !bytes.Equal(p.Bindings[0].Payload, load) {
		t.Errorf("binding 0 = %+v", p.Bindings[0])
	}
	if !p.Bindings[1].Matches(event.TriggerEnterFrame, 0) {
		t.Errorf("binding 1 = %+v", p.Bindings[1])
	}
	if !p.Bindings[2].Matches(event.TriggerKeyPress, 13) || p.Bindings[2].Matches(event.TriggerKeyPress, 14) {
		t.Errorf("binding 2 = %+v", p.Bindings[2])
	}
}

func TestPlace_Object3(t *testing.T) {
	in := &Place{
		Flags:       PlaceHasCharacter | PlaceHasBlendMode | PlaceHasCaching | PlaceHasFilters,
		Depth:       3 + StaticDepthOffset,
		CharacterID: 2,
		BlendMode:   3,
		Caching:     1,
		Filters: []Filter{
			{Kind: FilterBlur, Data: make([]byte, sizeBlur)},
			{Kind: FilterGradientGlow, Data: append([]byte{2}, make([]byte, 2*5+sizeGradientTail)...)},
		},
	}
	data := EncodePlace(in, 10, nil)

	rec := decodeOne(t, data, 10)
	if rec.TagHeader().Code != CodePlaceObject3 {
		t.Errorf("Code = %v, want PlaceObject3", rec.TagHeader().Code)
	}
	p := rec.(*Place)
	if p.BlendMode != 3 || p.Caching != 1 {
		t.Errorf("blend %d caching %d", p.BlendMode, p.Caching)
	}
	if len(p.Filters) != 2 || p.Filters[1].Kind != FilterGradientGlow {
		t.Errorf("Filters = %+v", p.Filters)
	}
}

func TestPlace_UnknownFilterSkipsRecord(t *testing.T) {
	in := &Place{
		Flags:   PlaceHasFilters,
		Depth:   StaticDepthOffset,
		Filters: []Filter{{Kind: 9, Data: []byte{1, 2}}},
	}
	data := join(EncodePlace(in, 10, nil), EncodeShowFrame())

	d := NewDecoder(stream.NewReader(data), Options{Version: 10}, newLogger(t))
	recs, err := d.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if _, ok := recs[0].(*Skipped); !ok {
		t.Errorf("first record = %T, want *Skipped", recs[0])
	}
	if _, ok := recs[1].(*ShowFrame); !ok {
		t.Errorf("second record = %T, want *ShowFrame", recs[1])
	}
}

func TestPlaceObject_Original(t *testing.T) {
	cx := ColorTransform{MulR: 256, MulG: 256, MulB: 256, MulA: 256, AddR: 20, AddG: 20, AddB: 20}
	data := EncodePlaceObject(8, 2+StaticDepthOffset, Matrix{ScaleX: fixedOne, ScaleY: fixedOne, TranslateX: 60}, &cx)

	p := decodeOne(t, data, 4).(*Place)
	if p.CharacterID != 8 || p.Depth != 2+StaticDepthOffset || p.Kind != PlaceKindPlace {
		t.Errorf("Place = id %d depth %d kind %v", p.CharacterID, p.Depth, p.Kind)
	}
	if p.Matrix.TranslateX != 60 {
		t.Errorf("TranslateX = %d", p.Matrix.TranslateX)
	}
	if !p.Has(PlaceHasColorTransform) || p.ColorTransform != cx {
		t.Errorf("ColorTransform = %+v", p.ColorTransform)
	}
}

func TestRemove(t *testing.T) {
	rm := decodeOne(t, EncodeRemove(7+StaticDepthOffset), 10).(*Remove)
	if rm.Depth != 7+StaticDepthOffset || rm.HasCharacter {
		t.Errorf("Remove = %+v", rm)
	}

	w := stream.NewWriter()
	w.WriteU16(3)
	w.WriteU16(7)
	rm = decodeOne(t, Encode(CodeRemoveObject, w.Bytes()), 4).(*Remove)
	if rm.Depth != 7+StaticDepthOffset || rm.CharacterID != 3 || !rm.HasCharacter {
		t.Errorf("RemoveObject = %+v", rm)
	}
}
