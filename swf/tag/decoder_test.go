package tag

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"swfplay/swf/event"
	"swfplay/swf/stream"
)

const testCode Code = 200

func newLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller()))
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// consuming returns decoder reading n bytes of the body.
func consuming(n int) DecodeFunc {
	return func(d *Decoder, h Header) (Record, error) {
		body := d.Reader().ReadBytes(n)
		return &Unknown{base: base{h}, Body: body}, d.Reader().Err()
	}
}

func TestHeader_ShortAndLong(t *testing.T) {
	cases := []struct {
		name     string
		length   int
		force    bool
		wantLong bool
		wantSize int
	}{
		{"empty", 0, false, false, 2},
		{"short max", 62, false, false, 2},
		{"63 needs long", 63, false, true, 6},
		{"forced long", 4, true, true, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := stream.NewWriter()
			WriteHeader(w, CodeDefineBitsLossless, tc.length, tc.force)
			w.WriteBytes(make([]byte, tc.length))
			data := w.Bytes()

			h, err := ReadHeader(stream.NewReader(data))
			if err != nil {
				t.Fatalf("ReadHeader() error = %v", err)
			}
			if h.Code != CodeDefineBitsLossless {
				t.Errorf("Code = %v, want %v", h.Code, CodeDefineBitsLossless)
			}
			if h.Length != int64(tc.length) {
				t.Errorf("Length = %d, want %d", h.Length, tc.length)
			}
			if h.Long != tc.wantLong {
				t.Errorf("Long = %v, want %v", h.Long, tc.wantLong)
			}
			if h.BodyStart != tc.wantSize {
				t.Errorf("BodyStart = %d, want %d", h.BodyStart, tc.wantSize)
			}
		})
	}
}

func TestReadHeader_Truncated(t *testing.T) {
	if _, err := ReadHeader(stream.NewReader([]byte{0x40})); !errors.Is(err, stream.ErrTruncated) {
		t.Errorf("short header error = %v, want ErrTruncated", err)
	}
	// long form announced, length missing
	if _, err := ReadHeader(stream.NewReader([]byte{0x3F, 0x00, 0x01})); !errors.Is(err, stream.ErrTruncated) {
		t.Errorf("short long length error = %v, want ErrTruncated", err)
	}
}

func TestDecoder_UnderReadResyncsToDeclaredEnd(t *testing.T) {
	data := join(Encode(testCode, make([]byte, 10)), EncodeShowFrame())

	r := stream.NewReader(data)
	d := NewDecoder(r, Options{Version: 10}, newLogger(t))
	d.Register(testCode, consuming(6))

	rec, err := d.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got := len(rec.(*Unknown).Body); got != 6 {
		t.Errorf("reader consumed %d bytes, want 6", got)
	}
	if r.Position() != 12 {
		t.Errorf("cursor = %d, want declared end 12", r.Position())
	}
	rec, err = d.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, ok := rec.(*ShowFrame); !ok {
		t.Errorf("second record = %T, want *ShowFrame", rec)
	}
	if d.Issues() != nil {
		t.Errorf("under-read reported as issue: %v", d.Issues())
	}
}

func TestDecoder_ExactRead(t *testing.T) {
	data := join(Encode(testCode, make([]byte, 10)), EncodeShowFrame())

	d := NewDecoder(stream.NewReader(data), Options{Version: 10}, newLogger(t))
	d.Register(testCode, consuming(10))

	recs, err := d.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if d.Issues() != nil {
		t.Errorf("Issues() = %v, want nil", d.Issues())
	}
}

func TestDecoder_OverReadPolicy(t *testing.T) {
	data := join(Encode(testCode, make([]byte, 10)), EncodeShowFrame())

	t.Run("discard", func(t *testing.T) {
		r := stream.NewReader(data)
		d := NewDecoder(r, Options{Version: 10}, newLogger(t))
		d.Register(testCode, consuming(14))

		rec, err := d.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		sk, ok := rec.(*Skipped)
		if !ok {
			t.Fatalf("record = %T, want *Skipped", rec)
		}
		var lm *LengthMismatchError
		if !errors.As(sk.Reason, &lm) || !lm.Over {
			t.Errorf("Reason = %v, want over-read LengthMismatchError", sk.Reason)
		}
		if r.Position() != 12 {
			t.Errorf("cursor = %d, want 12", r.Position())
		}
		if rec, _ := d.Next(); rec == nil {
			t.Fatal("following record lost")
		} else if _, ok := rec.(*ShowFrame); !ok {
			t.Errorf("following record = %T, want *ShowFrame", rec)
		}
		if !errors.As(d.Issues(), &lm) {
			t.Errorf("Issues() = %v, want LengthMismatchError", d.Issues())
		}
	})

	t.Run("keep", func(t *testing.T) {
		r := stream.NewReader(data)
		d := NewDecoder(r, Options{Version: 10, Overrun: OverrunKeep}, newLogger(t))
		d.Register(testCode, consuming(14))

		rec, err := d.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if _, ok := rec.(*Unknown); !ok {
			t.Fatalf("record = %T, want partial *Unknown", rec)
		}
		if r.Position() != 12 {
			t.Errorf("cursor = %d, want 12", r.Position())
		}
		var lm *LengthMismatchError
		if !errors.As(d.Issues(), &lm) {
			t.Errorf("Issues() = %v, want LengthMismatchError", d.Issues())
		}
	})
}

func TestDecoder_TruncatedHeaderStops(t *testing.T) {
	data := join(EncodeShowFrame(), []byte{0x40})

	d := NewDecoder(stream.NewReader(data), Options{Version: 10}, newLogger(t))
	recs, err := d.All()
	if len(recs) != 1 {
		t.Errorf("got %d records, want 1", len(recs))
	}
	var te *TruncatedStreamError
	if !errors.As(err, &te) {
		t.Fatalf("All() error = %v, want TruncatedStreamError", err)
	}
	if te.Offset != 2 {
		t.Errorf("Offset = %d, want 2", te.Offset)
	}
	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after truncation = %v, want io.EOF", err)
	}
}

func TestDecoder_DeclaredEndBeyondData(t *testing.T) {
	full := EncodeFrameLabel("intro")
	data := join(EncodeShowFrame(), full[:len(full)-3])

	d := NewDecoder(stream.NewReader(data), Options{Version: 10}, newLogger(t))
	recs, err := d.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	sk, ok := recs[1].(*Skipped)
	if !ok {
		t.Fatalf("truncated record = %T, want *Skipped", recs[1])
	}
	var te *TruncatedStreamError
	if !errors.As(sk.Reason, &te) {
		t.Errorf("Reason = %v, want TruncatedStreamError", sk.Reason)
	}
	if !errors.As(d.Issues(), &te) {
		t.Errorf("Issues() = %v, want TruncatedStreamError", d.Issues())
	}
}

func TestDecoder_UnknownTagSkipped(t *testing.T) {
	data := join(Encode(testCode, []byte{1, 2, 3}), EncodeShowFrame(), Encode(CodeEnd, nil), EncodeShowFrame())

	d := NewDecoder(stream.NewReader(data), Options{Version: 10}, newLogger(t))
	recs, err := d.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3 (stop at End)", len(recs))
	}
	u, ok := recs[0].(*Unknown)
	if !ok {
		t.Fatalf("first record = %T, want *Unknown", recs[0])
	}
	if !bytes.Equal(u.Body, []byte{1, 2, 3}) {
		t.Errorf("Body = %v", u.Body)
	}
	if _, ok := recs[2].(*End); !ok {
		t.Errorf("last record = %T, want *End", recs[2])
	}
}

func TestDecoder_MaxLength(t *testing.T) {
	data := join(Encode(CodeDefineBinaryData, make([]byte, 100)), EncodeShowFrame())

	d := NewDecoder(stream.NewReader(data), Options{Version: 10, MaxLength: 64}, newLogger(t))
	recs, err := d.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	sk, ok := recs[0].(*Skipped)
	if !ok || !errors.Is(sk.Reason, ErrTooLong) {
		t.Fatalf("first record = %#v, want Skipped(ErrTooLong)", recs[0])
	}
	if _, ok := recs[1].(*ShowFrame); !ok {
		t.Errorf("second record = %T, want *ShowFrame", recs[1])
	}
}

func TestDecoder_Sprite(t *testing.T) {
	shape := EncodeDefine(CodeDefineShape, 7, &Rect{XMax: 200, YMax: 100}, []byte{0, 0})
	sprite := EncodeSprite(3, 2,
		EncodePlaceObject(7, 1+StaticDepthOffset, IdentityMatrix, nil),
		EncodeShowFrame(),
		shape,
		EncodeRemove(1+StaticDepthOffset),
		EncodeShowFrame(),
	)
	data := join(shape, sprite, EncodeShowFrame())

	d := NewDecoder(stream.NewReader(data), Options{Version: 10}, newLogger(t))
	recs, err := d.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}

	def, ok := recs[0].(*Define)
	if !ok {
		t.Fatalf("first record = %T, want *Define", recs[0])
	}
	if def.ID != 7 || def.Bounds == nil || def.Bounds.XMax != 200 {
		t.Errorf("Define = id %d bounds %v", def.ID, def.Bounds)
	}

	s, ok := recs[1].(*Sprite)
	if !ok {
		t.Fatalf("second record = %T, want *Sprite", recs[1])
	}
	if s.ID != 3 || s.FrameCount != 2 {
		t.Errorf("Sprite id %d frames %d", s.ID, s.FrameCount)
	}
	wantTypes := []string{"*tag.Place", "*tag.ShowFrame", "*tag.Unknown", "*tag.Remove", "*tag.ShowFrame"}
	if len(s.Records) != len(wantTypes) {
		t.Fatalf("sprite has %d records, want %d", len(s.Records), len(wantTypes))
	}
	for i, rec := range s.Records {
		if got := typeName(rec); got != wantTypes[i] {
			t.Errorf("sprite record %d = %s, want %s", i, got, wantTypes[i])
		}
	}

	var se *StructuralError
	if !errors.As(d.Issues(), &se) || !errors.Is(se, errNotInSprite) {
		t.Errorf("Issues() = %v, want not-in-sprite StructuralError", d.Issues())
	}
	if _, ok := recs[2].(*ShowFrame); !ok {
		t.Errorf("record after sprite = %T, want *ShowFrame", recs[2])
	}
}

func TestDecoder_SpriteTrailingBytes(t *testing.T) {
	tests := []struct {
		name     string
		trailing []byte
		issue    func(error) bool
	}{
		{
			name:     "single byte",
			trailing: []byte{0x00},
			issue:    func(err error) bool { return errors.Is(err, ErrSpriteTrailing) },
		},
		{
			name:     "long header cut",
			trailing: []byte{0x3f, 0x00, 0x01},
			issue: func(err error) bool {
				var te *TruncatedStreamError
				return errors.As(err, &te)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := stream.NewWriter()
			w.WriteU16(3)
			w.WriteU16(1)
			w.WriteBytes(EncodePlaceObject(7, 1+StaticDepthOffset, IdentityMatrix, nil))
			w.WriteBytes(EncodeShowFrame())
			w.WriteBytes(tt.trailing)
			data := join(Encode(CodeDefineSprite, w.Bytes()), EncodeShowFrame())

			d := NewDecoder(stream.NewReader(data), Options{Version: 10}, newLogger(t))
			recs, err := d.All()
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if len(recs) != 2 {
				t.Fatalf("got %d records, want 2", len(recs))
			}
			s, ok := recs[0].(*Sprite)
			if !ok {
				t.Fatalf("first record = %T, want *Sprite", recs[0])
			}
			if len(s.Records) != 2 || typeName(s.Records[0]) != "*tag.Place" || typeName(s.Records[1]) != "*tag.ShowFrame" {
				t.Errorf("sprite records = %v", s.Records)
			}
			if _, ok := recs[1].(*ShowFrame); !ok {
				t.Errorf("record after sprite = %T, want *ShowFrame", recs[1])
			}
			if !tt.issue(d.Issues()) {
				t.Errorf("Issues() = %v", d.Issues())
			}
			var lm *LengthMismatchError
			if errors.As(d.Issues(), &lm) && lm.Over {
				t.Errorf("sprite reported as over-read: %v", lm)
			}
		})
	}
}

func typeName(rec Record) string {
	switch rec.(type) {
	case *Place:
		return "*tag.Place"
	case *ShowFrame:
		return "*tag.ShowFrame"
	case *Unknown:
		return "*tag.Unknown"
	case *Remove:
		return "*tag.Remove"
	}
	return "other"
}

func TestDecoder_ControlRecords(t *testing.T) {
	w := stream.NewWriter()
	w.WriteU16(9)
	w.WriteBytes([]byte{0x07, 0x00})
	initAction := Encode(CodeDoInitAction, w.Bytes())

	data := join(
		Encode(CodeFileAttributes, []byte{FileAttrUseNetwork, 0, 0, 0}),
		Encode(CodeSetBackgroundColor, []byte{0x10, 0x20, 0x30}),
		EncodeFrameLabel("start"),
		EncodeAction([]byte{0x06, 0x00}),
		initAction,
	)
	d := NewDecoder(stream.NewReader(data), Options{Version: 10}, newLogger(t))
	recs, err := d.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("got %d records, want 5", len(recs))
	}
	if fa := recs[0].(*FileAttributes); fa.Flags != FileAttrUseNetwork {
		t.Errorf("Flags = %#x", fa.Flags)
	}
	if bg := recs[1].(*BackgroundColor); bg.Color != (RGBA{0x10, 0x20, 0x30, 0xFF}) {
		t.Errorf("Color = %v", bg.Color)
	}
	if fl := recs[2].(*FrameLabel); fl.Name != "start" || fl.Anchor {
		t.Errorf("FrameLabel = %q anchor %v", fl.Name, fl.Anchor)
	}
	if a := recs[3].(*Action); !bytes.Equal(a.Actions, []byte{0x06, 0x00}) {
		t.Errorf("Actions = %v", a.Actions)
	}
	if ia := recs[4].(*InitAction); ia.SpriteID != 9 || !bytes.Equal(ia.Actions, []byte{0x07, 0x00}) {
		t.Errorf("InitAction = %d %v", ia.SpriteID, ia.Actions)
	}
}

func TestDecoder_LegacyText(t *testing.T) {
	dec, err := NewTextDecoder("windows-1252")
	if err != nil {
		t.Fatalf("NewTextDecoder() error = %v", err)
	}
	data := Encode(CodeFrameLabel, []byte{'c', 0xE9, 0})

	for _, tc := range []struct {
		version uint8
		want    string
	}{
		{5, "cé"},
		{6, "c\xe9"},
	} {
		d := NewDecoder(stream.NewReader(data), Options{Version: tc.version, Text: dec}, newLogger(t))
		rec, err := d.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got := rec.(*FrameLabel).Name; got != tc.want {
			t.Errorf("version %d: Name = %q, want %q", tc.version, got, tc.want)
		}
	}

	if _, err := NewTextDecoder("no-such-charset"); err == nil {
		t.Error("NewTextDecoder() accepted unknown charset")
	}
}

func TestDecoder_EventOverrunAbandonsOnlyThatTag(t *testing.T) {
	w := stream.NewWriter()
	w.WriteU8(uint8(PlaceHasCharacter | PlaceHasEvents))
	w.WriteU16(1)
	w.WriteU16(4)
	w.WriteU16(0)   // reserved
	w.WriteU32(1)   // all triggers
	w.WriteU32(1)   // load
	w.WriteU32(100) // more than the tag holds
	w.WriteBytes([]byte{0x07, 0x00})
	bad := Encode(CodePlaceObject2, w.Bytes())

	good := EncodePlace(&Place{
		Flags:       PlaceHasCharacter,
		Depth:       2 + StaticDepthOffset,
		CharacterID: 4,
	}, 10, nil)

	d := NewDecoder(stream.NewReader(join(bad, good)), Options{Version: 10}, newLogger(t))
	recs, err := d.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	sk, ok := recs[0].(*Skipped)
	if !ok {
		t.Fatalf("first record = %T, want *Skipped", recs[0])
	}
	if !errors.Is(sk.Reason, event.ErrEventOverrun) {
		t.Errorf("Reason = %v, want ErrEventOverrun", sk.Reason)
	}
	p, ok := recs[1].(*Place)
	if !ok {
		t.Fatalf("second record = %T, want *Place", recs[1])
	}
	if p.Depth != 2+StaticDepthOffset {
		t.Errorf("Depth = %d", p.Depth)
	}
}
