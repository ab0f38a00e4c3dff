package tag

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"swfplay/swf/stream"
)

// definitionCodes lists tags defining a character whose id is the first body
// field. The value tells whether a bounding box follows the id.
var definitionCodes = map[Code]bool{
	CodeDefineShape:         true,
	CodeDefineShape2:        true,
	CodeDefineShape3:        true,
	CodeDefineShape4:        true,
	CodeDefineMorphShape:    true,
	CodeDefineMorphShape2:   true,
	CodeDefineText:          true,
	CodeDefineText2:         true,
	CodeDefineEditText:      true,
	CodeDefineBits:          false,
	CodeDefineBitsJPEG2:     false,
	CodeDefineBitsJPEG3:     false,
	CodeDefineBitsJPEG4:     false,
	CodeDefineBitsLossless:  false,
	CodeDefineBitsLossless2: false,
	CodeDefineButton:        false,
	CodeDefineButton2:       false,
	CodeDefineFont:          false,
	CodeDefineFont2:         false,
	CodeDefineFont3:         false,
	CodeDefineFont4:         false,
	CodeDefineSound:         false,
	CodeDefineVideoStream:   false,
	CodeDefineBinaryData:    false,
}

// IsDefinition reports whether the code defines a character.
func (c Code) IsDefinition() bool {
	_, ok := definitionCodes[c]
	return ok || c == CodeDefineSprite
}

func readDefine(d *Decoder, h Header) (Record, error) {
	r := d.r
	def := &Define{base: base{h}, ID: r.ReadU16()}
	if definitionCodes[h.Code] {
		rc := ReadRect(r)
		def.Bounds = &rc
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	def.Body = bytes.Clone(r.Window(h.BodyStart))
	r.Skip(r.Remaining())
	return def, nil
}

// readSprite decodes the nested timeline of a sprite. Nested records use the
// same bound and resync rules, inside the sprite's own bound.
func readSprite(d *Decoder, h Header) (Record, error) {
	r := d.r
	s := &Sprite{base: base{h}}
	s.ID = r.ReadU16()
	s.FrameCount = r.ReadU16()
	if err := r.Err(); err != nil {
		return nil, err
	}

	log := d.log
	d.log = log.With(zap.Uint16("sprite", s.ID))
	defer func() { d.log = log }()

	for r.Remaining() > 0 {
		if n := r.Remaining(); n < 2 {
			d.log.Debug("Trailing bytes after sprite records", zap.Int("count", n))
			d.structural(h, fmt.Errorf("%w: %d after last record", ErrSpriteTrailing, n))
			break
		}
		rec, last, err := d.decodeTag(true)
		if err != nil {
			// nested header runs past the sprite, the sprite itself is intact
			r.Recover()
			break
		}
		if _, ok := rec.(*End); ok {
			break
		}
		s.Records = append(s.Records, rec)
		if last {
			break
		}
	}
	return s, nil
}

func readEnd(_ *Decoder, h Header) (Record, error) {
	return &End{base{h}}, nil
}

func readShowFrame(_ *Decoder, h Header) (Record, error) {
	return &ShowFrame{base{h}}, nil
}

func readDoAction(d *Decoder, h Header) (Record, error) {
	r := d.r
	a := &Action{base: base{h}, Actions: bytes.Clone(r.Window(r.Position()))}
	r.Skip(r.Remaining())
	return a, nil
}

func readDoInitAction(d *Decoder, h Header) (Record, error) {
	r := d.r
	a := &InitAction{base: base{h}, SpriteID: r.ReadU16()}
	if err := r.Err(); err != nil {
		return nil, err
	}
	a.Actions = bytes.Clone(r.Window(r.Position()))
	r.Skip(r.Remaining())
	return a, nil
}

func readFrameLabel(d *Decoder, h Header) (Record, error) {
	r := d.r
	l := &FrameLabel{base: base{h}}
	l.Name = d.text(r.ReadString())
	if r.Err() == nil && r.Remaining() > 0 {
		l.Anchor = r.ReadU8() == 1
	}
	return l, r.Err()
}

func readBackgroundColor(d *Decoder, h Header) (Record, error) {
	r := d.r
	c := &BackgroundColor{base: base{h}}
	c.Color = RGBA{R: r.ReadU8(), G: r.ReadU8(), B: r.ReadU8(), A: 0xFF}
	return c, r.Err()
}

func readFileAttributes(d *Decoder, h Header) (Record, error) {
	r := d.r
	fa := &FileAttributes{base: base{h}, Flags: r.ReadU32()}
	return fa, r.Err()
}

// EncodeDefine produces a definition record with an opaque body following
// the id (and bounds, when given).
func EncodeDefine(code Code, id uint16, bounds *Rect, body []byte) []byte {
	w := stream.NewWriter()
	w.WriteU16(id)
	if bounds != nil {
		WriteRect(w, *bounds)
	}
	w.WriteBytes(body)
	return Encode(code, w.Bytes())
}

// EncodeSprite produces DefineSprite around already encoded records. An End
// record is appended.
func EncodeSprite(id, frames uint16, records ...[]byte) []byte {
	w := stream.NewWriter()
	w.WriteU16(id)
	w.WriteU16(frames)
	for _, rec := range records {
		w.WriteBytes(rec)
	}
	w.WriteBytes(Encode(CodeEnd, nil))
	return Encode(CodeDefineSprite, w.Bytes())
}

// EncodeFrameLabel produces FrameLabel.
func EncodeFrameLabel(name string) []byte {
	w := stream.NewWriter()
	w.WriteString(name)
	return Encode(CodeFrameLabel, w.Bytes())
}

// EncodeShowFrame produces ShowFrame.
func EncodeShowFrame() []byte {
	return Encode(CodeShowFrame, nil)
}

// EncodeAction produces DoAction.
func EncodeAction(actions []byte) []byte {
	return Encode(CodeDoAction, actions)
}
