package tag

import (
	"fmt"

	"go.uber.org/zap"

	"swfplay/swf/event"
	"swfplay/swf/stream"
)

// StaticDepthOffset is added to depths read from the timeline so that
// timeline-placed instances (negative depths) never collide with instances
// created by scripts (zero and above).
const StaticDepthOffset = -16384

// PlaceKind is what a placement does to the display list.
type PlaceKind int

const (
	PlaceKindPlace PlaceKind = iota
	PlaceKindMove
	PlaceKindReplace
	PlaceKindRemove
)

func (k PlaceKind) String() string {
	switch k {
	case PlaceKindPlace:
		return "place"
	case PlaceKindMove:
		return "move"
	case PlaceKindReplace:
		return "replace"
	case PlaceKindRemove:
		return "remove"
	}
	return fmt.Sprintf("PlaceKind(%d)", int(k))
}

func (k PlaceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PlaceKindOf derives the placement kind from the character and move flags.
func PlaceKindOf(hasCharacter, move bool) PlaceKind {
	switch {
	case hasCharacter && move:
		return PlaceKindReplace
	case move:
		return PlaceKindMove
	case hasCharacter:
		return PlaceKindPlace
	default:
		return PlaceKindRemove
	}
}

// PlaceFlag marks presence of optional placement fields. The low byte has
// the layout of the first flags byte on the wire, the high byte carries the
// extended flags of PlaceObject3.
type PlaceFlag uint16

const (
	PlaceMove PlaceFlag = 1 << iota
	PlaceHasCharacter
	PlaceHasMatrix
	PlaceHasColorTransform
	PlaceHasRatio
	PlaceHasName
	PlaceHasClipDepth
	PlaceHasEvents
	PlaceHasFilters
	PlaceHasBlendMode
	PlaceHasCaching

	placeExtMask = PlaceHasFilters | PlaceHasBlendMode | PlaceHasCaching
)

var placeFlagNames = []struct {
	f    PlaceFlag
	name string
}{
	{PlaceMove, "move"},
	{PlaceHasCharacter, "character"},
	{PlaceHasMatrix, "matrix"},
	{PlaceHasColorTransform, "cxform"},
	{PlaceHasRatio, "ratio"},
	{PlaceHasName, "name"},
	{PlaceHasClipDepth, "clip"},
	{PlaceHasEvents, "events"},
	{PlaceHasFilters, "filters"},
	{PlaceHasBlendMode, "blend"},
	{PlaceHasCaching, "caching"},
}

func (f PlaceFlag) String() string {
	out := ""
	for _, n := range placeFlagNames {
		if f&n.f != 0 {
			if len(out) > 0 {
				out += "|"
			}
			out += n.name
		}
	}
	if len(out) == 0 {
		return "none"
	}
	return out
}

// readPlaceObject handles the original fixed layout placement.
func readPlaceObject(d *Decoder, h Header) (Record, error) {
	r := d.r
	p := &Place{
		base:           base{h},
		Kind:           PlaceKindPlace,
		Flags:          PlaceHasCharacter | PlaceHasMatrix,
		ColorTransform: IdentityColorTransform,
	}
	p.CharacterID = r.ReadU16()
	p.Depth = int(r.ReadU16()) + StaticDepthOffset
	p.Matrix = readMatrix(r)
	if r.Err() == nil && r.Position() < r.TagEnd() {
		p.ColorTransform = readColorTransform(r, false)
		p.Flags |= PlaceHasColorTransform
	}
	if err := r.Err(); err != nil {
		return p, err
	}
	d.log.Debug("PlaceObject", zap.Int("depth", p.Depth), zap.Uint16("character", p.CharacterID))
	return p, nil
}

// readPlaceObject2 handles PlaceObject2 and PlaceObject3: optional fields
// are read in fixed order, each gated by its own flag.
func readPlaceObject2(d *Decoder, h Header) (Record, error) {
	r := d.r
	p := &Place{
		base:           base{h},
		Matrix:         IdentityMatrix,
		ColorTransform: IdentityColorTransform,
	}

	r.Align()
	p.Flags = PlaceFlag(r.ReadU8())
	if h.Code == CodePlaceObject3 {
		if d.opts.Version < 8 {
			d.log.Debug("PlaceObject3 in pre-8 container", zap.Uint8("version", d.opts.Version))
		}
		// five leading bits are not used by the player
		r.ReadUint(5)
		if r.ReadBit() {
			p.Flags |= PlaceHasCaching
		}
		if r.ReadBit() {
			p.Flags |= PlaceHasBlendMode
		}
		if r.ReadBit() {
			p.Flags |= PlaceHasFilters
		}
	}

	p.Depth = int(r.ReadU16()) + StaticDepthOffset

	if p.Has(PlaceHasCharacter) {
		p.CharacterID = r.ReadU16()
	}
	if p.Has(PlaceHasMatrix) {
		p.Matrix = readMatrix(r)
	}
	if p.Has(PlaceHasColorTransform) {
		p.ColorTransform = readColorTransform(r, true)
	}
	if p.Has(PlaceHasRatio) {
		p.Ratio = r.ReadU16()
	}
	if p.Has(PlaceHasName) {
		p.Name = d.text(r.ReadString())
	}
	if p.Has(PlaceHasClipDepth) {
		p.ClipDepth = int(r.ReadU16()) + StaticDepthOffset
	}
	if p.Has(PlaceHasFilters) {
		filters, err := readFilterList(r)
		if err != nil {
			return p, err
		}
		p.Filters = filters
	}
	if p.Has(PlaceHasBlendMode) {
		p.BlendMode = r.ReadU8()
	}
	if p.Has(PlaceHasCaching) {
		p.Caching = r.ReadU8()
	}
	if err := r.Err(); err != nil {
		return p, err
	}
	if p.Has(PlaceHasEvents) {
		blk, err := event.ReadBlock(r, d.opts.Version, d.log.With(zap.Int("depth", p.Depth)))
		if err != nil {
			return p, err
		}
		for _, issue := range blk.Issues {
			d.structural(h, issue)
		}
		p.AllTriggers = blk.AllTriggers
		p.Bindings = blk.Bindings
	}

	p.Kind = PlaceKindOf(p.Has(PlaceHasCharacter), p.Has(PlaceMove))

	d.log.Debug("PlaceObject2",
		zap.Stringer("kind", p.Kind),
		zap.Int("depth", p.Depth),
		zap.Stringer("flags", p.Flags),
		zap.Uint16("character", p.CharacterID),
		zap.String("name", p.Name),
		zap.Int("bindings", len(p.Bindings)))
	return p, nil
}

func readRemoveObject(d *Decoder, h Header) (Record, error) {
	r := d.r
	rm := &Remove{base: base{h}, HasCharacter: true}
	rm.CharacterID = r.ReadU16()
	rm.Depth = int(r.ReadU16()) + StaticDepthOffset
	return rm, r.Err()
}

func readRemoveObject2(d *Decoder, h Header) (Record, error) {
	r := d.r
	rm := &Remove{base: base{h}}
	rm.Depth = int(r.ReadU16()) + StaticDepthOffset
	return rm, r.Err()
}

// EncodePlace produces a complete PlaceObject2 record, or PlaceObject3 when
// extended flags are used or p.Tag.Code asks for it. Event records are only
// written when p has PlaceHasEvents.
func EncodePlace(p *Place, version uint8, events []event.Record) []byte {
	code := CodePlaceObject2
	if p.Tag.Code == CodePlaceObject3 || p.Flags&placeExtMask != 0 {
		code = CodePlaceObject3
	}

	w := stream.NewWriter()
	w.WriteU8(uint8(p.Flags))
	if code == CodePlaceObject3 {
		w.WriteUint(0, 5)
		w.WriteBit(p.Has(PlaceHasCaching))
		w.WriteBit(p.Has(PlaceHasBlendMode))
		w.WriteBit(p.Has(PlaceHasFilters))
	}
	w.WriteU16(uint16(p.Depth - StaticDepthOffset))
	if p.Has(PlaceHasCharacter) {
		w.WriteU16(p.CharacterID)
	}
	if p.Has(PlaceHasMatrix) {
		writeMatrix(w, p.Matrix)
	}
	if p.Has(PlaceHasColorTransform) {
		writeColorTransform(w, p.ColorTransform, true)
	}
	if p.Has(PlaceHasRatio) {
		w.WriteU16(p.Ratio)
	}
	if p.Has(PlaceHasName) {
		w.WriteString(p.Name)
	}
	if p.Has(PlaceHasClipDepth) {
		w.WriteU16(uint16(p.ClipDepth - StaticDepthOffset))
	}
	if p.Has(PlaceHasFilters) {
		writeFilterList(w, p.Filters)
	}
	if p.Has(PlaceHasBlendMode) {
		w.WriteU8(p.BlendMode)
	}
	if p.Has(PlaceHasCaching) {
		w.WriteU8(p.Caching)
	}
	if p.Has(PlaceHasEvents) {
		event.WriteBlock(w, version, events)
	}
	return Encode(code, w.Bytes())
}

// EncodePlaceObject produces an original layout placement.
func EncodePlaceObject(id uint16, depth int, m Matrix, cx *ColorTransform) []byte {
	w := stream.NewWriter()
	w.WriteU16(id)
	w.WriteU16(uint16(depth - StaticDepthOffset))
	writeMatrix(w, m)
	if cx != nil {
		writeColorTransform(w, *cx, false)
	}
	return Encode(CodePlaceObject, w.Bytes())
}

// EncodeRemove produces RemoveObject2.
func EncodeRemove(depth int) []byte {
	w := stream.NewWriter()
	w.WriteU16(uint16(depth - StaticDepthOffset))
	return Encode(CodeRemoveObject2, w.Bytes())
}
