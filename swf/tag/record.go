package tag

import (
	"swfplay/swf/event"
)

// Record is one decoded tag. The set of implementations is closed: Place,
// Remove, ShowFrame, End, Define, Sprite, Action, InitAction, FrameLabel,
// BackgroundColor, FileAttributes, Unknown and Skipped.
type Record interface {
	TagHeader() Header
	isRecord()
}

type base struct {
	Tag Header
}

func (b base) TagHeader() Header { return b.Tag }
func (base) isRecord()           {}

// ShowFrame closes the current frame.
type ShowFrame struct{ base }

// End terminates a tag stream.
type End struct{ base }

// Remove clears a depth. CharacterID is only present in the original
// RemoveObject form and is informational.
type Remove struct {
	base
	Depth        int
	CharacterID  uint16
	HasCharacter bool
}

// Define is a character definition kept opaque: rendering of its body is
// outside of this package. Bounds are decoded for kinds which start with a
// bounding box.
type Define struct {
	base
	ID     uint16
	Bounds *Rect
	Body   []byte
}

// Sprite is a character with its own timeline.
type Sprite struct {
	base
	ID         uint16
	FrameCount uint16
	// Records are the control tags of the sprite timeline, in stream order.
	Records []Record
}

// Action carries frame actions for the scripting engine.
type Action struct {
	base
	Actions []byte
}

// InitAction carries actions to run once, before the first instance of a
// sprite is placed.
type InitAction struct {
	base
	SpriteID uint16
	Actions  []byte
}

// FrameLabel names the frame it appears in.
type FrameLabel struct {
	base
	Name   string
	Anchor bool
}

type BackgroundColor struct {
	base
	Color RGBA
}

type FileAttributes struct {
	base
	Flags uint32
}

const (
	FileAttrUseNetwork    = 0x01
	FileAttrHasMetadata   = 0x10
	FileAttrActionScript3 = 0x08
)

// Unknown is a tag without a registered decoder, skipped wholesale. Body is
// kept for diagnostics.
type Unknown struct {
	base
	Body []byte
}

// Skipped is a tag whose decoding was abandoned. The stream continues with
// the next tag.
type Skipped struct {
	base
	Reason error
}

// Place is a placement instruction for the display list.
type Place struct {
	base
	Kind           PlaceKind
	Flags          PlaceFlag
	Depth          int
	CharacterID    uint16
	Matrix         Matrix
	ColorTransform ColorTransform
	Ratio          uint16
	Name           string
	ClipDepth      int
	Filters        []Filter
	BlendMode      uint8
	Caching        uint8
	// AllTriggers is the aggregate mask of the event block.
	AllTriggers uint32
	Bindings    []event.Binding
}

// Has reports whether an optional field was present in the record.
func (p *Place) Has(f PlaceFlag) bool {
	return p.Flags&f == f
}
