package display

import (
	"swfplay/swf/event"
	"swfplay/swf/tag"
)

// Instance is a placed character. It refers to its character by id, the
// definition stays in the movie registry.
type Instance struct {
	// Handle is unique within a player and never reused.
	Handle         int
	CharacterID    uint16
	Depth          int
	Name           string
	Matrix         tag.Matrix
	ColorTransform tag.ColorTransform
	Ratio          uint16
	// ClipDepth is 0 when the instance is not a mask.
	ClipDepth int
	Bindings  []event.Binding
	// Clip is the child timeline, nil unless the character is a sprite.
	Clip *Clip

	parent *Clip
}

// Path returns the dotted target path, for example "_root.menu.button".
// Instances which were removed from the display list have an empty path.
func (i *Instance) Path() string {
	if i.parent == nil {
		return ""
	}
	return i.parent.path + "." + i.Name
}

// Attached reports whether the instance is still on a display list.
func (i *Instance) Attached() bool {
	return i.parent != nil
}

// Handlers returns bindings matching the trigger and key code.
func (i *Instance) Handlers(t event.Trigger, key uint8) []event.Binding {
	var out []event.Binding
	for _, b := range i.Bindings {
		if b.Matches(t, key) {
			out = append(out, b)
		}
	}
	return out
}

// apply copies fields present in the record.
func (i *Instance) apply(p *tag.Place) {
	if p.Has(tag.PlaceHasMatrix) {
		i.Matrix = p.Matrix
	}
	if p.Has(tag.PlaceHasColorTransform) {
		i.ColorTransform = p.ColorTransform
	}
	if p.Has(tag.PlaceHasRatio) {
		i.Ratio = p.Ratio
	}
	if p.Has(tag.PlaceHasClipDepth) {
		i.ClipDepth = p.ClipDepth
	}
}
