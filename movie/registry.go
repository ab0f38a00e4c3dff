package movie

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"swfplay/swf/tag"
)

// Character is a reusable definition registered by id. It is immutable
// once the movie is loaded and shared by every instance placed from it.
type Character struct {
	ID     uint16
	Code   tag.Code
	Bounds *tag.Rect
	// Body is the undecoded definition body.
	Body []byte
	// Timeline is set for sprites only.
	Timeline *Definition
}

// IsSprite reports whether the character has its own timeline.
func (c *Character) IsSprite() bool {
	return c.Timeline != nil
}

// Registry maps character ids to definitions. It is filled while parsing
// and only read afterwards.
type Registry struct {
	chars map[uint16]*Character
}

func newRegistry() *Registry {
	return &Registry{chars: make(map[uint16]*Character)}
}

// add registers c. Redefinition of an id is a producer error: the first
// definition is kept.
func (r *Registry) add(c *Character, log *zap.Logger) bool {
	if old, exists := r.chars[c.ID]; exists {
		log.Warn("Duplicate character id, keeping first definition",
			zap.Uint16("id", c.ID), zap.Stringer("first", old.Code), zap.Stringer("ignored", c.Code))
		return false
	}
	r.chars[c.ID] = c
	return true
}

// Lookup returns character by id.
func (r *Registry) Lookup(id uint16) (*Character, bool) {
	c, ok := r.chars[id]
	return c, ok
}

func (r *Registry) Len() int {
	return len(r.chars)
}

// IDs returns registered ids in ascending order.
func (r *Registry) IDs() []uint16 {
	return slices.Sorted(maps.Keys(r.chars))
}
