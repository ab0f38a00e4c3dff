package display

import (
	"maps"
	"slices"
)

// List maps depths to instances. At most one instance lives at any depth.
type List struct {
	entries map[int]*Instance
}

func NewList() *List {
	return &List{entries: make(map[int]*Instance)}
}

func (l *List) Len() int {
	return len(l.entries)
}

// At returns the instance at depth.
func (l *List) At(depth int) (*Instance, bool) {
	inst, ok := l.entries[depth]
	return inst, ok
}

// Depths returns occupied depths in ascending order.
func (l *List) Depths() []int {
	return slices.Sorted(maps.Keys(l.entries))
}

// Instances returns instances in ascending depth order.
func (l *List) Instances() []*Instance {
	out := make([]*Instance, 0, len(l.entries))
	for _, depth := range l.Depths() {
		out = append(out, l.entries[depth])
	}
	return out
}

// ByName finds an instance by its name. When several instances share a name
// the lowest depth wins.
func (l *List) ByName(name string) (*Instance, bool) {
	for _, inst := range l.Instances() {
		if inst.Name == name {
			return inst, true
		}
	}
	return nil, false
}

// set puts inst at its depth and returns the previous occupant, if any.
func (l *List) set(inst *Instance) *Instance {
	old := l.entries[inst.Depth]
	l.entries[inst.Depth] = inst
	return old
}

func (l *List) delete(depth int) (*Instance, bool) {
	inst, ok := l.entries[depth]
	if ok {
		delete(l.entries, depth)
	}
	return inst, ok
}
