package movie

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"

	"swfplay/swf/tag"
	"swfplay/utils/debug"
)

// String returns a readable tree of the loaded movie. It exists for manual
// inspection and debug reports.
func (m *Movie) String() string {
	return m.Tree(0)
}

// Tree is String with action payloads shown as hex, up to payloadBytes bytes
// each. Zero hides payloads.
func (m *Movie) Tree(payloadBytes int) string {
	if m == nil {
		return "<nil Movie>"
	}
	tw := debug.NewTreeWriter()
	pd := payloadDumper{tw: tw, limit: payloadBytes}

	h := m.Header
	tw.Line(0, "Movie %s v%d compression[%s] length[%d]", h.Signature, h.Version, h.Compression, h.FileLength)
	tw.Line(1, "Frame size: %s rate: %.2f frames: %d", h.FrameSize, h.FrameRate, h.FrameCount)
	tw.Line(1, "Background: %s attributes: %#x", m.Background, m.Attributes)

	tw.Line(0, "Characters: %d", m.Registry.Len())
	for _, id := range m.Registry.IDs() {
		c, _ := m.Registry.Lookup(id)
		if c.IsSprite() {
			tw.Line(1, "[%d] %s frames[%d]", id, c.Code, c.Timeline.FrameCount())
			if data, ok := m.InitActions[id]; ok {
				tw.Line(2, "init actions: %d bytes", len(data))
				pd.dump(3, "init", data)
			}
			pd.timeline(2, c.Timeline)
			continue
		}
		if c.Bounds != nil {
			tw.Line(1, "[%d] %s bounds%s body[%d]", id, c.Code, c.Bounds, len(c.Body))
		} else {
			tw.Line(1, "[%d] %s body[%d]", id, c.Code, len(c.Body))
		}
	}

	tw.Line(0, "Root timeline: %d frames", m.Root.FrameCount())
	pd.timeline(1, m.Root)

	if issues := multierr.Errors(m.Issues); len(issues) > 0 {
		tw.Line(0, "Issues: %d", len(issues))
		for _, err := range issues {
			tw.TextBlock(1, "issue", err.Error())
		}
	}
	return tw.String()
}

type payloadDumper struct {
	tw    *debug.TreeWriter
	limit int
}

func (pd payloadDumper) dump(depth int, label string, data []byte) {
	if pd.limit <= 0 || len(data) == 0 {
		return
	}
	pd.tw.HexBlock(depth, label, data, pd.limit)
}

func (pd payloadDumper) timeline(depth int, d *Definition) {
	tw := pd.tw
	if labels := d.Labels(); len(labels) > 0 {
		keys := slices.Collect(maps.Keys(labels))
		sort.Sort(natural.StringSlice(keys))
		tw.Line(depth, "Labels: %d", len(keys))
		for _, k := range keys {
			tw.Line(depth+1, "%q -> frame %d", k, labels[k])
		}
	}
	if len(d.TimelineDepths) > 0 {
		tw.Line(depth, "Timeline depths: %v", d.TimelineDepths)
	}
	for i, f := range d.Frames {
		if len(f.Records) == 0 && len(f.Label) == 0 {
			continue
		}
		if len(f.Label) > 0 {
			tw.Line(depth, "Frame %d %q", i+1, f.Label)
		} else {
			tw.Line(depth, "Frame %d", i+1)
		}
		for _, rec := range f.Records {
			tw.Line(depth+1, "%s", Describe(rec))
			switch r := rec.(type) {
			case *tag.Action:
				pd.dump(depth+2, "actions", r.Actions)
			case *tag.Place:
				for _, bnd := range r.Bindings {
					pd.dump(depth+2, bnd.Trigger.String(), bnd.Payload)
				}
			}
		}
	}
}

// Describe returns a one line description of a record.
func Describe(rec tag.Record) string {
	switch r := rec.(type) {
	case *tag.Place:
		var b strings.Builder
		fmt.Fprintf(&b, "%s depth[%d]", r.Kind, r.Depth)
		if r.Has(tag.PlaceHasCharacter) {
			fmt.Fprintf(&b, " character[%d]", r.CharacterID)
		}
		if r.Has(tag.PlaceHasName) {
			fmt.Fprintf(&b, " name[%q]", r.Name)
		}
		if r.Has(tag.PlaceHasMatrix) {
			fmt.Fprintf(&b, " matrix%s", r.Matrix)
		}
		if r.Has(tag.PlaceHasRatio) {
			fmt.Fprintf(&b, " ratio[%d]", r.Ratio)
		}
		if r.Has(tag.PlaceHasClipDepth) {
			fmt.Fprintf(&b, " clip[%d]", r.ClipDepth)
		}
		for _, bnd := range r.Bindings {
			if bnd.KeyCode != 0 {
				fmt.Fprintf(&b, " on[%s:%d]", bnd.Trigger, bnd.KeyCode)
			} else {
				fmt.Fprintf(&b, " on[%s]", bnd.Trigger)
			}
		}
		return b.String()
	case *tag.Remove:
		return fmt.Sprintf("remove depth[%d]", r.Depth)
	case *tag.Action:
		return fmt.Sprintf("actions %d bytes", len(r.Actions))
	case *tag.Skipped:
		return fmt.Sprintf("skipped %s: %v", r.Tag.Code, r.Reason)
	case *tag.Unknown:
		return fmt.Sprintf("unknown %s %d bytes", r.Tag.Code, len(r.Body))
	}
	return rec.TagHeader().Code.String()
}
