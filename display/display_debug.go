package display

import (
	"go.uber.org/multierr"

	"swfplay/utils/debug"
)

// String returns the display list tree for debugging and play reports.
func (p *Player) String() string {
	if p == nil {
		return "<nil Player>"
	}
	tw := debug.NewTreeWriter()
	dumpClip(tw, 0, p.root)
	if issues := multierr.Errors(p.issues); len(issues) > 0 {
		tw.Line(0, "Issues: %d", len(issues))
		for _, err := range issues {
			tw.TextBlock(1, "issue", err.Error())
		}
	}
	return tw.String()
}

func dumpClip(tw *debug.TreeWriter, depth int, c *Clip) {
	tw.Line(depth, "%s frame %d/%d", c.path, c.frame, c.FrameCount())
	for _, inst := range c.list.Instances() {
		tw.Line(depth+1, "[%d] %s character[%d] handle[%d]%s", inst.Depth, inst.Name, inst.CharacterID, inst.Handle, details(inst))
		if inst.Clip != nil {
			dumpClip(tw, depth+2, inst.Clip)
		}
	}
}

func details(inst *Instance) string {
	var s string
	if inst.ClipDepth != 0 {
		s += debug.Field("clip", inst.ClipDepth)
	}
	if inst.Ratio != 0 {
		s += debug.Field("ratio", inst.Ratio)
	}
	if len(inst.Bindings) > 0 {
		s += debug.Field("bindings", len(inst.Bindings))
	}
	return s
}
