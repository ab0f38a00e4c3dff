package movie

import (
	"slices"

	"go.uber.org/zap"

	"swfplay/swf/tag"
)

// Frame is the ordered list of control records executed when the frame is
// entered.
type Frame struct {
	Label   string
	Records []tag.Record
}

// Definition is the timeline of the root movie or of a sprite. Records are
// owned by the timeline and never modified after loading.
type Definition struct {
	// ID is 0 for the root timeline.
	ID     uint16
	Frames []Frame
	// TimelineDepths lists depths in the static zone placed anywhere on
	// this timeline, ascending.
	TimelineDepths []int
	labels         map[string]int
}

// FrameCount returns number of frames.
func (d *Definition) FrameCount() int {
	return len(d.Frames)
}

// FrameByLabel returns 1-based frame number for a label.
func (d *Definition) FrameByLabel(label string) (int, bool) {
	n, ok := d.labels[label]
	return n, ok
}

// Labels returns label to 1-based frame number mapping.
func (d *Definition) Labels() map[string]int {
	return d.labels
}

// IsTimelineDepth reports whether depth is in the static zone used by
// timeline placements as opposed to script created instances.
func IsTimelineDepth(depth int) bool {
	return depth < 0 && depth >= tag.StaticDepthOffset
}

// buildTimeline splits control records into frames. Records after the last
// ShowFrame form an extra frame. The declared count is advisory: missing
// frames are added empty, extra frames are kept.
func buildTimeline(id uint16, declared int, recs []tag.Record, log *zap.Logger) *Definition {
	d := &Definition{ID: id, labels: make(map[string]int)}
	depths := make(map[int]struct{})

	var cur Frame
	for _, rec := range recs {
		switch r := rec.(type) {
		case *tag.ShowFrame:
			d.Frames = append(d.Frames, cur)
			cur = Frame{}
			continue
		case *tag.FrameLabel:
			if len(cur.Label) > 0 {
				log.Debug("Frame has more than one label, keeping first", zap.String("label", cur.Label), zap.String("ignored", r.Name))
				continue
			}
			cur.Label = r.Name
			if _, exists := d.labels[r.Name]; exists {
				log.Warn("Duplicate frame label", zap.String("label", r.Name), zap.Int("frame", len(d.Frames)+1))
			} else {
				d.labels[r.Name] = len(d.Frames) + 1
			}
			continue
		case *tag.Place:
			if IsTimelineDepth(r.Depth) {
				depths[r.Depth] = struct{}{}
			}
		case *tag.Remove, *tag.Action:
		default:
			// definitions and metadata are not replayed
			continue
		}
		cur.Records = append(cur.Records, rec)
	}
	if len(cur.Records) > 0 || len(cur.Label) > 0 {
		log.Debug("Records after the last frame, closing frame", zap.Uint16("timeline", id), zap.Int("records", len(cur.Records)))
		d.Frames = append(d.Frames, cur)
	}

	switch {
	case len(d.Frames) < declared:
		log.Debug("Fewer frames than declared, padding", zap.Uint16("timeline", id), zap.Int("declared", declared), zap.Int("actual", len(d.Frames)))
		for len(d.Frames) < declared {
			d.Frames = append(d.Frames, Frame{})
		}
	case len(d.Frames) > declared:
		log.Debug("More frames than declared", zap.Uint16("timeline", id), zap.Int("declared", declared), zap.Int("actual", len(d.Frames)))
	}

	for depth := range depths {
		d.TimelineDepths = append(d.TimelineDepths, depth)
	}
	slices.Sort(d.TimelineDepths)
	return d
}
