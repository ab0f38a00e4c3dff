// Package movie loads a SWF container into an immutable character registry
// and timelines ready to be played.
package movie

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"swfplay/swf/tag"
)

// Options control loading.
type Options struct {
	Overrun tag.OverrunPolicy
	// Text converts strings of pre-6 containers.
	Text         tag.TextDecoder
	MaxTagLength int64
}

// Movie is a loaded container.
type Movie struct {
	Header     Header
	Registry   *Registry
	Root       *Definition
	Background tag.RGBA
	// Attributes are FileAttributes flags, 0 when absent.
	Attributes uint32
	// InitActions maps sprite id to actions run once before the first
	// instance of the sprite is placed.
	InitActions map[uint16][]byte
	// Records is the number of top level records decoded.
	Records int
	// Issues holds every recoverable problem found while loading.
	Issues error
}

// Load decodes a container held in memory. The returned error is non-nil
// only when nothing usable could be decoded: problems in the tag stream are
// collected in Movie.Issues instead.
func Load(data []byte, opts Options, log *zap.Logger) (*Movie, error) {
	h, r, err := readHeader(data, log)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.Uint8("version", h.Version))
	log.Debug("Movie header",
		zap.String("signature", h.Signature),
		zap.Stringer("frame", h.FrameSize),
		zap.Float64("rate", h.FrameRate),
		zap.Uint16("frames", h.FrameCount))

	m := &Movie{
		Header:      h,
		Registry:    newRegistry(),
		Background:  tag.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		InitActions: make(map[uint16][]byte),
	}

	dec := tag.NewDecoder(r, tag.Options{
		Version:   h.Version,
		Overrun:   opts.Overrun,
		Text:      opts.Text,
		MaxLength: opts.MaxTagLength,
	}, log)
	recs, err := dec.All()
	if err != nil {
		var te *tag.TruncatedStreamError
		if !errors.As(err, &te) {
			return nil, err
		}
		log.Warn("Tag stream truncated, using records decoded so far", zap.Int("records", len(recs)))
	}
	m.Records = len(recs)
	m.Issues = dec.Issues()

	var control []tag.Record
	for _, rec := range recs {
		switch t := rec.(type) {
		case *tag.Define:
			m.Registry.add(&Character{ID: t.ID, Code: t.Tag.Code, Bounds: t.Bounds, Body: t.Body}, log)
		case *tag.Sprite:
			def := buildTimeline(t.ID, int(t.FrameCount), t.Records, log)
			m.Registry.add(&Character{ID: t.ID, Code: t.Tag.Code, Timeline: def}, log)
		case *tag.InitAction:
			if _, exists := m.InitActions[t.SpriteID]; exists {
				log.Warn("Duplicate init actions for sprite, keeping first", zap.Uint16("sprite", t.SpriteID))
				continue
			}
			m.InitActions[t.SpriteID] = t.Actions
		case *tag.BackgroundColor:
			m.Background = t.Color
		case *tag.FileAttributes:
			m.Attributes = t.Flags
		case *tag.Skipped:
			log.Debug("Skipped record", zap.Stringer("tag", t.Tag.Code), zap.Int("offset", t.Tag.Offset), zap.Error(t.Reason))
		case *tag.Unknown, *tag.End:
		default:
			control = append(control, rec)
		}
	}
	m.Root = buildTimeline(0, int(h.FrameCount), control, log)

	for id := range m.InitActions {
		if c, ok := m.Registry.Lookup(id); !ok || !c.IsSprite() {
			m.Issues = multierr.Append(m.Issues, &ReferenceError{ID: id, What: "init actions"})
			log.Warn("Init actions for unknown sprite", zap.Uint16("sprite", id))
		}
	}

	log.Debug("Movie loaded",
		zap.Int("records", m.Records),
		zap.Int("characters", m.Registry.Len()),
		zap.Int("frames", m.Root.FrameCount()),
		zap.Int("issues", len(multierr.Errors(m.Issues))))
	return m, nil
}

// Open loads a container from a file.
func Open(path string, opts Options, log *zap.Logger) (*Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read movie: %w", err)
	}
	return Load(data, opts, log.With(zap.String("file", path)))
}

// ReferenceError reports a reference to a character id which is not
// registered.
type ReferenceError struct {
	ID   uint16
	What string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: unknown character id %d", e.What, e.ID)
}
