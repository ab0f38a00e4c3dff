// Package tag decodes SWF tag records.
//
// Every record is decoded inside a bound set to its declared end, and the
// cursor is moved to that end afterwards no matter how much the per-type
// reader consumed. A malformed or unknown record therefore never
// desynchronizes the records following it.
package tag

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"swfplay/swf/stream"
)

// OverrunPolicy decides what happens to a record whose reader tried to go
// past the declared end.
type OverrunPolicy int

const (
	// OverrunDiscard replaces the record with Skipped.
	OverrunDiscard OverrunPolicy = iota
	// OverrunKeep keeps whatever the reader produced.
	OverrunKeep
)

// Options control decoding.
type Options struct {
	// Version is the container version from the file header.
	Version uint8
	Overrun OverrunPolicy
	// Text converts strings of pre-6 containers; nil keeps raw bytes.
	Text TextDecoder
	// MaxLength skips records declaring more bytes, 0 means no limit.
	MaxLength int64
}

// DecodeFunc decodes one record body. The reader available through the
// decoder is bounded by the record's declared end.
type DecodeFunc func(d *Decoder, h Header) (Record, error)

var errNotInSprite = errors.New("tag not allowed in sprite")

// Decoder reads records one at a time.
type Decoder struct {
	r      *stream.Reader
	log    *zap.Logger
	opts   Options
	table  map[Code]DecodeFunc
	issues error
	done   bool
}

// NewDecoder creates decoder positioned at the first record header.
func NewDecoder(r *stream.Reader, opts Options, log *zap.Logger) *Decoder {
	d := &Decoder{
		r:     r,
		log:   log,
		opts:  opts,
		table: make(map[Code]DecodeFunc, len(decoders)),
	}
	for code, fn := range decoders {
		d.table[code] = fn
	}
	return d
}

// Register installs fn for code, replacing any previous decoder. A nil fn
// makes records of this type Unknown.
func (d *Decoder) Register(code Code, fn DecodeFunc) {
	if fn == nil {
		delete(d.table, code)
		return
	}
	d.table[code] = fn
}

func (d *Decoder) Reader() *stream.Reader {
	return d.r
}

func (d *Decoder) Version() uint8 {
	return d.opts.Version
}

// Issues returns all recoverable problems seen so far combined with multierr.
func (d *Decoder) Issues() error {
	return d.issues
}

func (d *Decoder) note(err error) {
	d.issues = multierr.Append(d.issues, err)
}

// text converts string bytes according to the container version.
func (d *Decoder) text(b []byte) string {
	if d.opts.Version >= 6 || d.opts.Text == nil {
		return string(b)
	}
	return d.opts.Text(b)
}

// Next returns the next record. After End, at the end of data, or after a
// truncation which makes the next boundary unknown it returns io.EOF.
// A *TruncatedStreamError is returned when a header could not be read.
func (d *Decoder) Next() (Record, error) {
	if d.done || d.r.Remaining() == 0 {
		d.done = true
		return nil, io.EOF
	}
	rec, last, err := d.decodeTag(false)
	if err != nil {
		d.done = true
		return nil, err
	}
	if _, ok := rec.(*End); ok || last {
		d.done = true
	}
	return rec, nil
}

// All decodes remaining records. Records decoded before a truncation are
// returned along with the error.
func (d *Decoder) All() ([]Record, error) {
	var out []Record
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// decodeTag decodes one record in the current bound. last is set when the
// record reached the end of available data so nothing can follow it.
func (d *Decoder) decodeTag(nested bool) (Record, bool, error) {
	h, err := ReadHeader(d.r)
	if err != nil {
		terr := &TruncatedStreamError{Offset: h.Offset, Err: err}
		d.log.Warn("Unable to read tag header, stopping", zap.Int("offset", h.Offset), zap.Error(err))
		d.note(terr)
		return nil, true, terr
	}

	log := d.log.With(zap.Stringer("tag", h.Code), zap.Int("offset", h.Offset))
	log.Debug("Tag", zap.Int64("length", h.Length))

	limit := int64(d.r.TagEnd())
	last := false
	if h.End() > limit {
		last = true
		terr := &TruncatedStreamError{Offset: h.Offset, Err: fmt.Errorf("declared end %d beyond %d", h.End(), limit)}
		log.Warn("Tag extends past available data", zap.Int64("declared", h.Length), zap.Int64("available", limit-int64(h.BodyStart)))
		d.note(terr)
	}
	end := int(min(h.End(), limit))

	if d.opts.MaxLength > 0 && h.Length > d.opts.MaxLength {
		err := fmt.Errorf("%w: %d > %d", ErrTooLong, h.Length, d.opts.MaxLength)
		log.Warn("Skipping oversized tag", zap.Error(err))
		d.note(&StructuralError{Tag: h, Err: err})
		d.r.OpenTag(end)
		d.r.CloseTag()
		return &Skipped{base: base{h}, Reason: err}, last, nil
	}

	d.r.OpenTag(end)
	rec, err := d.dispatch(h, nested, log)
	over, excess := d.r.Overran()
	consumed := int64(d.r.Position() - h.BodyStart)
	d.r.CloseTag()

	switch {
	case last && (over || err != nil):
		if err == nil {
			err = stream.ErrTruncated
		}
		log.Warn("Truncated tag abandoned", zap.Error(err))
		return &Skipped{base: base{h}, Reason: &TruncatedStreamError{Offset: h.Offset, Err: err}}, true, nil

	case over:
		lm := &LengthMismatchError{Tag: h, Consumed: h.Length + int64(excess), Over: true}
		d.note(lm)
		if d.opts.Overrun == OverrunKeep && rec != nil {
			log.Warn("Tag over-read, keeping partial record", zap.Error(lm))
			return rec, last, nil
		}
		log.Warn("Tag over-read, record discarded", zap.Error(lm))
		return &Skipped{base: base{h}, Reason: lm}, last, nil

	case err != nil:
		log.Warn("Tag abandoned", zap.Error(err))
		d.note(fmt.Errorf("tag %s at %d: %w", h.Code, h.Offset, err))
		return &Skipped{base: base{h}, Reason: err}, last, nil

	case consumed < h.Length && !last:
		log.Debug("Tag under-read, skipping remainder",
			zap.Error(&LengthMismatchError{Tag: h, Consumed: consumed}))
	}
	return rec, last, nil
}

func (d *Decoder) dispatch(h Header, nested bool, log *zap.Logger) (Record, error) {
	if nested && !h.Code.AllowedInSprite() {
		log.Warn("Tag not allowed in sprite timeline, skipping")
		d.note(&StructuralError{Tag: h, Err: errNotInSprite})
		return &Unknown{base: base{h}, Body: bytes.Clone(d.r.Window(h.BodyStart))}, nil
	}
	fn, ok := d.table[h.Code]
	if !ok {
		log.Debug("No decoder registered, skipping")
		return &Unknown{base: base{h}, Body: bytes.Clone(d.r.Window(h.BodyStart))}, nil
	}
	return fn(d, h)
}

// structural records a recoverable irregularity inside a record.
func (d *Decoder) structural(h Header, err error) {
	d.note(&StructuralError{Tag: h, Err: err})
}

var decoders map[Code]DecodeFunc

func init() {
	decoders = map[Code]DecodeFunc{
		CodeEnd:                readEnd,
		CodeShowFrame:          readShowFrame,
		CodePlaceObject:        readPlaceObject,
		CodePlaceObject2:       readPlaceObject2,
		CodePlaceObject3:       readPlaceObject2,
		CodeRemoveObject:       readRemoveObject,
		CodeRemoveObject2:      readRemoveObject2,
		CodeDoAction:           readDoAction,
		CodeDoInitAction:       readDoInitAction,
		CodeFrameLabel:         readFrameLabel,
		CodeSetBackgroundColor: readBackgroundColor,
		CodeFileAttributes:     readFileAttributes,
		CodeDefineSprite:       readSprite,
	}
	for code := range definitionCodes {
		decoders[code] = readDefine
	}
}
