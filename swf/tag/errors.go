package tag

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFilter = errors.New("tag: unknown filter")
	ErrTooLong       = errors.New("tag: declared length over limit")
	// ErrSpriteTrailing marks bytes too short for a record header at the end
	// of a sprite body.
	ErrSpriteTrailing = errors.New("tag: trailing bytes in sprite")
)

// StructuralError is an irregularity inside a record which does not prevent
// decoding it (non-zero reserved fields, unknown flag bits).
type StructuralError struct {
	Tag Header
	Err error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("tag %s at %d: %v", e.Tag.Code, e.Tag.Offset, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// LengthMismatchError reports a per-type reader that consumed a different
// number of bytes than the record declared. The decoder always resyncs to
// the declared end.
type LengthMismatchError struct {
	Tag      Header
	Consumed int64
	// Over is set when the reader tried to go beyond the declared end.
	Over bool
}

func (e *LengthMismatchError) Error() string {
	dir := "under-read"
	if e.Over {
		dir = "over-read"
	}
	return fmt.Sprintf("tag %s at %d: %s, declared %d consumed %d", e.Tag.Code, e.Tag.Offset, dir, e.Tag.Length, e.Consumed)
}

// TruncatedStreamError reports data ending before a record does. When the
// record boundary is unknown decoding stops.
type TruncatedStreamError struct {
	Offset int
	Err    error
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("stream truncated at %d: %v", e.Offset, e.Err)
}

func (e *TruncatedStreamError) Unwrap() error { return e.Err }
