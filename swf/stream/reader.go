// Package stream implements bounds-checked bit and byte level access to SWF
// data.
//
// Multi-bit fields are packed MSB-first within a byte. Every byte-level read
// discards any partially consumed byte first. Multi-byte integers are
// little-endian.
//
// Reader errors are sticky: after the first failure every subsequent read
// returns zero and Err reports the original failure. This lets per-tag
// readers decode a sequence of fields and check once.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrTruncated is reported when a read would cross the end of the buffer.
	ErrTruncated = errors.New("stream: truncated data")
	// ErrTagOverrun is reported when a read would cross the end of the
	// active tag.
	ErrTagOverrun = errors.New("stream: read past tag end")
	// ErrNoTerminator is reported when a string is not terminated before
	// the active bound.
	ErrNoTerminator = errors.New("stream: unterminated string")
)

// Reader is a cursor over an in-memory buffer.
type Reader struct {
	buf []byte
	pos int

	// bits of buf[pos-1] not consumed yet, counted from the MSB side
	unused   uint8
	curByte  byte
	tagEnds  []int
	err      error
	overrun  bool
	overrunN int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Position returns current byte offset. Partially consumed byte counts as
// consumed.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the size of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// TagEnd returns the declared end of the innermost open tag, or the buffer
// end when no tag is open.
func (r *Reader) TagEnd() int {
	if n := len(r.tagEnds); n > 0 {
		return r.tagEnds[n-1]
	}
	return len(r.buf)
}

// Remaining returns number of bytes left before the active bound.
func (r *Reader) Remaining() int {
	if end := r.TagEnd(); end > r.pos {
		return end - r.pos
	}
	return 0
}

// Depth returns the number of currently open tags.
func (r *Reader) Depth() int {
	return len(r.tagEnds)
}

// OpenTag makes end the active read bound. end is clamped to the buffer and
// to the enclosing tag, so nested bounds never widen.
func (r *Reader) OpenTag(end int) {
	if limit := r.TagEnd(); end > limit {
		end = limit
	}
	if end < r.pos {
		end = r.pos
	}
	r.tagEnds = append(r.tagEnds, end)
}

// CloseTag pops the innermost bound and unconditionally moves the cursor to
// it. Errors raised inside the tag are cleared; Overran reports whether the
// tag body tried to read beyond its end.
func (r *Reader) CloseTag() {
	n := len(r.tagEnds)
	if n == 0 {
		return
	}
	end := r.tagEnds[n-1]
	r.tagEnds = r.tagEnds[:n-1]
	r.pos = end
	r.unused = 0
	r.err = nil
	r.overrun = false
	r.overrunN = 0
}

// Overran reports whether a read crossed the active tag end since it was
// opened, and by how many bytes the failed read would have crossed it.
func (r *Reader) Overran() (bool, int) {
	return r.overrun, r.overrunN
}

// Align discards remaining bits of a partially consumed byte.
func (r *Reader) Align() {
	r.unused = 0
}

// Recover clears a failed read inside the active bound so decoding of the
// enclosing tag can go on. The cursor stays where the failure left it.
func (r *Reader) Recover() {
	r.err = nil
	r.overrun = false
	r.overrunN = 0
}

// Skip advances n bytes.
func (r *Reader) Skip(n int) bool {
	r.Align()
	if !r.ensure(n) {
		return false
	}
	r.pos += n
	return true
}

// ensure checks that n more bytes are available and records failure.
func (r *Reader) ensure(n int) bool {
	if r.err != nil {
		return false
	}
	end := r.TagEnd()
	if n < 0 {
		r.err = fmt.Errorf("stream: negative read length %d", n)
		return false
	}
	if r.pos+n <= end {
		return true
	}
	if end < len(r.buf) {
		r.err = ErrTagOverrun
	} else {
		r.err = ErrTruncated
	}
	if len(r.tagEnds) > 0 {
		r.overrun = true
		r.overrunN = r.pos + n - end
	}
	r.pos = end
	r.unused = 0
	return false
}

func (r *Reader) ReadU8() uint8 {
	r.Align()
	if !r.ensure(1) {
		return 0
	}
	v := r.buf[r.pos]
	r.pos++
	return v
}

func (r *Reader) ReadU16() uint16 {
	r.Align()
	if !r.ensure(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *Reader) ReadU32() uint32 {
	r.Align()
	if !r.ensure(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *Reader) ReadS16() int16 {
	return int16(r.ReadU16())
}

func (r *Reader) ReadS32() int32 {
	return int32(r.ReadU32())
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) []byte {
	r.Align()
	if !r.ensure(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() bool {
	return r.ReadUint(1) == 1
}

// ReadUint reads an unsigned bit field of the given width (0..32).
func (r *Reader) ReadUint(bits uint) uint32 {
	if bits > 32 {
		if r.err == nil {
			r.err = fmt.Errorf("stream: bit field width %d too large", bits)
		}
		return 0
	}
	var v uint32
	for bits > 0 {
		if r.unused == 0 {
			if !r.ensure(1) {
				return 0
			}
			r.curByte = r.buf[r.pos]
			r.pos++
			r.unused = 8
		}
		take := uint(r.unused)
		if bits < take {
			take = bits
		}
		shift := uint(r.unused) - take
		chunk := uint32(r.curByte>>shift) & (1<<take - 1)
		v = v<<take | chunk
		r.unused -= uint8(take)
		bits -= take
	}
	return v
}

// ReadSint reads a two's complement signed bit field of the given width.
func (r *Reader) ReadSint(bits uint) int32 {
	if bits == 0 {
		return 0
	}
	v := r.ReadUint(bits)
	if bits < 32 && v&(1<<(bits-1)) != 0 {
		v |= ^uint32(0) << bits
	}
	return int32(v)
}

// ReadString reads a null-terminated byte string. Returned bytes do not
// include the terminator; interpretation of the bytes is up to the caller.
func (r *Reader) ReadString() []byte {
	r.Align()
	if r.err != nil {
		return nil
	}
	end := r.TagEnd()
	for i := r.pos; i < end; i++ {
		if r.buf[i] == 0 {
			out := make([]byte, i-r.pos)
			copy(out, r.buf[r.pos:i])
			r.pos = i + 1
			return out
		}
	}
	r.err = ErrNoTerminator
	if end < len(r.buf) {
		r.overrun = true
		r.overrunN = 1
	}
	r.pos = end
	return nil
}

// Window returns the raw bytes between from and the active bound without
// copying. Used for opaque bodies that are kept as decoded.
func (r *Reader) Window(from int) []byte {
	end := r.TagEnd()
	if from < 0 || from > end {
		return nil
	}
	return r.buf[from:end]
}
