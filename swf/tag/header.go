package tag

import (
	"fmt"

	"swfplay/swf/stream"
)

const (
	lengthBits = 6
	lengthMask = 1<<lengthBits - 1
	// LongLength in the short length field announces a u32 length.
	LongLength = lengthMask
)

// Header is a decoded record header.
type Header struct {
	Code Code `yaml:"code" cbor:"code"`
	// Offset of the header itself.
	Offset int `yaml:"offset" cbor:"offset"`
	// BodyStart is the offset of the first body byte.
	BodyStart int `yaml:"-" cbor:"-"`
	// Length is the declared body length.
	Length int64 `yaml:"length" cbor:"length"`
	Long   bool  `yaml:"-" cbor:"-"`
}

// End returns declared end of the body.
func (h Header) End() int64 {
	return int64(h.BodyStart) + h.Length
}

// ReadHeader reads a short or long form header at the cursor.
func ReadHeader(r *stream.Reader) (Header, error) {
	h := Header{Offset: r.Position()}
	word := r.ReadU16()
	if err := r.Err(); err != nil {
		return h, fmt.Errorf("tag header at %d: %w", h.Offset, err)
	}
	h.Code = Code(word >> lengthBits)
	h.Length = int64(word & lengthMask)
	if h.Length == LongLength {
		h.Long = true
		h.Length = int64(r.ReadU32())
		if err := r.Err(); err != nil {
			return h, fmt.Errorf("tag %s long length at %d: %w", h.Code, h.Offset, err)
		}
	}
	h.BodyStart = r.Position()
	return h, nil
}

// WriteHeader writes the short form whenever the length allows it.
// forceLong is needed for tags that must always use the long form.
func WriteHeader(w *stream.Writer, code Code, length int, forceLong bool) {
	if !forceLong && length < LongLength {
		w.WriteU16(uint16(code)<<lengthBits | uint16(length))
		return
	}
	w.WriteU16(uint16(code)<<lengthBits | LongLength)
	w.WriteU32(uint32(length))
}

// Encode wraps body in a record header.
func Encode(code Code, body []byte) []byte {
	w := stream.NewWriter()
	WriteHeader(w, code, len(body), false)
	w.WriteBytes(body)
	return w.Bytes()
}
