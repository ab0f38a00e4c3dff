package stream

import (
	"encoding/binary"
	"math/bits"
)

// Writer produces data Reader can consume: MSB-first bit fields,
// little-endian integers, null-terminated strings.
type Writer struct {
	buf     []byte
	cur     byte
	pending uint8
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes flushes any partial byte and returns the written data.
func (w *Writer) Bytes() []byte {
	w.Align()
	return w.buf
}

// Len returns number of complete bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Align pads a partially written byte with zero bits.
func (w *Writer) Align() {
	if w.pending > 0 {
		w.buf = append(w.buf, w.cur<<(8-w.pending))
		w.cur, w.pending = 0, 0
	}
}

func (w *Writer) WriteU8(v uint8) {
	w.Align()
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteU16(v uint16) {
	w.Align()
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteU32(v uint32) {
	w.Align()
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteBytes(b []byte) {
	w.Align()
	w.buf = append(w.buf, b...)
}

// WriteString writes s followed by the terminator.
func (w *Writer) WriteString(s string) {
	w.Align()
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

func (w *Writer) WriteBit(b bool) {
	if b {
		w.WriteUint(1, 1)
	} else {
		w.WriteUint(0, 1)
	}
}

// WriteUint writes the low n bits of v, most significant first.
func (w *Writer) WriteUint(v uint32, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		w.cur = w.cur<<1 | byte(v>>uint(i)&1)
		w.pending++
		if w.pending == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur, w.pending = 0, 0
		}
	}
}

// WriteSint writes v as an n-bit two's complement field.
func (w *Writer) WriteSint(v int32, n uint) {
	w.WriteUint(uint32(v), n)
}

// UintBits returns the number of bits needed to store v unsigned.
func UintBits(v uint32) uint {
	return uint(bits.Len32(v))
}

// SintBits returns the number of bits needed to store all values as signed
// bit fields.
func SintBits(values ...int32) uint {
	var n uint = 1
	for _, v := range values {
		var need uint
		if v < 0 {
			need = uint(bits.Len32(uint32(^v))) + 1
		} else {
			need = uint(bits.Len32(uint32(v))) + 1
		}
		n = max(n, need)
	}
	return n
}
