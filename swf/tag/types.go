package tag

import (
	"fmt"

	"swfplay/swf/stream"
)

// Fixed16 is a signed 16.16 fixed point number.
type Fixed16 int32

const fixedOne Fixed16 = 1 << 16

func (f Fixed16) Float() float64 {
	return float64(f) / float64(fixedOne)
}

// Matrix is a 2x3 affine transform; translation in twips.
type Matrix struct {
	ScaleX      Fixed16 `yaml:"scale_x" cbor:"sx"`
	ScaleY      Fixed16 `yaml:"scale_y" cbor:"sy"`
	RotateSkew0 Fixed16 `yaml:"rotate_skew0" cbor:"r0"`
	RotateSkew1 Fixed16 `yaml:"rotate_skew1" cbor:"r1"`
	TranslateX  int32   `yaml:"translate_x" cbor:"tx"`
	TranslateY  int32   `yaml:"translate_y" cbor:"ty"`
}

// IdentityMatrix leaves coordinates unchanged.
var IdentityMatrix = Matrix{ScaleX: fixedOne, ScaleY: fixedOne}

func (m Matrix) String() string {
	return fmt.Sprintf("[%.3f %.3f %.3f %.3f %d %d]",
		m.ScaleX.Float(), m.RotateSkew0.Float(), m.RotateSkew1.Float(), m.ScaleY.Float(), m.TranslateX, m.TranslateY)
}

func readMatrix(r *stream.Reader) Matrix {
	r.Align()
	m := IdentityMatrix
	if r.ReadBit() {
		n := uint(r.ReadUint(5))
		m.ScaleX = Fixed16(r.ReadSint(n))
		m.ScaleY = Fixed16(r.ReadSint(n))
	}
	if r.ReadBit() {
		n := uint(r.ReadUint(5))
		m.RotateSkew0 = Fixed16(r.ReadSint(n))
		m.RotateSkew1 = Fixed16(r.ReadSint(n))
	}
	n := uint(r.ReadUint(5))
	m.TranslateX = r.ReadSint(n)
	m.TranslateY = r.ReadSint(n)
	return m
}

func writeMatrix(w *stream.Writer, m Matrix) {
	w.Align()
	hasScale := m.ScaleX != fixedOne || m.ScaleY != fixedOne
	w.WriteBit(hasScale)
	if hasScale {
		n := stream.SintBits(int32(m.ScaleX), int32(m.ScaleY))
		w.WriteUint(uint32(n), 5)
		w.WriteSint(int32(m.ScaleX), n)
		w.WriteSint(int32(m.ScaleY), n)
	}
	hasRotate := m.RotateSkew0 != 0 || m.RotateSkew1 != 0
	w.WriteBit(hasRotate)
	if hasRotate {
		n := stream.SintBits(int32(m.RotateSkew0), int32(m.RotateSkew1))
		w.WriteUint(uint32(n), 5)
		w.WriteSint(int32(m.RotateSkew0), n)
		w.WriteSint(int32(m.RotateSkew1), n)
	}
	var n uint
	if m.TranslateX != 0 || m.TranslateY != 0 {
		n = stream.SintBits(m.TranslateX, m.TranslateY)
	}
	w.WriteUint(uint32(n), 5)
	w.WriteSint(m.TranslateX, n)
	w.WriteSint(m.TranslateY, n)
	w.Align()
}

// ColorTransform multiplies (8.8 fixed) then adds per channel.
type ColorTransform struct {
	MulR int16 `yaml:"mul_r" cbor:"mr"`
	MulG int16 `yaml:"mul_g" cbor:"mg"`
	MulB int16 `yaml:"mul_b" cbor:"mb"`
	MulA int16 `yaml:"mul_a" cbor:"ma"`
	AddR int16 `yaml:"add_r" cbor:"ar"`
	AddG int16 `yaml:"add_g" cbor:"ag"`
	AddB int16 `yaml:"add_b" cbor:"ab"`
	AddA int16 `yaml:"add_a" cbor:"aa"`
}

// IdentityColorTransform leaves colors unchanged.
var IdentityColorTransform = ColorTransform{MulR: 256, MulG: 256, MulB: 256, MulA: 256}

func readColorTransform(r *stream.Reader, withAlpha bool) ColorTransform {
	r.Align()
	cx := IdentityColorTransform
	hasAdd := r.ReadBit()
	hasMul := r.ReadBit()
	n := uint(r.ReadUint(4))
	if hasMul {
		cx.MulR = int16(r.ReadSint(n))
		cx.MulG = int16(r.ReadSint(n))
		cx.MulB = int16(r.ReadSint(n))
		if withAlpha {
			cx.MulA = int16(r.ReadSint(n))
		}
	}
	if hasAdd {
		cx.AddR = int16(r.ReadSint(n))
		cx.AddG = int16(r.ReadSint(n))
		cx.AddB = int16(r.ReadSint(n))
		if withAlpha {
			cx.AddA = int16(r.ReadSint(n))
		}
	}
	return cx
}

func writeColorTransform(w *stream.Writer, cx ColorTransform, withAlpha bool) {
	w.Align()
	mul := []int32{int32(cx.MulR), int32(cx.MulG), int32(cx.MulB)}
	add := []int32{int32(cx.AddR), int32(cx.AddG), int32(cx.AddB)}
	if withAlpha {
		mul = append(mul, int32(cx.MulA))
		add = append(add, int32(cx.AddA))
	}
	hasMul := cx.MulR != 256 || cx.MulG != 256 || cx.MulB != 256 || (withAlpha && cx.MulA != 256)
	hasAdd := cx.AddR != 0 || cx.AddG != 0 || cx.AddB != 0 || (withAlpha && cx.AddA != 0)

	var all []int32
	if hasMul {
		all = append(all, mul...)
	}
	if hasAdd {
		all = append(all, add...)
	}
	var n uint
	if len(all) > 0 {
		n = stream.SintBits(all...)
	}
	w.WriteBit(hasAdd)
	w.WriteBit(hasMul)
	w.WriteUint(uint32(n), 4)
	for _, v := range all {
		w.WriteSint(v, n)
	}
	w.Align()
}

// Rect is a bounding box in twips.
type Rect struct {
	XMin int32 `yaml:"x_min" cbor:"x0"`
	XMax int32 `yaml:"x_max" cbor:"x1"`
	YMin int32 `yaml:"y_min" cbor:"y0"`
	YMax int32 `yaml:"y_max" cbor:"y1"`
}

func (rc Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", rc.XMin, rc.YMin, rc.XMax, rc.YMax)
}

// ReadRect reads a bit-packed rectangle.
func ReadRect(r *stream.Reader) Rect {
	r.Align()
	n := uint(r.ReadUint(5))
	rc := Rect{
		XMin: r.ReadSint(n),
		XMax: r.ReadSint(n),
		YMin: r.ReadSint(n),
		YMax: r.ReadSint(n),
	}
	r.Align()
	return rc
}

// WriteRect writes a bit-packed rectangle.
func WriteRect(w *stream.Writer, rc Rect) {
	w.Align()
	n := stream.SintBits(rc.XMin, rc.XMax, rc.YMin, rc.YMax)
	w.WriteUint(uint32(n), 5)
	w.WriteSint(rc.XMin, n)
	w.WriteSint(rc.XMax, n)
	w.WriteSint(rc.YMin, n)
	w.WriteSint(rc.YMax, n)
	w.Align()
}

// RGBA color. Alpha is 255 for colors stored without it.
type RGBA struct {
	R uint8 `yaml:"r" cbor:"r"`
	G uint8 `yaml:"g" cbor:"g"`
	B uint8 `yaml:"b" cbor:"b"`
	A uint8 `yaml:"a" cbor:"a"`
}

func (c RGBA) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
