package tag

import (
	"fmt"

	"swfplay/swf/stream"
)

// FilterKind is the filter type id.
type FilterKind uint8

const (
	FilterDropShadow FilterKind = iota
	FilterBlur
	FilterGlow
	FilterBevel
	FilterGradientGlow
	FilterConvolution
	FilterColorMatrix
	FilterGradientBevel
)

var filterNames = [...]string{"dropShadow", "blur", "glow", "bevel", "gradientGlow", "convolution", "colorMatrix", "gradientBevel"}

func (k FilterKind) String() string {
	if int(k) < len(filterNames) {
		return filterNames[k]
	}
	return fmt.Sprintf("FilterKind(%d)", uint8(k))
}

func (k FilterKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Filter keeps the parameters of a bitmap filter undecoded; rendering is not
// done here, only framing has to be right.
type Filter struct {
	Kind FilterKind `yaml:"kind" cbor:"kind"`
	Data []byte     `yaml:"-" cbor:"data"`
}

// fixed sizes of filter bodies without variable parts
const (
	sizeDropShadow   = 4 + 4*4 + 2 + 1
	sizeBlur         = 4 + 4 + 1
	sizeGlow         = 4 + 4 + 4 + 2 + 1
	sizeBevel        = 4 + 4 + 4*4 + 2 + 1
	sizeGradientTail = 4*4 + 2 + 1
	sizeColorMatrix  = 20 * 4
)

func readFilter(r *stream.Reader) (Filter, error) {
	f := Filter{Kind: FilterKind(r.ReadU8())}
	switch f.Kind {
	case FilterDropShadow:
		f.Data = r.ReadBytes(sizeDropShadow)
	case FilterBlur:
		f.Data = r.ReadBytes(sizeBlur)
	case FilterGlow:
		f.Data = r.ReadBytes(sizeGlow)
	case FilterBevel:
		f.Data = r.ReadBytes(sizeBevel)
	case FilterGradientGlow, FilterGradientBevel:
		n := r.ReadU8()
		// colors, then ratios
		rest := r.ReadBytes(int(n)*5 + sizeGradientTail)
		f.Data = append([]byte{n}, rest...)
	case FilterConvolution:
		x, y := r.ReadU8(), r.ReadU8()
		// divisor, bias, matrix, default color, flags
		rest := r.ReadBytes(4 + 4 + int(x)*int(y)*4 + 4 + 1)
		f.Data = append([]byte{x, y}, rest...)
	case FilterColorMatrix:
		f.Data = r.ReadBytes(sizeColorMatrix)
	default:
		if err := r.Err(); err != nil {
			return f, err
		}
		return f, fmt.Errorf("%w: %d", ErrUnknownFilter, uint8(f.Kind))
	}
	return f, r.Err()
}

// readFilterList reads a counted list of filters. An unknown filter makes
// the rest of the record unreadable since its size is not known.
func readFilterList(r *stream.Reader) ([]Filter, error) {
	n := int(r.ReadU8())
	out := make([]Filter, 0, n)
	for range n {
		f, err := readFilter(r)
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
	return out, r.Err()
}

func writeFilterList(w *stream.Writer, filters []Filter) {
	w.WriteU8(uint8(len(filters)))
	for _, f := range filters {
		w.WriteU8(uint8(f.Kind))
		w.WriteBytes(f.Data)
	}
}
