// Package debug has helpers producing indented text dumps for manual
// inspection and debug reports.
package debug

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// hexRowSize is number of payload bytes per HexBlock row.
const hexRowSize = 16

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// HexBlock writes a label line with the data length followed by rows of hex
// bytes one level deeper. Only the first limit bytes are written when limit
// is positive.
func (tw TreeWriter) HexBlock(depth int, label string, data []byte, limit int) {
	tw.Line(depth, "%s: %d bytes", label, len(data))
	shown := data
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for off := 0; off < len(shown); off += hexRowSize {
		row := shown[off:min(off+hexRowSize, len(shown))]
		tw.Line(depth+1, "%04x  %s", off, spaced(row))
	}
	if len(shown) < len(data) {
		tw.Line(depth+1, "... %d more", len(data)-len(shown))
	}
}

// Field formats a " name[value]" suffix used by dump lines.
func Field(name string, value any) string {
	return fmt.Sprintf(" %s[%v]", name, value)
}

func spaced(row []byte) string {
	s := hex.EncodeToString(row)
	var b strings.Builder
	for i := 0; i < len(s); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+2])
	}
	return b.String()
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
