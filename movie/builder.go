package movie

import (
	"bytes"

	"swfplay/swf/stream"
	"swfplay/swf/tag"
)

// Builder assembles a container from encoded records. It is used to produce
// synthetic movies for tests and diagnostics.
type Builder struct {
	version   uint8
	frameSize tag.Rect
	rate      float64
	frames    int
	records   [][]byte
}

func NewBuilder(version uint8) *Builder {
	return &Builder{
		version:   version,
		frameSize: tag.Rect{XMax: 550 * 20, YMax: 400 * 20},
		rate:      24,
		frames:    -1,
	}
}

// Add appends encoded records.
func (b *Builder) Add(records ...[]byte) *Builder {
	b.records = append(b.records, records...)
	return b
}

// Frames overrides the frame count in the movie header, by default
// ShowFrame records are counted.
func (b *Builder) Frames(n int) *Builder {
	b.frames = n
	return b
}

// Body returns the uncompressed body: movie header, records and End.
func (b *Builder) Body() []byte {
	frames := b.frames
	if frames < 0 {
		show := tag.EncodeShowFrame()
		frames = 0
		for _, rec := range b.records {
			if bytes.Equal(rec, show) {
				frames++
			}
		}
	}
	w := stream.NewWriter()
	tag.WriteRect(w, b.frameSize)
	w.WriteU16(uint16(b.rate * 256))
	w.WriteU16(uint16(frames))
	for _, rec := range b.records {
		w.WriteBytes(rec)
	}
	w.WriteBytes(tag.Encode(tag.CodeEnd, nil))
	return w.Bytes()
}

// Bytes returns the complete container.
func (b *Builder) Bytes(c Compression) ([]byte, error) {
	return Compress(b.version, b.Body(), c)
}
