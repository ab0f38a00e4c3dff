package movie

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/h2non/filetype"
	"github.com/klauspost/compress/zlib"
	"github.com/ulikunitz/xz/lzma"
	"go.uber.org/zap"

	"swfplay/swf/stream"
	"swfplay/swf/tag"
)

//go:generate go tool go-enum --marshal --names

// Compression of the container body.
// ENUM(none, zlib, lzma)
type Compression int

var (
	ErrNotMovie       = errors.New("movie: not a SWF container")
	ErrBadCompression = errors.New("movie: unable to decompress body")
)

const (
	fileHeaderSize = 8
	// ZWS: compressed size u32 and 5 bytes of LZMA properties follow the
	// common header
	lzmaHeaderSize = fileHeaderSize + 4 + 5
)

// zwsType is registered with filetype, which only knows FWS and CWS.
var zwsType = filetype.NewType("zws", "application/x-shockwave-flash")

func init() {
	filetype.AddMatcher(zwsType, func(buf []byte) bool {
		return len(buf) > 3 && buf[0] == 'Z' && buf[1] == 'W' && buf[2] == 'S'
	})
}

// IsMovie reports whether data starts with one of the container signatures.
func IsMovie(data []byte) bool {
	return filetype.Is(data, "swf") || filetype.Is(data, zwsType.Extension)
}

// Header is the container file header followed by the movie header fields.
type Header struct {
	Signature   string      `yaml:"signature" cbor:"signature"`
	Compression Compression `yaml:"compression" cbor:"compression"`
	Version     uint8       `yaml:"version" cbor:"version"`
	// FileLength is the declared uncompressed length including the file
	// header.
	FileLength uint32   `yaml:"file_length" cbor:"file_length"`
	FrameSize  tag.Rect `yaml:"frame_size" cbor:"frame_size"`
	// FrameRate is 8.8 fixed point on the wire.
	FrameRate  float64 `yaml:"frame_rate" cbor:"frame_rate"`
	FrameCount uint16  `yaml:"frame_count" cbor:"frame_count"`
}

// inflate returns the uncompressed data following the file header. A body
// which ends before the declared length is returned as is with a warning:
// the tag decoder deals with truncation.
func inflate(data []byte, h *Header, log *zap.Logger) ([]byte, error) {
	want := int64(h.FileLength) - fileHeaderSize
	if want < 0 {
		return nil, fmt.Errorf("%w: declared file length %d", ErrNotMovie, h.FileLength)
	}

	var (
		rd  io.Reader
		err error
	)
	switch h.Compression {
	case CompressionNone:
		body := data[fileHeaderSize:]
		if int64(len(body)) < want {
			log.Warn("File is shorter than declared", zap.Uint32("declared", h.FileLength), zap.Int("actual", len(data)))
		}
		return body, nil
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data[fileHeaderSize:]))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadCompression, err)
		}
		defer zr.Close()
		rd = zr
	case CompressionLzma:
		if len(data) < lzmaHeaderSize {
			return nil, fmt.Errorf("%w: LZMA header truncated", ErrBadCompression)
		}
		// rebuild classic LZMA header: properties, then uncompressed size
		hdr := make([]byte, 0, 13)
		hdr = append(hdr, data[fileHeaderSize+4:lzmaHeaderSize]...)
		hdr = binary.LittleEndian.AppendUint64(hdr, uint64(want))
		if rd, err = lzma.NewReader(io.MultiReader(bytes.NewReader(hdr), bytes.NewReader(data[lzmaHeaderSize:]))); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadCompression, err)
		}
	}

	// declared length is not trusted for allocation
	body, err := io.ReadAll(io.LimitReader(rd, want))
	switch {
	case err == nil, errors.Is(err, io.ErrUnexpectedEOF):
		if int64(len(body)) < want {
			log.Warn("Compressed body is shorter than declared", zap.Int64("declared", want), zap.Int("actual", len(body)))
		}
	default:
		if len(body) == 0 {
			return nil, fmt.Errorf("%w: %w", ErrBadCompression, err)
		}
		log.Warn("Compressed body is damaged, keeping decompressed part", zap.Int("actual", len(body)), zap.Error(err))
	}
	return body, nil
}

// readHeader parses the container header and returns reader positioned at
// the first tag of the uncompressed body.
func readHeader(data []byte, log *zap.Logger) (Header, *stream.Reader, error) {
	var h Header
	if len(data) < fileHeaderSize || !IsMovie(data) {
		return h, nil, ErrNotMovie
	}
	h.Signature = string(data[:3])
	switch data[0] {
	case 'C':
		h.Compression = CompressionZlib
	case 'Z':
		h.Compression = CompressionLzma
	}
	h.Version = data[3]
	h.FileLength = binary.LittleEndian.Uint32(data[4:8])

	body, err := inflate(data, &h, log)
	if err != nil {
		return h, nil, err
	}

	r := stream.NewReader(body)
	h.FrameSize = tag.ReadRect(r)
	h.FrameRate = float64(r.ReadU16()) / 256
	h.FrameCount = r.ReadU16()
	if err := r.Err(); err != nil {
		return h, nil, fmt.Errorf("movie header: %w", err)
	}
	return h, r, nil
}

// Compress produces container bytes for an uncompressed body (movie header
// and tags) using the requested compression.
func Compress(version uint8, body []byte, c Compression) ([]byte, error) {
	length := uint32(len(body) + fileHeaderSize)
	out := make([]byte, 0, fileHeaderSize+len(body))
	sig := map[Compression]string{CompressionNone: "FWS", CompressionZlib: "CWS", CompressionLzma: "ZWS"}[c]
	out = append(out, sig...)
	out = append(out, version)
	out = binary.LittleEndian.AppendUint32(out, length)

	switch c {
	case CompressionNone:
		return append(out, body...), nil
	case CompressionZlib:
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(body); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return append(out, buf.Bytes()...), nil
	case CompressionLzma:
		var buf bytes.Buffer
		lw, err := lzma.WriterConfig{SizeInHeader: true, Size: int64(len(body))}.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		if _, err := lw.Write(body); err != nil {
			return nil, err
		}
		if err := lw.Close(); err != nil {
			return nil, err
		}
		classic := buf.Bytes()
		// drop the 8 byte size, keep properties
		out = binary.LittleEndian.AppendUint32(out, uint32(len(classic)-13))
		out = append(out, classic[:5]...)
		return append(out, classic[13:]...), nil
	}
	return nil, fmt.Errorf("unsupported compression %v", c)
}
