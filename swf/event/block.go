package event

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"swfplay/swf/stream"
)

var (
	// ErrEventOverrun is returned when a record declares more payload than
	// the tag holds. The enclosing tag has to be abandoned.
	ErrEventOverrun = errors.New("event: declared length exceeds tag")
	// ErrReservedNonZero marks a reserved field that was not zero.
	ErrReservedNonZero = errors.New("event: reserved field not zero")
	// ErrUnknownTriggerBits marks reserved trigger bits being set.
	ErrUnknownTriggerBits = errors.New("event: reserved trigger bits set")
	// ErrPayloadMismatch marks an action stream that does not fill its
	// declared length exactly.
	ErrPayloadMismatch = errors.New("event: action length mismatch")
)

// Block is a decoded event handler block.
type Block struct {
	// AllTriggers is the aggregate mask as declared by the producer.
	AllTriggers uint32
	Bindings    []Binding
	// Issues lists recoverable irregularities found while decoding.
	Issues []error
}

// Record is one handler record for encoding: all triggers in Mask share the
// same payload.
type Record struct {
	Mask    uint32
	KeyCode uint8
	Payload []byte
}

func wideMasks(version uint8) bool {
	return version >= 6
}

func readMask(r *stream.Reader, version uint8) uint32 {
	if wideMasks(version) {
		return r.ReadU32()
	}
	return uint32(r.ReadU16())
}

// ReadBlock decodes the handler block at the reader position. The reader must
// be bounded by the enclosing tag. A nil error means the block was consumed
// up to and including its terminating zero mask.
func ReadBlock(r *stream.Reader, version uint8, log *zap.Logger) (*Block, error) {
	blk := &Block{}

	if reserved := r.ReadU16(); reserved != 0 {
		log.Warn("Reserved field in event block is not zero", zap.Uint16("value", reserved))
		blk.Issues = append(blk.Issues, fmt.Errorf("%w: %#x", ErrReservedNonZero, reserved))
	}
	blk.AllTriggers = readMask(r, version)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("event block header: %w", err)
	}
	log.Debug("Event block", zap.Uint32("triggers", blk.AllTriggers))

	for {
		r.Align()
		mask := readMask(r, version)
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("event record mask: %w", err)
		}
		if mask == 0 {
			break
		}

		length := r.ReadU32()
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("event record length: %w", err)
		}
		if remaining := r.Remaining(); uint64(length) > uint64(remaining) {
			log.Warn("Event record length exceeds tag, abandoning",
				zap.Uint32("length", length), zap.Int("remaining", remaining))
			return nil, fmt.Errorf("%w: %d > %d", ErrEventOverrun, length, remaining)
		}

		var key uint8
		if mask&(1<<KeyPressBit) != 0 {
			if length == 0 {
				return nil, fmt.Errorf("%w: key press record without key code", ErrEventOverrun)
			}
			key = r.ReadU8()
			length--
		}

		payload := r.ReadBytes(int(length))
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("event record payload: %w", err)
		}
		switch n, complete := ActionStreamLen(payload); {
		case !complete:
			log.Warn("Event actions run past declared length, truncating", zap.Uint32("declared", length))
			blk.Issues = append(blk.Issues, fmt.Errorf("%w: actions exceed %d bytes", ErrPayloadMismatch, length))
		case n < len(payload):
			log.Warn("Event actions shorter than declared length, skipping excess",
				zap.Uint32("declared", length), zap.Int("actions", n))
			blk.Issues = append(blk.Issues, fmt.Errorf("%w: %d of %d bytes used", ErrPayloadMismatch, n, length))
			payload = payload[:n:n]
		}

		if unknown := mask &^ knownMask; unknown != 0 {
			log.Warn("Unknown event trigger bits ignored", zap.Uint32("mask", mask), zap.Uint32("unknown", unknown))
			blk.Issues = append(blk.Issues, fmt.Errorf("%w: %#x", ErrUnknownTriggerBits, unknown))
		}
		for bit := range TableSize {
			if mask&(1<<bit) == 0 {
				continue
			}
			t, ok := TriggerAt(bit)
			if !ok {
				continue
			}
			b := Binding{Trigger: t, Payload: payload}
			if bit == KeyPressBit {
				b.KeyCode = key
			}
			blk.Bindings = append(blk.Bindings, b)
		}
	}
	return blk, nil
}

// ActionStreamLen measures an action stream: records are a code byte,
// followed by a u16 length and body when the code is 0x80 or above, and
// the stream ends with a zero code. It returns the length including the end
// marker and whether the end marker was found inside data. Actions are not
// interpreted beyond their framing.
func ActionStreamLen(data []byte) (int, bool) {
	i := 0
	for i < len(data) {
		code := data[i]
		i++
		if code == 0 {
			return i, true
		}
		if code >= 0x80 {
			if i+2 > len(data) {
				return len(data), false
			}
			i += 2 + int(binary.LittleEndian.Uint16(data[i:]))
		}
	}
	return len(data), len(data) == 0
}

// WriteBlock encodes records the way ReadBlock expects them.
func WriteBlock(w *stream.Writer, version uint8, records []Record) {
	var all uint32
	for _, rec := range records {
		all |= rec.Mask
	}
	writeMask := func(m uint32) {
		if wideMasks(version) {
			w.WriteU32(m)
		} else {
			w.WriteU16(uint16(m))
		}
	}

	w.WriteU16(0)
	writeMask(all)
	for _, rec := range records {
		writeMask(rec.Mask)
		length := uint32(len(rec.Payload))
		if rec.Mask&(1<<KeyPressBit) != 0 {
			length++
		}
		w.WriteU32(length)
		if rec.Mask&(1<<KeyPressBit) != 0 {
			w.WriteU8(rec.KeyCode)
		}
		w.WriteBytes(rec.Payload)
	}
	writeMask(0)
}
