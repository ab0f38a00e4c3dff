package tag

import (
	"fmt"

	"golang.org/x/text/encoding/ianaindex"
)

// TextDecoder converts string bytes of pre-6 containers, which carry text in
// the producer's locale encoding.
type TextDecoder func([]byte) string

// NewTextDecoder returns decoder for an IANA character set name. Empty name
// returns nil: bytes are used as is.
func NewTextDecoder(name string) (TextDecoder, error) {
	if len(name) == 0 {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown text encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported text encoding %q", name)
	}
	dec := enc.NewDecoder()
	return func(b []byte) string {
		out, err := dec.Bytes(b)
		if err != nil {
			return string(b)
		}
		return string(out)
	}, nil
}
