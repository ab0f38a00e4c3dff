package movie

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"
)

// Summary is the exportable view of a loaded movie.
type Summary struct {
	Header     Header             `yaml:"header" cbor:"header"`
	Background string             `yaml:"background" cbor:"background"`
	Attributes uint32             `yaml:"attributes" cbor:"attributes"`
	Characters []CharacterSummary `yaml:"characters" cbor:"characters"`
	Root       TimelineSummary    `yaml:"root" cbor:"root"`
	Issues     []string           `yaml:"issues,omitempty" cbor:"issues,omitempty"`
}

type CharacterSummary struct {
	ID          uint16           `yaml:"id" cbor:"id"`
	Kind        string           `yaml:"kind" cbor:"kind"`
	Bounds      string           `yaml:"bounds,omitempty" cbor:"bounds,omitempty"`
	BodySize    int              `yaml:"body_size" cbor:"body_size"`
	InitActions int              `yaml:"init_actions,omitempty" cbor:"init_actions,omitempty"`
	Timeline    *TimelineSummary `yaml:"timeline,omitempty" cbor:"timeline,omitempty"`
}

type TimelineSummary struct {
	FrameCount int            `yaml:"frame_count" cbor:"frame_count"`
	Depths     []int          `yaml:"timeline_depths,omitempty" cbor:"timeline_depths,omitempty"`
	Frames     []FrameSummary `yaml:"frames,omitempty" cbor:"frames,omitempty"`
}

type FrameSummary struct {
	Number  int      `yaml:"number" cbor:"number"`
	Label   string   `yaml:"label,omitempty" cbor:"label,omitempty"`
	Records []string `yaml:"records" cbor:"records"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("movie: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Summary builds the exportable view. Empty frames are omitted.
func (m *Movie) Summary() *Summary {
	s := &Summary{
		Header:     m.Header,
		Background: m.Background.String(),
		Attributes: m.Attributes,
		Root:       summarizeTimeline(m.Root),
	}
	for _, id := range m.Registry.IDs() {
		c, _ := m.Registry.Lookup(id)
		cs := CharacterSummary{ID: id, Kind: c.Code.String(), BodySize: len(c.Body), InitActions: len(m.InitActions[id])}
		if c.Bounds != nil {
			cs.Bounds = c.Bounds.String()
		}
		if c.IsSprite() {
			ts := summarizeTimeline(c.Timeline)
			cs.Timeline = &ts
		}
		s.Characters = append(s.Characters, cs)
	}
	for _, err := range multierr.Errors(m.Issues) {
		s.Issues = append(s.Issues, err.Error())
	}
	return s
}

func summarizeTimeline(d *Definition) TimelineSummary {
	ts := TimelineSummary{FrameCount: d.FrameCount(), Depths: d.TimelineDepths}
	for i, f := range d.Frames {
		if len(f.Records) == 0 && len(f.Label) == 0 {
			continue
		}
		fs := FrameSummary{Number: i + 1, Label: f.Label, Records: make([]string, 0, len(f.Records))}
		for _, rec := range f.Records {
			fs.Records = append(fs.Records, Describe(rec))
		}
		ts.Frames = append(ts.Frames, fs)
	}
	return ts
}

// YAML encodes the summary.
func (s *Summary) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary to yaml: %w", err)
	}
	return data, nil
}

// CBOR encodes the summary deterministically.
func (s *Summary) CBOR() ([]byte, error) {
	data, err := cborEncMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary to cbor: %w", err)
	}
	return data, nil
}

// DecodeSummary reads a summary produced by CBOR.
func DecodeSummary(data []byte) (*Summary, error) {
	var s Summary
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("movie: unmarshal summary: %w", err)
	}
	return &s, nil
}
