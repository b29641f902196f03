// Package notebook maintains worker-side mirrors of cell-structured documents.
// A mirror is kept consistent with the authoritative editor document by
// applying its ordered change events; cells expose cached content
// fingerprints used as coarse equality proxies by the diff engine.
package notebook

import (
	"encoding/json"
	"strings"
)

// CellKind tags a cell as narrative markup or executable code.
type CellKind int

const (
	// MarkupCell is a narrative/markup cell
	MarkupCell CellKind = 1
	// CodeCell is an ordinary code cell
	CodeCell CellKind = 2
)

// OutputItem is one rendering of an output, identified by MIME type.
type OutputItem struct {
	Mime string `json:"mime"`
	Data []byte `json:"data"`
}

// Output is an ordered bundle of alternative renderings of one execution result.
type Output struct {
	Items    []OutputItem           `json:"outputs"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SourceText accepts either a single string or an ordered list of line
// strings on the wire. It is normalized to a single string on first access.
type SourceText struct {
	lines []string
}

// NewSourceText builds a SourceText from pre-split lines.
func NewSourceText(lines ...string) SourceText {
	return SourceText{lines: lines}
}

// UnmarshalJSON implements json.Unmarshaler for string | []string payloads.
func (s *SourceText) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		s.lines = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	s.lines = many
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s SourceText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.lines)
}

// Join returns the normalized full text.
func (s SourceText) Join() string {
	if len(s.lines) == 1 {
		return s.lines[0]
	}
	return strings.Join(s.lines, "\n")
}

// fingerprintState is an explicit unset/computed pair. A plain zero sentinel
// would be ambiguous: 0 is a legitimate fingerprint value.
type fingerprintState struct {
	computed bool
	value    uint64
}

// Cell is the mirror of one document cell. Cells are immutable after
// construction apart from fingerprint memoization; a changed cell is
// replaced via the With* constructors so cached fingerprints can never go
// stale relative to the content they were computed from.
type Cell struct {
	Handle           int64
	Language         string
	Kind             CellKind
	Metadata         map[string]interface{}
	InternalMetadata map[string]interface{}

	source  SourceText
	outputs []Output

	value      string
	valueSet   bool
	comparison fingerprintState
	content    fingerprintState
}

// NewCell constructs a cell mirror. The caller guarantees handle uniqueness
// within a document and a defined kind; construction always succeeds.
func NewCell(handle int64, source SourceText, language string, kind CellKind, outputs []Output, metadata, internalMetadata map[string]interface{}) *Cell {
	return &Cell{
		Handle:           handle,
		Language:         language,
		Kind:             kind,
		Metadata:         metadata,
		InternalMetadata: internalMetadata,
		source:           source,
		outputs:          outputs,
	}
}

// Value returns the full normalized text content, memoized on first access.
func (c *Cell) Value() string {
	if !c.valueSet {
		c.value = c.source.Join()
		c.valueSet = true
	}
	return c.value
}

// Outputs returns the cell's output bundles in order.
func (c *Cell) Outputs() []Output {
	return c.outputs
}

// ComparisonFingerprint returns the full structural fingerprint: language,
// normalized text, both metadata blobs, and every output's hash. Computed
// once lazily and cached for the cell's lifetime.
func (c *Cell) ComparisonFingerprint() uint64 {
	if !c.comparison.computed {
		c.comparison = fingerprintState{
			computed: true,
			value:    hashCell(c, true),
		}
	}
	return c.comparison.value
}

// ContentFingerprint returns the narrower fingerprint over text, language
// and metadata only, independent of execution outputs.
func (c *Cell) ContentFingerprint() uint64 {
	if !c.content.computed {
		c.content = fingerprintState{
			computed: true,
			value:    hashCell(c, false),
		}
	}
	return c.content.value
}

// withLanguage returns a fresh cell with the language replaced.
func (c *Cell) withLanguage(language string) *Cell {
	return NewCell(c.Handle, c.source, language, c.Kind, c.outputs, c.Metadata, c.InternalMetadata)
}

// withOutputs returns a fresh cell with the outputs replaced.
func (c *Cell) withOutputs(outputs []Output) *Cell {
	return NewCell(c.Handle, c.source, c.Language, c.Kind, outputs, c.Metadata, c.InternalMetadata)
}

// withMetadata returns a fresh cell with the user-visible metadata replaced.
func (c *Cell) withMetadata(metadata map[string]interface{}) *Cell {
	return NewCell(c.Handle, c.source, c.Language, c.Kind, c.outputs, metadata, c.InternalMetadata)
}

// withInternalMetadata returns a fresh cell with the internal metadata replaced.
func (c *Cell) withInternalMetadata(internalMetadata map[string]interface{}) *Cell {
	return NewCell(c.Handle, c.source, c.Language, c.Kind, c.outputs, c.Metadata, internalMetadata)
}
