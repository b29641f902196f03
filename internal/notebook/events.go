package notebook

import "encoding/json"

// CellDto is the wire shape of one cell in snapshot and splice payloads.
type CellDto struct {
	Handle           int64                  `json:"handle"`
	Source           SourceText             `json:"source"`
	Language         string                 `json:"language"`
	CellKind         CellKind               `json:"cellKind"`
	Outputs          []Output               `json:"outputs"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	InternalMetadata map[string]interface{} `json:"internalMetadata,omitempty"`
}

// ToCell builds the cell mirror for a DTO.
func (d CellDto) ToCell() *Cell {
	return NewCell(d.Handle, d.Source, d.Language, d.CellKind, d.Outputs, d.Metadata, d.InternalMetadata)
}

// EventKind discriminates change events.
type EventKind string

const (
	// EventModelChange replaces cell ranges via one or more splices
	EventModelChange EventKind = "modelChange"
	// EventMove relocates a contiguous run of cells
	EventMove EventKind = "move"
	// EventOutput replaces the outputs of one cell
	EventOutput EventKind = "output"
	// EventChangeCellLanguage replaces the language of one cell
	EventChangeCellLanguage EventKind = "changeCellLanguage"
	// EventChangeCellMetadata replaces the user-visible metadata of one cell
	EventChangeCellMetadata EventKind = "changeCellMetadata"
	// EventChangeCellInternalMetadata replaces the internal metadata of one cell
	EventChangeCellInternalMetadata EventKind = "changeCellInternalMetadata"
)

// Splice atomically removes DeleteCount cells at Start and inserts Cells there.
type Splice struct {
	Start       int       `json:"start"`
	DeleteCount int       `json:"deleteCount"`
	Cells       []CellDto `json:"cells"`
}

// ChangeEvent is the discriminated union of document change events, tagged
// by Kind. Only the fields for the tagged kind are meaningful.
type ChangeEvent struct {
	Kind EventKind `json:"kind"`

	// modelChange
	Splices []Splice `json:"splices,omitempty"`

	// move: Length cells at Index reinserted at NewIndex, where NewIndex is
	// interpreted against the list state immediately after removal
	Index    int `json:"index"`
	Length   int `json:"length,omitempty"`
	NewIndex int `json:"newIndex,omitempty"`

	// output (targets Index)
	Outputs []Output `json:"outputs,omitempty"`

	// changeCellLanguage (targets Index)
	Language string `json:"language,omitempty"`

	// changeCellMetadata / changeCellInternalMetadata (targets Index)
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ParseChangeEvent decodes a change event from its JSON wire form.
func ParseChangeEvent(data []byte) (*ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
