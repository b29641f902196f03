package notebook

import (
	"nbdiff/internal/errors"
)

// Document is the ordered mirror of one authoritative notebook document.
// The backing cell list is exclusively owned: callers only ever mutate it
// through ApplyChange, so cached cell fingerprints stay consistent with the
// list's current state.
type Document struct {
	uri      string
	metadata map[string]interface{}
	cells    []*Cell
}

// NewDocument builds a mirror from a full snapshot of cells.
func NewDocument(uri string, cells []CellDto, metadata map[string]interface{}) *Document {
	mirrored := make([]*Cell, len(cells))
	for i, dto := range cells {
		mirrored[i] = dto.ToCell()
	}
	return &Document{
		uri:      uri,
		metadata: metadata,
		cells:    mirrored,
	}
}

// URI returns the identifier of the mirrored document.
func (d *Document) URI() string {
	return d.uri
}

// Metadata returns the document-level metadata.
func (d *Document) Metadata() map[string]interface{} {
	return d.metadata
}

// Len returns the current cell count.
func (d *Document) Len() int {
	return len(d.cells)
}

// Cell returns the cell at index i, or nil when out of bounds.
func (d *Document) Cell(i int) *Cell {
	if i < 0 || i >= len(d.cells) {
		return nil
	}
	return d.cells[i]
}

// CellByHandle returns the cell with the given handle, or nil if absent.
func (d *Document) CellByHandle(handle int64) *Cell {
	for _, c := range d.cells {
		if c.Handle == handle {
			return c
		}
	}
	return nil
}

// ComparisonFingerprints adapts the document to the abstract fingerprint
// sequence consumed by the diff engine: one comparison fingerprint per cell
// in document order. The returned slice is freshly allocated per call and
// stable for as long as the mirror is unmodified.
func (d *Document) ComparisonFingerprints() []uint64 {
	seq := make([]uint64, len(d.cells))
	for i, c := range d.cells {
		seq[i] = c.ComparisonFingerprint()
	}
	return seq
}

// ContentFingerprints returns the output-independent fingerprint sequence.
func (d *Document) ContentFingerprints() []uint64 {
	seq := make([]uint64, len(d.cells))
	for i, c := range d.cells {
		seq[i] = c.ContentFingerprint()
	}
	return seq
}

// ApplyChange applies one change event in place. Events must be applied in
// the exact order the authoritative source produced them: later events may
// reference indices that are only valid after earlier ones have landed.
// An index outside current bounds is a desynchronization fault; the mirror
// is left untouched and the error carries the offending index and length.
func (d *Document) ApplyChange(ev *ChangeEvent) error {
	switch ev.Kind {
	case EventModelChange:
		return d.applySplices(ev.Splices)
	case EventMove:
		return d.applyMove(ev.Index, ev.Length, ev.NewIndex)
	case EventOutput:
		return d.replaceCellAt(ev.Index, func(c *Cell) *Cell {
			return c.withOutputs(ev.Outputs)
		})
	case EventChangeCellLanguage:
		return d.replaceCellAt(ev.Index, func(c *Cell) *Cell {
			return c.withLanguage(ev.Language)
		})
	case EventChangeCellMetadata:
		return d.replaceCellAt(ev.Index, func(c *Cell) *Cell {
			return c.withMetadata(ev.Metadata)
		})
	case EventChangeCellInternalMetadata:
		return d.replaceCellAt(ev.Index, func(c *Cell) *Cell {
			return c.withInternalMetadata(ev.Metadata)
		})
	default:
		return errors.Newf(errors.InvalidEvent, "unknown change event kind %q", ev.Kind)
	}
}

// applySplices performs each range replace as a single atomic splice.
func (d *Document) applySplices(splices []Splice) error {
	for _, sp := range splices {
		if sp.Start < 0 || sp.DeleteCount < 0 || sp.Start+sp.DeleteCount > len(d.cells) {
			return errors.NewIndexOutOfRange(d.uri, sp.Start+sp.DeleteCount, len(d.cells))
		}

		inserted := make([]*Cell, len(sp.Cells))
		for i, dto := range sp.Cells {
			inserted[i] = dto.ToCell()
		}

		next := make([]*Cell, 0, len(d.cells)-sp.DeleteCount+len(inserted))
		next = append(next, d.cells[:sp.Start]...)
		next = append(next, inserted...)
		next = append(next, d.cells[sp.Start+sp.DeleteCount:]...)
		d.cells = next
	}
	return nil
}

// applyMove extracts Length cells at index and reinserts them, preserving
// internal order, at newIndex. newIndex addresses the list state immediately
// after removal, so a forward move and a backward move use the same
// convention. All bounds are validated before anything is touched.
func (d *Document) applyMove(index, length, newIndex int) error {
	if length < 0 || index < 0 || index+length > len(d.cells) {
		return errors.NewIndexOutOfRange(d.uri, index+length, len(d.cells))
	}
	remaining := len(d.cells) - length
	if newIndex < 0 || newIndex > remaining {
		return errors.NewIndexOutOfRange(d.uri, newIndex, remaining)
	}

	run := make([]*Cell, length)
	copy(run, d.cells[index:index+length])

	rest := make([]*Cell, 0, remaining)
	rest = append(rest, d.cells[:index]...)
	rest = append(rest, d.cells[index+length:]...)

	next := make([]*Cell, 0, len(d.cells))
	next = append(next, rest[:newIndex]...)
	next = append(next, run...)
	next = append(next, rest[newIndex:]...)
	d.cells = next
	return nil
}

// replaceCellAt swaps the cell at index for a newly constructed one so the
// old cell's cached fingerprints can never leak into a later diff.
func (d *Document) replaceCellAt(index int, derive func(*Cell) *Cell) error {
	if index < 0 || index >= len(d.cells) {
		return errors.NewIndexOutOfRange(d.uri, index, len(d.cells))
	}
	d.cells[index] = derive(d.cells[index])
	return nil
}
