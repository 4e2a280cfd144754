// Package waveform models Value Change Dump (VCD) documents: typed signal
// values, the declared symbol table and scope tree, and the time-ordered
// change-event timeline. The parser and writer packages translate between
// this model and the textual VCD grammar; the bridge package exposes it
// to driver code as virtual pins.
package waveform

// Document aggregates a header, its symbol table, and the timeline of
// change events. Every event references a declared variable by arena
// index; that cross-reference holds for the document's entire lifetime.
//
// A document is either built incrementally during a record session and
// serialized once at teardown, or parsed once from text and never mutated
// afterwards. Parsed documents are safe for concurrent readers.
type Document struct {
	Header   *Header
	Symbols  *SymbolTable
	Timeline *Timeline
}

// EachBlock calls fn once per distinct timestamp in ascending order with
// the events of that instant, ordered by ascending identifier code. This
// is the serialization iteration order, so it is fully deterministic.
func (d *Document) EachBlock(fn func(t uint64, changes []ChangeEvent) error) error {
	all, err := d.Timeline.events(d.Symbols)
	if err != nil {
		return err
	}
	for start := 0; start < len(all); {
		end := start
		for end < len(all) && all[end].Time == all[start].Time {
			end++
		}
		if err := fn(all[start].Time, all[start:end]); err != nil {
			return err
		}
		start = end
	}
	return nil
}

// Equal reports whether two documents agree in header, scope tree, symbol
// declarations, and timeline content.
func (d *Document) Equal(o *Document) bool {
	if !d.Header.Equal(o.Header) {
		return false
	}
	if d.Symbols.Len() != o.Symbols.Len() {
		return false
	}
	for i, v := range d.Symbols.Variables() {
		ov := o.Symbols.Variables()[i]
		if v.Code != ov.Code || v.Name != ov.Name || v.Type != ov.Type || v.Width != ov.Width {
			return false
		}
	}
	return d.Timeline.Equal(o.Timeline)
}
