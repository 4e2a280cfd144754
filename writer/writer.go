// Package writer renders a waveform.Document to the canonical VCD text
// grammar. Output is a pure function of document content: identical
// documents serialize to identical bytes, so serialized traces can be
// compared as golden files.
package writer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/pflow-xyz/go-vcd/waveform"
)

// Write serializes doc to w: the header exactly as declared, then a full
// $dumpvars block at the earliest timestamp, then one block per
// subsequent timestamp holding only the variables that changed.
func Write(w io.Writer, doc *waveform.Document) error {
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, doc.Header); err != nil {
		return err
	}
	if err := writeBody(bw, doc); err != nil {
		return err
	}
	return bw.Flush()
}

// Bytes serializes doc to a byte slice.
func Bytes(doc *waveform.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(bw *bufio.Writer, h *waveform.Header) error {
	if h.Date != "" {
		if _, err := fmt.Fprintf(bw, "$date %s $end\n", h.Date); err != nil {
			return err
		}
	}
	if h.Version != "" {
		if _, err := fmt.Fprintf(bw, "$version %s $end\n", h.Version); err != nil {
			return err
		}
	}
	if h.Timescale.Magnitude > 0 {
		if _, err := fmt.Fprintf(bw, "$timescale %s $end\n", h.Timescale); err != nil {
			return err
		}
	}
	for _, v := range h.Root.Vars {
		if err := writeVar(bw, v); err != nil {
			return err
		}
	}
	for _, child := range h.Root.Children {
		if err := writeScope(bw, child); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(bw, "$enddefinitions $end\n")
	return err
}

func writeScope(bw *bufio.Writer, s *waveform.Scope) error {
	if _, err := fmt.Fprintf(bw, "$scope %s %s $end\n", s.Kind, s.Name); err != nil {
		return err
	}
	// Within a scope, variables are emitted before child scopes.
	for _, v := range s.Vars {
		if err := writeVar(bw, v); err != nil {
			return err
		}
	}
	for _, child := range s.Children {
		if err := writeScope(bw, child); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(bw, "$upscope $end\n")
	return err
}

func writeVar(bw *bufio.Writer, v *waveform.Variable) error {
	_, err := fmt.Fprintf(bw, "$var %s %d %s %s $end\n", v.Type, v.Width, v.Code, v.Name)
	return err
}

// encodeState is the running delta-encoding context: the last emitted
// value per variable, indexed by symbol-arena position. It is explicit
// parameter state, never package-level.
type encodeState struct {
	last []waveform.Value
	seen []bool
}

func newEncodeState(n int) *encodeState {
	return &encodeState{last: make([]waveform.Value, n), seen: make([]bool, n)}
}

// changed records v and reports whether it differs from the variable's
// last emitted value.
func (st *encodeState) changed(idx int, v waveform.Value) bool {
	if st.seen[idx] && st.last[idx].Equal(v) {
		return false
	}
	st.last[idx] = v
	st.seen[idx] = true
	return true
}

func writeBody(bw *bufio.Writer, doc *waveform.Document) error {
	st := newEncodeState(doc.Symbols.Len())
	first := true
	return doc.EachBlock(func(ts uint64, changes []waveform.ChangeEvent) error {
		var block []waveform.ChangeEvent
		for _, ev := range changes {
			if st.changed(ev.Var, ev.Value) {
				block = append(block, ev)
			}
		}
		if len(block) == 0 {
			return nil
		}
		if _, err := fmt.Fprintf(bw, "#%d\n", ts); err != nil {
			return err
		}
		if first {
			first = false
			if _, err := fmt.Fprintf(bw, "$dumpvars\n"); err != nil {
				return err
			}
			if err := writeChanges(bw, doc, block); err != nil {
				return err
			}
			_, err := fmt.Fprintf(bw, "$end\n")
			return err
		}
		return writeChanges(bw, doc, block)
	})
}

func writeChanges(bw *bufio.Writer, doc *waveform.Document, changes []waveform.ChangeEvent) error {
	for _, ev := range changes {
		v, err := doc.Symbols.At(ev.Var)
		if err != nil {
			return err
		}
		switch ev.Value.Kind {
		case waveform.KindScalar:
			_, err = fmt.Fprintf(bw, "%s%s\n", ev.Value, v.Code)
		case waveform.KindVector:
			_, err = fmt.Fprintf(bw, "b%s %s\n", ev.Value, v.Code)
		case waveform.KindReal:
			_, err = fmt.Fprintf(bw, "r%s %s\n", ev.Value, v.Code)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
