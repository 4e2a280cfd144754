// Package bridge binds a waveform.Document to a monotonically advancing
// virtual clock and exposes its variables as pins. A Record bridge grants
// write-only pins that append change events to the timeline; a Replay
// bridge grants read-only pins that sample a previously parsed timeline.
// The mode is fixed at construction; requesting a pin of the opposite
// capability fails with ErrModeViolation.
//
// A bridge and its document have exactly one logical writer: record-mode
// use is confined to a single test goroutine by the caller. Replay
// documents are never mutated, so several bridges may replay the same
// document concurrently.
package bridge

import (
	"errors"
	"fmt"

	"github.com/pflow-xyz/go-vcd/waveform"
)

var (
	// ErrModeViolation means a pin was requested with a capability the
	// bridge's mode does not grant.
	ErrModeViolation = errors.New("bridge: capability not available in this mode")

	// ErrInvalidDuration means AdvanceClock was asked to advance by zero.
	ErrInvalidDuration = errors.New("bridge: clock advance duration must be positive")
)

// Mode selects what a bridge does with its timeline.
type Mode int

const (
	// Record builds a fresh timeline from pin writes.
	Record Mode = iota
	// Replay feeds an already-parsed timeline into pin reads.
	Replay
)

func (m Mode) String() string {
	if m == Replay {
		return "replay"
	}
	return "record"
}

// Bridge is the virtual clock over one document. Time is in the
// document's timescale ticks and never moves backwards.
type Bridge struct {
	doc  *waveform.Document
	mode Mode
	now  uint64
}

// NewRecord creates a record-mode bridge over a freshly built document.
// Writes through its pins are stamped with the current virtual time.
func NewRecord(doc *waveform.Document) *Bridge {
	return &Bridge{doc: doc, mode: Record}
}

// NewReplay creates a replay-mode bridge over a parsed document.
func NewReplay(doc *waveform.Document) *Bridge {
	return &Bridge{doc: doc, mode: Replay}
}

// Mode returns the bridge's operating mode.
func (b *Bridge) Mode() Mode {
	return b.mode
}

// Now returns the current virtual time.
func (b *Bridge) Now() uint64 {
	return b.now
}

// Document returns the underlying document.
func (b *Bridge) Document() *waveform.Document {
	return b.doc
}

// AdvanceClock moves virtual time forward by d ticks. Reads thereafter
// reflect state as of the new time; writes are stamped with it.
func (b *Bridge) AdvanceClock(d uint64) error {
	if d == 0 {
		return ErrInvalidDuration
	}
	b.now += d
	return nil
}

// SeekTo moves virtual time to an absolute timestamp. Seeking to the
// current time or earlier fails with waveform.ErrNonMonotonicTime.
func (b *Bridge) SeekTo(t uint64) error {
	if t <= b.now {
		return fmt.Errorf("%w: seek to #%d at #%d", waveform.ErrNonMonotonicTime, t, b.now)
	}
	b.now = t
	return nil
}

// bind resolves a variable by scope path and checks the mode capability.
func (b *Bridge) bind(mode Mode, path []string) (*waveform.Variable, error) {
	if b.mode != mode {
		return nil, fmt.Errorf("%w: %s pin requested from %s bridge", ErrModeViolation, mode.capability(), b.mode)
	}
	return b.doc.Symbols.Find(path...)
}

func (m Mode) capability() string {
	if m == Replay {
		return "read"
	}
	return "write"
}

// bindScalar additionally requires a one-bit non-real variable, checked
// once here rather than on every pin operation.
func (b *Bridge) bindScalar(mode Mode, path []string) (*waveform.Variable, error) {
	v, err := b.bind(mode, path)
	if err != nil {
		return nil, err
	}
	if v.Type == waveform.VarReal || v.Width != 1 {
		return nil, fmt.Errorf("%w: %s is not a one-bit digital signal", waveform.ErrWidthMismatch, v.Path())
	}
	return v, nil
}

func (b *Bridge) bindVector(mode Mode, path []string) (*waveform.Variable, error) {
	v, err := b.bind(mode, path)
	if err != nil {
		return nil, err
	}
	if v.Type == waveform.VarReal {
		return nil, fmt.Errorf("%w: %s is a real signal", waveform.ErrWidthMismatch, v.Path())
	}
	return v, nil
}

func (b *Bridge) bindReal(mode Mode, path []string) (*waveform.Variable, error) {
	v, err := b.bind(mode, path)
	if err != nil {
		return nil, err
	}
	if v.Type != waveform.VarReal {
		return nil, fmt.Errorf("%w: %s is not a real signal", waveform.ErrWidthMismatch, v.Path())
	}
	return v, nil
}
