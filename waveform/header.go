package waveform

import (
	"errors"
	"fmt"
)

// TimeUnit is a VCD timescale unit.
type TimeUnit int

const (
	UnitS TimeUnit = iota
	UnitMS
	UnitUS
	UnitNS
	UnitPS
	UnitFS
)

var timeUnitNames = [...]string{"s", "ms", "us", "ns", "ps", "fs"}

func (u TimeUnit) String() string {
	if int(u) < len(timeUnitNames) {
		return timeUnitNames[u]
	}
	return "s"
}

// Divisor returns how many of this unit make one second.
func (u TimeUnit) Divisor() uint64 {
	d := uint64(1)
	for i := TimeUnit(0); i < u; i++ {
		d *= 1000
	}
	return d
}

// ParseTimeUnit decodes a timescale unit keyword.
func ParseTimeUnit(s string) (TimeUnit, bool) {
	for i, name := range timeUnitNames {
		if name == s {
			return TimeUnit(i), true
		}
	}
	return 0, false
}

// Timescale scales integer trace timestamps to real time, e.g. {1, UnitNS}.
// A zero Magnitude means the document declares no timescale.
type Timescale struct {
	Magnitude int
	Unit      TimeUnit
}

func (t Timescale) String() string {
	return fmt.Sprintf("%d %s", t.Magnitude, t.Unit)
}

// Scope is one named nesting level of the declaration tree. Children and
// Vars preserve declaration order.
type Scope struct {
	Name     string
	Kind     string // module, task, function, begin, fork
	Children []*Scope
	Vars     []*Variable
}

// Header is the document metadata and scope tree. It is immutable once
// the builder has seen enddefinitions.
type Header struct {
	Date      string
	Version   string
	Timescale Timescale
	Root      *Scope // unnamed container for top-level scopes and variables
}

// Equal compares two headers including the full scope tree. Date and
// version strings compare verbatim.
func (h *Header) Equal(o *Header) bool {
	if h.Date != o.Date || h.Version != o.Version || h.Timescale != o.Timescale {
		return false
	}
	return scopeEqual(h.Root, o.Root)
}

func scopeEqual(a, b *Scope) bool {
	if a.Name != b.Name || a.Kind != b.Kind {
		return false
	}
	if len(a.Children) != len(b.Children) || len(a.Vars) != len(b.Vars) {
		return false
	}
	for i := range a.Vars {
		av, bv := a.Vars[i], b.Vars[i]
		if av.Code != bv.Code || av.Name != bv.Name || av.Type != bv.Type || av.Width != bv.Width {
			return false
		}
	}
	for i := range a.Children {
		if !scopeEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Builder declares a document incrementally: metadata, nested scopes and
// variables, then EndDefinitions to freeze the header. It is the single
// declaration path shared by the parser and by record-mode callers.
type Builder struct {
	header    *Header
	symbols   *SymbolTable
	stack     []*Scope
	path      []string
	nextCode  int
	finalized bool
}

// NewBuilder creates a builder with an empty root scope.
func NewBuilder() *Builder {
	root := &Scope{}
	return &Builder{
		header:  &Header{Root: root},
		symbols: NewSymbolTable(),
		stack:   []*Scope{root},
	}
}

// SetDate records the $date text verbatim.
func (b *Builder) SetDate(date string) error {
	if b.finalized {
		return ErrDefinitionsClosed
	}
	b.header.Date = date
	return nil
}

// SetVersion records the $version text verbatim.
func (b *Builder) SetVersion(version string) error {
	if b.finalized {
		return ErrDefinitionsClosed
	}
	b.header.Version = version
	return nil
}

// SetTimescale records the timescale. Magnitude must be positive.
func (b *Builder) SetTimescale(magnitude int, unit TimeUnit) error {
	if b.finalized {
		return ErrDefinitionsClosed
	}
	if magnitude <= 0 {
		return fmt.Errorf("waveform: timescale magnitude must be positive, got %d", magnitude)
	}
	b.header.Timescale = Timescale{Magnitude: magnitude, Unit: unit}
	return nil
}

// EnterScope opens a nested scope. Scopes nest to arbitrary depth.
func (b *Builder) EnterScope(name, kind string) error {
	if b.finalized {
		return ErrDefinitionsClosed
	}
	s := &Scope{Name: name, Kind: kind}
	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, s)
	b.stack = append(b.stack, s)
	b.path = append(b.path, name)
	return nil
}

// ExitScope closes the innermost open scope. Exiting with only the root
// open fails with ErrUnbalancedScope.
func (b *Builder) ExitScope() error {
	if b.finalized {
		return ErrDefinitionsClosed
	}
	if len(b.stack) <= 1 {
		return fmt.Errorf("%w: upscope with no open scope", ErrUnbalancedScope)
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.path = b.path[:len(b.path)-1]
	return nil
}

// Depth returns the number of currently open scopes, the root excluded.
func (b *Builder) Depth() int {
	return len(b.stack) - 1
}

// DeclareVariable declares a variable in the current scope with an
// auto-assigned identifier code, the record-mode path.
func (b *Builder) DeclareVariable(name string, typ VarType, width int) (*Variable, error) {
	for {
		code := GenerateCode(b.nextCode)
		b.nextCode++
		v, err := b.DeclareVariableCode(code, name, typ, width)
		if err == nil || !isDuplicate(err) {
			return v, err
		}
	}
}

// DeclareVariableCode declares a variable with an explicit identifier
// code, the parser path.
func (b *Builder) DeclareVariableCode(code, name string, typ VarType, width int) (*Variable, error) {
	if b.finalized {
		return nil, ErrDefinitionsClosed
	}
	v, err := b.symbols.Declare(code, name, typ, width, b.path)
	if err != nil {
		return nil, err
	}
	top := b.stack[len(b.stack)-1]
	top.Vars = append(top.Vars, v)
	return v, nil
}

// EndDefinitions freezes the header and returns the document with an
// empty timeline. Open scopes at this point are an ErrUnbalancedScope.
func (b *Builder) EndDefinitions() (*Document, error) {
	if b.finalized {
		return nil, ErrDefinitionsClosed
	}
	if len(b.stack) > 1 {
		return nil, fmt.Errorf("%w: %d scope(s) still open at enddefinitions", ErrUnbalancedScope, len(b.stack)-1)
	}
	b.finalized = true
	return &Document{
		Header:   b.header,
		Symbols:  b.symbols,
		Timeline: NewTimeline(),
	}, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateIdentifier)
}
