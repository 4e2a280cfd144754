package waveform

import (
	"fmt"
	"strings"
)

// VarType is the declared type tag of a variable.
type VarType int

const (
	VarWire VarType = iota
	VarReg
	VarInteger
	VarReal
	VarParameter
	VarTime
)

var varTypeNames = map[VarType]string{
	VarWire:      "wire",
	VarReg:       "reg",
	VarInteger:   "integer",
	VarReal:      "real",
	VarParameter: "parameter",
	VarTime:      "time",
}

func (t VarType) String() string {
	if name, ok := varTypeNames[t]; ok {
		return name
	}
	return "wire"
}

// ParseVarType decodes a $var type keyword.
func ParseVarType(s string) (VarType, bool) {
	for t, name := range varTypeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Variable is one declared signal. Index is its position in the symbol
// arena; timeline events reference variables by Index so the hot replay
// path never compares identifier strings.
type Variable struct {
	Index int
	Code  string   // identifier code used in the trace body
	Name  string   // declared reference name
	Type  VarType
	Width int      // bit width, immutable after declaration
	Scope []string // scope names from root, in nesting order
}

// Path returns the full dotted path of the variable, scope included.
func (v *Variable) Path() string {
	if len(v.Scope) == 0 {
		return v.Name
	}
	return strings.Join(v.Scope, ".") + "." + v.Name
}

// CheckValue validates a value against the variable's declared type and
// width. Scalar changes are only valid for one-bit non-real variables,
// vector changes must match the declared width exactly, and real changes
// are only valid for real variables.
func (v *Variable) CheckValue(val Value) error {
	switch val.Kind {
	case KindReal:
		if v.Type != VarReal {
			return fmt.Errorf("%w: real change for %s variable %s", ErrWidthMismatch, v.Type, v.Name)
		}
		return nil
	case KindScalar:
		if v.Type == VarReal || v.Width != 1 {
			return fmt.Errorf("%w: scalar change for %s of width %d", ErrWidthMismatch, v.Name, v.Width)
		}
		return nil
	case KindVector:
		if v.Type == VarReal || len(val.Bits) != v.Width {
			return fmt.Errorf("%w: %d-bit change for %s of width %d", ErrWidthMismatch, len(val.Bits), v.Name, v.Width)
		}
		return nil
	}
	return fmt.Errorf("%w: unrecognized value kind", ErrWidthMismatch)
}

// SymbolTable is the arena of declared variables, addressable by integer
// index or by identifier code.
type SymbolTable struct {
	vars   []*Variable
	byCode map[string]int
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byCode: make(map[string]int)}
}

// Declare adds a variable to the arena. It fails with
// ErrDuplicateIdentifier if the code is already taken and ErrInvalidWidth
// if width is not positive.
func (t *SymbolTable) Declare(code, name string, typ VarType, width int, scope []string) (*Variable, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: %s declared with width %d", ErrInvalidWidth, name, width)
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if _, taken := t.byCode[code]; taken {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateIdentifier, code)
	}
	v := &Variable{
		Index: len(t.vars),
		Code:  code,
		Name:  name,
		Type:  typ,
		Width: width,
		Scope: append([]string(nil), scope...),
	}
	t.vars = append(t.vars, v)
	t.byCode[code] = v.Index
	return v, nil
}

// Lookup resolves an identifier code to its variable.
func (t *SymbolTable) Lookup(code string) (*Variable, error) {
	idx, ok := t.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIdentifier, code)
	}
	return t.vars[idx], nil
}

// At returns the variable at an arena index. An out-of-range index is an
// internal consistency fault, never a user input error.
func (t *SymbolTable) At(index int) (*Variable, error) {
	if index < 0 || index >= len(t.vars) {
		return nil, fmt.Errorf("%w: index %d", ErrInternalConsistency, index)
	}
	return t.vars[index], nil
}

// Find resolves a variable by its scope path plus reference name, e.g.
// Find("top", "logic", "clk").
func (t *SymbolTable) Find(path ...string) (*Variable, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrUnknownIdentifier)
	}
	name := path[len(path)-1]
	scope := path[:len(path)-1]
	for _, v := range t.vars {
		if v.Name != name || len(v.Scope) != len(scope) {
			continue
		}
		match := true
		for i := range scope {
			if v.Scope[i] != scope[i] {
				match = false
				break
			}
		}
		if match {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, strings.Join(path, "."))
}

// Len returns the number of declared variables.
func (t *SymbolTable) Len() int {
	return len(t.vars)
}

// Variables returns the arena in declaration order. The slice is shared;
// callers must not modify it.
func (t *SymbolTable) Variables() []*Variable {
	return t.vars
}

// validateCode enforces the VCD identifier alphabet: printable ASCII
// excluding whitespace and '$'.
func validateCode(code string) error {
	if code == "" {
		return fmt.Errorf("waveform: empty identifier code")
	}
	for _, r := range code {
		if r <= ' ' || r > '~' || r == '$' {
			return fmt.Errorf("waveform: invalid identifier code %q", code)
		}
	}
	return nil
}

// codeAlphabet is the printable identifier alphabet in ascending byte
// order, '$' excluded.
var codeAlphabet = func() []byte {
	var a []byte
	for c := byte('!'); c <= '~'; c++ {
		if c != '$' {
			a = append(a, c)
		}
	}
	return a
}()

// GenerateCode returns the nth auto-assigned identifier code: "!" for 0,
// then ascending through the printable alphabet, growing in length as
// needed.
func GenerateCode(n int) string {
	base := len(codeAlphabet)
	var buf []byte
	for {
		buf = append([]byte{codeAlphabet[n%base]}, buf...)
		n = n/base - 1
		if n < 0 {
			return string(buf)
		}
	}
}
