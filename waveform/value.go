package waveform

import (
	"fmt"
	"strconv"
	"strings"
)

// LogicState is one of the four VCD logic states.
type LogicState byte

const (
	// Low is logic 0.
	Low LogicState = iota
	// High is logic 1.
	High
	// Unknown is the X state.
	Unknown
	// HighZ is the high-impedance Z state.
	HighZ
)

// Rune returns the canonical (lowercase) VCD character for the state.
func (s LogicState) Rune() rune {
	switch s {
	case Low:
		return '0'
	case High:
		return '1'
	case Unknown:
		return 'x'
	case HighZ:
		return 'z'
	}
	return '?'
}

func (s LogicState) String() string {
	return string(s.Rune())
}

// ParseLogicState decodes a VCD state character. Letters are
// case-insensitive.
func ParseLogicState(r rune) (LogicState, bool) {
	switch r {
	case '0':
		return Low, true
	case '1':
		return High, true
	case 'x', 'X':
		return Unknown, true
	case 'z', 'Z':
		return HighZ, true
	}
	return 0, false
}

// ValueKind discriminates the Value variants.
type ValueKind int

const (
	// KindScalar is a single logic state.
	KindScalar ValueKind = iota
	// KindVector is a fixed-width sequence of logic states, MSB first.
	KindVector
	// KindReal is a floating-point value.
	KindReal
)

// Value is a tagged variant holding one signal value: a scalar logic state,
// a fixed-width bit vector, or a real number. The zero Value is scalar 0.
type Value struct {
	Kind   ValueKind
	Scalar LogicState
	Bits   []LogicState // vector payload, MSB first
	Real   float64
}

// ScalarValue returns a scalar Value.
func ScalarValue(s LogicState) Value {
	return Value{Kind: KindScalar, Scalar: s}
}

// VectorValue returns a vector Value over the given bits, MSB first.
func VectorValue(bits ...LogicState) Value {
	return Value{Kind: KindVector, Bits: bits}
}

// RealValue returns a real-number Value.
func RealValue(f float64) Value {
	return Value{Kind: KindReal, Real: f}
}

// ParseVector decodes a bitstring such as "10xZ" into a vector Value.
// Letters are case-insensitive.
func ParseVector(s string) (Value, error) {
	if s == "" {
		return Value{}, fmt.Errorf("empty bitstring")
	}
	bits := make([]LogicState, 0, len(s))
	for _, r := range s {
		st, ok := ParseLogicState(r)
		if !ok {
			return Value{}, fmt.Errorf("invalid logic state %q in bitstring", r)
		}
		bits = append(bits, st)
	}
	return VectorValue(bits...), nil
}

// Width returns the number of bits the value spans. Real values report
// width 1, matching their single-token trace representation.
func (v Value) Width() int {
	if v.Kind == KindVector {
		return len(v.Bits)
	}
	return 1
}

// Equal reports bit-for-bit equality. Vector comparison requires equal
// widths; logic states compare canonically so parsed case differences
// never matter.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindScalar:
		return v.Scalar == o.Scalar
	case KindVector:
		if len(v.Bits) != len(o.Bits) {
			return false
		}
		for i := range v.Bits {
			if v.Bits[i] != o.Bits[i] {
				return false
			}
		}
		return true
	case KindReal:
		return v.Real == o.Real
	}
	return false
}

// String renders the value payload in canonical trace form: "0" for a
// scalar, "10xz" for a vector, "1.25" for a real.
func (v Value) String() string {
	switch v.Kind {
	case KindScalar:
		return v.Scalar.String()
	case KindVector:
		var b strings.Builder
		for _, bit := range v.Bits {
			b.WriteRune(bit.Rune())
		}
		return b.String()
	case KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	}
	return "?"
}
