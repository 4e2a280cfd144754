package waveform

import (
	"errors"
	"testing"
)

func TestSymbolTableDeclare(t *testing.T) {
	t.Run("AssignsArenaIndices", func(t *testing.T) {
		tbl := NewSymbolTable()
		a, err := tbl.Declare("!", "clk", VarWire, 1, []string{"top"})
		if err != nil {
			t.Fatalf("declare clk: %v", err)
		}
		b, err := tbl.Declare("\"", "data", VarWire, 8, []string{"top"})
		if err != nil {
			t.Fatalf("declare data: %v", err)
		}
		if a.Index != 0 || b.Index != 1 {
			t.Errorf("expected indices 0,1, got %d,%d", a.Index, b.Index)
		}
	})

	t.Run("DuplicateIdentifier", func(t *testing.T) {
		tbl := NewSymbolTable()
		if _, err := tbl.Declare("!", "clk", VarWire, 1, nil); err != nil {
			t.Fatalf("declare: %v", err)
		}
		_, err := tbl.Declare("!", "other", VarWire, 1, nil)
		if !errors.Is(err, ErrDuplicateIdentifier) {
			t.Errorf("expected ErrDuplicateIdentifier, got %v", err)
		}
	})

	t.Run("InvalidWidth", func(t *testing.T) {
		tbl := NewSymbolTable()
		for _, width := range []int{0, -1} {
			_, err := tbl.Declare("!", "clk", VarWire, width, nil)
			if !errors.Is(err, ErrInvalidWidth) {
				t.Errorf("width %d: expected ErrInvalidWidth, got %v", width, err)
			}
		}
	})

	t.Run("RejectsBadCodes", func(t *testing.T) {
		tbl := NewSymbolTable()
		for _, code := range []string{"", "$", "a b"} {
			if _, err := tbl.Declare(code, "clk", VarWire, 1, nil); err == nil {
				t.Errorf("code %q: expected error", code)
			}
		}
	})
}

func TestSymbolTableLookup(t *testing.T) {
	tbl := NewSymbolTable()
	v, err := tbl.Declare("!", "clk", VarWire, 1, []string{"top", "logic"})
	if err != nil {
		t.Fatalf("declare: %v", err)
	}

	got, err := tbl.Lookup("!")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != v {
		t.Errorf("lookup returned a different variable")
	}

	if _, err := tbl.Lookup("?"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Errorf("expected ErrUnknownIdentifier, got %v", err)
	}
}

func TestSymbolTableFind(t *testing.T) {
	tbl := NewSymbolTable()
	v, err := tbl.Declare("!", "data", VarWire, 1, []string{"top", "logic"})
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := tbl.Declare("\"", "data", VarWire, 1, []string{"top"}); err != nil {
		t.Fatalf("declare: %v", err)
	}

	got, err := tbl.Find("top", "logic", "data")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != v {
		t.Errorf("find matched the wrong scope")
	}

	if _, err := tbl.Find("top", "nosuch", "data"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Errorf("expected ErrUnknownIdentifier, got %v", err)
	}
}

func TestSymbolTableAt(t *testing.T) {
	tbl := NewSymbolTable()
	if _, err := tbl.Declare("!", "clk", VarWire, 1, nil); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := tbl.At(0); err != nil {
		t.Errorf("At(0): %v", err)
	}
	if _, err := tbl.At(1); !errors.Is(err, ErrInternalConsistency) {
		t.Errorf("expected ErrInternalConsistency, got %v", err)
	}
}

func TestCheckValue(t *testing.T) {
	wire := &Variable{Name: "clk", Type: VarWire, Width: 1}
	bus := &Variable{Name: "bus", Type: VarReg, Width: 4}
	temp := &Variable{Name: "temp", Type: VarReal, Width: 1}

	cases := []struct {
		name string
		v    *Variable
		val  Value
		ok   bool
	}{
		{"ScalarOnWire", wire, ScalarValue(High), true},
		{"ScalarOnBus", bus, ScalarValue(High), false},
		{"VectorOnBus", bus, VectorValue(High, Low, High, Low), true},
		{"NarrowVectorOnBus", bus, VectorValue(High, Low, High), false},
		{"RealOnReal", temp, RealValue(21.5), true},
		{"RealOnWire", wire, RealValue(1), false},
		{"ScalarOnReal", temp, ScalarValue(Low), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.v.CheckValue(c.val)
			if c.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrWidthMismatch) {
				t.Errorf("expected ErrWidthMismatch, got %v", err)
			}
		})
	}
}

func TestGenerateCode(t *testing.T) {
	if got := GenerateCode(0); got != "!" {
		t.Errorf("GenerateCode(0) = %q, want %q", got, "!")
	}
	// Codes are unique and never contain '$'.
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		code := GenerateCode(i)
		if seen[code] {
			t.Fatalf("GenerateCode(%d) = %q already produced", i, code)
		}
		seen[code] = true
		if err := validateCode(code); err != nil {
			t.Fatalf("GenerateCode(%d) = %q invalid: %v", i, code, err)
		}
	}
}
