package parser

import (
	"errors"
	"testing"

	"github.com/pflow-xyz/go-vcd/waveform"
)

const sampleVCD = `$date today $end
$version go-vcd test $end
$comment header comments are discarded $end
$timescale 1 ns $end
$scope module top $end
$var wire 1 ! clk $end
$var reg 4 " bus $end
$scope module inner $end
$var real 1 # temp $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
0!
b1010 "
r21.5 #
$end
#5
1!
#10
0!
b0110 "
`

func TestParse(t *testing.T) {
	doc, err := ParseString(sampleVCD)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	t.Run("Header", func(t *testing.T) {
		if doc.Header.Date != "today" {
			t.Errorf("date = %q", doc.Header.Date)
		}
		if doc.Header.Version != "go-vcd test" {
			t.Errorf("version = %q", doc.Header.Version)
		}
		want := waveform.Timescale{Magnitude: 1, Unit: waveform.UnitNS}
		if doc.Header.Timescale != want {
			t.Errorf("timescale = %v", doc.Header.Timescale)
		}
	})

	t.Run("ScopeTree", func(t *testing.T) {
		root := doc.Header.Root
		if len(root.Children) != 1 {
			t.Fatalf("expected one top scope, got %d", len(root.Children))
		}
		top := root.Children[0]
		if top.Name != "top" || top.Kind != "module" {
			t.Errorf("top scope = %q %q", top.Kind, top.Name)
		}
		if len(top.Vars) != 2 || len(top.Children) != 1 {
			t.Fatalf("top has %d vars, %d children", len(top.Vars), len(top.Children))
		}
		inner := top.Children[0]
		if inner.Name != "inner" || len(inner.Vars) != 1 {
			t.Errorf("inner scope = %+v", inner)
		}
		temp, err := doc.Symbols.Find("top", "inner", "temp")
		if err != nil {
			t.Fatalf("find temp: %v", err)
		}
		if temp.Type != waveform.VarReal {
			t.Errorf("temp type = %v", temp.Type)
		}
	})

	t.Run("Timeline", func(t *testing.T) {
		clk, err := doc.Symbols.Lookup("!")
		if err != nil {
			t.Fatalf("lookup clk: %v", err)
		}
		samples := []struct {
			at   uint64
			want waveform.LogicState
		}{{0, waveform.Low}, {5, waveform.High}, {7, waveform.High}, {10, waveform.Low}}
		for _, s := range samples {
			got, err := doc.Timeline.ValueAtOrBefore(clk, s.at)
			if err != nil {
				t.Fatalf("ValueAtOrBefore(%d): %v", s.at, err)
			}
			if !got.Equal(waveform.ScalarValue(s.want)) {
				t.Errorf("clk at #%d = %v, want %v", s.at, got, s.want)
			}
		}

		bus, err := doc.Symbols.Lookup("\"")
		if err != nil {
			t.Fatalf("lookup bus: %v", err)
		}
		got, err := doc.Timeline.ValueAtOrBefore(bus, 20)
		if err != nil {
			t.Fatalf("ValueAtOrBefore: %v", err)
		}
		want, _ := waveform.ParseVector("0110")
		if !got.Equal(want) {
			t.Errorf("bus at #20 = %v, want %v", got, want)
		}

		temp, _ := doc.Symbols.Lookup("#")
		gotTemp, err := doc.Timeline.ValueAtOrBefore(temp, 0)
		if err != nil {
			t.Fatalf("ValueAtOrBefore: %v", err)
		}
		if !gotTemp.Equal(waveform.RealValue(21.5)) {
			t.Errorf("temp at #0 = %v", gotTemp)
		}
	})
}

func TestParseFusedTimescale(t *testing.T) {
	doc, err := ParseString("$timescale 10us $end\n$enddefinitions $end\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := waveform.Timescale{Magnitude: 10, Unit: waveform.UnitUS}
	if doc.Header.Timescale != want {
		t.Errorf("timescale = %v, want %v", doc.Header.Timescale, want)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{
			"WidthMismatch",
			"$var wire 4 ! foo $end\n$enddefinitions $end\n#0\nb101 !\n",
			waveform.ErrWidthMismatch,
		},
		{
			"ScalarOnVector",
			"$var wire 4 ! foo $end\n$enddefinitions $end\n#0\n1!\n",
			waveform.ErrWidthMismatch,
		},
		{
			"UnbalancedUpscope",
			"$upscope $end\n$enddefinitions $end\n",
			waveform.ErrUnbalancedScope,
		},
		{
			"ScopeOpenAtEnddefinitions",
			"$scope module top $end\n$enddefinitions $end\n",
			waveform.ErrUnbalancedScope,
		},
		{
			"UnknownIdentifierReferenced",
			"$var wire 1 ! clk $end\n$enddefinitions $end\n#0\n1?\n",
			waveform.ErrUnknownIdentifier,
		},
		{
			"DuplicateIdentifier",
			"$var wire 1 ! clk $end\n$var wire 1 ! data $end\n$enddefinitions $end\n",
			waveform.ErrDuplicateIdentifier,
		},
		{
			"InvalidWidth",
			"$var wire 0 ! clk $end\n$enddefinitions $end\n",
			waveform.ErrInvalidWidth,
		},
		{
			"UnterminatedDate",
			"$date never ends",
			ErrUnterminatedSection,
		},
		{
			"UnterminatedDumpvars",
			"$var wire 1 ! clk $end\n$enddefinitions $end\n#0\n$dumpvars\n0!\n",
			ErrUnterminatedSection,
		},
		{
			"NonMonotonicTime",
			"$var wire 1 ! clk $end\n$enddefinitions $end\n#10\n1!\n#5\n0!\n",
			waveform.ErrNonMonotonicTime,
		},
		{
			"BadTimestamp",
			"$enddefinitions $end\n#abc\n",
			ErrSyntax,
		},
		{
			"StrayEnd",
			"$enddefinitions $end\n$end\n",
			ErrSyntax,
		},
		{
			"MissingEnddefinitions",
			"$var wire 1 ! clk $end\n",
			ErrSyntax,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseString(c.input)
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want kind %v", err, c.want)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not positioned", err)
			}
			if perr.Line < 1 {
				t.Errorf("position line = %d", perr.Line)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseString("$var wire 1 ! clk $end\n$enddefinitions $end\n#0\n1!\n#5\n1?\n")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected positioned error, got %v", err)
	}
	if perr.Line != 6 {
		t.Errorf("line = %d, want 6", perr.Line)
	}
}
