// Property-based tests for codec determinism and round-trip fidelity.
package writer

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pflow-xyz/go-vcd/parser"
	"github.com/pflow-xyz/go-vcd/waveform"
)

// randomDoc builds a well-formed document from a seeded source: a small
// scope tree, a handful of variables of mixed kinds, and monotonically
// timestamped change events.
func randomDoc(r *rand.Rand) (*waveform.Document, error) {
	b := waveform.NewBuilder()
	if err := b.SetDate(fmt.Sprintf("seed-%d", r.Intn(1_000_000))); err != nil {
		return nil, err
	}
	if err := b.SetVersion("go-vcd property"); err != nil {
		return nil, err
	}
	if err := b.SetTimescale(1+r.Intn(100), waveform.TimeUnit(r.Intn(6))); err != nil {
		return nil, err
	}
	if err := b.EnterScope("top", "module"); err != nil {
		return nil, err
	}

	nvars := 1 + r.Intn(6)
	vars := make([]*waveform.Variable, 0, nvars)
	for i := 0; i < nvars; i++ {
		var v *waveform.Variable
		var err error
		switch r.Intn(3) {
		case 0:
			v, err = b.DeclareVariable(fmt.Sprintf("sig%d", i), waveform.VarWire, 1)
		case 1:
			v, err = b.DeclareVariable(fmt.Sprintf("bus%d", i), waveform.VarReg, 2+r.Intn(7))
		default:
			v, err = b.DeclareVariable(fmt.Sprintf("val%d", i), waveform.VarReal, 1)
		}
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	if err := b.ExitScope(); err != nil {
		return nil, err
	}
	doc, err := b.EndDefinitions()
	if err != nil {
		return nil, err
	}

	states := []waveform.LogicState{waveform.Low, waveform.High, waveform.Unknown, waveform.HighZ}
	ts := uint64(0)
	for step := 0; step < 5+r.Intn(20); step++ {
		ts += uint64(1 + r.Intn(50))
		for _, v := range vars {
			if r.Intn(2) == 0 {
				continue
			}
			var val waveform.Value
			switch {
			case v.Type == waveform.VarReal:
				val = waveform.RealValue(float64(r.Intn(1000)) / 4)
			case v.Width == 1:
				val = waveform.ScalarValue(states[r.Intn(len(states))])
			default:
				bits := make([]waveform.LogicState, v.Width)
				for i := range bits {
					bits[i] = states[r.Intn(len(states))]
				}
				val = waveform.VectorValue(bits...)
			}
			if err := doc.Timeline.Insert(ts, v, val); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parse(serialize(D)) equals D", prop.ForAll(
		func(seed int64) bool {
			doc, err := randomDoc(rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Logf("randomDoc: %v", err)
				return false
			}
			text, err := Bytes(doc)
			if err != nil {
				t.Logf("serialize: %v", err)
				return false
			}
			back, err := parser.Parse(bytes.NewReader(text))
			if err != nil {
				t.Logf("reparse: %v\n%s", err, text)
				return false
			}
			return doc.Equal(back)
		},
		gen.Int64(),
	))

	properties.Property("serialization is deterministic", prop.ForAll(
		func(seed int64) bool {
			doc, err := randomDoc(rand.New(rand.NewSource(seed)))
			if err != nil {
				return false
			}
			a, err := Bytes(doc)
			if err != nil {
				return false
			}
			b, err := Bytes(doc)
			if err != nil {
				return false
			}
			return bytes.Equal(a, b)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
