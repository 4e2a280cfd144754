package bridge

import (
	"fmt"

	"github.com/pflow-xyz/go-vcd/waveform"
)

// Input binds a one-bit digital variable as a read-only replay pin.
func (b *Bridge) Input(path ...string) (*InputPin, error) {
	v, err := b.bindScalar(Replay, path)
	if err != nil {
		return nil, err
	}
	return &InputPin{b: b, v: v, cursor: -1}, nil
}

// InputVector binds a vector variable as a read-only replay pin.
func (b *Bridge) InputVector(path ...string) (*VectorInputPin, error) {
	v, err := b.bindVector(Replay, path)
	if err != nil {
		return nil, err
	}
	return &VectorInputPin{b: b, v: v, cursor: -1}, nil
}

// InputReal binds a real variable as a read-only replay pin.
func (b *Bridge) InputReal(path ...string) (*RealInputPin, error) {
	v, err := b.bindReal(Replay, path)
	if err != nil {
		return nil, err
	}
	return &RealInputPin{b: b, v: v, cursor: -1}, nil
}

// Output binds a one-bit digital variable as a write-only push-pull
// record pin: SetHigh records 1, SetLow records 0.
func (b *Bridge) Output(path ...string) (*OutputPin, error) {
	v, err := b.bindScalar(Record, path)
	if err != nil {
		return nil, err
	}
	return &OutputPin{b: b, v: v}, nil
}

// OutputOpenDrain binds a one-bit digital variable as a write-only
// open-drain record pin: SetHigh pulls the line to 0, SetLow leaves it
// floating (z).
func (b *Bridge) OutputOpenDrain(path ...string) (*OpenDrainPin, error) {
	v, err := b.bindScalar(Record, path)
	if err != nil {
		return nil, err
	}
	return &OpenDrainPin{b: b, v: v}, nil
}

// OutputVector binds a vector variable as a write-only record pin.
func (b *Bridge) OutputVector(path ...string) (*VectorOutputPin, error) {
	v, err := b.bindVector(Record, path)
	if err != nil {
		return nil, err
	}
	return &VectorOutputPin{b: b, v: v}, nil
}

// OutputReal binds a real variable as a write-only record pin.
func (b *Bridge) OutputReal(path ...string) (*RealOutputPin, error) {
	v, err := b.bindReal(Record, path)
	if err != nil {
		return nil, err
	}
	return &RealOutputPin{b: b, v: v}, nil
}

// sample returns the variable's value as of the bridge's current time,
// advancing the pin's cursor. The cursor only moves forward, which the
// monotonic clock guarantees is sound.
func sample(b *Bridge, v *waveform.Variable, cursor *int) (waveform.Value, error) {
	events := b.doc.Timeline.Events(v)
	for *cursor+1 < len(events) && events[*cursor+1].Time <= b.now {
		*cursor++
	}
	if *cursor < 0 {
		if len(events) == 0 {
			return waveform.Value{}, fmt.Errorf("%w: %s has no recorded events", waveform.ErrNoValueDefined, v.Path())
		}
		return waveform.Value{}, fmt.Errorf("%w: %s first recorded at #%d, sampled at #%d",
			waveform.ErrNoValueDefined, v.Path(), events[0].Time, b.now)
	}
	return events[*cursor].Value, nil
}

// InputPin samples a one-bit digital signal in replay mode.
type InputPin struct {
	b      *Bridge
	v      *waveform.Variable
	cursor int
}

// Get returns the logic state as of the current virtual time. Sampling
// before the variable's first recorded event fails with
// waveform.ErrNoValueDefined: the trace defines no implicit initial
// state. A one-bit change may be recorded as either a scalar or a
// width-1 vector token; both read back as the bit itself.
func (p *InputPin) Get() (waveform.LogicState, error) {
	val, err := sample(p.b, p.v, &p.cursor)
	if err != nil {
		return 0, err
	}
	if val.Kind == waveform.KindVector {
		return val.Bits[0], nil
	}
	return val.Scalar, nil
}

// IsHigh reports whether the signal reads logic 1. X and z read neither
// high nor low.
func (p *InputPin) IsHigh() (bool, error) {
	s, err := p.Get()
	if err != nil {
		return false, err
	}
	return s == waveform.High, nil
}

// IsLow reports whether the signal reads logic 0.
func (p *InputPin) IsLow() (bool, error) {
	s, err := p.Get()
	if err != nil {
		return false, err
	}
	return s == waveform.Low, nil
}

// VectorInputPin samples a vector signal in replay mode.
type VectorInputPin struct {
	b      *Bridge
	v      *waveform.Variable
	cursor int
}

// Get returns the vector value as of the current virtual time.
func (p *VectorInputPin) Get() (waveform.Value, error) {
	return sample(p.b, p.v, &p.cursor)
}

// RealInputPin samples a real signal in replay mode.
type RealInputPin struct {
	b      *Bridge
	v      *waveform.Variable
	cursor int
}

// Get returns the real value as of the current virtual time.
func (p *RealInputPin) Get() (float64, error) {
	val, err := sample(p.b, p.v, &p.cursor)
	if err != nil {
		return 0, err
	}
	return val.Real, nil
}

// OutputPin records a one-bit digital signal in record mode. Writing the
// pin's current value appends nothing, and repeated writes within one
// virtual instant coalesce into a single event carrying the final value.
type OutputPin struct {
	b *Bridge
	v *waveform.Variable
}

// Set records a logic state at the current virtual time.
func (p *OutputPin) Set(s waveform.LogicState) error {
	return p.b.doc.Timeline.Insert(p.b.now, p.v, waveform.ScalarValue(s))
}

// SetHigh records logic 1.
func (p *OutputPin) SetHigh() error {
	return p.Set(waveform.High)
}

// SetLow records logic 0.
func (p *OutputPin) SetLow() error {
	return p.Set(waveform.Low)
}

// OpenDrainPin records a one-bit signal with open-drain semantics:
// driving high pulls the line to 0, driving low releases it to z.
type OpenDrainPin struct {
	b *Bridge
	v *waveform.Variable
}

// SetHigh pulls the line to logic 0.
func (p *OpenDrainPin) SetHigh() error {
	return p.b.doc.Timeline.Insert(p.b.now, p.v, waveform.ScalarValue(waveform.Low))
}

// SetLow releases the line to z.
func (p *OpenDrainPin) SetLow() error {
	return p.b.doc.Timeline.Insert(p.b.now, p.v, waveform.ScalarValue(waveform.HighZ))
}

// VectorOutputPin records a vector signal in record mode.
type VectorOutputPin struct {
	b *Bridge
	v *waveform.Variable
}

// Set records a vector value, MSB first. The bit count must match the
// declared width.
func (p *VectorOutputPin) Set(bits ...waveform.LogicState) error {
	return p.b.doc.Timeline.Insert(p.b.now, p.v, waveform.VectorValue(bits...))
}

// RealOutputPin records a real signal in record mode.
type RealOutputPin struct {
	b *Bridge
	v *waveform.Variable
}

// Set records a real value.
func (p *RealOutputPin) Set(f float64) error {
	return p.b.doc.Timeline.Insert(p.b.now, p.v, waveform.RealValue(f))
}
