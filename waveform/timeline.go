package waveform

import (
	"fmt"
	"sort"
)

// ChangeEvent records that a variable took a new value at a timestamp.
// Var is the variable's symbol-arena index.
type ChangeEvent struct {
	Time  uint64
	Var   int
	Value Value
}

// Timeline is the ordered store of change events, indexed per variable.
// Events for one variable are strictly increasing in time; at most one
// event exists per variable per timestamp.
type Timeline struct {
	byVar [][]ChangeEvent
	count int
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Insert records a value change. It fails with ErrNonMonotonicTime if t is
// earlier than the variable's latest event and ErrWidthMismatch if the
// value does not fit the declaration. A second insert at the variable's
// latest timestamp overwrites the pending value rather than duplicating
// it, and an insert that leaves the variable's value unchanged stores
// nothing: the timeline only ever holds actual deltas.
func (tl *Timeline) Insert(t uint64, v *Variable, val Value) error {
	if err := v.CheckValue(val); err != nil {
		return err
	}
	for len(tl.byVar) <= v.Index {
		tl.byVar = append(tl.byVar, nil)
	}
	events := tl.byVar[v.Index]
	if len(events) == 0 {
		tl.byVar[v.Index] = append(events, ChangeEvent{Time: t, Var: v.Index, Value: val})
		tl.count++
		return nil
	}
	last := &events[len(events)-1]
	switch {
	case t < last.Time:
		return fmt.Errorf("%w: %s at #%d, latest is #%d", ErrNonMonotonicTime, v.Name, t, last.Time)
	case t == last.Time:
		// Coalesce within the instant. If the rewrite restores the value
		// the variable already had before this timestamp, the event is a
		// no-op and is removed.
		if len(events) > 1 && events[len(events)-2].Value.Equal(val) {
			tl.byVar[v.Index] = events[:len(events)-1]
			tl.count--
			return nil
		}
		last.Value = val
		return nil
	default:
		if last.Value.Equal(val) {
			return nil
		}
		tl.byVar[v.Index] = append(events, ChangeEvent{Time: t, Var: v.Index, Value: val})
		tl.count++
		return nil
	}
}

// ValueAtOrBefore returns the variable's value as of time t: the value of
// its latest event with timestamp <= t. It fails with ErrNoValueDefined
// when no such event exists.
func (tl *Timeline) ValueAtOrBefore(v *Variable, t uint64) (Value, error) {
	if v.Index >= len(tl.byVar) || len(tl.byVar[v.Index]) == 0 {
		return Value{}, fmt.Errorf("%w: %s has no events", ErrNoValueDefined, v.Name)
	}
	events := tl.byVar[v.Index]
	// First event strictly after t; the answer precedes it.
	i := sort.Search(len(events), func(i int) bool { return events[i].Time > t })
	if i == 0 {
		return Value{}, fmt.Errorf("%w: %s before #%d", ErrNoValueDefined, v.Name, events[0].Time)
	}
	return events[i-1].Value, nil
}

// Events returns the variable's events in ascending time order. The
// slice is shared with the timeline; callers must not modify it.
func (tl *Timeline) Events(v *Variable) []ChangeEvent {
	if v.Index >= len(tl.byVar) {
		return nil
	}
	return tl.byVar[v.Index]
}

// LastTime returns the variable's latest event timestamp, if any.
func (tl *Timeline) LastTime(v *Variable) (uint64, bool) {
	if v.Index >= len(tl.byVar) || len(tl.byVar[v.Index]) == 0 {
		return 0, false
	}
	events := tl.byVar[v.Index]
	return events[len(events)-1].Time, true
}

// Len returns the number of stored change events.
func (tl *Timeline) Len() int {
	return tl.count
}

// FirstTime returns the earliest event timestamp across all variables.
func (tl *Timeline) FirstTime() (uint64, bool) {
	var first uint64
	found := false
	for _, events := range tl.byVar {
		if len(events) == 0 {
			continue
		}
		if !found || events[0].Time < first {
			first = events[0].Time
			found = true
		}
	}
	return first, found
}

// events flattens the per-variable slices into one slice ordered by
// (timestamp, identifier code). The symbol table supplies the codes; an
// event whose index it cannot resolve is an internal consistency fault.
func (tl *Timeline) events(symbols *SymbolTable) ([]ChangeEvent, error) {
	all := make([]ChangeEvent, 0, tl.count)
	for idx, events := range tl.byVar {
		if len(events) > 0 {
			if _, err := symbols.At(idx); err != nil {
				return nil, err
			}
		}
		all = append(all, events...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Time != all[j].Time {
			return all[i].Time < all[j].Time
		}
		return symbols.vars[all[i].Var].Code < symbols.vars[all[j].Var].Code
	})
	return all, nil
}

// Equal compares timeline content event by event.
func (tl *Timeline) Equal(o *Timeline) bool {
	if tl.count != o.count {
		return false
	}
	n := len(tl.byVar)
	if len(o.byVar) > n {
		n = len(o.byVar)
	}
	for i := 0; i < n; i++ {
		var a, b []ChangeEvent
		if i < len(tl.byVar) {
			a = tl.byVar[i]
		}
		if i < len(o.byVar) {
			b = o.byVar[i]
		}
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j].Time != b[j].Time || !a[j].Value.Equal(b[j].Value) {
				return false
			}
		}
	}
	return true
}
