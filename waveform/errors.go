package waveform

import "errors"

var (
	// Declaration errors
	ErrDuplicateIdentifier = errors.New("waveform: duplicate identifier code")
	ErrInvalidWidth        = errors.New("waveform: variable width must be positive")
	ErrUnknownIdentifier   = errors.New("waveform: unknown identifier code")
	ErrUnbalancedScope     = errors.New("waveform: unbalanced scope nesting")
	ErrDefinitionsClosed   = errors.New("waveform: definitions already finalized")

	// Timeline errors
	ErrWidthMismatch    = errors.New("waveform: value width does not match variable declaration")
	ErrNonMonotonicTime = errors.New("waveform: timestamp earlier than latest recorded timestamp")
	ErrNoValueDefined   = errors.New("waveform: no value recorded at or before requested time")

	// ErrInternalConsistency marks a timeline event referencing a variable
	// that was never declared. This indicates a broken invariant, not bad
	// input, and is fatal for the operation that observed it.
	ErrInternalConsistency = errors.New("waveform: event references undeclared variable")
)
