// Package parser decodes the textual VCD grammar into a
// waveform.Document. Parsing is a single bounded pass over a character
// stream; on the first violation it aborts with a positioned error and
// returns no partial document.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pflow-xyz/go-vcd/waveform"
)

var (
	// ErrUnterminatedSection means a $-section reached end of input
	// before its $end keyword.
	ErrUnterminatedSection = errors.New("parser: section not terminated by $end")

	// ErrSyntax covers malformed tokens: bad timestamps, unknown
	// keywords, truncated change records.
	ErrSyntax = errors.New("parser: malformed input")
)

// Error is a parse failure with its input position. It wraps the
// underlying kind, so errors.Is sees through it to ErrSyntax,
// ErrUnterminatedSection, or the waveform sentinels (ErrWidthMismatch,
// ErrUnbalancedScope, ErrUnknownIdentifier, ...).
type Error struct {
	Line   int // 1-based line of the offending token
	Offset int // byte offset from start of input
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d (byte %d): %v", e.Line, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parse decodes a VCD document from r.
func Parse(r io.Reader) (*waveform.Document, error) {
	p := &parser{
		sc:      newScanner(r),
		builder: waveform.NewBuilder(),
	}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	if err := p.parseBody(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// ParseString decodes a VCD document from a string.
func ParseString(s string) (*waveform.Document, error) {
	return Parse(strings.NewReader(s))
}

type parser struct {
	sc      *scanner
	builder *waveform.Builder
	doc     *waveform.Document
	now     uint64
	// dumpDepth tracks open $dumpvars-style wrappers in the body. The
	// wrapper is transparent: changes inside it belong to the current
	// timestamp.
	dumpDepth int
}

// fail wraps err with the position of the most recent token.
func (p *parser) fail(err error) error {
	return &Error{Line: p.sc.tokLine, Offset: p.sc.tokOffset, Err: err}
}

func (p *parser) failf(format string, args ...interface{}) error {
	return p.fail(fmt.Errorf("%w: "+format, append([]interface{}{ErrSyntax}, args...)...))
}

func (p *parser) parseHeader() error {
	for {
		tok, err := p.sc.next()
		if err == io.EOF {
			return p.failf("input ended before $enddefinitions")
		}
		if err != nil {
			return p.fail(err)
		}

		switch tok {
		case "$comment":
			if _, err := p.readSection(); err != nil {
				return err
			}
		case "$date":
			text, err := p.readSection()
			if err != nil {
				return err
			}
			if err := p.builder.SetDate(text); err != nil {
				return p.fail(err)
			}
		case "$version":
			text, err := p.readSection()
			if err != nil {
				return err
			}
			if err := p.builder.SetVersion(text); err != nil {
				return p.fail(err)
			}
		case "$timescale":
			if err := p.parseTimescale(); err != nil {
				return err
			}
		case "$scope":
			if err := p.parseScope(); err != nil {
				return err
			}
		case "$upscope":
			if err := p.expectEnd(); err != nil {
				return err
			}
			if err := p.builder.ExitScope(); err != nil {
				return p.fail(err)
			}
		case "$var":
			if err := p.parseVar(); err != nil {
				return err
			}
		case "$enddefinitions":
			if err := p.expectEnd(); err != nil {
				return err
			}
			doc, err := p.builder.EndDefinitions()
			if err != nil {
				return p.fail(err)
			}
			p.doc = doc
			return nil
		default:
			return p.failf("unexpected token %q in header", tok)
		}
	}
}

// parseTimescale handles both "$timescale 1 ns $end" and the fused
// "$timescale 1ns $end" form.
func (p *parser) parseTimescale() error {
	text, err := p.readSection()
	if err != nil {
		return err
	}
	fields := strings.Fields(text)
	var magStr, unitStr string
	switch len(fields) {
	case 1:
		s := fields[0]
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		magStr, unitStr = s[:i], s[i:]
	case 2:
		magStr, unitStr = fields[0], fields[1]
	default:
		return p.failf("timescale wants <int> <unit>, got %q", text)
	}
	mag, err := strconv.Atoi(magStr)
	if err != nil || mag <= 0 {
		return p.failf("invalid timescale magnitude %q", magStr)
	}
	unit, ok := waveform.ParseTimeUnit(unitStr)
	if !ok {
		return p.failf("invalid timescale unit %q", unitStr)
	}
	if err := p.builder.SetTimescale(mag, unit); err != nil {
		return p.fail(err)
	}
	return nil
}

func (p *parser) parseScope() error {
	text, err := p.readSection()
	if err != nil {
		return err
	}
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return p.failf("scope wants <kind> <name>, got %q", text)
	}
	if err := p.builder.EnterScope(fields[1], fields[0]); err != nil {
		return p.fail(err)
	}
	return nil
}

func (p *parser) parseVar() error {
	text, err := p.readSection()
	if err != nil {
		return err
	}
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return p.failf("var wants <type> <width> <id> <name>, got %q", text)
	}
	typ, ok := waveform.ParseVarType(fields[0])
	if !ok {
		return p.failf("unknown variable type %q", fields[0])
	}
	width, err := strconv.Atoi(fields[1])
	if err != nil {
		return p.failf("invalid variable width %q", fields[1])
	}
	// A bit-range suffix such as "[7:0]" stays part of the name.
	name := strings.Join(fields[3:], " ")
	if _, err := p.builder.DeclareVariableCode(fields[2], name, typ, width); err != nil {
		return p.fail(err)
	}
	return nil
}

func (p *parser) parseBody() error {
	for {
		tok, err := p.sc.next()
		if err == io.EOF {
			if p.dumpDepth > 0 {
				return p.fail(ErrUnterminatedSection)
			}
			return nil
		}
		if err != nil {
			return p.fail(err)
		}

		switch {
		case tok == "$comment":
			if _, err := p.readSection(); err != nil {
				return err
			}
		case tok == "$dumpvars" || tok == "$dumpall" || tok == "$dumpon" || tok == "$dumpoff":
			p.dumpDepth++
		case tok == "$end":
			if p.dumpDepth == 0 {
				return p.failf("$end with no open section")
			}
			p.dumpDepth--
		case tok[0] == '#':
			ts, err := strconv.ParseUint(tok[1:], 10, 64)
			if err != nil {
				return p.failf("invalid timestamp %q", tok)
			}
			p.now = ts
		case tok[0] == 'b' || tok[0] == 'B':
			val, err := waveform.ParseVector(tok[1:])
			if err != nil {
				return p.failf("invalid vector change %q", tok)
			}
			code, err := p.sc.next()
			if err != nil {
				return p.failf("vector change %q missing identifier", tok)
			}
			if err := p.change(code, val); err != nil {
				return err
			}
		case tok[0] == 'r' || tok[0] == 'R':
			f, err := strconv.ParseFloat(tok[1:], 64)
			if err != nil {
				return p.failf("invalid real change %q", tok)
			}
			code, err := p.sc.next()
			if err != nil {
				return p.failf("real change %q missing identifier", tok)
			}
			if err := p.change(code, waveform.RealValue(f)); err != nil {
				return err
			}
		default:
			// Scalar change: state character immediately followed by the
			// identifier code, no separator.
			state, ok := waveform.ParseLogicState(rune(tok[0]))
			if !ok || len(tok) < 2 {
				return p.failf("unexpected token %q in value-change section", tok)
			}
			if err := p.change(tok[1:], waveform.ScalarValue(state)); err != nil {
				return err
			}
		}
	}
}

// change resolves an identifier code and records the value at the current
// timestamp.
func (p *parser) change(code string, val waveform.Value) error {
	v, err := p.doc.Symbols.Lookup(code)
	if err != nil {
		return p.fail(err)
	}
	if err := p.doc.Timeline.Insert(p.now, v, val); err != nil {
		return p.fail(err)
	}
	return nil
}

// readSection consumes tokens up to the matching $end and returns the
// interior text with single spaces between tokens.
func (p *parser) readSection() (string, error) {
	var parts []string
	for {
		tok, err := p.sc.next()
		if err == io.EOF {
			return "", p.fail(ErrUnterminatedSection)
		}
		if err != nil {
			return "", p.fail(err)
		}
		if tok == "$end" {
			return strings.Join(parts, " "), nil
		}
		parts = append(parts, tok)
	}
}

// expectEnd consumes exactly one $end token.
func (p *parser) expectEnd() error {
	tok, err := p.sc.next()
	if err == io.EOF {
		return p.fail(ErrUnterminatedSection)
	}
	if err != nil {
		return p.fail(err)
	}
	if tok != "$end" {
		return p.failf("expected $end, got %q", tok)
	}
	return nil
}

// scanner splits the input into whitespace-separated tokens while
// tracking line numbers and byte offsets for error reporting.
type scanner struct {
	br        *bufio.Reader
	line      int
	offset    int
	tokLine   int
	tokOffset int
}

func newScanner(r io.Reader) *scanner {
	return &scanner{br: bufio.NewReader(r), line: 1}
}

func (s *scanner) next() (string, error) {
	// Skip whitespace.
	for {
		b, err := s.br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			s.line++
			s.offset++
			continue
		}
		if b == ' ' || b == '\t' || b == '\r' {
			s.offset++
			continue
		}
		s.tokLine = s.line
		s.tokOffset = s.offset
		var buf []byte
		buf = append(buf, b)
		s.offset++
		for {
			b, err := s.br.ReadByte()
			if err == io.EOF {
				return string(buf), nil
			}
			if err != nil {
				return "", err
			}
			if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
				if err := s.br.UnreadByte(); err != nil {
					return "", err
				}
				return string(buf), nil
			}
			buf = append(buf, b)
			s.offset++
		}
	}
}
