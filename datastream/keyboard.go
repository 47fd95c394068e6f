package datastream

import (
	"errors"

	"github.com/rob-gra/tn5250wf/screen"
)

// ErrFieldNotFound and ErrFieldOverflow are sentinel errors the workflow
// engine (C5) wraps into its own FieldNotFound/FieldOverflow failure
// kinds; they stay plain here since the protocol engine has no
// knowledge of workflow step context.
var (
	ErrFieldNotFound   = errors.New("datastream: field not found")
	ErrFieldOverflow   = errors.New("datastream: value exceeds field length")
	ErrFieldNotNumeric = errors.New("datastream: mandatory-numeric field rejects non-digit content")
)

// TypeField simulates local keyboard entry into a named field: clears
// the field's current content (HOME), writes value translated through
// the codepage, marks the field modified, and advances the cursor past
// the field (TAB). This is the only path by which the workflow engine
// changes screen content — it goes through the protocol engine's
// narrow surface, never the screen model directly.
func (p *Parser) TypeField(name, value string) error {
	f, idx, ok := p.scr.FieldByName(name)
	if !ok {
		return ErrFieldNotFound
	}
	if len([]rune(value)) > f.Length {
		return ErrFieldOverflow
	}
	if f.Attribute.Numeric() && f.Attribute.Mandatory() && !isDigitContent(value) {
		return ErrFieldNotNumeric
	}

	pos := f.Start
	for ; pos < f.End(); pos++ {
		if err := p.scr.WriteChar(pos, 0x40, screen.ExtAttr{}); err != nil {
			return err
		}
	}

	pos = f.Start
	for _, r := range value {
		if err := p.scr.WriteChar(pos, p.cp.ToEBCDIC(r), screen.ExtAttr{}); err != nil {
			return err
		}
		pos++
	}

	if err := p.scr.MarkFieldModified(idx); err != nil {
		return err
	}
	return p.TabToNextField()
}

// isDigitContent reports whether every rune in value is an ASCII digit.
// An empty value passes, and no other check rejects a blank mandatory
// field.
func isDigitContent(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TypeAtCursor writes one character at the cursor's current position
// and advances the cursor by one cell, the model for literal characters
// in a Navigate keystroke sequence (not field-bound, unlike TypeField).
func (p *Parser) TypeAtCursor(r rune) error {
	row, col := p.scr.CursorPosition()
	pos, err := p.scr.PositionOf(row+1, col+1)
	if err != nil {
		return err
	}
	if err := p.scr.WriteChar(pos, p.cp.ToEBCDIC(r), screen.ExtAttr{}); err != nil {
		return err
	}
	return p.scr.SetCursor(advance(pos, p.rows, p.cols))
}

// TabToNextField moves the cursor to the start of the next unprotected
// field after the current position, wrapping to the first unprotected
// field if none follows. A no-op if the field table has no unprotected
// field at all.
func (p *Parser) TabToNextField() error {
	fields := p.scr.Fields()
	row, col := p.scr.CursorPosition()
	cur, err := p.scr.PositionOf(row+1, col+1)
	if err != nil {
		return err
	}

	for _, f := range fields {
		if f.Start > cur && !f.Attribute.Protected() {
			return p.scr.SetCursor(f.Start)
		}
	}
	for _, f := range fields {
		if !f.Attribute.Protected() {
			return p.scr.SetCursor(f.Start)
		}
	}
	return nil
}

// HomeCursorToField moves the cursor to the start of the named field
// without altering its content, for the Fill step's initial
// positioning.
func (p *Parser) HomeCursorToField(name string) error {
	f, _, ok := p.scr.FieldByName(name)
	if !ok {
		return ErrFieldNotFound
	}
	return p.scr.SetCursor(f.Start)
}
