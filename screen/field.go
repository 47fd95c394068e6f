package screen

// FieldAttribute is the 5250 field attribute byte: start-of-field marker
// plus protected/modified/numeric/mandatory/display-class bits, per
// spec.md §3 (field-attribute plane).
type FieldAttribute byte

const (
	// FieldProtected marks a field the terminal operator cannot type
	// into; its Modified flag can never become true.
	FieldProtected FieldAttribute = 1 << iota
	// FieldNumeric restricts field content to digits (and sign, for
	// signed numeric fields).
	FieldNumeric
	// FieldMandatory requires non-blank content before submit.
	FieldMandatory
	// FieldModifiedMarker is the MDT (modified data tag) bit: set once
	// the operator has typed into the field since the last Write to
	// Display that defined it.
	FieldModifiedMarker
	// FieldDisplayOnly is a display-class bit distinguishing
	// non-editable display fields from protected input fields (both are
	// non-editable, but only the latter has an enclosing SF boundary
	// participating in field navigation).
	FieldDisplayOnly
	// FieldDBCS marks a field whose content is double-byte (shift-out/
	// shift-in bracketed) rather than single-byte EBCDIC.
	FieldDBCS
)

// Protected reports the protected bit.
func (a FieldAttribute) Protected() bool { return a&FieldProtected != 0 }

// Numeric reports the numeric bit.
func (a FieldAttribute) Numeric() bool { return a&FieldNumeric != 0 }

// Mandatory reports the mandatory bit.
func (a FieldAttribute) Mandatory() bool { return a&FieldMandatory != 0 }

// DBCS reports the double-byte-content bit.
func (a FieldAttribute) DBCS() bool { return a&FieldDBCS != 0 }

// Field is one entry in the screen's field table.
type Field struct {
	// Name identifies the field for workflow FILL/ASSERT bindings: the
	// host-assigned name when named fields are negotiated via WSF,
	// otherwise the synthetic "field_N" (N = position in field-table
	// order, 0-based).
	Name string
	// Start is the buffer position (row-major, 0-based) of the first
	// character cell belonging to this field (the cell immediately after
	// its Start-of-Field order).
	Start int
	// Length is the number of character cells in the field, not
	// counting the attribute cell itself.
	Length int
	// Attribute is the field attribute byte this field was defined with.
	Attribute FieldAttribute
	// Modified reports whether the operator has typed into this field.
	// A field table rebuild keeps the flag for a field whose start
	// position is unchanged. Always false for a protected field.
	Modified bool
}

// End returns the position one past the field's last character cell.
func (f Field) End() int { return f.Start + f.Length }
