package datastream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rob-gra/tn5250wf/screen"
)

// fieldOfLength5 builds a WTD record defining field_0 as an unprotected
// field of length 5 starting at (1,1), with the given attribute, bounded
// by a second, protected field at (1,7) — the same SBA/SF pairing
// engine_test.go's TestExecuteFillAndSubmitSendsAssembledResponse uses.
func fieldOfLength5(attr screen.FieldAttribute) []byte {
	record := []byte{byte(CmdWriteToDisplay), 0x00, 0x00}
	record = append(record, sbaBytes(1, 1)...)
	record = append(record, byte(OrderSF), byte(attr))
	record = append(record, sbaBytes(1, 7)...)
	record = append(record, byte(OrderSF), byte(screen.FieldProtected))
	return record
}

func TestTypeFieldWritesContentAndAdvancesCursor(t *testing.T) {
	p, scr := newTestParser(t)

	_, err := p.Apply(fieldOfLength5(0))
	require.NoError(t, err)

	require.NoError(t, p.TypeField("field_0", "AB"))
	// field_0's content starts one cell after its SF cell at col 0.
	require.Equal(t, "AB", firstLine(scr.ScreenText())[1:3])

	row, col := scr.CursorPosition()
	require.Equal(t, 0, row)
	require.Equal(t, 1, col) // TAB from col 0: field_0 is the next (and only) unprotected field, starting at col 1
}

func TestTypeFieldRejectsOverflow(t *testing.T) {
	p, _ := newTestParser(t)

	_, err := p.Apply(fieldOfLength5(0))
	require.NoError(t, err)

	require.ErrorIs(t, p.TypeField("field_0", "TOOLONG"), ErrFieldOverflow)
}

func TestTypeFieldRejectsNonDigitInMandatoryNumericField(t *testing.T) {
	p, _ := newTestParser(t)

	_, err := p.Apply(fieldOfLength5(screen.FieldNumeric | screen.FieldMandatory))
	require.NoError(t, err)

	require.ErrorIs(t, p.TypeField("field_0", "12A45"), ErrFieldNotNumeric)
}

func TestTypeFieldAcceptsDigitsInMandatoryNumericField(t *testing.T) {
	p, scr := newTestParser(t)

	_, err := p.Apply(fieldOfLength5(screen.FieldNumeric | screen.FieldMandatory))
	require.NoError(t, err)

	require.NoError(t, p.TypeField("field_0", "12345"))
	require.Equal(t, "12345", firstLine(scr.ScreenText())[1:6])
}

func TestTypeFieldAllowsNonDigitWhenNotMandatory(t *testing.T) {
	p, _ := newTestParser(t)

	// numeric but not mandatory: the digit check only fires when both
	// bits are set, per spec.md §4.5.1.
	_, err := p.Apply(fieldOfLength5(screen.FieldNumeric))
	require.NoError(t, err)

	require.NoError(t, p.TypeField("field_0", "AB"))
}

func TestTypeFieldRejectsUnknownFieldName(t *testing.T) {
	p, _ := newTestParser(t)
	require.ErrorIs(t, p.TypeField("nope", "x"), ErrFieldNotFound)
}
