package datastream

import (
	"strings"

	"github.com/rob-gra/tn5250wf/codepage"
	"github.com/rob-gra/tn5250wf/screen"
)

// AssembleKeyResponse builds the outbound byte sequence for an AID key
// press: the AID byte, the cursor's current SBA, and an (SBA,
// field-content) pair for each modified field, in field-table order.
// Field content is translated through the parser's codepage (DBCS
// fields additionally through the DBCS session, bracketed with
// shift-out/shift-in).
func (p *Parser) AssembleKeyResponse(aid AID) []byte {
	return p.assembleFieldResponse(aid, false)
}

// assembleFieldResponse is shared by AID key responses (modified fields
// only) and Read Input Fields responses (every field, per spec.md §4.3:
// Read Input Fields and Read MDT Fields differ only in which fields are
// included).
func (p *Parser) assembleFieldResponse(aid AID, allFields bool) []byte {
	out := []byte{byte(aid)}

	row, col := p.scr.CursorPosition()
	hi, lo := encodeBufferAddress(row+1, col+1, p.rows, p.cols)
	out = append(out, byte(OrderSBA), hi, lo)

	for _, f := range p.scr.Fields() {
		if !allFields && !f.Modified {
			continue
		}
		startRow, startCol := f.Start/p.cols+1, f.Start%p.cols+1
		fhi, flo := encodeBufferAddress(startRow, startCol, p.rows, p.cols)
		out = append(out, byte(OrderSBA), fhi, flo)
		out = append(out, p.encodeFieldContent(f)...)
	}

	return out
}

// encodeFieldContent translates a field's current content back to wire
// bytes: single-byte EBCDIC normally, or DBCS-bracketed bytes when the
// field attribute marks it as double-byte and a DBCS codepage was
// configured. Trailing blanks are trimmed on non-mandatory fields;
// mandatory numeric fields hold only digit content by the time this
// runs, since TypeField (keyboard.go) rejects non-digit content before
// it ever reaches the field.
func (p *Parser) encodeFieldContent(f screen.Field) []byte {
	content := p.scr.FieldContent(f)
	if !f.Attribute.Mandatory() {
		content = strings.TrimRight(content, " ")
	}

	if f.Attribute.DBCS() && p.dbcs != nil {
		return encodeDBCS(p.dbcs, content)
	}

	out := make([]byte, 0, len(content))
	for _, r := range content {
		out = append(out, p.cp.ToEBCDIC(r))
	}
	return out
}

func encodeDBCS(dbcs *codepage.DBCSCodepage, s string) []byte {
	sess := codepage.NewSession(dbcs)
	var out []byte
	for _, r := range s {
		out = append(out, sess.EncodeRune(r)...)
	}
	out = append(out, sess.Flush()...)
	return out
}

// AssembleBareKey builds the outbound sequence for a stand-alone
// opcode with no field data: system request, test request, attention.
func AssembleBareKey(aid AID) []byte {
	return []byte{byte(aid)}
}
