// Package datastream implements the TN5250 data-stream protocol engine
// (spec component C3): parsing inbound Write to Display / Write
// Structured Field records into screen-model mutations, and assembling
// outbound AID-key responses from the screen's current field state.
package datastream

import (
	"github.com/rob-gra/tn5250wf/clog"
	"github.com/rob-gra/tn5250wf/codepage"
	"github.com/rob-gra/tn5250wf/screen"
)

// Parser applies inbound records to a screen model. One Parser per
// session; not safe for concurrent Apply calls (records are applied in
// arrival order by a single reader goroutine per spec.md's ordering
// guarantee, so this is not a limitation in practice).
type Parser struct {
	scr  *screen.Screen
	cp   *codepage.Codepage
	dbcs *codepage.DBCSCodepage
	log  clog.Clog

	rows, cols int

	// saved holds the most recent Save Screen snapshot for a subsequent
	// Restore Screen. Zero value (nil slices) until the first save.
	saved        screen.Snapshot
	haveSnapshot bool
}

// NewParser constructs a parser bound to scr. cp is the single-byte
// codepage used for non-DBCS character data; dbcs may be nil if the
// session negotiated no DBCS CCSID.
func NewParser(scr *screen.Screen, cp *codepage.Codepage, dbcs *codepage.DBCSCodepage, log clog.Clog) *Parser {
	rows, cols := scr.Size()
	return &Parser{scr: scr, cp: cp, dbcs: dbcs, log: log, rows: rows, cols: cols}
}

// Apply parses and applies one inbound logical record, whose first byte
// is the command. If the command is a host read request (Read Input
// Fields, Read MDT Fields, Read Immediate), response holds the outbound
// bytes the caller must write back to the host; otherwise response is
// nil.
//
// A MalformedRecord or UnknownCommand error means the record was
// skipped; the caller should log and continue (per spec.md's
// forward-compatibility propagation policy), not tear down the session.
func (p *Parser) Apply(record []byte) (response []byte, err error) {
	if len(record) == 0 {
		return nil, &MalformedRecord{Reason: "empty record"}
	}
	cmd := Command(record[0])
	body := record[1:]

	switch cmd {
	case CmdWriteToDisplay:
		return nil, p.applyWriteToDisplay(body)
	case CmdWriteStructuredField:
		return nil, p.applyWriteStructuredField(body)
	case CmdSaveScreen:
		p.saveScreen()
		return nil, nil
	case CmdRestoreScreen:
		return nil, p.restoreScreen()
	case CmdClearUnit, CmdClearUnitAlternate:
		return nil, p.scr.Clear(screen.Rect{MaxRow: p.rows, MaxCol: p.cols})
	case CmdReadInputFields, CmdReadImmediate:
		return p.assembleFieldResponse(AIDNone, true), nil
	case CmdReadMDTFields, CmdReadMDTFieldsAlt:
		return p.assembleFieldResponse(AIDNone, false), nil
	default:
		p.log.Debug("datastream: unrecognized command 0x%02X, skipping", byte(cmd))
		return nil, &UnknownCommand{Command: byte(cmd)}
	}
}

// wtdState is the Write to Display parser's running position: the
// "screen pointer" the host is writing to, and the extended attribute
// in effect for subsequently written characters.
type wtdState struct {
	pos int
	ext screen.ExtAttr
}

func (p *Parser) applyWriteToDisplay(body []byte) error {
	if len(body) < 2 {
		return &MalformedRecord{Reason: "write to display control bytes truncated"}
	}
	// body[0], body[1] are the CC1/CC2 control characters (lock/unlock
	// keyboard, reset MDT, etc). Keyboard-lock semantics are applied via
	// OIA, not the character planes.
	cc1 := body[0]
	orders := body[2:]

	st := &wtdState{}
	i := 0
	for i < len(orders) {
		b := orders[i]
		switch Order(b) {
		case OrderSBA:
			if i+2 >= len(orders) {
				return &MalformedRecord{Reason: "SBA truncated"}
			}
			row, col := decodeBufferAddress(orders[i+1], orders[i+2], p.rows, p.cols)
			if row < 1 || row > p.rows || col < 1 || col > p.cols {
				p.log.Debug("datastream: invalid SBA row=%d col=%d", row, col)
				return &InvalidSBA{Row: row, Col: col}
			}
			pos, err := p.scr.PositionOf(row, col)
			if err != nil {
				return &InvalidSBA{Row: row, Col: col}
			}
			st.pos = pos
			i += 3
		case OrderSF:
			if i+1 >= len(orders) {
				return &MalformedRecord{Reason: "SF truncated"}
			}
			attr := orders[i+1]
			if err := p.scr.SetFieldStart(st.pos, screen.FieldAttribute(attr)); err != nil {
				return &MalformedRecord{Reason: "SF position out of range"}
			}
			st.pos = advance(st.pos, p.rows, p.cols)
			i += 2
		case OrderIC:
			if err := p.scr.SetCursor(st.pos); err != nil {
				return &MalformedRecord{Reason: "IC position out of range"}
			}
			i++
		case OrderRA:
			if i+3 >= len(orders) {
				return &MalformedRecord{Reason: "RA truncated"}
			}
			row, col := decodeBufferAddress(orders[i+1], orders[i+2], p.rows, p.cols)
			endPos, err := p.scr.PositionOf(row, col)
			if err != nil {
				return &InvalidSBA{Row: row, Col: col}
			}
			octet := orders[i+3]
			for pos := st.pos; pos != endPos; pos = advance(pos, p.rows, p.cols) {
				if err := p.scr.WriteChar(pos, octet, st.ext); err != nil {
					return &MalformedRecord{Reason: "RA range invalid"}
				}
			}
			st.pos = endPos
			i += 4
		case OrderEA:
			if i+2 >= len(orders) {
				return &MalformedRecord{Reason: "EA truncated"}
			}
			row, col := decodeBufferAddress(orders[i+1], orders[i+2], p.rows, p.cols)
			endPos, err := p.scr.PositionOf(row, col)
			if err != nil {
				return &InvalidSBA{Row: row, Col: col}
			}
			for pos := st.pos; pos != endPos; pos = advance(pos, p.rows, p.cols) {
				if err := p.scr.WriteChar(pos, 0x40, screen.ExtAttr{}); err != nil {
					return &MalformedRecord{Reason: "EA range invalid"}
				}
			}
			st.pos = endPos
			i += 3
		case OrderSA:
			if i+1 >= len(orders) {
				return &MalformedRecord{Reason: "SA truncated"}
			}
			st.ext = decodeExtAttr(orders[i+1])
			i += 2
		default:
			// character data arrives as raw EBCDIC octets already; C1
			// translation happens on read (ScreenText), not here.
			if err := p.scr.WriteChar(st.pos, b, st.ext); err != nil {
				return &MalformedRecord{Reason: "character data position out of range"}
			}
			st.pos = advance(st.pos, p.rows, p.cols)
			i++
		}
	}

	p.scr.RebuildFields()
	p.applyKeyboardControl(cc1)
	return nil
}

// advance moves a linear buffer position forward by one cell, wrapping
// from the last cell back to 0 (a real 5250 buffer pointer wraps; a
// write past the last cell continues at the top of the screen).
func advance(pos, rows, cols int) int {
	pos++
	if pos >= rows*cols {
		pos = 0
	}
	return pos
}

func decodeExtAttr(b byte) screen.ExtAttr {
	return screen.ExtAttr{
		Color:     b & 0x07,
		Blink:     b&0x08 != 0,
		Reverse:   b&0x10 != 0,
		Underline: b&0x20 != 0,
	}
}

// applyKeyboardControl maps the Write to Display CC1 control character's
// keyboard-related bits onto an OIA update. Bit layout mirrors the IBM
// 5250 reference: bit 0x80 resets keyboard (unlock), bit 0x40 locks it.
func (p *Parser) applyKeyboardControl(cc1 byte) {
	oia := p.scr.OIASnapshot()
	switch {
	case cc1&0x80 != 0:
		oia.KeyboardLocked = false
		oia.InputInhibited = screen.NotInhibited
	case cc1&0x40 != 0:
		oia.KeyboardLocked = true
	}
	p.scr.SetOIA(oia)
}

func (p *Parser) saveScreen() {
	p.saved = p.scr.Save()
	p.haveSnapshot = true
}

func (p *Parser) restoreScreen() error {
	if !p.haveSnapshot {
		return &MalformedRecord{Reason: "restore screen with no prior save"}
	}
	return p.scr.Restore(p.saved)
}
