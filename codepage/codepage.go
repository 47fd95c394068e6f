// Package codepage implements the EBCDIC <-> Unicode translation layer
// (spec component C1). A single configurable adapter, Codepage, backs
// every single-byte CCSID; per-CCSID differences live in tables.go as
// data, not as one hand-written type per CCSID. The double-byte (DBCS)
// codepage is a distinct type, since it carries shift-state that a
// single-byte table has no use for.
package codepage

// Substitute is the EBCDIC octet returned by ToEBCDIC for any Unicode
// code point that the reverse table does not cover.
const Substitute byte = 0x6F // '?' in CP037 and its national variants

// Codepage is one CCSID: an immutable 256-entry forward table and its
// derived reverse table. Construct with NewSingleByte; the zero value is
// not useful.
type Codepage struct {
	ccsid   int
	forward [256]rune
	reverse map[rune]byte
}

// CCSID returns the coded character set identifier this table implements.
func (c *Codepage) CCSID() int { return c.ccsid }

// NewSingleByte builds a Codepage from a 256-entry EBCDIC-octet ->
// Unicode table. The reverse table is built once, here, not on every
// ToEBCDIC call. Where multiple octets map to the same code point, the
// lowest octet wins (first-wins over the table in ascending order).
func NewSingleByte(ccsid int, forward [256]rune) (*Codepage, error) {
	reverse := make(map[rune]byte, 256)
	hi, lo := forward[0], forward[0]
	for b := 0; b < 256; b++ {
		r := forward[b]
		if r > hi {
			hi = r
		}
		if r < lo {
			lo = r
		}
		if _, exists := reverse[r]; !exists {
			reverse[r] = byte(b)
		}
	}
	if span := int(hi) - int(lo); span < 0 || span > maxReverseSpan {
		return nil, &StructuralError{CCSID: ccsid, Reason: "forward table code-point span exceeds sanity bound"}
	}
	return &Codepage{ccsid: ccsid, forward: forward, reverse: reverse}, nil
}

// ToUnicode translates one EBCDIC octet to its Unicode code point. O(1)
// table lookup; never fails.
func (c *Codepage) ToUnicode(b byte) rune {
	return c.forward[b]
}

// ToEBCDIC translates one Unicode code point to its EBCDIC octet.
// Unmapped code points yield Substitute, never an error — translation is
// a hot path and the failure mode is host-visible garbage, not a crash.
func (c *Codepage) ToEBCDIC(r rune) byte {
	if b, ok := c.reverse[r]; ok {
		return b
	}
	return Substitute
}
