package datastream

// Command is the leading opcode of an inbound 5250 data-stream record
// (the byte following the two-byte logical-record length IBM puts on
// the wire; transport framing — EOR delimiting — is handled by the
// telnet layer, not here).
type Command byte

// Inbound command opcodes recognized by the parser. See spec.md §4.3.
const (
	CmdWriteToDisplay       Command = 0x11
	CmdWriteStructuredField Command = 0xF3
	CmdReadInputFields      Command = 0x42
	CmdReadMDTFields        Command = 0x52
	CmdReadMDTFieldsAlt     Command = 0x82
	CmdReadImmediate        Command = 0x72
	CmdSaveScreen           Command = 0x02
	CmdRestoreScreen        Command = 0x12
	CmdClearUnitAlternate   Command = 0x92
	CmdClearUnit            Command = 0x40
)

func (c Command) String() string {
	switch c {
	case CmdWriteToDisplay:
		return "WriteToDisplay"
	case CmdWriteStructuredField:
		return "WriteStructuredField"
	case CmdReadInputFields:
		return "ReadInputFields"
	case CmdReadMDTFields, CmdReadMDTFieldsAlt:
		return "ReadMDTFields"
	case CmdReadImmediate:
		return "ReadImmediate"
	case CmdSaveScreen:
		return "SaveScreen"
	case CmdRestoreScreen:
		return "RestoreScreen"
	case CmdClearUnitAlternate, CmdClearUnit:
		return "ClearUnit"
	default:
		return "Unknown"
	}
}

// Order is a Write to Display stream order byte.
type Order byte

const (
	OrderSBA             Order = 0x11 // Set Buffer Address
	OrderSF              Order = 0x1D // Start of Field
	OrderIC              Order = 0x13 // Insert Cursor
	OrderRA              Order = 0x02 // Repeat to Address
	OrderEA              Order = 0x03 // Erase to Address
	OrderSA              Order = 0x28 // Set Attribute
	OrderTransparentData Order = 0x3C
)

// structuredFieldClass is the class byte of a Write Structured Field
// TLV record. 0xD9 is the only class this engine recognizes; others are
// skipped (logged) per spec.md's forward-compatibility policy.
const structuredFieldClass5250 byte = 0xD9

// Structured-field subcommands under class 0xD9 that the engine acts on.
// Everything else under that class (window create, scrollbar,
// remove-all-GUI, and the rest of the 5250 GUI extensions) is
// acknowledged as recognized-but-unimplemented and skipped.
const (
	sfQueryCommand byte = 0x70
)
