package datastream

// applyWriteStructuredField parses a sequence of variable-length TLV
// structured fields: each entry is a 2-byte big-endian length
// (including the length bytes themselves), a class byte, a subcommand
// byte, and a payload. Only class 0xD9 (5250 structured fields) is
// recognized; other classes, and unrecognized subcommands within class
// 0xD9, are skipped and logged per the forward-compatibility policy —
// never an error that aborts the record.
func (p *Parser) applyWriteStructuredField(body []byte) error {
	i := 0
	for i < len(body) {
		if i+2 > len(body) {
			return &MalformedRecord{Reason: "structured field length truncated"}
		}
		length := int(body[i])<<8 | int(body[i+1])
		if length < 4 || i+length > len(body) {
			return &MalformedRecord{Reason: "structured field length invalid"}
		}
		class := body[i+2]
		subcommand := body[i+3]

		if class != structuredFieldClass5250 {
			p.log.Debug("datastream: skipping structured field, unrecognized class 0x%02X", class)
			i += length
			continue
		}

		switch subcommand {
		case sfQueryCommand:
			p.handleQuery()
		default:
			p.log.Debug("datastream: skipping structured field, unrecognized subcommand 0x%02X", subcommand)
		}
		i += length
	}
	return nil
}

// handleQuery handles a Query structured field by logging it at debug
// level. No query reply is assembled or sent, and the screen model is
// not changed.
func (p *Parser) handleQuery() {
	p.log.Debug("datastream: query structured field received")
}
