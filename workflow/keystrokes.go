package workflow

import (
	"strings"
	"unicode/utf8"
)

// Keystroke is one element of a parsed Navigate keystroke sequence:
// either a literal character to type at the cursor, or a named key
// (e.g. "ENTER", "TAB", "PF3") to act on.
type Keystroke struct {
	Literal rune
	Named   string // non-empty exactly when this is a named key, not a literal
}

// ParseKeystrokes splits a sequence such as "JOHN[TAB]DOE[ENTER]" into
// its literal and named-key elements, left to right. A "[" not
// followed by a matching "]" is treated as a literal character, not an
// error: the sequence grammar is intentionally permissive so a
// malformed bracket in test data degrades to a literal keystroke
// rather than aborting the step.
func ParseKeystrokes(seq string) []Keystroke {
	var out []Keystroke
	i := 0
	for i < len(seq) {
		if seq[i] == '[' {
			if end := strings.IndexByte(seq[i:], ']'); end > 0 {
				name := seq[i+1 : i+end]
				if name != "" {
					out = append(out, Keystroke{Named: strings.ToUpper(name)})
					i += end + 1
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(seq[i:])
		out = append(out, Keystroke{Literal: r})
		i += size
	}
	return out
}
