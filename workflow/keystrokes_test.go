package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeystrokesSplitsLiteralsAndNamedKeys(t *testing.T) {
	ks := ParseKeystrokes("JOHN[TAB]DOE[ENTER]")
	require.Equal(t, []Keystroke{
		{Literal: 'J'}, {Literal: 'O'}, {Literal: 'H'}, {Literal: 'N'},
		{Named: "TAB"},
		{Literal: 'D'}, {Literal: 'O'}, {Literal: 'E'},
		{Named: "ENTER"},
	}, ks)
}

func TestParseKeystrokesUppercasesNamedKeys(t *testing.T) {
	ks := ParseKeystrokes("[enter]")
	require.Len(t, ks, 1)
	require.Equal(t, "ENTER", ks[0].Named)
}

func TestParseKeystrokesTreatsUnmatchedBracketAsLiteral(t *testing.T) {
	ks := ParseKeystrokes("A[B")
	require.Equal(t, []Keystroke{{Literal: 'A'}, {Literal: '['}, {Literal: 'B'}}, ks)
}

func TestParseKeystrokesTreatsEmptyBracketsAsLiteral(t *testing.T) {
	ks := ParseKeystrokes("[]")
	require.Equal(t, []Keystroke{{Literal: '['}, {Literal: ']'}}, ks)
}
