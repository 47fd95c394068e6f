package datastream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAIDNameKnownKeys(t *testing.T) {
	aid, ok := ParseAIDName("enter")
	require.True(t, ok)
	require.Equal(t, AIDEnter, aid)

	aid, ok = ParseAIDName("pf3")
	require.True(t, ok)
	require.Equal(t, AIDPF3, aid)
}

func TestParseAIDNameUnknown(t *testing.T) {
	_, ok := ParseAIDName("nosuchkey")
	require.False(t, ok)
}

func TestAIDStringRoundTripsThroughParse(t *testing.T) {
	for _, aid := range []AID{AIDEnter, AIDClear, AIDPF24, AIDPA1, AIDHelp} {
		name := aid.String()
		parsed, ok := ParseAIDName(name)
		require.True(t, ok, "name %q should parse back", name)
		require.Equal(t, aid, parsed)
	}
}

func TestAIDStringFallsBackToHexForUnknown(t *testing.T) {
	require.Contains(t, AID(0x01).String(), "0x01")
}
