package codepage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryBuilds(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	for _, ccsid := range []int{37, 500, 273, 297, 870, 1140, 1148} {
		_, ok := reg.Lookup(ccsid)
		require.Truef(t, ok, "ccsid %d should be registered", ccsid)
	}
	_, ok := reg.LookupDBCS(DBCS930)
	require.True(t, ok)
}

// Property 1: codepage round-trip for the canonical single-byte subset.
func TestRoundTripCanonicalSubset(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, ccsid := range []int{37, 500, 273, 297, 870, 875, 1140} {
		cp, ok := reg.Lookup(ccsid)
		require.True(t, ok)

		seen := make(map[rune]byte)
		for b := 0; b < 256; b++ {
			r := cp.ToUnicode(byte(b))
			if prior, dup := seen[r]; dup {
				// many-to-one: reverse lookup is defined to return the
				// lowest octet, so only that octet round-trips.
				if byte(b) < prior {
					seen[r] = byte(b)
				}
				continue
			}
			seen[r] = byte(b)
		}
		for r, b := range seen {
			got := cp.ToEBCDIC(r)
			require.Equalf(t, b, got, "ccsid %d: round-trip for rune %U", ccsid, r)
		}
	}
}

func TestToEBCDICSubstitutesUnmapped(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	cp, _ := reg.Lookup(37)
	got := cp.ToEBCDIC(0x10FFFF) // far outside any CP037 mapping
	require.Equal(t, Substitute, got)
}

// Property 2: DBCS bracketing.
func TestDBCSBracketing(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	dbcs, ok := reg.LookupDBCS(DBCS930)
	require.True(t, ok)

	sess := NewSession(dbcs)
	var got rune
	var produced int
	for _, b := range []byte{ShiftOut, 0x43, 0x61, ShiftIn} {
		if r, ok := sess.ToUnicode(b); ok {
			got = r
			produced++
		}
	}
	require.Equal(t, 1, produced)
	require.Equal(t, rune(0x30A2), got) // ア, per katakanaDBCS930[0x4361]
	require.False(t, sess.inDBCS, "session must end not-in-DBCS-mode")
}

func TestDBCSResetClearsState(t *testing.T) {
	reg, _ := NewRegistry()
	dbcs, _ := reg.LookupDBCS(DBCS930)
	sess := NewSession(dbcs)

	sess.ToUnicode(ShiftOut)
	sess.ToUnicode(0x43) // lead byte only, mid-sequence
	require.True(t, sess.inDBCS)
	require.True(t, sess.needSecondByte)

	sess.Reset()
	require.False(t, sess.inDBCS)
	require.False(t, sess.needSecondByte)
	require.Zero(t, sess.heldLead)

	// A non-shift byte right after reset is treated as single-byte.
	r, ok := sess.ToUnicode(0xF1)
	require.True(t, ok)
	require.Equal(t, rune('1'), r)
}

func TestDBCSEncodeRuneBracketsOnlyOnTransition(t *testing.T) {
	reg, _ := NewRegistry()
	dbcs, _ := reg.LookupDBCS(DBCS930)
	sess := NewSession(dbcs)

	out := sess.EncodeRune(0x30A2) // ア: first DBCS rune, needs leading SO
	require.Equal(t, []byte{ShiftOut, 0x43, 0x61}, out)

	out = sess.EncodeRune(0x30A4) // イ: still in DBCS run, no extra shift
	require.Equal(t, []byte{0x43, 0x62}, out)

	out = sess.EncodeRune('A') // back to SBCS
	require.Equal(t, []byte{ShiftIn, 0xC1}, out)

	require.Nil(t, sess.Flush()) // already closed
}
