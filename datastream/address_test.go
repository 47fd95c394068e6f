package datastream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferAddressRoundTrip12Bit(t *testing.T) {
	for row := 1; row <= 24; row++ {
		for _, col := range []int{1, 40, 80} {
			hi, lo := encodeBufferAddress(row, col, 24, 80)
			gotRow, gotCol := decodeBufferAddress(hi, lo, 24, 80)
			require.Equal(t, row, gotRow)
			require.Equal(t, col, gotCol)
		}
	}
}

func TestBufferAddressRoundTrip14Bit(t *testing.T) {
	for row := 1; row <= 27; row++ {
		for _, col := range []int{1, 66, 132} {
			hi, lo := encodeBufferAddress(row, col, 27, 132)
			gotRow, gotCol := decodeBufferAddress(hi, lo, 27, 132)
			require.Equal(t, row, gotRow)
			require.Equal(t, col, gotCol)
		}
	}
}

func TestHomePositionIsRowOneColOne(t *testing.T) {
	hi, lo := encodeBufferAddress(1, 1, 24, 80)
	require.Equal(t, byte(0), hi)
	require.Equal(t, byte(0), lo)
}
