package naf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFourBitPackVector(t *testing.T) {
	seq := []byte("ACTTAGACATGCAGTAAAAGCTA")
	want := []byte{72, 17, 40, 72, 24, 66, 40, 129, 136, 40, 20, 8}
	require.Equal(t, want, PackFourBit(seq))
}

func TestFourBitUnpackVector(t *testing.T) {
	packed := []byte{72, 17, 40, 72, 24, 66, 40, 129, 136, 40, 20, 8}
	require.Equal(t, []byte("ACTTAGACATGCAGTAAAAGCTA"), UnpackFourBit(packed, 23))
}

func TestFourBitRoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"A",
		"AC",
		"ACGT",
		"ACTTAGACATGCAGTAAAAGCTA",
		"NNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNNN",
		"-TGKCYSBAWRDMHVN",
	} {
		packed := PackFourBit([]byte(s))
		require.Equal(t, (len(s)+1)/2, len(packed))
		require.Equal(t, []byte(s), UnpackFourBit(packed, len(s)))
	}
}

func TestFourBitUnrecognizedSymbolMapsToGap(t *testing.T) {
	packed := PackFourBit([]byte("Z"))
	require.Equal(t, []byte("-"), UnpackFourBit(packed, 1))
}
