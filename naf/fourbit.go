package naf

import "github.com/nafio/naf/biosimd"

// fourBitAlphabet is the 16-symbol IUPAC alphabet FourBit packs, indexed by
// its 4-bit code.
var fourBitAlphabet = [16]byte{
	'-', 'T', 'G', 'K', 'C', 'Y', 'S', 'B',
	'A', 'W', 'R', 'D', 'M', 'H', 'V', 'N',
}

// fourBitUnpackTable drives biosimd.UnpackAndReplaceSeq: code -> ASCII.
var fourBitUnpackTable = biosimd.MakeNibbleLookupTable(fourBitAlphabet)

// fourBitEncodeTable maps every possible input byte to its 4-bit code.
// Symbols outside the alphabet (including lowercase; callers are expected
// to run CleanSequence first) map to code 0 ('-').
var fourBitEncodeTable = buildFourBitEncodeTable()

func buildFourBitEncodeTable() (t [256]byte) {
	for i, sym := range fourBitAlphabet {
		t[sym] = byte(i)
	}
	return t
}

// swapNibble exchanges the high and low nibble of a byte. NAF packs the
// first symbol of a pair into the low nibble and the second into the high
// nibble; biosimd.PackSeq/UnpackAndReplaceSeq do the reverse (first symbol
// high), so a nibble swap bridges the two conventions while still letting
// biosimd do the actual bit-twiddling.
func swapNibble(b byte) byte {
	return (b << 4) | (b >> 4)
}

// PackFourBit packs ASCII symbols into the NAF FourBit representation: two
// symbols per byte, first symbol in the low nibble, second in the high
// nibble. Symbols not in the 16-symbol alphabet are mapped to '-' (code 0),
// per the format's unrecognized-symbol rule. An odd-length input's final
// byte has its high nibble zero-padded (the implicit '-' partner).
func PackFourBit(symbols []byte) []byte {
	codes := make([]byte, len(symbols))
	for i, s := range symbols {
		codes[i] = fourBitEncodeTable[s]
	}
	packed := make([]byte, (len(codes)+1)/2)
	biosimd.PackSeq(packed, codes)
	for i, b := range packed {
		packed[i] = swapNibble(b)
	}
	return packed
}

// UnpackFourBit unpacks packed FourBit bytes back into ASCII symbols,
// truncating the result to exactly n symbols (n may be odd, discarding the
// padding nibble of the final byte).
func UnpackFourBit(packed []byte, n int) []byte {
	swapped := make([]byte, len(packed))
	for i, b := range packed {
		swapped[i] = swapNibble(b)
	}
	out := make([]byte, n)
	biosimd.UnpackAndReplaceSeq(out, swapped, &fourBitUnpackTable)
	return out
}
