package naf

import (
	"io"
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

// maxVarintBytes bounds a VarInt to the widest value this package's
// uint64 accumulator can hold without wrapping: ceil(64/7) = 10
// bytes. A wire VarInt requiring more bytes than this
// encodes a value no accumulator here can represent, and is rejected
// with ErrOversizeDeclared rather than silently truncated.
const maxVarintBytes = 10

// overflowsUint64 reports whether acc*128+digit would exceed the range
// of a uint64, i.e. whether decoding one more 7-bit group would wrap.
func overflowsUint64(acc uint64, digit byte) bool {
	if acc >= 1<<57 {
		return true
	}
	return acc*128 > math.MaxUint64-uint64(digit)
}

// AppendVarint appends the VarInt encoding of v to dst and returns the
// extended slice. v=0 encodes as the single byte 0x00; otherwise the
// minimum-length big-endian base-128 sequence is produced, continuation
// bit (0x80) set on every byte but the last.
func AppendVarint(dst []byte, v uint64) []byte {
	if v == 0 {
		return append(dst, 0x00)
	}

	// Collect 7-bit groups, most significant first.
	nbits := bits.Len64(v)
	ngroups := (nbits + 6) / 7
	start := len(dst)
	dst = append(dst, make([]byte, ngroups)...)
	for i := ngroups - 1; i >= 0; i-- {
		dst[start+i] = byte(v & 0x7F)
		v >>= 7
	}
	for i := 0; i < ngroups-1; i++ {
		dst[start+i] |= 0x80
	}
	return dst
}

// EncodeVarint returns the VarInt encoding of v as a freshly allocated
// slice.
func EncodeVarint(v uint64) []byte {
	return AppendVarint(make([]byte, 0, 10), v)
}

// DecodeVarint decodes a VarInt from the front of b, returning the value
// and the number of bytes consumed. It returns ErrTruncated if b runs out
// before a terminator byte (high bit clear) is seen, and
// ErrOversizeDeclared if decoding would require more than maxVarintBytes
// bytes or would overflow a uint64.
func DecodeVarint(b []byte) (uint64, int, error) {
	var acc uint64
	for i := 0; i < len(b); i++ {
		if i >= maxVarintBytes {
			return 0, 0, errors.Wrap(ErrOversizeDeclared, "varint too long")
		}
		c := b[i]
		digit := c & 0x7F
		if overflowsUint64(acc, digit) {
			return 0, 0, errors.Wrap(ErrOversizeDeclared, "varint exceeds uint64 range")
		}
		acc = acc*128 + uint64(digit)
		if c&0x80 == 0 {
			return acc, i + 1, nil
		}
	}
	return 0, 0, errors.Wrap(ErrTruncated, "varint")
}

// ReadVarint reads a VarInt from r one byte at a time, mirroring the
// streaming decode contract (partial reads fail with ErrTruncated rather
// than blocking, and an encoding that would overflow a uint64 fails with
// ErrOversizeDeclared instead of wrapping).
func ReadVarint(r io.ByteReader) (uint64, error) {
	var acc uint64
	for i := 0; ; i++ {
		if i >= maxVarintBytes {
			return 0, errors.Wrap(ErrOversizeDeclared, "varint too long")
		}
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, errors.Wrap(ErrTruncated, "varint")
			}
			return 0, errors.Wrap(ErrIO, err.Error())
		}
		digit := c & 0x7F
		if overflowsUint64(acc, digit) {
			return 0, errors.Wrap(ErrOversizeDeclared, "varint exceeds uint64 range")
		}
		acc = acc*128 + uint64(digit)
		if c&0x80 == 0 {
			return acc, nil
		}
	}
}

// WriteVarint writes the VarInt encoding of v to w.
func WriteVarint(w io.Writer, v uint64) error {
	var buf [10]byte
	enc := AppendVarint(buf[:0], v)
	_, err := w.Write(enc)
	return err
}
