package naf

import "io"

// Compressor wraps a single column's plaintext with a streaming,
// general-purpose codec. NAF treats the compressor as an opaque
// collaborator: it does not know about column boundaries, only about the
// bytes it is handed.
//
// Writers must Close the returned io.WriteCloser exactly once to flush a
// self-delimited frame; the frame's length becomes the block's
// compressed_size.
type Compressor interface {
	// NewWriter wraps w, returning a write-closer whose Close finishes
	// the compressed frame.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// Decompressor is the read-side counterpart of Compressor.
type Decompressor interface {
	// NewReader wraps r, returning a reader that yields the decoded
	// plaintext of a single compressed frame.
	NewReader(r io.Reader) (io.Reader, error)
}

// Codec bundles a Compressor and Decompressor that agree on wire format;
// this is what Writer and Reader are configured with.
type Codec interface {
	Compressor
	Decompressor
	// Name identifies the codec for diagnostics; it is not written to
	// the NAF stream, which has no per-block codec tag (the whole file
	// is compressed by one codec).
	Name() string
}

// Limits bounds how much a Reader will trust declared sizes before it has
// verified them against real bytes, guarding against a corrupt or
// adversarial header inflating sizes to exhaust memory.
type Limits struct {
	// MaxOriginalSize caps a block's declared original_size. Zero means
	// no extra limit beyond MaxCompressedSize.
	MaxOriginalSize uint64
	// MaxCompressedSize caps a block's declared compressed_size. Zero
	// means use DefaultMaxBlockSize.
	MaxCompressedSize uint64
}

// DefaultMaxBlockSize is the compressed-size ceiling applied when Limits
// leaves MaxCompressedSize at zero.
const DefaultMaxBlockSize = 4 << 30 // 4 GiB

func (l Limits) maxCompressed() uint64 {
	if l.MaxCompressedSize == 0 {
		return DefaultMaxBlockSize
	}
	return l.MaxCompressedSize
}

func (l Limits) checkCompressed(n uint64) error {
	if n > l.maxCompressed() {
		return ErrOversizeDeclared
	}
	return nil
}

func (l Limits) checkOriginal(n uint64) error {
	if l.MaxOriginalSize != 0 && n > l.MaxOriginalSize {
		return ErrOversizeDeclared
	}
	return nil
}
