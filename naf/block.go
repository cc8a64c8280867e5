package naf

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Block is the on-wire envelope for one column: two VarInts followed by
// exactly compressed_size bytes of compressor-produced payload. Kind is
// not stored in the serialized form; it is positional, fixed by the
// header's flag order, and is carried here only so callers can label a
// Block without threading the position back through.
type Block struct {
	Kind           Kind
	OriginalSize   uint64
	CompressedSize uint64
	Payload        []byte
}

// NewBlock compresses plaintext with codec and returns the resulting
// Block. The compressed frame is fully buffered in memory so that
// CompressedSize is known before WriteTo ever writes a byte, matching the
// write-path requirement that a block's size prefix precede its payload.
func NewBlock(kind Kind, plaintext []byte, codec Compressor) (*Block, error) {
	var buf bytes.Buffer
	wc, err := codec.NewWriter(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "naf: compressor init")
	}
	if len(plaintext) > 0 {
		if _, err := wc.Write(plaintext); err != nil {
			wc.Close()
			return nil, errors.Wrap(ErrCompressionError, err.Error())
		}
	}
	if err := wc.Close(); err != nil {
		return nil, errors.Wrap(ErrCompressionError, err.Error())
	}
	return &Block{
		Kind:           kind,
		OriginalSize:   uint64(len(plaintext)),
		CompressedSize: uint64(buf.Len()),
		Payload:        buf.Bytes(),
	}, nil
}

// WriteTo serializes the block as VarInt(original_size) ||
// VarInt(compressed_size) || payload.
func (b *Block) WriteTo(w io.Writer) (int64, error) {
	var scratch bytes.Buffer
	scratch.Write(EncodeVarint(b.OriginalSize))
	scratch.Write(EncodeVarint(b.CompressedSize))
	n1, err := w.Write(scratch.Bytes())
	if err != nil {
		return int64(n1), errors.Wrap(ErrIO, err.Error())
	}
	n2, err := w.Write(b.Payload)
	if err != nil {
		return int64(n1 + n2), errors.Wrap(ErrIO, err.Error())
	}
	return int64(n1 + n2), nil
}

// ReadBlock reads a block's two size VarInts from r and slurps exactly
// compressed_size bytes of payload, checking both sizes against limits.
// It does not decompress; call Decompress for that.
func ReadBlock(kind Kind, r *bufio.Reader, limits Limits) (*Block, error) {
	origSize, err := ReadVarint(r)
	if err != nil {
		return nil, errors.Wrapf(err, "naf: %s block original_size", kind)
	}
	if err := limits.checkOriginal(origSize); err != nil {
		return nil, errors.Wrapf(err, "naf: %s block original_size", kind)
	}
	compSize, err := ReadVarint(r)
	if err != nil {
		return nil, errors.Wrapf(err, "naf: %s block compressed_size", kind)
	}
	if err := limits.checkCompressed(compSize); err != nil {
		return nil, errors.Wrapf(err, "naf: %s block compressed_size", kind)
	}
	payload := make([]byte, compSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, errors.Wrapf(ErrTruncated, "naf: %s block payload", kind)
		}
		return nil, errors.Wrapf(ErrIO, "naf: %s block payload: %v", kind, err)
	}
	return &Block{Kind: kind, OriginalSize: origSize, CompressedSize: compSize, Payload: payload}, nil
}

// Decompress runs codec's decoder over the block's payload and returns the
// plaintext, checking the result's length against OriginalSize.
func (b *Block) Decompress(codec Decompressor) ([]byte, error) {
	if b.OriginalSize == 0 {
		return nil, nil
	}
	r, err := codec.NewReader(bytes.NewReader(b.Payload))
	if err != nil {
		return nil, errors.Wrapf(ErrCompressionError, "%s: %v", b.Kind, err)
	}
	defer func() {
		switch c := r.(type) {
		case io.Closer:
			c.Close()
		case interface{ Close() }:
			c.Close()
		}
	}()
	plaintext := make([]byte, b.OriginalSize)
	if _, err := io.ReadFull(r, plaintext); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrSizeMismatch, "%s: decompressed size is less than declared original_size", b.Kind)
		}
		return nil, errors.Wrapf(ErrCompressionError, "%s: %v", b.Kind, err)
	}
	// Confirm the frame does not carry trailing garbage beyond
	// original_size by checking for one more byte before releasing the
	// decoder.
	var extra [1]byte
	n, _ := r.Read(extra[:])
	if n > 0 {
		return nil, errors.Wrapf(ErrSizeMismatch, "%s: decompressed size exceeds declared original_size", b.Kind)
	}
	return plaintext, nil
}
