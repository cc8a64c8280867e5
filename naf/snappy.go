package naf

import (
	"io"

	"github.com/golang/snappy"
)

// SnappyCodec is a lighter-weight alternative block codec, grounded on the
// same snappy.NewBufferedWriter/snappy.NewReader pairing used for
// self-delimited streaming frames elsewhere in this codebase. It trades
// compression ratio for speed relative to ZstdCodec.
type SnappyCodec struct{}

func (c SnappyCodec) Name() string { return "snappy" }

func (c SnappyCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (c SnappyCodec) NewReader(r io.Reader) (io.Reader, error) {
	return snappy.NewReader(r), nil
}
