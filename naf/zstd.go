package naf

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// ZstdCodec is the default block codec: github.com/klauspost/compress/zstd
// gives good ratio on the highly repetitive VarInt and FourBit column
// plaintexts at a speed the older gzip-family codecs cannot match.
type ZstdCodec struct {
	// Level selects the encoder's speed/ratio trade-off. Zero uses the
	// library default (zstd.SpeedDefault).
	Level zstd.EncoderLevel
}

func (c ZstdCodec) Name() string { return "zstd" }

func (c ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	opts := []zstd.EOption{zstd.WithEncoderCRC(false)}
	if c.Level != 0 {
		opts = append(opts, zstd.WithEncoderLevel(c.Level))
	}
	enc, err := zstd.NewWriter(w, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "naf: zstd writer")
	}
	return enc, nil
}

func (c ZstdCodec) NewReader(r io.Reader) (io.Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "naf: zstd reader")
	}
	return dec, nil
}
