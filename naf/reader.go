package naf

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Reader parses a NAF byte source and exposes its columns. Open reads the
// header and every block (sizes and compressed payload) eagerly, then runs
// the post-load consistency checks, which decompress every present column
// except Title; Title is decompressed when first asked for. Decompressed
// columns are cached.
type Reader struct {
	header Header
	codec  Decompressor
	limits Limits

	blocks map[Kind]*Block

	decoded map[Kind][]byte
}

// Open parses the header and block manifest from r (not retained after
// Open returns; all block payloads are slurped into memory at this
// point, matching the "whole-column decompression is acceptable"
// non-goal). codec must match the one the file was written with; NAF
// carries no per-file codec tag.
func Open(r io.Reader, codec Decompressor, limits Limits) (*Reader, error) {
	br := bufio.NewReader(r)
	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}

	rd := &Reader{header: *h, codec: codec, limits: limits, blocks: map[Kind]*Block{}, decoded: map[Kind][]byte{}}
	for _, kind := range h.Flags.Kinds() {
		block, err := ReadBlock(kind, br, limits)
		if err != nil {
			return nil, err
		}
		rd.blocks[kind] = block
	}
	if err := rd.checkConsistency(); err != nil {
		return nil, err
	}
	return rd, nil
}

// Header returns the parsed header.
func (r *Reader) Header() Header { return r.header }

// Blocks returns the raw, still-compressed Block for every column present
// in the file, keyed by Kind. Callers must not mutate the returned Block
// values' Payload slices.
func (r *Reader) Blocks() map[Kind]*Block {
	blocks := make(map[Kind]*Block, len(r.blocks))
	for k, b := range r.blocks {
		blocks[k] = b
	}
	return blocks
}

// WriteTo re-serializes the parsed header and every block, unmodified
// and in their original flag order, to w. Because Open never mutates a
// Block's stored size fields or compressed payload, a freshly parsed
// Reader's WriteTo reproduces its source bytes exactly: write(parse(B))
// = B for any valid NAF byte sequence B.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := r.header.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}
	for _, kind := range r.header.Flags.Kinds() {
		block, ok := r.blocks[kind]
		if !ok {
			continue
		}
		n, err := block.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// HasColumn reports whether kind's flag bit was set in the header.
func (r *Reader) HasColumn(kind Kind) bool {
	_, ok := r.blocks[kind]
	return ok
}

// column lazily decompresses and caches the plaintext of kind.
func (r *Reader) column(kind Kind) ([]byte, error) {
	if p, ok := r.decoded[kind]; ok {
		return p, nil
	}
	block, ok := r.blocks[kind]
	if !ok {
		return nil, nil
	}
	plaintext, err := block.Decompress(r.codec)
	if err != nil {
		return nil, err
	}
	r.decoded[kind] = plaintext
	return plaintext, nil
}

// Title returns the document Title column, or "" if absent.
func (r *Reader) Title() (string, error) {
	p, err := r.column(KindTitle)
	return string(p), err
}

// IDs returns every record's primary identifier, in record order.
func (r *Reader) IDs() ([][]byte, error) {
	return r.nulSeparated(KindIDs)
}

// Names returns every record's secondary comment, in record order.
func (r *Reader) Names() ([][]byte, error) {
	return r.nulSeparated(KindNames)
}

func (r *Reader) nulSeparated(kind Kind) ([][]byte, error) {
	p, err := r.column(kind)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	parts := bytes.Split(p, []byte{0x00})
	// A well-formed column ends with a terminator, leaving one empty
	// trailing element after Split.
	if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	return parts, nil
}

// Lengths returns every record's unmasked symbol count, in record order.
func (r *Reader) Lengths() ([]uint64, error) {
	p, err := r.column(KindLengths)
	if err != nil || p == nil {
		return nil, err
	}
	lengths := make([]uint64, 0, r.header.NumSequences)
	for len(p) > 0 {
		v, n, err := DecodeVarint(p)
		if err != nil {
			return nil, errors.Wrap(ErrCorruptFile, "Lengths column")
		}
		lengths = append(lengths, v)
		p = p[n:]
	}
	return lengths, nil
}

// MaskRuns returns the flattened alternating unmasked/masked run sequence
// for the whole file; callers use Lengths to find each record's runs'
// boundaries, per the format's run-length encoding.
func (r *Reader) MaskRuns() ([]MaskRun, error) {
	p, err := r.column(KindMask)
	if err != nil || p == nil {
		return nil, err
	}
	var runs []MaskRun
	for len(p) > 0 {
		u, n, err := DecodeVarint(p)
		if err != nil {
			return nil, errors.Wrap(ErrCorruptFile, "Mask column")
		}
		p = p[n:]
		m, n, err := DecodeVarint(p)
		if err != nil {
			return nil, errors.Wrap(ErrCorruptFile, "Mask column")
		}
		p = p[n:]
		runs = append(runs, MaskRun{Unmasked: u, Masked: m})
	}
	return runs, nil
}

// Sequences returns every record's decoded symbols, in record order,
// using Lengths to split the concatenated Sequence column. For Text
// archives the column is returned byte-for-byte; for DNA/RNA/Protein it
// is FourBit-unpacked first.
func (r *Reader) Sequences() ([][]byte, error) {
	lengths, err := r.Lengths()
	if err != nil {
		return nil, err
	}
	raw, err := r.column(KindSequence)
	if err != nil || raw == nil {
		return nil, err
	}

	var total uint64
	for _, l := range lengths {
		total += l
	}

	var decoded []byte
	if r.header.SequenceType.fourBitEligible() {
		decoded = UnpackFourBit(raw, int(total))
	} else {
		decoded = raw
	}
	if uint64(len(decoded)) != total {
		return nil, errors.Wrap(ErrCorruptFile, "Sequence column length disagrees with Lengths")
	}

	out := make([][]byte, len(lengths))
	var off uint64
	for i, l := range lengths {
		out[i] = decoded[off : off+l]
		off += l
	}
	return out, nil
}

// Qualities returns every record's quality bytes, split the same way as
// Sequences.
func (r *Reader) Qualities() ([][]byte, error) {
	lengths, err := r.Lengths()
	if err != nil {
		return nil, err
	}
	raw, err := r.column(KindQuality)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make([][]byte, len(lengths))
	var off uint64
	for i, l := range lengths {
		if off+l > uint64(len(raw)) {
			return nil, errors.Wrap(ErrCorruptFile, "Quality column shorter than Lengths implies")
		}
		out[i] = raw[off : off+l]
		off += l
	}
	return out, nil
}

// checkConsistency runs the post-load checks from §4.6: ID/Names item
// counts, Lengths count, and the sum-of-Lengths identities against
// FourBit-decoded Sequence length, Mask run totals, and Quality byte
// count, whichever columns are present.
func (r *Reader) checkConsistency() error {
	n := r.header.NumSequences

	if r.HasColumn(KindIDs) {
		ids, err := r.IDs()
		if err != nil {
			return err
		}
		if uint64(len(ids)) != n {
			return errors.Wrapf(ErrCorruptFile, "IDs has %d entries, want %d", len(ids), n)
		}
	}
	if r.HasColumn(KindNames) {
		names, err := r.Names()
		if err != nil {
			return err
		}
		if uint64(len(names)) != n {
			return errors.Wrapf(ErrCorruptFile, "Names has %d entries, want %d", len(names), n)
		}
	}

	var lengths []uint64
	var total uint64
	if r.HasColumn(KindLengths) {
		var err error
		lengths, err = r.Lengths()
		if err != nil {
			return err
		}
		if uint64(len(lengths)) != n {
			return errors.Wrapf(ErrCorruptFile, "Lengths has %d entries, want %d", len(lengths), n)
		}
		for _, l := range lengths {
			total += l
		}
	}

	if r.HasColumn(KindMask) {
		runs, err := r.MaskRuns()
		if err != nil {
			return err
		}
		var maskTotal uint64
		for _, run := range runs {
			maskTotal += run.Unmasked + run.Masked
		}
		if maskTotal != total {
			return errors.Wrapf(ErrCorruptFile, "Mask runs sum to %d, Lengths sum to %d", maskTotal, total)
		}
	}

	if r.HasColumn(KindSequence) {
		raw, err := r.column(KindSequence)
		if err != nil {
			return err
		}
		var symbolCount uint64
		if r.header.SequenceType.fourBitEligible() {
			symbolCount = uint64(len(raw)) * 2
			// The final nibble is padding when total is odd; Lengths'
			// sum is the ground truth for the true symbol count.
		} else {
			symbolCount = uint64(len(raw))
		}
		if r.header.SequenceType.fourBitEligible() {
			if symbolCount != total && symbolCount != total+1 {
				return errors.Wrapf(ErrCorruptFile, "Sequence column implies %d symbols, Lengths sum to %d", symbolCount, total)
			}
		} else if symbolCount != total {
			return errors.Wrapf(ErrCorruptFile, "Sequence column has %d bytes, Lengths sum to %d", symbolCount, total)
		}
	}

	if r.HasColumn(KindQuality) {
		raw, err := r.column(KindQuality)
		if err != nil {
			return err
		}
		if uint64(len(raw)) != total {
			return errors.Wrapf(ErrCorruptFile, "Quality has %d bytes, Lengths sum to %d", len(raw), total)
		}
	}

	return nil
}
